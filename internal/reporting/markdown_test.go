package reporting

import (
	"strings"
	"testing"
	"time"

	"github.com/Ticoworld/veritas/internal/domain"
)

func sampleResult() *domain.InvestigationResult {
	authority := "AuthorityWallet111111111111111111111111111"
	return &domain.InvestigationResult{
		Mint:    "MintAddr111111111111111111111111111111111111",
		Score:   42,
		Verdict: domain.VerdictSuspicious,
		Facts: &domain.OnChainFacts{
			Mint:          "MintAddr111111111111111111111111111111111111",
			MintAuthority: &authority,
			Supply:        1_000_000_000_000,
			Decimals:      6,
			TokenProgram:  "spl-token",
		},
		Holders: &domain.HolderDistribution{
			Holders: []domain.Holder{
				{Address: "acc1", Owner: "wallet1", Percent: 25.5},
				{Address: "acc2", Owner: "", Percent: 10.0},
			},
			FilteredOut: 2,
		},
		Market: &domain.MarketSnapshot{
			PairAddress:  "pair1",
			Dex:          "raydium",
			PriceUSD:     0.0000012,
			LiquidityUSD: 15000,
			MarketCapUSD: 300000,
			BotActivity:  domain.BotActivityMedium,
			Anomalies:    []string{"24h volume is 12.0x the available liquidity"},
		},
		Audit: &domain.AuditReport{
			Score: 55,
			Risks: []domain.AuditRisk{
				{Name: "Mint authority", Description: "still enabled", Level: domain.AuditRiskDanger},
			},
		},
		Creator: &domain.CreatorProfile{Address: authority, Percent: 25.5, Whale: true},
		History: &domain.CreatorHistory{Creator: authority, PriorTokens: 3, SerialLauncher: true},
		Judgment: &domain.AIJudgment{
			Score:   40,
			Verdict: domain.VerdictSuspicious,
			Summary: "Concentrated supply with active mint authority.",
			Lies:    []string{"claims renounced ownership, mint authority is active"},
		},
		DeterministicScore: 45,
		ScoreReasons:       []string{"-40 mint authority not revoked"},
		Degraded:           []string{"history"},
		StartedAt:          time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Duration:           3200 * time.Millisecond,
	}
}

func TestRenderMarkdown_FullResult(t *testing.T) {
	md := RenderMarkdown(sampleResult())

	for _, want := range []string{
		"# Investigation: MintAddr111111111111111111111111111111111111",
		"**Verdict: SUSPICIOUS** | Score: 42/100",
		"| Mint Authority | `AuthorityWallet111111111111111111111111111` (ACTIVE) |",
		"| Freeze Authority | revoked |",
		"Top 10 concentration: 35.50%",
		"| (unresolved) | acc2 | 10.00% |",
		"| Pair | pair1 (raydium) |",
		"| Bot Activity | MEDIUM |",
		"Risk score: 55",
		"| danger | Mint authority | still enabled |",
		"- Holds more than 20% of supply",
		"- Prior launches: 3",
		"- Serial launcher",
		"Concentrated supply with active mint authority.",
		"claims renounced ownership, mint authority is active",
		"Deterministic score: 45",
		"- -40 mint authority not revoked",
		"## Degraded Collectors",
		"- history",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestRenderMarkdown_FastPath(t *testing.T) {
	r := &domain.InvestigationResult{
		Mint:     "MintAddr",
		Score:    0,
		Verdict:  domain.VerdictDanger,
		FastPath: true,
		Offender: &domain.OffenderRecord{
			Creator:        "BadCreator",
			Reason:         "rug pattern",
			DetectionCount: 4,
			FirstFlaggedAt: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		},
		StartedAt: time.Now(),
	}

	md := RenderMarkdown(r)
	if !strings.Contains(md, "## Known Offender") {
		t.Error("fast-path report missing offender section")
	}
	if !strings.Contains(md, "Detections: 4") {
		t.Error("fast-path report missing detection count")
	}
	if strings.Contains(md, "## On-Chain Facts") {
		t.Error("fast-path report should not include evidence sections")
	}
}

func TestRenderMarkdown_DegradedEvidence(t *testing.T) {
	r := sampleResult()
	r.Market = nil
	r.Audit = nil
	r.Creator = nil

	md := RenderMarkdown(r)
	if !strings.Contains(md, "No trading pair found.") {
		t.Error("missing market placeholder")
	}
	if !strings.Contains(md, "Audit unavailable.") {
		t.Error("missing audit placeholder")
	}
	if !strings.Contains(md, "Creator could not be identified.") {
		t.Error("missing creator placeholder")
	}
}
