// Package judgment is the boundary to the vision-capable reasoning
// engine. The investigator hands it the aggregated evidence and receives
// a structured judgment; any failure here is fatal to the investigation.
package judgment

import (
	"context"
	"fmt"
	"strings"

	"github.com/Ticoworld/veritas/internal/domain"
)

// EvidenceBundle is everything gathered before the AI call. All fields
// except Facts may be nil (degraded collectors).
type EvidenceBundle struct {
	Mint    string
	Facts   *domain.OnChainFacts
	Holders *domain.HolderDistribution
	Creator *domain.CreatorProfile
	Market  *domain.MarketSnapshot
	Audit   *domain.AuditReport
	History *domain.CreatorHistory
	Visual  *domain.VisualEvidence

	DeterministicScore int
	ScoreReasons       []string
}

// Engine obtains a structured judgment for an evidence bundle.
type Engine interface {
	Judge(ctx context.Context, bundle *EvidenceBundle) (*domain.AIJudgment, error)
}

// Digest renders the bundle as the evidence text handed to the engine.
func (b *EvidenceBundle) Digest() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Token mint: %s\n", b.Mint)

	if b.Facts != nil {
		fmt.Fprintf(&sb, "Mint authority: %s\n", authorityString(b.Facts.MintAuthority))
		fmt.Fprintf(&sb, "Freeze authority: %s\n", authorityString(b.Facts.FreezeAuthority))
		fmt.Fprintf(&sb, "Supply: %.0f (decimals %d, %s)\n", b.Facts.SupplyUI(), b.Facts.Decimals, b.Facts.TokenProgram)
	}

	if b.Holders != nil {
		fmt.Fprintf(&sb, "Top-10 holder concentration: %.1f%% (%d pool accounts excluded)\n",
			b.Holders.Top10Percent(), b.Holders.FilteredOut)
	}

	if b.Creator != nil {
		fmt.Fprintf(&sb, "Creator %s holds %.2f%% (dumped=%t whale=%t)\n",
			b.Creator.Address, b.Creator.Percent, b.Creator.Dumped, b.Creator.Whale)
	}

	if b.Market != nil {
		fmt.Fprintf(&sb, "Liquidity $%.0f, mcap $%.0f, 24h volume $%.0f, buys/sells %d/%d, pair age %.1fh\n",
			b.Market.LiquidityUSD, b.Market.MarketCapUSD, b.Market.Volume24hUSD,
			b.Market.Buys24h, b.Market.Sells24h, b.Market.PairAgeHours)
		fmt.Fprintf(&sb, "Bot activity: %s\n", b.Market.BotActivity)
		for _, a := range b.Market.Anomalies {
			fmt.Fprintf(&sb, "Market anomaly: %s\n", a)
		}
	} else {
		sb.WriteString("Market data: unavailable (no indexed pair)\n")
	}

	if b.Audit != nil {
		fmt.Fprintf(&sb, "Audit risk score: %d\n", b.Audit.Score)
		for _, r := range b.Audit.Risks {
			fmt.Fprintf(&sb, "Audit finding [%s]: %s - %s\n", r.Level, r.Name, r.Description)
		}
	} else {
		sb.WriteString("Audit report: unavailable\n")
	}

	if b.History != nil {
		fmt.Fprintf(&sb, "Creator prior token launches: %d (serial launcher=%t)\n",
			b.History.PriorTokens, b.History.SerialLauncher)
	}

	if b.Visual != nil {
		fmt.Fprintf(&sb, "Website screenshot attached (%s, source %s)\n", b.Visual.MediaType, b.Visual.SourceURL)
	} else {
		sb.WriteString("No website screenshot captured\n")
	}

	fmt.Fprintf(&sb, "Rule-based score: %d\n", b.DeterministicScore)
	for _, r := range b.ScoreReasons {
		fmt.Fprintf(&sb, "Rule penalty: %s\n", r)
	}

	return sb.String()
}

func authorityString(a *string) string {
	if a == nil {
		return "revoked"
	}
	return *a
}
