// Package scoring maps collected evidence to the bounded trust score:
// a deterministic rule-based baseline, then a blend with the AI judgment
// under the ceiling invariant.
package scoring

import (
	"fmt"

	"github.com/Ticoworld/veritas/internal/domain"
)

// Config carries the hand-tuned penalty thresholds. These are policy
// knobs, not derived from a model; changing one is a policy decision.
type Config struct {
	MintAuthorityPenalty   int
	FreezeAuthorityPenalty int

	Top10HighPercent   float64
	Top10HighPenalty   int
	Top10MediumPercent float64
	Top10MediumPenalty int

	CreatorDumpedPenalty int
	CreatorWhalePenalty  int

	LiquidityFloorUSD     float64
	LiquidityFloorPenalty int
	LiquidityRatioFloor   float64
	LiquidityRatioPenalty int

	FreshPairHours   float64
	FreshPairPenalty int

	AuditHighScore    int
	AuditHighPenalty  int
	AuditMediumScore  int
	AuditMediumPenalty int

	// MaxScore is the upper clamp. Kept below 100: no automated
	// heuristic alone may certify a token as fully safe.
	MaxScore int
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		MintAuthorityPenalty:   40,
		FreezeAuthorityPenalty: 40,

		Top10HighPercent:   50,
		Top10HighPenalty:   15,
		Top10MediumPercent: 30,
		Top10MediumPenalty: 10,

		CreatorDumpedPenalty: 15,
		CreatorWhalePenalty:  10,

		LiquidityFloorUSD:     5000,
		LiquidityFloorPenalty: 20,
		LiquidityRatioFloor:   0.02,
		LiquidityRatioPenalty: 15,

		FreshPairHours:   1,
		FreshPairPenalty: 10,

		AuditHighScore:     70,
		AuditHighPenalty:   20,
		AuditMediumScore:   40,
		AuditMediumPenalty: 10,

		MaxScore: 88,
	}
}

// Evidence is the scorer input. Nil fields mean the corresponding
// collector degraded; their penalties simply do not fire.
type Evidence struct {
	Facts   *domain.OnChainFacts
	Holders *domain.HolderDistribution
	Creator *domain.CreatorProfile
	Market  *domain.MarketSnapshot
	Audit   *domain.AuditReport
}

// Score computes the deterministic risk score: start at 100, subtract
// fixed penalties, clamp to [0, MaxScore]. Referentially transparent;
// no I/O, no side effects.
func Score(cfg Config, ev Evidence) (int, []string) {
	score := 100
	var reasons []string

	penalize := func(points int, reason string) {
		score -= points
		reasons = append(reasons, fmt.Sprintf("-%d %s", points, reason))
	}

	if ev.Facts != nil {
		if ev.Facts.MintAuthority != nil {
			penalize(cfg.MintAuthorityPenalty, "mint authority still enabled")
		}
		if ev.Facts.FreezeAuthority != nil {
			penalize(cfg.FreezeAuthorityPenalty, "freeze authority still enabled")
		}
	}

	if ev.Holders != nil {
		top10 := ev.Holders.Top10Percent()
		switch {
		case top10 > cfg.Top10HighPercent:
			penalize(cfg.Top10HighPenalty, fmt.Sprintf("top-10 holders control %.1f%% of supply", top10))
		case top10 > cfg.Top10MediumPercent:
			penalize(cfg.Top10MediumPenalty, fmt.Sprintf("top-10 holders control %.1f%% of supply", top10))
		}
	}

	if ev.Creator != nil {
		if ev.Creator.Dumped {
			penalize(cfg.CreatorDumpedPenalty, "creator has dumped their holding")
		}
		if ev.Creator.Whale {
			penalize(cfg.CreatorWhalePenalty, fmt.Sprintf("creator holds %.1f%% of supply", ev.Creator.Percent))
		}
	}

	if ev.Market != nil {
		switch {
		case ev.Market.LiquidityUSD < cfg.LiquidityFloorUSD:
			penalize(cfg.LiquidityFloorPenalty, fmt.Sprintf("liquidity $%.0f under floor", ev.Market.LiquidityUSD))
		case ev.Market.MarketCapUSD > 0 && ev.Market.LiquidityRatio() < cfg.LiquidityRatioFloor:
			penalize(cfg.LiquidityRatioPenalty, fmt.Sprintf("liquidity is %.1f%% of market cap", ev.Market.LiquidityRatio()*100))
		}
		if ev.Market.PairAgeHours > 0 && ev.Market.PairAgeHours < cfg.FreshPairHours {
			penalize(cfg.FreshPairPenalty, "trading pair under one hour old")
		}
	}

	if ev.Audit != nil {
		switch {
		case ev.Audit.Score >= cfg.AuditHighScore:
			penalize(cfg.AuditHighPenalty, fmt.Sprintf("audit risk score %d", ev.Audit.Score))
		case ev.Audit.Score >= cfg.AuditMediumScore:
			penalize(cfg.AuditMediumPenalty, fmt.Sprintf("audit risk score %d", ev.Audit.Score))
		}
	}

	if score < 0 {
		score = 0
	}
	if score > cfg.MaxScore {
		score = cfg.MaxScore
	}
	return score, reasons
}
