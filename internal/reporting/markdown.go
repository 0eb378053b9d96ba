// Package reporting renders completed investigations for humans.
package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/Ticoworld/veritas/internal/domain"
)

// RenderMarkdown renders an investigation result as a Markdown report.
func RenderMarkdown(r *domain.InvestigationResult) string {
	var sb strings.Builder

	// Header
	sb.WriteString(fmt.Sprintf("# Investigation: %s\n\n", r.Mint))
	sb.WriteString(fmt.Sprintf("**Verdict: %s** | Score: %d/100\n\n", r.Verdict, r.Score))
	sb.WriteString(fmt.Sprintf("Investigated: %s | Duration: %s\n\n",
		r.StartedAt.Format(time.RFC3339), r.Duration.Round(time.Millisecond)))

	if r.FastPath && r.Offender != nil {
		sb.WriteString("## Known Offender\n\n")
		sb.WriteString(fmt.Sprintf("Creator `%s` was previously flagged for: %s\n\n",
			r.Offender.Creator, r.Offender.Reason))
		sb.WriteString(fmt.Sprintf("Detections: %d | First flagged: %s\n\n",
			r.Offender.DetectionCount, r.Offender.FirstFlaggedAt.Format(time.RFC3339)))
		return sb.String()
	}

	// On-chain facts
	sb.WriteString("## On-Chain Facts\n\n")
	sb.WriteString("| Property | Value |\n")
	sb.WriteString("|----------|-------|\n")
	if f := r.Facts; f != nil {
		sb.WriteString(fmt.Sprintf("| Token Program | %s |\n", f.TokenProgram))
		sb.WriteString(fmt.Sprintf("| Supply | %.2f |\n", f.SupplyUI()))
		sb.WriteString(fmt.Sprintf("| Mint Authority | %s |\n", authorityCell(f.MintAuthority)))
		sb.WriteString(fmt.Sprintf("| Freeze Authority | %s |\n", authorityCell(f.FreezeAuthority)))
	}
	sb.WriteString("\n")

	// Holder distribution
	sb.WriteString("## Holder Distribution\n\n")
	if h := r.Holders; h != nil && len(h.Holders) > 0 {
		sb.WriteString(fmt.Sprintf("Top 10 concentration: %.2f%% | Pool accounts excluded: %d\n\n",
			h.Top10Percent(), h.FilteredOut))
		if h.Unfiltered {
			sb.WriteString("Pool exclusion emptied the set; showing unfiltered holders.\n\n")
		}
		sb.WriteString("| Owner | Token Account | Share |\n")
		sb.WriteString("|-------|---------------|-------|\n")
		for _, holder := range h.Holders {
			owner := holder.Owner
			if owner == "" {
				owner = "(unresolved)"
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %.2f%% |\n", owner, holder.Address, holder.Percent))
		}
	} else {
		sb.WriteString("No holder data available.\n")
	}
	sb.WriteString("\n")

	// Market
	sb.WriteString("## Market\n\n")
	if m := r.Market; m != nil {
		sb.WriteString("| Metric | Value |\n")
		sb.WriteString("|--------|-------|\n")
		sb.WriteString(fmt.Sprintf("| Pair | %s (%s) |\n", m.PairAddress, m.Dex))
		sb.WriteString(fmt.Sprintf("| Price | $%.8f |\n", m.PriceUSD))
		sb.WriteString(fmt.Sprintf("| Liquidity | $%.0f |\n", m.LiquidityUSD))
		sb.WriteString(fmt.Sprintf("| Market Cap | $%.0f |\n", m.MarketCapUSD))
		sb.WriteString(fmt.Sprintf("| 24h Volume | $%.0f |\n", m.Volume24hUSD))
		sb.WriteString(fmt.Sprintf("| 24h Buys / Sells | %d / %d |\n", m.Buys24h, m.Sells24h))
		sb.WriteString(fmt.Sprintf("| Pair Age | %.1fh |\n", m.PairAgeHours))
		sb.WriteString(fmt.Sprintf("| Bot Activity | %s |\n", m.BotActivity))
		if m.WebsiteURL != "" {
			sb.WriteString(fmt.Sprintf("| Website | %s |\n", m.WebsiteURL))
		}
		sb.WriteString("\n")
		for _, a := range m.Anomalies {
			sb.WriteString(fmt.Sprintf("- %s\n", a))
		}
		if len(m.Anomalies) > 0 {
			sb.WriteString("\n")
		}
	} else {
		sb.WriteString("No trading pair found.\n\n")
	}

	// Audit
	sb.WriteString("## Contract Audit\n\n")
	if a := r.Audit; a != nil {
		sb.WriteString(fmt.Sprintf("Risk score: %d (higher is riskier)\n\n", a.Score))
		if len(a.Risks) > 0 {
			sb.WriteString("| Level | Risk | Description |\n")
			sb.WriteString("|-------|------|-------------|\n")
			for _, risk := range a.Risks {
				sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n", risk.Level, risk.Name, risk.Description))
			}
			sb.WriteString("\n")
		}
	} else {
		sb.WriteString("Audit unavailable.\n\n")
	}

	// Creator
	sb.WriteString("## Creator\n\n")
	if c := r.Creator; c != nil {
		sb.WriteString(fmt.Sprintf("Address: `%s` | Holding: %.2f%%\n\n", c.Address, c.Percent))
		if c.Whale {
			sb.WriteString("- Holds more than 20% of supply\n")
		}
		if c.Dumped {
			sb.WriteString("- Holds less than 1% of supply\n")
		}
		if h := r.History; h != nil {
			sb.WriteString(fmt.Sprintf("- Prior launches: %d\n", h.PriorTokens))
			if h.SerialLauncher {
				sb.WriteString("- Serial launcher\n")
			}
		}
		sb.WriteString("\n")
	} else {
		sb.WriteString("Creator could not be identified.\n\n")
	}

	// AI judgment
	if j := r.Judgment; j != nil {
		sb.WriteString("## AI Judgment\n\n")
		sb.WriteString(fmt.Sprintf("Score: %d | Verdict: %s\n\n", j.Score, j.Verdict))
		if j.Summary != "" {
			sb.WriteString(j.Summary + "\n\n")
		}
		if len(j.Evidence) > 0 {
			sb.WriteString("### Evidence\n\n")
			for _, e := range j.Evidence {
				sb.WriteString(fmt.Sprintf("- %s\n", e))
			}
			sb.WriteString("\n")
		}
		if len(j.Lies) > 0 {
			sb.WriteString("### Claimed vs Observed\n\n")
			for _, l := range j.Lies {
				sb.WriteString(fmt.Sprintf("- %s\n", l))
			}
			sb.WriteString("\n")
		}
		if j.VisualReuse == domain.VisualReuseYes {
			sb.WriteString(fmt.Sprintf("**Visual reuse detected:** %s\n\n", j.VisualReuseReason))
		}
	}

	// Scoring breakdown
	sb.WriteString("## Scoring\n\n")
	sb.WriteString(fmt.Sprintf("Deterministic score: %d\n\n", r.DeterministicScore))
	if len(r.ScoreReasons) > 0 {
		for _, reason := range r.ScoreReasons {
			sb.WriteString(fmt.Sprintf("- %s\n", reason))
		}
		sb.WriteString("\n")
	}

	if len(r.Degraded) > 0 {
		sb.WriteString("## Degraded Collectors\n\n")
		for _, d := range r.Degraded {
			sb.WriteString(fmt.Sprintf("- %s\n", d))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func authorityCell(addr *string) string {
	if addr == nil {
		return "revoked"
	}
	return fmt.Sprintf("`%s` (ACTIVE)", *addr)
}
