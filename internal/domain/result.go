package domain

import "time"

// Verdict is the trust tier derived from the final score.
type Verdict string

const (
	VerdictSafe       Verdict = "SAFE"       // score >= 70
	VerdictSuspicious Verdict = "SUSPICIOUS" // score >= 40
	VerdictDanger     Verdict = "DANGER"     // below 40
)

// InvestigationResult is the final aggregate of an investigation.
// Immutable once produced; cached by mint address.
type InvestigationResult struct {
	Mint    string
	Score   int
	Verdict Verdict

	Facts    *OnChainFacts
	Holders  *HolderDistribution
	Creator  *CreatorProfile
	Market   *MarketSnapshot
	Audit    *AuditReport
	History  *CreatorHistory
	Visual   *VisualEvidence
	Judgment *AIJudgment

	DeterministicScore int
	ScoreReasons       []string

	// Degraded lists collectors that substituted a null result.
	Degraded []string

	// FastPath is set when the result was synthesized from a
	// known-offender registry hit without running the pipeline.
	FastPath bool
	Offender *OffenderRecord

	FromCache bool
	StartedAt time.Time
	Duration  time.Duration
}
