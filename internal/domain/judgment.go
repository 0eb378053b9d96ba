package domain

// VisualReuseFinding is the structured visual-asset-reuse assertion of
// an AI judgment. Empty means the model made no such finding.
type VisualReuseFinding string

const (
	VisualReuseYes VisualReuseFinding = "YES"
	VisualReuseNo  VisualReuseFinding = "NO"
)

// AIJudgment is the structured output of the reasoning engine.
// Score is bounded to [0,100] at the parse boundary.
type AIJudgment struct {
	Score    int
	Verdict  Verdict
	Summary  string
	Evidence []string
	Lies     []string

	VisualReuse       VisualReuseFinding
	VisualReuseReason string
}
