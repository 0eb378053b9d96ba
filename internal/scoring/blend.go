package scoring

import (
	"strings"

	"github.com/Ticoworld/veritas/internal/domain"
)

// TemplateAbuseCap is the hard ceiling applied when a judgment asserts
// visual-asset reuse backed by a real screenshot.
const TemplateAbuseCap = 50

// Verdict tier cut points.
const (
	safeFloor       = 70
	suspiciousFloor = 40
)

// memeKeywords is the allow-list of meme-culture references. A visual
// reuse finding attributable to one of these is recognized imagery, not
// template abuse.
var memeKeywords = []string{
	"pepe",
	"doge",
	"shiba",
	"wojak",
	"chad",
	"bonk",
	"meme",
	"kek",
	"moon",
}

// Blend applies the ceiling invariant and the template-abuse override.
// The AI may only pull the score down from the deterministic baseline:
// final = min(deterministic, ai). The override fires only when a real
// screenshot was captured; a judgment produced without visual input can
// hallucinate reuse and is never trusted on it.
func Blend(deterministic int, judgment *domain.AIJudgment, screenshotCaptured bool) int {
	final := deterministic
	if judgment.Score < final {
		final = judgment.Score
	}

	if screenshotCaptured && judgment.VisualReuse == domain.VisualReuseYes &&
		!isMemeReference(judgment.VisualReuseReason) && final > TemplateAbuseCap {
		final = TemplateAbuseCap
	}

	return final
}

// isMemeReference reports whether a reuse rationale points at recognized
// meme/cultural imagery rather than a stolen project template.
func isMemeReference(reason string) bool {
	lower := strings.ToLower(reason)
	for _, kw := range memeKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// VerdictFor maps a final score onto its trust tier.
func VerdictFor(score int) domain.Verdict {
	switch {
	case score >= safeFloor:
		return domain.VerdictSafe
	case score >= suspiciousFloor:
		return domain.VerdictSuspicious
	default:
		return domain.VerdictDanger
	}
}
