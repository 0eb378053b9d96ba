package judgment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/Ticoworld/veritas/internal/domain"
)

// DefaultModel is the vision-capable model used for judgments.
const DefaultModel = "gemini-2.0-flash"

const systemInstruction = `You are a forensic analyst for Solana tokens. You receive collected
evidence about one token, optionally with a screenshot of its website.
Judge how trustworthy the token is and answer with a single JSON object:
{
  "score": 0-100 (0 = certain scam, 100 = fully trustworthy),
  "verdict": "SAFE" | "SUSPICIOUS" | "DANGER",
  "summary": one paragraph,
  "evidence": [supporting observations],
  "lies": [claims by the project contradicted by the evidence],
  "visual_reuse": "YES" | "NO" (only if a screenshot is attached: does the
      website reuse another project's visual assets or template?),
  "visual_reuse_reason": short rationale for visual_reuse
}
Respond with JSON only.`

// GeminiEngine implements Engine on the Gemini API.
type GeminiEngine struct {
	client *genai.Client
	model  string
}

// NewGeminiEngine creates a GeminiEngine. Empty model uses DefaultModel.
func NewGeminiEngine(ctx context.Context, apiKey, model string) (*GeminiEngine, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiEngine{client: client, model: model}, nil
}

// Compile-time interface check.
var _ Engine = (*GeminiEngine)(nil)

// Judge sends the evidence digest (plus any screenshot) to the model and
// parses its structured judgment. Every failure maps to
// domain.ErrReasoningFailed for the caller.
func (e *GeminiEngine) Judge(ctx context.Context, bundle *EvidenceBundle) (*domain.AIJudgment, error) {
	parts := []*genai.Part{
		genai.NewPartFromText(bundle.Digest()),
	}
	if bundle.Visual != nil && len(bundle.Visual.Image) > 0 {
		parts = append(parts, genai.NewPartFromBytes(bundle.Visual.Image, bundle.Visual.MediaType))
	}

	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
	}

	resp, err := e.client.Models.GenerateContent(ctx, e.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrReasoningFailed, err)
	}

	j, err := ParseJudgment(resp.Text())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrReasoningFailed, err)
	}
	return j, nil
}

// judgmentWire is the model's response schema.
type judgmentWire struct {
	Score             int      `json:"score"`
	Verdict           string   `json:"verdict"`
	Summary           string   `json:"summary"`
	Evidence          []string `json:"evidence"`
	Lies              []string `json:"lies"`
	VisualReuse       string   `json:"visual_reuse"`
	VisualReuseReason string   `json:"visual_reuse_reason"`
}

// ParseJudgment decodes a model response into a bounded AIJudgment.
// Tolerates markdown code fences around the JSON body.
func ParseJudgment(raw string) (*domain.AIJudgment, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, fmt.Errorf("empty response")
	}
	text = stripCodeFence(text)

	var wire judgmentWire
	if err := json.Unmarshal([]byte(text), &wire); err != nil {
		return nil, fmt.Errorf("unmarshal judgment: %w", err)
	}

	score := wire.Score
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	j := &domain.AIJudgment{
		Score:             score,
		Verdict:           domain.Verdict(strings.ToUpper(wire.Verdict)),
		Summary:           wire.Summary,
		Evidence:          wire.Evidence,
		Lies:              wire.Lies,
		VisualReuseReason: wire.VisualReuseReason,
	}
	switch strings.ToUpper(strings.TrimSpace(wire.VisualReuse)) {
	case "YES":
		j.VisualReuse = domain.VisualReuseYes
	case "NO":
		j.VisualReuse = domain.VisualReuseNo
	}
	return j, nil
}

// stripCodeFence removes a surrounding ```json ... ``` fence if present.
func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
