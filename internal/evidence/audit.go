package evidence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Ticoworld/veritas/internal/domain"
)

// DefaultAuditEndpoint is the contract-risk audit report API.
const DefaultAuditEndpoint = "https://api.rugcheck.xyz/v1/tokens"

// DefaultAuditTimeout bounds an audit report fetch.
const DefaultAuditTimeout = 5 * time.Second

// ErrRateLimited marks a 429 from the audit upstream. Transient: the
// caller must not cache the resulting null report.
var ErrRateLimited = errors.New("audit upstream rate limited")

// AuditClient fetches third-party contract-risk reports.
type AuditClient struct {
	endpoint string
	client   *http.Client
}

// NewAuditClient creates an AuditClient. Empty endpoint uses the default.
func NewAuditClient(endpoint string, client *http.Client) *AuditClient {
	if endpoint == "" {
		endpoint = DefaultAuditEndpoint
	}
	if client == nil {
		client = &http.Client{Timeout: DefaultAuditTimeout}
	}
	return &AuditClient{endpoint: endpoint, client: client}
}

// auditReportWire is the audit service's report format.
type auditReportWire struct {
	Score        int    `json:"score_normalised"`
	ScoreLegacy  int    `json:"score"`
	Creator      string `json:"creator"`
	Risks        []struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Level       string `json:"level"`
	} `json:"risks"`
}

// Report fetches the audit report for a mint. A 404 means the token is
// new or unindexed and maps to (nil, nil); a 429 returns ErrRateLimited.
func (c *AuditClient) Report(ctx context.Context, mint string) (*domain.AuditReport, error) {
	url := fmt.Sprintf("%s/%s/report", c.endpoint, mint)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("audit request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		// New or unindexed token, not an error.
		return nil, nil
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	default:
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var wire auditReportWire
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("unmarshal report: %w", err)
	}

	score := wire.Score
	if score == 0 {
		score = wire.ScoreLegacy
	}

	report := &domain.AuditReport{
		Score:        score,
		DeployerHint: wire.Creator,
	}
	for _, r := range wire.Risks {
		report.Risks = append(report.Risks, domain.AuditRisk{
			Name:        r.Name,
			Description: r.Description,
			Level:       domain.AuditRiskLevel(r.Level),
		})
	}
	return report, nil
}
