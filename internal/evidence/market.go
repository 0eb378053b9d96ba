package evidence

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/Ticoworld/veritas/internal/domain"
)

// DefaultMarketEndpoint is the DexScreener token-pairs API.
const DefaultMarketEndpoint = "https://api.dexscreener.com/latest/dex/tokens"

// DefaultMarketTimeout bounds a market snapshot fetch.
const DefaultMarketTimeout = 8 * time.Second

// Bot-activity scoring. Points accumulate per anomaly and map to
// Low/Medium/High at fixed cut points.
const (
	botPointsHigh   = 5
	botPointsMedium = 2

	minLiquidityRatio = 0.01 // liquidity under 1% of mcap
	maxBuySellRatio   = 20.0 // possible honeypot
	maxWashScore      = 100.0
	freshPairHours    = 1.0
)

// MarketClient fetches trading-pair metadata from a market aggregator.
type MarketClient struct {
	endpoint string
	client   *http.Client
}

// NewMarketClient creates a MarketClient. Empty endpoint uses the default.
func NewMarketClient(endpoint string, client *http.Client) *MarketClient {
	if endpoint == "" {
		endpoint = DefaultMarketEndpoint
	}
	if client == nil {
		client = &http.Client{Timeout: DefaultMarketTimeout}
	}
	return &MarketClient{endpoint: endpoint, client: client}
}

// dexPair is the aggregator's wire format for a single trading pair.
type dexPair struct {
	PairAddress string `json:"pairAddress"`
	DexID       string `json:"dexId"`
	PriceUSD    string `json:"priceUsd"`
	Liquidity   struct {
		USD float64 `json:"usd"`
	} `json:"liquidity"`
	MarketCap float64 `json:"marketCap"`
	FDV       float64 `json:"fdv"`
	Volume    struct {
		H24 float64 `json:"h24"`
	} `json:"volume"`
	Txns struct {
		H24 struct {
			Buys  int `json:"buys"`
			Sells int `json:"sells"`
		} `json:"h24"`
	} `json:"txns"`
	PriceChange struct {
		H24 float64 `json:"h24"`
	} `json:"priceChange"`
	PairCreatedAt int64 `json:"pairCreatedAt"` // unix ms
	Info          struct {
		Websites []struct {
			URL string `json:"url"`
		} `json:"websites"`
	} `json:"info"`
}

type dexTokenResponse struct {
	Pairs []dexPair `json:"pairs"`
}

// Snapshot fetches pair metadata for a mint and derives the bot-activity
// classification. Returns (nil, nil) when no pair is indexed yet.
func (c *MarketClient) Snapshot(ctx context.Context, mint string) (*domain.MarketSnapshot, error) {
	url := fmt.Sprintf("%s/%s", c.endpoint, mint)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("market request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var parsed dexTokenResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal pairs: %w", err)
	}
	if len(parsed.Pairs) == 0 {
		return nil, nil
	}

	best := parsed.Pairs[0]
	for _, p := range parsed.Pairs[1:] {
		if p.Liquidity.USD > best.Liquidity.USD {
			best = p
		}
	}

	snapshot := snapshotFromPair(best, time.Now())
	ClassifyBotActivity(snapshot)
	return snapshot, nil
}

// snapshotFromPair maps the wire pair onto the domain snapshot.
func snapshotFromPair(p dexPair, now time.Time) *domain.MarketSnapshot {
	price, _ := strconv.ParseFloat(p.PriceUSD, 64)

	mcap := p.MarketCap
	if mcap == 0 {
		mcap = p.FDV
	}

	var ageHours float64
	if p.PairCreatedAt > 0 {
		ageHours = now.Sub(time.UnixMilli(p.PairCreatedAt)).Hours()
	}

	var website string
	if len(p.Info.Websites) > 0 {
		website = p.Info.Websites[0].URL
	}

	return &domain.MarketSnapshot{
		PairAddress:    p.PairAddress,
		Dex:            p.DexID,
		PriceUSD:       price,
		LiquidityUSD:   p.Liquidity.USD,
		MarketCapUSD:   mcap,
		Volume24hUSD:   p.Volume.H24,
		Buys24h:        p.Txns.H24.Buys,
		Sells24h:       p.Txns.H24.Sells,
		PriceChange24h: p.PriceChange.H24,
		PairAgeHours:   ageHours,
		WebsiteURL:     website,
	}
}

// ClassifyBotActivity derives the bot-activity tier and anomaly strings
// from fixed thresholds. Points: thin liquidity +5, buy/sell skew +2,
// wash volume +2, fresh pair +1; >=5 High, >=2 Medium, else Low.
func ClassifyBotActivity(m *domain.MarketSnapshot) {
	points := 0

	if m.MarketCapUSD > 0 && m.LiquidityRatio() < minLiquidityRatio {
		points += 5
		m.Anomalies = append(m.Anomalies,
			fmt.Sprintf("CRITICAL: liquidity is %.2f%% of market cap", m.LiquidityRatio()*100))
	}
	if m.Buys24h > 0 && m.BuySellRatio() > maxBuySellRatio {
		points += 2
		m.Anomalies = append(m.Anomalies,
			fmt.Sprintf("buy/sell ratio %.0f:1 suggests a honeypot", m.BuySellRatio()))
	}
	if m.WashScore() > maxWashScore {
		points += 2
		m.Anomalies = append(m.Anomalies,
			fmt.Sprintf("24h volume is %.0fx liquidity (fake volume)", m.WashScore()))
	}
	if m.PairAgeHours > 0 && m.PairAgeHours < freshPairHours {
		points++
		m.Anomalies = append(m.Anomalies, "pair is under one hour old")
	}

	switch {
	case points >= botPointsHigh:
		m.BotActivity = domain.BotActivityHigh
	case points >= botPointsMedium:
		m.BotActivity = domain.BotActivityMedium
	default:
		m.BotActivity = domain.BotActivityLow
	}
}
