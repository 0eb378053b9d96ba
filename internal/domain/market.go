package domain

// BotActivity classifies suspected trading-bot pressure on a pair.
type BotActivity string

const (
	BotActivityLow    BotActivity = "LOW"
	BotActivityMedium BotActivity = "MEDIUM"
	BotActivityHigh   BotActivity = "HIGH"
)

// MarketSnapshot holds trading-pair metadata for the subject token,
// taken from the most liquid pair reported by the market aggregator.
type MarketSnapshot struct {
	PairAddress    string
	Dex            string
	PriceUSD       float64
	LiquidityUSD   float64
	MarketCapUSD   float64
	Volume24hUSD   float64
	Buys24h        int
	Sells24h       int
	PriceChange24h float64
	PairAgeHours   float64
	WebsiteURL     string

	BotActivity BotActivity
	Anomalies   []string
}

// LiquidityRatio returns liquidity as a fraction of market cap.
// Zero mcap yields zero.
func (m *MarketSnapshot) LiquidityRatio() float64 {
	if m.MarketCapUSD <= 0 {
		return 0
	}
	return m.LiquidityUSD / m.MarketCapUSD
}

// BuySellRatio returns buys per sell over 24h. With zero sells the ratio
// is the buy count itself (any buys with no sells reads as maximal skew).
func (m *MarketSnapshot) BuySellRatio() float64 {
	if m.Sells24h == 0 {
		return float64(m.Buys24h)
	}
	return float64(m.Buys24h) / float64(m.Sells24h)
}

// WashScore returns 24h volume as a multiple of available liquidity.
// Zero liquidity yields zero.
func (m *MarketSnapshot) WashScore() float64 {
	if m.LiquidityUSD <= 0 {
		return 0
	}
	return m.Volume24hUSD / m.LiquidityUSD
}
