package domain

import "time"

// MarketPayloadVersion identifies the revision of CombinedMarketPayload.
// Fields are only ever added, never renamed or removed.
const MarketPayloadVersion = 2

type SentimentSource string

const (
	SourceCoinMarketCap SentimentSource = "coinmarketcap"
	SourceAlternativeMe SentimentSource = "alternative.me"
)

// SentimentReading is one Fear & Greed observation as served to clients.
// UpdateTime is passed through verbatim from the provider.
type SentimentReading struct {
	Value          float64         `json:"value"`
	Classification string          `json:"value_classification"`
	UpdateTime     string          `json:"update_time"`
	Source         SentimentSource `json:"-"`
}

// UpdatedAt parses UpdateTime, accepting RFC 3339 with or without fractional seconds.
func (r SentimentReading) UpdatedAt() (time.Time, error) {
	return time.Parse(time.RFC3339Nano, r.UpdateTime)
}

// CombinedMarketPayload is the body of GET /api/market-data.
type CombinedMarketPayload struct {
	LatestFearAndGreed      *SentimentReading `json:"latestFearAndGreed"`
	AlternativeFearAndGreed *SentimentReading `json:"alternativeFearAndGreed,omitempty"`
}

// SentimentHistoryEntry is a persisted reading with the time this service fetched it.
type SentimentHistoryEntry struct {
	Source         SentimentSource `json:"source"`
	Value          float64         `json:"value"`
	Classification string          `json:"value_classification"`
	UpdateTime     string          `json:"update_time"`
	FetchedAt      time.Time       `json:"fetched_at"`
}
