package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"horizonfolio/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	coinMarketCapBaseURL   = "https://pro-api.coinmarketcap.com"
	coinMarketCapKeyHeader = "X-CMC_PRO_API_KEY"
	maxUpstreamBody        = 1 << 20
)

var (
	ErrMissingAPIKey     = errors.New("coinmarketcap api key not configured")
	ErrMalformedResponse = errors.New("malformed fear & greed response")
)

// UpstreamStatusError is a non-2xx answer from a provider. Body is kept for
// server-side logs and must never be forwarded to clients.
type UpstreamStatusError struct {
	Provider   string
	StatusCode int
	Status     string
	Body       string
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("%s API error %d: %s", e.Provider, e.StatusCode, e.Status)
}

type CoinMarketCapConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	Limiter *RateLimiter
}

// CoinMarketCapProvider reads the latest Fear & Greed value from the CoinMarketCap Pro API.
type CoinMarketCapProvider struct {
	client  *http.Client
	baseURL string
	apiKey  string
	limiter *RateLimiter
	tracer  trace.Tracer
}

func NewCoinMarketCapProvider(tracer trace.Tracer, cfg CoinMarketCapConfig) *CoinMarketCapProvider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = coinMarketCapBaseURL
	}
	return &CoinMarketCapProvider{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		limiter: cfg.Limiter,
		tracer:  tracer,
	}
}

func (p *CoinMarketCapProvider) Name() domain.SentimentSource {
	return domain.SourceCoinMarketCap
}

func (p *CoinMarketCapProvider) Configured() bool {
	return p.apiKey != ""
}

type cmcLatestFearAndGreed struct {
	Data *struct {
		Value          *float64 `json:"value"`
		Classification string   `json:"value_classification"`
		UpdateTime     string   `json:"update_time"`
	} `json:"data"`
	Status struct {
		ErrorMessage *string `json:"error_message"`
		CreditCount  int     `json:"credit_count"`
	} `json:"status"`
}

// FetchLatest calls /v3/fear-and-greed/latest. It returns ErrMissingAPIKey without
// touching the network when no key is configured.
func (p *CoinMarketCapProvider) FetchLatest(ctx context.Context) (*domain.SentimentReading, error) {
	ctx, span := p.tracer.Start(ctx, "coinmarketcap.fetch-fear-and-greed")
	defer span.End()

	reading, err := p.fetchLatest(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return nil, err
	}
	span.SetAttributes(attribute.Float64("feargreed.value", reading.Value))
	return reading, nil
}

func (p *CoinMarketCapProvider) fetchLatest(ctx context.Context) (*domain.SentimentReading, error) {
	if p.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("coinmarketcap rate limit: %w", err)
		}
	}

	url := strings.TrimRight(p.baseURL, "/") + "/v3/fear-and-greed/latest"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set(coinMarketCapKeyHeader, p.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("coinmarketcap request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody))
		return nil, &UpstreamStatusError{
			Provider:   "coinmarketcap",
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
			Body:       string(body),
		}
	}

	var payload cmcLatestFearAndGreed
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxUpstreamBody)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrMalformedResponse, err)
	}
	if payload.Data == nil || payload.Data.Value == nil {
		return nil, fmt.Errorf("%w: missing data.value", ErrMalformedResponse)
	}
	value := *payload.Data.Value
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, fmt.Errorf("%w: non-finite value", ErrMalformedResponse)
	}

	return &domain.SentimentReading{
		Value:          value,
		Classification: payload.Data.Classification,
		UpdateTime:     payload.Data.UpdateTime,
		Source:         domain.SourceCoinMarketCap,
	}, nil
}
