package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"horizonfolio/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const fearGreedBaseURL = "https://api.alternative.me"

// AlternativeMeProvider reads the keyless alternative.me Fear & Greed index.
type AlternativeMeProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
}

func NewAlternativeMeProvider(tracer trace.Tracer, timeout time.Duration) *AlternativeMeProvider {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &AlternativeMeProvider{
		client:  &http.Client{Timeout: timeout},
		baseURL: fearGreedBaseURL,
		tracer:  tracer,
	}
}

func (p *AlternativeMeProvider) Name() domain.SentimentSource {
	return domain.SourceAlternativeMe
}

func (p *AlternativeMeProvider) Configured() bool { return true }

func (p *AlternativeMeProvider) FetchLatest(ctx context.Context) (*domain.SentimentReading, error) {
	ctx, span := p.tracer.Start(ctx, "alternativeme.fetch-latest")
	defer span.End()

	url := strings.TrimRight(p.baseURL, "/") + "/fng/?limit=1"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alternative.me request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody))
		return nil, &UpstreamStatusError{
			Provider:   "alternative.me",
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
			Body:       string(body),
		}
	}

	var payload struct {
		Data []struct {
			Value          string `json:"value"`
			Classification string `json:"value_classification"`
			Timestamp      string `json:"timestamp"`
		} `json:"data"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxUpstreamBody)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrMalformedResponse, err)
	}
	if len(payload.Data) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrMalformedResponse)
	}

	row := payload.Data[0]
	value, err := strconv.ParseFloat(strings.TrimSpace(row.Value), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: value: %v", ErrMalformedResponse, err)
	}
	ts, err := strconv.ParseInt(strings.TrimSpace(row.Timestamp), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: timestamp: %v", ErrMalformedResponse, err)
	}
	if ts > 1_000_000_000_000 {
		ts = ts / 1000
	}

	return &domain.SentimentReading{
		Value:          value,
		Classification: row.Classification,
		UpdateTime:     time.Unix(ts, 0).UTC().Format(time.RFC3339),
		Source:         domain.SourceAlternativeMe,
	}, nil
}
