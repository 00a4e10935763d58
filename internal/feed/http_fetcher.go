package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"horizonfolio/internal/domain"
)

const maxResponseBody = 1 << 20

// FetchError is a non-2xx answer from the market-data endpoint. Info is the
// server's error message, when it sent one.
type FetchError struct {
	Status int
	Info   string
}

func (e *FetchError) Error() string {
	if e.Info != "" {
		return fmt.Sprintf("an error occurred while fetching the data (status %d): %s", e.Status, e.Info)
	}
	return fmt.Sprintf("an error occurred while fetching the data (status %d)", e.Status)
}

// HTTPFetcher reads the combined payload from the market-data endpoint.
type HTTPFetcher struct {
	url    string
	client *http.Client
}

func NewHTTPFetcher(url string, client *http.Client) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTPFetcher{url: url, client: client}
}

func (f *HTTPFetcher) Fetch(ctx context.Context) (*domain.CombinedMarketPayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(body, &errBody)
		return nil, &FetchError{Status: resp.StatusCode, Info: errBody.Error}
	}

	var payload domain.CombinedMarketPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode market data: %w", err)
	}
	return &payload, nil
}
