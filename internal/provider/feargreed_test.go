package provider

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"horizonfolio/internal/domain"
)

func TestAlternativeMeFetchLatest(t *testing.T) {
	p := NewAlternativeMeProvider(testTracer, 0)
	p.baseURL = "https://example.com"
	p.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/fng/" {
			t.Fatalf("unexpected path: %s", req.URL.Path)
		}
		body := `{"data":[{"value":"63","value_classification":"Greed","timestamp":"1771009800","time_until_update":"1111"}]}`
		return jsonResponse(http.StatusOK, body), nil
	})}

	reading, err := p.FetchLatest(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reading.Value != 63 || reading.Classification != "Greed" || reading.Source != domain.SourceAlternativeMe {
		t.Fatalf("unexpected reading: %+v", reading)
	}
	if reading.UpdateTime != "2026-02-13T19:10:00Z" {
		t.Fatalf("unexpected update time: %s", reading.UpdateTime)
	}
}

func TestAlternativeMeMillisecondTimestamp(t *testing.T) {
	p := NewAlternativeMeProvider(testTracer, 0)
	p.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"data":[{"value":"20","value_classification":"Extreme Fear","timestamp":"1771009800000"}]}`), nil
	})}

	reading, err := p.FetchLatest(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reading.UpdateTime != "2026-02-13T19:10:00Z" {
		t.Fatalf("unexpected update time: %s", reading.UpdateTime)
	}
}

func TestAlternativeMeErrors(t *testing.T) {
	p := NewAlternativeMeProvider(testTracer, 0)
	p.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"data":[]}`), nil
	})}
	if _, err := p.FetchLatest(context.Background()); !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected malformed error, got %v", err)
	}

	p.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusTooManyRequests, `slow down`), nil
	})}
	var statusErr *UpstreamStatusError
	if _, err := p.FetchLatest(context.Background()); !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected status error, got %v", err)
	}
}
