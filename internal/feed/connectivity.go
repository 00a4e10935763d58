package feed

import (
	"context"
	"net/http"
	"time"
)

// Probe reports whether the market-data endpoint is reachable.
type Probe func(ctx context.Context) error

// HTTPProbe treats any HTTP response from url as reachable.
func HTTPProbe(url string, client *http.Client) Probe {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		return resp.Body.Close()
	}
}

// WatchConnectivity probes every interval and calls HandleReconnect when a
// probe succeeds after a failed one. Blocks until ctx is cancelled.
func (c *Client) WatchConnectivity(ctx context.Context, probe Probe, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	online := true
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			err := probe(ctx)
			switch {
			case err != nil && online:
				c.log.WithError(err).Warn("market data endpoint unreachable")
				online = false
			case err == nil && !online:
				c.log.Info("market data endpoint reachable again")
				online = true
				c.HandleReconnect()
			}
		}
	}
}
