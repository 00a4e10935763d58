package job

import (
	"context"
	"errors"
	"time"

	"horizonfolio/internal/logger"
	"horizonfolio/internal/service"

	"go.opentelemetry.io/otel/trace"
)

const warmMargin = time.Minute

// MarketDataRefresher is satisfied by service.MarketDataService.
type MarketDataRefresher interface {
	Refresh(ctx context.Context) (*service.MarketDataResult, error)
}

// CacheWarmer refreshes the market data cache shortly before each window
// ends so visitors rarely pay for the upstream round trip.
type CacheWarmer struct {
	tracer    trace.Tracer
	refresher MarketDataRefresher
	interval  time.Duration
}

func NewCacheWarmer(tracer trace.Tracer, refresher MarketDataRefresher, window time.Duration) *CacheWarmer {
	return &CacheWarmer{
		tracer:    tracer,
		refresher: refresher,
		interval:  warmInterval(window),
	}
}

// warmInterval leaves warmMargin before expiry, or half the window when the
// window is too short for that.
func warmInterval(window time.Duration) time.Duration {
	if window > 2*warmMargin {
		return window - warmMargin
	}
	if half := window / 2; half >= time.Second {
		return half
	}
	return time.Second
}

// Start warms the cache immediately and then on every tick. Blocks until ctx is cancelled.
func (w *CacheWarmer) Start(ctx context.Context) {
	log := logger.WithComponent("cache-warmer").WithField("interval", w.interval.String())
	log.Info("cache warmer starting")

	w.warm(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("cache warmer stopped")
			return
		case <-ticker.C:
			w.warm(ctx)
		}
	}
}

func (w *CacheWarmer) warm(ctx context.Context) {
	ctx, span := w.tracer.Start(ctx, "cache-warmer.warm")
	defer span.End()

	log := logger.WithComponent("cache-warmer")
	res, err := w.refresher.Refresh(ctx)
	switch {
	case errors.Is(err, service.ErrNotConfigured):
		log.Warn("skipping warm-up, market data source not configured")
	case err != nil:
		log.WithError(err).WithField("failure", service.Classify(err)).Warn("warm-up failed")
	default:
		log.WithField("expires_at", res.ExpiresAt).Debug("market data cache warmed")
	}
}
