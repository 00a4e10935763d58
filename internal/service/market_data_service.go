package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"horizonfolio/internal/cache"
	"horizonfolio/internal/domain"
	"horizonfolio/internal/logger"
	"horizonfolio/internal/metrics"
	"horizonfolio/internal/provider"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	// MarketDataCacheKey identifies the proxied endpoint in the cache.
	MarketDataCacheKey = "market-data:v3/fear-and-greed/latest"

	defaultRevalidateWindow = time.Hour
	defaultUpstreamTimeout  = 10 * time.Second
)

var ErrNotConfigured = errors.New("market data source not configured")

// Failure classes used in logs and metrics.
const (
	FailureConfiguration = "configuration"
	FailureUpstream      = "upstream"
	FailureMalformed     = "malformed"
	FailureTransport     = "transport"
)

type SentimentSource interface {
	Name() domain.SentimentSource
	Configured() bool
	FetchLatest(ctx context.Context) (*domain.SentimentReading, error)
}

type HistoryRecorder interface {
	RecordReading(ctx context.Context, reading domain.SentimentReading, fetchedAt time.Time) error
}

type MarketDataConfig struct {
	RevalidateWindow time.Duration
	UpstreamTimeout  time.Duration
}

// MarketDataResult is a payload plus its freshness.
type MarketDataResult struct {
	Payload   *domain.CombinedMarketPayload
	Hit       bool
	FetchedAt time.Time
	ExpiresAt time.Time
}

// MaxAge is the time left in the revalidation window, rounded down to whole seconds.
func (r *MarketDataResult) MaxAge(now time.Time) int {
	return int(cache.Entry{ExpiresAt: r.ExpiresAt}.Remaining(now) / time.Second)
}

// MarketDataService serves the combined sentiment payload through a
// revalidation cache. Concurrent misses share one upstream fetch.
type MarketDataService struct {
	tracer    trace.Tracer
	store     cache.Store
	primary   SentimentSource
	secondary SentimentSource
	history   HistoryRecorder
	window    time.Duration
	timeout   time.Duration
	group     singleflight.Group
	now       func() time.Time
	log       *logrus.Entry
}

func NewMarketDataService(
	tracer trace.Tracer,
	store cache.Store,
	primary SentimentSource,
	cfg MarketDataConfig,
) *MarketDataService {
	if cfg.RevalidateWindow <= 0 {
		cfg.RevalidateWindow = defaultRevalidateWindow
	}
	if cfg.UpstreamTimeout <= 0 {
		cfg.UpstreamTimeout = defaultUpstreamTimeout
	}
	if store == nil {
		store = cache.NewMemoryStore()
	}
	return &MarketDataService{
		tracer:  tracer,
		store:   store,
		primary: primary,
		window:  cfg.RevalidateWindow,
		timeout: cfg.UpstreamTimeout,
		now:     time.Now,
		log:     logger.WithComponent("market-data"),
	}
}

// WithSecondary adds an optional source whose reading is attached as a sibling field.
func (s *MarketDataService) WithSecondary(src SentimentSource) *MarketDataService {
	s.secondary = src
	return s
}

// WithHistory records every freshly fetched reading.
func (s *MarketDataService) WithHistory(rec HistoryRecorder) *MarketDataService {
	s.history = rec
	return s
}

func (s *MarketDataService) RevalidateWindow() time.Duration {
	return s.window
}

// GetMarketData returns the cached payload while it is fresh and otherwise
// fetches it from upstream. A missing credential fails before any cache or
// network access.
func (s *MarketDataService) GetMarketData(ctx context.Context) (*MarketDataResult, error) {
	ctx, span := s.tracer.Start(ctx, "market-data-service.get-market-data")
	defer span.End()

	if s.primary == nil || !s.primary.Configured() {
		span.SetStatus(codes.Error, ErrNotConfigured.Error())
		return nil, ErrNotConfigured
	}

	if res, ok := s.lookup(ctx); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return res, nil
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	res, err := s.collapse(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return res, nil
}

// Refresh fetches from upstream regardless of cache freshness.
func (s *MarketDataService) Refresh(ctx context.Context) (*MarketDataResult, error) {
	ctx, span := s.tracer.Start(ctx, "market-data-service.refresh")
	defer span.End()

	if s.primary == nil || !s.primary.Configured() {
		return nil, ErrNotConfigured
	}
	return s.collapse(ctx)
}

func (s *MarketDataService) lookup(ctx context.Context) (*MarketDataResult, bool) {
	entry, ok, err := s.store.Get(ctx, MarketDataCacheKey)
	if err != nil {
		metrics.ObserveCache(metrics.CacheError)
		s.log.WithError(err).Warn("cache read failed, treating as miss")
		return nil, false
	}
	if !ok || !entry.Fresh(s.now()) {
		metrics.ObserveCache(metrics.CacheMiss)
		return nil, false
	}

	var payload domain.CombinedMarketPayload
	if err := json.Unmarshal(entry.Value, &payload); err != nil || payload.LatestFearAndGreed == nil {
		metrics.ObserveCache(metrics.CacheError)
		s.log.WithError(err).Warn("discarding undecodable cache entry")
		return nil, false
	}

	metrics.ObserveCache(metrics.CacheHit)
	return &MarketDataResult{
		Payload:   &payload,
		Hit:       true,
		FetchedAt: entry.StoredAt,
		ExpiresAt: entry.ExpiresAt,
	}, true
}

// collapse joins the in-flight fetch if there is one. The fetch runs detached
// from the caller so one caller giving up does not fail the others.
func (s *MarketDataService) collapse(ctx context.Context) (*MarketDataResult, error) {
	ch := s.group.DoChan(MarketDataCacheKey, func() (interface{}, error) {
		return s.fetch(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		res := *r.Val.(*MarketDataResult)
		return &res, nil
	}
}

func (s *MarketDataService) fetch(ctx context.Context) (*MarketDataResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var primary, secondary *domain.SentimentReading

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		reading, err := s.observe(gctx, s.primary)
		if err != nil {
			return err
		}
		primary = reading
		return nil
	})
	if s.secondary != nil && s.secondary.Configured() {
		// Never fails the group: the secondary reading is optional.
		g.Go(func() error {
			reading, err := s.observe(gctx, s.secondary)
			if err != nil {
				s.log.WithError(err).WithField("source", s.secondary.Name()).Warn("optional sentiment source failed")
				return nil
			}
			secondary = reading
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logFailure(err)
		return nil, err
	}

	payload := &domain.CombinedMarketPayload{
		LatestFearAndGreed:      primary,
		AlternativeFearAndGreed: secondary,
	}

	now := s.now()
	res := &MarketDataResult{Payload: payload, FetchedAt: now, ExpiresAt: now.Add(s.window)}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	if err := s.store.Set(ctx, MarketDataCacheKey, cache.Entry{Value: raw, StoredAt: res.FetchedAt, ExpiresAt: res.ExpiresAt}); err != nil {
		s.log.WithError(err).Warn("cache write failed")
	}

	s.record(ctx, now, primary, secondary)
	return res, nil
}

func (s *MarketDataService) observe(ctx context.Context, src SentimentSource) (*domain.SentimentReading, error) {
	start := time.Now()
	reading, err := src.FetchLatest(ctx)
	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeError
	}
	metrics.ObserveUpstream(string(src.Name()), outcome, time.Since(start))
	return reading, err
}

func (s *MarketDataService) record(ctx context.Context, fetchedAt time.Time, readings ...*domain.SentimentReading) {
	if s.history == nil {
		return
	}
	for _, r := range readings {
		if r == nil {
			continue
		}
		if err := s.history.RecordReading(ctx, *r, fetchedAt); err != nil {
			s.log.WithError(err).WithField("source", r.Source).Warn("failed to record sentiment history")
		}
	}
}

func (s *MarketDataService) logFailure(err error) {
	entry := s.log.WithError(err).WithField("failure", Classify(err))
	var statusErr *provider.UpstreamStatusError
	if errors.As(err, &statusErr) {
		entry = entry.WithField("upstream_status", statusErr.StatusCode).WithField("upstream_body", statusErr.Body)
	}
	entry.Error("market data fetch failed")
}

// Classify maps an error from GetMarketData onto a failure class.
func Classify(err error) string {
	var statusErr *provider.UpstreamStatusError
	switch {
	case errors.Is(err, ErrNotConfigured), errors.Is(err, provider.ErrMissingAPIKey):
		return FailureConfiguration
	case errors.As(err, &statusErr):
		return FailureUpstream
	case errors.Is(err, provider.ErrMalformedResponse):
		return FailureMalformed
	default:
		return FailureTransport
	}
}
