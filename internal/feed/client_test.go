package feed

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"horizonfolio/internal/domain"
)

func samplePayload(value float64) *domain.CombinedMarketPayload {
	return &domain.CombinedMarketPayload{
		LatestFearAndGreed: &domain.SentimentReading{Value: value, Classification: "Greed", UpdateTime: "2024-01-01T00:00:00Z"},
	}
}

type countingFetcher struct {
	calls   atomic.Int32
	release chan struct{}
	started chan struct{}

	mu   sync.Mutex
	data *domain.CombinedMarketPayload
	err  error
}

func newCountingFetcher(data *domain.CombinedMarketPayload) *countingFetcher {
	return &countingFetcher{data: data, started: make(chan struct{}, 16)}
}

func (f *countingFetcher) Fetch(ctx context.Context) (*domain.CombinedMarketPayload, error) {
	f.calls.Add(1)
	f.started <- struct{}{}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data, f.err
}

func (f *countingFetcher) set(data *domain.CombinedMarketPayload, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data, f.err = data, err
}

type recorder struct {
	mu     sync.Mutex
	states []State
}

func (r *recorder) record(s State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

func (r *recorder) last() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.states[len(r.states)-1]
}

func (r *recorder) sawData() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.states {
		if s.Data != nil {
			return true
		}
	}
	return false
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestSubscribeTwoConsumersShareOneFetch(t *testing.T) {
	fetcher := newCountingFetcher(samplePayload(72))
	fetcher.release = make(chan struct{})
	c := NewClient(fetcher, Options{DedupeInterval: time.Minute})
	defer c.Close()

	a, b := &recorder{}, &recorder{}
	unsubA := c.Subscribe(a.record)
	unsubB := c.Subscribe(b.record)
	defer unsubA()
	defer unsubB()

	close(fetcher.release)
	waitFor(t, func() bool { return a.sawData() && b.sawData() })

	if fetcher.calls.Load() != 1 {
		t.Fatalf("expected one network call, got %d", fetcher.calls.Load())
	}
	if got := a.last(); got.IsLoading || got.Err != nil || got.Data.LatestFearAndGreed.Value != 72 {
		t.Fatalf("unexpected final state: %+v", got)
	}
}

func TestSubscribeDeliversCurrentStateImmediately(t *testing.T) {
	c := NewClient(newCountingFetcher(samplePayload(10)), Options{})
	defer c.Close()

	if err := c.Revalidate(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec := &recorder{}
	unsub := c.Subscribe(rec.record)
	defer unsub()

	if first := rec.states[0]; first.Data == nil || first.Data.LatestFearAndGreed.Value != 10 {
		t.Fatalf("expected cached data on mount, got %+v", first)
	}
}

func TestUnsubscribeDiscardsInFlightResult(t *testing.T) {
	fetcher := newCountingFetcher(samplePayload(72))
	fetcher.release = make(chan struct{})
	c := NewClient(fetcher, Options{})
	defer c.Close()

	rec := &recorder{}
	unsub := c.Subscribe(rec.record)
	<-fetcher.started
	unsub()

	close(fetcher.release)
	if err := c.Revalidate(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	waitFor(t, func() bool { return c.Snapshot().Data != nil })

	if rec.sawData() {
		t.Fatal("unmounted consumer must not receive the in-flight result")
	}
}

func TestFetcherPanicSurfacesAsErr(t *testing.T) {
	c := NewClient(FetcherFunc(func(ctx context.Context) (*domain.CombinedMarketPayload, error) {
		panic("boom")
	}), Options{})
	defer c.Close()

	if err := c.Revalidate(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	state := c.Snapshot()
	if state.Err == nil || state.IsLoading || state.Data != nil {
		t.Fatalf("unexpected state: %+v", state)
	}
}

func TestErrorKeepsStaleData(t *testing.T) {
	fetcher := newCountingFetcher(samplePayload(30))
	c := NewClient(fetcher, Options{})
	defer c.Close()

	if err := c.Revalidate(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fetcher.set(nil, &FetchError{Status: 500, Info: "An internal server error occurred."})
	if err := c.Revalidate(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	state := c.Snapshot()
	if state.Data == nil || state.Data.LatestFearAndGreed.Value != 30 {
		t.Fatal("stale data should be kept while reporting the error")
	}
	var fetchErr *FetchError
	if !errors.As(state.Err, &fetchErr) || fetchErr.Status != 500 {
		t.Fatalf("unexpected error: %v", state.Err)
	}

	fetcher.set(samplePayload(60), nil)
	if err := c.Revalidate(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state := c.Snapshot(); state.Err != nil || state.Data.LatestFearAndGreed.Value != 60 {
		t.Fatalf("success should clear the error, got %+v", state)
	}
}

func TestFocusIsThrottled(t *testing.T) {
	fetcher := newCountingFetcher(samplePayload(50))
	c := NewClient(fetcher, Options{DedupeInterval: time.Nanosecond, FocusThrottle: 5 * time.Second})
	defer c.Close()

	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c.now = clock.Now

	c.HandleFocus()
	<-fetcher.started
	waitFor(t, func() bool { return c.Snapshot().Data != nil })

	clock.Advance(time.Second)
	c.HandleFocus()
	time.Sleep(30 * time.Millisecond)
	if fetcher.calls.Load() != 1 {
		t.Fatalf("focus within the throttle window should not refetch, got %d calls", fetcher.calls.Load())
	}

	clock.Advance(5 * time.Second)
	c.HandleFocus()
	<-fetcher.started
	if fetcher.calls.Load() != 2 {
		t.Fatalf("expected a second fetch after the throttle window, got %d", fetcher.calls.Load())
	}
}

func TestDisabledTriggers(t *testing.T) {
	fetcher := newCountingFetcher(samplePayload(50))
	c := NewClient(fetcher, Options{DisableFocusRevalidation: true, DisableReconnectRevalidation: true})
	defer c.Close()

	c.HandleFocus()
	c.HandleReconnect()
	time.Sleep(30 * time.Millisecond)
	if fetcher.calls.Load() != 0 {
		t.Fatalf("disabled triggers should not fetch, got %d", fetcher.calls.Load())
	}
}

func TestReconnectRevalidatesOutsideDedupeWindow(t *testing.T) {
	fetcher := newCountingFetcher(samplePayload(50))
	c := NewClient(fetcher, Options{DedupeInterval: time.Minute})
	defer c.Close()

	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c.now = clock.Now

	c.HandleReconnect()
	<-fetcher.started
	waitFor(t, func() bool { return c.Snapshot().Data != nil })

	c.HandleReconnect()
	time.Sleep(30 * time.Millisecond)
	if fetcher.calls.Load() != 1 {
		t.Fatal("reconnect inside the dedupe window should be suppressed")
	}

	clock.Advance(2 * time.Minute)
	c.HandleReconnect()
	<-fetcher.started
	if fetcher.calls.Load() != 2 {
		t.Fatalf("expected second fetch, got %d", fetcher.calls.Load())
	}
}

func TestRevalidateCallerCancel(t *testing.T) {
	fetcher := newCountingFetcher(samplePayload(50))
	fetcher.release = make(chan struct{})
	c := NewClient(fetcher, Options{})
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Revalidate(ctx) }()

	<-fetcher.started
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	close(fetcher.release)
	waitFor(t, func() bool { return c.Snapshot().Data != nil })
}

func TestCloseStopsUpdates(t *testing.T) {
	fetcher := newCountingFetcher(samplePayload(50))
	fetcher.release = make(chan struct{})
	c := NewClient(fetcher, Options{})

	rec := &recorder{}
	c.Subscribe(rec.record)
	<-fetcher.started
	c.Close()

	waitFor(t, func() bool { return c.Snapshot().Err != nil })
	if !errors.Is(c.Snapshot().Err, context.Canceled) {
		t.Fatalf("aborted request should surface as Err, got %v", c.Snapshot().Err)
	}
	if rec.sawData() {
		t.Fatal("closed client should not deliver updates")
	}

	c.HandleReconnect()
	time.Sleep(30 * time.Millisecond)
	if fetcher.calls.Load() != 1 {
		t.Fatal("closed client should not start new requests")
	}
}
