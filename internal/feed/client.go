// Package feed keeps a process-wide view of the market-data endpoint for
// interactive consumers. Consumers subscribe, the client revalidates on mount,
// focus and reconnect, and every outcome is delivered as a State.
package feed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"horizonfolio/internal/domain"
	"horizonfolio/internal/logger"
	"horizonfolio/internal/metrics"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const (
	revalidateKey = "market-data"

	defaultDedupeInterval = 2 * time.Second
	defaultFocusThrottle  = 5 * time.Second
	defaultFetchTimeout   = 15 * time.Second
)

// State is what a consumer renders. Data survives a failed revalidation so
// consumers can keep showing the last good reading next to Err.
type State struct {
	Data      *domain.CombinedMarketPayload
	IsLoading bool
	Err       error
}

type Fetcher interface {
	Fetch(ctx context.Context) (*domain.CombinedMarketPayload, error)
}

type FetcherFunc func(ctx context.Context) (*domain.CombinedMarketPayload, error)

func (f FetcherFunc) Fetch(ctx context.Context) (*domain.CombinedMarketPayload, error) {
	return f(ctx)
}

type Options struct {
	// DedupeInterval suppresses mount/focus/reconnect revalidation while the
	// last request is younger than this.
	DedupeInterval time.Duration
	FocusThrottle  time.Duration
	FetchTimeout   time.Duration

	DisableFocusRevalidation     bool
	DisableReconnectRevalidation bool
}

type subscriber struct {
	mu     sync.Mutex
	fn     func(State)
	active bool
}

type Client struct {
	fetcher Fetcher
	opts    Options
	group   singleflight.Group
	log     *logrus.Entry
	now     func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	state       State
	lastRequest time.Time
	lastFocus   time.Time
	subs        map[uint64]*subscriber
	nextID      uint64
}

func NewClient(fetcher Fetcher, opts Options) *Client {
	if opts.DedupeInterval <= 0 {
		opts.DedupeInterval = defaultDedupeInterval
	}
	if opts.FocusThrottle <= 0 {
		opts.FocusThrottle = defaultFocusThrottle
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = defaultFetchTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		fetcher: fetcher,
		opts:    opts,
		log:     logger.WithComponent("feed"),
		now:     time.Now,
		ctx:     ctx,
		cancel:  cancel,
		subs:    make(map[uint64]*subscriber),
	}
}

// Snapshot returns the current state.
func (c *Client) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe mounts a consumer. fn receives the current state right away and
// every change after that. A background revalidation starts unless a request
// was made within the dedupe interval.
//
// Once the returned func returns, fn is never called again. It must not be
// called from inside fn.
func (c *Client) Subscribe(fn func(State)) func() {
	sub := &subscriber{fn: fn, active: true}

	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = sub
	current := c.state
	c.mu.Unlock()

	sub.deliver(current)
	c.trigger()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()

			sub.mu.Lock()
			sub.active = false
			sub.mu.Unlock()
		})
	}
}

// Revalidate fetches now, sharing an in-flight request if there is one. The
// error is also recorded in State.Err. Cancelling ctx abandons the wait, not
// the shared request.
func (c *Client) Revalidate(ctx context.Context) error {
	ch := c.group.DoChan(revalidateKey, func() (interface{}, error) {
		return nil, c.revalidate()
	})

	select {
	case <-ctx.Done():
		return ctx.Err()
	case r := <-ch:
		return r.Err
	}
}

// HandleFocus is called when the consumer regains focus.
func (c *Client) HandleFocus() {
	if c.opts.DisableFocusRevalidation {
		return
	}

	c.mu.Lock()
	now := c.now()
	if !c.lastFocus.IsZero() && now.Sub(c.lastFocus) < c.opts.FocusThrottle {
		c.mu.Unlock()
		return
	}
	c.lastFocus = now
	c.mu.Unlock()

	c.trigger()
}

// HandleReconnect is called when connectivity to the endpoint returns.
func (c *Client) HandleReconnect() {
	if c.opts.DisableReconnectRevalidation {
		return
	}
	c.trigger()
}

// Close aborts any in-flight request. Subscribers get no further updates.
func (c *Client) Close() {
	c.cancel()

	c.mu.Lock()
	subs := c.subs
	c.subs = make(map[uint64]*subscriber)
	c.mu.Unlock()

	for _, sub := range subs {
		sub.mu.Lock()
		sub.active = false
		sub.mu.Unlock()
	}
}

func (c *Client) trigger() {
	c.mu.Lock()
	now := c.now()
	if c.ctx.Err() != nil || (!c.lastRequest.IsZero() && now.Sub(c.lastRequest) < c.opts.DedupeInterval) {
		c.mu.Unlock()
		return
	}
	c.lastRequest = now
	c.mu.Unlock()

	go func() {
		_ = c.Revalidate(c.ctx)
	}()
}

func (c *Client) revalidate() error {
	c.update(func(s *State) { s.IsLoading = true })

	c.mu.Lock()
	c.lastRequest = c.now()
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(c.ctx, c.opts.FetchTimeout)
	defer cancel()

	data, err := c.safeFetch(ctx)
	metrics.ObserveRevalidation(err)
	if err != nil {
		c.log.WithError(err).Warn("market data revalidation failed")
	}

	c.update(func(s *State) {
		s.IsLoading = false
		if err != nil {
			s.Err = err
			return
		}
		s.Data = data
		s.Err = nil
	})
	return err
}

func (c *Client) safeFetch(ctx context.Context) (data *domain.CombinedMarketPayload, err error) {
	defer func() {
		if r := recover(); r != nil {
			data = nil
			err = fmt.Errorf("market data fetcher panicked: %v", r)
		}
	}()
	return c.fetcher.Fetch(ctx)
}

func (c *Client) update(mutate func(*State)) {
	c.mu.Lock()
	mutate(&c.state)
	current := c.state
	subs := make([]*subscriber, 0, len(c.subs))
	for _, sub := range c.subs {
		subs = append(subs, sub)
	}
	c.mu.Unlock()

	for _, sub := range subs {
		sub.deliver(current)
	}
}

func (s *subscriber) deliver(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return
	}
	s.fn(state)
}
