package visual

import "sync"

// Store holds the current Params and fans updates out to subscribers.
type Store struct {
	mu      sync.RWMutex
	current Params
	live    bool
	subs    map[int]*subscriber
	nextID  int
}

type subscriber struct {
	mu     sync.Mutex
	fn     func(Params, bool)
	active bool
}

func (s *subscriber) deliver(p Params, live bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return
	}
	s.fn(p, live)
}

// NewStore starts out holding Default.
func NewStore() *Store {
	return &Store{current: Default(), subs: make(map[int]*subscriber)}
}

// Current reports the held params and whether they came from a live reading.
func (s *Store) Current() (Params, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.live
}

// Publish replaces the held params. Nil publishes Default.
func (s *Store) Publish(p *Params) {
	s.mu.Lock()
	s.current = OrDefault(p)
	s.live = p != nil
	current, live := s.current, s.live
	subs := make([]*subscriber, 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub.deliver(current, live)
	}
}

// Subscribe delivers the current params and their live flag immediately and
// then every publish. Once the returned func returns, fn is never called
// again. It must not be called from inside fn.
func (s *Store) Subscribe(fn func(Params, bool)) func() {
	sub := &subscriber{fn: fn, active: true}

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = sub
	current, live := s.current, s.live
	s.mu.Unlock()

	sub.deliver(current, live)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()

			sub.mu.Lock()
			sub.active = false
			sub.mu.Unlock()
		})
	}
}
