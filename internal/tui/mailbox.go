package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// mailbox bridges push-style subscriptions into bubbletea commands. It holds
// at most one value and a newer value replaces an unread one.
type mailbox[T any] struct {
	mu     sync.Mutex
	ch     chan T
	closed bool
}

func newMailbox[T any]() *mailbox[T] {
	return &mailbox[T]{ch: make(chan T, 1)}
}

func (m *mailbox[T]) offer(v T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	select {
	case <-m.ch:
	default:
	}
	m.ch <- v
}

func (m *mailbox[T]) close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	close(m.ch)
}

// wait blocks for the next value. A closed mailbox yields a nil message.
func (m *mailbox[T]) wait() tea.Cmd {
	return func() tea.Msg {
		v, ok := <-m.ch
		if !ok {
			return nil
		}
		return v
	}
}
