package tui

import (
	"strings"
	"time"
)

type TypewriterOptions struct {
	TypeSpeed        time.Duration
	DeleteSpeed      time.Duration
	DelayAfterType   time.Duration
	DelayAfterDelete time.Duration
	// Loop cycles through the words forever. Without it the last word stays
	// on screen once typed.
	Loop bool
}

func DefaultTypewriterOptions() TypewriterOptions {
	return TypewriterOptions{
		TypeSpeed:        80 * time.Millisecond,
		DeleteSpeed:      40 * time.Millisecond,
		DelayAfterType:   1500 * time.Millisecond,
		DelayAfterDelete: 300 * time.Millisecond,
		Loop:             true,
	}
}

// Typewriter types each word one rune at a time, holds it, deletes it and
// moves on to the next.
type Typewriter struct {
	words    [][]rune
	opts     TypewriterOptions
	idx      int
	pos      int
	deleting bool
	done     bool
}

// NewTypewriter skips blank words. Zero durations fall back to the defaults.
func NewTypewriter(words []string, opts TypewriterOptions) *Typewriter {
	def := DefaultTypewriterOptions()
	if opts.TypeSpeed <= 0 {
		opts.TypeSpeed = def.TypeSpeed
	}
	if opts.DeleteSpeed <= 0 {
		opts.DeleteSpeed = def.DeleteSpeed
	}
	if opts.DelayAfterType <= 0 {
		opts.DelayAfterType = def.DelayAfterType
	}
	if opts.DelayAfterDelete <= 0 {
		opts.DelayAfterDelete = def.DelayAfterDelete
	}

	tw := &Typewriter{opts: opts}
	for _, w := range words {
		if strings.TrimSpace(w) == "" {
			continue
		}
		tw.words = append(tw.words, []rune(w))
	}
	tw.done = len(tw.words) == 0
	return tw
}

// Step advances by one rune and returns how long to wait before the next
// step. It returns 0 once the typewriter is done.
func (t *Typewriter) Step() time.Duration {
	if t.done {
		return 0
	}
	word := t.words[t.idx]

	if !t.deleting {
		if t.pos < len(word) {
			t.pos++
		}
		if t.pos < len(word) {
			return t.opts.TypeSpeed
		}
		if !t.opts.Loop && t.idx == len(t.words)-1 {
			t.done = true
			return 0
		}
		t.deleting = true
		return t.opts.DelayAfterType
	}

	if t.pos > 0 {
		t.pos--
		if t.pos > 0 {
			return t.opts.DeleteSpeed
		}
		return t.opts.DelayAfterDelete
	}

	t.deleting = false
	t.idx = (t.idx + 1) % len(t.words)
	return t.Step()
}

// Text is what is currently on screen.
func (t *Typewriter) Text() string {
	if len(t.words) == 0 {
		return ""
	}
	return string(t.words[t.idx][:t.pos])
}

// Word is the full word being typed or deleted.
func (t *Typewriter) Word() string {
	if len(t.words) == 0 {
		return ""
	}
	return string(t.words[t.idx])
}

func (t *Typewriter) WordIndex() int { return t.idx }

func (t *Typewriter) Deleting() bool { return t.deleting }

func (t *Typewriter) Done() bool { return t.done }

// Progress is the typed fraction of the current word.
func (t *Typewriter) Progress() float64 {
	if len(t.words) == 0 {
		return 1
	}
	return float64(t.pos) / float64(len(t.words[t.idx]))
}

// InitialDelay is the wait before the first Step.
func (t *Typewriter) InitialDelay() time.Duration {
	return t.opts.TypeSpeed
}
