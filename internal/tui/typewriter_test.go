package tui

import (
	"testing"
	"time"
)

func testTypewriterOptions(loop bool) TypewriterOptions {
	return TypewriterOptions{
		TypeSpeed:        10 * time.Millisecond,
		DeleteSpeed:      5 * time.Millisecond,
		DelayAfterType:   100 * time.Millisecond,
		DelayAfterDelete: 50 * time.Millisecond,
		Loop:             loop,
	}
}

func TestTypewriterSequence(t *testing.T) {
	tw := NewTypewriter([]string{"ab", "c"}, testTypewriterOptions(false))

	steps := []struct {
		text  string
		delay time.Duration
	}{
		{"a", 10 * time.Millisecond},
		{"ab", 100 * time.Millisecond},
		{"a", 5 * time.Millisecond},
		{"", 50 * time.Millisecond},
		{"c", 0},
	}
	for i, want := range steps {
		delay := tw.Step()
		if tw.Text() != want.text || delay != want.delay {
			t.Fatalf("step %d: got %q/%v, want %q/%v", i, tw.Text(), delay, want.text, want.delay)
		}
	}
	if !tw.Done() {
		t.Fatal("expected typewriter to stop on the last word without loop")
	}
	if tw.Step() != 0 || tw.Text() != "c" {
		t.Fatal("done typewriter should hold the last word")
	}
}

func TestTypewriterLoops(t *testing.T) {
	tw := NewTypewriter([]string{"x", "y"}, testTypewriterOptions(true))

	seen := map[int]bool{}
	for i := 0; i < 20; i++ {
		tw.Step()
		seen[tw.WordIndex()] = true
	}
	if tw.Done() {
		t.Fatal("looping typewriter should never finish")
	}
	if !seen[0] || !seen[1] {
		t.Fatalf("expected both words to be shown, saw %v", seen)
	}
}

func TestTypewriterIsRuneAware(t *testing.T) {
	tw := NewTypewriter([]string{"héé"}, testTypewriterOptions(false))
	tw.Step()
	tw.Step()
	if tw.Text() != "hé" {
		t.Fatalf("expected two runes, got %q", tw.Text())
	}
	if p := tw.Progress(); p < 0.66 || p > 0.67 {
		t.Fatalf("unexpected progress %v", p)
	}
}

func TestTypewriterSkipsBlankWords(t *testing.T) {
	tw := NewTypewriter([]string{"", "  "}, TypewriterOptions{})
	if !tw.Done() || tw.Text() != "" || tw.Step() != 0 {
		t.Fatal("typewriter without words should be done and empty")
	}

	tw = NewTypewriter([]string{"", "go"}, TypewriterOptions{})
	if tw.Word() != "go" {
		t.Fatalf("expected blank words to be dropped, got %q", tw.Word())
	}
	if tw.InitialDelay() != 80*time.Millisecond {
		t.Fatalf("expected default type speed, got %v", tw.InitialDelay())
	}
}
