package tui

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"horizonfolio/internal/domain"
	"horizonfolio/internal/feed"
	"horizonfolio/internal/portfolio"
	"horizonfolio/internal/visual"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type stubFeed struct {
	mu           sync.Mutex
	fn           func(feed.State)
	focus        int
	revalidated  int
	unsubscribed bool
}

func (f *stubFeed) Subscribe(fn func(feed.State)) func() {
	f.mu.Lock()
	f.fn = fn
	f.mu.Unlock()
	fn(feed.State{})
	return func() {
		f.mu.Lock()
		f.unsubscribed = true
		f.mu.Unlock()
	}
}

func (f *stubFeed) HandleFocus() {
	f.mu.Lock()
	f.focus++
	f.mu.Unlock()
}

func (f *stubFeed) Revalidate(ctx context.Context) error {
	f.mu.Lock()
	f.revalidated++
	f.mu.Unlock()
	return nil
}

func (f *stubFeed) push(s feed.State) {
	f.mu.Lock()
	fn := f.fn
	f.mu.Unlock()
	fn(s)
}

func newTestModel(t *testing.T, market MarketFeed, visuals VisualSource) *Model {
	t.Helper()
	m := NewModel(portfolio.Default(), market, visuals, lipgloss.NewRenderer(io.Discard), TypewriterOptions{Loop: true})
	m.SetSize(100, 40)
	t.Cleanup(m.Close)
	return m
}

func payload(value float64, classification string) *domain.CombinedMarketPayload {
	return &domain.CombinedMarketPayload{
		LatestFearAndGreed: &domain.SentimentReading{
			Value:          value,
			Classification: classification,
			UpdateTime:     "2024-01-01T00:00:00Z",
		},
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSectionNavigation(t *testing.T) {
	m := newTestModel(t, nil, nil)

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.Section() != SectionAbout {
		t.Fatalf("expected about, got %v", m.Section())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.Section() != SectionProjects {
		t.Fatalf("expected wrap-around to projects, got %v", m.Section())
	}
}

func TestProfileToggle(t *testing.T) {
	m := newTestModel(t, nil, nil)
	m.Update(tea.KeyMsg{Type: tea.KeyTab})

	if !strings.Contains(m.View(), "personal view") {
		t.Fatal("expected personal view by default")
	}
	m.Update(keyRunes("t"))
	if m.ProfileView() != domain.ProfileDeveloper || !strings.Contains(m.View(), "developer view") {
		t.Fatal("expected developer view after toggle")
	}
}

func TestProjectSelection(t *testing.T) {
	m := newTestModel(t, nil, nil)

	m.Update(keyRunes("j"))
	if m.SelectedProject() != 0 {
		t.Fatal("project selection should only move in the projects section")
	}

	for m.Section() != SectionProjects {
		m.Update(tea.KeyMsg{Type: tea.KeyTab})
	}
	m.Update(keyRunes("j"))
	m.Update(keyRunes("j"))
	m.Update(keyRunes("k"))
	if m.SelectedProject() != 1 {
		t.Fatalf("expected second project, got %d", m.SelectedProject())
	}
	if !strings.Contains(m.View(), "E-commerce Platform") {
		t.Fatal("expected selected project detail in view")
	}

	for i := 0; i < 20; i++ {
		m.Update(keyRunes("j"))
	}
	if m.SelectedProject() != len(portfolio.Default().Projects)-1 {
		t.Fatal("selection should stop at the last project")
	}
}

func TestSentimentRendering(t *testing.T) {
	m := newTestModel(t, nil, nil)

	m.Update(feed.State{IsLoading: true})
	if !strings.Contains(m.View(), "fetching market sentiment") {
		t.Fatal("expected loading indicator")
	}

	m.Update(feed.State{Err: errors.New("dial tcp: connection refused")})
	view := m.View()
	if !strings.Contains(view, "unavailable") || strings.Contains(view, "connection refused") {
		t.Fatalf("error without data should render the fallback only, got:\n%s", view)
	}

	m.Update(feed.State{Data: payload(72, "Greed")})
	view = m.View()
	if !strings.Contains(view, "72") || !strings.Contains(view, "Greed") {
		t.Fatalf("expected reading in view, got:\n%s", view)
	}

	m.Update(feed.State{Data: payload(72, "Greed"), Err: errors.New("boom")})
	if !strings.Contains(m.View(), "(stale)") {
		t.Fatal("expected stale marker when revalidation failed")
	}
}

func TestSentimentLabelFallsBackToClassifier(t *testing.T) {
	m := newTestModel(t, nil, nil)
	m.Update(feed.State{Data: payload(10, "")})
	if !strings.Contains(m.View(), "Extreme Fear") {
		t.Fatal("expected derived label when provider sent none")
	}
}

func TestFeedSubscriptionLifecycle(t *testing.T) {
	market := &stubFeed{}
	m := newTestModel(t, market, nil)

	market.push(feed.State{Data: payload(30, "Fear")})
	msg := m.states.wait()()
	m.Update(msg)
	if !strings.Contains(m.View(), "Fear") {
		t.Fatal("pushed state should reach the view")
	}

	m.Update(tea.FocusMsg{})
	if market.focus != 1 {
		t.Fatalf("focus should be forwarded, got %d", market.focus)
	}

	_, cmd := m.Update(keyRunes("r"))
	if cmd == nil {
		t.Fatal("expected refresh command")
	}
	cmd()
	if market.revalidated != 1 {
		t.Fatalf("expected one revalidation, got %d", market.revalidated)
	}

	_, cmd = m.Update(keyRunes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if !market.unsubscribed {
		t.Fatal("quitting should unsubscribe")
	}
	if m.states.wait()() != nil {
		t.Fatal("closed session should stop waiting for states")
	}
}

func TestVisualParamsDriveView(t *testing.T) {
	store := visual.NewStore()
	m := newTestModel(t, nil, store)

	params := visual.FromValue(100)
	store.Publish(&params)
	m.Update(m.visuals.wait()())

	if !m.live || m.params.DiskColor != params.DiskColor {
		t.Fatalf("expected live params, got %+v live=%v", m.params, m.live)
	}
	m.Update(feed.State{Data: payload(100, "Extreme Greed")})
	if !strings.Contains(m.View(), "pulse 3.00") {
		t.Fatalf("expected params line in hero, got:\n%s", m.View())
	}
}

type stubVisuals struct {
	fn func(visual.Params, bool)
}

func (v *stubVisuals) Subscribe(fn func(visual.Params, bool)) func() {
	v.fn = fn
	fn(visual.Default(), false)
	return func() {}
}

func TestVisualParamsKeepTheirLiveFlag(t *testing.T) {
	visuals := &stubVisuals{}
	m := newTestModel(t, nil, visuals)
	m.Update(m.visuals.wait()())
	if m.live {
		t.Fatal("initial default params should not be live")
	}

	fear := visual.FromValue(0)
	visuals.fn(fear, true)
	m.Update(m.visuals.wait()())
	if !m.live || m.params != fear {
		t.Fatalf("expected live fear params, got %+v live=%v", m.params, m.live)
	}

	visuals.fn(visual.Default(), false)
	m.Update(m.visuals.wait()())
	if m.live || m.params != visual.Default() {
		t.Fatalf("expected default params, got %+v live=%v", m.params, m.live)
	}
}

func TestLinkVisuals(t *testing.T) {
	market := &stubFeed{}
	store := visual.NewStore()
	stop := LinkVisuals(market, store)
	defer stop()

	market.push(feed.State{IsLoading: true, Data: payload(0, "")})
	if _, live := store.Current(); live {
		t.Fatal("loading states should not publish")
	}

	market.push(feed.State{Data: payload(0, "Extreme Fear")})
	p, live := store.Current()
	if !live || p.DiskColor != visual.FearColor {
		t.Fatalf("expected fear params, got %+v live=%v", p, live)
	}

	market.push(feed.State{Err: errors.New("down")})
	p, live = store.Current()
	if live || p != visual.Default() {
		t.Fatal("no data should fall back to defaults")
	}
}

func TestTypewriterTicksAdvanceTitle(t *testing.T) {
	m := newTestModel(t, nil, nil)
	if m.Init() == nil {
		t.Fatal("expected init commands")
	}

	first := portfolio.Default().TitleTexts()[0]
	for i := 0; i < len([]rune(first)); i++ {
		m.Update(typeTickMsg{})
	}
	if m.writer.Text() != first {
		t.Fatalf("expected full first title, got %q", m.writer.Text())
	}
	if !strings.Contains(m.View(), first) {
		t.Fatal("expected title in hero view")
	}
}
