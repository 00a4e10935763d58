// Package tui renders the portfolio as a bubbletea program: a hero with a
// typewriter title, the about and tech sections, the projects list and a
// live Fear & Greed gauge.
package tui

import (
	"context"
	"sync"
	"time"

	"horizonfolio/internal/domain"
	"horizonfolio/internal/feed"
	"horizonfolio/internal/portfolio"
	"horizonfolio/internal/visual"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const refreshTimeout = 15 * time.Second

// MarketFeed is the subset of *feed.Client a session uses.
type MarketFeed interface {
	Subscribe(fn func(feed.State)) func()
	HandleFocus()
	Revalidate(ctx context.Context) error
}

// VisualSource is the subset of *visual.Store a session uses.
type VisualSource interface {
	Subscribe(fn func(visual.Params, bool)) func()
}

type Section int

const (
	SectionHero Section = iota
	SectionAbout
	SectionTech
	SectionProjects
	sectionCount
)

func (s Section) String() string {
	switch s {
	case SectionHero:
		return "home"
	case SectionAbout:
		return "about"
	case SectionTech:
		return "tech"
	case SectionProjects:
		return "projects"
	default:
		return "unknown"
	}
}

type typeTickMsg struct{}

type paramsMsg struct {
	params visual.Params
	live   bool
}

type Model struct {
	content *portfolio.Content
	market  MarketFeed

	styles  styles
	keys    keyMap
	help    help.Model
	spinner spinner.Model
	writer  *Typewriter

	section   Section
	view      domain.ProfileView
	project   int
	prevTitle string

	state  feed.State
	params visual.Params
	live   bool

	width  int
	height int

	states  *mailbox[feed.State]
	visuals *mailbox[paramsMsg]
	detach  []func()
	once    sync.Once
}

// NewModel mounts a session. It subscribes to market and visuals right away;
// either may be nil. Close releases the subscriptions.
func NewModel(content *portfolio.Content, market MarketFeed, visuals VisualSource, r *lipgloss.Renderer, opts TypewriterOptions) *Model {
	if content == nil {
		content = portfolio.Default()
	}
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &Model{
		content: content,
		market:  market,
		styles:  newStyles(r),
		keys:    defaultKeyMap(),
		help:    help.New(),
		spinner: sp,
		writer:  NewTypewriter(content.TitleTexts(), opts),
		view:    domain.ProfilePersonal,
		params:  visual.Default(),
		states:  newMailbox[feed.State](),
		visuals: newMailbox[paramsMsg](),
	}

	if market != nil {
		m.detach = append(m.detach, market.Subscribe(m.states.offer))
	}
	if visuals != nil {
		m.detach = append(m.detach, visuals.Subscribe(func(p visual.Params, live bool) {
			m.visuals.offer(paramsMsg{params: p, live: live})
		}))
	}
	return m
}

// Close unsubscribes the session. Safe to call more than once.
func (m *Model) Close() {
	m.once.Do(func() {
		for _, fn := range m.detach {
			fn()
		}
		m.states.close()
		m.visuals.close()
	})
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width
}

func (m *Model) Section() Section { return m.section }

func (m *Model) ProfileView() domain.ProfileView { return m.view }

func (m *Model) SelectedProject() int { return m.project }

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.states.wait(),
		m.visuals.wait(),
		m.typeTick(m.writer.InitialDelay()),
	)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.FocusMsg:
		if m.market != nil {
			m.market.HandleFocus()
		}
		return m, nil

	case feed.State:
		m.state = msg
		return m, m.states.wait()

	case paramsMsg:
		m.params = msg.params
		m.live = msg.live
		return m, m.visuals.wait()

	case typeTickMsg:
		prev, idx := m.writer.Word(), m.writer.WordIndex()
		delay := m.writer.Step()
		if m.writer.WordIndex() != idx {
			m.prevTitle = prev
		}
		if m.writer.Done() {
			return m, nil
		}
		return m, m.typeTick(delay)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Next):
		m.section = (m.section + 1) % sectionCount
	case key.Matches(msg, m.keys.Prev):
		m.section = (m.section + sectionCount - 1) % sectionCount
	case key.Matches(msg, m.keys.Toggle):
		m.view = m.view.Toggle()
	case key.Matches(msg, m.keys.Down):
		if m.section == SectionProjects && m.project < len(m.content.Projects)-1 {
			m.project++
		}
	case key.Matches(msg, m.keys.Up):
		if m.section == SectionProjects && m.project > 0 {
			m.project--
		}
	case key.Matches(msg, m.keys.Refresh):
		return m, m.refresh()
	}
	return m, nil
}

// refresh revalidates in the background. The outcome arrives through the
// subscription like any other update.
func (m *Model) refresh() tea.Cmd {
	if m.market == nil {
		return nil
	}
	market := m.market
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		_ = market.Revalidate(ctx)
		return nil
	}
}

func (m *Model) typeTick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return typeTickMsg{} })
}

// titleColor blends from the previous title's colour while the new one is typed.
func (m *Model) titleColor() string {
	cur := m.content.ColorsFor(m.writer.Word()).Text
	if m.prevTitle == "" || m.writer.Deleting() {
		return cur
	}
	prev := m.content.ColorsFor(m.prevTitle).Text
	blended, err := visual.InterpolateHex(prev, cur, m.writer.Progress())
	if err != nil {
		return cur
	}
	return blended
}

// LinkVisuals keeps store in step with market: every settled state publishes
// its mapped params, or the defaults when there is no data. The returned func
// stops the link.
func LinkVisuals(market MarketFeed, store *visual.Store) func() {
	return market.Subscribe(func(s feed.State) {
		if s.IsLoading {
			return
		}
		store.Publish(visual.Map(s.Data))
	})
}
