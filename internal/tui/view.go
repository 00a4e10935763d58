package tui

import (
	"fmt"
	"math"
	"strings"

	"horizonfolio/internal/visual"

	"github.com/charmbracelet/lipgloss"
)

const gaugeWidth = 30

func (m *Model) View() string {
	body := ""
	switch m.section {
	case SectionHero:
		body = m.heroView()
	case SectionAbout:
		body = m.aboutView()
	case SectionTech:
		body = m.techView()
	case SectionProjects:
		body = m.projectsView()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.tabsView(),
		"",
		body,
		"",
		m.help.View(m.keys),
	)
}

func (m *Model) tabsView() string {
	tabs := make([]string, 0, sectionCount)
	for s := SectionHero; s < sectionCount; s++ {
		style := m.styles.tab
		if s == m.section {
			style = m.styles.activeTab
		}
		tabs = append(tabs, style.Render(s.String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) heroView() string {
	p := m.content.Profile
	title := m.styles.fg(m.titleColor()).Render(m.writer.Text() + "▌")

	lines := []string{
		m.styles.name.Render(p.Name),
		title,
	}
	if p.Tagline != "" {
		lines = append(lines, m.styles.muted.Render(p.Tagline))
	}
	lines = append(lines, "", m.sentimentView())

	border := m.content.ColorsFor(m.writer.Word()).Border
	if m.live {
		border = m.params.DiskColor
	}
	return m.styles.box.BorderForeground(lipgloss.Color(border)).Render(strings.Join(lines, "\n"))
}

// sentimentView never shows raw error text. A failed fetch without data
// renders the default scene.
func (m *Model) sentimentView() string {
	data := m.state.Data
	if data == nil || data.LatestFearAndGreed == nil {
		switch {
		case m.state.IsLoading:
			return m.spinner.View() + " fetching market sentiment"
		case m.state.Err != nil:
			return m.styles.muted.Render("market sentiment unavailable, showing the calm default scene")
		default:
			return m.styles.muted.Render("market sentiment pending")
		}
	}

	reading := data.LatestFearAndGreed
	value := reading.Value
	label := visual.Label(reading.Classification, value)
	color := visual.DiskColor(value)

	header := fmt.Sprintf("Fear & Greed %s · %s", m.styles.fg(color).Bold(true).Render(fmt.Sprintf("%.0f", value)), label)
	if m.state.Err != nil {
		header += m.styles.muted.Render(" (stale)")
	}
	if m.state.IsLoading {
		header += " " + m.spinner.View()
	}

	lines := []string{header, m.gauge(value, color), m.paramsLine()}
	if alt := data.AlternativeFearAndGreed; alt != nil {
		lines = append(lines, m.styles.muted.Render(fmt.Sprintf("alternative.me %.0f · %s", alt.Value, visual.Label(alt.Classification, alt.Value))))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) gauge(value float64, color string) string {
	v := math.Max(0, math.Min(100, value))
	filled := int(math.Round(v / 100 * gaugeWidth))
	return m.styles.fg(color).Render(strings.Repeat("█", filled)) +
		m.styles.muted.Render(strings.Repeat("░", gaugeWidth-filled))
}

func (m *Model) paramsLine() string {
	p := m.params
	return m.styles.muted.Render(fmt.Sprintf(
		"disk %.2f · turbulence %.2f · lensing %.2f · pulse %.2f",
		p.DiskVelocity, p.DiskTurbulence, p.LensingStrength, p.PulseRate,
	))
}

func (m *Model) aboutView() string {
	heading := fmt.Sprintf("about · %s view", m.view)
	lines := []string{m.styles.name.Render(heading), ""}
	for _, para := range m.content.Profile.About.Paragraphs(m.view) {
		lines = append(lines, m.wrap(para), "")
	}
	lines = append(lines, m.styles.muted.Render("press t to switch to the "+string(m.view.Toggle())+" view"))
	return strings.Join(lines, "\n")
}

func (m *Model) techView() string {
	chips := make([]string, 0, len(m.content.Profile.TechStack))
	for _, t := range m.content.Profile.TechStack {
		chips = append(chips, m.styles.fg(t.Color).Render("● "+t.Name))
	}
	return m.wrap(strings.Join(chips, "  "))
}

func (m *Model) projectsView() string {
	projects := m.content.Projects
	if len(projects) == 0 {
		return m.styles.muted.Render("no projects yet")
	}

	list := make([]string, len(projects))
	for i, p := range projects {
		if i == m.project {
			list[i] = m.styles.selected.Render("▸ " + p.Title)
			continue
		}
		list[i] = "  " + p.Title
	}

	p := projects[m.project]
	detail := []string{
		m.styles.name.Render(p.Title),
		m.wrap(p.Description),
		m.styles.muted.Render(strings.Join(p.TechStack, " · ")),
	}
	if p.GithubURL != "" {
		detail = append(detail, "code: "+p.GithubURL)
	}
	if p.LivePreviewURL != "" {
		detail = append(detail, "live: "+p.LivePreviewURL)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		strings.Join(list, "\n"),
		"",
		strings.Join(detail, "\n"),
	)
}

func (m *Model) wrap(s string) string {
	if m.width <= 4 {
		return s
	}
	return m.styles.r.NewStyle().Width(m.width - 4).Render(s)
}
