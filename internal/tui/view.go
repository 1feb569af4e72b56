package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/hippotype/internal/engine"
	"github.com/verte-zerg/hippotype/internal/model"
	"github.com/verte-zerg/hippotype/internal/stats"
)

const traceWindow = 3

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	switch {
	case m.loading || m.session == nil:
		body = m.spinner.View() + " Generating " + m.domain.String() + " passage..."
	case m.session.Status() == engine.StatusEnded:
		body = m.renderResults()
	default:
		body = m.renderPassage()
	}

	header := m.renderTabs()
	footer := footerStyle.Render(m.help.View(m.keys))
	status := ""
	if !m.loading && m.session != nil {
		status = footerStyle.Render(statusLine(m.snap))
	}
	if m.width == 0 || m.height == 0 {
		return strings.Join([]string{header, body, status, footer}, "\n")
	}
	if m.height < 5 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
	}
	bodyHeight := m.height - 3
	return strings.Join([]string{
		lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, header),
		lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, body),
		lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, status),
		lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer),
	}, "\n")
}

func (m *Model) renderPassage() string {
	styled := buildStyledRunes(m.snap)
	if m.width == 0 {
		return renderStyledRunes(styled)
	}
	contentWidth := max(1, int(float64(m.width)*0.70))
	wrapped := wrapStyledRunes(styled, contentWidth)
	return lipgloss.NewStyle().Width(contentWidth).Render(wrapped)
}

func (m *Model) renderTabs() string {
	tabs := make([]string, 0, len(model.Domains()))
	for _, d := range model.Domains() {
		if d == m.domain {
			tabs = append(tabs, activeTabStyle.Render("["+d.String()+"]"))
			continue
		}
		tabs = append(tabs, tabStyle.Render(" "+d.String()+" "))
	}
	return strings.Join(tabs, " ")
}

func (m *Model) renderResults() string {
	sum, ok := m.session.Summary()
	if !ok {
		return ""
	}
	lines := []string{
		titleStyle.Render(fmt.Sprintf("%d WPM", sum.WPM)),
		fmt.Sprintf("Accuracy %d%%", sum.Accuracy),
		fmt.Sprintf("Level    %s", sum.Level),
		fmt.Sprintf("Typed    %d  Errors %d", sum.Typed, sum.Errors),
	}
	if len(sum.Trace) > 1 {
		lines = append(lines, "Trace    "+stats.TraceLine(sum.Trace, traceWindow))
	}
	lines = append(lines, "", footerStyle.Render("enter or ctrl+n for a new passage"))
	return strings.Join(lines, "\n")
}

// statusLine formats remaining time and live metrics.
func statusLine(snap engine.Snapshot) string {
	return fmt.Sprintf("%ds | %d WPM | %d%%", snap.RemainingSeconds, snap.WPM, snap.Accuracy)
}
