package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/gradecalc/internal/tui/components/summary"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateForm:
		content = paneStyle.Render(m.form.View())
	case StateConfirm:
		content = lipgloss.Place(m.width, m.height-4,
			lipgloss.Center, lipgloss.Center,
			m.form.View(),
		)
	default:
		content = m.viewPanes()
	}

	var banner string
	if m.validationWarning != "" {
		banner = bannerStyle.Render(m.validationWarning)
	}
	var status string
	if m.status.text != "" {
		status = statusStyle(m.status.failed).Render(m.status.text)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		banner,
		content,
		status,
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range []string{"Categories", "Grades"} {
		if m.state == SessionState(i) {
			tabs = append(tabs, currentTabStyle.Render(title))
		} else {
			tabs = append(tabs, incurrentTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewPanes() string {
	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		paneStyle.Render(m.categories.View()),
		paneStyle.Render(m.grades.View()),
	)
	return lipgloss.JoinVertical(lipgloss.Left,
		panes,
		paneStyle.Render(summary.Render(m.summary)),
	)
}
