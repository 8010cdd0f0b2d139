package tui

import "github.com/charmbracelet/lipgloss"

var (
	paneStyle = lipgloss.NewStyle().Padding(1, 2)

	tabStyle        = lipgloss.NewStyle().Padding(0, 2).Foreground(lipgloss.Color("243"))
	currentTabStyle = tabStyle.Foreground(lipgloss.Color("212")).Bold(true).Underline(true)

	bannerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("178")).Italic(true)
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
)

func statusStyle(failed bool) lipgloss.Style {
	if failed {
		return failureStyle
	}
	return noticeStyle
}
