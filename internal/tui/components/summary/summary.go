package summary

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/gradecalc/internal/grading"
)

var (
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	gradeStyle = lipgloss.NewStyle().Bold(true)
	modeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 2)
)

// bandColors tints the final grade by letter. No data stays grey.
var bandColors = map[byte]lipgloss.Color{
	'A': lipgloss.Color("114"),
	'B': lipgloss.Color("150"),
	'C': lipgloss.Color("178"),
	'D': lipgloss.Color("208"),
	'F': lipgloss.Color("203"),
}

func letterStyle(letter string) lipgloss.Style {
	if letter != "" {
		if c, ok := bandColors[letter[0]]; ok {
			return gradeStyle.Foreground(c)
		}
	}
	return gradeStyle.Foreground(lipgloss.Color("240"))
}

// Render draws the final grade box.
func Render(s grading.Summary) string {
	mode := "unweighted"
	if s.Weighted {
		mode = "weighted"
	}

	lines := []string{
		labelStyle.Render("Final grade"),
		letterStyle(s.Letter).Render(fmt.Sprintf("%s  %s", s.FinalDisplay, s.Letter)),
		"",
		labelStyle.Render("Mode ") + modeStyle.Render(mode),
	}
	if s.Weighted {
		lines = append(lines, labelStyle.Render("Weights counted ")+
			strconv.FormatFloat(s.WeightTotal, 'f', -1, 64))
	}
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
