package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/gradecalc/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	if err := ctx.Open(true); err != nil {
		return err
	}

	if ctx.Config.BackupOnStart {
		ctx.PerformAutomaticBackup()
	}

	model := tui.NewModel(ctx.Store, tui.WithBeforeReset(ctx.backupBeforeChange))
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithReportFocus())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
