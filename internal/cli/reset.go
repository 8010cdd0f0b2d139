package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"
)

// confirm asks a yes/no question on the terminal.
func confirm(title, description string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	if err != nil {
		return false, fmt.Errorf("confirmation failed: %w", err)
	}
	return ok, nil
}

type ResetCmd struct {
	Yes bool `short:"y" help:"Skip the confirmation prompt."`
}

func (c *ResetCmd) Run(ctx *Context) error {
	if err := ctx.Open(true); err != nil {
		return err
	}

	if !c.Yes {
		ok, err := confirm("Clear all categories and grades?",
			"A backup is taken first when the store is a local file.")
		if err != nil {
			return err
		}
		if !ok {
			ctx.println("Reset cancelled.")
			return nil
		}
	}

	if err := ctx.backupBeforeChange(); err != nil {
		return fmt.Errorf("backup before reset failed: %w", err)
	}
	if err := ctx.Store.Reset(); err != nil {
		return err
	}
	ctx.println("✓ All categories and grades cleared")
	return nil
}
