package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/gradecalc/internal/calculator"
)

// optionalNumber accepts blank input; anything else has to parse.
func optionalNumber(label string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return nil
		}
		if calculator.ParseScore(s) == nil {
			return fmt.Errorf("%s must be a number", label)
		}
		return nil
	}
}

func newCategoryForm(fm *CategoryFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Category Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Weight").
				Description("Blank counts as 0").
				Value(&fm.Weight).
				Validate(optionalNumber("weight")),
		),
	).WithTheme(huh.ThemeDracula())
}

func newGradeForm(fm *GradeFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Grade Name").
				Value(&fm.Name),
			huh.NewInput().
				Title("Score").
				Description("Leave blank if not graded yet").
				Value(&fm.Score).
				Validate(optionalNumber("score")),
			huh.NewInput().
				Title("Max Points").
				Value(&fm.Max).
				Validate(optionalNumber("max points")),
		),
	).WithTheme(huh.ThemeDracula())
}

func newConfirmForm(title, description string, fm *ConfirmationFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(&fm.Confirmed),
		),
	).WithTheme(huh.ThemeDracula())
}
