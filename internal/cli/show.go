package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/gradecalc/internal/grading"
	"github.com/julianstephens/gradecalc/internal/models"
)

type ShowCmd struct {
	JSON   bool `help:"Print the summary as JSON."`
	Grades bool `short:"g" help:"List every grade under its category."`
}

func (c *ShowCmd) Run(ctx *Context) error {
	if err := ctx.Open(false); err != nil {
		return err
	}
	summary := ctx.Store.Summary()

	if c.JSON {
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal summary: %w", err)
		}
		ctx.println(string(data))
		return nil
	}

	ctx.printf("Mode: %s\n\n", modeName(summary.Weighted))
	if len(summary.Categories) == 0 {
		ctx.println("No categories found")
	} else {
		ctx.println(categoryTable(summary))
	}
	if c.Grades {
		state := ctx.Store.Snapshot()
		for _, cat := range state.Categories {
			ctx.printf("\n%s (%s)\n", cat.Name, cat.ID)
			printGrades(ctx, cat)
		}
	}
	ctx.printf("\nFinal: %s (%s)\n", summary.FinalDisplay, summary.Letter)
	return nil
}

func modeName(weighted bool) string {
	if weighted {
		return "weighted"
	}
	return "unweighted"
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func optionalNumber(v *float64) string {
	if v == nil {
		return "--"
	}
	return number(*v)
}

func categoryTable(summary grading.Summary) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "Category", "Weight", "Average", "Grades")
	for _, c := range summary.Categories {
		t.Row(c.ID, c.Name, number(c.Weight), c.Display, fmt.Sprintf("%d/%d", c.ValidCount, c.GradeCount))
	}
	return t.String()
}

func printGrades(ctx *Context, cat models.Category) {
	if len(cat.Grades) == 0 {
		ctx.println("  No grades yet")
		return
	}
	for _, g := range cat.Grades {
		ctx.printf("  %-10s %s: %s / %s\n", g.ID, g.Name, optionalNumber(g.Score), optionalNumber(g.Max))
	}
}
