package cli

import (
	"fmt"

	"github.com/julianstephens/gradecalc/internal/calculator"
	"github.com/julianstephens/gradecalc/internal/grading"
)

type GradeCmd struct {
	Add    GradeAddCmd    `cmd:"" help:"Add a grade to a category."`
	Remove GradeRemoveCmd `cmd:"" aliases:"rm" help:"Remove a grade."`
	Set    GradeSetCmd    `cmd:"" help:"Edit a grade."`
	List   GradeListCmd   `cmd:"" aliases:"ls" help:"List the grades of a category."`
}

type GradeAddCmd struct {
	CategoryID string `arg:"" help:"Category ID."`
	Name       string `arg:"" help:"Grade name."`
	Score      string `short:"s" help:"Points earned; leave out if not graded yet."`
	Max        string `short:"m" help:"Points possible."`
}

func (c *GradeAddCmd) Run(ctx *Context) error {
	if err := ctx.Open(true); err != nil {
		return err
	}
	g, ok := ctx.Store.CreateGrade(c.CategoryID, c.Name, calculator.ParseScore(c.Score), calculator.ParseScore(c.Max))
	if !ok {
		return fmt.Errorf("category not found: %s", c.CategoryID)
	}
	ctx.printf("✓ Added grade %s (%s): %s / %s\n", g.Name, g.ID, optionalNumber(g.Score), optionalNumber(g.Max))
	return nil
}

type GradeRemoveCmd struct {
	CategoryID string `arg:"" help:"Category ID."`
	GradeID    string `arg:"" help:"Grade ID."`
}

func (c *GradeRemoveCmd) Run(ctx *Context) error {
	if err := ctx.Open(true); err != nil {
		return err
	}
	g, ok := ctx.Store.Grade(c.CategoryID, c.GradeID)
	if !ok {
		return fmt.Errorf("grade not found: %s in %s", c.GradeID, c.CategoryID)
	}
	ctx.Store.RemoveGrade(c.CategoryID, c.GradeID)
	ctx.printf("✓ Removed grade %s\n", g.Name)
	return nil
}

// GradeSetCmd edits only the fields that were given. An empty --score or
// --max clears that value.
type GradeSetCmd struct {
	CategoryID string  `arg:"" help:"Category ID."`
	GradeID    string  `arg:"" help:"Grade ID."`
	Name       *string `help:"New name."`
	Score      *string `short:"s" help:"Points earned; empty clears it."`
	Max        *string `short:"m" help:"Points possible; empty clears it."`
}

func (c *GradeSetCmd) Run(ctx *Context) error {
	if err := ctx.Open(true); err != nil {
		return err
	}
	if _, ok := ctx.Store.Grade(c.CategoryID, c.GradeID); !ok {
		return fmt.Errorf("grade not found: %s in %s", c.GradeID, c.CategoryID)
	}
	if c.Name == nil && c.Score == nil && c.Max == nil {
		return fmt.Errorf("nothing to change, pass --name, --score or --max")
	}

	if c.Name != nil {
		ctx.Store.RenameGrade(c.CategoryID, c.GradeID, *c.Name)
	}
	if c.Score != nil {
		ctx.Store.SetGradeScore(c.CategoryID, c.GradeID, calculator.ParseScore(*c.Score))
	}
	if c.Max != nil {
		ctx.Store.SetGradeMax(c.CategoryID, c.GradeID, calculator.ParseScore(*c.Max))
	}

	g, _ := ctx.Store.Grade(c.CategoryID, c.GradeID)
	ctx.printf("✓ Updated grade %s (%s): %s / %s\n", g.Name, g.ID, optionalNumber(g.Score), optionalNumber(g.Max))
	return nil
}

type GradeListCmd struct {
	CategoryID string `arg:"" help:"Category ID."`
}

func (c *GradeListCmd) Run(ctx *Context) error {
	if err := ctx.Open(false); err != nil {
		return err
	}
	cat, ok := ctx.Store.Category(c.CategoryID)
	if !ok {
		return fmt.Errorf("category not found: %s", c.CategoryID)
	}
	avg, has := ctx.Store.CategoryAverage(c.CategoryID)
	ctx.printf("%s (%s), average %s\n", cat.Name, cat.ID, grading.FormatPercent(avg, has))
	printGrades(ctx, cat)
	return nil
}
