package cli

import (
	"fmt"

	"github.com/julianstephens/gradecalc/internal/calculator"
)

type CategoryCmd struct {
	Add    CategoryAddCmd    `cmd:"" help:"Add a category."`
	Remove CategoryRemoveCmd `cmd:"" aliases:"rm" help:"Remove a category and its grades."`
	Rename CategoryRenameCmd `cmd:"" help:"Rename a category."`
	Weight CategoryWeightCmd `cmd:"" help:"Change a category weight."`
	List   CategoryListCmd   `cmd:"" aliases:"ls" help:"List categories."`
}

type CategoryAddCmd struct {
	Name   string `arg:"" help:"Category name."`
	Weight string `short:"w" help:"Weight; anything that is not a number counts as 0." default:"0"`
}

func (c *CategoryAddCmd) Run(ctx *Context) error {
	if err := ctx.Open(true); err != nil {
		return err
	}
	cat := ctx.Store.CreateCategory(c.Name, calculator.ParseWeight(c.Weight))
	ctx.printf("✓ Added category %s (%s, weight %s)\n", cat.Name, cat.ID, number(cat.Weight))
	return nil
}

type CategoryRemoveCmd struct {
	ID string `arg:"" help:"Category ID."`
}

func (c *CategoryRemoveCmd) Run(ctx *Context) error {
	if err := ctx.Open(true); err != nil {
		return err
	}
	cat, ok := ctx.Store.Category(c.ID)
	if !ok {
		return fmt.Errorf("category not found: %s", c.ID)
	}
	ctx.Store.RemoveCategory(c.ID)
	ctx.printf("✓ Removed category %s and %d grade(s)\n", cat.Name, len(cat.Grades))
	return nil
}

type CategoryRenameCmd struct {
	ID   string `arg:"" help:"Category ID."`
	Name string `arg:"" help:"New name."`
}

func (c *CategoryRenameCmd) Run(ctx *Context) error {
	if err := ctx.Open(true); err != nil {
		return err
	}
	if _, ok := ctx.Store.Category(c.ID); !ok {
		return fmt.Errorf("category not found: %s", c.ID)
	}
	ctx.Store.RenameCategory(c.ID, c.Name)
	ctx.printf("✓ Renamed %s to %s\n", c.ID, c.Name)
	return nil
}

type CategoryWeightCmd struct {
	ID     string `arg:"" help:"Category ID."`
	Weight string `arg:"" help:"New weight."`
}

func (c *CategoryWeightCmd) Run(ctx *Context) error {
	if err := ctx.Open(true); err != nil {
		return err
	}
	if _, ok := ctx.Store.Category(c.ID); !ok {
		return fmt.Errorf("category not found: %s", c.ID)
	}
	weight := calculator.ParseWeight(c.Weight)
	ctx.Store.SetCategoryWeight(c.ID, weight)
	ctx.printf("✓ Set weight of %s to %s\n", c.ID, number(weight))
	return nil
}

type CategoryListCmd struct{}

func (c *CategoryListCmd) Run(ctx *Context) error {
	if err := ctx.Open(false); err != nil {
		return err
	}
	summary := ctx.Store.Summary()
	if len(summary.Categories) == 0 {
		ctx.println("No categories found")
		return nil
	}
	ctx.println(categoryTable(summary))
	return nil
}
