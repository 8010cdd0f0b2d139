package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/gradecalc/internal/export"
	"github.com/julianstephens/gradecalc/internal/storage"
)

type ExportCmd struct {
	Format string `arg:"" enum:"csv,xlsx,yaml,json" help:"Output format: csv, xlsx, yaml or json."`
	Out    string `short:"o" type:"path" help:"Write to this file instead of stdout."`
}

func (c *ExportCmd) Run(ctx *Context) error {
	if err := ctx.Open(false); err != nil {
		return err
	}
	format, err := export.ParseFormat(c.Format)
	if err != nil {
		return err
	}
	if c.Out == "" && format == export.FormatXLSX {
		return fmt.Errorf("xlsx output needs --out")
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, ctx.Store.Snapshot(), format); err != nil {
		return err
	}

	if c.Out == "" {
		_, err := buf.WriteTo(ctx.Out)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.Out), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(c.Out, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.Out, err)
	}
	ctx.printf("✓ Exported %s to %s\n", format, c.Out)
	return nil
}

type ImportCmd struct {
	File   string `arg:"" type:"existingfile" help:"JSON record or YAML report to import."`
	DryRun bool   `help:"Show the changes without applying them."`
	Yes    bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *ImportCmd) Run(ctx *Context) error {
	format, err := export.FormatForPath(c.File)
	if err != nil {
		return err
	}
	f, err := os.Open(c.File)
	if err != nil {
		return err
	}
	incoming, err := export.Read(f, format)
	f.Close()
	if err != nil {
		return err
	}

	if err := ctx.Open(!c.DryRun); err != nil {
		return err
	}
	current := ctx.Store.Snapshot()

	diff, err := export.Diff(current, incoming, storage.MaskPassword(ctx.Provider.GetConfigPath()), filepath.Base(c.File))
	if err != nil {
		return err
	}
	if diff == "" {
		ctx.println("Nothing to import, the data is identical.")
		return nil
	}
	ctx.println(diff)

	if c.DryRun {
		ctx.println("Dry run, nothing was changed.")
		return nil
	}
	if !c.Yes {
		ok, err := confirm("Replace the current grades with this import?", "A backup is taken first when the store is a local file.")
		if err != nil {
			return err
		}
		if !ok {
			ctx.println("Import cancelled.")
			return nil
		}
	}

	if err := ctx.backupBeforeChange(); err != nil {
		return fmt.Errorf("backup before import failed: %w", err)
	}
	if err := ctx.Store.Replace(incoming); err != nil {
		return err
	}
	ctx.printf("✓ Imported %d categories from %s\n", len(incoming.Categories), filepath.Base(c.File))
	return nil
}
