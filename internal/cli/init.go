package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/gradecalc/internal/config"
	"github.com/julianstephens/gradecalc/internal/constants"
	"github.com/julianstephens/gradecalc/internal/storage"
)

type InitCmd struct {
	WriteConfig bool   `help:"Also write the effective settings to a config file."`
	ConfigPath  string `help:"Config file written by --write-config." default:"${config_file}"`
}

func (c *InitCmd) Run(ctx *Context) error {
	p, err := ctx.OpenProvider()
	if err != nil {
		return err
	}

	switch err := p.Load(); {
	case err == nil:
		ctx.printf("gradecalc storage already initialized at: %s\n", storage.MaskPassword(p.GetConfigPath()))
	case errors.Is(err, storage.ErrNotInitialized):
		if err := p.Init(); err != nil {
			return err
		}
		ctx.printf("Initialized gradecalc storage at: %s\n", storage.MaskPassword(p.GetConfigPath()))
	default:
		return err
	}

	// Opening seeds the default category on a fresh store.
	if err := ctx.Open(true); err != nil {
		return err
	}
	if err := ctx.Store.Flush(); err != nil {
		return fmt.Errorf("failed to save initial data: %w", err)
	}

	if c.WriteConfig {
		path := c.ConfigPath
		if path == "" {
			path = constants.DefaultConfigFile
		}
		resolved, err := storage.ExpandPath(path)
		if err != nil {
			return err
		}
		if _, err := os.Stat(resolved); err == nil {
			ctx.printf("Config file already exists, leaving it alone: %s\n", resolved)
			return nil
		}
		if err := config.Write(resolved, ctx.Config); err != nil {
			return err
		}
		ctx.printf("Wrote config file: %s\n", resolved)
	}
	return nil
}
