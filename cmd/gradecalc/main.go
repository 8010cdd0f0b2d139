package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/gradecalc/internal/cli"
	"github.com/julianstephens/gradecalc/internal/config"
	"github.com/julianstephens/gradecalc/internal/constants"
	"github.com/julianstephens/gradecalc/internal/errors"
	"github.com/julianstephens/gradecalc/internal/logger"
)

var CLI struct {
	Version   kong.VersionFlag
	Config    string `help:"YAML config file." type:"string" default:"${config_file}"`
	Store     string `help:"Store location: a .db or .json path, a postgres:// or redis:// URL without a password, or 'keyring[:NAME]'."`
	RecordKey string `help:"Record key the calculator state is saved under."`
	DebugLog  bool   `name:"debug" help:"Enable debug logging to stderr."`
	EnvFile   string `help:"Load environment variables from this file." type:"string" default:".env"`

	Init     cli.InitCmd     `cmd:"" help:"Initialize gradecalc storage."`
	Tui      cli.TuiCmd      `cmd:"" help:"Launch the interactive calculator." default:"1"`
	Show     cli.ShowCmd     `cmd:"" help:"Show categories and the final grade."`
	Category cli.CategoryCmd `cmd:"" help:"Manage grade categories."`
	Grade    cli.GradeCmd    `cmd:"" help:"Manage grades within a category."`
	Mode     cli.ModeCmd     `cmd:"" help:"Switch between weighted and unweighted grading."`
	Reset    cli.ResetCmd    `cmd:"" help:"Clear all categories and grades."`
	Export   cli.ExportCmd   `cmd:"" help:"Export grades as CSV, XLSX, YAML or JSON."`
	Import   cli.ImportCmd   `cmd:"" help:"Replace the stored grades with an exported JSON or YAML file."`
	Backup   cli.BackupCmd   `cmd:"" help:"Manage store backups."`
	Validate cli.ValidateCmd `cmd:"" help:"Check stored grades for problems."`
	Doctor   cli.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Debug    cli.DebugCmd    `cmd:"" help:"Debug commands for troubleshooting."`
	Keyring  cli.KeyringCmd  `cmd:"" help:"Manage the store connection string in the OS keyring."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Weighted and unweighted grade calculator"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_file": constants.DefaultConfigFile,
		},
	)

	cfg, err := config.Load(config.Options{
		Path:     CLI.Config,
		Explicit: CLI.Config != constants.DefaultConfigFile,
		EnvFile:  CLI.EnvFile,
	})
	if err != nil {
		errors.Fatal(err)
	}
	if CLI.Store != "" {
		cfg.Store = CLI.Store
	}
	if CLI.RecordKey != "" {
		cfg.RecordKey = CLI.RecordKey
	}
	if CLI.DebugLog {
		cfg.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		errors.Fatal(err)
	}

	configDir, err := cfg.ConfigDir()
	if err != nil {
		errors.Fatal(err)
	}
	if err := logger.Init(logger.Config{Debug: cfg.Debug, LogDir: cfg.LogDir, ConfigDir: configDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	appCtx := cli.NewContext(cfg)
	err = ctx.Run(appCtx)
	if closeErr := appCtx.Close(); err == nil {
		err = closeErr
	}
	errors.Fatal(err)
}
