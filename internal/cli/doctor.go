package cli

import (
	"errors"
	"fmt"

	"github.com/julianstephens/gradecalc/internal/backup"
	"github.com/julianstephens/gradecalc/internal/keyring"
	"github.com/julianstephens/gradecalc/internal/lock"
)

type DoctorCmd struct{}

type schemaReporter interface {
	SchemaStatus() (current, latest int, err error)
}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.println("Running diagnostics...")
	ctx.println()

	hasError := false
	reachable := false

	report := func(name string, err error) {
		if err != nil {
			ctx.printf("❌ %s: FAIL\n", name)
			ctx.printf("   Error: %v\n", err)
			hasError = true
			return
		}
		ctx.printf("✓ %s: OK\n", name)
	}

	err := checkStorageReachable(ctx)
	report("Storage reachable", err)
	reachable = err == nil

	if reachable {
		report("Schema version", checkSchemaVersion(ctx))
	} else {
		ctx.printf("⊘ Schema version: SKIPPED (storage not reachable)\n")
	}

	if err := checkBackupsPresent(ctx); err != nil {
		ctx.printf("⚠ Backups present: WARNING\n")
		ctx.printf("   %v\n", err)
	} else {
		ctx.printf("✓ Backups present: OK\n")
	}

	if reachable {
		report("Data validation", checkValidation(ctx))
	} else {
		ctx.printf("⊘ Data validation: SKIPPED (storage not reachable)\n")
	}

	checkLock(ctx)

	if keyring.IsAvailable() {
		ctx.printf("✓ OS keyring: available\n")
	} else {
		ctx.printf("ℹ OS keyring: not available (only needed for --store keyring)\n")
	}

	ctx.println()
	if hasError {
		ctx.println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.println("All diagnostics passed!")
	return nil
}

func checkStorageReachable(ctx *Context) error {
	p, err := ctx.OpenProvider()
	if err != nil {
		return err
	}
	if err := p.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}
	if _, err := p.ListRecords(); err != nil {
		return fmt.Errorf("failed to query storage: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *Context) error {
	sr, ok := ctx.Provider.(schemaReporter)
	if !ok {
		// JSON, Redis and memory stores have no schema
		return nil
	}
	current, latest, err := sr.SchemaStatus()
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("storage schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *Context) error {
	mgr, err := ctx.BackupManager()
	if errors.Is(err, backup.ErrUnsupported) {
		return errors.New("not a file store, back it up with the database's own tools")
	}
	if err != nil {
		return err
	}
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'gradecalc backup create'")
	}
	return nil
}

func checkValidation(ctx *Context) error {
	if err := ctx.Open(false); err != nil {
		return err
	}
	result, err := validateStored(ctx)
	if err != nil {
		return err
	}
	if result.HasErrors() {
		return fmt.Errorf("stored data has errors, run 'gradecalc validate --fix'")
	}
	return nil
}

func checkLock(ctx *Context) {
	if !ctx.isFileStore() {
		return
	}
	dir, err := ctx.Config.ConfigDir()
	if err != nil {
		return
	}
	if holder, live := lock.Inspect(dir); live {
		ctx.printf("ℹ Store lock: held by pid %d (%s)\n", holder.PID, holder.Executable)
		return
	}
	ctx.printf("✓ Store lock: free\n")
}
