package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/gradecalc/internal/models"
	"github.com/julianstephens/gradecalc/internal/storage"
	"github.com/julianstephens/gradecalc/internal/validation"
)

type ValidateCmd struct {
	Fix bool `help:"Rewrite the stored record in repaired form."`
}

// Loading already repairs the in-memory state, so the stored bytes are what
// gets validated here.
func (cmd *ValidateCmd) Run(ctx *Context) error {
	if err := ctx.Open(cmd.Fix); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}

	ctx.println("Validating stored grade data...")
	result, err := validateStored(ctx)
	if err != nil {
		return err
	}

	// A corrupt record loads as a seeded default. Keep that out of storage
	// and out of the backup below.
	ctx.Store.Discard()

	ctx.println()
	ctx.println(result.FormatReport())

	if !cmd.Fix || !result.Fixable() {
		return nil
	}

	if err := ctx.backupBeforeChange(); err != nil {
		return fmt.Errorf("backup before fix failed: %w", err)
	}
	if err := ctx.Store.Replace(ctx.Store.Snapshot()); err != nil {
		return err
	}
	after, err := validateStored(ctx)
	if err != nil {
		return err
	}
	ctx.printf("✓ Repaired %d conflict(s)\n", len(result.Conflicts)-len(after.Conflicts))
	return nil
}

func validateStored(ctx *Context) (validation.ValidationResult, error) {
	validator := validation.New()

	raw, err := ctx.Provider.ReadRecord(ctx.Store.Key())
	if errors.Is(err, storage.ErrRecordNotFound) {
		return validator.Validate(ctx.Store.Snapshot()), nil
	}
	if err != nil {
		return validation.ValidationResult{}, fmt.Errorf("failed to read stored record: %w", err)
	}

	var stored models.CalculatorState
	if err := json.Unmarshal(raw, &stored); err != nil {
		return validation.ValidationResult{Conflicts: []validation.Conflict{{
			Type:        validation.ConflictInvalidRecord,
			Severity:    validation.SeverityError,
			Description: fmt.Sprintf("Stored record does not match the expected layout: %v", err),
			Fixable:     true,
		}}}, nil
	}
	return validator.Validate(stored), nil
}
