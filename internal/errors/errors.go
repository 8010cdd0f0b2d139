// Package errors formats command failures for the terminal.
package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/gradecalc/internal/keyring"
	"github.com/julianstephens/gradecalc/internal/lock"
	"github.com/julianstephens/gradecalc/internal/logger"
	"github.com/julianstephens/gradecalc/internal/storage"
)

// hints pairs sentinel errors with the command that usually fixes them.
var hints = []struct {
	target error
	hint   string
}{
	{storage.ErrInvalidConnectionString, "Expected postgres://user@host:5432/db or redis://host:6379/0."},
	{lock.ErrLocked, "Close the other gradecalc window, or check 'gradecalc doctor'."},
	{keyring.ErrKeyringUnavailable, "Pass the store location with --store instead of the keyring."},
}

// Hint returns a suggested next step for err, or "".
func Hint(err error) string {
	for _, h := range hints {
		if errors.Is(err, h.target) {
			return h.hint
		}
	}
	return ""
}

// Format renders err with an "Error: " prefix and, when known, a hint line.
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %v", err)
	if hint := Hint(err); hint != "" {
		msg += "\n" + hint
	}
	return msg
}

// Warning formats a non-fatal error with a "Warning: " prefix
func Warning(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Warning: %v", err)
}

// Fatal logs err, prints it to stderr and exits 1. A nil err is a no-op.
func Fatal(err error) {
	if err == nil {
		return
	}
	logger.Error("command failed", "error", err)
	fmt.Fprintln(os.Stderr, Format(err))
	os.Exit(1)
}
