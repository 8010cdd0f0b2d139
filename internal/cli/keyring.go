package cli

import (
	"errors"
	"fmt"

	"github.com/julianstephens/gradecalc/internal/keyring"
	"github.com/julianstephens/gradecalc/internal/storage"
)

type KeyringCmd struct {
	Set    KeyringSetCmd    `cmd:"" help:"Store a connection string in the OS keyring."`
	Get    KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
	Delete KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
	Status KeyringStatusCmd `cmd:"" help:"Check whether the OS keyring is available."`
}

// KeyringSetCmd stores a PostgreSQL or Redis connection string
type KeyringSetCmd struct {
	ConnectionString string `arg:"" help:"postgres:// or redis:// connection string."`
	Account          string `help:"Keyring account name; use it as --store keyring:NAME."`
}

func (cmd *KeyringSetCmd) Run(ctx *Context) error {
	switch storage.KindOf(cmd.ConnectionString) {
	case storage.KindPostgres:
		if err := storage.ValidateConnString(cmd.ConnectionString); err != nil && !errors.Is(err, storage.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
	case storage.KindRedis:
	default:
		return errors.New("connection string must start with postgres://, postgresql://, redis:// or rediss://")
	}

	if storage.HasEmbeddedCredentials(cmd.ConnectionString) {
		ctx.println("⚠️  Warning: Connection string contains embedded credentials.")
		ctx.println("   It will be stored as-is in the encrypted OS keyring.")
	}

	if err := keyring.Set(cmd.Account, cmd.ConnectionString); err != nil {
		return fmt.Errorf("failed to store connection string in keyring: %w", err)
	}

	ctx.println("✓ Connection string stored successfully in OS keyring")
	store := KeyringLocation
	if cmd.Account != "" {
		store += ":" + cmd.Account
	}
	ctx.printf("  Use it with --store %s\n", store)
	return nil
}

type KeyringGetCmd struct {
	Account string `help:"Keyring account name."`
}

func (cmd *KeyringGetCmd) Run(ctx *Context) error {
	connStr, err := keyring.Get(cmd.Account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring. Use 'gradecalc keyring set' to store one")
		}
		return fmt.Errorf("failed to retrieve connection string from keyring: %w", err)
	}

	ctx.println("Connection string retrieved from keyring:")
	ctx.println(storage.MaskPassword(connStr))
	return nil
}

type KeyringDeleteCmd struct {
	Account string `help:"Keyring account name."`
}

func (cmd *KeyringDeleteCmd) Run(ctx *Context) error {
	if err := keyring.Delete(cmd.Account); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return fmt.Errorf("failed to delete connection string from keyring: %w", err)
	}
	ctx.println("✓ Connection string deleted from OS keyring")
	return nil
}

type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *Context) error {
	if !keyring.IsAvailable() {
		ctx.println("❌ OS keyring is not available on this system")
		return errors.New("keyring unavailable")
	}
	ctx.println("✓ OS keyring is available")
	if _, err := keyring.Get(""); err == nil {
		ctx.println("✓ Connection string is stored in keyring")
	} else if errors.Is(err, keyring.ErrNotFound) {
		ctx.println("ℹ No connection string stored in keyring")
	}
	return nil
}
