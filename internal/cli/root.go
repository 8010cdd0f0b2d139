package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/julianstephens/gradecalc/internal/backup"
	"github.com/julianstephens/gradecalc/internal/calculator"
	"github.com/julianstephens/gradecalc/internal/config"
	"github.com/julianstephens/gradecalc/internal/keyring"
	"github.com/julianstephens/gradecalc/internal/lock"
	"github.com/julianstephens/gradecalc/internal/logger"
	"github.com/julianstephens/gradecalc/internal/storage"
)

// KeyringLocation as the store location reads the connection string from
// the OS keyring. "keyring:NAME" selects a named account.
const KeyringLocation = "keyring"

type Context struct {
	Config   config.Config
	Provider storage.Provider
	Store    *calculator.Store
	Out      io.Writer

	lock *lock.Lock
}

// NewContext returns a context writing to stdout. Nothing is opened yet.
func NewContext(cfg config.Config) *Context {
	return &Context{Config: cfg, Out: os.Stdout}
}

func (c *Context) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) println(args ...interface{}) {
	fmt.Fprintln(c.Out, args...)
}

// resolveLocation swaps a keyring reference for the stored connection string.
func resolveLocation(location string) (string, bool, error) {
	if location != KeyringLocation && !strings.HasPrefix(location, KeyringLocation+":") {
		return location, false, nil
	}
	account := strings.TrimPrefix(strings.TrimPrefix(location, KeyringLocation), ":")
	connStr, err := keyring.Get(account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", true, errors.New("no connection string found in keyring, use 'gradecalc keyring set' to store one")
		}
		return "", true, err
	}
	return connStr, true, nil
}

// OpenProvider opens the configured storage without loading it.
func (c *Context) OpenProvider() (storage.Provider, error) {
	if c.Provider != nil {
		return c.Provider, nil
	}
	location, trusted, err := resolveLocation(c.Config.Store)
	if err != nil {
		return nil, err
	}
	var p storage.Provider
	if trusted {
		p, err = storage.OpenTrusted(location)
	} else {
		p, err = storage.Open(location)
	}
	if err != nil {
		if errors.Is(err, storage.ErrEmbeddedCredentials) {
			return nil, fmt.Errorf("%w: store the connection string with 'gradecalc keyring set' and use --store keyring", err)
		}
		return nil, err
	}
	c.Provider = p
	return p, nil
}

// Open loads storage and the grade store. Commands that change grades pass
// exclusive so that two writers never share a file store. A non-exclusive
// open is read-only: nothing it loads or seeds is saved.
func (c *Context) Open(exclusive bool) error {
	if c.Store != nil {
		return nil
	}
	p, err := c.OpenProvider()
	if err != nil {
		return err
	}

	if exclusive && c.isFileStore() {
		dir, err := c.Config.ConfigDir()
		if err != nil {
			return err
		}
		l, err := lock.Acquire(dir)
		if err != nil {
			return err
		}
		c.lock = l
	}

	if err := p.Load(); err != nil {
		return err
	}
	c.Store = calculator.Open(p,
		calculator.WithRecordKey(c.Config.RecordKey),
		calculator.WithDebounce(c.Config.Debounce),
		calculator.WithLogger(logger.For("store")),
	)
	if !exclusive {
		// Without the lock nothing may be written, including the seeded
		// default category.
		c.Store.Discard()
	}
	logger.Debug("store opened", "location", storage.MaskPassword(p.GetConfigPath()), "session", c.Store.Session())
	return nil
}

func (c *Context) isFileStore() bool {
	if c.Provider == nil {
		return false
	}
	switch c.Provider.(type) {
	case *storage.SQLiteStore, *storage.JSONStore:
		return true
	}
	return false
}

// Close flushes pending edits and releases storage and the lock.
func (c *Context) Close() error {
	var errs []error
	if c.Store != nil {
		errs = append(errs, c.Store.Close())
		c.Store = nil
	}
	if c.Provider != nil {
		errs = append(errs, c.Provider.Close())
		c.Provider = nil
	}
	if c.lock != nil {
		errs = append(errs, c.lock.Release())
		c.lock = nil
	}
	return errors.Join(errs...)
}

// BackupManager returns the backup manager for a file store.
func (c *Context) BackupManager() (*backup.Manager, error) {
	p, err := c.OpenProvider()
	if err != nil {
		return nil, err
	}
	switch p.(type) {
	case *storage.SQLiteStore, *storage.JSONStore:
		return backup.NewManager(p.GetConfigPath(), c.Config.MaxBackups), nil
	}
	return nil, backup.ErrUnsupported
}

// PerformAutomaticBackup backs up a file store after flushing pending edits.
// Failures are logged and otherwise ignored.
func (c *Context) PerformAutomaticBackup() {
	if err := c.backupNow(); err != nil && !errors.Is(err, backup.ErrUnsupported) {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

func (c *Context) backupNow() error {
	mgr, err := c.BackupManager()
	if err != nil {
		return err
	}
	if c.Store != nil {
		if err := c.Store.Flush(); err != nil {
			return err
		}
	}
	_, err = mgr.CreateBackup()
	return err
}

// backupBeforeChange is the safety copy taken before destructive commands.
// Remote stores have no file to copy, which is not an error here.
func (c *Context) backupBeforeChange() error {
	if err := c.backupNow(); err != nil && !errors.Is(err, backup.ErrUnsupported) {
		return err
	}
	return nil
}
