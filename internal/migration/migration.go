// Package migration applies the numbered .sql files under migrations/ to a
// record store database. The applied version lives in a one-row
// schema_version table.
package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Dialect selects the bind-parameter syntax of the target database.
type Dialect int

const (
	DialectSQLite Dialect = iota
	DialectPostgres
)

// Migration is one NNN_name.sql file.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// ErrNewerSchema is returned when the database was migrated by a newer
// gradecalc than this one.
var ErrNewerSchema = errors.New("database schema is newer than this gradecalc supports")

// Runner migrates one database from one set of files.
type Runner struct {
	db      *sql.DB
	files   fs.FS
	dialect Dialect
}

// NewRunner creates a SQLite runner over files.
func NewRunner(db *sql.DB, files fs.FS) *Runner {
	return NewDialectRunner(db, files, DialectSQLite)
}

// NewDialectRunner creates a runner that binds parameters for dialect.
func NewDialectRunner(db *sql.DB, files fs.FS, dialect Dialect) *Runner {
	return &Runner{db: db, files: files, dialect: dialect}
}

// rebind rewrites ? placeholders to $n for PostgreSQL.
func (r *Runner) rebind(query string) string {
	if r.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, ch := range query {
		if ch != '?' {
			b.WriteRune(ch)
			continue
		}
		n++
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func (r *Runner) ensureTable() error {
	_, err := r.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY)`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version: %w", err)
	}
	return nil
}

// writeVersion replaces the stored version through db or an open transaction.
func (r *Runner) writeVersion(db execer, version int) error {
	if _, err := db.Exec("DELETE FROM schema_version"); err != nil {
		return fmt.Errorf("failed to clear schema version: %w", err)
	}
	if _, err := db.Exec(r.rebind("INSERT INTO schema_version (version) VALUES (?)"), version); err != nil {
		return fmt.Errorf("failed to record schema version %d: %w", version, err)
	}
	return nil
}

// GetCurrentVersion returns the applied version, or 0 for a fresh database.
func (r *Runner) GetCurrentVersion() (int, error) {
	if err := r.ensureTable(); err != nil {
		return 0, err
	}
	var version int
	switch err := r.db.QueryRow("SELECT version FROM schema_version").Scan(&version); {
	case errors.Is(err, sql.ErrNoRows):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// SetVersion overwrites the applied version without running anything.
func (r *Runner) SetVersion(version int) error {
	if err := r.ensureTable(); err != nil {
		return err
	}
	return r.writeVersion(r.db, version)
}

// parseFileName splits "007_add_index.sql" into 7 and "add_index".
func parseFileName(name string) (int, string, error) {
	prefix, rest, ok := strings.Cut(strings.TrimSuffix(name, ".sql"), "_")
	if !ok {
		return 0, "", fmt.Errorf("invalid migration filename %s: expected NNN_name.sql", name)
	}
	version, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, "", fmt.Errorf("invalid version number in %s: %w", name, err)
	}
	if version < 1 {
		return 0, "", fmt.Errorf("invalid version number in %s: version must be at least 1", name)
	}
	return version, rest, nil
}

// ReadMigrationFiles returns every .sql file, ordered by version.
func (r *Runner) ReadMigrationFiles() ([]Migration, error) {
	entries, err := fs.ReadDir(r.files, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}

	var out []Migration
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".sql" {
			continue
		}
		version, name, err := parseFileName(e.Name())
		if err != nil {
			return nil, err
		}
		body, err := fs.ReadFile(r.files, e.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", e.Name(), err)
		}
		out = append(out, Migration{Version: version, Name: name, SQL: string(body)})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	for i := 1; i < len(out); i++ {
		if out[i].Version == out[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %d", out[i].Version)
		}
	}
	return out, nil
}

// GetLatestVersion returns the highest version on disk, or 0 with no files.
func (r *Runner) GetLatestVersion() (int, error) {
	all, err := r.ReadMigrationFiles()
	if err != nil || len(all) == 0 {
		return 0, err
	}
	return all[len(all)-1].Version, nil
}

// Status reports the applied and the newest available versions.
func (r *Runner) Status() (current, latest int, err error) {
	if current, err = r.GetCurrentVersion(); err != nil {
		return 0, 0, err
	}
	if latest, err = r.GetLatestVersion(); err != nil {
		return 0, 0, err
	}
	return current, latest, nil
}

// ValidateVersion fails with ErrNewerSchema when the database is ahead of
// the files.
func (r *Runner) ValidateVersion() error {
	current, latest, err := r.Status()
	if err != nil {
		return err
	}
	return checkAhead(current, latest)
}

func checkAhead(current, latest int) error {
	if current > latest {
		return fmt.Errorf("%w: database is at version %d, newest known is %d; upgrade gradecalc", ErrNewerSchema, current, latest)
	}
	return nil
}

// ApplyMigrations runs every file above the applied version, one transaction
// per file, and returns how many ran. progress receives human-readable
// status lines and may be nil.
func (r *Runner) ApplyMigrations(progress func(string)) (int, error) {
	say := func(format string, args ...any) {
		if progress != nil {
			progress(fmt.Sprintf(format, args...))
		}
	}

	current, err := r.GetCurrentVersion()
	if err != nil {
		return 0, err
	}
	all, err := r.ReadMigrationFiles()
	if err != nil {
		return 0, err
	}
	if len(all) == 0 {
		say("No migration files found")
		return 0, nil
	}
	latest := all[len(all)-1].Version
	if err := checkAhead(current, latest); err != nil {
		return 0, err
	}

	first := sort.Search(len(all), func(i int) bool { return all[i].Version > current })
	pending := all[first:]
	if len(pending) == 0 {
		say("Schema is current at version %d", current)
		return 0, nil
	}

	say("Migrating schema from version %d to %d", current, latest)
	started := time.Now()
	for i, m := range pending {
		if err := r.apply(m); err != nil {
			return i, err
		}
		say("  ✓ %03d %s", m.Version, m.Name)
	}
	say("Applied %d migration(s) in %v", len(pending), time.Since(started).Round(time.Millisecond))
	return len(pending), nil
}

func (r *Runner) apply(m Migration) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("migration %d: failed to begin: %w", m.Version, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(m.SQL); err != nil {
		return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Name, err)
	}
	if err := r.writeVersion(tx, m.Version); err != nil {
		return fmt.Errorf("migration %d: %w", m.Version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("migration %d: failed to commit: %w", m.Version, err)
	}
	return nil
}
