package storage

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// MemoryLocation selects the in-process MemoryStore.
const MemoryLocation = ":memory:"

// Kind names the backend a location resolves to.
type Kind string

const (
	KindSQLite   Kind = "sqlite"
	KindJSON     Kind = "json"
	KindPostgres Kind = "postgres"
	KindRedis    Kind = "redis"
	KindMemory   Kind = "memory"
)

// KindOf classifies a storage location without opening it.
func KindOf(location string) Kind {
	switch {
	case location == MemoryLocation:
		return KindMemory
	case strings.HasPrefix(location, "postgres://"), strings.HasPrefix(location, "postgresql://"):
		return KindPostgres
	case strings.HasPrefix(location, "redis://"), strings.HasPrefix(location, "rediss://"):
		return KindRedis
	case strings.EqualFold(filepath.Ext(location), ".json"):
		return KindJSON
	default:
		return KindSQLite
	}
}

// Open returns the Provider for location. Remote locations that carry a
// password are refused; use OpenTrusted for strings read from the keyring.
func Open(location string) (Provider, error) {
	if strings.TrimSpace(location) == "" {
		return nil, errors.New("storage location cannot be empty")
	}
	switch KindOf(location) {
	case KindPostgres:
		if err := ValidateConnString(location); err != nil {
			return nil, err
		}
	case KindRedis:
		if HasEmbeddedCredentials(location) {
			return nil, ErrEmbeddedCredentials
		}
	}
	return OpenTrusted(location)
}

// OpenTrusted is Open without the embedded credential check.
func OpenTrusted(location string) (Provider, error) {
	switch KindOf(location) {
	case KindMemory:
		return NewMemoryStore(), nil
	case KindPostgres:
		return NewPostgresStore(location), nil
	case KindRedis:
		return NewRedisStore(location), nil
	}

	path, err := ExpandPath(location)
	if err != nil {
		return nil, err
	}
	if KindOf(path) == KindJSON {
		return NewJSONStore(path), nil
	}
	return NewSQLiteStore(path), nil
}

// Ensure loads p, initializing it first when it does not exist yet.
func Ensure(p Provider) error {
	err := p.Load()
	if errors.Is(err, ErrNotInitialized) {
		if err := p.Init(); err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		return nil
	}
	return err
}

// HasEmbeddedCredentials reports whether a URL or key=value DSN carries a password.
func HasEmbeddedCredentials(connStr string) bool {
	if u, err := url.Parse(connStr); err == nil && u.Scheme != "" && u.User != nil {
		if _, set := u.User.Password(); set {
			return true
		}
	}
	for _, part := range strings.Fields(connStr) {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 2 && strings.EqualFold(strings.TrimSpace(kv[0]), "password") {
			return true
		}
	}
	return false
}

// MaskPassword hides any password in a connection string for display.
func MaskPassword(connStr string) string {
	if u, err := url.Parse(connStr); err == nil && u.Scheme != "" && u.User != nil {
		if _, set := u.User.Password(); set {
			u.User = url.UserPassword(u.User.Username(), "****")
			return strings.Replace(u.String(), "%2A%2A%2A%2A", "****", 1)
		}
		return connStr
	}

	parts := strings.Fields(connStr)
	for i, part := range parts {
		if kv := strings.SplitN(part, "=", 2); len(kv) == 2 && strings.EqualFold(kv[0], "password") {
			parts[i] = kv[0] + "=****"
		}
	}
	return strings.Join(parts, " ")
}

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
