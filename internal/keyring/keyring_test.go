package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestSetAndGet(t *testing.T) {
	gokeyring.MockInit()

	connStr := "postgres://student@localhost:5432/grades?sslmode=disable"
	if err := Set("", connStr); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	got, err := Get("")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got != connStr {
		t.Errorf("Get() = %q, want %q", got, connStr)
	}
}

func TestAccountsAreSeparate(t *testing.T) {
	gokeyring.MockInit()

	if err := Set("redis", "redis://:secret@localhost:6379/0"); err != nil {
		t.Fatal(err)
	}
	if _, err := Get("postgres"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(postgres) error = %v, want %v", err, ErrNotFound)
	}
	if got, err := Get("redis"); err != nil || got != "redis://:secret@localhost:6379/0" {
		t.Errorf("Get(redis) = %q, %v", got, err)
	}
}

func TestSetEmpty(t *testing.T) {
	gokeyring.MockInit()

	if err := Set("", ""); err == nil {
		t.Error("Set with an empty connection string should fail")
	}
}

func TestDelete(t *testing.T) {
	gokeyring.MockInit()

	if err := Delete(""); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() on empty keyring = %v, want %v", err, ErrNotFound)
	}

	if err := Set("", "postgres://localhost/grades"); err != nil {
		t.Fatal(err)
	}
	if err := Delete(""); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := Get(""); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Delete = %v, want %v", err, ErrNotFound)
	}
}

func TestIsAvailable(t *testing.T) {
	gokeyring.MockInit()

	if !IsAvailable() {
		t.Error("mock keyring should report available")
	}

	gokeyring.MockInitWithError(errors.New("no dbus"))
	if IsAvailable() {
		t.Error("failing keyring should report unavailable")
	}
	if _, err := Get(""); !errors.Is(err, ErrKeyringUnavailable) {
		t.Errorf("Get() error = %v, want %v", err, ErrKeyringUnavailable)
	}
}
