package storage

import (
	"errors"
	"time"
)

var (
	// ErrRecordNotFound is returned when no record is stored under a key.
	ErrRecordNotFound = errors.New("record not found")
	// ErrNotInitialized is returned by Load when the backing storage does not exist yet.
	ErrNotInitialized = errors.New("storage not initialized, run 'gradecalc init' first")
	// ErrNotLoaded is returned when a record operation runs before Init or Load.
	ErrNotLoaded = errors.New("storage not loaded")
)

// RecordInfo describes a stored record without its payload.
type RecordInfo struct {
	Key       string
	Size      int64
	UpdatedAt time.Time
}

// Provider persists named records. gradecalc keeps its whole state in one
// record; the payload is opaque JSON to every provider.
//
// Providers are not safe for use by multiple processes sharing the same
// location at the same time.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Records
	ReadRecord(key string) ([]byte, error)
	WriteRecord(key string, data []byte) error
	DeleteRecord(key string) error
	ListRecords() ([]RecordInfo, error)

	// Utils
	GetConfigPath() string
}
