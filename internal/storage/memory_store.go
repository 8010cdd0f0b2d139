package storage

import (
	"sort"
	"sync"
	"time"
)

type memoryRecord struct {
	value     []byte
	updatedAt time.Time
}

// MemoryStore is a process-local Provider. FailWith makes every record
// operation return an error, which models a disabled or full storage backend.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]memoryRecord
	failErr error
	writes  int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.records == nil {
		s.records = make(map[string]memoryRecord)
	}
	return nil
}

func (s *MemoryStore) Load() error {
	return s.Init()
}

func (s *MemoryStore) Close() error {
	return nil
}

// FailWith sets the error returned by subsequent record operations.
// A nil err restores normal behavior.
func (s *MemoryStore) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failErr = err
}

// Writes reports how many successful WriteRecord calls have been made.
func (s *MemoryStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func (s *MemoryStore) ReadRecord(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return nil, s.failErr
	}
	if s.records == nil {
		return nil, ErrNotLoaded
	}
	rec, ok := s.records[key]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return append([]byte(nil), rec.value...), nil
}

func (s *MemoryStore) WriteRecord(key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return s.failErr
	}
	if s.records == nil {
		return ErrNotLoaded
	}
	s.records[key] = memoryRecord{
		value:     append([]byte(nil), data...),
		updatedAt: time.Now().UTC(),
	}
	s.writes++
	return nil
}

func (s *MemoryStore) DeleteRecord(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return s.failErr
	}
	if s.records == nil {
		return ErrNotLoaded
	}
	delete(s.records, key)
	return nil
}

func (s *MemoryStore) ListRecords() ([]RecordInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return nil, s.failErr
	}
	infos := make([]RecordInfo, 0, len(s.records))
	for key, rec := range s.records {
		infos = append(infos, RecordInfo{Key: key, Size: int64(len(rec.value)), UpdatedAt: rec.updatedAt})
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Key < infos[j].Key
	})
	return infos, nil
}

func (s *MemoryStore) GetConfigPath() string {
	return MemoryLocation
}
