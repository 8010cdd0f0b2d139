package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

type jsonRecord struct {
	Value     json.RawMessage `json:"value"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type jsonFile struct {
	Version int                   `json:"version"`
	Records map[string]jsonRecord `json:"records"`
}

// JSONStore keeps every record in a single JSON document on disk.
type JSONStore struct {
	path string
	file *jsonFile
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.file = &jsonFile{
		Version: 1,
		Records: make(map[string]jsonRecord),
	}
	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotInitialized
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	file := &jsonFile{}
	if err := json.Unmarshal(data, file); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if file.Records == nil {
		file.Records = make(map[string]jsonRecord)
	}
	s.file = file
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	// Write beside the target and rename so a crash never leaves half a file.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}

func (s *JSONStore) ReadRecord(key string) ([]byte, error) {
	if s.file == nil {
		return nil, ErrNotLoaded
	}
	rec, ok := s.file.Records[key]
	if !ok {
		return nil, ErrRecordNotFound
	}
	out := make([]byte, len(rec.Value))
	copy(out, rec.Value)
	return out, nil
}

func (s *JSONStore) WriteRecord(key string, data []byte) error {
	if s.file == nil {
		return ErrNotLoaded
	}
	// Records are embedded verbatim, so they must be JSON themselves.
	if !json.Valid(data) {
		return fmt.Errorf("failed to write record %q: value is not valid JSON", key)
	}

	value := make(json.RawMessage, len(data))
	copy(value, data)
	s.file.Records[key] = jsonRecord{
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	return s.save()
}

func (s *JSONStore) DeleteRecord(key string) error {
	if s.file == nil {
		return ErrNotLoaded
	}
	if _, ok := s.file.Records[key]; !ok {
		return nil
	}
	delete(s.file.Records, key)
	return s.save()
}

func (s *JSONStore) ListRecords() ([]RecordInfo, error) {
	if s.file == nil {
		return nil, ErrNotLoaded
	}

	infos := make([]RecordInfo, 0, len(s.file.Records))
	for key, rec := range s.file.Records {
		infos = append(infos, RecordInfo{
			Key:       key,
			Size:      int64(len(rec.Value)),
			UpdatedAt: rec.UpdatedAt,
		})
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Key < infos[j].Key
	})
	return infos, nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
