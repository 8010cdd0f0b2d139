package calculator

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/gradecalc/internal/constants"
	"github.com/julianstephens/gradecalc/internal/models"
	"github.com/julianstephens/gradecalc/internal/storage"
)

// Encode serializes a state in the persisted record layout.
func Encode(state models.CalculatorState) ([]byte, error) {
	if state.Categories == nil {
		state.Categories = []models.Category{}
	}
	return json.Marshal(state)
}

// Save writes the current state synchronously. Failures are logged and
// returned; the in-memory state is kept either way.
func (s *Store) Save() error {
	// The snapshot is taken under writeMu so writes land in snapshot order.
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	data, err := Encode(s.state)
	s.mu.Unlock()
	if err != nil {
		s.warn("failed to serialize grade data", "error", err)
		return fmt.Errorf("failed to serialize grade data: %w", err)
	}

	if s.provider == nil {
		s.warn("no storage configured, changes are kept in memory only")
		return storage.ErrNotLoaded
	}
	if err := s.provider.WriteRecord(s.key, data); err != nil {
		s.warn("failed to save grade data", "error", err)
		return err
	}
	return nil
}

// Load replaces the live state with the persisted record and reports
// whether one was found. A missing, unreadable or corrupt record leaves the
// initial empty state in place.
func (s *Store) Load() bool {
	// A pending write would overwrite what is about to be read.
	s.deb.Cancel()

	state, found := s.read()

	s.mu.Lock()
	s.state = state
	s.reindex()
	s.mu.Unlock()

	s.notify(Event{Kind: Loaded})
	return found
}

func (s *Store) read() (models.CalculatorState, bool) {
	if s.provider == nil {
		return models.NewState(), false
	}

	s.writeMu.Lock()
	data, err := s.provider.ReadRecord(s.key)
	s.writeMu.Unlock()

	if err != nil {
		if !errors.Is(err, storage.ErrRecordNotFound) {
			s.warn("failed to load grade data", "error", err)
		}
		return models.NewState(), false
	}

	state, ok := Decode(data)
	if !ok {
		s.warn("stored grade data is corrupt, starting fresh")
		return models.NewState(), false
	}
	return state, true
}

// Clear drops any pending write, deletes the persisted record and resets the
// live state to its initial empty form. Seeding a default category is left
// to the caller.
func (s *Store) Clear() {
	s.deb.Cancel()

	if s.provider != nil {
		s.writeMu.Lock()
		err := s.provider.DeleteRecord(s.key)
		s.writeMu.Unlock()
		if err != nil {
			s.warn("failed to clear grade data", "error", err)
		}
	}

	s.mu.Lock()
	s.state = models.NewState()
	s.reindex()
	s.mu.Unlock()

	s.notify(Event{Kind: Cleared})
}

// Reset clears everything, seeds the default category and saves right away.
func (s *Store) Reset() error {
	s.Clear()
	s.CreateCategory(constants.DefaultCategoryName, constants.DefaultCategoryWeight)
	s.deb.Cancel()
	return s.Save()
}

// Replace swaps in a whole state, as an import does, and saves it.
func (s *Store) Replace(state models.CalculatorState) error {
	s.deb.Cancel()

	s.mu.Lock()
	s.state = Normalize(state)
	s.reindex()
	s.mu.Unlock()

	s.notify(Event{Kind: Loaded})
	return s.Save()
}

// Pending reports whether a debounced write is waiting to run.
func (s *Store) Pending() bool {
	return s.deb.Pending()
}

// Flush writes the current state now if a debounced write is pending.
func (s *Store) Flush() error {
	_, err := s.deb.Flush()
	return err
}

// Discard drops a pending debounced write and keeps the in-memory state.
// It reports whether a write was pending.
func (s *Store) Discard() bool {
	return s.deb.Cancel()
}

// Close flushes pending edits and stops scheduling writes. A debounced write
// already in progress is waited for, so the provider can be closed once Close
// returns. The provider is owned by the caller and stays open.
func (s *Store) Close() error {
	err := s.Flush()
	s.deb.Stop()
	return err
}
