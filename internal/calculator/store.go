// Package calculator owns the live grade state. It applies mutations, mints
// IDs and keeps the state synchronized with a storage.Provider.
package calculator

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/julianstephens/gradecalc/internal/constants"
	"github.com/julianstephens/gradecalc/internal/debounce"
	"github.com/julianstephens/gradecalc/internal/grading"
	"github.com/julianstephens/gradecalc/internal/logger"
	"github.com/julianstephens/gradecalc/internal/models"
	"github.com/julianstephens/gradecalc/internal/storage"
)

// Store is the single owner of a CalculatorState. All methods are safe for
// concurrent use; debounced writes run on a timer goroutine.
type Store struct {
	mu    sync.Mutex
	state models.CalculatorState
	index map[string]int

	// writeMu serializes provider access between the timer and callers.
	writeMu  sync.Mutex
	provider storage.Provider
	key      string
	deb      *debounce.Debouncer
	delay    time.Duration
	log      *log.Logger
	session  string

	subMu   sync.Mutex
	subs    map[int]func(Event)
	nextSub int
}

// Option configures a Store.
type Option func(*Store)

// WithRecordKey sets the storage record the state is kept under.
func WithRecordKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithDebounce sets how long the store waits for edits to settle before writing.
func WithDebounce(d time.Duration) Option {
	return func(s *Store) {
		if d >= 0 {
			s.delay = d
		}
	}
}

// WithLogger routes persistence warnings to l instead of the global logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		s.log = l
	}
}

// New returns a store with the initial empty state. Nothing is read from
// provider until Load is called.
func New(provider storage.Provider, opts ...Option) *Store {
	s := &Store{
		state:    models.NewState(),
		index:    map[string]int{},
		provider: provider,
		key:      constants.DefaultRecordKey,
		delay:    constants.DefaultDebounce,
		session:  uuid.NewString(),
		subs:     map[int]func(Event){},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.deb = debounce.New(s.delay, s.Save)
	return s
}

// Open creates a store and loads persisted state. When nothing usable was
// found the default category is seeded.
func Open(provider storage.Provider, opts ...Option) *Store {
	s := New(provider, opts...)
	found := s.Load()
	if !found || len(s.Snapshot().Categories) == 0 {
		s.CreateCategory(constants.DefaultCategoryName, constants.DefaultCategoryWeight)
	}
	return s
}

// Key returns the storage record key.
func (s *Store) Key() string { return s.key }

// Session identifies this store instance in log output.
func (s *Store) Session() string { return s.session }

func (s *Store) warn(msg string, keyvals ...interface{}) {
	keyvals = append([]interface{}{"session", s.session, "key", s.key}, keyvals...)
	if s.log != nil {
		s.log.Warn(msg, keyvals...)
		return
	}
	logger.Warn(msg, keyvals...)
}

// reindex rebuilds the ID to position map. Caller holds mu.
func (s *Store) reindex() {
	s.index = make(map[string]int, len(s.state.Categories))
	for i, c := range s.state.Categories {
		s.index[c.ID] = i
	}
}

// category returns a pointer into state. Caller holds mu.
func (s *Store) category(id string) *models.Category {
	i, ok := s.index[id]
	if !ok {
		return nil
	}
	return &s.state.Categories[i]
}

// grade returns a pointer into state. Caller holds mu.
func (s *Store) grade(categoryID, gradeID string) *models.GradeItem {
	c := s.category(categoryID)
	if c == nil {
		return nil
	}
	i := c.GradeIndex(gradeID)
	if i < 0 {
		return nil
	}
	return &c.Grades[i]
}

// mutate applies fn under the lock. When fn reports a change the write is
// scheduled and subscribers are told after the lock is released.
func (s *Store) mutate(fn func() (Event, bool)) {
	s.mu.Lock()
	ev, changed := fn()
	s.mu.Unlock()

	if !changed {
		return
	}
	s.deb.Trigger()
	s.notify(ev)
}

func (s *Store) mintCategoryID() string {
	id := fmt.Sprintf("%s%d", constants.CategoryIDPrefix, s.state.NextCategoryID)
	s.state.NextCategoryID++
	return id
}

func (s *Store) mintGradeID() string {
	id := fmt.Sprintf("%s%d", constants.GradeIDPrefix, s.state.NextGradeID)
	s.state.NextGradeID++
	return id
}

func finiteWeight(w float64) float64 {
	if math.IsNaN(w) || math.IsInf(w, 0) {
		return 0
	}
	return w
}

func finiteValue(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	return models.Float(v)
}

// CreateCategory appends a category with a fresh ID and no grades.
func (s *Store) CreateCategory(name string, weight float64) models.Category {
	var created models.Category
	s.mutate(func() (Event, bool) {
		created = models.Category{
			ID:     s.mintCategoryID(),
			Name:   name,
			Weight: finiteWeight(weight),
			Grades: []models.GradeItem{},
		}
		s.state.Categories = append(s.state.Categories, created)
		s.index[created.ID] = len(s.state.Categories) - 1
		return Event{Kind: CategoryAdded, CategoryID: created.ID}, true
	})
	return created.Clone()
}

// RemoveCategory deletes a category and its grades. Unknown IDs are ignored.
func (s *Store) RemoveCategory(id string) {
	s.mutate(func() (Event, bool) {
		i, ok := s.index[id]
		if !ok {
			return Event{}, false
		}
		s.state.Categories = append(s.state.Categories[:i], s.state.Categories[i+1:]...)
		s.reindex()
		return Event{Kind: CategoryRemoved, CategoryID: id}, true
	})
}

// RenameCategory changes a category's display name.
func (s *Store) RenameCategory(id, name string) {
	s.mutate(func() (Event, bool) {
		c := s.category(id)
		if c == nil {
			return Event{}, false
		}
		c.Name = name
		return Event{Kind: CategoryUpdated, CategoryID: id}, true
	})
}

// SetCategoryWeight changes a category's weight. Non-finite weights become 0.
func (s *Store) SetCategoryWeight(id string, weight float64) {
	s.mutate(func() (Event, bool) {
		c := s.category(id)
		if c == nil {
			return Event{}, false
		}
		c.Weight = finiteWeight(weight)
		return Event{Kind: CategoryUpdated, CategoryID: id}, true
	})
}

// CreateGrade appends a grade to the category. It reports false, and mints
// no ID, when the category does not exist.
func (s *Store) CreateGrade(categoryID, name string, score, maxPoints *float64) (models.GradeItem, bool) {
	var created models.GradeItem
	var ok bool
	s.mutate(func() (Event, bool) {
		c := s.category(categoryID)
		if c == nil {
			return Event{}, false
		}
		created = models.GradeItem{
			ID:    s.mintGradeID(),
			Name:  name,
			Score: finiteValue(score),
			Max:   finiteValue(maxPoints),
		}
		c.Grades = append(c.Grades, created)
		ok = true
		return Event{Kind: GradeAdded, CategoryID: categoryID, GradeID: created.ID}, true
	})
	return created.Clone(), ok
}

// RemoveGrade deletes a grade when both the category and the grade exist.
func (s *Store) RemoveGrade(categoryID, gradeID string) {
	s.mutate(func() (Event, bool) {
		c := s.category(categoryID)
		if c == nil {
			return Event{}, false
		}
		i := c.GradeIndex(gradeID)
		if i < 0 {
			return Event{}, false
		}
		c.Grades = append(c.Grades[:i], c.Grades[i+1:]...)
		return Event{Kind: GradeRemoved, CategoryID: categoryID, GradeID: gradeID}, true
	})
}

func (s *Store) updateGrade(categoryID, gradeID string, fn func(g *models.GradeItem)) {
	s.mutate(func() (Event, bool) {
		g := s.grade(categoryID, gradeID)
		if g == nil {
			return Event{}, false
		}
		fn(g)
		return Event{Kind: GradeUpdated, CategoryID: categoryID, GradeID: gradeID}, true
	})
}

// RenameGrade changes a grade's display name.
func (s *Store) RenameGrade(categoryID, gradeID, name string) {
	s.updateGrade(categoryID, gradeID, func(g *models.GradeItem) { g.Name = name })
}

// SetGradeScore sets or clears (nil) the points earned.
func (s *Store) SetGradeScore(categoryID, gradeID string, score *float64) {
	s.updateGrade(categoryID, gradeID, func(g *models.GradeItem) { g.Score = finiteValue(score) })
}

// SetGradeMax sets or clears (nil) the points possible.
func (s *Store) SetGradeMax(categoryID, gradeID string, maxPoints *float64) {
	s.updateGrade(categoryID, gradeID, func(g *models.GradeItem) { g.Max = finiteValue(maxPoints) })
}

// SetWeighted selects the weighted or unweighted final grade formula.
func (s *Store) SetWeighted(weighted bool) {
	s.mutate(func() (Event, bool) {
		s.state.IsWeighted = weighted
		return Event{Kind: ModeChanged}, true
	})
}

// IsWeighted reports the current aggregation mode.
func (s *Store) IsWeighted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.IsWeighted
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() models.CalculatorState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Category returns a copy of the category with the given ID.
func (s *Store) Category(id string) (models.Category, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.category(id)
	if c == nil {
		return models.Category{}, false
	}
	return c.Clone(), true
}

// Grade returns a copy of a grade item.
func (s *Store) Grade(categoryID, gradeID string) (models.GradeItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := s.grade(categoryID, gradeID)
	if g == nil {
		return models.GradeItem{}, false
	}
	return g.Clone(), true
}

// CategoryAverage returns the average of one category, or false when the
// category is unknown or has no valid grades.
func (s *Store) CategoryAverage(id string) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.category(id)
	if c == nil {
		return 0, false
	}
	return grading.CategoryAverage(c.Grades)
}

// Summary computes every average for the current state.
func (s *Store) Summary() grading.Summary {
	return grading.Summarize(s.Snapshot())
}
