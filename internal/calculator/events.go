package calculator

// EventKind names what changed in the store.
type EventKind string

const (
	CategoryAdded   EventKind = "category-added"
	CategoryRemoved EventKind = "category-removed"
	CategoryUpdated EventKind = "category-updated"
	GradeAdded      EventKind = "grade-added"
	GradeRemoved    EventKind = "grade-removed"
	GradeUpdated    EventKind = "grade-updated"
	ModeChanged     EventKind = "mode-changed"
	Loaded          EventKind = "loaded"
	Cleared         EventKind = "cleared"
)

// Event is delivered to subscribers after a change is applied.
// CategoryID and GradeID are set when the change concerns one entity.
type Event struct {
	Kind       EventKind
	CategoryID string
	GradeID    string
}

// Subscribe registers fn for change notifications and returns a function
// that removes it. fn runs on the goroutine that made the change and must
// not block.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify(ev Event) {
	s.subMu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}
