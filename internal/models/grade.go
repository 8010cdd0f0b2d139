package models

// GradeItem is a single graded assignment or test.
// Score and Max are nil when the user has not entered them yet.
type GradeItem struct {
	ID    string   `json:"id" yaml:"id" validate:"required"`
	Name  string   `json:"name" yaml:"name"`
	Score *float64 `json:"score" yaml:"score"`
	Max   *float64 `json:"max" yaml:"max"`
}

// Valid reports whether the item counts toward an average:
// both score and max are present and max is positive.
func (g GradeItem) Valid() bool {
	return g.Score != nil && g.Max != nil && *g.Max > 0
}

// Category groups grade items under a user-entered weight.
// Weight has no enforced range and categories need not sum to 100.
type Category struct {
	ID     string      `json:"id" yaml:"id" validate:"required"`
	Name   string      `json:"name" yaml:"name"`
	Weight float64     `json:"weight" yaml:"weight"`
	Grades []GradeItem `json:"grades" yaml:"grades" validate:"dive"`
}

// GradeIndex returns the position of the grade with the given ID, or -1.
func (c Category) GradeIndex(id string) int {
	for i, g := range c.Grades {
		if g.ID == id {
			return i
		}
	}
	return -1
}

// CalculatorState is the whole persisted tree. The counters only mint IDs
// and are never decremented.
type CalculatorState struct {
	Categories     []Category `json:"categories" yaml:"categories" validate:"dive"`
	IsWeighted     bool       `json:"isWeighted" yaml:"isWeighted"`
	NextCategoryID int        `json:"nextCategoryId" yaml:"nextCategoryId" validate:"min=1"`
	NextGradeID    int        `json:"nextGradeId" yaml:"nextGradeId" validate:"min=1"`
}

// NewState returns the initial empty state.
func NewState() CalculatorState {
	return CalculatorState{
		Categories:     []Category{},
		IsWeighted:     true,
		NextCategoryID: 1,
		NextGradeID:    1,
	}
}

// Clone returns a deep copy that shares no memory with s.
func (s CalculatorState) Clone() CalculatorState {
	out := s
	out.Categories = make([]Category, len(s.Categories))
	for i, c := range s.Categories {
		out.Categories[i] = c.Clone()
	}
	return out
}

// Clone returns a deep copy of the category and its grades.
func (c Category) Clone() Category {
	out := c
	out.Grades = make([]GradeItem, len(c.Grades))
	for i, g := range c.Grades {
		out.Grades[i] = g.Clone()
	}
	return out
}

// Clone returns a copy of the item with its own score and max values.
func (g GradeItem) Clone() GradeItem {
	out := g
	out.Score = Float(g.Score)
	out.Max = Float(g.Max)
	return out
}

// Float copies an optional value.
func Float(v *float64) *float64 {
	if v == nil {
		return nil
	}
	f := *v
	return &f
}

// Ptr returns a pointer to v.
func Ptr(v float64) *float64 {
	return &v
}
