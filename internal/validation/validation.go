package validation

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/julianstephens/gradecalc/internal/constants"
	"github.com/julianstephens/gradecalc/internal/grading"
	"github.com/julianstephens/gradecalc/internal/models"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictInvalidRecord      ConflictType = "invalid_record"
	ConflictDuplicateID        ConflictType = "duplicate_id"
	ConflictCounterBehind      ConflictType = "counter_behind"
	ConflictIncompleteGrade    ConflictType = "incomplete_grade"
	ConflictInvalidMax         ConflictType = "invalid_max"
	ConflictExtraCredit        ConflictType = "extra_credit"
	ConflictNegativeWeight     ConflictType = "negative_weight"
	ConflictWeightTotal        ConflictType = "weight_total"
	ConflictZeroWeightWithData ConflictType = "zero_weight_with_data"
	ConflictDuplicateName      ConflictType = "duplicate_name"
)

// Severity ranks how much a conflict matters.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

// Conflict represents a detected problem in a calculator state
type Conflict struct {
	Type        ConflictType
	Severity    Severity
	Description string
	CategoryID  string // if applicable
	GradeID     string // if applicable
	// Fixable conflicts are repaired by normalizing the state.
	Fixable bool
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// HasErrors reports whether any conflict is an error.
func (vr *ValidationResult) HasErrors() bool {
	for _, c := range vr.Conflicts {
		if c.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Fixable reports whether any conflict can be repaired automatically.
func (vr *ValidationResult) Fixable() bool {
	for _, c := range vr.Conflicts {
		if c.Fixable {
			return true
		}
	}
	return false
}

// Count returns how many conflicts have the given type.
func (vr *ValidationResult) Count(t ConflictType) int {
	n := 0
	for _, c := range vr.Conflicts {
		if c.Type == t {
			n++
		}
	}
	return n
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range vr.Conflicts {
		fmt.Fprintf(&b, "- [%s] %s\n", c.Severity, c.Description)
	}
	return b.String()
}

// Validator checks calculator states for structural and grading problems.
type Validator struct {
	structValidator *validator.Validate
}

// New creates a new Validator
func New() *Validator {
	return &Validator{structValidator: validator.New()}
}

// Validate checks state and returns conflicts ordered by severity, worst first.
func (v *Validator) Validate(state models.CalculatorState) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	add := func(c Conflict) { result.Conflicts = append(result.Conflicts, c) }

	v.checkStruct(state, add)
	checkIDs(state, add)
	checkGrades(state, add)
	checkWeights(state, add)

	sort.SliceStable(result.Conflicts, func(i, j int) bool {
		return result.Conflicts[i].Severity > result.Conflicts[j].Severity
	})
	return result
}

func (v *Validator) checkStruct(state models.CalculatorState, add func(Conflict)) {
	err := v.structValidator.Struct(state)
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		add(Conflict{Type: ConflictInvalidRecord, Severity: SeverityError, Description: err.Error()})
		return
	}
	for _, fe := range verrs {
		add(Conflict{
			Type:        ConflictInvalidRecord,
			Severity:    SeverityError,
			Description: fmt.Sprintf("%s fails the %q rule", fe.Namespace(), fe.Tag()),
			Fixable:     true,
		})
	}
}

func checkIDs(state models.CalculatorState, add func(Conflict)) {
	seenCats := map[string]bool{}
	seenGrades := map[string]bool{}
	maxCat, maxGrade := 0, 0

	for _, c := range state.Categories {
		if c.ID != "" && seenCats[c.ID] {
			add(Conflict{
				Type:        ConflictDuplicateID,
				Severity:    SeverityError,
				Description: fmt.Sprintf("Category ID %s is used more than once", c.ID),
				CategoryID:  c.ID,
				Fixable:     true,
			})
		}
		seenCats[c.ID] = true
		if n, ok := suffix(c.ID, constants.CategoryIDPrefix); ok && n > maxCat {
			maxCat = n
		}

		for _, g := range c.Grades {
			if g.ID != "" && seenGrades[g.ID] {
				add(Conflict{
					Type:        ConflictDuplicateID,
					Severity:    SeverityError,
					Description: fmt.Sprintf("Grade ID %s is used more than once", g.ID),
					CategoryID:  c.ID,
					GradeID:     g.ID,
					Fixable:     true,
				})
			}
			seenGrades[g.ID] = true
			if n, ok := suffix(g.ID, constants.GradeIDPrefix); ok && n > maxGrade {
				maxGrade = n
			}
		}
	}

	if state.NextCategoryID <= maxCat {
		add(Conflict{
			Type:        ConflictCounterBehind,
			Severity:    SeverityError,
			Description: fmt.Sprintf("nextCategoryId %d would reuse %s%d", state.NextCategoryID, constants.CategoryIDPrefix, maxCat),
			Fixable:     true,
		})
	}
	if state.NextGradeID <= maxGrade {
		add(Conflict{
			Type:        ConflictCounterBehind,
			Severity:    SeverityError,
			Description: fmt.Sprintf("nextGradeId %d would reuse %s%d", state.NextGradeID, constants.GradeIDPrefix, maxGrade),
			Fixable:     true,
		})
	}
}

func checkGrades(state models.CalculatorState, add func(Conflict)) {
	for _, c := range state.Categories {
		for _, g := range c.Grades {
			label := fmt.Sprintf("%q in %q", g.Name, c.Name)
			switch {
			case g.Score == nil || g.Max == nil:
				add(Conflict{
					Type:        ConflictIncompleteGrade,
					Severity:    SeverityInfo,
					Description: fmt.Sprintf("Grade %s is missing a score or max and is not counted", label),
					CategoryID:  c.ID,
					GradeID:     g.ID,
				})
			case *g.Max <= 0:
				add(Conflict{
					Type:        ConflictInvalidMax,
					Severity:    SeverityWarning,
					Description: fmt.Sprintf("Grade %s has max %s and is not counted", label, num(*g.Max)),
					CategoryID:  c.ID,
					GradeID:     g.ID,
				})
			case *g.Score > *g.Max:
				add(Conflict{
					Type:        ConflictExtraCredit,
					Severity:    SeverityInfo,
					Description: fmt.Sprintf("Grade %s scores %s out of %s (extra credit)", label, num(*g.Score), num(*g.Max)),
					CategoryID:  c.ID,
					GradeID:     g.ID,
				})
			}
		}
	}
}

func checkWeights(state models.CalculatorState, add func(Conflict)) {
	names := map[string][]string{}
	total := 0.0
	for _, c := range state.Categories {
		total += c.Weight
		if c.Name != "" {
			names[c.Name] = append(names[c.Name], c.ID)
		}

		if c.Weight < 0 {
			add(Conflict{
				Type:        ConflictNegativeWeight,
				Severity:    SeverityWarning,
				Description: fmt.Sprintf("Category %q has negative weight %s", c.Name, num(c.Weight)),
				CategoryID:  c.ID,
			})
		}
		if _, ok := grading.CategoryAverage(c.Grades); ok && c.Weight == 0 && state.IsWeighted {
			add(Conflict{
				Type:        ConflictZeroWeightWithData,
				Severity:    SeverityWarning,
				Description: fmt.Sprintf("Category %q has grades but weight 0, so it does not affect the final grade", c.Name),
				CategoryID:  c.ID,
			})
		}
	}

	if state.IsWeighted && len(state.Categories) > 0 && math.Abs(total-100) > 1e-9 {
		add(Conflict{
			Type:        ConflictWeightTotal,
			Severity:    SeverityInfo,
			Description: fmt.Sprintf("Category weights sum to %s, not 100", num(total)),
		})
	}

	dupNames := make([]string, 0)
	for name, ids := range names {
		if len(ids) > 1 {
			dupNames = append(dupNames, name)
		}
	}
	sort.Strings(dupNames)
	for _, name := range dupNames {
		add(Conflict{
			Type:        ConflictDuplicateName,
			Severity:    SeverityInfo,
			Description: fmt.Sprintf("Category name %q is used by %s", name, strings.Join(names[name], ", ")),
		})
	}
}

func suffix(id, prefix string) (int, bool) {
	if !strings.HasPrefix(id, prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(id, prefix))
	return n, err == nil && n >= 0 && n < math.MaxInt32
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
