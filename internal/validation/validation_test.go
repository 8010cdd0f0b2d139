package validation

import (
	"strings"
	"testing"

	"github.com/julianstephens/gradecalc/internal/models"
)

func validState() models.CalculatorState {
	return models.CalculatorState{
		Categories: []models.Category{
			{ID: "cat-1", Name: "Homework", Weight: 40, Grades: []models.GradeItem{
				{ID: "grade-1", Name: "HW 1", Score: models.Ptr(9), Max: models.Ptr(10)},
			}},
			{ID: "cat-2", Name: "Exams", Weight: 60, Grades: []models.GradeItem{
				{ID: "grade-2", Name: "Midterm", Score: models.Ptr(80), Max: models.Ptr(100)},
			}},
		},
		IsWeighted:     true,
		NextCategoryID: 3,
		NextGradeID:    3,
	}
}

func TestValidate_CleanState(t *testing.T) {
	result := New().Validate(validState())
	if result.HasConflicts() {
		t.Errorf("expected no conflicts, got:\n%s", result.FormatReport())
	}
	if result.FormatReport() != "No conflicts detected." {
		t.Errorf("unexpected report: %q", result.FormatReport())
	}
}

func TestValidate_DuplicateIDs(t *testing.T) {
	state := validState()
	state.Categories[1].ID = "cat-1"
	state.Categories[1].Grades[0].ID = "grade-1"

	result := New().Validate(state)
	if got := result.Count(ConflictDuplicateID); got != 2 {
		t.Errorf("expected 2 duplicate ID conflicts, got %d", got)
	}
	if !result.HasErrors() || !result.Fixable() {
		t.Error("duplicate IDs should be fixable errors")
	}
}

func TestValidate_CounterBehind(t *testing.T) {
	state := validState()
	state.NextCategoryID = 2
	state.NextGradeID = 1

	result := New().Validate(state)
	if got := result.Count(ConflictCounterBehind); got != 2 {
		t.Errorf("expected 2 counter conflicts, got %d:\n%s", got, result.FormatReport())
	}
}

func TestValidate_OversizedIDSuffixIgnored(t *testing.T) {
	state := validState()
	state.Categories[0].ID = "cat-9223372036854775807"

	result := New().Validate(state)
	if got := result.Count(ConflictCounterBehind); got != 0 {
		t.Errorf("expected no counter conflicts, got %d:\n%s", got, result.FormatReport())
	}
}

func TestValidate_StructRules(t *testing.T) {
	state := validState()
	state.Categories[0].ID = ""
	state.NextGradeID = 0

	result := New().Validate(state)
	if got := result.Count(ConflictInvalidRecord); got < 2 {
		t.Errorf("expected struct conflicts for empty ID and zero counter, got %d:\n%s", got, result.FormatReport())
	}
	if result.Conflicts[0].Severity != SeverityError {
		t.Error("errors should be reported first")
	}
}

func TestValidate_GradeProblems(t *testing.T) {
	state := validState()
	state.Categories[0].Grades = append(state.Categories[0].Grades,
		models.GradeItem{ID: "grade-3", Name: "Ungraded", Max: models.Ptr(10)},
		models.GradeItem{ID: "grade-4", Name: "Zero max", Score: models.Ptr(5), Max: models.Ptr(0)},
		models.GradeItem{ID: "grade-5", Name: "Bonus", Score: models.Ptr(12), Max: models.Ptr(10)},
	)
	state.NextGradeID = 6

	result := New().Validate(state)
	tests := []struct {
		typ  ConflictType
		want int
	}{
		{ConflictIncompleteGrade, 1},
		{ConflictInvalidMax, 1},
		{ConflictExtraCredit, 1},
	}
	for _, tt := range tests {
		if got := result.Count(tt.typ); got != tt.want {
			t.Errorf("%s: expected %d, got %d", tt.typ, tt.want, got)
		}
	}
	if result.HasErrors() {
		t.Error("grade problems should not be errors")
	}
}

func TestValidate_Weights(t *testing.T) {
	state := validState()
	state.Categories[0].Weight = -5
	state.Categories[1].Weight = 0

	result := New().Validate(state)
	if result.Count(ConflictNegativeWeight) != 1 {
		t.Error("expected negative weight conflict")
	}
	if result.Count(ConflictZeroWeightWithData) != 1 {
		t.Error("expected zero weight with data conflict")
	}
	if result.Count(ConflictWeightTotal) != 1 {
		t.Error("expected weight total conflict")
	}

	// Unweighted mode ignores weights entirely.
	state.IsWeighted = false
	result = New().Validate(state)
	if result.Count(ConflictZeroWeightWithData) != 0 || result.Count(ConflictWeightTotal) != 0 {
		t.Errorf("unweighted mode should not check weight totals:\n%s", result.FormatReport())
	}
}

func TestValidate_ZeroWeightWithoutData(t *testing.T) {
	state := validState()
	state.Categories = append(state.Categories, models.Category{ID: "cat-3", Name: "Extra", Weight: 0, Grades: []models.GradeItem{}})
	state.NextCategoryID = 4

	result := New().Validate(state)
	if result.HasConflicts() {
		t.Errorf("empty zero-weight category should be fine:\n%s", result.FormatReport())
	}
}

func TestValidate_DuplicateNames(t *testing.T) {
	state := validState()
	state.Categories[1].Name = "Homework"

	result := New().Validate(state)
	if result.Count(ConflictDuplicateName) != 1 {
		t.Fatalf("expected duplicate name conflict:\n%s", result.FormatReport())
	}
	report := result.FormatReport()
	if !strings.Contains(report, "cat-1, cat-2") {
		t.Errorf("report should list both IDs: %s", report)
	}
}

func TestSeverityString(t *testing.T) {
	if SeverityError.String() != "error" || SeverityWarning.String() != "warning" || SeverityInfo.String() != "info" {
		t.Error("unexpected severity names")
	}
}
