package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/gradecalc/internal/models"
)

func TestParseScore(t *testing.T) {
	tests := []struct {
		in   string
		want *float64
	}{
		{"", nil},
		{"   ", nil},
		{"abc", nil},
		{"NaN", nil},
		{"Inf", nil},
		{"-Inf", nil},
		{"1e400", nil},
		{"42", models.Ptr(42)},
		{" 9.5 ", models.Ptr(9.5)},
		{"0", models.Ptr(0)},
		{"-3", models.Ptr(-3)},
	}

	for _, tt := range tests {
		got := ParseScore(tt.in)
		if tt.want == nil {
			assert.Nil(t, got, "ParseScore(%q)", tt.in)
			continue
		}
		require.NotNil(t, got, "ParseScore(%q)", tt.in)
		assert.Equal(t, *tt.want, *got, "ParseScore(%q)", tt.in)
	}
}

func TestParseWeight(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"", 0},
		{"heavy", 0},
		{"NaN", 0},
		{"40", 40},
		{"12.5", 12.5},
		{"-10", -10},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseWeight(tt.in), "ParseWeight(%q)", tt.in)
	}
}

func TestNormalizeWellFormedIsUnchanged(t *testing.T) {
	state := models.CalculatorState{
		Categories: []models.Category{
			{ID: "cat-1", Name: "A", Weight: 50, Grades: []models.GradeItem{
				{ID: "grade-1", Name: "x", Score: models.Ptr(1), Max: models.Ptr(2)},
			}},
			{ID: "cat-3", Name: "B", Weight: 50, Grades: []models.GradeItem{}},
		},
		IsWeighted:     false,
		NextCategoryID: 4,
		NextGradeID:    2,
	}

	assert.Equal(t, state, Normalize(state))
}

func TestNormalizeForeignIDs(t *testing.T) {
	// IDs that do not follow the cat-/grade- scheme are kept as-is.
	state := models.CalculatorState{
		Categories:     []models.Category{{ID: "homework", Grades: []models.GradeItem{{ID: "hw-a"}}}},
		NextCategoryID: 1,
		NextGradeID:    1,
	}

	got := Normalize(state)
	assert.Equal(t, "homework", got.Categories[0].ID)
	assert.Equal(t, "hw-a", got.Categories[0].Grades[0].ID)
	assert.Equal(t, 1, got.NextCategoryID)
}

func TestNormalizeMintsMissingIDs(t *testing.T) {
	state := models.CalculatorState{
		Categories: []models.Category{
			{ID: "", Name: "no id"},
			{ID: "cat-2", Grades: []models.GradeItem{{ID: ""}, {ID: "grade-1"}, {ID: "grade-1"}}},
		},
	}

	got := Normalize(state)
	assert.Equal(t, "cat-3", got.Categories[0].ID)
	assert.Equal(t, "cat-2", got.Categories[1].ID)

	ids := []string{}
	for _, g := range got.Categories[1].Grades {
		ids = append(ids, g.ID)
	}
	assert.Equal(t, []string{"grade-2", "grade-1", "grade-3"}, ids)
	assert.Equal(t, 4, got.NextCategoryID)
	assert.Equal(t, 4, got.NextGradeID)
}

func TestDecodeCounterFallbacks(t *testing.T) {
	state, ok := Decode([]byte(`{"nextCategoryId":2.5,"nextGradeId":0}`))
	require.True(t, ok)
	assert.Equal(t, 1, state.NextCategoryID)
	assert.Equal(t, 1, state.NextGradeID)

	state, ok = Decode([]byte(`{"nextCategoryId":7,"nextGradeId":3}`))
	require.True(t, ok)
	assert.Equal(t, 7, state.NextCategoryID)
	assert.Equal(t, 3, state.NextGradeID)
}
