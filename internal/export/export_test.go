package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/julianstephens/gradecalc/internal/models"
)

func sampleState() models.CalculatorState {
	return models.CalculatorState{
		Categories: []models.Category{
			{ID: "cat-1", Name: "Homework", Weight: 40, Grades: []models.GradeItem{
				{ID: "grade-1", Name: "HW1", Score: models.Ptr(9), Max: models.Ptr(10)},
				{ID: "grade-2", Name: "HW2", Score: nil, Max: models.Ptr(10)},
			}},
			{ID: "cat-2", Name: "Exams", Weight: 60, Grades: []models.GradeItem{
				{ID: "grade-3", Name: "Midterm", Score: models.Ptr(80), Max: models.Ptr(100)},
			}},
			{ID: "cat-3", Name: "Labs", Weight: 0, Grades: []models.GradeItem{}},
		},
		IsWeighted:     true,
		NextCategoryID: 4,
		NextGradeID:    4,
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"csv", FormatCSV, false},
		{".CSV", FormatCSV, false},
		{"xlsx", FormatXLSX, false},
		{"excel", FormatXLSX, false},
		{"yml", FormatYAML, false},
		{"json", FormatJSON, false},
		{"pdf", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatForPath(t *testing.T) {
	f, err := FormatForPath("/tmp/report.xlsx")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = FormatForPath("/tmp/report")
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleState(), FormatCSV))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5)

	assert.Equal(t, gradeHeaders, rows[0])
	assert.Equal(t, []string{"cat-1", "Homework", "40", "grade-1", "HW1", "9", "10", "90.00"}, rows[1])
	assert.Equal(t, []string{"cat-1", "Homework", "40", "grade-2", "HW2", "", "10", ""}, rows[2])
	assert.Equal(t, []string{"cat-2", "Exams", "60", "grade-3", "Midterm", "80", "100", "80.00"}, rows[3])
	assert.Equal(t, []string{"cat-3", "Labs", "0", "", "", "", "", ""}, rows[4])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleState(), FormatXLSX))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Summary", "Grades"}, f.GetSheetList())

	grades, err := f.GetRows("Grades")
	require.NoError(t, err)
	require.Len(t, grades, 5)
	assert.Equal(t, "Midterm", grades[3][4])

	summary, err := f.GetRows("Summary")
	require.NoError(t, err)
	assert.Equal(t, "Homework", summary[1][1])
	assert.Equal(t, "90", summary[1][3])
	assert.Equal(t, "--", summary[3][3])

	final, err := f.GetCellValue("Summary", "B6")
	require.NoError(t, err)
	// 0.4*90 + 0.6*80
	assert.Equal(t, "84", final)
	letter, err := f.GetCellValue("Summary", "B7")
	require.NoError(t, err)
	assert.Equal(t, "B", letter)
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleState(), FormatYAML))

	out := buf.String()
	assert.Contains(t, out, "summary:")
	assert.Contains(t, out, "letter: B")
	assert.Contains(t, out, "final_display: 84.00%")
	assert.Contains(t, out, "nextCategoryId: 4")
}

func TestWriteJSONIsImportable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleState(), FormatJSON))
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))

	got, err := Read(&buf, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, sampleState(), got)
}

func TestYAMLReportIsImportable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleState(), FormatYAML))

	got, err := Read(&buf, FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, sampleState(), got)
}

func TestReadRepairsRecord(t *testing.T) {
	in := `{"categories":[{"id":"cat-7","name":"A","weight":"x","grades":[1,{"id":"grade-2","name":"g","score":1,"max":2}]}],"nextCategoryId":1}`
	got, err := Read(strings.NewReader(in), FormatJSON)
	require.NoError(t, err)

	require.Len(t, got.Categories, 1)
	assert.Equal(t, 0.0, got.Categories[0].Weight)
	assert.Len(t, got.Categories[0].Grades, 1)
	assert.Equal(t, 8, got.NextCategoryID)
	assert.Equal(t, 3, got.NextGradeID)
	assert.True(t, got.IsWeighted)
}

func TestReadRejects(t *testing.T) {
	_, err := Read(strings.NewReader("{nope"), FormatJSON)
	assert.ErrorIs(t, err, ErrNotARecord)

	_, err = Read(strings.NewReader("[1,2]"), FormatJSON)
	assert.ErrorIs(t, err, ErrNotARecord)

	_, err = Read(strings.NewReader("a,b"), FormatCSV)
	assert.Error(t, err)
}

func TestDiff(t *testing.T) {
	current := sampleState()
	incoming := sampleState()
	incoming.Categories[1].Name = "Tests"

	text, err := Diff(current, incoming, "current", "import.json")
	require.NoError(t, err)
	assert.Contains(t, text, "--- current")
	assert.Contains(t, text, "+++ import.json")
	assert.Contains(t, text, `-      "name": "Exams",`)
	assert.Contains(t, text, `+      "name": "Tests",`)

	same, err := Diff(current, current, "current", "import.json")
	require.NoError(t, err)
	assert.Empty(t, same)
}
