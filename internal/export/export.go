// Package export writes grade reports in several formats and reads records
// back for import.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/gradecalc/internal/calculator"
	"github.com/julianstephens/gradecalc/internal/grading"
	"github.com/julianstephens/gradecalc/internal/models"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Formats lists every supported format.
var Formats = []Format{FormatCSV, FormatXLSX, FormatYAML, FormatJSON}

// ParseFormat accepts a format name or a file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "csv":
		return FormatCSV, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unsupported export format %q (want one of csv, xlsx, yaml, json)", s)
}

// FormatForPath guesses the format from a file name.
func FormatForPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

var gradeHeaders = []string{
	"Category ID", "Category", "Weight", "Grade ID", "Grade", "Score", "Max", "Percent",
}

var summaryHeaders = []string{
	"Category ID", "Category", "Weight", "Average", "Grades", "Counted",
}

// Write renders state in the given format.
func Write(w io.Writer, state models.CalculatorState, format Format) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, state)
	case FormatXLSX:
		return writeXLSX(w, state)
	case FormatYAML:
		return writeYAML(w, state)
	case FormatJSON:
		return writeJSON(w, state)
	}
	return fmt.Errorf("unsupported export format %q", format)
}

// gradeRows flattens the state to one row per grade. Categories without
// grades still get a row so they show up in the sheet.
func gradeRows(state models.CalculatorState) [][]string {
	var rows [][]string
	for _, c := range state.Categories {
		weight := formatNumber(c.Weight)
		if len(c.Grades) == 0 {
			rows = append(rows, []string{c.ID, c.Name, weight, "", "", "", "", ""})
			continue
		}
		for _, g := range c.Grades {
			percent := ""
			if g.Valid() {
				percent = fmt.Sprintf("%.2f", *g.Score / *g.Max * 100)
			}
			rows = append(rows, []string{
				c.ID, c.Name, weight, g.ID, g.Name,
				formatOptional(g.Score), formatOptional(g.Max), percent,
			})
		}
	}
	return rows
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatNumber(*v)
}

func writeCSV(w io.Writer, state models.CalculatorState) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(gradeHeaders); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range gradeRows(state) {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("CSV writer error: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func strings2cells(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func writeXLSX(w io.Writer, state models.CalculatorState) error {
	f := excelize.NewFile()
	defer f.Close()

	const gradesSheet, summarySheet = "Grades", "Summary"

	// NewFile starts with Sheet1; rename it instead of leaving it empty.
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	if _, err := f.NewSheet(gradesSheet); err != nil {
		return fmt.Errorf("failed to create Excel sheet: %w", err)
	}

	summary := grading.Summarize(state)
	if err := setRow(f, summarySheet, 1, strings2cells(summaryHeaders)); err != nil {
		return fmt.Errorf("failed to write Excel header: %w", err)
	}
	row := 2
	for _, c := range summary.Categories {
		var avg interface{} = c.Display
		if c.HasData {
			avg = roundTwo(c.Average)
		}
		if err := setRow(f, summarySheet, row, []interface{}{c.ID, c.Name, c.Weight, avg, c.GradeCount, c.ValidCount}); err != nil {
			return fmt.Errorf("failed to write Excel row: %w", err)
		}
		row++
	}

	mode := "unweighted"
	if summary.Weighted {
		mode = "weighted"
	}
	row++
	var final interface{} = summary.FinalDisplay
	if summary.HasFinal {
		final = roundTwo(summary.Final)
	}
	footer := [][]interface{}{
		{"Final", final},
		{"Letter", summary.Letter},
		{"Mode", mode},
	}
	for _, values := range footer {
		if err := setRow(f, summarySheet, row, values); err != nil {
			return fmt.Errorf("failed to write Excel row: %w", err)
		}
		row++
	}

	if err := setRow(f, gradesSheet, 1, strings2cells(gradeHeaders)); err != nil {
		return fmt.Errorf("failed to write Excel header: %w", err)
	}
	for i, r := range gradeRows(state) {
		if err := setRow(f, gradesSheet, i+2, strings2cells(r)); err != nil {
			return fmt.Errorf("failed to write Excel row: %w", err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}

func roundTwo(v float64) float64 {
	out, _ := strconv.ParseFloat(fmt.Sprintf("%.2f", v), 64)
	return out
}

// Report is the YAML export: the computed summary next to the raw state.
type Report struct {
	Summary grading.Summary        `yaml:"summary"`
	State   models.CalculatorState `yaml:"state"`
}

func writeYAML(w io.Writer, state models.CalculatorState) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Report{Summary: grading.Summarize(state), State: state}); err != nil {
		return fmt.Errorf("failed to write YAML: %w", err)
	}
	return enc.Close()
}

// writeJSON emits the persisted record layout, so the file can be imported.
func writeJSON(w io.Writer, state models.CalculatorState) error {
	data, err := calculator.Encode(state)
	if err != nil {
		return fmt.Errorf("failed to serialize state: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err = buf.WriteTo(w)
	return err
}
