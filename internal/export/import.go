package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/gradecalc/internal/calculator"
	"github.com/julianstephens/gradecalc/internal/models"
)

// ErrNotARecord is returned when import data is not a calculator record.
var ErrNotARecord = errors.New("input is not a gradecalc record")

// Read parses an exported JSON record or YAML report. The result is
// normalized, so it is always safe to hand to a store.
func Read(r io.Reader, format Format) (models.CalculatorState, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return models.CalculatorState{}, fmt.Errorf("failed to read import: %w", err)
	}

	switch format {
	case FormatJSON:
		if !json.Valid(data) {
			return models.CalculatorState{}, fmt.Errorf("%w: invalid JSON", ErrNotARecord)
		}
		state, ok := calculator.Decode(data)
		if !ok {
			return models.CalculatorState{}, ErrNotARecord
		}
		return state, nil
	case FormatYAML:
		var report Report
		if err := yaml.Unmarshal(data, &report); err != nil {
			return models.CalculatorState{}, fmt.Errorf("%w: %v", ErrNotARecord, err)
		}
		return calculator.Normalize(report.State), nil
	}
	return models.CalculatorState{}, fmt.Errorf("cannot import %s files", format)
}

func indented(state models.CalculatorState) (string, error) {
	data, err := calculator.Encode(state)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return "", err
	}
	buf.WriteByte('\n')
	return buf.String(), nil
}

// Diff renders a unified diff between two states as indented records.
// It returns "" when they serialize identically.
func Diff(current, incoming models.CalculatorState, from, to string) (string, error) {
	a, err := indented(current)
	if err != nil {
		return "", fmt.Errorf("diff %s: %w", from, err)
	}
	b, err := indented(incoming)
	if err != nil {
		return "", fmt.Errorf("diff %s: %w", to, err)
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: from,
		ToFile:   to,
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("diff %s: %w", to, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	return text, nil
}
