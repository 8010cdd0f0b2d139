package grading

import (
	"fmt"

	"github.com/julianstephens/gradecalc/internal/constants"
	"github.com/julianstephens/gradecalc/internal/models"
)

type threshold struct {
	min    float64
	letter string
}

// Evaluated top to bottom; each bound is inclusive.
var letterScale = []threshold{
	{93, "A"},
	{90, "A-"},
	{87, "B+"},
	{83, "B"},
	{80, "B-"},
	{77, "C+"},
	{73, "C"},
	{70, "C-"},
	{67, "D+"},
	{63, "D"},
	{60, "D-"},
}

// CategoryAverage returns points earned over points possible as a percentage.
// Items without both a score and a positive max are skipped. ok is false when
// no item qualifies.
func CategoryAverage(grades []models.GradeItem) (avg float64, ok bool) {
	var earned, possible float64
	valid := 0
	for _, g := range grades {
		if !g.Valid() {
			continue
		}
		earned += *g.Score
		possible += *g.Max
		valid++
	}
	if valid == 0 {
		return 0, false
	}
	return 100 * earned / possible, true
}

// FinalGrade combines category averages. Categories without data are left out
// entirely. In weighted mode the averages are weighted by category weight and
// a zero weight sum yields no data; otherwise the plain mean is used.
func FinalGrade(categories []models.Category, weighted bool) (final float64, ok bool) {
	var sum, weightSum float64
	count := 0
	for _, c := range categories {
		avg, has := CategoryAverage(c.Grades)
		if !has {
			continue
		}
		count++
		if weighted {
			sum += avg * c.Weight
			weightSum += c.Weight
		} else {
			sum += avg
		}
	}
	if count == 0 {
		return 0, false
	}
	if weighted {
		if weightSum == 0 {
			return 0, false
		}
		return sum / weightSum, true
	}
	return sum / float64(count), true
}

// LetterGrade maps a raw percentage onto the letter scale. The value is not
// rounded first, so 92.999 is an A-.
func LetterGrade(pct float64) string {
	for _, t := range letterScale {
		if pct >= t.min {
			return t.letter
		}
	}
	return "F"
}

// FormatPercent renders a percentage with two decimals, or the placeholder.
func FormatPercent(v float64, ok bool) string {
	if !ok {
		return constants.Placeholder
	}
	return fmt.Sprintf("%.2f%%", v)
}

// FormatLetter renders the letter for v, or the placeholder.
func FormatLetter(v float64, ok bool) string {
	if !ok {
		return constants.Placeholder
	}
	return LetterGrade(v)
}
