package calculator

import (
	"math"
	"strconv"
	"strings"
)

// ParseScore reads a score or max field. Empty, non-numeric and non-finite
// text is treated as not entered.
func ParseScore(text string) *float64 {
	v, ok := parseFinite(text)
	if !ok {
		return nil
	}
	return &v
}

// ParseWeight reads a weight field, falling back to 0.
func ParseWeight(text string) float64 {
	v, _ := parseFinite(text)
	return v
}

func parseFinite(text string) (float64, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
