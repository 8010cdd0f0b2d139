package calculator

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/julianstephens/gradecalc/internal/constants"
	"github.com/julianstephens/gradecalc/internal/models"
)

// Decode parses a persisted record. Every field falls back to its default on
// its own: a bad name becomes "", a bad weight 0 and a bad score or max nil.
// Only category and grade entries that are not JSON objects are dropped. ok
// is false when data is not a JSON object at all.
func Decode(data []byte) (state models.CalculatorState, ok bool) {
	state = models.NewState()

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return state, false
	}

	if raw, found := fields["categories"]; found {
		state.Categories = decodeCategories(raw)
	}
	if raw, found := fields["isWeighted"]; found {
		var weighted bool
		if err := json.Unmarshal(raw, &weighted); err == nil {
			state.IsWeighted = weighted
		}
	}
	state.NextCategoryID = decodeCounter(fields["nextCategoryId"])
	state.NextGradeID = decodeCounter(fields["nextGradeId"])

	return Normalize(state), true
}

func decodeCategories(raw json.RawMessage) []models.Category {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return []models.Category{}
	}

	out := make([]models.Category, 0, len(items))
	for _, item := range items {
		fields, ok := object(item)
		if !ok {
			continue
		}
		cat := models.Category{
			ID:     decodeString(fields["id"]),
			Name:   decodeString(fields["name"]),
			Weight: decodeWeight(fields["weight"]),
			Grades: []models.GradeItem{},
		}

		var grades []json.RawMessage
		if json.Unmarshal(fields["grades"], &grades) == nil {
			for _, g := range grades {
				gf, ok := object(g)
				if !ok {
					continue
				}
				cat.Grades = append(cat.Grades, models.GradeItem{
					ID:    decodeString(gf["id"]),
					Name:  decodeString(gf["name"]),
					Score: decodeNumber(gf["score"]),
					Max:   decodeNumber(gf["max"]),
				})
			}
		}
		out = append(out, cat)
	}
	return out
}

// object splits a JSON object into its fields. Anything else is rejected.
func object(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil, false
	}
	return fields, true
}

func decodeString(raw json.RawMessage) string {
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	return v
}

// decodeNumber returns nil for a missing, null or non-numeric value.
func decodeNumber(raw json.RawMessage) *float64 {
	var v *float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

func decodeWeight(raw json.RawMessage) float64 {
	var w float64
	if err := json.Unmarshal(raw, &w); err != nil {
		return 0
	}
	return w
}

func decodeCounter(raw json.RawMessage) int {
	var n float64
	if len(raw) == 0 || json.Unmarshal(raw, &n) != nil {
		return 1
	}
	if n < 1 || n > math.MaxInt32 || n != math.Trunc(n) {
		return 1
	}
	return int(n)
}

// Normalize repairs a state so that it is safe to mutate: nil slices become
// empty, non-finite numbers are cleared, counters sit above every minted ID,
// and missing or duplicate IDs are replaced with fresh ones. A well-formed
// state is returned unchanged.
func Normalize(state models.CalculatorState) models.CalculatorState {
	out := state.Clone()
	if out.NextCategoryID < 1 {
		out.NextCategoryID = 1
	}
	if out.NextGradeID < 1 {
		out.NextGradeID = 1
	}

	for _, c := range out.Categories {
		if n, ok := idSuffix(c.ID, constants.CategoryIDPrefix); ok && n >= out.NextCategoryID {
			out.NextCategoryID = n + 1
		}
		for _, g := range c.Grades {
			if n, ok := idSuffix(g.ID, constants.GradeIDPrefix); ok && n >= out.NextGradeID {
				out.NextGradeID = n + 1
			}
		}
	}

	seenCats := map[string]bool{}
	seenGrades := map[string]bool{}
	for i := range out.Categories {
		c := &out.Categories[i]
		if c.ID == "" || seenCats[c.ID] {
			c.ID = fmt.Sprintf("%s%d", constants.CategoryIDPrefix, out.NextCategoryID)
			out.NextCategoryID++
		}
		seenCats[c.ID] = true
		c.Weight = finiteWeight(c.Weight)

		for j := range c.Grades {
			g := &c.Grades[j]
			if g.ID == "" || seenGrades[g.ID] {
				g.ID = fmt.Sprintf("%s%d", constants.GradeIDPrefix, out.NextGradeID)
				out.NextGradeID++
			}
			seenGrades[g.ID] = true
			g.Score = finiteValue(g.Score)
			g.Max = finiteValue(g.Max)
		}
	}
	return out
}

// idSuffix parses n from prefix+n. Suffixes at or past the counter bound are
// ignored so that n+1 cannot overflow.
func idSuffix(id, prefix string) (int, bool) {
	if !strings.HasPrefix(id, prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(id, prefix))
	if err != nil || n < 0 || n >= math.MaxInt32 {
		return 0, false
	}
	return n, true
}
