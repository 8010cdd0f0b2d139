package grading

import "github.com/julianstephens/gradecalc/internal/models"

// CategorySummary is the display-facing view of one category.
type CategorySummary struct {
	ID         string  `json:"id" yaml:"id"`
	Name       string  `json:"name" yaml:"name"`
	Weight     float64 `json:"weight" yaml:"weight"`
	Average    float64 `json:"average,omitempty" yaml:"average,omitempty"`
	HasData    bool    `json:"has_data" yaml:"has_data"`
	Display    string  `json:"display" yaml:"display"`
	GradeCount int     `json:"grade_count" yaml:"grade_count"`
	ValidCount int     `json:"valid_count" yaml:"valid_count"`
}

// Summary is everything the display layer renders for a state.
type Summary struct {
	Categories   []CategorySummary `json:"categories" yaml:"categories"`
	Final        float64           `json:"final,omitempty" yaml:"final,omitempty"`
	HasFinal     bool              `json:"has_final" yaml:"has_final"`
	FinalDisplay string            `json:"final_display" yaml:"final_display"`
	Letter       string            `json:"letter" yaml:"letter"`
	Weighted     bool              `json:"weighted" yaml:"weighted"`
	// WeightTotal sums the weights of categories that have data.
	WeightTotal float64 `json:"weight_total" yaml:"weight_total"`
}

// Summarize computes every average for the state. The letter is derived from
// the raw final value before it is formatted.
func Summarize(state models.CalculatorState) Summary {
	s := Summary{
		Categories: make([]CategorySummary, 0, len(state.Categories)),
		Weighted:   state.IsWeighted,
	}

	for _, c := range state.Categories {
		avg, ok := CategoryAverage(c.Grades)
		cs := CategorySummary{
			ID:         c.ID,
			Name:       c.Name,
			Weight:     c.Weight,
			Average:    avg,
			HasData:    ok,
			Display:    FormatPercent(avg, ok),
			GradeCount: len(c.Grades),
		}
		for _, g := range c.Grades {
			if g.Valid() {
				cs.ValidCount++
			}
		}
		if ok {
			s.WeightTotal += c.Weight
		}
		s.Categories = append(s.Categories, cs)
	}

	s.Final, s.HasFinal = FinalGrade(state.Categories, state.IsWeighted)
	s.Letter = FormatLetter(s.Final, s.HasFinal)
	s.FinalDisplay = FormatPercent(s.Final, s.HasFinal)
	return s
}
