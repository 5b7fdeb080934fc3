package csvschema

import (
	"fmt"
	"sort"
)

// Quality bands.
const (
	BandExcellent = "Excellent"
	BandGood      = "Good"
	BandFair      = "Fair"
	BandPoor      = "Poor"
)

const topPatterns = 3

// Pattern is a recurring error and how many times it occurred.
type Pattern struct {
	Message string
	Count   int
}

// Report summarizes the quality of a batch.
type Report struct {
	Total           int
	Valid           int
	Invalid         int
	Score           float64
	Band            string
	Patterns        []Pattern
	Recommendations []string
}

// Quality scores a batch as the percentage of valid rows and surfaces the most
// frequent error patterns.
func Quality(b BatchResult) Report {
	r := Report{Total: b.Total, Valid: len(b.Valid), Invalid: len(b.Invalid)}
	if b.Total > 0 {
		r.Score = float64(len(b.Valid)) / float64(b.Total) * 100
	}
	r.Band = band(r.Score)

	counts := map[string]int{}
	for _, row := range b.Invalid {
		for _, e := range row.Errors {
			counts[e.pattern()]++
		}
	}
	for msg, n := range counts {
		r.Patterns = append(r.Patterns, Pattern{Message: msg, Count: n})
	}
	sort.Slice(r.Patterns, func(i, j int) bool {
		if r.Patterns[i].Count != r.Patterns[j].Count {
			return r.Patterns[i].Count > r.Patterns[j].Count
		}
		return r.Patterns[i].Message < r.Patterns[j].Message
	})
	if len(r.Patterns) > topPatterns {
		r.Patterns = r.Patterns[:topPatterns]
	}

	switch {
	case b.Total == 0:
		r.Recommendations = append(r.Recommendations, "The file has no data rows.")
	case len(r.Patterns) == 0:
		r.Recommendations = append(r.Recommendations, "All rows are valid.")
	}
	for _, p := range r.Patterns {
		r.Recommendations = append(r.Recommendations, fmt.Sprintf("Fix %q (%d occurrences)", p.Message, p.Count))
	}
	return r
}

func band(score float64) string {
	switch {
	case score >= 95:
		return BandExcellent
	case score >= 85:
		return BandGood
	case score >= 70:
		return BandFair
	default:
		return BandPoor
	}
}
