// Package stats contains statistics calculations and reporting.
package stats

import (
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/movwise/internal/game"
)

const sparkChars = " .:-=+*#%@"

// Summary aggregates a set of finished rounds.
type Summary struct {
	Rounds         int
	BestScore      int
	AvgScore       float64
	AvgAccuracy    float64
	AvgReaction    time.Duration
	BestCombo      int
	TotalCorrect   int
	TotalQuestions int
	PlayTime       time.Duration
}

// Summarize folds history entries into a Summary.
func Summarize(history []game.HistoryEntry) Summary {
	var s Summary
	if len(history) == 0 {
		return s
	}
	var scoreSum, accSum float64
	var reactionSum int64
	for _, h := range history {
		s.Rounds++
		scoreSum += float64(h.Score)
		accSum += h.Accuracy
		reactionSum += h.AvgReactionMs
		s.TotalCorrect += h.Correct
		s.TotalQuestions += h.Total
		s.PlayTime += time.Duration(h.DurationMs) * time.Millisecond
		if h.Score > s.BestScore {
			s.BestScore = h.Score
		}
		if h.MaxCombo > s.BestCombo {
			s.BestCombo = h.MaxCombo
		}
	}
	n := float64(s.Rounds)
	s.AvgScore = scoreSum / n
	s.AvgAccuracy = accSum / n
	s.AvgReaction = time.Duration(float64(reactionSum)/n) * time.Millisecond
	return s
}

// PointsPerMinute is the scoring rate of one round.
func PointsPerMinute(h game.HistoryEntry) float64 {
	if h.DurationMs <= 0 {
		return 0
	}
	return float64(h.Score) / (float64(h.DurationMs) / 60000.0)
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 || len(values) == 0 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(min(i+1, window))
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	last := len(sparkChars) - 1
	for _, v := range values {
		idx := int(math.Round((v - minVal) / (maxVal - minVal) * float64(last)))
		b.WriteByte(sparkChars[max(0, min(idx, last))])
	}
	return b.String()
}
