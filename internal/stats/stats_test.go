package stats

import (
	"testing"
	"time"

	"github.com/verte-zerg/movwise/internal/game"
)

func TestSummarize(t *testing.T) {
	history := []game.HistoryEntry{
		{Score: 300, Correct: 3, Total: 4, Accuracy: 75, MaxCombo: 3, AvgReactionMs: 800, DurationMs: 30000},
		{Score: 100, Correct: 1, Total: 1, Accuracy: 100, MaxCombo: 1, AvgReactionMs: 400, DurationMs: 30000},
	}
	s := Summarize(history)
	if s.Rounds != 2 || s.BestScore != 300 || s.BestCombo != 3 {
		t.Fatalf("unexpected summary: %+v", s)
	}
	if s.AvgScore != 200 || s.AvgAccuracy != 87.5 {
		t.Fatalf("unexpected averages: %+v", s)
	}
	if s.AvgReaction != 600*time.Millisecond {
		t.Fatalf("unexpected reaction %v", s.AvgReaction)
	}
	if s.TotalCorrect != 4 || s.TotalQuestions != 5 || s.PlayTime != time.Minute {
		t.Fatalf("unexpected totals: %+v", s)
	}
	if got := Summarize(nil); got.Rounds != 0 || got.AvgScore != 0 {
		t.Fatalf("expected zero summary, got %+v", got)
	}
}

func TestPointsPerMinute(t *testing.T) {
	if got := PointsPerMinute(game.HistoryEntry{Score: 600, DurationMs: 30000}); got != 1200 {
		t.Fatalf("expected 1200, got %v", got)
	}
	if got := PointsPerMinute(game.HistoryEntry{Score: 600}); got != 0 {
		t.Fatalf("expected 0 for empty duration, got %v", got)
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 3)
	want := []float64{2, 3, 4, 6}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("avg[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 9}); got != " @" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{5, 5, 5}); got != "+++" {
		t.Fatalf("unexpected flat sparkline %q", got)
	}
	if got := Sparkline(nil); got != "" {
		t.Fatalf("expected empty sparkline, got %q", got)
	}
}
