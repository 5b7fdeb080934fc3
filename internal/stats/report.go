package stats

import (
	"fmt"
	"io"
	"strings"

	"github.com/verte-zerg/movwise/internal/game"
	"github.com/verte-zerg/movwise/internal/model"
)

// AchievementRow is one badge with its unlock state.
type AchievementRow struct {
	ID          string
	Title       string
	Description string
	Unlocked    bool
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Profile      game.Profile
	History      []game.HistoryEntry
	Summary      Summary
	Trend        []float64
	Achievements []AchievementRow
}

// BuildReport filters the profile history (newest first) and prepares the views.
// The trend runs oldest to newest.
func BuildReport(s game.Statistics, cfg model.StatsConfig) Report {
	var history []game.HistoryEntry
	for _, h := range s.Profile.History {
		if cfg.Difficulty != "" && h.Difficulty != cfg.Difficulty {
			continue
		}
		history = append(history, h)
	}
	if cfg.Last > 0 && len(history) > cfg.Last {
		history = history[:cfg.Last]
	}

	scores := make([]float64, len(history))
	for i, h := range history {
		scores[len(history)-1-i] = float64(h.Score)
	}

	rows := make([]AchievementRow, 0)
	for _, a := range game.Achievements() {
		rows = append(rows, AchievementRow{
			ID:          a.ID,
			Title:       a.Title,
			Description: a.Description,
			Unlocked:    s.Profile.HasAchievement(a.ID),
		})
	}

	return Report{
		Profile:      s.Profile,
		History:      history,
		Summary:      Summarize(history),
		Trend:        MovingAverage(scores, cfg.Window),
		Achievements: rows,
	}
}

// RenderReport prints every section of the report as plain text.
func RenderReport(w io.Writer, r Report) error {
	if err := RenderSummary(w, r); err != nil {
		return err
	}
	if err := RenderHistory(w, r.History); err != nil {
		return err
	}
	return RenderAchievements(w, r.Achievements)
}

// RenderSummary prints lifetime counters and the filtered round summary.
func RenderSummary(w io.Writer, r Report) error {
	p := r.Profile
	s := r.Summary
	lines := []string{
		"Summary",
		fmt.Sprintf("Games played: %d", p.TotalGamesPlayed),
		fmt.Sprintf("Best score: %d", p.BestScore),
		fmt.Sprintf("Mastery: %.1f%% (%d/%d)", p.Mastery, p.TotalCorrectAnswers, p.TotalQuestions),
	}
	if s.Rounds > 0 {
		lines = append(lines,
			fmt.Sprintf("Rounds shown: %d", s.Rounds),
			fmt.Sprintf("Avg score: %.1f", s.AvgScore),
			fmt.Sprintf("Avg accuracy: %.1f%%", s.AvgAccuracy),
			fmt.Sprintf("Avg reaction: %dms", s.AvgReaction.Milliseconds()),
			fmt.Sprintf("Best combo: %d", s.BestCombo),
		)
	}
	if len(r.Trend) > 1 {
		lines = append(lines, "Trend: "+Sparkline(r.Trend))
	}
	lines = append(lines, "")
	_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
	return err
}

// RenderHistory prints one table row per round, newest first.
func RenderHistory(w io.Writer, history []game.HistoryEntry) error {
	if len(history) == 0 {
		_, err := fmt.Fprintln(w, "No rounds found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "History"); err != nil {
		return err
	}
	headers, rows := HistoryTable(history)
	rightAlign := map[int]bool{2: true, 3: true, 4: true, 5: true, 6: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// HistoryTable returns the history as header and string rows, shared with the TUI.
func HistoryTable(history []game.HistoryEntry) ([]string, [][]string) {
	headers := []string{"Played", "Difficulty", "Score", "Correct", "Accuracy", "Combo", "Reaction"}
	rows := make([][]string, 0, len(history))
	for _, h := range history {
		rows = append(rows, []string{
			h.PlayedAt.Local().Format("2006-01-02 15:04"),
			string(h.Difficulty),
			fmt.Sprintf("%d", h.Score),
			fmt.Sprintf("%d/%d", h.Correct, h.Total),
			fmt.Sprintf("%.1f%%", h.Accuracy),
			fmt.Sprintf("%d", h.MaxCombo),
			fmt.Sprintf("%dms", h.AvgReactionMs),
		})
	}
	return headers, rows
}

// RenderAchievements lists every achievement with a check mark when unlocked.
func RenderAchievements(w io.Writer, rows []AchievementRow) error {
	if _, err := fmt.Fprintln(w, "Achievements"); err != nil {
		return err
	}
	for _, a := range rows {
		mark := "[ ]"
		if a.Unlocked {
			mark = "[x]"
		}
		if _, err := fmt.Fprintf(w, "%s %s: %s\n", mark, a.Title, a.Description); err != nil {
			return err
		}
	}
	return nil
}
