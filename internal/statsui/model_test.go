package statsui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/movwise/internal/game"
	"github.com/verte-zerg/movwise/internal/model"
)

type fakeSource struct {
	stats    game.Statistics
	resets   int
	resetErr error
}

func (f *fakeSource) GetStatistics() game.Statistics { return f.stats }

func (f *fakeSource) ResetProgress(context.Context) error {
	f.resets++
	if f.resetErr != nil {
		return f.resetErr
	}
	f.stats.Profile = game.NewProfile()
	return nil
}

func newSource() *fakeSource {
	p := game.NewProfile()
	p.TotalGamesPlayed = 2
	p.BestScore = 420
	p.Achievements = []string{game.AchievementNoMistakes}
	played := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	p.History = []game.HistoryEntry{
		{ID: "b", Score: 420, Correct: 4, Total: 4, Accuracy: 100, Difficulty: model.DifficultyHard, PlayedAt: played},
		{ID: "a", Score: 120, Correct: 2, Total: 3, Accuracy: 66.7, Difficulty: model.DifficultyEasy, PlayedAt: played},
	}
	return &fakeSource{stats: game.Statistics{Profile: p}}
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestViewRendersTabsAndCards(t *testing.T) {
	m := NewModel(newSource(), model.StatsConfig{Window: 3})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	out := m.View()
	for _, want := range []string{"Overview", "History", "Achievements", "Best score", "420", "window=3"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view:\n%s", want, out)
		}
	}
}

func TestDifficultyFilterCycles(t *testing.T) {
	m := NewModel(newSource(), model.StatsConfig{Window: 1})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	m.Update(key("d"))
	if m.cfg.Difficulty != model.DifficultyEasy || len(m.report.History) != 1 {
		t.Fatalf("expected easy filter with 1 round, got %q/%d", m.cfg.Difficulty, len(m.report.History))
	}
	m.Update(key("d"))
	m.Update(key("d"))
	if m.cfg.Difficulty != model.DifficultyHard || m.report.History[0].ID != "b" {
		t.Fatalf("expected hard filter, got %q", m.cfg.Difficulty)
	}
	m.Update(key("d"))
	if m.cfg.Difficulty != "" || len(m.report.History) != 2 {
		t.Fatalf("expected filter cleared, got %q/%d", m.cfg.Difficulty, len(m.report.History))
	}
}

func TestHistoryTabShowsRows(t *testing.T) {
	m := NewModel(newSource(), model.StatsConfig{Window: 1})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m.Update(tea.KeyMsg{Type: tea.KeyRight})

	out := m.View()
	if !strings.Contains(out, "Difficulty") || !strings.Contains(out, "hard") {
		t.Fatalf("expected history table in view:\n%s", out)
	}
}

func TestResetRequiresConfirmation(t *testing.T) {
	src := newSource()
	m := NewModel(src, model.StatsConfig{Window: 1})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	m.Update(key("x"))
	if !strings.Contains(m.View(), "Reset progress?") {
		t.Fatalf("expected confirmation modal")
	}
	m.Update(key("n"))
	if src.resets != 0 || m.confirmReset {
		t.Fatalf("expected reset canceled")
	}

	m.Update(key("x"))
	m.Update(key("y"))
	if src.resets != 1 || len(m.report.History) != 0 {
		t.Fatalf("expected reset applied, resets=%d history=%d", src.resets, len(m.report.History))
	}
}

func TestResetFailureIsShown(t *testing.T) {
	src := newSource()
	src.resetErr = errors.New("disk full")
	m := NewModel(src, model.StatsConfig{Window: 1})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	m.Update(key("x"))
	m.Update(key("y"))
	if !strings.Contains(m.View(), "disk full") {
		t.Fatalf("expected error in footer")
	}
}
