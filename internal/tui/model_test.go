package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"

	"github.com/verte-zerg/movwise/internal/feedback"
	"github.com/verte-zerg/movwise/internal/game"
	"github.com/verte-zerg/movwise/internal/logging"
	"github.com/verte-zerg/movwise/internal/model"
	"github.com/verte-zerg/movwise/internal/store"
)

type loopPrompts struct {
	i int
}

func (l *loopPrompts) Next(model.Difficulty) (model.Prompt, bool) {
	l.i++
	return model.Prompt{
		ID:         "p" + string(rune('0'+l.i%10)),
		Text:       "She ___ to practice every day.",
		Choices:    []string{"goes", "go", "going"},
		Answer:     0,
		Difficulty: 1,
	}, true
}

type fakeMusic struct {
	playing bool
	starts  int
}

func (f *fakeMusic) PlayBackgroundLoop() bool {
	f.playing = true
	f.starts++
	return true
}

func (f *fakeMusic) StopBackgroundLoop() { f.playing = false }

func newTestModel(t *testing.T, musicOn bool) (*Model, *clockwork.FakeClock, *fakeMusic) {
	t.Helper()
	clk := clockwork.NewFakeClockAt(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
	flash := NewFlash(clk)
	logger := logging.Discard()
	gen := feedback.New(nil, flash, nil, logger)
	st := game.New(
		game.WithClock(clk),
		game.WithLogger(logger),
		game.WithFeedback(gen),
		game.WithPrompts(&loopPrompts{}),
		game.WithStorage(store.NewMemory()),
	)
	music := &fakeMusic{}
	m := NewModel(st, flash, music, clk, musicOn)
	m.Init()
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	t.Cleanup(m.Close)
	return m, clk, music
}

func press(m *Model, s string) tea.Cmd {
	var msg tea.KeyMsg
	switch s {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	_, cmd := m.Update(msg)
	return cmd
}

func startRound(t *testing.T, m *Model, clk *clockwork.FakeClock) {
	t.Helper()
	press(m, "enter")
	if got := m.store.Session().Phase; got != game.PhaseCountdown {
		t.Fatalf("expected countdown, got %s", got)
	}
	clk.Advance(game.DefaultCountdown)
	m.Update(tickMsg(clk.Now()))
	if got := m.store.Session().Phase; got != game.PhasePlaying {
		t.Fatalf("expected playing, got %s", got)
	}
}

func TestWaitingScreenShowsMenu(t *testing.T) {
	m, _, _ := newTestModel(t, false)
	out := m.View()
	for _, want := range []string{"movwise", "Difficulty: normal", "enter: start"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view:\n%s", want, out)
		}
	}
}

func TestCorrectAnswerScoresAndDrawsNextPrompt(t *testing.T) {
	m, clk, music := newTestModel(t, true)
	startRound(t, m, clk)
	if !music.playing {
		t.Fatalf("expected music to start with the round")
	}
	if !strings.Contains(m.View(), "She ___ to practice every day.") {
		t.Fatalf("expected prompt in view")
	}

	clk.Advance(500 * time.Millisecond)
	press(m, "1")
	sess := m.store.Session()
	if sess.Score == 0 || sess.Correct != 1 {
		t.Fatalf("expected scored answer, got score=%d correct=%d", sess.Score, sess.Correct)
	}
	if sess.Prompt == nil {
		t.Fatalf("expected the next prompt to be drawn")
	}
	if !strings.Contains(m.View(), "Correct! +") {
		t.Fatalf("expected notice in view")
	}
	if _, ok := m.flash.Current(); !ok {
		t.Fatalf("expected flash after answer")
	}
	clk.Advance(feedback.FlashDuration)
	if _, ok := m.flash.Current(); ok {
		t.Fatalf("expected flash to expire")
	}
}

func TestOutOfRangeChoiceIsIgnored(t *testing.T) {
	m, clk, _ := newTestModel(t, false)
	startRound(t, m, clk)
	press(m, "9")
	if sess := m.store.Session(); sess.Attempts() != 0 {
		t.Fatalf("expected no attempt, got %d", sess.Attempts())
	}
}

func TestPauseStopsTimerAndMusic(t *testing.T) {
	m, clk, music := newTestModel(t, true)
	startRound(t, m, clk)
	clk.Advance(time.Second)

	press(m, "p")
	if music.playing {
		t.Fatalf("expected music stopped while paused")
	}
	before := m.store.Session().TimeRemaining
	clk.Advance(5 * time.Second)
	m.Update(tickMsg(clk.Now()))
	if got := m.store.Session().TimeRemaining; got != before {
		t.Fatalf("expected frozen timer, got %v want %v", got, before)
	}
	if !strings.Contains(m.View(), "Paused") {
		t.Fatalf("expected paused view")
	}

	press(m, "p")
	if !music.playing || music.starts != 2 {
		t.Fatalf("expected music to resume, starts=%d", music.starts)
	}

	clk.Advance(500 * time.Millisecond)
	press(m, "1")
	if got := m.store.Session().ReactionTotal; got != 1500*time.Millisecond {
		t.Fatalf("expected reaction to exclude the pause, got %v", got)
	}
}

func TestEndGameShowsResultsThenMenu(t *testing.T) {
	m, clk, _ := newTestModel(t, false)
	startRound(t, m, clk)
	clk.Advance(time.Second)
	press(m, "1")
	press(m, "e")

	if got := m.store.Session().Phase; got != game.PhaseFinished {
		t.Fatalf("expected finished, got %s", got)
	}
	if out := m.View(); !strings.Contains(out, "New best score!") || !strings.Contains(out, "Correct: 1/1") {
		t.Fatalf("unexpected results view:\n%s", out)
	}

	press(m, "enter")
	if got := m.store.Session().Phase; got != game.PhaseWaiting {
		t.Fatalf("expected waiting, got %s", got)
	}
	if !strings.Contains(m.View(), "Games: 1") {
		t.Fatalf("expected profile counters in menu")
	}
}

func TestEscAbandonsRound(t *testing.T) {
	m, clk, _ := newTestModel(t, false)
	startRound(t, m, clk)
	press(m, "esc")
	if got := m.store.Session().Phase; got != game.PhaseWaiting {
		t.Fatalf("expected waiting, got %s", got)
	}
	if got := m.store.GetStatistics().Profile.TotalGamesPlayed; got != 0 {
		t.Fatalf("expected abandoned round not to count, got %d", got)
	}
}

func TestPreferenceKeysOnlyInMenu(t *testing.T) {
	m, clk, _ := newTestModel(t, false)
	press(m, "d")
	press(m, "o")
	prefs := m.store.GetStatistics().Profile.Preferences
	if prefs.Difficulty != model.DifficultyHard || prefs.SoundEnabled {
		t.Fatalf("unexpected preferences %+v", prefs)
	}
	if !strings.Contains(m.View(), "Difficulty: hard") {
		t.Fatalf("expected difficulty in menu")
	}

	startRound(t, m, clk)
	press(m, "d")
	if got := m.store.GetStatistics().Profile.Preferences.Difficulty; got != model.DifficultyHard {
		t.Fatalf("expected difficulty unchanged during play, got %s", got)
	}
}

func TestQuitStopsEverything(t *testing.T) {
	m, clk, music := newTestModel(t, true)
	startRound(t, m, clk)
	cmd := press(m, "q")
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
	if music.playing {
		t.Fatalf("expected music stopped")
	}
	if _, next := m.Update(tickMsg(clk.Now())); next != nil {
		t.Fatalf("expected ticking to stop after quit")
	}
}
