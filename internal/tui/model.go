// Package tui provides the Bubble Tea play screen.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jonboulle/clockwork"

	"github.com/verte-zerg/movwise/internal/game"
	"github.com/verte-zerg/movwise/internal/model"
)

// TickInterval is how often the round timer is driven.
const TickInterval = 100 * time.Millisecond

// Music is the background accompaniment control.
type Music interface {
	PlayBackgroundLoop() bool
	StopBackgroundLoop()
}

type tickMsg time.Time

// Model implements the Bubble Tea play screen.
type Model struct {
	store *game.Store
	flash *Flash
	music Music
	clock clockwork.Clock
	unsub func()

	width  int
	height int

	lastTick time.Time
	musicOn  bool
	bestAtGo int
	notice   string
	unlocked []string
	errMsg   string
	quitting bool
}

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	choiceStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	hudStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	goodStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E"))
	badStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F97316")).Bold(true)
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel constructs a play screen over store. flash and music may be nil.
func NewModel(store *game.Store, flash *Flash, music Music, c clockwork.Clock, musicOn bool) *Model {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	m := &Model{
		store:   store,
		flash:   flash,
		music:   music,
		clock:   c,
		musicOn: musicOn,
	}
	m.unsub = store.Subscribe(m.onEvent)
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	m.lastTick = m.clock.Now()
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(TickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		m.advance()
		if m.quitting {
			return m, nil
		}
		return m, tick()
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// Close detaches from the store and silences the accompaniment.
func (m *Model) Close() {
	if m.unsub != nil {
		m.unsub()
		m.unsub = nil
	}
	m.stopMusic()
}

func (m *Model) advance() {
	now := m.clock.Now()
	elapsed := now.Sub(m.lastTick)
	m.lastTick = now
	m.store.Tick(elapsed)
	sess := m.store.Session()
	if sess.Phase == game.PhasePlaying && sess.Prompt == nil {
		m.store.NextPrompt()
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
		m.quitting = true
		m.store.ForceStop()
		m.Close()
		return m, tea.Quit
	}
	sess := m.store.Session()
	switch msg.String() {
	case "enter", " ":
		switch sess.Phase {
		case game.PhaseWaiting:
			m.start()
		case game.PhaseFinished:
			m.store.Dismiss()
		}
	case "s":
		if sess.Phase == game.PhaseFinished {
			m.start()
		}
	case "p":
		m.store.TogglePause()
	case "esc":
		m.store.ForceStop()
	case "e":
		m.store.EndGame()
	case "m":
		m.toggleMusic(sess.Phase)
	case "d", "o", "b":
		if sess.Phase == game.PhaseWaiting {
			m.changePreferences(msg.String())
		}
	default:
		if idx, ok := choiceIndex(msg.String()); ok && sess.Phase == game.PhasePlaying && sess.Prompt != nil {
			m.answer(idx, sess)
		}
	}
	return m, nil
}

func (m *Model) start() {
	m.bestAtGo = m.store.GetStatistics().Profile.BestScore
	m.notice = ""
	m.unlocked = nil
	m.lastTick = m.clock.Now()
	m.store.StartGame()
}

func (m *Model) answer(idx int, sess game.Session) {
	if idx >= len(sess.Prompt.Choices) {
		return
	}
	reaction := sess.ReactionAt(m.clock.Now())
	m.store.SubmitAnswer(idx, reaction)
	if m.store.Session().Prompt == nil {
		m.store.NextPrompt()
	}
}

func (m *Model) changePreferences(key string) {
	prefs := m.store.GetStatistics().Profile.Preferences
	switch key {
	case "d":
		prefs.Difficulty = nextDifficulty(prefs.Difficulty)
	case "o":
		prefs.SoundEnabled = !prefs.SoundEnabled
	case "b":
		prefs.VibrationEnabled = !prefs.VibrationEnabled
	}
	m.store.SetPreferences(prefs)
}

func (m *Model) toggleMusic(phase game.Phase) {
	m.musicOn = !m.musicOn
	if m.musicOn && phase == game.PhasePlaying {
		m.startMusic()
		return
	}
	m.stopMusic()
}

func (m *Model) startMusic() {
	if m.music != nil {
		m.music.PlayBackgroundLoop()
	}
}

func (m *Model) stopMusic() {
	if m.music != nil {
		m.music.StopBackgroundLoop()
	}
}

func (m *Model) onEvent(ev game.Event) {
	switch ev.Kind {
	case game.EventPhaseChanged:
		if ev.Phase == game.PhasePlaying && m.musicOn {
			m.startMusic()
		} else if ev.Phase != game.PhasePlaying {
			m.stopMusic()
		}
		if ev.Phase == game.PhaseCountdown || ev.Phase == game.PhasePlaying {
			m.errMsg = ""
		}
	case game.EventAnswered:
		if ev.Correct {
			m.notice = goodStyle.Render(fmt.Sprintf("Correct! +%d", ev.Points))
		} else {
			m.notice = badStyle.Render("Not quite")
		}
	case game.EventTimeWarning:
		m.notice = warningStyle.Render(fmt.Sprintf("%d seconds left", int(game.WarningThreshold/time.Second)))
	case game.EventAchievementUnlocked:
		if a, ok := game.LookupAchievement(ev.Achievement); ok {
			m.unlocked = append(m.unlocked, a.Title)
		}
	case game.EventError:
		if ev.Err != nil {
			m.errMsg = ev.Err.Error()
		}
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	sess := m.store.Session()
	var content string
	switch sess.Phase {
	case game.PhaseWaiting:
		content = m.renderWaiting()
	case game.PhaseCountdown:
		content = m.renderCountdown(sess)
	case game.PhasePlaying, game.PhasePaused:
		content = m.renderRound(sess)
	case game.PhaseFinished:
		content = m.renderResults(sess)
	}
	if m.errMsg != "" {
		content += "\n\n" + badStyle.Render(m.errMsg)
	}
	if m.width == 0 || m.height == 0 {
		return content
	}
	if m.flash != nil {
		if color, ok := m.flash.Current(); ok {
			return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content,
				lipgloss.WithWhitespaceBackground(lipgloss.Color(color)))
		}
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) renderWaiting() string {
	stats := m.store.GetStatistics()
	prefs := stats.Profile.Preferences
	lines := []string{
		titleStyle.Render("movwise"),
		"",
		fmt.Sprintf("Difficulty: %s", prefs.Difficulty),
		fmt.Sprintf("Sound: %s  Bell: %s  Music: %s", onOff(prefs.SoundEnabled), onOff(prefs.VibrationEnabled), onOff(m.musicOn)),
		fmt.Sprintf("Best score: %d  Games: %d", stats.Profile.BestScore, stats.Profile.TotalGamesPlayed),
		"",
		footerStyle.Render("enter: start  d: difficulty  o: sound  b: bell  m: music  q: quit"),
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderCountdown(sess game.Session) string {
	secs := int((sess.Countdown + time.Second - 1) / time.Second)
	return titleStyle.Render(fmt.Sprintf("Get ready... %d", max(secs, 1)))
}

func (m *Model) renderRound(sess game.Session) string {
	lines := []string{m.renderHUD(sess), ""}
	if sess.Phase == game.PhasePaused {
		lines = append(lines, titleStyle.Render("Paused"), "", footerStyle.Render("p: resume  esc: stop  q: quit"))
		return strings.Join(lines, "\n")
	}
	if sess.Prompt == nil {
		lines = append(lines, hudStyle.Render("No prompts available."))
	} else {
		lines = append(lines, promptStyle.Render(sess.Prompt.Text), "")
		for i, c := range sess.Prompt.Choices {
			lines = append(lines, choiceStyle.Render(fmt.Sprintf("%d) %s", i+1, c)))
		}
	}
	lines = append(lines, "", m.notice, "", footerStyle.Render("1-9: answer  p: pause  e: end  esc: stop  m: music  q: quit"))
	return strings.Join(lines, "\n")
}

func (m *Model) renderHUD(sess game.Session) string {
	lives := strings.Repeat("♥", sess.Lives) + strings.Repeat("♡", max(sess.MaxLives-sess.Lives, 0))
	secs := int((sess.TimeRemaining + time.Second - 1) / time.Second)
	hud := fmt.Sprintf("Score %d  Lives %s  Time %ds  Combo x%d  Level %d", sess.Score, lives, secs, sess.Combo, sess.Level)
	if sess.TimeRemaining <= game.WarningThreshold {
		return warningStyle.Render(hud)
	}
	return hudStyle.Render(hud)
}

func (m *Model) renderResults(sess game.Session) string {
	title := "Round over"
	if sess.Score > m.bestAtGo {
		title = "New best score!"
	}
	lines := []string{
		titleStyle.Render(title),
		"",
		fmt.Sprintf("Score: %d", sess.Score),
		fmt.Sprintf("Correct: %d/%d (%.1f%%)", sess.Correct, sess.Attempts(), sess.Accuracy()),
		fmt.Sprintf("Best combo: %d", sess.MaxCombo),
		fmt.Sprintf("Avg reaction: %dms", sess.AvgReaction().Milliseconds()),
		fmt.Sprintf("Level: %d", sess.Level),
	}
	if len(m.unlocked) > 0 {
		lines = append(lines, "", titleStyle.Render("Achievements unlocked"))
		for _, name := range m.unlocked {
			lines = append(lines, "★ "+name)
		}
	}
	lines = append(lines, "", footerStyle.Render("enter: menu  s: play again  q: quit"))
	return strings.Join(lines, "\n")
}

func choiceIndex(key string) (int, bool) {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return 0, false
	}
	return int(key[0] - '1'), true
}

func nextDifficulty(d model.Difficulty) model.Difficulty {
	for i, v := range model.Difficulties {
		if v == d {
			return model.Difficulties[(i+1)%len(model.Difficulties)]
		}
	}
	return model.DifficultyNormal
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
