package game

import (
	"time"

	"github.com/verte-zerg/movwise/internal/model"
)

// Session is the ephemeral state of one round. It is rebuilt by every StartGame.
type Session struct {
	Phase         Phase
	Difficulty    model.Difficulty
	Score         int
	Lives         int
	MaxLives      int
	TimeRemaining time.Duration
	RoundDuration time.Duration
	Countdown     time.Duration
	Combo         int
	MaxCombo      int
	Correct       int
	Incorrect     int
	Level         int
	ReactionTotal time.Duration
	Prompt        *model.Prompt
	PromptShownAt time.Time
	StartedAt     time.Time

	warned   bool
	pausedAt time.Time
}

func newSession(d model.Difficulty, rules Rules) Session {
	return Session{
		Phase:         PhaseWaiting,
		Difficulty:    d,
		Lives:         rules.Lives,
		MaxLives:      rules.Lives,
		TimeRemaining: rules.RoundDuration,
		RoundDuration: rules.RoundDuration,
		Countdown:     rules.Countdown,
		Level:         1,
	}
}

// ReactionAt is how long the active prompt has been on screen at now, excluding
// time spent paused.
func (s Session) ReactionAt(now time.Time) time.Duration {
	if s.Phase == PhasePaused && !s.pausedAt.IsZero() {
		now = s.pausedAt
	}
	return now.Sub(s.PromptShownAt)
}

// Attempts is the number of answers submitted.
func (s Session) Attempts() int {
	return s.Correct + s.Incorrect
}

// Accuracy is the percentage of correct answers, 0 before the first answer.
func (s Session) Accuracy() float64 {
	if s.Attempts() == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Attempts()) * 100
}

// AvgReaction is the mean clamped reaction time.
func (s Session) AvgReaction() time.Duration {
	if s.Attempts() == 0 {
		return 0
	}
	return s.ReactionTotal / time.Duration(s.Attempts())
}

// Elapsed is the play time consumed so far.
func (s Session) Elapsed() time.Duration {
	return s.RoundDuration - s.TimeRemaining
}
