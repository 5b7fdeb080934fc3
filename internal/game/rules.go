package game

import (
	"time"

	"github.com/verte-zerg/movwise/internal/model"
)

// WarningThreshold is the remaining time at which the time warning fires.
const WarningThreshold = 10 * time.Second

// DefaultCountdown precedes every round.
const DefaultCountdown = 3 * time.Second

// Rules are the per-round limits.
type Rules struct {
	RoundDuration time.Duration
	Lives         int
	Countdown     time.Duration
}

// RulesFor returns the default rules for a difficulty. Unknown values fall back to normal.
func RulesFor(d model.Difficulty) Rules {
	switch d {
	case model.DifficultyEasy:
		return Rules{RoundDuration: 90 * time.Second, Lives: 5, Countdown: DefaultCountdown}
	case model.DifficultyHard:
		return Rules{RoundDuration: 45 * time.Second, Lives: 3, Countdown: DefaultCountdown}
	default:
		return Rules{RoundDuration: 60 * time.Second, Lives: 3, Countdown: DefaultCountdown}
	}
}

// Override replaces the fields set in cfg (positive values only).
func (r Rules) Override(cfg model.Config) Rules {
	if cfg.RoundSeconds > 0 {
		r.RoundDuration = time.Duration(cfg.RoundSeconds) * time.Second
	}
	if cfg.Lives > 0 {
		r.Lives = cfg.Lives
	}
	if cfg.CountdownSeconds > 0 {
		r.Countdown = time.Duration(cfg.CountdownSeconds) * time.Second
	}
	return r
}

// Preferences are the player's persisted settings.
type Preferences struct {
	Difficulty       model.Difficulty `json:"difficulty"`
	SoundEnabled     bool             `json:"soundEnabled"`
	VibrationEnabled bool             `json:"vibrationEnabled"`
}

// DefaultPreferences is normal difficulty with every channel on.
func DefaultPreferences() Preferences {
	return Preferences{Difficulty: model.DifficultyNormal, SoundEnabled: true, VibrationEnabled: true}
}
