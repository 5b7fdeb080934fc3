// Package feedback turns symbolic game events into sound, a screen flash and a vibration pattern.
package feedback

import (
	"sort"

	"github.com/verte-zerg/movwise/internal/audio"
)

// Effect keys triggered by the round store and the UI.
const (
	EffectCorrect     = "correct"
	EffectIncorrect   = "incorrect"
	EffectCombo       = "combo"
	EffectLevelUp     = "levelUp"
	EffectClick       = "click"
	EffectCountdown   = "countdown"
	EffectTimeWarning = "timeWarning"
	EffectGameOver    = "gameOver"
	EffectBonus       = "bonus"
	EffectAchievement = "achievement"
	EffectVictory     = "victory"
)

// Sound is a closed set of synthesis strategies. Each implementation maps to exactly one
// synthesizer call; see Generator.perform.
type Sound interface {
	Kind() string
	isSound()
}

// Sweep glides between two frequencies.
type Sweep struct {
	From, To   float64
	DurationMs int
	Wave       audio.Waveform
}

// Chord sounds several frequencies together.
type Chord struct {
	Freqs      []float64
	DurationMs int
	Wave       audio.Waveform
}

// Buzz is a harsh square tone.
type Buzz struct {
	Freq       float64
	DurationMs int
}

// Pop is a very short soft tone.
type Pop struct {
	Freq       float64
	DurationMs int
}

// Beep is a plain tone.
type Beep struct {
	Freq       float64
	DurationMs int
	Wave       audio.Waveform
}

// Fanfare is a rising triangle-wave melody.
type Fanfare struct {
	Freqs  []float64
	NoteMs int
}

// Descend is a falling sawtooth melody.
type Descend struct {
	Freqs  []float64
	NoteMs int
}

// Sparkle is a fast high sine arpeggio.
type Sparkle struct {
	Freqs  []float64
	NoteMs int
}

// Achievement is a long bright chord.
type Achievement struct {
	Freqs      []float64
	DurationMs int
}

// Victory is a square-wave melody.
type Victory struct {
	Freqs  []float64
	NoteMs int
}

func (Sweep) Kind() string       { return "sweep" }
func (Chord) Kind() string       { return "chord" }
func (Buzz) Kind() string        { return "buzz" }
func (Pop) Kind() string         { return "pop" }
func (Beep) Kind() string        { return "beep" }
func (Fanfare) Kind() string     { return "fanfare" }
func (Descend) Kind() string     { return "descend" }
func (Sparkle) Kind() string     { return "sparkle" }
func (Achievement) Kind() string { return "achievement" }
func (Victory) Kind() string     { return "victory" }

func (Sweep) isSound()       {}
func (Chord) isSound()       {}
func (Buzz) isSound()        {}
func (Pop) isSound()         {}
func (Beep) isSound()        {}
func (Fanfare) isSound()     {}
func (Descend) isSound()     {}
func (Sparkle) isSound()     {}
func (Achievement) isSound() {}
func (Victory) isSound()     {}

// Effect is the static descriptor for one feedback key.
type Effect struct {
	Key   string
	Sound Sound
	Color string
}

var effects = map[string]Effect{
	EffectCorrect:     {Key: EffectCorrect, Sound: Sweep{From: 523.25, To: 1046.5, DurationMs: 150, Wave: audio.Sine}, Color: "#22C55E"},
	EffectIncorrect:   {Key: EffectIncorrect, Sound: Buzz{Freq: 150, DurationMs: 300}, Color: "#EF4444"},
	EffectCombo:       {Key: EffectCombo, Sound: Chord{Freqs: []float64{523.25, 659.25, 783.99}, DurationMs: 300, Wave: audio.Triangle}, Color: "#F59E0B"},
	EffectLevelUp:     {Key: EffectLevelUp, Sound: Fanfare{Freqs: []float64{523.25, 659.25, 783.99, 1046.5}, NoteMs: 150}, Color: "#8B5CF6"},
	EffectClick:       {Key: EffectClick, Sound: Pop{Freq: 800, DurationMs: 50}, Color: "#94A3B8"},
	EffectCountdown:   {Key: EffectCountdown, Sound: Beep{Freq: 880, DurationMs: 100, Wave: audio.Sine}, Color: "#3B82F6"},
	EffectTimeWarning: {Key: EffectTimeWarning, Sound: Beep{Freq: 440, DurationMs: 200, Wave: audio.Square}, Color: "#F97316"},
	EffectGameOver:    {Key: EffectGameOver, Sound: Descend{Freqs: []float64{523.25, 440, 349.23, 261.63}, NoteMs: 200}, Color: "#6B7280"},
	EffectBonus:       {Key: EffectBonus, Sound: Sparkle{Freqs: []float64{1046.5, 1318.51, 1567.98, 2093}, NoteMs: 80}, Color: "#FACC15"},
	EffectAchievement: {Key: EffectAchievement, Sound: Achievement{Freqs: []float64{523.25, 659.25, 783.99, 1046.5}, DurationMs: 500}, Color: "#EAB308"},
	EffectVictory:     {Key: EffectVictory, Sound: Victory{Freqs: []float64{523.25, 523.25, 523.25, 698.46, 880, 1046.5}, NoteMs: 160}, Color: "#10B981"},
}

var vibrationPatterns = map[string][]int{
	EffectCorrect:     {50},
	EffectIncorrect:   {100, 50, 100},
	EffectCombo:       {30, 30, 30},
	EffectLevelUp:     {50, 50, 50, 50, 100},
	EffectClick:       {10},
	EffectCountdown:   {20},
	EffectTimeWarning: {80, 40, 80},
	EffectGameOver:    {200, 100, 200},
	EffectBonus:       {30, 20, 30},
	EffectAchievement: {100, 50, 100, 50, 200},
	EffectVictory:     {100, 50, 100, 50, 300},
}

var defaultVibration = []int{50}

// Lookup returns the effect registered under key.
func Lookup(key string) (Effect, bool) {
	e, ok := effects[key]
	return e, ok
}

// Keys lists every registered effect key in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(effects))
	for k := range effects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// VibrationPattern returns the on/off pattern in milliseconds for key, or the default single pulse.
func VibrationPattern(key string) []int {
	if p, ok := vibrationPatterns[key]; ok {
		return append([]int(nil), p...)
	}
	return append([]int(nil), defaultVibration...)
}
