package feedback

import (
	"fmt"

	"github.com/verte-zerg/movwise/internal/audio"
)

const (
	buzzWave        = audio.Square
	buzzLevel       = 0.8
	popWave         = audio.Sine
	popLevel        = 0.6
	fanfareWave     = audio.Triangle
	descendWave     = audio.Sawtooth
	sparkleWave     = audio.Sine
	achievementWave = audio.Triangle
	victoryWave     = audio.Square
)

// Export returns the notes an effect schedules at the given gain, for offline rendering.
func Export(key string, gain float64) ([]audio.Note, error) {
	effect, ok := Lookup(key)
	if !ok {
		return nil, fmt.Errorf("unknown effect %q", key)
	}
	switch s := effect.Sound.(type) {
	case Sweep:
		return audio.SweepNotes(s.From, s.To, ms(s.DurationMs), s.Wave, gain), nil
	case Chord:
		return audio.ChordNotes(s.Freqs, ms(s.DurationMs), s.Wave, gain), nil
	case Buzz:
		return audio.ToneNotes(s.Freq, ms(s.DurationMs), buzzWave, gain*buzzLevel), nil
	case Pop:
		return audio.ToneNotes(s.Freq, ms(s.DurationMs), popWave, gain*popLevel), nil
	case Beep:
		return audio.ToneNotes(s.Freq, ms(s.DurationMs), s.Wave, gain), nil
	case Fanfare:
		return audio.SequenceNotes(s.Freqs, ms(s.NoteMs), fanfareWave, gain), nil
	case Descend:
		return audio.SequenceNotes(s.Freqs, ms(s.NoteMs), descendWave, gain), nil
	case Sparkle:
		return audio.SequenceNotes(s.Freqs, ms(s.NoteMs), sparkleWave, gain), nil
	case Achievement:
		return audio.ChordNotes(s.Freqs, ms(s.DurationMs), achievementWave, gain), nil
	case Victory:
		return audio.SequenceNotes(s.Freqs, ms(s.NoteMs), victoryWave, gain), nil
	default:
		return nil, fmt.Errorf("unsupported sound %T", effect.Sound)
	}
}
