package audio

import "time"

// SampleRate is the default output rate in frames per second.
const SampleRate = 44100

const (
	attackTime      = 50 * time.Millisecond
	chordStagger    = 50 * time.Millisecond
	sequenceOverlap = 0.8
	decayFloor      = 0.001
	minFrequency    = 1.0
)

// Note is one scheduled oscillator voice. From and To differ for sweeps.
type Note struct {
	Offset   time.Duration
	Duration time.Duration
	From     float64
	To       float64
	Wave     Waveform
	Gain     float64
}

// End returns the time at which the note finishes, relative to the start of its group.
func (n Note) End() time.Duration {
	return n.Offset + n.Duration
}

// ToneNotes plans a single fixed-frequency voice.
func ToneNotes(freq float64, d time.Duration, wave Waveform, gain float64) []Note {
	if d <= 0 {
		return nil
	}
	freq = clampFrequency(freq)
	return []Note{{Duration: d, From: freq, To: freq, Wave: wave, Gain: gain}}
}

// SweepNotes plans a voice whose frequency glides exponentially from one value to another.
func SweepNotes(from, to float64, d time.Duration, wave Waveform, gain float64) []Note {
	if d <= 0 {
		return nil
	}
	return []Note{{Duration: d, From: clampFrequency(from), To: clampFrequency(to), Wave: wave, Gain: gain}}
}

// ChordNotes plans one voice per frequency with staggered onsets. The gain is shared across voices.
func ChordNotes(freqs []float64, d time.Duration, wave Waveform, gain float64) []Note {
	if d <= 0 || len(freqs) == 0 {
		return nil
	}
	per := gain / float64(len(freqs))
	notes := make([]Note, 0, len(freqs))
	for i, f := range freqs {
		f = clampFrequency(f)
		notes = append(notes, Note{
			Offset:   time.Duration(i) * chordStagger,
			Duration: d,
			From:     f,
			To:       f,
			Wave:     wave,
			Gain:     per,
		})
	}
	return notes
}

// SequenceNotes plans a legato line: each note starts at 80% of the previous note's duration.
func SequenceNotes(freqs []float64, noteDur time.Duration, wave Waveform, gain float64) []Note {
	if noteDur <= 0 || len(freqs) == 0 {
		return nil
	}
	step := time.Duration(float64(noteDur) * sequenceOverlap)
	notes := make([]Note, 0, len(freqs))
	for i, f := range freqs {
		f = clampFrequency(f)
		notes = append(notes, Note{
			Offset:   time.Duration(i) * step,
			Duration: noteDur,
			From:     f,
			To:       f,
			Wave:     wave,
			Gain:     gain,
		})
	}
	return notes
}

// Span returns the time until the last note in the group ends.
func Span(notes []Note) time.Duration {
	var span time.Duration
	for _, n := range notes {
		if end := n.End(); end > span {
			span = end
		}
	}
	return span
}

func clampFrequency(f float64) float64 {
	if f < minFrequency {
		return minFrequency
	}
	return f
}
