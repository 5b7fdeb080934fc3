// Package audio synthesizes short procedural tones and streams them to an output sink.
package audio

import (
	"fmt"
	"math"
	"strings"
)

// Waveform selects the oscillator shape.
type Waveform int

const (
	Sine Waveform = iota
	Square
	Triangle
	Sawtooth
)

func (w Waveform) String() string {
	switch w {
	case Sine:
		return "sine"
	case Square:
		return "square"
	case Triangle:
		return "triangle"
	case Sawtooth:
		return "sawtooth"
	default:
		return "unknown"
	}
}

// ParseWaveform converts a waveform name to a Waveform.
func ParseWaveform(s string) (Waveform, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sine":
		return Sine, nil
	case "square":
		return Square, nil
	case "triangle":
		return Triangle, nil
	case "sawtooth", "saw":
		return Sawtooth, nil
	default:
		return Sine, fmt.Errorf("unknown waveform %q", s)
	}
}

// sample evaluates the waveform at phase, where phase is in [0, 1).
func (w Waveform) sample(phase float64) float64 {
	switch w {
	case Square:
		if phase < 0.5 {
			return 1
		}
		return -1
	case Triangle:
		if phase < 0.5 {
			return 4*phase - 1
		}
		return 3 - 4*phase
	case Sawtooth:
		return 2*phase - 1
	default:
		return math.Sin(2 * math.Pi * phase)
	}
}
