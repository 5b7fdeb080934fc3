package audio

import (
	"math"
	"time"
)

// Render produces mono samples for a single note, including its attack/decay envelope.
func Render(n Note, rate int) []float32 {
	total := frames(n.Duration, rate)
	if total <= 0 {
		return nil
	}
	attack := n.Duration / 2
	if attack > attackTime {
		attack = attackTime
	}
	attackFrames := frames(attack, rate)
	decayFrames := total - attackFrames
	decayRate := 0.0
	if decayFrames > 0 {
		decayRate = math.Log(1/decayFloor) / float64(decayFrames)
	}

	out := make([]float32, total)
	phase := 0.0
	sweep := n.To > 0 && n.To != n.From
	for i := 0; i < total; i++ {
		freq := n.From
		if sweep {
			freq = n.From * math.Pow(n.To/n.From, float64(i)/float64(total))
		}
		var env float64
		if i < attackFrames {
			env = float64(i) / float64(attackFrames)
		} else {
			env = math.Exp(-decayRate * float64(i-attackFrames))
		}
		out[i] = float32(n.Gain * env * n.Wave.sample(phase))
		phase += freq / float64(rate)
		phase -= math.Floor(phase)
	}
	return out
}

// Mixdown renders a group of notes into one buffer, honoring offsets. Output is clipped to [-1, 1].
func Mixdown(notes []Note, rate int) []float32 {
	buf := make([]float32, frames(Span(notes), rate))
	for _, n := range notes {
		start := frames(n.Offset, rate)
		for i, s := range Render(n, rate) {
			if start+i >= len(buf) {
				break
			}
			buf[start+i] += s
		}
	}
	for i, s := range buf {
		if s > 1 {
			buf[i] = 1
		} else if s < -1 {
			buf[i] = -1
		}
	}
	return buf
}

func frames(d time.Duration, rate int) int {
	return int(d.Seconds() * float64(rate))
}
