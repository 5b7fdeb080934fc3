package feedback

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/verte-zerg/movwise/internal/audio"
)

// FlashDuration is how long the full-screen color flash stays visible.
const FlashDuration = 150 * time.Millisecond

// Synth is the synthesizer surface the generator drives.
type Synth interface {
	Available() bool
	Tone(ctx context.Context, freq float64, d time.Duration, wave audio.Waveform, volumeScale float64) error
	Sweep(ctx context.Context, from, to float64, d time.Duration, wave audio.Waveform) error
	Chord(ctx context.Context, freqs []float64, d time.Duration, wave audio.Waveform, volumeScale float64) error
	Sequence(ctx context.Context, freqs []float64, noteDur time.Duration, wave audio.Waveform) error
}

// Flasher shows a brief full-screen color.
type Flasher interface {
	Flash(color string, d time.Duration)
}

// Vibrator plays an on/off pattern until it ends or ctx is canceled. Any other
// error means the capability is unsupported.
type Vibrator interface {
	Vibrate(ctx context.Context, pattern []time.Duration) error
}

// Generator dispatches feedback effects over the audio, flash and vibration channels.
// Each channel is optional and isolated from the others.
type Generator struct {
	synth    Synth
	flasher  Flasher
	vibrator Vibrator
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu        sync.Mutex
	sound     bool
	vibration bool
}

// New returns a Generator. Any channel may be nil.
func New(synth Synth, flasher Flasher, vibrator Vibrator, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Generator{
		synth:     synth,
		flasher:   flasher,
		vibrator:  vibrator,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
		sound:     true,
		vibration: true,
	}
}

// Configure enables or disables the sound and vibration channels.
func (g *Generator) Configure(sound, vibration bool) {
	g.mu.Lock()
	g.sound = sound
	g.vibration = vibration
	g.mu.Unlock()
}

// Trigger plays the effect registered under key. Unknown keys only vibrate with the
// default pattern and report false. After Close every call reports false.
func (g *Generator) Trigger(key string) bool {
	g.mu.Lock()
	sound, vibration := g.sound, g.vibration
	g.mu.Unlock()
	if g.ctx.Err() != nil {
		g.logger.Debug("feedback closed", "effect", key)
		return false
	}

	effect, ok := Lookup(key)
	if !ok {
		g.logger.Warn("unknown feedback effect", "effect", key)
		if vibration {
			g.vibrate(key, defaultVibration)
		}
		return false
	}

	if sound && g.synth != nil && g.synth.Available() {
		g.spawn(func() { g.playAsync(effect) })
	}
	g.flash(effect)
	if vibration {
		g.vibrate(key, VibrationPattern(key))
	}
	return true
}

// Wait blocks until every in-flight channel has finished.
func (g *Generator) Wait() {
	g.wg.Wait()
}

// Close cancels sounding effects and vibrations and waits for them to stop.
func (g *Generator) Close() {
	g.mu.Lock()
	g.cancel()
	g.mu.Unlock()
	g.wg.Wait()
}

// spawn runs fn on a tracked goroutine unless the generator is closed.
func (g *Generator) spawn(fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.ctx.Err() != nil {
		return
	}
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		fn()
	}()
}

func (g *Generator) playAsync(effect Effect) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Warn("audio feedback failed", "effect", effect.Key, "panic", r)
		}
	}()
	if err := g.perform(g.ctx, effect.Sound); err != nil && g.ctx.Err() == nil {
		g.logger.Warn("audio feedback failed", "effect", effect.Key, "err", err)
	}
}

// perform maps each sound kind to its synthesizer call.
func (g *Generator) perform(ctx context.Context, snd Sound) error {
	switch s := snd.(type) {
	case Sweep:
		return g.synth.Sweep(ctx, s.From, s.To, ms(s.DurationMs), s.Wave)
	case Chord:
		return g.synth.Chord(ctx, s.Freqs, ms(s.DurationMs), s.Wave, 1)
	case Buzz:
		return g.synth.Tone(ctx, s.Freq, ms(s.DurationMs), buzzWave, buzzLevel)
	case Pop:
		return g.synth.Tone(ctx, s.Freq, ms(s.DurationMs), popWave, popLevel)
	case Beep:
		return g.synth.Tone(ctx, s.Freq, ms(s.DurationMs), s.Wave, 1)
	case Fanfare:
		return g.synth.Sequence(ctx, s.Freqs, ms(s.NoteMs), fanfareWave)
	case Descend:
		return g.synth.Sequence(ctx, s.Freqs, ms(s.NoteMs), descendWave)
	case Sparkle:
		return g.synth.Sequence(ctx, s.Freqs, ms(s.NoteMs), sparkleWave)
	case Achievement:
		return g.synth.Chord(ctx, s.Freqs, ms(s.DurationMs), achievementWave, 1)
	case Victory:
		return g.synth.Sequence(ctx, s.Freqs, ms(s.NoteMs), victoryWave)
	default:
		return fmt.Errorf("unsupported sound %T", snd)
	}
}

func (g *Generator) flash(effect Effect) {
	if g.flasher == nil || effect.Color == "" {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			g.logger.Warn("flash feedback failed", "effect", effect.Key, "panic", r)
		}
	}()
	g.flasher.Flash(effect.Color, FlashDuration)
}

func (g *Generator) vibrate(key string, pattern []int) {
	if g.vibrator == nil {
		return
	}
	steps := make([]time.Duration, len(pattern))
	for i, p := range pattern {
		steps[i] = ms(p)
	}
	g.spawn(func() {
		defer func() {
			if r := recover(); r != nil {
				g.logger.Warn("vibration feedback failed", "effect", key, "panic", r)
			}
		}()
		if err := g.vibrator.Vibrate(g.ctx, steps); err != nil && g.ctx.Err() == nil {
			g.logger.Debug("vibration unavailable", "effect", key, "err", err)
		}
	})
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}
