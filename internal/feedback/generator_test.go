package feedback

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/verte-zerg/movwise/internal/audio"
)

type recordingSynth struct {
	mu        sync.Mutex
	available bool
	calls     []string
	fail      error
}

func (r *recordingSynth) record(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, name)
	return r.fail
}

func (r *recordingSynth) Available() bool { return r.available }

func (r *recordingSynth) Tone(context.Context, float64, time.Duration, audio.Waveform, float64) error {
	return r.record("tone")
}

func (r *recordingSynth) Sweep(context.Context, float64, float64, time.Duration, audio.Waveform) error {
	return r.record("sweep")
}

func (r *recordingSynth) Chord(context.Context, []float64, time.Duration, audio.Waveform, float64) error {
	return r.record("chord")
}

func (r *recordingSynth) Sequence(context.Context, []float64, time.Duration, audio.Waveform) error {
	return r.record("sequence")
}

func (r *recordingSynth) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

type recordingFlasher struct {
	mu     sync.Mutex
	colors []string
}

func (f *recordingFlasher) Flash(color string, d time.Duration) {
	f.mu.Lock()
	f.colors = append(f.colors, color)
	f.mu.Unlock()
}

type recordingVibrator struct {
	mu       sync.Mutex
	patterns [][]time.Duration
	fail     error
}

func (v *recordingVibrator) Vibrate(_ context.Context, p []time.Duration) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.patterns = append(v.patterns, p)
	return v.fail
}

func newTestGenerator() (*Generator, *recordingSynth, *recordingFlasher, *recordingVibrator) {
	synth := &recordingSynth{available: true}
	flasher := &recordingFlasher{}
	vibrator := &recordingVibrator{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(synth, flasher, vibrator, logger), synth, flasher, vibrator
}

func TestTriggerUnknownKeyFallsBackToDefaultVibration(t *testing.T) {
	g, synth, flasher, vibrator := newTestGenerator()
	for _, key := range []string{"", "explode", "CORRECT"} {
		if g.Trigger(key) {
			t.Fatalf("expected Trigger(%q) to fail", key)
		}
	}
	g.Wait()
	if calls := synth.Calls(); len(calls) != 0 {
		t.Fatalf("unknown keys must not reach the synthesizer, got %v", calls)
	}
	if len(flasher.colors) != 0 {
		t.Fatalf("unknown keys must not flash, got %v", flasher.colors)
	}
	if len(vibrator.patterns) != 3 {
		t.Fatalf("expected 3 fallback vibrations, got %d", len(vibrator.patterns))
	}
	for _, p := range vibrator.patterns {
		if !reflect.DeepEqual(p, []time.Duration{50 * time.Millisecond}) {
			t.Fatalf("expected default pattern [50ms], got %v", p)
		}
	}
}

func TestTriggerDispatchesEachKindToOneStrategy(t *testing.T) {
	want := map[string]string{
		EffectCorrect:     "sweep",
		EffectIncorrect:   "tone",
		EffectCombo:       "chord",
		EffectLevelUp:     "sequence",
		EffectClick:       "tone",
		EffectCountdown:   "tone",
		EffectTimeWarning: "tone",
		EffectGameOver:    "sequence",
		EffectBonus:       "sequence",
		EffectAchievement: "chord",
		EffectVictory:     "sequence",
	}
	if len(want) != len(Keys()) {
		t.Fatalf("test table out of date: %d keys registered", len(Keys()))
	}
	for key, strategy := range want {
		g, synth, flasher, vibrator := newTestGenerator()
		if !g.Trigger(key) {
			t.Fatalf("Trigger(%q) failed", key)
		}
		g.Wait()
		calls := synth.Calls()
		if len(calls) != 1 || calls[0] != strategy {
			t.Fatalf("%s: expected [%s], got %v", key, strategy, calls)
		}
		effect, _ := Lookup(key)
		if len(flasher.colors) != 1 || flasher.colors[0] != effect.Color {
			t.Fatalf("%s: expected flash %s, got %v", key, effect.Color, flasher.colors)
		}
		if len(vibrator.patterns) != 1 || len(vibrator.patterns[0]) != len(VibrationPattern(key)) {
			t.Fatalf("%s: unexpected vibration %v", key, vibrator.patterns)
		}
	}
}

func TestTriggerSkipsAudioWhenUnavailableOrDisabled(t *testing.T) {
	g, synth, flasher, _ := newTestGenerator()
	synth.available = false
	if !g.Trigger(EffectCorrect) {
		t.Fatalf("expected visual feedback to succeed without audio")
	}
	g.Configure(false, false)
	synth.available = true
	g.Trigger(EffectCombo)
	g.Wait()
	if calls := synth.Calls(); len(calls) != 0 {
		t.Fatalf("expected no synth calls, got %v", calls)
	}
	if len(flasher.colors) != 2 {
		t.Fatalf("expected flash on both triggers, got %v", flasher.colors)
	}
}

func TestChannelFailuresAreIsolated(t *testing.T) {
	g, synth, flasher, vibrator := newTestGenerator()
	synth.fail = errors.New("oscillator failed")
	vibrator.fail = ErrNoVibration
	if !g.Trigger(EffectIncorrect) {
		t.Fatalf("expected trigger to succeed despite channel failures")
	}
	g.Wait()
	if len(flasher.colors) != 1 {
		t.Fatalf("flash channel blocked by other failures")
	}
}

func TestExportMatchesStrategy(t *testing.T) {
	notes, err := Export(EffectLevelUp, 0.5)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(notes) != 4 {
		t.Fatalf("expected 4 fanfare notes, got %d", len(notes))
	}
	if notes[1].Offset != 120*time.Millisecond {
		t.Fatalf("expected legato offset 120ms, got %v", notes[1].Offset)
	}
	if _, err := Export("missing", 1); err == nil {
		t.Fatalf("expected error for unknown effect")
	}
}

func TestBellVibratorRingsOnSteps(t *testing.T) {
	var buf bytes.Buffer
	clk := clockwork.NewFakeClock()
	b := &BellVibrator{w: &buf, clock: clk}
	steps := []time.Duration{100 * time.Millisecond, 50 * time.Millisecond, 100 * time.Millisecond}
	done := make(chan error, 1)
	go func() { done <- b.Vibrate(context.Background(), steps) }()

	for _, step := range steps {
		blockUntil(t, clk, 1)
		clk.Advance(step)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("vibrate: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("vibration did not finish after its pattern")
	}
	if buf.String() != "\a\a" {
		t.Fatalf("expected two bells, got %q", buf.String())
	}
}

func TestBellVibratorStopsOnCancel(t *testing.T) {
	var buf bytes.Buffer
	clk := clockwork.NewFakeClock()
	b := &BellVibrator{w: &buf, clock: clk}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Vibrate(ctx, []time.Duration{time.Hour, time.Hour, time.Hour}) }()

	blockUntil(t, clk, 1)
	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("vibration ignored cancellation")
	}
	if buf.String() != "\a" {
		t.Fatalf("expected one bell before cancel, got %q", buf.String())
	}
}

type stuckVibrator struct {
	mu    sync.Mutex
	calls int
}

func (v *stuckVibrator) Vibrate(ctx context.Context, _ []time.Duration) error {
	v.mu.Lock()
	v.calls++
	v.mu.Unlock()
	<-ctx.Done()
	return ctx.Err()
}

func TestCloseInterruptsVibrationAndDisablesTrigger(t *testing.T) {
	synth := &recordingSynth{available: true}
	flasher := &recordingFlasher{}
	vibrator := &stuckVibrator{}
	g := New(synth, flasher, vibrator, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if !g.Trigger(EffectGameOver) {
		t.Fatalf("expected trigger to succeed")
	}

	closed := make(chan struct{})
	go func() {
		g.Close()
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatalf("close blocked on a running vibration")
	}

	flashes := len(flasher.colors)
	if g.Trigger(EffectCorrect) {
		t.Fatalf("trigger after close must report false")
	}
	g.Wait()
	vibrator.mu.Lock()
	calls := vibrator.calls
	vibrator.mu.Unlock()
	if calls > 1 || len(flasher.colors) != flashes {
		t.Fatalf("closed generator kept dispatching: %d vibrations, %d flashes", calls, len(flasher.colors))
	}
}

func blockUntil(t *testing.T, clk *clockwork.FakeClock, n int) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := clk.BlockUntilContext(ctx, n); err != nil {
		t.Fatalf("clock never reached %d waiters: %v", n, err)
	}
}
