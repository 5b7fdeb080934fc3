package audio

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSynth(t *testing.T) (*Synth, *MemorySink, *clockwork.FakeClock) {
	t.Helper()
	sink := NewMemorySink()
	clk := clockwork.NewFakeClockAt(time.Unix(0, 0))
	s := New(Static(sink), WithClock(clk), WithLogger(quietLogger()), WithSampleRate(8000))
	return s, sink, clk
}

// blockUntil waits for n timers to be pending on clk.
func blockUntil(t *testing.T, clk *clockwork.FakeClock, n int) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := clk.BlockUntilContext(ctx, n); err != nil {
		t.Fatalf("clock never reached %d waiters: %v", n, err)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("condition not reached")
}

func TestToneCompletesNoEarlierThanDuration(t *testing.T) {
	s, sink, clk := newTestSynth(t)
	done := make(chan error, 1)
	go func() {
		done <- s.Tone(context.Background(), 440, 200*time.Millisecond, Sine, 1)
	}()

	blockUntil(t, clk, 1)
	clk.Advance(199 * time.Millisecond)
	select {
	case <-done:
		t.Fatalf("tone completed before its duration")
	case <-time.After(10 * time.Millisecond):
	}

	clk.Advance(time.Millisecond)
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("tone did not complete after its duration")
	}
	if sink.Plays() != 1 {
		t.Fatalf("expected 1 oscillator, got %d", sink.Plays())
	}
}

func TestChordStaggersVoices(t *testing.T) {
	s, sink, clk := newTestSynth(t)
	done := make(chan error, 1)
	go func() {
		done <- s.Chord(context.Background(), []float64{261.63, 329.63, 392}, 300*time.Millisecond, Triangle, 1)
	}()

	// Two staggered voices plus the completion timer.
	blockUntil(t, clk, 3)
	if sink.Plays() != 1 {
		t.Fatalf("expected only the first voice to start, got %d", sink.Plays())
	}
	clk.Advance(50 * time.Millisecond)
	waitFor(t, func() bool { return sink.Plays() == 2 })
	clk.Advance(50 * time.Millisecond)
	waitFor(t, func() bool { return sink.Plays() == 3 })
	clk.Advance(300 * time.Millisecond)
	if err := <-done; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCancelStopsSoundingVoices(t *testing.T) {
	s, sink, clk := newTestSynth(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Sequence(ctx, []float64{523, 659, 784}, 100*time.Millisecond, Sine)
	}()
	blockUntil(t, clk, 3)
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if sink.Stopped() != 1 {
		t.Fatalf("expected the sounding voice to be stopped, got %d", sink.Stopped())
	}
	clk.Advance(time.Second)
	time.Sleep(10 * time.Millisecond)
	if sink.Plays() != 1 {
		t.Fatalf("canceled notes still started: %d buffers", sink.Plays())
	}
}

func TestUnavailableSinkDisablesSynthesis(t *testing.T) {
	s := New(func() (Sink, error) { return nil, errors.New("no device") }, WithLogger(quietLogger()))
	if s.Available() {
		t.Fatalf("expected synth to be unavailable")
	}
	start := time.Now()
	if err := s.Tone(context.Background(), 440, 5*time.Second, Sine, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatalf("disabled synth should return immediately")
	}
	if s.PlayBackgroundLoop() {
		t.Fatalf("background loop should not start without audio")
	}
}

func TestSinkFailureIsSwallowed(t *testing.T) {
	s, sink, clk := newTestSynth(t)
	sink.SetFailure(errors.New("device busy"))
	done := make(chan error, 1)
	go func() {
		done <- s.Tone(context.Background(), 440, 100*time.Millisecond, Square, 1)
	}()
	blockUntil(t, clk, 1)
	clk.Advance(100 * time.Millisecond)
	if err := <-done; err != nil {
		t.Fatalf("sink failure leaked to caller: %v", err)
	}
}

func TestBackgroundLoopCyclesAndStops(t *testing.T) {
	s, sink, clk := newTestSynth(t)
	if !s.PlayBackgroundLoop() {
		t.Fatalf("expected loop to start")
	}
	waitFor(t, func() bool { return sink.Plays() == 3 })
	blockUntil(t, clk, 1)
	clk.Advance(chordHold)
	waitFor(t, func() bool { return sink.Plays() == 6 })
	blockUntil(t, clk, 1)

	s.StopBackgroundLoop()
	if s.BackgroundPlaying() {
		t.Fatalf("loop still reported as playing")
	}
	if sink.Stopped() != 3 {
		t.Fatalf("expected current chord voices to be stopped, got %d", sink.Stopped())
	}
	clk.Advance(chordHold)
	time.Sleep(10 * time.Millisecond)
	if sink.Plays() != 6 {
		t.Fatalf("loop kept playing after stop: %d buffers", sink.Plays())
	}
}

func TestSetVolumeClamps(t *testing.T) {
	s, _, _ := newTestSynth(t)
	s.SetVolume(1.7)
	if s.Volume() != 1 {
		t.Fatalf("expected volume 1, got %v", s.Volume())
	}
	s.SetVolume(-0.2)
	if s.Volume() != 0 {
		t.Fatalf("expected volume 0, got %v", s.Volume())
	}
}
