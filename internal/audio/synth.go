package audio

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

const (
	baseGain        = 0.3
	backgroundLevel = 0.1
	chordHold       = 2000 * time.Millisecond
)

// progression is the background accompaniment: C, Am, F, G.
var progression = [][]float64{
	{261.63, 329.63, 392.00},
	{220.00, 261.63, 329.63},
	{174.61, 220.00, 261.63},
	{196.00, 246.94, 293.66},
}

// Synth realizes tones, sweeps, chords and sequences on a Sink.
// When the sink cannot be opened every call is a no-op.
type Synth struct {
	sink   Sink
	clock  clockwork.Clock
	logger *slog.Logger
	rate   int

	mu     sync.Mutex
	volume float64
	loop   *backgroundLoop
}

// Option configures a Synth.
type Option func(*Synth)

// WithClock sets the clock used to time notes.
func WithClock(c clockwork.Clock) Option {
	return func(s *Synth) { s.clock = c }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Synth) { s.logger = l }
}

// WithSampleRate overrides SampleRate.
func WithSampleRate(rate int) Option {
	return func(s *Synth) { s.rate = rate }
}

// WithVolume sets the initial master volume.
func WithVolume(v float64) Option {
	return func(s *Synth) { s.volume = clampUnit(v) }
}

// New builds a Synth from open. A nil or failing opener yields a disabled Synth.
func New(open Opener, opts ...Option) *Synth {
	s := &Synth{
		clock:  clockwork.NewRealClock(),
		logger: slog.Default(),
		rate:   SampleRate,
		volume: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	if open == nil {
		s.logger.Warn("audio output not configured; sound effects disabled")
		return s
	}
	sink, err := open()
	if err != nil {
		s.logger.Warn("audio output unavailable; sound effects disabled", "err", err)
		return s
	}
	s.sink = sink
	return s
}

// Available reports whether an output sink is open.
func (s *Synth) Available() bool {
	return s != nil && s.sink != nil
}

// SetVolume sets the master volume, clamped to [0, 1].
func (s *Synth) SetVolume(v float64) {
	s.mu.Lock()
	s.volume = clampUnit(v)
	s.mu.Unlock()
}

// Volume returns the master volume.
func (s *Synth) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}

// Tone plays one oscillator at a fixed frequency and returns once d has elapsed.
func (s *Synth) Tone(ctx context.Context, freq float64, d time.Duration, wave Waveform, volumeScale float64) error {
	if !s.Available() {
		return nil
	}
	return s.perform(ctx, ToneNotes(freq, d, wave, s.gain(volumeScale)))
}

// Sweep glides from one frequency to another over d.
func (s *Synth) Sweep(ctx context.Context, from, to float64, d time.Duration, wave Waveform) error {
	if !s.Available() {
		return nil
	}
	return s.perform(ctx, SweepNotes(from, to, d, wave, s.gain(1)))
}

// Chord plays all frequencies with a fanned attack and returns once the last voice ends.
func (s *Synth) Chord(ctx context.Context, freqs []float64, d time.Duration, wave Waveform, volumeScale float64) error {
	if !s.Available() {
		return nil
	}
	return s.perform(ctx, ChordNotes(freqs, d, wave, s.gain(volumeScale)))
}

// Sequence plays frequencies one after another with overlapping notes.
func (s *Synth) Sequence(ctx context.Context, freqs []float64, noteDur time.Duration, wave Waveform) error {
	if !s.Available() {
		return nil
	}
	return s.perform(ctx, SequenceNotes(freqs, noteDur, wave, s.gain(1)))
}

func (s *Synth) gain(scale float64) float64 {
	return s.Volume() * baseGain * scale
}

// perform schedules notes on the clock and waits for the group to finish.
// Canceling ctx stops pending and sounding voices.
func (s *Synth) perform(ctx context.Context, notes []Note) error {
	if len(notes) == 0 {
		return nil
	}
	voices := &voiceSet{}
	var timers []clockwork.Timer
	for _, n := range notes {
		n := n
		if n.Offset <= 0 {
			voices.start(s, n)
			continue
		}
		timers = append(timers, s.clock.AfterFunc(n.Offset, func() { voices.start(s, n) }))
	}
	select {
	case <-s.clock.After(Span(notes)):
		return nil
	case <-ctx.Done():
		for _, t := range timers {
			t.Stop()
		}
		voices.stopAll()
		return ctx.Err()
	}
}

// play renders and starts one note. Failures are logged and swallowed.
func (s *Synth) play(n Note) (h Handle) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("oscillator failed", "panic", r)
			h = nil
		}
	}()
	h, err := s.sink.Play(Render(n, s.rate))
	if err != nil {
		s.logger.Warn("failed to start oscillator", "freq", n.From, "err", err)
		return nil
	}
	return h
}

// PlayBackgroundLoop starts the looping accompaniment. It reports false when audio is unavailable.
func (s *Synth) PlayBackgroundLoop() bool {
	if !s.Available() {
		return false
	}
	s.mu.Lock()
	if s.loop != nil {
		s.mu.Unlock()
		return true
	}
	ctx, cancel := context.WithCancel(context.Background())
	l := &backgroundLoop{cancel: cancel, done: make(chan struct{}), voices: &voiceSet{}}
	s.loop = l
	s.mu.Unlock()

	go s.runLoop(ctx, l)
	return true
}

// StopBackgroundLoop halts the accompaniment and every voice it started. It returns after the loop has exited.
func (s *Synth) StopBackgroundLoop() {
	s.mu.Lock()
	l := s.loop
	s.loop = nil
	s.mu.Unlock()
	if l == nil {
		return
	}
	l.cancel()
	<-l.done
	l.voices.stopAll()
}

// BackgroundPlaying reports whether the accompaniment is running.
func (s *Synth) BackgroundPlaying() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loop != nil
}

type backgroundLoop struct {
	cancel context.CancelFunc
	done   chan struct{}
	voices *voiceSet
}

func (s *Synth) runLoop(ctx context.Context, l *backgroundLoop) {
	defer close(l.done)
	for i := 0; ; i++ {
		chord := progression[i%len(progression)]
		gain := s.gain(backgroundLevel) / float64(len(chord))
		l.voices.reset()
		for _, f := range chord {
			l.voices.start(s, Note{Duration: chordHold, From: f, To: f, Wave: Sine, Gain: gain})
		}
		select {
		case <-ctx.Done():
			return
		case <-s.clock.After(chordHold):
		}
	}
}

// voiceSet tracks sounding handles so they can be stopped together.
type voiceSet struct {
	mu      sync.Mutex
	handles []Handle
	closed  bool
}

func (v *voiceSet) start(s *Synth, n Note) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	if h := s.play(n); h != nil {
		v.handles = append(v.handles, h)
	}
}

// reset forgets finished handles without stopping them.
func (v *voiceSet) reset() {
	v.mu.Lock()
	v.handles = nil
	v.mu.Unlock()
}

func (v *voiceSet) stopAll() {
	v.mu.Lock()
	v.closed = true
	handles := v.handles
	v.handles = nil
	v.mu.Unlock()
	for _, h := range handles {
		h.Stop()
	}
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
