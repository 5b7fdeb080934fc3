package audio

import (
	"sync"
)

// Sink starts playback of a rendered buffer without blocking.
type Sink interface {
	Play(samples []float32) (Handle, error)
}

// Handle controls one playing buffer.
type Handle interface {
	Stop()
}

// Opener constructs a Sink. A failing Opener disables synthesis.
type Opener func() (Sink, error)

// Static returns an Opener for an already constructed sink.
func Static(s Sink) Opener {
	return func() (Sink, error) { return s, nil }
}

// MemorySink records every buffer it is asked to play.
type MemorySink struct {
	mu      sync.Mutex
	buffers [][]float32
	stopped int
	fail    error
}

// NewMemorySink returns an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Play records a copy of samples.
func (m *MemorySink) Play(samples []float32) (Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	buf := make([]float32, len(samples))
	copy(buf, samples)
	m.buffers = append(m.buffers, buf)
	return &memoryHandle{sink: m}, nil
}

// SetFailure makes subsequent Play calls fail with err.
func (m *MemorySink) SetFailure(err error) {
	m.mu.Lock()
	m.fail = err
	m.mu.Unlock()
}

// Plays returns how many buffers were played.
func (m *MemorySink) Plays() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.buffers)
}

// Buffers returns the recorded buffers.
func (m *MemorySink) Buffers() [][]float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]float32(nil), m.buffers...)
}

// Stopped returns how many handles were stopped.
func (m *MemorySink) Stopped() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped
}

type memoryHandle struct {
	sink *MemorySink
	once sync.Once
}

func (h *memoryHandle) Stop() {
	h.once.Do(func() {
		h.sink.mu.Lock()
		h.sink.stopped++
		h.sink.mu.Unlock()
	})
}
