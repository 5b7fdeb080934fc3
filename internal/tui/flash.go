package tui

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Flash holds the feedback color shown over the whole screen until it expires.
type Flash struct {
	mu    sync.Mutex
	clock clockwork.Clock
	color string
	until time.Time
}

// NewFlash returns a Flash driven by c.
func NewFlash(c clockwork.Clock) *Flash {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	return &Flash{clock: c}
}

// Flash shows color for d.
func (f *Flash) Flash(color string, d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.color = color
	f.until = f.clock.Now().Add(d)
}

// Current returns the active color, if any.
func (f *Flash) Current() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.color == "" || !f.clock.Now().Before(f.until) {
		return "", false
	}
	return f.color, true
}
