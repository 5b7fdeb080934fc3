package feedback

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/term"
)

// ErrNoVibration is returned when the output cannot emulate vibration.
var ErrNoVibration = errors.New("vibration not supported")

// BellVibrator emulates vibration with the terminal bell: every "on" step rings once.
type BellVibrator struct {
	mu    sync.Mutex
	w     io.Writer
	clock clockwork.Clock
}

// NewBellVibrator returns a BellVibrator writing to f, or ErrNoVibration when f is not a terminal.
func NewBellVibrator(f *os.File) (*BellVibrator, error) {
	if f == nil || !term.IsTerminal(int(f.Fd())) {
		return nil, ErrNoVibration
	}
	return &BellVibrator{w: f, clock: clockwork.NewRealClock()}, nil
}

// Vibrate rings on even steps and stays silent on odd steps. It stops between
// steps once ctx is canceled.
func (b *BellVibrator) Vibrate(ctx context.Context, pattern []time.Duration) error {
	if b == nil || b.w == nil {
		return ErrNoVibration
	}
	for i, step := range pattern {
		if i%2 == 0 {
			b.mu.Lock()
			_, err := io.WriteString(b.w, "\a")
			b.mu.Unlock()
			if err != nil {
				return err
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-b.clock.After(step):
		}
	}
	return nil
}
