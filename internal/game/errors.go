package game

import (
	"errors"
	"fmt"
	"time"
)

// ErrProgressNotLoaded is returned by saves while the stored profile is unreadable,
// so the in-memory defaults never replace it.
var ErrProgressNotLoaded = errors.New("stored progress was not loaded")

// GameError is a non-fatal failure recorded by a store action.
type GameError struct {
	Message string
	Context string
	Time    time.Time
}

func (e *GameError) Error() string {
	return fmt.Sprintf("%s: %s", e.Context, e.Message)
}
