// Package game implements the timed quiz round and the persistent player profile.
package game

// Phase is the round lifecycle state.
type Phase int

// Round phases.
const (
	PhaseWaiting Phase = iota
	PhaseCountdown
	PhasePlaying
	PhasePaused
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhaseCountdown:
		return "countdown"
	case PhasePlaying:
		return "playing"
	case PhasePaused:
		return "paused"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// active reports whether a round is in progress.
func (p Phase) active() bool {
	return p == PhaseCountdown || p == PhasePlaying || p == PhasePaused
}
