package game

// EventKind identifies what changed in the store.
type EventKind int

// Event kinds.
const (
	EventPhaseChanged EventKind = iota
	EventPromptChanged
	EventAnswered
	EventTimeWarning
	EventAchievementUnlocked
	EventPreferencesChanged
	EventProgressSaved
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventPhaseChanged:
		return "phase"
	case EventPromptChanged:
		return "prompt"
	case EventAnswered:
		return "answered"
	case EventTimeWarning:
		return "time-warning"
	case EventAchievementUnlocked:
		return "achievement"
	case EventPreferencesChanged:
		return "preferences"
	case EventProgressSaved:
		return "saved"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is delivered to subscribers after the change is committed.
type Event struct {
	Kind        EventKind
	Phase       Phase
	Correct     bool
	Points      int
	Achievement string
	Preferences Preferences
	Err         *GameError
}
