package engine

// EventKind identifies the type of an input event.
type EventKind uint8

const (
	EventRune EventKind = iota
	EventSpace
	EventBackspace
	EventTick
	EventStop
)

// Event is a keystroke or clock event fed to Session.Apply.
type Event struct {
	Kind EventKind
	Rune rune
}

// KeyRune returns a printable character event. A space rune becomes a space event.
func KeyRune(r rune) Event {
	if r == ' ' {
		return Space()
	}
	return Event{Kind: EventRune, Rune: r}
}

// Space returns a word-boundary event.
func Space() Event {
	return Event{Kind: EventSpace}
}

// Backspace returns a single-character erase event.
func Backspace() Event {
	return Event{Kind: EventBackspace}
}

// Tick returns a clock event.
func Tick() Event {
	return Event{Kind: EventTick}
}

// Stop returns an event that ends the session immediately.
func Stop() Event {
	return Event{Kind: EventStop}
}

func (e Event) isKey() bool {
	switch e.Kind {
	case EventRune, EventSpace, EventBackspace:
		return true
	default:
		return false
	}
}
