package engine

import "fmt"

// Verdict is the correctness state of one character.
type Verdict uint8

const (
	VerdictPending Verdict = iota
	VerdictCurrent
	VerdictCorrect
	VerdictIncorrect
)

var verdictNames = [...]string{"pending", "current", "correct", "incorrect"}

func (v Verdict) String() string {
	if int(v) < len(verdictNames) {
		return verdictNames[v]
	}
	return fmt.Sprintf("Verdict(%d)", v)
}

// MarshalText implements encoding.TextMarshaler.
func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// Status is the lifecycle state of a session.
type Status uint8

const (
	StatusIdle Status = iota
	StatusRunning
	StatusEnded
)

var statusNames = [...]string{"idle", "running", "ended"}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Cursor points at the character expected next. Char equal to the word length
// means the word is fully typed and a space is expected.
type Cursor struct {
	Word int `json:"word"`
	Char int `json:"char"`
}

// CharView is one rendered character.
type CharView struct {
	Glyph   string  `json:"glyph"`
	Verdict Verdict `json:"verdict"`
}

// WordView is one rendered word.
type WordView struct {
	Chars []CharView `json:"chars"`
}

// Snapshot is a read-only copy of the session state for display layers.
type Snapshot struct {
	Words            []WordView `json:"words"`
	Cursor           Cursor     `json:"cursor"`
	Status           Status     `json:"status"`
	ElapsedSeconds   *float64   `json:"elapsedSeconds"`
	RemainingSeconds int        `json:"remainingSeconds"`
	WPM              int        `json:"wpm"`
	Accuracy         int        `json:"accuracy"`
}

// Current returns the position of the character holding VerdictCurrent.
func (s Snapshot) Current() (Cursor, bool) {
	for wi, w := range s.Words {
		for ci, c := range w.Chars {
			if c.Verdict == VerdictCurrent {
				return Cursor{Word: wi, Char: ci}, true
			}
		}
	}
	return Cursor{}, false
}
