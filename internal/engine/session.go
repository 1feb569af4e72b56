package engine

import (
	"time"

	"github.com/verte-zerg/hippotype/internal/model"
	"github.com/verte-zerg/hippotype/internal/stats"
)

// Timing defaults.
const (
	DefaultDuration = 30 * time.Second
	TickInterval    = 100 * time.Millisecond
)

// Observer receives a snapshot after every state change and the summary once
// when the session ends.
type Observer interface {
	Render(Snapshot)
	Finished(model.Summary)
}

// Config controls a session. Zero fields take defaults.
type Config struct {
	Duration time.Duration
	Levels   stats.LevelTable
	Now      func() time.Time
	Observer Observer
}

// Session is a single typing run over a passage. It is not safe for
// concurrent use; hosts feed all events from one goroutine.
type Session struct {
	cfg      Config
	passage  Passage
	verdicts [][]Verdict
	cursor   Cursor

	typed  int
	errors int

	status    Status
	startedAt time.Time
	endedAt   time.Time

	trace    []int
	summary  model.Summary
	finished bool
}

// New arms an idle session over the passage.
func New(p Passage, cfg Config) *Session {
	if cfg.Duration <= 0 {
		cfg.Duration = DefaultDuration
	}
	if len(cfg.Levels.High) == 0 && len(cfg.Levels.Standard) == 0 {
		cfg.Levels = stats.DefaultLevels
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	s := &Session{
		cfg:      cfg,
		passage:  p,
		verdicts: make([][]Verdict, p.Len()),
	}
	for i, w := range p.words {
		s.verdicts[i] = make([]Verdict, len(w))
	}
	if p.Len() > 0 {
		s.verdicts[0][0] = VerdictCurrent
	}
	return s
}

// Apply processes one event and reports whether the session state changed.
// Events that do not apply in the current state are ignored.
func (s *Session) Apply(ev Event) bool {
	if s.status == StatusEnded {
		return false
	}
	changed := false
	switch {
	case ev.Kind == EventStop:
		s.end()
		changed = true
	case s.passage.Len() == 0:
		return false
	case s.status == StatusIdle:
		if !ev.isKey() {
			return false
		}
		s.status = StatusRunning
		s.startedAt = s.cfg.Now()
		s.handle(ev)
		changed = true
	default:
		changed = s.handle(ev)
	}
	if changed && s.cfg.Observer != nil {
		s.cfg.Observer.Render(s.Snapshot())
		if s.finished {
			s.finished = false
			s.cfg.Observer.Finished(s.summary)
		}
	}
	return changed
}

func (s *Session) handle(ev Event) bool {
	switch ev.Kind {
	case EventRune:
		return s.typeRune(ev.Rune)
	case EventSpace:
		return s.space()
	case EventBackspace:
		return s.backspace()
	case EventTick:
		return s.tick()
	default:
		return false
	}
}

func (s *Session) typeRune(r rune) bool {
	word := s.passage.words[s.cursor.Word]
	verdicts := s.verdicts[s.cursor.Word]
	if s.cursor.Char >= len(word) {
		return false
	}
	if r == word[s.cursor.Char] {
		verdicts[s.cursor.Char] = VerdictCorrect
	} else {
		verdicts[s.cursor.Char] = VerdictIncorrect
		s.errors++
	}
	s.typed++
	s.cursor.Char++
	if s.cursor.Char < len(word) {
		verdicts[s.cursor.Char] = VerdictCurrent
	}
	return true
}

func (s *Session) space() bool {
	verdicts := s.verdicts[s.cursor.Word]
	for i := s.cursor.Char; i < len(verdicts); i++ {
		if verdicts[i] != VerdictCorrect {
			verdicts[i] = VerdictIncorrect
			s.errors++
		}
	}
	if s.cursor.Word+1 < s.passage.Len() {
		s.cursor = Cursor{Word: s.cursor.Word + 1}
		s.verdicts[s.cursor.Word][0] = VerdictCurrent
		return true
	}
	s.cursor = Cursor{Word: s.passage.Len()}
	s.end()
	return true
}

func (s *Session) backspace() bool {
	if s.cursor.Char == 0 {
		return false
	}
	verdicts := s.verdicts[s.cursor.Word]
	if s.cursor.Char < len(verdicts) {
		verdicts[s.cursor.Char] = VerdictPending
	}
	s.cursor.Char--
	verdicts[s.cursor.Char] = VerdictCurrent
	if s.typed > 0 {
		s.typed--
	}
	return true
}

func (s *Session) tick() bool {
	elapsed := s.Elapsed()
	for len(s.trace) < int(elapsed/time.Second) && len(s.trace) < int(s.cfg.Duration/time.Second) {
		s.trace = append(s.trace, s.WPM())
	}
	if elapsed >= s.cfg.Duration {
		s.end()
	}
	return true
}

func (s *Session) end() {
	if !s.startedAt.IsZero() {
		s.endedAt = s.cfg.Now()
	}
	s.status = StatusEnded
	wpm, acc := s.WPM(), s.Accuracy()
	s.summary = model.Summary{
		WPM:        wpm,
		Accuracy:   acc,
		Level:      s.cfg.Levels.Level(wpm, acc),
		Typed:      s.typed,
		Errors:     s.errors,
		DurationMs: s.Elapsed().Milliseconds(),
		Trace:      append([]int(nil), s.trace...),
	}
	s.finished = true
}

// Status returns the lifecycle state.
func (s *Session) Status() Status {
	return s.status
}

// Passage returns the passage being typed.
func (s *Session) Passage() Passage {
	return s.passage
}

// Cursor returns the current cursor position.
func (s *Session) Cursor() Cursor {
	return s.cursor
}

// Typed returns the number of accepted character keystrokes net of backspaces.
func (s *Session) Typed() int {
	return s.typed
}

// Errors returns the number of characters ever marked incorrect.
func (s *Session) Errors() int {
	return s.errors
}

// Duration returns the session time limit.
func (s *Session) Duration() time.Duration {
	return s.cfg.Duration
}

// Elapsed returns time since the first keystroke, frozen once ended.
func (s *Session) Elapsed() time.Duration {
	switch {
	case s.startedAt.IsZero():
		return 0
	case s.status == StatusEnded:
		return s.endedAt.Sub(s.startedAt)
	default:
		return s.cfg.Now().Sub(s.startedAt)
	}
}

// WPM returns the current words per minute, 0 if the session never started.
func (s *Session) WPM() int {
	if s.startedAt.IsZero() {
		return 0
	}
	return stats.WPM(s.typed, s.Elapsed())
}

// Accuracy returns the current accuracy percentage.
func (s *Session) Accuracy() int {
	return stats.Accuracy(s.typed, s.errors)
}

// Summary returns the final result once the session has ended.
func (s *Session) Summary() (model.Summary, bool) {
	return s.summary, s.status == StatusEnded
}

// Snapshot returns a copy of the state for display.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Words:    make([]WordView, len(s.verdicts)),
		Cursor:   s.cursor,
		Status:   s.status,
		WPM:      s.WPM(),
		Accuracy: s.Accuracy(),
	}
	for wi, verdicts := range s.verdicts {
		chars := make([]CharView, len(verdicts))
		for ci, v := range verdicts {
			chars[ci] = CharView{Glyph: string(s.passage.words[wi][ci]), Verdict: v}
		}
		snap.Words[wi] = WordView{Chars: chars}
	}
	remaining := s.cfg.Duration
	if !s.startedAt.IsZero() {
		elapsed := s.Elapsed()
		secs := elapsed.Seconds()
		snap.ElapsedSeconds = &secs
		remaining -= elapsed
	}
	snap.RemainingSeconds = max(0, stats.Round(remaining.Seconds()))
	return snap
}
