// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/hippotype/internal/engine"
	"github.com/verte-zerg/hippotype/internal/model"
	"github.com/verte-zerg/hippotype/internal/stats"
	"github.com/verte-zerg/hippotype/internal/textprovider"
)

// Options configures the typing UI. Zero fields take defaults.
type Options struct {
	Domain   model.Domain
	Duration time.Duration
	Levels   stats.LevelTable
	Timeout  time.Duration
	Logger   zerolog.Logger
	// Now overrides the session clock.
	Now func() time.Time
}

type passageMsg struct {
	game   int
	domain model.Domain
	text   string
}

type tickMsg struct {
	game int
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	provider textprovider.Provider
	opts     Options
	logger   zerolog.Logger

	domain  model.Domain
	game    int
	loading bool
	session *engine.Session
	snap    engine.Snapshot

	last    model.Summary
	hasLast bool

	width  int
	height int

	spinner spinner.Model
	help    help.Model
	keys    keyMap
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	cursorStyle      = currentWordStyle.Underline(true)
	spaceCursorStyle = pendingStyle.Underline(true)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	activeTabStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	tabStyle         = footerStyle
	titleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
)

// NewModel constructs a typing TUI model.
func NewModel(provider textprovider.Provider, opts Options) *Model {
	if opts.Duration <= 0 {
		opts.Duration = engine.DefaultDuration
	}
	if opts.Timeout <= 0 {
		opts.Timeout = textprovider.DefaultTimeout
	}
	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(currentWordStyle))
	return &Model{
		provider: provider,
		opts:     opts,
		logger:   opts.Logger,
		domain:   model.ParseDomain(string(opts.Domain)),
		spinner:  sp,
		help:     help.New(),
		keys:     defaultKeyMap(),
	}
}

// LastSummary returns the result of the most recently finished session.
func (m *Model) LastSummary() (model.Summary, bool) {
	return m.last, m.hasLast
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.newGame()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case passageMsg:
		return m, m.startSession(msg)
	case tickMsg:
		return m, m.handleTick(msg)
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.session != nil && m.session.Status() == engine.StatusRunning {
			m.session.Apply(engine.Stop())
		}
		return tea.Quit
	case key.Matches(msg, m.keys.NextDomain):
		m.domain = cycleDomain(m.domain, 1)
		return m.newGame()
	case key.Matches(msg, m.keys.PrevDomain):
		m.domain = cycleDomain(m.domain, -1)
		return m.newGame()
	case key.Matches(msg, m.keys.NewGame):
		return m.newGame()
	}
	if m.loading || m.session == nil {
		return nil
	}
	if m.session.Status() == engine.StatusEnded {
		if msg.Type == tea.KeyEnter {
			return m.newGame()
		}
		return nil
	}
	switch {
	case key.Matches(msg, m.keys.Stop):
		m.session.Apply(engine.Stop())
	case msg.Type == tea.KeyBackspace || msg.Type == tea.KeyDelete:
		m.session.Apply(engine.Backspace())
	case msg.Type == tea.KeySpace:
		m.session.Apply(engine.Space())
	case msg.Type == tea.KeyRunes && !msg.Paste:
		for _, r := range msg.Runes {
			m.session.Apply(engine.KeyRune(r))
		}
	}
	return nil
}

// newGame discards the current session and fetches a passage for the active
// domain. Bumping the game number drops in-flight ticks and fetches.
func (m *Model) newGame() tea.Cmd {
	m.game++
	m.loading = true
	m.session = nil
	game, domain := m.game, m.domain
	provider, timeout := m.provider, m.opts.Timeout
	fetch := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return passageMsg{game: game, domain: domain, text: provider.PracticeText(ctx, domain)}
	}
	return tea.Batch(m.spinner.Tick, fetch)
}

func (m *Model) startSession(msg passageMsg) tea.Cmd {
	if msg.game != m.game {
		return nil
	}
	m.loading = false
	m.session = engine.New(engine.Tokenize(msg.text), engine.Config{
		Duration: m.opts.Duration,
		Levels:   m.opts.Levels,
		Now:      m.opts.Now,
		Observer: m,
	})
	m.snap = m.session.Snapshot()
	m.logger.Debug().Str("domain", msg.domain.String()).Int("words", m.session.Passage().Len()).Msg("Session armed")
	return m.tick()
}

func (m *Model) tick() tea.Cmd {
	game := m.game
	return tea.Tick(engine.TickInterval, func(time.Time) tea.Msg {
		return tickMsg{game: game}
	})
}

func (m *Model) handleTick(msg tickMsg) tea.Cmd {
	if msg.game != m.game || m.session == nil {
		return nil
	}
	m.session.Apply(engine.Tick())
	if m.session.Status() == engine.StatusEnded {
		return nil
	}
	return m.tick()
}

// Render implements engine.Observer.
func (m *Model) Render(snap engine.Snapshot) {
	m.snap = snap
}

// Finished implements engine.Observer.
func (m *Model) Finished(sum model.Summary) {
	m.last = sum
	m.hasLast = true
	m.logger.Info().Int("wpm", sum.WPM).Int("accuracy", sum.Accuracy).Str("level", sum.Level).Msg("Session finished")
}

func cycleDomain(current model.Domain, step int) model.Domain {
	domains := model.Domains()
	idx := 0
	for i, d := range domains {
		if d == current {
			idx = i
		}
	}
	idx = (idx + step + len(domains)) % len(domains)
	return domains[idx]
}
