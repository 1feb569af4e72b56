package server

import (
	"context"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/verte-zerg/hippotype/internal/engine"
	"github.com/verte-zerg/hippotype/internal/model"
)

// Frame types exchanged on /play.
const (
	FrameNew      = "new"
	FrameKey      = "key"
	FrameLoading  = "loading"
	FrameSnapshot = "snapshot"
	FrameSummary  = "summary"
	FrameError    = "error"
)

const (
	keyBackspace   = "Backspace"
	writeWait      = 5 * time.Second
	maxFrameBytes  = 1024
	passageTimeout = 20 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(*http.Request) bool {
		return true
	},
}

type clientFrame struct {
	Type   string `json:"type"`
	Domain string `json:"domain,omitempty"`
	Key    string `json:"key,omitempty"`
}

type serverFrame struct {
	Type     string           `json:"type"`
	Snapshot *engine.Snapshot `json:"snapshot,omitempty"`
	Summary  *model.Summary   `json:"summary,omitempty"`
	Error    string           `json:"error,omitempty"`
}

func (s *Server) handlePlay(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	p := &player{server: s, conn: conn}
	p.run(c.Request.Context())
}

// player owns one connection and the session played on it. Only run's
// goroutine touches the session or writes to the connection.
type player struct {
	server *Server
	conn   *websocket.Conn

	session *engine.Session
	ticker  *time.Ticker
	werr    error
}

func (p *player) run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer func() {
		p.stopTicker()
		_ = p.conn.Close()
	}()

	frames := make(chan clientFrame)
	go p.read(ctx, frames)

	for p.werr == nil {
		var tick <-chan time.Time
		if p.ticker != nil {
			tick = p.ticker.C
		}
		select {
		case <-ctx.Done():
			return
		case frame, ok := <-frames:
			if !ok {
				return
			}
			p.handle(ctx, frame)
		case <-tick:
			p.apply(engine.Tick())
		}
	}
	p.server.logger.Debug().Err(p.werr).Msg("Play connection closed")
}

// read decodes client frames until the connection fails.
func (p *player) read(ctx context.Context, out chan<- clientFrame) {
	defer close(out)
	p.conn.SetReadLimit(maxFrameBytes)
	for {
		var frame clientFrame
		if err := p.conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				p.server.logger.Warn().Err(err).Msg("WebSocket read error")
			}
			return
		}
		select {
		case out <- frame:
		case <-ctx.Done():
			return
		}
	}
}

func (p *player) handle(ctx context.Context, frame clientFrame) {
	switch frame.Type {
	case FrameNew:
		p.newGame(ctx, model.ParseDomain(frame.Domain))
	case FrameKey:
		ev, ok := keyEvent(frame.Key)
		if !ok || p.session == nil {
			return
		}
		p.apply(ev)
	default:
		p.write(serverFrame{Type: FrameError, Error: "unknown frame type: " + frame.Type})
	}
}

func (p *player) newGame(ctx context.Context, domain model.Domain) {
	p.stopTicker()
	p.session = nil
	p.write(serverFrame{Type: FrameLoading})

	fetchCtx, cancel := context.WithTimeout(ctx, passageTimeout)
	text := p.server.passageFor(fetchCtx, domain)
	cancel()

	p.session = engine.New(engine.Tokenize(text), engine.Config{
		Duration: p.server.cfg.Duration,
		Levels:   p.server.cfg.Levels,
		Observer: p,
	})
	p.ticker = time.NewTicker(engine.TickInterval)
	p.Render(p.session.Snapshot())
}

func (p *player) apply(ev engine.Event) {
	if p.session == nil {
		return
	}
	p.session.Apply(ev)
	if p.session.Status() == engine.StatusEnded {
		p.stopTicker()
	}
}

func (p *player) stopTicker() {
	if p.ticker != nil {
		p.ticker.Stop()
		p.ticker = nil
	}
}

// Render implements engine.Observer.
func (p *player) Render(snap engine.Snapshot) {
	p.write(serverFrame{Type: FrameSnapshot, Snapshot: &snap})
}

// Finished implements engine.Observer.
func (p *player) Finished(sum model.Summary) {
	p.write(serverFrame{Type: FrameSummary, Summary: &sum})
}

func (p *player) write(frame serverFrame) {
	if p.werr != nil {
		return
	}
	if err := p.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		p.werr = err
		return
	}
	p.werr = p.conn.WriteJSON(frame)
}

// keyEvent maps a browser key name to an engine event.
func keyEvent(key string) (engine.Event, bool) {
	switch {
	case key == keyBackspace:
		return engine.Backspace(), true
	case utf8.RuneCountInString(key) == 1:
		r, _ := utf8.DecodeRuneInString(key)
		return engine.KeyRune(r), true
	default:
		return engine.Event{}, false
	}
}
