package server

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/hippotype/internal/engine"
	"github.com/verte-zerg/hippotype/internal/model"
)

type testFrame struct {
	Type     string          `json:"type"`
	Snapshot *map[string]any `json:"snapshot"`
	Summary  *model.Summary  `json:"summary"`
	Error    string          `json:"error"`
}

func dialPlay(t *testing.T, gen *fakeGenerator) *websocket.Conn {
	t.Helper()
	return dialPlayConfig(t, gen, Config{})
}

func dialPlayConfig(t *testing.T, gen *fakeGenerator, cfg Config) *websocket.Conn {
	t.Helper()
	gin.SetMode(gin.TestMode)
	srv := New(gen, nil, cfg, zerolog.Nop())
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + RoutePlay
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// readUntil reads frames until one of the given type arrives.
func readUntil(t *testing.T, conn *websocket.Conn, frameType string) testFrame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var f testFrame
		require.NoError(t, conn.ReadJSON(&f))
		if f.Type == frameType {
			return f
		}
	}
}

func TestPlaySession(t *testing.T) {
	conn := dialPlay(t, &fakeGenerator{text: "ab cd"})

	require.NoError(t, conn.WriteJSON(clientFrame{Type: FrameNew, Domain: "story"}))
	readUntil(t, conn, FrameLoading)
	first := readUntil(t, conn, FrameSnapshot)
	require.NotNil(t, first.Snapshot)
	assert.Equal(t, "idle", (*first.Snapshot)["status"])

	for _, key := range []string{"a", "b", " ", "c", "x", "Shift", " "} {
		require.NoError(t, conn.WriteJSON(clientFrame{Type: FrameKey, Key: key}))
	}
	f := readUntil(t, conn, FrameSummary)
	require.NotNil(t, f.Summary)
	assert.Equal(t, 4, f.Summary.Typed)
	assert.Equal(t, 1, f.Summary.Errors)
	assert.Equal(t, 75, f.Summary.Accuracy)
}

func TestPlayBackspaceAndRestart(t *testing.T) {
	conn := dialPlay(t, &fakeGenerator{text: "ab"})

	require.NoError(t, conn.WriteJSON(clientFrame{Type: FrameNew, Domain: "general"}))
	readUntil(t, conn, FrameSnapshot)
	for _, key := range []string{"a", "Backspace", "a", "b"} {
		require.NoError(t, conn.WriteJSON(clientFrame{Type: FrameKey, Key: key}))
	}
	require.NoError(t, conn.WriteJSON(clientFrame{Type: FrameNew, Domain: "coding"}))
	readUntil(t, conn, FrameLoading)
	f := readUntil(t, conn, FrameSnapshot)
	assert.Equal(t, "idle", (*f.Snapshot)["status"])

	require.NoError(t, conn.WriteJSON(clientFrame{Type: FrameKey, Key: "a"}))
	require.NoError(t, conn.WriteJSON(clientFrame{Type: FrameKey, Key: " "}))
	sum := readUntil(t, conn, FrameSummary)
	assert.Equal(t, 1, sum.Summary.Typed)
	assert.Equal(t, 1, sum.Summary.Errors)
	assert.Equal(t, 0, sum.Summary.Accuracy)
}

func TestPlayTimerExpires(t *testing.T) {
	conn := dialPlayConfig(t, &fakeGenerator{text: "alpha beta"}, Config{Duration: 500 * time.Millisecond})

	require.NoError(t, conn.WriteJSON(clientFrame{Type: FrameNew, Domain: "general"}))
	readUntil(t, conn, FrameSnapshot)
	require.NoError(t, conn.WriteJSON(clientFrame{Type: FrameKey, Key: "a"}))

	f := readUntil(t, conn, FrameSummary)
	require.NotNil(t, f.Summary)
	assert.Equal(t, 1, f.Summary.Typed)
	assert.Equal(t, 100, f.Summary.Accuracy)
	// Ticks arrive every TickInterval, so expiry lands within one interval of the limit.
	assert.GreaterOrEqual(t, f.Summary.DurationMs, int64(500))
	assert.Less(t, f.Summary.DurationMs, int64(500)+2*engine.TickInterval.Milliseconds())
}

func TestPlayRestartStopsTimer(t *testing.T) {
	conn := dialPlayConfig(t, &fakeGenerator{text: "alpha beta"}, Config{Duration: 500 * time.Millisecond})

	require.NoError(t, conn.WriteJSON(clientFrame{Type: FrameNew, Domain: "general"}))
	readUntil(t, conn, FrameSnapshot)
	require.NoError(t, conn.WriteJSON(clientFrame{Type: FrameKey, Key: "a"}))
	running := readUntil(t, conn, FrameSnapshot)
	assert.Equal(t, "running", (*running.Snapshot)["status"])

	require.NoError(t, conn.WriteJSON(clientFrame{Type: FrameNew, Domain: "story"}))
	readUntil(t, conn, FrameLoading)
	idle := readUntil(t, conn, FrameSnapshot)
	assert.Equal(t, "idle", (*idle.Snapshot)["status"])

	// Across several tick intervals and past the old session's limit nothing
	// may start or end the new session.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(8*engine.TickInterval)))
	for {
		var f testFrame
		if err := conn.ReadJSON(&f); err != nil {
			break
		}
		require.NotEqual(t, FrameSummary, f.Type)
		if f.Snapshot != nil {
			assert.Equal(t, "idle", (*f.Snapshot)["status"])
		}
	}
}

func TestPlayUnknownFrame(t *testing.T) {
	conn := dialPlay(t, &fakeGenerator{text: "ab"})
	require.NoError(t, conn.WriteJSON(clientFrame{Type: "dance"}))
	f := readUntil(t, conn, FrameError)
	assert.Contains(t, f.Error, "dance")
}

func TestKeyEvent(t *testing.T) {
	cases := []struct {
		key  string
		want engine.Event
		ok   bool
	}{
		{key: "a", want: engine.KeyRune('a'), ok: true},
		{key: " ", want: engine.Space(), ok: true},
		{key: "Backspace", want: engine.Backspace(), ok: true},
		{key: "é", want: engine.KeyRune('é'), ok: true},
		{key: "Shift", ok: false},
		{key: "", ok: false},
	}
	for _, tc := range cases {
		got, ok := keyEvent(tc.key)
		assert.Equal(t, tc.ok, ok, tc.key)
		if tc.ok {
			assert.Equal(t, tc.want, got, tc.key)
		}
	}
}
