package textprovider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/hippotype/internal/model"
)

const sampleText = "Typing fast takes patience and practice. Keep your eyes on the screen and your fingers on the home row."

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL, time.Second, zerolog.Nop())
	c.nonce = func() int64 { return 1700000000000 }
	return c
}

func TestPracticeTextReturnsServerText(t *testing.T) {
	var gotPath, gotDomain, gotNonce string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotDomain = r.URL.Query().Get("domain")
		gotNonce = r.URL.Query().Get("t")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"` + sampleText + `","success":true}`))
	})

	text := c.PracticeText(context.Background(), model.DomainStory)

	assert.Equal(t, sampleText, text)
	assert.Equal(t, "/generate", gotPath)
	assert.Equal(t, "story", gotDomain)
	assert.Equal(t, "1700000000000", gotNonce)
}

func TestPracticeTextUnknownDomainRequestsGeneral(t *testing.T) {
	var gotDomain string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotDomain = r.URL.Query().Get("domain")
		_, _ = w.Write([]byte(`{"text":"` + sampleText + `"}`))
	})

	_ = c.PracticeText(context.Background(), model.Domain("poetry"))

	assert.Equal(t, "general", gotDomain)
}

func TestPracticeTextFallsBack(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		domain model.Domain
		want   string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{"error":"boom"}`, domain: model.DomainCoding, want: Fallback(model.DomainCoding)},
		{name: "empty text", status: http.StatusOK, body: `{"text":"   "}`, domain: model.DomainGeneral, want: Fallback(model.DomainGeneral)},
		{name: "too short", status: http.StatusOK, body: `{"text":"Too short."}`, domain: model.DomainStory, want: Fallback(model.DomainStory)},
		{name: "too long", status: http.StatusOK, body: `{"text":"` + strings.Repeat("a", 501) + `"}`, domain: model.DomainStory, want: Fallback(model.DomainStory)},
		{name: "malformed", status: http.StatusOK, body: `not json`, domain: model.DomainGeneral, want: Fallback(model.DomainGeneral)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})
			assert.Equal(t, tc.want, c.PracticeText(context.Background(), tc.domain))
		})
	}
}

func TestFetchErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"text":"short"}`))
	})
	_, err := c.Fetch(context.Background(), model.DomainGeneral)
	require.ErrorIs(t, err, ErrUnsuitable)

	c = newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	_, err = c.Fetch(context.Background(), model.DomainGeneral)
	require.ErrorIs(t, err, ErrEmpty)
}

func TestPracticeTextUnreachableServer(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", 200*time.Millisecond, zerolog.Nop())
	assert.Equal(t, Fallback(model.DomainGeneral), c.PracticeText(context.Background(), model.DomainGeneral))
}

func TestPracticeTextTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})
	c := NewClient(srv.URL, 50*time.Millisecond, zerolog.Nop())
	assert.Equal(t, Fallback(model.DomainStory), c.PracticeText(context.Background(), model.DomainStory))
}

func TestStaticAndFallback(t *testing.T) {
	for _, d := range model.Domains() {
		text := Static{}.PracticeText(context.Background(), d)
		require.NotEmpty(t, text)
		assert.GreaterOrEqual(t, len(text), model.MinPassageChars)
	}
	assert.Equal(t, Fallback(model.DomainGeneral), Fallback(model.Domain("unknown")))
	assert.True(t, strings.HasPrefix(Fallback(model.DomainGeneral), "The quick brown fox"))
}
