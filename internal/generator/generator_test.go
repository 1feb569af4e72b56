package generator

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/verte-zerg/hippotype/internal/model"
)

type fakeCompleter struct {
	out  string
	err  error
	reqs []Request
}

func (f *fakeCompleter) Complete(_ context.Context, req Request) (string, error) {
	f.reqs = append(f.reqs, req)
	return f.out, f.err
}

const longSentence = "Octopuses have three hearts and blue blood, which helps them survive in cold and low oxygen water."

func TestGenerateBuildsDomainPrompt(t *testing.T) {
	fc := &fakeCompleter{out: longSentence}
	g := NewWithRand(fc, DefaultOptions(), rand.New(rand.NewSource(1)))

	res, err := g.Generate(context.Background(), model.DomainCoding)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if res.Text != longSentence {
		t.Fatalf("expected text unchanged, got %q", res.Text)
	}
	req := fc.reqs[0]
	if req.Model != DefaultModel || req.MaxTokens != DefaultMaxTokens || req.Temperature != DefaultTemperature || req.TopP != DefaultTopP {
		t.Fatalf("unexpected request params: %+v", req)
	}
	if !strings.Contains(req.System, "software developer") {
		t.Fatalf("expected coding system prompt, got %q", req.System)
	}
	found := false
	for _, topic := range Topics(model.DomainCoding) {
		if res.Topic == topic {
			found = true
		}
	}
	if !found {
		t.Fatalf("topic %q not from coding list", res.Topic)
	}
	if !strings.Contains(req.User, res.Topic+" in programming") || !strings.Contains(req.User, "Seed: ") {
		t.Fatalf("user prompt missing topic or seed: %q", req.User)
	}
}

func TestGenerateUnknownDomainUsesGenericTopic(t *testing.T) {
	fc := &fakeCompleter{out: longSentence}
	g := NewWithRand(fc, Options{}, rand.New(rand.NewSource(2)))

	res, err := g.Generate(context.Background(), model.Domain("poetry"))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if res.Topic != genericTopic {
		t.Fatalf("expected generic topic, got %q", res.Topic)
	}
	if !strings.Contains(fc.reqs[0].System, "educational content creator") {
		t.Fatalf("expected general prompt, got %q", fc.reqs[0].System)
	}
}

func TestGenerateErrors(t *testing.T) {
	cases := []struct {
		name string
		fc   *fakeCompleter
		want error
	}{
		{name: "empty", fc: &fakeCompleter{out: "  \n"}, want: ErrEmpty},
		{name: "short", fc: &fakeCompleter{out: "Tiny text."}, want: ErrTooShort},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := NewWithRand(tc.fc, DefaultOptions(), rand.New(rand.NewSource(3)))
			if _, err := g.Generate(context.Background(), model.DomainGeneral); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	boom := errors.New("boom")
	g := NewWithRand(&fakeCompleter{err: boom}, DefaultOptions(), rand.New(rand.NewSource(4)))
	if _, err := g.Generate(context.Background(), model.DomainStory); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped completer error, got %v", err)
	}
}

func TestProbe(t *testing.T) {
	fc := &fakeCompleter{out: "Fast inference keeps people in flow."}
	g := NewWithRand(fc, DefaultOptions(), rand.New(rand.NewSource(5)))

	out, err := g.Probe(context.Background())
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if out != fc.out {
		t.Fatalf("unexpected probe output %q", out)
	}
	req := fc.reqs[0]
	if req.System != "" || req.MaxTokens != probeMaxTokens || req.Temperature != probeTemperature {
		t.Fatalf("unexpected probe request %+v", req)
	}

	fc.out = ""
	if out, _ := g.Probe(context.Background()); out != "No response" {
		t.Fatalf("expected placeholder, got %q", out)
	}
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{err: nil, want: http.StatusOK},
		{err: &openai.APIError{HTTPStatusCode: 401, Message: "bad key"}, want: http.StatusUnauthorized},
		{err: &openai.APIError{HTTPStatusCode: 429, Message: "slow down"}, want: http.StatusTooManyRequests},
		{err: errors.New("you exceeded your quota"), want: http.StatusPaymentRequired},
		{err: errors.New("Rate limit reached"), want: http.StatusTooManyRequests},
		{err: errors.New("status 401 Unauthorized"), want: http.StatusUnauthorized},
		{err: ErrTooShort, want: http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := StatusFor(tc.err); got != tc.want {
			t.Fatalf("StatusFor(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestFallback(t *testing.T) {
	for _, d := range model.Domains() {
		if len(Fallback(d)) < model.MinPassageChars {
			t.Fatalf("fallback for %s too short", d)
		}
	}
	if Fallback("nope") != Fallback(model.DomainGeneral) {
		t.Fatalf("expected general fallback for unknown domain")
	}
}
