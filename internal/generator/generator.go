// Package generator produces typing passages from a language model.
package generator

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/verte-zerg/hippotype/internal/model"
)

// Default completion parameters.
const (
	DefaultModel       = "openai/gpt-oss-20b"
	DefaultTemperature = 0.8
	DefaultMaxTokens   = 200
	DefaultTopP        = 0.9
)

const (
	probePrompt      = "Write a single sentence about the benefits of fast AI inference."
	probeMaxTokens   = 50
	probeTemperature = 0.7
)

var (
	// ErrEmpty is returned when the model produced no text.
	ErrEmpty = errors.New("empty response from model")
	// ErrTooShort is returned when the cleaned text is below the minimum length.
	ErrTooShort = errors.New("generated content too short")
)

// Options controls completion requests.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
	TopP        float64
}

// DefaultOptions returns the built-in completion parameters.
func DefaultOptions() Options {
	return Options{
		Model:       DefaultModel,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
		TopP:        DefaultTopP,
	}
}

// Result is a generated passage.
type Result struct {
	Text   string
	Domain model.Domain
	Topic  string
	Model  string
}

// Generator builds prompts, requests completions, and fits the result for typing.
// It is safe for concurrent use.
type Generator struct {
	completer Completer
	opts      Options

	mu  sync.Mutex
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New(c Completer, opts Options) *Generator {
	return NewWithRand(c, opts, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWithRand returns a Generator using rnd for topic and seed selection.
func NewWithRand(c Completer, opts Options, rnd *rand.Rand) *Generator {
	def := DefaultOptions()
	if opts.Model == "" {
		opts.Model = def.Model
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = def.MaxTokens
	}
	return &Generator{completer: c, opts: opts, rnd: rnd}
}

// Model returns the configured model name.
func (g *Generator) Model() string {
	return g.opts.Model
}

// Generate produces a passage for the domain. Unknown domains use the general
// prompt with a generic topic.
func (g *Generator) Generate(ctx context.Context, domain model.Domain) (Result, error) {
	g.mu.Lock()
	p := buildPrompt(g.rnd, domain)
	g.mu.Unlock()

	raw, err := g.completer.Complete(ctx, Request{
		Model:       g.opts.Model,
		System:      p.System,
		User:        p.User,
		Temperature: g.opts.Temperature,
		MaxTokens:   g.opts.MaxTokens,
		TopP:        g.opts.TopP,
	})
	if err != nil {
		return Result{}, fmt.Errorf("completion failed: %w", err)
	}
	text, err := Fit(raw)
	if err != nil {
		return Result{}, err
	}
	return Result{Text: text, Domain: domain, Topic: p.Topic, Model: g.opts.Model}, nil
}

// Probe runs a short completion to check that the model is reachable.
func (g *Generator) Probe(ctx context.Context) (string, error) {
	out, err := g.completer.Complete(ctx, Request{
		Model:       g.opts.Model,
		User:        probePrompt,
		Temperature: probeTemperature,
		MaxTokens:   probeMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("completion failed: %w", err)
	}
	if out == "" {
		return "No response", nil
	}
	return out, nil
}
