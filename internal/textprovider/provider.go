// Package textprovider fetches practice passages from the generator server.
package textprovider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/hippotype/internal/model"
)

// DefaultTimeout bounds a single passage request.
const DefaultTimeout = 15 * time.Second

var (
	// ErrEmpty is returned when the server responds without text.
	ErrEmpty = errors.New("no text received")
	// ErrUnsuitable is returned when the text length is outside the accepted bounds.
	ErrUnsuitable = errors.New("unsuitable passage length")
)

// Provider returns a practice passage for a domain. It never fails; callers
// always receive non-empty text.
type Provider interface {
	PracticeText(ctx context.Context, domain model.Domain) string
}

// Client requests passages from a generator server and falls back to local
// text on any failure.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
	nonce   func() int64
}

// NewClient returns a Client for the server at baseURL.
func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
		nonce:   func() int64 { return time.Now().UnixMilli() },
	}
}

type generateResponse struct {
	Text string `json:"text"`
}

// PracticeText implements Provider.
func (c *Client) PracticeText(ctx context.Context, domain model.Domain) string {
	domain = model.ParseDomain(string(domain))
	text, err := c.Fetch(ctx, domain)
	if err != nil {
		c.logger.Warn().Err(err).Str("domain", domain.String()).Msg("Using fallback text")
		return Fallback(domain)
	}
	return text
}

// Fetch performs a single request without fallback.
func (c *Client) Fetch(ctx context.Context, domain model.Domain) (string, error) {
	endpoint, err := url.JoinPath(c.baseURL, "generate")
	if err != nil {
		return "", fmt.Errorf("invalid server url: %w", err)
	}
	query := url.Values{}
	query.Set("domain", domain.String())
	query.Set("t", strconv.FormatInt(c.nonce(), 10))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %s", resp.Status)
	}

	var payload generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	trimmed := strings.TrimSpace(payload.Text)
	if trimmed == "" {
		return "", ErrEmpty
	}
	if n := utf8.RuneCountInString(trimmed); n < model.MinPassageChars || n > model.MaxPassageChars {
		return "", fmt.Errorf("%w: %d chars", ErrUnsuitable, n)
	}
	return payload.Text, nil
}

// Static always returns the local fallback passage.
type Static struct{}

// PracticeText implements Provider.
func (Static) PracticeText(_ context.Context, domain model.Domain) string {
	return Fallback(domain)
}
