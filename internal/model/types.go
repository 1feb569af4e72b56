// Package model defines shared data structures.
package model

import (
	"strings"
	"time"
)

// Domain selects the prompt and fallback used for passage generation.
type Domain string

// Supported practice domains.
const (
	DomainGeneral Domain = "general"
	DomainStory   Domain = "story"
	DomainCoding  Domain = "coding"
)

// Passage length bounds accepted by the practice client.
const (
	MinPassageChars = 50
	MaxPassageChars = 500
)

// Domains returns the supported domains in display order.
func Domains() []Domain {
	return []Domain{DomainGeneral, DomainStory, DomainCoding}
}

// ParseDomain maps a domain key to a Domain. Unrecognized keys map to general.
func ParseDomain(s string) Domain {
	switch Domain(strings.ToLower(strings.TrimSpace(s))) {
	case DomainStory:
		return DomainStory
	case DomainCoding:
		return DomainCoding
	default:
		return DomainGeneral
	}
}

// Known reports whether s names a supported domain exactly.
func Known(s string) bool {
	for _, d := range Domains() {
		if string(d) == s {
			return true
		}
	}
	return false
}

// String implements fmt.Stringer.
func (d Domain) String() string {
	return string(d)
}

// PracticeConfig defines settings for the typing client.
type PracticeConfig struct {
	Domain    Domain
	ServerURL string
	Timeout   time.Duration
	Offline   bool
	LogFile   string
}

// ServerConfig defines settings for the generator server.
type ServerConfig struct {
	Addr        string
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	TopP        float64
	RateRPS     int
	RateBurst   int
	Cache       bool
	CacheSize   int
	DBPath      string
}

// Passage is a generated practice text as stored in the passage cache.
type Passage struct {
	ID        int64
	Domain    Domain
	Text      string
	Topic     string
	Model     string
	CreatedAt time.Time
}

// Summary is the terminal result of a typing session.
type Summary struct {
	WPM        int    `json:"wpm"`
	Accuracy   int    `json:"accuracy"`
	Level      string `json:"level"`
	Typed      int    `json:"typed"`
	Errors     int    `json:"errors"`
	DurationMs int64  `json:"durationMs"`
	Trace      []int  `json:"trace,omitempty"`
}
