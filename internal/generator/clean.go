package generator

import (
	"regexp"
	"strings"

	"github.com/samber/lo"

	"github.com/verte-zerg/hippotype/internal/model"
)

// MaxGeneratedChars caps the length of a served passage.
const MaxGeneratedChars = 250

var (
	spaceRun     = regexp.MustCompile(`[\s\p{Zs}]+`)
	disallowed   = regexp.MustCompile(`[^A-Za-z0-9_ \t.,!?;:'"()-]`)
	sentenceStop = regexp.MustCompile(`[.!?]+`)
)

// Clean normalizes model output for typing: whitespace collapses to single
// spaces, characters outside a small ASCII set are dropped, double quotes become
// apostrophes and markdown emphasis is removed.
func Clean(raw string) string {
	s := spaceRun.ReplaceAllString(raw, " ")
	s = disallowed.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, `"`, "'")
	s = strings.ReplaceAll(s, "*", "")
	return strings.TrimSpace(s)
}

// FitLength shortens text longer than MaxGeneratedChars to its first two
// sentences, then caps it on a word boundary. Shorter text is returned as is.
func FitLength(text string) string {
	if len(text) <= MaxGeneratedChars {
		return text
	}
	sentences := lo.Filter(
		lo.Map(sentenceStop.Split(text, -1), func(s string, _ int) string { return strings.TrimSpace(s) }),
		func(s string, _ int) bool { return s != "" },
	)
	fitted := terminate(strings.Join(lo.Slice(sentences, 0, 2), ". "))
	if len(fitted) < model.MinPassageChars {
		fitted = text
	}
	if len(fitted) > MaxGeneratedChars {
		fitted = capWords(fitted, MaxGeneratedChars)
	}
	return fitted
}

// Fit cleans and length-fits raw model output.
func Fit(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", ErrEmpty
	}
	text := Clean(raw)
	if len(text) < model.MinPassageChars {
		return "", ErrTooShort
	}
	return FitLength(text), nil
}

func terminate(s string) string {
	if s == "" || strings.ContainsAny(s[len(s)-1:], ".!?") {
		return s
	}
	return s + "."
}

// capWords cuts s to at most limit bytes, ending on a whole word with a period.
func capWords(s string, limit int) string {
	cut := s[:limit-1]
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	cut = strings.TrimRight(cut, " ,;:-(")
	return terminate(cut)
}
