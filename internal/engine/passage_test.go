package engine

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTokenizeRoundTrip(t *testing.T) {
	inputs := []string{
		"The quick brown fox jumps over the lazy dog.",
		"  leading and trailing  ",
		"tabs\tand\nnewlines  mixed",
		"single",
		"naïve café, résumé!",
	}
	for _, in := range inputs {
		cleaned := strings.Join(strings.Fields(in), " ")
		p := Tokenize(in)
		total := p.Chars() + p.Len() - 1
		if total != utf8.RuneCountInString(cleaned) {
			t.Fatalf("%q: expected %d chars, got %d", in, utf8.RuneCountInString(cleaned), total)
		}
		if p.String() != cleaned {
			t.Fatalf("%q: expected %q, got %q", in, cleaned, p.String())
		}
	}
}

func TestTokenizeDropsEmptyTokens(t *testing.T) {
	p := Tokenize("a  b   c")
	if p.Len() != 3 {
		t.Fatalf("expected 3 words, got %d", p.Len())
	}
	if p.Word(1) != "b" {
		t.Fatalf("unexpected word %q", p.Word(1))
	}
	if Tokenize("").Len() != 0 {
		t.Fatalf("expected no words for empty text")
	}
}
