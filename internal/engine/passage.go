// Package engine implements the typing-session state machine.
package engine

import (
	"strings"

	"github.com/samber/lo"
)

// Passage is an immutable sequence of words to be typed.
type Passage struct {
	words [][]rune
}

// Tokenize splits text on whitespace, discarding empty tokens.
func Tokenize(text string) Passage {
	fields := strings.Fields(text)
	return Passage{words: lo.Map(fields, func(w string, _ int) []rune {
		return []rune(w)
	})}
}

// Len returns the number of words.
func (p Passage) Len() int {
	return len(p.words)
}

// Word returns the i-th word.
func (p Passage) Word(i int) string {
	return string(p.words[i])
}

// Chars returns the total number of characters, excluding separators.
func (p Passage) Chars() int {
	return lo.SumBy(p.words, func(w []rune) int { return len(w) })
}

// String joins the words with single spaces.
func (p Passage) String() string {
	return strings.Join(lo.Map(p.words, func(w []rune, _ int) string {
		return string(w)
	}), " ")
}
