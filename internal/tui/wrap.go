package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/hippotype/internal/engine"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

// buildStyledRunes lays out a snapshot as styled glyphs with single spaces
// between words. The cursor is underlined; after a fully typed word it sits on
// the following space.
func buildStyledRunes(snap engine.Snapshot) []styledRune {
	out := make([]styledRune, 0, 64)
	for wi, word := range snap.Words {
		inCurrentWord := snap.Status != engine.StatusEnded && wi == snap.Cursor.Word
		if wi > 0 {
			style := pendingStyle
			if snap.Status != engine.StatusEnded && wi == snap.Cursor.Word+1 && snap.Cursor.Char == len(snap.Words[wi-1].Chars) {
				style = spaceCursorStyle
			}
			out = append(out, styledRune{s: style.Render(" "), width: 1, isSpace: true})
		}
		for _, ch := range word.Chars {
			style := pendingStyle
			switch ch.Verdict {
			case engine.VerdictCorrect:
				style = correctStyle
			case engine.VerdictIncorrect:
				style = incorrectStyle
			case engine.VerdictCurrent:
				style = cursorStyle
			default:
				if inCurrentWord {
					style = currentWordStyle
				}
			}
			out = append(out, styledRune{
				s:     style.Render(ch.Glyph),
				width: runewidth.StringWidth(ch.Glyph),
			})
		}
	}
	return out
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledRunes breaks lines at the last space that fits within width.
func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx]))
				out.WriteRune('\n')
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
