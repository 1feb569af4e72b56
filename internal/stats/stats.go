// Package stats contains typing metric arithmetic and reporting.
package stats

import (
	"math"
	"strings"
	"time"
)

// CharsPerWord is the number of keystrokes counted as one word.
const CharsPerWord = 5

// minElapsed keeps the WPM denominator away from zero right after the first keystroke.
const minElapsed = time.Millisecond

const sparkChars = " .:-=+*#%@"

// Round rounds half up, so -12.5 becomes -12 and 2.5 becomes 3.
func Round(x float64) int {
	return int(math.Floor(x + 0.5))
}

// WPM returns words per minute for typed keystrokes over elapsed time.
func WPM(typed int, elapsed time.Duration) int {
	if elapsed < minElapsed {
		elapsed = minElapsed
	}
	words := float64(typed) / CharsPerWord
	return Round(words / elapsed.Minutes())
}

// Accuracy returns the percentage of typed keystrokes not counted as errors.
// The result is not clamped and goes negative when errors exceed typed.
func Accuracy(typed, errors int) int {
	if typed == 0 {
		return 100
	}
	return Round(float64(typed-errors) / float64(typed) * 100)
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 || len(values) == 0 {
		copy(out, values)
		return out
	}
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// TraceLine renders a per-second WPM trace, smoothed over window samples.
func TraceLine(trace []int, window int) string {
	values := make([]float64, len(trace))
	for i, v := range trace {
		values[i] = float64(v)
	}
	return Sparkline(MovingAverage(values, window))
}
