package stats

import (
	"fmt"
	"io"
	"time"

	"github.com/verte-zerg/hippotype/internal/model"
)

// RenderSummary prints a session summary as a two-column table.
func RenderSummary(w io.Writer, s model.Summary) error {
	elapsed := time.Duration(s.DurationMs) * time.Millisecond
	rows := [][]string{
		{"WPM", fmt.Sprintf("%d", s.WPM)},
		{"Accuracy", fmt.Sprintf("%d%%", s.Accuracy)},
		{"Level", s.Level},
		{"Typed", fmt.Sprintf("%d", s.Typed)},
		{"Errors", fmt.Sprintf("%d", s.Errors)},
		{"Time", fmt.Sprintf("%.1fs", elapsed.Seconds())},
	}
	if len(s.Trace) > 1 {
		rows = append(rows, []string{"Trace", TraceLine(s.Trace, 3)})
	}
	for _, line := range formatTable(nil, rows, map[int]bool{}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
