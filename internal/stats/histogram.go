package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/gradeplan/internal/distribution"
)

const (
	barRune         = "█"
	defaultBarWidth = 40
)

// RenderHistogram prints the distribution as horizontal bars, one per whole
// grade, marking the rows that hold the mean and the highlighted grade.
func RenderHistogram(w io.Writer, h distribution.Histogram, barWidth int) error {
	if len(h.Bins) == 0 {
		_, err := fmt.Fprintln(w, "No grades to chart.")
		return err
	}
	if barWidth <= 0 {
		barWidth = defaultBarWidth
	}
	maxPct := h.MaxPercentage()
	meanIv := distribution.Interval(h.Mean)
	markerIv := distribution.Interval(h.Marker)

	var b strings.Builder
	fmt.Fprintf(&b, "Grade Distribution (%d grades)\n", h.Total)
	fmt.Fprintf(&b, "Mean: %.2f  My Grade: %.1f\n", h.Mean, h.Marker)
	for _, bin := range h.Bins {
		n := 0
		if maxPct > 0 {
			n = int(math.Round(bin.Percentage / maxPct * float64(barWidth)))
		}
		var marks []string
		if bin.Interval == meanIv {
			marks = append(marks, "mean")
		}
		if bin.Interval == markerIv {
			marks = append(marks, "my grade")
		}
		line := fmt.Sprintf("%2d │ %-*s %5.1f%% (%d)", bin.Interval, barWidth, strings.Repeat(barRune, n), bin.Percentage, bin.Count)
		if len(marks) > 0 {
			line += "  ◀ " + strings.Join(marks, ", ")
		}
		b.WriteString(strings.TrimRight(line, " "))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}
