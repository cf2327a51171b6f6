package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const ellipsis = "…"

// cell pads or truncates s to exactly width terminal cells.
func cell(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.FillRight(runewidth.Truncate(s, width, ellipsis), width)
}

// fit truncates s so it never exceeds width cells. A width of 0 leaves s as is.
func fit(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.Truncate(s, width, ellipsis)
}

// wrapSegments joins segments with sep and breaks lines so that none is wider
// than width. A segment wider than width gets a line of its own.
func wrapSegments(segments []string, sep string, width int) []string {
	if len(segments) == 0 {
		return nil
	}
	if width <= 0 {
		return []string{strings.Join(segments, sep)}
	}
	sepWidth := runewidth.StringWidth(sep)
	var lines []string
	var line strings.Builder
	lineWidth := 0
	for _, seg := range segments {
		w := runewidth.StringWidth(seg)
		if lineWidth > 0 && lineWidth+sepWidth+w > width {
			lines = append(lines, line.String())
			line.Reset()
			lineWidth = 0
		}
		if lineWidth > 0 {
			line.WriteString(sep)
			lineWidth += sepWidth
		}
		line.WriteString(seg)
		lineWidth += w
	}
	return append(lines, line.String())
}
