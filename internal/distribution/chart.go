package distribution

import (
	"fmt"
	"io"
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	defaultChartWidth  = 1024
	defaultChartHeight = 600
)

var (
	barColor    = drawing.ColorFromHex("3b82f6")
	meanColor   = drawing.ColorFromHex("ef4444")
	markerColor = drawing.ColorFromHex("22c55e")
)

// RenderPNG draws the histogram as a bar chart. The bar holding the mean is
// red and the bar holding the marker is green; when both fall into the same
// interval the marker wins.
func RenderPNG(w io.Writer, h Histogram, width, height int) error {
	if len(h.Bins) == 0 {
		return fmt.Errorf("histogram has no bins")
	}
	if width <= 0 {
		width = defaultChartWidth
	}
	if height <= 0 {
		height = defaultChartHeight
	}
	meanIv := Interval(h.Mean)
	markerIv := Interval(h.Marker)

	bars := make([]chart.Value, 0, len(h.Bins))
	for _, b := range h.Bins {
		fill := barColor
		switch b.Interval {
		case markerIv:
			fill = markerColor
		case meanIv:
			fill = meanColor
		}
		bars = append(bars, chart.Value{
			Label: strconv.Itoa(b.Interval),
			Value: b.Percentage,
			Style: chart.Style{
				FillColor:   fill,
				StrokeColor: fill,
				StrokeWidth: 1,
			},
		})
	}

	maxPct := h.MaxPercentage()
	if maxPct <= 0 {
		maxPct = 1
	}
	bw := barWidthFor(width, len(bars))
	graph := chart.BarChart{
		Title:      fmt.Sprintf("Grade Distribution  (mean %.2f, my grade %.1f)", h.Mean, h.Marker),
		Width:      width,
		Height:     height,
		BarWidth:   bw,
		BarSpacing: barSpacingFor(bw),
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16}},
		YAxis: chart.YAxis{
			Name:  "Percentage (%)",
			Range: &chart.ContinuousRange{Min: 0, Max: maxPct * 1.1},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.1f%%", f)
				}
				return ""
			},
		},
		Bars: bars,
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

func barWidthFor(width, bars int) int {
	if bars <= 0 {
		return 0
	}
	bw := (width - 160) / bars * 2 / 3
	if bw < 4 {
		bw = 4
	}
	return bw
}

func barSpacingFor(barWidth int) int {
	if sp := barWidth / 2; sp > 2 {
		return sp
	}
	return 2
}
