// Package distribution describes the fixed historical grade distribution
// shown next to a student's own grade.
package distribution

import "github.com/verte-zerg/gradeplan/internal/grade"

// DefaultMarker is the grade highlighted as the student's own result.
const DefaultMarker = 13.2

// MaxInterval is the highest whole-grade interval shown on the chart.
const MaxInterval = 20

// Historical is the cohort dataset the chart is drawn from.
var Historical = []float64{
	9.6, 11.3, 5.0, 12.1, 19.9, 7.7, 7.7, 16.3, 13.2, 9.7,
	14.8, 16.0, 8.5, 12.9, 8.6, 13.2, 9.1, 12.4, 8.1, 3.5,
	6.6, 11.1, 6.6, 5.6, 15.3, 7.9, 9.6, 5.8, 12.2, 8.6,
	17.8, 7.3, 7.8, 12.9, 18.8, 13.2, 18.4, 18.0, 8.9, 3.8,
	5.3, 8.9, 5.6, 16.2, 15.9, 17.7, 12.1, 9.3, 18.8, 7.6,
	13.1, 9.4, 16.0,
}

// Bin is one whole-grade bar of the histogram.
type Bin struct {
	Interval   int
	Count      int
	Percentage float64
}

// Histogram is everything needed to draw the distribution chart.
type Histogram struct {
	Bins   []Bin
	Total  int
	Mean   float64
	Marker float64
}

// Interval maps a grade onto its whole-grade bucket. Grades below 0.5 fall
// into bucket 0 and grades of 20.5 or more into bucket 21.
func Interval(g float64) int {
	if g < 0.5 {
		return 0
	}
	if g >= MaxInterval+0.5 {
		return MaxInterval + 1
	}
	return int(grade.Round(g))
}

// Bins counts grades per interval 0..20. Only intervals 1..20 are counted;
// percentages are relative to every grade in the dataset and rounded to one
// decimal.
func Bins(grades []float64) []Bin {
	counts := make([]int, MaxInterval+1)
	for _, g := range grades {
		iv := Interval(g)
		if iv >= 1 && iv <= MaxInterval {
			counts[iv]++
		}
	}
	bins := make([]Bin, 0, len(counts))
	for iv, count := range counts {
		pct := 0.0
		if len(grades) > 0 {
			pct = grade.RoundTo(float64(count)/float64(len(grades))*100, 1)
		}
		bins = append(bins, Bin{Interval: iv, Count: count, Percentage: pct})
	}
	return bins
}

// Mean is the arithmetic mean rounded to two decimals, or 0 for no grades.
func Mean(grades []float64) float64 {
	if len(grades) == 0 {
		return 0
	}
	var sum float64
	for _, g := range grades {
		sum += g
	}
	return grade.RoundTo(sum/float64(len(grades)), 2)
}

// Build assembles the histogram for a dataset and a highlighted grade.
func Build(grades []float64, marker float64) Histogram {
	return Histogram{
		Bins:   Bins(grades),
		Total:  len(grades),
		Mean:   Mean(grades),
		Marker: marker,
	}
}

// MaxPercentage returns the tallest bar height.
func (h Histogram) MaxPercentage() float64 {
	maxPct := 0.0
	for _, b := range h.Bins {
		if b.Percentage > maxPct {
			maxPct = b.Percentage
		}
	}
	return maxPct
}
