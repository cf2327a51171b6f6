package stats

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/gradeplan/internal/distribution"
	"github.com/verte-zerg/gradeplan/internal/grade"
	"github.com/verte-zerg/gradeplan/internal/model"
)

func sampleBook() model.Book {
	return model.Book{
		Version: 2,
		Subjects: []model.Subject{
			scored("Algebra", "6", "15"),
			scored("Biology", "3", "12"),
		},
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{1, 2, 3, 4}, 2)
	want := []float64{1, 1.5, 2.5, 3.5}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	same := MovingAverage([]float64{3, 5}, 1)
	if same[0] != 3 || same[1] != 5 {
		t.Fatalf("expected passthrough for window 1, got %v", same)
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 4.5, 9}); got != " +@" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{7, 7, 7}); got != "+++" {
		t.Fatalf("unexpected flat sparkline %q", got)
	}
	if got := Sparkline(nil); got != "" {
		t.Fatalf("expected empty sparkline, got %q", got)
	}
}

func TestRenderSummary(t *testing.T) {
	book := sampleBook()
	report := Report{
		Book:    book,
		Summary: grade.Summarize(book.Subjects),
		History: []model.HistoryPoint{{SavedAt: time.Now().Add(-2 * time.Hour), Version: 2}},
	}
	var buf bytes.Buffer
	if err := RenderSummary(&buf, report); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Subjects: 2 (2 counted)",
		"Total grade: 14.00 / 20",
		"Tests only: 14.00 / 20",
		"Assignments only: 0.00 / 20",
		"Last saved: 2 hours ago (version 2)",
		"Top subjects: Algebra, Biology",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in summary:\n%s", want, out)
		}
	}
	if strings.Contains(out, "At risk") {
		t.Fatalf("did not expect at-risk subjects:\n%s", out)
	}
}

func TestRenderSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, Report{}); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "No subjects yet." {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestRenderSubjectTable(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSubjectTable(&buf, sampleBook()); err != nil {
		t.Fatalf("render table: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected title, header and 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[1], "Term") {
		t.Fatalf("unexpected header %q", lines[1])
	}
	row := lines[2]
	for _, want := range []string{"Y1S1", "Algebra", "15.00", "No target"} {
		if !strings.Contains(row, want) {
			t.Fatalf("expected %q in row %q", want, row)
		}
	}
}

func TestRenderHistogram(t *testing.T) {
	var buf bytes.Buffer
	h := distribution.Build(distribution.Historical, distribution.DefaultMarker)
	if err := RenderHistogram(&buf, h, 20); err != nil {
		t.Fatalf("render histogram: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Grade Distribution (53 grades)") {
		t.Fatalf("missing title:\n%s", out)
	}
	var mine, mean string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "13 │") {
			mine = line
		}
		if strings.HasPrefix(line, "11 │") {
			mean = line
		}
	}
	if !strings.Contains(mine, "11.3% (6)") || !strings.Contains(mine, "my grade") {
		t.Fatalf("unexpected marker row %q", mine)
	}
	if !strings.Contains(mean, "mean") {
		t.Fatalf("unexpected mean row %q", mean)
	}
}

func TestRenderCurves(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)
	history := []model.HistoryPoint{
		{SavedAt: start, Version: 1, Overall: 10, Tests: 9, Assignments: 12},
		{SavedAt: start.Add(time.Hour), Version: 2, Overall: 12, Tests: 11, Assignments: 14},
		{SavedAt: start.Add(2 * time.Hour), Version: 3, Overall: 13, Tests: 12, Assignments: 15},
	}
	var buf bytes.Buffer
	if err := RenderCurves(&buf, history, 2, 40, 5, false); err != nil {
		t.Fatalf("render curves: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Grade History (3 saves, window 2)") || !strings.Contains(out, "Assignments (dotted)") {
		t.Fatalf("unexpected curves output:\n%s", out)
	}
}

func TestHistoryPoint(t *testing.T) {
	at := time.Unix(1_700_000_000, 0)
	p := HistoryPoint(sampleBook(), at)
	if p.Version != 2 || p.Subjects != 2 || !p.SavedAt.Equal(at) {
		t.Fatalf("unexpected point %+v", p)
	}
	if math.Abs(p.Overall-14) > 1e-9 {
		t.Fatalf("expected overall 14, got %v", p.Overall)
	}
}
