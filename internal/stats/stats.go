// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/gradeplan/internal/grade"
	"github.com/verte-zerg/gradeplan/internal/model"
)

const sparkChars = " .:-=+*#%@"

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 || len(values) == 0 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		den := float64(i + 1)
		if i >= window {
			sum -= values[i-window]
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
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi-lo < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		idx := int(math.Round((v - lo) / (hi - lo) * float64(len(sparkChars)-1)))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// FormatGrade prints a grade with two decimals, or "-" when nothing counts yet.
func FormatGrade(v float64) string {
	if v <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.2f", v)
}

// RenderSummary prints the three means and save information.
func RenderSummary(w io.Writer, r Report) error {
	subjects := r.Book.Subjects
	if len(subjects) == 0 {
		_, err := fmt.Fprintln(w, "No subjects yet.")
		return err
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Subjects: %d (%d counted)", len(subjects), r.Summary.Eligible),
		fmt.Sprintf("Total grade: %.2f / %.0f", r.Summary.Overall, grade.MaxGrade),
		fmt.Sprintf("Tests only: %.2f / %.0f", r.Summary.Tests, grade.MaxGrade),
		fmt.Sprintf("Assignments only: %.2f / %.0f", r.Summary.Assignments, grade.MaxGrade),
	}
	if last, ok := r.LastSave(); ok {
		lines = append(lines, fmt.Sprintf("Last saved: %s (version %d)", humanize.Time(last.SavedAt), last.Version))
	}
	if top := RankSubjects(subjects, 3); len(top) > 0 {
		lines = append(lines, "Top subjects: "+strings.Join(top, ", "))
	}
	if risky := SelectAtRisk(subjects, PassMark); len(risky) > 0 {
		names := make([]string, len(risky))
		for i, s := range risky {
			names[i] = s.Label()
		}
		lines = append(lines, "At risk: "+strings.Join(names, ", "))
	}
	lines = append(lines, "")
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// SubjectRows builds one display row per subject in term order.
func SubjectRows(book model.Book) ([]string, [][]string) {
	headers := []string{"Term", "Subject", "Credits", "Grade", "Tests", "Assignments", "Target", "Required"}
	var rows [][]string
	for _, term := range book.Terms() {
		for _, s := range term.Subjects {
			rows = append(rows, []string{
				fmt.Sprintf("Y%dS%d", term.Year, term.Semester),
				s.Label(),
				s.Weight.Raw(),
				FormatGrade(grade.SubjectGrade(s)),
				FormatGrade(grade.CategoryGrade(s, model.CategoryTests)),
				FormatGrade(grade.CategoryGrade(s, model.CategoryAssignments)),
				s.TargetGrade.Raw(),
				grade.RequiredGrade(s).String(),
			})
		}
	}
	return headers, rows
}

// RenderSubjectTable prints per-subject grades.
func RenderSubjectTable(w io.Writer, book model.Book) error {
	headers, rows := SubjectRows(book)
	if len(rows) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Subjects"); err != nil {
		return err
	}
	rightAlign := map[int]bool{2: true, 3: true, 4: true, 5: true, 6: true, 7: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderCurves plots the saved means over time on the grade scale.
func RenderCurves(w io.Writer, history []model.HistoryPoint, window, totalWidth, height int, useColor bool) error {
	if len(history) == 0 {
		return nil
	}
	overall := make([]float64, len(history))
	tests := make([]float64, len(history))
	assignments := make([]float64, len(history))
	for i, p := range history {
		overall[i] = p.Overall
		tests[i] = p.Tests
		assignments[i] = p.Assignments
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	title := fmt.Sprintf("Grade History (%d saves, window %d)", len(history), window)
	return PlotSeries(w, title, []Series{
		{Name: "Total", Values: MovingAverage(overall, window)},
		{Name: "Tests", Values: MovingAverage(tests, window)},
		{Name: "Assignments", Values: MovingAverage(assignments, window)},
	}, GradeScale(width, height, useColor))
}

// HistoryPoint computes the point recorded when book is saved at t.
func HistoryPoint(book model.Book, t time.Time) model.HistoryPoint {
	sum := grade.Summarize(book.Subjects)
	return model.HistoryPoint{
		SavedAt:     t,
		Version:     book.Version,
		Overall:     sum.Overall,
		Tests:       sum.Tests,
		Assignments: sum.Assignments,
		Subjects:    len(book.Subjects),
	}
}
