package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Subject", "Grade", "Credits"}
	rows := [][]string{
		{"Algebra", "14.50", "6"},
		{"Über-Physik", "9.00", "3"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Subject     Grade Credits" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "Algebra     14.50       6" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "Über-Physik  9.00       3" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestDisplayWidthCountsWideRunes(t *testing.T) {
	if got := displayWidth("数学"); got != 4 {
		t.Fatalf("expected width 4, got %d", got)
	}
}
