package tui

import (
	"reflect"
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestCellPadsAndTruncates(t *testing.T) {
	if got := cell("abc", 5); got != "abc  " {
		t.Fatalf("expected padded cell, got %q", got)
	}
	got := cell("Mathematics", 6)
	if runewidth.StringWidth(got) != 6 || got != "Mathe…" {
		t.Fatalf("expected truncated cell, got %q", got)
	}
	if got := cell("数学数学", 5); runewidth.StringWidth(got) != 5 {
		t.Fatalf("expected width 5 for wide runes, got %q", got)
	}
	if got := cell("abc", 0); got != "" {
		t.Fatalf("expected empty cell, got %q", got)
	}
}

func TestFit(t *testing.T) {
	if got := fit("abcdef", 0); got != "abcdef" {
		t.Fatalf("expected untouched string, got %q", got)
	}
	if got := fit("abcdef", 4); got != "abc…" {
		t.Fatalf("expected truncated string, got %q", got)
	}
}

func TestWrapSegments(t *testing.T) {
	got := wrapSegments([]string{"j/k move", "a add", "d delete", "q quit"}, "  ", 16)
	want := []string{"j/k move  a add", "d delete  q quit"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %q, got %q", want, got)
	}
	got = wrapSegments([]string{"a very long segment", "b"}, " ", 5)
	want = []string{"a very long segment", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if got := wrapSegments(nil, " ", 10); got != nil {
		t.Fatalf("expected nil, got %q", got)
	}
}
