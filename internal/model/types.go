// Package model defines shared data structures.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Config defines runtime settings resolved from flags, env and the config file.
type Config struct {
	StoreBackend string
	StorePath    string
	MyGrade      float64
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Since       *time.Time
	Last        int
	CurveWindow int
	MyGrade     float64
}

// Category selects one of a subject's entry sequences.
type Category int

const (
	CategoryTests Category = iota
	CategoryAssignments
)

func (c Category) String() string {
	switch c {
	case CategoryTests:
		return "tests"
	case CategoryAssignments:
		return "assignments"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// Entry is one test or assignment record.
type Entry struct {
	Score  Value `json:"score"`
	Weight Value `json:"weight"`
}

// Dangling reports whether the entry carries a weight but no score yet.
func (e Entry) Dangling() bool {
	return e.Weight.IsSet() && !e.Score.IsSet()
}

// SubjectID identifies a subject for its whole lifetime.
type SubjectID string

// UnmarshalJSON also accepts the numeric IDs written by the browser tracker.
func (id *SubjectID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("failed to decode subject id: %w", err)
		}
		*id = SubjectID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("failed to decode subject id %s: %w", data, err)
	}
	*id = SubjectID(n.String())
	return nil
}

// Subject holds the scores recorded for one course.
type Subject struct {
	ID          SubjectID `json:"id"`
	Name        string    `json:"name"`
	Weight      Value     `json:"weight"`
	Year        int       `json:"year"`
	Semester    int       `json:"semester"`
	Tests       []Entry   `json:"tests"`
	Assignments []Entry   `json:"assignments"`
	TargetGrade Value     `json:"targetGrade"`
	ExtraPoints Value     `json:"extraPoints"`
}

// Entries returns the entry sequence for a category.
func (s Subject) Entries(c Category) []Entry {
	if c == CategoryAssignments {
		return s.Assignments
	}
	return s.Tests
}

// Label returns the subject name or a placeholder for unnamed subjects.
func (s Subject) Label() string {
	if s.Name == "" {
		return "(unnamed)"
	}
	return s.Name
}

// HistoryPoint captures the means computed at one save.
type HistoryPoint struct {
	SavedAt     time.Time
	Version     uint64
	Overall     float64
	Tests       float64
	Assignments float64
	Subjects    int
}
