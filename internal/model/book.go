package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrSubjectNotFound = errors.New("subject not found")
	ErrEntryNotFound   = errors.New("entry not found")
	ErrInvalidTerm     = errors.New("year and semester must be 1 or 2")
	ErrUnknownField    = errors.New("unknown field")
)

// Editable subject and entry fields.
const (
	FieldName        = "name"
	FieldWeight      = "weight"
	FieldTargetGrade = "target"
	FieldExtraPoints = "extra"
	FieldScore       = "score"
)

// Book is a versioned snapshot of the subject collection. Mutating methods
// return a new Book and leave the receiver untouched.
type Book struct {
	Version  uint64    `json:"version"`
	Subjects []Subject `json:"subjects"`
}

// Term groups the subjects of one year and semester.
type Term struct {
	Year     int
	Semester int
	Subjects []Subject
}

// Terms returns subjects grouped in the fixed Y1S1, Y1S2, Y2S1, Y2S2 order.
// Subjects with an out-of-range year or semester are not listed.
func (b Book) Terms() []Term {
	terms := make([]Term, 0, 4)
	for year := 1; year <= 2; year++ {
		for sem := 1; sem <= 2; sem++ {
			term := Term{Year: year, Semester: sem}
			for _, s := range b.Subjects {
				if s.Year == year && s.Semester == sem {
					term.Subjects = append(term.Subjects, s)
				}
			}
			terms = append(terms, term)
		}
	}
	return terms
}

// Subject looks up a subject by ID.
func (b Book) Subject(id SubjectID) (Subject, bool) {
	idx := b.indexOf(id)
	if idx < 0 {
		return Subject{}, false
	}
	return b.Subjects[idx], true
}

// AddSubject appends an empty subject to the given term.
func (b Book) AddSubject(year, semester int) (Book, SubjectID, error) {
	if !validTerm(year) || !validTerm(semester) {
		return b, "", ErrInvalidTerm
	}
	id := SubjectID(uuid.NewString())
	next := b.next(len(b.Subjects) + 1)
	next.Subjects = append(next.Subjects, b.Subjects...)
	next.Subjects = append(next.Subjects, Subject{
		ID:          id,
		Year:        year,
		Semester:    semester,
		Tests:       []Entry{},
		Assignments: []Entry{},
	})
	return next, id, nil
}

// RemoveSubject drops a subject. Removing an unknown ID is an error.
func (b Book) RemoveSubject(id SubjectID) (Book, error) {
	idx := b.indexOf(id)
	if idx < 0 {
		return b, fmt.Errorf("%w: %s", ErrSubjectNotFound, id)
	}
	next := b.next(len(b.Subjects) - 1)
	next.Subjects = append(next.Subjects, b.Subjects[:idx]...)
	next.Subjects = append(next.Subjects, b.Subjects[idx+1:]...)
	return next, nil
}

// UpdateSubject applies fn to a private copy of the subject.
func (b Book) UpdateSubject(id SubjectID, fn func(*Subject) error) (Book, error) {
	idx := b.indexOf(id)
	if idx < 0 {
		return b, fmt.Errorf("%w: %s", ErrSubjectNotFound, id)
	}
	subject := cloneSubject(b.Subjects[idx])
	if err := fn(&subject); err != nil {
		return b, err
	}
	next := b.next(len(b.Subjects))
	next.Subjects = append(next.Subjects, b.Subjects...)
	next.Subjects[idx] = subject
	return next, nil
}

// SetSubjectField updates name, weight, target or extra from raw input.
func (b Book) SetSubjectField(id SubjectID, field, raw string) (Book, error) {
	return b.UpdateSubject(id, func(s *Subject) error {
		switch field {
		case FieldName:
			s.Name = raw
		case FieldWeight:
			s.Weight = ParseValue(raw)
		case FieldTargetGrade:
			s.TargetGrade = ParseValue(raw)
		case FieldExtraPoints:
			s.ExtraPoints = ParseValue(raw)
		default:
			return fmt.Errorf("%w: %q", ErrUnknownField, field)
		}
		return nil
	})
}

// AddEntry appends an empty entry to a subject's category.
func (b Book) AddEntry(id SubjectID, c Category) (Book, error) {
	return b.UpdateSubject(id, func(s *Subject) error {
		entries := append(s.Entries(c), Entry{})
		setEntries(s, c, entries)
		return nil
	})
}

// SetEntryField updates an entry's score or weight from raw input.
func (b Book) SetEntryField(id SubjectID, c Category, index int, field, raw string) (Book, error) {
	return b.UpdateSubject(id, func(s *Subject) error {
		entries := s.Entries(c)
		if index < 0 || index >= len(entries) {
			return fmt.Errorf("%w: %s[%d]", ErrEntryNotFound, c, index)
		}
		switch field {
		case FieldScore:
			entries[index].Score = ParseValue(raw)
		case FieldWeight:
			entries[index].Weight = ParseValue(raw)
		default:
			return fmt.Errorf("%w: %q", ErrUnknownField, field)
		}
		return nil
	})
}

// RemoveEntry drops one entry from a subject's category.
func (b Book) RemoveEntry(id SubjectID, c Category, index int) (Book, error) {
	return b.UpdateSubject(id, func(s *Subject) error {
		entries := s.Entries(c)
		if index < 0 || index >= len(entries) {
			return fmt.Errorf("%w: %s[%d]", ErrEntryNotFound, c, index)
		}
		kept := make([]Entry, 0, len(entries)-1)
		kept = append(kept, entries[:index]...)
		kept = append(kept, entries[index+1:]...)
		setEntries(s, c, kept)
		return nil
	})
}

// UnmarshalJSON accepts a versioned book or a bare subject array.
func (b *Book) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var subjects []Subject
		if err := json.Unmarshal(data, &subjects); err != nil {
			return fmt.Errorf("failed to decode subjects: %w", err)
		}
		*b = Book{Subjects: subjects}
		return nil
	}
	type plain Book
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("failed to decode book: %w", err)
	}
	*b = Book(p)
	return nil
}

func (b Book) next(capacity int) Book {
	if capacity < 0 {
		capacity = 0
	}
	return Book{Version: b.Version + 1, Subjects: make([]Subject, 0, capacity)}
}

func (b Book) indexOf(id SubjectID) int {
	for i, s := range b.Subjects {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func cloneSubject(s Subject) Subject {
	out := s
	out.Tests = append([]Entry{}, s.Tests...)
	out.Assignments = append([]Entry{}, s.Assignments...)
	return out
}

func setEntries(s *Subject, c Category, entries []Entry) {
	if c == CategoryAssignments {
		s.Assignments = entries
		return
	}
	s.Tests = entries
}

func validTerm(v int) bool {
	return v == 1 || v == 2
}
