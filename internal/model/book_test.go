package model

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestBookMutationsCopyOnWrite(t *testing.T) {
	var b0 Book
	b1, id, err := b0.AddSubject(1, 2)
	if err != nil {
		t.Fatalf("add subject: %v", err)
	}
	if b1.Version != 1 || len(b1.Subjects) != 1 || len(b0.Subjects) != 0 {
		t.Fatalf("unexpected books: %+v %+v", b0, b1)
	}
	b2, err := b1.AddEntry(id, CategoryTests)
	if err != nil {
		t.Fatalf("add entry: %v", err)
	}
	b3, err := b2.SetEntryField(id, CategoryTests, 0, FieldScore, "15")
	if err != nil {
		t.Fatalf("set score: %v", err)
	}
	if b2.Subjects[0].Tests[0].Score.IsSet() {
		t.Fatalf("previous version was modified")
	}
	s, ok := b3.Subject(id)
	if !ok || s.Tests[0].Score.Float() != 15 {
		t.Fatalf("expected score 15, got %+v", s)
	}
	if b3.Version != 3 {
		t.Fatalf("expected version 3, got %d", b3.Version)
	}
	b4, err := b3.RemoveEntry(id, CategoryTests, 0)
	if err != nil {
		t.Fatalf("remove entry: %v", err)
	}
	if len(b4.Subjects[0].Tests) != 0 || len(b3.Subjects[0].Tests) != 1 {
		t.Fatalf("unexpected entries after removal")
	}
	b5, err := b4.RemoveSubject(id)
	if err != nil {
		t.Fatalf("remove subject: %v", err)
	}
	if len(b5.Subjects) != 0 || len(b4.Subjects) != 1 {
		t.Fatalf("unexpected subjects after removal")
	}
}

func TestBookErrors(t *testing.T) {
	var b Book
	if _, _, err := b.AddSubject(3, 1); !errors.Is(err, ErrInvalidTerm) {
		t.Fatalf("expected ErrInvalidTerm, got %v", err)
	}
	if _, err := b.RemoveSubject("missing"); !errors.Is(err, ErrSubjectNotFound) {
		t.Fatalf("expected ErrSubjectNotFound, got %v", err)
	}
	b, id, _ := b.AddSubject(1, 1)
	if _, err := b.SetEntryField(id, CategoryAssignments, 0, FieldScore, "1"); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
	if _, err := b.SetSubjectField(id, "colour", "x"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestAddSubjectKeepsExistingSubjects(t *testing.T) {
	var b0 Book
	b1, first, err := b0.AddSubject(1, 1)
	if err != nil {
		t.Fatalf("add first subject: %v", err)
	}
	b2, err := b1.SetSubjectField(first, FieldName, "Maths")
	if err != nil {
		t.Fatalf("name subject: %v", err)
	}
	b3, second, err := b2.AddSubject(1, 2)
	if err != nil {
		t.Fatalf("add second subject: %v", err)
	}
	if len(b3.Subjects) != 2 || b3.Version != 3 {
		t.Fatalf("expected 2 subjects at version 3, got %d at %d", len(b3.Subjects), b3.Version)
	}
	if s, ok := b3.Subject(first); !ok || s.Name != "Maths" {
		t.Fatalf("first subject lost after second add: %+v", b3.Subjects)
	}
	if b3.Subjects[1].ID != second {
		t.Fatalf("expected new subject appended last, got %+v", b3.Subjects)
	}
	if len(b2.Subjects) != 1 {
		t.Fatalf("previous version was modified: %+v", b2.Subjects)
	}
}

func TestBookTermsOrder(t *testing.T) {
	var b Book
	b, _, _ = b.AddSubject(2, 2)
	b, _, _ = b.AddSubject(1, 1)
	b, _, _ = b.AddSubject(1, 1)
	terms := b.Terms()
	if len(terms) != 4 {
		t.Fatalf("expected 4 terms, got %d", len(terms))
	}
	if len(terms[0].Subjects) != 2 || len(terms[3].Subjects) != 1 {
		t.Fatalf("unexpected grouping: %+v", terms)
	}
	if terms[1].Year != 1 || terms[1].Semester != 2 {
		t.Fatalf("unexpected term order: %+v", terms[1])
	}
}

func TestBookDecodesBrowserBlob(t *testing.T) {
	blob := `[{"id":1718200000000,"name":"Math","weight":"6","year":1,"semester":1,
		"tests":[{"score":"14","weight":"40"}],"assignments":[{"score":"","weight":"60"}],"expanded":true}]`
	var b Book
	if err := json.Unmarshal([]byte(blob), &b); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(b.Subjects) != 1 {
		t.Fatalf("expected 1 subject, got %d", len(b.Subjects))
	}
	s := b.Subjects[0]
	if s.ID != "1718200000000" || s.Weight.Float() != 6 {
		t.Fatalf("unexpected subject: %+v", s)
	}
	if !s.Assignments[0].Dangling() {
		t.Fatalf("expected dangling assignment")
	}
	if s.TargetGrade.IsSet() {
		t.Fatalf("expected target to be unset")
	}

	out, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var again Book
	if err := json.Unmarshal(out, &again); err != nil {
		t.Fatalf("decode again: %v", err)
	}
	if again.Subjects[0].Tests[0].Score.Raw() != "14" {
		t.Fatalf("round trip lost score: %s", out)
	}
}
