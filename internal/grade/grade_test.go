package grade

import (
	"math"
	"testing"

	"github.com/verte-zerg/gradeplan/internal/model"
)

func entry(score, weight string) model.Entry {
	return model.Entry{Score: model.ParseValue(score), Weight: model.ParseValue(weight)}
}

func subject(credits string, tests, assignments []model.Entry) model.Subject {
	return model.Subject{
		ID:          "s",
		Weight:      model.ParseValue(credits),
		Year:        1,
		Semester:    1,
		Tests:       tests,
		Assignments: assignments,
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSubjectGradeWeightedAverage(t *testing.T) {
	s := subject("5", []model.Entry{entry("10", "50"), entry("20", "50")}, nil)
	if got := SubjectGrade(s); !almostEqual(got, 15) {
		t.Fatalf("expected 15, got %v", got)
	}
}

func TestSubjectGradeIgnoresIncompleteEntries(t *testing.T) {
	s := subject("5",
		[]model.Entry{entry("12", "40"), entry("20", "0"), entry("", "30"), entry("18", "")},
		[]model.Entry{entry("abc", "")},
	)
	if got := SubjectGrade(s); !almostEqual(got, 12) {
		t.Fatalf("expected 12, got %v", got)
	}
}

func TestSubjectGradePoolsCategories(t *testing.T) {
	s := subject("5", []model.Entry{entry("10", "30")}, []model.Entry{entry("20", "10")})
	if got := SubjectGrade(s); !almostEqual(got, 12.5) {
		t.Fatalf("expected 12.5, got %v", got)
	}
	if got := CategoryGrade(s, model.CategoryTests); !almostEqual(got, 10) {
		t.Fatalf("expected tests grade 10, got %v", got)
	}
	if got := CategoryGrade(s, model.CategoryAssignments); !almostEqual(got, 20) {
		t.Fatalf("expected assignments grade 20, got %v", got)
	}
}

func TestSubjectGradeExtraPoints(t *testing.T) {
	s := subject("5", []model.Entry{entry("19", "100")}, nil)
	s.ExtraPoints = model.ParseValue("2")
	if got := SubjectGrade(s); !almostEqual(got, 21) {
		t.Fatalf("expected unclamped 21, got %v", got)
	}
	if got := CategoryGrade(s, model.CategoryTests); !almostEqual(got, 19) {
		t.Fatalf("category grade must not include extra points, got %v", got)
	}

	empty := subject("5", nil, nil)
	if got := SubjectGrade(empty); got != 0 {
		t.Fatalf("expected 0 for empty subject, got %v", got)
	}
	empty.ExtraPoints = model.ParseValue("1.5")
	if got := SubjectGrade(empty); !almostEqual(got, 1.5) {
		t.Fatalf("expected extra points only, got %v", got)
	}
	empty.ExtraPoints = model.ParseValue("lots")
	if got := SubjectGrade(empty); got != 0 {
		t.Fatalf("expected malformed extra points to count as 0, got %v", got)
	}
}

func TestOverallMeanRoundsBeforeAveraging(t *testing.T) {
	a := subject("5", []model.Entry{entry("11.6", "100")}, nil)
	b := subject("5", []model.Entry{entry("12.4", "100")}, nil)
	if got := OverallMean([]model.Subject{a, b}); !almostEqual(got, 12) {
		t.Fatalf("expected 12, got %v", got)
	}

	c := subject("1", []model.Entry{entry("10.5", "100")}, nil)
	d := subject("3", []model.Entry{entry("14.2", "100")}, nil)
	// round(10.5)=11, round(14.2)=14 -> (11*1 + 14*3) / 4
	if got := OverallMean([]model.Subject{c, d}); !almostEqual(got, 13.25) {
		t.Fatalf("expected 13.25, got %v", got)
	}
}

func TestOverallMeanExcludesDanglingWeight(t *testing.T) {
	good := subject("5", []model.Entry{entry("10", "100")}, nil)
	dangling := subject("5", []model.Entry{entry("", "50"), entry("20", "50")}, nil)
	if Eligible(dangling) {
		t.Fatalf("subject with dangling weight must not be eligible")
	}
	if got := OverallMean([]model.Subject{good, dangling}); !almostEqual(got, 10) {
		t.Fatalf("expected 10, got %v", got)
	}

	danglingAssignment := subject("5", []model.Entry{entry("20", "50")}, []model.Entry{entry("", "10")})
	if Eligible(danglingAssignment) {
		t.Fatalf("dangling assignment must exclude the subject")
	}
	if !CategoryEligible(danglingAssignment, model.CategoryTests) {
		t.Fatalf("tests category should still be eligible")
	}
}

func TestOverallMeanEdgeCases(t *testing.T) {
	if got := OverallMean(nil); got != 0 {
		t.Fatalf("expected 0 for no subjects, got %v", got)
	}
	noCredits := subject("", []model.Entry{entry("15", "100")}, nil)
	if got := OverallMean([]model.Subject{noCredits}); got != 0 {
		t.Fatalf("expected 0 when total credit is 0, got %v", got)
	}
	onlyEmpty := subject("5", []model.Entry{entry("", "")}, nil)
	if Eligible(onlyEmpty) {
		t.Fatalf("subject without complete entries must not be eligible")
	}
	zeroScore := subject("5", []model.Entry{entry("0", "100")}, nil)
	if !Eligible(zeroScore) {
		t.Fatalf("a score of 0 is present and complete")
	}
}

func TestCategoryMeanDoesNotRound(t *testing.T) {
	a := subject("5", []model.Entry{entry("11.6", "100")}, []model.Entry{entry("", "20")})
	b := subject("5", []model.Entry{entry("12.5", "100")}, nil)
	if got := CategoryMean([]model.Subject{a, b}, model.CategoryTests); !almostEqual(got, 12.05) {
		t.Fatalf("expected 12.05, got %v", got)
	}
	if got := CategoryMean([]model.Subject{a, b}, model.CategoryAssignments); got != 0 {
		t.Fatalf("expected 0 assignments mean, got %v", got)
	}
	if got := OverallMean([]model.Subject{a, b}); !almostEqual(got, 13) {
		t.Fatalf("expected overall mean 13 from subject b only, got %v", got)
	}
}

func TestSummarizeIsIdempotent(t *testing.T) {
	subjects := []model.Subject{
		subject("6", []model.Entry{entry("14", "60")}, []model.Entry{entry("16", "40")}),
		subject("3", []model.Entry{entry("9", "100")}, nil),
	}
	first := Summarize(subjects)
	second := Summarize(subjects)
	if first != second {
		t.Fatalf("expected identical summaries, got %+v and %+v", first, second)
	}
	if first.Eligible != 2 {
		t.Fatalf("expected 2 eligible subjects, got %d", first.Eligible)
	}
}

func TestRound(t *testing.T) {
	cases := map[float64]float64{11.5: 12, 11.49: 11, 0: 0, 20.5: 21, -2.5: -2}
	for in, want := range cases {
		if got := Round(in); got != want {
			t.Fatalf("Round(%v) = %v, want %v", in, got, want)
		}
	}
}
