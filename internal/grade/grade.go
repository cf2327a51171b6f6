// Package grade computes weighted subject grades, credit-weighted means and
// the grade still required to reach a subject target.
//
// Every function is a pure transform over the snapshot it is given. Numeric
// fields that are empty or malformed count as 0, while completeness checks use
// presence: an empty score and a score of "0" are different things.
package grade

import (
	"math"

	"github.com/verte-zerg/gradeplan/internal/model"
)

// MaxGrade is the top of the grading scale.
const MaxGrade = 20.0

// Summary bundles the three means shown together by the UI.
type Summary struct {
	Overall     float64
	Tests       float64
	Assignments float64
	Eligible    int
}

// Complete reports whether an entry takes part in grade computations.
func Complete(e model.Entry) bool {
	return e.Score.IsSet() && e.Weight.Float() > 0
}

// SubjectGrade pools the complete tests and assignments of a subject into a
// weighted average and adds the subject's extra points. The result is not
// clamped to the grading scale.
func SubjectGrade(s model.Subject) float64 {
	base := weightedAverage(s.Tests, s.Assignments)
	return base + s.ExtraPoints.Float()
}

// CategoryGrade is the weighted average of one category's complete entries.
// Extra points are not added.
func CategoryGrade(s model.Subject, c model.Category) float64 {
	return weightedAverage(s.Entries(c))
}

// Eligible reports whether a subject counts toward OverallMean: it needs at
// least one complete entry and no weight waiting for a score.
func Eligible(s model.Subject) bool {
	hasComplete := anyComplete(s.Tests) || anyComplete(s.Assignments)
	return hasComplete && !anyDangling(s.Tests) && !anyDangling(s.Assignments)
}

// CategoryEligible is Eligible restricted to one category.
func CategoryEligible(s model.Subject, c model.Category) bool {
	entries := s.Entries(c)
	return anyComplete(entries) && !anyDangling(entries)
}

// OverallMean is the credit-weighted mean of the eligible subjects. Each
// subject grade is rounded to a whole number before it is weighted.
func OverallMean(subjects []model.Subject) float64 {
	var weighted, credits float64
	for _, s := range subjects {
		if !Eligible(s) {
			continue
		}
		w := s.Weight.Float()
		weighted += Round(SubjectGrade(s)) * w
		credits += w
	}
	if credits <= 0 {
		return 0
	}
	return weighted / credits
}

// CategoryMean is the credit-weighted mean of unrounded category grades over
// the subjects eligible for that category.
func CategoryMean(subjects []model.Subject, c model.Category) float64 {
	var weighted, credits float64
	for _, s := range subjects {
		if !CategoryEligible(s, c) {
			continue
		}
		w := s.Weight.Float()
		weighted += CategoryGrade(s, c) * w
		credits += w
	}
	if credits <= 0 {
		return 0
	}
	return weighted / credits
}

// Summarize computes all three means for a snapshot.
func Summarize(subjects []model.Subject) Summary {
	eligible := 0
	for _, s := range subjects {
		if Eligible(s) {
			eligible++
		}
	}
	return Summary{
		Overall:     OverallMean(subjects),
		Tests:       CategoryMean(subjects, model.CategoryTests),
		Assignments: CategoryMean(subjects, model.CategoryAssignments),
		Eligible:    eligible,
	}
}

// Round rounds to the nearest whole grade; halves go up (11.5 -> 12, -2.5 -> -2).
func Round(v float64) float64 {
	return math.Floor(v + 0.5)
}

// RoundTo rounds v to the given number of decimals.
func RoundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

func weightedAverage(groups ...[]model.Entry) float64 {
	var sum, total float64
	for _, entries := range groups {
		for _, e := range entries {
			if !Complete(e) {
				continue
			}
			w := e.Weight.Float()
			sum += e.Score.Float() * w
			total += w
		}
	}
	if total == 0 {
		return 0
	}
	return sum / total
}

func anyComplete(entries []model.Entry) bool {
	for _, e := range entries {
		if Complete(e) {
			return true
		}
	}
	return false
}

func anyDangling(entries []model.Entry) bool {
	for _, e := range entries {
		if e.Dangling() {
			return true
		}
	}
	return false
}
