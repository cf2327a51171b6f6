package stats

import (
	"sort"

	"github.com/verte-zerg/gradeplan/internal/grade"
	"github.com/verte-zerg/gradeplan/internal/model"
)

// PassMark is the lowest whole grade that passes a subject.
const PassMark = 10

// RankSubjects returns the labels of the n best eligible subjects by grade.
func RankSubjects(subjects []model.Subject, n int) []string {
	if n <= 0 || len(subjects) == 0 {
		return nil
	}
	type item struct {
		label string
		grade float64
	}
	items := make([]item, 0, len(subjects))
	for _, s := range subjects {
		if !grade.Eligible(s) {
			continue
		}
		items = append(items, item{label: s.Label(), grade: grade.SubjectGrade(s)})
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].grade == items[j].grade {
			return items[i].label < items[j].label
		}
		return items[i].grade > items[j].grade
	})
	if n > len(items) {
		n = len(items)
	}
	out := make([]string, 0, n)
	for _, it := range items[:n] {
		out = append(out, it.label)
	}
	return out
}

// SelectAtRisk returns subjects whose rounded grade is below passMark or
// whose target can no longer be reached, lowest grade first.
func SelectAtRisk(subjects []model.Subject, passMark float64) []model.Subject {
	var risky []model.Subject
	for _, s := range subjects {
		status := grade.RequiredGrade(s).Status
		unreachable := status == grade.StatusNotAchievable || status == grade.StatusTargetNotAchieved
		failing := grade.Eligible(s) && grade.Round(grade.SubjectGrade(s)) < passMark
		if unreachable || failing {
			risky = append(risky, s)
		}
	}
	sort.SliceStable(risky, func(i, j int) bool {
		return grade.SubjectGrade(risky[i]) < grade.SubjectGrade(risky[j])
	})
	return risky
}
