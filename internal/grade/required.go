package grade

import (
	"fmt"

	"github.com/verte-zerg/gradeplan/internal/model"
)

// Status classifies a required-grade projection.
type Status int

const (
	StatusNoTarget Status = iota
	StatusRequired
	StatusTargetAchieved
	StatusTargetNotAchieved
	StatusNotAchievable
	StatusAlreadyAchieved
)

func (s Status) String() string {
	switch s {
	case StatusNoTarget:
		return "No target"
	case StatusRequired:
		return "Required"
	case StatusTargetAchieved:
		return "Target Achieved"
	case StatusTargetNotAchieved:
		return "Target Not Achieved"
	case StatusNotAchievable:
		return "Not achievable"
	case StatusAlreadyAchieved:
		return "Already achieved"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Projection is the answer to "what do I need on the remaining work?".
// Grade is only meaningful when Status is StatusRequired.
type Projection struct {
	Status Status
	Grade  float64
}

func (p Projection) String() string {
	if p.Status == StatusRequired {
		return fmt.Sprintf("%.2f", p.Grade)
	}
	return p.Status.String()
}

// RequiredGrade solves the weighted average for the score needed on the
// weight that has no score yet, so that the subject reaches its target after
// extra points are added.
func RequiredGrade(s model.Subject) Projection {
	if !s.TargetGrade.Valid() {
		return Projection{Status: StatusNoTarget}
	}
	target := s.TargetGrade.Float()
	adjusted := target - s.ExtraPoints.Float()

	var totalWeight, completedWeight, completedSum float64
	for _, entries := range [][]model.Entry{s.Tests, s.Assignments} {
		for _, e := range entries {
			w := e.Weight.Float()
			if w <= 0 {
				continue
			}
			totalWeight += w
			if e.Score.IsSet() {
				completedWeight += w
				completedSum += e.Score.Float() * w
			}
		}
	}

	remaining := totalWeight - completedWeight
	if remaining <= 0 {
		if SubjectGrade(s) >= target {
			return Projection{Status: StatusTargetAchieved}
		}
		return Projection{Status: StatusTargetNotAchieved}
	}

	required := (adjusted*totalWeight - completedSum) / remaining
	switch {
	case required > MaxGrade:
		return Projection{Status: StatusNotAchievable}
	case required < 0:
		return Projection{Status: StatusAlreadyAchieved}
	default:
		return Projection{Status: StatusRequired, Grade: RoundTo(required, 2)}
	}
}
