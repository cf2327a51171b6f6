package stats

import (
	"context"

	"github.com/verte-zerg/gradeplan/internal/distribution"
	"github.com/verte-zerg/gradeplan/internal/grade"
	"github.com/verte-zerg/gradeplan/internal/model"
	"github.com/verte-zerg/gradeplan/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Book      model.Book
	Summary   grade.Summary
	History   []model.HistoryPoint
	Histogram distribution.Histogram
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st store.Store, cfg model.StatsConfig) (Report, error) {
	book, _, err := st.LoadBook(ctx)
	if err != nil {
		return Report{}, err
	}
	history, err := st.ListHistory(ctx, cfg.Since, cfg.Last)
	if err != nil {
		return Report{}, err
	}
	marker := cfg.MyGrade
	if marker <= 0 {
		marker = distribution.DefaultMarker
	}
	return Report{
		Book:      book,
		Summary:   grade.Summarize(book.Subjects),
		History:   history,
		Histogram: distribution.Build(distribution.Historical, marker),
	}, nil
}

// LastSave returns the most recent history point, if any.
func (r Report) LastSave() (model.HistoryPoint, bool) {
	if len(r.History) == 0 {
		return model.HistoryPoint{}, false
	}
	return r.History[len(r.History)-1], true
}
