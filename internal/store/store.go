// Package store persists the subject collection and its save history.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/verte-zerg/gradeplan/internal/model"
)

// Supported backends.
const (
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
)

// bookKey is the key-value slot holding the serialized collection.
const bookKey = "subjects"

// Store is the durable key-value slot the UI saves to after every mutation.
type Store interface {
	// LoadBook restores the last saved book. found is false for a fresh store.
	LoadBook(ctx context.Context) (book model.Book, found bool, err error)
	// SaveBook replaces the stored book and appends a history point.
	SaveBook(ctx context.Context, book model.Book, point model.HistoryPoint) error
	// ListHistory returns history points oldest first, optionally limited to
	// points saved at or after since and to the last n points.
	ListHistory(ctx context.Context, since *time.Time, last int) ([]model.HistoryPoint, error)
	Close() error
}

// Open opens the store for the given backend, creating it when missing.
func Open(backend, path string) (Store, error) {
	switch backend {
	case "", BackendSQLite:
		return OpenSQLite(path)
	case BackendBolt:
		return OpenBolt(path)
	default:
		return nil, fmt.Errorf("unknown store backend %q (want %s or %s)", backend, BackendSQLite, BackendBolt)
	}
}

func trimHistory(points []model.HistoryPoint, since *time.Time, last int) []model.HistoryPoint {
	if since != nil {
		kept := points[:0]
		for _, p := range points {
			if !p.SavedAt.Before(*since) {
				kept = append(kept, p)
			}
		}
		points = kept
	}
	if last > 0 && len(points) > last {
		points = points[len(points)-last:]
	}
	return points
}
