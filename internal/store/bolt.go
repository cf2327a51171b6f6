package store

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/verte-zerg/gradeplan/internal/model"
)

var (
	kvBucket      = []byte("kv")
	historyBucket = []byte("history")
)

// BoltStore keeps the book and its history in a bbolt file.
type BoltStore struct {
	db *bbolt.DB
}

type historyRecord struct {
	SavedAt     time.Time `json:"saved_at"`
	Version     uint64    `json:"version"`
	Overall     float64   `json:"overall"`
	Tests       float64   `json:"tests"`
	Assignments float64   `json:"assignments"`
	Subjects    int       `json:"subjects"`
}

// OpenBolt opens or creates the bbolt file and its buckets.
func OpenBolt(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{kvBucket, historyBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on bucket setup failure.
			_ = cerr
		}
		return nil, err
	}
	return &BoltStore{db: db}, nil
}

// Close closes the underlying file.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// LoadBook implements Store.
func (s *BoltStore) LoadBook(_ context.Context) (model.Book, bool, error) {
	var book model.Book
	found := false
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(kvBucket).Get([]byte(bookKey))
		if v == nil {
			return nil
		}
		found = true
		return json.Unmarshal(v, &book)
	})
	if err != nil {
		return model.Book{}, false, fmt.Errorf("failed to decode stored subjects: %w", err)
	}
	return book, found, nil
}

// SaveBook implements Store.
func (s *BoltStore) SaveBook(ctx context.Context, book model.Book, point model.HistoryPoint) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(book)
	if err != nil {
		return fmt.Errorf("failed to encode subjects: %w", err)
	}
	if point.SavedAt.IsZero() {
		point.SavedAt = time.Now()
	}
	rec, err := json.Marshal(historyRecord(point))
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(kvBucket).Put([]byte(bookKey), data); err != nil {
			return err
		}
		hist := tx.Bucket(historyBucket)
		seq, err := hist.NextSequence()
		if err != nil {
			return err
		}
		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, seq)
		return hist.Put(key, rec)
	})
}

// ListHistory implements Store.
func (s *BoltStore) ListHistory(ctx context.Context, since *time.Time, last int) ([]model.HistoryPoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var points []model.HistoryPoint
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(historyBucket).ForEach(func(_, v []byte) error {
			var rec historyRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			points = append(points, model.HistoryPoint(rec))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return trimHistory(points, since, last), nil
}
