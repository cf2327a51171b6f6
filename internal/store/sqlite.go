package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/gradeplan/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// SQLiteStore keeps the book and its history in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the SQLite database and applies migrations.
func OpenSQLite(path string) (*SQLiteStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	st := &SQLiteStore{db: db}
	if err := st.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return st, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			version INTEGER NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS history (
			id INTEGER PRIMARY KEY,
			saved_at TEXT NOT NULL,
			version INTEGER NOT NULL,
			overall REAL NOT NULL,
			tests REAL NOT NULL,
			assignments REAL NOT NULL,
			subjects INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_history_saved_at ON history(saved_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// LoadBook implements Store.
func (s *SQLiteStore) LoadBook(ctx context.Context) (model.Book, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, bookKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Book{}, false, nil
	}
	if err != nil {
		return model.Book{}, false, err
	}
	var book model.Book
	if err := json.Unmarshal([]byte(raw), &book); err != nil {
		return model.Book{}, false, fmt.Errorf("failed to decode stored subjects: %w", err)
	}
	return book, true, nil
}

// SaveBook implements Store.
func (s *SQLiteStore) SaveBook(ctx context.Context, book model.Book, point model.HistoryPoint) (err error) {
	data, err := json.Marshal(book)
	if err != nil {
		return fmt.Errorf("failed to encode subjects: %w", err)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	savedAt := point.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now()
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO kv (key, value, version, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, version = excluded.version, updated_at = excluded.updated_at`,
		bookKey, string(data), book.Version, formatSavedAt(savedAt),
	); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO history (saved_at, version, overall, tests, assignments, subjects)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		formatSavedAt(savedAt),
		point.Version,
		point.Overall,
		point.Tests,
		point.Assignments,
		point.Subjects,
	); err != nil {
		return err
	}
	return tx.Commit()
}

// ListHistory implements Store.
func (s *SQLiteStore) ListHistory(ctx context.Context, since *time.Time, last int) ([]model.HistoryPoint, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if since != nil {
		clauses = append(clauses, "saved_at >= ?")
		args = append(args, formatSavedAt(*since))
	}
	limit := -1
	if last > 0 {
		limit = last
	}
	args = append(args, limit)
	query := fmt.Sprintf(`SELECT saved_at, version, overall, tests, assignments, subjects FROM (
		SELECT id, saved_at, version, overall, tests, assignments, subjects
		FROM history
		WHERE %s
		ORDER BY id DESC
		LIMIT ?
	) ORDER BY id ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var points []model.HistoryPoint
	for rows.Next() {
		var p model.HistoryPoint
		var savedAt string
		if err := rows.Scan(&savedAt, &p.Version, &p.Overall, &p.Tests, &p.Assignments, &p.Subjects); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, savedAt)
		if err != nil {
			return nil, err
		}
		p.SavedAt = parsed
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return points, nil
}

// savedAtLayout is fixed-width UTC so that saved_at compares as text.
const savedAtLayout = "2006-01-02T15:04:05.000000000Z"

func formatSavedAt(t time.Time) string {
	return t.UTC().Format(savedAtLayout)
}
