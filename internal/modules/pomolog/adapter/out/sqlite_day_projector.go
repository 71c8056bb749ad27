package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"mdpomo/internal/modules/pomolog/domain"

	_ "modernc.org/sqlite"
)

// SQLiteDayProjector keeps derived per-day totals for fast stats queries.
// The log document stays the source of truth; reindex rebuilds the table.
type SQLiteDayProjector struct {
	db *sql.DB
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func NewSQLiteDayProjector(dbPath string) (*SQLiteDayProjector, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	projector := &SQLiteDayProjector{db: db}
	if err := projector.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return projector, nil
}

func (s *SQLiteDayProjector) Close() error {
	return s.db.Close()
}

func (s *SQLiteDayProjector) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS day_totals (
  day TEXT PRIMARY KEY CHECK (length(day) = 10),
  weekday TEXT NOT NULL,
  work_ms INTEGER NOT NULL,
  break_ms INTEGER NOT NULL,
  total_ms INTEGER NOT NULL,
  entries INTEGER NOT NULL,
  updated_at TEXT NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create day_totals table: %w", err)
	}
	return nil
}

// ReplaceAll swaps the whole projection for records in one transaction. On
// error the previous rows are kept.
func (s *SQLiteDayProjector) ReplaceAll(ctx context.Context, records []domain.DayRecord) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reindex: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err = tx.ExecContext(ctx, `DELETE FROM day_totals`); err != nil {
		return fmt.Errorf("reset day_totals: %w", err)
	}
	for _, record := range records {
		if err = upsertDay(ctx, tx, record); err != nil {
			return err
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit reindex: %w", err)
	}
	return nil
}

func (s *SQLiteDayProjector) UpsertDay(ctx context.Context, record domain.DayRecord) error {
	return upsertDay(ctx, s.db, record)
}

func upsertDay(ctx context.Context, db execer, record domain.DayRecord) error {
	const stmt = `
INSERT INTO day_totals (day, weekday, work_ms, break_ms, total_ms, entries, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(day) DO UPDATE SET
  weekday=excluded.weekday,
  work_ms=excluded.work_ms,
  break_ms=excluded.break_ms,
  total_ms=excluded.total_ms,
  entries=excluded.entries,
  updated_at=excluded.updated_at;
`
	_, err := db.ExecContext(ctx, stmt,
		record.Day,
		record.Weekday,
		record.Totals.Work.Milliseconds(),
		record.Totals.Break.Milliseconds(),
		record.Totals.Total().Milliseconds(),
		record.Entries,
		record.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upsert day %s: %w", record.Day, err)
	}
	return nil
}

func (s *SQLiteDayProjector) ListDays(ctx context.Context, limit int) ([]domain.DayRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT day, weekday, work_ms, break_ms, entries, updated_at
FROM day_totals
ORDER BY day DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query day_totals: %w", err)
	}
	defer rows.Close()

	var out []domain.DayRecord
	for rows.Next() {
		var (
			record    domain.DayRecord
			workMS    int64
			breakMS   int64
			updatedAt string
		)
		if err := rows.Scan(&record.Day, &record.Weekday, &workMS, &breakMS, &record.Entries, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan day_totals: %w", err)
		}
		record.Totals = domain.Totals{
			Work:  time.Duration(workMS) * time.Millisecond,
			Break: time.Duration(breakMS) * time.Millisecond,
		}
		if parsed, parseErr := time.Parse(time.RFC3339, updatedAt); parseErr == nil {
			record.UpdatedAt = parsed
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate day_totals: %w", err)
	}
	return out, nil
}
