package out

import (
	"context"
	"time"

	"mdpomo/internal/modules/pomolog/domain"
)

// DocumentStore reads and writes vault documents by vault-relative path.
type DocumentStore interface {
	Read(ctx context.Context, path string) (string, error)
	Write(ctx context.Context, path, content string) error
	Exists(ctx context.Context, path string) (bool, error)
	Create(ctx context.Context, path, initial string) error
}

// Destination picks the document that holds the log for day.
type Destination interface {
	Resolve(ctx context.Context, day time.Time) (domain.Target, error)
}

// DayProjector holds derived per-day totals. ReplaceAll is atomic.
type DayProjector interface {
	ReplaceAll(ctx context.Context, records []domain.DayRecord) error
	UpsertDay(ctx context.Context, record domain.DayRecord) error
	ListDays(ctx context.Context, limit int) ([]domain.DayRecord, error)
}
