package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"mdpomo/internal/modules/pomolog/domain"
	pomologout "mdpomo/internal/modules/pomolog/port/out"
	"mdpomo/internal/platform/clock"
	apperrors "mdpomo/internal/platform/errors"
	"mdpomo/internal/platform/tx"
)

type Options struct {
	// UnderHeading groups entries under per-day headings with totals. When
	// false, lines are appended to the end of the document and no totals are
	// kept.
	UnderHeading bool
}

// LogService does every read-modify-write of a log document inside the
// transaction manager, keyed by document path.
type LogService struct {
	clock     clock.Clock
	store     pomologout.DocumentStore
	dest      pomologout.Destination
	projector pomologout.DayProjector
	tx        tx.Manager
	logger    hclog.Logger
	opts      Options
}

func NewLogService(
	clock clock.Clock,
	store pomologout.DocumentStore,
	dest pomologout.Destination,
	projector pomologout.DayProjector,
	txManager tx.Manager,
	logger hclog.Logger,
	opts Options,
) *LogService {
	if txManager == nil {
		txManager = tx.NoopManager{}
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &LogService{
		clock:     clock,
		store:     store,
		dest:      dest,
		projector: projector,
		tx:        txManager,
		logger:    logger,
		opts:      opts,
	}
}

type AppendResult struct {
	Path    string
	Line    string
	Created bool
}

// LogEntry renders entry and appends it to the log of the entry's day.
func (s *LogService) LogEntry(ctx context.Context, entry domain.Entry) (AppendResult, error) {
	if entry.Kind == domain.EntryNone {
		return AppendResult{}, fmt.Errorf("%w: entry kind is required", apperrors.ErrInvalidInput)
	}
	if entry.At.IsZero() {
		entry.At = s.clock.Now()
	}
	return s.appendLine(ctx, entry.At, entry.Render())
}

// Append adds free text as an entry line for today.
func (s *LogService) Append(ctx context.Context, line string) (AppendResult, error) {
	if line == "" {
		return AppendResult{}, fmt.Errorf("%w: log text is required", apperrors.ErrInvalidInput)
	}
	return s.appendLine(ctx, s.clock.Now(), line)
}

func (s *LogService) appendLine(ctx context.Context, day time.Time, line string) (AppendResult, error) {
	target, err := s.dest.Resolve(ctx, day)
	if err != nil {
		return AppendResult{}, err
	}
	result := AppendResult{Path: target.Path, Line: line}
	err = s.tx.Within(ctx, target.Path, func(ctx context.Context) error {
		content, err := s.readOrCreate(ctx, target)
		if err != nil {
			return err
		}
		var updated string
		if s.opts.UnderHeading {
			updated, result.Created = domain.AppendEntry(content, day, line)
		} else {
			updated = domain.AppendPlain(content, line)
		}
		if err := s.store.Write(ctx, target.Path, updated); err != nil {
			return fmt.Errorf("write log %s: %w", target.Path, err)
		}
		return nil
	})
	if err != nil {
		return AppendResult{}, err
	}
	return result, nil
}

type RecomputeResult struct {
	Path    string
	Found   bool
	Summary domain.Summary
}

// Recompute rewrites today's heading totals.
func (s *LogService) Recompute(ctx context.Context) (RecomputeResult, error) {
	return s.RecomputeDay(ctx, s.clock.Now())
}

// RecomputeDay rewrites the heading totals of day's section in day's log
// document. A missing document or section is not an error and nothing is
// written.
func (s *LogService) RecomputeDay(ctx context.Context, day time.Time) (RecomputeResult, error) {
	target, err := s.dest.Resolve(ctx, day)
	if err != nil {
		return RecomputeResult{}, err
	}
	result := RecomputeResult{Path: target.Path}
	if !s.opts.UnderHeading {
		return result, nil
	}
	err = s.tx.Within(ctx, target.Path, func(ctx context.Context) error {
		exists, err := s.store.Exists(ctx, target.Path)
		if err != nil || !exists {
			return err
		}
		content, err := s.store.Read(ctx, target.Path)
		if err != nil {
			return fmt.Errorf("read log %s: %w", target.Path, err)
		}
		summary, updated, ok := domain.RecomputeSummary(content, day)
		if !ok {
			return nil
		}
		result.Found = true
		result.Summary = summary
		if updated == content {
			return nil
		}
		if err := s.store.Write(ctx, target.Path, updated); err != nil {
			return fmt.Errorf("write log %s: %w", target.Path, err)
		}
		return nil
	})
	if err != nil {
		return RecomputeResult{}, err
	}
	for _, problem := range result.Summary.Problems {
		s.logger.Warn("unreadable duration in log entry", "path", target.Path, "line", problem.Line, "error", problem.Err)
	}
	if result.Found {
		s.project(ctx, domain.RecordFromSummary(result.Summary, s.clock.Now()))
	}
	return result, nil
}

type DayResult struct {
	Path  string
	Found bool
	Day   domain.Summary
}

// Today scans today's section without writing anything.
func (s *LogService) Today(ctx context.Context) (DayResult, error) {
	now := s.clock.Now()
	content, path, err := s.readCurrent(ctx, now)
	if err != nil {
		return DayResult{Path: path}, err
	}
	prefix := domain.HeadingPrefix(now)
	for _, day := range domain.ParseDays(content) {
		if strings.HasPrefix(day.Heading, prefix) {
			return DayResult{Path: path, Found: true, Day: day}, nil
		}
	}
	return DayResult{Path: path}, nil
}

type DocumentResult struct {
	Path    string
	Exists  bool
	Content string
}

func (s *LogService) Document(ctx context.Context) (DocumentResult, error) {
	target, err := s.dest.Resolve(ctx, s.clock.Now())
	if err != nil {
		return DocumentResult{}, err
	}
	exists, err := s.store.Exists(ctx, target.Path)
	if err != nil {
		return DocumentResult{Path: target.Path}, err
	}
	if !exists {
		return DocumentResult{Path: target.Path}, nil
	}
	content, err := s.store.Read(ctx, target.Path)
	if err != nil {
		return DocumentResult{Path: target.Path}, fmt.Errorf("read log %s: %w", target.Path, err)
	}
	return DocumentResult{Path: target.Path, Exists: true, Content: content}, nil
}

type ReindexResult struct {
	Path string
	Days int
}

// Reindex rebuilds the day projection from the current log document.
func (s *LogService) Reindex(ctx context.Context) (ReindexResult, error) {
	if s.projector == nil {
		return ReindexResult{}, fmt.Errorf("day projection is not configured")
	}
	now := s.clock.Now()
	content, path, err := s.readCurrent(ctx, now)
	if err != nil {
		return ReindexResult{Path: path}, err
	}
	days := domain.ParseDays(content)
	records := make([]domain.DayRecord, 0, len(days))
	for _, day := range days {
		records = append(records, domain.RecordFromSummary(day, now))
	}
	if err := s.projector.ReplaceAll(ctx, records); err != nil {
		return ReindexResult{Path: path}, err
	}
	return ReindexResult{Path: path, Days: len(days)}, nil
}

// Stats lists per-day totals, newest first. The projection is preferred;
// without one the document is scanned directly.
func (s *LogService) Stats(ctx context.Context, limit int) ([]domain.DayRecord, error) {
	if limit <= 0 {
		limit = 30
	}
	if s.projector != nil {
		return s.projector.ListDays(ctx, limit)
	}
	now := s.clock.Now()
	content, _, err := s.readCurrent(ctx, now)
	if err != nil {
		return nil, err
	}
	days := domain.ParseDays(content)
	records := make([]domain.DayRecord, 0, len(days))
	for _, day := range days {
		records = append(records, domain.RecordFromSummary(day, now))
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].Day > records[j].Day })
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (s *LogService) project(ctx context.Context, record domain.DayRecord) {
	if s.projector == nil {
		return
	}
	if err := s.projector.UpsertDay(ctx, record); err != nil {
		s.logger.Warn("day projection update failed", "day", record.Day, "error", err)
	}
}

func (s *LogService) readOrCreate(ctx context.Context, target domain.Target) (string, error) {
	exists, err := s.store.Exists(ctx, target.Path)
	if err != nil {
		return "", err
	}
	if !exists {
		if err := s.store.Create(ctx, target.Path, target.Initial); err != nil {
			return "", fmt.Errorf("create log %s: %w", target.Path, err)
		}
		s.logger.Info("created log document", "path", target.Path)
		return target.Initial, nil
	}
	content, err := s.store.Read(ctx, target.Path)
	if err != nil {
		return "", fmt.Errorf("read log %s: %w", target.Path, err)
	}
	return content, nil
}

// readCurrent returns "" for a log document that does not exist yet.
func (s *LogService) readCurrent(ctx context.Context, now time.Time) (string, string, error) {
	target, err := s.dest.Resolve(ctx, now)
	if err != nil {
		return "", "", err
	}
	exists, err := s.store.Exists(ctx, target.Path)
	if err != nil {
		return "", target.Path, err
	}
	if !exists {
		return "", target.Path, nil
	}
	content, err := s.store.Read(ctx, target.Path)
	if err != nil {
		return "", target.Path, fmt.Errorf("read log %s: %w", target.Path, err)
	}
	return content, target.Path, nil
}
