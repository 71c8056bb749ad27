package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mdpomo/internal/modules/pomolog/domain"
	"mdpomo/internal/modules/pomolog/dto"
	pomologin "mdpomo/internal/modules/pomolog/port/in"
	"mdpomo/internal/modules/pomolog/service"
	apperrors "mdpomo/internal/platform/errors"
)

type Interactor struct {
	svc *service.LogService
}

func NewInteractor(svc *service.LogService) pomologin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) LogEntry(ctx context.Context, input dto.EntryInput) (dto.AppendOutput, error) {
	kind, err := domain.ParseEntryKind(input.Kind)
	if err != nil {
		return dto.AppendOutput{}, err
	}
	if input.HasDuration && input.Duration < 0 {
		return dto.AppendOutput{}, fmt.Errorf("%w: negative duration", apperrors.ErrInvalidInput)
	}
	result, err := i.svc.LogEntry(ctx, domain.Entry{
		Kind:        kind,
		At:          input.At,
		Duration:    input.Duration,
		HasDuration: input.HasDuration,
		NoteLink:    input.NoteLink,
	})
	if err != nil {
		return dto.AppendOutput{}, err
	}
	return dto.AppendOutput{Path: result.Path, Line: result.Line, Created: result.Created}, nil
}

func (i *Interactor) Append(ctx context.Context, input dto.AppendInput) (dto.AppendOutput, error) {
	text := strings.TrimSpace(input.Text)
	if strings.ContainsAny(text, "\r\n") {
		return dto.AppendOutput{}, fmt.Errorf("%w: log text must be a single line", apperrors.ErrInvalidInput)
	}
	result, err := i.svc.Append(ctx, text)
	if err != nil {
		return dto.AppendOutput{}, err
	}
	return dto.AppendOutput{Path: result.Path, Line: result.Line, Created: result.Created}, nil
}

func (i *Interactor) Recompute(ctx context.Context) (dto.SummaryOutput, error) {
	return i.summarize(i.svc.Recompute(ctx))
}

// RecomputeDay refreshes the section of day, which may not be today when an
// entry was filed just before midnight.
func (i *Interactor) RecomputeDay(ctx context.Context, day time.Time) (dto.SummaryOutput, error) {
	if day.IsZero() {
		return i.Recompute(ctx)
	}
	return i.summarize(i.svc.RecomputeDay(ctx, day))
}

func (i *Interactor) summarize(result service.RecomputeResult, err error) (dto.SummaryOutput, error) {
	if err != nil {
		return dto.SummaryOutput{Path: result.Path}, err
	}
	problems := make([]string, 0, len(result.Summary.Problems))
	for _, problem := range result.Summary.Problems {
		problems = append(problems, problem.String())
	}
	return dto.SummaryOutput{
		Path:     result.Path,
		Day:      result.Summary.Day,
		Found:    result.Found,
		Heading:  result.Summary.Heading,
		Work:     result.Summary.Totals.Work,
		Break:    result.Summary.Totals.Break,
		Total:    result.Summary.Totals.Total(),
		Problems: problems,
	}, nil
}

func (i *Interactor) Today(ctx context.Context) (dto.TodayOutput, error) {
	result, err := i.svc.Today(ctx)
	if err != nil {
		return dto.TodayOutput{Path: result.Path}, err
	}
	return dto.TodayOutput{Path: result.Path, Found: result.Found, Day: toDayOutput(result.Day)}, nil
}

func (i *Interactor) Document(ctx context.Context) (dto.DocumentOutput, error) {
	result, err := i.svc.Document(ctx)
	if err != nil {
		return dto.DocumentOutput{Path: result.Path}, err
	}
	return dto.DocumentOutput{Path: result.Path, Exists: result.Exists, Content: result.Content}, nil
}

func (i *Interactor) Stats(ctx context.Context, input dto.StatsInput) (dto.StatsOutput, error) {
	if input.Limit < 0 {
		return dto.StatsOutput{}, fmt.Errorf("%w: limit must not be negative", apperrors.ErrInvalidInput)
	}
	records, err := i.svc.Stats(ctx, input.Limit)
	if err != nil {
		return dto.StatsOutput{}, err
	}
	out := dto.StatsOutput{Days: make([]dto.DayOutput, 0, len(records))}
	for _, record := range records {
		out.Days = append(out.Days, dto.DayOutput{
			Day:     record.Day,
			Weekday: record.Weekday,
			Work:    record.Totals.Work,
			Break:   record.Totals.Break,
			Total:   record.Totals.Total(),
			Entries: record.Entries,
		})
		out.Work += record.Totals.Work
		out.Break += record.Totals.Break
	}
	out.Total = out.Work + out.Break
	return out, nil
}

func (i *Interactor) Reindex(ctx context.Context) (dto.ReindexOutput, error) {
	result, err := i.svc.Reindex(ctx)
	if err != nil {
		return dto.ReindexOutput{Path: result.Path}, err
	}
	return dto.ReindexOutput{Path: result.Path, Days: result.Days}, nil
}

func toDayOutput(summary domain.Summary) dto.DayOutput {
	return dto.DayOutput{
		Day:     summary.Day,
		Weekday: summary.Weekday,
		Heading: summary.Heading,
		Work:    summary.Totals.Work,
		Break:   summary.Totals.Break,
		Total:   summary.Totals.Total(),
		Entries: summary.Entries,
		Body:    summary.Body,
	}
}
