package in

import (
	"context"
	"time"

	"mdpomo/internal/modules/pomolog/dto"
)

type Usecase interface {
	LogEntry(ctx context.Context, input dto.EntryInput) (dto.AppendOutput, error)
	Append(ctx context.Context, input dto.AppendInput) (dto.AppendOutput, error)
	Recompute(ctx context.Context) (dto.SummaryOutput, error)
	RecomputeDay(ctx context.Context, day time.Time) (dto.SummaryOutput, error)
	Today(ctx context.Context) (dto.TodayOutput, error)
	Document(ctx context.Context) (dto.DocumentOutput, error)
	Stats(ctx context.Context, input dto.StatsInput) (dto.StatsOutput, error)
	Reindex(ctx context.Context) (dto.ReindexOutput, error)
}
