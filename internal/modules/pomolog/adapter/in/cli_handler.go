package in

import (
	"context"
	"fmt"
	"time"

	"mdpomo/internal/modules/pomolog/dto"
	pomologin "mdpomo/internal/modules/pomolog/port/in"
	apperrors "mdpomo/internal/platform/errors"
)

type CLIHandler struct {
	usecase pomologin.Usecase
}

func NewCLIHandler(usecase pomologin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Add(ctx context.Context, text string) (dto.AppendOutput, error) {
	return h.usecase.Append(ctx, dto.AppendInput{Text: text})
}

func (h CLIHandler) Recompute(ctx context.Context) (dto.SummaryOutput, error) {
	return h.usecase.Recompute(ctx)
}

// RecomputeDay takes a YYYY-MM-DD day in local time.
func (h CLIHandler) RecomputeDay(ctx context.Context, day string) (dto.SummaryOutput, error) {
	parsed, err := time.ParseInLocation("2006-01-02", day, time.Local)
	if err != nil {
		return dto.SummaryOutput{}, fmt.Errorf("%w: day %q is not YYYY-MM-DD", apperrors.ErrInvalidInput, day)
	}
	return h.usecase.RecomputeDay(ctx, parsed)
}

func (h CLIHandler) Show(ctx context.Context) (dto.DocumentOutput, error) {
	return h.usecase.Document(ctx)
}

func (h CLIHandler) Today(ctx context.Context) (dto.TodayOutput, error) {
	return h.usecase.Today(ctx)
}

func (h CLIHandler) Stats(ctx context.Context, limit int) (dto.StatsOutput, error) {
	return h.usecase.Stats(ctx, dto.StatsInput{Limit: limit})
}

func (h CLIHandler) Reindex(ctx context.Context) (dto.ReindexOutput, error) {
	return h.usecase.Reindex(ctx)
}
