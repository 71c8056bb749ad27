package in

import (
	"context"

	"mdpomo/internal/modules/pomolog/dto"
	pomologin "mdpomo/internal/modules/pomolog/port/in"
)

type TUIHandler struct {
	usecase pomologin.Usecase
}

func NewTUIHandler(usecase pomologin.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) Document(ctx context.Context) (dto.DocumentOutput, error) {
	return h.usecase.Document(ctx)
}

func (h TUIHandler) Recompute(ctx context.Context) (dto.SummaryOutput, error) {
	return h.usecase.Recompute(ctx)
}

func (h TUIHandler) Stats(ctx context.Context, limit int) (dto.StatsOutput, error) {
	return h.usecase.Stats(ctx, dto.StatsInput{Limit: limit})
}

func (h TUIHandler) Append(ctx context.Context, text string) (dto.AppendOutput, error) {
	return h.usecase.Append(ctx, dto.AppendInput{Text: text})
}
