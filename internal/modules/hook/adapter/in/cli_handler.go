package in

import (
	"context"

	"mdpomo/internal/modules/hook/dto"
	hookin "mdpomo/internal/modules/hook/port/in"
)

type CLIHandler struct {
	usecase hookin.Usecase
}

func NewCLIHandler(usecase hookin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context) ([]dto.HookInfo, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return h.usecase.Doctor(ctx)
}

func (h CLIHandler) Fire(ctx context.Context, input dto.EventInput) (dto.DispatchOutput, error) {
	return h.usecase.Dispatch(ctx, input)
}
