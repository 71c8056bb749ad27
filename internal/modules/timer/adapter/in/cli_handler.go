package in

import (
	"context"

	"mdpomo/internal/modules/timer/dto"
	timerin "mdpomo/internal/modules/timer/port/in"
)

type CLIHandler struct {
	usecase timerin.Usecase
}

func NewCLIHandler(usecase timerin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context, mode string) (dto.Status, error) {
	return h.usecase.Start(ctx, dto.StartInput{Mode: mode})
}

func (h CLIHandler) Tick(ctx context.Context) (dto.Status, error) {
	return h.usecase.Tick(ctx)
}

func (h CLIHandler) Quit(ctx context.Context) (dto.Status, error) {
	return h.usecase.Quit(ctx)
}

func (h CLIHandler) Settings(ctx context.Context) (dto.SettingsOutput, error) {
	return h.usecase.Settings(ctx)
}
