package in

import (
	"context"

	"mdpomo/internal/modules/timer/dto"
	timerin "mdpomo/internal/modules/timer/port/in"
)

// TUIHandler exposes the interactive timer controls to the terminal UI.
type TUIHandler struct {
	usecase timerin.Usecase
}

func NewTUIHandler(usecase timerin.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) Toggle(ctx context.Context) (dto.Status, error) {
	return h.usecase.Toggle(ctx)
}

func (h TUIHandler) Tick(ctx context.Context) (dto.Status, error) {
	return h.usecase.Tick(ctx)
}

func (h TUIHandler) Pause(ctx context.Context) (dto.Status, error) {
	return h.usecase.Pause(ctx)
}

func (h TUIHandler) Resume(ctx context.Context) (dto.Status, error) {
	return h.usecase.Resume(ctx)
}

func (h TUIHandler) Start(ctx context.Context, mode string) (dto.Status, error) {
	return h.usecase.Start(ctx, dto.StartInput{Mode: mode})
}

func (h TUIHandler) Next(ctx context.Context) (dto.Status, error) {
	return h.usecase.Next(ctx)
}

func (h TUIHandler) Quit(ctx context.Context) (dto.Status, error) {
	return h.usecase.Quit(ctx)
}

func (h TUIHandler) Status(ctx context.Context) (dto.Status, error) {
	return h.usecase.Status(ctx)
}

func (h TUIHandler) Settings(ctx context.Context) (dto.SettingsOutput, error) {
	return h.usecase.Settings(ctx)
}
