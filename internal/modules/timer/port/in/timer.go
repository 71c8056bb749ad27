package in

import (
	"context"

	"mdpomo/internal/modules/timer/dto"
)

type Usecase interface {
	Toggle(ctx context.Context) (dto.Status, error)
	Tick(ctx context.Context) (dto.Status, error)
	Pause(ctx context.Context) (dto.Status, error)
	Resume(ctx context.Context) (dto.Status, error)
	Start(ctx context.Context, input dto.StartInput) (dto.Status, error)
	Next(ctx context.Context) (dto.Status, error)
	Quit(ctx context.Context) (dto.Status, error)
	Status(ctx context.Context) (dto.Status, error)
	Settings(ctx context.Context) (dto.SettingsOutput, error)
}
