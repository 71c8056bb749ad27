package usecase

import (
	"context"

	"mdpomo/internal/modules/hook/domain"
	"mdpomo/internal/modules/hook/dto"
	hookin "mdpomo/internal/modules/hook/port/in"
	"mdpomo/internal/modules/hook/service"
)

type Interactor struct {
	svc       *service.HookService
	vaultPath string
}

func NewInteractor(svc *service.HookService, vaultPath string) hookin.Usecase {
	return &Interactor{svc: svc, vaultPath: vaultPath}
}

func (i *Interactor) List(ctx context.Context) ([]dto.HookInfo, error) {
	return i.svc.List(ctx)
}

func (i *Interactor) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return i.svc.Doctor(ctx)
}

func (i *Interactor) Dispatch(ctx context.Context, input dto.EventInput) (dto.DispatchOutput, error) {
	vault := input.VaultPath
	if vault == "" {
		vault = i.vaultPath
	}
	delivered, err := i.svc.Dispatch(ctx, domain.Event{
		Name:      input.Name,
		RunID:     input.RunID,
		Mode:      input.Mode,
		At:        input.At,
		Title:     input.Title,
		Message:   input.Message,
		LogKind:   input.LogKind,
		Duration:  input.Duration,
		VaultPath: vault,
	})
	return dto.DispatchOutput{Delivered: delivered}, err
}
