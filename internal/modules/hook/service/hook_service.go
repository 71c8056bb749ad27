package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"mdpomo/internal/modules/hook/domain"
	"mdpomo/internal/modules/hook/dto"
	hookout "mdpomo/internal/modules/hook/port/out"
)

type HookService struct {
	store  hookout.ManifestStore
	host   hookout.Host
	logger hclog.Logger
}

func NewHookService(store hookout.ManifestStore, host hookout.Host, logger hclog.Logger) *HookService {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &HookService{store: store, host: host, logger: logger}
}

func (s *HookService) List(ctx context.Context) ([]dto.HookInfo, error) {
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.HookInfo, 0, len(manifests))
	for _, m := range manifests {
		out = append(out, dto.HookInfo{
			Name:    m.Name,
			Version: m.Version,
			Enabled: m.Enabled,
			Binary:  m.Binary,
			Events:  append([]string(nil), m.Events...),
		})
	}
	return out, nil
}

func (s *HookService) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]dto.DoctorResult, 0, len(manifests))
	for _, m := range manifests {
		result := dto.DoctorResult{Name: m.Name}
		if err := m.Validate(); err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}
		binaryOK := fileExists(m.Binary)
		result.BinaryReachable = binaryOK
		checksumOK := false
		if binaryOK {
			checksumOK = checksumMatches(m.Binary, m.SHA256) == nil
		}
		result.ChecksumValid = checksumOK
		if binaryOK && checksumOK && m.Enabled && s.host != nil {
			if err := s.host.CheckLifecycle(ctx, m); err != nil {
				result.Error = err.Error()
			} else {
				result.LifecycleOK = true
			}
		}
		if !binaryOK {
			result.Error = fmt.Sprintf("binary does not exist: %s", m.Binary)
		}
		if binaryOK && !checksumOK {
			result.Error = "checksum mismatch"
		}
		results = append(results, result)
	}
	return results, nil
}

// Dispatch delivers event to every enabled hook subscribed to it. Every hook
// is attempted; failures come back joined.
func (s *HookService) Dispatch(ctx context.Context, event domain.Event) ([]string, error) {
	if err := event.Validate(); err != nil {
		return nil, err
	}
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return nil, err
	}
	var (
		delivered []string
		errs      []error
	)
	for _, m := range manifests {
		if !m.Enabled || !m.Subscribes(event.Name) {
			continue
		}
		if s.host == nil {
			errs = append(errs, fmt.Errorf("hook %s: no host configured", m.Name))
			continue
		}
		if err := checksumMatches(m.Binary, m.SHA256); err != nil {
			errs = append(errs, fmt.Errorf("hook %s: %w", m.Name, err))
			continue
		}
		if err := s.host.HandleEvent(ctx, m, event); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				err = fmt.Errorf("%w: %v", domain.ErrHookTimeout, err)
			}
			errs = append(errs, fmt.Errorf("hook %s: %w", m.Name, err))
			continue
		}
		s.logger.Debug("hook delivered", "hook", m.Name, "event", event.Name)
		delivered = append(delivered, m.Name)
	}
	return delivered, errors.Join(errs...)
}

func (s *HookService) loadValidated(ctx context.Context) ([]domain.Manifest, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	seenNames := map[string]struct{}{}
	for _, manifest := range manifests {
		if err := manifest.Validate(); err != nil {
			return nil, err
		}
		if _, ok := seenNames[manifest.Name]; ok {
			return nil, fmt.Errorf("duplicate hook name: %s", manifest.Name)
		}
		seenNames[manifest.Name] = struct{}{}
	}
	return manifests, nil
}

func checksumMatches(path string, expected string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read hook binary: %w", err)
	}
	hash := sha256.Sum256(payload)
	if hex.EncodeToString(hash[:]) != expected {
		return fmt.Errorf("%w: %s", domain.ErrChecksumMismatch, filepath.Base(path))
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
