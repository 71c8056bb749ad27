package out

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	pomologout "mdpomo/internal/modules/pomolog/port/out"
	apperrors "mdpomo/internal/platform/errors"
)

// VaultDocumentStore reads and writes documents under the vault root.
// Writes go through a temp file and rename so readers never see a partial
// document.
type VaultDocumentStore struct {
	vaultPath string
}

func NewVaultDocumentStore(vaultPath string) pomologout.DocumentStore {
	return &VaultDocumentStore{vaultPath: vaultPath}
}

func (s *VaultDocumentStore) Read(_ context.Context, path string) (string, error) {
	full, err := s.resolve(path)
	if err != nil {
		return "", err
	}
	raw, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", apperrors.ErrNotFound, path)
		}
		return "", fmt.Errorf("read document: %w", err)
	}
	return string(raw), nil
}

func (s *VaultDocumentStore) Write(_ context.Context, path, content string) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("create document dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(full), "."+filepath.Base(full)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp document: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)
	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp document: %w", err)
	}
	if info, statErr := os.Stat(full); statErr == nil {
		_ = os.Chmod(tmpName, info.Mode().Perm())
	} else {
		_ = os.Chmod(tmpName, 0o644)
	}
	if err := os.Rename(tmpName, full); err != nil {
		return fmt.Errorf("replace document: %w", err)
	}
	return nil
}

func (s *VaultDocumentStore) Exists(_ context.Context, path string) (bool, error) {
	full, err := s.resolve(path)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat document: %w", err)
	}
	if info.IsDir() {
		return false, fmt.Errorf("%w: %s is a directory", apperrors.ErrInvalidInput, path)
	}
	return true, nil
}

// Create fails when the document already exists.
func (s *VaultDocumentStore) Create(_ context.Context, path, initial string) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("create document dir: %w", err)
	}
	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}
	if _, err := f.WriteString(initial); err != nil {
		_ = f.Close()
		return fmt.Errorf("write document: %w", err)
	}
	return f.Close()
}

func (s *VaultDocumentStore) resolve(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("%w: document path is required", apperrors.ErrInvalidInput)
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	full := filepath.Join(s.vaultPath, path)
	rel, err := filepath.Rel(s.vaultPath, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s escapes the vault", apperrors.ErrInvalidInput, path)
	}
	return full, nil
}
