package out

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"mdpomo/internal/modules/hook/domain"
	hookout "mdpomo/internal/modules/hook/port/out"
)

type FileManifestStore struct {
	basePath string
	path     string
}

// NewFileManifestStore reads <basePath>/hooks/hooks.json. Relative binary
// paths resolve against basePath.
func NewFileManifestStore(basePath string) hookout.ManifestStore {
	return &FileManifestStore{basePath: basePath, path: filepath.Join(basePath, "hooks", "hooks.json")}
}

func (s *FileManifestStore) Load(_ context.Context) ([]domain.Manifest, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Manifest{}, nil
		}
		return nil, fmt.Errorf("read hook manifest store: %w", err)
	}
	var manifests []domain.Manifest
	decoder := json.NewDecoder(bytes.NewReader(b))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&manifests); err != nil {
		return nil, fmt.Errorf("decode hook manifests: %w", err)
	}
	for i := range manifests {
		if manifests[i].Binary != "" && !filepath.IsAbs(manifests[i].Binary) {
			manifests[i].Binary = filepath.Clean(filepath.Join(s.basePath, manifests[i].Binary))
		}
	}
	return manifests, nil
}
