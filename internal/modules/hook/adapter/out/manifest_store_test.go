package out_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	hookout "mdpomo/internal/modules/hook/adapter/out"
)

func writeHooksJSON(t *testing.T, base, raw string) {
	t.Helper()
	dir := filepath.Join(base, "hooks")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir hooks: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "hooks.json"), []byte(raw), 0o644); err != nil {
		t.Fatalf("write hooks.json: %v", err)
	}
}

func TestFileManifestStoreLoadMissingReturnsEmpty(t *testing.T) {
	t.Parallel()
	manifests, err := hookout.NewFileManifestStore(t.TempDir()).Load(context.Background())
	if err != nil {
		t.Fatalf("load manifests: %v", err)
	}
	if len(manifests) != 0 {
		t.Fatalf("expected empty manifests, got %d", len(manifests))
	}
}

func TestFileManifestStoreResolvesRelativeBinary(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	writeHooksJSON(t, base, `[
  {
    "name": "desktop",
    "version": "1.0.0",
    "binary": "hooks/desktop-hook",
    "sha256": "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
    "enabled": true,
    "events": ["system-notification"]
  }
]`)
	manifests, err := hookout.NewFileManifestStore(base).Load(context.Background())
	if err != nil {
		t.Fatalf("load manifests: %v", err)
	}
	if len(manifests) != 1 {
		t.Fatalf("expected one manifest, got %d", len(manifests))
	}
	if want := filepath.Join(base, "hooks", "desktop-hook"); manifests[0].Binary != want {
		t.Fatalf("expected %s, got %s", want, manifests[0].Binary)
	}
	if len(manifests[0].Events) != 1 || manifests[0].Events[0] != "system-notification" {
		t.Fatalf("unexpected events %v", manifests[0].Events)
	}
}

func TestFileManifestStoreRejectsUnknownField(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	writeHooksJSON(t, base, `[{"name": "desktop", "capabilities": ["command"]}]`)
	if _, err := hookout.NewFileManifestStore(base).Load(context.Background()); err == nil {
		t.Fatalf("expected unknown field error")
	}
}
