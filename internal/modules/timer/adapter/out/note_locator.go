package out

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	timerout "mdpomo/internal/modules/timer/port/out"
)

const workspaceFile = ".obsidian/workspace.json"

type obsidianWorkspace struct {
	LastOpenFiles []string `json:"lastOpenFiles"`
}

// ObsidianNoteLocator treats the most recently opened markdown file in the
// Obsidian workspace as the active note and renders it as a wikilink.
type ObsidianNoteLocator struct {
	vaultPath string
}

func NewObsidianNoteLocator(vaultPath string) timerout.NoteLocator {
	return &ObsidianNoteLocator{vaultPath: vaultPath}
}

func (l *ObsidianNoteLocator) ActiveNote(_ context.Context) (string, error) {
	raw, err := os.ReadFile(filepath.Join(l.vaultPath, workspaceFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read workspace: %w", err)
	}
	var workspace obsidianWorkspace
	if err := json.Unmarshal(raw, &workspace); err != nil {
		return "", fmt.Errorf("parse workspace: %w", err)
	}
	for _, file := range workspace.LastOpenFiles {
		if !strings.HasSuffix(strings.ToLower(file), ".md") {
			continue
		}
		if _, err := os.Stat(filepath.Join(l.vaultPath, filepath.FromSlash(file))); err != nil {
			continue
		}
		return WikiLink(file), nil
	}
	return "", nil
}

// WikiLink renders a vault path as [[name]], dropping folders and the .md
// extension.
func WikiLink(vaultRelPath string) string {
	name := strings.TrimSuffix(path.Base(filepath.ToSlash(vaultRelPath)), ".md")
	return "[[" + name + "]]"
}
