package config

import (
	"fmt"
	"path/filepath"
)

const dataDirName = ".mdpomo"

type Config struct {
	VaultPath    string
	DataDir      string
	DBPath       string
	LogPath      string
	SettingsPath string
	LogLevel     string
}

// New derives every runtime path from the vault root. settingsPath may be
// empty, in which case <vault>/.mdpomo/settings.yaml is used.
func New(vaultPath, settingsPath string) (Config, error) {
	if vaultPath == "" {
		return Config{}, fmt.Errorf("vault path is required")
	}
	dataDir := filepath.Join(vaultPath, dataDirName)
	if settingsPath == "" {
		settingsPath = filepath.Join(dataDir, "settings.yaml")
	}
	return Config{
		VaultPath:    vaultPath,
		DataDir:      dataDir,
		DBPath:       filepath.Join(dataDir, "mdpomo.db"),
		LogPath:      filepath.Join(dataDir, "mdpomo.log"),
		SettingsPath: settingsPath,
		LogLevel:     "info",
	}, nil
}
