package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mdpomo/internal/platform/config"
)

func TestNewDerivesPaths(t *testing.T) {
	t.Parallel()
	cfg, err := config.New("/vault", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/vault", ".mdpomo", "mdpomo.db"), cfg.DBPath)
	assert.Equal(t, filepath.Join("/vault", ".mdpomo", "settings.yaml"), cfg.SettingsPath)

	_, err = config.New("", "")
	assert.Error(t, err)
}

func TestLoadSettingsMissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()
	settings, err := config.LoadSettings(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultSettings(), settings)
}

func TestLoadSettingsYAMLOverridesDefaults(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	raw := "work_minutes: 50\nlong_break_interval: 3\nautostart_timer: false\nnum_auto_cycles: 2\nlog_destination: daily\n"
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	settings, err := config.LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, 50, settings.WorkMinutes)
	assert.Equal(t, 5, settings.ShortBreakMinutes)
	assert.Equal(t, 3, settings.LongBreakInterval)
	assert.False(t, settings.AutostartTimer)
	assert.Equal(t, 2, settings.NumAutoCycles)
	assert.Equal(t, config.LogToDailyNote, settings.LogDestination)
}

func TestLoadSettingsTOML(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "settings.toml")
	raw := "work_minutes = 30\nemoji = false\nlog_file = \"Logs/Focus.md\"\n"
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	settings, err := config.LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, 30, settings.WorkMinutes)
	assert.False(t, settings.Emoji)
	assert.Equal(t, "Logs/Focus.md", settings.LogFile)
}

func TestLoadSettingsRejectsInvalidValues(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cases := map[string]string{
		"interval.yaml":    "long_break_interval: 0\n",
		"work.yaml":        "work_minutes: -1\n",
		"destination.yaml": "log_destination: cloud\n",
		"unknown.yaml":     "colour: red\n",
		"unknown.toml":     "colour = \"red\"\n",
	}
	for name, raw := range cases {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))
		_, err := config.LoadSettings(path)
		assert.Error(t, err, name)
	}
}

func TestSaveSettingsRoundTrip(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	for _, name := range []string{"settings.yaml", "settings.toml"} {
		path := filepath.Join(dir, "nested", name)
		want := config.DefaultSettings()
		want.WorkMinutes = 45
		want.LogActiveNote = true
		require.NoError(t, config.SaveSettings(path, want))
		got, err := config.LoadSettings(path)
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}
}
