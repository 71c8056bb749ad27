package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

type LogDestination string

const (
	LogToDailyNote LogDestination = "daily"
	LogToFile      LogDestination = "file"
)

// Settings is the user-editable timer and logging configuration.
type Settings struct {
	WorkMinutes          int            `yaml:"work_minutes" toml:"work_minutes"`
	ShortBreakMinutes    int            `yaml:"short_break_minutes" toml:"short_break_minutes"`
	LongBreakMinutes     int            `yaml:"long_break_minutes" toml:"long_break_minutes"`
	LongBreakInterval    int            `yaml:"long_break_interval" toml:"long_break_interval"`
	AutostartTimer       bool           `yaml:"autostart_timer" toml:"autostart_timer"`
	NumAutoCycles        int            `yaml:"num_auto_cycles" toml:"num_auto_cycles"`
	Logging              bool           `yaml:"logging" toml:"logging"`
	LogDestination       LogDestination `yaml:"log_destination" toml:"log_destination"`
	LogFile              string         `yaml:"log_file" toml:"log_file"`
	LogUnderDailyHeading bool           `yaml:"log_under_daily_heading" toml:"log_under_daily_heading"`
	LogActiveNote        bool           `yaml:"log_active_note" toml:"log_active_note"`
	Emoji                bool           `yaml:"emoji" toml:"emoji"`
	NotificationSound    bool           `yaml:"notification_sound" toml:"notification_sound"`
	SystemNotification   bool           `yaml:"system_notification" toml:"system_notification"`
	AmbientSound         bool           `yaml:"ambient_sound" toml:"ambient_sound"`
	SoundPlayer          string         `yaml:"sound_player" toml:"sound_player"`
	SoundFile            string         `yaml:"sound_file" toml:"sound_file"`
	AmbientFile          string         `yaml:"ambient_file" toml:"ambient_file"`
}

func DefaultSettings() Settings {
	return Settings{
		WorkMinutes:          25,
		ShortBreakMinutes:    5,
		LongBreakMinutes:     15,
		LongBreakInterval:    4,
		AutostartTimer:       true,
		NumAutoCycles:        0,
		Logging:              true,
		LogDestination:       LogToFile,
		LogFile:              "Pomodoro Log.md",
		LogUnderDailyHeading: true,
		LogActiveNote:        false,
		Emoji:                true,
		NotificationSound:    true,
		SystemNotification:   false,
		AmbientSound:         false,
		SoundPlayer:          "paplay",
	}
}

func (s Settings) Validate() error {
	if s.WorkMinutes <= 0 {
		return fmt.Errorf("work_minutes must be positive, got %d", s.WorkMinutes)
	}
	if s.ShortBreakMinutes <= 0 {
		return fmt.Errorf("short_break_minutes must be positive, got %d", s.ShortBreakMinutes)
	}
	if s.LongBreakMinutes <= 0 {
		return fmt.Errorf("long_break_minutes must be positive, got %d", s.LongBreakMinutes)
	}
	if s.LongBreakInterval < 1 {
		return fmt.Errorf("long_break_interval must be at least 1, got %d", s.LongBreakInterval)
	}
	if s.NumAutoCycles < 0 {
		return fmt.Errorf("num_auto_cycles must not be negative, got %d", s.NumAutoCycles)
	}
	switch s.LogDestination {
	case LogToDailyNote:
	case LogToFile:
		if strings.TrimSpace(s.LogFile) == "" {
			return fmt.Errorf("log_file is required when log_destination is %q", LogToFile)
		}
	default:
		return fmt.Errorf("unsupported log_destination %q", string(s.LogDestination))
	}
	return nil
}

// LoadSettings reads settings from YAML or TOML depending on the file
// extension. A missing file yields the defaults.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}
	if err := decodeSettings(path, raw, &settings); err != nil {
		return DefaultSettings(), err
	}
	if err := settings.Validate(); err != nil {
		return DefaultSettings(), fmt.Errorf("invalid settings %s: %w", path, err)
	}
	return settings, nil
}

// SaveSettings writes settings in the format implied by the extension.
func SaveSettings(path string, settings Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	var (
		serialized []byte
		err        error
	)
	if isTOML(path) {
		serialized, err = toml.Marshal(settings)
	} else {
		serialized, err = yaml.Marshal(settings)
	}
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}

func decodeSettings(path string, raw []byte, settings *Settings) error {
	if isTOML(path) {
		decoder := toml.NewDecoder(bytes.NewReader(raw))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(settings); err != nil {
			return fmt.Errorf("parse settings toml: %w", err)
		}
		return nil
	}
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	if err := decoder.Decode(settings); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("parse settings yaml: %w", err)
	}
	return nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
