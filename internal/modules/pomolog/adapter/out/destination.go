package out

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/nleeper/goment"

	"mdpomo/internal/modules/pomolog/domain"
	pomologout "mdpomo/internal/modules/pomolog/port/out"
	apperrors "mdpomo/internal/platform/errors"
	"mdpomo/internal/platform/markdown"
)

// FixedFileDestination logs every day to one vault document.
type FixedFileDestination struct {
	path string
}

func NewFixedFileDestination(path string) pomologout.Destination {
	return &FixedFileDestination{path: path}
}

func (d *FixedFileDestination) Resolve(_ context.Context, day time.Time) (domain.Target, error) {
	if strings.TrimSpace(d.path) == "" {
		return domain.Target{}, apperrors.ErrLoggingUnavailable
	}
	initial, err := markdown.RenderFrontmatter(map[string]any{
		"type":    "pomodoro-log",
		"created": day.Format("2006-01-02"),
	}, "")
	if err != nil {
		return domain.Target{}, err
	}
	return domain.Target{Path: d.path, Initial: initial}, nil
}

const dailyNotesConfig = ".obsidian/daily-notes.json"

type dailyNotesSettings struct {
	Folder   string `json:"folder"`
	Format   string `json:"format"`
	Template string `json:"template"`
}

// DailyNoteDestination logs to the vault's daily note for the day, using the
// folder, date format and template configured for Obsidian daily notes.
type DailyNoteDestination struct {
	vaultPath string
}

func NewDailyNoteDestination(vaultPath string) pomologout.Destination {
	return &DailyNoteDestination{vaultPath: vaultPath}
}

func (d *DailyNoteDestination) Resolve(_ context.Context, day time.Time) (domain.Target, error) {
	settings, err := d.loadSettings()
	if err != nil {
		return domain.Target{}, err
	}
	format := settings.Format
	if strings.TrimSpace(format) == "" {
		format = "YYYY-MM-DD"
	}
	title := FormatMoment(day, format)
	path := filepath.ToSlash(filepath.Join(settings.Folder, title+".md"))

	initial := ""
	if settings.Template != "" {
		template, err := d.readTemplate(settings.Template)
		if err != nil {
			return domain.Target{}, err
		}
		initial = expandTemplate(template, day, title)
	}
	return domain.Target{Path: path, Initial: initial}, nil
}

func (d *DailyNoteDestination) loadSettings() (dailyNotesSettings, error) {
	raw, err := os.ReadFile(filepath.Join(d.vaultPath, dailyNotesConfig))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return dailyNotesSettings{}, nil
		}
		return dailyNotesSettings{}, fmt.Errorf("read daily notes settings: %w", err)
	}
	var settings dailyNotesSettings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return dailyNotesSettings{}, fmt.Errorf("parse daily notes settings: %w", err)
	}
	settings.Folder = strings.Trim(strings.TrimSpace(settings.Folder), "/")
	return settings, nil
}

func (d *DailyNoteDestination) readTemplate(template string) (string, error) {
	name := strings.TrimSpace(template)
	if !strings.HasSuffix(name, ".md") {
		name += ".md"
	}
	raw, err := os.ReadFile(filepath.Join(d.vaultPath, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read daily note template: %w", err)
	}
	return string(raw), nil
}

var templateDate = regexp.MustCompile(`\{\{\s*(date|time)\s*(?::([^}]*))?\}\}`)

func expandTemplate(template string, day time.Time, title string) string {
	out := strings.ReplaceAll(template, "{{title}}", title)
	return templateDate.ReplaceAllStringFunc(out, func(token string) string {
		match := templateDate.FindStringSubmatch(token)
		format := strings.TrimSpace(match[2])
		if format == "" {
			if match[1] == "time" {
				format = "HH:mm"
			} else {
				format = "YYYY-MM-DD"
			}
		}
		return FormatMoment(day, format)
	})
}

// FormatMoment renders t with a moment.js format string, the syntax Obsidian
// uses for daily note names and template dates.
func FormatMoment(t time.Time, format string) string {
	g, err := goment.New(t)
	if err != nil {
		return t.Format("2006-01-02")
	}
	return g.Format(format)
}
