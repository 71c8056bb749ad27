package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	ErrHookDisabled     = errors.New("hook is disabled")
	ErrChecksumMismatch = errors.New("hook checksum mismatch")
	ErrHookTimeout      = errors.New("hook timeout")
)

// AllEvents subscribes a hook to every timer event.
const AllEvents = "*"

var (
	sha256Pattern = regexp.MustCompile(`^[a-f0-9]{64}$`)
	eventPattern  = regexp.MustCompile(`^[a-z]+(-[a-z]+)*(\.[a-z]+(-[a-z]+)*)?$`)
)

type Manifest struct {
	Name    string   `json:"name"`
	Version string   `json:"version"`
	Binary  string   `json:"binary"`
	SHA256  string   `json:"sha256"`
	Enabled bool     `json:"enabled"`
	Events  []string `json:"events"`
}

func (m Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("hook name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("hook version is required")
	}
	if m.Binary == "" {
		return fmt.Errorf("hook binary path is required")
	}
	if !sha256Pattern.MatchString(m.SHA256) {
		return fmt.Errorf("hook sha256 must be lowercase 64-char hex")
	}
	if len(m.Events) == 0 {
		return fmt.Errorf("hook events are required")
	}
	seen := map[string]struct{}{}
	for _, event := range m.Events {
		if event != AllEvents && !eventPattern.MatchString(event) {
			return fmt.Errorf("invalid event name: %q", event)
		}
		if _, ok := seen[event]; ok {
			return fmt.Errorf("duplicate event: %s", event)
		}
		seen[event] = struct{}{}
	}
	return nil
}

// Subscribes matches event against the manifest's event list. "log" also
// matches every "log.<kind>" event.
func (m Manifest) Subscribes(event string) bool {
	for _, want := range m.Events {
		if want == AllEvents || want == event {
			return true
		}
		if strings.HasPrefix(event, want+".") {
			return true
		}
	}
	return false
}

type Metadata struct {
	Name    string
	Version string
}

// Event is what a hook process receives.
type Event struct {
	Name      string
	RunID     string
	Mode      string
	At        time.Time
	Title     string
	Message   string
	LogKind   string
	Duration  time.Duration
	VaultPath string
}

func (e Event) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("event name is required")
	}
	if e.At.IsZero() {
		return fmt.Errorf("event time is required")
	}
	return nil
}
