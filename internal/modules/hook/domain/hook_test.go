package domain_test

import (
	"strings"
	"testing"
	"time"

	"mdpomo/internal/modules/hook/domain"
)

func validManifest() domain.Manifest {
	return domain.Manifest{
		Name:    "desktop",
		Version: "1.0.0",
		Binary:  "/usr/local/bin/desktop-hook",
		SHA256:  strings.Repeat("a", 64),
		Enabled: true,
		Events:  []string{"system-notification", "log"},
	}
}

func TestManifestValidate(t *testing.T) {
	t.Parallel()
	if err := validManifest().Validate(); err != nil {
		t.Fatalf("expected valid manifest, got %v", err)
	}

	cases := map[string]func(*domain.Manifest){
		"missing name":     func(m *domain.Manifest) { m.Name = "" },
		"missing binary":   func(m *domain.Manifest) { m.Binary = "" },
		"uppercase sha":    func(m *domain.Manifest) { m.SHA256 = strings.Repeat("A", 64) },
		"no events":        func(m *domain.Manifest) { m.Events = nil },
		"bad event":        func(m *domain.Manifest) { m.Events = []string{"Log Entry"} },
		"duplicate events": func(m *domain.Manifest) { m.Events = []string{"notice", "notice"} },
	}
	for name, mutate := range cases {
		m := validManifest()
		mutate(&m)
		if err := m.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestManifestSubscribes(t *testing.T) {
	t.Parallel()
	m := validManifest()
	if !m.Subscribes("system-notification") {
		t.Fatalf("expected exact match")
	}
	if !m.Subscribes("log.work-complete") {
		t.Fatalf("expected log prefix to match log.work-complete")
	}
	if m.Subscribes("notice") || m.Subscribes("logger") {
		t.Fatalf("unexpected subscription")
	}
	m.Events = []string{domain.AllEvents}
	if !m.Subscribes("stop-ambient") {
		t.Fatalf("wildcard must match every event")
	}
}

func TestEventValidate(t *testing.T) {
	t.Parallel()
	if err := (domain.Event{Name: "notice"}).Validate(); err == nil {
		t.Fatalf("expected missing time error")
	}
	if err := (domain.Event{Name: "notice", At: time.Now()}).Validate(); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}
