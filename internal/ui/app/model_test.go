package app

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	hookdto "mdpomo/internal/modules/hook/dto"
	pomologdto "mdpomo/internal/modules/pomolog/dto"
	timerdto "mdpomo/internal/modules/timer/dto"
	"mdpomo/internal/ui/components"
	timerview "mdpomo/internal/ui/views/timer"
)

type fakeTimer struct {
	status timerdto.Status
}

func (f *fakeTimer) result() (timerdto.Status, error) { return f.status, nil }

func (f *fakeTimer) Toggle(context.Context) (timerdto.Status, error) {
	f.status = timerdto.Status{Mode: "work", Running: true, Display: "25:00"}
	return f.result()
}
func (f *fakeTimer) Tick(context.Context) (timerdto.Status, error)   { return f.result() }
func (f *fakeTimer) Pause(context.Context) (timerdto.Status, error)  { return f.result() }
func (f *fakeTimer) Resume(context.Context) (timerdto.Status, error) { return f.result() }
func (f *fakeTimer) Start(_ context.Context, mode string) (timerdto.Status, error) {
	f.status = timerdto.Status{Mode: mode, Running: true}
	return f.result()
}
func (f *fakeTimer) Next(context.Context) (timerdto.Status, error) { return f.result() }
func (f *fakeTimer) Quit(context.Context) (timerdto.Status, error) {
	f.status = timerdto.Status{Mode: "idle"}
	return f.result()
}
func (f *fakeTimer) Status(context.Context) (timerdto.Status, error) { return f.result() }
func (f *fakeTimer) Settings(context.Context) (timerdto.SettingsOutput, error) {
	return timerdto.SettingsOutput{}, nil
}

type fakeLog struct {
	appended []string
}

func (f *fakeLog) Document(context.Context) (pomologdto.DocumentOutput, error) {
	return pomologdto.DocumentOutput{}, nil
}
func (f *fakeLog) Recompute(context.Context) (pomologdto.SummaryOutput, error) {
	return pomologdto.SummaryOutput{}, nil
}
func (f *fakeLog) Stats(context.Context, int) (pomologdto.StatsOutput, error) {
	return pomologdto.StatsOutput{}, nil
}
func (f *fakeLog) Append(_ context.Context, text string) (pomologdto.AppendOutput, error) {
	f.appended = append(f.appended, text)
	return pomologdto.AppendOutput{Path: "Pomodoro Log.md", Line: text}, nil
}

type fakeHooks struct{}

func (fakeHooks) Doctor(context.Context) ([]hookdto.DoctorResult, error) {
	return []hookdto.DoctorResult{{Name: "desktop", Error: "checksum mismatch"}}, nil
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return model, cmd
}

func TestTabCycles(t *testing.T) {
	m := NewModel(&fakeTimer{}, &fakeLog{}, nil)
	for _, want := range []tabID{tabLog, tabStats, tabTimer} {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
		if m.activeTab != want {
			t.Fatalf("expected tab %d, got %d", want, m.activeTab)
		}
	}
}

func TestPaletteStartRunsTimer(t *testing.T) {
	timer := &fakeTimer{}
	m := NewModel(timer, &fakeLog{}, nil)
	m.activeTab = tabLog

	m, cmd := update(t, m, components.PaletteSubmitMsg{Input: "timer:start short-break"})
	if m.activeTab != tabTimer {
		t.Fatalf("expected timer tab")
	}
	if cmd == nil {
		t.Fatalf("expected timer command")
	}
	msg, ok := cmd().(timerview.StatusMsg)
	if !ok || msg.Status.Mode != "short-break" {
		t.Fatalf("unexpected message %#v", msg)
	}

	m, _ = update(t, m, msg)
	if m.timerView.Status().Mode != "short-break" || m.lastMode != "short-break" {
		t.Fatalf("status not applied: %+v", m.timerView.Status())
	}
}

func TestPaletteAppendAndUnknown(t *testing.T) {
	log := &fakeLog{}
	m := NewModel(&fakeTimer{}, log, fakeHooks{})

	_, cmd := update(t, m, components.PaletteSubmitMsg{Input: "log:append reviewed notes"})
	msg := cmd()
	if len(log.appended) != 1 || log.appended[0] != "reviewed notes" {
		t.Fatalf("unexpected appends %v", log.appended)
	}
	m, _ = update(t, m, msg)
	if m.status != "logged to Pomodoro Log.md" {
		t.Fatalf("unexpected status %q", m.status)
	}

	m, _ = update(t, m, components.PaletteSubmitMsg{Input: "log:append"})
	if m.status != "usage: log:append <text>" {
		t.Fatalf("unexpected status %q", m.status)
	}

	m, _ = update(t, m, components.PaletteSubmitMsg{Input: "session:start"})
	if m.status != "unknown command: session:start" {
		t.Fatalf("unexpected status %q", m.status)
	}

	_, cmd = update(t, m, components.PaletteSubmitMsg{Input: "hook:doctor"})
	m, _ = update(t, m, cmd())
	if m.status != "desktop: checksum mismatch" {
		t.Fatalf("unexpected doctor status %q", m.status)
	}
}

func TestQuitIdleExitsImmediately(t *testing.T) {
	m := NewModel(&fakeTimer{}, nil, nil)
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}
