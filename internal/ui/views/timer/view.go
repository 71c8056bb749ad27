package timer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	timerdto "mdpomo/internal/modules/timer/dto"
	"mdpomo/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	Toggle(ctx context.Context) (timerdto.Status, error)
	Tick(ctx context.Context) (timerdto.Status, error)
	Pause(ctx context.Context) (timerdto.Status, error)
	Resume(ctx context.Context) (timerdto.Status, error)
	Start(ctx context.Context, mode string) (timerdto.Status, error)
	Next(ctx context.Context) (timerdto.Status, error)
	Quit(ctx context.Context) (timerdto.Status, error)
	Status(ctx context.Context) (timerdto.Status, error)
	Settings(ctx context.Context) (timerdto.SettingsOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

// StatusMsg carries the timer status after an action. Action is "tick" for
// the once-per-second refresh.
type StatusMsg struct {
	Action string
	Status timerdto.Status
	Err    error
}

// TickMsg drives the once-per-second refresh.
type TickMsg time.Time

type settingsLoadedMsg struct {
	settings timerdto.SettingsOutput
	err      error
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port     Port
	status   timerdto.Status
	settings timerdto.SettingsOutput
	progress progress.Model
	spinner  spinner.Model
	err      string
	width    int
	height   int
}

func New(port Port) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Pulse
	sp.Style = lipgloss.NewStyle().Foreground(theme.Peach)

	return Model{
		port:     port,
		progress: progress.New(progress.WithGradient(string(theme.Peach), string(theme.Green)), progress.WithoutPercentage()),
		spinner:  sp,
		status:   timerdto.Status{Mode: "idle"},
	}
}

func (m Model) Init() tea.Cmd {
	if m.port == nil {
		return nil
	}
	return tea.Batch(m.loadSettingsCmd(), m.run("status", m.port.Status), Tick(), m.spinner.Tick)
}

// Tick schedules the next refresh one second from now.
func Tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Status is the most recent timer status.
func (m Model) Status() timerdto.Status { return m.status }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = clamp(m.width-8, 10, 60)

	case TickMsg:
		if m.port == nil {
			return m, nil
		}
		return m, tea.Batch(m.run("tick", m.port.Tick), Tick())

	case StatusMsg:
		if msg.Err != nil {
			m.err = msg.Action + ": " + msg.Err.Error()
			return m, nil
		}
		m.err = ""
		m.status = msg.Status

	case settingsLoadedMsg:
		if msg.err != nil {
			m.err = "settings: " + msg.err.Error()
			return m, nil
		}
		m.settings = msg.settings

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case " ", "enter":
			return m, m.Toggle()
		case "p":
			if m.status.Paused {
				return m, m.Resume()
			}
			return m, m.Pause()
		case "n":
			return m, m.Next()
		case "x":
			return m, m.QuitTimer()
		case "w":
			return m, m.Start("work")
		case "b":
			return m, m.Start("short-break")
		case "l":
			return m, m.Start("long-break")
		}
	}
	return m, nil
}

// ─── actions ─────────────────────────────────────────────────────────────────

func (m Model) Toggle() tea.Cmd { return m.action("toggle", func(p Port) action { return p.Toggle }) }
func (m Model) Pause() tea.Cmd  { return m.action("pause", func(p Port) action { return p.Pause }) }
func (m Model) Resume() tea.Cmd { return m.action("resume", func(p Port) action { return p.Resume }) }
func (m Model) Next() tea.Cmd   { return m.action("next", func(p Port) action { return p.Next }) }

// QuitTimer stops the running interval; it does not exit the program.
func (m Model) QuitTimer() tea.Cmd {
	return m.action("quit", func(p Port) action { return p.Quit })
}

func (m Model) Start(mode string) tea.Cmd {
	return m.action("start "+mode, func(p Port) action {
		return func(ctx context.Context) (timerdto.Status, error) { return p.Start(ctx, mode) }
	})
}

type action func(ctx context.Context) (timerdto.Status, error)

func (m Model) action(name string, pick func(Port) action) tea.Cmd {
	if m.port == nil {
		return nil
	}
	return m.run(name, pick(m.port))
}

func (m Model) run(name string, fn action) tea.Cmd {
	return func() tea.Msg {
		status, err := fn(context.Background())
		return StatusMsg{Action: name, Status: status, Err: err}
	}
}

func (m Model) loadSettingsCmd() tea.Cmd {
	return func() tea.Msg {
		settings, err := m.port.Settings(context.Background())
		return settingsLoadedMsg{settings: settings, err: err}
	}
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	s := m.status
	accent := theme.ModeColor(s.Mode)

	state := "stopped"
	switch {
	case s.Running:
		state = m.spinner.View() + " running"
	case s.AutoPaused:
		state = "waiting to start"
	case s.Paused:
		state = "paused"
	}

	display := s.Display
	if display == "" {
		display = "--:--"
	}
	clock := theme.Clock.BorderForeground(accent).Foreground(accent).Render(display)

	var b strings.Builder
	b.WriteString(theme.Title.Render("Pomodoro") + "  " + lipgloss.NewStyle().Foreground(accent).Render(s.Mode) + "\n\n")
	b.WriteString(clock + "\n\n")
	b.WriteString(m.progress.ViewAs(m.elapsedFraction()) + "\n\n")
	b.WriteString(theme.Muted.Render(state))
	if !s.EndsAt.IsZero() && s.Running {
		b.WriteString(theme.Muted.Render("  ends " + s.EndsAt.Format("15:04")))
	}
	b.WriteString("\n")
	b.WriteString(theme.Muted.Render(fmt.Sprintf("🍅 %d completed", s.PomosSinceStart)))
	if s.ActiveNote != "" {
		b.WriteString(theme.Muted.Render("  note " + s.ActiveNote))
	}
	b.WriteString("\n")
	if s.Notice != "" {
		b.WriteString(theme.Hot.Render(s.Notice) + "\n")
	}
	for _, w := range s.Warnings {
		b.WriteString(theme.Warn.Render("! "+w) + "\n")
	}
	if m.err != "" {
		b.WriteString(theme.Warn.Render(m.err) + "\n")
	}
	b.WriteString("\n" + theme.Muted.Render("space: toggle  p: pause/resume  n: next  x: stop  w/b/l: work/short/long"))

	return lipgloss.Place(m.width, max(m.height-2, 1), lipgloss.Center, lipgloss.Center, b.String())
}

func (m Model) elapsedFraction() float64 {
	total := m.modeDuration(m.status.Mode)
	if total <= 0 {
		return 0
	}
	f := 1 - float64(m.status.Remaining)/float64(total)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func (m Model) modeDuration(mode string) time.Duration {
	switch mode {
	case "work":
		return m.settings.Work
	case "short-break":
		return m.settings.ShortBreak
	case "long-break":
		return m.settings.LongBreak
	}
	return 0
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
