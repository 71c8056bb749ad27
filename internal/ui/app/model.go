package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	hookdto "mdpomo/internal/modules/hook/dto"
	pomologdto "mdpomo/internal/modules/pomolog/dto"
	"mdpomo/internal/ui/components"
	"mdpomo/internal/ui/theme"
	logview "mdpomo/internal/ui/views/log"
	statsview "mdpomo/internal/ui/views/stats"
	timerview "mdpomo/internal/ui/views/timer"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type logPort interface {
	Document(ctx context.Context) (pomologdto.DocumentOutput, error)
	Recompute(ctx context.Context) (pomologdto.SummaryOutput, error)
	Stats(ctx context.Context, limit int) (pomologdto.StatsOutput, error)
	Append(ctx context.Context, text string) (pomologdto.AppendOutput, error)
}

type hookPort interface {
	Doctor(ctx context.Context) ([]hookdto.DoctorResult, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabTimer tabID = iota
	tabLog
	tabStats
	tabCount
)

var tabLabels = [tabCount]string{"Timer", "Log", "Stats"}

// ─── async messages ───────────────────────────────────────────────────────────

type appendedMsg struct {
	out pomologdto.AppendOutput
	err error
}

type doctorMsg struct {
	results []hookdto.DoctorResult
	err     error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Toggle  key.Binding
	Pause   key.Binding
	Next    key.Binding
	Stop    key.Binding
	Modes   key.Binding
	Refresh key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Toggle:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "start/restart")),
		Pause:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause/resume")),
		Next:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "skip to next")),
		Stop:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop timer")),
		Modes:   key.NewBinding(key.WithKeys("w", "b", "l"), key.WithHelp("w/b/l", "work/short/long")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "recompute log")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Pause, k.Next, k.Stop, k.Modes},
		{k.Tab, k.Refresh},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the help overlay
// and the command palette. Timer and log state live behind the ports.
type Model struct {
	log   logPort
	hooks hookPort

	timerView timerview.Model
	logView   logview.Model
	statsView statsview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	lastMode  string
	lastPomos int
	status    string
	width     int
	height    int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(timer timerview.Port, log logPort, hooks hookPort) Model {
	return Model{
		log:       log,
		hooks:     hooks,
		timerView: timerview.New(timer),
		logView:   logview.New(log),
		statsView: statsview.New(log),
		activeTab: tabTimer,
		keys:      defaultKeys(),
		help:      help.New(),
		palette:   components.NewPalette(),
		lastMode:  "idle",
		status:    "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.timerView.Init(),
		m.logView.Init(),
		m.statsView.Init(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case timerview.StatusMsg:
		if msg.Err != nil {
			m.status = msg.Action + ": " + msg.Err.Error()
		} else if msg.Action != "tick" {
			m.status = msg.Action
		}
		// A finished or abandoned interval has written to the log.
		if msg.Err == nil && (msg.Status.Mode != m.lastMode || msg.Status.PomosSinceStart != m.lastPomos) {
			m.lastMode = msg.Status.Mode
			m.lastPomos = msg.Status.PomosSinceStart
			cmds = append(cmds, m.logView.Reload(), m.statsView.Reload())
		}

	case logview.RecomputedMsg:
		if msg.Err == nil && msg.Summary.Found {
			m.status = "recomputed " + msg.Summary.Day
			cmds = append(cmds, m.statsView.Reload())
		}

	case appendedMsg:
		if msg.err != nil {
			m.status = "log append: " + msg.err.Error()
		} else {
			m.status = "logged to " + msg.out.Path
			cmds = append(cmds, m.logView.Reload())
		}
		return m, tea.Batch(cmds...)

	case doctorMsg:
		m.status = summarizeDoctor(msg.results, msg.err)
		return m, nil

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		if m.activeTab == tabStats && m.statsView.Filtering() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, m.quit()
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			return m, m.palette.Open()
		}

		var tabCmd tea.Cmd
		switch m.activeTab {
		case tabTimer:
			m.timerView, tabCmd = m.timerView.Update(msg)
		case tabLog:
			m.logView, tabCmd = m.logView.Update(msg)
		case tabStats:
			m.statsView, tabCmd = m.statsView.Update(msg)
		}
		return m, tabCmd
	}

	// Non-key messages reach every view: the timer keeps ticking while
	// another tab is shown.
	var cmd tea.Cmd
	m.timerView, cmd = m.timerView.Update(msg)
	cmds = append(cmds, cmd)
	m.logView, cmd = m.logView.Update(msg)
	cmds = append(cmds, cmd)
	m.statsView, cmd = m.statsView.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// quit abandons a running interval before exiting so it is logged as early.
func (m Model) quit() tea.Cmd {
	if m.timerView.Status().Mode == "idle" {
		return tea.Quit
	}
	return tea.Sequence(m.timerView.QuitTimer(), tea.Quit)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := m.height - lipgloss.Height(tabBar) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabTimer:
		return m.timerView.View()
	case tabLog:
		return m.logView.View()
	case tabStats:
		return m.statsView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "mdpomo  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if s := m.timerView.Status(); s.Mode != "idle" && s.Display != "" {
		left = lipgloss.NewStyle().Foreground(theme.ModeColor(s.Mode)).Bold(true).Render("● "+s.Display) + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)

	switch parts[0] {
	case "timer:toggle":
		return m, m.timerView.Toggle()
	case "timer:start":
		mode := "work"
		if len(parts) >= 2 {
			mode = parts[1]
		}
		m.activeTab = tabTimer
		return m, m.timerView.Start(mode)
	case "timer:pause":
		return m, m.timerView.Pause()
	case "timer:resume":
		return m, m.timerView.Resume()
	case "timer:next":
		return m, m.timerView.Next()
	case "timer:quit":
		return m, m.timerView.QuitTimer()

	case "log:recompute":
		m.activeTab = tabLog
		return m, m.logView.Recompute()
	case "log:reload":
		m.activeTab = tabLog
		return m, m.logView.Reload()
	case "log:append":
		text := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))
		if text == "" {
			m.status = "usage: log:append <text>"
			return m, nil
		}
		return m, m.appendCmd(text)

	case "stats:reload":
		m.activeTab = tabStats
		return m, m.statsView.Reload()

	case "hook:doctor":
		return m, m.doctorCmd()

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.timerView, _ = m.timerView.Update(sz)
	m.logView, _ = m.logView.Update(sz)
	m.statsView, _ = m.statsView.Update(sz)
}

func (m Model) appendCmd(text string) tea.Cmd {
	return func() tea.Msg {
		if m.log == nil {
			return appendedMsg{err: fmt.Errorf("logging is not configured")}
		}
		out, err := m.log.Append(context.Background(), text)
		return appendedMsg{out: out, err: err}
	}
}

func (m Model) doctorCmd() tea.Cmd {
	return func() tea.Msg {
		if m.hooks == nil {
			return doctorMsg{err: fmt.Errorf("hooks are not configured")}
		}
		results, err := m.hooks.Doctor(context.Background())
		return doctorMsg{results: results, err: err}
	}
}

func summarizeDoctor(results []hookdto.DoctorResult, err error) string {
	if err != nil {
		return "hook doctor: " + err.Error()
	}
	if len(results) == 0 {
		return "no hooks configured"
	}
	var failing []string
	for _, r := range results {
		if r.Error != "" {
			failing = append(failing, r.Name+": "+r.Error)
		}
	}
	if len(failing) == 0 {
		return fmt.Sprintf("%d hook(s) healthy", len(results))
	}
	return strings.Join(failing, "; ")
}
