package log

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	pomologdto "mdpomo/internal/modules/pomolog/dto"
	"mdpomo/internal/platform/markdown"
	"mdpomo/internal/ui/theme"
)

type Port interface {
	Document(ctx context.Context) (pomologdto.DocumentOutput, error)
	Recompute(ctx context.Context) (pomologdto.SummaryOutput, error)
}

// LoadedMsg carries the current log document.
type LoadedMsg struct {
	Document pomologdto.DocumentOutput
	Err      error
}

// RecomputedMsg is sent after today's totals were rewritten.
type RecomputedMsg struct {
	Summary pomologdto.SummaryOutput
	Err     error
}

// Model renders the log document as markdown in a scrollable viewport.
type Model struct {
	port     Port
	viewport viewport.Model
	renderer *glamour.TermRenderer
	doc      pomologdto.DocumentOutput
	summary  pomologdto.SummaryOutput
	err      string
	width    int
	height   int
}

func New(port Port) Model {
	r, _ := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(0),
	)
	return Model{port: port, viewport: viewport.New(0, 0), renderer: r}
}

func (m Model) Init() tea.Cmd { return m.Reload() }

// Reload reads the log document again.
func (m Model) Reload() tea.Cmd {
	if m.port == nil {
		return nil
	}
	return func() tea.Msg {
		doc, err := m.port.Document(context.Background())
		return LoadedMsg{Document: doc, Err: err}
	}
}

// Recompute rewrites today's heading and then reloads.
func (m Model) Recompute() tea.Cmd {
	if m.port == nil {
		return nil
	}
	return func() tea.Msg {
		summary, err := m.port.Recompute(context.Background())
		return RecomputedMsg{Summary: summary, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.viewport.SetContent(m.renderContent())

	case LoadedMsg:
		if msg.Err != nil {
			m.err = msg.Err.Error()
			return m, nil
		}
		m.err = ""
		m.doc = msg.Document
		m.viewport.SetContent(m.renderContent())

	case RecomputedMsg:
		if msg.Err != nil {
			m.err = "recompute: " + msg.Err.Error()
			return m, nil
		}
		m.summary = msg.Summary
		return m, m.Reload()

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			return m, m.Recompute()
		case "g":
			m.viewport.GotoTop()
			return m, nil
		case "G":
			m.viewport.GotoBottom()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	header := theme.Title.Render("Log")
	if m.doc.Path != "" {
		header += theme.Muted.Render("  " + m.doc.Path)
	}
	if m.summary.Found {
		header += "  " + theme.Hot.Render(strings.TrimPrefix(m.summary.Heading, "## "))
	}
	footer := theme.Muted.Render(fmt.Sprintf("%.0f%%  r: recompute  g/G: top/bottom", m.viewport.ScrollPercent()*100))
	if m.err != "" {
		footer = theme.Warn.Render(m.err)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, m.viewport.View(), footer)
}

func (m *Model) resize() {
	m.viewport.Width = m.width
	m.viewport.Height = m.height - 3
	if m.viewport.Height < 1 {
		m.viewport.Height = 1
	}
	if r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(m.width),
	); err == nil {
		m.renderer = r
	}
}

func (m Model) renderContent() string {
	if !m.doc.Exists {
		return theme.Muted.Render("(no log yet, finish a pomodoro to create it)")
	}
	_, body, err := markdown.SplitFrontmatter(m.doc.Content)
	if err != nil {
		body = m.doc.Content
	}
	if strings.TrimSpace(body) == "" {
		return theme.Muted.Render("(empty log)")
	}
	if m.renderer != nil {
		if rendered, err := m.renderer.Render(body); err == nil {
			return rendered
		}
	}
	return body
}
