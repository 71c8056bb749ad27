package stats

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	pomologdto "mdpomo/internal/modules/pomolog/dto"
	"mdpomo/internal/platform/duration"
	"mdpomo/internal/ui/theme"
)

const dayLimit = 60

type Port interface {
	Stats(ctx context.Context, limit int) (pomologdto.StatsOutput, error)
}

type LoadedMsg struct {
	Stats pomologdto.StatsOutput
	Err   error
}

type dayItem struct {
	day pomologdto.DayOutput
}

func (i dayItem) Title() string { return i.day.Day + " " + i.day.Weekday }
func (i dayItem) Description() string {
	return fmt.Sprintf("🍅 %s  🏖 %s  Σ %s", duration.Format(i.day.Work), duration.Format(i.day.Break), duration.Format(i.day.Total))
}
func (i dayItem) FilterValue() string { return i.day.Day + " " + i.day.Weekday }

type Model struct {
	port    Port
	list    list.Model
	stats   pomologdto.StatsOutput
	detail  viewport.Model
	spinner spinner.Model
	loading bool
	err     string
	width   int
	height  int
}

func New(port Port) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Days"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{port: port, list: l, detail: vp, spinner: sp, loading: port != nil}
}

func (m Model) Init() tea.Cmd {
	if m.port == nil {
		return nil
	}
	return tea.Batch(m.Reload(), m.spinner.Tick)
}

func (m Model) Reload() tea.Cmd {
	if m.port == nil {
		return nil
	}
	return func() tea.Msg {
		out, err := m.port.Stats(context.Background(), dayLimit)
		return LoadedMsg{Stats: out, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case LoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err.Error()
			return m, nil
		}
		m.err = ""
		m.stats = msg.Stats
		items := make([]list.Item, len(msg.Stats.Days))
		for i, d := range msg.Stats.Days {
			items[i] = dayItem{day: d}
		}
		cmds = append(cmds, m.list.SetItems(items))
		m.detail.SetContent(m.renderDetail())

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if !m.loading {
		prevIdx := m.list.Index()
		var lCmd tea.Cmd
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prevIdx {
			m.detail.SetContent(m.renderDetail())
		}
		var vCmd tea.Cmd
		m.detail, vCmd = m.detail.Update(msg)
		cmds = append(cmds, vCmd)
	}
	return m, tea.Batch(cmds...)
}

// Filtering reports whether the day filter is open.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading stats…")
	}
	listW := m.width * 4 / 10
	detailW := m.width - listW

	header := theme.Title.Render("Totals") + "  " + theme.Hot.Render(fmt.Sprintf("🍅 %s  🏖 %s  Σ %s",
		duration.Format(m.stats.Work), duration.Format(m.stats.Break), duration.Format(m.stats.Total)))
	if m.err != "" {
		header = theme.Warn.Render(m.err)
	}

	listPane := lipgloss.NewStyle().Width(listW).Height(m.height - 1).Render(m.list.View())
	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(detailW - 2).
		Height(m.height - 3).
		Render(m.detail.View())
	return lipgloss.JoinVertical(lipgloss.Left, header, lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane))
}

func (m *Model) resize() {
	listW := m.width * 4 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, m.height-1)
	m.detail.Width = detailW - 4
	m.detail.Height = m.height - 5
}

func (m Model) renderDetail() string {
	item, ok := m.list.SelectedItem().(dayItem)
	if !ok {
		return theme.Muted.Render("No logged days yet")
	}
	d := item.day
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(d.Day+" ("+d.Weekday+")") + "\n\n")
	sb.WriteString(theme.Muted.Render("work:    ") + duration.Format(d.Work) + "\n")
	sb.WriteString(theme.Muted.Render("break:   ") + duration.Format(d.Break) + "\n")
	sb.WriteString(theme.Muted.Render("total:   ") + duration.Format(d.Total) + "\n")
	sb.WriteString(theme.Muted.Render("entries: ") + fmt.Sprint(d.Entries) + "\n")
	if strings.TrimSpace(d.Body) != "" {
		sb.WriteString("\n" + d.Body + "\n")
	}
	return sb.String()
}
