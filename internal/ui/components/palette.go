package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mdpomo/internal/ui/theme"
)

// PaletteSubmitMsg is emitted when the user confirms a command.
type PaletteSubmitMsg struct{ Input string }

// PaletteCancelMsg is emitted when the user presses esc.
type PaletteCancelMsg struct{}

const (
	maxHints   = 6
	maxHistory = 20
)

var (
	paletteStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Peach).
			Background(theme.Mantle).
			Foreground(theme.Text).
			Padding(0, 1)

	hintStyle     = lipgloss.NewStyle().Foreground(theme.Subtext0)
	selectedStyle = lipgloss.NewStyle().Foreground(theme.Peach).Bold(true)
)

// hints must stay in sync with the switch in app/model.go executePalette.
var paletteHints = []string{
	"timer:toggle",
	"timer:start <work|short|long>",
	"timer:pause",
	"timer:resume",
	"timer:next",
	"timer:quit",
	"log:recompute",
	"log:reload",
	"log:append <text>",
	"stats:reload",
	"hook:doctor",
}

// Palette reads one command line. Tab completes the highlighted hint and
// up/down walk back through earlier commands.
type Palette struct {
	input   textinput.Model
	visible bool
	width   int

	history []string
	recall  int
}

func NewPalette() Palette {
	ti := textinput.New()
	ti.Placeholder = "timer:start work"
	ti.CharLimit = 256
	return Palette{input: ti, recall: -1}
}

func (p Palette) Visible() bool { return p.visible }

// Open clears the input and returns the focus command.
func (p *Palette) Open() tea.Cmd {
	p.visible = true
	p.recall = -1
	p.input.SetValue("")
	return p.input.Focus()
}

func (p *Palette) SetWidth(w int) { p.width = w }

// History returns submitted commands, most recent first.
func (p Palette) History() []string { return append([]string(nil), p.history...) }

func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			p.close()
			return p, func() tea.Msg { return PaletteCancelMsg{} }
		case "enter":
			val := strings.TrimSpace(p.input.Value())
			p.remember(val)
			p.close()
			return p, func() tea.Msg { return PaletteSubmitMsg{Input: val} }
		case "tab":
			if hints := matchingHints(p.input.Value()); len(hints) > 0 {
				p.input.SetValue(completion(hints[0]))
				p.input.CursorEnd()
			}
			return p, nil
		case "up":
			if p.recall+1 < len(p.history) {
				p.recall++
				p.input.SetValue(p.history[p.recall])
				p.input.CursorEnd()
			}
			return p, nil
		case "down":
			switch {
			case p.recall > 0:
				p.recall--
				p.input.SetValue(p.history[p.recall])
			case p.recall == 0:
				p.recall = -1
				p.input.SetValue("")
			}
			p.input.CursorEnd()
			return p, nil
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p *Palette) close() {
	p.visible = false
	p.input.Blur()
}

func (p *Palette) remember(val string) {
	if val == "" {
		return
	}
	if len(p.history) > 0 && p.history[0] == val {
		return
	}
	p.history = append([]string{val}, p.history...)
	if len(p.history) > maxHistory {
		p.history = p.history[:maxHistory]
	}
}

// matchingHints compares only the command part, so "timer:start w" still
// matches "timer:start <work|short|long>".
func matchingHints(value string) []string {
	prefix := strings.ToLower(strings.TrimSpace(value))
	if cmd, _, ok := strings.Cut(prefix, " "); ok {
		prefix = cmd
	}
	var out []string
	for _, h := range paletteHints {
		if prefix == "" || strings.HasPrefix(h, prefix) {
			out = append(out, h)
			if len(out) == maxHints {
				break
			}
		}
	}
	return out
}

// completion drops the argument placeholder and leaves a trailing space
// when the command takes one.
func completion(hint string) string {
	cmd, _, hasArg := strings.Cut(hint, " <")
	if hasArg {
		return cmd + " "
	}
	return cmd
}

func (p Palette) View() string {
	if !p.visible {
		return ""
	}
	hints := matchingHints(p.input.Value())

	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Command") + "\n")
	sb.WriteString(": " + p.input.View() + "\n")
	if len(hints) > 0 {
		sb.WriteString("\n")
		for i, h := range hints {
			if i == 0 {
				sb.WriteString(selectedStyle.Render("› "+h) + "\n")
				continue
			}
			sb.WriteString(hintStyle.Render("  "+h) + "\n")
		}
	}

	w := p.width
	if w < 20 {
		w = 64
	}
	return paletteStyle.Width(w - 2).Render(sb.String())
}
