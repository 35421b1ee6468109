package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/autoload/pathtable"
	"github.com/kingrea/autoload/resolver"
)

const rootLabel = "(root)"

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true)
	foundStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	missStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999"))
	failStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	detailStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0"))
	helpTextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
)

// Tracer reports the candidates examined while resolving a name.
type Tracer interface {
	Trace(name string) []resolver.Probe
}

type focus int

const (
	focusList focus = iota
	focusInput
)

// namespaceItem implements list.Item for one table entry.
type namespaceItem struct {
	namespace string
	paths     []string
}

func (i namespaceItem) Title() string {
	if i.namespace == "" {
		return rootLabel
	}
	return i.namespace
}

func (i namespaceItem) Description() string {
	if len(i.paths) == 0 {
		return "no paths"
	}
	return strings.Join(i.paths, "  ")
}

func (i namespaceItem) FilterValue() string { return i.namespace }

// Browser lists the namespaces of a table and traces names typed into its
// input against a resolver.
type Browser struct {
	namespaces list.Model
	input      textinput.Model
	tracer     Tracer
	focus      focus
	query      string
	probes     []resolver.Probe
}

// NewBrowser builds a browser over table.
func NewBrowser(table pathtable.Table, tracer Tracer) Browser {
	items := make([]list.Item, 0, len(table))
	for _, ns := range table.Namespaces() {
		items = append(items, namespaceItem{namespace: ns, paths: table.Paths(ns)})
	}
	namespaces := list.New(items, list.NewDefaultDelegate(), 0, 0)
	namespaces.Title = "Namespaces"
	namespaces.SetShowStatusBar(false)
	namespaces.SetFilteringEnabled(false)

	input := textinput.New()
	input.Placeholder = `Acme\Widget`
	input.Prompt = "resolve › "

	return Browser{namespaces: namespaces, input: input, tracer: tracer}
}

// Run starts the browser in the alternate screen and blocks until it exits.
func Run(table pathtable.Table, tracer Tracer) error {
	_, err := tea.NewProgram(NewBrowser(table, tracer), tea.WithAltScreen()).Run()
	return err
}

func (b Browser) Init() tea.Cmd {
	return nil
}

func (b Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		b.namespaces.SetSize(m.Width, max(m.Height/2, 4))
		b.input.Width = max(m.Width-12, 10)
		return b, nil
	case tea.KeyMsg:
		switch m.String() {
		case "ctrl+c":
			return b, tea.Quit
		case "esc":
			if b.focus == focusInput {
				b.blurInput()
				return b, nil
			}
			return b, tea.Quit
		case "q":
			if b.focus == focusList {
				return b, tea.Quit
			}
		case "tab":
			if b.focus == focusList {
				return b, b.focusInput("")
			}
			b.blurInput()
			return b, nil
		case "enter":
			if b.focus == focusList {
				prefix := ""
				if item, ok := b.namespaces.SelectedItem().(namespaceItem); ok && item.namespace != "" {
					prefix = item.namespace + pathtable.Separator
				}
				return b, b.focusInput(prefix)
			}
			b.trace(b.input.Value())
			return b, nil
		}
	}
	var cmd tea.Cmd
	if b.focus == focusInput {
		b.input, cmd = b.input.Update(msg)
	} else {
		b.namespaces, cmd = b.namespaces.Update(msg)
	}
	return b, cmd
}

func (b *Browser) focusInput(value string) tea.Cmd {
	b.focus = focusInput
	if value != "" {
		b.input.SetValue(value)
		b.input.CursorEnd()
	}
	return b.input.Focus()
}

func (b *Browser) blurInput() {
	b.focus = focusList
	b.input.Blur()
}

func (b *Browser) trace(name string) {
	b.query = strings.TrimSpace(name)
	b.probes = nil
	if b.query == "" || b.tracer == nil {
		return
	}
	b.probes = b.tracer.Trace(b.query)
}

func (b Browser) View() string {
	var sb strings.Builder
	sb.WriteString(b.namespaces.View())
	sb.WriteString("\n")
	sb.WriteString(b.input.View())
	sb.WriteString("\n\n")
	sb.WriteString(RenderTrace(b.query, b.probes))
	sb.WriteString("\n")
	sb.WriteString(helpTextStyle.Render("enter select/resolve · tab switch focus · esc back · q quit"))
	return sb.String()
}

// RenderTrace formats probes for display; the CLI reuses it.
func RenderTrace(name string, probes []resolver.Probe) string {
	if name == "" {
		return detailStyle.Render("Type a symbolic name and press enter.")
	}
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(name))
	sb.WriteString("\n")
	found := ""
	for _, p := range probes {
		ns := p.Namespace
		if ns == "" {
			ns = rootLabel
		}
		line := fmt.Sprintf("  %-24s %s", ns, p.Candidate)
		if p.Found {
			sb.WriteString(foundStyle.Render("✓" + line))
			found = p.File
		} else {
			sb.WriteString(missStyle.Render("·" + line))
		}
		sb.WriteString("\n")
	}
	if found == "" {
		sb.WriteString(failStyle.Render("not found"))
	} else {
		sb.WriteString(detailStyle.Render("→ " + found))
	}
	return sb.String()
}
