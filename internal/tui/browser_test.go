package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/autoload/pathtable"
	"github.com/kingrea/autoload/resolver"
)

type stubTracer struct {
	names  []string
	probes []resolver.Probe
}

func (s *stubTracer) Trace(name string) []resolver.Probe {
	s.names = append(s.names, name)
	return s.probes
}

func sendKey(t *testing.T, b Browser, msg tea.KeyMsg) Browser {
	t.Helper()
	model, _ := b.Update(msg)
	next, ok := model.(Browser)
	if !ok {
		t.Fatalf("unexpected model type %T", model)
	}
	return next
}

func TestBrowserListsNamespaces(t *testing.T) {
	table := pathtable.Table{"Acme": {"/root/src/"}, "": {"/root/"}}
	b := NewBrowser(table, nil)
	items := b.namespaces.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	first := items[0].(namespaceItem)
	if first.Title() != rootLabel || first.Description() != "/root/" {
		t.Fatalf("unexpected root item: %q %q", first.Title(), first.Description())
	}
}

func TestBrowserEnterTracesSelectedNamespace(t *testing.T) {
	table := pathtable.Table{"Acme": {"/root/src/"}}
	tracer := &stubTracer{probes: []resolver.Probe{
		{Namespace: "Acme", Root: "/root/src/", Candidate: "/root/src/Widget.go", File: "/root/src/Widget.go", Found: true},
	}}
	b := NewBrowser(table, tracer)

	b = sendKey(t, b, tea.KeyMsg{Type: tea.KeyEnter})
	if b.focus != focusInput {
		t.Fatalf("enter on the list should focus the input")
	}
	if got := b.input.Value(); got != `Acme\` {
		t.Fatalf("expected namespace prefill, got %q", got)
	}
	b.input.SetValue(`Acme\Widget`)
	b = sendKey(t, b, tea.KeyMsg{Type: tea.KeyEnter})
	if len(tracer.names) != 1 || tracer.names[0] != `Acme\Widget` {
		t.Fatalf("unexpected trace calls: %v", tracer.names)
	}
	if view := b.View(); !strings.Contains(view, "/root/src/Widget.go") {
		t.Fatalf("view missing trace result:\n%s", view)
	}

	b = sendKey(t, b, tea.KeyMsg{Type: tea.KeyEsc})
	if b.focus != focusList {
		t.Fatalf("esc should return focus to the list")
	}
}

func TestBrowserQuit(t *testing.T) {
	b := NewBrowser(pathtable.Table{}, nil)
	_, cmd := b.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestRenderTrace(t *testing.T) {
	out := RenderTrace(`Acme\Gadget`, []resolver.Probe{{Namespace: "Acme", Candidate: "/root/src/Gadget.go"}})
	if !strings.Contains(out, "not found") || !strings.Contains(out, "/root/src/Gadget.go") {
		t.Fatalf("unexpected render:\n%s", out)
	}
	if out := RenderTrace("", nil); !strings.Contains(out, "Type a symbolic name") {
		t.Fatalf("unexpected empty render: %s", out)
	}
}
