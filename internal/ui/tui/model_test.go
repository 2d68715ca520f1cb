package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func testSnapshot() Snapshot {
	return Snapshot{
		Tree: []string{"mainbus0", "  cpu0", "  ram0"},
		Registers: []Register{
			{Name: "r1", Value: "00000000"},
			{Name: "r2", Value: "0000002a", Changed: true},
		},
		Disasm:   []string{"0x1000: or r3, r0, 5"},
		Warnings: nil,
	}
}

func TestEnterSubmitsCommand(t *testing.T) {
	m := NewModel(testSnapshot())
	m.input.SetValue("step 10")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	mm := updated.(Model)

	if !mm.submitted {
		t.Fatalf("expected submitted=true")
	}
	got, ok := mm.Command()
	if !ok || got != "step 10" {
		t.Fatalf("Command() = (%q, %v), want (%q, true)", got, ok, "step 10")
	}
	if cmd == nil {
		t.Fatalf("expected a tea.Quit command")
	}
}

func TestEscQuits(t *testing.T) {
	m := NewModel(testSnapshot())

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	mm := updated.(Model)

	got, ok := mm.Command()
	if !ok || got != "quit" {
		t.Fatalf("Command() = (%q, %v), want (%q, true)", got, ok, "quit")
	}
	if cmd == nil {
		t.Fatalf("expected a tea.Quit command")
	}
}

func TestViewRendersRegistersAndTree(t *testing.T) {
	m := NewModel(testSnapshot())
	view := m.View()

	if !strings.Contains(view, "r1") || !strings.Contains(view, "mainbus0") {
		t.Fatalf("view missing expected content: %s", view)
	}
}

func TestWindowSizeResizesPanes(t *testing.T) {
	m := NewModel(testSnapshot())
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	mm := updated.(Model)

	if mm.width != 120 || mm.height != 40 {
		t.Fatalf("size not applied: %+v", mm)
	}
}
