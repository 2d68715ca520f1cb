package action

import (
	"testing"

	"github.com/gxcore/gxcore/internal/component"
)

// fakeHost is the minimal Host a unit test needs: a replaceable root and a
// dirty flag, with Notify/ClearEmulation counted rather than wired to a
// real UI.
type fakeHost struct {
	root          *component.Component
	dirty         bool
	notifications int
	cleared       int
}

func newFakeHost() *fakeHost {
	return &fakeHost{root: component.New("root", "root")}
}

func (h *fakeHost) RootComponent() *component.Component     { return h.root }
func (h *fakeHost) SetRootComponent(r *component.Component) { h.root = r }
func (h *fakeHost) DirtyFlag() bool                         { return h.dirty }
func (h *fakeHost) SetDirtyFlag(d bool)                     { h.dirty = d }
func (h *fakeHost) ClearEmulation() {
	h.cleared++
	h.root = component.New("root", "root")
}
func (h *fakeHost) Notify() { h.notifications++ }

func TestAddComponentActionWithUndoRedo(t *testing.T) {
	host := newFakeHost()
	stack := NewActionStack(host)
	ram := component.New("ram", "ram")

	add := NewAddComponentAction(host, ram, host.RootComponent())
	stack.PushActionAndExecute(add)

	if len(host.RootComponent().Children()) != 1 {
		t.Fatalf("expected 1 child after add, got %d", len(host.RootComponent().Children()))
	}
	if !stack.IsUndoPossible() {
		t.Fatalf("expected undo to be possible")
	}

	stack.Undo()
	if len(host.RootComponent().Children()) != 0 {
		t.Fatalf("expected 0 children after undo, got %d", len(host.RootComponent().Children()))
	}
	if !stack.IsRedoPossible() {
		t.Fatalf("expected redo to be possible")
	}

	stack.Redo()
	if len(host.RootComponent().Children()) != 1 {
		t.Fatalf("expected 1 child after redo, got %d", len(host.RootComponent().Children()))
	}
}

func TestRemoveComponentActionWithUndoRedo(t *testing.T) {
	host := newFakeHost()
	ram := component.New("ram", "ram")
	_ = host.RootComponent().AddChild(ram, -1)

	stack := NewActionStack(host)
	remove := NewRemoveComponentAction(host, ram)
	stack.PushActionAndExecute(remove)

	if len(host.RootComponent().Children()) != 0 {
		t.Fatalf("expected 0 children after remove, got %d", len(host.RootComponent().Children()))
	}

	stack.Undo()
	if len(host.RootComponent().Children()) != 1 {
		t.Fatalf("expected 1 child after undo, got %d", len(host.RootComponent().Children()))
	}
}

func TestVariableAssignmentActionWithUndoRedo(t *testing.T) {
	host := newFakeHost()
	ram := component.New("ram", "ram")
	_ = host.RootComponent().AddChild(ram, -1)
	ram.SetVariableValue("name", "mem0")

	stack := NewActionStack(host)
	assign, err := NewVariableAssignmentAction(host, ram, "name", "mem1")
	if err != nil {
		t.Fatalf("NewVariableAssignmentAction: %v", err)
	}
	stack.PushActionAndExecute(assign)

	if ram.Name() != "mem1" {
		t.Fatalf("name = %q, want mem1", ram.Name())
	}

	stack.Undo()
	if ram.Name() != "mem0" {
		t.Fatalf("name after undo = %q, want mem0", ram.Name())
	}
}

func TestVariableAssignmentActionEvaluatesJSExpression(t *testing.T) {
	host := newFakeHost()
	ram := component.New("ram", "ram")
	_ = host.RootComponent().AddChild(ram, -1)

	stack := NewActionStack(host)
	assign, err := NewVariableAssignmentAction(host, ram, "name", "=\"mem\"+(1+1)")
	if err != nil {
		t.Fatalf("NewVariableAssignmentAction: %v", err)
	}
	stack.PushActionAndExecute(assign)

	if ram.Name() != "mem2" {
		t.Fatalf("name = %q, want mem2", ram.Name())
	}
}

func TestResetActionWithUndoRedo(t *testing.T) {
	host := newFakeHost()
	ram := component.New("ram", "ram")
	_ = host.RootComponent().AddChild(ram, -1)
	ram.SetVariableValue("name", "mem0")

	stack := NewActionStack(host)
	reset := NewResetAction(host)
	stack.PushActionAndExecute(reset)

	if host.RootComponent().Children()[0].Name() != "" {
		t.Fatalf("expected name reset to zero value")
	}

	stack.Undo()
	if host.RootComponent().Children()[0].Name() != "mem0" {
		t.Fatalf("expected undo to restore the whole tree, name = %q", host.RootComponent().Children()[0].Name())
	}
}

func TestClearEmulationActionIsNotUndoable(t *testing.T) {
	host := newFakeHost()
	ram := component.New("ram", "ram")
	_ = host.RootComponent().AddChild(ram, -1)

	stack := NewActionStack(host)
	clear := NewClearEmulationAction(host)
	if clear.Undoable() {
		t.Fatalf("ClearEmulationAction must not be undoable")
	}
	stack.PushActionAndExecute(clear)

	if len(host.RootComponent().Children()) != 0 {
		t.Fatalf("expected a fresh empty root after clear")
	}
	if stack.IsUndoPossible() {
		t.Fatalf("pushing a non-undoable action must clear the undo stack")
	}
}
