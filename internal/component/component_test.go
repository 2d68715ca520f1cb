package component

import (
	"strings"
	"testing"

	"github.com/gxcore/gxcore/internal/statevar"
)

// dummy is a minimal registered class used only by these tests, standing in
// for a concrete component (internal/bus.Ram, internal/cpu/m88k.CPU, ...)
// without pulling those packages in here.
func newDummy() *Component {
	c := New("dummy", "dummy")
	var counter uint32
	c.AddVariable(statevar.NewUint32("counter", &counter))
	return c
}

func init() {
	Register("dummy", Attributes{Stable: true, Description: "test-only component"}, newDummy)
}

func TestAddChildSetsParentAndPosition(t *testing.T) {
	root := newDummy()
	root.SetVariableValue("name", `"root"`)
	a := newDummy()
	a.SetVariableValue("name", `"a"`)
	b := newDummy()
	b.SetVariableValue("name", `"b"`)

	if err := root.AddChild(a, -1); err != nil {
		t.Fatalf("AddChild(a): %v", err)
	}
	if err := root.AddChild(b, -1); err != nil {
		t.Fatalf("AddChild(b): %v", err)
	}
	if a.Parent() != root {
		t.Fatalf("a's parent = %v, want root", a.Parent())
	}
	if len(root.Children()) != 2 {
		t.Fatalf("len(children) = %d, want 2", len(root.Children()))
	}
}

func TestAddChildRejectsCycle(t *testing.T) {
	root := newDummy()
	child := newDummy()
	if err := root.AddChild(child, -1); err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	if err := child.AddChild(root, -1); err == nil {
		t.Fatalf("expected cycle rejection, got nil error")
	}
}

func TestAddChildRejectsAlreadyParented(t *testing.T) {
	root1 := newDummy()
	root2 := newDummy()
	child := newDummy()
	if err := root1.AddChild(child, -1); err != nil {
		t.Fatalf("AddChild into root1: %v", err)
	}
	if err := root2.AddChild(child, -1); err == nil {
		t.Fatalf("expected rejection of already-parented child, got nil error")
	}
}

func TestRemoveChildReturnsPositionAndClearsParent(t *testing.T) {
	root := newDummy()
	a, b, c := newDummy(), newDummy(), newDummy()
	root.AddChild(a, -1)
	root.AddChild(b, -1)
	root.AddChild(c, -1)

	pos, err := root.RemoveChild(b)
	if err != nil {
		t.Fatalf("RemoveChild: %v", err)
	}
	if pos != 1 {
		t.Fatalf("position = %d, want 1", pos)
	}
	if b.Parent() != nil {
		t.Fatalf("b's parent still set after removal")
	}
	if len(root.Children()) != 2 {
		t.Fatalf("len(children) = %d, want 2", len(root.Children()))
	}

	// Undo of RemoveComponent reinserts at the recorded position.
	if err := root.AddChild(b, pos); err != nil {
		t.Fatalf("reinsert: %v", err)
	}
	if root.Children()[1] != b {
		t.Fatalf("b not reinserted at position 1")
	}
}

func TestPathUsesNameOrClassNameFallback(t *testing.T) {
	root := newDummy()
	root.SetVariableValue("name", `"root"`)
	child := newDummy() // no name set

	root.AddChild(child, -1)
	want := "root.(dummy)"
	if got := child.Path(); got != want {
		t.Fatalf("Path() = %q, want %q", got, want)
	}

	child.SetVariableValue("name", `"mainbus0"`)
	if got := child.Path(); got != "root.mainbus0" {
		t.Fatalf("Path() after naming = %q, want root.mainbus0", got)
	}
}

func TestLookupPath(t *testing.T) {
	root := newDummy()
	root.SetVariableValue("name", `"root"`)
	machine := newDummy()
	machine.SetVariableValue("name", `"machine0"`)
	bus := newDummy()
	bus.SetVariableValue("name", `"mainbus0"`)

	root.AddChild(machine, -1)
	machine.AddChild(bus, -1)

	got, ok := root.LookupPath("root.machine0.mainbus0")
	if !ok || got != bus {
		t.Fatalf("LookupPath did not find mainbus0: ok=%v got=%v", ok, got)
	}
	if _, ok := root.LookupPath("root.machine0.nosuch"); ok {
		t.Fatalf("LookupPath found a nonexistent path")
	}
}

func TestFindPathByPartialMatch(t *testing.T) {
	root := newDummy()
	root.SetVariableValue("name", `"root"`)
	for _, spec := range []struct{ machine, bus string }{
		{"machine0", "isabus0"},
		{"machine1", "pcibus0"},
		{"machine1", "pcibus1"},
		{"machine2", "pcibus0"},
		{"machine3", "otherpci"},
	} {
		m, ok := root.LookupPath("root." + spec.machine)
		if !ok {
			m = newDummy()
			m.SetVariableValue("name", `"`+spec.machine+`"`)
			root.AddChild(m, -1)
		}
		b := newDummy()
		b.SetVariableValue("name", `"`+spec.bus+`"`)
		m.AddChild(b, -1)
	}

	got := root.FindPathByPartialMatch("pci")
	want := map[string]bool{
		"root.machine1.pcibus0": true,
		"root.machine1.pcibus1": true,
		"root.machine2.pcibus0": true,
	}
	if len(got) != len(want) {
		t.Fatalf("FindPathByPartialMatch(%q) = %v, want %d matches", "pci", got, len(want))
	}
	for _, p := range got {
		if !want[p] {
			t.Fatalf("unexpected match %q (should not include otherpci)", p)
		}
	}

	all := root.FindPathByPartialMatch("")
	const wantTotal = 10 // root + 4 machines + 5 buses
	if len(all) != wantTotal {
		t.Fatalf("FindPathByPartialMatch(\"\") returned %d paths, want %d", len(all), wantTotal)
	}
}

func TestCloneIsDeepAndDetached(t *testing.T) {
	root := newDummy()
	root.SetVariableValue("name", `"root"`)
	root.SetVariableValue("counter", "7")
	child := newDummy()
	child.SetVariableValue("name", `"child0"`)
	root.AddChild(child, -1)

	clone := root.Clone()
	if clone == root {
		t.Fatalf("Clone returned the same pointer")
	}
	if clone.Parent() != nil {
		t.Fatalf("clone has a parent")
	}
	if len(clone.Children()) != 1 {
		t.Fatalf("clone has %d children, want 1", len(clone.Children()))
	}
	cv, _ := clone.GetVariable("counter")
	if cv.String() != "7" {
		t.Fatalf("clone counter = %s, want 7", cv.String())
	}

	// Mutating the original must not affect the clone.
	root.SetVariableValue("counter", "9")
	if cv.String() != "7" {
		t.Fatalf("clone counter changed after mutating original: %s", cv.String())
	}
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	root := newDummy()
	root.SetVariableValue("name", `"root"`)
	root.SetVariableValue("counter", "42")
	child := newDummy()
	child.SetVariableValue("name", `"child0"`)
	child.SetVariableValue("counter", "100")
	root.AddChild(child, -1)

	var sb strings.Builder
	if err := root.Serialize(statevar.NewContext(&sb)); err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	rebuilt, err := Deserialize(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}

	if rebuilt.StructuralChecksum() != root.StructuralChecksum() {
		t.Fatalf("checksum mismatch after round trip")
	}
	if !root.CheckConsistency() {
		t.Fatalf("CheckConsistency reported inconsistency")
	}
}

func TestResetRecursesIntoChildren(t *testing.T) {
	root := newDummy()
	var resetCount int
	root.SetResetState(func() { resetCount++ })
	child := newDummy()
	child.SetResetState(func() { resetCount++ })
	root.AddChild(child, -1)

	root.Reset()
	if resetCount != 2 {
		t.Fatalf("resetCount = %d, want 2 (root + child)", resetCount)
	}
}

func TestPreRunCheckAggregatesFailures(t *testing.T) {
	root := newDummy()
	child := newDummy()
	root.AddChild(child, -1)
	child.SetPreRunCheck(func(warn func(string)) bool {
		warn("child cannot reach a bus")
		return false
	})

	var warnings []string
	ok := root.PreRunCheck(func(msg string) { warnings = append(warnings, msg) })
	if ok {
		t.Fatalf("PreRunCheck = true, want false")
	}
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v, want 1 entry", warnings)
	}
}
