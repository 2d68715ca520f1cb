package emulator

import (
	"strings"
	"testing"

	_ "github.com/gxcore/gxcore/internal/bus"
	_ "github.com/gxcore/gxcore/internal/cpu/m88k"
	"github.com/gxcore/gxcore/internal/log"
)

func newTestEmulator(t *testing.T) *Emulator {
	t.Helper()
	e := New(log.NewNop())

	if _, err := e.ExecuteCommand([]string{"add", "mainbus", "root", "mainbus0"}); err != nil {
		t.Fatalf("add mainbus: %v", err)
	}
	if _, err := e.ExecuteCommand([]string{"add", "m88k_cpu", "mainbus0", "cpu0"}); err != nil {
		t.Fatalf("add cpu: %v", err)
	}
	if _, err := e.ExecuteCommand([]string{"add", "ram", "mainbus0", "ram0"}); err != nil {
		t.Fatalf("add ram: %v", err)
	}
	if _, err := e.ExecuteCommand([]string{"set", "ram0", "memoryMappedSize", "65536"}); err != nil {
		t.Fatalf("set ram size: %v", err)
	}
	return e
}

func TestExecuteCommandAddBuildsTree(t *testing.T) {
	e := newTestEmulator(t)

	cpu, ok := e.root.LookupPath("root.mainbus0.cpu0")
	if !ok {
		t.Fatalf("cpu0 not found in tree")
	}
	if cpu.ClassName() != "m88k_cpu" {
		t.Fatalf("cpu0 class = %q", cpu.ClassName())
	}
}

func TestExecuteCommandUndoRedoRemovesAndRestores(t *testing.T) {
	e := newTestEmulator(t)

	if _, err := e.ExecuteCommand([]string{"remove", "ram0"}); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok := e.root.LookupPath("root.mainbus0.ram0"); ok {
		t.Fatalf("ram0 still present after remove")
	}

	if _, err := e.ExecuteCommand([]string{"undo"}); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if _, ok := e.root.LookupPath("root.mainbus0.ram0"); !ok {
		t.Fatalf("ram0 missing after undo")
	}

	if _, err := e.ExecuteCommand([]string{"redo"}); err != nil {
		t.Fatalf("redo: %v", err)
	}
	if _, ok := e.root.LookupPath("root.mainbus0.ram0"); ok {
		t.Fatalf("ram0 still present after redo of remove")
	}
}

func TestExecuteCommandResetZeroesStep(t *testing.T) {
	e := newTestEmulator(t)
	e.setStep(42)

	if _, err := e.ExecuteCommand([]string{"reset"}); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if e.step() != 0 {
		t.Fatalf("step after reset = %d, want 0", e.step())
	}
}

func TestExecuteCommandTreeListsComponents(t *testing.T) {
	e := newTestEmulator(t)

	out, err := e.ExecuteCommand([]string{"tree"})
	if err != nil {
		t.Fatalf("tree: %v", err)
	}
	if !strings.Contains(out, "cpu0") || !strings.Contains(out, "ram0") {
		t.Fatalf("tree output missing components: %s", out)
	}
}

func TestExecuteCommandBackwardStepNotSupported(t *testing.T) {
	e := newTestEmulator(t)
	if _, err := e.ExecuteCommand([]string{"backward-step"}); err == nil {
		t.Fatalf("expected an error for backward-step")
	}
}

func TestExecuteCyclesAdvancesStepAndTime(t *testing.T) {
	e := newTestEmulator(t)

	before := e.step()
	e.Step(1e-6)
	if e.time() == 0 {
		t.Fatalf("time did not advance")
	}
	_ = before // the CPU executes 0 useful cycles from an all-zero RAM page, but time still advances
}

func TestSnapshotIncludesTreeAndRegisters(t *testing.T) {
	e := newTestEmulator(t)
	snap := e.Snapshot(nil)

	if len(snap.Tree) == 0 {
		t.Fatalf("expected a non-empty tree")
	}
	if len(snap.Registers) != 32 {
		t.Fatalf("expected 32 registers, got %d", len(snap.Registers))
	}
}

func TestSnapshotFlagsChangedRegisters(t *testing.T) {
	e := newTestEmulator(t)

	cpu, ok := e.root.LookupPath("root.mainbus0.cpu0")
	if !ok {
		t.Fatalf("cpu0 not found")
	}
	cpu.SetVariableValue("r2", "5")
	first := e.Snapshot(nil)
	prev := make(map[string]string, len(first.Registers))
	for _, r := range first.Registers {
		prev[r.Name] = r.Value
	}

	cpu.SetVariableValue("r2", "9")
	second := e.Snapshot(prev)

	var found bool
	for _, r := range second.Registers {
		if r.Name == "r2" {
			found = true
			if !r.Changed {
				t.Fatalf("expected r2 to be flagged changed")
			}
		}
	}
	if !found {
		t.Fatalf("r2 missing from register dump")
	}
}

func TestClearEmulationResetsTreeAndHistory(t *testing.T) {
	e := newTestEmulator(t)
	e.ClearEmulation()

	if len(e.root.Children()) != 0 {
		t.Fatalf("expected empty root after ClearEmulation")
	}
	if e.actions.IsUndoPossible() {
		t.Fatalf("expected empty undo stack after ClearEmulation")
	}
}
