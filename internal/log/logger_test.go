package log

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewNopDoesNotPanic(t *testing.T) {
	l := NewNop()
	l.Action(uuid.New(), "add component ram0", true)
	l.Undo(uuid.New(), "add component ram0")
	l.Redo(uuid.New(), "add component ram0")
	l.ComponentAdded("mainbus0.ram0", "ram")
	l.ComponentRemoved("mainbus0.ram0", "ram")
	l.BusFault(0x1000, 0xdeadbeef, "unmapped")
	l.CPUException(0x1000, "unimplemented opcode")
	l.Loaded("kernel.gxemul", 0x1000)
}

func TestTraceInvokesCallback(t *testing.T) {
	l := NewNop()
	var gotPC uint64
	var gotCat, gotName, gotDetail string
	l.SetOnTrace(func(pc uint64, category, name, detail string) {
		gotPC, gotCat, gotName, gotDetail = pc, category, name, detail
	})

	l.Trace(0x2000, "bus", "fault", "unmapped address")

	if gotPC != 0x2000 || gotCat != "bus" || gotName != "fault" || gotDetail != "unmapped address" {
		t.Fatalf("callback got (%x, %q, %q, %q)", gotPC, gotCat, gotName, gotDetail)
	}
}

func TestHexFormatting(t *testing.T) {
	if got := Hex(0); got != "0x0" {
		t.Fatalf("Hex(0) = %q", got)
	}
	if got := Hex(0xff); got != "0xff" {
		t.Fatalf("Hex(0xff) = %q", got)
	}
}
