package dyntrans

import "testing"

// fakeArch is a minimal Arch good enough to drive the engine end to end
// without a real decoder: it treats every instruction word as a fixed
// add_u32_u32_immu32 into register 1, with instruction words served from a
// backing map keyed by address. It does not advance pc itself; the engine
// does.
type fakeArch struct {
	pc   uint64
	regs [4]uint64
	mem  map[uint64]uint32
}

func newFakeArch() *fakeArch {
	return &fakeArch{mem: make(map[uint64]uint32)}
}

func (a *fakeArch) PC() uint64     { return a.pc }
func (a *fakeArch) SetPC(pc uint64) { a.pc = pc }

func (a *fakeArch) ReadInstructionWord(vaddr uint64) (uint32, bool) {
	iw, ok := a.mem[vaddr]
	return iw, ok
}

func (a *fakeArch) Translate(iw uint32, cell *Cell) bool {
	// iw encodes a fixed "add reg[1] += imm" instruction for the test.
	cell.F = AddU32U32Immu32
	cell.Args[0].Reg = &a.regs[1]
	cell.Args[1].Reg = &a.regs[1]
	cell.Args[2].Imm = iw
	return true
}

func (a *fakeArch) InstrAlignShift() uint   { return 2 }
func (a *fakeArch) PageEntriesShift() uint { return 4 } // 16 cells/page, small for the test

func TestEngineTranslatesOnFirstExecution(t *testing.T) {
	arch := newFakeArch()
	arch.mem[0] = 5
	arch.mem[4] = 7
	e := NewEngine(arch)

	executed := e.Execute(2)
	if executed != 2 {
		t.Fatalf("executed = %d, want 2", executed)
	}
	if arch.regs[1] != 12 {
		t.Fatalf("regs[1] = %d, want 12", arch.regs[1])
	}
}

func TestEngineCachesTranslatedCells(t *testing.T) {
	arch := newFakeArch()
	arch.mem[0] = 1
	e := NewEngine(arch)

	e.Execute(1)
	// Mutate the backing memory; if the engine retranslated, the result
	// would reflect the new value instead of the cached one.
	arch.mem[0] = 100
	arch.SetPC(0)
	e.Execute(1)

	if arch.regs[1] != 2 {
		t.Fatalf("regs[1] = %d, want 2 (cached translation, not retranslated)", arch.regs[1])
	}
}

func TestEngineCrossesPageBoundary(t *testing.T) {
	arch := newFakeArch()
	// 16 cells/page, 4-byte-aligned instructions: page size = 16*4 = 64 bytes.
	for i := uint64(0); i < 17; i++ {
		arch.mem[i*4] = 1
	}
	e := NewEngine(arch)

	// 16 real cells + 1 end-of-page sentinel (no arithmetic effect, just
	// relocates pc/nextIC) + 1 more real cell from the next page.
	e.Execute(18)
	if arch.regs[1] != 17 {
		t.Fatalf("regs[1] = %d, want 17 after crossing a page boundary", arch.regs[1])
	}
}

func TestExecuteResyncsPCAfterStraightLineCells(t *testing.T) {
	arch := newFakeArch()
	arch.mem[48] = 1
	arch.SetPC(48)
	e := NewEngine(arch)

	e.Execute(1)
	if arch.PC() != 52 {
		t.Fatalf("PC() = %d, want 52 after executing the cell at 48", arch.PC())
	}

	// A cache hit (no retranslation) must still leave pc advanced.
	arch.SetPC(48)
	e.Execute(1)
	if arch.PC() != 52 {
		t.Fatalf("PC() = %d, want 52 after a cached re-execution", arch.PC())
	}
}

func TestFlushCachedStateForcesRetranslation(t *testing.T) {
	arch := newFakeArch()
	arch.mem[0] = 1
	e := NewEngine(arch)
	e.Execute(1)

	e.FlushCachedState()
	arch.mem[0] = 41
	arch.regs[1] = 0
	arch.SetPC(0)
	e.Execute(1)

	if arch.regs[1] != 41 {
		t.Fatalf("regs[1] = %d, want 41 after FlushCachedState forced retranslation", arch.regs[1])
	}
}
