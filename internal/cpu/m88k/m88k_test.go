package m88k

import (
	"testing"

	"github.com/gxcore/gxcore/internal/dyntrans"
)

func TestDisassembleAddu(t *testing.T) {
	// 0x63df0010: op26=0x18 (addu), d=30, s1=31, imm16=0x10.
	bytes := []byte{0x63, 0xdf, 0x00, 0x10}
	consumed, lines := DisassembleInstruction(0x1000, bytes, true)
	if consumed != 4 {
		t.Fatalf("consumed = %d, want 4", consumed)
	}
	if len(lines) < 3 || lines[1] != "addu" || lines[2] != "r30,r31,0x10" {
		t.Fatalf("lines = %#v, want [hex, addu, r30,r31,0x10]", lines)
	}
}

func TestDisassembleBranchTargetAboveLowPage(t *testing.T) {
	// br with field=4 (16-byte forward displacement), disassembled at an
	// address above the low 4KiB window: the target must be vaddr+16, not
	// truncated down into that window.
	const vaddr = 0x00100000
	iw := uint32(0x30<<26) | 4
	bytes := []byte{byte(iw >> 24), byte(iw >> 16), byte(iw >> 8), byte(iw)}
	consumed, lines := DisassembleInstruction(vaddr, bytes, true)
	if consumed != 4 {
		t.Fatalf("consumed = %d, want 4", consumed)
	}
	want := "0x100010"
	if len(lines) < 3 || lines[1] != "br" || lines[2] != want {
		t.Fatalf("lines = %#v, want [hex, br, %s]", lines, want)
	}
}

func TestEndiannessVariableDefaultsLittleAndTogglesByteOrderBit(t *testing.T) {
	c, _ := New("88100")
	v, ok := c.GetVariable("endianness")
	if !ok {
		t.Fatalf("endianness variable not registered")
	}
	if v.String() != "little" {
		t.Fatalf("endianness default = %q, want little", v.String())
	}
	if c.cr[crPSR]&psrByteOrder == 0 {
		t.Fatalf("PSR byte-order bit not set for little-endian reset")
	}

	c.SetVariableValue("endianness", "big")
	c.resetState()
	if c.cr[crPSR]&psrByteOrder != 0 {
		t.Fatalf("PSR byte-order bit set after switching to big-endian")
	}
}

func TestResetStateInvariants(t *testing.T) {
	c, err := New("88100")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.r[zeroReg] != 0 {
		t.Fatalf("r0 = %d, want 0", c.r[zeroReg])
	}
	if c.cr[crPSR]&psrMode == 0 {
		t.Fatalf("PSR supervisor mode bit not set after reset")
	}
	if c.cr[crPID]&pidMC == 0 {
		t.Fatalf("PID master/checker bit not set after reset")
	}
}

func TestPreRunCheckRejectsNonzeroR0(t *testing.T) {
	c, _ := New("88100")
	c.r[zeroReg] = 1
	var warnings []string
	ok := c.Component.PreRunCheck(func(s string) { warnings = append(warnings, s) })
	if ok {
		t.Fatalf("PreRunCheck = true with r0 != 0, want false")
	}
	if len(warnings) == 0 {
		t.Fatalf("expected a warning about r0")
	}
}

func TestTranslateAdduImmediate(t *testing.T) {
	c, _ := New("88100")
	c.r[31] = 5
	iw := uint32(0x18<<26 | 30<<21 | 31<<16 | 0x10) // addu r30,r31,0x10
	var cell dyntrans.Cell
	if !c.Translate(iw, &cell) {
		t.Fatalf("Translate returned false")
	}
	cell.F(c.engine, &cell)
	if c.r[30] != 0x15 {
		t.Fatalf("r30 = %#x, want 0x15", c.r[30])
	}
}

func TestTranslateZeroDestBecomesNop(t *testing.T) {
	c, _ := New("88100")
	iw := uint32(0x18<<26 | zeroReg<<21 | 1<<16 | 1) // addu r0,r1,1
	var cell dyntrans.Cell
	if !c.Translate(iw, &cell) {
		t.Fatalf("Translate returned false")
	}
	c.r[1] = 99
	cell.F(c.engine, &cell)
	if c.r[zeroReg] != 0 {
		t.Fatalf("r0 = %d after a d==r0 immediate op, want 0 (nop rewrite)", c.r[zeroReg])
	}
}

func TestTranslateCmpRegisters(t *testing.T) {
	c, _ := New("88100")
	c.r[1] = 5
	c.r[2] = 5
	iw := uint32(0x3d<<26 | 3<<21 | 1<<16 | 0x7c<<8 | 2) // cmp r3,r1,r2
	var cell dyntrans.Cell
	if !c.Translate(iw, &cell) {
		t.Fatalf("Translate returned false")
	}
	cell.F(c.engine, &cell)
	want := uint64(cmpEQ | cmpLE | cmpGE | cmpLS | cmpHS)
	if c.r[3] != want {
		t.Fatalf("r3 = %#x, want %#x (equal-flags)", c.r[3], want)
	}
}

func TestTranslateBsrSetsReturnRegisterAndBranches(t *testing.T) {
	c, _ := New("88100")
	c.SetPC(0x2000)
	c.r[31] = 0
	// bsr with a small forward displacement: the 26-bit signed field is
	// divided by 4 relative to the byte offset (decode()'s d26 = field*4),
	// so field=4 gives a target 16 bytes ahead.
	iw := uint32(0x32<<26) | 4
	var cell dyntrans.Cell
	c.pc = 0x2000 // Translate reads c.pc directly, as the engine would set via SetPC
	if !c.Translate(iw, &cell) {
		t.Fatalf("Translate returned false")
	}
	cell.F(c.engine, &cell)
	if c.r[returnReg] != 0x2004 {
		t.Fatalf("return register = %#x, want 0x2004", c.r[returnReg])
	}
	if c.PC() != 0x2010 {
		t.Fatalf("pc after bsr = %#x, want 0x2010", c.PC())
	}
}

func TestMuluImmediate(t *testing.T) {
	c, _ := New("88100")
	c.r[1] = 6
	iw := uint32(0x1b<<26 | 2<<21 | 1<<16 | 7) // mulu r2,r1,7
	var cell dyntrans.Cell
	if !c.Translate(iw, &cell) {
		t.Fatalf("Translate returned false")
	}
	cell.F(c.engine, &cell)
	if c.r[2] != 42 {
		t.Fatalf("r2 = %d, want 42", c.r[2])
	}
}
