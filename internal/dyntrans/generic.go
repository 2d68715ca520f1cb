package dyntrans

import (
	"fmt"

	"github.com/gxcore/gxcore/internal/gxerr"
)

// The generic instruction kernels below are architecture-independent
// primitives any CPUDyntransComponent-style engine can reuse (spec §4.6,
// "Per-instruction implementations"). Each documents which Args slots it
// reads/writes; Args[0] is the destination by convention except where noted.

// Nop does nothing and leaves nextIC untouched (straight-line execution).
func Nop(e *Engine, cell *Cell) {}

// instrNop is Nop under the name to_be_translated installs on decode
// failure (spec §4.6: "the cell's f is replaced with nop").
var instrNop InstrFunc = Nop

// Abort records an invariant-violation fault and leaves the cell unable to
// make further progress; reached only for conditions the architecture
// considers genuinely unrecoverable (a failed instruction fetch here).
func Abort(e *Engine, cell *Cell) {
	e.LastFault = gxerr.New(gxerr.InvariantViolation, "", fmt.Sprintf("dyntrans: abort at pc=%#x", e.Arch.PC()))
}

var instrAbort InstrFunc = Abort

// AbortInDelaySlot is Abort's delay-slot counterpart: reached when an
// instruction fetch fails for the instruction following a delayed branch.
func AbortInDelaySlot(e *Engine, cell *Cell) {
	e.LastFault = gxerr.New(gxerr.InvariantViolation, "", fmt.Sprintf("dyntrans: abort in delay slot at pc=%#x", e.Arch.PC()))
}

// BranchSamepage performs an intra-page branch: Args[0].Imm is the target
// cell index within the currently executing page.
func BranchSamepage(e *Engine, cell *Cell) {
	e.nextIC = int(cell.Args[0].Imm)
}

// SetU64Imms32 writes a sign-extended 32-bit immediate into a 64-bit
// register. Args[0].Reg = dest, Args[1].Imm = the 32-bit immediate.
func SetU64Imms32(e *Engine, cell *Cell) {
	*cell.Args[0].Reg = uint64(int64(int32(cell.Args[1].Imm)))
}

// AddU32U32Immu32: Args[0].Reg = dest, Args[1].Reg = src, Args[2].Imm = imm.
func AddU32U32Immu32(e *Engine, cell *Cell) {
	*cell.Args[0].Reg = uint64(uint32(*cell.Args[1].Reg) + cell.Args[2].Imm)
}

// AddU32U32U32: Args[0].Reg = dest, Args[1].Reg = src1, Args[2].Reg = src2.
func AddU32U32U32(e *Engine, cell *Cell) {
	*cell.Args[0].Reg = uint64(uint32(*cell.Args[1].Reg) + uint32(*cell.Args[2].Reg))
}

// AddU64U64Imms32TruncS32: 32-bit add of src and a sign-extended immediate,
// the 32-bit result re-sign-extended into the 64-bit destination.
func AddU64U64Imms32TruncS32(e *Engine, cell *Cell) {
	result := uint32(*cell.Args[1].Reg) + cell.Args[2].Imm
	*cell.Args[0].Reg = uint64(int64(int32(result)))
}

// AddU64U64Imms32: full 64-bit add of src and a sign-extended immediate.
func AddU64U64Imms32(e *Engine, cell *Cell) {
	*cell.Args[0].Reg = *cell.Args[1].Reg + uint64(int64(int32(cell.Args[2].Imm)))
}

// SubU32U32Immu32: Args[0].Reg = dest, Args[1].Reg = src, Args[2].Imm = imm.
func SubU32U32Immu32(e *Engine, cell *Cell) {
	*cell.Args[0].Reg = uint64(uint32(*cell.Args[1].Reg) - cell.Args[2].Imm)
}

// SubU32U32U32: Args[0].Reg = dest, Args[1].Reg = src1, Args[2].Reg = src2.
func SubU32U32U32(e *Engine, cell *Cell) {
	*cell.Args[0].Reg = uint64(uint32(*cell.Args[1].Reg) - uint32(*cell.Args[2].Reg))
}

// AndU32U32Immu32: Args[0].Reg = dest, Args[1].Reg = src, Args[2].Imm = mask.
func AndU32U32Immu32(e *Engine, cell *Cell) {
	*cell.Args[0].Reg = uint64(uint32(*cell.Args[1].Reg) & cell.Args[2].Imm)
}

// AndU64U64Immu32: 64-bit AND with a zero-extended 32-bit immediate.
func AndU64U64Immu32(e *Engine, cell *Cell) {
	*cell.Args[0].Reg = *cell.Args[1].Reg & uint64(cell.Args[2].Imm)
}

// AndU32U32U32: Args[0].Reg = dest, Args[1].Reg = src1, Args[2].Reg = src2.
func AndU32U32U32(e *Engine, cell *Cell) {
	*cell.Args[0].Reg = uint64(uint32(*cell.Args[1].Reg) & uint32(*cell.Args[2].Reg))
}

// OrU32U32Immu32: Args[0].Reg = dest, Args[1].Reg = src, Args[2].Imm = mask.
func OrU32U32Immu32(e *Engine, cell *Cell) {
	*cell.Args[0].Reg = uint64(uint32(*cell.Args[1].Reg) | cell.Args[2].Imm)
}

// OrU32U32U32: Args[0].Reg = dest, Args[1].Reg = src1, Args[2].Reg = src2.
func OrU32U32U32(e *Engine, cell *Cell) {
	*cell.Args[0].Reg = uint64(uint32(*cell.Args[1].Reg) | uint32(*cell.Args[2].Reg))
}

// OrU64U64Immu32: 64-bit OR with a zero-extended 32-bit immediate.
func OrU64U64Immu32(e *Engine, cell *Cell) {
	*cell.Args[0].Reg = *cell.Args[1].Reg | uint64(cell.Args[2].Imm)
}

// XorU32U32Immu32: Args[0].Reg = dest, Args[1].Reg = src, Args[2].Imm = mask.
func XorU32U32Immu32(e *Engine, cell *Cell) {
	*cell.Args[0].Reg = uint64(uint32(*cell.Args[1].Reg) ^ cell.Args[2].Imm)
}

// XorU32U32U32: Args[0].Reg = dest, Args[1].Reg = src1, Args[2].Reg = src2.
func XorU32U32U32(e *Engine, cell *Cell) {
	*cell.Args[0].Reg = uint64(uint32(*cell.Args[1].Reg) ^ uint32(*cell.Args[2].Reg))
}

// XorU64U64Immu32: 64-bit XOR with a zero-extended 32-bit immediate.
func XorU64U64Immu32(e *Engine, cell *Cell) {
	*cell.Args[0].Reg = *cell.Args[1].Reg ^ uint64(cell.Args[2].Imm)
}

// ShiftLeftU64U64Imm5TruncS32: shift the low 32 bits of src left by a 5-bit
// immediate, re-sign-extending the 32-bit result into the 64-bit dest.
func ShiftLeftU64U64Imm5TruncS32(e *Engine, cell *Cell) {
	amount := cell.Args[2].Imm & 0x1f
	result := uint32(*cell.Args[1].Reg) << amount
	*cell.Args[0].Reg = uint64(int64(int32(result)))
}
