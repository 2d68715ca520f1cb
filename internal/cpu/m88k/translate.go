package m88k

import (
	"github.com/gxcore/gxcore/internal/component"
	"github.com/gxcore/gxcore/internal/dyntrans"
	"github.com/gxcore/gxcore/internal/gxerr"
)

func cpuOf(e *dyntrans.Engine) *CPU { return e.Arch.(*CPU) }

// regArg returns a register's address, redirecting the zero register to a
// scratch cell so a destination of r0 is a silent no-op instead of
// corrupting the invariant r0 == 0 (M88K_ZERO_REG handling throughout
// Translate).
func (c *CPU) regArg(i uint32) *uint64 {
	if i == zeroReg {
		return &c.zeroScratch
	}
	return &c.r[i]
}

// Translate decodes iw into cell, implementing dyntrans.Arch. Returns false
// (cell becomes nop) for forms original_source itself never implemented:
// div/divu, the ld/st/xmem family besides plain word st, delayed
// jmp.n/jsr.n, and register-pair ld.d/st.d. Every br and bsr is translated.
func (c *CPU) Translate(iw uint32, cell *dyntrans.Cell) bool {
	f := decode(iw)

	switch {
	case f.op26 == 0x09: // st (store word)
		cell.F = stWord
		cell.Args[0].Reg = c.regArg(f.d)
		cell.Args[1].Reg = c.regArg(f.s1)
		cell.Args[2].Imm = f.imm16
		return true

	case f.op26 >= 0x10 && f.op26 <= 0x1f:
		return c.translateImmediateALU(f, cell)

	case f.op26 == 0x20:
		if iw&0x001ff81f == 0x00004000 {
			cell.F = ldcr
			cell.Args[0].Reg = c.regArg(f.d)
			cell.Args[1].Imm = f.cr6
			return true
		}
		return false

	case f.op26 == 0x30: // br
		return c.translateBranch(f, false, cell)
	case f.op26 == 0x32: // bsr
		return c.translateBranch(f, true, cell)

	case f.op26 == 0x3d:
		return c.translateThreeRegister(f, cell)
	}

	return false
}

// translateImmediateALU handles op26 0x10..0x1f: the two-register-plus-
// immediate class (and/and.u/mask/mask.u/xor/xor.u/or/or.u/addu/subu/mulu/
// cmp), matching the shift/forced-bit folding the source applies before
// picking a kernel.
func (c *CPU) translateImmediateALU(f fields, cell *dyntrans.Cell) bool {
	shift := uint32(0)
	var fn dyntrans.InstrFunc

	switch f.op26 {
	case 0x10: // and
		fn = dyntrans.AndU32U32Immu32
	case 0x11: // and.u
		fn, shift = dyntrans.AndU32U32Immu32, 16
	case 0x12: // mask (implemented via and, no forced bits)
		fn = dyntrans.AndU32U32Immu32
	case 0x13: // mask.u
		fn, shift = dyntrans.AndU32U32Immu32, 16
	case 0x14: // xor
		fn = dyntrans.XorU32U32Immu32
	case 0x15: // xor.u
		fn, shift = dyntrans.XorU32U32Immu32, 16
	case 0x16: // or
		fn = dyntrans.OrU32U32Immu32
	case 0x17: // or.u
		fn, shift = dyntrans.OrU32U32Immu32, 16
	case 0x18: // addu
		fn = dyntrans.AddU32U32Immu32
	case 0x19: // subu
		fn = dyntrans.SubU32U32Immu32
	case 0x1b: // mulu
		fn = muluImm
	case 0x1f: // cmp
		fn = cmpImm
	default: // divu, add, sub, div: left unimplemented, as in the source
		return false
	}

	imm := f.imm16 << shift
	if f.op26 == 0x10 {
		imm |= 0xffff0000
	}
	if f.op26 == 0x11 {
		imm |= 0x0000ffff
	}

	cell.F = fn
	cell.Args[0].Reg = c.regArg(f.d)
	cell.Args[1].Reg = c.regArg(f.s1)
	cell.Args[2].Imm = imm

	if f.d == zeroReg {
		cell.F = dyntrans.Nop
	}
	return true
}

// translateThreeRegister handles op26 0x3d: the three-register ALU forms
// and the one-register jmp/jsr forms, keyed by the 8-bit op3d field.
func (c *CPU) translateThreeRegister(f fields, cell *dyntrans.Cell) bool {
	var fn dyntrans.InstrFunc
	switch f.op3d {
	case 0x40: // and
		fn = dyntrans.AndU32U32U32
	case 0x50: // xor
		fn = dyntrans.XorU32U32U32
	case 0x58: // or
		fn = dyntrans.OrU32U32U32
	case 0x60: // addu
		fn = dyntrans.AddU32U32U32
	case 0x64: // subu
		fn = dyntrans.SubU32U32U32
	case 0x70: // add (no overflow trap implemented, treated as addu)
		fn = dyntrans.AddU32U32U32
	case 0x74: // sub
		fn = dyntrans.SubU32U32U32
	case 0x7c: // cmp
		cell.F = cmpReg
		cell.Args[0].Reg = c.regArg(f.d)
		cell.Args[1].Reg = c.regArg(f.s1)
		cell.Args[2].Reg = c.regArg(f.s2)
		return true
	case 0xc0: // jmp (no delay slot)
		cell.F = jmp
		cell.Args[0].Reg = c.regArg(f.s2)
		return true
	case 0xc8: // jsr (no delay slot)
		cell.F = jsr
		cell.Args[0].Reg = c.regArg(f.s2)
		cell.Args[1].Imm = uint32(c.pc + 4) // return address, fixed at translate time
		return true
	default:
		// jmp.n/jsr.n (delayed) and the remaining bit-field/divide/trap
		// ops are unimplemented upstream too (genuinely TODO there).
		return false
	}

	cell.Args[0].Reg = c.regArg(f.d)
	cell.Args[1].Reg = c.regArg(f.s1)
	cell.Args[2].Reg = c.regArg(f.s2)
	return true
}

// translateBranch handles br/bsr. The samepage-vs-general distinction the
// source makes for performance (a raw cell pointer vs recomputing the
// target through pc) collapses in Go to one kernel that always calls
// Engine.Branch; br is otherwise unimplemented upstream outside the
// samepage case, but Branch makes the general case just as cheap here, so
// there is no reason to special-case it.
func (c *CPU) translateBranch(f fields, link bool, cell *dyntrans.Cell) bool {
	insnAddr := c.pc // set by the engine's to-be-translated resync
	target := uint64(int64(insnAddr&0xfffffffc) + int64(f.d26))
	returnAddr := (insnAddr & 0xfffffffc) + 4

	cell.Args[0].Imm = uint32(target)
	cell.Args[1].Imm = uint32(returnAddr)
	if link {
		cell.F = bsr
	} else {
		cell.F = br
	}
	return true
}

// br: unconditional branch. Args[0].Imm = absolute target.
func br(e *dyntrans.Engine, cell *dyntrans.Cell) {
	e.Branch(uint64(cell.Args[0].Imm))
}

// bsr: branch and link. Args[0].Imm = target, Args[1].Imm = return address.
func bsr(e *dyntrans.Engine, cell *dyntrans.Cell) {
	c := cpuOf(e)
	c.r[returnReg] = uint64(cell.Args[1].Imm)
	e.Branch(uint64(cell.Args[0].Imm))
}

// jmp: register-indirect jump, no delay slot. Args[0].Reg = target register.
func jmp(e *dyntrans.Engine, cell *dyntrans.Cell) {
	e.Branch(*cell.Args[0].Reg & 0xfffffffc)
}

// jsr: register-indirect call, no delay slot. Args[0].Reg = target register,
// Args[1].Imm = return address (fixed at translate time, since the cell may
// run again from cache with a stale live pc).
func jsr(e *dyntrans.Engine, cell *dyntrans.Cell) {
	c := cpuOf(e)
	c.r[returnReg] = uint64(cell.Args[1].Imm)
	e.Branch(*cell.Args[0].Reg & 0xfffffffc)
}

// ldcr: load control register, privilege-checked.
// Args[0].Reg = dest, Args[1].Imm = control register number.
func ldcr(e *dyntrans.Engine, cell *dyntrans.Cell) {
	c := cpuOf(e)
	if c.cr[crPSR]&psrMode != 0 {
		*cell.Args[0].Reg = uint64(c.cr[cell.Args[1].Imm])
		return
	}
	e.LastFault = gxerr.New(gxerr.UnsupportedCapability, c.Path(), "ldcr: privilege violation")
}

// stWord: store a 32-bit word, alignment-checked.
// Args[0].Reg = data register, Args[1].Reg = base register, Args[2].Imm = offset.
func stWord(e *dyntrans.Engine, cell *dyntrans.Cell) {
	c := cpuOf(e)
	addr := uint32(*cell.Args[1].Reg) + cell.Args[2].Imm
	if addr&3 != 0 {
		e.LastFault = gxerr.New(gxerr.BusFailure, c.Path(), "st: misaligned access")
		return
	}
	bus, ok := c.resolveBus()
	if !ok {
		e.LastFault = gxerr.New(gxerr.BusFailure, c.Path(), "st: no bus reachable")
		return
	}
	endian := component.LittleEndian
	if c.isBigEndian() {
		endian = component.BigEndian
	}
	bus.AddressSelect(uint64(addr))
	bus.WriteData(uint64(uint32(*cell.Args[0].Reg)), 4, endian)
}

// muluImm: unsigned multiply by a zero-extended 16-bit immediate.
// Args[0].Reg = dest, Args[1].Reg = src, Args[2].Imm = imm.
func muluImm(e *dyntrans.Engine, cell *dyntrans.Cell) {
	*cell.Args[0].Reg = uint64(uint32(*cell.Args[1].Reg) * cell.Args[2].Imm)
}

// cmp writes the m88k comparison-flag word (see the cmp-bit constants in
// m88k.go) into the destination register.
func cmp(dest *uint64, x, y uint32) {
	var r uint32
	if x == y {
		r = cmpEQ | cmpLE | cmpGE | cmpLS | cmpHS
	} else {
		if x > y {
			r = cmpNE | cmpHS | cmpHI
		} else {
			r = cmpNE | cmpLO | cmpLS
		}
		if int32(x) > int32(y) {
			r |= cmpGE | cmpGT
		} else {
			r |= cmpLT | cmpLE
		}
	}
	*dest = uint64(r)
}

// cmpImm: cmp s1 with a zero-extended immediate. Args[0].Reg = dest,
// Args[1].Reg = s1, Args[2].Imm = immediate.
func cmpImm(e *dyntrans.Engine, cell *dyntrans.Cell) {
	cmp(cell.Args[0].Reg, uint32(*cell.Args[1].Reg), cell.Args[2].Imm)
}

// cmpReg: cmp s1 with s2. Args[0].Reg = dest, Args[1].Reg = s1, Args[2].Reg = s2.
func cmpReg(e *dyntrans.Engine, cell *dyntrans.Cell) {
	cmp(cell.Args[0].Reg, uint32(*cell.Args[1].Reg), uint32(*cell.Args[2].Reg))
}
