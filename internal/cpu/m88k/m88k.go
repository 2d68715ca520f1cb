// Package m88k implements the Motorola 88000 CPU component: register file,
// control registers, disassembly, and the dyntrans translate step that
// drives internal/dyntrans.Engine. Grounded on
// original_source/src/components/cpu/M88K_CPUComponent.{h,cc} and
// original_source/src/include/m88k_psl.h.
package m88k

import (
	"fmt"

	"github.com/gxcore/gxcore/internal/component"
	"github.com/gxcore/gxcore/internal/dyntrans"
	"github.com/gxcore/gxcore/internal/gxerr"
	"github.com/gxcore/gxcore/internal/statevar"
)

const (
	nRegs        = 32 // N_M88K_REGS
	nControlRegs = 64 // N_M88K_CONTROL_REGS
	nFPUControlRegs = 4 // N_M88K_FPU_CONTROL_REGS

	zeroReg   = 0 // M88K_ZERO_REG
	returnReg = 1 // M88K_RETURN_REG

	instrAlignShift  = 2  // M88K_INSTR_ALIGNMENT_SHIFT: 4 bytes/instruction
	icEntriesShift   = 10 // M88K_IC_ENTRIES_SHIFT
	icEntriesPerPage = 1 << icEntriesShift

	// Named control register indices (M88K_CR_NAMES order).
	crPID  = 0
	crPSR  = 1
	crEPSR = 2
	crVBR  = 7

	pidMC       = 0x00000001 // M88K_PID_MC
	psrMode     = 0x80000000 // M88K_PSR_MODE
	psrByteOrder = 0x40000000 // M88K_PSR_BO
	psrInterruptDisable = 0x00000002 // M88K_PSR_IND

	// Exception vectors (original_source leaves these as a TODO "throw";
	// kept as named constants so the abort path can report which one).
	exceptionPrivilegeViolation = 0
	exceptionMisalignedAccess   = 1
)

// cmp result bits. The original header's M88K_CMP_* constants live in a
// platform psl.h that did not survive into original_source; these reproduce
// the flag set m88k_cmp's comparisons actually produce (EQ/NE, signed
// GT/LT/GE/LE, unsigned HI/LS/HS/LO), assigned our own bit positions since
// no surviving source pins down Motorola's numeric encoding.
const (
	cmpEQ = 1 << iota
	cmpNE
	cmpGT
	cmpLE
	cmpLT
	cmpGE
	cmpHI
	cmpLS
	cmpHS
	cmpLO
)

type typeDef struct {
	name string
	pid  uint32
}

// cpuTypeDefs mirrors M88K_CPU_TYPE_DEFS.
var cpuTypeDefs = map[string]typeDef{
	"88100": {name: "88100", pid: (0x00 << 8) | (3 << 1)},
	"88110": {name: "88110", pid: (0x01 << 8) | (0 << 1)},
}

// CPU is the m88k_cpu component: register file, control registers, PC,
// delay-slot bookkeeping, and a dyntrans.Engine driving translated
// execution. Implements component.CPU and component.AddressDataBus (the
// latter by forwarding to the nearest ancestor that offers one, matching
// LookupAddressDataBus in CPUComponent.h).
type CPU struct {
	*component.Component

	model string
	typ   typeDef

	frequency float64
	endianness string // "big" or "little" (spec's observable endianness state variable)

	// r holds the register file as uint64 so a register's address can be
	// handed straight to a dyntrans.Arg.Reg slot (*uint64); every m88k
	// kernel keeps the top 32 bits zero, so this is observationally a
	// 32-bit register file (see DESIGN.md's m88k register width note).
	r  [nRegs + 1]uint64 // r31 plus the "r32" zero-register mirror
	cr [nControlRegs]uint32
	fcr [nFPUControlRegs]uint32

	pc uint64

	inDelaySlot     bool
	delaySlotTarget uint64

	lastDumpAddr       uint64
	lastUnassembleAddr uint64

	engine *dyntrans.Engine

	// addressSelect/addressBus mirror the CPU's own AddressDataBus
	// implementation: AddressSelect latches, then ReadData/WriteData
	// forward to the nearest ancestor bus (normally a Mainbus), resolved
	// lazily and invalidated by FlushCachedState.
	addressSelect uint64
	addressBus    component.AddressDataBus

	zeroScratch uint64 // redirect target for d==zeroReg destinations
}

// New constructs a detached m88k_cpu component of the given model ("88100"
// or "88110").
func New(model string) (*CPU, error) {
	typ, ok := cpuTypeDefs[model]
	if !ok {
		return nil, fmt.Errorf("m88k: unimplemented model %q", model)
	}

	base := component.New("m88k_cpu", "Motorola 88000")
	c := &CPU{Component: base, model: model, typ: typ, frequency: 50e6, endianness: "little"}
	c.engine = dyntrans.NewEngine(c)

	base.AddVariable(statevar.NewString("model", &c.model))
	for i := 0; i < nRegs; i++ {
		base.AddVariable(statevar.NewUint64(fmt.Sprintf("r%d", i), &c.r[i]))
	}
	for i := 0; i < nControlRegs; i++ {
		base.AddVariable(statevar.NewUint32(fmt.Sprintf("cr%d", i), &c.cr[i]))
	}
	for i := 0; i < nFPUControlRegs; i++ {
		base.AddVariable(statevar.NewUint32(fmt.Sprintf("fcr%d", i), &c.fcr[i]))
	}
	base.AddVariable(statevar.NewBool("inDelaySlot", &c.inDelaySlot))
	base.AddVariable(statevar.NewUint64("delaySlotTarget", &c.delaySlotTarget))
	base.AddVariable(statevar.NewString("endianness", &c.endianness))

	base.SetCPU(c)
	base.SetBus(c)
	base.SetResetState(c.resetState)
	base.SetFlushCachedState(c.flushCachedState)
	base.SetPreRunCheck(c.preRunCheck)

	c.resetState()
	return c, nil
}

func init() {
	component.Register("m88k_cpu", component.Attributes{
		Stable:      true,
		Description: "Motorola 88000 CPU",
	}, func() *component.Component {
		c, _ := New("88100")
		return c.Component
	})
}

// resetState restores registers, control registers, and pc to power-on
// defaults (M88K_CPUComponent::ResetState).
func (c *CPU) resetState() {
	for i := range c.r {
		c.r[i] = 0
	}
	for i := range c.cr {
		c.cr[i] = 0
	}
	for i := range c.fcr {
		c.fcr[i] = 0
	}
	c.pc = 0
	c.inDelaySlot = false
	c.delaySlotTarget = 0

	c.cr[crPID] = c.typ.pid | pidMC
	c.cr[crPSR] = psrMode | psrInterruptDisable
	if !c.isBigEndian() {
		c.cr[crPSR] |= psrByteOrder
	}
}

// isBigEndian translates the observable "endianness" string variable back
// to a bool for internal byte-order decisions; any value other than "big"
// reads as little-endian.
func (c *CPU) isBigEndian() bool { return c.endianness == "big" }

func (c *CPU) flushCachedState() {
	c.addressBus = nil
	c.engine.FlushCachedState()
}

// preRunCheck enforces the invariants PreRunCheckForComponent documents:
// r0 reads as zero, pc fits 32 bits and is word-aligned.
func (c *CPU) preRunCheck(warn func(string)) bool {
	ok := true
	if c.r[zeroReg] != 0 {
		warn("the r0 register must contain the value 0")
		ok = false
	}
	if c.pc > 0xffffffff {
		warn("the pc register must be a 32-bit value")
		ok = false
	}
	if c.pc&0x3 != 0 {
		warn("the pc register must have its lower two bits clear")
		ok = false
	}
	if c.r[nRegs] != 0 {
		warn("internal error: the register following r31 must mimic r0")
		ok = false
	}
	return ok
}

// PC/SetPC/Frequency/Execute implement component.CPU.
func (c *CPU) PC() uint64          { return c.pc }
func (c *CPU) SetPC(pc uint64)     { c.pc = pc }
func (c *CPU) Frequency() float64  { return c.frequency }

// Execute runs up to nrOfCycles translated cells, enforcing the zero
// register invariant on return the way CheckVariableWrite does on every
// write (here applied once per batch instead of per register write, since
// the engine never exposes individual register stores to the component
// layer).
func (c *CPU) Execute(nrOfCycles int) int {
	c.r[zeroReg] = 0
	c.r[nRegs] = 0
	executed := c.engine.Execute(nrOfCycles)
	c.r[zeroReg] = 0
	c.r[nRegs] = 0
	return executed
}

// LastFault surfaces the dyntrans engine's most recent abort, if any.
func (c *CPU) LastFault() error { return c.engine.LastFault }

// resolveBus walks up the component tree looking for the nearest ancestor
// offering AddressDataBus, caching the result until FlushCachedState
// (LookupAddressDataBus in CPUComponent.h).
func (c *CPU) resolveBus() (component.AddressDataBus, bool) {
	if c.addressBus != nil {
		return c.addressBus, true
	}
	for p := c.Component.Parent(); p != nil; p = p.Parent() {
		if bus, ok := p.AsAddressDataBus(); ok {
			c.addressBus = bus
			return bus, true
		}
	}
	return nil, false
}

// AddressSelect/ReadData/WriteData implement component.AddressDataBus by
// forwarding to the resolved parent bus, matching
// M88K_CPUComponent::AddressSelect/ReadData/WriteData delegating to
// m_addressDataBus.
func (c *CPU) AddressSelect(addr uint64) {
	c.addressSelect = addr
	if bus, ok := c.resolveBus(); ok {
		bus.AddressSelect(addr)
	}
}

func (c *CPU) ReadData(width int, endian component.Endianness) (uint64, bool) {
	bus, ok := c.resolveBus()
	if !ok {
		return 0, false
	}
	return bus.ReadData(width, endian)
}

func (c *CPU) WriteData(value uint64, width int, endian component.Endianness) bool {
	bus, ok := c.resolveBus()
	if !ok {
		return false
	}
	return bus.WriteData(value, width, endian)
}

// ReadInstructionWord implements dyntrans.Arch: fetch 4 bytes through the
// bus at vaddr (VirtualToPhysical is the identity in original_source, so
// the address is used directly).
func (c *CPU) ReadInstructionWord(vaddr uint64) (uint32, bool) {
	bus, ok := c.resolveBus()
	if !ok {
		return 0, false
	}
	bus.AddressSelect(vaddr & 0xffffffff)
	endian := component.LittleEndian
	if c.isBigEndian() {
		endian = component.BigEndian
	}
	v, ok := bus.ReadData(4, endian)
	return uint32(v), ok
}

func (c *CPU) InstrAlignShift() uint   { return instrAlignShift }
func (c *CPU) PageEntriesShift() uint { return icEntriesShift }

// Exception records a fault in place of the original's thrown exception
// (spec §9's "exceptions become typed errors" rendering, per gxerr).
func (c *CPU) Exception(vector int, isTrap bool) error {
	return gxerr.New(gxerr.InvariantViolation, c.Path(),
		fmt.Sprintf("m88k exception vector=%d trap=%v at pc=%#x", vector, isTrap, c.pc))
}
