package bus

import (
	"github.com/gxcore/gxcore/internal/component"
	"github.com/gxcore/gxcore/internal/statevar"
)

// blockShift/blockSize mirror the source's "large blocks of host memory
// (e.g. 4 MB per block)" comment in RAMComponent.h: a block is lazily
// allocated only on its first write, and reading an address whose block was
// never written returns zero without allocating anything.
const (
	blockShift = 22
	blockSize  = 1 << blockShift
	blockMask  = blockSize - 1
)

// Ram is a RAM/ROM/VRAM component: sparse block storage, optional
// write-protection, and zero-on-read-before-write semantics. Grounded on
// original_source/src/include/components/RAMComponent.h.
type Ram struct {
	*component.Component
	MemoryMapped

	writeProtected bool
	lastDumpAddr   uint64

	blocks map[uint64][]byte

	// Cached/runtime state, reset by FlushCachedState.
	addressSelect   uint64
	selectedBlock   []byte
	selectedOffset  uint64
	selectedIsValid bool
}

// NewRam constructs a detached Ram component. visibleClassName defaults to
// "ram" via the registry; callers building a ROM or VRAM instance pass
// their own label and set write-protection as appropriate.
func NewRam(visibleClassName string) *Ram {
	if visibleClassName == "" {
		visibleClassName = "ram"
	}
	base := component.New("ram", visibleClassName)
	r := &Ram{Component: base, blocks: make(map[uint64][]byte)}
	r.MemoryMapped.RegisterVariables(base)
	base.AddVariable(statevar.NewBool("writeProtected", &r.writeProtected))
	base.AddVariable(statevar.NewUint64("lastDumpAddr", &r.lastDumpAddr))
	base.SetBus(r)
	base.SetFlushCachedState(r.flushCachedState)
	return r
}

func init() {
	component.Register("ram", component.Attributes{
		Stable:      true,
		Description: "Random Access Memory",
	}, func() *component.Component { return NewRam("ram").Component })
}

func (r *Ram) flushCachedState() {
	r.selectedBlock = nil
	r.selectedIsValid = false
}

// AddressSelect latches addr and resolves (without allocating) the block it
// falls in, per spec §4.4.
func (r *Ram) AddressSelect(addr uint64) {
	r.addressSelect = addr
	blockNr := addr >> blockShift
	r.selectedOffset = addr & blockMask
	r.selectedBlock = r.blocks[blockNr]
	r.selectedIsValid = true
}

// ReadData reads width bytes (1, 2, 4, or 8) from the selected address,
// byte-swapping to the requested endianness. An unwritten block reads back
// as zero; the only failure is an unsupported width.
func (r *Ram) ReadData(width int, endian component.Endianness) (uint64, bool) {
	if !r.selectedIsValid {
		r.AddressSelect(r.addressSelect)
	}
	if r.selectedBlock == nil {
		return 0, true
	}
	off := r.selectedOffset
	switch width {
	case 1:
		return uint64(r.selectedBlock[off]), true
	case 2:
		v := uint16(r.selectedBlock[off]) | uint16(r.selectedBlock[off+1])<<8
		return uint64(swap16(v, endian)), true
	case 4:
		v := uint32(r.selectedBlock[off]) | uint32(r.selectedBlock[off+1])<<8 |
			uint32(r.selectedBlock[off+2])<<16 | uint32(r.selectedBlock[off+3])<<24
		return uint64(swap32(v, endian)), true
	case 8:
		var v uint64
		for i := 0; i < 8; i++ {
			v |= uint64(r.selectedBlock[off+uint64(i)]) << (8 * i)
		}
		return swap64(v, endian), true
	}
	return 0, false
}

// WriteData writes width bytes to the selected address, lazily allocating
// the backing block (zero-initialized) on first touch. Fails if the
// component is write-protected or the width is not 1, 2, 4, or 8.
func (r *Ram) WriteData(value uint64, width int, endian component.Endianness) bool {
	if r.writeProtected {
		return false
	}
	if r.selectedBlock == nil {
		blockNr := r.addressSelect >> blockShift
		block := make([]byte, blockSize)
		r.blocks[blockNr] = block
		r.selectedBlock = block
		r.selectedIsValid = true
	}
	off := r.selectedOffset
	switch width {
	case 1:
		r.selectedBlock[off] = byte(value)
	case 2:
		v := swap16(uint16(value), endian)
		r.selectedBlock[off] = byte(v)
		r.selectedBlock[off+1] = byte(v >> 8)
	case 4:
		v := swap32(uint32(value), endian)
		r.selectedBlock[off] = byte(v)
		r.selectedBlock[off+1] = byte(v >> 8)
		r.selectedBlock[off+2] = byte(v >> 16)
		r.selectedBlock[off+3] = byte(v >> 24)
	case 8:
		v := swap64(value, endian)
		for i := 0; i < 8; i++ {
			r.selectedBlock[off+uint64(i)] = byte(v >> (8 * i))
		}
	default:
		return false
	}
	return true
}

// Dump renders 16 rows of 16 bytes starting at addr (or the continuation of
// the last dump, if addr is nil) in hex plus printable ASCII. Bytes from a
// block that was never written show as "00", since they read back as zero;
// "--" appears only where a read fails. Mirrors RAMComponent's
// m_lastDumpAddr continuation behavior (spec §4.5, supplemented per
// SPEC_FULL.md item 3).
func (r *Ram) Dump(addr *uint64) string {
	start := r.lastDumpAddr
	if addr != nil {
		start = *addr
	}
	var out []byte
	for row := 0; row < 16; row++ {
		rowAddr := start + uint64(row*16)
		out = appendHexRow(out, r, rowAddr)
	}
	r.lastDumpAddr = start + 16*16
	return string(out)
}
