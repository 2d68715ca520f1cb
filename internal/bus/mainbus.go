package bus

import "github.com/gxcore/gxcore/internal/component"

// Mainbus is the routing AddressDataBus: a composite that dispatches a
// latched address to whichever direct child's memory-mapped window covers
// it, dividing by that child's addrMul before the range compare (spec
// §4.3). A failed route (no window covers the address) reports ok=false on
// the subsequent transfer rather than panicking.
type Mainbus struct {
	*component.Component

	targets []routeTarget
	cached  bool

	addressSelect uint64
	selected      *routeTarget
}

// NewMainbus constructs a detached routing bus component.
func NewMainbus() *Mainbus {
	base := component.New("mainbus", "bus")
	b := &Mainbus{Component: base}
	base.SetBus(b)
	base.SetFlushCachedState(b.flushCachedState)
	base.SetPreRunCheck(b.preRunCheck)
	return b
}

func init() {
	component.Register("mainbus", component.Attributes{
		Stable:      true,
		Description: "Routing address/data bus",
	}, func() *component.Component { return NewMainbus().Component })
}

func (b *Mainbus) flushCachedState() {
	b.targets = nil
	b.cached = false
	b.selected = nil
}

func (b *Mainbus) preRunCheck(warn func(string)) bool {
	if err := CheckOverlap(b.Component); err != nil {
		warn(err.Error())
		return false
	}
	return true
}

func (b *Mainbus) ensureTargets() {
	if b.cached {
		return
	}
	b.targets = gatherTargets(b.Component)
	b.cached = true
}

// AddressSelect latches addr and resolves which child window (if any)
// covers it; the routing decision is cached until FlushCachedState.
func (b *Mainbus) AddressSelect(addr uint64) {
	b.ensureTargets()
	b.addressSelect = addr
	b.selected = nil
	for i := range b.targets {
		t := &b.targets[i]
		scaled := addr
		if t.addrMul > 1 {
			scaled = addr / t.addrMul
		}
		if scaled >= t.base && scaled < t.base+t.size {
			b.selected = t
			break
		}
	}
}

func (b *Mainbus) childAddr() uint64 {
	scaled := b.addressSelect
	if b.selected.addrMul > 1 {
		scaled = b.addressSelect / b.selected.addrMul
	}
	return scaled - b.selected.base
}

// ReadData forwards the transfer to the routed child, or reports ok=false
// if AddressSelect found no covering window.
func (b *Mainbus) ReadData(width int, endian component.Endianness) (uint64, bool) {
	if b.selected == nil {
		return 0, false
	}
	b.selected.dev.AddressSelect(b.childAddr())
	return b.selected.dev.ReadData(width, endian)
}

// WriteData forwards the transfer to the routed child, or reports ok=false
// if AddressSelect found no covering window.
func (b *Mainbus) WriteData(value uint64, width int, endian component.Endianness) bool {
	if b.selected == nil {
		return false
	}
	b.selected.dev.AddressSelect(b.childAddr())
	return b.selected.dev.WriteData(value, width, endian)
}
