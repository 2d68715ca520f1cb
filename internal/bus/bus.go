// Package bus implements the AddressDataBus capability — a two-phase
// select-then-transfer interface — and its two standard components: RAM and
// a routing composite bus that dispatches to memory-mapped children.
package bus

import (
	"github.com/gxcore/gxcore/internal/component"
	"github.com/gxcore/gxcore/internal/gxerr"
)

// Endianness re-exports component.Endianness so callers outside this
// package don't need to import component just to pick byte order.
type Endianness = component.Endianness

const (
	LittleEndian = component.LittleEndian
	BigEndian    = component.BigEndian
)

// swap16/32/64 convert a value already in host order to or from the
// requested guest byte order, matching the teacher's encoding/binary idiom
// (MemReadU16/U32/U64 in emulator_old/emulator.go) generalized to either
// endianness rather than little-endian only.
func swap16(v uint16, e Endianness) uint16 {
	if e == LittleEndian {
		return v
	}
	return v<<8 | v>>8
}

func swap32(v uint32, e Endianness) uint32 {
	if e == LittleEndian {
		return v
	}
	return v<<24 | (v<<8)&0x00ff0000 | (v>>8)&0x0000ff00 | v>>24
}

func swap64(v uint64, e Endianness) uint64 {
	if e == LittleEndian {
		return v
	}
	return v<<56 | (v<<40)&0x00ff000000000000 | (v<<24)&0x0000ff0000000000 |
		(v<<8)&0x000000ff00000000 | (v>>8)&0x00000000ff000000 |
		(v>>24)&0x0000000000ff0000 | (v>>40)&0x000000000000ff00 | v>>56
}

// memoryMappedCheck is implemented by components that carry a
// base/size/addrMul window (RAM, and eventually device components), used by
// the routing bus's overlap check during PreRunCheck.
type memoryMappedCheck interface {
	MemoryMappedWindow() (base, size, addrMul uint64)
}

var _ memoryMappedCheck = (*Ram)(nil)

// routeTarget pairs a memory-mapped child with its AddressDataBus
// capability, resolved once per PreRunCheck/route call.
type routeTarget struct {
	base, size, addrMul uint64
	dev                 component.AddressDataBus
	path                string
}

// overlaps reports whether two [base, base+size) windows intersect.
func overlaps(aBase, aSize, bBase, bSize uint64) bool {
	if aSize == 0 || bSize == 0 {
		return false
	}
	aEnd := aBase + aSize
	bEnd := bBase + bSize
	return aBase < bEnd && bBase < aEnd
}

// gatherTargets walks direct children of parent, collecting every one that
// both implements memoryMappedCheck and offers AddressDataBus.
func gatherTargets(parent *component.Component) []routeTarget {
	var targets []routeTarget
	for _, child := range parent.Children() {
		mm, ok := child.AsAddressDataBus()
		if !ok {
			continue
		}
		sizer, ok := asMemoryMapped(child)
		if !ok {
			continue
		}
		base, size, addrMul := sizer.MemoryMappedWindow()
		targets = append(targets, routeTarget{
			base: base, size: size, addrMul: addrMul,
			dev: mm, path: child.Path(),
		})
	}
	return targets
}

// asMemoryMapped is a small adapter so gatherTargets can work against the
// component.Component handle rather than the concrete *Ram type.
func asMemoryMapped(c *component.Component) (memoryMappedCheck, bool) {
	bus, ok := c.AsAddressDataBus()
	if !ok {
		return nil, false
	}
	mm, ok := bus.(memoryMappedCheck)
	return mm, ok
}

// CheckOverlap reports the first pair of overlapping memory-mapped windows
// among parent's direct children, used by Component.PreRunCheck wiring (spec
// §4.3: "Overlap detection is a preRunCheck responsibility").
func CheckOverlap(parent *component.Component) error {
	targets := gatherTargets(parent)
	for i := range targets {
		for j := i + 1; j < len(targets); j++ {
			if overlaps(targets[i].base, targets[i].size, targets[j].base, targets[j].size) {
				return gxerr.New(gxerr.InvariantViolation, parent.Path(),
					"overlapping memory-mapped regions: "+targets[i].path+" and "+targets[j].path)
			}
		}
	}
	return nil
}
