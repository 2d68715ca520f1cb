// Package loader deposits guest executable images (ELF, a.out) into a
// bus-capable component and sets its pc variable to the entry point.
// Grounded on original_source/src/main/FileLoader.cc and the two concrete
// loaders under src/main/fileloaders/.
package loader

import (
	"fmt"

	"github.com/gxcore/gxcore/internal/component"
	"github.com/gxcore/gxcore/internal/gxerr"
)

// Format is a pluggable file-format strategy (spec §4.8): Detect rates how
// confidently buf (the first up to 512 bytes of the file) matches, Load
// deposits the image and reports its entry point.
type Format interface {
	Detect(buf []byte) (confidence float64)
	Load(data []byte, bus component.AddressDataBus) (entry uint64, err error)
}

// registered lists every Format the dispatcher considers, in the same order
// FileLoader's constructor registers them in (aout before ELF).
var registered = []Format{&aoutFormat{}, &elfFormat{}}

// Load detects data's format and loads it into target, then sets target's
// pc variable to the resulting entry point. target must expose
// AddressDataBus, either directly or by forwarding like a CPU component
// does onto its bus.
func Load(data []byte, target *component.Component) error {
	bus, ok := target.AsAddressDataBus()
	if !ok {
		return gxerr.New(gxerr.UnsupportedCapability, target.Path(), "file loader target has no AddressDataBus")
	}

	probe := data
	if len(probe) > 512 {
		probe = probe[:512]
	}

	var best Format
	var bestScore float64
	for _, f := range registered {
		if score := f.Detect(probe); score > bestScore {
			bestScore = score
			best = f
		}
	}
	if best == nil {
		return gxerr.New(gxerr.FileFormatError, target.Path(), "unrecognized file format")
	}

	entry, err := best.Load(data, bus)
	if err != nil {
		return err
	}
	if !target.SetVariableValue("pc", fmt.Sprintf("%d", entry)) {
		return gxerr.New(gxerr.InvariantViolation, target.Path(), "target has no pc variable")
	}
	return nil
}

// writeBytes deposits data into bus one byte at a time starting at vaddr,
// matching the source's byte-at-a-time AddressSelect/WriteData loop.
func writeBytes(bus component.AddressDataBus, vaddr uint64, data []byte) error {
	for _, b := range data {
		bus.AddressSelect(vaddr)
		if !bus.WriteData(uint64(b), 1, component.BigEndian) {
			return gxerr.New(gxerr.BusFailure, "", fmt.Sprintf("write failed at %#x", vaddr))
		}
		vaddr++
	}
	return nil
}
