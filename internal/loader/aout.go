package loader

import (
	"github.com/gxcore/gxcore/internal/component"
	"github.com/gxcore/gxcore/internal/gxerr"
)

// aoutVariant names one a.out prefix family and the load policy it implies.
// Grounded on FileLoader_aout.cc's DetectFileType/LoadIntoComponent, which
// dispatches on string suffixes of the same names ("_fromBeginning",
// "_vaddr0", "_noSizes", "_osf1").
type aoutVariant int

const (
	variantNone aoutVariant = iota
	variantMIPS
	variantM68KVaddrZero
	variantM88KFromBeginning
	variantARMFromBeginning
	variantI386FromBeginning
	variantSPARCNoSizes
	variantMIPSOSF1
)

// detectAoutVariant mirrors FileLoader_aout::DetectFileType's prefix checks.
func detectAoutVariant(buf []byte) aoutVariant {
	if len(buf) < 10 {
		return variantNone
	}
	switch {
	case buf[0] == 0x00 && buf[1] == 0x8b && buf[2] == 0x01 && buf[3] == 0x07:
		return variantMIPS
	case buf[0] == 0x00 && buf[1] == 0x87 && buf[2] == 0x01 && buf[3] == 0x08:
		return variantM68KVaddrZero
	case buf[0] == 0x00 && buf[1] == 0x99 && buf[2] == 0x01 && buf[3] == 0x0b:
		return variantM88KFromBeginning
	case buf[0] == 0x00 && buf[1] == 0x8f && buf[2] == 0x01 && buf[3] == 0x0b:
		return variantARMFromBeginning
	case buf[0] == 0x00 && buf[1] == 0x86 && buf[2] == 0x01 && buf[3] == 0x0b:
		return variantI386FromBeginning
	case buf[0] == 0x01 && buf[1] == 0x03 && buf[2] == 0x01 && buf[3] == 0x07:
		return variantSPARCNoSizes
	case buf[0] == 0x00 && buf[2] == 0x00 && buf[8] == 0x7a && buf[9] == 0x75:
		return variantMIPSOSF1
	}
	return variantNone
}

// aoutFormat recognizes and loads the a.out prefix families enumerated in
// spec §6. All of these are 32-bit-aligned big-endian header layouts.
type aoutFormat struct{}

func (aoutFormat) Detect(buf []byte) float64 {
	if detectAoutVariant(buf) == variantNone {
		return 0
	}
	return 0.9
}

func be32(b []byte) uint32 {
	return uint32(b[3]) | uint32(b[2])<<8 | uint32(b[1])<<16 | uint32(b[0])<<24
}

// standard a.out header field offsets (32 bytes total): magic, text, data,
// bss, syms, entry, trsize, drsize, each a big-endian uint32.
const (
	aoutTextOff  = 4
	aoutDataOff  = 8
	aoutEntryOff = 20
)

func (aoutFormat) Load(data []byte, bus component.AddressDataBus) (uint64, error) {
	variant := detectAoutVariant(data)

	var vaddr, entry uint64
	var body []byte

	switch variant {
	case variantMIPSOSF1:
		// 32-byte header with non-standard field offsets; text runs from
		// byte 512 to EOF (FileLoader_aout.cc's own acknowledged
		// approximation).
		if len(data) < 32 {
			return 0, gxerr.New(gxerr.FileFormatError, "", "file too small to be an OSF1 a.out")
		}
		vaddr = uint64(be32(data[16:20]))
		entry = uint64(be32(data[20:24]))
		if len(data) < 512 {
			return 0, gxerr.New(gxerr.FileFormatError, "", "file too small to be an OSF1 a.out")
		}
		body = data[512:]

	case variantSPARCNoSizes:
		// 32-byte header, no size fields: the text segment is simply
		// everything after the header.
		if len(data) < 32 {
			return 0, gxerr.New(gxerr.FileFormatError, "", "file too small to be an a.out")
		}
		vaddr, entry = 0, 0
		body = data[32:]

	default:
		if len(data) < 32 {
			return 0, gxerr.New(gxerr.FileFormatError, "", "file too small to be an a.out")
		}
		entry = uint64(be32(data[aoutEntryOff : aoutEntryOff+4]))
		vaddr = entry
		if variant == variantM68KVaddrZero {
			vaddr = 0
		}
		textSize := be32(data[aoutTextOff : aoutTextOff+4])
		dataSize := be32(data[aoutDataOff : aoutDataOff+4])
		total := int(textSize) + int(dataSize)

		start := 32
		if variant == variantM88KFromBeginning || variant == variantARMFromBeginning || variant == variantI386FromBeginning {
			start = 0
			vaddr &^= 0xfff
		}
		if start+total > len(data) {
			total = len(data) - start
		}
		if total < 0 {
			total = 0
		}
		body = data[start : start+total]
	}

	if err := writeBytes(bus, vaddr, body); err != nil {
		return 0, err
	}
	return entry, nil
}
