package loader

import (
	"bytes"
	"debug/elf"

	"github.com/gxcore/gxcore/internal/component"
	"github.com/gxcore/gxcore/internal/gxerr"
)

// elfFormat recognizes ELF32/ELF64 executables. Grounded on
// FileLoader_ELF.cc's DetectFileType (the \x7FELF signature check, shared
// by the 32- and 64-bit header layouts) and LoadIntoComponent (only
// ET_EXEC is loaded, only PT_LOAD segments contribute data, and a 32-bit
// MIPS entry point is sign-extended).
type elfFormat struct{}

var elfMagic = []byte{0x7f, 'E', 'L', 'F'}

func (elfFormat) Detect(buf []byte) float64 {
	if len(buf) >= 4 && bytes.Equal(buf[:4], elfMagic) {
		return 1.0
	}
	return 0
}

func (elfFormat) Load(data []byte, bus component.AddressDataBus) (uint64, error) {
	f, err := elf.NewFile(bytes.NewReader(data))
	if err != nil {
		return 0, gxerr.New(gxerr.FileFormatError, "", "malformed ELF: "+err.Error())
	}
	if f.Type != elf.ET_EXEC {
		return 0, gxerr.New(gxerr.FileFormatError, "", "only ET_EXEC images are loaded")
	}

	for _, prog := range f.Progs {
		if prog.Type != elf.PT_LOAD {
			continue
		}
		segment := make([]byte, prog.Filesz)
		if prog.Filesz > 0 {
			if _, err := prog.ReadAt(segment, 0); err != nil {
				return 0, gxerr.New(gxerr.FileFormatError, "", "reading PT_LOAD segment: "+err.Error())
			}
		}
		if err := writeBytes(bus, prog.Vaddr, segment); err != nil {
			return 0, err
		}
	}

	entry := f.Entry
	if f.Machine == elf.EM_MIPS && f.Class == elf.ELFCLASS32 {
		entry = uint64(int64(int32(entry)))
	}
	return entry, nil
}
