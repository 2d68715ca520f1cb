package m88k

import (
	"encoding/binary"
	"fmt"
)

// opcodeNames is M88K_OPCODE_NAMES (the 64-entry op26 table).
var opcodeNames = [64]string{
	"xmem.bu", "xmem", "ld.hu", "ld.bu",
	"ld.d", "ld", "ld.h", "ld.b",
	"st.d", "st", "st.h", "st.b",
	"opcode0c", "opcode0d", "opcode0e", "opcode0f",
	"and", "and.u", "mask", "mask.u",
	"xor", "xor.u", "or", "or.u",
	"addu", "subu", "divu", "mulu",
	"add", "sub", "div", "cmp",
	"opcode20", "opcode21", "opcode22", "opcode23",
	"opcode24", "opcode25", "opcode26", "opcode27",
	"opcode28", "opcode29", "opcode2a", "opcode2b",
	"opcode2c", "opcode2d", "opcode2e", "opcode2f",
	"opcode30", "opcode31", "opcode32", "opcode33",
	"opcode34", "opcode35", "opcode36", "opcode37",
	"opcode38", "opcode39", "opcode3a", "opcode3b",
	"opcode3c", "opcode3d", "tbnd", "opcode3f",
}

// opcodeNames3d is M88K_3D_OPCODE_NAMES, indexed by the 8-bit op3d field
// used when op26 == 0x3d.
var opcodeNames3d = map[uint32]string{
	0x40: "and", 0x44: "and.c", 0x50: "xor", 0x54: "xor.c",
	0x58: "or", 0x5c: "or.c",
	0x60: "addu", 0x61: "addu.co", 0x62: "addu.ci", 0x63: "addu.cio",
	0x64: "subu", 0x65: "subu.co", 0x66: "subu.ci", 0x67: "subu.cio",
	0x68: "divu", 0x69: "divu.d", 0x6c: "mul", 0x6d: "mulu.d", 0x6e: "muls",
	0x70: "add", 0x71: "add.co", 0x72: "add.ci", 0x73: "add.cio",
	0x74: "sub", 0x75: "sub.co", 0x76: "sub.ci", 0x77: "sub.cio",
	0x78: "div", 0x7c: "cmp",
	0x80: "clr", 0x88: "set", 0x90: "ext", 0x98: "extu", 0xa0: "mak", 0xa8: "rot",
	0xc0: "jmp", 0xc4: "jmp.n", 0xc8: "jsr", 0xcc: "jsr.n",
	0xe8: "ff1", 0xec: "ff0", 0xf8: "tbnd",
}

// crNames is M88K_CR_NAMES, the 64-entry control-register name table
// (standard, non-MVME197 variant).
var crNames = [64]string{
	"PID", "PSR", "EPSR", "SSBR", "SXIP", "SNIP", "SFIP", "VBR",
	"DMT0", "DMD0", "DMA0", "DMT1", "DMD1", "DMA1", "DMT2", "DMD2",
	"DMA2", "SR0", "SR1", "SR2", "SR3", "cr21", "cr22", "cr23",
	"cr24", "cr25", "cr26", "cr27", "cr28", "cr29", "cr30", "cr31",
	"FPECR", "FPHS1", "FPLS1", "FPHS2", "FPLS2", "FPPT", "FPRH", "FPRL",
	"FPIT", "cr42", "FPSR", "FPCR", "cr45", "cr46", "cr47", "cr48",
	"cr49", "cr50", "cr51", "cr52", "cr53", "cr54", "cr55", "cr56",
	"cr57", "cr58", "cr59", "cr60", "cr61", "cr62", "cr63",
}

func crName(i uint32) string {
	if int(i) < len(crNames) {
		return crNames[i]
	}
	return fmt.Sprintf("cr%d", i)
}

// fields holds every bitfield the disassembler and translator extract from
// an m88k instruction word; the same extraction is duplicated once per
// function in the original, reproduced here as a single decode step.
type fields struct {
	op26, op10, d, s1, s2, op3d, imm16, cr6 uint32
	d16, d26                                int32
}

func decode(iw uint32) fields {
	return fields{
		op26:  (iw >> 26) & 0x3f,
		op10:  (iw >> 10) & 0x3f,
		d:     (iw >> 21) & 0x1f,
		s1:    (iw >> 16) & 0x1f,
		s2:    iw & 0x1f,
		op3d:  (iw >> 8) & 0xff,
		imm16: iw & 0xffff,
		cr6:   (iw >> 5) & 0x3f,
		d16:   int32(int16(iw&0xffff)) * 4,
		d26:   int32(int32(iw&0x03ffffff)<<6) >> 4,
	}
}

// DisassembleInstruction renders one instruction's hex dump, mnemonic, and
// operand string, mirroring M88K_CPUComponent::DisassembleInstruction.
// consumed is always 4 (m88k instructions are fixed-width).
func DisassembleInstruction(vaddr uint64, bytes []byte, bigEndian bool) (consumed int, lines []string) {
	if len(bytes) < 4 {
		return 0, nil
	}
	var iw uint32
	if bigEndian {
		iw = binary.BigEndian.Uint32(bytes)
	} else {
		iw = binary.LittleEndian.Uint32(bytes)
	}
	lines = append(lines, fmt.Sprintf("%08x", iw))

	f := decode(iw)

	switch {
	case f.op26 <= 0x0b, (f.op26 >= 0x10 && f.op26 <= 0x1f):
		if iw == 0 {
			lines = append(lines, "-")
		} else {
			lines = append(lines, opcodeNames[f.op26])
			lines = append(lines, fmt.Sprintf("r%d,r%d,%#x", f.d, f.s1, f.imm16))
		}
	case f.op26 == 0x20:
		switch {
		case iw&0x001ff81f == 0x00004000:
			lines = append(lines, "ldcr", fmt.Sprintf("r%d,cr%d", f.d, f.cr6),
				fmt.Sprintf("; cr%d = %s", f.cr6, crName(f.cr6)))
		case iw&0x03e0f800 == 0x00008000:
			lines = append(lines, "stcr", fmt.Sprintf("r%d,cr%d", f.s1, f.cr6),
				fmt.Sprintf("; cr%d = %s", f.cr6, crName(f.cr6)))
		default:
			lines = append(lines, fmt.Sprintf("opcode20_%08x", iw))
		}
	case f.op26 == 0x30 || f.op26 == 0x32:
		name := "br"
		if f.op26 == 0x32 {
			name = "bsr"
		}
		target := int64(vaddr&0xfffffffc) + int64(f.d26)
		lines = append(lines, name, fmt.Sprintf("%#x", target))
	case f.op26 == 0x3d:
		if f.op3d != 0 && opcodeNames3d[f.op3d] != "" {
			name := opcodeNames3d[f.op3d]
			switch {
			case f.op3d == 0xc0 || f.op3d == 0xc4 || f.op3d == 0xc8 || f.op3d == 0xcc:
				lines = append(lines, name, fmt.Sprintf("(r%d)", f.s2))
			default:
				lines = append(lines, name, fmt.Sprintf("r%d,r%d,r%d", f.d, f.s1, f.s2))
			}
		} else {
			lines = append(lines, fmt.Sprintf("unimpl_3d_%02x", f.op3d))
		}
	default:
		lines = append(lines, fmt.Sprintf("opcode%02x", f.op26))
	}

	return 4, lines
}
