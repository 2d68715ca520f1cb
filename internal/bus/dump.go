package bus

import (
	"fmt"
	"strings"

	"github.com/gxcore/gxcore/internal/component"
)

// HexDump renders nRows rows of 16 bytes read from target starting at
// start, in hex plus printable ASCII, using "--" for any byte a failed
// transfer couldn't supply. Ram.Dump renders its rows through the same
// row helper (appendHexDumpRow), so both produce the same layout.
func HexDump(target component.AddressDataBus, start uint64, nRows int) string {
	var sb strings.Builder
	for row := 0; row < nRows; row++ {
		rowAddr := start + uint64(row*16)
		appendHexDumpRow(&sb, target, rowAddr)
	}
	return sb.String()
}

func appendHexDumpRow(sb *strings.Builder, target component.AddressDataBus, rowAddr uint64) {
	fmt.Fprintf(sb, "%016x  ", rowAddr)
	var ascii [16]byte
	for i := 0; i < 16; i++ {
		target.AddressSelect(rowAddr + uint64(i))
		v, ok := target.ReadData(1, component.LittleEndian)
		if !ok {
			sb.WriteString("-- ")
			ascii[i] = '.'
			continue
		}
		b := byte(v)
		fmt.Fprintf(sb, "%02x ", b)
		if b >= 0x20 && b < 0x7f {
			ascii[i] = b
		} else {
			ascii[i] = '.'
		}
	}
	sb.WriteString(" ")
	sb.Write(ascii[:])
	sb.WriteByte('\n')
}

// appendHexRow keeps Ram.Dump's call site small: it reads 16 bytes starting
// at rowAddr directly off r (no bus indirection needed — Ram is its own
// AddressDataBus) and appends one formatted row to out.
func appendHexRow(out []byte, r *Ram, rowAddr uint64) []byte {
	var sb strings.Builder
	appendHexDumpRow(&sb, r, rowAddr)
	return append(out, sb.String()...)
}
