package statevar

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Binary field numbers for the compact snapshot codec below. This is not a
// generated protobuf message — it uses the low-level wire primitives from
// google.golang.org/protobuf/encoding/protowire directly, so there is no
// .proto file or protoc-gen-go step involved (see DESIGN.md for why we
// didn't go further and define real messages).
const (
	fieldType  = protowire.Number(1)
	fieldName  = protowire.Number(2)
	fieldValue = protowire.Number(3)
)

// AppendBinary appends v's wire-format record to b and returns the grown
// slice. Used by Checksum (and through it Component.StructuralChecksum) as
// a non-textual alternative to the grammar of spec §4.1; `save` writes the
// textual form only.
func AppendBinary(b []byte, v *Variable) []byte {
	b = protowire.AppendTag(b, fieldType, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(v.typ))
	b = protowire.AppendTag(b, fieldName, protowire.BytesType)
	b = protowire.AppendString(b, v.name)
	b = protowire.AppendTag(b, fieldValue, protowire.BytesType)
	b = protowire.AppendString(b, v.String())
	return b
}

// binaryRecord is the decoded form of one AppendBinary record: a
// self-contained (type, name, value) triple, not yet bound to storage.
type binaryRecord struct {
	Type  Type
	Name  string
	Value string
}

// ConsumeBinary decodes one record from the front of b, returning the
// record and the number of bytes consumed.
func ConsumeBinary(b []byte) (binaryRecord, int, error) {
	var rec binaryRecord
	var sawType, sawName, sawValue bool
	orig := len(b)

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return rec, 0, fmt.Errorf("statevar: bad tag: %w", protowire.ParseError(n))
		}
		b = b[n:]

		switch num {
		case fieldType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return rec, 0, fmt.Errorf("statevar: bad type field: %w", protowire.ParseError(n))
			}
			b = b[n:]
			t := Type(v)
			rec.Type = t
			sawType = true
		case fieldName:
			s, n := protowire.ConsumeString(b)
			if n < 0 {
				return rec, 0, fmt.Errorf("statevar: bad name field: %w", protowire.ParseError(n))
			}
			b = b[n:]
			rec.Name = s
			sawName = true
		case fieldValue:
			s, n := protowire.ConsumeString(b)
			if n < 0 {
				return rec, 0, fmt.Errorf("statevar: bad value field: %w", protowire.ParseError(n))
			}
			b = b[n:]
			rec.Value = s
			sawValue = true
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return rec, 0, fmt.Errorf("statevar: bad unknown field: %w", protowire.ParseError(n))
			}
			b = b[n:]
		}

		if sawType && sawName && sawValue {
			break
		}
	}
	if !sawType || !sawName {
		return rec, 0, fmt.Errorf("statevar: truncated binary record")
	}
	return rec, orig - len(b), nil
}

// ApplyBinary sets v's value from a decoded record, failing if the type
// does not match (mirrors CopyValueFrom's type-mismatch behavior).
func ApplyBinary(v *Variable, rec binaryRecord) bool {
	if v.typ != rec.Type {
		return false
	}
	return v.SetValue(rec.Value)
}

// Checksum folds a variable's binary encoding into a running FNV-1a
// accumulator. Used by Component.StructuralChecksum (internal/component) to
// implement the round-trip/undo-redo invariants of spec §8 without
// depending on serialization order being byte-identical across a clone.
func Checksum(acc uint64, v *Variable) uint64 {
	data := AppendBinary(nil, v)
	for _, b := range data {
		acc ^= uint64(b)
		acc *= 1099511628211
	}
	return acc
}

// DoubleBits exposes math.Float64bits for callers that want to checksum a
// double's exact bit pattern rather than its decimal string form.
func DoubleBits(f float64) uint64 { return math.Float64bits(f) }
