// Package statevar implements the reflective, typed, named storage cells
// that make up a Component's persistent state (spec §3, §4.1).
package statevar

import (
	"fmt"
	"strconv"
	"strings"
)

// Type is the set of types a StateVariable can hold.
type Type int

const (
	String Type = iota
	Bool
	Double
	Uint8
	Uint16
	Uint32
	Uint64
	Sint8
	Sint16
	Sint32
	Sint64
)

func (t Type) String() string {
	switch t {
	case String:
		return "string"
	case Bool:
		return "bool"
	case Double:
		return "double"
	case Uint8:
		return "uint8"
	case Uint16:
		return "uint16"
	case Uint32:
		return "uint32"
	case Uint64:
		return "uint64"
	case Sint8:
		return "sint8"
	case Sint16:
		return "sint16"
	case Sint32:
		return "sint32"
	case Sint64:
		return "sint64"
	default:
		return "unknown"
	}
}

// ParseType maps a grammar type token back to a Type.
func ParseType(s string) (Type, bool) {
	switch s {
	case "string":
		return String, true
	case "bool":
		return Bool, true
	case "double":
		return Double, true
	case "uint8":
		return Uint8, true
	case "uint16":
		return Uint16, true
	case "uint32":
		return Uint32, true
	case "uint64":
		return Uint64, true
	case "sint8":
		return Sint8, true
	case "sint16":
		return Sint16, true
	case "sint32":
		return Sint32, true
	case "sint64":
		return Sint64, true
	}
	return 0, false
}

// Variable is a named, typed cell bound to storage the owning Component
// supplies a pointer to. Its type is fixed at construction (spec §3
// invariant); SetValue never changes it, and a failed parse leaves the
// bound storage untouched.
type Variable struct {
	name string
	typ  Type

	str    *string
	bl     *bool
	dbl    *float64
	u8     *uint8
	u16    *uint16
	u32    *uint32
	u64    *uint64
	s8     *int8
	s16    *int16
	s32    *int32
	s64    *int64
}

// NewString binds a Variable to a *string.
func NewString(name string, p *string) *Variable { return &Variable{name: name, typ: String, str: p} }

// NewBool binds a Variable to a *bool.
func NewBool(name string, p *bool) *Variable { return &Variable{name: name, typ: Bool, bl: p} }

// NewDouble binds a Variable to a *float64.
func NewDouble(name string, p *float64) *Variable { return &Variable{name: name, typ: Double, dbl: p} }

// NewUint8 binds a Variable to a *uint8.
func NewUint8(name string, p *uint8) *Variable { return &Variable{name: name, typ: Uint8, u8: p} }

// NewUint16 binds a Variable to a *uint16.
func NewUint16(name string, p *uint16) *Variable { return &Variable{name: name, typ: Uint16, u16: p} }

// NewUint32 binds a Variable to a *uint32.
func NewUint32(name string, p *uint32) *Variable { return &Variable{name: name, typ: Uint32, u32: p} }

// NewUint64 binds a Variable to a *uint64.
func NewUint64(name string, p *uint64) *Variable { return &Variable{name: name, typ: Uint64, u64: p} }

// NewSint8 binds a Variable to a *int8.
func NewSint8(name string, p *int8) *Variable { return &Variable{name: name, typ: Sint8, s8: p} }

// NewSint16 binds a Variable to a *int16.
func NewSint16(name string, p *int16) *Variable { return &Variable{name: name, typ: Sint16, s16: p} }

// NewSint32 binds a Variable to a *int32.
func NewSint32(name string, p *int32) *Variable { return &Variable{name: name, typ: Sint32, s32: p} }

// NewSint64 binds a Variable to a *int64.
func NewSint64(name string, p *int64) *Variable { return &Variable{name: name, typ: Sint64, s64: p} }

// NewZero allocates fresh, self-owned storage of the given type and binds a
// Variable to it. Used when reconstructing a variable whose owning
// component class isn't compiled into this binary (an unrecognized name
// encountered during deserialization) — there is no struct field to bind
// to, so the variable carries its own.
func NewZero(typ Type, name string) *Variable {
	switch typ {
	case String:
		return NewString(name, new(string))
	case Bool:
		return NewBool(name, new(bool))
	case Double:
		return NewDouble(name, new(float64))
	case Uint8:
		return NewUint8(name, new(uint8))
	case Uint16:
		return NewUint16(name, new(uint16))
	case Uint32:
		return NewUint32(name, new(uint32))
	case Uint64:
		return NewUint64(name, new(uint64))
	case Sint8:
		return NewSint8(name, new(int8))
	case Sint16:
		return NewSint16(name, new(int16))
	case Sint32:
		return NewSint32(name, new(int32))
	case Sint64:
		return NewSint64(name, new(int64))
	}
	return NewString(name, new(string))
}

// Name returns the variable's name.
func (v *Variable) Name() string { return v.name }

// Type returns the variable's type.
func (v *Variable) Type() Type { return v.typ }

// String returns the canonical, unescaped string form of the value.
func (v *Variable) String() string {
	switch v.typ {
	case String:
		return *v.str
	case Bool:
		if *v.bl {
			return "true"
		}
		return "false"
	case Double:
		return strconv.FormatFloat(*v.dbl, 'g', -1, 64)
	case Uint8:
		return strconv.FormatUint(uint64(*v.u8), 10)
	case Uint16:
		return strconv.FormatUint(uint64(*v.u16), 10)
	case Uint32:
		return strconv.FormatUint(uint64(*v.u32), 10)
	case Uint64:
		return strconv.FormatUint(*v.u64, 10)
	case Sint8:
		return strconv.FormatInt(int64(*v.s8), 10)
	case Sint16:
		return strconv.FormatInt(int64(*v.s16), 10)
	case Sint32:
		return strconv.FormatInt(int64(*v.s32), 10)
	case Sint64:
		return strconv.FormatInt(*v.s64, 10)
	}
	return ""
}

// SetValue decodes a C-style escaped (and optionally quoted) representation,
// then parses the decoded text according to the variable's type. On parse
// failure or range violation, the bound storage is left unchanged and false
// is returned. Every type goes through the same decode step first — the
// grammar's escapedString applies uniformly, not just to the String type.
func (v *Variable) SetValue(escaped string) bool {
	s, ok := Unescape(escaped)
	if !ok {
		return false
	}
	switch v.typ {
	case String:
		*v.str = s
		return true
	case Bool:
		switch s {
		case "true":
			*v.bl = true
			return true
		case "false":
			*v.bl = false
			return true
		}
		return false
	case Double:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return false
		}
		*v.dbl = f
		return true
	case Uint8, Uint16, Uint32, Uint64:
		n, ok := parseUint(s, bitsFor(v.typ))
		if !ok {
			return false
		}
		switch v.typ {
		case Uint8:
			*v.u8 = uint8(n)
		case Uint16:
			*v.u16 = uint16(n)
		case Uint32:
			*v.u32 = uint32(n)
		case Uint64:
			*v.u64 = n
		}
		return true
	case Sint8, Sint16, Sint32, Sint64:
		n, ok := parseSint(s, bitsFor(v.typ))
		if !ok {
			return false
		}
		switch v.typ {
		case Sint8:
			*v.s8 = int8(n)
		case Sint16:
			*v.s16 = int16(n)
		case Sint32:
			*v.s32 = int32(n)
		case Sint64:
			*v.s64 = n
		}
		return true
	}
	return false
}

func bitsFor(t Type) int {
	switch t {
	case Uint8, Sint8:
		return 8
	case Uint16, Sint16:
		return 16
	case Uint32, Sint32:
		return 32
	default:
		return 64
	}
}

// parseUint accepts "0x"-prefixed hex or decimal, rejecting values that do
// not fit in bits.
func parseUint(s string, bits int) (uint64, bool) {
	s = strings.TrimSpace(s)
	base := 10
	trimmed := s
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		base = 16
		trimmed = s[2:]
	}
	n, err := strconv.ParseUint(trimmed, base, bits)
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseSint(s string, bits int) (int64, bool) {
	s = strings.TrimSpace(s)
	neg := false
	trimmed := s
	if strings.HasPrefix(trimmed, "-") {
		neg = true
		trimmed = trimmed[1:]
	}
	base := 10
	if strings.HasPrefix(trimmed, "0x") || strings.HasPrefix(trimmed, "0X") {
		base = 16
		trimmed = trimmed[2:]
	}
	n, err := strconv.ParseUint(trimmed, base, bits)
	if err != nil {
		return 0, false
	}
	v := int64(n)
	if neg {
		v = -v
	}
	// Range check against the signed width.
	min := int64(-1) << uint(bits-1)
	max := (int64(1) << uint(bits-1)) - 1
	if v < min || v > max {
		return 0, false
	}
	return v, true
}

// CopyValueFrom copies the other variable's value into v, if their types
// match. Returns false (no-op) on a type mismatch.
func (v *Variable) CopyValueFrom(other *Variable) bool {
	if v.typ != other.typ {
		return false
	}
	return v.SetValue(other.String())
}

// Serialize renders the grammar line `type name "escaped-value"` (spec
// §4.1), without the trailing newline or indentation — callers that walk a
// component tree add both via a SerializationContext.
func (v *Variable) Serialize() string {
	return fmt.Sprintf("%s %s %s", v.typ, v.name, Escape(v.String()))
}

// Escape renders s as a double-quoted, C-style escaped string.
func Escape(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// Unescape parses a C-style escaped string, tolerating input with or
// without surrounding quotes.
func Unescape(s string) (string, bool) {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(s) {
			return "", false
		}
		switch s[i] {
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		default:
			return "", false
		}
	}
	return b.String(), true
}
