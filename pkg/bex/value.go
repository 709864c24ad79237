package bex

import (
	"fmt"
	"strings"
)

// Value is a bit (width 1) or a bit vector (width > 1), stored most significant
// bit first, exactly as written in the source. Values are never mutated after
// construction; every gate returns a fresh Value.
type Value struct {
	bits []bool
}

// Bit returns a width-1 value.
func Bit(b bool) Value {
	return Value{bits: []bool{b}}
}

// Vector returns a value holding a copy of bits. An empty argument list yields
// a single false bit so that every Value has width >= 1.
func Vector(bits ...bool) Value {
	if len(bits) == 0 {
		return Bit(false)
	}
	cp := make([]bool, len(bits))
	copy(cp, bits)
	return Value{bits: cp}
}

// ParseBits converts a run of '0'/'1' characters (without the 0b marker) into a Value.
func ParseBits(s string) (Value, error) {
	if s == "" {
		return Value{}, fmt.Errorf("empty bit string")
	}
	bits := make([]bool, 0, len(s))
	for i, r := range s {
		switch r {
		case '0':
			bits = append(bits, false)
		case '1':
			bits = append(bits, true)
		default:
			return Value{}, fmt.Errorf("invalid binary digit %q at offset %d", r, i)
		}
	}
	return Value{bits: bits}, nil
}

// MustParseBits is ParseBits for constants known to be valid.
func MustParseBits(s string) Value {
	v, err := ParseBits(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Width is the number of bits held.
func (v Value) Width() int {
	if len(v.bits) == 0 {
		return 1
	}
	return len(v.bits)
}

// IsVector reports whether the value is a bit vector (width > 1).
func (v Value) IsVector() bool { return len(v.bits) > 1 }

// At returns bit i, counting from the left.
func (v Value) At(i int) bool {
	if len(v.bits) == 0 {
		return false
	}
	return v.bits[i]
}

// Bool is the first (or only) bit.
func (v Value) Bool() bool { return v.At(0) }

// Bits returns a copy of the stored bits.
func (v Value) Bits() []bool {
	if len(v.bits) == 0 {
		return []bool{false}
	}
	cp := make([]bool, len(v.bits))
	copy(cp, v.bits)
	return cp
}

// Equal reports whether both values have the same width and bits.
func (v Value) Equal(o Value) bool {
	if v.Width() != o.Width() {
		return false
	}
	for i := 0; i < v.Width(); i++ {
		if v.At(i) != o.At(i) {
			return false
		}
	}
	return true
}

// String renders the value the way print does: true/false for a bit and
// 0b followed by the bits for a vector.
func (v Value) String() string {
	if !v.IsVector() {
		if v.Bool() {
			return "true"
		}
		return "false"
	}
	var sb strings.Builder
	sb.Grow(2 + len(v.bits))
	sb.WriteString("0b")
	for _, b := range v.bits {
		if b {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
