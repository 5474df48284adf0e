package gomap

import (
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"unicode/utf8"

	"github.com/kdl-format/go-kdl/ir"
	"github.com/kdl-format/go-kdl/shape"
)

// intBits returns the width and signedness of an integer scalar kind.
func intBits(k shape.ScalarKind) (bits int, unsigned, ok bool) {
	switch k {
	case shape.IntKind:
		return strconv.IntSize, false, true
	case shape.Int8Kind:
		return 8, false, true
	case shape.Int16Kind:
		return 16, false, true
	case shape.Int32Kind:
		return 32, false, true
	case shape.Int64Kind:
		return 64, false, true
	case shape.UintKind:
		return strconv.IntSize, true, true
	case shape.Uint8Kind:
		return 8, true, true
	case shape.Uint16Kind:
		return 16, true, true
	case shape.Uint32Kind:
		return 32, true, true
	case shape.Uint64Kind:
		return 64, true, true
	}
	return 0, false, false
}

func fitsInt(i *big.Int, bits int, unsigned bool) bool {
	if unsigned {
		return i.Sign() >= 0 && i.BitLen() <= bits
	}
	if i.Sign() >= 0 {
		return i.BitLen() <= bits-1
	}
	// most negative value has BitLen == bits-1 as well
	min := new(big.Int).Lsh(big.NewInt(-1), uint(bits-1))
	return i.Cmp(min) >= 0
}

// writeScalar coerces the document value v into the builder's current
// scalar target. A Null value always writes the target's default. Any
// pairing not covered by a direct rule falls back to the target's own
// text parsing before failing.
func writeScalar(p *shape.Partial, v *ir.Value, path string) error {
	kind := p.Kind()
	if kind == shape.NoKind {
		return &UnmarshalError{
			FieldPath: path,
			Message:   fmt.Sprintf("%s value against a compound target", v.Kind),
		}
	}
	if v.Kind == ir.NullKind {
		return p.SetDefault()
	}

	switch kind {
	case shape.StringKind:
		if v.Kind == ir.StringKind {
			return p.SetString(v.String)
		}

	case shape.BoolKind:
		if v.Kind == ir.BoolKind {
			return p.SetBool(v.Bool)
		}

	case shape.RuneKind:
		if v.Kind == ir.StringKind {
			if utf8.RuneCountInString(v.String) != 1 {
				return &UnmarshalError{
					FieldPath: path,
					Message:   fmt.Sprintf("rune requires exactly one code point, got %q", v.String),
				}
			}
			r, _ := utf8.DecodeRuneInString(v.String)
			return p.SetRune(r)
		}

	case shape.Float32Kind, shape.Float64Kind:
		switch v.Kind {
		case ir.FloatKind:
			return p.SetFloat(v.Float64)
		case ir.IntegerKind:
			f, _ := new(big.Float).SetInt(v.Int).Float64()
			return p.SetFloat(f)
		}

	case shape.TextKind:
		if v.Kind == ir.StringKind {
			return p.SetText([]byte(v.String))
		}

	default:
		if bits, unsigned, ok := intBits(kind); ok && v.Kind == ir.IntegerKind {
			if !fitsInt(v.Int, bits, unsigned) {
				return &UnmarshalError{
					FieldPath: path,
					Message:   fmt.Sprintf("value %s overflows %s", v.Int, kind),
				}
			}
			return p.SetInt(v.Int)
		}
	}

	// fallback: parse from the value's text form
	if p.CanText() {
		return p.SetText([]byte(v.Text()))
	}
	return &UnmarshalError{
		FieldPath: path,
		Message:   fmt.Sprintf("cannot coerce %s value into %s", v.Kind, kind),
	}
}

// scalarValue is the serialization inverse of writeScalar: it renders
// a Go scalar as a document value.
func scalarValue(kind shape.ScalarKind, val reflect.Value, path string) (*ir.Value, error) {
	switch kind {
	case shape.StringKind:
		return ir.FromString(val.String()), nil
	case shape.BoolKind:
		return ir.FromBool(val.Bool()), nil
	case shape.RuneKind:
		return ir.FromString(string(rune(val.Int()))), nil
	case shape.Float32Kind, shape.Float64Kind:
		return ir.FromFloat(val.Float()), nil
	case shape.TextKind:
		tm, ok := val.Interface().(interface{ MarshalText() ([]byte, error) })
		if !ok && val.CanAddr() {
			tm, ok = val.Addr().Interface().(interface{ MarshalText() ([]byte, error) })
		}
		if !ok {
			return nil, &MarshalError{
				FieldPath: path,
				Message:   fmt.Sprintf("%s does not implement encoding.TextMarshaler", val.Type()),
			}
		}
		text, err := tm.MarshalText()
		if err != nil {
			return nil, &MarshalError{FieldPath: path, Message: "MarshalText failed", Err: err}
		}
		return ir.FromString(string(text)), nil
	}
	if _, unsigned, ok := intBits(kind); ok {
		if unsigned {
			return ir.FromUint(val.Uint()), nil
		}
		return ir.FromInt(val.Int()), nil
	}
	return nil, &MarshalError{
		FieldPath: path,
		Message:   fmt.Sprintf("no scalar representation for %s", val.Type()),
	}
}
