package ir

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

type Kind int

const (
	NullKind Kind = iota
	BoolKind
	IntegerKind
	FloatKind
	StringKind
)

func (k Kind) String() string {
	s, ok := map[Kind]string{
		NullKind:    "Null",
		BoolKind:    "Bool",
		IntegerKind: "Integer",
		FloatKind:   "Float",
		StringKind:  "String",
	}[k]
	if ok {
		return s
	}
	return "<unknown kind>"
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(d []byte) error {
	kk, ok := map[string]Kind{
		"Null":    NullKind,
		"Bool":    BoolKind,
		"Integer": IntegerKind,
		"Float":   FloatKind,
		"String":  StringKind,
	}[string(d)]
	if !ok {
		return fmt.Errorf("unrecognized kind %q", d)
	}
	*k = kk
	return nil
}

func Kinds() []Kind {
	return []Kind{
		NullKind,
		BoolKind,
		IntegerKind,
		FloatKind,
		StringKind,
	}
}

// Integers carry arbitrary precision within the signed 128 bit range.
var (
	MaxInteger = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	MinInteger = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
)

// FitsInteger reports whether i is representable as a document integer.
func FitsInteger(i *big.Int) bool {
	return i.Cmp(MinInteger) >= 0 && i.Cmp(MaxInteger) <= 0
}

// Value is a single document scalar. Kind selects which of the
// payload fields is meaningful.
type Value struct {
	Kind    Kind
	String  string
	Bool    bool
	Int     *big.Int
	Float64 float64
}

func Null() *Value {
	return &Value{Kind: NullKind}
}

func FromBool(v bool) *Value {
	return &Value{Kind: BoolKind, Bool: v}
}

func FromString(v string) *Value {
	return &Value{Kind: StringKind, String: v}
}

func FromInt(v int64) *Value {
	return &Value{Kind: IntegerKind, Int: big.NewInt(v)}
}

func FromUint(v uint64) *Value {
	return &Value{Kind: IntegerKind, Int: new(big.Int).SetUint64(v)}
}

// FromBigInt returns an integer value, or an error if v exceeds the
// signed 128 bit document range.
func FromBigInt(v *big.Int) (*Value, error) {
	if !FitsInteger(v) {
		return nil, fmt.Errorf("integer %s exceeds the 128-bit document range", v)
	}
	return &Value{Kind: IntegerKind, Int: new(big.Int).Set(v)}, nil
}

func FromFloat(v float64) *Value {
	return &Value{Kind: FloatKind, Float64: v}
}

// Text renders the value the way it would appear in a document, minus
// any quoting. Used for text-parse fallbacks and diagnostics.
func (v *Value) Text() string {
	switch v.Kind {
	case NullKind:
		return "#null"
	case BoolKind:
		if v.Bool {
			return "#true"
		}
		return "#false"
	case IntegerKind:
		return v.Int.String()
	case FloatKind:
		switch {
		case math.IsInf(v.Float64, 1):
			return "#inf"
		case math.IsInf(v.Float64, -1):
			return "#-inf"
		case math.IsNaN(v.Float64):
			return "#nan"
		}
		s := strconv.FormatFloat(v.Float64, 'g', -1, 64)
		// keep floats distinguishable from integers in text form
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return s
	case StringKind:
		return v.String
	}
	return "<invalid value>"
}

func (v *Value) Equal(o *Value) bool {
	if v == nil || o == nil {
		return v == o
	}
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case NullKind:
		return true
	case BoolKind:
		return v.Bool == o.Bool
	case IntegerKind:
		return v.Int.Cmp(o.Int) == 0
	case FloatKind:
		if math.IsNaN(v.Float64) && math.IsNaN(o.Float64) {
			return true
		}
		return v.Float64 == o.Float64
	case StringKind:
		return v.String == o.String
	}
	return false
}

func (v *Value) Clone() *Value {
	res := *v
	if v.Int != nil {
		res.Int = new(big.Int).Set(v.Int)
	}
	return &res
}
