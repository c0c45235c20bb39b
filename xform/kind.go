package xform

import (
	"fmt"
	"math"
	"math/bits"
	"reflect"
)

// Kind is a value type a transform can consume or produce.
type Kind int

const (
	Invalid Kind = iota
	Bool
	Uint8
	Uint16
	Uint32
	Uint64
	Uint
	Int8
	Int16
	Int32
	Int64
	Int
	Float32
	Float64
	String
)

var kindNames = map[Kind]string{
	Bool:    "bool",
	Uint8:   "uint8",
	Uint16:  "uint16",
	Uint32:  "uint32",
	Uint64:  "uint64",
	Uint:    "uint",
	Int8:    "int8",
	Int16:   "int16",
	Int32:   "int32",
	Int64:   "int64",
	Int:     "int",
	Float32: "float32",
	Float64: "float64",
	String:  "string",
}

// KindOf returns the kind named by a canonical Go type name.
func KindOf(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return Invalid, false
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "invalid"
}

// IsUnsigned reports whether k is an unsigned integer kind.
func (k Kind) IsUnsigned() bool {
	return k >= Uint8 && k <= Uint
}

// IsInteger reports whether k is a signed or unsigned integer kind.
func (k Kind) IsInteger() bool {
	return k >= Uint8 && k <= Int
}

// Convert converts v to the Go type of k. Integer conversions wrap like Go
// conversions do; float to integer conversions truncate toward zero.
func (k Kind) Convert(v any) (any, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil, fmt.Errorf("cannot convert nil to %s", k)
	}

	switch k {
	case Bool:
		if rv.Kind() != reflect.Bool {
			return nil, fmt.Errorf("cannot convert %T to bool", v)
		}
		return rv.Bool(), nil
	case String:
		if rv.Kind() != reflect.String {
			return nil, fmt.Errorf("cannot convert %T to string", v)
		}
		return rv.String(), nil
	case Float32, Float64:
		var f float64
		switch {
		case rv.CanFloat():
			f = rv.Float()
		case rv.CanInt():
			f = float64(rv.Int())
		case rv.CanUint():
			f = float64(rv.Uint())
		default:
			return nil, fmt.Errorf("cannot convert %T to %s", v, k)
		}
		if k == Float32 {
			return float32(f), nil
		}
		return f, nil
	}

	var u uint64
	switch {
	case rv.CanUint():
		u = rv.Uint()
	case rv.CanInt():
		u = uint64(rv.Int())
	case rv.CanFloat():
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("cannot convert %v to %s", f, k)
		}
		if f < 0 {
			u = uint64(int64(f))
		} else {
			u = uint64(f)
		}
	case rv.Kind() == reflect.Bool:
		if rv.Bool() {
			u = 1
		}
	default:
		return nil, fmt.Errorf("cannot convert %T to %s", v, k)
	}

	switch k {
	case Uint8:
		return uint8(u), nil
	case Uint16:
		return uint16(u), nil
	case Uint32:
		return uint32(u), nil
	case Uint64:
		return u, nil
	case Uint:
		return uint(u), nil
	case Int8:
		return int8(u), nil
	case Int16:
		return int16(u), nil
	case Int32:
		return int32(u), nil
	case Int64:
		return int64(u), nil
	case Int:
		return int(u), nil
	}
	return nil, fmt.Errorf("cannot convert %T to %s", v, k)
}

// Width returns the bit width of integer and bool kinds, or 0.
func (k Kind) Width() int {
	switch k {
	case Bool:
		return 1
	case Uint8, Int8:
		return 8
	case Uint16, Int16:
		return 16
	case Uint32, Int32, Float32:
		return 32
	case Uint64, Int64, Float64:
		return 64
	case Uint, Int:
		return bits.UintSize
	}
	return 0
}
