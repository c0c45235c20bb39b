package bitfield

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/alexhholmes/bitfield/internal/analyzer"
	"github.com/alexhholmes/bitfield/internal/bitops"
)

// Value is a packed integer interpreted by a Schema. Values are plain values:
// copying one copies the integer. A Value must be obtained from Schema.New or
// Schema.Zero.
type Value struct {
	schema *Schema
	bits   uint64
}

// Schema returns the schema v was created from.
func (v Value) Schema() *Schema {
	return v.schema
}

// Data returns the raw integer.
func (v Value) Data() uint64 {
	return v.bits
}

// SetData replaces the raw integer. Unclaimed bits are cleared.
func (v *Value) SetData(raw uint64) {
	v.bits = raw & v.schema.c.DataMask
}

func (v Value) checkIndex(index int) {
	if n := v.schema.c.ByteCount; index < 0 || index >= n {
		panic(fmt.Errorf("%w: %s: index %d, want [0, %d)", ErrIndexOutOfRange, v.schema.c.Name, index, n))
	}
}

// Byte returns byte index of the raw integer, least significant first. It
// panics with an error wrapping ErrIndexOutOfRange if index is outside
// [0, ByteCount).
func (v Value) Byte(index int) uint8 {
	v.checkIndex(index)
	return uint8(bitops.Bits(v.bits, 8*index, 8*index+8))
}

// SetByte replaces the claimed bits of byte index with the matching bits of
// b. Unclaimed bits stay zero.
func (v *Value) SetByte(index int, b uint8) {
	v.checkIndex(index)
	mask := bitops.Bits(v.schema.c.DataMask, 8*index, 8*index+8)
	v.bits = bitops.SetBits(v.bits, 8*index, 8*index+8, uint64(b)&mask)
}

func (v Value) field(name string) (*analyzer.Field, error) {
	f, ok := v.schema.field(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownField, v.schema.c.Name, name)
	}
	return f, nil
}

func (v Value) extract(f *analyzer.Field) uint64 {
	return bitops.Bits(v.bits, f.Range.Start, f.Range.End)
}

// Uint returns the bits of a field shifted down, without its transform.
func (v Value) Uint(name string) (uint64, error) {
	f, err := v.field(name)
	if err != nil {
		return 0, err
	}
	return v.extract(f), nil
}

// Bool returns a bool field without its transform.
func (v Value) Bool(name string) (bool, error) {
	f, err := v.field(name)
	if err != nil {
		return false, err
	}
	if !f.Type.IsBool() {
		return false, fmt.Errorf("%w: %s.%s is %s, not bool", ErrFieldType, v.schema.c.Name, name, f.Type.Name)
	}
	return v.extract(f) != 0, nil
}

// Get returns a field converted to its element type with the transform
// applied. Without a transform the result has the field's Go type, e.g.
// uint8 or bool.
func (v Value) Get(name string) (any, error) {
	f, err := v.field(name)
	if err != nil {
		return nil, err
	}

	var elem any
	if f.Type.IsBool() {
		elem = v.extract(f) != 0
	} else if elem, err = f.Type.Kind.Convert(v.extract(f)); err != nil {
		return nil, err
	}

	if f.Transform == nil {
		return elem, nil
	}
	out, err := f.Transform.Compiled.Eval(elem)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", v.schema.c.Name, name, err)
	}
	return out, nil
}

// MustGet is like Get but panics on error.
func (v Value) MustGet(name string) any {
	out, err := v.Get(name)
	if err != nil {
		panic(err)
	}
	return out
}

// Set stores the low bits of x in a field. Bool fields take a bool; integer
// fields take any integer, truncated to the field width. Transforms are not
// applied.
func (v *Value) Set(name string, x any) error {
	f, err := v.field(name)
	if err != nil {
		return err
	}

	var raw uint64
	rv := reflect.ValueOf(x)
	switch {
	case f.Type.IsBool() && rv.Kind() == reflect.Bool:
		if rv.Bool() {
			raw = 1
		}
	case !f.Type.IsBool() && rv.CanUint():
		raw = rv.Uint()
	case !f.Type.IsBool() && rv.CanInt():
		raw = uint64(rv.Int())
	default:
		return fmt.Errorf("%w: %s.%s is %s, got %T", ErrFieldType, v.schema.c.Name, name, f.Type.Name, x)
	}

	v.bits = bitops.SetBits(v.bits, f.Range.Start, f.Range.End, raw)
	return nil
}

// String formats v as Name{field: value, ...} using Get.
func (v Value) String() string {
	var b strings.Builder
	b.WriteString(v.schema.c.Name)
	b.WriteString("{")
	for i, f := range v.schema.fields {
		if i > 0 {
			b.WriteString(", ")
		}
		out, err := v.Get(f.Name)
		if err != nil {
			fmt.Fprintf(&b, "%s: !(%v)", f.Name, err)
			continue
		}
		fmt.Fprintf(&b, "%s: %v", f.Name, out)
	}
	b.WriteString("}")
	return b.String()
}
