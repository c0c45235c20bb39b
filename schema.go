package bitfield

import (
	"github.com/alexhholmes/bitfield/internal/analyzer"
)

// Schema describes one container. It is immutable and safe for concurrent
// use.
type Schema struct {
	c      *analyzer.Container
	fields []FieldInfo
	index  map[string]int
}

// FieldInfo describes one field of a Schema.
type FieldInfo struct {
	Name   string
	Pub    bool
	Type   string // element type, accepted by Set
	Output string // type returned by Get
	Start  int    // first bit
	End    int    // one past the last bit
	Mask   uint64 // unshifted
	Shift  int

	// Transform is the expression or function name, empty if the field has
	// no transform.
	Transform string

	Doc []string
}

// Len returns the number of bits in the field.
func (f FieldInfo) Len() int {
	return f.End - f.Start
}

func newSchema(c *analyzer.Container) *Schema {
	s := &Schema{
		c:      c,
		fields: make([]FieldInfo, len(c.Fields)),
		index:  make(map[string]int, len(c.Fields)),
	}
	for i, f := range c.Fields {
		info := FieldInfo{
			Name:   f.Name,
			Pub:    f.Pub,
			Type:   f.Type.Name,
			Output: f.Output.Name,
			Start:  f.Range.Start,
			End:    f.Range.End,
			Mask:   f.Mask,
			Shift:  f.Shift,
			Doc:    f.Doc,
		}
		if f.Transform != nil {
			info.Transform = f.Transform.Expr
			if f.Transform.Func != "" {
				info.Transform = f.Transform.Func
			}
		}
		s.fields[i] = info
		s.index[f.Name] = i
	}
	return s
}

// Name returns the declared container name.
func (s *Schema) Name() string { return s.c.Name }

// Pub reports whether the container was declared pub.
func (s *Schema) Pub() bool { return s.c.Pub }

// Type returns the underlying integer type, e.g. "uint16".
func (s *Schema) Type() string { return s.c.Type.Name }

// Width returns the container width in bits.
func (s *Schema) Width() int { return s.c.Width }

// ByteCount returns Width / 8.
func (s *Schema) ByteCount() int { return s.c.ByteCount }

// DataMask returns the union of all field ranges.
func (s *Schema) DataMask() uint64 { return s.c.DataMask }

// Doc returns the declaration's doc comment lines.
func (s *Schema) Doc() []string { return s.c.Doc }

// Fields returns the fields in declaration order.
func (s *Schema) Fields() []FieldInfo {
	out := make([]FieldInfo, len(s.fields))
	copy(out, s.fields)
	return out
}

// Field returns the field with the given name.
func (s *Schema) Field(name string) (FieldInfo, bool) {
	i, ok := s.index[name]
	if !ok {
		return FieldInfo{}, false
	}
	return s.fields[i], true
}

// New returns a value holding raw with unclaimed bits cleared.
func (s *Schema) New(raw uint64) Value {
	return Value{schema: s, bits: raw & s.c.DataMask}
}

// Zero returns a value with every field zero.
func (s *Schema) Zero() Value {
	return Value{schema: s}
}

func (s *Schema) field(name string) (*analyzer.Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return &s.c.Fields[i], true
}
