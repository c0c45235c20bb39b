package analyzer

import (
	"fmt"

	"github.com/alexhholmes/bitfield/xform"
)

// Type is a resolved value type
type Type struct {
	Name string     // Go spelling, e.g. "uint16", "bool" or a named type "Level"
	Kind xform.Kind // underlying kind, Invalid for types only known by name
}

func (t Type) String() string {
	return t.Name
}

// Width returns the bit width of t, 1 for bool, 0 if unknown.
func (t Type) Width() int {
	return t.Kind.Width()
}

// IsUnsigned reports whether t is an unsigned integer type
func (t Type) IsUnsigned() bool {
	return t.Kind.IsUnsigned()
}

// IsBool reports whether t is a boolean type
func (t Type) IsBool() bool {
	return t.Kind == xform.Bool
}

// IsNamed reports whether t is spelled differently from its underlying kind.
func (t Type) IsNamed() bool {
	return t.Kind != xform.Invalid && t.Name != t.Kind.String()
}

var builtinKinds = map[string]xform.Kind{
	"bool":    xform.Bool,
	"u8":      xform.Uint8,
	"uint8":   xform.Uint8,
	"byte":    xform.Uint8,
	"u16":     xform.Uint16,
	"uint16":  xform.Uint16,
	"u32":     xform.Uint32,
	"uint32":  xform.Uint32,
	"u64":     xform.Uint64,
	"uint64":  xform.Uint64,
	"usize":   xform.Uint,
	"uint":    xform.Uint,
	"i8":      xform.Int8,
	"int8":    xform.Int8,
	"i16":     xform.Int16,
	"int16":   xform.Int16,
	"i32":     xform.Int32,
	"int32":   xform.Int32,
	"rune":    xform.Int32,
	"i64":     xform.Int64,
	"int64":   xform.Int64,
	"isize":   xform.Int,
	"int":     xform.Int,
	"f32":     xform.Float32,
	"float32": xform.Float32,
	"f64":     xform.Float64,
	"float64": xform.Float64,
	"string":  xform.String,
}

// Builtin returns the type named by a builtin spelling such as "u8" or
// "uint16", using the canonical Go name.
func Builtin(name string) (Type, bool) {
	k, ok := builtinKinds[name]
	if !ok {
		return Type{}, false
	}
	return Type{Name: k.String(), Kind: k}, true
}

// TypeRegistry resolves the type names used by bitfield declarations
type TypeRegistry struct {
	aliases map[string]string // named type → underlying type
}

func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		aliases: make(map[string]string),
	}
}

// RegisterAlias adds a named type mapping (e.g., type Level uint8)
func (r *TypeRegistry) RegisterAlias(alias, underlying string) {
	r.aliases[alias] = underlying
}

// ResolveType resolves named types to their underlying types
// Returns the original type if not registered
func (r *TypeRegistry) ResolveType(goType string) string {
	seen := make(map[string]bool)
	for !seen[goType] {
		seen[goType] = true
		underlying, ok := r.aliases[goType]
		if !ok {
			break
		}
		goType = underlying
	}
	return goType
}

// Lookup resolves a type name. Builtin spellings resolve to their canonical
// Go name; registered named types keep their own name.
func (r *TypeRegistry) Lookup(name string) (Type, error) {
	if t, ok := Builtin(name); ok {
		return t, nil
	}
	if r != nil {
		if _, ok := r.aliases[name]; ok {
			if t, ok := Builtin(r.ResolveType(name)); ok {
				return Type{Name: name, Kind: t.Kind}, nil
			}
		}
	}
	return Type{}, fmt.Errorf("unknown type: %s", name)
}
