package analyzer

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/alexhholmes/bitfield/internal/parser"
	"github.com/alexhholmes/bitfield/xform"
)

// Container is an analyzed bitfield declaration. It is never modified after
// Analyze returns it.
type Container struct {
	Name        string // as declared
	GoName      string // type name in generated code
	Constructor string // NewFlags or newFlags
	MaskConst   string // flagsDataMask
	Methods     Methods
	Pub         bool
	Type        Type // underlying unsigned type
	Width       int  // bits
	ByteCount   int
	DataMask    uint64 // union of all field ranges
	Fields      []Field
	Overlap     string // parser.OverlapAllow or parser.OverlapDeny
	Bounds      string // parser.BoundsImplicit or parser.BoundsExplicit
	Doc         []string
	Pos         parser.Pos
}

// Field is an analyzed field
type Field struct {
	Name      string
	Getter    string
	Setter    string
	Pub       bool
	Type      Type // element type, accepted by the setter
	Output    Type // getter result type
	Range     Range
	Mask      uint64 // (1 << Range.Len()) - 1
	Shift     int
	Transform *Transform // nil if the field has none
	Doc       []string
	Pos       parser.Pos
}

// Transform is a checked read-side transform.
type Transform struct {
	Kind  parser.TransformKind
	Param string
	Expr  string
	Func  string

	// Compiled is set for expression transforms, and for function
	// transforms resolved through Options.Funcs.
	Compiled *xform.Func
}

// Field returns the field with the given declared name.
func (c *Container) Field(name string) (*Field, bool) {
	for i := range c.Fields {
		if c.Fields[i].Name == name {
			return &c.Fields[i], true
		}
	}
	return nil, false
}

// Options control analysis. The zero value allows overlaps, implicit bounds
// and builtin types only.
type Options struct {
	Overlap string // default when a declaration has no annotation
	Bounds  string

	// Registry resolves named types. May be nil.
	Registry *TypeRegistry

	// Funcs are Go functions usable as named transforms at run time.
	Funcs map[string]*xform.Func

	// Sigs are function signatures known to generated code.
	Sigs map[string]parser.FuncSig

	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// AnalyzeAll analyzes every declaration and checks that the package level
// names of generated code do not collide. All errors are returned together
// as an ErrorList.
func AnalyzeAll(decls []*parser.Bitfield, opts Options) ([]*Container, error) {
	var (
		containers []*Container
		errs       ErrorList
		topLevel   = map[string]string{ // identifier → container
			"fmt":   "the fmt import",
			"xform": "the xform import",
		}
	)

	for _, decl := range decls {
		c, err := Analyze(decl, opts)
		if err != nil {
			errs = appendErr(errs, err)
			continue
		}

		for _, ident := range []string{c.GoName, c.Constructor, c.MaskConst} {
			if other, ok := topLevel[ident]; ok {
				errs = append(errs, &FieldError{
					Container: c.Name,
					Pos:       c.Pos,
					Err:       fmt.Errorf("%w: %s is also declared by %s", ErrNameConflict, ident, other),
				})
				continue
			}
			topLevel[ident] = c.Name
		}
		containers = append(containers, c)
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}
	return containers, nil
}

func appendErr(errs ErrorList, err error) ErrorList {
	if list, ok := err.(ErrorList); ok {
		return append(errs, list...)
	}
	if fe, ok := err.(*FieldError); ok {
		return append(errs, fe)
	}
	return append(errs, &FieldError{Err: err})
}

// Analyze checks a parsed declaration and computes masks, shifts and
// accessor names. Every field error is collected; the returned error is an
// ErrorList.
func Analyze(decl *parser.Bitfield, opts Options) (*Container, error) {
	if decl == nil {
		return nil, fmt.Errorf("declaration is nil")
	}

	a := &analysis{decl: decl, opts: opts}
	c := a.container()
	if err := a.errs.Err(); err != nil {
		return nil, err
	}

	opts.logger().Debug("analyzed bitfield",
		"name", c.Name,
		"type", c.Type.Name,
		"fields", len(c.Fields),
		"data_mask", fmt.Sprintf("%#x", c.DataMask))

	return c, nil
}

type analysis struct {
	decl *parser.Bitfield
	opts Options
	errs ErrorList
}

func (a *analysis) errorf(field string, pos parser.Pos, err error) {
	a.errs = append(a.errs, &FieldError{
		Container: a.decl.Name,
		Field:     field,
		Pos:       pos,
		Err:       err,
	})
}

func (a *analysis) container() *Container {
	decl := a.decl
	c := &Container{
		Name:    decl.Name,
		Pub:     decl.Pub,
		GoName:  goName(decl.Name, decl.Pub),
		Methods: containerMethods(decl.Pub),
		Overlap: parser.OverlapAllow,
		Bounds:  parser.BoundsImplicit,
		Doc:     decl.Doc,
		Pos:     decl.Pos,
	}
	if a.opts.Overlap != "" {
		c.Overlap = a.opts.Overlap
	}
	if a.opts.Bounds != "" {
		c.Bounds = a.opts.Bounds
	}
	if decl.Anno != nil && decl.Anno.Overlap != "" {
		c.Overlap = decl.Anno.Overlap
	}
	if decl.Anno != nil && decl.Anno.Bounds != "" {
		c.Bounds = decl.Anno.Bounds
	}
	if decl.Pub {
		c.Constructor = "New" + c.GoName
	} else {
		c.Constructor = "new" + exportedName(decl.Name)
	}
	c.MaskConst = unexportedName(decl.Name) + "DataMask"

	if err := checkIdent(c.GoName); err != nil {
		a.errorf("", decl.Pos, err)
	}

	typ, err := a.opts.Registry.Lookup(decl.Type)
	if err != nil || !typ.IsUnsigned() {
		a.errorf("", decl.TypePos, fmt.Errorf("%w: %s, want u8, u16, u32, u64 or usize", ErrUnsupportedType, decl.Type))
		return c
	}
	c.Type = typ
	c.Width = typ.Width()
	c.ByteCount = c.Width / 8

	names := make(map[string]string) // accessor name → field
	for m := range reservedNames(c.Methods) {
		names[m] = ""
	}

	for _, pf := range decl.Fields {
		f, ok := a.field(c, pf)
		if !ok {
			continue
		}
		if _, dup := c.Field(f.Name); dup {
			a.errorf(f.Name, pf.Pos, fmt.Errorf("%w: %s is declared more than once", ErrDuplicateField, f.Name))
			continue
		}
		if !a.claimNames(names, f, pf.Pos) {
			continue
		}
		c.Fields = append(c.Fields, f)
		c.DataMask |= f.Mask << f.Shift
	}

	if c.Overlap == parser.OverlapDeny {
		a.detectOverlaps(c)
	}

	return c
}

// claimNames registers the getter and setter of f, reporting collisions
// with container methods and other fields.
func (a *analysis) claimNames(names map[string]string, f Field, pos parser.Pos) bool {
	ok := true
	for _, ident := range []string{f.Getter, f.Setter} {
		if err := checkIdent(ident); err != nil {
			a.errorf(f.Name, pos, err)
			ok = false
			continue
		}
		other, taken := names[ident]
		if !taken {
			continue
		}
		if other == "" {
			a.errorf(f.Name, pos, fmt.Errorf("%w: accessor %s collides with a container method", ErrNameConflict, ident))
		} else {
			a.errorf(f.Name, pos, fmt.Errorf("%w: accessor %s collides with an accessor of %s", ErrNameConflict, ident, other))
		}
		ok = false
	}
	if ok {
		names[f.Getter] = f.Name
		names[f.Setter] = f.Name
	}
	return ok
}

func (a *analysis) field(c *Container, pf parser.Field) (Field, bool) {
	f := Field{
		Name:   pf.Name,
		Pub:    pf.Pub,
		Getter: goName(pf.Name, pf.Pub),
		Setter: setterName(pf.Name, pf.Pub),
		Doc:    pf.Doc,
		Pos:    pf.Pos,
	}

	typ, err := a.opts.Registry.Lookup(pf.Type)
	if err != nil || !(typ.IsUnsigned() || typ.IsBool()) {
		a.errorf(f.Name, pf.TypePos, fmt.Errorf("%w: %s, want bool or an unsigned integer type", ErrUnsupportedFieldType, pf.Type))
		return f, false
	}
	f.Type = typ
	f.Output = typ

	if c.Bounds == parser.BoundsExplicit && (pf.Range.Start < 0 || pf.Range.End < 0) {
		a.errorf(f.Name, pf.Range.Pos, fmt.Errorf("%w: %s", ErrMissingBound, pf.Range))
		return f, false
	}

	// placement within the container
	r, err := Resolve(pf.Range, c.Width)
	if err != nil {
		a.errorf(f.Name, pf.Range.Pos, err)
		return f, false
	}

	// the span relocated to bit 0 must fit the element type
	if _, err := Resolve(parser.RangeExpr{Start: 0, End: r.Len()}, typ.Width()); err != nil {
		a.errorf(f.Name, pf.Range.Pos, fmt.Errorf("%w: %d bits do not fit in %s", ErrInvalidRange, r.Len(), typ.Name))
		return f, false
	}

	f.Range = r
	f.Mask = r.Mask()
	f.Shift = r.Shift()

	if pf.Transform != nil {
		t, out, err := a.transform(f, pf.Transform)
		if err != nil {
			a.errorf(f.Name, pf.Transform.Pos, err)
			return f, false
		}
		f.Transform = t
		f.Output = out
	}

	return f, true
}

func (a *analysis) transform(f Field, pt *parser.Transform) (*Transform, Type, error) {
	t := &Transform{
		Kind:  pt.Kind,
		Param: pt.Param,
		Expr:  pt.Expr,
		Func:  pt.Func,
	}

	switch pt.Kind {
	case parser.ExprTransform:
		out := f.Type
		if pt.Returns != "" {
			typ, err := a.opts.Registry.Lookup(pt.Returns)
			if err != nil {
				return nil, out, fmt.Errorf("%w: %v", ErrTransform, err)
			}
			out = typ
		}
		compiled, err := xform.Compile(pt.Param, pt.Expr, f.Type.Kind, out.Kind)
		if err != nil {
			return nil, out, err
		}
		t.Compiled = compiled
		return t, out, nil

	case parser.FuncTransform:
		return a.funcTransform(f, pt, t)
	}

	return nil, f.Type, fmt.Errorf("%w: unknown transform kind %v", ErrTransform, pt.Kind)
}

func (a *analysis) funcTransform(f Field, pt *parser.Transform, t *Transform) (*Transform, Type, error) {
	var out Type
	if pt.Returns != "" {
		out = a.namedType(pt.Returns)
	}

	if fn, ok := a.opts.Funcs[pt.Func]; ok {
		t.Compiled = fn
		if pt.Returns == "" {
			out = Type{Name: "any"}
		}
		return t, out, nil
	}

	sig, ok := a.opts.Sigs[pt.Func]
	if !ok {
		return nil, out, fmt.Errorf("%w: unknown function %s", ErrTransform, pt.Func)
	}

	param, err := a.opts.Registry.Lookup(sig.Param)
	if err != nil || param.Name != f.Type.Name {
		return nil, out, fmt.Errorf("%w: %s takes %s, field is %s", ErrTransform, pt.Func, sig.Param, f.Type.Name)
	}

	result := a.namedType(sig.Result)
	if pt.Returns != "" && result.Name != out.Name {
		return nil, out, fmt.Errorf("%w: %s returns %s, declared %s", ErrTransform, pt.Func, sig.Result, pt.Returns)
	}
	return t, result, nil
}

// namedType resolves name through the registry, falling back to an opaque
// named type for function results such as structs.
func (a *analysis) namedType(name string) Type {
	if typ, err := a.opts.Registry.Lookup(name); err == nil {
		return typ
	}
	return Type{Name: name}
}

// detectOverlaps reports every pair of fields sharing a bit
func (a *analysis) detectOverlaps(c *Container) {
	fields := make([]Field, len(c.Fields))
	copy(fields, c.Fields)
	sort.SliceStable(fields, func(i, j int) bool {
		return fields[i].Range.Start < fields[j].Range.Start
	})

	for i := 0; i < len(fields); i++ {
		for j := i + 1; j < len(fields); j++ {
			f1, f2 := fields[i], fields[j]
			if f2.Range.Start >= f1.Range.End {
				break
			}
			a.errorf(f2.Name, f2.Pos,
				fmt.Errorf("%w: %s %s overlaps %s %s", ErrOverlap, f2.Name, f2.Range, f1.Name, f1.Range))
		}
	}
}
