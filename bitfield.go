// Package bitfield compiles bitfield declarations into schemas that read and
// write fields packed into a single unsigned integer.
//
// A declaration names a container type and its fields:
//
//	pub struct Status: u16 {
//	    pub ready: bool @ 0..=0,
//	    pub level: u8 @ 1..4 => |v| 2 * v,
//	    count: u8 @ 8..,
//	}
//
// Each field occupies a half-open bit range of the container. Omitted bounds
// default to the start and end of the container. A transform after => is
// applied when the field is read and never when it is written.
//
// The same declarations drive the bitfieldgen command, which generates Go
// types with one getter and setter per field.
package bitfield

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/alexhholmes/bitfield/internal/analyzer"
	"github.com/alexhholmes/bitfield/internal/parser"
	"github.com/alexhholmes/bitfield/xform"
)

// Option configures Compile.
type Option func(*options)

type options struct {
	analyzer analyzer.Options
	logger   *slog.Logger
}

// WithFunc registers fn as a named transform usable as "=> name". Its
// result is returned by Get as is.
func WithFunc(name string, fn func(any) any) Option {
	return func(o *options) {
		if o.analyzer.Funcs == nil {
			o.analyzer.Funcs = make(map[string]*xform.Func)
		}
		o.analyzer.Funcs[name] = xform.Wrap(name, fn)
	}
}

// WithOverlap rejects fields sharing a bit when deny is true. An @bitfield
// annotation on a declaration takes precedence.
func WithOverlap(deny bool) Option {
	return func(o *options) {
		o.analyzer.Overlap = parser.OverlapAllow
		if deny {
			o.analyzer.Overlap = parser.OverlapDeny
		}
	}
}

// WithExplicitBounds requires both bounds of every range.
func WithExplicitBounds() Option {
	return func(o *options) {
		o.analyzer.Bounds = parser.BoundsExplicit
	}
}

// WithType declares a named type, such as "Level" for "uint8", usable as a
// field or transform output type.
func WithType(name, underlying string) Option {
	return func(o *options) {
		if o.analyzer.Registry == nil {
			o.analyzer.Registry = analyzer.NewTypeRegistry()
		}
		o.analyzer.Registry.RegisterAlias(name, underlying)
	}
}

// WithLogger sets the logger for compile events.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
		o.analyzer.Logger = logger
	}
}

func newOptions(opts []Option) *options {
	o := &options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Compile parses and validates every declaration in src. Errors are
// reported together; a syntax error stops parsing at the first one.
func Compile(src string, opts ...Option) ([]*Schema, error) {
	decls, err := parser.ParseString(src)
	if err != nil {
		return nil, err
	}
	return compile(decls, newOptions(opts))
}

// CompileYAML is like Compile for a YAML document of the form
//
//	bitfields:
//	  - name: Status
//	    type: u16
//	    fields:
//	      - {name: ready, type: bool, bits: 0}
//	      - {name: level, type: u8, bits: "1..4", transform: 2 * v}
func CompileYAML(r io.Reader, opts ...Option) ([]*Schema, error) {
	decls, err := parser.ParseYAML("<yaml>", r)
	if err != nil {
		return nil, err
	}
	return compile(decls, newOptions(opts))
}

// MustCompile compiles a single declaration and panics on error.
func MustCompile(src string, opts ...Option) *Schema {
	schemas, err := Compile(src, opts...)
	if err != nil {
		panic(err)
	}
	if len(schemas) != 1 {
		panic(fmt.Sprintf("bitfield: MustCompile: %d declarations, want 1", len(schemas)))
	}
	return schemas[0]
}

func compile(decls []*parser.Bitfield, o *options) ([]*Schema, error) {
	var (
		schemas []*Schema
		errs    ErrorList
		seen    = make(map[string]bool)
	)

	for _, decl := range decls {
		c, err := analyzer.Analyze(decl, o.analyzer)
		if err != nil {
			var list ErrorList
			if errors.As(err, &list) {
				errs = append(errs, list...)
			} else {
				errs = append(errs, &FieldError{Container: decl.Name, Pos: decl.Pos, Err: err})
			}
			continue
		}
		if seen[c.Name] {
			errs = append(errs, &FieldError{
				Container: c.Name,
				Pos:       c.Pos,
				Err:       fmt.Errorf("%w: %s is declared more than once", ErrNameConflict, c.Name),
			})
			continue
		}
		seen[c.Name] = true

		s := newSchema(c)
		o.logger.Debug("compiled schema",
			"name", s.Name(),
			"width", s.Width(),
			"fields", len(s.fields),
			"data_mask", fmt.Sprintf("%#x", s.DataMask()))
		schemas = append(schemas, s)
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}
	return schemas, nil
}
