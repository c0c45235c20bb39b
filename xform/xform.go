// Package xform evaluates read-side field transforms.
//
// A transform maps the raw value extracted from a bitfield to the value a
// getter returns. It is either a CEL expression over a single parameter or a
// Go function registered by name. Transforms are pure and are never applied
// when a field is written.
//
// Compiled transforms are immutable and safe for concurrent use.
package xform

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strings"

	"github.com/google/cel-go/cel"
	celast "github.com/google/cel-go/common/ast"
	"github.com/google/cel-go/common/types"
)

// ErrTransform is wrapped by every error returned from this package.
var ErrTransform = errors.New("invalid transform")

// Func is a compiled transform.
type Func struct {
	name  string // expression text or Go function name
	param string
	in    Kind
	out   Kind

	prg      cel.Program
	unsigned bool // param bound as a CEL uint
	fn       func(any) any
}

// Compile type-checks expr with a single variable named param of kind in.
// Unsigned inputs are bound as CEL ints, so arithmetic such as "2 * v" and
// list indexing such as "[0xAA, 0xBB][v]" need no conversions. The result is
// converted to out on every evaluation.
//
// 64-bit unsigned inputs do not fit a CEL int. For them the expression is
// first checked with param bound as a CEL uint and its non-negative integer
// literals read as uint literals ("v / 2" as "v / 2u"); uint arithmetic
// that would go below zero fails at evaluation. Only when that form does not
// type-check, as for list indexing, is param bound as an int, and Eval then
// rejects inputs above math.MaxInt64.
func Compile(param, expr string, in, out Kind) (*Func, error) {
	if param == "" {
		return nil, fmt.Errorf("%w: empty parameter name", ErrTransform)
	}
	if in == Invalid || out == Invalid {
		return nil, fmt.Errorf("%w: %s: invalid input or output kind", ErrTransform, expr)
	}

	if in == Uint64 || in == Uint {
		if prg, ok := compileUnsigned(param, expr, out); ok {
			return &Func{name: expr, param: param, in: in, out: out, prg: prg, unsigned: true}, nil
		}
	}

	varType := cel.IntType
	if in == Bool {
		varType = cel.BoolType
	}

	prg, err := compileProgram(param, varType, expr, out)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrTransform, expr, err)
	}
	return &Func{name: expr, param: param, in: in, out: out, prg: prg}, nil
}

func compileProgram(param string, varType *cel.Type, expr string, out Kind) (cel.Program, error) {
	env, err := cel.NewEnv(cel.Variable(param, varType))
	if err != nil {
		return nil, err
	}

	checked, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, iss.Err()
	}
	if err := checkOutput(checked.OutputType().String(), out); err != nil {
		return nil, err
	}
	return env.Program(checked)
}

// compileUnsigned compiles expr with param bound as a CEL uint.
func compileUnsigned(param, expr string, out Kind) (cel.Program, bool) {
	env, err := cel.NewEnv(cel.Variable(param, cel.UintType))
	if err != nil {
		return nil, false
	}
	parsed, iss := env.Parse(expr)
	if iss != nil && iss.Err() != nil {
		return nil, false
	}

	prg, err := compileProgram(param, cel.UintType, uintLiterals(expr, parsed.NativeRep()), out)
	if err != nil {
		return nil, false
	}
	return prg, true
}

// uintLiterals appends the uint suffix to every non-negative int literal of
// expr.
func uintLiterals(expr string, parsed *celast.AST) string {
	info := parsed.SourceInfo()

	var ends []int
	celast.PostOrderVisit(parsed.Expr(), celast.NewExprVisitor(func(e celast.Expr) {
		if e.Kind() != celast.LiteralKind {
			return
		}
		if v, ok := e.AsLiteral().(types.Int); !ok || v < 0 {
			return
		}
		// macro expansions carry literals without a source span
		if r, ok := info.GetOffsetRange(e.ID()); ok && r.Stop > r.Start {
			ends = append(ends, int(r.Stop))
		}
	}))
	slices.Sort(ends)
	ends = slices.Compact(ends)

	src := []rune(expr)
	var b strings.Builder
	prev := 0
	for _, end := range ends {
		if end > len(src) {
			break
		}
		b.WriteString(string(src[prev:end]))
		b.WriteString("u")
		prev = end
	}
	b.WriteString(string(src[prev:]))
	return b.String()
}

// MustCompile is like Compile but panics on error. It is used by generated
// code to initialize package-level transforms.
func MustCompile(param, expr string, in, out Kind) *Func {
	f, err := Compile(param, expr, in, out)
	if err != nil {
		panic(err)
	}
	return f
}

// Wrap registers a Go function as a named transform. Its result is returned
// as is.
func Wrap(name string, fn func(any) any) *Func {
	return &Func{name: name, fn: fn}
}

// checkOutput rejects expressions whose static type can never convert to out.
func checkOutput(celType string, out Kind) error {
	switch celType {
	case "dyn":
		return nil
	case "bool":
		if out == Bool {
			return nil
		}
	case "string":
		if out == String {
			return nil
		}
	case "int", "uint", "double":
		if out != Bool && out != String {
			return nil
		}
	}
	return fmt.Errorf("expression of type %s cannot produce %s", celType, out)
}

// Name returns the expression text or the registered function name.
func (f *Func) Name() string {
	return f.name
}

// IsExpr reports whether f is a CEL expression rather than a Go function.
func (f *Func) IsExpr() bool {
	return f.prg != nil
}

// Output returns the declared output kind of an expression transform, or
// Invalid for a Go function.
func (f *Func) Output() Kind {
	return f.out
}

// Eval applies the transform to v.
func (f *Func) Eval(v any) (any, error) {
	if f.fn != nil {
		return f.fn(v), nil
	}

	in, err := f.input(v)
	if err != nil {
		return nil, err
	}

	res, _, err := f.prg.Eval(map[string]any{f.param: in})
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrTransform, f.name, err)
	}

	out, err := f.out.Convert(res.Value())
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrTransform, f.name, err)
	}
	return out, nil
}

// input normalizes v to the CEL variable type, accepting named Go types.
func (f *Func) input(v any) (any, error) {
	rv := reflect.ValueOf(v)
	switch {
	case f.in == Bool && rv.Kind() == reflect.Bool:
		return rv.Bool(), nil
	case f.unsigned && rv.CanUint():
		return rv.Uint(), nil
	case f.unsigned && rv.CanInt() && rv.Int() >= 0:
		return uint64(rv.Int()), nil
	case f.unsigned:
	case f.in != Bool && rv.CanUint():
		if rv.Uint() > math.MaxInt64 {
			return nil, fmt.Errorf("%w: %q: input %d exceeds the int range of the expression", ErrTransform, f.name, rv.Uint())
		}
		return int64(rv.Uint()), nil
	case f.in != Bool && rv.CanInt():
		return rv.Int(), nil
	}
	return nil, fmt.Errorf("%w: %q: unexpected input %T", ErrTransform, f.name, v)
}

// Apply evaluates f on v and returns the result as T. It panics if the
// transform fails, the same way an out of range table lookup panics in plain
// Go code.
func Apply[T any](f *Func, v any) T {
	out, err := f.Eval(v)
	if err != nil {
		panic(err)
	}
	res, ok := out.(T)
	if !ok {
		var zero T
		panic(fmt.Sprintf("xform: %q produced %T, want %T", f.name, out, zero))
	}
	return res
}

func (f *Func) String() string {
	if f.fn != nil {
		return f.name
	}
	return fmt.Sprintf("|%s| -> %s %s", f.param, f.out, f.name)
}
