package parser

import (
	"errors"
	"fmt"
)

// ErrSyntax is wrapped by every malformed-declaration error.
var ErrSyntax = errors.New("syntax error")

// Pos is a position in a declaration source.
type Pos struct {
	File string
	Line int // 1-based
	Col  int // 1-based, 0 if unknown
}

func (p Pos) String() string {
	s := p.File
	if s != "" {
		s += ":"
	}
	if p.Col > 0 {
		return fmt.Sprintf("%s%d:%d", s, p.Line, p.Col)
	}
	return fmt.Sprintf("%s%d", s, p.Line)
}

// SyntaxError reports malformed declaration text.
type SyntaxError struct {
	Pos Pos
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

func errorf(pos Pos, format string, args ...any) *SyntaxError {
	return &SyntaxError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// Bitfield is a parsed container declaration
type Bitfield struct {
	Pos     Pos
	Doc     []string
	Pub     bool
	Name    string
	Type    string // underlying type as written
	TypePos Pos
	Fields  []Field
	Anno    *Annotation // nil unless declared in a Go source comment
}

// Field is a parsed field declaration
type Field struct {
	Pos       Pos
	Doc       []string
	Pub       bool
	Name      string
	Type      string // element type as written
	TypePos   Pos
	Range     RangeExpr
	Transform *Transform // nil if the field has none
}

// RangeExpr is a bit range as written. Omitted bounds are -1.
type RangeExpr struct {
	Pos       Pos
	Start     int
	End       int
	Inclusive bool // "..=" form
}

func (r RangeExpr) String() string {
	var s string
	if r.Start >= 0 {
		s = fmt.Sprint(r.Start)
	}
	if r.Inclusive {
		s += "..="
	} else {
		s += ".."
	}
	if r.End >= 0 {
		s += fmt.Sprint(r.End)
	}
	return s
}

type TransformKind int

const (
	ExprTransform TransformKind = iota // |v| <expr>
	FuncTransform                      // <func name>
)

func (k TransformKind) String() string {
	switch k {
	case ExprTransform:
		return "expr"
	case FuncTransform:
		return "func"
	default:
		return "unknown"
	}
}

// Transform is a read-side value mapping attached to a field.
type Transform struct {
	Pos     Pos
	Kind    TransformKind
	Param   string // ExprTransform parameter name
	Expr    string // ExprTransform body
	Func    string // FuncTransform function name
	Returns string // declared output type, empty if omitted
}
