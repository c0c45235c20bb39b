package analyzer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexhholmes/bitfield/internal/parser"
	"github.com/alexhholmes/bitfield/xform"
)

var (
	ErrUnsupportedType      = errors.New("unsupported container type")
	ErrUnsupportedFieldType = errors.New("unsupported field type")
	ErrInvalidRange         = errors.New("invalid range")
	ErrMissingBound         = errors.New("missing range bound")
	ErrDuplicateField       = errors.New("duplicate field")
	ErrNameConflict         = errors.New("name conflict")
	ErrOverlap              = errors.New("overlapping fields")

	// ErrTransform is shared with package xform so compile errors from CEL
	// match it too.
	ErrTransform = xform.ErrTransform
)

// FieldError is a validation error in one container or field.
type FieldError struct {
	Container string
	Field     string // empty for container level errors
	Pos       parser.Pos
	Err       error
}

func (e *FieldError) Error() string {
	var b strings.Builder
	if e.Pos.Line > 0 || e.Pos.File != "" {
		b.WriteString(e.Pos.String())
		b.WriteString(": ")
	}
	b.WriteString(e.Container)
	if e.Field != "" {
		b.WriteString(".")
		b.WriteString(e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *FieldError) Unwrap() error { return e.Err }

// ErrorList collects every error found in a set of declarations.
type ErrorList []*FieldError

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", l[0], len(l)-1)
}

func (l ErrorList) Unwrap() []error {
	errs := make([]error, len(l))
	for i, e := range l {
		errs[i] = e
	}
	return errs
}

// Err returns l as an error, or nil if l is empty.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}
