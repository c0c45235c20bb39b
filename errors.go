package bitfield

import (
	"errors"

	"github.com/alexhholmes/bitfield/internal/analyzer"
	"github.com/alexhholmes/bitfield/internal/parser"
)

// Compile errors. Every error returned by Compile matches one of these with
// errors.Is.
var (
	ErrSyntax               = parser.ErrSyntax
	ErrUnsupportedType      = analyzer.ErrUnsupportedType
	ErrUnsupportedFieldType = analyzer.ErrUnsupportedFieldType
	ErrInvalidRange         = analyzer.ErrInvalidRange
	ErrMissingBound         = analyzer.ErrMissingBound
	ErrDuplicateField       = analyzer.ErrDuplicateField
	ErrNameConflict         = analyzer.ErrNameConflict
	ErrOverlap              = analyzer.ErrOverlap
	ErrTransform            = analyzer.ErrTransform
)

// Run time errors.
var (
	// ErrIndexOutOfRange is the panic value of Byte and SetByte.
	ErrIndexOutOfRange = errors.New("byte index out of range")
	ErrUnknownField    = errors.New("unknown field")
	ErrFieldType       = errors.New("wrong value type for field")
)

// ErrorList is returned by Compile when declarations fail validation. Each
// entry names the container, the field and the source position.
type ErrorList = analyzer.ErrorList

// FieldError is one entry of an ErrorList.
type FieldError = analyzer.FieldError
