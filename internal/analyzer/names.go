package analyzer

import (
	"fmt"
	"go/token"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Methods names the whole-value methods of a generated container.
type Methods struct {
	Data     string
	SetData  string
	Byte     string
	SetByte  string
	DataMask string
}

// storageField is the name of the unexported integer inside generated types.
const storageField = "bits"

func containerMethods(pub bool) Methods {
	if pub {
		return Methods{Data: "Data", SetData: "SetData", Byte: "Byte", SetByte: "SetByte", DataMask: "DataMask"}
	}
	return Methods{Data: "data", SetData: "setData", Byte: "byte", SetByte: "setByte", DataMask: "dataMask"}
}

// reservedNames returns the method and field names a generated container
// already uses.
func reservedNames(m Methods) map[string]bool {
	return map[string]bool{
		m.Data:       true,
		m.SetData:    true,
		m.Byte:       true,
		m.SetByte:    true,
		m.DataMask:   true,
		"String":     true,
		storageField: true,
	}
}

// exportedName converts snake_case or camelCase to an exported Go name:
// "dirty_bit" → "DirtyBit", "f1" → "F1".
func exportedName(name string) string {
	// cases.Caser is not safe for concurrent use
	title := cases.Title(language.Und, cases.NoLower)

	var b strings.Builder
	for _, part := range strings.Split(name, "_") {
		b.WriteString(title.String(part))
	}
	return b.String()
}

// unexportedName converts snake_case to an unexported Go name:
// "dirty_bit" → "dirtyBit", "Mode" → "mode".
func unexportedName(name string) string {
	s := exportedName(name)
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

func goName(name string, pub bool) string {
	if pub {
		return exportedName(name)
	}
	return unexportedName(name)
}

func setterName(name string, pub bool) string {
	if pub {
		return "Set" + exportedName(name)
	}
	return "set" + exportedName(name)
}

// checkIdent rejects names that are not usable as generated identifiers.
func checkIdent(ident string) error {
	if ident == "" || ident == "_" {
		return fmt.Errorf("%w: %q is not a valid identifier", ErrNameConflict, ident)
	}
	if token.IsKeyword(ident) {
		return fmt.Errorf("%w: %q is a Go keyword", ErrNameConflict, ident)
	}
	if !token.IsIdentifier(ident) {
		return fmt.Errorf("%w: %q is not a valid identifier", ErrNameConflict, ident)
	}
	return nil
}
