package parser

import (
	"fmt"
	"go/ast"
	"go/parser"
	gotoken "go/token"
	"strings"
)

// File is the result of parsing a Go source file for bitfield declarations.
type File struct {
	Name      string
	Package   string
	Bitfields []*Bitfield

	// Funcs holds top-level single-argument functions, usable as named
	// transforms. Keyed by function name.
	Funcs map[string]FuncSig

	// Types maps named non-struct types declared in the file to their
	// underlying type expression, e.g. "Level" -> "uint8".
	Types map[string]string
}

// FuncSig is the signature of a one-in one-out function
type FuncSig struct {
	Param  string
	Result string
}

// ParseFile parses a Go source file and extracts bitfield declarations from
// comment groups that start with a @bitfield annotation.
func ParseFile(filename string) (*File, error) {
	return ParseGoSource(filename, nil)
}

// ParseGoSource is like ParseFile but reads from src when it is not nil.
// src may be a string, []byte or io.Reader, as for go/parser.
func ParseGoSource(filename string, src any) (*File, error) {
	fset := gotoken.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	out := &File{
		Name:    filename,
		Package: file.Name.Name,
		Funcs:   make(map[string]FuncSig),
		Types:   make(map[string]string),
	}

	for _, group := range file.Comments {
		decls, err := extractBitfields(fset, filename, group)
		if err != nil {
			return nil, err
		}
		out.Bitfields = append(out.Bitfields, decls...)
	}

	extractDecls(file, out)

	return out, nil
}

// extractBitfields parses the declaration text that follows a @bitfield line.
// Lines above the annotation become the doc of the first declaration.
func extractBitfields(fset *gotoken.FileSet, filename string, group *ast.CommentGroup) ([]*Bitfield, error) {
	var (
		lines []string
		first int // source line of lines[0]
	)
	for _, c := range group.List {
		pos := fset.Position(c.Slash)
		if first == 0 {
			first = pos.Line
		}
		lines = append(lines, blankMarkers(c.Text, pos.Column)...)
	}

	anno, annoIdx, err := FindAnnotation(lines)
	if annoIdx < 0 {
		return nil, nil
	}
	annoPos := Pos{File: filename, Line: first + annoIdx}
	if err != nil {
		return nil, errorf(annoPos, "%v", err)
	}

	src := strings.Join(lines[annoIdx+1:], "\n")
	decls, err := parseAt(filename, src, first+annoIdx+1)
	if err != nil {
		return nil, err
	}
	if len(decls) == 0 {
		return nil, errorf(annoPos, "@bitfield annotation without declaration")
	}

	var doc []string
	for _, line := range lines[:annoIdx] {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "go:") {
			continue
		}
		doc = append(doc, line)
	}
	for len(doc) > 0 && doc[len(doc)-1] == "" {
		doc = doc[:len(doc)-1]
	}
	for _, d := range decls {
		d.Anno = anno
	}
	if len(decls[0].Doc) == 0 && len(doc) > 0 {
		decls[0].Doc = doc
	}

	return decls, nil
}

// blankMarkers returns the lines of a comment with the comment markers and
// everything left of them replaced by spaces, so columns in the declaration
// text match columns in the file.
func blankMarkers(text string, col int) []string {
	pad := strings.Repeat(" ", col-1)

	if strings.HasPrefix(text, "//") {
		return []string{pad + "  " + text[2:]}
	}

	text = strings.TrimSuffix(strings.TrimPrefix(text, "/*"), "*/")
	lines := strings.Split(text, "\n")
	lines[0] = pad + "  " + lines[0]
	return lines
}

// extractDecls records named types and candidate transform functions
func extractDecls(file *ast.File, out *File) {
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			if d.Tok != gotoken.TYPE {
				continue
			}
			for _, spec := range d.Specs {
				typeSpec := spec.(*ast.TypeSpec)
				if typeSpec.TypeParams != nil {
					continue
				}
				if typ := typeToString(typeSpec.Type); typ != "unknown" {
					out.Types[typeSpec.Name.Name] = typ
				}
			}

		case *ast.FuncDecl:
			if d.Recv != nil || d.Type.TypeParams != nil {
				continue
			}
			params, results := d.Type.Params, d.Type.Results
			if params == nil || results == nil || fieldCount(params) != 1 || fieldCount(results) != 1 {
				continue
			}
			out.Funcs[d.Name.Name] = FuncSig{
				Param:  typeToString(params.List[0].Type),
				Result: typeToString(results.List[0].Type),
			}
		}
	}
}

func fieldCount(fl *ast.FieldList) int {
	n := 0
	for _, f := range fl.List {
		if len(f.Names) == 0 {
			n++
		} else {
			n += len(f.Names)
		}
	}
	return n
}

// typeToString converts AST type expression to string
func typeToString(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name

	case *ast.ArrayType:
		if t.Len == nil {
			return "[]" + typeToString(t.Elt)
		}
		return fmt.Sprintf("[%s]%s", exprToString(t.Len), typeToString(t.Elt))

	case *ast.StarExpr:
		return "*" + typeToString(t.X)

	case *ast.SelectorExpr:
		return typeToString(t.X) + "." + t.Sel.Name

	default:
		return "unknown"
	}
}

func exprToString(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.BasicLit:
		return e.Value
	case *ast.Ident:
		return e.Name
	default:
		return "?"
	}
}
