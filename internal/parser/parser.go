package parser

import (
	"strconv"
	"strings"
)

// Parse parses declaration text containing any number of bitfield
// declarations. file is only used in positions.
//
// Grammar:
//
//	[pub] struct Name: Type {
//	    [pub] field: Type @ range [=> transform],
//	    ...
//	}
//
//	range     = [int] ".." [int] | [int] "..=" int
//	transform = "|" param "|" ["->" Type] expr | func ["->" Type]
//
// A "// @bitfield ..." line among the comments that open src applies to
// every declaration in it.
func Parse(file, src string) ([]*Bitfield, error) {
	decls, err := parseAt(file, src, 1)
	if err != nil {
		return nil, err
	}

	anno, idx, err := FindAnnotation(leadingComments(src))
	if idx < 0 {
		return decls, nil
	}
	if err != nil {
		return nil, errorf(Pos{File: file, Line: idx + 1, Col: 1}, "%v", err)
	}

	for _, d := range decls {
		d.Anno = anno
	}
	if len(decls) > 0 {
		if _, i, _ := FindAnnotation(decls[0].Doc); i >= 0 {
			decls[0].Doc = decls[0].Doc[i+1:]
		}
	}
	return decls, nil
}

// leadingComments returns the cleaned text of the comment lines at the top
// of src, one entry per source line, blank lines included.
func leadingComments(src string) []string {
	var lines []string
	for _, line := range strings.Split(src, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "//") {
			break
		}
		lines = append(lines, CleanComment(line))
	}
	return lines
}

// ParseString parses declaration text without a file name.
func ParseString(src string) ([]*Bitfield, error) {
	return Parse("", src)
}

func parseAt(file, src string, line int) ([]*Bitfield, error) {
	p := &declParser{lex: newLexer(file, src, line)}
	p.next()

	var decls []*Bitfield
	for p.tok.typ != tEOF {
		bf, err := p.parseBitfield()
		if err != nil {
			return nil, err
		}
		decls = append(decls, bf)
	}
	return decls, nil
}

type declParser struct {
	lex *lexer
	tok token
}

func (p *declParser) next() {
	p.tok = p.lex.next()
}

func (p *declParser) expect(typ tokenType) (token, error) {
	tok := p.tok
	if tok.typ != typ {
		return tok, p.unexpected(typ.String())
	}
	p.next()
	return tok, nil
}

func (p *declParser) unexpected(want string) error {
	got := p.tok.typ.String()
	if p.tok.typ == tIdent || p.tok.typ == tInt || p.tok.typ == tIllegal {
		got += " " + strconv.Quote(p.tok.text)
	}
	return errorf(p.tok.pos, "expected %s, found %s", want, got)
}

func (p *declParser) isKeyword(kw string) bool {
	return p.tok.typ == tIdent && p.tok.text == kw
}

// parseVisibility consumes "pub" or "pub(...)".
func (p *declParser) parseVisibility() (bool, error) {
	if !p.isKeyword("pub") {
		return false, nil
	}
	p.next()
	if p.tok.typ != tLParen {
		return true, nil
	}
	p.next()
	for p.tok.typ != tRParen {
		if p.tok.typ == tEOF {
			return false, p.unexpected("')'")
		}
		p.next()
	}
	p.next()
	return true, nil
}

func (p *declParser) parseBitfield() (*Bitfield, error) {
	bf := &Bitfield{Pos: p.tok.pos, Doc: p.tok.doc}

	pub, err := p.parseVisibility()
	if err != nil {
		return nil, err
	}
	bf.Pub = pub

	if !p.isKeyword("struct") {
		return nil, p.unexpected("'struct'")
	}
	p.next()

	name, err := p.expect(tIdent)
	if err != nil {
		return nil, err
	}
	bf.Name = name.text

	if _, err := p.expect(tColon); err != nil {
		return nil, err
	}

	typ, err := p.expect(tIdent)
	if err != nil {
		return nil, err
	}
	bf.Type, bf.TypePos = typ.text, typ.pos

	if _, err := p.expect(tLBrace); err != nil {
		return nil, err
	}

	for p.tok.typ != tRBrace {
		f, err := p.parseField()
		if err != nil {
			return nil, err
		}
		bf.Fields = append(bf.Fields, f)

		if p.tok.typ == tComma {
			p.next()
			continue
		}
		if p.tok.typ != tRBrace {
			return nil, p.unexpected("',' or '}'")
		}
	}
	p.next()

	return bf, nil
}

func (p *declParser) parseField() (Field, error) {
	f := Field{Pos: p.tok.pos, Doc: p.tok.doc}

	pub, err := p.parseVisibility()
	if err != nil {
		return f, err
	}
	f.Pub = pub

	name, err := p.expect(tIdent)
	if err != nil {
		return f, err
	}
	f.Name = name.text

	if _, err := p.expect(tColon); err != nil {
		return f, err
	}

	typ, err := p.expect(tIdent)
	if err != nil {
		return f, err
	}
	f.Type, f.TypePos = typ.text, typ.pos

	if _, err := p.expect(tAt); err != nil {
		return f, err
	}

	f.Range, err = p.parseRange()
	if err != nil {
		return f, err
	}

	if p.tok.typ == tFatArrow {
		p.next()
		f.Transform, err = p.parseTransform()
		if err != nil {
			return f, err
		}
	}

	return f, nil
}

func (p *declParser) parseRange() (RangeExpr, error) {
	r := RangeExpr{Pos: p.tok.pos, Start: -1, End: -1}

	if p.tok.typ == tInt {
		n, err := parseBound(p.tok)
		if err != nil {
			return r, err
		}
		r.Start = n
		p.next()
	}

	switch p.tok.typ {
	case tDotDot:
		p.next()
	case tDotDotEq:
		r.Inclusive = true
		p.next()
		if p.tok.typ != tInt {
			return r, errorf(p.tok.pos, "closed range requires an end bound")
		}
	default:
		return r, p.unexpected("'..' or '..='")
	}

	if p.tok.typ == tInt {
		n, err := parseBound(p.tok)
		if err != nil {
			return r, err
		}
		r.End = n
		p.next()
	}

	return r, nil
}

func parseBound(tok token) (int, error) {
	n, err := parseInt(tok.text)
	if err != nil {
		return 0, errorf(tok.pos, "invalid range bound %q", tok.text)
	}
	return n, nil
}

// parseInt accepts Go integer literal syntax: 0x, 0o, 0b prefixes and '_'.
func parseInt(s string) (int, error) {
	n, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (p *declParser) parseTransform() (*Transform, error) {
	t := &Transform{Pos: p.tok.pos}

	switch p.tok.typ {
	case tIdent:
		t.Kind = FuncTransform
		t.Func = p.tok.text
		p.next()
		returns, err := p.parseReturns()
		if err != nil {
			return nil, err
		}
		t.Returns = returns
		return t, nil

	case tPipe:
		t.Kind = ExprTransform
		p.next()
		param, err := p.expect(tIdent)
		if err != nil {
			return nil, err
		}
		t.Param = param.text
		if _, err := p.expect(tPipe); err != nil {
			return nil, err
		}

		t.Returns, err = p.parseReturns()
		if err != nil {
			return nil, err
		}

		if p.tok.typ == tComma || p.tok.typ == tRBrace || p.tok.typ == tEOF {
			return nil, errorf(p.tok.pos, "missing transform expression")
		}
		body, err := p.lex.rawFrom(p.tok.off, p.tok.pos)
		if err != nil {
			return nil, err
		}
		t.Expr = unwrapBraces(body)
		if t.Expr == "" {
			return nil, errorf(t.Pos, "missing transform expression")
		}
		p.next()
		return t, nil
	}

	return nil, p.unexpected("'|' or function name")
}

func (p *declParser) parseReturns() (string, error) {
	if p.tok.typ != tArrow {
		return "", nil
	}
	p.next()
	typ, err := p.expect(tIdent)
	if err != nil {
		return "", err
	}
	return typ.text, nil
}
