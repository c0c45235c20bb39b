package parser

import (
	"strings"
	"unicode"
)

type tokenType int

const (
	tEOF tokenType = iota
	tIllegal
	tIdent
	tInt
	tColon    // :
	tComma    // ,
	tAt       // @
	tDotDot   // ..
	tDotDotEq // ..=
	tFatArrow // =>
	tArrow    // ->
	tPipe     // |
	tLBrace   // {
	tRBrace   // }
	tLParen   // (
	tRParen   // )
)

var tokenNames = map[tokenType]string{
	tEOF:      "end of input",
	tIllegal:  "illegal character",
	tIdent:    "identifier",
	tInt:      "integer",
	tColon:    "':'",
	tComma:    "','",
	tAt:       "'@'",
	tDotDot:   "'..'",
	tDotDotEq: "'..='",
	tFatArrow: "'=>'",
	tArrow:    "'->'",
	tPipe:     "'|'",
	tLBrace:   "'{'",
	tRBrace:   "'}'",
	tLParen:   "'('",
	tRParen:   "')'",
}

func (t tokenType) String() string {
	if s, ok := tokenNames[t]; ok {
		return s
	}
	return "unknown token"
}

type token struct {
	typ  tokenType
	text string
	pos  Pos
	off  int      // rune offset of the first character
	doc  []string // line comments directly above the token
}

// lexer scans declaration text on demand. Transform bodies are not
// tokenized; the parser asks for them as raw text with rawFrom.
type lexer struct {
	src  []rune
	pos  int // index of the next rune to consume
	line int
	col  int
	file string
}

func newLexer(file, src string, line int) *lexer {
	if line < 1 {
		line = 1
	}
	return &lexer{src: []rune(src), line: line, col: 1, file: file}
}

func (l *lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) peek2() rune {
	if l.pos+1 >= len(l.src) {
		return 0
	}
	return l.src[l.pos+1]
}

func (l *lexer) advance() rune {
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *lexer) here() Pos {
	return Pos{File: l.file, Line: l.line, Col: l.col}
}

// skip consumes whitespace and comments, returning the text of the line
// comments that directly precede the next token.
func (l *lexer) skip() []string {
	var doc []string
	for l.pos < len(l.src) {
		r := l.peek()
		switch {
		case r == '\n':
			l.advance()
			// a blank line detaches comments from the next token
			if l.blankLineAhead() {
				doc = nil
			}
		case unicode.IsSpace(r):
			l.advance()
		case r == '/' && l.peek2() == '/':
			l.advance()
			l.advance()
			start := l.pos
			for l.pos < len(l.src) && l.peek() != '\n' {
				l.advance()
			}
			text := strings.TrimPrefix(string(l.src[start:l.pos]), "/")
			doc = append(doc, strings.TrimSpace(text))
		case r == '/' && l.peek2() == '*':
			l.advance()
			l.advance()
			for l.pos < len(l.src) && !(l.peek() == '*' && l.peek2() == '/') {
				l.advance()
			}
			if l.pos < len(l.src) {
				l.advance()
				l.advance()
			}
		default:
			return doc
		}
	}
	return doc
}

func (l *lexer) blankLineAhead() bool {
	for i := l.pos; i < len(l.src); i++ {
		switch l.src[i] {
		case '\n':
			return true
		case ' ', '\t', '\r':
			continue
		default:
			return false
		}
	}
	return false
}

func (l *lexer) next() token {
	doc := l.skip()
	tok := token{pos: l.here(), off: l.pos, doc: doc}
	if l.pos >= len(l.src) {
		tok.typ = tEOF
		return tok
	}

	r := l.peek()
	switch {
	case r == '_' || unicode.IsLetter(r):
		start := l.pos
		for l.pos < len(l.src) && (l.peek() == '_' || unicode.IsLetter(l.peek()) || unicode.IsDigit(l.peek())) {
			l.advance()
		}
		tok.typ = tIdent
		tok.text = string(l.src[start:l.pos])
		return tok
	case unicode.IsDigit(r):
		start := l.pos
		for l.pos < len(l.src) && (l.peek() == '_' || unicode.IsLetter(l.peek()) || unicode.IsDigit(l.peek())) {
			l.advance()
		}
		tok.typ = tInt
		tok.text = string(l.src[start:l.pos])
		return tok
	}

	l.advance()
	tok.text = string(r)
	switch r {
	case ':':
		tok.typ = tColon
	case ',':
		tok.typ = tComma
	case '@':
		tok.typ = tAt
	case '|':
		tok.typ = tPipe
	case '{':
		tok.typ = tLBrace
	case '}':
		tok.typ = tRBrace
	case '(':
		tok.typ = tLParen
	case ')':
		tok.typ = tRParen
	case '.':
		if l.peek() != '.' {
			tok.typ = tIllegal
			return tok
		}
		l.advance()
		tok.typ = tDotDot
		tok.text = ".."
		if l.peek() == '=' {
			l.advance()
			tok.typ = tDotDotEq
			tok.text = "..="
		}
	case '=':
		if l.peek() == '>' {
			l.advance()
			tok.typ = tFatArrow
			tok.text = "=>"
		} else {
			tok.typ = tIllegal
		}
	case '-':
		if l.peek() == '>' {
			l.advance()
			tok.typ = tArrow
			tok.text = "->"
		} else {
			tok.typ = tIllegal
		}
	default:
		tok.typ = tIllegal
	}
	return tok
}

// rawFrom rewinds to rune offset off and returns the text up to the next ','
// or '}' outside of brackets and string literals. The terminator is not
// consumed.
func (l *lexer) rawFrom(off int, pos Pos) (string, error) {
	l.pos, l.line, l.col = off, pos.Line, pos.Col

	start := l.pos
	var stack []rune
	for l.pos < len(l.src) {
		r := l.peek()
		switch r {
		case '"', '\'':
			l.advance()
			if err := l.skipString(r, pos); err != nil {
				return "", err
			}
			continue
		case '(', '[', '{':
			stack = append(stack, r)
		case ')', ']', '}':
			if len(stack) == 0 {
				if r == '}' {
					return strings.TrimSpace(string(l.src[start:l.pos])), nil
				}
				return "", errorf(l.here(), "unbalanced %q in transform", r)
			}
			if open := stack[len(stack)-1]; !matches(open, r) {
				return "", errorf(l.here(), "mismatched %q in transform", r)
			}
			stack = stack[:len(stack)-1]
		case ',':
			if len(stack) == 0 {
				return strings.TrimSpace(string(l.src[start:l.pos])), nil
			}
		}
		l.advance()
	}
	if len(stack) > 0 {
		return "", errorf(pos, "unclosed %q in transform", stack[len(stack)-1])
	}
	return strings.TrimSpace(string(l.src[start:l.pos])), nil
}

func (l *lexer) skipString(quote rune, pos Pos) error {
	for l.pos < len(l.src) {
		r := l.advance()
		switch r {
		case '\\':
			if l.pos < len(l.src) {
				l.advance()
			}
		case quote:
			return nil
		case '\n':
			return errorf(pos, "unterminated string in transform")
		}
	}
	return errorf(pos, "unterminated string in transform")
}

func matches(open, close rune) bool {
	switch open {
	case '(':
		return close == ')'
	case '[':
		return close == ']'
	case '{':
		return close == '}'
	}
	return false
}

// unwrapBraces strips one pair of braces enclosing the whole of s.
func unwrapBraces(s string) string {
	if !strings.HasPrefix(s, "{") || !strings.HasSuffix(s, "}") {
		return s
	}
	depth := 0
	for i, r := range s {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 && i != len(s)-1 {
				return s
			}
		}
	}
	return strings.TrimSpace(s[1 : len(s)-1])
}
