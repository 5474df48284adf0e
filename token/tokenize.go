package token

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

var ErrTokenize = errors.New("tokenize error")

type lexer struct {
	d    []byte
	i    int
	line int
	col  int
	toks []Token
}

// Tokenize splits KDL source into tokens. Line (//) and block (/* */)
// comments are dropped; a line comment still terminates its line. dst
// may be nil or a slice to append to.
func Tokenize(dst []Token, d []byte) ([]Token, error) {
	lx := &lexer{d: d, line: 1, col: 1, toks: dst}
	for {
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}
		lx.toks = append(lx.toks, tok)
		if tok.Type == TEOF {
			return lx.toks, nil
		}
	}
}

func (lx *lexer) pos() Pos {
	return Pos{Line: lx.line, Col: lx.col, Offset: lx.i}
}

func (lx *lexer) errf(pos Pos, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrTokenize, pos, fmt.Sprintf(format, args...))
}

func (lx *lexer) peek() byte {
	if lx.i >= len(lx.d) {
		return 0
	}
	return lx.d[lx.i]
}

func (lx *lexer) peekAt(n int) byte {
	if lx.i+n >= len(lx.d) {
		return 0
	}
	return lx.d[lx.i+n]
}

func (lx *lexer) advance() byte {
	c := lx.d[lx.i]
	lx.i++
	if c == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}
	return c
}

func (lx *lexer) next() (Token, error) {
	for lx.i < len(lx.d) {
		c := lx.peek()
		switch {
		case c == ' ' || c == '\t' || c == '\r':
			lx.advance()
		case c == '\\':
			// line continuation
			if err := lx.continuation(); err != nil {
				return Token{}, err
			}
		case c == '/' && lx.peekAt(1) == '/':
			for lx.i < len(lx.d) && lx.peek() != '\n' {
				lx.advance()
			}
		case c == '/' && lx.peekAt(1) == '*':
			if err := lx.blockComment(); err != nil {
				return Token{}, err
			}
		default:
			goto scan
		}
	}
scan:
	pos := lx.pos()
	if lx.i >= len(lx.d) {
		return Token{Type: TEOF, Pos: pos}, nil
	}
	c := lx.peek()
	switch {
	case c == '\n':
		lx.advance()
		return Token{Type: TNewline, Bytes: lx.d[pos.Offset:lx.i], Pos: pos}, nil
	case c == ';':
		lx.advance()
		return Token{Type: TSemi, Bytes: lx.d[pos.Offset:lx.i], Pos: pos}, nil
	case c == '{':
		lx.advance()
		return Token{Type: TLCurl, Bytes: lx.d[pos.Offset:lx.i], Pos: pos}, nil
	case c == '}':
		lx.advance()
		return Token{Type: TRCurl, Bytes: lx.d[pos.Offset:lx.i], Pos: pos}, nil
	case c == '=':
		lx.advance()
		return Token{Type: TEq, Bytes: lx.d[pos.Offset:lx.i], Pos: pos}, nil
	case c == '"':
		return lx.quoted(pos)
	case c == '#':
		return lx.keyword(pos)
	case isDigit(c) || ((c == '+' || c == '-') && isDigit(lx.peekAt(1))):
		return lx.number(pos)
	case isBareStart(c):
		return lx.bare(pos)
	}
	return Token{}, lx.errf(pos, "unexpected character %q", string(rune(c)))
}

func (lx *lexer) continuation() error {
	pos := lx.pos()
	lx.advance()
	for lx.i < len(lx.d) {
		c := lx.peek()
		if c == ' ' || c == '\t' || c == '\r' {
			lx.advance()
			continue
		}
		if c == '/' && lx.peekAt(1) == '/' {
			for lx.i < len(lx.d) && lx.peek() != '\n' {
				lx.advance()
			}
			continue
		}
		if c == '\n' {
			lx.advance()
			return nil
		}
		return lx.errf(pos, "expected newline after line continuation")
	}
	return nil
}

func (lx *lexer) blockComment() error {
	pos := lx.pos()
	lx.advance() // '/'
	lx.advance() // '*'
	depth := 1
	for lx.i < len(lx.d) {
		if lx.peek() == '/' && lx.peekAt(1) == '*' {
			lx.advance()
			lx.advance()
			depth++
			continue
		}
		if lx.peek() == '*' && lx.peekAt(1) == '/' {
			lx.advance()
			lx.advance()
			depth--
			if depth == 0 {
				return nil
			}
			continue
		}
		lx.advance()
	}
	return lx.errf(pos, "unterminated block comment")
}

func (lx *lexer) quoted(pos Pos) (Token, error) {
	lx.advance() // opening quote
	var sb strings.Builder
	for lx.i < len(lx.d) {
		c := lx.peek()
		switch c {
		case '"':
			lx.advance()
			return Token{
				Type:  TString,
				Bytes: lx.d[pos.Offset:lx.i],
				Value: sb.String(),
				Pos:   pos,
			}, nil
		case '\n':
			return Token{}, lx.errf(pos, "unterminated string")
		case '\\':
			lx.advance()
			if lx.i >= len(lx.d) {
				return Token{}, lx.errf(pos, "unterminated string")
			}
			esc := lx.advance()
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case 'b':
				sb.WriteByte('\b')
			case 'f':
				sb.WriteByte('\f')
			case 's':
				sb.WriteByte(' ')
			case '\\':
				sb.WriteByte('\\')
			case '"':
				sb.WriteByte('"')
			case 'u':
				r, err := lx.unicodeEscape(pos)
				if err != nil {
					return Token{}, err
				}
				sb.WriteRune(r)
			default:
				return Token{}, lx.errf(pos, "invalid escape %q", string(rune(esc)))
			}
		default:
			lx.advance()
			sb.WriteByte(c)
		}
	}
	return Token{}, lx.errf(pos, "unterminated string")
}

func (lx *lexer) unicodeEscape(pos Pos) (rune, error) {
	if lx.peek() != '{' {
		return 0, lx.errf(pos, "expected '{' in unicode escape")
	}
	lx.advance()
	start := lx.i
	for lx.i < len(lx.d) && lx.peek() != '}' {
		lx.advance()
	}
	if lx.i >= len(lx.d) {
		return 0, lx.errf(pos, "unterminated unicode escape")
	}
	hex := string(lx.d[start:lx.i])
	lx.advance() // '}'
	if len(hex) == 0 || len(hex) > 6 {
		return 0, lx.errf(pos, "invalid unicode escape length")
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || !utf8.ValidRune(rune(n)) {
		return 0, lx.errf(pos, "invalid unicode escape %q", hex)
	}
	return rune(n), nil
}

var keywords = map[string]bool{
	"#true": true, "#false": true, "#null": true,
	"#inf": true, "#-inf": true, "#nan": true,
}

func (lx *lexer) keyword(pos Pos) (Token, error) {
	lx.advance() // '#'
	for lx.i < len(lx.d) && (isBareChar(lx.peek()) || lx.peek() == '-') {
		lx.advance()
	}
	raw := lx.d[pos.Offset:lx.i]
	if !keywords[string(raw)] {
		return Token{}, lx.errf(pos, "unrecognized keyword %q", raw)
	}
	return Token{Type: TKeyword, Bytes: raw, Pos: pos}, nil
}

func (lx *lexer) number(pos Pos) (Token, error) {
	for lx.i < len(lx.d) && isNumberChar(lx.peek()) {
		lx.advance()
	}
	return Token{Type: TNumber, Bytes: lx.d[pos.Offset:lx.i], Pos: pos}, nil
}

func (lx *lexer) bare(pos Pos) (Token, error) {
	for lx.i < len(lx.d) && isBareChar(lx.peek()) {
		lx.advance()
	}
	return Token{Type: TBare, Bytes: lx.d[pos.Offset:lx.i], Pos: pos}, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isNumberChar(c byte) bool {
	if isDigit(c) || c == '_' || c == '.' || c == '+' || c == '-' {
		return true
	}
	// bases and exponents
	switch c {
	case 'x', 'X', 'o', 'O', 'b', 'B', 'e', 'E':
		return true
	}
	// hex digits
	return (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isBareStart(c byte) bool {
	return isBareChar(c) && !isDigit(c)
}

func isBareChar(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '{', '}', '(', ')', '[', ']',
		'"', '#', ';', '=', '\\', '/', 0:
		return false
	}
	return c > 0x20
}

// IsBareString reports whether s can be written as a bare identifier
// without quoting.
func IsBareString(s string) bool {
	if s == "" {
		return false
	}
	if !isBareStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isBareChar(s[i]) {
			return false
		}
	}
	// words that would read back as something else must be quoted
	switch s {
	case "true", "false", "null", "inf", "nan":
		return false
	}
	return true
}
