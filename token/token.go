// Package token tokenizes KDL source text.
package token

import "fmt"

type Type int

const (
	TEOF Type = iota
	TNewline
	TSemi
	TLCurl
	TRCurl
	TEq
	TBare    // bare identifier string
	TString  // quoted string, Value holds the unescaped text
	TNumber  // integer or float literal, Bytes holds the raw text
	TKeyword // #true #false #null #inf #-inf #nan
)

func (t Type) String() string {
	s, ok := map[Type]string{
		TEOF:     "eof",
		TNewline: "newline",
		TSemi:    "semicolon",
		TLCurl:   "lcurl",
		TRCurl:   "rcurl",
		TEq:      "equals",
		TBare:    "bare",
		TString:  "string",
		TNumber:  "number",
		TKeyword: "keyword",
	}[t]
	if ok {
		return s
	}
	return "<unknown token type>"
}

// Pos is a position in the source text, 1-based line and column.
type Pos struct {
	Line, Col int
	Offset    int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

type Token struct {
	Type  Type
	Bytes []byte // raw source bytes
	Value string // unescaped text for TString
	Pos   Pos
}
