package types

import (
	"fmt"
)

type Position struct {
	Line     int
	Column   int
	Filename string
}

type Span struct {
	From Position
	To   Position
}

type TokenKind int

const (
	EOF TokenKind = iota
	ILLEGAL

	LPAREN
	RPAREN
	LBRACKET
	RBRACKET
	COMMA
	EOS

	IDENT
	STRING

	FN
	LET
)

func (t TokenKind) String() string {
	data := map[TokenKind]string{
		EOF:      "EOF",
		ILLEGAL:  "ILLEGAL",
		LPAREN:   "LPAREN",
		RPAREN:   "RPAREN",
		LBRACKET: "LBRACKET",
		RBRACKET: "RBRACKET",
		COMMA:    "COMMA",
		EOS:      "EOS",
		IDENT:    "IDENT",
		STRING:   "STRING",
		FN:       "FN",
		LET:      "LET",
	}
	return data[t]
}

// Keywords maps reserved words to their token kinds.
var Keywords = map[string]TokenKind{
	"fn":  FN,
	"let": LET,
}

func (p Position) String() string {
	if p.Filename == "" {
		p.Filename = "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

func (s Span) String() string {
	return fmt.Sprintf("%s-%d:%d", s.From, s.To.Line, s.To.Column)
}

func SingleCharSpan(p Position) Span {
	return Span{p, p}
}

// Token is a classified lexical unit. The literal text travels next to it,
// see lexer.Lexer.Lex.
type Token struct {
	Kind     TokenKind
	Location Span
}
