package lexer

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	"github.com/pontaoski/prlc/errors"
	"github.com/pontaoski/prlc/types"
	"github.com/ztrue/tracerr"
)

// Lexer turns source text into located tokens. Failures are raised as panics
// carrying a value from package errors; Tokenize and parser.Parser.Parse
// recover them.
type Lexer struct {
	pos    types.Position
	reader *bufio.Reader
}

func NewLexer(reader io.Reader, filename string) *Lexer {
	return &Lexer{
		pos:    types.Position{Line: 1, Column: 0, Filename: filename},
		reader: bufio.NewReader(reader),
	}
}

func (l *Lexer) newline() {
	l.pos.Line++
	l.pos.Column = 0
}

func (l *Lexer) backup() {
	if err := l.reader.UnreadRune(); err != nil {
		panic(errors.IOError{Err: err})
	}

	l.pos.Column--
}

// read returns the next rune, or ok == false at end of input.
func (l *Lexer) read() (r rune, ok bool) {
	r, _, err := l.reader.ReadRune()
	if err != nil {
		if err == io.EOF {
			return 0, false
		}
		panic(errors.IOError{Err: err})
	}

	l.pos.Column++
	return r, true
}

func (l *Lexer) kinded(t types.TokenKind) types.Token {
	return types.Token{
		Location: types.SingleCharSpan(l.pos),
		Kind:     t,
	}
}

func firstChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func otherChar(r rune) bool {
	return firstChar(r) || unicode.IsDigit(r)
}

// lexIdent expects the reader to be positioned on the first character.
func (l *Lexer) lexIdent() (types.Position, types.Position, string) {
	var lit strings.Builder

	r, _ := l.read()
	from := l.pos
	to := l.pos
	lit.WriteRune(r)

	for {
		r, ok := l.read()
		if !ok {
			return from, to, lit.String()
		}

		if !otherChar(r) {
			l.backup()
			return from, to, lit.String()
		}

		lit.WriteRune(r)
		to = l.pos
	}
}

// lexString expects the opening quote to be consumed already.
func (l *Lexer) lexString() (types.Position, types.Position, string) {
	var lit strings.Builder
	from := l.pos

	for {
		r, ok := l.read()
		if !ok {
			panic(errors.UnterminatedString{Location: types.Span{From: from, To: l.pos}})
		}

		switch r {
		case '"':
			return from, l.pos, lit.String()
		case '\\':
			escaped, ok := l.read()
			if !ok {
				panic(errors.InvalidEscape{AtEOF: true, Location: types.Span{From: from, To: l.pos}})
			}
			switch escaped {
			case 'n':
				lit.WriteRune('\n')
			default:
				panic(errors.InvalidEscape{Char: escaped, Location: types.SingleCharSpan(l.pos)})
			}
		case '\n':
			lit.WriteRune(r)
			l.newline()
		default:
			lit.WriteRune(r)
		}
	}
}

// LexExpecting pulls the next token and requires it to be one of k. Only the
// token kind is compared, never the literal.
func (l *Lexer) LexExpecting(k ...types.TokenKind) (types.Token, string) {
	token, lit := l.Lex()
	for _, kind := range k {
		if token.Kind == kind {
			return token, lit
		}
	}

	if token.Kind == types.EOF {
		panic(errors.UnexpectedEOF{
			Expected: k,
			Location: token.Location,
		})
	}

	panic(errors.ExpectedOneOfKindGotKind{
		Expected: k,
		Got:      token.Kind,
		Lit:      lit,
		Location: token.Location,
	})
}

// Lex returns the next token and its literal text. Identifiers and keywords
// carry their spelling, strings their decoded contents. At end of input it
// returns an EOF token, repeatedly.
func (l *Lexer) Lex() (types.Token, string) {
	single := map[rune]types.TokenKind{
		'(': types.LPAREN,
		')': types.RPAREN,
		'{': types.LBRACKET,
		'}': types.RBRACKET,
		',': types.COMMA,
		';': types.EOS,
	}

	for {
		r, ok := l.read()
		if !ok {
			return l.kinded(types.EOF), ""
		}

		if kind, ok := single[r]; ok {
			return l.kinded(kind), string(r)
		}

		switch {
		case r == '\n':
			l.newline()
			continue
		case unicode.IsSpace(r):
			continue
		case r == '"':
			from, to, lit := l.lexString()
			return types.Token{Kind: types.STRING, Location: types.Span{From: from, To: to}}, lit
		case firstChar(r):
			l.backup()
			from, to, lit := l.lexIdent()

			if kind, ok := types.Keywords[lit]; ok {
				return types.Token{Kind: kind, Location: types.Span{From: from, To: to}}, lit
			}

			return types.Token{Kind: types.IDENT, Location: types.Span{From: from, To: to}}, lit
		}

		panic(errors.InvalidToken{Char: r, Location: types.SingleCharSpan(l.pos)})
	}
}

// Lexeme is a token paired with its literal text.
type Lexeme struct {
	Token types.Token
	Lit   string
}

// Tokenize scans the whole input. The trailing EOF token is not included.
func Tokenize(reader io.Reader, filename string) (ret []Lexeme, err error) {
	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(error)
			if !ok {
				panic(r)
			}
			ret = nil
			err = tracerr.Wrap(rerr)
		}
	}()

	l := NewLexer(reader, filename)
	t, s := l.Lex()
	for t.Kind != types.EOF {
		ret = append(ret, Lexeme{Token: t, Lit: s})
		t, s = l.Lex()
	}
	return
}
