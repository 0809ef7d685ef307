package parser

import (
	"github.com/pontaoski/prlc/ast"
	"github.com/pontaoski/prlc/errors"
	"github.com/pontaoski/prlc/lexer"
	"github.com/pontaoski/prlc/types"
	"github.com/ztrue/tracerr"
)

type Parser struct {
	l    *lexer.Lexer
	prog ast.Program
}

// NewParser returns a parser whose function list already holds the library
// intrinsics.
func NewParser(l *lexer.Lexer) *Parser {
	return &Parser{
		l: l,
		prog: ast.Program{
			Functions: ast.Library(),
			Data:      &ast.Data{},
		},
	}
}

// Parse consumes the whole token stream. The first failure aborts parsing and
// is returned wrapped with a stack trace.
func (p *Parser) Parse() (prog *ast.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(error)
			if ok {
				prog = nil
				err = tracerr.Wrap(rerr)
			} else {
				panic(r)
			}
		}
	}()
	for {
		tok, _ := p.l.Lex()

		switch tok.Kind {
		case types.EOF:
			return &p.prog, nil
		case types.FN:
			p.prog.Functions = append(p.prog.Functions, p.parseFunction())
		case types.LET:
			tok, name := p.l.LexExpecting(types.IDENT)
			if p.prog.Data.IsGlobalDeclared(name) {
				panic(errors.Redefinition{Name: name, Location: tok.Location})
			}
			p.prog.Data.DeclareGlobal(name)
		case types.EOS:
		default:
			panic(errors.SyntaxError{
				Msg:      "Not allowed outside function definition",
				Location: tok.Location,
			})
		}
	}
}

// parseFunction should be called when the parser is past the fn keyword.
func (p *Parser) parseFunction() ast.Function {
	tok, name := p.l.LexExpecting(types.IDENT)
	if ast.IsReservedLabel(name) {
		panic(errors.Redefinition{Name: name, Reserved: true, Location: tok.Location})
	}
	if _, ok := p.prog.Lookup(name); ok {
		panic(errors.Redefinition{
			Name:     name,
			Library:  ast.IsLibrary(name),
			Location: tok.Location,
		})
	}

	p.l.LexExpecting(types.LPAREN)
	p.l.LexExpecting(types.RPAREN)
	p.l.LexExpecting(types.LBRACKET)

	fn := ast.Function{Name: name}
	for {
		tok, lit := p.l.Lex()

		switch tok.Kind {
		case types.IDENT:
			p.l.LexExpecting(types.LPAREN)
			fn.Body = append(fn.Body, ast.Funcall{
				Name:      lit,
				Arguments: p.parseArguments(),
			})
		case types.EOS:
		case types.RBRACKET:
			return fn
		case types.EOF:
			panic(errors.UnexpectedEOF{
				Expected: []types.TokenKind{types.RBRACKET},
				Location: tok.Location,
			})
		default:
			panic(errors.ExpectedOneOfKindGotKind{
				Expected: []types.TokenKind{types.RBRACKET},
				Got:      tok.Kind,
				Lit:      lit,
				Location: tok.Location,
			})
		}
	}
}

// parseArguments should be called when the parser is past the opening paren.
func (p *Parser) parseArguments() []ast.Expression {
	var args []ast.Expression

	for {
		tok, lit := p.l.Lex()

		switch tok.Kind {
		case types.STRING:
			args = append(args, ast.StrLit{
				Index:  p.prog.Data.ReserveString(lit),
				Length: len(lit),
			})
		case types.IDENT:
			if !p.prog.Data.IsGlobalDeclared(lit) {
				loc := tok.Location
				panic(errors.UndefinedName{Name: lit, Location: &loc})
			}
			args = append(args, ast.Var(lit))
		case types.RPAREN:
			return args
		case types.COMMA:
		case types.EOF:
			panic(errors.UnexpectedEOF{
				Expected: []types.TokenKind{types.RPAREN},
				Location: tok.Location,
			})
		default:
			panic(errors.ExpectedOneOfKindGotKind{
				Expected: []types.TokenKind{types.RPAREN},
				Got:      tok.Kind,
				Lit:      lit,
				Location: tok.Location,
			})
		}
	}
}
