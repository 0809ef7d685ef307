package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/pontaoski/prlc/types"
	"github.com/ztrue/tracerr"
)

// Kind classifies a compilation failure.
type Kind int

const (
	Unknown Kind = iota
	IO
	Syntax
	Name
	Toolchain
)

func (k Kind) String() string {
	switch k {
	case IO:
		return "io"
	case Syntax:
		return "syntax"
	case Name:
		return "name"
	case Toolchain:
		return "toolchain"
	}
	return "unknown"
}

type kinded interface {
	Kind() Kind
}

// KindOf reports the kind of the first classified error in err's chain.
func KindOf(err error) Kind {
	if err == nil {
		return Unknown
	}
	var k kinded
	if stderrors.As(tracerr.Unwrap(err), &k) {
		return k.Kind()
	}
	return Unknown
}

func describe(kind types.TokenKind, lit string) string {
	switch kind {
	case types.IDENT, types.STRING, types.ILLEGAL:
		return fmt.Sprintf("%s(%q)", kind, lit)
	}
	return kind.String()
}

func kindList(kinds []types.TokenKind) string {
	var names []string
	for _, k := range kinds {
		names = append(names, k.String())
	}
	return strings.Join(names, " or ")
}

type ExpectedOneOfKindGotKind struct {
	Expected []types.TokenKind
	Got      types.TokenKind
	Lit      string
	Location types.Span
}

func (e ExpectedOneOfKindGotKind) Error() string {
	return fmt.Sprintf("Unexpected token %s, expected %s. %s", describe(e.Got, e.Lit), kindList(e.Expected), e.Location)
}

func (e ExpectedOneOfKindGotKind) Kind() Kind { return Syntax }

// UnexpectedEOF is raised when input runs out while a token is still required.
type UnexpectedEOF struct {
	Expected []types.TokenKind
	Location types.Span
}

func (e UnexpectedEOF) Error() string {
	return fmt.Sprintf("Expected token %s, but found nothing. %s", kindList(e.Expected), e.Location)
}

func (e UnexpectedEOF) Kind() Kind { return Syntax }

type SyntaxError struct {
	Msg      string
	Location types.Span
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("Syntax error: %s. %s", e.Msg, e.Location)
}

func (e SyntaxError) Kind() Kind { return Syntax }

type InvalidToken struct {
	Char     rune
	Location types.Span
}

func (e InvalidToken) Error() string {
	return fmt.Sprintf("Syntax error: invalid token %q. %s", e.Char, e.Location)
}

func (e InvalidToken) Kind() Kind { return Syntax }

type UnterminatedString struct {
	Location types.Span
}

func (e UnterminatedString) Error() string {
	return fmt.Sprintf("Syntax error: unterminated string literal. %s", e.Location)
}

func (e UnterminatedString) Kind() Kind { return Syntax }

// InvalidEscape carries the character following the backslash; AtEOF is set
// when the backslash was the last character of the input.
type InvalidEscape struct {
	Char     rune
	AtEOF    bool
	Location types.Span
}

func (e InvalidEscape) Error() string {
	if e.AtEOF {
		return fmt.Sprintf("Syntax error: escape sequence cut off by end of input. %s", e.Location)
	}
	return fmt.Sprintf("Syntax error: unknown escape sequence \\%c. %s", e.Char, e.Location)
}

func (e InvalidEscape) Kind() Kind { return Syntax }

// UndefinedName is a reference to a global or function that was never declared.
// Location is nil for names resolved at code generation time.
type UndefinedName struct {
	Name     string
	Location *types.Span
}

func (e UndefinedName) Error() string {
	if e.Location == nil {
		return fmt.Sprintf("NameErr: `%s` not defined", e.Name)
	}
	return fmt.Sprintf("NameErr: `%s` not defined. %s", e.Name, e.Location)
}

func (e UndefinedName) Kind() Kind { return Name }

// Redefinition is a second declaration of a function or global name, or a
// function named like a label the code generator reserves.
type Redefinition struct {
	Name     string
	Library  bool
	Reserved bool
	Location types.Span
}

func (e Redefinition) Error() string {
	if e.Reserved {
		return fmt.Sprintf("NameErr: `%s` is reserved by the code generator. %s", e.Name, e.Location)
	}
	if e.Library {
		return fmt.Sprintf("NameErr: `%s` is a library function and cannot be redefined. %s", e.Name, e.Location)
	}
	return fmt.Sprintf("NameErr: `%s` already defined. %s", e.Name, e.Location)
}

func (e Redefinition) Kind() Kind { return Name }

type IOError struct {
	Err error
}

func (e IOError) Error() string {
	return fmt.Sprintf("IO error: %s", e.Err)
}

func (e IOError) Unwrap() error { return e.Err }

func (e IOError) Kind() Kind { return IO }

// Stage names the external tool step that failed.
type Stage int

const (
	Assemble Stage = iota
	Link
)

type ToolchainFailure struct {
	Stage Stage
	Tool  string
	Err   error
}

func (e ToolchainFailure) Error() string {
	switch e.Stage {
	case Assemble:
		return fmt.Sprintf("Assembly error: assembly failed: %s: %s", e.Tool, e.Err)
	default:
		return fmt.Sprintf("Linking error: linking failed: %s: %s", e.Tool, e.Err)
	}
}

func (e ToolchainFailure) Unwrap() error { return e.Err }

func (e ToolchainFailure) Kind() Kind { return Toolchain }
