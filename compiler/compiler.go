package compiler

import (
	"bytes"
	"io/ioutil"
	"os"

	"github.com/alecthomas/repr"
	"github.com/coreos/pkg/capnslog"
	"github.com/pontaoski/prlc/ast"
	"github.com/pontaoski/prlc/codegen"
	"github.com/pontaoski/prlc/config"
	"github.com/pontaoski/prlc/errors"
	"github.com/pontaoski/prlc/lexer"
	"github.com/pontaoski/prlc/parser"
	"github.com/ztrue/tracerr"
)

var plog = capnslog.NewPackageLogger("github.com/pontaoski/prlc", "compiler")

// Builder turns a written assembly file into an executable.
type Builder interface {
	Build(asmPath, output string) error
}

// AsmPath is where the assembly for output is written.
func AsmPath(output string) string {
	return output + ".asm"
}

// Parse reads and parses the input file.
func Parse(path string) (*ast.Program, error) {
	contents, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, tracerr.Wrap(errors.IOError{Err: err})
	}

	return parser.NewParser(lexer.NewLexer(bytes.NewReader(contents), path)).Parse()
}

// Compile runs the whole pipeline for cfg. The first failure stops it and is
// returned unchanged.
func Compile(cfg config.Config, b Builder) error {
	if err := cfg.Resolve(); err != nil {
		return err
	}

	prog, err := Parse(cfg.Input)
	if err != nil {
		return err
	}

	if cfg.PrintAST {
		plog.Infof("AST: %s", repr.String(prog.Functions, repr.Indent("  "), repr.OmitEmpty(false)))
		plog.Infof("Data: %s", repr.String(prog.Data, repr.Indent("  "), repr.OmitEmpty(false)))
	}
	for _, fn := range prog.Functions {
		plog.Debugf("%s", fn)
	}

	asmPath := AsmPath(cfg.Output)
	if err := writeAsm(asmPath, prog); err != nil {
		return err
	}

	if cfg.AsmOnly {
		plog.Infof("Wrote %s", asmPath)
		return nil
	}

	return b.Build(asmPath, cfg.Output)
}

// writeAsm flushes and closes the file before returning. A failed generation
// leaves no file behind.
func writeAsm(path string, prog *ast.Program) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return tracerr.Wrap(errors.IOError{Err: err})
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = tracerr.Wrap(errors.IOError{Err: cerr})
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	return codegen.Generate(f, prog)
}
