package codegen

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pontaoski/prlc/ast"
	"github.com/pontaoski/prlc/errors"
	"github.com/ztrue/tracerr"
)

// EntryPoint is the function _start calls before exiting with status 0.
const EntryPoint = "main"

type ctx struct {
	w    *bufio.Writer
	prog *ast.Program
}

func (c *ctx) line(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(c.w, format+"\n", args...); err != nil {
		panic(errors.IOError{Err: err})
	}
}

func (c *ctx) ins(format string, args ...interface{}) {
	c.line("    "+format, args...)
}

func (c *ctx) raw(text string) {
	if _, err := io.WriteString(c.w, text); err != nil {
		panic(errors.IOError{Err: err})
	}
	if !strings.HasSuffix(text, "\n") {
		c.line("")
	}
}

func (c *ctx) lookup(name string) ast.Function {
	fn, ok := c.prog.Lookup(name)
	if !ok {
		panic(errors.UndefinedName{Name: name})
	}
	return fn
}

func codegenExpression(c *ctx, e ast.Expression) {
	switch expr := e.(type) {
	case ast.Funcall:
		fn := c.lookup(expr.Name)
		for _, arg := range expr.Arguments {
			codegenExpression(c, arg)
		}
		c.ins("call %s", fn.Name)
	case ast.StrLit:
		c.ins("push %d", expr.Length)
		c.ins("push %s", ast.StringLabel(expr.Index))
	case ast.Var:
		c.ins("mov eax, [%s]", ast.GlobalLabel(string(expr)))
		c.ins("push rax")
	case ast.Intrinsic:
		addIntrinsic(c, expr.Kind)
	default:
		panic("unhandled")
	}
}

func codegenFunction(c *ctx, fn ast.Function) {
	c.line("%s:", fn.Name)
	for _, e := range fn.Body {
		codegenExpression(c, e)
	}
	c.ins("ret")
}

func codegenData(c *ctx) {
	c.line("section .data")
	for idx, s := range c.prog.Data.Strings {
		if len(s) == 0 {
			c.line("%s:", ast.StringLabel(idx))
			continue
		}

		bytes := make([]string, 0, len(s))
		for _, b := range []byte(s) {
			bytes = append(bytes, strconv.Itoa(int(b)))
		}
		c.line("%s: db %s", ast.StringLabel(idx), strings.Join(bytes, ","))
	}

	c.line("section .bss")
	for _, name := range c.prog.Data.Globals {
		c.line("%s: resd 1", ast.GlobalLabel(name))
	}
	c.line("%s: resb 10", ast.ScratchLabel)
}

// Generate writes prog as a NASM x86-64 translation unit for Linux. An
// unresolved callee aborts generation with a name error; whatever was
// written up to that point is incomplete.
func Generate(w io.Writer, prog *ast.Program) (err error) {
	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(error)
			if ok {
				err = tracerr.Wrap(rerr)
			} else {
				panic(r)
			}
		}
	}()

	c := &ctx{
		w:    bufio.NewWriter(w),
		prog: prog,
	}

	entry := c.lookup(EntryPoint)

	c.line("BITS 64")
	c.line("global %s", ast.StartLabel)
	c.line("section .text")
	c.line("%s:", ast.StartLabel)
	c.ins("call %s", entry.Name)
	c.line("%s:", ast.ExitLabel)
	c.ins("mov rdi, 0")
	c.ins("mov rax, 60")
	c.ins("syscall")

	for _, fn := range prog.Functions {
		codegenFunction(c, fn)
	}

	codegenData(c)

	if err := c.w.Flush(); err != nil {
		return tracerr.Wrap(errors.IOError{Err: err})
	}
	return nil
}
