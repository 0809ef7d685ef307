package codegen

import (
	_ "embed"

	"github.com/pontaoski/prlc/ast"
)

// printNum formats the value on top of the evaluation stack as unsigned
// decimal into __stringspace and writes it to stdout.
//
//go:embed print_num.asm
var printNum string

// printStr pops the string address and then its length, writes the bytes to
// stdout and puts the return address back.
var printStr = []string{
	"mov rax, 1",
	"mov rdi, 1",
	"pop r8",
	"pop rsi",
	"pop rdx",
	"syscall",
	"push r8",
}

func addIntrinsic(c *ctx, kind ast.IntrinsicKind) {
	switch kind {
	case ast.Print:
		for _, ins := range printStr {
			c.ins("%s", ins)
		}
	case ast.PrintNum:
		c.raw(printNum)
	default:
		panic("unhandled intrinsic")
	}
}
