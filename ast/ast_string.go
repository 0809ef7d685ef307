package ast

import (
	"fmt"
	"strings"
)

func (k IntrinsicKind) String() string {
	switch k {
	case Print:
		return "Print"
	case PrintNum:
		return "PrintNum"
	}
	return fmt.Sprintf("IntrinsicKind(%d)", int(k))
}

func exprToString(e Expression) string {
	switch v := e.(type) {
	case Funcall:
		var args []string
		for _, arg := range v.Arguments {
			args = append(args, exprToString(arg))
		}
		return fmt.Sprintf("%s(%s)", v.Name, strings.Join(args, ", "))
	case StrLit:
		return fmt.Sprintf("str_%d[%d]", v.Index, v.Length)
	case Var:
		return string(v)
	case Intrinsic:
		return "<" + v.Kind.String() + ">"
	}

	panic("unhandled")
}

func (f Function) String() string {
	var body []string
	for _, e := range f.Body {
		body = append(body, exprToString(e))
	}
	return fmt.Sprintf("fn %s() { %s }", f.Name, strings.Join(body, "; "))
}
