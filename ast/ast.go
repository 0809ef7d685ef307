package ast

import (
	"strconv"
	"strings"
)

// Labels the code generator emits next to function names.
const (
	StartLabel   = "_start"
	ExitLabel    = "exit"
	ScratchLabel = "__stringspace"

	stringPrefix = "str_"
	globalPrefix = "global_var_"
)

func StringLabel(idx int) string {
	return stringPrefix + strconv.Itoa(idx)
}

func GlobalLabel(name string) string {
	return globalPrefix + name
}

// IsReservedLabel reports whether a function called name would clash with a
// label the code generator emits on its own.
func IsReservedLabel(name string) bool {
	switch name {
	case StartLabel, ExitLabel, ScratchLabel:
		return true
	}
	if strings.HasPrefix(name, globalPrefix) {
		return true
	}
	if digits := strings.TrimPrefix(name, stringPrefix); digits != name && digits != "" {
		_, err := strconv.Atoi(digits)
		return err == nil
	}
	return false
}

type Expression interface {
	is_Expression()
}

// Funcall is resolved against the function list during code generation.
type Funcall struct {
	Name      string
	Arguments []Expression
}

func (v Funcall) is_Expression() {}

// StrLit refers to Data.Strings[Index].
type StrLit struct {
	Index  int
	Length int
}

func (v StrLit) is_Expression() {}

type Var string

func (v Var) is_Expression() {}

type IntrinsicKind int

const (
	Print IntrinsicKind = iota
	PrintNum
)

type Intrinsic struct {
	Kind IntrinsicKind
}

func (v Intrinsic) is_Expression() {}

type Function struct {
	Name string
	Body []Expression
}

// Data is the string pool and global table shared by every function of a
// compilation unit. Both only grow.
type Data struct {
	Strings []string
	Globals []string
}

// ReserveString appends s to the pool and returns its index.
func (d *Data) ReserveString(s string) int {
	d.Strings = append(d.Strings, s)
	return len(d.Strings) - 1
}

func (d *Data) DeclareGlobal(name string) {
	d.Globals = append(d.Globals, name)
}

func (d *Data) IsGlobalDeclared(name string) bool {
	for _, g := range d.Globals {
		if g == name {
			return true
		}
	}
	return false
}

type Program struct {
	Functions []Function
	Data      *Data
}

// Lookup finds the first function called name.
func (p *Program) Lookup(name string) (Function, bool) {
	for _, fn := range p.Functions {
		if fn.Name == name {
			return fn, true
		}
	}
	return Function{}, false
}

// Library returns the intrinsic functions every program starts with.
func Library() []Function {
	return []Function{
		{Name: "print", Body: []Expression{Intrinsic{Print}}},
		{Name: "print_num", Body: []Expression{Intrinsic{PrintNum}}},
	}
}

func IsLibrary(name string) bool {
	for _, fn := range Library() {
		if fn.Name == name {
			return true
		}
	}
	return false
}
