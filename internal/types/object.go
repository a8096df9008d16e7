package types

import "fmt"

// Var represents a declared variable. The same *Var identity is shared
// between the analyzer's annotation maps and the code generator, which
// uses it to key storage locations.
type Var struct {
	name   string
	typ    Type
	parent *Scope
	global bool // declared at the top level; lowered to module storage
}

// NewVar creates a new variable with the given name and type.
func NewVar(name string, typ Type) *Var {
	return &Var{name: name, typ: typ}
}

// Name returns the variable's declared name.
func (v *Var) Name() string { return v.name }

// Type returns the variable's declared type.
func (v *Var) Type() Type { return v.typ }

// Parent returns the scope the variable is declared in.
func (v *Var) Parent() *Scope { return v.parent }

// MarkGlobal records that the variable was declared at the top level.
func (v *Var) MarkGlobal() { v.global = true }

// IsGlobal reports whether the variable was declared at the top level.
func (v *Var) IsGlobal() bool { return v.global }

func (v *Var) String() string {
	return fmt.Sprintf("var %s %s", v.name, v.typ)
}
