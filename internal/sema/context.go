// Package sema implements semantic analysis for Crema programs: name
// resolution, type checking under the upcast order, and the
// non-Turing-complete guarantees (no recursion).
package sema

import (
	"fmt"

	"github.com/ainfosec/crema/internal/ast"
	"github.com/ainfosec/crema/internal/types"
)

// Context carries the symbol state threaded through analysis: a stack
// of lexical scopes with a parallel stack of expected return types,
// plus the program-wide function and struct tables. Functions and
// structs share the variable namespace: a name declared as one kind
// cannot be redeclared as another anywhere in the program.
type Context struct {
	scopes  []*types.Scope
	rets    []types.Type
	funcs   map[string]*ast.FuncDecl
	structs map[string]*ast.StructDecl
}

// NewContext creates a context holding the top-level scope. The
// top-level block behaves like the body of an int-returning function:
// a bare `return n` at the top level is the program's exit status.
func NewContext() *Context {
	return &Context{
		scopes:  []*types.Scope{types.NewScope(nil, "top-level")},
		rets:    []types.Type{types.Typ[types.Int]},
		funcs:   make(map[string]*ast.FuncDecl),
		structs: make(map[string]*ast.StructDecl),
	}
}

// PushScope enters a new scope frame expecting the given return type.
func (c *Context) PushScope(ret types.Type, comment string) {
	c.scopes = append(c.scopes, types.NewScope(c.CurrentScope(), comment))
	c.rets = append(c.rets, ret)
}

// PopScope leaves the innermost scope frame.
func (c *Context) PopScope() {
	if len(c.scopes) == 1 {
		panic("sema: popping the top-level scope")
	}
	c.scopes = c.scopes[:len(c.scopes)-1]
	c.rets = c.rets[:len(c.rets)-1]
}

// CurrentScope returns the innermost scope frame.
func (c *Context) CurrentScope() *types.Scope {
	return c.scopes[len(c.scopes)-1]
}

// ReturnType returns the expected return type of the innermost frame.
func (c *Context) ReturnType() types.Type {
	return c.rets[len(c.rets)-1]
}

// AtTopLevel reports whether the innermost frame is the top-level
// program scope. Variables declared there get module storage.
func (c *Context) AtTopLevel() bool {
	return len(c.scopes) == 1
}

// DeclareVar declares a variable in the innermost scope. It fails if
// the name is taken by a function or struct, or already declared in
// the same frame. Shadowing an outer frame's variable is allowed.
func (c *Context) DeclareVar(name string, typ types.Type) (*types.Var, error) {
	if _, ok := c.funcs[name]; ok {
		return nil, fmt.Errorf("%s redeclared: already a function", name)
	}
	if _, ok := c.structs[name]; ok {
		return nil, fmt.Errorf("%s redeclared: already a struct", name)
	}
	v := types.NewVar(name, typ)
	if c.AtTopLevel() {
		v.MarkGlobal()
	}
	if existing := c.CurrentScope().Insert(v); existing != nil {
		return nil, fmt.Errorf("%s redeclared in this scope", name)
	}
	return v, nil
}

// LookupVar resolves a variable name from the innermost scope outward.
func (c *Context) LookupVar(name string) *types.Var {
	v, _ := c.CurrentScope().LookupParent(name)
	return v
}

// DeclareFunc registers a function declaration in the program-wide
// table. It fails on duplicate functions and cross-namespace clashes.
func (c *Context) DeclareFunc(d *ast.FuncDecl) error {
	name := d.Name.Value
	if _, ok := c.funcs[name]; ok {
		return fmt.Errorf("function %s redeclared", name)
	}
	if _, ok := c.structs[name]; ok {
		return fmt.Errorf("%s redeclared: already a struct", name)
	}
	if v, _ := c.CurrentScope().LookupParent(name); v != nil {
		return fmt.Errorf("%s redeclared: already a variable", name)
	}
	c.funcs[name] = d
	return nil
}

// LookupFunc returns the declaration of the named function, or nil.
func (c *Context) LookupFunc(name string) *ast.FuncDecl {
	return c.funcs[name]
}

// DeclareStruct registers a struct declaration in the program-wide
// table. It fails on duplicate structs and cross-namespace clashes.
func (c *Context) DeclareStruct(d *ast.StructDecl) error {
	name := d.Name.Value
	if _, ok := c.structs[name]; ok {
		return fmt.Errorf("struct %s redeclared", name)
	}
	if _, ok := c.funcs[name]; ok {
		return fmt.Errorf("%s redeclared: already a function", name)
	}
	if v, _ := c.CurrentScope().LookupParent(name); v != nil {
		return fmt.Errorf("%s redeclared: already a variable", name)
	}
	c.structs[name] = d
	return nil
}

// LookupStruct returns the declaration of the named struct, or nil.
func (c *Context) LookupStruct(name string) *ast.StructDecl {
	return c.structs[name]
}

// Funcs returns the program-wide function table.
func (c *Context) Funcs() map[string]*ast.FuncDecl {
	return c.funcs
}

// Structs returns the program-wide struct table.
func (c *Context) Structs() map[string]*ast.StructDecl {
	return c.structs
}
