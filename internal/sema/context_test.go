package sema

import (
	"testing"

	"github.com/ainfosec/crema/internal/ast"
	"github.com/ainfosec/crema/internal/types"
)

func TestContextScopeStack(t *testing.T) {
	ctx := NewContext()

	if !ctx.AtTopLevel() {
		t.Error("AtTopLevel() = false for fresh context")
	}
	if got := ctx.ReturnType(); got.Code() != types.Int {
		t.Errorf("top-level ReturnType() = %s, want int", got)
	}

	ctx.PushScope(types.Typ[types.Double], "function f")
	if ctx.AtTopLevel() {
		t.Error("AtTopLevel() = true inside function scope")
	}
	if got := ctx.ReturnType(); got.Code() != types.Double {
		t.Errorf("ReturnType() = %s, want double", got)
	}

	// Nested frames inherit nothing implicitly; the pushed value rules.
	ctx.PushScope(ctx.ReturnType(), "if body")
	if got := ctx.ReturnType(); got.Code() != types.Double {
		t.Errorf("nested ReturnType() = %s, want double", got)
	}

	ctx.PopScope()
	ctx.PopScope()
	if !ctx.AtTopLevel() {
		t.Error("AtTopLevel() = false after popping back to the root")
	}
}

func TestContextPopRootPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("PopScope() on the root scope did not panic")
		}
	}()
	NewContext().PopScope()
}

func TestDeclareVar(t *testing.T) {
	ctx := NewContext()

	v, err := ctx.DeclareVar("x", types.Typ[types.Int])
	if err != nil {
		t.Fatalf("DeclareVar(x) failed: %v", err)
	}
	if !v.IsGlobal() {
		t.Error("top-level variable not marked global")
	}

	// Redeclaration in the same frame fails.
	if _, err := ctx.DeclareVar("x", types.Typ[types.Double]); err == nil {
		t.Error("redeclaring x in the same frame succeeded")
	}

	// Shadowing in an inner frame is allowed, and the shadow is local.
	ctx.PushScope(types.Typ[types.Void], "function f")
	inner, err := ctx.DeclareVar("x", types.Typ[types.Double])
	if err != nil {
		t.Fatalf("shadowing x failed: %v", err)
	}
	if inner.IsGlobal() {
		t.Error("function-scope variable marked global")
	}
	if got := ctx.LookupVar("x"); got != inner {
		t.Error("LookupVar(x) did not resolve to the shadowing variable")
	}
	ctx.PopScope()

	if got := ctx.LookupVar("x"); got != v {
		t.Error("LookupVar(x) did not resolve to the outer variable after pop")
	}
}

func TestCrossNamespaceClashes(t *testing.T) {
	ctx := NewContext()

	fn := &ast.FuncDecl{Result: types.Typ[types.Void], Name: &ast.Ident{Value: "f"}}
	if err := ctx.DeclareFunc(fn); err != nil {
		t.Fatalf("DeclareFunc(f) failed: %v", err)
	}
	st := &ast.StructDecl{Name: &ast.Ident{Value: "Point"}}
	if err := ctx.DeclareStruct(st); err != nil {
		t.Fatalf("DeclareStruct(Point) failed: %v", err)
	}

	// A name can belong to only one of the three kinds.
	if _, err := ctx.DeclareVar("f", types.Typ[types.Int]); err == nil {
		t.Error("declaring variable f over function f succeeded")
	}
	if _, err := ctx.DeclareVar("Point", types.Typ[types.Int]); err == nil {
		t.Error("declaring variable Point over struct Point succeeded")
	}
	if err := ctx.DeclareStruct(&ast.StructDecl{Name: &ast.Ident{Value: "f"}}); err == nil {
		t.Error("declaring struct f over function f succeeded")
	}
	if err := ctx.DeclareFunc(&ast.FuncDecl{Name: &ast.Ident{Value: "Point"}}); err == nil {
		t.Error("declaring function Point over struct Point succeeded")
	}

	// Variables block later functions and structs too.
	if _, err := ctx.DeclareVar("x", types.Typ[types.Int]); err != nil {
		t.Fatalf("DeclareVar(x) failed: %v", err)
	}
	if err := ctx.DeclareFunc(&ast.FuncDecl{Name: &ast.Ident{Value: "x"}}); err == nil {
		t.Error("declaring function x over variable x succeeded")
	}
}

func TestLookupTables(t *testing.T) {
	ctx := NewContext()

	fn := &ast.FuncDecl{Result: types.Typ[types.Int], Name: &ast.Ident{Value: "f"}}
	if err := ctx.DeclareFunc(fn); err != nil {
		t.Fatal(err)
	}
	if got := ctx.LookupFunc("f"); got != fn {
		t.Error("LookupFunc(f) did not return the declaration")
	}
	if got := ctx.LookupFunc("g"); got != nil {
		t.Error("LookupFunc(g) returned a declaration for an unknown name")
	}

	st := &ast.StructDecl{Name: &ast.Ident{Value: "Point"}}
	if err := ctx.DeclareStruct(st); err != nil {
		t.Fatal(err)
	}
	if got := ctx.LookupStruct("Point"); got != st {
		t.Error("LookupStruct(Point) did not return the declaration")
	}
}
