// Package codegen lowers an accepted AST to the IR module form and
// emits the textual LLVM backend output. It assumes the tree passed
// semantic analysis: internal inconsistencies are bugs and panic.
package codegen

import (
	"fmt"

	"github.com/ainfosec/crema/internal/ast"
	"github.com/ainfosec/crema/internal/ir"
	"github.com/ainfosec/crema/internal/rtabi"
	"github.com/ainfosec/crema/internal/sema"
	"github.com/ainfosec/crema/internal/types"
)

// builder holds the state for lowering a program to IR.
type builder struct {
	ctx  *sema.Context
	info *sema.Info
	mod  *ir.Module

	fn *ir.Func  // current IR function
	b  *ir.Block // current block (nil = unreachable)

	vars    map[*types.Var]*ir.Value  // local variable → alloca
	globals map[*types.Var]*ir.Global // top-level variable → module global
}

// Generate lowers the accepted program rooted at root to an IR module.
// The top-level block becomes the body of the entry function, which
// receives the program arguments and hands them to the runtime before
// any user code runs.
func Generate(root *ast.Block, ctx *sema.Context, info *sema.Info) *ir.Module {
	g := &builder{
		ctx:     ctx,
		info:    info,
		mod:     ir.NewModule("main"),
		globals: make(map[*types.Var]*ir.Global),
	}

	g.collectStructs(root)

	params := []ir.Param{
		{Name: "argc", Type: types.Typ[types.Int]},
		{Name: "argv", Type: types.Typ[types.String]},
	}
	main := ir.NewFunc(rtabi.EntryName, params, types.Typ[types.Int])
	g.mod.Funcs = append(g.mod.Funcs, main)
	g.fn = main
	g.b = main.Entry
	g.vars = make(map[*types.Var]*ir.Value)

	// Entry prologue: hand the program arguments to the runtime.
	argc := main.NewValue(main.Entry, ir.OpArg, types.Typ[types.Int])
	argc.Aux = "argc"
	argv := main.NewValue(main.Entry, ir.OpArg, types.Typ[types.String])
	argv.AuxInt = 1
	argv.Aux = "argv"
	g.call(rtabi.FnSaveArgs, types.Typ[types.Void], argc, argv)

	g.stmts(root.Stmts)

	// Default exit status when the top level falls off the end.
	if g.b != nil && g.b.Kind == ir.BlockPlain && len(g.b.Succs) == 0 {
		zero := g.fn.NewValue(g.b, ir.OpConstInt, types.Typ[types.Int])
		g.b.Kind = ir.BlockReturn
		g.b.SetControl(zero)
	}

	return g.mod
}

// collectStructs registers every struct declaration in the module, in
// declaration order.
func (g *builder) collectStructs(root *ast.Block) {
	ast.Inspect(root, func(n ast.Node) bool {
		sd, ok := n.(*ast.StructDecl)
		if !ok {
			return true
		}
		def := &ir.StructDef{Name: sd.Name.Value}
		for _, m := range sd.Members {
			def.Members = append(def.Members, m.Name.Value)
			def.Fields = append(def.Fields, m.DeclType)
		}
		g.mod.Structs = append(g.mod.Structs, def)
		return true
	})
}

// call emits a direct call to a runtime or user function.
func (g *builder) call(name string, result types.Type, args ...*ir.Value) *ir.Value {
	typ := result
	if result.Code() == types.Void {
		typ = types.Typ[types.Invalid]
	}
	v := g.fn.NewValue(g.b, ir.OpCall, typ, args...)
	v.Aux = name
	return v
}

// entryAlloca creates a stack slot in the entry block.
func (g *builder) entryAlloca(typ types.Type, name string) *ir.Value {
	alloca := g.fn.NewValue(g.fn.Entry, ir.OpAlloca, typ)
	alloca.Aux = name
	return alloca
}

// sizeOf returns the byte size of t, resolving struct layouts through
// the struct table.
func (g *builder) sizeOf(t types.Type) int64 {
	if t.IsStruct() {
		sd := g.ctx.LookupStruct(t.StructName())
		if sd == nil {
			panic(fmt.Sprintf("codegen: undefined struct %s", t.StructName()))
		}
		members := make([]types.Type, len(sd.Members))
		for i, m := range sd.Members {
			members[i] = m.DeclType
		}
		size, _ := types.LayoutOf(members)
		return size
	}
	return types.SizeOf(t)
}

// stmts lowers a list of statements.
func (g *builder) stmts(list []ast.Stmt) {
	for _, s := range list {
		if g.b == nil {
			// Unreachable code after a return.
			break
		}
		g.stmt(s)
	}
}

// stmt dispatches a statement to the appropriate lowering method.
func (g *builder) stmt(s ast.Stmt) {
	if g.b == nil {
		return
	}
	switch s := s.(type) {
	case *ast.Block:
		g.stmts(s.Stmts)

	case *ast.VarDecl:
		g.varDecl(s)

	case *ast.FuncDecl:
		g.funcDecl(s)

	case *ast.StructDecl:
		// Layout was collected up front; nothing to execute.

	case *ast.AssignStmt:
		g.assignStmt(s)

	case *ast.IfStmt:
		g.ifStmt(s)

	case *ast.LoopStmt:
		g.loopStmt(s)

	case *ast.ReturnStmt:
		g.returnStmt(s)

	case *ast.ExprStmt:
		g.expr(s.X)

	default:
		panic(fmt.Sprintf("codegen.stmt: unhandled %T", s))
	}
}

// varDecl lowers a variable declaration. Top-level variables become
// module globals; everything else gets an entry-block alloca.
func (g *builder) varDecl(d *ast.VarDecl) {
	v := g.info.Defs[d.Name]
	if v == nil {
		panic(fmt.Sprintf("codegen.varDecl: no object for %q", d.Name.Value))
	}

	if v.IsGlobal() {
		glob := &ir.Global{Name: v.Name(), Type: v.Type()}
		g.mod.Globals = append(g.mod.Globals, glob)
		g.globals[v] = glob
		if d.Init != nil {
			val := g.exprAs(d.Init, v.Type())
			g.store(g.globalAddr(glob), val)
		} else if needsHandle(v.Type()) {
			g.store(g.globalAddr(glob), g.newHandle(v.Type()))
		}
		// Scalar globals without initializers stay zero-initialized.
		return
	}

	alloca := g.entryAlloca(v.Type(), v.Name())
	g.vars[v] = alloca
	switch {
	case d.Init != nil:
		g.store(alloca, g.exprAs(d.Init, v.Type()))
	case needsHandle(v.Type()):
		g.store(alloca, g.newHandle(v.Type()))
	default:
		zero := g.fn.NewValue(g.b, ir.OpZero, types.Typ[types.Invalid], alloca)
		zero.AuxInt = g.sizeOf(v.Type())
	}
}

// needsHandle reports whether the type is backed by a runtime handle
// that must be created before first use.
func needsHandle(t types.Type) bool {
	return t.IsList() || t.Code() == types.String
}

// newHandle emits the runtime create call for an empty list or string.
func (g *builder) newHandle(t types.Type) *ir.Value {
	if t.Code() == types.String || (t.IsList() && t.Elem().Code() == types.Char) {
		return g.call(rtabi.FnStrCreate, t)
	}
	size := g.fn.NewValue(g.b, ir.OpConstInt, types.Typ[types.Int])
	size.AuxInt = types.SizeOf(t.Elem())
	return g.call(rtabi.FnListCreate, t, size)
}

func (g *builder) store(ptr, val *ir.Value) {
	g.fn.NewValue(g.b, ir.OpStore, types.Typ[types.Invalid], ptr, val)
}

func (g *builder) globalAddr(glob *ir.Global) *ir.Value {
	v := g.fn.NewValue(g.b, ir.OpGlobalAddr, glob.Type)
	v.Aux = glob.Name
	return v
}

// funcDecl lowers a function declaration mid-stream: the current
// function's state is saved, the new function is built, and lowering
// of the enclosing body resumes.
func (g *builder) funcDecl(d *ast.FuncDecl) {
	params := make([]ir.Param, len(d.Params))
	for i, p := range d.Params {
		params[i] = ir.Param{Name: p.Name.Value, Type: p.DeclType}
	}

	if d.Body == nil {
		g.mod.Funcs = append(g.mod.Funcs, ir.NewExtern(d.Name.Value, params, d.Result))
		return
	}

	savedFn, savedB, savedVars := g.fn, g.b, g.vars

	fn := ir.NewFunc(d.Name.Value, params, d.Result)
	g.mod.Funcs = append(g.mod.Funcs, fn)
	g.fn = fn
	g.b = fn.Entry
	g.vars = make(map[*types.Var]*ir.Value)

	// Spill parameters: OpArg + alloca + store for each.
	for i, p := range d.Params {
		pv := g.info.Defs[p.Name]
		if pv == nil {
			panic(fmt.Sprintf("codegen.funcDecl: no object for param %q", p.Name.Value))
		}
		arg := fn.NewValue(fn.Entry, ir.OpArg, p.DeclType)
		arg.AuxInt = int64(i)
		arg.Aux = p.Name.Value
		alloca := g.entryAlloca(p.DeclType, p.Name.Value)
		g.store(alloca, arg)
		g.vars[pv] = alloca
	}

	g.stmts(d.Body.Stmts)

	// Fell off the end: void functions return, value functions
	// return their zero value.
	if g.b != nil && g.b.Kind == ir.BlockPlain && len(g.b.Succs) == 0 {
		g.b.Kind = ir.BlockReturn
		if d.Result.Code() != types.Void {
			g.b.SetControl(g.zeroValue(d.Result))
		}
	}

	g.fn, g.b, g.vars = savedFn, savedB, savedVars
}

// zeroValue emits the zero of a type: numeric zero, false, or a null
// handle for list-backed types.
func (g *builder) zeroValue(t types.Type) *ir.Value {
	switch {
	case t.Code() == types.Double && !t.IsList():
		return g.fn.NewValue(g.b, ir.OpConstDouble, t)
	case t.Code() == types.UInt && !t.IsList():
		return g.fn.NewValue(g.b, ir.OpConstUInt, t)
	default:
		return g.fn.NewValue(g.b, ir.OpConstInt, t)
	}
}

// assignStmt lowers an assignment. Identifier and member targets are
// stores; list element targets become runtime insert calls.
func (g *builder) assignStmt(s *ast.AssignStmt) {
	switch t := s.Target.(type) {
	case *ast.Ident:
		v := g.info.Uses[t]
		if v == nil {
			panic(fmt.Sprintf("codegen.assignStmt: no object for %q", t.Value))
		}
		val := g.exprAs(s.Value, v.Type())
		g.store(g.varAddr(v), val)

	case *ast.FieldExpr:
		ptr, memberType := g.fieldPtr(t)
		g.store(ptr, g.exprAs(s.Value, memberType))

	case *ast.IndexExpr:
		lv := g.info.Uses[t.Name]
		if lv == nil {
			panic(fmt.Sprintf("codegen.assignStmt: no object for %q", t.Name.Value))
		}
		elemType := elemTypeOf(lv.Type())
		list := g.fn.NewValue(g.b, ir.OpLoad, lv.Type(), g.varAddr(lv))
		idx := g.exprAs(t.Index, types.Typ[types.Int])
		val := g.exprAs(s.Value, elemType)
		g.call(insertFn(elemType), types.Typ[types.Void], list, idx, val)

	default:
		panic(fmt.Sprintf("codegen.assignStmt: unhandled target %T", s.Target))
	}
}

// varAddr returns the storage address of a variable: its alloca, or a
// fresh global address in the current block.
func (g *builder) varAddr(v *types.Var) *ir.Value {
	if glob, ok := g.globals[v]; ok {
		return g.globalAddr(glob)
	}
	alloca, ok := g.vars[v]
	if !ok {
		panic(fmt.Sprintf("codegen.varAddr: no storage for %q", v.Name()))
	}
	return alloca
}

// fieldPtr emits the address of a struct member and returns it with
// the member's type.
func (g *builder) fieldPtr(e *ast.FieldExpr) (*ir.Value, types.Type) {
	v := g.info.Uses[e.Name]
	if v == nil {
		panic(fmt.Sprintf("codegen.fieldPtr: no object for %q", e.Name.Value))
	}
	def := g.mod.StructDef(v.Type().StructName())
	if def == nil {
		panic(fmt.Sprintf("codegen.fieldPtr: undefined struct %s", v.Type().StructName()))
	}
	idx := def.FieldIndex(e.Member.Value)
	if idx < 0 {
		panic(fmt.Sprintf("codegen.fieldPtr: struct %s has no member %s", def.Name, e.Member.Value))
	}
	memberType := def.Fields[idx]
	ptr := g.fn.NewValue(g.b, ir.OpFieldPtr, memberType, g.varAddr(v))
	ptr.AuxInt = int64(idx)
	ptr.Aux = def.Name
	return ptr, memberType
}

// ifStmt lowers a conditional. Non-bool conditions compare against
// zero first, so the branch always tests a bool.
func (g *builder) ifStmt(s *ast.IfStmt) {
	cond := g.boolExpr(s.Cond)

	bThen := g.fn.NewBlock(ir.BlockPlain)
	bDone := g.fn.NewBlock(ir.BlockPlain)

	var bElse *ir.Block
	if s.ElseIf != nil || s.Else != nil {
		bElse = g.fn.NewBlock(ir.BlockPlain)
	} else {
		bElse = bDone
	}

	g.b.Kind = ir.BlockIf
	g.b.SetControl(cond)
	g.b.AddSucc(bThen)
	g.b.AddSucc(bElse)

	// Then branch.
	g.b = bThen
	g.stmts(s.Then.Stmts)
	if g.b != nil {
		g.b.AddSucc(bDone)
	}

	// Else branch: either the next arm of the chain or the final block.
	if s.ElseIf != nil {
		g.b = bElse
		g.ifStmt(s.ElseIf)
		if g.b != nil {
			g.b.AddSucc(bDone)
		}
	} else if s.Else != nil {
		g.b = bElse
		g.stmts(s.Else.Stmts)
		if g.b != nil {
			g.b.AddSucc(bDone)
		}
	}

	if len(bDone.Preds) > 0 {
		g.b = bDone
	} else {
		// All branches terminated.
		g.removeDead(bDone)
		g.b = nil
	}
}

// boolExpr lowers a condition to a bool value, comparing non-bool
// scalars against zero.
func (g *builder) boolExpr(e ast.Expr) *ir.Value {
	cond := g.expr(e)
	ct := g.info.TypeOf(e)
	if ct.Code() == types.Bool {
		return cond
	}
	if ct.Code() == types.Double {
		zero := g.fn.NewValue(g.b, ir.OpConstDouble, types.Typ[types.Double])
		return g.fn.NewValue(g.b, ir.OpNeqF, types.Typ[types.Bool], cond, zero)
	}
	zero := g.fn.NewValue(g.b, ir.OpConstInt, ct)
	return g.fn.NewValue(g.b, ir.OpNeqI, types.Typ[types.Bool], cond, zero)
}

// loopStmt lowers list iteration to an index-counter loop. The list
// length is re-queried from the runtime in the loop header, so
// mutation of the list inside the body moves the bound.
func (g *builder) loopStmt(s *ast.LoopStmt) {
	lv := g.info.Uses[s.List]
	if lv == nil {
		panic(fmt.Sprintf("codegen.loopStmt: no object for %q", s.List.Value))
	}
	ev := g.info.Defs[s.Elem]
	if ev == nil {
		panic(fmt.Sprintf("codegen.loopStmt: no object for %q", s.Elem.Value))
	}
	elemType := elemTypeOf(lv.Type())

	idx := g.entryAlloca(types.Typ[types.Int], s.Elem.Value+".idx")
	elem := g.entryAlloca(elemType, s.Elem.Value)
	g.vars[ev] = elem

	zero := g.fn.NewValue(g.b, ir.OpConstInt, types.Typ[types.Int])
	g.store(idx, zero)

	bHeader := g.fn.NewBlock(ir.BlockPlain)
	bBody := g.fn.NewBlock(ir.BlockPlain)
	bExit := g.fn.NewBlock(ir.BlockPlain)

	g.b.AddSucc(bHeader)

	// Header: fetch the current length and test the index.
	g.b = bHeader
	list := g.fn.NewValue(g.b, ir.OpLoad, lv.Type(), g.varAddr(lv))
	length := g.call(rtabi.FnListLength, types.Typ[types.Int], list)
	i := g.fn.NewValue(g.b, ir.OpLoad, types.Typ[types.Int], idx)
	cmp := g.fn.NewValue(g.b, ir.OpLtI, types.Typ[types.Bool], i, length)
	g.b.Kind = ir.BlockIf
	g.b.SetControl(cmp)
	g.b.AddSucc(bBody)
	g.b.AddSucc(bExit)

	// Body: fetch the element, run the statements, advance the index.
	g.b = bBody
	list = g.fn.NewValue(g.b, ir.OpLoad, lv.Type(), g.varAddr(lv))
	i = g.fn.NewValue(g.b, ir.OpLoad, types.Typ[types.Int], idx)
	elemVal := g.call(retrieveFn(elemType), elemType, list, i)
	g.store(elem, elemVal)

	g.stmts(s.Body.Stmts)
	if g.b != nil {
		i = g.fn.NewValue(g.b, ir.OpLoad, types.Typ[types.Int], idx)
		one := g.fn.NewValue(g.b, ir.OpConstInt, types.Typ[types.Int])
		one.AuxInt = 1
		next := g.fn.NewValue(g.b, ir.OpAddI, types.Typ[types.Int], i, one)
		g.store(idx, next)
		g.b.AddSucc(bHeader)
	}

	g.b = bExit
}

// returnStmt lowers a return, widening the value to the function's
// result type when needed.
func (g *builder) returnStmt(s *ast.ReturnStmt) {
	if s.Result != nil {
		val := g.exprAs(s.Result, g.fn.Result)
		g.b.Kind = ir.BlockReturn
		g.b.SetControl(val)
	} else {
		g.b.Kind = ir.BlockReturn
	}
	g.b = nil // subsequent code is unreachable
}

// removeDead removes a dead block from the function's block list.
// The block must have no predecessors and no successors.
func (g *builder) removeDead(dead *ir.Block) {
	blocks := g.fn.Blocks
	for i, blk := range blocks {
		if blk == dead {
			g.fn.Blocks = append(blocks[:i], blocks[i+1:]...)
			return
		}
	}
}

// elemTypeOf returns the element type observed when iterating or
// indexing a list-backed value.
func elemTypeOf(t types.Type) types.Type {
	if t.Code() == types.String {
		return types.Typ[types.Char]
	}
	return t.Elem()
}

// insertFn selects the runtime insert helper for an element type.
func insertFn(elem types.Type) string {
	switch elem.Code() {
	case types.Char:
		return rtabi.FnStrInsert
	case types.Double:
		return rtabi.FnDoubleListInsert
	}
	return rtabi.FnIntListInsert
}

// retrieveFn selects the runtime retrieve helper for an element type.
func retrieveFn(elem types.Type) string {
	switch elem.Code() {
	case types.Char:
		return rtabi.FnStrRetrieve
	case types.Double:
		return rtabi.FnDoubleListRetrieve
	}
	return rtabi.FnIntListRetrieve
}

// appendFn selects the runtime append helper for an element type.
func appendFn(elem types.Type) string {
	switch elem.Code() {
	case types.Char:
		return rtabi.FnStrAppend
	case types.Double:
		return rtabi.FnDoubleListAppend
	}
	return rtabi.FnIntListAppend
}
