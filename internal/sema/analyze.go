package sema

import (
	"fmt"

	"github.com/ainfosec/crema/internal/ast"
	"github.com/ainfosec/crema/internal/types"
)

// Diagnostic is a semantic error with its source position.
type Diagnostic struct {
	Pos ast.Pos
	Msg string
}

func (d *Diagnostic) Error() string {
	if d.Pos.IsValid() {
		return d.Pos.String() + ": " + d.Msg
	}
	return d.Msg
}

// WarnHandler is called for each non-fatal finding (implicit upcasts).
type WarnHandler func(pos ast.Pos, msg string)

// Config holds analysis configuration.
type Config struct {
	// Warn is called for implicit upcasts and other non-fatal
	// findings. If nil, warnings are dropped.
	Warn WarnHandler
}

// Info holds the result maps of an analysis. Only non-nil maps are
// populated, so callers pay only for what they ask for. The code
// generator requires Types and Defs.
type Info struct {
	// Types maps expressions to their types.
	Types map[ast.Expr]types.Type

	// Defs maps declaring identifiers to the variables they create.
	Defs map[*ast.Ident]*types.Var

	// Uses maps referring identifiers to the variables they denote.
	Uses map[*ast.Ident]*types.Var
}

func (info *Info) recordType(e ast.Expr, t types.Type) {
	if info.Types != nil {
		info.Types[e] = t
	}
}

func (info *Info) recordDef(id *ast.Ident, v *types.Var) {
	if info.Defs != nil {
		info.Defs[id] = v
	}
}

func (info *Info) recordUse(id *ast.Ident, v *types.Var) {
	if info.Uses != nil {
		info.Uses[id] = v
	}
}

// TypeOf returns the recorded type of e, or the Invalid type.
func (info *Info) TypeOf(e ast.Expr) types.Type {
	if t, ok := info.Types[e]; ok {
		return t
	}
	return types.Typ[types.Invalid]
}

// NewInfo creates an Info with all maps allocated.
func NewInfo() *Info {
	return &Info{
		Types: make(map[ast.Expr]types.Type),
		Defs:  make(map[*ast.Ident]*types.Var),
		Uses:  make(map[*ast.Ident]*types.Var),
	}
}

// analyzer holds the state of one analysis run.
type analyzer struct {
	ctx  *Context
	conf *Config
	info *Info
}

// Analyze checks the program rooted at root. Analysis stops at the
// first violated rule and returns it as a *Diagnostic; implicit
// upcasts are reported through conf.Warn and do not stop analysis.
// On success the annotation maps in info are filled in.
func Analyze(root *ast.Block, ctx *Context, conf *Config, info *Info) error {
	if conf == nil {
		conf = &Config{}
	}
	if info == nil {
		info = &Info{}
	}
	a := &analyzer{ctx: ctx, conf: conf, info: info}

	// The top-level block runs in the context's root scope.
	for _, s := range root.Stmts {
		if err := a.stmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (a *analyzer) errorf(pos ast.Pos, format string, args ...interface{}) error {
	return &Diagnostic{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func (a *analyzer) warnf(pos ast.Pos, format string, args ...interface{}) {
	if a.conf.Warn != nil {
		a.conf.Warn(pos, fmt.Sprintf(format, args...))
	}
}

// ----------------------------------------------------------------------------
// Statements

func (a *analyzer) stmt(s ast.Stmt) error {
	switch s := s.(type) {
	case *ast.Block:
		return a.block(s, "block")

	case *ast.VarDecl:
		return a.varDecl(s)

	case *ast.FuncDecl:
		return a.funcDecl(s)

	case *ast.StructDecl:
		return a.structDecl(s)

	case *ast.AssignStmt:
		return a.assignStmt(s)

	case *ast.IfStmt:
		return a.ifStmt(s)

	case *ast.LoopStmt:
		return a.loopStmt(s)

	case *ast.ReturnStmt:
		return a.returnStmt(s)

	case *ast.ExprStmt:
		_, err := a.expr(s.X)
		return err

	default:
		return a.errorf(s.Pos(), "unexpected statement %T", s)
	}
}

// block analyzes a nested block in a fresh scope frame that inherits
// the enclosing frame's return type.
func (a *analyzer) block(b *ast.Block, comment string) error {
	a.ctx.PushScope(a.ctx.ReturnType(), comment)
	defer a.ctx.PopScope()
	for _, s := range b.Stmts {
		if err := a.stmt(s); err != nil {
			return err
		}
	}
	return nil
}

// resolveType checks that a declared type is usable: struct types must
// name a declared struct.
func (a *analyzer) resolveType(pos ast.Pos, t types.Type) error {
	if t.Code() == types.Struct {
		if a.ctx.LookupStruct(t.StructName()) == nil {
			return a.errorf(pos, "undefined struct %s", t.StructName())
		}
	}
	return nil
}

func (a *analyzer) varDecl(d *ast.VarDecl) error {
	name := d.Name.Value
	if d.DeclType.Code() == types.Void {
		return a.errorf(d.Pos(), "cannot declare variable %s of type void", name)
	}
	if err := a.resolveType(d.Pos(), d.DeclType); err != nil {
		return err
	}

	// The initializer is checked before the name is visible, so a
	// declaration cannot reference itself.
	if d.Init != nil {
		it, err := a.expr(d.Init)
		if err != nil {
			return err
		}
		if err := a.checkAssign(d.Pos(), d.DeclType, it, "initialize "+name); err != nil {
			return err
		}
	}

	v, err := a.ctx.DeclareVar(name, d.DeclType)
	if err != nil {
		return a.errorf(d.Pos(), "%s", err)
	}
	a.info.recordDef(d.Name, v)
	return nil
}

// checkAssign enforces the upcast rule for flowing a value of type
// have into a location of type want. Equal types are fine; a strict
// upcast is a warning; anything else is an error.
func (a *analyzer) checkAssign(pos ast.Pos, want, have types.Type, what string) error {
	switch {
	case types.Equal(want, have):
		return nil
	case types.Greater(want, have):
		a.warnf(pos, "implicit upcast from %s to %s", have, want)
		return nil
	}
	return a.errorf(pos, "cannot use %s value to %s (%s)", have, what, want)
}

func (a *analyzer) funcDecl(d *ast.FuncDecl) error {
	if err := a.resolveType(d.Pos(), d.Result); err != nil {
		return err
	}
	if err := a.ctx.DeclareFunc(d); err != nil {
		return a.errorf(d.Pos(), "%s", err)
	}

	if d.Body == nil {
		// External declaration: only the signature is checked.
		for _, p := range d.Params {
			if err := a.resolveType(p.Pos(), p.DeclType); err != nil {
				return err
			}
		}
		return nil
	}

	// Parameters and body share one scope frame.
	a.ctx.PushScope(d.Result, "function "+d.Name.Value)
	defer a.ctx.PopScope()
	for _, p := range d.Params {
		if err := a.resolveType(p.Pos(), p.DeclType); err != nil {
			return err
		}
		v, err := a.ctx.DeclareVar(p.Name.Value, p.DeclType)
		if err != nil {
			return a.errorf(p.Pos(), "%s", err)
		}
		a.info.recordDef(p.Name, v)
	}
	for _, s := range d.Body.Stmts {
		if err := a.stmt(s); err != nil {
			return err
		}
	}

	return a.checkRecursion(d)
}

func (a *analyzer) structDecl(d *ast.StructDecl) error {
	// Members are checked before the struct name is visible, which
	// also rejects a struct containing itself.
	seen := types.NewScope(nil, "struct "+d.Name.Value)
	for _, m := range d.Members {
		if m.DeclType.Code() == types.Void {
			return a.errorf(m.Pos(), "struct member %s has type void", m.Name.Value)
		}
		if err := a.resolveType(m.Pos(), m.DeclType); err != nil {
			return err
		}
		if existing := seen.Insert(types.NewVar(m.Name.Value, m.DeclType)); existing != nil {
			return a.errorf(m.Pos(), "duplicate member %s in struct %s", m.Name.Value, d.Name.Value)
		}
	}
	if err := a.ctx.DeclareStruct(d); err != nil {
		return a.errorf(d.Pos(), "%s", err)
	}
	return nil
}

func (a *analyzer) assignStmt(s *ast.AssignStmt) error {
	switch s.Target.(type) {
	case *ast.Ident, *ast.IndexExpr, *ast.FieldExpr:
		// assignable
	default:
		return a.errorf(s.Pos(), "cannot assign to %T", s.Target)
	}

	tt, err := a.expr(s.Target)
	if err != nil {
		return err
	}
	vt, err := a.expr(s.Value)
	if err != nil {
		return err
	}
	return a.checkAssign(s.Pos(), tt, vt, "assign")
}

func (a *analyzer) ifStmt(s *ast.IfStmt) error {
	ct, err := a.expr(s.Cond)
	if err != nil {
		return err
	}
	switch {
	case ct.IsList(), ct.IsStruct():
		return a.errorf(s.Cond.Pos(), "invalid condition type %s", ct)
	case ct.Code() == types.String, ct.Code() == types.Void, ct.Code() == types.Invalid:
		return a.errorf(s.Cond.Pos(), "invalid condition type %s", ct)
	}

	if err := a.block(s.Then, "if body"); err != nil {
		return err
	}
	if s.ElseIf != nil {
		if err := a.ifStmt(s.ElseIf); err != nil {
			return err
		}
	}
	if s.Else != nil {
		if err := a.block(s.Else, "else body"); err != nil {
			return err
		}
	}
	return nil
}

func (a *analyzer) loopStmt(s *ast.LoopStmt) error {
	v := a.ctx.LookupVar(s.List.Value)
	if v == nil {
		return a.errorf(s.List.Pos(), "undefined variable %s", s.List.Value)
	}
	a.info.recordUse(s.List, v)
	a.info.recordType(s.List, v.Type())
	if !v.Type().IsList() && v.Type().Code() != types.String {
		return a.errorf(s.List.Pos(), "cannot iterate over %s (type %s)", s.List.Value, v.Type())
	}

	elemType := v.Type().Elem()
	if v.Type().Code() == types.String {
		elemType = types.Typ[types.Char]
	}

	// The element variable lives in the body's scope frame.
	a.ctx.PushScope(a.ctx.ReturnType(), "loop body")
	defer a.ctx.PopScope()
	ev, err := a.ctx.DeclareVar(s.Elem.Value, elemType)
	if err != nil {
		return a.errorf(s.Elem.Pos(), "%s", err)
	}
	a.info.recordDef(s.Elem, ev)
	for _, st := range s.Body.Stmts {
		if err := a.stmt(st); err != nil {
			return err
		}
	}
	return nil
}

func (a *analyzer) returnStmt(s *ast.ReturnStmt) error {
	want := a.ctx.ReturnType()

	if s.Result == nil {
		if want.Code() != types.Void {
			return a.errorf(s.Pos(), "missing return value (want %s)", want)
		}
		return nil
	}

	rt, err := a.expr(s.Result)
	if err != nil {
		return err
	}
	if want.Code() == types.Void {
		return a.errorf(s.Pos(), "unexpected return value in void function")
	}
	return a.checkAssign(s.Pos(), want, rt, "return")
}

// ----------------------------------------------------------------------------
// Expressions

// expr computes and records the type of e. Analysis of an expression
// either succeeds with a valid type or fails the whole run.
func (a *analyzer) expr(e ast.Expr) (types.Type, error) {
	t, err := a.exprInternal(e)
	if err != nil {
		return types.Typ[types.Invalid], err
	}
	a.info.recordType(e, t)
	return t, nil
}

func (a *analyzer) exprInternal(e ast.Expr) (types.Type, error) {
	switch e := e.(type) {
	case *ast.Ident:
		v := a.ctx.LookupVar(e.Value)
		if v == nil {
			return types.Typ[types.Invalid], a.errorf(e.Pos(), "undefined variable %s", e.Value)
		}
		a.info.recordUse(e, v)
		return v.Type(), nil

	case *ast.IntLit:
		return types.Typ[types.Int], nil

	case *ast.UIntLit:
		return types.Typ[types.UInt], nil

	case *ast.DoubleLit:
		return types.Typ[types.Double], nil

	case *ast.CharLit:
		return types.Typ[types.Char], nil

	case *ast.BoolLit:
		return types.Typ[types.Bool], nil

	case *ast.StrLit:
		return types.Typ[types.String], nil

	case *ast.ListLit:
		return a.listLit(e)

	case *ast.BinaryExpr:
		return a.binaryExpr(e)

	case *ast.CallExpr:
		return a.callExpr(e)

	case *ast.IndexExpr:
		return a.indexExpr(e)

	case *ast.FieldExpr:
		return a.fieldExpr(e)

	default:
		return types.Typ[types.Invalid], a.errorf(e.Pos(), "unexpected expression %T", e)
	}
}

func (a *analyzer) listLit(e *ast.ListLit) (types.Type, error) {
	if len(e.Elems) == 0 {
		return types.Typ[types.Invalid], a.errorf(e.Pos(), "empty list literal has no type")
	}
	elem, err := a.expr(e.Elems[0])
	if err != nil {
		return types.Typ[types.Invalid], err
	}
	for _, el := range e.Elems[1:] {
		t, err := a.expr(el)
		if err != nil {
			return types.Typ[types.Invalid], err
		}
		elem = types.GetLargerType(elem, t)
		if !elem.IsValid() {
			return types.Typ[types.Invalid], a.errorf(el.Pos(), "mismatched element types in list literal")
		}
	}
	if elem.IsList() || elem.IsStruct() {
		return types.Typ[types.Invalid], a.errorf(e.Pos(), "list elements must be scalar, have %s", elem)
	}
	return types.List(elem.Code()), nil
}

func (a *analyzer) binaryExpr(e *ast.BinaryExpr) (types.Type, error) {
	xt, err := a.expr(e.X)
	if err != nil {
		return types.Typ[types.Invalid], err
	}
	yt, err := a.expr(e.Y)
	if err != nil {
		return types.Typ[types.Invalid], err
	}

	if xt.IsList() || yt.IsList() || xt.IsStruct() || yt.IsStruct() {
		return types.Typ[types.Invalid], a.errorf(e.Pos(), "operator %s is not defined on %s and %s", e.Op, xt, yt)
	}

	common := types.GetLargerType(xt, yt)
	if !common.IsValid() {
		return types.Typ[types.Invalid], a.errorf(e.Pos(), "mismatched types %s and %s", xt, yt)
	}
	if common.Code() == types.String || common.Code() == types.Void {
		return types.Typ[types.Invalid], a.errorf(e.Pos(), "operator %s is not defined on %s", e.Op, common)
	}

	switch {
	case e.Op.IsComparison():
		return types.Typ[types.Bool], nil
	case e.Op.IsLogical():
		return types.Typ[types.Bool], nil
	case e.Op == ast.OpMod || e.Op == ast.OpBitAnd || e.Op == ast.OpBitOr || e.Op == ast.OpBitXor:
		if common.Code() == types.Double {
			return types.Typ[types.Invalid], a.errorf(e.Pos(), "operator %s requires integer operands", e.Op)
		}
		return common, nil
	default:
		return common, nil
	}
}

func (a *analyzer) callExpr(e *ast.CallExpr) (types.Type, error) {
	d := a.ctx.LookupFunc(e.Name.Value)
	if d == nil {
		return types.Typ[types.Invalid], a.errorf(e.Pos(), "undefined function %s", e.Name.Value)
	}
	if len(e.Args) != len(d.Params) {
		return types.Typ[types.Invalid], a.errorf(e.Pos(),
			"wrong number of arguments to %s: have %d, want %d",
			e.Name.Value, len(e.Args), len(d.Params))
	}
	for i, arg := range e.Args {
		at, err := a.expr(arg)
		if err != nil {
			return types.Typ[types.Invalid], err
		}
		pt := d.Params[i].DeclType
		switch {
		case types.Equal(pt, at):
		case types.Greater(pt, at):
			a.warnf(arg.Pos(), "implicit upcast from %s to %s", at, pt)
		default:
			return types.Typ[types.Invalid], a.errorf(arg.Pos(),
				"cannot use %s as %s in argument %d to %s", at, pt, i+1, e.Name.Value)
		}
	}
	return d.Result, nil
}

func (a *analyzer) indexExpr(e *ast.IndexExpr) (types.Type, error) {
	v := a.ctx.LookupVar(e.Name.Value)
	if v == nil {
		return types.Typ[types.Invalid], a.errorf(e.Pos(), "undefined variable %s", e.Name.Value)
	}
	a.info.recordUse(e.Name, v)

	it, err := a.expr(e.Index)
	if err != nil {
		return types.Typ[types.Invalid], err
	}
	if it.IsList() || (it.Code() != types.Int && it.Code() != types.UInt && it.Code() != types.Char) {
		return types.Typ[types.Invalid], a.errorf(e.Index.Pos(), "list index must be an integer, have %s", it)
	}

	switch {
	case v.Type().IsList():
		return v.Type().Elem(), nil
	case v.Type().Code() == types.String:
		return types.Typ[types.Char], nil
	}
	return types.Typ[types.Invalid], a.errorf(e.Pos(), "%s (type %s) does not support indexing", e.Name.Value, v.Type())
}

func (a *analyzer) fieldExpr(e *ast.FieldExpr) (types.Type, error) {
	v := a.ctx.LookupVar(e.Name.Value)
	if v == nil {
		return types.Typ[types.Invalid], a.errorf(e.Pos(), "undefined variable %s", e.Name.Value)
	}
	a.info.recordUse(e.Name, v)

	if !v.Type().IsStruct() {
		return types.Typ[types.Invalid], a.errorf(e.Pos(), "%s (type %s) is not a struct", e.Name.Value, v.Type())
	}
	sd := a.ctx.LookupStruct(v.Type().StructName())
	if sd == nil {
		return types.Typ[types.Invalid], a.errorf(e.Pos(), "undefined struct %s", v.Type().StructName())
	}
	for _, m := range sd.Members {
		if m.Name.Value == e.Member.Value {
			return m.DeclType, nil
		}
	}
	return types.Typ[types.Invalid], a.errorf(e.Member.Pos(),
		"struct %s has no member %s", sd.Name.Value, e.Member.Value)
}
