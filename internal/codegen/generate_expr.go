package codegen

import (
	"fmt"

	"github.com/ainfosec/crema/internal/ast"
	"github.com/ainfosec/crema/internal/ir"
	"github.com/ainfosec/crema/internal/rtabi"
	"github.com/ainfosec/crema/internal/types"
)

// expr lowers an expression to an IR value.
func (g *builder) expr(e ast.Expr) *ir.Value {
	switch e := e.(type) {
	case *ast.Ident:
		v := g.info.Uses[e]
		if v == nil {
			panic(fmt.Sprintf("codegen.expr: no object for %q", e.Value))
		}
		return g.fn.NewValue(g.b, ir.OpLoad, v.Type(), g.varAddr(v))

	case *ast.IntLit:
		v := g.fn.NewValue(g.b, ir.OpConstInt, types.Typ[types.Int])
		v.AuxInt = e.Value
		return v

	case *ast.UIntLit:
		v := g.fn.NewValue(g.b, ir.OpConstUInt, types.Typ[types.UInt])
		v.AuxInt = int64(e.Value)
		return v

	case *ast.DoubleLit:
		v := g.fn.NewValue(g.b, ir.OpConstDouble, types.Typ[types.Double])
		v.AuxFloat = e.Value
		return v

	case *ast.CharLit:
		v := g.fn.NewValue(g.b, ir.OpConstChar, types.Typ[types.Char])
		v.AuxInt = int64(e.Value)
		return v

	case *ast.BoolLit:
		v := g.fn.NewValue(g.b, ir.OpConstBool, types.Typ[types.Bool])
		if e.Value {
			v.AuxInt = 1
		}
		return v

	case *ast.StrLit:
		return g.strLit(e)

	case *ast.ListLit:
		return g.listLit(e)

	case *ast.BinaryExpr:
		return g.binaryExpr(e)

	case *ast.CallExpr:
		return g.callExpr(e)

	case *ast.IndexExpr:
		return g.indexExpr(e)

	case *ast.FieldExpr:
		ptr, memberType := g.fieldPtr(e)
		return g.fn.NewValue(g.b, ir.OpLoad, memberType, ptr)

	default:
		panic(fmt.Sprintf("codegen.expr: unhandled %T", e))
	}
}

// exprAs lowers an expression and widens the result to the given type.
func (g *builder) exprAs(e ast.Expr, want types.Type) *ir.Value {
	return g.widen(g.expr(e), g.info.TypeOf(e), want)
}

// widen converts a value from one type to a greater one under the
// upcast order. Equal types pass through unchanged.
func (g *builder) widen(v *ir.Value, from, to types.Type) *ir.Value {
	if from.Code() == to.Code() || from.IsList() || to.IsList() {
		return v
	}
	// Int and UInt share a representation.
	if from.IsNumeric() && to.IsNumeric() && from.Code() != types.Double && to.Code() != types.Double {
		return v
	}
	switch to.Code() {
	case types.Double:
		switch from.Code() {
		case types.Int:
			return g.fn.NewValue(g.b, ir.OpIntToDouble, to, v)
		case types.UInt:
			return g.fn.NewValue(g.b, ir.OpUIntToDouble, to, v)
		case types.Bool:
			ext := g.fn.NewValue(g.b, ir.OpZeroExt, types.Typ[types.Int], v)
			return g.fn.NewValue(g.b, ir.OpIntToDouble, to, ext)
		}
	case types.Int, types.UInt:
		switch from.Code() {
		case types.Char, types.Bool:
			return g.fn.NewValue(g.b, ir.OpZeroExt, to, v)
		}
	case types.String:
		switch from.Code() {
		case types.Int:
			return g.call(rtabi.FnIntToStr, to, v)
		case types.UInt:
			return g.call(rtabi.FnUIntToStr, to, v)
		case types.Double:
			return g.call(rtabi.FnDoubleToStr, to, v)
		}
	}
	panic(fmt.Sprintf("codegen.widen: cannot widen %s to %s", from, to))
}

// strLit lowers a string literal to a runtime string built one
// character at a time.
func (g *builder) strLit(e *ast.StrLit) *ir.Value {
	s := g.call(rtabi.FnStrCreate, types.Typ[types.String])
	for _, r := range e.Value {
		c := g.fn.NewValue(g.b, ir.OpConstChar, types.Typ[types.Char])
		c.AuxInt = int64(r)
		g.call(rtabi.FnStrAppend, types.Typ[types.Void], s, c)
	}
	return s
}

// listLit lowers a list literal to a runtime create plus one append
// per element.
func (g *builder) listLit(e *ast.ListLit) *ir.Value {
	t := g.info.TypeOf(e)
	elemType := elemTypeOf(t)
	list := g.newHandle(t)
	for _, el := range e.Elems {
		val := g.exprAs(el, elemType)
		g.call(appendFn(elemType), types.Typ[types.Void], list, val)
	}
	return list
}

// binaryExpr lowers a binary operation. Both operands are widened to
// their common type before the operation is selected.
func (g *builder) binaryExpr(e *ast.BinaryExpr) *ir.Value {
	xt := g.info.TypeOf(e.X)
	yt := g.info.TypeOf(e.Y)
	common := types.GetLargerType(xt, yt)
	if !common.IsValid() {
		panic(fmt.Sprintf("codegen.binaryExpr: no common type for %s and %s", xt, yt))
	}

	x := g.widen(g.expr(e.X), xt, common)
	y := g.widen(g.expr(e.Y), yt, common)

	resType := common
	if e.Op.IsComparison() || e.Op.IsLogical() {
		resType = types.Typ[types.Bool]
	}
	return g.fn.NewValue(g.b, binOp(e.Op, common), resType, x, y)
}

// binOp maps an AST operator plus operand type to an IR op.
func binOp(op ast.Op, t types.Type) ir.Op {
	if t.Code() == types.Double {
		return doubleBinOp(op)
	}
	if t.Code() == types.UInt {
		return uintBinOp(op)
	}
	return intBinOp(op)
}

func intBinOp(op ast.Op) ir.Op {
	switch op {
	case ast.OpAdd:
		return ir.OpAddI
	case ast.OpSub:
		return ir.OpSubI
	case ast.OpMul:
		return ir.OpMulI
	case ast.OpDiv:
		return ir.OpDivI
	case ast.OpMod:
		return ir.OpModI
	case ast.OpBitAnd:
		return ir.OpAnd
	case ast.OpBitOr:
		return ir.OpOr
	case ast.OpBitXor:
		return ir.OpXor
	case ast.OpEq:
		return ir.OpEqI
	case ast.OpNeq:
		return ir.OpNeqI
	case ast.OpLt:
		return ir.OpLtI
	case ast.OpLeq:
		return ir.OpLeqI
	case ast.OpGt:
		return ir.OpGtI
	case ast.OpGeq:
		return ir.OpGeqI
	case ast.OpLogAnd:
		return ir.OpAndB
	case ast.OpLogOr:
		return ir.OpOrB
	default:
		panic(fmt.Sprintf("codegen.intBinOp: unhandled operator %s", op))
	}
}

func uintBinOp(op ast.Op) ir.Op {
	switch op {
	case ast.OpDiv:
		return ir.OpDivU
	case ast.OpMod:
		return ir.OpModU
	case ast.OpLt:
		return ir.OpLtU
	case ast.OpLeq:
		return ir.OpLeqU
	case ast.OpGt:
		return ir.OpGtU
	case ast.OpGeq:
		return ir.OpGeqU
	default:
		// Add, sub, mul, bitwise, and equality are sign-agnostic.
		return intBinOp(op)
	}
}

func doubleBinOp(op ast.Op) ir.Op {
	switch op {
	case ast.OpAdd:
		return ir.OpAddF
	case ast.OpSub:
		return ir.OpSubF
	case ast.OpMul:
		return ir.OpMulF
	case ast.OpDiv:
		return ir.OpDivF
	case ast.OpEq:
		return ir.OpEqF
	case ast.OpNeq:
		return ir.OpNeqF
	case ast.OpLt:
		return ir.OpLtF
	case ast.OpLeq:
		return ir.OpLeqF
	case ast.OpGt:
		return ir.OpGtF
	case ast.OpGeq:
		return ir.OpGeqF
	default:
		panic(fmt.Sprintf("codegen.doubleBinOp: unhandled operator %s", op))
	}
}

// callExpr lowers a function call, widening each argument to the
// declared parameter type.
func (g *builder) callExpr(e *ast.CallExpr) *ir.Value {
	d := g.ctx.LookupFunc(e.Name.Value)
	if d == nil {
		panic(fmt.Sprintf("codegen.callExpr: undefined function %q", e.Name.Value))
	}
	args := make([]*ir.Value, len(e.Args))
	for i, arg := range e.Args {
		args[i] = g.exprAs(arg, d.Params[i].DeclType)
	}
	return g.call(d.Name.Value, d.Result, args...)
}

// indexExpr lowers a list element read to a runtime retrieve call.
func (g *builder) indexExpr(e *ast.IndexExpr) *ir.Value {
	lv := g.info.Uses[e.Name]
	if lv == nil {
		panic(fmt.Sprintf("codegen.indexExpr: no object for %q", e.Name.Value))
	}
	elemType := elemTypeOf(lv.Type())
	list := g.fn.NewValue(g.b, ir.OpLoad, lv.Type(), g.varAddr(lv))
	idx := g.exprAs(e.Index, types.Typ[types.Int])
	return g.call(retrieveFn(elemType), elemType, list, idx)
}
