package codegen

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/ainfosec/crema/internal/ir"
	"github.com/ainfosec/crema/internal/rtabi"
	"github.com/ainfosec/crema/internal/types"
)

// generator holds the state for lowering an IR module to LLVM IR text.
type generator struct {
	e *emitter
	m *ir.Module
}

// EmitModule writes the LLVM IR for a whole module: struct type
// definitions, globals, runtime and extern declarations, then one
// define per function body.
func EmitModule(w io.Writer, m *ir.Module) error {
	g := &generator{
		e: &emitter{w: w},
		m: m,
	}

	g.e.emitComment("module " + m.Name)
	g.e.emitLine()

	for _, s := range m.Structs {
		g.emitStructDef(s)
	}
	if len(m.Structs) > 0 {
		g.e.emitLine()
	}

	for _, glob := range m.Globals {
		g.e.emit("@%s = global %s zeroinitializer", glob.Name, llvmType(glob.Type))
	}
	if len(m.Globals) > 0 {
		g.e.emitLine()
	}

	g.emitRuntimeDecls()
	g.e.emitLine()

	// Runtime helpers are already declared above; externing one must
	// not redeclare the symbol.
	runtime := make(map[string]bool)
	for _, sig := range rtabi.RuntimeFunctions() {
		runtime[sig.Name] = true
	}
	for _, fn := range m.Funcs {
		if fn.IsExtern() && !runtime[fn.Name] {
			g.emitExternDecl(fn)
		}
	}

	for _, fn := range m.Funcs {
		if fn.IsExtern() {
			continue
		}
		g.e.emitLine()
		g.lowerFunc(fn)
	}

	return g.e.err
}

// emitStructDef emits a named struct type definition.
func (g *generator) emitStructDef(s *ir.StructDef) {
	fields := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		fields[i] = llvmType(f)
	}
	g.e.emit("%%struct.%s = type { %s }", s.Name, strings.Join(fields, ", "))
}

// emitRuntimeDecls emits declarations for every runtime-support
// function plus the intrinsics the lowering uses.
func (g *generator) emitRuntimeDecls() {
	for _, sig := range rtabi.RuntimeFunctions() {
		g.e.emit("declare %s @%s(%s)", sig.ReturnType, sig.Name, strings.Join(sig.ParamTypes, ", "))
	}
	g.e.emit("declare void @llvm.memset.p0.i64(ptr, i8, i64, i1)")
}

// emitExternDecl emits a declaration for a user-declared external
// function.
func (g *generator) emitExternDecl(fn *ir.Func) {
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = llvmType(p.Type)
	}
	ret := rtabi.LLVMTypeVoid
	if fn.Result.Code() != types.Void {
		ret = llvmType(fn.Result)
	}
	g.e.emit("declare %s @%s(%s)", ret, fn.Name, strings.Join(params, ", "))
}

// lowerFunc emits the LLVM IR for a single function body.
func (g *generator) lowerFunc(fn *ir.Func) {
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = fmt.Sprintf("%s %%%s", llvmType(p.Type), p.Name)
	}
	ret := rtabi.LLVMTypeVoid
	if fn.Result.Code() != types.Void {
		ret = llvmType(fn.Result)
	}

	g.e.emit("define %s @%s(%s) {", ret, fn.Name, strings.Join(params, ", "))

	for _, b := range fn.Blocks {
		g.lowerBlock(b)
	}

	g.e.emit("}")
}

// lowerBlock emits the label, instructions, and terminator for one
// basic block.
func (g *generator) lowerBlock(b *ir.Block) {
	g.e.emitLabel(b)

	for _, v := range b.Values {
		g.lowerValue(v)
	}

	g.lowerTerminator(b)
}

// lowerValue emits the LLVM IR for a single IR value.
func (g *generator) lowerValue(v *ir.Value) {
	switch v.Op {
	// Constants are inlined at use sites.
	case ir.OpConstInt, ir.OpConstUInt, ir.OpConstDouble, ir.OpConstChar, ir.OpConstBool:
		return

	// Arguments are referenced by parameter name; globals by @name.
	case ir.OpArg, ir.OpGlobalAddr:
		return

	// Integer arithmetic
	case ir.OpAddI:
		g.emitBinOp("add", intOperandType(v), v)
	case ir.OpSubI:
		g.emitBinOp("sub", intOperandType(v), v)
	case ir.OpMulI:
		g.emitBinOp("mul", intOperandType(v), v)
	case ir.OpDivI:
		g.emitBinOp("sdiv", intOperandType(v), v)
	case ir.OpModI:
		g.emitBinOp("srem", intOperandType(v), v)
	case ir.OpNegI:
		g.e.emitInst("%s = sub %s 0, %s", valueName(v), intOperandType(v), g.operand(v.Args[0]))

	case ir.OpDivU:
		g.emitBinOp("udiv", intOperandType(v), v)
	case ir.OpModU:
		g.emitBinOp("urem", intOperandType(v), v)

	// Float arithmetic
	case ir.OpAddF:
		g.emitBinOp("fadd", rtabi.LLVMTypeDouble, v)
	case ir.OpSubF:
		g.emitBinOp("fsub", rtabi.LLVMTypeDouble, v)
	case ir.OpMulF:
		g.emitBinOp("fmul", rtabi.LLVMTypeDouble, v)
	case ir.OpDivF:
		g.emitBinOp("fdiv", rtabi.LLVMTypeDouble, v)
	case ir.OpNegF:
		g.e.emitInst("%s = fneg double %s", valueName(v), g.operand(v.Args[0]))

	// Bitwise
	case ir.OpAnd:
		g.emitBinOp("and", intOperandType(v), v)
	case ir.OpOr:
		g.emitBinOp("or", intOperandType(v), v)
	case ir.OpXor:
		g.emitBinOp("xor", intOperandType(v), v)

	// Integer comparison
	case ir.OpEqI:
		g.emitICmp("eq", v)
	case ir.OpNeqI:
		g.emitICmp("ne", v)
	case ir.OpLtI:
		g.emitICmp("slt", v)
	case ir.OpLeqI:
		g.emitICmp("sle", v)
	case ir.OpGtI:
		g.emitICmp("sgt", v)
	case ir.OpGeqI:
		g.emitICmp("sge", v)

	case ir.OpLtU:
		g.emitICmp("ult", v)
	case ir.OpLeqU:
		g.emitICmp("ule", v)
	case ir.OpGtU:
		g.emitICmp("ugt", v)
	case ir.OpGeqU:
		g.emitICmp("uge", v)

	// Float comparison
	case ir.OpEqF:
		g.emitFCmp("oeq", v)
	case ir.OpNeqF:
		g.emitFCmp("une", v)
	case ir.OpLtF:
		g.emitFCmp("olt", v)
	case ir.OpLeqF:
		g.emitFCmp("ole", v)
	case ir.OpGtF:
		g.emitFCmp("ogt", v)
	case ir.OpGeqF:
		g.emitFCmp("oge", v)

	// Boolean
	case ir.OpNot:
		g.e.emitInst("%s = xor i1 %s, true", valueName(v), g.operand(v.Args[0]))
	case ir.OpAndB:
		g.e.emitInst("%s = and i1 %s, %s", valueName(v), g.operand(v.Args[0]), g.operand(v.Args[1]))
	case ir.OpOrB:
		g.e.emitInst("%s = or i1 %s, %s", valueName(v), g.operand(v.Args[0]), g.operand(v.Args[1]))

	// Conversion
	case ir.OpIntToDouble:
		g.e.emitInst("%s = sitofp i64 %s to double", valueName(v), g.operand(v.Args[0]))
	case ir.OpUIntToDouble:
		g.e.emitInst("%s = uitofp i64 %s to double", valueName(v), g.operand(v.Args[0]))
	case ir.OpZeroExt:
		g.e.emitInst("%s = zext %s %s to %s",
			valueName(v), llvmType(v.Args[0].Type), g.operand(v.Args[0]), llvmType(v.Type))

	// Memory. Allocas and their addressing relatives carry the pointee
	// type, so the alloca's own type is the element type directly.
	case ir.OpAlloca:
		g.e.emitInst("%s = alloca %s", valueName(v), llvmType(v.Type))
	case ir.OpLoad:
		g.e.emitInst("%s = load %s, ptr %s", valueName(v), llvmType(v.Type), g.operand(v.Args[0]))
	case ir.OpStore:
		g.e.emitInst("store %s %s, ptr %s",
			llvmType(v.Args[1].Type), g.operand(v.Args[1]), g.operand(v.Args[0]))
	case ir.OpZero:
		g.e.emitInst("call void @llvm.memset.p0.i64(ptr %s, i8 0, i64 %d, i1 false)",
			g.operand(v.Args[0]), v.AuxInt)

	// Struct access
	case ir.OpFieldPtr:
		structName := v.Aux.(string)
		g.e.emitInst("%s = getelementptr %%struct.%s, ptr %s, i32 0, i32 %d",
			valueName(v), structName, g.operand(v.Args[0]), v.AuxInt)

	// Calls
	case ir.OpCall:
		g.lowerCall(v)

	default:
		panic(fmt.Sprintf("codegen.lowerValue: unhandled op %s", v.Op))
	}
}

// lowerCall emits a direct call. Argument types come from the argument
// values themselves; the callee name is carried in Aux.
func (g *generator) lowerCall(v *ir.Value) {
	callee := v.Aux.(string)
	args := make([]string, len(v.Args))
	for i, arg := range v.Args {
		args[i] = fmt.Sprintf("%s %s", llvmType(arg.Type), g.operand(arg))
	}
	ret := llvmValueType(v.Type)
	if ret == rtabi.LLVMTypeVoid {
		g.e.emitInst("call void @%s(%s)", callee, strings.Join(args, ", "))
	} else {
		g.e.emitInst("%s = call %s @%s(%s)", valueName(v), ret, callee, strings.Join(args, ", "))
	}
}

// lowerTerminator emits the block terminator instruction.
func (g *generator) lowerTerminator(b *ir.Block) {
	switch b.Kind {
	case ir.BlockPlain:
		if len(b.Succs) > 0 {
			g.e.emitInst("br label %%%s", blockName(b.Succs[0]))
		} else {
			g.e.emitInst("unreachable")
		}
	case ir.BlockIf:
		g.e.emitInst("br i1 %s, label %%%s, label %%%s",
			g.operand(b.Controls[0]), blockName(b.Succs[0]), blockName(b.Succs[1]))
	case ir.BlockReturn:
		if len(b.Controls) > 0 && b.Controls[0] != nil {
			ret := b.Controls[0]
			g.e.emitInst("ret %s %s", llvmType(ret.Type), g.operand(ret))
		} else {
			g.e.emitInst("ret void")
		}
	case ir.BlockExit:
		g.e.emitInst("unreachable")
	default:
		g.e.emitInst("unreachable")
	}
}

// operand returns the LLVM operand string for an IR value. Constants
// are inlined, arguments use their parameter name, globals their
// symbol, everything else its %vN name.
func (g *generator) operand(v *ir.Value) string {
	switch v.Op {
	case ir.OpConstInt, ir.OpConstChar:
		return strconv.FormatInt(v.AuxInt, 10)
	case ir.OpConstUInt:
		return strconv.FormatUint(uint64(v.AuxInt), 10)
	case ir.OpConstDouble:
		return formatFloat(v.AuxFloat)
	case ir.OpConstBool:
		if v.AuxInt != 0 {
			return "true"
		}
		return "false"
	case ir.OpArg:
		if name, ok := v.Aux.(string); ok && name != "" {
			return "%" + name
		}
		return fmt.Sprintf("%%arg%d", v.AuxInt)
	case ir.OpGlobalAddr:
		return "@" + v.Aux.(string)
	}
	return valueName(v)
}

// emitBinOp emits a binary operation instruction.
func (g *generator) emitBinOp(inst, ty string, v *ir.Value) {
	g.e.emitInst("%s = %s %s %s, %s", valueName(v), inst, ty, g.operand(v.Args[0]), g.operand(v.Args[1]))
}

// emitICmp emits an integer comparison. The operand width comes from
// the first argument so char comparisons stay i8.
func (g *generator) emitICmp(cond string, v *ir.Value) {
	ty := llvmType(v.Args[0].Type)
	g.e.emitInst("%s = icmp %s %s %s, %s", valueName(v), cond, ty, g.operand(v.Args[0]), g.operand(v.Args[1]))
}

// emitFCmp emits a floating-point comparison.
func (g *generator) emitFCmp(cond string, v *ir.Value) {
	g.e.emitInst("%s = fcmp %s double %s, %s", valueName(v), cond, g.operand(v.Args[0]), g.operand(v.Args[1]))
}

// intOperandType returns the integer width of an arithmetic value:
// i8 for char results, i64 otherwise.
func intOperandType(v *ir.Value) string {
	if v.Type.Code() == types.Char && !v.Type.IsList() {
		return rtabi.LLVMTypeChar
	}
	return rtabi.LLVMTypeInt
}

// formatFloat formats a float64 as an LLVM floating-point literal.
// Hex encoding keeps the bit pattern exact.
func formatFloat(f float64) string {
	if math.IsInf(f, 1) {
		return "0x7FF0000000000000"
	}
	if math.IsInf(f, -1) {
		return "0xFFF0000000000000"
	}
	if math.IsNaN(f) {
		return "0x7FF8000000000000"
	}
	return fmt.Sprintf("0x%016X", math.Float64bits(f))
}
