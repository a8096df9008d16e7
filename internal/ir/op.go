// Package ir implements the target-independent intermediate
// representation produced by the code generator: functions made of
// basic blocks, each holding a sequence of typed values.
package ir

// Op represents an IR operation code.
type Op int

const (
	OpInvalid Op = iota

	// Constants
	OpConstInt    // signed integer constant; AuxInt = value
	OpConstUInt   // unsigned integer constant; AuxInt = value (bit pattern)
	OpConstDouble // float constant; AuxFloat = value
	OpConstChar   // character constant; AuxInt = code point
	OpConstBool   // bool constant; AuxInt = 0 or 1

	// Integer arithmetic (signed)
	OpAddI // int + int
	OpSubI // int - int
	OpMulI // int * int
	OpDivI // int / int
	OpModI // int % int
	OpNegI // -int (unary)

	// Unsigned variants (add/sub/mul share the signed ops)
	OpDivU // uint / uint
	OpModU // uint % uint

	// Float arithmetic
	OpAddF // double + double
	OpSubF // double - double
	OpMulF // double * double
	OpDivF // double / double
	OpNegF // -double (unary)

	// Bitwise
	OpAnd // x & y
	OpOr  // x | y
	OpXor // x ^ y

	// Integer comparison (signed)
	OpEqI  // int == int
	OpNeqI // int != int
	OpLtI  // int < int
	OpLeqI // int <= int
	OpGtI  // int > int
	OpGeqI // int >= int

	// Unsigned ordering
	OpLtU  // uint < uint
	OpLeqU // uint <= uint
	OpGtU  // uint > uint
	OpGeqU // uint >= uint

	// Float comparison
	OpEqF  // double == double
	OpNeqF // double != double
	OpLtF  // double < double
	OpLeqF // double <= double
	OpGtF  // double > double
	OpGeqF // double >= double

	// Boolean
	OpNot  // !bool
	OpAndB // bool && bool
	OpOrB  // bool || bool

	// Memory
	OpAlloca     // stack slot in the entry block; Aux = name
	OpGlobalAddr // address of a module global; Aux = name
	OpLoad       // load from pointer; Args[0] = ptr
	OpStore      // store to pointer; Args[0] = ptr, Args[1] = val; void
	OpZero       // zero-fill memory; Args[0] = ptr; AuxInt = size; void

	// Struct access
	OpFieldPtr // &s.member; Args[0] = struct ptr; AuxInt = member index; Aux = struct name

	// Conversion
	OpIntToDouble  // int → double
	OpUIntToDouble // uint → double
	OpZeroExt      // char/bool → wider integer

	// Calls
	OpCall // direct call; Aux = callee name; Args = arguments

	// Function arguments
	OpArg // function argument; AuxInt = param index; Aux = param name

	opCount // sentinel; must be last
)

// OpInfo holds metadata about an IR operation.
type OpInfo struct {
	Name   string // human-readable name
	IsPure bool   // true if the op has no side effects
	IsVoid bool   // true if the op produces no value
}

// opInfoTable maps each Op to its OpInfo.
// Index by Op value.
var opInfoTable = [opCount]OpInfo{
	OpInvalid: {Name: "Invalid"},

	// Constants — all pure
	OpConstInt:    {Name: "ConstInt", IsPure: true},
	OpConstUInt:   {Name: "ConstUInt", IsPure: true},
	OpConstDouble: {Name: "ConstDouble", IsPure: true},
	OpConstChar:   {Name: "ConstChar", IsPure: true},
	OpConstBool:   {Name: "ConstBool", IsPure: true},

	// Integer arithmetic — all pure
	OpAddI: {Name: "AddI", IsPure: true},
	OpSubI: {Name: "SubI", IsPure: true},
	OpMulI: {Name: "MulI", IsPure: true},
	OpDivI: {Name: "DivI", IsPure: true},
	OpModI: {Name: "ModI", IsPure: true},
	OpNegI: {Name: "NegI", IsPure: true},

	OpDivU: {Name: "DivU", IsPure: true},
	OpModU: {Name: "ModU", IsPure: true},

	// Float arithmetic — all pure
	OpAddF: {Name: "AddF", IsPure: true},
	OpSubF: {Name: "SubF", IsPure: true},
	OpMulF: {Name: "MulF", IsPure: true},
	OpDivF: {Name: "DivF", IsPure: true},
	OpNegF: {Name: "NegF", IsPure: true},

	// Bitwise — all pure
	OpAnd: {Name: "And", IsPure: true},
	OpOr:  {Name: "Or", IsPure: true},
	OpXor: {Name: "Xor", IsPure: true},

	// Integer comparison — all pure
	OpEqI:  {Name: "EqI", IsPure: true},
	OpNeqI: {Name: "NeqI", IsPure: true},
	OpLtI:  {Name: "LtI", IsPure: true},
	OpLeqI: {Name: "LeqI", IsPure: true},
	OpGtI:  {Name: "GtI", IsPure: true},
	OpGeqI: {Name: "GeqI", IsPure: true},

	OpLtU:  {Name: "LtU", IsPure: true},
	OpLeqU: {Name: "LeqU", IsPure: true},
	OpGtU:  {Name: "GtU", IsPure: true},
	OpGeqU: {Name: "GeqU", IsPure: true},

	// Float comparison — all pure
	OpEqF:  {Name: "EqF", IsPure: true},
	OpNeqF: {Name: "NeqF", IsPure: true},
	OpLtF:  {Name: "LtF", IsPure: true},
	OpLeqF: {Name: "LeqF", IsPure: true},
	OpGtF:  {Name: "GtF", IsPure: true},
	OpGeqF: {Name: "GeqF", IsPure: true},

	// Boolean — pure
	OpNot:  {Name: "Not", IsPure: true},
	OpAndB: {Name: "AndB", IsPure: true},
	OpOrB:  {Name: "OrB", IsPure: true},

	// Memory — NOT pure (side effects)
	OpAlloca:     {Name: "Alloca"},
	OpGlobalAddr: {Name: "GlobalAddr", IsPure: true},
	OpLoad:       {Name: "Load"},
	OpStore:      {Name: "Store", IsVoid: true},
	OpZero:       {Name: "Zero", IsVoid: true},

	// Struct access — pure (just pointer arithmetic)
	OpFieldPtr: {Name: "FieldPtr", IsPure: true},

	// Conversion — pure
	OpIntToDouble:  {Name: "IntToDouble", IsPure: true},
	OpUIntToDouble: {Name: "UIntToDouble", IsPure: true},
	OpZeroExt:      {Name: "ZeroExt", IsPure: true},

	// Calls — NOT pure (side effects)
	OpCall: {Name: "Call"},

	OpArg: {Name: "Arg", IsPure: true},
}

// String returns the human-readable name of the op.
func (o Op) String() string {
	if o >= 0 && int(o) < len(opInfoTable) {
		return opInfoTable[o].Name
	}
	return "unknown"
}

// Info returns the OpInfo for this op.
func (o Op) Info() OpInfo {
	if o >= 0 && int(o) < len(opInfoTable) {
		return opInfoTable[o]
	}
	return OpInfo{Name: "unknown"}
}

// IsPure returns true if this op has no side effects.
func (o Op) IsPure() bool {
	return o.Info().IsPure
}

// IsVoid returns true if this op produces no value.
func (o Op) IsVoid() bool {
	return o.Info().IsVoid
}

// IsConst returns true if this op is a constant.
func (o Op) IsConst() bool {
	return o >= OpConstInt && o <= OpConstBool
}
