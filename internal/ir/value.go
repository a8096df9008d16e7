package ir

import (
	"fmt"

	"github.com/ainfosec/crema/internal/ast"
	"github.com/ainfosec/crema/internal/types"
)

// ID is a unique identifier for Values and Blocks within a Func.
type ID int32

// Value represents a single IR computation.
// Each Value has exactly one definition and may be used by other Values.
type Value struct {
	// ID is a unique identifier within the containing Func.
	ID ID

	// Op is the operation this value computes.
	Op Op

	// Type is the result type of this value.
	// The Invalid type for void operations (Store, Zero, void Call).
	Type types.Type

	// Args are the input values to this operation.
	Args []*Value

	// Block is the basic block that contains this value.
	Block *Block

	// AuxInt holds an auxiliary integer (constant value, member index,
	// argument index, zero size).
	AuxInt int64

	// AuxFloat holds an auxiliary float (for OpConstDouble).
	AuxFloat float64

	// Aux holds arbitrary auxiliary data (callee name, global name,
	// struct name).
	Aux interface{}

	// Uses tracks the number of references to this value.
	Uses int32

	// Pos is the source position associated with this value.
	Pos ast.Pos
}

// String returns a short string representation of the value (e.g., "v5").
func (v *Value) String() string {
	return fmt.Sprintf("v%d", v.ID)
}

// LongString returns a detailed representation including op, type, and args.
func (v *Value) LongString() string {
	s := fmt.Sprintf("v%d = %s", v.ID, v.Op)
	if v.Type.IsValid() {
		s += fmt.Sprintf(" <%s>", v.Type)
	}
	if v.AuxInt != 0 || v.Op.IsConst() && v.Op != OpConstDouble {
		s += fmt.Sprintf(" [%d]", v.AuxInt)
	}
	if v.Op == OpConstDouble {
		s += fmt.Sprintf(" [%g]", v.AuxFloat)
	}
	if v.Aux != nil {
		s += fmt.Sprintf(" {%v}", v.Aux)
	}
	for _, arg := range v.Args {
		s += " " + arg.String()
	}
	return s
}

// AddArg appends a value to the argument list and increments the arg's
// use count.
func (v *Value) AddArg(arg *Value) {
	v.Args = append(v.Args, arg)
	arg.Uses++
}

// SetArgs replaces the argument list, adjusting use counts.
func (v *Value) SetArgs(args []*Value) {
	for _, old := range v.Args {
		old.Uses--
	}
	v.Args = args
	for _, arg := range args {
		arg.Uses++
	}
}

// IsPure returns true if this value's op has no side effects.
func (v *Value) IsPure() bool {
	return v.Op.IsPure()
}
