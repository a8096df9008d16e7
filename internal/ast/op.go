package ast

import "fmt"

// Op is a binary operator.
type Op int

const (
	OpInvalid Op = iota

	// Arithmetic
	OpAdd // +
	OpSub // -
	OpMul // *
	OpDiv // /
	OpMod // %

	// Bitwise
	OpBitAnd // &
	OpBitOr  // |
	OpBitXor // ^

	// Comparison
	OpEq  // ==
	OpNeq // !=
	OpLt  // <
	OpLeq // <=
	OpGt  // >
	OpGeq // >=

	// Logical
	OpLogAnd // &&
	OpLogOr  // ||

	opCount
)

var opNames = [opCount]string{
	OpInvalid: "invalid",
	OpAdd:     "+",
	OpSub:     "-",
	OpMul:     "*",
	OpDiv:     "/",
	OpMod:     "%",
	OpBitAnd:  "&",
	OpBitOr:   "|",
	OpBitXor:  "^",
	OpEq:      "==",
	OpNeq:     "!=",
	OpLt:      "<",
	OpLeq:     "<=",
	OpGt:      ">",
	OpGeq:     ">=",
	OpLogAnd:  "&&",
	OpLogOr:   "||",
}

// String returns the source-level spelling of the operator.
func (op Op) String() string {
	if op < 0 || op >= opCount {
		return fmt.Sprintf("Op(%d)", int(op))
	}
	return opNames[op]
}

// OpFromString returns the operator with the given spelling.
// Returns OpInvalid if the spelling is unknown.
func OpFromString(s string) Op {
	for op := Op(1); op < opCount; op++ {
		if opNames[op] == s {
			return op
		}
	}
	return OpInvalid
}

// IsComparison reports whether the operator compares its operands and
// yields a bool.
func (op Op) IsComparison() bool {
	return op >= OpEq && op <= OpGeq
}

// IsLogical reports whether the operator is && or ||.
func (op Op) IsLogical() bool {
	return op == OpLogAnd || op == OpLogOr
}
