package ir

import (
	"github.com/ainfosec/crema/internal/ast"
	"github.com/ainfosec/crema/internal/types"
)

// Param describes one function parameter.
type Param struct {
	Name string
	Type types.Type
}

// Func represents one IR function.
// It contains a control flow graph of Blocks, each containing Values.
// External declarations have no blocks.
type Func struct {
	// Name is the function name.
	Name string

	// Params is the parameter list.
	Params []Param

	// Result is the return type (Void for none).
	Result types.Type

	// Blocks is the list of basic blocks. Blocks[0] is always the
	// entry block. Empty for external declarations.
	Blocks []*Block

	// Entry is the entry block (same as Blocks[0]).
	Entry *Block

	// nextValueID is the next available value ID.
	nextValueID ID

	// nextBlockID is the next available block ID.
	nextBlockID ID
}

// NewFunc creates a new IR function with the given signature.
// An entry block is automatically created.
func NewFunc(name string, params []Param, result types.Type) *Func {
	f := &Func{
		Name:   name,
		Params: params,
		Result: result,
	}
	f.Entry = f.NewBlock(BlockPlain)
	return f
}

// NewExtern creates an external function declaration with no body.
func NewExtern(name string, params []Param, result types.Type) *Func {
	return &Func{
		Name:   name,
		Params: params,
		Result: result,
	}
}

// IsExtern reports whether the function is an external declaration.
func (f *Func) IsExtern() bool {
	return len(f.Blocks) == 0
}

// NewBlock creates a new basic block with the given kind and appends
// it to the function.
func (f *Func) NewBlock(kind BlockKind) *Block {
	b := &Block{
		ID:   f.nextBlockID,
		Kind: kind,
		Func: f,
	}
	f.nextBlockID++
	f.Blocks = append(f.Blocks, b)
	return b
}

// NewValue creates a new Value in the given block.
func (f *Func) NewValue(b *Block, op Op, typ types.Type, args ...*Value) *Value {
	v := &Value{
		ID:    f.nextValueID,
		Op:    op,
		Type:  typ,
		Block: b,
	}
	f.nextValueID++
	for _, arg := range args {
		v.AddArg(arg)
	}
	b.Values = append(b.Values, v)
	return v
}

// NewValuePos creates a new Value with source position in the given block.
func (f *Func) NewValuePos(b *Block, op Op, typ types.Type, pos ast.Pos, args ...*Value) *Value {
	v := f.NewValue(b, op, typ, args...)
	v.Pos = pos
	return v
}

// NumBlocks returns the number of blocks in the function.
func (f *Func) NumBlocks() int { return len(f.Blocks) }

// NumValues returns the total number of values across all blocks.
func (f *Func) NumValues() int {
	n := 0
	for _, b := range f.Blocks {
		n += len(b.Values)
	}
	return n
}
