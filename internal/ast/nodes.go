// Package ast defines the Crema abstract syntax tree consumed by the
// semantic analyzer and the code generator. Trees arrive from the
// external parser as JSON (see DecodeJSON) and are immutable once
// built; analysis results live in side tables, not on the nodes.
package ast

import "github.com/ainfosec/crema/internal/types"

// ----------------------------------------------------------------------------
// Interfaces
//
// There are 3 main classes of nodes: Expressions, Statements, and
// Declarations. All nodes implement the Node interface. Declarations
// are statements: they may appear anywhere a statement may.

// Node is the interface implemented by all AST nodes.
type Node interface {
	Pos() Pos // position of first character belonging to the node
	aNode()   // marker method to restrict implementations to this package
}

// Expr is the interface for all expression nodes.
type Expr interface {
	Node
	aExpr()
}

// Stmt is the interface for all statement nodes.
type Stmt interface {
	Node
	aStmt()
}

// Decl is the interface for all declaration nodes.
type Decl interface {
	Stmt
	aDecl()
}

// ----------------------------------------------------------------------------
// Base node types

// node is the base struct embedded in all AST nodes.
type node struct {
	pos Pos
}

func (n *node) Pos() Pos { return n.pos }
func (n *node) aNode()   {}

// SetPos sets the node's position. Used by builders and the decoder.
func (n *node) SetPos(p Pos) { n.pos = p }

// expr is embedded in all expression nodes.
type expr struct{ node }

func (*expr) aExpr() {}

// stmt is embedded in all statement nodes.
type stmt struct{ node }

func (*stmt) aStmt() {}

// decl is embedded in all declaration nodes.
type decl struct{ stmt }

func (*decl) aDecl() {}

// ----------------------------------------------------------------------------
// Declarations

// VarDecl represents a variable declaration: Type Name [= Init]
// Inside a StructDecl or a FuncDecl parameter list, Init is always nil.
type VarDecl struct {
	decl
	DeclType types.Type // declared type
	Name     *Ident     // variable name
	Init     Expr       // initial value (nil if none)
}

// FuncDecl represents a function definition or an external
// declaration. Body is nil for externs.
type FuncDecl struct {
	decl
	Result types.Type // return type (Void for none)
	Name   *Ident     // function name
	Params []*VarDecl // parameter list
	Body   *Block     // function body (nil for extern declarations)
}

// StructDecl represents a struct definition: struct Name { Members }
type StructDecl struct {
	decl
	Name    *Ident     // struct name
	Members []*VarDecl // member declarations, in layout order
}

// ----------------------------------------------------------------------------
// Statements

// Block represents a statement sequence. The whole program is one
// top-level Block; branch and loop bodies are nested Blocks.
type Block struct {
	stmt
	Stmts []Stmt
}

// AssignStmt represents an assignment: Target = Value
// Target is an *Ident, *IndexExpr, or *FieldExpr.
type AssignStmt struct {
	stmt
	Target Expr
	Value  Expr
}

// IfStmt represents a conditional: if Cond Then [else if ...] [else Else]
// At most one of ElseIf and Else is set.
type IfStmt struct {
	stmt
	Cond   Expr
	Then   *Block
	ElseIf *IfStmt // next arm of an else-if chain (nil if none)
	Else   *Block  // final else block (nil if none)
}

// LoopStmt represents list iteration: foreach Elem in List { Body }
// Elem is declared in the body's scope with the list's element type.
type LoopStmt struct {
	stmt
	List *Ident // the list being iterated
	Elem *Ident // per-iteration element variable
	Body *Block
}

// ReturnStmt represents a return statement: return [Result]
type ReturnStmt struct {
	stmt
	Result Expr // return value (nil for void returns)
}

// ExprStmt represents an expression used as a statement.
type ExprStmt struct {
	stmt
	X Expr
}

// ----------------------------------------------------------------------------
// Expressions

// Ident represents an identifier.
type Ident struct {
	expr
	Value string
}

// BinaryExpr represents a binary operation: X Op Y
type BinaryExpr struct {
	expr
	Op Op
	X  Expr
	Y  Expr
}

// CallExpr represents a function call: Name(Args...)
type CallExpr struct {
	expr
	Name *Ident
	Args []Expr
}

// IndexExpr represents a list element access: Name[Index]
type IndexExpr struct {
	expr
	Name  *Ident
	Index Expr
}

// FieldExpr represents a struct member access: Name.Member
type FieldExpr struct {
	expr
	Name   *Ident
	Member *Ident
}

// ----------------------------------------------------------------------------
// Literals

// IntLit represents a signed integer literal.
type IntLit struct {
	expr
	Value int64
}

// UIntLit represents an unsigned integer literal.
type UIntLit struct {
	expr
	Value uint64
}

// DoubleLit represents a floating-point literal.
type DoubleLit struct {
	expr
	Value float64
}

// CharLit represents a character literal.
type CharLit struct {
	expr
	Value rune
}

// BoolLit represents a boolean literal.
type BoolLit struct {
	expr
	Value bool
}

// StrLit represents a string literal (decoded text).
type StrLit struct {
	expr
	Value string
}

// ListLit represents a list literal: [Elems...]
// Empty list literals are rejected by the analyzer.
type ListLit struct {
	expr
	Elems []Expr
}
