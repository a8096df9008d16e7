// Package types defines the Crema type model: the closed set of type
// codes, the list and struct modifiers, and the upcast partial order
// used by the semantic analyzer and the code generator.
package types

import "fmt"

// Code identifies one of the built-in Crema types.
type Code int

const (
	Invalid Code = iota // produced when no valid type can be assigned
	Int
	UInt
	Double
	Char
	Bool
	String
	Void
	Struct

	codeCount
)

var codeNames = [codeCount]string{
	Invalid: "invalid",
	Int:     "int",
	UInt:    "uint",
	Double:  "double",
	Char:    "char",
	Bool:    "bool",
	String:  "string",
	Void:    "void",
	Struct:  "struct",
}

// String returns the source-level name of the code.
func (c Code) String() string {
	if c < 0 || c >= codeCount {
		return fmt.Sprintf("Code(%d)", int(c))
	}
	return codeNames[c]
}

// CodeFromString returns the code with the given source-level name.
// Returns Invalid if the name is unknown.
func CodeFromString(s string) Code {
	for c := Code(0); c < codeCount; c++ {
		if codeNames[c] == s {
			return c
		}
	}
	return Invalid
}

// Type is a Crema type: a code plus the list modifier, and a struct
// name when the code is Struct. Type is a small comparable value;
// types are compared with Equal, not ==, because two struct types with
// the same name are the same type regardless of how they were built.
type Type struct {
	code       Code
	list       bool
	structName string
}

// Typ contains the predeclared scalar types, indexed by code.
var Typ = [codeCount]Type{
	Invalid: {code: Invalid},
	Int:     {code: Int},
	UInt:    {code: UInt},
	Double:  {code: Double},
	Char:    {code: Char},
	Bool:    {code: Bool},
	String:  {code: String},
	Void:    {code: Void},
	Struct:  {code: Struct},
}

// List returns the list type with element code c.
func List(c Code) Type {
	return Type{code: c, list: true}
}

// StructOf returns the struct type with the given declared name.
func StructOf(name string) Type {
	return Type{code: Struct, structName: name}
}

// Code returns the type's code.
func (t Type) Code() Code { return t.code }

// IsList reports whether the type carries the list modifier.
func (t Type) IsList() bool { return t.list }

// IsStruct reports whether the type is a struct type.
func (t Type) IsStruct() bool { return t.code == Struct }

// StructName returns the declared struct name, or "" for non-structs.
func (t Type) StructName() string { return t.structName }

// Elem returns the scalar element type of a list, or the type itself
// if it is not a list.
func (t Type) Elem() Type {
	if !t.list {
		return t
	}
	return Type{code: t.code, structName: t.structName}
}

// IsValid reports whether the type is not Invalid.
func (t Type) IsValid() bool { return t.code != Invalid }

// IsNumeric reports whether the type is a scalar Int, UInt, or Double.
func (t Type) IsNumeric() bool {
	return !t.list && (t.code == Int || t.code == UInt || t.code == Double)
}

// String returns the source-level spelling of the type, e.g.
// "int", "int list", "struct Point".
func (t Type) String() string {
	s := t.code.String()
	if t.code == Struct && t.structName != "" {
		s = "struct " + t.structName
	}
	if t.list {
		s += " list"
	}
	return s
}
