package ir

import "github.com/ainfosec/crema/internal/types"

// Global represents one module-level storage location, produced from a
// top-level variable declaration.
type Global struct {
	Name string
	Type types.Type
}

// StructDef records the layout of one declared struct type: member
// types in declaration order.
type StructDef struct {
	Name    string
	Members []string
	Fields  []types.Type
}

// FieldIndex returns the ordinal of the named member, or -1.
func (d *StructDef) FieldIndex(name string) int {
	for i, m := range d.Members {
		if m == name {
			return i
		}
	}
	return -1
}

// Module is the unit of code generation: the structs, globals, and
// functions produced from one program.
type Module struct {
	Name    string
	Structs []*StructDef
	Globals []*Global
	Funcs   []*Func
}

// NewModule creates an empty module with the given name.
func NewModule(name string) *Module {
	return &Module{Name: name}
}

// StructDef returns the definition of the named struct, or nil.
func (m *Module) StructDef(name string) *StructDef {
	for _, s := range m.Structs {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Func returns the function with the given name, or nil.
func (m *Module) Func(name string) *Func {
	for _, f := range m.Funcs {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Global returns the global with the given name, or nil.
func (m *Module) Global(name string) *Global {
	for _, g := range m.Globals {
		if g.Name == name {
			return g
		}
	}
	return nil
}
