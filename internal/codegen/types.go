package codegen

import (
	"github.com/ainfosec/crema/internal/rtabi"
	"github.com/ainfosec/crema/internal/types"
)

// llvmType maps a Crema type to its LLVM IR type string. Lists,
// strings, and structs are runtime handles behind opaque pointers;
// struct storage itself uses the named struct type.
func llvmType(t types.Type) string {
	if t.IsList() {
		return rtabi.LLVMTypePtr
	}
	switch t.Code() {
	case types.Int:
		return rtabi.LLVMTypeInt
	case types.UInt:
		return rtabi.LLVMTypeUInt
	case types.Double:
		return rtabi.LLVMTypeDouble
	case types.Char:
		return rtabi.LLVMTypeChar
	case types.Bool:
		return rtabi.LLVMTypeBool
	case types.String:
		return rtabi.LLVMTypePtr
	case types.Struct:
		return "%struct." + t.StructName()
	}
	return rtabi.LLVMTypeVoid
}

// llvmValueType returns the LLVM type of an IR value, "void" when the
// value carries no type.
func llvmValueType(t types.Type) string {
	if !t.IsValid() {
		return rtabi.LLVMTypeVoid
	}
	return llvmType(t)
}
