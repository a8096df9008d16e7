// Package rtabi defines the ABI constants shared between the compiler and
// the runtime-support library. These values must be kept in sync with the
// stdlib declarations linked into compiled programs.
package rtabi

// Basic type sizes in bytes
const (
	SizeInt    = 8 // int64_t
	SizeUInt   = 8 // uint64_t
	SizeDouble = 8 // double
	SizeChar   = 1 // char
	SizeBool   = 1 // stored as a byte, i1 in registers
	SizePtr    = 8 // pointer (lists, strings, structs)
)

// Basic type alignments in bytes
const (
	AlignInt    = 8
	AlignUInt   = 8
	AlignDouble = 8
	AlignChar   = 1
	AlignBool   = 1
	AlignPtr    = 8
)

// LLVM type names for code generation
const (
	LLVMTypeInt    = "i64"
	LLVMTypeUInt   = "i64"
	LLVMTypeDouble = "double"
	LLVMTypeChar   = "i8"
	LLVMTypeBool   = "i1"
	LLVMTypePtr    = "ptr" // opaque pointer (LLVM 15+)
	LLVMTypeVoid   = "void"
)
