package rtabi

// Runtime function names (must match the stdlib declarations)
const (
	// Program arguments
	FnSaveArgs = "save_args"
	FnArgCount = "prog_arg_count"
	FnArgument = "prog_argument"

	// Generic list operations
	FnListCreate = "list_create"
	FnListLength = "list_length"
	FnListConcat = "list_concat"

	// Typed list element access
	FnIntListAppend      = "int_list_append"
	FnIntListRetrieve    = "int_list_retrieve"
	FnIntListInsert      = "int_list_insert"
	FnDoubleListAppend   = "double_list_append"
	FnDoubleListRetrieve = "double_list_retrieve"
	FnDoubleListInsert   = "double_list_insert"

	// Strings (char lists with their own helpers)
	FnStrCreate   = "str_create"
	FnStrAppend   = "str_append"
	FnStrRetrieve = "str_retrieve"
	FnStrInsert   = "str_insert"
	FnStrConcat   = "str_concat"

	// I/O
	FnStrPrint    = "str_print"
	FnStrPrintln  = "str_println"
	FnIntPrint    = "int_print"
	FnDoublePrint = "double_print"

	// Math
	FnIntPow     = "int_pow"
	FnDoubleSqrt = "double_sqrt"

	// Numeric-to-string conversion (string upcasts)
	FnIntToStr    = "int_to_str"
	FnUIntToStr   = "uint_to_str"
	FnDoubleToStr = "double_to_str"
)

// EntryName is the name of the emitted program entry point.
const EntryName = "main"

// FuncSignature describes a runtime function's signature for code generation.
type FuncSignature struct {
	Name       string   // function name
	ReturnType string   // LLVM return type ("void", "ptr", etc.)
	ParamTypes []string // LLVM parameter types
}

// RuntimeFunctions returns the signatures of all runtime-support functions.
func RuntimeFunctions() []FuncSignature {
	return []FuncSignature{
		// Program arguments
		{Name: FnSaveArgs, ReturnType: LLVMTypeVoid, ParamTypes: []string{LLVMTypeInt, LLVMTypePtr}},
		{Name: FnArgCount, ReturnType: LLVMTypeInt, ParamTypes: nil},
		{Name: FnArgument, ReturnType: LLVMTypePtr, ParamTypes: []string{LLVMTypeInt}},

		// Generic list operations
		{Name: FnListCreate, ReturnType: LLVMTypePtr, ParamTypes: []string{LLVMTypeInt}},
		{Name: FnListLength, ReturnType: LLVMTypeInt, ParamTypes: []string{LLVMTypePtr}},
		{Name: FnListConcat, ReturnType: LLVMTypeVoid, ParamTypes: []string{LLVMTypePtr, LLVMTypePtr}},

		// Typed list element access
		{Name: FnIntListAppend, ReturnType: LLVMTypeVoid, ParamTypes: []string{LLVMTypePtr, LLVMTypeInt}},
		{Name: FnIntListRetrieve, ReturnType: LLVMTypeInt, ParamTypes: []string{LLVMTypePtr, LLVMTypeInt}},
		{Name: FnIntListInsert, ReturnType: LLVMTypeVoid, ParamTypes: []string{LLVMTypePtr, LLVMTypeInt, LLVMTypeInt}},
		{Name: FnDoubleListAppend, ReturnType: LLVMTypeVoid, ParamTypes: []string{LLVMTypePtr, LLVMTypeDouble}},
		{Name: FnDoubleListRetrieve, ReturnType: LLVMTypeDouble, ParamTypes: []string{LLVMTypePtr, LLVMTypeInt}},
		{Name: FnDoubleListInsert, ReturnType: LLVMTypeVoid, ParamTypes: []string{LLVMTypePtr, LLVMTypeInt, LLVMTypeDouble}},

		// Strings
		{Name: FnStrCreate, ReturnType: LLVMTypePtr, ParamTypes: nil},
		{Name: FnStrAppend, ReturnType: LLVMTypeVoid, ParamTypes: []string{LLVMTypePtr, LLVMTypeChar}},
		{Name: FnStrRetrieve, ReturnType: LLVMTypeChar, ParamTypes: []string{LLVMTypePtr, LLVMTypeInt}},
		{Name: FnStrInsert, ReturnType: LLVMTypeVoid, ParamTypes: []string{LLVMTypePtr, LLVMTypeInt, LLVMTypeChar}},
		{Name: FnStrConcat, ReturnType: LLVMTypeVoid, ParamTypes: []string{LLVMTypePtr, LLVMTypePtr}},

		// I/O
		{Name: FnStrPrint, ReturnType: LLVMTypeVoid, ParamTypes: []string{LLVMTypePtr}},
		{Name: FnStrPrintln, ReturnType: LLVMTypeVoid, ParamTypes: []string{LLVMTypePtr}},
		{Name: FnIntPrint, ReturnType: LLVMTypeVoid, ParamTypes: []string{LLVMTypeInt}},
		{Name: FnDoublePrint, ReturnType: LLVMTypeVoid, ParamTypes: []string{LLVMTypeDouble}},

		// Math
		{Name: FnIntPow, ReturnType: LLVMTypeInt, ParamTypes: []string{LLVMTypeInt, LLVMTypeInt}},
		{Name: FnDoubleSqrt, ReturnType: LLVMTypeDouble, ParamTypes: []string{LLVMTypeDouble}},

		// Numeric-to-string conversion
		{Name: FnIntToStr, ReturnType: LLVMTypePtr, ParamTypes: []string{LLVMTypeInt}},
		{Name: FnUIntToStr, ReturnType: LLVMTypePtr, ParamTypes: []string{LLVMTypeUInt}},
		{Name: FnDoubleToStr, ReturnType: LLVMTypePtr, ParamTypes: []string{LLVMTypeDouble}},
	}
}
