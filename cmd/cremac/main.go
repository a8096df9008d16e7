// Package main implements the Crema compiler entry point.
//
// The front end consumes a serialized AST (JSON) produced by the
// parser, runs semantic analysis, lowers the program to IR, and emits
// LLVM assembly.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/ainfosec/crema/internal/ast"
	"github.com/ainfosec/crema/internal/codegen"
	"github.com/ainfosec/crema/internal/ir"
	"github.com/ainfosec/crema/internal/sema"
	"github.com/ainfosec/crema/internal/types"
)

// Compiler flags
var (
	emitAST    = flag.Bool("emit-ast", false, "Re-serialize the checked AST")
	emitIR     = flag.Bool("emit-ir", false, "Output IR")
	emitLayout = flag.Bool("emit-layout", false, "Output struct layouts")
	irVerify   = flag.Bool("ir-verify", false, "Verify the IR after lowering")
	noWarn     = flag.Bool("no-warn", false, "Suppress warnings")
	output     = flag.String("o", "", "Output file (default stdout)")
	version    = flag.Bool("version", false, "Print version")
)

// Version information
const Version = "0.1.0-dev"

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Crema Compiler %s\n\n", Version)
		fmt.Fprintf(os.Stderr, "Usage: cremac [options] <file.ast.json>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *version {
		fmt.Printf("cremac version %s\n", Version)
		fmt.Printf("go version %s\n", runtime.Version())
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "error: no input file")
		fmt.Fprintln(os.Stderr, "usage: cremac [options] <file.ast.json>")
		os.Exit(1)
	}

	filename := args[0]

	if *emitAST {
		os.Exit(runEmitAST(filename))
	}
	if *emitLayout {
		os.Exit(runEmitLayout(filename))
	}
	if *emitIR {
		os.Exit(runEmitIR(filename))
	}

	// Default: full pipeline down to LLVM assembly.
	os.Exit(runEmitLL(filename))
}

// loadProgram reads and decodes the serialized AST.
func loadProgram(filename string) (*ast.Block, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ast.DecodeJSON(f)
}

// analyze runs semantic analysis, reporting warnings and errors to
// stderr. A nil context means the program was rejected.
func analyze(root *ast.Block) (*sema.Context, *sema.Info) {
	ctx := sema.NewContext()
	info := sema.NewInfo()
	conf := &sema.Config{}
	if !*noWarn {
		conf.Warn = func(pos ast.Pos, msg string) {
			fmt.Fprintf(os.Stderr, "warning: %s: %s\n", pos, msg)
		}
	}

	if err := sema.Analyze(root, ctx, conf, info); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return nil, nil
	}
	return ctx, info
}

// outputFile returns the destination for emitted output.
func outputFile() (*os.File, func(), error) {
	if *output == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(*output)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

// runEmitAST decodes, checks, and re-serializes the program.
func runEmitAST(filename string) int {
	root, err := loadProgram(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	ctx, _ := analyze(root)
	if ctx == nil {
		return 1
	}

	w, done, err := outputFile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer done()

	if err := ast.FprintJSON(w, root); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// runEmitLayout checks the program and prints the memory layout of
// every declared struct.
func runEmitLayout(filename string) int {
	root, err := loadProgram(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	ctx, _ := analyze(root)
	if ctx == nil {
		return 1
	}

	w, done, err := outputFile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer done()

	fmt.Fprintln(w, "=== Struct Layouts ===")

	// Walk the tree so structs print in declaration order.
	ast.Inspect(root, func(n ast.Node) bool {
		sd, ok := n.(*ast.StructDecl)
		if !ok {
			return true
		}

		members := make([]types.Type, len(sd.Members))
		for i, m := range sd.Members {
			members[i] = m.DeclType
		}
		size, offsets := types.LayoutOf(members)

		fmt.Fprintf(w, "\nstruct %s {\n", sd.Name.Value)
		for i, m := range sd.Members {
			fmt.Fprintf(w, "    %-10s %-12s // offset: %d, align: %d\n",
				m.Name.Value, m.DeclType, offsets[i], types.AlignOf(m.DeclType))
		}
		fmt.Fprintf(w, "}\n// size: %d\n", size)
		return true
	})

	return 0
}

// runEmitIR checks the program, lowers it, and prints the IR module.
func runEmitIR(filename string) int {
	m := buildModule(filename)
	if m == nil {
		return 1
	}

	w, done, err := outputFile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer done()

	ir.FprintModule(w, m)
	return 0
}

// runEmitLL runs the full pipeline and emits LLVM assembly.
func runEmitLL(filename string) int {
	m := buildModule(filename)
	if m == nil {
		return 1
	}

	w, done, err := outputFile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer done()

	if err := codegen.EmitModule(w, m); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// buildModule runs the pipeline through IR lowering. A nil result
// means a diagnostic was already printed.
func buildModule(filename string) *ir.Module {
	root, err := loadProgram(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return nil
	}

	ctx, info := analyze(root)
	if ctx == nil {
		return nil
	}

	m := codegen.Generate(root, ctx, info)

	if *irVerify {
		if err := ir.VerifyModule(m); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return nil
		}
	}
	return m
}
