package ir

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ainfosec/crema/internal/types"
)

// Fprint writes the IR representation of a function to w.
//
// Format:
//
//	func name(params) result:
//	  b0: (entry)
//	    v1 = Arg <int> {n}
//	    v2 = ConstInt <int> [42]
//	    v3 = AddI <int> v1 v2
//	    Return v3
func Fprint(w io.Writer, f *Func) {
	fmt.Fprintf(w, "func %s(", f.Name)
	for i, p := range f.Params {
		if i > 0 {
			fmt.Fprintf(w, ", ")
		}
		fmt.Fprintf(w, "%s %s", p.Name, p.Type)
	}
	fmt.Fprintf(w, ")")
	if f.Result.Code() != types.Void {
		fmt.Fprintf(w, " %s", f.Result)
	}
	if f.IsExtern() {
		fmt.Fprintf(w, " [extern]\n")
		return
	}
	fmt.Fprintf(w, ":\n")

	for _, b := range f.Blocks {
		fprintBlock(w, b, f)
	}
}

// FprintModule writes the IR representation of a whole module to w:
// struct layouts, globals, then every function.
func FprintModule(w io.Writer, m *Module) {
	fmt.Fprintf(w, "module %s\n", m.Name)
	for _, s := range m.Structs {
		fmt.Fprintf(w, "struct %s {", s.Name)
		for i, ft := range s.Fields {
			if i > 0 {
				fmt.Fprintf(w, ",")
			}
			fmt.Fprintf(w, " %s %s", s.Members[i], ft)
		}
		fmt.Fprintf(w, " }\n")
	}
	for _, g := range m.Globals {
		fmt.Fprintf(w, "global %s %s\n", g.Name, g.Type)
	}
	for _, f := range m.Funcs {
		Fprint(w, f)
	}
}

// fprintBlock writes a single block to w.
func fprintBlock(w io.Writer, b *Block, f *Func) {
	label := ""
	if b == f.Entry {
		label = " (entry)"
	}

	// Show predecessor list for non-entry blocks
	predsStr := ""
	if len(b.Preds) > 0 {
		preds := make([]string, len(b.Preds))
		for i, p := range b.Preds {
			preds[i] = p.String()
		}
		predsStr = " <- " + strings.Join(preds, " ")
	}

	fmt.Fprintf(w, "  %s:%s%s\n", b, label, predsStr)

	for _, v := range b.Values {
		fmt.Fprintf(w, "    %s\n", formatValue(v))
	}

	fmt.Fprintf(w, "    %s\n", formatTerminator(b))
}

// formatValue formats a value as a string.
func formatValue(v *Value) string {
	var sb strings.Builder

	// For void ops, don't print "vN = "
	if v.Op.IsVoid() {
		sb.WriteString(v.Op.String())
	} else {
		fmt.Fprintf(&sb, "v%d = %s", v.ID, v.Op)
	}

	if v.Type.IsValid() {
		fmt.Fprintf(&sb, " <%s>", v.Type)
	}

	// AuxInt (always show for const and index-carrying ops, otherwise
	// only if non-zero)
	switch v.Op {
	case OpConstInt, OpConstUInt, OpConstChar, OpConstBool:
		fmt.Fprintf(&sb, " [%d]", v.AuxInt)
	case OpZero, OpFieldPtr, OpArg:
		fmt.Fprintf(&sb, " [%d]", v.AuxInt)
	case OpConstDouble:
		fmt.Fprintf(&sb, " [%g]", v.AuxFloat)
	default:
		if v.AuxInt != 0 {
			fmt.Fprintf(&sb, " [%d]", v.AuxInt)
		}
	}

	if v.Aux != nil {
		fmt.Fprintf(&sb, " {%v}", v.Aux)
	}

	for _, arg := range v.Args {
		fmt.Fprintf(&sb, " v%d", arg.ID)
	}

	return sb.String()
}

// formatTerminator formats a block terminator.
func formatTerminator(b *Block) string {
	switch b.Kind {
	case BlockPlain:
		if len(b.Succs) > 0 {
			return fmt.Sprintf("Plain -> %s", b.Succs[0])
		}
		return "Plain"
	case BlockIf:
		if len(b.Controls) > 0 && len(b.Succs) >= 2 {
			return fmt.Sprintf("If v%d -> %s %s", b.Controls[0].ID, b.Succs[0], b.Succs[1])
		}
		return "If (malformed)"
	case BlockReturn:
		if len(b.Controls) > 0 && b.Controls[0] != nil {
			return fmt.Sprintf("Return v%d", b.Controls[0].ID)
		}
		return "Return"
	case BlockExit:
		return "Exit"
	default:
		return "???"
	}
}

// Sprint returns the IR representation of a function as a string.
func Sprint(f *Func) string {
	var sb strings.Builder
	Fprint(&sb, f)
	return sb.String()
}

// SprintModule returns the IR representation of a module as a string.
func SprintModule(m *Module) string {
	var sb strings.Builder
	FprintModule(&sb, m)
	return sb.String()
}

// Print writes the IR representation of a function to stdout.
func Print(f *Func) {
	Fprint(os.Stdout, f)
}
