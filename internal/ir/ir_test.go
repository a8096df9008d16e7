package ir

import (
	"strings"
	"testing"

	"github.com/ainfosec/crema/internal/types"
)

// buildAddFunc builds `func add(a int, b int) int` by hand.
func buildAddFunc() *Func {
	params := []Param{
		{Name: "a", Type: types.Typ[types.Int]},
		{Name: "b", Type: types.Typ[types.Int]},
	}
	f := NewFunc("add", params, types.Typ[types.Int])

	a := f.NewValue(f.Entry, OpArg, types.Typ[types.Int])
	a.Aux = "a"
	b := f.NewValue(f.Entry, OpArg, types.Typ[types.Int])
	b.AuxInt = 1
	b.Aux = "b"
	sum := f.NewValue(f.Entry, OpAddI, types.Typ[types.Int], a, b)

	f.Entry.Kind = BlockReturn
	f.Entry.SetControl(sum)
	return f
}

func TestNewFunc(t *testing.T) {
	f := buildAddFunc()

	if f.NumBlocks() != 1 {
		t.Errorf("NumBlocks() = %d, want 1", f.NumBlocks())
	}
	if f.Entry != f.Blocks[0] {
		t.Error("Entry is not Blocks[0]")
	}
	if f.NumValues() != 3 {
		t.Errorf("NumValues() = %d, want 3", f.NumValues())
	}
	if f.IsExtern() {
		t.Error("IsExtern() = true for a function with a body")
	}
}

func TestNewExtern(t *testing.T) {
	f := NewExtern("ext", nil, types.Typ[types.Void])
	if !f.IsExtern() {
		t.Error("IsExtern() = false for an extern")
	}
	if err := Verify(f); err != nil {
		t.Errorf("Verify(extern) failed: %v", err)
	}
}

func TestUseCounts(t *testing.T) {
	f := buildAddFunc()
	a := f.Entry.Values[0]
	sum := f.Entry.Values[2]

	if a.Uses != 1 {
		t.Errorf("arg Uses = %d, want 1", a.Uses)
	}
	// The sum is used once, as the return control.
	if sum.Uses != 1 {
		t.Errorf("sum Uses = %d, want 1", sum.Uses)
	}
}

func TestSprint(t *testing.T) {
	f := buildAddFunc()
	out := Sprint(f)

	for _, want := range []string{
		"func add(a int, b int) int:",
		"(entry)",
		"v2 = AddI <int> v0 v1",
		"Return v2",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Sprint() missing %q:\n%s", want, out)
		}
	}
}

func TestSprintExtern(t *testing.T) {
	f := NewExtern("ext", []Param{{Name: "n", Type: types.Typ[types.Int]}}, types.Typ[types.Void])
	out := Sprint(f)
	if !strings.Contains(out, "func ext(n int) [extern]") {
		t.Errorf("Sprint() = %q, want extern marker", out)
	}
}

func TestSprintModule(t *testing.T) {
	m := NewModule("main")
	m.Structs = append(m.Structs, &StructDef{
		Name:    "Point",
		Members: []string{"x", "y"},
		Fields:  []types.Type{types.Typ[types.Int], types.Typ[types.Int]},
	})
	m.Globals = append(m.Globals, &Global{Name: "count", Type: types.Typ[types.Int]})
	m.Funcs = append(m.Funcs, buildAddFunc())

	out := SprintModule(m)
	for _, want := range []string{
		"module main",
		"struct Point { x int, y int }",
		"global count int",
		"func add(a int, b int) int:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("SprintModule() missing %q:\n%s", want, out)
		}
	}
}

func TestModuleLookups(t *testing.T) {
	m := NewModule("main")
	def := &StructDef{Name: "Point", Members: []string{"x", "y"}}
	m.Structs = append(m.Structs, def)

	if m.StructDef("Point") != def {
		t.Error("StructDef(Point) did not return the definition")
	}
	if m.StructDef("Ghost") != nil {
		t.Error("StructDef(Ghost) returned a definition")
	}
	if def.FieldIndex("y") != 1 {
		t.Errorf("FieldIndex(y) = %d, want 1", def.FieldIndex("y"))
	}
	if def.FieldIndex("z") != -1 {
		t.Errorf("FieldIndex(z) = %d, want -1", def.FieldIndex("z"))
	}
}

// --- Verify ---

func TestVerifyValid(t *testing.T) {
	f := buildAddFunc()
	if err := Verify(f); err != nil {
		t.Errorf("Verify() failed on a valid function:\n%v", err)
	}
}

func TestVerifyBranching(t *testing.T) {
	f := NewFunc("f", nil, types.Typ[types.Int])
	cond := f.NewValue(f.Entry, OpConstBool, types.Typ[types.Bool])
	cond.AuxInt = 1

	bThen := f.NewBlock(BlockReturn)
	bElse := f.NewBlock(BlockReturn)
	f.Entry.Kind = BlockIf
	f.Entry.SetControl(cond)
	f.Entry.AddSucc(bThen)
	f.Entry.AddSucc(bElse)

	one := f.NewValue(bThen, OpConstInt, types.Typ[types.Int])
	one.AuxInt = 1
	bThen.SetControl(one)
	two := f.NewValue(bElse, OpConstInt, types.Typ[types.Int])
	two.AuxInt = 2
	bElse.SetControl(two)

	if err := Verify(f); err != nil {
		t.Errorf("Verify() failed on a valid branch:\n%v", err)
	}
}

func TestVerifyMissingControl(t *testing.T) {
	f := NewFunc("f", nil, types.Typ[types.Int])
	b2 := f.NewBlock(BlockReturn)
	f.Entry.Kind = BlockIf
	f.Entry.AddSucc(b2) // if blocks need two successors and a control

	err := Verify(f)
	if err == nil {
		t.Fatal("Verify() accepted an if block without control")
	}
	if !strings.Contains(err.Error(), "if block has 0 controls") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestVerifyBrokenEdge(t *testing.T) {
	f := NewFunc("f", nil, types.Typ[types.Void])
	b2 := f.NewBlock(BlockReturn)
	// One-sided edge: successor without the matching predecessor.
	f.Entry.Succs = append(f.Entry.Succs, b2)

	err := Verify(f)
	if err == nil {
		t.Fatal("Verify() accepted an asymmetric edge")
	}
	if !strings.Contains(err.Error(), "does not have") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestVerifyAllocaOutsideEntry(t *testing.T) {
	f := NewFunc("f", nil, types.Typ[types.Void])
	b2 := f.NewBlock(BlockReturn)
	f.Entry.Kind = BlockPlain
	f.Entry.AddSucc(b2)

	alloca := f.NewValue(b2, OpAlloca, types.Typ[types.Int])
	alloca.Aux = "x"

	err := Verify(f)
	if err == nil {
		t.Fatal("Verify() accepted an alloca outside the entry block")
	}
	if !strings.Contains(err.Error(), "alloca outside entry block") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestVerifyEntryWithPreds(t *testing.T) {
	f := NewFunc("f", nil, types.Typ[types.Void])
	b2 := f.NewBlock(BlockPlain)
	f.Entry.Kind = BlockPlain
	f.Entry.AddSucc(b2)
	b2.AddSucc(f.Entry) // back edge into the entry block

	err := Verify(f)
	if err == nil {
		t.Fatal("Verify() accepted an entry block with predecessors")
	}
	if !strings.Contains(err.Error(), "entry block") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestVerifyUntypedValue(t *testing.T) {
	f := NewFunc("f", nil, types.Typ[types.Void])
	f.Entry.Kind = BlockReturn
	f.NewValue(f.Entry, OpAddI, types.Typ[types.Invalid])

	err := Verify(f)
	if err == nil {
		t.Fatal("Verify() accepted a non-void value without a type")
	}
	if !strings.Contains(err.Error(), "non-void value has no type") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestVerifyVoidCallAllowed(t *testing.T) {
	f := NewFunc("f", nil, types.Typ[types.Void])
	f.Entry.Kind = BlockReturn
	call := f.NewValue(f.Entry, OpCall, types.Typ[types.Invalid])
	call.Aux = "str_print"

	if err := Verify(f); err != nil {
		t.Errorf("Verify() rejected a void call: %v", err)
	}
}

func TestOpInfo(t *testing.T) {
	if !OpAddI.IsPure() {
		t.Error("OpAddI.IsPure() = false")
	}
	if OpStore.IsPure() {
		t.Error("OpStore.IsPure() = true")
	}
	if !OpStore.IsVoid() {
		t.Error("OpStore.IsVoid() = false")
	}
	if OpCall.IsVoid() {
		t.Error("OpCall.IsVoid() = true")
	}
	if !OpConstInt.IsConst() || OpAddI.IsConst() {
		t.Error("IsConst() misclassified an op")
	}
	if OpAddI.String() != "AddI" {
		t.Errorf("OpAddI.String() = %q", OpAddI.String())
	}
}
