package types

import "testing"

func TestScopeInsertAndLookup(t *testing.T) {
	scope := NewScope(nil, "test")

	v := NewVar("x", Typ[Int])
	existing := scope.Insert(v)
	if existing != nil {
		t.Errorf("Insert() returned non-nil for first insert")
	}

	if found := scope.Lookup("x"); found != v {
		t.Errorf("Lookup() did not return inserted variable")
	}

	// Insert duplicate
	v2 := NewVar("x", Typ[Double])
	existing = scope.Insert(v2)
	if existing != v {
		t.Errorf("Insert() should return first variable for duplicate")
	}
}

func TestScopeLookupParent(t *testing.T) {
	parent := NewScope(nil, "parent")
	child := NewScope(parent, "child")

	v := NewVar("x", Typ[Int])
	parent.Insert(v)

	// Lookup in child should find parent's variable
	found, foundScope := child.LookupParent("x")
	if found != v {
		t.Errorf("LookupParent() did not find parent's variable")
	}
	if foundScope != parent {
		t.Errorf("LookupParent() returned wrong scope")
	}

	// Direct lookup in child should fail
	if child.Lookup("x") != nil {
		t.Errorf("Lookup() should not find parent's variable")
	}
}

func TestScopeShadowing(t *testing.T) {
	parent := NewScope(nil, "parent")
	child := NewScope(parent, "child")

	parentVar := NewVar("x", Typ[Int])
	parent.Insert(parentVar)

	childVar := NewVar("x", Typ[Double])
	child.Insert(childVar)

	// LookupParent in child should find child's variable (shadowing)
	found, foundScope := child.LookupParent("x")
	if found != childVar {
		t.Errorf("LookupParent() should find child's shadowing variable")
	}
	if foundScope != child {
		t.Errorf("LookupParent() should return child scope")
	}
}

func TestScopeHierarchy(t *testing.T) {
	// top-level -> function -> loop body
	top := NewScope(nil, "top-level")
	fn := NewScope(top, "function f")
	loop := NewScope(fn, "loop body")

	top.Insert(NewVar("g", Typ[Int]))
	fn.Insert(NewVar("param", Typ[Double]))
	loop.Insert(NewVar("elem", Typ[Char]))

	for _, name := range []string{"g", "param", "elem"} {
		if found, _ := loop.LookupParent(name); found == nil {
			t.Errorf("LookupParent(%q) failed from loop body", name)
		}
	}
}

func TestScopeNames(t *testing.T) {
	scope := NewScope(nil, "test")

	scope.Insert(NewVar("b", Typ[Double]))
	scope.Insert(NewVar("a", Typ[Int]))
	scope.Insert(NewVar("c", Typ[Bool]))

	names := scope.Names()
	if len(names) != 3 {
		t.Fatalf("Names() returned %d names, want 3", len(names))
	}

	// Names should be sorted
	expected := []string{"a", "b", "c"}
	for i, name := range expected {
		if names[i] != name {
			t.Errorf("Names()[%d] = %q, want %q", i, names[i], name)
		}
	}
}

func TestScopeParentAndComment(t *testing.T) {
	parent := NewScope(nil, "parent")
	child := NewScope(parent, "child")

	if child.Parent() != parent {
		t.Errorf("Parent() != expected parent")
	}
	if parent.Parent() != nil {
		t.Errorf("Parent() should be nil for root scope")
	}
	if child.Comment() != "child" {
		t.Errorf("Comment() = %q, want %q", child.Comment(), "child")
	}
}

func TestVarParentScope(t *testing.T) {
	scope := NewScope(nil, "test")
	v := NewVar("x", Typ[Int])

	if v.Parent() != nil {
		t.Errorf("Parent() should be nil before insertion")
	}

	scope.Insert(v)

	if v.Parent() != scope {
		t.Errorf("Parent() should be set after insertion")
	}
}

func TestVarGlobal(t *testing.T) {
	v := NewVar("x", Typ[Int])
	if v.IsGlobal() {
		t.Errorf("IsGlobal() = true before MarkGlobal")
	}
	v.MarkGlobal()
	if !v.IsGlobal() {
		t.Errorf("IsGlobal() = false after MarkGlobal")
	}
}
