package types

import "testing"

func TestTypeString(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{Typ[Int], "int"},
		{Typ[UInt], "uint"},
		{Typ[Double], "double"},
		{Typ[Char], "char"},
		{Typ[Bool], "bool"},
		{Typ[String], "string"},
		{Typ[Void], "void"},
		{Typ[Invalid], "invalid"},
		{List(Int), "int list"},
		{List(Double), "double list"},
		{StructOf("Point"), "struct Point"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestCodeFromString(t *testing.T) {
	for c := Code(0); c < codeCount; c++ {
		if got := CodeFromString(c.String()); got != c {
			t.Errorf("CodeFromString(%q) = %v, want %v", c.String(), got, c)
		}
	}
	if got := CodeFromString("complex"); got != Invalid {
		t.Errorf("CodeFromString(unknown) = %v, want Invalid", got)
	}
}

func TestElem(t *testing.T) {
	l := List(Double)
	e := l.Elem()
	if e.Code() != Double || e.IsList() {
		t.Errorf("List(Double).Elem() = %s, want double", e)
	}
	// Elem of a non-list is the type itself.
	if got := Typ[Int].Elem(); !Equal(got, Typ[Int]) {
		t.Errorf("int.Elem() = %s, want int", got)
	}
}

func TestEqual(t *testing.T) {
	if !Equal(Typ[Int], Typ[Int]) {
		t.Error("Equal(int, int) = false")
	}
	if Equal(Typ[Int], Typ[UInt]) {
		t.Error("Equal(int, uint) = true")
	}
	if Equal(Typ[Int], List(Int)) {
		t.Error("Equal(int, int list) = true")
	}
	if !Equal(StructOf("Point"), StructOf("Point")) {
		t.Error("Equal(struct Point, struct Point) = false")
	}
	if Equal(StructOf("Point"), StructOf("Vec")) {
		t.Error("Equal(struct Point, struct Vec) = true")
	}
}

// TestGreaterPairs checks every ordered pair in the upcast order, and
// that everything outside the table is unordered.
func TestGreaterPairs(t *testing.T) {
	pairs := [][2]Code{
		{Double, Int},
		{Double, UInt},
		{Double, Bool},
		{Int, Char},
		{Int, Bool},
		{UInt, Bool},
		{String, Int},
		{String, UInt},
		{String, Double},
	}
	ordered := make(map[[2]Code]bool)
	for _, p := range pairs {
		ordered[p] = true
	}
	for x := Code(0); x < codeCount; x++ {
		for y := Code(0); y < codeCount; y++ {
			want := ordered[[2]Code{x, y}]
			if got := Greater(Typ[x], Typ[y]); got != want {
				t.Errorf("Greater(%s, %s) = %v, want %v", x, y, got, want)
			}
		}
	}
}

// The order is strict: no type is greater than itself, and no pair is
// ordered both ways.
func TestGreaterAntisymmetric(t *testing.T) {
	for x := Code(0); x < codeCount; x++ {
		if Greater(Typ[x], Typ[x]) {
			t.Errorf("Greater(%s, %s) = true", x, x)
		}
		for y := Code(0); y < codeCount; y++ {
			if Greater(Typ[x], Typ[y]) && Greater(Typ[y], Typ[x]) {
				t.Errorf("Greater ordered both ways for %s and %s", x, y)
			}
		}
	}
}

func TestGreaterLists(t *testing.T) {
	// Lists never participate in the upcast order.
	if Greater(List(Double), List(Int)) {
		t.Error("Greater(double list, int list) = true")
	}
	if Greater(Typ[Double], List(Int)) {
		t.Error("Greater(double, int list) = true")
	}
	if Greater(List(Double), Typ[Int]) {
		t.Error("Greater(double list, int) = true")
	}
}

func TestGetLargerType(t *testing.T) {
	tests := []struct {
		x, y Type
		want Type
	}{
		{Typ[Int], Typ[Int], Typ[Int]},
		{Typ[Int], Typ[Double], Typ[Double]},
		{Typ[Double], Typ[Int], Typ[Double]},
		{Typ[Char], Typ[Int], Typ[Int]},
		{Typ[Bool], Typ[UInt], Typ[UInt]},
		{Typ[Int], Typ[String], Typ[String]},
		{List(Int), List(Int), List(Int)},
		// Unordered pairs collapse to Invalid.
		{Typ[Char], Typ[Double], Typ[Invalid]},
		{Typ[Char], Typ[UInt], Typ[Invalid]},
		{Typ[Int], Typ[Void], Typ[Invalid]},
		{List(Int), List(Double), Typ[Invalid]},
		{StructOf("A"), StructOf("B"), Typ[Invalid]},
	}
	for _, tt := range tests {
		if got := GetLargerType(tt.x, tt.y); !Equal(got, tt.want) {
			t.Errorf("GetLargerType(%s, %s) = %s, want %s", tt.x, tt.y, got, tt.want)
		}
	}
}
