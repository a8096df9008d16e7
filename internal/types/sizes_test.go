package types

import "testing"

func TestSizeOf(t *testing.T) {
	tests := []struct {
		typ  Type
		want int64
	}{
		{Typ[Int], 8},
		{Typ[UInt], 8},
		{Typ[Double], 8},
		{Typ[Char], 1},
		{Typ[Bool], 1},
		// Handles have no inline storage.
		{Typ[String], 0},
		{List(Int), 0},
		{List(Double), 0},
		{Typ[Void], 0},
		{Typ[Invalid], SizeUnknown},
		{StructOf("Point"), SizeUnknown},
	}
	for _, tt := range tests {
		if got := SizeOf(tt.typ); got != tt.want {
			t.Errorf("SizeOf(%s) = %d, want %d", tt.typ, got, tt.want)
		}
	}
}

func TestAlignOf(t *testing.T) {
	tests := []struct {
		typ  Type
		want int64
	}{
		{Typ[Int], 8},
		{Typ[Double], 8},
		{Typ[Char], 1},
		{Typ[Bool], 1},
		{Typ[String], 8},
		{List(Char), 8},
		{StructOf("Point"), 8},
	}
	for _, tt := range tests {
		if got := AlignOf(tt.typ); got != tt.want {
			t.Errorf("AlignOf(%s) = %d, want %d", tt.typ, got, tt.want)
		}
	}
}

func TestLayoutOf(t *testing.T) {
	// struct { int; char; double } pads the char up to the double.
	size, offsets := LayoutOf([]Type{Typ[Int], Typ[Char], Typ[Double]})
	if size != 24 {
		t.Errorf("size = %d, want 24", size)
	}
	wantOffsets := []int64{0, 8, 16}
	for i, want := range wantOffsets {
		if offsets[i] != want {
			t.Errorf("offsets[%d] = %d, want %d", i, offsets[i], want)
		}
	}
}

func TestLayoutOfPacked(t *testing.T) {
	// Two chars pack into adjacent bytes.
	size, offsets := LayoutOf([]Type{Typ[Char], Typ[Bool]})
	if size != 2 {
		t.Errorf("size = %d, want 2", size)
	}
	if offsets[0] != 0 || offsets[1] != 1 {
		t.Errorf("offsets = %v, want [0 1]", offsets)
	}
}

func TestLayoutOfHandles(t *testing.T) {
	// Lists and strings occupy one pointer slot each.
	size, offsets := LayoutOf([]Type{List(Int), Typ[String], Typ[Bool]})
	if size != 24 {
		t.Errorf("size = %d, want 24", size)
	}
	if offsets[0] != 0 || offsets[1] != 8 || offsets[2] != 16 {
		t.Errorf("offsets = %v, want [0 8 16]", offsets)
	}
}

func TestLayoutOfEmpty(t *testing.T) {
	size, offsets := LayoutOf(nil)
	if size != 0 {
		t.Errorf("size = %d, want 0", size)
	}
	if len(offsets) != 0 {
		t.Errorf("offsets = %v, want empty", offsets)
	}
}
