package types

import "github.com/ainfosec/crema/internal/rtabi"

// SizeUnknown is returned by SizeOf for types whose size depends on a
// declaration table (structs) or is not meaningful (Invalid).
const SizeUnknown = -1

// SizeOf returns the size of t in bytes. Lists and strings are runtime
// handles with no inline storage, so their size is 0; struct sizes are
// computed from their member list with LayoutOf.
func SizeOf(t Type) int64 {
	if t.IsList() {
		return 0
	}
	switch t.Code() {
	case Int:
		return rtabi.SizeInt
	case UInt:
		return rtabi.SizeUInt
	case Double:
		return rtabi.SizeDouble
	case Char:
		return rtabi.SizeChar
	case Bool:
		return rtabi.SizeBool
	case String, Void:
		return 0
	}
	return SizeUnknown
}

// AlignOf returns the alignment of t in bytes.
func AlignOf(t Type) int64 {
	if t.IsList() {
		return rtabi.AlignPtr
	}
	switch t.Code() {
	case Int:
		return rtabi.AlignInt
	case UInt:
		return rtabi.AlignUInt
	case Double:
		return rtabi.AlignDouble
	case Char:
		return rtabi.AlignChar
	case Bool:
		return rtabi.AlignBool
	case String, Struct:
		return rtabi.AlignPtr
	}
	return 1
}

// LayoutOf computes the byte size and per-member offsets of a struct
// with the given member types. Members are laid out in declaration
// order; each is aligned to its natural alignment and the total size
// is padded to the largest member alignment.
func LayoutOf(members []Type) (size int64, offsets []int64) {
	var offset int64
	var maxAlign int64 = 1
	offsets = make([]int64, len(members))

	for i, m := range members {
		ms := SizeOf(m)
		if ms <= 0 {
			ms = rtabi.SizePtr // handles (lists, strings, nested structs)
		}
		ma := AlignOf(m)

		offset = align(offset, ma)
		offsets[i] = offset
		offset += ms

		if ma > maxAlign {
			maxAlign = ma
		}
	}

	return align(offset, maxAlign), offsets
}

// align returns x rounded up to a multiple of a.
func align(x, a int64) int64 {
	return (x + a - 1) &^ (a - 1)
}
