package types

// Equal reports whether x and y are the same type. Struct types are
// equal when their declared names match.
func Equal(x, y Type) bool {
	if x.code != y.code || x.list != y.list {
		return false
	}
	if x.code == Struct {
		return x.structName == y.structName
	}
	return true
}

// greaterScalar holds the strict upcast pairs: greaterScalar[x][y]
// means a value of scalar code y widens losslessly into scalar code x.
var greaterScalar = [codeCount][codeCount]bool{
	Double: {Int: true, UInt: true, Bool: true},
	Int:    {Char: true, Bool: true},
	UInt:   {Bool: true},
	String: {Int: true, UInt: true, Double: true},
}

// Greater reports whether x is strictly greater than y in the upcast
// order: assigning a y into an x loses no information but changes
// representation. List types and struct types are never strictly
// ordered; a type is never greater than itself.
func Greater(x, y Type) bool {
	if x.list || y.list {
		return false
	}
	return greaterScalar[x.code][y.code]
}

// GreaterEq reports whether x is greater than or equal to y.
func GreaterEq(x, y Type) bool {
	return Equal(x, y) || Greater(x, y)
}

// GetLargerType returns the larger of x and y under the upcast order.
// If neither dominates the other, the result is the Invalid type.
func GetLargerType(x, y Type) Type {
	switch {
	case GreaterEq(x, y):
		return x
	case Greater(y, x):
		return y
	}
	return Typ[Invalid]
}
