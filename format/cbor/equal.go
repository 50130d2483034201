package cbor

import (
	"bytes"
	"math"
	"reflect"
)

// Equal reports whether a and b are structurally equal. Maps are equal if
// they hold the same entries in any order. Floats are compared by their bit
// patterns, except that all NaNs are equal.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case Uint, NegInt, TextString, Simple:
		return a == b
	case ByteString:
		y, ok := b.(ByteString)
		return ok && bytes.Equal(x, y)
	case Float:
		y, ok := b.(Float)
		if !ok {
			return false
		}
		if math.IsNaN(float64(x)) || math.IsNaN(float64(y)) {
			return math.IsNaN(float64(x)) && math.IsNaN(float64(y))
		}
		return math.Float64bits(float64(x)) == math.Float64bits(float64(y))
	case Array:
		y, ok := b.(Array)
		return ok && equalSlices(x, y)
	case Sequence:
		y, ok := b.(Sequence)
		return ok && equalSlices(x, y)
	case Map:
		y, ok := b.(Map)
		return ok && equalMaps(x, y)
	case *Tagged:
		y, ok := b.(*Tagged)
		if !ok || x == nil || y == nil {
			return ok && x == y
		}
		return x.Tag == y.Tag && Equal(x.Value, y.Value)
	case Opaque:
		y, ok := b.(Opaque)
		return ok && reflect.DeepEqual(x.V, y.V)
	}
	return false
}

func equalSlices(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalMaps(a, b Map) bool {
	if len(a) != len(b) {
		return false
	}
	for _, p := range a {
		v, ok := b.Get(p.Key)
		if !ok || !Equal(p.Value, v) {
			return false
		}
	}
	return true
}
