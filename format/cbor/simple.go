package cbor

// Simple is a simple value (major type 7 without floats). Values 20 to 23 are
// false, true, null and undefined, 24 to 31 are reserved and cannot be
// encoded.
type Simple uint8

const (
	False     Simple = 20
	True      Simple = 21
	Null      Simple = 22
	Undefined Simple = 23
)

// SimpleSemantic classifies simple values.
type SimpleSemantic uint8

const (
	SemanticUnassigned SimpleSemantic = iota
	SemanticFalse
	SemanticTrue
	SemanticNull
	SemanticUndefined
	SemanticReserved
)

var semanticNames = [...]string{"unassigned", "false", "true", "null", "undefined", "reserved"}

func (s SimpleSemantic) String() string {
	return semanticNames[s]
}

// Semantic returns the meaning of the simple value.
func (s Simple) Semantic() SimpleSemantic {
	switch {
	case s == False:
		return SemanticFalse
	case s == True:
		return SemanticTrue
	case s == Null:
		return SemanticNull
	case s == Undefined:
		return SemanticUndefined
	case s >= 24 && s <= 31:
		return SemanticReserved
	}
	return SemanticUnassigned
}

// Bool returns True or False.
func Bool(b bool) Simple {
	if b {
		return True
	}
	return False
}
