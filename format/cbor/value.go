package cbor

import (
	"math"
	"math/big"
)

// MajorType is the 3 bit major type of an encoded data item.
type MajorType uint8

const (
	MajorUint   MajorType = 0
	MajorNegInt MajorType = 1
	MajorBytes  MajorType = 2
	MajorText   MajorType = 3
	MajorArray  MajorType = 4
	MajorMap    MajorType = 5
	MajorTag    MajorType = 6
	MajorSimple MajorType = 7
)

var majorNames = [...]string{"uint", "negint", "bytes", "text", "array", "map", "tag", "simple"}

func (m MajorType) String() string {
	if int(m) < len(majorNames) {
		return majorNames[m]
	}
	return "invalid"
}

// Value is a decoded CBOR data item. The set of implementations is closed:
//
//	Uint, NegInt, ByteString, TextString, Array, Map, *Tagged, Simple, Float,
//	Sequence, Opaque
type Value interface {
	String() string
	isValue()
}

// Uint is an unsigned integer (major type 0).
type Uint uint64

// NegInt is a negative integer (major type 1). The payload is the encoded
// argument m, the represented value is -1-m. This covers the full range
// [-2^64, -1].
type NegInt uint64

// ByteString is a byte string (major type 2).
type ByteString []byte

// TextString is a UTF-8 text string (major type 3).
type TextString string

// Array is an array of data items (major type 4).
type Array []Value

// Map is a map (major type 5). Entries are kept in the order they were
// decoded or constructed. Keys are unique.
type Map []Pair

// Pair is a map entry.
type Pair struct {
	Key   Value
	Value Value
}

// Tagged is a tag number applied to an enclosed data item (major type 6). Tag
// semantics are not interpreted.
type Tagged struct {
	Tag   uint64
	Value Value
}

// Float is a floating point number (major type 7). Half and single precision
// inputs are widened during decoding.
type Float float64

// Sequence is a CBOR sequence of top-level data items (RFC 8742). Decode
// returns a Sequence if the input holds more than one item. A Sequence may be
// encoded only as the root value.
type Sequence []Value

// Opaque wraps an application value produced by a Reviver. Plain decoding
// never produces an Opaque. Encoding unwraps V before it is handed to the
// Replacer.
type Opaque struct {
	V interface{}
}

func (Uint) isValue()       {}
func (NegInt) isValue()     {}
func (ByteString) isValue() {}
func (TextString) isValue() {}
func (Array) isValue()      {}
func (Map) isValue()        {}
func (*Tagged) isValue()    {}
func (Simple) isValue()     {}
func (Float) isValue()      {}
func (Sequence) isValue()   {}
func (Opaque) isValue()     {}

// Int returns the Uint or NegInt representing i.
func Int(i int64) Value {
	if i >= 0 {
		return Uint(i)
	}
	return NegInt(uint64(-(i + 1)))
}

// Int64 returns the represented value and true if it fits into an int64.
func (n NegInt) Int64() (int64, bool) {
	if uint64(n) > math.MaxInt64 {
		return 0, false
	}
	return -1 - int64(n), true
}

// BigInt returns the represented value -1-n.
func (n NegInt) BigInt() *big.Int {
	b := new(big.Int).SetUint64(uint64(n))
	return b.Neg(b.Add(b, big.NewInt(1)))
}

// BigInt returns the value as big.Int.
func (u Uint) BigInt() *big.Int {
	return new(big.Int).SetUint64(uint64(u))
}

// NewTagged returns the tagged value.
func NewTagged(tag uint64, v Value) *Tagged {
	return &Tagged{Tag: tag, Value: v}
}

// Get returns the value of the first entry whose key is Equal to key.
func (m Map) Get(key Value) (Value, bool) {
	for _, p := range m {
		if Equal(p.Key, key) {
			return p.Value, true
		}
	}
	return nil, false
}

// GetText is a shortcut for Get(TextString(key)).
func (m Map) GetText(key string) (Value, bool) {
	return m.Get(TextString(key))
}

func (u Uint) String() string       { return Diagnose(u) }
func (n NegInt) String() string     { return Diagnose(n) }
func (b ByteString) String() string { return Diagnose(b) }
func (s TextString) String() string { return Diagnose(s) }
func (a Array) String() string      { return Diagnose(a) }
func (m Map) String() string        { return Diagnose(m) }
func (t *Tagged) String() string    { return Diagnose(t) }
func (s Simple) String() string     { return Diagnose(s) }
func (f Float) String() string      { return Diagnose(f) }
func (s Sequence) String() string   { return Diagnose(s) }
func (o Opaque) String() string     { return Diagnose(o) }
