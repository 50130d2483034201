package cbor

import (
	"strconv"
	"strings"
)

// KeyKind identifies the position a Key refers to.
type KeyKind uint8

const (
	KeyRoot  KeyKind = iota // top-level item
	KeyIndex                // array element
	KeyMap                  // map value
	KeyTag                  // content of a tag
)

// Key identifies the position of a value within its parent. It is passed to
// replacers and revivers.
type Key struct {
	kind KeyKind
	num  uint64
	key  Value
}

// RootKey returns the key of a top-level item.
func RootKey() Key {
	return Key{kind: KeyRoot}
}

// IndexKey returns the key of the array element at index i.
func IndexKey(i uint64) Key {
	return Key{kind: KeyIndex, num: i}
}

// MapKey returns the key of the map value stored under k.
func MapKey(k Value) Key {
	return Key{kind: KeyMap, key: k}
}

// TagKey returns the key used for the content of a tag with the given number.
func TagKey(tag uint64) Key {
	return Key{kind: KeyTag, num: tag}
}

func (k Key) Kind() KeyKind {
	return k.kind
}

func (k Key) IsRoot() bool {
	return k.kind == KeyRoot
}

// Index returns the array index if this is an index key.
func (k Key) Index() (uint64, bool) {
	return k.num, k.kind == KeyIndex
}

// Tag returns the tag number if this is a tag key.
func (k Key) Tag() (uint64, bool) {
	return k.num, k.kind == KeyTag
}

// MapKey returns the map key if this is a map key.
func (k Key) MapKey() (Value, bool) {
	return k.key, k.kind == KeyMap
}

// String returns the path segment of the key: "$" for the root, "[i]" for
// array elements, "[k]" with k in diagnostic notation for map values and
// "#tag" for tag content.
func (k Key) String() string {
	switch k.kind {
	case KeyIndex:
		return "[" + strconv.FormatUint(k.num, 10) + "]"
	case KeyMap:
		return "[" + Diagnose(k.key) + "]"
	case KeyTag:
		return "#" + strconv.FormatUint(k.num, 10)
	}
	return "$"
}

// path is the stack of keys leading from the root to the current value.
type path []Key

func (p path) String() string {
	sb := strings.Builder{}
	sb.WriteString("$")
	for _, k := range p {
		if k.kind == KeyRoot {
			continue
		}
		sb.WriteString(k.String())
	}
	return sb.String()
}
