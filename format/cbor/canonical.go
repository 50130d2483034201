package cbor

import (
	"bytes"
	"sort"
)

// mapEntry locates an encoded map entry in a scratch buffer: the key spans
// [start, keyEnd), the value [keyEnd, end).
type mapEntry struct {
	start  int
	keyEnd int
	end    int
}

func (m mapEntry) key(data []byte) []byte {
	return data[m.start:m.keyEnd]
}

// compareKeys is the canonical order of encoded map keys: bytewise
// lexicographic comparison, where a key that is a prefix of another sorts
// first.
func compareKeys(a, b []byte) int {
	return bytes.Compare(a, b)
}

func sortEntries(data []byte, entries []mapEntry) {
	if len(entries) < 2 {
		return
	}
	sort.Slice(entries, func(i, j int) bool {
		return compareKeys(entries[i].key(data), entries[j].key(data)) < 0
	})
}

// Canonicalize decodes the given CBOR data item or sequence and re-encodes it
// in canonical form: shortest arguments, definite lengths, sorted map keys
// and double precision floats.
func Canonicalize(data []byte) ([]byte, error) {
	v, err := Decode(data, nil)
	if err != nil {
		return nil, err
	}
	return Encode(v, nil)
}
