/*
Package cbor implements the Concise Binary Object Representation (RFC 8949)
and CBOR sequences (RFC 8742).

Encode converts a Value graph or a tree of native Go values into its
deterministic ("canonical") encoding:

  - integers use the shortest argument form
  - floats are always written as doubles, except NaN which is written as the
    half precision 0xf97e00
  - map entries are sorted bytewise by their encoded keys

Decode parses bytes back into a Value. If bytes remain after the first item,
the input is treated as a CBOR sequence and a Sequence is returned.

Application specific types are handled with hooks: a Replacer is called before
a value is encoded, a Reviver after an item was decoded. See the tags
sub-package for stock hooks covering common registered tags.

	b, err := cbor.Encode(map[string]interface{}{"a": 1, "b": []int{2, 3}}, nil)
	...
	v, err := cbor.Decode(b, nil)
	fmt.Println(v) // {"a": 1, "b": [2, 3]}
*/
package cbor
