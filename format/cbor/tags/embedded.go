package tags

import (
	"bytes"

	"github.com/eluv-io/errors-go"

	"github.com/eluv-io/cbor-go/format/cbor"
)

var selfDescribedPrefix = []byte{0xd9, 0xd9, 0xf7}

// EmbeddedReviver returns a reviver that decodes the byte string content of
// embedded CBOR data items (tag 24) with the given reviver and returns the
// decoded item in place of the tag. The embedded data must hold exactly one
// data item.
func EmbeddedReviver(reviver cbor.Reviver) cbor.Reviver {
	return func(key cbor.Key, v cbor.Value) (cbor.Value, error) {
		t, ok := tagged(key, v, EmbeddedCBOR)
		if !ok {
			return v, nil
		}
		b, ok := t.Value.(cbor.ByteString)
		if !ok {
			return nil, invalidContent("tags.EmbeddedReviver", t)
		}
		inner, rest, err := cbor.DecodeFirst(b, reviver)
		if err != nil {
			return nil, errors.E("tags.EmbeddedReviver", errors.K.Invalid.Default(), err, "tag", t.Tag)
		}
		if len(rest) > 0 {
			return nil, errors.E("tags.EmbeddedReviver", errors.K.Invalid,
				"reason", "trailing bytes",
				"tag", t.Tag,
				"trailing", len(rest))
		}
		return inner, nil
	}
}

// Embed encodes v and returns it as embedded CBOR data item (tag 24).
func Embed(v interface{}, replacer cbor.Replacer) (*cbor.Tagged, error) {
	b, err := cbor.Encode(v, replacer)
	if err != nil {
		return nil, err
	}
	return cbor.NewTagged(EmbeddedCBOR, cbor.ByteString(b)), nil
}

// SelfDescribe returns the given encoded data prefixed with the self-described
// CBOR tag (55799), unless it is already present.
func SelfDescribe(data []byte) []byte {
	if IsSelfDescribed(data) {
		return data
	}
	res := make([]byte, 0, len(selfDescribedPrefix)+len(data))
	res = append(res, selfDescribedPrefix...)
	return append(res, data...)
}

// IsSelfDescribed returns true if data starts with the self-described CBOR
// tag.
func IsSelfDescribed(data []byte) bool {
	return bytes.HasPrefix(data, selfDescribedPrefix)
}

// StripSelfDescribe is a reviver that replaces self-described CBOR tags
// (55799) with their content.
func StripSelfDescribe(key cbor.Key, v cbor.Value) (cbor.Value, error) {
	if t, ok := tagged(key, v, SelfDescribed); ok {
		return t.Value, nil
	}
	return v, nil
}
