// Package tags provides revivers and replacers for common CBOR tags: date and
// time, bignums, typed arrays, embedded data items and the self-described CBOR
// marker. Hooks are combined with Chain and ChainReplacers:
//
//	reviver := tags.Chain(tags.StripSelfDescribe, tags.TimeReviver, tags.BignumReviver)
//	v, err := cbor.Decode(data, reviver)
package tags

import (
	"github.com/eluv-io/cbor-go/format/cbor"
)

// Tag numbers registered with IANA.
const (
	DateTimeString uint64 = 0
	EpochDateTime  uint64 = 1
	PositiveBignum uint64 = 2
	NegativeBignum uint64 = 3
	EmbeddedCBOR   uint64 = 24
	SelfDescribed  uint64 = 55799
	Uint8Array     uint64 = 64
	Uint16BEArray  uint64 = 65
	Uint32BEArray  uint64 = 66
	Uint64BEArray  uint64 = 67
	Uint16LEArray  uint64 = 69
	Uint32LEArray  uint64 = 70
	Uint64LEArray  uint64 = 71
	Int8Array      uint64 = 72
	Int16BEArray   uint64 = 73
	Int32BEArray   uint64 = 74
	Int64BEArray   uint64 = 75
	Int16LEArray   uint64 = 77
	Int32LEArray   uint64 = 78
	Int64LEArray   uint64 = 79
	Float32BEArray uint64 = 81
	Float64BEArray uint64 = 82
	Float32LEArray uint64 = 85
	Float64LEArray uint64 = 86
)

// Chain returns a reviver that calls the given revivers in order, each with
// the result of the previous one. Nil revivers are skipped.
func Chain(revivers ...cbor.Reviver) cbor.Reviver {
	return func(key cbor.Key, v cbor.Value) (cbor.Value, error) {
		var err error
		for _, r := range revivers {
			if r == nil {
				continue
			}
			if v, err = r(key, v); err != nil {
				return nil, err
			}
			if v == nil {
				v = cbor.Null
			}
		}
		return v, nil
	}
}

// ChainReplacers returns a replacer that calls the given replacers in order,
// each with the value kept by the previous one. The chain stops at the first
// replacer that omits the value. Nil replacers are skipped.
func ChainReplacers(replacers ...cbor.Replacer) cbor.Replacer {
	return func(key cbor.Key, v interface{}) (cbor.EncodeAction, error) {
		for _, r := range replacers {
			if r == nil {
				continue
			}
			action, err := r(key, v)
			if err != nil {
				return cbor.EncodeAction{}, err
			}
			if action.Omitted() {
				return action, nil
			}
			v = action.Value()
		}
		return cbor.Keep(v), nil
	}
}

// tagged returns the tagged item if the reviver is called for the content of
// the given tag and the item has not been replaced by a previous reviver.
func tagged(key cbor.Key, v cbor.Value, tag uint64) (*cbor.Tagged, bool) {
	k, ok := key.Tag()
	if !ok || k != tag {
		return nil, false
	}
	t, ok := v.(*cbor.Tagged)
	if !ok || t == nil || t.Tag != tag {
		return nil, false
	}
	return t, true
}
