package tags

import (
	"math/big"

	"github.com/eluv-io/cbor-go/format/cbor"
)

var (
	one       = big.NewInt(1)
	maxUint64 = new(big.Int).SetUint64(^uint64(0))
	minNegInt = new(big.Int).Neg(new(big.Int).Add(maxUint64, one))
)

// BignumReviver revives positive (tag 2) and negative (tag 3) bignums as
// *big.Int wrapped in a cbor.Opaque.
func BignumReviver(key cbor.Key, v cbor.Value) (cbor.Value, error) {
	t, ok := tagged(key, v, PositiveBignum)
	if !ok {
		if t, ok = tagged(key, v, NegativeBignum); !ok {
			return v, nil
		}
	}

	b, ok := t.Value.(cbor.ByteString)
	if !ok {
		return nil, invalidContent("tags.BignumReviver", t)
	}
	n := new(big.Int).SetBytes(b)
	if t.Tag == NegativeBignum {
		n.Neg(n.Add(n, one))
	}
	return cbor.Opaque{V: n}, nil
}

// BignumReplacer encodes *big.Int and big.Int values outside the range of
// CBOR integers [-2^64, 2^64-1] as bignums. Values within the range are
// encoded as plain integers.
func BignumReplacer(key cbor.Key, v interface{}) (cbor.EncodeAction, error) {
	var n *big.Int
	switch x := v.(type) {
	case *big.Int:
		n = x
	case big.Int:
		n = &x
	default:
		return cbor.Keep(v), nil
	}
	if n == nil || (n.Cmp(minNegInt) >= 0 && n.Cmp(maxUint64) <= 0) {
		return cbor.Keep(v), nil
	}

	if n.Sign() >= 0 {
		return cbor.Keep(cbor.NewTagged(PositiveBignum, cbor.ByteString(n.Bytes()))), nil
	}
	m := new(big.Int).Neg(n)
	m.Sub(m, one)
	return cbor.Keep(cbor.NewTagged(NegativeBignum, cbor.ByteString(m.Bytes()))), nil
}
