package tags

import (
	"encoding/binary"
	"math"

	"github.com/eluv-io/errors-go"

	"github.com/eluv-io/cbor-go/format/cbor"
)

// typedArray describes the element type of a typed array tag (RFC 8746).
type typedArray struct {
	size   int
	order  binary.ByteOrder
	decode func(b []byte, order binary.ByteOrder) interface{}
}

var typedArrays = map[uint64]typedArray{
	Uint8Array:     {1, binary.BigEndian, decodeUint8},
	Uint16BEArray:  {2, binary.BigEndian, decodeUint16},
	Uint32BEArray:  {4, binary.BigEndian, decodeUint32},
	Uint64BEArray:  {8, binary.BigEndian, decodeUint64},
	Uint16LEArray:  {2, binary.LittleEndian, decodeUint16},
	Uint32LEArray:  {4, binary.LittleEndian, decodeUint32},
	Uint64LEArray:  {8, binary.LittleEndian, decodeUint64},
	Int8Array:      {1, binary.BigEndian, decodeInt8},
	Int16BEArray:   {2, binary.BigEndian, decodeInt16},
	Int32BEArray:   {4, binary.BigEndian, decodeInt32},
	Int64BEArray:   {8, binary.BigEndian, decodeInt64},
	Int16LEArray:   {2, binary.LittleEndian, decodeInt16},
	Int32LEArray:   {4, binary.LittleEndian, decodeInt32},
	Int64LEArray:   {8, binary.LittleEndian, decodeInt64},
	Float32BEArray: {4, binary.BigEndian, decodeFloat32},
	Float64BEArray: {8, binary.BigEndian, decodeFloat64},
	Float32LEArray: {4, binary.LittleEndian, decodeFloat32},
	Float64LEArray: {8, binary.LittleEndian, decodeFloat64},
}

// TypedArrayReviver revives typed arrays as Go slices wrapped in a
// cbor.Opaque: []uint8, []uint16, []uint32, []uint64, []int8, []int16,
// []int32, []int64, []float32 or []float64. Both byte orders are supported.
func TypedArrayReviver(key cbor.Key, v cbor.Value) (cbor.Value, error) {
	tag, ok := key.Tag()
	if !ok {
		return v, nil
	}
	ta, ok := typedArrays[tag]
	if !ok {
		return v, nil
	}
	t, ok := tagged(key, v, tag)
	if !ok {
		return v, nil
	}

	b, ok := t.Value.(cbor.ByteString)
	if !ok {
		return nil, invalidContent("tags.TypedArrayReviver", t)
	}
	if len(b)%ta.size != 0 {
		return nil, errors.E("tags.TypedArrayReviver", errors.K.Invalid,
			"reason", "length not a multiple of element size",
			"tag", tag,
			"length", len(b),
			"element_size", ta.size)
	}
	return cbor.Opaque{V: ta.decode(b, ta.order)}, nil
}

// TypedArrayReplacer encodes numeric Go slices as little endian typed arrays.
// []byte is not converted, it remains a byte string.
func TypedArrayReplacer(key cbor.Key, v interface{}) (cbor.EncodeAction, error) {
	var tag uint64
	var b []byte
	order := binary.LittleEndian

	switch x := v.(type) {
	case []int8:
		tag, b = Int8Array, make([]byte, len(x))
		for i, n := range x {
			b[i] = byte(n)
		}
	case []uint16:
		tag, b = Uint16LEArray, make([]byte, 2*len(x))
		for i, n := range x {
			order.PutUint16(b[2*i:], n)
		}
	case []int16:
		tag, b = Int16LEArray, make([]byte, 2*len(x))
		for i, n := range x {
			order.PutUint16(b[2*i:], uint16(n))
		}
	case []uint32:
		tag, b = Uint32LEArray, make([]byte, 4*len(x))
		for i, n := range x {
			order.PutUint32(b[4*i:], n)
		}
	case []int32:
		tag, b = Int32LEArray, make([]byte, 4*len(x))
		for i, n := range x {
			order.PutUint32(b[4*i:], uint32(n))
		}
	case []uint64:
		tag, b = Uint64LEArray, make([]byte, 8*len(x))
		for i, n := range x {
			order.PutUint64(b[8*i:], n)
		}
	case []int64:
		tag, b = Int64LEArray, make([]byte, 8*len(x))
		for i, n := range x {
			order.PutUint64(b[8*i:], uint64(n))
		}
	case []float32:
		tag, b = Float32LEArray, make([]byte, 4*len(x))
		for i, f := range x {
			order.PutUint32(b[4*i:], math.Float32bits(f))
		}
	case []float64:
		tag, b = Float64LEArray, make([]byte, 8*len(x))
		for i, f := range x {
			order.PutUint64(b[8*i:], math.Float64bits(f))
		}
	default:
		return cbor.Keep(v), nil
	}
	return cbor.Keep(cbor.NewTagged(tag, cbor.ByteString(b))), nil
}

func decodeUint8(b []byte, _ binary.ByteOrder) interface{} {
	res := make([]uint8, len(b))
	copy(res, b)
	return res
}

func decodeInt8(b []byte, _ binary.ByteOrder) interface{} {
	res := make([]int8, len(b))
	for i := range res {
		res[i] = int8(b[i])
	}
	return res
}

func decodeUint16(b []byte, order binary.ByteOrder) interface{} {
	res := make([]uint16, len(b)/2)
	for i := range res {
		res[i] = order.Uint16(b[2*i:])
	}
	return res
}

func decodeInt16(b []byte, order binary.ByteOrder) interface{} {
	res := make([]int16, len(b)/2)
	for i := range res {
		res[i] = int16(order.Uint16(b[2*i:]))
	}
	return res
}

func decodeUint32(b []byte, order binary.ByteOrder) interface{} {
	res := make([]uint32, len(b)/4)
	for i := range res {
		res[i] = order.Uint32(b[4*i:])
	}
	return res
}

func decodeInt32(b []byte, order binary.ByteOrder) interface{} {
	res := make([]int32, len(b)/4)
	for i := range res {
		res[i] = int32(order.Uint32(b[4*i:]))
	}
	return res
}

func decodeUint64(b []byte, order binary.ByteOrder) interface{} {
	res := make([]uint64, len(b)/8)
	for i := range res {
		res[i] = order.Uint64(b[8*i:])
	}
	return res
}

func decodeInt64(b []byte, order binary.ByteOrder) interface{} {
	res := make([]int64, len(b)/8)
	for i := range res {
		res[i] = int64(order.Uint64(b[8*i:]))
	}
	return res
}

func decodeFloat32(b []byte, order binary.ByteOrder) interface{} {
	res := make([]float32, len(b)/4)
	for i := range res {
		res[i] = math.Float32frombits(order.Uint32(b[4*i:]))
	}
	return res
}

func decodeFloat64(b []byte, order binary.ByteOrder) interface{} {
	res := make([]float64, len(b)/8)
	for i := range res {
		res[i] = math.Float64frombits(order.Uint64(b[8*i:]))
	}
	return res
}
