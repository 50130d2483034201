package cbor

import (
	"math"

	"github.com/eluv-io/errors-go"
	elog "github.com/eluv-io/log-go"

	"github.com/eluv-io/cbor-go/util/bitutil"
	"github.com/eluv-io/cbor-go/util/byteutil"
	"github.com/eluv-io/cbor-go/util/numberutil"
)

var log = elog.Get("/eluvio/format/cbor")

// Reviver is called after decoding every data item with the item's position:
//
//   - RootKey for top-level items, including every item of a sequence
//   - IndexKey for array elements
//   - MapKey for map values, map keys are never revived
//
// A tagged item is first passed to the reviver with TagKey and the *Tagged
// value, then the result is revived with its position like any other item.
// The value returned by the reviver replaces the decoded item, typically
// wrapped in an Opaque. A nil result is replaced by Null.
type Reviver func(key Key, v Value) (Value, error)

// Decode decodes the given data with the default configuration. If the data
// holds more than one data item, the items are returned as Sequence.
func Decode(data []byte, reviver Reviver) (Value, error) {
	return NewConfig().Decode(data, reviver)
}

// DecodeFirst decodes the first data item of the given data and returns it
// together with the remaining bytes.
func DecodeFirst(data []byte, reviver Reviver) (Value, []byte, error) {
	return NewConfig().DecodeFirst(data, reviver)
}

// Decode decodes the given data. See the package level Decode.
func (c Config) Decode(data []byte, reviver Reviver) (Value, error) {
	d := c.newDecoder(data, reviver)

	first, err := d.item(RootKey(), 0)
	if err != nil {
		return nil, err
	}
	if d.off == len(data) {
		return first, nil
	}

	seq := Sequence{first}
	for d.off < len(data) {
		item, err := d.item(RootKey(), 0)
		if err != nil {
			return nil, err
		}
		seq = append(seq, item)
	}
	log.Debug("decoded cbor sequence", "items", len(seq), "size", len(data))
	return seq, nil
}

// DecodeFirst decodes the first data item. See the package level DecodeFirst.
func (c Config) DecodeFirst(data []byte, reviver Reviver) (Value, []byte, error) {
	d := c.newDecoder(data, reviver)
	v, err := d.item(RootKey(), 0)
	if err != nil {
		return nil, data, err
	}
	return v, data[d.off:], nil
}

func (c Config) newDecoder(data []byte, reviver Reviver) *decoder {
	return &decoder{
		buf:      byteutil.WrapBuffer(data),
		reviver:  reviver,
		maxDepth: c.maxDepth(),
	}
}

type decoder struct {
	buf      *byteutil.Buffer
	off      int
	reviver  Reviver
	maxDepth int
}

// item decodes the next data item and revives it with the given key. depth is
// the number of containers enclosing the item.
func (d *decoder) item(key Key, depth int) (Value, error) {
	start := d.off
	v, err := d.raw(depth)
	if err != nil {
		return nil, err
	}
	return d.revive(start, key, v)
}

func (d *decoder) revive(start int, key Key, v Value) (Value, error) {
	if d.reviver == nil {
		return v, nil
	}
	res, err := d.reviver(key, v)
	if err != nil {
		return nil, errors.NoTrace(opDecode, errors.K.Invalid.Default(), err,
			"category", CategorySemantic,
			"reason", ReasonReviver,
			"offset", start,
			"key", key.String())
	}
	if res == nil {
		return Null, nil
	}
	return res, nil
}

// raw decodes the next data item. Only tagged items are passed to the
// reviver.
func (d *decoder) raw(depth int) (Value, error) {
	start := d.off
	ib, err := d.buf.ReadU8(start)
	if err != nil {
		return nil, truncatedErr(d.buf, start, 1)
	}
	major := MajorType(ib >> 5)
	ai := ib & 0x1f
	if major == MajorSimple {
		return d.simple(start, ai)
	}

	n, indefinite, size, err := readArg(d.buf, start, ai)
	if err != nil {
		return nil, err
	}
	d.off = start + size

	switch major {
	case MajorUint, MajorNegInt, MajorTag:
		if indefinite {
			return nil, decodeErr(start, CategoryMalformed, ReasonInvalidIndefinite, "major_type", major.String())
		}
	}

	switch major {
	case MajorUint:
		return Uint(n), nil
	case MajorNegInt:
		return NegInt(n), nil
	case MajorBytes:
		b, err := d.bytes(start, MajorBytes, n, indefinite)
		if err != nil {
			return nil, err
		}
		return ByteString(b), nil
	case MajorText:
		b, err := d.bytes(start, MajorText, n, indefinite)
		if err != nil {
			return nil, err
		}
		return TextString(b), nil
	case MajorArray:
		return d.array(start, n, indefinite, depth)
	case MajorMap:
		return d.mapItem(start, n, indefinite, depth)
	}
	return d.tag(start, n, depth)
}

// bytes reads the payload of a byte or text string. Indefinite length strings
// are the concatenation of definite length chunks of the same major type.
func (d *decoder) bytes(start int, major MajorType, n uint64, indefinite bool) ([]byte, error) {
	if !indefinite {
		return d.chunk(start, major, n)
	}

	res := []byte{}
	for {
		off := d.off
		ib, err := d.buf.ReadU8(off)
		if err != nil {
			return nil, truncatedErr(d.buf, off, 1)
		}
		if ib == breakCode {
			d.off++
			return res, nil
		}
		ai := ib & 0x1f
		if MajorType(ib>>5) != major || ai == aiIndefinite {
			return nil, decodeErr(off, CategoryMalformed, ReasonInvalidIndefinite,
				"major_type", major.String(),
				"chunk_major_type", MajorType(ib>>5).String())
		}
		cn, _, size, err := readArg(d.buf, off, ai)
		if err != nil {
			return nil, err
		}
		d.off = off + size
		c, err := d.chunk(off, major, cn)
		if err != nil {
			return nil, err
		}
		res = append(res, c...)
	}
}

// chunk reads n payload bytes of the definite length string starting at
// start.
func (d *decoder) chunk(start int, major MajorType, n uint64) ([]byte, error) {
	if n > math.MaxInt32 && n > uint64(d.buf.Len()) {
		return nil, decodeErr(start, CategorySemantic, ReasonLengthOutOfRange, "length", n)
	}
	remaining := d.buf.Len() - d.off
	if n > uint64(remaining) {
		return nil, decodeErr(start, CategoryMalformed, ReasonTruncated, "need", n, "have", remaining)
	}
	b, err := d.buf.Slice(d.off, d.off+int(n))
	if err != nil {
		return nil, truncatedErr(d.buf, start, int(n))
	}
	if major == MajorText {
		if i := validateUTF8(b); i >= 0 {
			return nil, decodeErr(d.off+i, CategoryMalformed, ReasonInvalidUTF8)
		}
	}
	d.off += int(n)
	return b, nil
}

// checkCount verifies that n elements of at least minSize bytes each fit the
// remaining input. Returns the number of elements to pre-allocate.
func (d *decoder) checkCount(start int, n uint64, minSize int) (int, error) {
	remaining := d.buf.Len() - d.off
	if n > math.MaxInt32 && n > uint64(d.buf.Len()) {
		return 0, decodeErr(start, CategorySemantic, ReasonLengthOutOfRange, "length", n)
	}
	if n > uint64(remaining/minSize) {
		return 0, decodeErr(start, CategoryMalformed, ReasonTruncated, "need", n*uint64(minSize), "have", remaining)
	}
	return numberutil.MinInt(int(n), remaining), nil
}

func (d *decoder) checkDepth(start int, depth int) error {
	if depth+1 > d.maxDepth {
		log.Debug("cbor nesting limit exceeded", "max_depth", d.maxDepth, "offset", start)
		return decodeErr(start, CategoryExhausted, ReasonMaxDepth, "max_depth", d.maxDepth)
	}
	return nil
}

// atBreak consumes the break code if it is the next byte.
func (d *decoder) atBreak() (bool, error) {
	b, err := d.buf.ReadU8(d.off)
	if err != nil {
		return false, truncatedErr(d.buf, d.off, 1)
	}
	if b == breakCode {
		d.off++
		return true, nil
	}
	return false, nil
}

func (d *decoder) array(start int, n uint64, indefinite bool, depth int) (Value, error) {
	if err := d.checkDepth(start, depth); err != nil {
		return nil, err
	}

	var arr Array
	if indefinite {
		arr = Array{}
	} else {
		size, err := d.checkCount(start, n, 1)
		if err != nil {
			return nil, err
		}
		arr = make(Array, 0, size)
	}

	for i := uint64(0); indefinite || i < n; i++ {
		if indefinite {
			done, err := d.atBreak()
			if err != nil {
				return nil, err
			}
			if done {
				break
			}
		}
		item, err := d.item(IndexKey(i), depth+1)
		if err != nil {
			return nil, err
		}
		arr = append(arr, item)
	}
	return arr, nil
}

func (d *decoder) mapItem(start int, n uint64, indefinite bool, depth int) (Value, error) {
	if err := d.checkDepth(start, depth); err != nil {
		return nil, err
	}

	size := 0
	if !indefinite {
		var err error
		if size, err = d.checkCount(start, n, 2); err != nil {
			return nil, err
		}
	}
	m := make(Map, 0, size)
	seen := make(map[string]struct{}, size)

	scratch := bufferPool.Get()
	defer bufferPool.Put(scratch)

	for i := uint64(0); indefinite || i < n; i++ {
		if indefinite {
			done, err := d.atBreak()
			if err != nil {
				return nil, err
			}
			if done {
				break
			}
		}

		keyStart := d.off
		k, err := d.key(depth + 1)
		if err != nil {
			return nil, err
		}

		// keys are compared by their canonical encoding
		scratch.Reset()
		ke := encoder{maxDepth: d.maxDepth}
		if err = ke.encodeValue(scratch, k, depth+1); err != nil {
			return nil, err
		}
		enc := string(scratch.Bytes())
		if _, dup := seen[enc]; dup {
			return nil, decodeErr(keyStart, CategorySemantic, ReasonDuplicateKey, "key", Diagnose(k))
		}
		seen[enc] = struct{}{}

		v, err := d.item(MapKey(k), depth+1)
		if err != nil {
			return nil, err
		}
		m = append(m, Pair{Key: k, Value: v})
	}
	return m, nil
}

// key decodes a map key. Keys are not revived.
func (d *decoder) key(depth int) (Value, error) {
	rv := d.reviver
	d.reviver = nil
	defer func() { d.reviver = rv }()
	return d.raw(depth)
}

func (d *decoder) tag(start int, tag uint64, depth int) (Value, error) {
	if err := d.checkDepth(start, depth); err != nil {
		return nil, err
	}
	content, err := d.raw(depth + 1)
	if err != nil {
		return nil, err
	}
	return d.revive(start, TagKey(tag), &Tagged{Tag: tag, Value: content})
}

func (d *decoder) simple(start int, ai byte) (Value, error) {
	switch ai {
	case aiUint8:
		s, err := d.buf.ReadU8(start + 1)
		if err != nil {
			return nil, truncatedErr(d.buf, start, 2)
		}
		if s < 32 {
			return nil, decodeErr(start, CategoryMalformed, ReasonInvalidSimple, "simple", s)
		}
		d.off = start + 2
		return Simple(s), nil
	case aiUint16:
		h, err := d.buf.ReadU16(start + 1)
		if err != nil {
			return nil, truncatedErr(d.buf, start, 3)
		}
		d.off = start + 3
		return Float(bitutil.Float16FromBits(h)), nil
	case aiUint32:
		u, err := d.buf.ReadU32(start + 1)
		if err != nil {
			return nil, truncatedErr(d.buf, start, 5)
		}
		d.off = start + 5
		return Float(bitutil.Float32FromBits(u)), nil
	case aiUint64:
		u, err := d.buf.ReadU64(start + 1)
		if err != nil {
			return nil, truncatedErr(d.buf, start, 9)
		}
		d.off = start + 9
		return Float(bitutil.Float64FromBits(u)), nil
	case aiIndefinite:
		return nil, decodeErr(start, CategoryMalformed, ReasonUnexpectedBreak)
	}
	if ai > aiUint64 {
		return nil, decodeErr(start, CategoryMalformed, ReasonInvalidAdditionalInfo, "additional_info", ai)
	}
	d.off = start + 1
	return Simple(ai), nil
}
