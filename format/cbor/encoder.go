package cbor

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"unicode/utf8"

	"github.com/eluv-io/errors-go"

	"github.com/eluv-io/cbor-go/util/bitutil"
	"github.com/eluv-io/cbor-go/util/byteutil"
	"github.com/eluv-io/cbor-go/util/numberutil"
)

var bufferPool = byteutil.NewBufferPool(256)

// EncodeAction is the result of a Replacer: either Keep with the value to
// encode in place of the original, or Omit.
type EncodeAction struct {
	value interface{}
	omit  bool
}

// Keep returns an action that encodes v.
func Keep(v interface{}) EncodeAction {
	return EncodeAction{value: v}
}

// Omit returns an action that drops the value. Omitted array elements and map
// entries are removed from their container. Omitting the root value or the
// content of a tag is an error.
func Omit() EncodeAction {
	return EncodeAction{omit: true}
}

func (a EncodeAction) Omitted() bool {
	return a.omit
}

func (a EncodeAction) Value() interface{} {
	return a.value
}

// Replacer is called before encoding the root value, every array element,
// every map value and the content of every tag. The returned action decides
// what gets encoded. Map keys are not passed to the replacer.
type Replacer func(key Key, v interface{}) (EncodeAction, error)

// Encode encodes the given value with the default configuration. v may be a
// Value, a native Go value or a mix of both:
//
//   - nil, bool, all int, uint and float kinds, string, []byte
//   - *big.Int and big.Int within [-2^64, 2^64-1], json.Number
//   - slices, arrays, maps and pointers of the above
//
// Any other type must be converted by the replacer, or the call fails with an
// "unsupported value" error. A Sequence is only valid as root value, its items
// are encoded back to back.
func Encode(v interface{}, replacer Replacer) ([]byte, error) {
	return NewConfig().Encode(v, replacer)
}

// Encode encodes the given value. See the package level Encode.
func (c Config) Encode(v interface{}, replacer Replacer) ([]byte, error) {
	e := &encoder{
		replacer: replacer,
		maxDepth: c.maxDepth(),
	}

	buf := bufferPool.Get()
	defer bufferPool.Put(buf)

	if seq, ok := unwrap(v).(Sequence); ok {
		for _, item := range seq {
			if _, err := e.encodeChild(buf, RootKey(), item, 0); err != nil {
				return nil, err
			}
		}
		// an empty sequence has no encoding that decodes back to it
		if buf.Len() == 0 {
			return nil, encodeErr(e.path, CategoryUnrepresentable, ReasonRootOmitted)
		}
	} else {
		kept, err := e.encodeChild(buf, RootKey(), v, 0)
		if err != nil {
			return nil, err
		}
		if !kept {
			return nil, encodeErr(e.path, CategoryUnrepresentable, ReasonRootOmitted)
		}
	}

	res := make([]byte, buf.Len())
	copy(res, buf.Bytes())
	return res, nil
}

type encoder struct {
	replacer Replacer
	maxDepth int
	path     path
}

// encodeChild passes v through the replacer and encodes the result. depth is
// the number of containers enclosing v. Returns false if the replacer omitted
// the value.
func (e *encoder) encodeChild(buf *byteutil.Buffer, key Key, v interface{}, depth int) (bool, error) {
	e.path = append(e.path, key)
	defer func() { e.path = e.path[:len(e.path)-1] }()

	v = unwrap(v)
	if e.replacer != nil {
		action, err := e.replacer(key, v)
		if err != nil {
			return false, errors.E(opEncode, errors.K.Invalid.Default(), err,
				"category", CategoryUnrepresentable,
				"reason", ReasonReplacer,
				"path", e.path.String())
		}
		if action.omit {
			return false, nil
		}
		v = unwrap(action.value)
	}
	return true, e.encodeValue(buf, v, depth)
}

func (e *encoder) encodeValue(buf *byteutil.Buffer, v interface{}, depth int) error {
	switch x := v.(type) {
	case nil:
		buf.WriteU8(initial(MajorSimple, byte(Null)))
	case Uint:
		appendArg(buf, MajorUint, uint64(x))
	case NegInt:
		appendArg(buf, MajorNegInt, uint64(x))
	case ByteString:
		appendBytes(buf, MajorBytes, x)
	case TextString:
		return e.appendText(buf, string(x))
	case Array:
		return e.encodeArray(buf, len(x), func(i int) interface{} { return x[i] }, depth)
	case Map:
		return e.encodeMap(buf, len(x), func(i int) (interface{}, interface{}) { return x[i].Key, x[i].Value }, depth)
	case *Tagged:
		if x == nil {
			buf.WriteU8(initial(MajorSimple, byte(Null)))
			return nil
		}
		return e.encodeTag(buf, x.Tag, x.Value, depth)
	case Tagged:
		return e.encodeTag(buf, x.Tag, x.Value, depth)
	case Simple:
		return e.appendSimple(buf, x)
	case Float:
		appendFloat(buf, float64(x))
	case Sequence:
		return encodeErr(e.path, CategoryUnrepresentable, ReasonNestedSequence)
	case Opaque:
		return e.encodeValue(buf, unwrap(x), depth)

	case bool:
		e.appendBool(buf, x)
	case string:
		return e.appendText(buf, x)
	case []byte:
		appendBytes(buf, MajorBytes, x)
	case float64:
		appendFloat(buf, x)
	case float32:
		appendFloat(buf, float64(x))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, big.Int:
		return e.appendInt(buf, x)
	case *big.Int:
		if x == nil {
			buf.WriteU8(initial(MajorSimple, byte(Null)))
			return nil
		}
		return e.appendInt(buf, x)
	case json.Number:
		if _, _, err := numberutil.SplitInt(x); err == nil || numberutil.IsOverflow(err) {
			return e.appendInt(buf, x)
		}
		f, err := strconv.ParseFloat(string(x), 64)
		if err != nil {
			return unsupportedErr(e.path, v)
		}
		appendFloat(buf, f)
	case []Value:
		return e.encodeArray(buf, len(x), func(i int) interface{} { return x[i] }, depth)
	case []interface{}:
		return e.encodeArray(buf, len(x), func(i int) interface{} { return x[i] }, depth)
	case map[string]interface{}:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		return e.encodeMap(buf, len(keys), func(i int) (interface{}, interface{}) { return keys[i], x[keys[i]] }, depth)
	case map[interface{}]interface{}:
		keys := make([]interface{}, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		return e.encodeMap(buf, len(keys), func(i int) (interface{}, interface{}) { return keys[i], x[keys[i]] }, depth)
	default:
		return e.encodeReflect(buf, v, depth)
	}
	return nil
}

func (e *encoder) appendInt(buf *byteutil.Buffer, v interface{}) error {
	neg, mag, err := numberutil.SplitInt(v)
	if err != nil {
		if numberutil.IsOverflow(err) {
			return encodeErr(e.path, CategoryUnrepresentable, ReasonIntegerOverflow, "value", fmt.Sprint(v))
		}
		return unsupportedErr(e.path, v)
	}
	if neg {
		appendArg(buf, MajorNegInt, mag)
	} else {
		appendArg(buf, MajorUint, mag)
	}
	return nil
}

func (e *encoder) appendBool(buf *byteutil.Buffer, b bool) {
	buf.WriteU8(initial(MajorSimple, byte(Bool(b))))
}

func (e *encoder) appendText(buf *byteutil.Buffer, s string) error {
	if !utf8.ValidString(s) {
		return encodeErr(e.path, CategoryUnrepresentable, ReasonInvalidUTF8, "text", strconv.Quote(s))
	}
	appendArg(buf, MajorText, uint64(len(s)))
	_, _ = buf.Write([]byte(s))
	return nil
}

func (e *encoder) appendSimple(buf *byteutil.Buffer, s Simple) error {
	switch {
	case s < aiUint8:
		buf.WriteU8(initial(MajorSimple, byte(s)))
	case s.Semantic() == SemanticReserved:
		return encodeErr(e.path, CategoryUnrepresentable, ReasonReservedSimple, "simple", uint8(s))
	default:
		buf.WriteU8(initial(MajorSimple, aiUint8))
		buf.WriteU8(uint8(s))
	}
	return nil
}

func appendBytes(buf *byteutil.Buffer, major MajorType, b []byte) {
	appendArg(buf, major, uint64(len(b)))
	_, _ = buf.Write(b)
}

// appendFloat writes f as double. NaN is always written as half precision
// quiet NaN.
func appendFloat(buf *byteutil.Buffer, f float64) {
	if math.IsNaN(f) {
		buf.WriteU8(initial(MajorSimple, aiUint16))
		buf.WriteU16(bitutil.Float16NaN)
		return
	}
	buf.WriteU8(initial(MajorSimple, aiUint64))
	buf.WriteF64(f)
}

func (e *encoder) checkDepth(depth int) error {
	if depth+1 > e.maxDepth {
		return encodeErr(e.path, CategoryExhausted, ReasonMaxDepth, "max_depth", e.maxDepth)
	}
	return nil
}

// encodeArray encodes an array of n elements. Without replacer the elements
// are written directly. Otherwise they are buffered, since omitted elements
// change the count in the head.
func (e *encoder) encodeArray(buf *byteutil.Buffer, n int, elem func(i int) interface{}, depth int) error {
	if err := e.checkDepth(depth); err != nil {
		return err
	}

	if e.replacer == nil {
		appendArg(buf, MajorArray, uint64(n))
		for i := 0; i < n; i++ {
			if _, err := e.encodeChild(buf, IndexKey(uint64(i)), elem(i), depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	scratch := bufferPool.Get()
	defer bufferPool.Put(scratch)

	count := 0
	for i := 0; i < n; i++ {
		kept, err := e.encodeChild(scratch, IndexKey(uint64(i)), elem(i), depth+1)
		if err != nil {
			return err
		}
		if kept {
			count++
		}
	}
	appendArg(buf, MajorArray, uint64(count))
	_, _ = buf.Write(scratch.Bytes())
	return nil
}

// encodeMap encodes a map of n entries. Keys and values are encoded into a
// scratch buffer, then the surviving entries are written in canonical order.
func (e *encoder) encodeMap(buf *byteutil.Buffer, n int, entry func(i int) (k, v interface{}), depth int) error {
	if err := e.checkDepth(depth); err != nil {
		return err
	}

	scratch := bufferPool.Get()
	defer bufferPool.Put(scratch)

	entries := make([]mapEntry, 0, n)
	for i := 0; i < n; i++ {
		k, v := entry(i)
		key, err := e.keyValue(k)
		if err != nil {
			return err
		}

		start := scratch.Len()
		if err = e.encodeKey(scratch, key, depth+1); err != nil {
			return err
		}
		keyEnd := scratch.Len()

		kept, err := e.encodeChild(scratch, MapKey(key), v, depth+1)
		if err != nil {
			return err
		}
		if !kept {
			scratch.Truncate(start)
			continue
		}
		entries = append(entries, mapEntry{start: start, keyEnd: keyEnd, end: scratch.Len()})
	}

	data := scratch.Bytes()
	sortEntries(data, entries)
	for i := 1; i < len(entries); i++ {
		if compareKeys(entries[i-1].key(data), entries[i].key(data)) == 0 {
			return encodeErr(e.path, CategoryUnrepresentable, ReasonDuplicateKey,
				"key", fmt.Sprintf("%x", entries[i].key(data)))
		}
	}

	appendArg(buf, MajorMap, uint64(len(entries)))
	for _, en := range entries {
		_, _ = buf.Write(data[en.start:en.end])
	}
	return nil
}

// keyValue converts a map key to a Value. Keys are never passed to the
// replacer.
func (e *encoder) keyValue(k interface{}) (Value, error) {
	if v, ok := k.(Value); ok {
		return v, nil
	}
	v, err := FromNative(k)
	if err != nil {
		return nil, unsupportedErr(e.path, k)
	}
	return v, nil
}

func (e *encoder) encodeKey(buf *byteutil.Buffer, key Value, depth int) error {
	ke := encoder{
		maxDepth: e.maxDepth,
		path:     e.path,
	}
	return ke.encodeValue(buf, key, depth)
}

func (e *encoder) encodeTag(buf *byteutil.Buffer, tag uint64, content interface{}, depth int) error {
	if err := e.checkDepth(depth); err != nil {
		return err
	}
	appendArg(buf, MajorTag, tag)
	kept, err := e.encodeChild(buf, TagKey(tag), content, depth+1)
	if err != nil {
		return err
	}
	if !kept {
		return encodeErr(e.path, CategoryUnrepresentable, ReasonContentOmitted, "tag", tag)
	}
	return nil
}

// unwrap returns the application value wrapped in (possibly nested) Opaques.
func unwrap(v interface{}) interface{} {
	for {
		o, ok := v.(Opaque)
		if !ok {
			return v
		}
		v = o.V
	}
}

func typeName(v interface{}) string {
	return fmt.Sprintf("%T", v)
}
