package cbor

import (
	"encoding/json"
	"math/big"
	"reflect"
	"strconv"

	"github.com/eluv-io/errors-go"

	"github.com/eluv-io/cbor-go/util/byteutil"
	"github.com/eluv-io/cbor-go/util/ifutil"
	"github.com/eluv-io/cbor-go/util/numberutil"
)

// encodeReflect encodes native values not covered by the type switch of
// encodeValue: nil pointers and collections, named types, typed slices,
// arrays and maps.
func (e *encoder) encodeReflect(buf *byteutil.Buffer, v interface{}, depth int) error {
	if ifutil.IsNil(v) {
		buf.WriteU8(initial(MajorSimple, byte(Null)))
		return nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		return e.encodeValue(buf, rv.Elem().Interface(), depth)
	case reflect.Bool:
		e.appendBool(buf, rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return e.appendInt(buf, rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		appendArg(buf, MajorUint, rv.Uint())
	case reflect.Float32, reflect.Float64:
		appendFloat(buf, rv.Float())
	case reflect.String:
		return e.appendText(buf, rv.String())
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			appendBytes(buf, MajorBytes, reflectBytes(rv))
			return nil
		}
		return e.encodeArray(buf, rv.Len(), func(i int) interface{} { return rv.Index(i).Interface() }, depth)
	case reflect.Map:
		keys := rv.MapKeys()
		return e.encodeMap(buf, len(keys), func(i int) (interface{}, interface{}) {
			return keys[i].Interface(), rv.MapIndex(keys[i]).Interface()
		}, depth)
	default:
		return unsupportedErr(e.path, v)
	}
	return nil
}

func reflectBytes(rv reflect.Value) []byte {
	if rv.Kind() == reflect.Slice {
		return rv.Bytes()
	}
	b := make([]byte, rv.Len())
	reflect.Copy(reflect.ValueOf(b), rv)
	return b
}

// FromNative converts a native Go value into a Value. It supports the same
// native types as Encode. Values are passed through unchanged. Byte slices
// are not copied.
func FromNative(x interface{}) (Value, error) {
	return fromNative(x, 0)
}

func fromNative(x interface{}, depth int) (Value, error) {
	e := errors.TemplateNoTrace("cbor.FromNative", errors.K.Invalid)
	if depth > DefaultMaxDepth {
		return nil, e(errors.K.Unavailable, "category", CategoryExhausted, "reason", ReasonMaxDepth)
	}

	switch v := x.(type) {
	case nil:
		return Null, nil
	case Value:
		return v, nil
	case Tagged:
		return &v, nil
	case bool:
		return Bool(v), nil
	case string:
		return TextString(v), nil
	case []byte:
		return ByteString(v), nil
	case float64:
		return Float(v), nil
	case float32:
		return Float(v), nil
	case json.Number:
		if _, _, err := numberutil.SplitInt(v); err != nil && !numberutil.IsOverflow(err) {
			f, perr := strconv.ParseFloat(string(v), 64)
			if perr != nil {
				return nil, e(perr, "category", CategoryUnrepresentable, "reason", ReasonUnsupportedValue, "value", v)
			}
			return Float(f), nil
		}
		return nativeInt(v)
	case *big.Int:
		if v == nil {
			return Null, nil
		}
		return nativeInt(v)
	}
	if numberutil.IsInteger(x) {
		return nativeInt(x)
	}
	if ifutil.IsNil(x) {
		return Null, nil
	}

	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		return fromNative(rv.Elem().Interface(), depth+1)
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Uint(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil
	case reflect.String:
		return TextString(rv.String()), nil
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return ByteString(reflectBytes(rv)), nil
		}
		arr := make(Array, rv.Len())
		for i := range arr {
			item, err := fromNative(rv.Index(i).Interface(), depth+1)
			if err != nil {
				return nil, err
			}
			arr[i] = item
		}
		return arr, nil
	case reflect.Map:
		m := make(Map, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k, err := fromNative(iter.Key().Interface(), depth+1)
			if err != nil {
				return nil, err
			}
			val, err := fromNative(iter.Value().Interface(), depth+1)
			if err != nil {
				return nil, err
			}
			m = append(m, Pair{Key: k, Value: val})
		}
		return m, nil
	}
	return nil, e("category", CategoryUnrepresentable, "reason", ReasonUnsupportedValue, "type", typeName(x))
}

func nativeInt(x interface{}) (Value, error) {
	neg, mag, err := numberutil.SplitInt(x)
	if err != nil {
		return nil, errors.E("cbor.FromNative", errors.K.Invalid, err,
			"category", CategoryUnrepresentable,
			"reason", ReasonIntegerOverflow)
	}
	if neg {
		return NegInt(mag), nil
	}
	return Uint(mag), nil
}

// ToNative converts a Value into a tree of native Go values:
//
//   - Uint: uint64
//   - NegInt: int64, or *big.Int if below math.MinInt64
//   - ByteString: []byte
//   - TextString: string
//   - Array and Sequence: []interface{}
//   - Map: map[string]interface{} if all keys are text strings, otherwise
//     map[interface{}]interface{}
//   - Float: float64
//   - False and True: bool, Null and Undefined: nil, other simple values: Simple
//   - Opaque: the wrapped application value
//   - *Tagged: returned as is
//
// Maps with keys that have no comparable native representation (byte strings,
// arrays, maps) fail with an error.
func ToNative(v Value) (interface{}, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case Uint:
		return uint64(x), nil
	case NegInt:
		if i, ok := x.Int64(); ok {
			return i, nil
		}
		return x.BigInt(), nil
	case ByteString:
		return []byte(x), nil
	case TextString:
		return string(x), nil
	case Array:
		return toNativeSlice(x)
	case Sequence:
		return toNativeSlice(x)
	case Map:
		return toNativeMap(x)
	case *Tagged:
		return x, nil
	case Simple:
		switch x {
		case False, True:
			return x == True, nil
		case Null, Undefined:
			return nil, nil
		}
		return x, nil
	case Float:
		return float64(x), nil
	case Opaque:
		return x.V, nil
	}
	return nil, errors.NoTrace("cbor.ToNative", errors.K.Invalid, "reason", ReasonUnsupportedValue, "type", typeName(v))
}

func toNativeSlice(vals []Value) ([]interface{}, error) {
	res := make([]interface{}, len(vals))
	for i, val := range vals {
		n, err := ToNative(val)
		if err != nil {
			return nil, err
		}
		res[i] = n
	}
	return res, nil
}

func toNativeMap(m Map) (interface{}, error) {
	textKeys := true
	for _, p := range m {
		if _, ok := p.Key.(TextString); !ok {
			textKeys = false
			break
		}
	}

	if textKeys {
		res := make(map[string]interface{}, len(m))
		for _, p := range m {
			val, err := ToNative(p.Value)
			if err != nil {
				return nil, err
			}
			res[string(p.Key.(TextString))] = val
		}
		return res, nil
	}

	res := make(map[interface{}]interface{}, len(m))
	for _, p := range m {
		k, err := ToNative(p.Key)
		if err != nil {
			return nil, err
		}
		if k != nil && !reflect.TypeOf(k).Comparable() {
			return nil, errors.NoTrace("cbor.ToNative", errors.K.Invalid,
				"reason", "unhashable map key",
				"key", Diagnose(p.Key))
		}
		val, err := ToNative(p.Value)
		if err != nil {
			return nil, err
		}
		res[k] = val
	}
	return res, nil
}
