package codecutil

import (
	"encoding"
	"encoding/base64"
	"reflect"
	"strings"

	"github.com/eluv-io/errors-go"
	"github.com/mitchellh/mapstructure"
)

type MapUnmarshaler interface {
	UnmarshalMap(m map[string]interface{}) error
}

var mapUnmarshaler = reflect.TypeOf((*MapUnmarshaler)(nil)).Elem()
var textUnmarshaler = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()

// MapDecode decodes a parsed, generic source structure that was e.g.
// produced by decoding CBOR into native values
//
//	v, _ := cbor.Decode(data, nil)
//	src, _ := cbor.ToNative(v)
//
// into the destination object dst (usually a pointer to a struct value). Any
// `json:...` tags defined on the destination structure's member fields will be
// used for decoding (just like when unmarshaling JSON text).
//
// The implementation uses github.com/mitchellh/mapstructure to do the decoding,
// with the following special decoding hooks:
//   - decodes with the 'UnmarshalMap(m map[string]interface{}) error'
//     function if implemented by the destination object/field
//   - decodes with the 'UnmarshalText(text []byte) error' function if the
//     destination implements encoding.TextUnmarshaler
//   - converts maps with interface{} keys to maps with string keys if all
//     keys are strings
//
// When the variadic squash parameter is used, its first value is set to the
// Squash field of the decoder configuration.
func MapDecode(src interface{}, dst interface{}, squash ...bool) error {
	sqsh := false
	if len(squash) > 0 {
		sqsh = squash[0]
	}
	cfg := &mapstructure.DecoderConfig{
		TagName:    "json",
		Result:     dst,
		Squash:     sqsh,
		DecodeHook: decodeHook,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return err
	}
	return decoder.Decode(src)
}

var byteSliceType = reflect.TypeOf([]byte(nil))

func decodeHook(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
	if m, ok := data.(map[interface{}]interface{}); ok {
		if sm, ok := stringKeys(m); ok {
			data = sm
		}
	}

	switch dt := data.(type) {
	case map[string]interface{}:
		t, ptr := resolve(t)
		if ptr.Implements(mapUnmarshaler) {
			instance := reflect.New(t)

			ret := instance.Interface()
			err := ret.(MapUnmarshaler).UnmarshalMap(dt)
			if err != nil {
				return nil, err
			}
			return ret, nil
		}
	case string:
		t, ptr := resolve(t)
		if ptr.Implements(textUnmarshaler) {
			instance := reflect.New(t)

			ret := instance.Interface()
			err := ret.(encoding.TextUnmarshaler).UnmarshalText([]byte(dt))
			if err != nil {
				return nil, err
			}
			return ret, nil

		} else if t == byteSliceType {
			// byte slices may have been converted to base64 strings by JSON
			return base64.StdEncoding.DecodeString(dt)
		}
	case []byte:
		t, ptr := resolve(t)
		if t.Kind() != reflect.Slice && ptr.Implements(textUnmarshaler) {
			instance := reflect.New(t)
			ret := instance.Interface()
			if err := ret.(encoding.TextUnmarshaler).UnmarshalText(dt); err != nil {
				return nil, err
			}
			return ret, nil
		}
	}

	return data, nil
}

func stringKeys(m map[interface{}]interface{}) (map[string]interface{}, bool) {
	res := make(map[string]interface{}, len(m))
	for k, v := range m {
		s, ok := k.(string)
		if !ok {
			return nil, false
		}
		res[s] = v
	}
	return res, true
}

func resolve(t reflect.Type) (reflect.Type, reflect.Type) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	ptr := reflect.PointerTo(t)
	return t, ptr
}

// MapEncode converts the exported fields of the given struct (or pointer to
// struct) into a map keyed by the field names, honoring `json:...` tags in the
// same way as MapDecode: a tag name replaces the field name, "-" skips the
// field and "omitempty" skips zero values. Field values are not converted, so
// nested structs remain structs. Exported embedded structs without tag name
// are flattened into the result.
func MapEncode(src interface{}) (map[string]interface{}, error) {
	rv := reflect.ValueOf(src)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, errors.E("MapEncode", errors.K.Invalid, "reason", "nil pointer")
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, errors.E("MapEncode", errors.K.Invalid,
			"reason", "not a struct",
			"type", rv.Type().String())
	}
	res := make(map[string]interface{}, rv.NumField())
	encodeFields(rv, res)
	return res, nil
}

func encodeFields(rv reflect.Value, res map[string]interface{}) {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		name, omitEmpty, skip := parseTag(sf)
		if skip {
			continue
		}
		fv := rv.Field(i)
		if sf.Anonymous && name == "" && sf.IsExported() {
			ft := sf.Type
			if ft.Kind() == reflect.Ptr {
				if fv.IsNil() {
					continue
				}
				fv, ft = fv.Elem(), ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				encodeFields(fv, res)
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}
		if omitEmpty && fv.IsZero() {
			continue
		}
		if name == "" {
			name = sf.Name
		}
		res[name] = fv.Interface()
	}
}

func parseTag(sf reflect.StructField) (name string, omitEmpty bool, skip bool) {
	tag, ok := sf.Tag.Lookup("json")
	if !ok {
		return "", false, false
	}
	if tag == "-" {
		return "", false, true
	}
	parts := strings.Split(tag, ",")
	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			omitEmpty = true
		}
	}
	return parts[0], omitEmpty, false
}
