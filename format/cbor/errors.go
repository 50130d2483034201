package cbor

import (
	"github.com/davecgh/go-spew/spew"
	"github.com/eluv-io/errors-go"
)

const (
	opEncode = "cbor.Encode"
	opDecode = "cbor.Decode"
)

// Error categories, available through the "category" field of all errors
// returned by this package.
const (
	CategoryMalformed       = "malformed"
	CategorySemantic        = "semantic"
	CategoryUnrepresentable = "unrepresentable"
	CategoryExhausted       = "exhausted"
)

// Error reasons, available through the "reason" field.
const (
	ReasonTruncated             = "truncated input"
	ReasonInvalidAdditionalInfo = "invalid additional info"
	ReasonInvalidUTF8           = "invalid utf-8"
	ReasonInvalidIndefinite     = "invalid indefinite length"
	ReasonUnexpectedBreak       = "unexpected break"
	ReasonInvalidSimple         = "invalid simple value"
	ReasonDuplicateKey          = "duplicate map key"
	ReasonLengthOutOfRange      = "length out of range"
	ReasonUnsupportedValue      = "unsupported value"
	ReasonIntegerOverflow       = "integer overflow"
	ReasonNestedSequence        = "nested sequence"
	ReasonReservedSimple        = "reserved simple value"
	ReasonRootOmitted           = "root omitted"
	ReasonContentOmitted        = "tag content omitted"
	ReasonMaxDepth              = "max nesting depth exceeded"
	ReasonReplacer              = "replacer failed"
	ReasonReviver               = "reviver failed"
)

func categoryKind(category string) errors.Kind {
	if category == CategoryExhausted {
		return errors.K.Unavailable
	}
	return errors.K.Invalid
}

// decodeErr creates a decode error for the item at the given offset.
func decodeErr(offset int, category, reason string, fields ...interface{}) error {
	kind := categoryKind(category)
	if reason == ReasonDuplicateKey {
		kind = errors.K.Exist
	}
	args := append([]interface{}{opDecode, kind, "category", category, "reason", reason, "offset", offset}, fields...)
	return errors.NoTrace(args...)
}

// encodeErr creates an encode error for the value at the given path.
func encodeErr(p path, category, reason string, fields ...interface{}) error {
	args := append([]interface{}{opEncode, categoryKind(category), "category", category, "reason", reason, "path", p.String()}, fields...)
	return errors.E(args...)
}

func unsupportedErr(p path, v interface{}) error {
	return encodeErr(p, CategoryUnrepresentable, ReasonUnsupportedValue,
		"type", typeName(v),
		"value_dump", spew.Sdump(v))
}

func field(err error, name string) string {
	if err == nil {
		return ""
	}
	v, ok := errors.GetField(err, name)
	if !ok {
		return ""
	}
	return v
}

// CategoryOf returns the error category of an error returned by this package,
// or the empty string if err is nil or not a cbor error.
func CategoryOf(err error) string {
	return field(err, "category")
}

// ReasonOf returns the reason of the given error.
func ReasonOf(err error) string {
	return field(err, "reason")
}

// IsMalformed returns true if err reports malformed input: truncated data,
// invalid additional info, invalid UTF-8 or misplaced break codes.
func IsMalformed(err error) bool {
	return CategoryOf(err) == CategoryMalformed
}

// IsSemantic returns true if err reports well-formed but invalid input, e.g. a
// duplicate map key.
func IsSemantic(err error) bool {
	return CategoryOf(err) == CategorySemantic
}

// IsUnrepresentable returns true if err reports a value that cannot be
// encoded.
func IsUnrepresentable(err error) bool {
	return CategoryOf(err) == CategoryUnrepresentable
}

// IsExhausted returns true if err reports exceeding the nesting limit.
func IsExhausted(err error) bool {
	return CategoryOf(err) == CategoryExhausted
}
