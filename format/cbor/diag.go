package cbor

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Diagnose returns the diagnostic notation of v as defined in RFC 8949
// section 8, e.g.
//
//	[1, -2, "text", h'0102', {"a": true}, 1(1363896240), 1.5, NaN]
//
// Items of a Sequence are separated by ", ". Opaque values are rendered as
// opaque(%v).
func Diagnose(v Value) string {
	sb := strings.Builder{}
	diagnose(&sb, v)
	return sb.String()
}

func diagnose(sb *strings.Builder, v Value) {
	switch x := v.(type) {
	case nil:
	case Uint:
		sb.WriteString(strconv.FormatUint(uint64(x), 10))
	case NegInt:
		if uint64(x) == math.MaxUint64 {
			sb.WriteString("-18446744073709551616")
		} else {
			sb.WriteString("-")
			sb.WriteString(strconv.FormatUint(uint64(x)+1, 10))
		}
	case ByteString:
		sb.WriteString("h'")
		sb.WriteString(hex.EncodeToString(x))
		sb.WriteString("'")
	case TextString:
		sb.WriteString(quote(string(x)))
	case Array:
		sb.WriteString("[")
		diagnoseItems(sb, x)
		sb.WriteString("]")
	case Sequence:
		diagnoseItems(sb, x)
	case Map:
		sb.WriteString("{")
		for i, p := range x {
			if i > 0 {
				sb.WriteString(", ")
			}
			diagnose(sb, p.Key)
			sb.WriteString(": ")
			diagnose(sb, p.Value)
		}
		sb.WriteString("}")
	case *Tagged:
		if x == nil {
			sb.WriteString("null")
			return
		}
		sb.WriteString(strconv.FormatUint(x.Tag, 10))
		sb.WriteString("(")
		diagnose(sb, x.Value)
		sb.WriteString(")")
	case Simple:
		switch x.Semantic() {
		case SemanticFalse:
			sb.WriteString("false")
		case SemanticTrue:
			sb.WriteString("true")
		case SemanticNull:
			sb.WriteString("null")
		case SemanticUndefined:
			sb.WriteString("undefined")
		default:
			sb.WriteString("simple(")
			sb.WriteString(strconv.Itoa(int(x)))
			sb.WriteString(")")
		}
	case Float:
		sb.WriteString(formatFloat(float64(x)))
	case Opaque:
		sb.WriteString(fmt.Sprintf("opaque(%v)", x.V))
	}
}

func diagnoseItems(sb *strings.Builder, items []Value) {
	for i, item := range items {
		if i > 0 {
			sb.WriteString(", ")
		}
		diagnose(sb, item)
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if strings.ContainsAny(s, ".") {
		return s
	}
	// floats always carry a fraction: 1.0, 1.0e+300
	if i := strings.IndexByte(s, 'e'); i >= 0 {
		return s[:i] + ".0" + s[i:]
	}
	return s + ".0"
}

// quote returns s as JSON string without HTML escaping.
func quote(s string) string {
	buf := bytes.Buffer{}
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return strconv.Quote(s)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
