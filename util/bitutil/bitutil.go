package bitutil

import (
	"strconv"
	"strings"

	"github.com/eluv-io/errors-go"
)

// DecodeString decodes the given binary string to the represented bytes.
// Expects a string of 0s and 1s, with length divisible by 8, with or without
// the "0b" prefix. Underscores are ignored and may be used to group bit
// fields, e.g. "0b0_11111_1000000000" for the half precision NaN.
func DecodeString(s string) ([]byte, error) {
	s = strings.TrimPrefix(s, "0b")
	s = strings.ReplaceAll(s, "_", "")

	if len(s)%8 != 0 {
		return nil, errors.E("decode bit string", errors.K.Invalid,
			"reason", "binary string length not divisible by 8",
			"string", s)
	}

	b := make([]byte, 0, len(s)/8)
	for i := 0; i < len(s); i += 8 {
		n, err := strconv.ParseUint(s[i:i+8], 2, 8)
		if err != nil {
			return nil, errors.E("decode bit string", errors.K.Invalid, err,
				"string", s)
		}
		b = append(b, byte(n))
	}

	return b, nil
}

// EncodeToString encodes the given bytes into a binary string.
// Does not add the "0b" prefix.
func EncodeToString(b []byte) string {
	sb := strings.Builder{}
	sb.Grow(len(b) * 8)
	for _, n := range b {
		x := strconv.FormatUint(uint64(n), 2)
		sb.WriteString(strings.Repeat("0", 8-len(x)))
		sb.WriteString(x)
	}
	return sb.String()
}
