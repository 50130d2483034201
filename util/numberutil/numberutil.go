package numberutil

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"

	"github.com/eluv-io/errors-go"
)

const (
	ReasonNotInteger = "not an integer"
	ReasonOverflow   = "integer overflow"
)

var bigMaxUint64 = new(big.Int).SetUint64(math.MaxUint64)

// SplitInt decomposes the given integer value into its sign and a 64 bit
// magnitude. Negative values are returned as neg=true and mag=-1-val, which
// covers the range [-2^64, -1] of sign-magnitude formats like CBOR.
//
// Supported types are all int and uint kinds, big.Int, *big.Int and
// json.Number holding an integer. Other types fail with reason
// ReasonNotInteger, values outside [-2^64, 2^64-1] with ReasonOverflow.
func SplitInt(val interface{}) (neg bool, mag uint64, err error) {
	e := errors.TemplateNoTrace("SplitInt", errors.K.Invalid)
	switch x := val.(type) {
	case int:
		return splitInt64(int64(x))
	case int8:
		return splitInt64(int64(x))
	case int16:
		return splitInt64(int64(x))
	case int32:
		return splitInt64(int64(x))
	case int64:
		return splitInt64(x)
	case uint:
		return false, uint64(x), nil
	case uint8:
		return false, uint64(x), nil
	case uint16:
		return false, uint64(x), nil
	case uint32:
		return false, uint64(x), nil
	case uint64:
		return false, x, nil
	case json.Number:
		if i, perr := strconv.ParseInt(string(x), 10, 64); perr == nil {
			return splitInt64(i)
		}
		b, ok := new(big.Int).SetString(string(x), 10)
		if !ok {
			return false, 0, e("reason", ReasonNotInteger, "value", x)
		}
		return splitBig(b)
	case *big.Int:
		if x == nil {
			return false, 0, e("reason", ReasonNotInteger, "value", val)
		}
		return splitBig(x)
	case big.Int:
		return splitBig(&x)
	}
	return false, 0, e("reason", ReasonNotInteger, "type", fmt.Sprintf("%T", val))
}

func splitInt64(i int64) (bool, uint64, error) {
	if i < 0 {
		return true, uint64(-(i + 1)), nil
	}
	return false, uint64(i), nil
}

func splitBig(b *big.Int) (bool, uint64, error) {
	if b.Sign() >= 0 {
		if !b.IsUint64() {
			return false, 0, errors.NoTrace("SplitInt", errors.K.Invalid, "reason", ReasonOverflow, "value", b.String())
		}
		return false, b.Uint64(), nil
	}
	// -1-b
	m := new(big.Int).Neg(b)
	m.Sub(m, big.NewInt(1))
	if m.Cmp(bigMaxUint64) > 0 {
		return false, 0, errors.NoTrace("SplitInt", errors.K.Invalid, "reason", ReasonOverflow, "value", b.String())
	}
	return true, m.Uint64(), nil
}

// IsOverflow returns true if err was returned by SplitInt for an integer that
// does not fit 64 bits.
func IsOverflow(err error) bool {
	reason, _ := errors.GetField(err, "reason")
	return reason == ReasonOverflow
}

// IsInteger returns true if SplitInt supports the type of val.
func IsInteger(val interface{}) bool {
	switch val.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, *big.Int, big.Int:
		return true
	}
	return false
}

func MinInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
