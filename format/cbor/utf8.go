package cbor

import (
	"unicode"
	"unicode/utf16"

	"github.com/eluv-io/errors-go"
)

// validateUTF8 decodes b as UTF-8 and returns the index of the first byte of
// an invalid sequence, or -1 if b is valid. Overlong forms, surrogate code
// points and code points above U+10FFFF are invalid.
func validateUTF8(b []byte) int {
	for i := 0; i < len(b); {
		c := b[i]
		var n int
		var cp rune
		switch {
		case c < 0x80:
			i++
			continue
		case c&0xe0 == 0xc0:
			n, cp = 2, rune(c&0x1f)
		case c&0xf0 == 0xe0:
			n, cp = 3, rune(c&0x0f)
		case c&0xf8 == 0xf0:
			n, cp = 4, rune(c&0x07)
		default:
			return i
		}
		if i+n > len(b) {
			return i
		}
		for j := 1; j < n; j++ {
			cc := b[i+j]
			if cc&0xc0 != 0x80 {
				return i
			}
			cp = cp<<6 | rune(cc&0x3f)
		}
		switch {
		case n == 2 && cp < 0x80,
			n == 3 && cp < 0x800,
			n == 4 && cp < 0x10000:
			return i // overlong
		case cp >= 0xd800 && cp <= 0xdfff:
			return i // surrogate
		case cp > 0x10ffff:
			return i
		}
		i += n
	}
	return -1
}

// TextFromUTF16 converts UTF-16 code units to a text string, combining
// surrogate pairs. Unpaired surrogates are an error.
func TextFromUTF16(units []uint16) (TextString, error) {
	runes := make([]rune, 0, len(units))
	for i := 0; i < len(units); i++ {
		r := rune(units[i])
		if utf16.IsSurrogate(r) {
			if i+1 < len(units) {
				if pair := utf16.DecodeRune(r, rune(units[i+1])); pair != unicode.ReplacementChar {
					runes = append(runes, pair)
					i++
					continue
				}
			}
			return "", errors.NoTrace("cbor.TextFromUTF16", errors.K.Invalid,
				"category", CategoryUnrepresentable,
				"reason", "unpaired surrogate",
				"index", i)
		}
		runes = append(runes, r)
	}
	return TextString(runes), nil
}
