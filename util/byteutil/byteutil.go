package byteutil

import (
	"math/rand"
)

// RandomBytes returns length pseudo-random bytes from the default source of
// math/rand. Not suitable for key material.
func RandomBytes(length int) []byte {
	return RandomBytesFrom(nil, length)
}

// RandomBytesFrom returns length pseudo-random bytes drawn from rnd, or from
// the default source if rnd is nil. A seeded rnd yields reproducible data.
func RandomBytesFrom(rnd *rand.Rand, length int) []byte {
	b := make([]byte, length)
	if rnd == nil {
		_, _ = rand.Read(b)
	} else {
		_, _ = rnd.Read(b)
	}
	return b
}
