package byteutil_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eluv-io/cbor-go/util/byteutil"
)

func TestRandomBytes(t *testing.T) {
	require.Len(t, byteutil.RandomBytes(0), 0)
	require.Len(t, byteutil.RandomBytes(17), 17)

	a := byteutil.RandomBytesFrom(rand.New(rand.NewSource(7)), 32)
	b := byteutil.RandomBytesFrom(rand.New(rand.NewSource(7)), 32)
	require.Equal(t, a, b)
	require.NotEqual(t, a, byteutil.RandomBytesFrom(rand.New(rand.NewSource(8)), 32))
}
