package ifutil

import (
	"fmt"
	"math/big"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

type dummy struct {
	a string
}

func TestIsNil(t *testing.T) {
	var (
		zeroChan      chan bool
		zeroMap       map[string]bool
		zeroSlice     []string
		zeroFunc      func()
		zeroStructPtr *dummy
		zeroBig       *big.Int
		zeroUnsafe    unsafe.Pointer
		iface         interface{}
	)

	tests := []struct {
		name string
		obj  interface{}
		want bool
	}{
		{"nil", nil, true},
		{"nil interface", iface, true},
		{"nil chan", zeroChan, true},
		{"nil map", zeroMap, true},
		{"nil slice", zeroSlice, true},
		{"nil func", zeroFunc, true},
		{"nil struct pointer", zeroStructPtr, true},
		{"nil big int", zeroBig, true},
		{"nil unsafe pointer", zeroUnsafe, true},
		{"struct", dummy{}, false},
		{"int", 5, false},
		{"empty string", "", false},
		{"empty chan", make(chan bool), false},
		{"empty map", map[string]bool{}, false},
		{"empty slice", []string{}, false},
		{"struct pointer", &dummy{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, IsNil(tt.obj))
		})
	}
}

func TestDiff(t *testing.T) {
	require.Empty(t, Diff("a", []byte("x"), "b", []byte("x")))
	require.NotEmpty(t, Diff("a", []byte("x"), "b", "x"))
	require.NotEmpty(t, Diff("a", map[string]int{"k": 1}, "b", map[string]int{"k": 2}))
}

func ExampleDiff() {
	fmt.Println(Diff("string A", "string a", "string B", "string b"))
	fmt.Println(Diff("int A", 1, "uint B", uint64(1)))
	fmt.Println(Diff("same", nil, "same", nil))

	// Output:
	//
	// --- string A
	// +++ string B
	// @@ -1,2 +1,2 @@
	// -(string) (len=8) "string a"
	// +(string) (len=8) "string b"
	//
	// --- int A
	// +++ uint B
	// @@ -1,2 +1,2 @@
	// -(int) 1
	// +(uint64) 1
}
