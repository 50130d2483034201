package cbor

import (
	"math"

	"github.com/eluv-io/cbor-go/util/byteutil"
)

// Additional info values of the initial byte.
const (
	aiUint8      = 24
	aiUint16     = 25
	aiUint32     = 26
	aiUint64     = 27
	aiIndefinite = 31

	breakCode = 0xff
)

// initial returns the initial byte of an item.
func initial(major MajorType, ai byte) byte {
	return byte(major)<<5 | ai
}

// appendArg writes the initial byte for the given major type followed by the
// shortest encoding of the argument n.
func appendArg(buf *byteutil.Buffer, major MajorType, n uint64) {
	switch {
	case n < aiUint8:
		buf.WriteU8(initial(major, byte(n)))
	case n <= math.MaxUint8:
		buf.WriteU8(initial(major, aiUint8))
		buf.WriteU8(uint8(n))
	case n <= math.MaxUint16:
		buf.WriteU8(initial(major, aiUint16))
		buf.WriteU16(uint16(n))
	case n <= math.MaxUint32:
		buf.WriteU8(initial(major, aiUint32))
		buf.WriteU32(uint32(n))
	default:
		buf.WriteU8(initial(major, aiUint64))
		buf.WriteU64(n)
	}
}

// argSize returns the number of bytes written by appendArg for n, including
// the initial byte.
func argSize(n uint64) int {
	switch {
	case n < aiUint8:
		return 1
	case n <= math.MaxUint8:
		return 2
	case n <= math.MaxUint16:
		return 3
	case n <= math.MaxUint32:
		return 5
	}
	return 9
}

// readArg reads the argument of the item whose initial byte is at off and has
// the given additional info. It returns the argument, whether the additional
// info is the indefinite length marker and the total size of the head
// including the initial byte.
func readArg(buf *byteutil.Buffer, off int, ai byte) (n uint64, indefinite bool, size int, err error) {
	switch {
	case ai < aiUint8:
		return uint64(ai), false, 1, nil
	case ai == aiIndefinite:
		return 0, true, 1, nil
	case ai > aiUint64:
		return 0, false, 0, decodeErr(off, CategoryMalformed, ReasonInvalidAdditionalInfo,
			"additional_info", ai)
	}

	var rerr error
	switch ai {
	case aiUint8:
		var v uint8
		v, rerr = buf.ReadU8(off + 1)
		n, size = uint64(v), 2
	case aiUint16:
		var v uint16
		v, rerr = buf.ReadU16(off + 1)
		n, size = uint64(v), 3
	case aiUint32:
		var v uint32
		v, rerr = buf.ReadU32(off + 1)
		n, size = uint64(v), 5
	default:
		n, rerr = buf.ReadU64(off + 1)
		size = 9
	}
	if rerr != nil {
		return 0, false, 0, truncatedErr(buf, off, size)
	}
	return n, false, size, nil
}

// truncatedErr reports that the item at off needs more bytes than available.
func truncatedErr(buf *byteutil.Buffer, off int, need int) error {
	have := buf.Len() - off
	if have < 0 {
		have = 0
	}
	return decodeErr(off, CategoryMalformed, ReasonTruncated, "need", need, "have", have)
}
