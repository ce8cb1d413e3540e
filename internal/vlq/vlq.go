// Package vlq implements [Variable-length quantity] encoding as used in MIDI
// or DER. A VLQ is essentially a base-128 representation of an unsigned
// integer with the addition of the eighth bit to mark continuation of bytes.
// DER uses VLQs for long-form tag numbers and for the components of OBJECT
// IDENTIFIER values and requires them to be minimally encoded, so this
// package rejects encodings with leading zero bytes.
//
// [Variable-length quantity]: https://en.wikipedia.org/wiki/Variable-length_quantity
package vlq

import (
	"errors"
	"math/bits"
	"unsafe"
)

var (
	// ErrTruncated indicates that the input ended before the final VLQ byte.
	ErrTruncated = errors.New("vlq is truncated")
	// ErrNotMinimal indicates a VLQ with a leading zero byte (0x80).
	ErrNotMinimal = errors.New("vlq is not minimally encoded")
	// ErrOverflow indicates a VLQ whose value does not fit the target type.
	ErrOverflow = errors.New("vlq too large for target type")
)

// Consume parses a minimally encoded VLQ from the beginning of b. It returns
// the decoded value and the number of bytes it occupies in b. The maximum
// allowed value is limited by the size of T.
func Consume[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](b []byte) (ret T, n int, err error) {
	if len(b) == 0 {
		return 0, 0, ErrTruncated
	}
	if b[0] == 0x80 {
		return 0, 0, ErrNotMinimal
	}

	ret = T(b[0] & 0x7f)
	numBits := bits.Len8(b[0] & 0x7f)
	n = 1

	for b[n-1]&0x80 != 0 {
		if n == len(b) {
			return 0, n, ErrTruncated
		}
		ret <<= 7
		ret |= T(b[n] & 0x7f)

		// The first byte cannot be 0x80, so numBits starts out >= 1.
		numBits += 7
		if numBits > int(unsafe.Sizeof(ret)*8) {
			return 0, n, ErrOverflow
		}
		n++
	}
	return ret, n, nil
}

// Length returns the number of bytes needed to encode n as a VLQ.
func Length[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](n T) int {
	if n == 0 {
		return 1
	}
	l := 0
	for i := n; i > 0; i >>= 7 {
		l++
	}
	return l
}

// Append appends the VLQ encoding of i to dst and returns the extended slice.
func Append[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](dst []byte, i T) []byte {
	l := Length(i)

	for j := l - 1; j >= 0; j-- {
		b := byte(i>>(j*7)) & 0x7f
		if j > 0 {
			b |= 0x80
		}
		dst = append(dst, b)
	}

	return dst
}
