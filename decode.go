// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"math/big"
	"unicode/utf8"

	"codello.dev/der/internal/vlq"
)

// MaxDepth is the maximum nesting depth of constructed values accepted by
// [Decode]. Inputs nesting deeper than this fail with [ErrDepthExceeded].
// The limit bounds the recursion depth of the decoder so that adversarial,
// deeply nested inputs cannot exhaust the goroutine stack.
const MaxDepth = 32

// Decode parses data as a single DER-encoded value. DER encodes exactly one
// top-level value, so Decode fails with [ErrTrailingData] if bytes remain
// after the value; callers that expect multiple values wrap them in an
// explicit SEQUENCE. All failures are reported as a [*SyntaxError] matching
// one of the Err* sentinels of this package; malformed input never panics.
//
// Universal tags without a counterpart in the [Value] union, application and
// private class tags, and primitive context-specific tags are captured as
// [Unknown] with their raw content octets. A constructed context-specific
// tag is assumed to use explicit tagging: its content is decoded as a single
// inner value and wrapped in [ContextSpecific]. Bytes after that inner value
// are ignored.
//
// The returned Value tree owns all of its data; it does not reference data.
func Decode(data []byte) (Value, error) {
	c := &cursor{data: data}
	v, err := c.decodeValue(0)
	if err != nil {
		return nil, err
	}
	if c.len() > 0 {
		return nil, &SyntaxError{Err: ErrTrailingData, ByteOffset: c.pos()}
	}
	return v, nil
}

//region cursor

// cursor is a forward-only reading position within a byte slice. Constructed
// values are decoded by running a child cursor over the content octets of
// the parent. The base offset records where the slice begins relative to the
// original input so that errors can report absolute positions.
type cursor struct {
	data []byte
	off  int
	base int64
}

// pos returns the current position of c relative to the original input.
func (c *cursor) pos() int64 {
	return c.base + int64(c.off)
}

// len returns the number of unread bytes in c.
func (c *cursor) len() int {
	return len(c.data) - c.off
}

// readByte consumes a single byte from c.
func (c *cursor) readByte() (byte, error) {
	if c.off >= len(c.data) {
		return 0, ErrUnexpectedEnd
	}
	b := c.data[c.off]
	c.off++
	return b, nil
}

// readExact consumes exactly n bytes from c. The returned slice aliases the
// underlying data and must not be modified.
func (c *cursor) readExact(n int) ([]byte, error) {
	if n > c.len() {
		return nil, ErrUnexpectedEnd
	}
	b := c.data[c.off : c.off+n]
	c.off += n
	return b, nil
}

//endregion

//region identifier and length octets

// header holds the information encoded in the identifier and length octets
// of a TLV: the tag class and number, the constructed flag and the number of
// content octets.
type header struct {
	Class       Class
	Number      uint
	Constructed bool
	Length      int
}

// readHeader decodes the identifier and length octets of a TLV from c.
func (c *cursor) readHeader() (header, error) {
	b, err := c.readByte()
	if err != nil {
		return header{}, err
	}
	h := header{
		Class:       Class(b >> 6),
		Number:      uint(b & 0x1f),
		Constructed: b&0x20 == 0x20,
	}

	// If the bottom five bits are set, then the tag number is actually
	// VLQ-encoded afterward.
	if b&0x1f == 0x1f {
		n, size, err := vlq.Consume[uint](c.data[c.off:])
		if err != nil {
			return h, vlqErr(err, ErrInvalidTag)
		}
		c.off += size
		h.Number = n
	}

	h.Length, err = c.readLength()
	return h, err
}

// readLength decodes the length octets of a TLV from c. Only the definite
// length form is accepted and, as DER requires, the length must be minimally
// encoded.
func (c *cursor) readLength() (int, error) {
	b, err := c.readByte()
	if err != nil {
		return 0, err
	}
	if b&0x80 == 0 {
		// The length is encoded in the bottom 7 bits.
		return int(b), nil
	}
	if b == 0x80 {
		return 0, ErrIndefiniteLength
	}

	// Bottom 7 bits give the number of length bytes to follow.
	length := 0
	for i, numBytes := 0, int(b&0x7f); i < numBytes; i++ {
		if b, err = c.readByte(); err != nil {
			return 0, err
		}
		if i == 0 && b == 0 {
			return 0, fmt.Errorf("%w: length is not minimally encoded", ErrInvalidLength)
		}
		if length > math.MaxInt>>8 {
			// We can't shift length up without overflowing.
			return 0, fmt.Errorf("%w: length too large", ErrInvalidLength)
		}
		length = length<<8 | int(b)
	}
	if length < 0x80 {
		return 0, fmt.Errorf("%w: length is not minimally encoded", ErrInvalidLength)
	}
	return length, nil
}

// vlqErr translates an error from the vlq package into a decode error.
// Truncation maps to [ErrUnexpectedEnd], everything else is reported via the
// given sentinel.
func vlqErr(err error, sentinel error) error {
	if errors.Is(err, vlq.ErrTruncated) {
		return ErrUnexpectedEnd
	}
	return fmt.Errorf("%w: %v", sentinel, err)
}

//endregion

//region value decoding

// decodeValue decodes a single TLV from c into a [Value]. depth is the
// number of constructed values enclosing the TLV.
func (c *cursor) decodeValue(depth int) (Value, error) {
	start := c.pos()
	if depth > MaxDepth {
		return nil, &SyntaxError{Err: ErrDepthExceeded, ByteOffset: start}
	}
	h, err := c.readHeader()
	if err != nil {
		return nil, syntaxErr(start, err)
	}
	contentStart := c.pos()
	content, err := c.readExact(h.Length)
	if err != nil {
		return nil, syntaxErr(start, err)
	}

	switch h.Class {
	case ClassUniversal:
		v, err := parseUniversal(h, content, contentStart, depth)
		if err != nil {
			return nil, syntaxErr(start, err)
		}
		return v, nil
	case ClassContextSpecific:
		if !h.Constructed {
			// Without schema knowledge the content octets of a primitive
			// context-specific tag cannot be interpreted.
			return Unknown{ClassContextSpecific, h.Number, false, bytes.Clone(content)}, nil
		}
		if len(content) == 0 {
			return ContextSpecific{TagNumber: h.Number, Constructed: true}, nil
		}
		sub := &cursor{data: content, base: contentStart}
		inner, err := sub.decodeValue(depth + 1)
		if err != nil {
			return nil, err
		}
		// Explicit tagging wraps exactly one value. Bytes after the inner
		// value are ignored.
		return ContextSpecific{TagNumber: h.Number, Constructed: true, Value: inner}, nil
	default: // ClassApplication, ClassPrivate
		return Unknown{h.Class, h.Number, h.Constructed, bytes.Clone(content)}, nil
	}
}

// parseUniversal decodes the content octets of a universal class TLV into
// the corresponding [Value]. Universal tags without a first-class type are
// captured as [Unknown].
func parseUniversal(h header, content []byte, contentStart int64, depth int) (Value, error) {
	switch h.Number {
	case TagBoolean:
		if len(content) != 1 {
			return nil, fmt.Errorf("%w: BOOLEAN content must be exactly 1 byte", ErrInvalidLength)
		}
		return Boolean(content[0] != 0), nil
	case TagInteger:
		return parseInteger(content)
	case TagBitString:
		return parseBitString(content)
	case TagOctetString:
		return OctetString(bytes.Clone(content)), nil
	case TagNull:
		if len(content) != 0 {
			return nil, fmt.Errorf("%w: NULL content must be empty", ErrInvalidLength)
		}
		return Null{}, nil
	case TagOID:
		return parseObjectIdentifier(content)
	case TagUTF8String, TagPrintableString, TagIA5String, TagUTCTime, TagGeneralizedTime:
		return parseStringValue(h.Number, content)
	case TagSequence, TagSet:
		if !h.Constructed {
			if h.Number == TagSet {
				return nil, fmt.Errorf("SET %w", ErrNotConstructed)
			}
			return nil, fmt.Errorf("SEQUENCE %w", ErrNotConstructed)
		}
		elems, err := parseElements(content, contentStart, depth)
		if err != nil {
			return nil, err
		}
		if h.Number == TagSet {
			return Set(elems), nil
		}
		return Sequence(elems), nil
	default:
		return Unknown{ClassUniversal, h.Number, h.Constructed, bytes.Clone(content)}, nil
	}
}

// parseInteger interprets content as a big-endian two's-complement signed
// integer of arbitrary size.
func parseInteger(content []byte) (Value, error) {
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: INTEGER content must not be empty", ErrInvalidLength)
	}
	i := new(big.Int).SetBytes(content)
	if content[0]&0x80 != 0 {
		shift := new(big.Int).Lsh(big.NewInt(1), uint(len(content))*8)
		i.Sub(i, shift)
	}
	return Integer{i}, nil
}

// parseBitString interprets the first content octet as the number of unused
// bits and the remainder as the bit data.
func parseBitString(content []byte) (Value, error) {
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: BIT STRING content must not be empty", ErrInvalidLength)
	}
	unused := content[0]
	if unused > 7 {
		return nil, fmt.Errorf("%w: BIT STRING has %d unused bits", ErrInvalidLength, unused)
	}
	return BitString{Bytes: bytes.Clone(content[1:]), UnusedBits: unused}, nil
}

// parseObjectIdentifier decodes the components of an OBJECT IDENTIFIER. The
// first content octet yields the first two components, every following VLQ
// yields one more. The component constraints validated by [Encode] are not
// re-checked here.
func parseObjectIdentifier(content []byte) (Value, error) {
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: OBJECT IDENTIFIER content must not be empty", ErrInvalidLength)
	}
	oid := ObjectIdentifier{uint(content[0]) / 40, uint(content[0]) % 40}
	rest := content[1:]
	for len(rest) > 0 {
		v, n, err := vlq.Consume[uint](rest)
		if err != nil {
			return nil, vlqErr(err, ErrInvalidOID)
		}
		oid = append(oid, v)
		rest = rest[n:]
	}
	return oid, nil
}

// parseStringValue decodes the five text-based universal types. All of them
// are treated as opaque UTF-8 text: character set restrictions and time
// formats are not validated.
func parseStringValue(number uint, content []byte) (Value, error) {
	if !utf8.Valid(content) {
		return nil, ErrInvalidUTF8
	}
	switch number {
	case TagPrintableString:
		return PrintableString(content), nil
	case TagIA5String:
		return IA5String(content), nil
	case TagUTCTime:
		return UTCTime(content), nil
	case TagGeneralizedTime:
		return GeneralizedTime(content), nil
	default:
		return UTF8String(content), nil
	}
}

// parseElements decodes the content octets of a SEQUENCE or SET into its
// elements. The content must consist of whole TLVs. The returned slice is
// non-nil even for empty content.
func parseElements(content []byte, contentStart int64, depth int) ([]Value, error) {
	elems := make([]Value, 0, 4)
	sub := &cursor{data: content, base: contentStart}
	for sub.len() > 0 {
		v, err := sub.decodeValue(depth + 1)
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
	}
	return elems, nil
}

// syntaxErr wraps err in a [*SyntaxError] reporting the given offset. Errors
// from nested decode calls are already wrapped and pass through unchanged so
// they keep the more precise inner offset.
func syntaxErr(offset int64, err error) error {
	var sErr *SyntaxError
	if errors.As(err, &sErr) {
		return err
	}
	return &SyntaxError{Err: err, ByteOffset: offset}
}

//endregion
