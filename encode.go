// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der

import (
	"errors"
	"fmt"
	"math/big"

	"codello.dev/der/internal/vlq"
)

// Encode serializes v into its DER representation. Decoding the result
// yields a tree equal to v, and encoding an unmodified [Decode] result
// reproduces the input bytes.
//
// Encode validates structural constraints of v, namely the component rules
// of [ObjectIdentifier] and the unused bits of [BitString]. Character set
// restrictions of the string types are not checked; see their IsValid
// methods. Failures are reported as a [*EncodeError] identifying the
// offending value.
func Encode(v Value) ([]byte, error) {
	return appendValue(nil, v)
}

// appendValue appends the complete TLV encoding of v to dst.
func appendValue(dst []byte, v Value) ([]byte, error) {
	switch v := v.(type) {
	case Boolean:
		content := byte(0x00)
		if v {
			content = 0xff
		}
		return append(appendHeader(dst, v.Tag(), false, 1), content), nil
	case Integer:
		content := appendIntegerContent(nil, v.bigInt())
		dst = appendHeader(dst, v.Tag(), false, len(content))
		return append(dst, content...), nil
	case BitString:
		if !v.IsValid() {
			return nil, &EncodeError{Value: v, Err: errors.New("invalid BIT STRING")}
		}
		dst = appendHeader(dst, v.Tag(), false, len(v.Bytes)+1)
		dst = append(dst, v.UnusedBits)
		return append(dst, v.Bytes...), nil
	case OctetString:
		dst = appendHeader(dst, v.Tag(), false, len(v))
		return append(dst, v...), nil
	case Null:
		return appendHeader(dst, v.Tag(), false, 0), nil
	case ObjectIdentifier:
		content, err := objectIdentifierContent(v)
		if err != nil {
			return nil, &EncodeError{Value: v, Err: err}
		}
		dst = appendHeader(dst, v.Tag(), false, len(content))
		return append(dst, content...), nil
	case UTF8String:
		return appendString(dst, v.Tag(), string(v)), nil
	case PrintableString:
		return appendString(dst, v.Tag(), string(v)), nil
	case IA5String:
		return appendString(dst, v.Tag(), string(v)), nil
	case UTCTime:
		return appendString(dst, v.Tag(), string(v)), nil
	case GeneralizedTime:
		return appendString(dst, v.Tag(), string(v)), nil
	case Sequence:
		return appendConstructed(dst, v.Tag(), v)
	case Set:
		return appendConstructed(dst, v.Tag(), v)
	case ContextSpecific:
		var content []byte
		if v.Value != nil {
			var err error
			if content, err = appendValue(nil, v.Value); err != nil {
				return nil, err
			}
		}
		dst = appendHeader(dst, v.Tag(), v.Constructed, len(content))
		return append(dst, content...), nil
	case Unknown:
		dst = appendHeader(dst, Tag{Class: v.Class, Number: v.TagNumber}, v.Constructed, len(v.Bytes))
		return append(dst, v.Bytes...), nil
	case nil:
		return nil, &EncodeError{Err: errors.New("cannot encode nil value")}
	default:
		// Value is a closed interface, so this is unreachable.
		return nil, &EncodeError{Value: v, Err: fmt.Errorf("unsupported type %T", v)}
	}
}

// appendHeader appends the identifier and length octets of a TLV to dst.
func appendHeader(dst []byte, tag Tag, constructed bool, length int) []byte {
	b := byte(tag.Class) << 6
	if constructed {
		b |= 0x20
	}
	if tag.Number < 0x1f {
		dst = append(dst, b|byte(tag.Number))
	} else {
		// Large tag numbers are VLQ-encoded after the identifier octet.
		dst = append(dst, b|0x1f)
		dst = vlq.Append(dst, tag.Number)
	}
	return appendLength(dst, length)
}

// appendLength appends the length octets for the given number of content
// octets to dst, using the shortest form DER permits.
func appendLength(dst []byte, length int) []byte {
	if length < 0x80 {
		return append(dst, byte(length))
	}
	n := 0
	for l := length; l > 0; l >>= 8 {
		n++
	}
	dst = append(dst, 0x80|byte(n))
	for i := n - 1; i >= 0; i-- {
		dst = append(dst, byte(length>>(8*i)))
	}
	return dst
}

// appendString appends the TLV of a primitive value whose content octets are
// the bytes of s.
func appendString(dst []byte, tag Tag, s string) []byte {
	dst = appendHeader(dst, tag, false, len(s))
	return append(dst, s...)
}

// appendConstructed appends the TLV of a constructed value whose content is
// the concatenated encodings of elems. The elements are encoded first so
// that the definite length of the container is known.
func appendConstructed(dst []byte, tag Tag, elems []Value) ([]byte, error) {
	var content []byte
	for _, e := range elems {
		var err error
		if content, err = appendValue(content, e); err != nil {
			return nil, err
		}
	}
	dst = appendHeader(dst, tag, true, len(content))
	return append(dst, content...), nil
}

// appendIntegerContent appends the minimal two's-complement encoding of i to
// dst. The encoding uses the smallest number of octets that represents i
// unambiguously, including its sign.
func appendIntegerContent(dst []byte, i *big.Int) []byte {
	if i.Sign() >= 0 {
		b := i.Bytes()
		if len(b) == 0 {
			b = []byte{0x00}
		}
		if b[0]&0x80 != 0 {
			// A set top bit would flip the sign, so an extra zero octet is
			// needed.
			dst = append(dst, 0x00)
		}
		return append(dst, b...)
	}

	// Find the smallest n with -2^(8n-1) <= i, then encode i+2^(8n) in n
	// octets.
	n := 1
	abs := new(big.Int).Neg(i)
	limit := big.NewInt(0x80)
	for abs.Cmp(limit) > 0 {
		n++
		limit.Lsh(limit, 8)
	}
	t := new(big.Int).Lsh(big.NewInt(1), uint(n)*8)
	t.Add(t, i)
	buf := make([]byte, n)
	t.FillBytes(buf)
	return append(dst, buf...)
}

// objectIdentifierContent encodes the components of oid into content octets.
// The first two components share a single octet, all further components are
// VLQ-encoded.
func objectIdentifierContent(oid ObjectIdentifier) ([]byte, error) {
	if len(oid) < 2 {
		return nil, fmt.Errorf("%w: must have at least 2 components", ErrInvalidOID)
	}
	if oid[0] > 2 {
		return nil, fmt.Errorf("%w: first component must be 0, 1 or 2", ErrInvalidOID)
	}
	if oid[0] < 2 && oid[1] >= 40 {
		return nil, fmt.Errorf("%w: second component must be less than 40", ErrInvalidOID)
	}
	first := 40*oid[0] + oid[1]
	if first > 0xff {
		return nil, fmt.Errorf("%w: first two components do not fit a single octet", ErrInvalidOID)
	}
	content := []byte{byte(first)}
	for _, c := range oid[2:] {
		content = vlq.Append(content, c)
	}
	return content, nil
}
