// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der

import (
	"errors"
	"strconv"
	"strings"
)

// These errors identify the ways in which a DER encoding can be malformed.
// Errors returned by [Decode] are of type [*SyntaxError] and match these
// sentinels via [errors.Is].
var (
	// ErrUnexpectedEnd indicates that the input ended while reading tag,
	// length, or content octets.
	ErrUnexpectedEnd = errors.New("unexpected end of input")

	// ErrIndefiniteLength indicates that the BER indefinite-length form was
	// encountered. DER forbids it and this package rejects it.
	ErrIndefiniteLength = errors.New("indefinite length encoding is not supported")

	// ErrInvalidLength indicates that a length violates the constraints of
	// the encoded type or is not minimally encoded.
	ErrInvalidLength = errors.New("invalid length")

	// ErrInvalidTag indicates a long-form tag number that is not minimally
	// encoded or does not fit a uint.
	ErrInvalidTag = errors.New("invalid tag number")

	// ErrNotConstructed indicates that a SEQUENCE or SET tag lacks the
	// constructed bit.
	ErrNotConstructed = errors.New("must be constructed")

	// ErrInvalidUTF8 indicates that string content is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("invalid UTF-8")

	// ErrTrailingData indicates that bytes remain in the input after the
	// single top-level value has been decoded.
	ErrTrailingData = errors.New("trailing data after top-level value")

	// ErrDepthExceeded indicates that the input nests constructed values
	// deeper than [MaxDepth].
	ErrDepthExceeded = errors.New("maximum nesting depth exceeded")

	// ErrInvalidOID indicates a malformed OBJECT IDENTIFIER: a component
	// list violating the structural rules checked by [Encode], or a
	// component whose base-128 encoding is invalid.
	ErrInvalidOID = errors.New("invalid object identifier")
)

// SyntaxError indicates that the input passed to [Decode] is not valid DER
// within the supported type set. The error value contains the location of
// the error within the input. Malformed input is a permanent, deterministic
// failure: retrying a decode never succeeds.
type SyntaxError struct {
	Err error // underlying error, matches one of the Err* sentinels

	// ByteOffset is the location of the error. The location is usually the
	// start of the TLV whose encoding contains the error.
	ByteOffset int64
}

func (e *SyntaxError) Unwrap() error { return e.Err }
func (e *SyntaxError) Error() string {
	b := []byte("der: syntax error")
	if e.ByteOffset > 0 {
		b = strconv.AppendInt(append(b, " at offset "...), e.ByteOffset, 10)
	}
	if e.Err != nil {
		b = append(b, ": "...)
		b = append(b, e.Err.Error()...)
	}
	return string(b)
}

// EncodeError indicates that a [Value] failed validation during encoding.
// See [Encode] for the constraints that are checked.
type EncodeError struct {
	Value Value // the value that failed validation, may be nil
	Err   error // underlying error
}

func (e *EncodeError) Unwrap() error { return e.Err }
func (e *EncodeError) Error() string {
	var s strings.Builder
	s.WriteString("der: encode error")
	if e.Value != nil {
		s.WriteString(" for ")
		s.WriteString(e.Value.Tag().String())
	}
	if e.Err != nil {
		s.WriteString(": ")
		s.WriteString(e.Err.Error())
	}
	return s.String()
}
