// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package der implements encoding and decoding of ASN.1 values under the
// Distinguished Encoding Rules (DER) as defined in [Rec. ITU-T X.690].
// See also “[A Layman's Guide to a Subset of ASN.1, BER, and DER]”.
//
// Unlike schema-driven ASN.1 packages, this package operates on an explicit
// tree of values. [Decode] turns a DER-encoded byte sequence into a [Value]
// tree and [Encode] turns a Value tree back into its canonical DER encoding.
// The two functions are exact inverses on the supported set of types:
// decoding the encoding of a tree yields an equal tree, and re-encoding a
// decoded byte sequence reproduces it byte for byte, provided the input was
// minimal DER.
//
// # Supported Types
//
// The following ASN.1 universal types have first-class counterparts in the
// [Value] union: BOOLEAN, INTEGER, BIT STRING, OCTET STRING, NULL,
// OBJECT IDENTIFIER, UTF8String, PrintableString, IA5String, UTCTime,
// GeneralizedTime, SEQUENCE, and SET. Context-specific tags using the
// constructed (explicit) encoding are modeled by [ContextSpecific]. Every
// other tag, including application and private class tags, is captured
// verbatim as [Unknown].
//
// DER restrictions are enforced during decoding: only the definite length
// form is accepted, length octets must be minimal, and SEQUENCE and SET
// must use the constructed encoding. The package performs no semantic
// validation of decoded values: PrintableString and IA5String character set
// restrictions are not checked (use the IsValid methods if you need them),
// and time values are kept as verbatim text.
//
// [Rec. ITU-T X.690]: https://www.itu.int/rec/T-REC-X.690
// [A Layman's Guide to a Subset of ASN.1, BER, and DER]: http://luca.ntop.org/Teaching/Appunti/asn1.html
package der

import (
	"strconv"
	"strings"
)

// Tag constitutes an ASN.1 tag, consisting of its class and number. For
// details, see Section 8 of Rec. ITU-T X.680.
type Tag struct {
	Class  Class
	Number uint
}

// Class holds the class part of an ASN.1 tag. The class acts as a namespace
// for the tag number. A Class value is an unsigned 2-bit integer. Class values
// whose value exceeds 2 bits are invalid.
//
//go:generate stringer -type=Class -trimprefix=Class
type Class uint8

// IsValid reports whether c is a valid Class value.
func (c Class) IsValid() bool {
	return c <= 3
}

// Predefined [Class] constants. These are all the possible values that can be
// encoded in the [Class] type.
const (
	ClassUniversal Class = iota
	ClassApplication
	ClassContextSpecific
	ClassPrivate
)

// String returns a string representation of t in a format similar to the one
// used in ASN.1 notation. The tag number is enclosed by square brackets and
// prefixed with the class used. To avoid ambiguity the UNIVERSAL word is used
// for universal tags, although this is not valid ASN.1 syntax.
func (t Tag) String() string {
	if t.Class == ClassContextSpecific {
		return "[" + strconv.FormatUint(uint64(t.Number), 10) + "]"
	}
	return "[" + strings.ToUpper(t.Class.String()) + " " + strconv.FormatUint(uint64(t.Number), 10) + "]"
}

// These ASN.1 tag numbers are defined in the [ClassUniversal] namespace. The
// assignments are defined in Rec. ITU-T X.680, Section 8, Table 1. Only the
// tags with a counterpart in the [Value] union are listed.
const (
	TagBoolean         uint = 1
	TagInteger         uint = 2
	TagBitString       uint = 3
	TagOctetString     uint = 4
	TagNull            uint = 5
	TagOID             uint = 6
	TagUTF8String      uint = 12
	TagSequence        uint = 16
	TagSet             uint = 17
	TagPrintableString uint = 19
	TagIA5String       uint = 22
	TagUTCTime         uint = 23
	TagGeneralizedTime uint = 24
)
