// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der

import (
	"bytes"
	"errors"
	"math/big"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

// A Value is a single node in a tree of decoded ASN.1 values. Value is a
// closed union: the only implementations are the types defined in this
// package. A Value tree is pure data. It is constructed wholly by a [Decode]
// call (or by hand for encoding), owns all of its children outright and
// carries no references to the input it was decoded from.
type Value interface {
	// Tag returns the ASN.1 tag identifying the value in its DER encoding.
	Tag() Tag

	// Equal reports whether the value and other represent the same ASN.1
	// value. Values of different dynamic types are never equal.
	Equal(other Value) bool

	isValue()
}

//region [UNIVERSAL 1] BOOLEAN

// Boolean represents the ASN.1 BOOLEAN type.
//
// See also section 18 of Rec. ITU-T X.680.
type Boolean bool

// Tag returns the tag [UNIVERSAL 1].
func (b Boolean) Tag() Tag { return Tag{ClassUniversal, TagBoolean} }

// Equal reports whether other is a Boolean with the same truth value.
func (b Boolean) Equal(other Value) bool {
	o, ok := other.(Boolean)
	return ok && b == o
}

func (Boolean) isValue() {}

//endregion

//region [UNIVERSAL 2] INTEGER

// Integer represents the ASN.1 INTEGER type. The value is held in a
// [math/big.Int] so integers of arbitrary size can be represented. A nil Int
// is treated as zero.
//
// See also section 19 of Rec. ITU-T X.680.
type Integer struct {
	*big.Int
}

// NewInteger creates an Integer holding the value i.
func NewInteger(i int64) Integer {
	return Integer{big.NewInt(i)}
}

// Tag returns the tag [UNIVERSAL 2].
func (i Integer) Tag() Tag { return Tag{ClassUniversal, TagInteger} }

// Equal reports whether other is an Integer with the same numeric value.
func (i Integer) Equal(other Value) bool {
	o, ok := other.(Integer)
	return ok && i.bigInt().Cmp(o.bigInt()) == 0
}

// bigInt returns the underlying integer, substituting zero for a nil Int.
func (i Integer) bigInt() *big.Int {
	if i.Int == nil {
		return new(big.Int)
	}
	return i.Int
}

func (Integer) isValue() {}

//endregion

//region [UNIVERSAL 3] BIT STRING

// BitString represents the ASN.1 BIT STRING type. The bits are packed into
// Bytes MSB-first and UnusedBits records how many of the trailing bits of the
// final byte do not belong to the bit string. UnusedBits must be in the range
// [0, 7] and is only meaningful when Bytes is non-empty.
//
// See also section 22 of Rec. ITU-T X.680.
type BitString struct {
	Bytes      []byte // bits packed into bytes, MSB first.
	UnusedBits uint8  // number of padding bits in the last byte.
}

// IsValid reports whether s is structurally valid, that is whether UnusedBits
// is at most 7 and zero when s holds no bytes.
func (s BitString) IsValid() bool {
	return s.UnusedBits <= 7 && (len(s.Bytes) > 0 || s.UnusedBits == 0)
}

// Len returns the number of bits in s.
func (s BitString) Len() int {
	if len(s.Bytes) == 0 {
		return 0
	}
	return len(s.Bytes)*8 - int(s.UnusedBits)
}

// At returns the bit at the given index. If the index is out of range At panics.
func (s BitString) At(i int) int {
	if i < 0 || i >= s.Len() {
		panic("index out of range")
	}
	x := i / 8
	y := 7 - uint(i%8)
	return int(s.Bytes[x]>>y) & 1
}

// RightAlign returns a slice where the padding bits are at the beginning. The
// slice may share memory with the BitString.
func (s BitString) RightAlign() []byte {
	shift := uint(s.UnusedBits)
	if shift == 0 || len(s.Bytes) == 0 {
		return s.Bytes
	}

	a := make([]byte, len(s.Bytes))
	a[0] = s.Bytes[0] >> shift
	for i := 1; i < len(s.Bytes); i++ {
		a[i] = s.Bytes[i-1] << (8 - shift)
		a[i] |= s.Bytes[i] >> shift
	}

	return a
}

// Tag returns the tag [UNIVERSAL 3].
func (s BitString) Tag() Tag { return Tag{ClassUniversal, TagBitString} }

// Equal reports whether other is a BitString with the same bits and padding.
func (s BitString) Equal(other Value) bool {
	o, ok := other.(BitString)
	return ok && s.UnusedBits == o.UnusedBits && bytes.Equal(s.Bytes, o.Bytes)
}

func (BitString) isValue() {}

//endregion

//region [UNIVERSAL 4] OCTET STRING

// OctetString represents the ASN.1 OCTET STRING type, an uninterpreted
// sequence of bytes.
//
// See also section 23 of Rec. ITU-T X.680.
type OctetString []byte

// Tag returns the tag [UNIVERSAL 4].
func (s OctetString) Tag() Tag { return Tag{ClassUniversal, TagOctetString} }

// Equal reports whether other is an OctetString with the same contents.
func (s OctetString) Equal(other Value) bool {
	o, ok := other.(OctetString)
	return ok && bytes.Equal(s, o)
}

func (OctetString) isValue() {}

//endregion

//region [UNIVERSAL 5] NULL

// Null represents the ASN.1 NULL type.
//
// See also section 24 of Rec. ITU-T X.680.
type Null struct{}

// Tag returns the tag [UNIVERSAL 5].
func (Null) Tag() Tag { return Tag{ClassUniversal, TagNull} }

// Equal reports whether other is a Null value.
func (Null) Equal(other Value) bool {
	_, ok := other.(Null)
	return ok
}

func (Null) isValue() {}

//endregion

//region [UNIVERSAL 6] OBJECT IDENTIFIER

// An ObjectIdentifier represents an ASN.1 OBJECT IDENTIFIER. The semantics of
// an object identifier are specified in [Rec. ITU-T X.660]. A valid
// ObjectIdentifier has at least two components, the first of which is 0, 1,
// or 2 and, if it is 0 or 1, the second must be less than 40. [Encode]
// validates these constraints, [Decode] reconstructs components without
// re-validating them.
//
// See also section 32 of Rec. ITU-T X.680.
//
// [Rec. ITU-T X.660]: https://www.itu.int/rec/T-REC-X.660
type ObjectIdentifier []uint

// ParseObjectIdentifier parses the dot-separated notation of an object
// identifier, the inverse of [ObjectIdentifier.String]. It only validates the
// notation itself, not the component constraints checked by [Encode].
func ParseObjectIdentifier(s string) (ObjectIdentifier, error) {
	if s == "" {
		return nil, errors.New("der: empty object identifier")
	}
	parts := strings.Split(s, ".")
	oid := make(ObjectIdentifier, len(parts))
	for i, part := range parts {
		v, err := strconv.ParseUint(part, 10, strconv.IntSize)
		if err != nil {
			return nil, errors.New("der: invalid object identifier component " + strconv.Quote(part))
		}
		oid[i] = uint(v)
	}
	return oid, nil
}

// Tag returns the tag [UNIVERSAL 6].
func (oid ObjectIdentifier) Tag() Tag { return Tag{ClassUniversal, TagOID} }

// Equal reports whether other is an ObjectIdentifier with the same components.
func (oid ObjectIdentifier) Equal(other Value) bool {
	o, ok := other.(ObjectIdentifier)
	return ok && slices.Equal(oid, o)
}

// String returns the dot-separated notation of oid.
func (oid ObjectIdentifier) String() string {
	var s strings.Builder
	s.Grow(32)

	buf := make([]byte, 0, 19)
	for i, v := range oid {
		if i > 0 {
			s.WriteByte('.')
		}
		s.Write(strconv.AppendUint(buf, uint64(v), 10))
	}

	return s.String()
}

func (ObjectIdentifier) isValue() {}

//endregion

//region [UNIVERSAL 12] UTF8String

// UTF8String represents the ASN.1 UTF8String type. It can only hold valid
// UTF-8 values.
//
// See also section 41 of Rec. ITU-T X.680.
type UTF8String string

// IsValid reports whether s is a valid UTF-8 string.
func (s UTF8String) IsValid() bool {
	return utf8.ValidString(string(s))
}

// Tag returns the tag [UNIVERSAL 12].
func (s UTF8String) Tag() Tag { return Tag{ClassUniversal, TagUTF8String} }

// Equal reports whether other is a UTF8String with the same contents.
func (s UTF8String) Equal(other Value) bool {
	o, ok := other.(UTF8String)
	return ok && s == o
}

func (UTF8String) isValue() {}

//endregion

//region [UNIVERSAL 16] SEQUENCE

// Sequence represents the ASN.1 SEQUENCE type as an ordered list of values.
//
// See also section 25 of Rec. ITU-T X.680.
type Sequence []Value

// Tag returns the tag [UNIVERSAL 16].
func (s Sequence) Tag() Tag { return Tag{ClassUniversal, TagSequence} }

// Equal reports whether other is a Sequence whose elements are equal to the
// elements of s, in order.
func (s Sequence) Equal(other Value) bool {
	o, ok := other.(Sequence)
	return ok && equalValues(s, o)
}

func (Sequence) isValue() {}

//endregion

//region [UNIVERSAL 17] SET

// Set represents the ASN.1 SET type as an ordered list of values. DER
// requires the elements of a SET to be sorted by their encodings; this
// package neither enforces nor normalizes that ordering. Callers that need
// canonical SET encodings must order the elements themselves.
//
// See also section 27 of Rec. ITU-T X.680.
type Set []Value

// Tag returns the tag [UNIVERSAL 17].
func (s Set) Tag() Tag { return Tag{ClassUniversal, TagSet} }

// Equal reports whether other is a Set whose elements are equal to the
// elements of s, in order.
func (s Set) Equal(other Value) bool {
	o, ok := other.(Set)
	return ok && equalValues(s, o)
}

func (Set) isValue() {}

// equalValues reports whether a and b contain pairwise equal values.
func equalValues(a, b []Value) bool {
	return slices.EqualFunc(a, b, func(x, y Value) bool {
		return x.Equal(y)
	})
}

//endregion

//region [UNIVERSAL 19] PrintableString

// PrintableString represents the ASN.1 PrintableString type. A printable
// string can only contain the following ASCII characters:
//
//	A-Z	// upper case letters
//	a-z	// lower case letters
//	0-9	// digits
//	 	// space
//	'	// apostrophe
//	()	// parenthesis
//	+-/	// plus, hyphen, solidus
//	.,:	// full stop, comma, colon
//	=	// equals sign
//	?	// question mark
//
// Note that it is possible to create PrintableString values in Go that
// violate this constraint; neither [Decode] nor [Encode] enforces it. Use the
// IsValid method to check whether a string's contents are printable.
//
// See also section 41 of Rec. ITU-T X.680.
type PrintableString string

// IsValid reports whether s consists only of printable characters.
func (s PrintableString) IsValid() bool {
	for i := 0; i < len(s); i++ {
		if !isPrintable(s[i]) {
			return false
		}
	}
	return true
}

// isPrintable reports whether the given b is in the ASN.1 PrintableString set.
func isPrintable(b byte) bool {
	return 'a' <= b && b <= 'z' ||
		'A' <= b && b <= 'Z' ||
		'0' <= b && b <= '9' ||
		'\'' <= b && b <= ')' ||
		'+' <= b && b <= '/' ||
		b == ' ' ||
		b == ':' ||
		b == '=' ||
		b == '?'
}

// Tag returns the tag [UNIVERSAL 19].
func (s PrintableString) Tag() Tag { return Tag{ClassUniversal, TagPrintableString} }

// Equal reports whether other is a PrintableString with the same contents.
func (s PrintableString) Equal(other Value) bool {
	o, ok := other.(PrintableString)
	return ok && s == o
}

func (PrintableString) isValue() {}

//endregion

//region [UNIVERSAL 22] IA5String

// IA5String represents the ASN.1 IA5String type. An IA5String must consist of
// ASCII characters only. Note that it is possible to create IA5String values
// in Go that violate this constraint; neither [Decode] nor [Encode] enforces
// it. Use the IsValid method to check whether a string's contents are ASCII
// only.
//
// See also section 41 of Rec. ITU-T X.680.
type IA5String string

// IsValid reports whether the contents of s consist only of ASCII characters.
func (s IA5String) IsValid() bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// Tag returns the tag [UNIVERSAL 22].
func (s IA5String) Tag() Tag { return Tag{ClassUniversal, TagIA5String} }

// Equal reports whether other is an IA5String with the same contents.
func (s IA5String) Equal(other Value) bool {
	o, ok := other.(IA5String)
	return ok && s == o
}

func (IA5String) isValue() {}

//endregion

//region [UNIVERSAL 23] UTCTime

// UTCTime represents the ASN.1 UTCTime type. The time is kept as the verbatim
// text of its encoding, usually in the format YYMMDDhhmmssZ. No calendar
// validation is performed by this package.
//
// See also section 47 of Rec. ITU-T X.680.
type UTCTime string

// Tag returns the tag [UNIVERSAL 23].
func (t UTCTime) Tag() Tag { return Tag{ClassUniversal, TagUTCTime} }

// Equal reports whether other is a UTCTime with the same text.
func (t UTCTime) Equal(other Value) bool {
	o, ok := other.(UTCTime)
	return ok && t == o
}

func (UTCTime) isValue() {}

//endregion

//region [UNIVERSAL 24] GeneralizedTime

// GeneralizedTime represents the ASN.1 GeneralizedTime type. The time is kept
// as the verbatim text of its encoding, usually in the format
// YYYYMMDDhhmmssZ. No calendar validation is performed by this package.
//
// See also section 46 of Rec. ITU-T X.680.
type GeneralizedTime string

// Tag returns the tag [UNIVERSAL 24].
func (t GeneralizedTime) Tag() Tag { return Tag{ClassUniversal, TagGeneralizedTime} }

// Equal reports whether other is a GeneralizedTime with the same text.
func (t GeneralizedTime) Equal(other Value) bool {
	o, ok := other.(GeneralizedTime)
	return ok && t == o
}

func (GeneralizedTime) isValue() {}

//endregion

//region ContextSpecific

// ContextSpecific represents a context-specific tag wrapping an optional
// inner value, corresponding to the ASN.1 EXPLICIT tagging construct. A nil
// Value indicates zero-length content.
//
// [Decode] only produces ContextSpecific values for the constructed encoding.
// A primitive context-specific tag is decoded as [Unknown] because its
// content octets cannot be interpreted without schema knowledge. [Encode]
// accepts both forms: the encoding of the inner value, if any, makes up the
// content octets of the wrapper verbatim.
type ContextSpecific struct {
	TagNumber   uint
	Constructed bool
	Value       Value // nil means zero-length content
}

// Tag returns the context-specific tag of v.
func (v ContextSpecific) Tag() Tag { return Tag{ClassContextSpecific, v.TagNumber} }

// Equal reports whether other is a ContextSpecific value with the same tag
// number, encoding and inner value.
func (v ContextSpecific) Equal(other Value) bool {
	o, ok := other.(ContextSpecific)
	if !ok || v.TagNumber != o.TagNumber || v.Constructed != o.Constructed {
		return false
	}
	if v.Value == nil || o.Value == nil {
		return v.Value == nil && o.Value == nil
	}
	return v.Value.Equal(o.Value)
}

func (ContextSpecific) isValue() {}

//endregion

//region Unknown

// Unknown represents a data value whose tag has no first-class counterpart in
// this package. The content octets are kept verbatim; during encoding they
// are written as-is without any validation.
type Unknown struct {
	Class       Class
	TagNumber   uint
	Constructed bool
	Bytes       []byte
}

// Tag returns the tag of v.
func (v Unknown) Tag() Tag { return Tag{v.Class, v.TagNumber} }

// Equal reports whether other is an Unknown value with the same tag, encoding
// and content octets.
func (v Unknown) Equal(other Value) bool {
	o, ok := other.(Unknown)
	return ok && v.Class == o.Class && v.TagNumber == o.TagNumber &&
		v.Constructed == o.Constructed && bytes.Equal(v.Bytes, o.Bytes)
}

func (Unknown) isValue() {}

//endregion
