// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der

import (
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	tests := map[string]struct {
		value Value
		want  string // hex
	}{
		"BooleanTrue":  {Boolean(true), "01 01 FF"},
		"BooleanFalse": {Boolean(false), "01 01 00"},

		// Integers use the minimal two's-complement encoding.
		"IntegerZero":        {NewInteger(0), "02 01 00"},
		"IntegerSmall":       {NewInteger(21), "02 01 15"},
		"IntegerPadded":      {NewInteger(128), "02 02 00 80"},
		"IntegerNegative":    {NewInteger(-128), "02 01 80"},
		"IntegerNegativeTwo": {NewInteger(-129), "02 02 FF 7F"},
		"IntegerMinusOne":    {NewInteger(-1), "02 01 FF"},
		"IntegerNil":         {Integer{}, "02 01 00"},
		"IntegerBig": {
			Integer{new(big.Int).Lsh(big.NewInt(1), 64)},
			"02 09 01 00 00 00 00 00 00 00 00",
		},

		"BitString":      {BitString{Bytes: []byte{0x6e, 0x40}, UnusedBits: 6}, "03 03 06 6E 40"},
		"BitStringEmpty": {BitString{}, "03 01 00"},
		"OctetString":    {OctetString{0x01, 0x02, 0x03}, "04 03 01 02 03"},
		"Null":           {Null{}, "05 00"},
		"ObjectIdentifier": {
			ObjectIdentifier{1, 2, 840, 113549, 1, 1, 1},
			"06 09 2A 86 48 86 F7 0D 01 01 01",
		},
		"ObjectIdentifierShortComponents": {ObjectIdentifier{2, 5, 4, 3}, "06 03 55 04 03"},

		"UTF8String":      {UTF8String("ä"), "0C 02 C3 A4"},
		"PrintableString": {PrintableString("hi"), "13 02 68 69"},
		"IA5String":       {IA5String("a@b"), "16 03 61 40 62"},

		"Sequence":      {Sequence{NewInteger(1), Boolean(true)}, "30 06 02 01 01 01 01 FF"},
		"SequenceEmpty": {Sequence{}, "30 00"},
		"SequenceNested": {
			Sequence{Sequence{NewInteger(5)}, OctetString{0xab}},
			"30 08 30 03 02 01 05 04 01 AB",
		},
		"Set": {Set{Boolean(true)}, "31 03 01 01 FF"},

		// The wrapper contributes only its own tag and length, the inner
		// encoding becomes the content verbatim.
		"ContextSpecificExplicit": {
			ContextSpecific{TagNumber: 0, Constructed: true, Value: NewInteger(5)},
			"A0 03 02 01 05",
		},
		"ContextSpecificEmpty": {
			ContextSpecific{TagNumber: 1, Constructed: true},
			"A1 00",
		},
		"Unknown": {
			Unknown{ClassApplication, 3, false, []byte{0xff}},
			"43 01 FF",
		},
		"UnknownLongFormTag": {
			Unknown{ClassPrivate, 513, true, nil},
			"FF 84 01 00",
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := Encode(tc.value)
			require.NoError(t, err)
			assert.Equal(t, mustHex(t, tc.want), got)
		})
	}
}

func TestEncode_LongFormLength(t *testing.T) {
	got, err := Encode(OctetString(make([]byte, 200)))
	require.NoError(t, err)
	require.Len(t, got, 203)
	assert.Equal(t, []byte{0x04, 0x81, 0xc8}, got[:3])
}

func TestEncode_Errors(t *testing.T) {
	tests := map[string]struct {
		value   Value
		wantErr error // nil to only assert the *EncodeError wrapper
	}{
		"NilValue":            {nil, nil},
		"OIDTooShort":         {ObjectIdentifier{1}, ErrInvalidOID},
		"OIDEmpty":            {ObjectIdentifier{}, ErrInvalidOID},
		"OIDFirstComponent":   {ObjectIdentifier{3, 1}, ErrInvalidOID},
		"OIDSecondComponent":  {ObjectIdentifier{0, 40}, ErrInvalidOID},
		"OIDFirstOctetRange":  {ObjectIdentifier{2, 1000}, ErrInvalidOID},
		"BitStringUnusedBits": {BitString{Bytes: []byte{0xff}, UnusedBits: 8}, nil},
		"NestedInvalid":       {Sequence{NewInteger(1), ObjectIdentifier{9, 9}}, ErrInvalidOID},
		"WrappedInvalid": {
			ContextSpecific{TagNumber: 2, Constructed: true, Value: ObjectIdentifier{1}},
			ErrInvalidOID,
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			b, err := Encode(tc.value)
			require.Nil(t, b)
			var eErr *EncodeError
			require.ErrorAs(t, err, &eErr)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestEncodeError_Error(t *testing.T) {
	_, err := Encode(ObjectIdentifier{7, 7})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "der: encode error"), "unexpected message: %s", err)
}
