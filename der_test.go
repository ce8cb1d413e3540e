// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRoundTrip checks that Decode is the inverse of Encode for values
// expressible in the model.
func TestRoundTrip(t *testing.T) {
	tests := map[string]Value{
		"Boolean":     Boolean(true),
		"Integer":     NewInteger(-4242),
		"BitString":   BitString{Bytes: []byte{0xde, 0xad, 0xbe, 0xe0}, UnusedBits: 5},
		"OctetString": OctetString("raw bytes"),
		"Null":        Null{},
		"OID":         ObjectIdentifier{1, 3, 6, 1, 4, 1, 11129},
		"Strings": Sequence{
			UTF8String("grüße"),
			PrintableString("Test User"),
			IA5String("user@example.com"),
			UTCTime("250102120000Z"),
			GeneralizedTime("20250102120000Z"),
		},
		"Tree": Sequence{
			Set{NewInteger(1), NewInteger(2)},
			ContextSpecific{TagNumber: 3, Constructed: true, Value: Sequence{
				Boolean(false),
				Unknown{ClassPrivate, 99, false, []byte{0x01, 0x02}},
			}},
			ContextSpecific{TagNumber: 4, Constructed: true},
		},
	}
	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			b, err := Encode(want)
			require.NoError(t, err)
			got, err := Decode(b)
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "Decode(Encode(v)) = %s, want %s", Text(got), Text(want))
		})
	}
}

// TestReencode checks that valid minimal DER re-encodes byte-exactly.
func TestReencode(t *testing.T) {
	tests := map[string]string{
		"Boolean":          "01 01 FF",
		"Integer":          "02 02 00 80",
		"ObjectIdentifier": "06 09 2A 86 48 86 F7 0D 01 01 01",
		"Sequence":         "30 06 02 01 01 01 01 FF",
		"ExplicitTag":      "A0 03 02 01 05",
		"PrimitiveTag":     "80 02 AB CD",
		"ApplicationTag":   "5F 1F 01 AA",
		"LongFormLength":   "30 81 84 " + repeatTLV("05 00", 66),
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			data := mustHex(t, input)
			v, err := Decode(data)
			require.NoError(t, err)
			got, err := Encode(v)
			require.NoError(t, err)
			assert.Equal(t, data, got)
		})
	}
}

// repeatTLV repeats a hex-encoded TLV n times.
func repeatTLV(s string, n int) string {
	out := ""
	for range n {
		out += s + " "
	}
	return out
}

func ExampleDecode() {
	data := []byte{0x30, 0x06, 0x02, 0x01, 0x01, 0x01, 0x01, 0xff}
	v, err := Decode(data)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(Text(v))
	// Output:
	// SEQUENCE {
	//   INTEGER: 1
	//   BOOLEAN: TRUE
	// }
}

func ExampleEncode() {
	v := Sequence{
		ObjectIdentifier{1, 2, 840, 113549, 1, 1, 1},
		Null{},
	}
	b, err := Encode(v)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("% X\n", b)
	// Output:
	// 30 0D 06 09 2A 86 48 86 F7 0D 01 01 01 05 00
}

var benchInput = []byte{
	0x30, 0x16,
	0x02, 0x01, 0x2a,
	0x04, 0x04, 0xde, 0xad, 0xbe, 0xef,
	0x30, 0x0b,
	0x06, 0x09, 0x2a, 0x86, 0x48, 0x86, 0xf7, 0x0d, 0x01, 0x01, 0x01,
}

func BenchmarkDecode(b *testing.B) {
	b.SetBytes(int64(len(benchInput)))
	for b.Loop() {
		if _, err := Decode(benchInput); err != nil {
			b.Fatalf("Decode() returned an unexpected error: %q", err)
		}
	}
}

func BenchmarkEncode(b *testing.B) {
	v, err := Decode(benchInput)
	if err != nil {
		b.Fatalf("Decode() returned an unexpected error: %q", err)
	}
	b.SetBytes(int64(len(benchInput)))
	for b.Loop() {
		if _, err := Encode(v); err != nil {
			b.Fatalf("Encode() returned an unexpected error: %q", err)
		}
	}
}
