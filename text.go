// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der

import (
	"fmt"
	"strings"
)

// Text returns an indented, human-readable representation of v. Scalar
// values render on a single line as "TYPE: value", using uppercase hex for
// byte strings and dot notation for object identifiers. SEQUENCE, SET and
// non-empty [ContextSpecific] values render as a brace-delimited block with
// their children indented by two spaces per nesting level.
//
// Text is total over the value model: it never fails, not even for values
// that [Encode] would reject. The output is meant for debugging and test
// assertions, not for machine consumption.
func Text(v Value) string {
	var b strings.Builder
	writeText(&b, v, 0)
	return b.String()
}

// writeText writes the representation of v to b. The caller has already
// written the indentation for the first line; level is only used to indent
// subsequent lines. The output does not end in a newline.
func writeText(b *strings.Builder, v Value, level int) {
	switch v := v.(type) {
	case Boolean:
		if v {
			b.WriteString("BOOLEAN: TRUE")
		} else {
			b.WriteString("BOOLEAN: FALSE")
		}
	case Integer:
		b.WriteString("INTEGER: ")
		b.WriteString(v.bigInt().String())
	case BitString:
		b.WriteString("BIT STRING")
		if len(v.Bytes) > 0 {
			fmt.Fprintf(b, ": %X", v.Bytes)
		}
	case OctetString:
		b.WriteString("OCTET STRING")
		if len(v) > 0 {
			fmt.Fprintf(b, ": %X", []byte(v))
		}
	case Null:
		b.WriteString("NULL")
	case ObjectIdentifier:
		b.WriteString("OBJECT IDENTIFIER: ")
		b.WriteString(v.String())
	case UTF8String:
		b.WriteString("UTF8String: ")
		b.WriteString(string(v))
	case PrintableString:
		b.WriteString("PrintableString: ")
		b.WriteString(string(v))
	case IA5String:
		b.WriteString("IA5String: ")
		b.WriteString(string(v))
	case UTCTime:
		b.WriteString("UTCTime: ")
		b.WriteString(string(v))
	case GeneralizedTime:
		b.WriteString("GeneralizedTime: ")
		b.WriteString(string(v))
	case Sequence:
		writeElements(b, "SEQUENCE", v, level)
	case Set:
		writeElements(b, "SET", v, level)
	case ContextSpecific:
		fmt.Fprintf(b, "[%d] ", v.TagNumber)
		if v.Constructed {
			b.WriteString("CONSTRUCTED")
		} else {
			b.WriteString("PRIMITIVE")
		}
		if v.Value == nil {
			b.WriteString(" EMPTY")
			return
		}
		b.WriteString(" {\n")
		writeIndent(b, level+1)
		writeText(b, v.Value, level+1)
		b.WriteByte('\n')
		writeIndent(b, level)
		b.WriteByte('}')
	case Unknown:
		fmt.Fprintf(b, "%s %d ", className(v.Class), v.TagNumber)
		if v.Constructed {
			b.WriteString("CONSTRUCTED")
		} else {
			b.WriteString("PRIMITIVE")
		}
		if len(v.Bytes) > 0 {
			fmt.Fprintf(b, ": %X", v.Bytes)
		}
	}
}

// writeElements writes a SEQUENCE or SET block with one child per line.
func writeElements(b *strings.Builder, kind string, elems []Value, level int) {
	b.WriteString(kind)
	if len(elems) == 0 {
		b.WriteString(" {}")
		return
	}
	b.WriteString(" {\n")
	for _, e := range elems {
		writeIndent(b, level+1)
		writeText(b, e, level+1)
		b.WriteByte('\n')
	}
	writeIndent(b, level)
	b.WriteByte('}')
}

// writeIndent writes two spaces per nesting level.
func writeIndent(b *strings.Builder, level int) {
	for range level {
		b.WriteString("  ")
	}
}

// className returns the name of c in the notation used by ASN.1 tags.
func className(c Class) string {
	switch c {
	case ClassUniversal:
		return "UNIVERSAL"
	case ClassApplication:
		return "APPLICATION"
	case ClassContextSpecific:
		return "CONTEXT-SPECIFIC"
	case ClassPrivate:
		return "PRIVATE"
	}
	return fmt.Sprintf("CLASS %d", uint8(c))
}
