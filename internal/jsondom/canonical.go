package jsondom

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"unicode/utf8"

	"github.com/cockroachdb/apd/v3"
	"golang.org/x/text/unicode/norm"
)

// ErrKeyCollision is returned when two object keys have the same NFC form.
var ErrKeyCollision = errors.New("object keys collide after NFC normalization")

// maxIntegerDigits bounds the plain-digit form of integers float64 cannot hold.
// Longer integers are written in exponent form.
const maxIntegerDigits = 100

// MarshalCanonical writes v as canonical JSON. See the package doc for the rules.
func MarshalCanonical(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeCanonical(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCanonical(buf *bytes.Buffer, v Value) error {
	switch val := v.(type) {
	case nil, Null:
		buf.WriteString("null")
	case Bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case String:
		writeString(buf, string(val))
	case Number:
		s, err := canonicalNumber(val)
		if err != nil {
			return err
		}
		buf.WriteString(s)
	case Array:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, elem); err != nil {
				return fmt.Errorf("array[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
	case Object:
		keys, err := canonicalKeys(val)
		if err != nil {
			return err
		}
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeString(buf, k.normalized)
			buf.WriteByte(':')
			if err := writeCanonical(buf, val[k.original]); err != nil {
				return fmt.Errorf("object[%q]: %w", k.original, err)
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("unknown json value type: %T", v)
	}
	return nil
}

type objectKey struct {
	original   string
	normalized string
}

// canonicalKeys orders keys by their NFC form. Two distinct keys with the same
// NFC form fail with ErrKeyCollision.
func canonicalKeys(obj Object) ([]objectKey, error) {
	raw := obj.SortedKeys()
	seen := make(map[string]string, len(raw))
	keys := make([]objectKey, 0, len(raw))
	for _, k := range raw {
		n := norm.NFC.String(k)
		if other, ok := seen[n]; ok {
			return nil, fmt.Errorf("%w: %q and %q", ErrKeyCollision, other, k)
		}
		seen[n] = k
		keys = append(keys, objectKey{original: k, normalized: n})
	}
	slices.SortFunc(keys, func(a, b objectKey) int {
		return compareUTF16(a.normalized, b.normalized)
	})
	return keys, nil
}

// writeString escapes only the quote, the backslash and control characters.
// <, >, & and U+2028/U+2029 are written literally.
func writeString(buf *bytes.Buffer, s string) {
	s = norm.NFC.String(s)
	buf.WriteByte('"')
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == '"':
			buf.WriteString(`\"`)
		case r == '\\':
			buf.WriteString(`\\`)
		case r == '\b':
			buf.WriteString(`\b`)
		case r == '\f':
			buf.WriteString(`\f`)
		case r == '\n':
			buf.WriteString(`\n`)
		case r == '\r':
			buf.WriteString(`\r`)
		case r == '\t':
			buf.WriteString(`\t`)
		case r < 0x20:
			fmt.Fprintf(buf, `\u%04x`, r)
		case r == utf8.RuneError && size == 1:
			buf.WriteString("\uFFFD")
		default:
			buf.WriteString(s[i : i+size])
		}
		i += size
	}
	buf.WriteByte('"')
}

// canonicalNumber writes the number's exact decimal value in one form, so that
// 1, 1.0 and 1e0 all produce the same text:
//   - integers in int64 range as plain digits
//   - values whose shortest float64 text is exact in that text
//   - other integers up to maxIntegerDigits as plain digits
//   - everything else in exponent form
func canonicalNumber(n Number) (string, error) {
	s := string(n)
	var d apd.Decimal
	if _, _, err := d.SetString(s); err != nil {
		return "", fmt.Errorf("invalid json number %q: %w", s, err)
	}
	if d.Form != apd.Finite {
		return "", fmt.Errorf("invalid json number %q", s)
	}
	if d.IsZero() {
		return "0", nil
	}
	d.Reduce(&d)

	integral := d.Exponent >= 0
	digits := d.NumDigits() + int64(d.Exponent)
	if integral && digits <= 19 {
		text := d.Text('f')
		if _, err := strconv.ParseInt(text, 10, 64); err == nil {
			return text, nil
		}
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		text := strconv.FormatFloat(f, 'g', -1, 64)
		var back apd.Decimal
		if _, _, err := back.SetString(text); err == nil && back.Cmp(&d) == 0 {
			return text, nil
		}
	}

	if integral && digits <= maxIntegerDigits {
		return d.Text('f'), nil
	}
	return d.Text('g'), nil
}
