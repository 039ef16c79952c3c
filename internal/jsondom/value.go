package jsondom

import (
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"unicode/utf16"
)

// Value is a sealed interface over JSON elements.
// Only Null, String, Number, Bool, Array and Object implement it.
type Value interface {
	jsonValue()
}

var valueType = reflect.TypeFor[Value]()

// IsElementType reports whether t is Value or one of its concrete element types.
// Pointers to element types are not element types.
func IsElementType(t reflect.Type) bool {
	if t == nil {
		return false
	}
	return t == valueType || (t.Kind() != reflect.Pointer && t.Implements(valueType))
}

// Null is the JSON null literal.
type Null struct{}

func (Null) jsonValue() {}

// MarshalJSON implements json.Marshaler for Null.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// String is a JSON string.
type String string

func (String) jsonValue() {}

// Number is a JSON number, held as its literal text.
type Number string

func (Number) jsonValue() {}

// MarshalJSON writes the number literal in canonical form.
func (n Number) MarshalJSON() ([]byte, error) {
	s, err := canonicalNumber(n)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// Int64 returns the number as an int64.
func (n Number) Int64() (int64, error) {
	return strconv.ParseInt(string(n), 10, 64)
}

// Float64 returns the number as a float64.
func (n Number) Float64() (float64, error) {
	return strconv.ParseFloat(string(n), 64)
}

// Bool is a JSON boolean.
type Bool bool

func (Bool) jsonValue() {}

// Array is an ordered list of values.
type Array []Value

func (Array) jsonValue() {}

// MarshalJSON writes the array canonically.
func (a Array) MarshalJSON() ([]byte, error) {
	return MarshalCanonical(a)
}

// Object maps keys to values. Use SortedKeys for deterministic iteration.
type Object map[string]Value

func (Object) jsonValue() {}

// MarshalJSON writes the object canonically.
func (o Object) MarshalJSON() ([]byte, error) {
	return MarshalCanonical(o)
}

// NewInt creates a Number from an integer.
func NewInt(n int64) Number {
	return Number(strconv.FormatInt(n, 10))
}

// NewFloat creates a Number from a float. NaN and infinities have no JSON form.
func NewFloat(f float64) (Number, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("%v has no json representation", f)
	}
	return Number(strconv.FormatFloat(f, 'g', -1, 64)), nil
}

// SortedKeys returns the object's keys ordered by UTF-16 code units.
// Go's native string order compares UTF-8 bytes, which differs for
// characters outside the BMP.
func (o Object) SortedKeys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareUTF16)
	return keys
}

func compareUTF16(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	n := min(len(a16), len(b16))
	for i := 0; i < n; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	}
	return 0
}

// Document is a parsed JSON document. Its root is never nil.
type Document struct {
	root Value
}

// NewDocument wraps root in a Document. A nil root becomes Null.
func NewDocument(root Value) *Document {
	if root == nil {
		root = Null{}
	}
	return &Document{root: root}
}

// Root returns the document's root element.
func (d *Document) Root() Value {
	return d.root
}

// MarshalJSON writes the document canonically.
func (d *Document) MarshalJSON() ([]byte, error) {
	return MarshalCanonical(d.root)
}

// String returns the canonical text, or an error marker if the tree cannot be written.
func (d *Document) String() string {
	data, err := MarshalCanonical(d.root)
	if err != nil {
		return fmt.Sprintf("!invalid(%v)", err)
	}
	return string(data)
}
