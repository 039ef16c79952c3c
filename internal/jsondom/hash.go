package jsondom

import (
	"bytes"

	"github.com/cespare/xxhash/v2"
)

// Equal reports whether a and b have the same canonical form.
// Values that cannot be written canonically are never equal to anything.
func Equal(a, b Value) bool {
	ca, err := MarshalCanonical(a)
	if err != nil {
		return false
	}
	cb, err := MarshalCanonical(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ca, cb)
}

// Hash returns the xxhash64 of v's canonical form. Equal values hash equally.
func Hash(v Value) (uint64, error) {
	data, err := MarshalCanonical(v)
	if err != nil {
		return 0, err
	}
	return xxhash.Sum64(data), nil
}
