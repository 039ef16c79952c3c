package jsondom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqualIgnoresKeyOrderAndWhitespace(t *testing.T) {
	a := MustParse(`{"a": 1, "b": [1, 2]}`)
	b := MustParse(`{"b":[1,2],"a":1}`)
	assert.True(t, Equal(a, b))
}

func TestEqualNormalizesNumbers(t *testing.T) {
	assert.True(t, Equal(MustParse(`{"n":1.0}`), MustParse(`{"n":1}`)))
	assert.False(t, Equal(MustParse(`{"n":1.5}`), MustParse(`{"n":1}`)))
}

func TestEqualLargeIntegers(t *testing.T) {
	assert.False(t, Equal(MustParse(`[18446744073709551615]`), MustParse(`[18446744073709551614]`)))
	assert.True(t, Equal(MustParse(`[-9223372036854775808.0]`), MustParse(`[-9223372036854775808]`)))
	assert.True(t, Equal(MustParse(`[1e400]`), MustParse(`[10e399]`)))
}

func TestEqualArrayOrderMatters(t *testing.T) {
	assert.False(t, Equal(MustParse(`[1,2]`), MustParse(`[2,1]`)))
}

func TestEqualInvalidNeverEqual(t *testing.T) {
	bad := Number("nope")
	assert.False(t, Equal(bad, bad))
}

func TestHashConsistentWithEqual(t *testing.T) {
	a := MustParse(`{"x": {"z": true, "y": null}}`)
	b := MustParse(`{"x":{"y":null,"z":true}}`)

	ha, err := Hash(a)
	require.NoError(t, err)
	hb, err := Hash(b)
	require.NoError(t, err)
	assert.Equal(t, ha, hb)

	hc, err := Hash(MustParse(`{"x":{"y":null,"z":false}}`))
	require.NoError(t, err)
	assert.NotEqual(t, ha, hc)
}

func TestHashInvalid(t *testing.T) {
	_, err := Hash(Number("x"))
	require.Error(t, err)
}
