package jsonlib

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type post struct {
	Title string            `json:"title"`
	Tags  []string          `json:"tags"`
	Meta  map[string]string `json:"meta,omitempty"`
}

func TestLookup(t *testing.T) {
	for _, name := range []string{"std", "goccy"} {
		lib, err := Lookup(name)
		require.NoError(t, err)
		assert.Equal(t, name, lib.Name())
	}

	lib, err := Lookup("")
	require.NoError(t, err)
	assert.Equal(t, Default, lib.Name())
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("newtonsoft")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownLibrary)
	assert.Contains(t, err.Error(), "goccy")
}

func TestNamesSorted(t *testing.T) {
	assert.Equal(t, []string{"goccy", "std"}, Names())
}

func TestLibrariesAgreeOnOutput(t *testing.T) {
	v := post{
		Title: "hello",
		Tags:  []string{"a", "b"},
		Meta:  map[string]string{"z": "1", "a": "2"},
	}

	std, err := Std{}.Marshal(v)
	require.NoError(t, err)
	goccy, err := Goccy{}.Marshal(v)
	require.NoError(t, err)

	assert.Equal(t, string(std), string(goccy))
	assert.Equal(t, `{"title":"hello","tags":["a","b"],"meta":{"a":"2","z":"1"}}`, string(std))
}

func TestDecoderUseNumber(t *testing.T) {
	for _, lib := range []Library{Std{}, Goccy{}} {
		t.Run(lib.Name(), func(t *testing.T) {
			dec := lib.NewDecoder(bytes.NewReader([]byte(`{"n": 9007199254740993}`)))
			dec.UseNumber()

			var v map[string]any
			require.NoError(t, dec.Decode(&v))

			n, ok := v["n"].(interface{ String() string })
			require.True(t, ok, "expected a number literal, got %T", v["n"])
			assert.Equal(t, "9007199254740993", n.String())
			assert.False(t, dec.More())
		})
	}
}

func TestValid(t *testing.T) {
	for _, lib := range []Library{Std{}, Goccy{}} {
		assert.True(t, lib.Valid([]byte(`{"a":[1,2]}`)), lib.Name())
		assert.False(t, lib.Valid([]byte(`{"a":`)), lib.Name())
	}
}
