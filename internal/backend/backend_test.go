package backend

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mysqljson/internal/jsondom"
	"github.com/roach88/mysqljson/internal/jsonlib"
)

type blog struct {
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

var libraries = []jsonlib.Library{jsonlib.Std{}, jsonlib.Goccy{}}

func TestForType(t *testing.T) {
	lib := jsonlib.Std{}

	assert.IsType(t, &Document{}, ForType(lib, reflect.TypeFor[*jsondom.Document]()))
	assert.IsType(t, &Element{}, ForType(lib, reflect.TypeFor[jsondom.Value]()))
	assert.IsType(t, Text{}, ForType(lib, reflect.TypeFor[string]()))

	poco := ForType(lib, reflect.TypeFor[*blog]())
	assert.IsType(t, &POCO{}, poco)
	assert.Equal(t, reflect.TypeFor[*blog](), poco.ModelType())
}

func TestDocumentRoundTrip(t *testing.T) {
	for _, lib := range libraries {
		t.Run(lib.Name(), func(t *testing.T) {
			b := NewDocument(lib)
			v, err := b.Deserialize([]byte(`{"b": [1, 2], "a": "x"}`))
			require.NoError(t, err)

			doc, ok := v.(*jsondom.Document)
			require.True(t, ok)

			data, err := b.Serialize(doc)
			require.NoError(t, err)
			assert.Equal(t, `{"a":"x","b":[1,2]}`, string(data))
		})
	}
}

func TestDocumentSerializeNil(t *testing.T) {
	data, err := NewDocument(nil).Serialize((*jsondom.Document)(nil))
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestTreeRejectsForeignTypes(t *testing.T) {
	_, err := NewDocument(nil).Serialize(map[string]any{"a": 1})
	require.Error(t, err)
	_, err = NewElement(nil).Serialize(42)
	require.Error(t, err)
}

func TestElementDeserializeMalformed(t *testing.T) {
	_, err := NewElement(jsonlib.Goccy{}).Deserialize([]byte(`{"a":`))
	require.Error(t, err)
	assert.ErrorIs(t, err, jsondom.ErrMalformedJSON)
}

func TestTextPassthrough(t *testing.T) {
	raw := `{ "spacing" :  "kept" }`

	data, err := Text{}.Serialize(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, string(data))

	v, err := Text{}.Deserialize(data)
	require.NoError(t, err)
	assert.Equal(t, raw, v)

	data, err = Text{}.Serialize(json.RawMessage(`[1]`))
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(data))

	_, err = Text{}.Serialize(1)
	require.Error(t, err)
}

func TestTextStructuralEqualIsExact(t *testing.T) {
	eq, err := Text{}.StructuralEqual(`{"a":1}`, `{"a": 1}`)
	require.NoError(t, err)
	assert.False(t, eq)

	eq, err = Text{}.StructuralEqual(`{"a":1}`, `{"a":1}`)
	require.NoError(t, err)
	assert.True(t, eq)
}

func TestPOCORoundTrip(t *testing.T) {
	for _, lib := range libraries {
		t.Run(lib.Name(), func(t *testing.T) {
			b := NewPOCO(lib, reflect.TypeFor[*blog]())
			original := &blog{Title: "hello", Tags: []string{"a", "b"}}

			data, err := b.Serialize(original)
			require.NoError(t, err)
			assert.Equal(t, `{"title":"hello","tags":["a","b"]}`, string(data))

			v, err := b.Deserialize(data)
			require.NoError(t, err)
			restored, ok := v.(*blog)
			require.True(t, ok)
			assert.Equal(t, original, restored)
			assert.NotSame(t, original, restored)
		})
	}
}

func TestPOCOValueType(t *testing.T) {
	b := NewPOCO(nil, reflect.TypeFor[map[string]int]())
	v, err := b.Deserialize([]byte(`{"a":1}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 1}, v)
}

func TestPOCOSerializeWrongType(t *testing.T) {
	b := NewPOCO(nil, reflect.TypeFor[*blog]())
	_, err := b.Serialize(blog{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bound to")
}

func TestPOCOSerializeNil(t *testing.T) {
	data, err := NewPOCO(nil, reflect.TypeFor[*blog]()).Serialize(nil)
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestPOCODeserializeErrors(t *testing.T) {
	b := NewPOCO(nil, reflect.TypeFor[*blog]())

	_, err := b.Deserialize([]byte(`{"title":`))
	require.Error(t, err)
	assert.ErrorIs(t, err, jsondom.ErrMalformedJSON)

	_, err = b.Deserialize([]byte(`{"title": 5}`))
	require.Error(t, err)
	assert.NotErrorIs(t, err, jsondom.ErrMalformedJSON)
}

func TestPOCOStructuralEqual(t *testing.T) {
	b := NewPOCO(nil, reflect.TypeFor[*blog]())

	eq, err := b.StructuralEqual(&blog{Tags: []string{"a"}}, &blog{Tags: []string{"a"}})
	require.NoError(t, err)
	assert.True(t, eq)

	eq, err = b.StructuralEqual(&blog{Tags: []string{"a"}}, &blog{Tags: []string{"a", "b"}})
	require.NoError(t, err)
	assert.False(t, eq)
}
