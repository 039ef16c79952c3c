package backend

import (
	"fmt"
	"reflect"

	"github.com/roach88/mysqljson/internal/jsondom"
	"github.com/roach88/mysqljson/internal/jsonlib"
)

// POCO serializes plain Go values (structs, maps, slices, pointers to them)
// through a JSON library's reflection-based encoder.
type POCO struct {
	lib jsonlib.Library
	typ reflect.Type
}

// NewPOCO returns a backend bound to typ.
func NewPOCO(lib jsonlib.Library, typ reflect.Type) *POCO {
	if lib == nil {
		lib = jsonlib.Std{}
	}
	return &POCO{lib: lib, typ: typ}
}

func (b *POCO) ModelType() reflect.Type { return b.typ }

// Serialize marshals v, which must be of the bound type.
func (b *POCO) Serialize(v any) ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	if t := reflect.TypeOf(v); t != b.typ {
		return nil, fmt.Errorf("serialize: got %s, backend is bound to %s", t, b.typ)
	}
	data, err := b.lib.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("serialize %s: %w", b.typ, err)
	}
	return data, nil
}

// Deserialize unmarshals data into a fresh value of the bound type.
func (b *POCO) Deserialize(data []byte) (any, error) {
	if !b.lib.Valid(data) {
		return nil, fmt.Errorf("deserialize %s: %w: %q", b.typ, jsondom.ErrMalformedJSON, data)
	}
	ptr := reflect.New(b.typ)
	if err := b.lib.Unmarshal(data, ptr.Interface()); err != nil {
		return nil, fmt.Errorf("deserialize %s: %w", b.typ, err)
	}
	return ptr.Elem().Interface(), nil
}

func (b *POCO) StructuralEqual(x, y any) (bool, error) {
	return structuralEqual(b, x, y)
}
