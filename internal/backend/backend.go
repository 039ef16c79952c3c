// Package backend adapts JSON libraries to the model types a json column can hold.
//
// Every variant satisfies the same capability interface (serialize, deserialize,
// structural equality), so converters and comparers never know which JSON
// library or which model shape they are working with.
package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/roach88/mysqljson/internal/jsondom"
	"github.com/roach88/mysqljson/internal/jsonlib"
)

// Backend converts values of one model type to and from JSON text.
type Backend interface {
	// ModelType is the Go type Deserialize produces.
	ModelType() reflect.Type

	// Serialize writes v as JSON text.
	Serialize(v any) ([]byte, error)

	// Deserialize parses JSON text into a new value of ModelType.
	Deserialize(data []byte) (any, error)

	// StructuralEqual reports whether a and b serialize to the same text.
	StructuralEqual(a, b any) (bool, error)
}

var (
	documentType = reflect.TypeFor[*jsondom.Document]()
	valueType    = reflect.TypeFor[jsondom.Value]()
	stringType   = reflect.TypeFor[string]()
)

// ForType returns the backend variant that owns typ. Concrete element types
// such as jsondom.Object share the Element backend.
func ForType(lib jsonlib.Library, typ reflect.Type) Backend {
	switch {
	case typ == documentType:
		return NewDocument(lib)
	case jsondom.IsElementType(typ):
		return NewElement(lib)
	case typ == stringType:
		return Text{}
	default:
		return NewPOCO(lib, typ)
	}
}

func structuralEqual(b Backend, x, y any) (bool, error) {
	dx, err := b.Serialize(x)
	if err != nil {
		return false, err
	}
	dy, err := b.Serialize(y)
	if err != nil {
		return false, err
	}
	return bytes.Equal(dx, dy), nil
}

// Document is the tree-model backend for whole documents.
type Document struct {
	lib jsonlib.Library
}

// NewDocument returns a Document backend parsing with lib.
func NewDocument(lib jsonlib.Library) *Document {
	return &Document{lib: lib}
}

func (b *Document) ModelType() reflect.Type { return documentType }

// Serialize writes a *jsondom.Document or jsondom.Value canonically.
func (b *Document) Serialize(v any) ([]byte, error) {
	return serializeTree(v)
}

func (b *Document) Deserialize(data []byte) (any, error) {
	return jsondom.ParseDocument(b.lib, data)
}

func (b *Document) StructuralEqual(x, y any) (bool, error) {
	return structuralEqual(b, x, y)
}

// Element is the tree-model backend for bare elements.
type Element struct {
	lib jsonlib.Library
}

// NewElement returns an Element backend parsing with lib.
func NewElement(lib jsonlib.Library) *Element {
	return &Element{lib: lib}
}

func (b *Element) ModelType() reflect.Type { return valueType }

func (b *Element) Serialize(v any) ([]byte, error) {
	return serializeTree(v)
}

func (b *Element) Deserialize(data []byte) (any, error) {
	return jsondom.Parse(b.lib, data)
}

func (b *Element) StructuralEqual(x, y any) (bool, error) {
	return structuralEqual(b, x, y)
}

func serializeTree(v any) ([]byte, error) {
	switch val := v.(type) {
	case *jsondom.Document:
		if val == nil {
			return []byte("null"), nil
		}
		return jsondom.MarshalCanonical(val.Root())
	case jsondom.Value:
		return jsondom.MarshalCanonical(val)
	default:
		return nil, fmt.Errorf("tree backend cannot serialize %T", v)
	}
}

// Text passes JSON text through unchanged. The text is assumed to already be valid JSON.
type Text struct{}

func (Text) ModelType() reflect.Type { return stringType }

func (Text) Serialize(v any) ([]byte, error) {
	switch val := v.(type) {
	case string:
		return []byte(val), nil
	case json.RawMessage:
		return []byte(val), nil
	case []byte:
		return val, nil
	default:
		return nil, fmt.Errorf("text backend cannot serialize %T", v)
	}
}

func (Text) Deserialize(data []byte) (any, error) {
	return string(data), nil
}

func (b Text) StructuralEqual(x, y any) (bool, error) {
	return structuralEqual(b, x, y)
}
