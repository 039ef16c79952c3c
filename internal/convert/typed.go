package convert

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/roach88/mysqljson/internal/backend"
	"github.com/roach88/mysqljson/internal/jsondom"
	"github.com/roach88/mysqljson/internal/jsonlib"
)

// ErrTypeMismatch reports stored JSON whose shape does not fit the typed model,
// such as an array read through a Typed[jsondom.Object].
var ErrTypeMismatch = errors.New("stored json does not match model type")

// Typed is a Converter bound to T at compile time.
type Typed[T any] struct {
	c *Converter
}

// NewTyped builds the converter for T using the backend variant that owns T.
func NewTyped[T any](lib jsonlib.Library, kind StorageKind) *Typed[T] {
	return &Typed[T]{c: New(backend.ForType(lib, reflect.TypeFor[T]()), kind)}
}

// Converter returns the untyped converter.
func (t *Typed[T]) Converter() *Converter { return t.c }

func (t *Typed[T]) ToProvider(v T) (any, error) {
	return t.c.ToProvider(v)
}

// FromProvider returns the zero T for a nil storage value. When T is a concrete
// element type, the parsed element must be of that type; a JSON null reads as
// the zero T.
func (t *Typed[T]) FromProvider(v any) (T, error) {
	var zero T
	out, err := t.c.FromProvider(v)
	if err != nil || out == nil {
		return zero, err
	}
	typed, ok := out.(T)
	if _, isNull := out.(jsondom.Null); isNull && !ok {
		return zero, nil
	}
	if !ok {
		return zero, fmt.Errorf("from provider: %w: got %T, want %s", ErrTypeMismatch, out, reflect.TypeFor[T]())
	}
	return typed, nil
}
