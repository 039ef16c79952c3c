// Package convert maps model values to and from the storage form of a json column.
package convert

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/roach88/mysqljson/internal/backend"
)

// StorageKind selects the driver-facing representation.
type StorageKind int

const (
	// StorageText stores JSON as a Go string.
	StorageText StorageKind = iota
	// StorageBinary stores JSON as a byte slice.
	StorageBinary
)

func (k StorageKind) String() string {
	switch k {
	case StorageText:
		return "text"
	case StorageBinary:
		return "binary"
	default:
		return fmt.Sprintf("StorageKind(%d)", int(k))
	}
}

// ParseStorageKind accepts "text" or "binary". An empty string means text.
func ParseStorageKind(s string) (StorageKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return StorageText, nil
	case "binary":
		return StorageBinary, nil
	default:
		return 0, fmt.Errorf("unknown storage kind %q (expected text or binary)", s)
	}
}

var (
	textType   = reflect.TypeFor[string]()
	binaryType = reflect.TypeFor[[]byte]()
)

// Converter is a pure bidirectional mapping between a model value and its storage form.
// It holds no mutable state and is safe for concurrent use.
type Converter struct {
	backend backend.Backend
	kind    StorageKind
}

// New returns a converter over b producing the given storage kind.
func New(b backend.Backend, kind StorageKind) *Converter {
	return &Converter{backend: b, kind: kind}
}

// Backend returns the serializer backend the converter delegates to.
func (c *Converter) Backend() backend.Backend { return c.backend }

// Kind returns the storage kind.
func (c *Converter) Kind() StorageKind { return c.kind }

// WithKind returns a converter over the same backend with a different storage kind.
func (c *Converter) WithKind(kind StorageKind) *Converter {
	return &Converter{backend: c.backend, kind: kind}
}

// ModelType is the Go type FromProvider produces.
func (c *Converter) ModelType() reflect.Type { return c.backend.ModelType() }

// ProviderType is string for StorageText and []byte for StorageBinary.
func (c *Converter) ProviderType() reflect.Type {
	if c.kind == StorageBinary {
		return binaryType
	}
	return textType
}

// ToProvider serializes v. A nil value (including a typed nil pointer, map or slice)
// maps to nil, which binds as SQL NULL.
func (c *Converter) ToProvider(v any) (any, error) {
	if IsNil(v) {
		return nil, nil
	}
	data, err := c.backend.Serialize(v)
	if err != nil {
		return nil, fmt.Errorf("to provider: %w", err)
	}
	if c.kind == StorageBinary {
		return data, nil
	}
	return string(data), nil
}

// FromProvider parses a stored string, []byte or json.RawMessage into the model type.
// Malformed input is returned as an error, never replaced by a guess.
func (c *Converter) FromProvider(v any) (any, error) {
	var data []byte
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		data = []byte(val)
	case []byte:
		if val == nil {
			return nil, nil
		}
		data = val
	case json.RawMessage:
		if val == nil {
			return nil, nil
		}
		data = val
	default:
		return nil, fmt.Errorf("from provider: unsupported storage value %T", v)
	}

	out, err := c.backend.Deserialize(data)
	if err != nil {
		return nil, fmt.Errorf("from provider: %w", err)
	}
	return out, nil
}

// Normalize runs v forward to storage and back again.
func (c *Converter) Normalize(v any) (any, error) {
	stored, err := c.ToProvider(v)
	if err != nil {
		return nil, err
	}
	return c.FromProvider(stored)
}

// IsNil reports whether v is nil or a nil pointer, map, slice or interface.
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
