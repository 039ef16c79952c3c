// Package jsonlib adapts the JSON libraries the provider can serialize with.
//
// Two libraries are supported and are interchangeable everywhere a Library is accepted:
//   - "std":   encoding/json
//   - "goccy": github.com/goccy/go-json
//
// Both produce the same bytes for the same Go value (sorted map keys, HTML escaping on),
// so switching library never changes what ends up in a json column.
package jsonlib

import (
	"errors"
	"fmt"
	"io"
	"sort"
)

// ErrUnknownLibrary is returned by Lookup for a name that is not registered.
var ErrUnknownLibrary = errors.New("unknown json library")

// Decoder is the streaming subset shared by both libraries' decoders.
type Decoder interface {
	UseNumber()
	Decode(v any) error
	More() bool
}

// Library is a JSON serializer implementation.
type Library interface {
	Name() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	NewDecoder(r io.Reader) Decoder
	Valid(data []byte) bool
}

// Default is the library used when none is configured.
const Default = "std"

var libraries = map[string]Library{
	"std":   Std{},
	"goccy": Goccy{},
}

// Lookup returns the library registered under name. An empty name selects Default.
func Lookup(name string) (Library, error) {
	if name == "" {
		name = Default
	}
	lib, ok := libraries[name]
	if !ok {
		return nil, fmt.Errorf("%w %q: must be one of %v", ErrUnknownLibrary, name, Names())
	}
	return lib, nil
}

// Names lists the registered library names in sorted order.
func Names() []string {
	names := make([]string, 0, len(libraries))
	for name := range libraries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
