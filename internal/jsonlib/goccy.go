package jsonlib

import (
	"io"

	gojson "github.com/goccy/go-json"
)

// Goccy is github.com/goccy/go-json, a drop-in encoding/json replacement.
type Goccy struct{}

func (Goccy) Name() string { return "goccy" }

func (Goccy) Marshal(v any) ([]byte, error) { return gojson.Marshal(v) }

func (Goccy) Unmarshal(data []byte, v any) error { return gojson.Unmarshal(data, v) }

func (Goccy) NewDecoder(r io.Reader) Decoder { return gojson.NewDecoder(r) }

func (Goccy) Valid(data []byte) bool { return gojson.Valid(data) }
