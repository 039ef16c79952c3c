package jsonlib

import (
	"encoding/json"
	"io"
)

// Std is encoding/json.
type Std struct{}

func (Std) Name() string { return "std" }

func (Std) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (Std) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

func (Std) NewDecoder(r io.Reader) Decoder { return json.NewDecoder(r) }

func (Std) Valid(data []byte) bool { return json.Valid(data) }
