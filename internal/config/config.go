// Package config loads provider options from YAML.
//
//	library: goccy            # std | goccy
//	storage: text             # text | binary
//	change_tracking: round-trip
//	server_version: "8.0.34"
//	connection:
//	  host: db.internal
//	  user: app
//	  database: blog
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/mysqljson/internal/compare"
	"github.com/roach88/mysqljson/internal/convert"
	"github.com/roach88/mysqljson/internal/dialect"
	"github.com/roach88/mysqljson/internal/jsonlib"
)

// Options configures the provider. Empty fields take their defaults.
type Options struct {
	Library        string                    `yaml:"library"`
	Storage        string                    `yaml:"storage"`
	ChangeTracking string                    `yaml:"change_tracking"`
	ServerVersion  string                    `yaml:"server_version"`
	Connection     *dialect.ConnectionConfig `yaml:"connection"`
}

// Default returns the options used when no file is given.
func Default() Options {
	return Options{
		Library:        jsonlib.Default,
		Storage:        convert.StorageText.String(),
		ChangeTracking: compare.DefaultOptions.String(),
	}
}

// Load reads and validates a YAML options file.
// Unknown fields are rejected so typos surface instead of being ignored.
func Load(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates YAML options. An empty document yields Default().
func Parse(data []byte) (Options, error) {
	opts := Default()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
		return Options{}, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := opts.Validate(); err != nil {
		return Options{}, fmt.Errorf("invalid config: %w", err)
	}
	return opts, nil
}

// Validate checks that every field names a known value.
func (o Options) Validate() error {
	if _, err := jsonlib.Lookup(o.Library); err != nil {
		return fmt.Errorf("library: %w", err)
	}
	if _, err := convert.ParseStorageKind(o.Storage); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if _, err := compare.ParseChangeTrackingOptions(o.ChangeTracking); err != nil {
		return fmt.Errorf("change_tracking: %w", err)
	}
	if o.ServerVersion != "" {
		if _, err := dialect.ParseServerVersion(o.ServerVersion); err != nil {
			return fmt.Errorf("server_version: %w", err)
		}
	}
	return nil
}
