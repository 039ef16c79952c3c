// Package provider assembles the json mapping services from configuration.
package provider

import (
	"fmt"
	"log/slog"

	"github.com/roach88/mysqljson/internal/compare"
	"github.com/roach88/mysqljson/internal/config"
	"github.com/roach88/mysqljson/internal/convert"
	"github.com/roach88/mysqljson/internal/dialect"
	"github.com/roach88/mysqljson/internal/jsonlib"
	"github.com/roach88/mysqljson/internal/jsonsql"
	"github.com/roach88/mysqljson/internal/mapping"
	"github.com/roach88/mysqljson/internal/tracking"
)

// Services is the resolved provider: one Source shared by the translator,
// the code generator and every model built from it.
type Services struct {
	opts       config.Options
	library    jsonlib.Library
	storage    convert.StorageKind
	tracking   compare.ChangeTrackingOptions
	server     *dialect.ServerVersion
	source     *mapping.Source
	translator *jsonsql.Translator
	codegen    *CodeGenerator
}

// Option configures New.
type Option func(*settings)

type settings struct {
	library jsonlib.Library
}

// WithLibrary overrides the library named in the options.
func WithLibrary(lib jsonlib.Library) Option {
	return func(s *settings) {
		s.library = lib
	}
}

// New validates opts and builds the services.
// A configured server version below the JSON minimum is rejected.
func New(opts config.Options, options ...Option) (*Services, error) {
	var set settings
	for _, opt := range options {
		opt(&set)
	}

	if opts.Library == "" {
		opts.Library = jsonlib.Default
	}
	lib := set.library
	if lib == nil {
		var err error
		lib, err = jsonlib.Lookup(opts.Library)
		if err != nil {
			return nil, fmt.Errorf("library: %w", err)
		}
	}
	opts.Library = lib.Name()

	storage, err := convert.ParseStorageKind(opts.Storage)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	mode, err := compare.ParseChangeTrackingOptions(opts.ChangeTracking)
	if err != nil {
		return nil, fmt.Errorf("change_tracking: %w", err)
	}
	mode = mode.Resolve(compare.DefaultOptions)

	s := &Services{
		opts:     opts,
		library:  lib,
		storage:  storage,
		tracking: mode,
	}

	var translatorOpts []jsonsql.TranslatorOption
	if opts.ServerVersion != "" {
		v, err := dialect.ParseServerVersion(opts.ServerVersion)
		if err != nil {
			return nil, fmt.Errorf("server_version: %w", err)
		}
		if err := v.CheckJSON(); err != nil {
			return nil, err
		}
		s.server = &v
		translatorOpts = append(translatorOpts, jsonsql.WithServerVersion(v))
	}

	s.source = mapping.NewSource(
		mapping.WithLibrary(lib),
		mapping.WithStorageKind(storage),
		mapping.WithDefaultChangeTracking(mode),
	)
	s.translator = jsonsql.NewTranslator(s.source, translatorOpts...)
	s.codegen = &CodeGenerator{source: s.source}

	slog.Info("json provider ready",
		"library", lib.Name(),
		"storage", storage.String(),
		"change_tracking", mode.String(),
		"server", s.serverString(),
	)
	return s, nil
}

func (s *Services) serverString() string {
	if s.server == nil {
		return "unspecified"
	}
	return s.server.String()
}

// Options returns the effective options.
func (s *Services) Options() config.Options { return s.opts }

func (s *Services) Library() jsonlib.Library { return s.library }

func (s *Services) StorageKind() convert.StorageKind { return s.storage }

// ChangeTracking is the provider default applied to properties without their own mode.
func (s *Services) ChangeTracking() compare.ChangeTrackingOptions { return s.tracking }

// ServerVersion returns the configured server, if one was given.
func (s *Services) ServerVersion() (dialect.ServerVersion, bool) {
	if s.server == nil {
		return dialect.ServerVersion{}, false
	}
	return *s.server, true
}

func (s *Services) Source() *mapping.Source { return s.source }

func (s *Services) Translator() *jsonsql.Translator { return s.translator }

func (s *Services) CodeGenerator() *CodeGenerator { return s.codegen }

// NewModel returns an empty model bound to the provider's Source.
func (s *Services) NewModel() *tracking.Model {
	return tracking.NewModel(s.source)
}

// DSN returns the connection string for the configured connection.
func (s *Services) DSN() (string, error) {
	if s.opts.Connection == nil {
		return "", fmt.Errorf("no connection configured")
	}
	return s.opts.Connection.DSN()
}
