package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mysqljson/internal/compare"
	"github.com/roach88/mysqljson/internal/config"
	"github.com/roach88/mysqljson/internal/convert"
	"github.com/roach88/mysqljson/internal/dialect"
	"github.com/roach88/mysqljson/internal/jsondom"
	"github.com/roach88/mysqljson/internal/jsonlib"
	"github.com/roach88/mysqljson/internal/jsonsql"
	"github.com/roach88/mysqljson/internal/mapping"
)

type settingsDoc struct {
	Theme string
}

func TestNewDefaults(t *testing.T) {
	s, err := New(config.Default())
	require.NoError(t, err)

	assert.Equal(t, "std", s.Library().Name())
	assert.Equal(t, convert.StorageText, s.StorageKind())
	assert.Equal(t, compare.CompareStorageForm, s.ChangeTracking())
	_, ok := s.ServerVersion()
	assert.False(t, ok)

	assert.Same(t, s.Source(), s.NewModel().Source())
}

func TestNewZeroOptions(t *testing.T) {
	s, err := New(config.Options{})
	require.NoError(t, err)

	assert.Equal(t, jsonlib.Default, s.Options().Library)
	assert.Equal(t, compare.CompareStorageForm, s.ChangeTracking())
}

func TestNewConfigured(t *testing.T) {
	s, err := New(config.Options{
		Library:        "goccy",
		Storage:        "binary",
		ChangeTracking: "round-trip",
		ServerVersion:  "10.6.12-MariaDB",
	})
	require.NoError(t, err)

	assert.Equal(t, "goccy", s.Library().Name())
	assert.Equal(t, convert.StorageBinary, s.StorageKind())
	assert.Equal(t, compare.CompareRoundTrip, s.ChangeTracking())

	v, ok := s.ServerVersion()
	require.True(t, ok)
	assert.Equal(t, dialect.ServerMariaDB, v.Type)

	m, ok := mapping.Find[*jsondom.Document](s.Source(), "json")
	require.True(t, ok)
	assert.Equal(t, compare.CompareRoundTrip, m.Comparer().Options())

	stored, err := m.Converter().ToProvider(jsondom.MustParseDocument(`{"a":1}`))
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"a":1}`), stored)
}

func TestNewWithLibraryOverride(t *testing.T) {
	s, err := New(config.Options{Library: "std"}, WithLibrary(jsonlib.Goccy{}))
	require.NoError(t, err)

	assert.Equal(t, "goccy", s.Library().Name())
	assert.Equal(t, "goccy", s.Options().Library)
	assert.Equal(t, "goccy", s.Source().Library().Name())
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name string
		opts config.Options
	}{
		{"unknown library", config.Options{Library: "sonic"}},
		{"bad storage", config.Options{Storage: "blob"}},
		{"bad change tracking", config.Options{ChangeTracking: "loose"}},
		{"bad server version", config.Options{ServerVersion: "eight"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts)
			require.Error(t, err)
		})
	}
}

func TestNewUnknownLibraryWraps(t *testing.T) {
	_, err := New(config.Options{Library: "sonic"})
	require.ErrorIs(t, err, jsonlib.ErrUnknownLibrary)
}

func TestNewRejectsOldServer(t *testing.T) {
	_, err := New(config.Options{ServerVersion: "5.7.7"})
	require.ErrorIs(t, err, dialect.ErrUnsupportedServer)

	_, err = New(config.Options{ServerVersion: "10.2.6-MariaDB"})
	require.ErrorIs(t, err, dialect.ErrUnsupportedServer)
}

func TestTranslatorHonorsServerVersion(t *testing.T) {
	s, err := New(config.Options{ServerVersion: "8.0.16"})
	require.NoError(t, err)

	_, _, err = s.Translator().Translate(jsonsql.Overlaps{
		Left:  jsonsql.Column{Name: "doc"},
		Right: jsonsql.Column{Name: "tags"},
	})
	require.ErrorIs(t, err, dialect.ErrUnsupportedServer)

	sql, params, err := s.Translator().Translate(jsonsql.Contains{
		Target:    jsonsql.Column{Name: "doc"},
		Candidate: jsonsql.JSONParam{Value: jsondom.MustParse(`{"b":1,"a":2}`)},
	})
	require.NoError(t, err)
	assert.Equal(t, "JSON_CONTAINS(`doc`, CAST(? AS json))", sql)
	assert.Equal(t, []any{`{"a":2,"b":1}`}, params)
}

func TestDSN(t *testing.T) {
	s, err := New(config.Default())
	require.NoError(t, err)
	_, err = s.DSN()
	require.Error(t, err)

	opts := config.Default()
	opts.Connection = &dialect.ConnectionConfig{Host: "db", User: "app", Database: "blog"}
	s, err = New(opts)
	require.NoError(t, err)

	dsn, err := s.DSN()
	require.NoError(t, err)
	assert.Contains(t, dsn, "@tcp(db:3306)/blog")
	assert.Contains(t, dsn, "charset=utf8mb4")
}
