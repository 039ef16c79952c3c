// Package mapping binds JSON model types to the MySQL json store type.
//
// A TypeMapping carries everything the host needs for one JSON-typed property:
// the converter used for reads and writes, the comparer used during change
// detection, the column facets, and the literal generators used by model
// snapshot codegen and seed SQL.
package mapping

import (
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/roach88/mysqljson/internal/compare"
	"github.com/roach88/mysqljson/internal/convert"
	"github.com/roach88/mysqljson/internal/jsondom"
)

// StoreType is the MySQL column type every mapping in this package declares.
const StoreType = "json"

// DbType is the driver-level parameter type tag.
type DbType int

// DbTypeJSON is MySQL's protocol column type for json (MYSQL_TYPE_JSON).
const DbTypeJSON DbType = 245

func (d DbType) String() string {
	if d == DbTypeJSON {
		return "JSON"
	}
	return fmt.Sprintf("DbType(%d)", int(d))
}

// ErrLiteralNotSupported is returned when no code literal can reconstruct a value.
var ErrLiteralNotSupported = errors.New("code literal not supported")

// Kind identifies which model shape a mapping serves.
type Kind int

const (
	KindDocument Kind = iota
	KindElement
	KindText
	KindPOCO
)

func (k Kind) String() string {
	switch k {
	case KindDocument:
		return "document"
	case KindElement:
		return "element"
	case KindText:
		return "text"
	case KindPOCO:
		return "poco"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Facets are the column facets a mapping carries. Zero Size or Precision means unset.
type Facets struct {
	Size      int  `json:"size,omitempty"`
	Precision int  `json:"precision,omitempty"`
	Nullable  bool `json:"nullable"`
}

// Parameters is the rebindable part of a TypeMapping.
type Parameters struct {
	Converter *convert.Converter
	Comparer  *compare.Comparer
	Facets    Facets
}

// TypeMapping is immutable; Clone returns a new instance.
type TypeMapping struct {
	kind   Kind
	params Parameters
}

func newTypeMapping(kind Kind, conv *convert.Converter, cmp *compare.Comparer) *TypeMapping {
	return &TypeMapping{
		kind: kind,
		params: Parameters{
			Converter: conv,
			Comparer:  cmp,
			Facets:    Facets{Nullable: true},
		},
	}
}

func (m *TypeMapping) StoreType() string { return StoreType }

func (m *TypeMapping) DbType() DbType { return DbTypeJSON }

func (m *TypeMapping) Kind() Kind { return m.kind }

// ClrType is the model type the mapping applies to.
func (m *TypeMapping) ClrType() reflect.Type { return m.params.Converter.ModelType() }

func (m *TypeMapping) Converter() *convert.Converter { return m.params.Converter }

func (m *TypeMapping) Comparer() *compare.Comparer { return m.params.Comparer }

func (m *TypeMapping) Facets() Facets { return m.params.Facets }

// Clone rebinds the mapping to p. A nil converter or comparer keeps the current one.
// Store type and DbType never change.
func (m *TypeMapping) Clone(p Parameters) *TypeMapping {
	if p.Converter == nil {
		p.Converter = m.params.Converter
	}
	if p.Comparer == nil {
		p.Comparer = m.params.Comparer
	}
	return &TypeMapping{kind: m.kind, params: p}
}

// GenerateCodeLiteral returns a Go expression that rebuilds v.
// POCO values fail with ErrLiteralNotSupported.
func (m *TypeMapping) GenerateCodeLiteral(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "nil", nil
	case *jsondom.Document:
		if val == nil {
			return "nil", nil
		}
		text, err := jsondom.MarshalCanonical(val.Root())
		if err != nil {
			return "", fmt.Errorf("generate code literal: %w", err)
		}
		return "jsondom.MustParseDocument(" + strconv.Quote(string(text)) + ")", nil
	case jsondom.Value:
		text, err := jsondom.MarshalCanonical(val)
		if err != nil {
			return "", fmt.Errorf("generate code literal: %w", err)
		}
		return "jsondom.MustParse(" + strconv.Quote(string(text)) + ")", nil
	case string:
		return strconv.Quote(val), nil
	default:
		return "", fmt.Errorf("generate code literal for %T: %w", v, ErrLiteralNotSupported)
	}
}

// GenerateSQLLiteral returns v as a MySQL expression of type json.
func (m *TypeMapping) GenerateSQLLiteral(v any) (string, error) {
	stored, err := m.params.Converter.ToProvider(v)
	if err != nil {
		return "", fmt.Errorf("generate sql literal: %w", err)
	}

	var text string
	switch s := stored.(type) {
	case nil:
		return "NULL", nil
	case string:
		text = s
	case []byte:
		text = string(s)
	default:
		return "", fmt.Errorf("generate sql literal: unexpected storage value %T", stored)
	}
	return "CAST(" + quoteSQLString(text) + " AS json)", nil
}

// CreateParameter returns a named argument carrying v's storage form.
func (m *TypeMapping) CreateParameter(name string, v any) (sql.NamedArg, error) {
	stored, err := m.params.Converter.ToProvider(v)
	if err != nil {
		return sql.NamedArg{}, fmt.Errorf("create parameter %s: %w", name, err)
	}
	return sql.Named(name, stored), nil
}

var sqlStringEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `''`,
	"\x00", `\0`,
)

func quoteSQLString(s string) string {
	return "'" + sqlStringEscaper.Replace(s) + "'"
}
