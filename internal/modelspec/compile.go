// Package modelspec compiles CUE model definitions into a tracking.Model.
//
//	entity: blogs: {
//		property: {
//			title: {type: "string", required: true}
//			doc:   {type: "object", change_tracking: "round-trip"}
//			meta:  {type: "element"}
//		}
//	}
//
// Property types:
//
//	document  *jsondom.Document
//	element   jsondom.Value
//	text      string stored in a json column
//	object    map[string]any stored in a json column
//	array     []any stored in a json column
//	string, int, bool, float   plain columns
//
// Further Go types can be registered with WithType and used by name.
package modelspec

import (
	"fmt"
	"reflect"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/mysqljson/internal/compare"
	"github.com/roach88/mysqljson/internal/jsondom"
	"github.com/roach88/mysqljson/internal/mapping"
	"github.com/roach88/mysqljson/internal/tracking"
)

type propertyType struct {
	typ  reflect.Type
	json bool // declared with the json column type
}

var builtinTypes = map[string]propertyType{
	"document": {reflect.TypeFor[*jsondom.Document](), false},
	"element":  {reflect.TypeFor[jsondom.Value](), false},
	"text":     {reflect.TypeFor[string](), true},
	"object":   {reflect.TypeFor[map[string]any](), true},
	"array":    {reflect.TypeFor[[]any](), true},
	"string":   {reflect.TypeFor[string](), false},
	"int":      {reflect.TypeFor[int64](), false},
	"bool":     {reflect.TypeFor[bool](), false},
	"float":    {reflect.TypeFor[float64](), false},
}

// Option configures compilation.
type Option func(*compiler)

// WithType registers a Go type under name. Registered types are stored in json columns.
func WithType(name string, t reflect.Type) Option {
	return func(c *compiler) {
		c.types[name] = propertyType{typ: t, json: true}
	}
}

type compiler struct {
	types map[string]propertyType
}

func newCompiler(opts []Option) *compiler {
	c := &compiler{types: make(map[string]propertyType, len(builtinTypes))}
	for name, pt := range builtinTypes {
		c.types[name] = pt
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CompileString compiles CUE source into m.
func CompileString(src string, m *tracking.Model, opts ...Option) error {
	v := cuecontext.New().CompileString(src)
	return Compile(v, m, opts...)
}

// Compile declares every entity under the value's "entity" field on m.
func Compile(v cue.Value, m *tracking.Model, opts ...Option) error {
	if err := v.Err(); err != nil {
		return formatCUEError(err)
	}

	entities := v.LookupPath(cue.ParsePath("entity"))
	if !entities.Exists() {
		return &CompileError{Field: "entity", Message: "at least one entity is required", Pos: v.Pos()}
	}

	c := newCompiler(opts)
	iter, err := entities.Fields()
	if err != nil {
		return formatCUEError(err)
	}
	count := 0
	for iter.Next() {
		if err := c.compileEntity(iter.Label(), iter.Value(), m); err != nil {
			return err
		}
		count++
	}
	if count == 0 {
		return &CompileError{Field: "entity", Message: "at least one entity is required", Pos: entities.Pos()}
	}
	return nil
}

func (c *compiler) compileEntity(name string, v cue.Value, m *tracking.Model) error {
	props := v.LookupPath(cue.ParsePath("property"))
	if !props.Exists() {
		return &CompileError{
			Field:   fmt.Sprintf("entity.%s.property", name),
			Message: "at least one property is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := props.Fields()
	if err != nil {
		return formatCUEError(err)
	}

	e := m.Entity(name)
	count := 0
	for iter.Next() {
		if err := c.compileProperty(e, iter.Label(), iter.Value()); err != nil {
			return err
		}
		count++
	}
	if count == 0 {
		return &CompileError{
			Field:   fmt.Sprintf("entity.%s.property", name),
			Message: "at least one property is required",
			Pos:     props.Pos(),
		}
	}
	return nil
}

func (c *compiler) compileProperty(e *tracking.Entity, name string, v cue.Value) error {
	field := fmt.Sprintf("entity.%s.property.%s", e.Name(), name)

	typeName, err := stringField(v, "type")
	if err != nil {
		return err
	}
	if typeName == "" {
		return &CompileError{Field: field + ".type", Message: "type is required", Pos: v.Pos()}
	}
	pt, ok := c.types[typeName]
	if !ok {
		return &CompileError{Field: field + ".type", Message: fmt.Sprintf("unknown type %q", typeName), Pos: v.Pos()}
	}

	p := e.Property(name, pt.typ)

	columnType, err := stringField(v, "column_type")
	if err != nil {
		return err
	}
	switch {
	case columnType != "":
		p.HasColumnType(columnType)
	case pt.json:
		p.HasColumnType(mapping.StoreType)
	}

	required, err := boolField(v, "required")
	if err != nil {
		return err
	}
	if required {
		p.IsRequired()
	}

	mode, err := stringField(v, "change_tracking")
	if err != nil {
		return err
	}
	if mode != "" {
		opts, err := compare.ParseChangeTrackingOptions(mode)
		if err != nil {
			return &CompileError{Field: field + ".change_tracking", Message: err.Error(), Pos: v.Pos()}
		}
		p.SetChangeTrackingOptions(opts)
	}
	return nil
}

func stringField(v cue.Value, name string) (string, error) {
	f := v.LookupPath(cue.ParsePath(name))
	if !f.Exists() {
		return "", nil
	}
	s, err := f.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func boolField(v cue.Value, name string) (bool, error) {
	f := v.LookupPath(cue.ParsePath(name))
	if !f.Exists() {
		return false, nil
	}
	b, err := f.Bool()
	if err != nil {
		return false, formatCUEError(err)
	}
	return b, nil
}

// CompileError is a model definition error with its CUE position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
