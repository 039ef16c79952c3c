package mapping

import (
	"log/slog"
	"reflect"
	"strings"
	"sync"

	"github.com/roach88/mysqljson/internal/backend"
	"github.com/roach88/mysqljson/internal/compare"
	"github.com/roach88/mysqljson/internal/convert"
	"github.com/roach88/mysqljson/internal/jsondom"
	"github.com/roach88/mysqljson/internal/jsonlib"
)

// MappingInfo is a resolution request. An empty StoreType means none was requested.
type MappingInfo struct {
	Type      reflect.Type
	StoreType string
}

// Source resolves model types to json mappings.
//
// Document, element and text mappings are built once at construction. POCO
// mappings are built on first request and cached per type for the lifetime of
// the Source; concurrent requests for the same type all observe one mapping.
type Source struct {
	lib      jsonlib.Library
	kind     convert.StorageKind
	defaults compare.ChangeTrackingOptions

	document *TypeMapping
	element  *TypeMapping
	text     *TypeMapping

	pocos sync.Map // reflect.Type -> *TypeMapping
}

// SourceOption configures a Source.
type SourceOption func(*Source)

// WithLibrary selects the JSON library used by every backend.
func WithLibrary(lib jsonlib.Library) SourceOption {
	return func(s *Source) {
		s.lib = lib
	}
}

// WithStorageKind selects text or binary storage values.
func WithStorageKind(kind convert.StorageKind) SourceOption {
	return func(s *Source) {
		s.kind = kind
	}
}

// WithDefaultChangeTracking sets the provider default comparison mode.
func WithDefaultChangeTracking(o compare.ChangeTrackingOptions) SourceOption {
	return func(s *Source) {
		s.defaults = o
	}
}

// NewSource builds a Source. Defaults: encoding/json, text storage, CompareStorageForm.
func NewSource(opts ...SourceOption) *Source {
	s := &Source{
		lib:      jsonlib.Std{},
		kind:     convert.StorageText,
		defaults: compare.DefaultOptions,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.defaults = s.defaults.Resolve(compare.DefaultOptions)

	s.document = s.build(KindDocument, backend.NewDocument(s.lib))
	s.element = s.build(KindElement, backend.NewElement(s.lib))
	s.text = s.build(KindText, backend.Text{})
	return s
}

// Library returns the JSON library backing every mapping.
func (s *Source) Library() jsonlib.Library { return s.lib }

// DefaultChangeTracking returns the resolved provider default mode.
func (s *Source) DefaultChangeTracking() compare.ChangeTrackingOptions { return s.defaults }

func (s *Source) build(kind Kind, b backend.Backend) *TypeMapping {
	conv := convert.New(b, s.kind)
	cmp := compare.New(conv, compare.ChangeTrackingDefault, compare.WithDefaultOptions(s.defaults))
	return newTypeMapping(kind, conv, cmp)
}

var (
	documentType = reflect.TypeFor[*jsondom.Document]()
	valueType    = reflect.TypeFor[jsondom.Value]()
	stringType   = reflect.TypeFor[string]()
	bytesType    = reflect.TypeFor[[]byte]()
)

// FindMapping resolves info to a mapping. It returns false for any type or store
// type this provider does not serve, so the caller can try other sources.
func (s *Source) FindMapping(info MappingInfo) (*TypeMapping, bool) {
	storeType := strings.TrimSpace(info.StoreType)
	if storeType != "" && !strings.EqualFold(storeType, StoreType) {
		return nil, false
	}
	if info.Type == nil {
		return nil, false
	}

	if info.Type == documentType {
		return s.document, true
	}
	if jsondom.IsElementType(info.Type) {
		// Concrete element types share the element mapping; its ClrType stays jsondom.Value.
		return s.element, true
	}

	if storeType == "" {
		return nil, false
	}
	if info.Type == stringType {
		return s.text, true
	}
	if !isPOCO(info.Type) {
		return nil, false
	}

	if cached, ok := s.pocos.Load(info.Type); ok {
		return cached.(*TypeMapping), true
	}
	built := s.build(KindPOCO, backend.NewPOCO(s.lib, info.Type))
	actual, loaded := s.pocos.LoadOrStore(info.Type, built)
	if !loaded {
		slog.Debug("built poco json mapping",
			"type", info.Type.String(),
			"library", s.lib.Name(),
		)
	}
	return actual.(*TypeMapping), true
}

// FindForValue resolves the mapping for a runtime value with the json store type.
// Concrete element types (jsondom.Object, jsondom.String, ...) resolve to the element mapping.
func (s *Source) FindForValue(v any) (*TypeMapping, bool) {
	switch v.(type) {
	case nil:
		return nil, false
	case *jsondom.Document:
		return s.document, true
	case jsondom.Value:
		return s.element, true
	}
	return s.FindMapping(MappingInfo{Type: reflect.TypeOf(v), StoreType: StoreType})
}

// Find resolves the mapping for T.
func Find[T any](s *Source, storeType string) (*TypeMapping, bool) {
	return s.FindMapping(MappingInfo{Type: reflect.TypeFor[T](), StoreType: storeType})
}

func isPOCO(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Struct:
		return true
	case reflect.Pointer:
		return t.Elem().Kind() == reflect.Struct
	case reflect.Map:
		return t.Key().Kind() == reflect.String
	case reflect.Slice:
		return t != bytesType && t.Elem().Kind() != reflect.Uint8
	default:
		return false
	}
}
