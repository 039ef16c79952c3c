// Package tracking is the model-building and change-detection surface for
// JSON-typed properties.
//
// Properties resolve their type mapping from a mapping.Source. Each property
// can override the provider-default comparison mode; an entry attached to a
// Tracker snapshots its JSON values so later in-place mutation of a live value
// is detected against the snapshot.
package tracking

import (
	"reflect"

	"github.com/roach88/mysqljson/internal/compare"
	"github.com/roach88/mysqljson/internal/mapping"
)

// AnnotationChangeTracking holds a property's configured ChangeTrackingOptions.
const AnnotationChangeTracking = "mysql:json-change-tracking"

// Model is a set of entities resolved against one Source.
// Model building is single-threaded; a built model is read-only.
type Model struct {
	source   *mapping.Source
	entities map[string]*Entity
	order    []string
}

// NewModel returns an empty model.
func NewModel(src *mapping.Source) *Model {
	return &Model{
		source:   src,
		entities: make(map[string]*Entity),
	}
}

func (m *Model) Source() *mapping.Source { return m.source }

// Entity returns the named entity, creating it on first use.
func (m *Model) Entity(name string) *Entity {
	if e, ok := m.entities[name]; ok {
		return e
	}
	e := &Entity{
		model: m,
		name:  name,
		props: make(map[string]*Property),
	}
	m.entities[name] = e
	m.order = append(m.order, name)
	return e
}

// FindEntity returns the named entity if it was declared.
func (m *Model) FindEntity(name string) (*Entity, bool) {
	e, ok := m.entities[name]
	return e, ok
}

// Entities returns entities in declaration order.
func (m *Model) Entities() []*Entity {
	out := make([]*Entity, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, m.entities[name])
	}
	return out
}

// Entity is a named set of properties.
type Entity struct {
	model *Model
	name  string
	props map[string]*Property
	order []string
}

func (e *Entity) Name() string { return e.name }

func (e *Entity) Model() *Model { return e.model }

// Property returns the named property, creating it with typ on first use.
// Redeclaring with a different type replaces the type and drops any custom
// comparer. A configured change-tracking mode survives and is reapplied to the
// new type's comparer.
func (e *Entity) Property(name string, typ reflect.Type) *Property {
	if p, ok := e.props[name]; ok {
		if p.typ != typ {
			p.typ = typ
			p.comparer = nil
			p.reapplyChangeTracking()
		}
		return p
	}
	p := &Property{
		entity:      e,
		name:        name,
		typ:         typ,
		nullable:    true,
		annotations: make(map[string]any),
	}
	e.props[name] = p
	e.order = append(e.order, name)
	return p
}

// FindProperty returns the named property if it was declared.
func (e *Entity) FindProperty(name string) (*Property, bool) {
	p, ok := e.props[name]
	return p, ok
}

// Properties returns properties in declaration order.
func (e *Entity) Properties() []*Property {
	out := make([]*Property, 0, len(e.order))
	for _, name := range e.order {
		out = append(out, e.props[name])
	}
	return out
}

// Prop declares a property of type T on e.
func Prop[T any](e *Entity, name string) *Property {
	return e.Property(name, reflect.TypeFor[T]())
}

// Property is one column of an entity.
type Property struct {
	entity      *Entity
	name        string
	typ         reflect.Type
	columnType  string
	nullable    bool
	annotations map[string]any
	comparer    *compare.Comparer
}

func (p *Property) Name() string { return p.name }

func (p *Property) Type() reflect.Type { return p.typ }

func (p *Property) Entity() *Entity { return p.entity }

// ColumnType is the requested store type, or "" when none was set.
func (p *Property) ColumnType() string { return p.columnType }

func (p *Property) Nullable() bool { return p.nullable }

// HasColumnType requests a store type for the property.
func (p *Property) HasColumnType(storeType string) *Property {
	if p.columnType != storeType {
		p.columnType = storeType
		p.reapplyChangeTracking()
	}
	return p
}

// IsRequired marks the column NOT NULL.
func (p *Property) IsRequired() *Property {
	p.nullable = false
	return p
}

// Annotation returns a model annotation.
func (p *Property) Annotation(name string) (any, bool) {
	v, ok := p.annotations[name]
	return v, ok
}

// SetAnnotation records a model annotation. A nil value removes it.
func (p *Property) SetAnnotation(name string, v any) *Property {
	if v == nil {
		delete(p.annotations, name)
		return p
	}
	p.annotations[name] = v
	return p
}

// Mapping resolves the property's json mapping, with its facets and any custom
// comparer applied. It returns false for properties that are not json-mapped.
func (p *Property) Mapping() (*mapping.TypeMapping, bool) {
	m, ok := p.entity.model.source.FindMapping(mapping.MappingInfo{
		Type:      p.typ,
		StoreType: p.columnType,
	})
	if !ok {
		return nil, false
	}

	facets := m.Facets()
	facets.Nullable = p.nullable
	return m.Clone(mapping.Parameters{Comparer: p.comparer, Facets: facets}), true
}

// Comparer returns the custom comparer if one is attached, otherwise the
// mapping's comparer. It returns nil for properties that are not json-mapped.
func (p *Property) Comparer() *compare.Comparer {
	if p.comparer != nil {
		return p.comparer
	}
	m, ok := p.entity.model.source.FindMapping(mapping.MappingInfo{Type: p.typ, StoreType: p.columnType})
	if !ok {
		return nil
	}
	return m.Comparer()
}

// SetValueComparer attaches a custom comparer. nil removes it.
func (p *Property) SetValueComparer(c *compare.Comparer) *Property {
	p.comparer = c
	return p
}

// ChangeTrackingOptions returns the configured mode, if any.
func (p *Property) ChangeTrackingOptions() (compare.ChangeTrackingOptions, bool) {
	v, ok := p.annotations[AnnotationChangeTracking]
	if !ok {
		return compare.ChangeTrackingDefault, false
	}
	return v.(compare.ChangeTrackingOptions), true
}

// SetChangeTrackingOptions configures how the property's values are compared.
//
// A concrete mode clones the current comparer (custom or mapping default) into
// that mode. ChangeTrackingDefault removes the annotation and any custom
// comparer, so the property reverts to the provider default.
func (p *Property) SetChangeTrackingOptions(opts compare.ChangeTrackingOptions) *Property {
	if opts == compare.ChangeTrackingDefault {
		delete(p.annotations, AnnotationChangeTracking)
		p.comparer = nil
		return p
	}

	p.annotations[AnnotationChangeTracking] = opts
	if base := p.Comparer(); base != nil {
		p.comparer = base.Clone(opts)
	}
	return p
}

// reapplyChangeTracking rebuilds the annotated-mode comparer after the
// property's mapping changed.
func (p *Property) reapplyChangeTracking() {
	opts, ok := p.ChangeTrackingOptions()
	if !ok {
		return
	}
	p.comparer = nil
	if base := p.Comparer(); base != nil {
		p.comparer = base.Clone(opts)
	}
}
