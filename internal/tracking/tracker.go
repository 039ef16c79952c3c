package tracking

import (
	"fmt"
	"log/slog"
	"reflect"
)

// Tracker attaches entity values for change detection.
type Tracker struct {
	model *Model
}

// NewTracker returns a tracker over m.
func NewTracker(m *Model) *Tracker {
	return &Tracker{model: m}
}

// Entry holds the live values of one attached entity and the snapshot they are
// compared against. An Entry is not safe for concurrent use.
type Entry struct {
	entity   *Entity
	current  map[string]any
	original map[string]any
}

// Attach snapshots values for the named entity. Every key must be a declared property.
// The values map is retained; callers may mutate it or the values it holds.
func (t *Tracker) Attach(entity string, values map[string]any) (*Entry, error) {
	e, ok := t.model.FindEntity(entity)
	if !ok {
		return nil, fmt.Errorf("attach: unknown entity %q", entity)
	}
	for name := range values {
		if _, ok := e.FindProperty(name); !ok {
			return nil, fmt.Errorf("attach %s: unknown property %q", entity, name)
		}
	}

	entry := &Entry{entity: e, current: values}
	if err := entry.AcceptChanges(); err != nil {
		return nil, err
	}
	return entry, nil
}

func (e *Entry) Entity() *Entity { return e.entity }

// Get returns the live value of a property.
func (e *Entry) Get(name string) any { return e.current[name] }

// Set replaces the live value of a property.
func (e *Entry) Set(name string, v any) error {
	if _, ok := e.entity.FindProperty(name); !ok {
		return fmt.Errorf("set %s: unknown property %q", e.entity.name, name)
	}
	e.current[name] = v
	return nil
}

// Values returns the live values.
func (e *Entry) Values() map[string]any { return e.current }

// Original returns the snapshot of a property taken at the last AcceptChanges.
func (e *Entry) Original(name string) any { return e.original[name] }

// DetectChanges returns the names of properties whose live value differs from
// the snapshot, in declaration order.
func (e *Entry) DetectChanges() ([]string, error) {
	var changed []string
	for _, p := range e.entity.Properties() {
		live, orig := e.current[p.name], e.original[p.name]

		var equal bool
		if c := p.Comparer(); c != nil {
			eq, err := c.Equal(orig, live)
			if err != nil {
				return nil, fmt.Errorf("detect changes %s.%s: %w", e.entity.name, p.name, err)
			}
			equal = eq
		} else {
			equal = reflect.DeepEqual(orig, live)
		}

		if !equal {
			slog.Debug("property changed",
				"entity", e.entity.name,
				"property", p.name,
			)
			changed = append(changed, p.name)
		}
	}
	return changed, nil
}

// AcceptChanges re-snapshots every property.
func (e *Entry) AcceptChanges() error {
	original := make(map[string]any, len(e.current))
	for name, v := range e.current {
		p, ok := e.entity.FindProperty(name)
		if !ok {
			return fmt.Errorf("snapshot %s: unknown property %q", e.entity.name, name)
		}
		if c := p.Comparer(); c != nil {
			snap, err := c.Snapshot(v)
			if err != nil {
				return fmt.Errorf("snapshot %s.%s: %w", e.entity.name, name, err)
			}
			original[name] = snap
			continue
		}
		original[name] = v
	}
	e.original = original
	return nil
}
