package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/roach88/mysqljson/internal/tracking"
)

// Load reads one row by id. JSON columns are materialized into their model
// types; malformed stored JSON is returned as an error.
func (s *Store) Load(ctx context.Context, e *tracking.Entity, id string) (map[string]any, error) {
	cols, err := columns(e, SQLite)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	names := make([]string, 0, len(cols))
	for _, c := range cols {
		names = append(names, SQLite.quote(c.prop.Name()))
	}
	selectList := "1"
	if len(names) > 0 {
		selectList = strings.Join(names, ", ")
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ?",
		selectList, SQLite.quote(e.Name()), SQLite.quote(idColumn))

	dest := make([]any, len(cols))
	for i, c := range cols {
		if c.mapping != nil {
			dest[i] = new(sql.NullString)
		} else {
			dest[i] = new(any)
		}
	}
	if len(cols) == 0 {
		dest = []any{new(any)}
	}

	if err := s.db.QueryRowContext(ctx, query, id).Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("load %s %s: %w", e.Name(), id, ErrNotFound)
		}
		return nil, fmt.Errorf("load %s %s: %w", e.Name(), id, err)
	}

	values := make(map[string]any, len(cols))
	for i, c := range cols {
		name := c.prop.Name()
		if c.mapping != nil {
			ns := dest[i].(*sql.NullString)
			if !ns.Valid {
				values[name] = nil
				continue
			}
			v, err := c.mapping.Converter().FromProvider(ns.String)
			if err != nil {
				return nil, fmt.Errorf("load %s.%s: %w", e.Name(), name, err)
			}
			values[name] = v
			continue
		}

		v, err := coerce(*dest[i].(*any), c.prop.Type())
		if err != nil {
			return nil, fmt.Errorf("load %s.%s: %w", e.Name(), name, err)
		}
		values[name] = v
	}
	return values, nil
}

// coerce converts a driver value to the property type.
func coerce(raw any, typ reflect.Type) (any, error) {
	if raw == nil {
		return nil, nil
	}
	if b, ok := raw.([]byte); ok {
		raw = string(b)
	}
	if typ.Kind() == reflect.Bool {
		if n, ok := raw.(int64); ok {
			return n != 0, nil
		}
	}

	rv := reflect.ValueOf(raw)
	fromString, toString := rv.Kind() == reflect.String, typ.Kind() == reflect.String
	switch {
	case rv.Type() == typ:
		return raw, nil
	case fromString && toString:
		return rv.Convert(typ).Interface(), nil
	case !fromString && !toString && rv.Type().ConvertibleTo(typ):
		return rv.Convert(typ).Interface(), nil
	default:
		return nil, fmt.Errorf("cannot convert %T to %s", raw, typ)
	}
}
