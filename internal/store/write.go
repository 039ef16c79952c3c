package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/roach88/mysqljson/internal/tracking"
)

// EnsureTable creates the entity's table if it does not exist and records its
// DDL in the catalog.
func (s *Store) EnsureTable(ctx context.Context, e *tracking.Entity) error {
	ddl, err := CreateTableSQL(e, SQLite)
	if err != nil {
		return fmt.Errorf("ensure table: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure table %s: %w", e.Name(), err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO mysqljson_tables (name, ddl, ensured_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET ddl = excluded.ddl, ensured_at = excluded.ensured_at
	`, e.Name(), ddl, s.clock.Now().Unix())
	if err != nil {
		return fmt.Errorf("ensure table %s: record catalog: %w", e.Name(), err)
	}

	slog.Info("table ensured", "table", e.Name())
	return nil
}

// Insert writes a new row and returns its generated id.
// Properties missing from values are stored as NULL.
func (s *Store) Insert(ctx context.Context, e *tracking.Entity, values map[string]any) (string, error) {
	cols, err := columns(e, SQLite)
	if err != nil {
		return "", fmt.Errorf("insert: %w", err)
	}
	if err := checkKnown(e, values); err != nil {
		return "", fmt.Errorf("insert: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("insert %s: generate id: %w", e.Name(), err)
	}

	names := []string{SQLite.quote(idColumn)}
	placeholders := []string{"@" + idColumn}
	args := []any{sql.Named(idColumn, id.String())}
	for _, c := range cols {
		arg, err := bind(c, values[c.prop.Name()])
		if err != nil {
			return "", fmt.Errorf("insert %s: %w", e.Name(), err)
		}
		names = append(names, SQLite.quote(c.prop.Name()))
		placeholders = append(placeholders, "@"+c.prop.Name())
		args = append(args, arg)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		SQLite.quote(e.Name()),
		strings.Join(names, ", "),
		strings.Join(placeholders, ", "))

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return "", fmt.Errorf("insert %s: %w", e.Name(), err)
	}

	slog.Debug("row inserted", "table", e.Name(), "id", id.String())
	return id.String(), nil
}

// Update writes the given properties of an existing row.
func (s *Store) Update(ctx context.Context, e *tracking.Entity, id string, values map[string]any) error {
	if len(values) == 0 {
		return fmt.Errorf("update %s: no values", e.Name())
	}
	cols, err := columns(e, SQLite)
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}
	if err := checkKnown(e, values); err != nil {
		return fmt.Errorf("update: %w", err)
	}

	var sets []string
	args := []any{sql.Named(idColumn, id)}
	for _, c := range cols {
		v, ok := values[c.prop.Name()]
		if !ok {
			continue
		}
		arg, err := bind(c, v)
		if err != nil {
			return fmt.Errorf("update %s: %w", e.Name(), err)
		}
		sets = append(sets, fmt.Sprintf("%s = @%s", SQLite.quote(c.prop.Name()), c.prop.Name()))
		args = append(args, arg)
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = @%s",
		SQLite.quote(e.Name()),
		strings.Join(sets, ", "),
		SQLite.quote(idColumn),
		idColumn)

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", e.Name(), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s: %w", e.Name(), err)
	}
	if n == 0 {
		return fmt.Errorf("update %s %s: %w", e.Name(), id, ErrNotFound)
	}
	return nil
}

// bind turns a value into a named argument. JSON columns go through the
// mapping so the driver receives the storage form.
func bind(c column, v any) (sql.NamedArg, error) {
	if c.mapping != nil {
		return c.mapping.CreateParameter(c.prop.Name(), v)
	}
	return sql.Named(c.prop.Name(), v), nil
}

func checkKnown(e *tracking.Entity, values map[string]any) error {
	for name := range values {
		if _, ok := e.FindProperty(name); !ok {
			return fmt.Errorf("%s: unknown property %q", e.Name(), name)
		}
	}
	return nil
}
