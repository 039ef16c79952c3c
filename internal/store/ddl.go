package store

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/roach88/mysqljson/internal/mapping"
	"github.com/roach88/mysqljson/internal/tracking"
)

// Dialect selects identifier quoting and column types for generated DDL.
type Dialect int

const (
	SQLite Dialect = iota
	MySQL
)

func (d Dialect) String() string {
	if d == MySQL {
		return "mysql"
	}
	return "sqlite"
}

// ParseDialect accepts "sqlite" or "mysql".
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sqlite":
		return SQLite, nil
	case "mysql":
		return MySQL, nil
	default:
		return 0, fmt.Errorf("unknown dialect %q (expected sqlite or mysql)", s)
	}
}

const idColumn = "id"

var (
	identPattern      = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	columnTypePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_ ]*(\([0-9, ]+\))?$`)
)

// column is one non-key column of an entity table.
type column struct {
	prop    *tracking.Property
	mapping *mapping.TypeMapping // nil for non-json columns
	sqlType string
}

func (d Dialect) quote(name string) string {
	if d == MySQL {
		return "`" + name + "`"
	}
	return `"` + name + `"`
}

// CreateTableSQL renders the CREATE TABLE statement for e.
func CreateTableSQL(e *tracking.Entity, d Dialect) (string, error) {
	cols, err := columns(e, d)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", d.quote(e.Name()))
	if d == MySQL {
		fmt.Fprintf(&b, "    %s char(36) NOT NULL", d.quote(idColumn))
	} else {
		fmt.Fprintf(&b, "    %s TEXT PRIMARY KEY", d.quote(idColumn))
	}
	for _, c := range cols {
		null := "NULL"
		if !c.prop.Nullable() {
			null = "NOT NULL"
		}
		fmt.Fprintf(&b, ",\n    %s %s %s", d.quote(c.prop.Name()), c.sqlType, null)
	}
	if d == MySQL {
		fmt.Fprintf(&b, ",\n    PRIMARY KEY (%s)\n) CHARACTER SET utf8mb4", d.quote(idColumn))
	} else {
		b.WriteString("\n)")
	}
	return b.String(), nil
}

func columns(e *tracking.Entity, d Dialect) ([]column, error) {
	if !identPattern.MatchString(e.Name()) {
		return nil, fmt.Errorf("invalid table name %q", e.Name())
	}

	var cols []column
	for _, p := range e.Properties() {
		if !identPattern.MatchString(p.Name()) {
			return nil, fmt.Errorf("%s: invalid column name %q", e.Name(), p.Name())
		}
		if strings.EqualFold(p.Name(), idColumn) {
			return nil, fmt.Errorf("%s: column %q is reserved for the key", e.Name(), p.Name())
		}

		if m, ok := p.Mapping(); ok {
			cols = append(cols, column{prop: p, mapping: m, sqlType: m.StoreType()})
			continue
		}

		sqlType, err := plainType(p, d)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", e.Name(), p.Name(), err)
		}
		cols = append(cols, column{prop: p, sqlType: sqlType})
	}
	return cols, nil
}

func plainType(p *tracking.Property, d Dialect) (string, error) {
	if ct := p.ColumnType(); ct != "" {
		if !columnTypePattern.MatchString(ct) {
			return "", fmt.Errorf("invalid column type %q", ct)
		}
		return ct, nil
	}

	switch p.Type().Kind() {
	case reflect.String:
		if d == MySQL {
			return "longtext", nil
		}
		return "TEXT", nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		if d == MySQL {
			return "bigint", nil
		}
		return "INTEGER", nil
	case reflect.Bool:
		if d == MySQL {
			return "tinyint(1)", nil
		}
		return "BOOLEAN", nil
	case reflect.Float32, reflect.Float64:
		if d == MySQL {
			return "double", nil
		}
		return "REAL", nil
	default:
		return "", fmt.Errorf("no column type for %s (declare it with column type json)", p.Type())
	}
}
