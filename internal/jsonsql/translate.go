package jsonsql

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/roach88/mysqljson/internal/dialect"
	"github.com/roach88/mysqljson/internal/mapping"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*$`)

// Translator renders Calls as MySQL SQL.
type Translator struct {
	source *mapping.Source
	server *dialect.ServerVersion
}

// TranslatorOption configures a Translator.
type TranslatorOption func(*Translator)

// WithServerVersion rejects calls the server cannot run.
// Without it every call is rendered.
func WithServerVersion(v dialect.ServerVersion) TranslatorOption {
	return func(t *Translator) {
		t.server = &v
	}
}

// NewTranslator returns a translator binding JSON parameters through src.
func NewTranslator(src *mapping.Source, opts ...TranslatorOption) *Translator {
	t := &Translator{source: src}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Translate returns (sql, params, error). Values are never interpolated.
func (t *Translator) Translate(c Call) (string, []any, error) {
	if c == nil {
		return "", nil, fmt.Errorf("cannot translate nil call")
	}

	switch call := c.(type) {
	case Extract:
		return t.translateExtract(call)
	case *Extract:
		return t.translateExtract(*call)
	case Contains:
		return t.translateContains(call)
	case *Contains:
		return t.translateContains(*call)
	case ContainsPath:
		return t.translateContainsPath(call)
	case *ContainsPath:
		return t.translateContainsPath(*call)
	case Overlaps:
		return t.translateOverlaps(call)
	case *Overlaps:
		return t.translateOverlaps(*call)
	case Search:
		return t.translateSearch(call)
	case *Search:
		return t.translateSearch(*call)
	case Type:
		return t.function("JSON_TYPE", call.Target)
	case *Type:
		return t.function("JSON_TYPE", call.Target)
	case Length:
		return t.withOptionalPath("JSON_LENGTH", call.Target, call.Path)
	case *Length:
		return t.withOptionalPath("JSON_LENGTH", call.Target, call.Path)
	case Keys:
		return t.withOptionalPath("JSON_KEYS", call.Target, call.Path)
	case *Keys:
		return t.withOptionalPath("JSON_KEYS", call.Target, call.Path)
	case Valid:
		return t.function("JSON_VALID", call.Target)
	case *Valid:
		return t.function("JSON_VALID", call.Target)
	case Quote:
		return t.function("JSON_QUOTE", call.Value)
	case *Quote:
		return t.function("JSON_QUOTE", call.Value)
	default:
		return "", nil, fmt.Errorf("unsupported call type: %T", c)
	}
}

func (t *Translator) translateExtract(e Extract) (string, []any, error) {
	if len(e.Paths) == 0 {
		return "", nil, fmt.Errorf("JSON_EXTRACT requires at least one path")
	}
	if e.Unquote && len(e.Paths) != 1 {
		return "", nil, fmt.Errorf("unquoted extract requires exactly one path, got %d", len(e.Paths))
	}

	args := []Expr{e.Target}
	for _, p := range e.Paths {
		args = append(args, pathParam(p))
	}
	sql, params, err := t.function("JSON_EXTRACT", args...)
	if err != nil {
		return "", nil, err
	}
	if e.Unquote {
		sql = "JSON_UNQUOTE(" + sql + ")"
	}
	return sql, params, nil
}

func (t *Translator) translateContains(c Contains) (string, []any, error) {
	args := []Expr{c.Target, c.Candidate}
	if c.Path != "" {
		args = append(args, pathParam(c.Path))
	}
	return t.function("JSON_CONTAINS", args...)
}

func (t *Translator) translateContainsPath(c ContainsPath) (string, []any, error) {
	if len(c.Paths) == 0 {
		return "", nil, fmt.Errorf("JSON_CONTAINS_PATH requires at least one path")
	}
	args := []Expr{c.Target, matchArg(c.Match)}
	for _, p := range c.Paths {
		args = append(args, pathParam(p))
	}
	return t.function("JSON_CONTAINS_PATH", args...)
}

func (t *Translator) translateOverlaps(o Overlaps) (string, []any, error) {
	if t.server != nil && !t.server.SupportsJSONOverlaps() {
		return "", nil, fmt.Errorf("JSON_OVERLAPS on %s: %w", t.server, dialect.ErrUnsupportedServer)
	}
	return t.function("JSON_OVERLAPS", o.Left, o.Right)
}

func (t *Translator) translateSearch(s Search) (string, []any, error) {
	args := []Expr{s.Target, matchArg(s.Match), Param{Value: s.Search}}
	if s.Path != "" {
		args = append(args, nullArg{}, pathParam(s.Path))
	}
	return t.function("JSON_SEARCH", args...)
}

func (t *Translator) withOptionalPath(name string, target Expr, path string) (string, []any, error) {
	if path == "" {
		return t.function(name, target)
	}
	return t.function(name, target, pathParam(path))
}

// function renders name(args...) and collects the bound parameters in order.
func (t *Translator) function(name string, args ...Expr) (string, []any, error) {
	parts := make([]string, 0, len(args))
	var params []any
	for i, arg := range args {
		sql, argParams, err := t.operand(arg)
		if err != nil {
			return "", nil, fmt.Errorf("%s argument %d: %w", name, i+1, err)
		}
		parts = append(parts, sql)
		params = append(params, argParams...)
	}
	return name + "(" + strings.Join(parts, ", ") + ")", params, nil
}

func (t *Translator) operand(e Expr) (string, []any, error) {
	switch op := e.(type) {
	case nil:
		return "", nil, fmt.Errorf("missing operand")
	case Column:
		sql, err := quoteColumn(op.Name)
		return sql, nil, err
	case Param:
		return "?", []any{op.Value}, nil
	case JSONParam:
		return t.jsonOperand(op.Value)
	case path:
		if err := ValidatePath(string(op)); err != nil {
			return "", nil, err
		}
		return "?", []any{string(op)}, nil
	case matchArg:
		return "'" + Match(op).String() + "'", nil, nil
	case nullArg:
		return "NULL", nil, nil
	default:
		return "", nil, fmt.Errorf("unsupported operand type: %T", e)
	}
}

func (t *Translator) jsonOperand(v any) (string, []any, error) {
	if v == nil {
		return "CAST(? AS json)", []any{nil}, nil
	}
	m, ok := t.source.FindForValue(v)
	if !ok {
		return "", nil, fmt.Errorf("no json mapping for %T", v)
	}
	stored, err := m.Converter().ToProvider(v)
	if err != nil {
		return "", nil, err
	}
	return "CAST(? AS json)", []any{stored}, nil
}

func quoteColumn(name string) (string, error) {
	parts := strings.Split(name, ".")
	if len(parts) > 2 {
		return "", fmt.Errorf("invalid column reference %q", name)
	}
	for i, p := range parts {
		if !identPattern.MatchString(p) {
			return "", fmt.Errorf("invalid column reference %q", name)
		}
		parts[i] = "`" + p + "`"
	}
	return strings.Join(parts, "."), nil
}

// internal operands

type path string

func (path) jsonExpr() {}

func pathParam(p string) Expr { return path(p) }

type matchArg Match

func (matchArg) jsonExpr() {}

type nullArg struct{}

func (nullArg) jsonExpr() {}
