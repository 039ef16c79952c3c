// Package jsonsql translates JSON member calls into parameterized MySQL SQL.
//
// Operands are columns, scalar parameters or JSON parameters. Values and paths
// are always bound as placeholders and never interpolated into the SQL text.
// JSON parameters are serialized through the mapping Source's converters and
// bound as CAST(? AS json).
package jsonsql

// Expr is an operand of a JSON function.
type Expr interface {
	jsonExpr() // sealed
}

// Column references a table column, optionally qualified as "table.column".
type Column struct {
	Name string
}

func (Column) jsonExpr() {}

// Param binds a scalar value.
type Param struct {
	Value any
}

func (Param) jsonExpr() {}

// JSONParam binds a JSON model value (document, element, text or POCO).
type JSONParam struct {
	Value any
}

func (JSONParam) jsonExpr() {}

// Call is a JSON member call the translator knows how to render.
type Call interface {
	jsonCall() // sealed
}

// Match selects between the 'one' and 'all' forms of path functions.
type Match int

const (
	MatchOne Match = iota
	MatchAll
)

func (m Match) String() string {
	if m == MatchAll {
		return "all"
	}
	return "one"
}

// Extract is JSON_EXTRACT(target, paths...). With Unquote set and exactly one
// path it renders JSON_UNQUOTE(JSON_EXTRACT(...)).
type Extract struct {
	Target  Expr
	Paths   []string
	Unquote bool
}

// Contains is JSON_CONTAINS(target, candidate[, path]).
type Contains struct {
	Target    Expr
	Candidate Expr
	Path      string
}

// ContainsPath is JSON_CONTAINS_PATH(target, 'one'|'all', paths...).
type ContainsPath struct {
	Target Expr
	Match  Match
	Paths  []string
}

// Overlaps is JSON_OVERLAPS(left, right). Requires MySQL 8.0.17.
type Overlaps struct {
	Left  Expr
	Right Expr
}

// Search is JSON_SEARCH(target, 'one'|'all', search[, NULL, path]).
type Search struct {
	Target Expr
	Match  Match
	Search string
	Path   string
}

// Type is JSON_TYPE(target).
type Type struct {
	Target Expr
}

// Length is JSON_LENGTH(target[, path]).
type Length struct {
	Target Expr
	Path   string
}

// Keys is JSON_KEYS(target[, path]).
type Keys struct {
	Target Expr
	Path   string
}

// Valid is JSON_VALID(target).
type Valid struct {
	Target Expr
}

// Quote is JSON_QUOTE(value).
type Quote struct {
	Value Expr
}

func (Extract) jsonCall()      {}
func (Contains) jsonCall()     {}
func (ContainsPath) jsonCall() {}
func (Overlaps) jsonCall()     {}
func (Search) jsonCall()       {}
func (Type) jsonCall()         {}
func (Length) jsonCall()       {}
func (Keys) jsonCall()         {}
func (Valid) jsonCall()        {}
func (Quote) jsonCall()        {}
