package provider

import (
	"fmt"

	"github.com/roach88/mysqljson/internal/mapping"
)

// CodeGenerator renders values as Go source and SQL literals.
type CodeGenerator struct {
	source *mapping.Source
}

// Literal returns the Go expression that rebuilds v.
// nil renders as "nil"; values without a json mapping are an error.
func (g *CodeGenerator) Literal(v any) (string, error) {
	if v == nil {
		return "nil", nil
	}
	m, err := g.mappingFor(v)
	if err != nil {
		return "", err
	}
	return m.GenerateCodeLiteral(v)
}

// SQLLiteral returns the SQL literal for v.
func (g *CodeGenerator) SQLLiteral(v any) (string, error) {
	if v == nil {
		return "NULL", nil
	}
	m, err := g.mappingFor(v)
	if err != nil {
		return "", err
	}
	return m.GenerateSQLLiteral(v)
}

func (g *CodeGenerator) mappingFor(v any) (*mapping.TypeMapping, error) {
	m, ok := g.source.FindForValue(v)
	if !ok {
		return nil, fmt.Errorf("no json mapping for %T", v)
	}
	return m, nil
}
