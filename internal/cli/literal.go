package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/mysqljson/internal/mapping"
	"github.com/roach88/mysqljson/internal/provider"
)

// LiteralResult holds the generated literals for one value.
type LiteralResult struct {
	Type string `json:"type"`
	Code string `json:"code,omitempty"`
	SQL  string `json:"sql,omitempty"`
}

func (r LiteralResult) String() string {
	switch {
	case r.Code != "" && r.SQL != "":
		return fmt.Sprintf("go:  %s\nsql: %s", r.Code, r.SQL)
	case r.SQL != "":
		return r.SQL
	default:
		return r.Code
	}
}

// NewLiteralCommand creates the literal command.
func NewLiteralCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		as      string
		withSQL bool
		sqlOnly bool
	)

	cmd := &cobra.Command{
		Use:   "literal <json>",
		Short: "Render a JSON value as a Go and SQL literal",
		Long: `Parse a JSON value as the given model type and print the Go
expression that rebuilds it. Object and array values have no Go literal;
use --sql-only for those.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLiteral(rootOpts, args[0], as, withSQL || sqlOnly, !sqlOnly, cmd)
		},
	}

	cmd.Flags().StringVar(&as, "as", "document", "model type of the value")
	cmd.Flags().BoolVar(&withSQL, "sql", false, "also print the SQL literal")
	cmd.Flags().BoolVar(&sqlOnly, "sql-only", false, "print only the SQL literal")

	return cmd
}

func runLiteral(opts *RootOptions, text, as string, withSQL, withCode bool, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)

	s, err := servicesOrFail(opts, f)
	if err != nil {
		return err
	}
	v, err := parseValue(s, as, text, f)
	if err != nil {
		return err
	}

	result := LiteralResult{Type: as}
	if withCode {
		code, err := s.CodeGenerator().Literal(v)
		if err != nil {
			if errors.Is(err, mapping.ErrLiteralNotSupported) {
				return f.Fail(ExitCommandError, ErrCodeLiteral,
					fmt.Sprintf("%s values have no Go literal", as), nil)
			}
			return f.Fail(ExitCommandError, ErrCodeLiteral, err.Error(), nil)
		}
		result.Code = code
	}
	if withSQL {
		lit, err := s.CodeGenerator().SQLLiteral(v)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeLiteral, err.Error(), nil)
		}
		result.SQL = lit
	}

	return f.Success(result)
}

// parseValue reads text as the model type named by as, through the mapping's converter.
func parseValue(s *provider.Services, as, text string, f *OutputFormatter) (any, error) {
	typ, ok := valueTypes[as]
	if !ok {
		return nil, f.Fail(ExitCommandError, ErrCodeUnknownType,
			fmt.Sprintf("unknown type %q: must be one of %v", as, valueTypeNames()), nil)
	}
	if !s.Library().Valid([]byte(text)) {
		return nil, f.Fail(ExitCommandError, ErrCodeInvalidJSON, fmt.Sprintf("not valid JSON: %q", text), nil)
	}

	m, err := mappingFor(s, as, typ, f)
	if err != nil {
		return nil, err
	}
	v, err := m.Converter().FromProvider(text)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeInvalidJSON, err.Error(), nil)
	}
	return v, nil
}
