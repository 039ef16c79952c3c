package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/mysqljson/internal/modelspec"
	"github.com/roach88/mysqljson/internal/store"
)

// DDLResult holds the generated statements in entity declaration order.
type DDLResult struct {
	Dialect    string      `json:"dialect"`
	Statements []Statement `json:"statements"`
}

// Statement is the CREATE TABLE for one entity.
type Statement struct {
	Entity string `json:"entity"`
	SQL    string `json:"sql"`
}

func (r DDLResult) String() string {
	parts := make([]string, 0, len(r.Statements))
	for _, s := range r.Statements {
		parts = append(parts, s.SQL+";")
	}
	return strings.Join(parts, "\n\n")
}

// NewDDLCommand creates the ddl command.
func NewDDLCommand(rootOpts *RootOptions) *cobra.Command {
	var dialect string

	cmd := &cobra.Command{
		Use:   "ddl <model-dir>",
		Short: "Generate CREATE TABLE statements from CUE models",
		Long: `Load the CUE entity definitions in a directory and print a
CREATE TABLE statement per entity. JSON properties get the json column type.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDDL(rootOpts, args[0], dialect, cmd)
		},
	}

	cmd.Flags().StringVarP(&dialect, "dialect", "d", "mysql", "SQL dialect (mysql|sqlite)")

	return cmd
}

func runDDL(opts *RootOptions, dir, dialectName string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)

	d, err := store.ParseDialect(dialectName)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeInvalidFlag, err.Error(), nil)
	}

	s, err := servicesOrFail(opts, f)
	if err != nil {
		return err
	}

	m := s.NewModel()
	res, err := modelspec.LoadDir(dir, m)
	if err != nil {
		var loadErr *modelspec.LoadError
		if errors.As(err, &loadErr) {
			return f.Fail(loadExitCode(loadErr.Code), loadErr.Code, loadErr.Message, nil)
		}
		return f.Fail(ExitCommandError, modelspec.ErrCodeGeneric, err.Error(), nil)
	}
	f.VerboseLog("Found %d CUE file(s) in %s", res.FileCount, dir)

	result := DDLResult{Dialect: d.String()}
	for _, e := range m.Entities() {
		sql, err := store.CreateTableSQL(e, d)
		if err != nil {
			return f.Fail(ExitFailure, ErrCodeDDLFailed, fmt.Sprintf("entity %s: %v", e.Name(), err), nil)
		}
		result.Statements = append(result.Statements, Statement{Entity: e.Name(), SQL: sql})
	}

	return f.Success(result)
}

// loadExitCode maps model errors (E2xx) to a validation failure and
// everything else to a command error.
func loadExitCode(code string) int {
	if strings.HasPrefix(code, "E2") {
		return ExitFailure
	}
	return ExitCommandError
}
