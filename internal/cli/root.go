package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/mysqljson/internal/config"
	"github.com/roach88/mysqljson/internal/provider"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Library string // overrides the config file when set
	Config  string // path to a YAML options file
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the mysqljson CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "mysqljson",
		Short: "MySQL JSON type mapping tools",
		Long:  "Inspect how Go values map to MySQL json columns: resolve mappings, render literals, compare values and generate DDL.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Library, "library", "", "json library (std|goccy), overrides --config")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "YAML provider options file")

	cmd.AddCommand(NewResolveCommand(opts))
	cmd.AddCommand(NewLiteralCommand(opts))
	cmd.AddCommand(NewCompareCommand(opts))
	cmd.AddCommand(NewDDLCommand(opts))

	return cmd
}

// loadServices builds the provider from --config and --library.
func loadServices(opts *RootOptions) (*provider.Services, error) {
	cfg := config.Default()
	if opts.Config != "" {
		loaded, err := config.Load(opts.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if opts.Library != "" {
		cfg.Library = opts.Library
	}
	return provider.New(cfg)
}

// servicesOrFail reports a configuration error through the formatter.
func servicesOrFail(opts *RootOptions, f *OutputFormatter) (*provider.Services, error) {
	s, err := loadServices(opts)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeConfig, err.Error(), nil)
	}
	f.VerboseLog("library=%s storage=%s change_tracking=%s",
		s.Library().Name(), s.StorageKind(), s.ChangeTracking())
	return s, nil
}
