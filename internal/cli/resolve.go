package cli

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/mysqljson/internal/jsondom"
	"github.com/roach88/mysqljson/internal/mapping"
	"github.com/roach88/mysqljson/internal/provider"
)

// valueTypes are the model types commands accept by name.
var valueTypes = map[string]reflect.Type{
	"document": reflect.TypeFor[*jsondom.Document](),
	"element":  reflect.TypeFor[jsondom.Value](),
	"text":     reflect.TypeFor[string](),
	"object":   reflect.TypeFor[map[string]any](),
	"array":    reflect.TypeFor[[]any](),
}

func valueTypeNames() []string {
	names := make([]string, 0, len(valueTypes))
	for name := range valueTypes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ResolveResult describes the mapping chosen for a type.
type ResolveResult struct {
	Type           string `json:"type"`
	GoType         string `json:"go_type"`
	StoreType      string `json:"store_type"`
	DbType         string `json:"db_type"`
	Kind           string `json:"kind"`
	ProviderType   string `json:"provider_type"`
	ChangeTracking string `json:"change_tracking"`
	Library        string `json:"library"`
}

func (r ResolveResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "type:            %s (%s)\n", r.Type, r.GoType)
	fmt.Fprintf(&b, "store type:      %s\n", r.StoreType)
	fmt.Fprintf(&b, "db type:         %s\n", r.DbType)
	fmt.Fprintf(&b, "kind:            %s\n", r.Kind)
	fmt.Fprintf(&b, "provider type:   %s\n", r.ProviderType)
	fmt.Fprintf(&b, "change tracking: %s\n", r.ChangeTracking)
	fmt.Fprintf(&b, "library:         %s", r.Library)
	return b.String()
}

// NewResolveCommand creates the resolve command.
func NewResolveCommand(rootOpts *RootOptions) *cobra.Command {
	var typeName string

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Show the json mapping for a model type",
		Long: `Resolve a model type against the json store type and print the
mapping the provider would use: kind, provider representation and the
change tracking mode of its comparer.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(rootOpts, typeName, cmd)
		},
	}

	cmd.Flags().StringVarP(&typeName, "type", "t", "document", "model type ("+strings.Join(valueTypeNames(), "|")+")")

	return cmd
}

func runResolve(opts *RootOptions, typeName string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)

	typ, ok := valueTypes[typeName]
	if !ok {
		return f.Fail(ExitCommandError, ErrCodeUnknownType,
			fmt.Sprintf("unknown type %q: must be one of %v", typeName, valueTypeNames()), nil)
	}

	s, err := servicesOrFail(opts, f)
	if err != nil {
		return err
	}

	m, err := mappingFor(s, typeName, typ, f)
	if err != nil {
		return err
	}

	return f.Success(ResolveResult{
		Type:           typeName,
		GoType:         typ.String(),
		StoreType:      m.StoreType(),
		DbType:         m.DbType().String(),
		Kind:           m.Kind().String(),
		ProviderType:   m.Converter().ProviderType().String(),
		ChangeTracking: m.Comparer().Options().String(),
		Library:        s.Library().Name(),
	})
}

func mappingFor(s *provider.Services, name string, typ reflect.Type, f *OutputFormatter) (*mapping.TypeMapping, error) {
	m, ok := s.Source().FindMapping(mapping.MappingInfo{Type: typ, StoreType: mapping.StoreType})
	if !ok {
		return nil, f.Fail(ExitCommandError, ErrCodeUnknownType, fmt.Sprintf("no json mapping for %s", name), nil)
	}
	return m, nil
}
