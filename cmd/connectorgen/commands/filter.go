package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/erraggy/connectorgen/engine"
	"github.com/erraggy/connectorgen/filter"
	"github.com/erraggy/connectorgen/internal/issues"
)

// FilterOptions holds flags for the filter command.
type FilterOptions struct {
	*RootOptions
	OpenAPI string
	Mapping string
	Class   string
	Format  string
}

// FilterResult is the structured output of the filter command.
type FilterResult struct {
	Class       string            `json:"class"`
	Complete    bool              `json:"complete"`
	Params      map[string]string `json:"params"`
	Unsupported []string          `json:"unsupported,omitempty"`
	Diagnostics []issues.Issue    `json:"diagnostics,omitempty"`
}

// NewFilterCommand creates the filter command.
func NewFilterCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FilterOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "filter <rfc4515-filter>",
		Short: "Translate a directory filter into API query parameters",
		Long: `Translate an RFC 4515 filter into query parameters using the attribute
bindings of one object class. Parts of the filter without a lossless
translation are listed as unsupported.`,
		Example: `  connectorgen filter --openapi openapi.yaml --mapping mapping.yaml --class Users '(&(cn=Bob)(age>=30))'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilter(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.OpenAPI, "openapi", "", "API description file (OpenAPI 2.0 or 3.x)")
	cmd.Flags().StringVar(&opts.Mapping, "mapping", "", "mapping document file")
	cmd.Flags().StringVar(&opts.Class, "class", "", "object class whose bindings translate the filter")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", FormatText, "output format (text|json|yaml)")
	_ = cmd.MarkFlagRequired("openapi")
	_ = cmd.MarkFlagRequired("mapping")
	_ = cmd.MarkFlagRequired("class")

	return cmd
}

func runFilter(cmd *cobra.Command, opts *FilterOptions, text string) error {
	if err := ValidateOutputFormat(opts.Format, FormatText, FormatJSON, FormatYAML); err != nil {
		return err
	}
	node, err := filter.Parse(text)
	if err != nil {
		return err
	}

	_, bound, err := engine.Bind(cmd.Context(),
		engine.WithSpecFile(opts.OpenAPI),
		engine.WithMappingFile(opts.Mapping),
		engine.WithLogger(opts.logger(cmd)),
	)
	if err != nil {
		return err
	}
	oc, ok := bound.Class(opts.Class)
	if !ok {
		return fmt.Errorf("object class %q is not declared in %s", opts.Class, opts.Mapping)
	}

	q := filter.Compile(node, oc)
	result := FilterResult{
		Class:       oc.Name,
		Complete:    q.Complete(),
		Params:      q.Params,
		Diagnostics: q.Diagnostics,
	}
	for _, n := range q.Unsupported {
		result.Unsupported = append(result.Unsupported, n.String())
	}

	if opts.Format != FormatText {
		data, err := MarshalStructured(result, opts.Format)
		if err != nil {
			return err
		}
		return WriteOutput(cmd, "", data)
	}

	w := cmd.OutOrStdout()
	names := make([]string, 0, len(result.Params))
	for name := range result.Params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		Writef(w, "%s=%s\n", name, result.Params[name])
	}
	if len(result.Unsupported) > 0 {
		Writef(w, "unsupported: %s\n", strings.Join(result.Unsupported, " "))
	}
	for _, d := range result.Diagnostics {
		Writef(w, "%s\n", d)
	}
	return nil
}
