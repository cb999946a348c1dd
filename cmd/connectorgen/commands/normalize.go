package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/erraggy/connectorgen/classifier"
	"github.com/erraggy/connectorgen/normalizer"
)

// NormalizeOptions holds flags for the normalize command.
type NormalizeOptions struct {
	*RootOptions
	OpenAPI     string
	HealthPaths []string
	Format      string
	Out         string
	Strict      bool
}

// NewNormalizeCommand creates the normalize command.
func NewNormalizeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NormalizeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Normalize an API description and classify its operations",
		Long: `Normalize an OpenAPI 2.0 or 3.x description into the reference-free schema
graph the generator works on. The text format lists every operation with the
category it is classified as; json and yaml emit the full graph.`,
		Example: `  connectorgen normalize --openapi openapi.yaml
  connectorgen normalize --openapi swagger.json --format json --out graph.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runNormalize(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.OpenAPI, "openapi", "", "API description file (OpenAPI 2.0 or 3.x)")
	cmd.Flags().StringSliceVar(&opts.HealthPaths, "health-path", nil, "connectivity probe path (repeatable, replaces the defaults)")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", FormatText, "output format (text|json|yaml)")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "write output to file instead of stdout")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "validate OpenAPI 3.0 descriptions with kin-openapi first")
	_ = cmd.MarkFlagRequired("openapi")

	return cmd
}

func runNormalize(cmd *cobra.Command, opts *NormalizeOptions) error {
	if err := ValidateOutputFormat(opts.Format, FormatText, FormatJSON, FormatYAML); err != nil {
		return err
	}

	graph, err := normalizer.NormalizeWithOptions(
		normalizer.WithFilePath(opts.OpenAPI),
		normalizer.WithStrictValidation(opts.Strict),
		normalizer.WithLogger(opts.logger(cmd)),
	)
	if err != nil {
		return err
	}

	var data []byte
	if opts.Format == FormatText {
		data = []byte(graphText(graph, classifier.New(graph, classifier.WithProbePaths(opts.HealthPaths...))))
	} else if data, err = MarshalStructured(graph, opts.Format); err != nil {
		return err
	}
	return WriteOutput(cmd, opts.Out, data, opts.OpenAPI)
}

func graphText(g *normalizer.SchemaGraph, cl *classifier.Classifier) string {
	var b strings.Builder
	title := g.Title
	if title == "" {
		title = "(untitled API)"
	}
	fmt.Fprintf(&b, "%s (%s %s)\n", title, g.Dialect, g.Version)

	names := make([]string, 0, len(g.Components))
	for name := range g.Components {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintf(&b, "schemas: %s\n", strings.Join(names, ", "))

	b.WriteString("operations:\n")
	for _, c := range cl.ClassifyAll() {
		key := classifier.Key{Category: c.Category, Scope: c.Scope}
		fmt.Fprintf(&b, "  %s %s %s -> %s (%s)\n", c.Operation.Method, c.Operation.Path, c.Operation.ID, key, c.Reason)
	}
	if op, ok := cl.TestConnect(); ok {
		fmt.Fprintf(&b, "test connect: %s\n", op.ID)
	}
	for _, w := range g.Warnings {
		fmt.Fprintf(&b, "%s\n", w)
	}
	return b.String()
}
