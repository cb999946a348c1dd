package commands

import (
	"github.com/spf13/cobra"

	"github.com/erraggy/connectorgen/engine"
	"github.com/erraggy/connectorgen/ir"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	OpenAPI          string
	Mapping          string
	Config           string
	PackageName      string
	OutputPath       string
	SchemaExtraction bool
	TargetVersion    string
	HealthPaths      []string
	Format           string
	Out              string
	Strict           bool
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Assemble the connector IR",
		Long: `Normalize the API description, bind the mapping document to it, classify
every operation and write the assembled IR.

Configuration is read from --config (YAML or JSON) first, then from the
CONNECTORGEN_PACKAGE_NAME, CONNECTORGEN_OUTPUT_PATH,
CONNECTORGEN_SCHEMA_EXTRACTION and CONNECTORGEN_TARGET_VERSION environment
variables; explicit flags win over both.`,
		Example: `  connectorgen generate --openapi openapi.yaml --mapping mapping.yaml
  connectorgen generate --openapi openapi.json --mapping mapping.yaml --format text
  connectorgen generate --openapi openapi.yaml --mapping mapping.yaml --schema-extraction --out ir.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.OpenAPI, "openapi", "", "API description file (OpenAPI 2.0 or 3.x)")
	cmd.Flags().StringVar(&opts.Mapping, "mapping", "", "mapping document file")
	cmd.Flags().StringVar(&opts.Config, "config", "", "configuration file (YAML or JSON)")
	cmd.Flags().StringVar(&opts.PackageName, "package-name", "", "package name of the generated connector")
	cmd.Flags().StringVar(&opts.OutputPath, "output-path", "", "output path recorded in the IR configuration")
	cmd.Flags().BoolVar(&opts.SchemaExtraction, "schema-extraction", false, "derive directory attribute syntaxes")
	cmd.Flags().StringVar(&opts.TargetVersion, "target-version", "", "target version tag recorded in the IR configuration")
	cmd.Flags().StringSliceVar(&opts.HealthPaths, "health-path", nil, "connectivity probe path (repeatable, replaces the defaults)")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", FormatJSON, "output format (json|yaml|text)")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "write output to file instead of stdout")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "validate OpenAPI 3.0 descriptions with kin-openapi first")
	_ = cmd.MarkFlagRequired("openapi")
	_ = cmd.MarkFlagRequired("mapping")

	return cmd
}

func runGenerate(cmd *cobra.Command, opts *GenerateOptions) error {
	if err := ValidateOutputFormat(opts.Format, FormatJSON, FormatYAML, FormatText); err != nil {
		return err
	}

	cfg, err := engine.LoadConfig(opts.Config)
	if err != nil {
		return err
	}
	cfg = opts.apply(cmd, cfg)

	result, err := engine.Run(cmd.Context(), cfg,
		engine.WithSpecFile(opts.OpenAPI),
		engine.WithMappingFile(opts.Mapping),
		engine.WithStrictValidation(opts.Strict),
		engine.WithLogger(opts.logger(cmd)),
	)
	if err != nil {
		return err
	}

	var data []byte
	if opts.Format == FormatText {
		data = []byte(result.Summary())
	} else if data, err = MarshalStructured(result, opts.Format); err != nil {
		return err
	}
	return WriteOutput(cmd, opts.Out, data, opts.OpenAPI, opts.Mapping, opts.Config)
}

// apply layers explicitly set flags over cfg.
func (o *GenerateOptions) apply(cmd *cobra.Command, cfg ir.Config) ir.Config {
	flags := cmd.Flags()
	if flags.Changed("package-name") {
		cfg.PackageName = o.PackageName
	}
	if flags.Changed("output-path") {
		cfg.OutputPath = o.OutputPath
	}
	if flags.Changed("schema-extraction") {
		cfg.SchemaExtraction = o.SchemaExtraction
	}
	if flags.Changed("target-version") {
		cfg.TargetVersionTag = o.TargetVersion
	}
	if flags.Changed("health-path") {
		cfg.HealthPaths = o.HealthPaths
	}
	return cfg
}
