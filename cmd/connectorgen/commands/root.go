// Package commands provides the cobra commands of the connectorgen CLI.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/erraggy/connectorgen/engine"
	"github.com/erraggy/connectorgen/internal/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
}

// NewRootCommand creates the root command for the connectorgen CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "connectorgen",
		Short: "Plan directory connectors from OpenAPI descriptions",
		Long: `connectorgen reads an OpenAPI 2.0 or 3.x description and a mapping document
that declares directory object classes and attributes, binds them to the API's
schemas, classifies every operation and emits a connector IR: for each object
class the operations implementing search, create, update and delete, plus the
connection properties and the connectivity probe.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log debug records to stderr")

	cmd.AddCommand(NewGenerateCommand(opts))
	cmd.AddCommand(NewNormalizeCommand(opts))
	cmd.AddCommand(NewFilterCommand(opts))
	cmd.AddCommand(NewMCPCommand())
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// logger returns the stderr logger for a command run.
func (o *RootOptions) logger(cmd *cobra.Command) engine.Logger {
	return logging.NewText(cmd.ErrOrStderr(), o.Verbose)
}
