package commands

import (
	"github.com/spf13/cobra"

	"github.com/erraggy/connectorgen"
)

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	var build bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			if build {
				Writef(cmd.OutOrStdout(), "%s\n", connectorgen.BuildInfo())
				return
			}
			Writef(cmd.OutOrStdout(), "%s\n", connectorgen.UserAgent())
		},
	}
	cmd.Flags().BoolVar(&build, "build", false, "print full build metadata")
	return cmd
}
