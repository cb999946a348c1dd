package commands

import (
	"github.com/spf13/cobra"

	"github.com/erraggy/connectorgen/internal/mcpserver"
)

// NewMCPCommand creates the mcp command.
func NewMCPCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the generator as MCP tools over stdio",
		Long: `Start a Model Context Protocol server on stdin/stdout exposing the
generate_ir, normalize_spec and compile_filter tools. Defaults are read from
CONNECTORGEN_* environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return mcpserver.Run(cmd.Context())
		},
	}
}
