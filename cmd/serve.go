package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server on stdio",
	Long: `Serve speaks the Model Context Protocol on stdin/stdout and exposes the
get_pen_metadata, get_pen and get_pen_embed_html tools. Logs and traces go
to stderr.

Example MCP client configuration:
  {"command": "penpipe", "args": ["serve"]}`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return newServer().Serve(cmd.Context(), os.Stdin, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
