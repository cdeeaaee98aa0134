package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"
)

var flagHeight int

var metadataCmd = &cobra.Command{
	Use:   "metadata <pen>",
	Short: "Print a pen's oEmbed metadata (get_pen_metadata)",
	Example: `  penpipe metadata https://codepen.io/johndjameson/pen/DwxMqa
  penpipe metadata johndjameson/pen/DwxMqa`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTool(cmd, "get_pen_metadata", map[string]any{"pen_url": args[0]})
	},
}

var embedCmd = &cobra.Command{
	Use:     "embed <pen>",
	Short:   "Print a pen's embed HTML (get_pen_embed_html)",
	Example: `  penpipe embed johndjameson/pen/DwxMqa --height 500`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		toolArgs := map[string]any{"pen_url": args[0]}
		if cmd.Flags().Changed("height") {
			toolArgs["height"] = flagHeight
		}
		return runTool(cmd, "get_pen_embed_html", toolArgs)
	},
}

var penCmd = &cobra.Command{
	Use:     "pen <pen>",
	Short:   "Print a pen's full source (get_pen)",
	Example: `  penpipe pen johndjameson/pen/DwxMqa`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTool(cmd, "get_pen", map[string]any{"pen_url": args[0]})
	},
}

var normalizeCmd = &cobra.Command{
	Use:   "normalize <pen>",
	Short: "Print the canonical URL of a pen reference",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		penURL, err := newClient().Normalize(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), penURL)
		return nil
	},
}

func init() {
	embedCmd.Flags().IntVar(&flagHeight, "height", 0, "iframe height in pixels (default from oEmbed)")

	rootCmd.AddCommand(metadataCmd, embedCmd, penCmd, normalizeCmd)
}

// runTool calls the named tool in-process and prints its text. A tool
// failure is returned as an error carrying the tool's message.
func runTool(cmd *cobra.Command, name string, args map[string]any) error {
	res, err := newServer().Call(cmd.Context(), name, args)
	if err != nil {
		return err
	}

	var parts []string
	for _, c := range res.Content {
		if text, ok := mcp.AsTextContent(c); ok {
			parts = append(parts, text.Text)
		}
	}
	text := strings.Join(parts, "\n")

	if res.IsError {
		return errors.New(strings.TrimPrefix(text, "Error: "))
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}
