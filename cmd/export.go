// Package cmd: export command.
// Runs pens through the render and write stages:
// fetch pen → render → write.
//
// It handles flag validation, renderer selection, and the --only / --all modes.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/penpipe/core"
	"github.com/gaurav-prasanna/penpipe/core/output"
	"github.com/gaurav-prasanna/penpipe/core/pen"
	"github.com/gaurav-prasanna/penpipe/core/render"
)

// Flag variables.
var (
	flagOnly      bool
	flagAll       bool
	flagPDF       bool
	flagMarkdown  bool
	flagJSON      bool
	flagOutputDir string
	flagMaxPages  int
)

var exportCmd = &cobra.Command{
	Use:   "export <pen | page-url>",
	Short: "Export a pen to JSON, Markdown or PDF",
	Long: `Export fetches a pen's full source and writes it as JSON (the get_pen
document), Markdown or PDF.

With --all the argument is any web page instead: every pen it links or embeds
is exported, grouped by author.

Examples:
  penpipe export johndjameson/pen/DwxMqa --markdown
  penpipe export https://codepen.io/johndjameson/pen/DwxMqa --json --output_dir ./out
  penpipe export https://example.com/blog/my-favourite-pens --all --pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	// Mode flags.
	exportCmd.Flags().BoolVar(&flagOnly, "only", false, "Export only the given pen (default)")
	exportCmd.Flags().BoolVar(&flagAll, "all", false, "Export every pen found in the given page")
	exportCmd.Flags().IntVar(&flagMaxPages, "max_pages", 1, "Pages to crawl on the page's host with --all")

	// Output format flags (mutually exclusive).
	exportCmd.Flags().BoolVar(&flagPDF, "pdf", false, "Output PDF")
	exportCmd.Flags().BoolVar(&flagMarkdown, "markdown", false, "Output Markdown")
	exportCmd.Flags().BoolVar(&flagJSON, "json", false, "Output JSON")

	exportCmd.Flags().StringVar(&flagOutputDir, "output_dir", "", "Output directory (default: current directory)")
}

func runExport(cmd *cobra.Command, args []string) error {
	if err := validateFlags(); err != nil {
		return err
	}

	renderer, err := selectRenderer()
	if err != nil {
		return err
	}

	writer, err := output.New(flagOutputDir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	client := newClient()
	if flagAll {
		return runAll(cmd, args[0], client, renderer, writer)
	}
	return runOnly(cmd, args[0], client, renderer, writer)
}

// runOnly exports a single pen.
func runOnly(cmd *cobra.Command, ref string, client *pen.Client, renderer core.Renderer, writer *output.Writer) error {
	penURL, data, err := processPen(cmd.Context(), ref, client, renderer)
	if err != nil {
		return err
	}

	path, err := writer.WriteOnly(penURL, data, renderer.Extension())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Written: %s\n", path)
	return nil
}

// runAll discovers the pens in a page and exports each one. A failing pen is
// reported and skipped.
func runAll(cmd *cobra.Command, pageURL string, client *pen.Client, renderer core.Renderer, writer *output.Writer) error {
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	fmt.Fprintf(out, "Discovering pens in %s...\n", pageURL)

	pens, err := client.Discover(cmd.Context(), pageURL, flagMaxPages)
	if err != nil {
		return fmt.Errorf("discovering pens: %w", err)
	}

	fmt.Fprintf(out, "Found %d pens to export\n", len(pens))

	var errCount int
	for i, penURL := range pens {
		fmt.Fprintf(out, "[%d/%d] Exporting %s\n", i+1, len(pens), penURL)

		_, data, err := processPen(cmd.Context(), penURL, client, renderer)
		if err != nil {
			fmt.Fprintf(errOut, "  ✗ Error: %v\n", err)
			logger.Warn("export failed", "pen_url", penURL, "kind", core.KindOf(err), "error", err)
			errCount++
			continue
		}

		path, err := writer.WriteAll(penURL, data, renderer.Extension())
		if err != nil {
			fmt.Fprintf(errOut, "  ✗ Write error: %v\n", err)
			errCount++
			continue
		}
		fmt.Fprintf(out, "  ✓ Written: %s\n", path)
	}

	if errCount > 0 {
		fmt.Fprintf(errOut, "\n%d/%d pens failed\n", errCount, len(pens))
	}
	return nil
}

// processPen fetches one pen and renders it.
func processPen(ctx context.Context, ref string, client *pen.Client, renderer core.Renderer) (string, []byte, error) {
	p, err := client.Pen(ctx, ref)
	if err != nil {
		return "", nil, err
	}

	data, err := renderer.Render(p)
	if err != nil {
		return "", nil, fmt.Errorf("render: %w", err)
	}
	return p.PenURL, data, nil
}

// validateFlags checks that exactly one output format is chosen and
// that --only and --all are not both specified.
func validateFlags() error {
	if flagOnly && flagAll {
		return fmt.Errorf("--only and --all are mutually exclusive")
	}

	formatCount := 0
	for _, set := range []bool{flagPDF, flagMarkdown, flagJSON} {
		if set {
			formatCount++
		}
	}

	if formatCount == 0 {
		return fmt.Errorf("exactly one output format is required: --pdf, --markdown, or --json")
	}
	if formatCount > 1 {
		return fmt.Errorf("only one output format allowed per run (got %d)", formatCount)
	}
	return nil
}

// selectRenderer creates the appropriate Renderer based on flags.
func selectRenderer() (core.Renderer, error) {
	switch {
	case flagMarkdown:
		return render.NewMarkdownRenderer(), nil
	case flagJSON:
		return render.NewJSONRenderer(), nil
	case flagPDF:
		return render.NewPDFRenderer(), nil
	default:
		return nil, fmt.Errorf("no output format selected")
	}
}
