package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gaurav-prasanna/penpipe/core/pen"
)

var (
	flagWithMetadata bool
	flagConcurrency  int
)

var discoverCmd = &cobra.Command{
	Use:   "discover <page-url>",
	Short: "List the pens a web page links or embeds",
	Long: `Discover fetches a page and prints the canonical URL of every pen it links
to or embeds, one per line. With --max_pages above 1, same-host links are
followed breadth-first.

With --metadata, the oEmbed metadata of every pen is fetched (up to
--concurrency requests at a time) and printed as a JSON array instead.`,
	Example: `  penpipe discover https://example.com/blog/my-favourite-pens
  penpipe discover https://example.com/blog --max_pages 20 --metadata`,
	Args: cobra.ExactArgs(1),
	RunE: runDiscover,
}

func init() {
	rootCmd.AddCommand(discoverCmd)

	discoverCmd.Flags().BoolVar(&flagWithMetadata, "metadata", false, "Print oEmbed metadata for each pen as JSON")
	discoverCmd.Flags().IntVar(&flagConcurrency, "concurrency", 4, "Parallel metadata requests with --metadata")
	discoverCmd.Flags().IntVar(&flagMaxPages, "max_pages", 1, "Pages to crawl on the page's host")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	client := newClient()

	pens, err := client.Discover(cmd.Context(), args[0], flagMaxPages)
	if err != nil {
		return err
	}
	logger.Debug("discovered pens", "page", args[0], "count", len(pens))

	out := cmd.OutOrStdout()
	if !flagWithMetadata {
		for _, penURL := range pens {
			fmt.Fprintln(out, penURL)
		}
		return nil
	}

	metas := make([]*pen.Metadata, len(pens))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(max(flagConcurrency, 1))
	for i, penURL := range pens {
		g.Go(func() error {
			meta, err := client.Metadata(ctx, penURL)
			if err != nil {
				return fmt.Errorf("%s: %w", penURL, err)
			}
			metas[i] = meta
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(metas, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	fmt.Fprintln(out, string(data))
	return nil
}
