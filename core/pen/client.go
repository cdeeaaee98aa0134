// Package pen wires the pipeline stages into the three read operations the
// tool surface and the CLI expose.
package pen

import (
	"context"
	"encoding/json"

	"github.com/gaurav-prasanna/penpipe/core"
	"github.com/gaurav-prasanna/penpipe/core/extract"
	"github.com/gaurav-prasanna/penpipe/core/fetch"
	"github.com/gaurav-prasanna/penpipe/core/normalize"
	"github.com/gaurav-prasanna/penpipe/core/oembed"
	"github.com/gaurav-prasanna/penpipe/crawl"
)

// Metadata is the get_pen_metadata payload.
type Metadata struct {
	PenURL       string          `json:"pen_url"`
	Title        string          `json:"title"`
	AuthorName   string          `json:"author_name"`
	AuthorURL    string          `json:"author_url"`
	ThumbnailURL string          `json:"thumbnail_url,omitempty"`
	Height       json.RawMessage `json:"height,omitempty"`
	Width        json.RawMessage `json:"width,omitempty"`
	EmbedHTML    string          `json:"embed_html"`
}

// Embed is the get_pen_embed_html payload.
type Embed struct {
	PenURL    string `json:"pen_url"`
	Title     string `json:"title"`
	EmbedHTML string `json:"embed_html"`
}

// Client runs the pen operations. It holds no mutable state and is safe for
// concurrent use.
type Client struct {
	normalizer *normalize.PenNormalizer
	fetcher    core.Fetcher
	metadata   core.MetadataFetcher
	pens       core.PenFetcher
}

// New builds a Client for cfg. A zero field in cfg takes its default.
func New(cfg core.Config) *Client {
	def := core.DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.OEmbedURL == "" {
		cfg.OEmbedURL = def.OEmbedURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}

	fetcher := fetch.New(
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithTimeout(cfg.Timeout),
	)
	normalizer := normalize.New(cfg.BaseURL)

	return &Client{
		normalizer: normalizer,
		fetcher:    fetcher,
		metadata:   oembed.New(fetcher, cfg.OEmbedURL),
		pens:       extract.NewScraper(normalizer, fetcher, extract.New()),
	}
}

// NewWithStages builds a Client from explicit stages.
func NewWithStages(normalizer *normalize.PenNormalizer, fetcher core.Fetcher, metadata core.MetadataFetcher, pens core.PenFetcher) *Client {
	return &Client{normalizer: normalizer, fetcher: fetcher, metadata: metadata, pens: pens}
}

// Normalize returns the canonical pen URL for ref.
func (c *Client) Normalize(ref string) (string, error) {
	return c.normalizer.Normalize(ref)
}

// Metadata normalizes ref and fetches its oEmbed metadata.
func (c *Client) Metadata(ctx context.Context, ref string) (*Metadata, error) {
	penURL, meta, err := c.fetchMetadata(ctx, ref, core.MetadataOptions{})
	if err != nil {
		return nil, err
	}
	return &Metadata{
		PenURL:       penURL,
		Title:        meta.Title,
		AuthorName:   meta.AuthorName,
		AuthorURL:    meta.AuthorURL,
		ThumbnailURL: meta.ThumbnailURL,
		Height:       meta.Height,
		Width:        meta.Width,
		EmbedHTML:    meta.HTML,
	}, nil
}

// Embed normalizes ref and fetches its embed HTML, optionally at height pixels.
func (c *Client) Embed(ctx context.Context, ref string, height *int) (*Embed, error) {
	penURL, meta, err := c.fetchMetadata(ctx, ref, core.MetadataOptions{Height: height})
	if err != nil {
		return nil, err
	}
	return &Embed{PenURL: penURL, Title: meta.Title, EmbedHTML: meta.HTML}, nil
}

// Pen fetches the full pen behind ref.
func (c *Client) Pen(ctx context.Context, ref string) (*core.Pen, error) {
	return c.pens.FetchPen(ctx, ref)
}

// Discover returns the canonical URLs of the pens linked or embedded in the
// page at pageURL, crawling up to maxPages same-host pages.
func (c *Client) Discover(ctx context.Context, pageURL string, maxPages int) ([]string, error) {
	return crawl.DiscoverPens(ctx, pageURL, maxPages, c.fetcher, c.normalizer)
}

func (c *Client) fetchMetadata(ctx context.Context, ref string, opts core.MetadataOptions) (string, *core.EmbedMetadata, error) {
	penURL, err := c.normalizer.Normalize(ref)
	if err != nil {
		return "", nil, err
	}
	meta, err := c.metadata.FetchMetadata(ctx, penURL, opts)
	if err != nil {
		return "", nil, err
	}
	return penURL, meta, nil
}
