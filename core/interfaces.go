// Package core defines the pipeline types and interfaces for penpipe.
// Each stage of the pipeline is a clean, testable interface.
package core

import (
	"context"
	"encoding/json"
)

// FetchResult holds the raw body and response metadata from a fetch.
// Non-2xx responses are returned as results, not errors, so callers can
// build their own messages from the status and body.
type FetchResult struct {
	URL        string
	StatusCode int
	Status     string // reason phrase only, e.g. "Not Found"
	Body       string
}

// OK reports whether the response had a 2xx status.
func (r *FetchResult) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// EmbedMetadata is the oEmbed response body for a pen.
// Dimension fields are kept raw since the endpoint sends them as either
// strings or numbers, and they are re-emitted exactly as received.
type EmbedMetadata struct {
	Success         *bool           `json:"success,omitempty"`
	Type            string          `json:"type"`
	Version         string          `json:"version"`
	ProviderName    string          `json:"provider_name"`
	ProviderURL     string          `json:"provider_url"`
	Title           string          `json:"title"`
	AuthorName      string          `json:"author_name"`
	AuthorURL       string          `json:"author_url"`
	Height          json.RawMessage `json:"height,omitempty"`
	Width           json.RawMessage `json:"width,omitempty"`
	ThumbnailURL    string          `json:"thumbnail_url,omitempty"`
	ThumbnailWidth  json.RawMessage `json:"thumbnail_width,omitempty"`
	ThumbnailHeight json.RawMessage `json:"thumbnail_height,omitempty"`
	HTML            string          `json:"html"`
}

// Author is the owner of a pen.
type Author struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	URL      string `json:"url"`
}

// Resource is an external stylesheet or script attached to a pen.
type Resource struct {
	URL   string `json:"url"`
	Type  string `json:"type"`
	Order int    `json:"order"`
}

// Pen is the normalized record scraped from a pen page.
// Every field is always populated; absent upstream values get defaults.
type Pen struct {
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	HTML             string     `json:"html"`
	CSS              string     `json:"css"`
	JS               string     `json:"js"`
	Tags             []string   `json:"tags"`
	Resources        []Resource `json:"resources"`
	HTMLPreProcessor string     `json:"html_pre_processor"`
	CSSPreProcessor  string     `json:"css_pre_processor"`
	JSPreProcessor   string     `json:"js_pre_processor"`
	Author           *Author    `json:"author,omitempty"`
	PenURL           string     `json:"pen_url"`
	HashID           string     `json:"hashid"`
}

// MetadataOptions tunes an oEmbed request.
type MetadataOptions struct {
	Height *int // iframe height in pixels; nil leaves the endpoint default
}

// Fetcher performs a single GET and returns the response, whatever its status.
type Fetcher interface {
	Fetch(ctx context.Context, url string, accept string) (*FetchResult, error)
}

// Normalizer turns a user-supplied pen reference into its canonical URL.
type Normalizer interface {
	Normalize(ref string) (string, error)
}

// MetadataFetcher retrieves oEmbed metadata for a canonical pen URL.
type MetadataFetcher interface {
	FetchMetadata(ctx context.Context, penURL string, opts MetadataOptions) (*EmbedMetadata, error)
}

// Extractor decodes a pen page into a Pen record.
type Extractor interface {
	Extract(html string, penURL string) (*Pen, error)
}

// PenFetcher fetches and extracts a pen from any accepted reference.
type PenFetcher interface {
	FetchPen(ctx context.Context, ref string) (*Pen, error)
}

// Renderer converts a pen into a final output format.
type Renderer interface {
	Render(pen *Pen) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".md", ".pdf").
	Extension() string
}
