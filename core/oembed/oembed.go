// Package oembed implements the MetadataFetcher interface against CodePen's
// oEmbed endpoint. The endpoint is a versioned public contract, so its body
// is returned as decoded, with no per-field fallbacks.
package oembed

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/gaurav-prasanna/penpipe/core"
)

// Client fetches embed metadata for canonical pen URLs.
type Client struct {
	fetcher  core.Fetcher
	endpoint string
}

// New creates a Client that calls endpoint through fetcher.
// An empty endpoint uses core.DefaultOEmbedURL.
func New(fetcher core.Fetcher, endpoint string) *Client {
	if endpoint == "" {
		endpoint = core.DefaultOEmbedURL
	}
	return &Client{fetcher: fetcher, endpoint: endpoint}
}

// RequestURL builds the oEmbed request URL for penURL.
func (c *Client) RequestURL(penURL string, opts core.MetadataOptions) (string, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", core.Upstream(err, "invalid oEmbed endpoint %q", c.endpoint)
	}
	q := u.Query()
	q.Set("format", "json")
	q.Set("url", penURL)
	if opts.Height != nil {
		q.Set("height", strconv.Itoa(*opts.Height))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// FetchMetadata makes one request to the oEmbed endpoint and returns its body.
func (c *Client) FetchMetadata(ctx context.Context, penURL string, opts core.MetadataOptions) (*core.EmbedMetadata, error) {
	reqURL, err := c.RequestURL(penURL, opts)
	if err != nil {
		return nil, err
	}

	result, err := c.fetcher.Fetch(ctx, reqURL, "application/json")
	if err != nil {
		return nil, err
	}

	if !result.OK() {
		detail := result.Body
		if detail == "" {
			detail = result.Status
		}
		return nil, core.Upstream(nil, "oEmbed request failed (%d): %s", result.StatusCode, detail)
	}

	var meta core.EmbedMetadata
	if err := json.Unmarshal([]byte(result.Body), &meta); err != nil {
		return nil, core.Upstream(err, "decoding oEmbed response")
	}
	if meta.Success != nil && !*meta.Success {
		return nil, core.Upstream(nil, "CodePen oEmbed returned success: false")
	}
	return &meta, nil
}
