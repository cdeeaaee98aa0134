package core

import "time"

const (
	DefaultBaseURL   = "https://codepen.io"
	DefaultOEmbedURL = DefaultBaseURL + "/api/oembed"
	DefaultUserAgent = "CodePen-MCP/1.0 (ingest tool)"
	DefaultTimeout   = 30 * time.Second
)

// Config holds the upstream endpoints and HTTP settings.
// The core never reads the environment; the CLI fills this in.
type Config struct {
	BaseURL   string        // platform root; canonical pen URLs are built on it
	OEmbedURL string        // oEmbed endpoint
	UserAgent string        // sent on page fetches
	Timeout   time.Duration // per request; 0 means no client timeout
}

// DefaultConfig returns the settings for the public CodePen site.
func DefaultConfig() Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		OEmbedURL: DefaultOEmbedURL,
		UserAgent: DefaultUserAgent,
		Timeout:   DefaultTimeout,
	}
}
