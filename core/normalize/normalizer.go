// Package normalize implements the Normalizer interface.
// It turns the reference shapes users paste (full pen URLs, with or without
// a trailing slash or extra segments, and bare "user/pen/slug" slugs) into
// the one canonical URL every downstream stage works with.
package normalize

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/gaurav-prasanna/penpipe/core"
)

var (
	// penPathRegex matches the path of a full pen URL; later segments are ignored.
	penPathRegex = regexp.MustCompile(`^/([^/]+)/pen/([^/]+)`)
	// penSlugRegex matches a bare "user/pen/slug" reference.
	penSlugRegex = regexp.MustCompile(`^([^/?#]+)/pen/([^/?#]+)`)
)

// PenNormalizer canonicalizes pen references against one platform host.
type PenNormalizer struct {
	base *url.URL
}

// New creates a PenNormalizer for the given platform root URL.
// An empty or unparsable baseURL falls back to core.DefaultBaseURL.
func New(baseURL string) *PenNormalizer {
	base, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if baseURL == "" || err != nil || base.Host == "" {
		base, _ = url.Parse(core.DefaultBaseURL)
	}
	return &PenNormalizer{base: base}
}

// BaseURL returns the platform root, without a trailing slash.
func (n *PenNormalizer) BaseURL() string {
	return n.base.Scheme + "://" + n.base.Host
}

// Normalize returns the canonical URL https://<host>/<username>/pen/<slug>.
func (n *PenNormalizer) Normalize(ref string) (string, error) {
	trimmed := strings.TrimSpace(ref)

	if user, slug, ok := n.matchURL(trimmed); ok {
		return n.render(user, slug), nil
	}

	if strings.Contains(trimmed, "/pen/") {
		bare := strings.TrimPrefix(trimmed, "/")
		if m := penSlugRegex.FindStringSubmatch(strings.TrimSuffix(bare, "/")); m != nil {
			return n.render(m[1], m[2]), nil
		}
	}

	return "", core.InvalidReference(
		"invalid CodePen URL or slug: %s. Expected format: %s/username/pen/slug or username/pen/slug",
		ref, n.BaseURL(),
	)
}

// Username returns the username segment of a canonical pen URL.
func Username(penURL string) string {
	parsed, err := url.Parse(penURL)
	if err != nil {
		return ""
	}
	m := penPathRegex.FindStringSubmatch(parsed.EscapedPath())
	if m == nil {
		return ""
	}
	return m[1]
}

// matchURL handles the full-URL shape. Anything that doesn't parse or
// doesn't look like a pen path on our host is left to the slug shape.
func (n *PenNormalizer) matchURL(raw string) (user, slug string, ok bool) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", "", false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", "", false
	}
	if !strings.EqualFold(parsed.Host, n.base.Host) {
		return "", "", false
	}

	// Segments stay percent-encoded so a slug like "a%3Fb" is not turned
	// into a query when the canonical URL is rebuilt.
	path := strings.TrimSuffix(parsed.EscapedPath(), "/")
	m := penPathRegex.FindStringSubmatch(path)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

func (n *PenNormalizer) render(user, slug string) string {
	return n.BaseURL() + "/" + user + "/pen/" + slug
}
