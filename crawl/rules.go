// Package crawl: URL filtering rules.
package crawl

import (
	"net/url"
	"path"
	"strings"
)

// staticExtensions are file extensions to skip during crawling.
var staticExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".svg": true, ".webp": true, ".ico": true,
	".css": true, ".js": true, ".mjs": true, ".json": true,
	".woff": true, ".woff2": true, ".ttf": true,
	".mp4": true, ".webm": true, ".mp3": true,
	".zip": true, ".gz": true, ".pdf": true,
}

// IsSameDomain checks if the given URL belongs to the specified host.
func IsSameDomain(rawURL string, domain string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.EqualFold(parsed.Host, domain)
}

// IsStaticAsset checks if a URL points to a static asset (image, CSS, JS, etc.).
func IsStaticAsset(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return staticExtensions[strings.ToLower(path.Ext(parsed.Path))]
}

// NormalizeURL strips fragments and trailing slashes for deduplication.
func NormalizeURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	parsed.Fragment = ""
	if parsed.Path != "/" {
		parsed.Path = strings.TrimSuffix(parsed.Path, "/")
	}

	return parsed.String()
}

// EmbedToPenURL turns an embed URL (/<user>/embed/<slug>, optionally
// /<user>/embed/preview/<slug>) into the matching pen URL on the same host.
// It returns "" for anything else.
func EmbedToPenURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return ""
	}
	segs := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(segs) >= 4 && segs[1] == "embed" && segs[2] == "preview" {
		segs = []string{segs[0], segs[1], segs[3]}
	}
	if len(segs) < 3 || segs[1] != "embed" || segs[0] == "" || segs[2] == "" {
		return ""
	}
	return parsed.Scheme + "://" + parsed.Host + "/" + segs[0] + "/pen/" + segs[2]
}
