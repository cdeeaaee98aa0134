// Package crawl finds pen references in arbitrary pages for the discover
// command and export --all. It follows same-host links breadth-first up to a
// page budget and collects every pen it can normalize, keeping crawling
// separate from the pen pipeline.
package crawl

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gaurav-prasanna/penpipe/core"
)

// DiscoverPens fetches startURL and returns the canonical URLs of the pens it
// embeds or links, in discovery order without duplicates. With maxPages > 1,
// same-host links that are not pens are crawled too until maxPages pages have
// been fetched. Only a failure on startURL itself is returned as an error.
func DiscoverPens(ctx context.Context, startURL string, maxPages int, fetcher core.Fetcher, normalizer core.Normalizer) ([]string, error) {
	parsed, err := url.Parse(startURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid URL: %s (must include scheme, e.g. https://example.com)", startURL)
	}
	domain := parsed.Host

	pages := NewFrontier(startURL, maxPages)
	pens := NewPenSet()

	for {
		currentURL, first, ok := pages.Pop()
		if !ok {
			break
		}

		result, err := fetcher.Fetch(ctx, currentURL, "text/html")
		if err != nil {
			if first || ctx.Err() != nil {
				return nil, err
			}
			continue
		}
		if !result.OK() {
			if first {
				return nil, core.Upstream(nil, "failed to fetch page (%d): %s", result.StatusCode, result.Status)
			}
			continue
		}

		links, embeds, err := extractRefs(result.Body, currentURL)
		if err != nil {
			if first {
				return nil, err
			}
			continue
		}

		for _, ref := range embeds {
			if penURL, err := normalizer.Normalize(ref); err == nil {
				pens.Add(penURL)
			}
		}
		for _, link := range links {
			if penURL, err := normalizer.Normalize(link); err == nil {
				pens.Add(penURL)
				continue
			}
			if IsSameDomain(link, domain) && !IsStaticAsset(link) {
				pages.Push(link)
			}
		}
	}

	return pens.List(), nil
}

// extractRefs returns the resolved href of every <a> in html, and the pen
// references of every embed: CodePen's embed markup (an element with class
// codepen and data-slug-hash/data-user) and embed iframes.
func extractRefs(html string, pageURL string) (links []string, embeds []string, err error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, nil, fmt.Errorf("parsing HTML: %w", err)
	}

	base, _ := url.Parse(pageURL)

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if resolved := resolveURL(href, base); resolved != "" {
			links = append(links, resolved)
		}
	})

	doc.Find(".codepen[data-slug-hash]").Each(func(_ int, s *goquery.Selection) {
		slug, _ := s.Attr("data-slug-hash")
		user, _ := s.Attr("data-user")
		if slug != "" && user != "" {
			embeds = append(embeds, user+"/pen/"+slug)
		}
	})

	doc.Find("iframe[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		if ref := EmbedToPenURL(resolveURL(src, base)); ref != "" {
			embeds = append(embeds, ref)
		}
	})

	return links, embeds, nil
}

// resolveURL resolves a potentially relative URL against a base.
func resolveURL(href string, base *url.URL) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "tel:") || strings.HasPrefix(href, "#") {
		return ""
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}

	resolved := base.ResolveReference(parsed)
	resolved.Fragment = ""
	return resolved.String()
}
