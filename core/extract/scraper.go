package extract

import (
	"context"

	"github.com/gaurav-prasanna/penpipe/core"
)

// Scraper fetches a pen page and extracts the pen from it.
type Scraper struct {
	normalizer core.Normalizer
	fetcher    core.Fetcher
	extractor  core.Extractor
}

// NewScraper creates a Scraper from its pipeline stages.
func NewScraper(normalizer core.Normalizer, fetcher core.Fetcher, extractor core.Extractor) *Scraper {
	return &Scraper{
		normalizer: normalizer,
		fetcher:    fetcher,
		extractor:  extractor,
	}
}

// FetchPen normalizes ref, fetches the pen page once and extracts the pen.
func (s *Scraper) FetchPen(ctx context.Context, ref string) (*core.Pen, error) {
	penURL, err := s.normalizer.Normalize(ref)
	if err != nil {
		return nil, err
	}

	result, err := s.fetcher.Fetch(ctx, penURL, "text/html")
	if err != nil {
		return nil, err
	}
	if !result.OK() {
		return nil, core.Upstream(nil, "failed to fetch pen page (%d): %s", result.StatusCode, result.Status)
	}

	return s.extractor.Extract(result.Body, penURL)
}
