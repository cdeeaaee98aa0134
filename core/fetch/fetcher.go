// Package fetch implements the Fetcher interface.
// It performs single-attempt HTTP GET requests and hands back the status and
// body whatever the status code, so callers can word their own errors.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/gaurav-prasanna/penpipe/core"
)

const (
	tracerName = "github.com/gaurav-prasanna/penpipe/core/fetch"

	// DefaultMaxBodyBytes bounds how much of a response is read. Pen pages
	// with large inline sources are a few hundred KB.
	DefaultMaxBodyBytes = 16 << 20
)

// HTTPFetcher fetches URLs via HTTP.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	timeout   *time.Duration
	maxBody   int64
}

// Option configures an HTTPFetcher.
type Option func(*HTTPFetcher)

// WithClient replaces the underlying http.Client. A nil client keeps the default.
func WithClient(c *http.Client) Option {
	return func(f *HTTPFetcher) { f.client = c }
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *HTTPFetcher) { f.userAgent = ua }
}

// WithTimeout sets the client timeout. Zero disables it.
// A client passed to WithClient is copied, never modified.
func WithTimeout(d time.Duration) Option {
	return func(f *HTTPFetcher) { f.timeout = &d }
}

// WithMaxBodyBytes caps the response body size. Larger bodies are an
// upstream error.
func WithMaxBodyBytes(n int64) Option {
	return func(f *HTTPFetcher) { f.maxBody = n }
}

// New creates an HTTPFetcher with the default user agent and timeout.
func New(opts ...Option) *HTTPFetcher {
	f := &HTTPFetcher{
		userAgent: core.DefaultUserAgent,
		maxBody:   DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(f)
	}

	switch {
	case f.client == nil:
		f.client = &http.Client{Timeout: core.DefaultTimeout}
		if f.timeout != nil {
			f.client.Timeout = *f.timeout
		}
	case f.timeout != nil:
		c := *f.client
		c.Timeout = *f.timeout
		f.client = &c
	}
	if f.maxBody <= 0 {
		f.maxBody = DefaultMaxBodyBytes
	}
	return f
}

// Fetch issues a GET for url with the given Accept header.
// Only transport failures are returned as errors; they are classified as
// upstream errors.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string, accept string) (*core.FetchResult, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "http.get",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("http.url", url)),
	)
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "creating request")
		return nil, core.Upstream(err, "creating request for %s", url)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return nil, core.Upstream(err, "fetching %s", url)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "reading body")
		return nil, core.Upstream(err, "reading response body from %s", url)
	}
	if int64(len(body)) > f.maxBody {
		span.SetStatus(codes.Error, "body too large")
		return nil, core.Upstream(nil, "response from %s exceeds %d bytes", url, f.maxBody)
	}
	span.SetAttributes(attribute.Int("http.response_size", len(body)))

	result := &core.FetchResult{
		URL:        url,
		StatusCode: resp.StatusCode,
		Status:     reasonPhrase(resp),
		Body:       string(body),
	}
	if !result.OK() {
		span.SetStatus(codes.Error, fmt.Sprintf("status %d", resp.StatusCode))
	}
	return result, nil
}

// reasonPhrase strips the numeric code from resp.Status ("404 Not Found" →
// "Not Found"), falling back to the standard text for the code.
func reasonPhrase(resp *http.Response) string {
	phrase := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if phrase == "" {
		phrase = http.StatusText(resp.StatusCode)
	}
	return phrase
}
