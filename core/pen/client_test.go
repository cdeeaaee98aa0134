package pen

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/penpipe/core"
	"github.com/gaurav-prasanna/penpipe/core/fetch"
	"github.com/gaurav-prasanna/penpipe/core/normalize"
	"github.com/gaurav-prasanna/penpipe/internal/pentest"
)

func newClient(t *testing.T) (*Client, *pentest.Upstream) {
	t.Helper()
	up := pentest.NewUpstream(t)
	return New(core.Config{
		BaseURL:   up.URL,
		OEmbedURL: up.OEmbedURL(),
		Timeout:   5 * time.Second,
	}), up
}

func TestClient_Metadata(t *testing.T) {
	c, up := newClient(t)

	meta, err := c.Metadata(context.Background(), pentest.Slug)
	require.NoError(t, err)

	assert.Equal(t, up.PenURL(), meta.PenURL)
	assert.Equal(t, "Responsive Sidenotes V2", meta.Title)
	assert.Equal(t, "John D. Jameson", meta.AuthorName)
	assert.Equal(t, "https://example.com/thumb.png", meta.ThumbnailURL)
	assert.Contains(t, meta.EmbedHTML, "<iframe")

	out, err := json.Marshal(meta)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"height":"300"`)
	assert.Contains(t, string(out), `"width":600`)

	reqs := up.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/api/oembed", reqs[0].Path)
	assert.Equal(t, up.PenURL(), reqs[0].Query["url"])
	assert.Equal(t, -1, pentest.Height(reqs[0]))
}

func TestClient_Embed(t *testing.T) {
	c, up := newClient(t)
	height := 480

	embed, err := c.Embed(context.Background(), up.PenURL()+"/", &height)
	require.NoError(t, err)
	assert.Equal(t, up.PenURL(), embed.PenURL)
	assert.Contains(t, embed.EmbedHTML, `height="480"`)

	reqs := up.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, 480, pentest.Height(reqs[0]))
}

func TestClient_Pen(t *testing.T) {
	c, up := newClient(t)

	p, err := c.Pen(context.Background(), pentest.Slug)
	require.NoError(t, err)
	assert.Equal(t, "Responsive Sidenotes V2", p.Title)
	assert.Equal(t, "scss", p.CSSPreProcessor)
	assert.Equal(t, up.PenURL(), p.PenURL)
	require.NotNil(t, p.Author)
	assert.Equal(t, up.URL+"/johndjameson", p.Author.URL)

	reqs := up.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, core.DefaultUserAgent, reqs[0].Header.Get("User-Agent"))
}

func TestClient_UpstreamErrors(t *testing.T) {
	c, up := newClient(t)
	up.FailOEmbed(http.StatusForbidden)
	up.FailPage(http.StatusNotFound)

	_, err := c.Metadata(context.Background(), pentest.Slug)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUpstream)
	assert.Equal(t, "oEmbed request failed (403): Forbidden", err.Error())

	_, err = c.Pen(context.Background(), pentest.Slug)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUpstream)
	assert.Equal(t, "failed to fetch pen page (404): Not Found", err.Error())
}

type countingFetcher struct{ calls int }

func (f *countingFetcher) FetchMetadata(context.Context, string, core.MetadataOptions) (*core.EmbedMetadata, error) {
	f.calls++
	return &core.EmbedMetadata{}, nil
}

func (f *countingFetcher) FetchPen(context.Context, string) (*core.Pen, error) {
	f.calls++
	return &core.Pen{}, nil
}

func TestClient_InvalidReferenceMakesNoCall(t *testing.T) {
	f := &countingFetcher{}
	c := NewWithStages(normalize.New(""), fetch.New(), f, f)

	_, err := c.Metadata(context.Background(), "not-a-valid-url")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidReference)

	_, err = c.Embed(context.Background(), "https://example.com/a/pen/b", nil)
	assert.ErrorIs(t, err, core.ErrInvalidReference)
	assert.Zero(t, f.calls)
}

func TestClient_Normalize(t *testing.T) {
	c := New(core.Config{})

	got, err := c.Normalize("  johndjameson/pen/DwxMqa/ ")
	require.NoError(t, err)
	assert.Equal(t, "https://codepen.io/johndjameson/pen/DwxMqa", got)
}

func TestClient_Discover(t *testing.T) {
	c, up := newClient(t)

	pens, err := c.Discover(context.Background(), up.URL+pentest.BlogPath, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{up.PenURL()}, pens)

	_, err = c.Discover(context.Background(), up.URL+"/missing", 1)
	assert.ErrorIs(t, err, core.ErrUpstream)
}
