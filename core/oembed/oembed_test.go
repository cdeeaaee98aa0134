package oembed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/penpipe/core"
	"github.com/gaurav-prasanna/penpipe/core/fetch"
)

const penURL = "https://codepen.io/johndjameson/pen/DwxMqa"

const okBody = `{
  "success": true,
  "type": "rich",
  "version": "1.0",
  "provider_name": "CodePen",
  "provider_url": "https://codepen.io",
  "title": "Responsive Sidenotes V2",
  "author_name": "John D. Jameson",
  "author_url": "https://codepen.io/johndjameson",
  "height": "300",
  "width": 600,
  "thumbnail_url": "https://example.com/thumb.png",
  "html": "<iframe src='https://codepen.io/johndjameson/embed/DwxMqa'></iframe>"
}`

// newServer answers the oEmbed path with status and body, recording the last query.
func newServer(t *testing.T, status int, body string) (*httptest.Server, *url.Values, *http.Header) {
	t.Helper()
	var query url.Values
	var header http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/oembed", r.URL.Path)
		query = r.URL.Query()
		header = r.Header.Clone()
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &query, &header
}

func TestFetchMetadata_PassThrough(t *testing.T) {
	srv, query, header := newServer(t, http.StatusOK, okBody)
	c := New(fetch.New(), srv.URL+"/api/oembed")

	meta, err := c.FetchMetadata(context.Background(), penURL, core.MetadataOptions{})
	require.NoError(t, err)

	assert.Equal(t, "Responsive Sidenotes V2", meta.Title)
	assert.Equal(t, "John D. Jameson", meta.AuthorName)
	assert.Equal(t, "https://codepen.io/johndjameson", meta.AuthorURL)
	assert.Equal(t, "https://example.com/thumb.png", meta.ThumbnailURL)
	assert.Contains(t, meta.HTML, "<iframe")
	assert.JSONEq(t, `"300"`, string(meta.Height))
	assert.JSONEq(t, `600`, string(meta.Width))

	assert.Equal(t, "json", query.Get("format"))
	assert.Equal(t, penURL, query.Get("url"))
	assert.False(t, query.Has("height"))
	assert.Equal(t, "application/json", header.Get("Accept"))
}

func TestFetchMetadata_ReEncodesDimensionsUnchanged(t *testing.T) {
	srv, _, _ := newServer(t, http.StatusOK, okBody)
	meta, err := New(fetch.New(), srv.URL+"/api/oembed").FetchMetadata(context.Background(), penURL, core.MetadataOptions{})
	require.NoError(t, err)

	out, err := json.Marshal(meta)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "300", decoded["height"])
	assert.Equal(t, float64(600), decoded["width"])
	assert.NotContains(t, decoded, "thumbnail_width")
}

func TestFetchMetadata_ForwardsHeight(t *testing.T) {
	srv, query, _ := newServer(t, http.StatusOK, okBody)
	height := 500

	_, err := New(fetch.New(), srv.URL+"/api/oembed").FetchMetadata(context.Background(), penURL, core.MetadataOptions{Height: &height})
	require.NoError(t, err)
	assert.Equal(t, "500", query.Get("height"))
}

func TestFetchMetadata_HTTPError(t *testing.T) {
	srv, _, _ := newServer(t, http.StatusForbidden, "Forbidden")

	_, err := New(fetch.New(), srv.URL+"/api/oembed").FetchMetadata(context.Background(), penURL, core.MetadataOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUpstream)
	assert.Equal(t, "oEmbed request failed (403): Forbidden", err.Error())
}

func TestFetchMetadata_HTTPErrorEmptyBodyUsesStatus(t *testing.T) {
	srv, _, _ := newServer(t, http.StatusBadGateway, "")

	_, err := New(fetch.New(), srv.URL+"/api/oembed").FetchMetadata(context.Background(), penURL, core.MetadataOptions{})
	require.Error(t, err)
	assert.Equal(t, "oEmbed request failed (502): Bad Gateway", err.Error())
}

func TestFetchMetadata_SuccessFalse(t *testing.T) {
	srv, _, _ := newServer(t, http.StatusOK, `{"success": false, "title": "x"}`)

	_, err := New(fetch.New(), srv.URL+"/api/oembed").FetchMetadata(context.Background(), penURL, core.MetadataOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUpstream)
	assert.Contains(t, err.Error(), "success: false")
}

func TestFetchMetadata_MalformedBody(t *testing.T) {
	srv, _, _ := newServer(t, http.StatusOK, `<html>not json</html>`)

	_, err := New(fetch.New(), srv.URL+"/api/oembed").FetchMetadata(context.Background(), penURL, core.MetadataOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUpstream)
	assert.Contains(t, err.Error(), "decoding oEmbed response")
}

func TestRequestURL_DefaultEndpoint(t *testing.T) {
	got, err := New(fetch.New(), "").RequestURL(penURL, core.MetadataOptions{})
	require.NoError(t, err)
	assert.Equal(t, "https://codepen.io/api/oembed?format=json&url=https%3A%2F%2Fcodepen.io%2Fjohndjameson%2Fpen%2FDwxMqa", got)
}
