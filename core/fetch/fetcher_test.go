package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/penpipe/core"
)

func TestFetch_SendsHeaders(t *testing.T) {
	var gotUA, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	f := New(WithUserAgent("test-agent/1.0"))
	result, err := f.Fetch(context.Background(), srv.URL, "text/html")
	require.NoError(t, err)

	assert.Equal(t, "test-agent/1.0", gotUA)
	assert.Equal(t, "text/html", gotAccept)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.True(t, result.OK())
	assert.Equal(t, "<html></html>", result.Body)
	assert.Equal(t, srv.URL, result.URL)
}

func TestFetch_DefaultUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	_, err := New().Fetch(context.Background(), srv.URL, "")
	require.NoError(t, err)
	assert.Equal(t, core.DefaultUserAgent, gotUA)
}

func TestFetch_NonOKIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("missing"))
	}))
	defer srv.Close()

	result, err := New().Fetch(context.Background(), srv.URL, "text/html")
	require.NoError(t, err)
	assert.False(t, result.OK())
	assert.Equal(t, http.StatusNotFound, result.StatusCode)
	assert.Equal(t, "Not Found", result.Status)
	assert.Equal(t, "missing", result.Body)
}

func TestFetch_TransportErrorIsUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New().Fetch(context.Background(), url, "text/html")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUpstream)
}

func TestFetch_Timeout(t *testing.T) {
	done := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-done:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(done)

	_, err := New(WithTimeout(50*time.Millisecond)).Fetch(context.Background(), srv.URL, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUpstream)
}

func TestFetch_BodyLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 10)))
	}))
	defer srv.Close()

	result, err := New(WithMaxBodyBytes(10)).Fetch(context.Background(), srv.URL, "")
	require.NoError(t, err)
	assert.Len(t, result.Body, 10)

	_, err = New(WithMaxBodyBytes(9)).Fetch(context.Background(), srv.URL, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUpstream)
	assert.Equal(t, "response from "+srv.URL+" exceeds 9 bytes", err.Error())
}

func TestNew_ClientAndTimeout(t *testing.T) {
	assert.Equal(t, core.DefaultTimeout, New().client.Timeout)
	assert.Equal(t, time.Duration(0), New(WithTimeout(0)).client.Timeout)

	f := New(WithClient(nil), WithTimeout(time.Second))
	require.NotNil(t, f.client)
	assert.Equal(t, time.Second, f.client.Timeout)

	mine := &http.Client{Timeout: time.Minute}
	f = New(WithTimeout(time.Second), WithClient(mine))
	assert.Equal(t, time.Second, f.client.Timeout)
	assert.Equal(t, time.Minute, mine.Timeout)

	f = New(WithClient(mine))
	assert.Same(t, mine, f.client)
}

func TestFetch_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Fetch(ctx, srv.URL, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, core.ErrUpstream)
}

func TestReasonPhrase(t *testing.T) {
	assert.Equal(t, "Not Found", reasonPhrase(&http.Response{StatusCode: 404, Status: "404 Not Found"}))
	assert.Equal(t, "Teapot Time", reasonPhrase(&http.Response{StatusCode: 418, Status: "418 Teapot Time"}))
	assert.Equal(t, "Forbidden", reasonPhrase(&http.Response{StatusCode: 403, Status: "403"}))
}
