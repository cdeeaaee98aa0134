// Package pentest provides a fake CodePen host for tests.
package pentest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
)

// Slug is the pen the fake host serves.
const Slug = "johndjameson/pen/DwxMqa"

// BlogPath is a page on the fake host that links and embeds the pen.
const BlogPath = "/blog"

// Item is the pen payload embedded in the fake pen page.
var Item = map[string]any{
	"title":       "Responsive Sidenotes V2",
	"description": "<p>A responsive <strong>sidenotes</strong> demo.</p>",
	"html":        "<article><p>Hello</p></article>",
	"css":         "body { color: red; }",
	"js":          "console.log('hi');",
	"tags":        []string{"layout", "text", "responsive", "rwd", "simple"},
	"resources": []map[string]any{
		{"url": "//cdnjs.cloudflare.com/ajax/libs/jquery/2.1.3/jquery.min.js", "resource_type": "js", "order": 0},
	},
	"html_pre_processor": "none",
	"css_pre_processor":  "scss",
	"js_pre_processor":   "none",
	"hashid":             "DwxMqa",
}

// Profiled is the author payload embedded next to Item.
var Profiled = map[string]any{"username": "johndjameson", "name": "John D. Jameson"}

// PenPage renders a pen page the way CodePen embeds its data: item encoded
// twice, profiled once.
func PenPage(item any, profiled any) string {
	inner, _ := json.Marshal(item)
	outer, _ := json.Marshal(string(inner))
	html := `<html><body><script>var d = {"__item":` + string(outer)
	if profiled != nil {
		p, _ := json.Marshal(profiled)
		html += `,"__profiled":` + string(p)
	}
	return html + `};</script></body></html>`
}

// Request is one request seen by the fake host.
type Request struct {
	Path   string
	Query  map[string]string
	Header http.Header
}

// Upstream is a fake CodePen host serving one pen and the oEmbed endpoint.
type Upstream struct {
	*httptest.Server

	mu           sync.Mutex
	oembedStatus int
	pageStatus   int
	requests     []Request
}

// NewUpstream starts a fake host that is closed when t finishes.
func NewUpstream(t testing.TB) *Upstream {
	t.Helper()
	u := &Upstream{}
	u.Server = httptest.NewServer(http.HandlerFunc(u.serve))
	t.Cleanup(u.Close)
	return u
}

// OEmbedURL is the fake oEmbed endpoint.
func (u *Upstream) OEmbedURL() string {
	return u.URL + "/api/oembed"
}

// PenURL is the canonical URL of the served pen on the fake host.
func (u *Upstream) PenURL() string {
	return u.URL + "/" + Slug
}

// FailOEmbed makes the oEmbed endpoint answer with status.
func (u *Upstream) FailOEmbed(status int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.oembedStatus = status
}

// FailPage makes the pen page answer with status and an empty body.
func (u *Upstream) FailPage(status int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.pageStatus = status
}

// Requests returns a copy of the requests seen so far.
func (u *Upstream) Requests() []Request {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]Request(nil), u.requests...)
}

func (u *Upstream) serve(w http.ResponseWriter, r *http.Request) {
	query := map[string]string{}
	for k := range r.URL.Query() {
		query[k] = r.URL.Query().Get(k)
	}
	u.mu.Lock()
	u.requests = append(u.requests, Request{Path: r.URL.Path, Query: query, Header: r.Header.Clone()})
	oembedStatus, pageStatus := u.oembedStatus, u.pageStatus
	u.mu.Unlock()

	switch r.URL.Path {
	case "/api/oembed":
		if oembedStatus != 0 {
			w.WriteHeader(oembedStatus)
			_, _ = w.Write([]byte(http.StatusText(oembedStatus)))
			return
		}
		height := "300"
		if h := query["height"]; h != "" {
			height = h
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success":       true,
			"type":          "rich",
			"version":       "1.0",
			"provider_name": "CodePen",
			"provider_url":  u.URL,
			"title":         Item["title"],
			"author_name":   "John D. Jameson",
			"author_url":    u.URL + "/johndjameson",
			"height":        height,
			"width":         600,
			"thumbnail_url": "https://example.com/thumb.png",
			"html": `<iframe height="` + height + `" src="` + u.URL + `/johndjameson/embed/DwxMqa?default-tab=result"></iframe>`,
		})
	case BlogPath:
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><h1>Favourite pens</h1>` +
			`<a href="/` + Slug + `">Sidenotes</a>` +
			`<p class="codepen" data-slug-hash="DwxMqa" data-user="johndjameson">embed</p>` +
			`<a href="/about">About</a></body></html>`))
	case "/" + Slug:
		if pageStatus != 0 {
			w.WriteHeader(pageStatus)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(PenPage(Item, Profiled)))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// Height parses the height query of an oEmbed request, or returns -1.
func Height(r Request) int {
	h, err := strconv.Atoi(r.Query["height"])
	if err != nil {
		return -1
	}
	return h
}
