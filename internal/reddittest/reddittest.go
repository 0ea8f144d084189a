// Package reddittest provides a fake reddit upstream for tests.
package reddittest

import (
	"embed"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
)

//go:embed testdata/*.json
var fixtures embed.FS

// Fixture returns the raw bytes of testdata/{name}.
func Fixture(t testing.TB, name string) []byte {
	t.Helper()
	b, err := fixtures.ReadFile("testdata/" + name)
	if err != nil {
		t.Fatalf("reddittest: missing fixture %s: %v", name, err)
	}
	return b
}

// Request is what the upstream saw of an incoming request.
type Request struct {
	Query     url.Values
	Path      string
	UserAgent string
}

type response struct {
	body   []byte
	status int
}

// Upstream serves canned reddit responses chosen by path shape.
// Exact-path overrides registered with Handle take precedence.
type Upstream struct {
	*httptest.Server

	t         testing.TB
	overrides map[string]response
	requests  []Request
	mu        sync.Mutex
}

// New starts an upstream which is closed when the test finishes.
func New(t testing.TB) *Upstream {
	t.Helper()
	u := &Upstream{
		t:         t,
		overrides: make(map[string]response),
	}
	u.Server = httptest.NewServer(http.HandlerFunc(u.serve))
	t.Cleanup(u.Close)
	return u
}

// BaseURL is the upstream origin, ready to be passed to a client.
func (u *Upstream) BaseURL() *url.URL {
	parsed, err := url.Parse(u.URL)
	if err != nil {
		u.t.Fatalf("reddittest: bad server url: %v", err)
	}
	return parsed
}

// Handle overrides the response for an exact path.
func (u *Upstream) Handle(path string, status int, body string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.overrides[path] = response{status: status, body: []byte(body)}
}

// Requests returns every request received so far.
func (u *Upstream) Requests() []Request {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]Request(nil), u.requests...)
}

// Last returns the most recent request, failing the test if there was none.
func (u *Upstream) Last() Request {
	u.t.Helper()
	reqs := u.Requests()
	if len(reqs) == 0 {
		u.t.Fatal("reddittest: no requests received")
	}
	return reqs[len(reqs)-1]
}

func (u *Upstream) serve(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	u.requests = append(u.requests, Request{
		Path:      r.URL.Path,
		Query:     r.URL.Query(),
		UserAgent: r.Header.Get("User-Agent"),
	})
	override, ok := u.overrides[r.URL.Path]
	u.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if ok {
		w.WriteHeader(override.status)
		_, _ = w.Write(override.body)
		return
	}

	name := route(r.URL.Path)
	if name == "" {
		http.Error(w, `{"message": "Not Found", "error": 404}`, http.StatusNotFound)
		return
	}
	b, err := fixtures.ReadFile("testdata/" + name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	_, _ = w.Write(b)
}

func route(path string) string {
	switch {
	case path == "/subreddits/search.json":
		return "subreddits.json"
	case strings.Contains(path, "/comments/"):
		return "comments.json"
	case strings.HasSuffix(path, "/about.json"):
		return "about.json"
	case strings.HasPrefix(path, "/r/"), path == "/search.json":
		return "listing.json"
	}
	return ""
}
