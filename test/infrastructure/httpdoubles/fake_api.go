//go:build integration || unit || test

package httpdoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// Route answers requests whose method matches and whose escaped path starts
// with Prefix. Routes are tried in registration order.
type Route struct {
	Method string
	Prefix string
	Status int
	Body   string
}

// Request is one request received by the fake API.
type Request struct {
	Method string
	Path   string
	Query  string
	Body   string
}

// FakeAPI is an httptest server replaying canned JSON responses and
// recording every request it receives.
type FakeAPI struct {
	Server *httptest.Server

	mu       sync.Mutex
	routes   []Route
	requests []Request
}

// NewFakeAPI starts a fake API that is closed with the test.
func NewFakeAPI(t *testing.T, routes ...Route) *FakeAPI {
	t.Helper()

	api := &FakeAPI{routes: routes}
	api.Server = httptest.NewServer(http.HandlerFunc(api.serve))
	t.Cleanup(api.Server.Close)
	return api
}

// URL returns the base URL of the server.
func (a *FakeAPI) URL() string {
	return a.Server.URL
}

// Requests returns every recorded request, in arrival order.
func (a *FakeAPI) Requests() []Request {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Request(nil), a.requests...)
}

// Calls returns "METHOD path" for every recorded request.
func (a *FakeAPI) Calls() []string {
	requests := a.Requests()
	calls := make([]string, 0, len(requests))
	for _, request := range requests {
		calls = append(calls, request.Method+" "+request.Path)
	}
	return calls
}

// Find returns the first request with the given method whose path contains fragment.
func (a *FakeAPI) Find(method, fragment string) (Request, bool) {
	for _, request := range a.Requests() {
		if request.Method == method && strings.Contains(request.Path, fragment) {
			return request, true
		}
	}
	return Request{}, false
}

func (a *FakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	path := r.URL.EscapedPath()

	a.mu.Lock()
	a.requests = append(a.requests, Request{Method: r.Method, Path: path, Query: r.URL.RawQuery, Body: string(body)})
	a.mu.Unlock()

	for _, route := range a.routes {
		if route.Method != r.Method || !strings.HasPrefix(path, route.Prefix) {
			continue
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(route.Status)
		_, _ = io.WriteString(w, route.Body)
		return
	}
	http.NotFound(w, r)
}
