// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memCache is an in-memory Cache.
type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemCache() *memCache { return &memCache{entries: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, source, url string) ([]byte, string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	body, ok := c.entries[source+" "+url]
	return body, "application/json", ok, nil
}

func (c *memCache) Put(_ context.Context, source, url, _ string, body []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[source+" "+url] = body
	return nil
}

func jsonServer(t *testing.T, body string, check func(r *http.Request)) (*httptest.Server, *int) {
	t.Helper()
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(ts.Close)
	return ts, &calls
}

func TestFetchCachesOnlyJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("kind") == "html" {
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, "<html>oops</html>")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{}`)
	}))
	defer ts.Close()

	cache := newMemCache()
	do := func(ctx context.Context, req *http.Request) (*http.Response, error) { return ts.Client().Do(req) }

	for _, kind := range []string{"json", "html"} {
		req, err := newRequest(context.Background(), ts.URL+"?kind="+kind, "test/0.1")
		require.NoError(t, err)
		_, err = fetch(context.Background(), cache, "t", req, do)
		require.NoError(t, err)
	}
	assert.Len(t, cache.entries, 1)
}

func TestResponseErrorCarriesTextBody(t *testing.T) {
	r := &response{url: "http://x", contentType: "text/plain", body: []byte("Resource not found.")}
	err := r.fail(TagCrossref, fmt.Errorf("HTTP 404"))

	var re *ResponseError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "http://x", re.URL)
	assert.Equal(t, "text/plain", re.ContentType)
	assert.Equal(t, "Resource not found.", re.Body)
	assert.Contains(t, err.Error(), "crossref")

	r = &response{url: "http://x", contentType: "application/json", body: []byte("{")}
	require.ErrorAs(t, r.fail(TagGraph, fmt.Errorf("bad")), &re)
	assert.Empty(t, re.Body)
}

func httptestStatus(t *testing.T, status int) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
	}))
	t.Cleanup(ts.Close)
	return ts
}
