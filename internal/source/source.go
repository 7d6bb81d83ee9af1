// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source queries the external scholarly-metadata services a
// publication can be resolved against: the knowledge graph (by DOI and by
// title), the OpenAIRE open-access aggregator and the Crossref index.
//
// Every lookup returns a nil result when the service has nothing usable
// for the publication; errors describe responses that could not be
// obtained or interpreted and carry the request URL for logging.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/pdiddy/idresolve/internal/httputil"
)

// Source tags used in cache keys and log records.
const (
	TagGraph    = "graph"
	TagOpenAIRE = "openaire"
	TagCrossref = "crossref"
)

// Cache stores raw response bodies between runs. *cache.Store implements it.
type Cache interface {
	Get(ctx context.Context, source, url string) ([]byte, string, bool, error)
	Put(ctx context.Context, source, url, contentType string, body []byte) error
}

// ResponseError reports a response a source could not use.
type ResponseError struct {
	Source      string
	URL         string
	ContentType string

	// Body holds the response text when the service answered with a
	// plain-text or HTML page instead of JSON.
	Body string

	Err error
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *ResponseError) Unwrap() error { return e.Err }

// response is a fully read HTTP response.
type response struct {
	url         string
	status      int
	contentType string
	body        []byte
}

// isText reports whether the body is a plain-text or HTML page.
func (r *response) isText() bool {
	return r.contentType == "text/plain" || r.contentType == "text/html"
}

// fail wraps err in a ResponseError describing r.
func (r *response) fail(source string, err error) error {
	re := &ResponseError{Source: source, URL: r.url, ContentType: r.contentType, Err: err}
	if r.isText() {
		re.Body = string(r.body)
	}
	return re
}

type doFunc func(ctx context.Context, req *http.Request) (*http.Response, error)

// fetch returns the response to req, from cache when possible. Only
// successful JSON responses are cached.
func fetch(ctx context.Context, cache Cache, source string, req *http.Request, do doFunc) (*response, error) {
	key := req.URL.String()
	if cache != nil {
		body, ct, ok, err := cache.Get(ctx, source, key)
		if err != nil {
			return nil, &ResponseError{Source: source, URL: key, Err: err}
		}
		if ok {
			return &response{url: key, status: http.StatusOK, contentType: ct, body: body}, nil
		}
	}

	resp, err := do(ctx, req)
	if err != nil {
		return nil, &ResponseError{Source: source, URL: key, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ResponseError{Source: source, URL: key, Err: fmt.Errorf("reading response: %w", err)}
	}

	r := &response{
		url:         key,
		status:      resp.StatusCode,
		contentType: httputil.MediaType(resp),
		body:        body,
	}

	if cache != nil && r.status == http.StatusOK && r.contentType == "application/json" {
		if err := cache.Put(ctx, source, key, r.contentType, body); err != nil {
			return nil, &ResponseError{Source: source, URL: key, Err: err}
		}
	}
	return r, nil
}

// newRequest builds a GET request for rawURL with the given User-Agent.
func newRequest(ctx context.Context, rawURL, userAgent string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}
