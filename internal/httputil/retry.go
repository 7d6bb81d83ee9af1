// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the source adapters:
// retry on rate limiting and on service overload, and a throttled transport.
package httputil

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math"
	"mime"
	"net/http"
	"strings"
	"time"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// HTTP 429 responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 10 * time.Second

const defaultMaxRetries = 5

// ErrOverloaded is returned by DoWithOverloadRetry when the service is
// still overloaded after the last allowed retry.
var ErrOverloaded = errors.New("service overloaded")

// DoWithRetry executes an HTTP request and retries on HTTP 429 (Too Many
// Requests) with exponential backoff. The delay starts at RetryBaseDelay
// (10 s) and doubles each attempt: 10 s, 20 s, 40 s, 80 s, 160 s.
//
// When maxRetries is 0 the default (5) is used. On each 429 the response
// body is drained and closed before sleeping. If the context is cancelled
// during a backoff wait the function returns ctx.Err(). After exhausting
// retries the last 429 response is returned so the caller can inspect it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		if attempt >= maxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		if err := sleep(ctx, backoff); err != nil {
			return nil, err
		}
	}
}

// OverloadPolicy controls DoWithOverloadRetry.
type OverloadPolicy struct {
	// Delay is the fixed wait between attempts.
	Delay time.Duration

	// MaxRetries bounds the number of retries after the first attempt.
	MaxRetries int

	// OnRetry, when set, is called before each wait with the attempt
	// number (starting at 1).
	OnRetry func(attempt int)
}

// DoWithOverloadRetry executes an HTTP request and retries it while the
// service reports an overload: an HTTP 503 status, or a text/plain or
// text/html body mentioning "503". The response body is read in full and
// replaced with an in-memory reader, so the caller can still consume it.
// After MaxRetries overloaded retries it returns ErrOverloaded.
func DoWithOverloadRetry(ctx context.Context, client *http.Client, req *http.Request, policy OverloadPolicy) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, err
		}

		if !IsOverloaded(resp, body) {
			resp.Body = io.NopCloser(bytes.NewReader(body))
			return resp, nil
		}

		if attempt >= policy.MaxRetries {
			return nil, ErrOverloaded
		}
		if policy.OnRetry != nil {
			policy.OnRetry(attempt + 1)
		}
		if err := sleep(ctx, policy.Delay); err != nil {
			return nil, err
		}
	}
}

// IsOverloaded reports whether resp, whose body has been read into body,
// signals a transient overload.
func IsOverloaded(resp *http.Response, body []byte) bool {
	if resp.StatusCode == http.StatusServiceUnavailable {
		return true
	}
	switch MediaType(resp) {
	case "text/plain", "text/html":
		return bytes.Contains(body, []byte("503"))
	}
	return false
}

// MediaType returns the lowercased media type of the response, without
// parameters.
func MediaType(resp *http.Response) string {
	ct := resp.Header.Get("Content-Type")
	if mt, _, err := mime.ParseMediaType(ct); err == nil {
		return mt
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
