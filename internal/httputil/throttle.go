// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// roundTripFunc adapts a function to http.RoundTripper.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

// ThrottledTransport wraps rt so that every request first waits on a
// limiter allowing perSecond requests per second. A non-positive rate
// returns rt unchanged. A nil rt uses http.DefaultTransport.
func ThrottledTransport(rt http.RoundTripper, perSecond float64) http.RoundTripper {
	if rt == nil {
		rt = http.DefaultTransport
	}
	if perSecond <= 0 {
		return rt
	}
	limiter := rate.NewLimiter(rate.Limit(perSecond), 1)
	return roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if err := limiter.Wait(req.Context()); err != nil {
			return nil, err
		}
		return rt.RoundTrip(req)
	})
}

// NewClient returns an HTTP client with the given timeout whose requests
// are throttled to perSecond requests per second.
func NewClient(timeout time.Duration, perSecond float64) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: ThrottledTransport(nil, perSecond),
	}
}
