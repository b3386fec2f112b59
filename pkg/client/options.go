package client

import (
	"net/http"
	"time"
)

// Defaults applied by NewClient before any Option runs.
const (
	DefaultTimeout      = 30 * time.Second
	DefaultRetryMax     = 3
	DefaultRetryWaitMin = 500 * time.Millisecond
	DefaultRetryWaitMax = 5 * time.Second
)

// Option adjusts a Client built by NewClient.  Options that receive a zero or
// out-of-range value leave the current setting alone.
type Option func(*Client)

// WithHTTPClient routes every apiserver call through hc, e.g. one with a
// custom transport or an httptest server's client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc == nil {
			return
		}
		c.httpClient = hc
	}
}

// WithTimeout bounds a single HTTP attempt.  Retries each get the full
// timeout; use a context deadline to bound the whole call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d <= 0 {
			return
		}
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// WithLogger receives retry and failure messages.
func WithLogger(l Logger) Option {
	return func(c *Client) {
		if l == nil {
			return
		}
		c.logger = l
	}
}

// WithRetryMax caps how often a 429, a 5xx or a network failure is retried.
// Zero disables retries.
func WithRetryMax(n int) Option {
	return func(c *Client) {
		if n < 0 {
			return
		}
		c.retryMax = n
	}
}

// WithRetryWait sets the backoff floor and ceiling.  A ceiling below the
// floor is dropped and the previous ceiling kept.
func WithRetryWait(floor, ceiling time.Duration) Option {
	return func(c *Client) {
		if floor <= 0 {
			return
		}
		c.retryWaitMin = floor
		if ceiling >= floor {
			c.retryWaitMax = ceiling
		}
	}
}

// WithUserAgent replaces the "molscene-go-sdk/<version>" User-Agent.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua == "" {
			return
		}
		c.userAgent = ua
	}
}
