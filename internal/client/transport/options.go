package transport

import (
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/userdesk/internal/logging"
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithHeader adds a default header sent on every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers.Add(key, value)
	}
}

func WithLogger(l logging.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

func WithResponseHook(h ResponseHook) Option {
	return func(c *Client) {
		c.hooks = append(c.hooks, h)
	}
}

// RequestOption configures a single call.
type RequestOption func(*requestOptions)

type requestOptions struct {
	query     url.Values
	skipHooks bool
}

// WithQuery appends query parameters to the request URL.
func WithQuery(q url.Values) RequestOption {
	return func(o *requestOptions) {
		o.query = q
	}
}

// SkipHooks suppresses response hooks for this call. Used for the login
// exchange, whose rejections are not session expiry.
func SkipHooks() RequestOption {
	return func(o *requestOptions) {
		o.skipHooks = true
	}
}
