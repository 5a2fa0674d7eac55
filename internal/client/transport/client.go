package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/userdesk/internal/common"
	"github.com/dmitrijs2005/userdesk/internal/logging"
	"github.com/google/uuid"
)

// CredentialSource yields the current bearer token. store.Store satisfies it.
type CredentialSource interface {
	Get(ctx context.Context) (token string, ok bool, err error)
}

// ResponseInfo describes a completed exchange for response hooks.
// Credential is the token that was attached to the request, empty if none.
type ResponseInfo struct {
	Method     string
	Path       string
	StatusCode int
	Credential string
}

// ResponseHook observes every response before its status is interpreted.
type ResponseHook func(ctx context.Context, info ResponseInfo)

// Client performs JSON calls against one base endpoint.
type Client struct {
	baseURL string
	http    *http.Client
	headers http.Header
	creds   CredentialSource
	log     logging.Logger

	mu    sync.RWMutex
	hooks []ResponseHook
}

// New builds a Client for baseURL (for example "https://reqres.in/api").
func New(baseURL string, creds CredentialSource, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: scheme and host are required", baseURL)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		headers: http.Header{},
		creds:   creds,
		log:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the configured endpoint.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// AddResponseHook registers h for all subsequent responses.
func (c *Client) AddResponseHook(h ResponseHook) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hooks = append(c.hooks, h)
}

// Do sends method path with an optional JSON body and decodes a 2xx JSON
// response into out when out is non-nil and the body is not empty.
//
// Non-2xx responses are returned as *StatusError. Network failures are
// returned wrapped, so errors.Is/As still match the underlying error.
func (c *Client) Do(ctx context.Context, method, path string, body, out any, opts ...RequestOption) error {
	ro := requestOptions{}
	for _, opt := range opts {
		opt(&ro)
	}

	target := c.baseURL + path
	if len(ro.query) > 0 {
		target += "?" + ro.query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s request: %w", method, path, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build %s %s request: %w", method, path, err)
	}

	for k, vs := range c.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	requestID := uuid.NewString()
	req.Header.Set(common.RequestIDHeaderName, requestID)

	// The credential is read at send time, so login and logout take effect
	// for the very next call without rebuilding the client.
	credential, err := c.credential(ctx)
	if err != nil {
		return err
	}
	if credential != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+credential)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug(ctx, "request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s response: %w", method, path, err)
	}

	c.log.Debug(ctx, "request completed",
		"method", method, "path", path, "status", resp.StatusCode,
		"request_id", requestID, "authorized", credential != "", "elapsed", time.Since(started))

	if !ro.skipHooks {
		c.runHooks(ctx, ResponseInfo{Method: method, Path: path, StatusCode: resp.StatusCode, Credential: credential})
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newStatusError(method, path, resp.StatusCode, raw)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *Client) credential(ctx context.Context) (string, error) {
	if c.creds == nil {
		return "", nil
	}
	token, ok, err := c.creds.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("read credential: %w", err)
	}
	if !ok {
		return "", nil
	}
	return token, nil
}

func (c *Client) runHooks(ctx context.Context, info ResponseInfo) {
	c.mu.RLock()
	hooks := make([]ResponseHook, len(c.hooks))
	copy(hooks, c.hooks)
	c.mu.RUnlock()

	for _, h := range hooks {
		h(ctx, info)
	}
}
