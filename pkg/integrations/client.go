package integrations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/matzehuels/catalogcheck/pkg/cache"
	"github.com/matzehuels/catalogcheck/pkg/observability"
)

// maxBodySize bounds how much of a response body is read.
const maxBodySize = 16 << 20

// Client provides shared HTTP functionality for all repository clients.
// It handles caching, authentication, and common request headers.
//
// Client is safe for concurrent use.
type Client struct {
	http    *http.Client
	cache   cache.Cache
	prefix  string
	ttl     time.Duration
	headers map[string]string
}

// NewClient creates a Client that stores response bodies in c under keys
// starting with prefix. Headers are applied to all requests made through this
// client; pass nil if no default headers are needed. A nil cache disables
// caching.
func NewClient(c cache.Cache, prefix string, ttl time.Duration, headers map[string]string) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Client{
		http:    NewHTTPClient(),
		cache:   c,
		prefix:  prefix,
		ttl:     ttl,
		headers: headers,
	}
}

// SetHTTPClient replaces the underlying HTTP client.
func (c *Client) SetHTTPClient(h *http.Client) { c.http = h }

// Fetch returns the body stored at path inside repo, consulting the cache
// first. Only successful responses are cached.
//
// A cache entry that cannot be read is returned as an error wrapping
// [cache.ErrCorrupted]; callers treat that as fatal.
func (c *Client) Fetch(ctx context.Context, repo Repository, path string) ([]byte, error) {
	return c.fetch(ctx, repo.Resolve(path), repo)
}

// Get performs a cached GET of rawURL and JSON-decodes the response into v.
// Decoding failures are reported as [ErrMalformed].
func (c *Client) Get(ctx context.Context, rawURL string, v any) error {
	data, err := c.fetch(ctx, rawURL, Repository{URL: rawURL})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformed, rawURL, err)
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, rawURL string, repo Repository) ([]byte, error) {
	key := cache.Key(c.prefix, rawURL)
	store := cache.Scoped(c.cache, repo.CacheScope())

	data, ok, err := store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if ok {
		observability.Cache().OnCacheHit(ctx, c.prefix)
		return data, nil
	}
	observability.Cache().OnCacheMiss(ctx, c.prefix)

	data, err = c.doRequest(ctx, rawURL, repo)
	if err != nil {
		return nil, err
	}
	if err := store.Set(ctx, key, data, c.ttl); err == nil {
		observability.Cache().OnCacheSet(ctx, c.prefix, len(data))
	}
	return data, nil
}

func (c *Client) doRequest(ctx context.Context, rawURL string, repo Repository) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range repo.Headers {
		req.Header.Set(k, v)
	}
	if repo.Username != "" || repo.Password != "" {
		req.SetBasicAuth(repo.Username, repo.Password)
	}

	host, path := requestTarget(req.URL)
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		if ctxErr := ctx.Err(); errors.Is(ctxErr, context.Canceled) {
			return nil, ctxErr
		}
		return nil, cache.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, fmt.Errorf("%w: %s", err, rawURL)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, cache.Retryable(fmt.Errorf("%w: reading %s: %v", ErrNetwork, rawURL, err))
	}
	return data, nil
}

func requestTarget(u *url.URL) (host, path string) {
	if u == nil {
		return "", ""
	}
	return u.Host, u.Path
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests || code >= 500:
		return cache.Retryable(fmt.Errorf("%w: status %d", ErrNetwork, code))
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
