// Package client is the transport wrapper for the Valence REST API: it builds
// absolute URLs from an auth context, signs and sends requests, classifies
// non-2xx responses as errors and negotiates the response body.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"valence-go/internal/auth"
	"valence-go/internal/config"
	"valence-go/internal/metrics"
	"valence-go/internal/model"
)

// Client sends requests to a Valence instance over a pooled connection set.
// It is safe for concurrent use; Close releases idle connections at shutdown.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *metrics.Metrics
	userAgent  string
}

// New creates a Client with connection pooling and timeouts.
// The metrics parameter is optional; pass nil to disable upstream metrics recording.
func New(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) *Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        cfg.Client.IdleConnections,
		MaxIdleConnsPerHost: cfg.Client.IdleConnections,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}

	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   time.Duration(cfg.Client.TimeoutSeconds) * time.Second,
		},
		logger:    logger.With("component", "valence_client"),
		metrics:   m,
		userAgent: cfg.Client.UserAgent,
	}
}

// Close releases idle pooled connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// Get performs an authenticated GET.
func (c *Client) Get(ctx context.Context, uc auth.Context, route string, opts ...Option) (*Content, error) {
	return c.call(ctx, uc, http.MethodGet, route, nil, true, opts)
}

// Delete performs an authenticated DELETE.
func (c *Client) Delete(ctx context.Context, uc auth.Context, route string, opts ...Option) (*Content, error) {
	return c.call(ctx, uc, http.MethodDelete, route, nil, true, opts)
}

// DeleteWithBody performs an authenticated DELETE that carries a body.
func (c *Client) DeleteWithBody(ctx context.Context, uc auth.Context, route string, body *Body, opts ...Option) (*Content, error) {
	return c.call(ctx, uc, http.MethodDelete, route, body, true, opts)
}

// Post performs an authenticated POST. A nil body sends an empty request body.
func (c *Client) Post(ctx context.Context, uc auth.Context, route string, body *Body, opts ...Option) (*Content, error) {
	return c.call(ctx, uc, http.MethodPost, route, body, true, opts)
}

// Put performs an authenticated PUT.
func (c *Client) Put(ctx context.Context, uc auth.Context, route string, body *Body, opts ...Option) (*Content, error) {
	return c.call(ctx, uc, http.MethodPut, route, body, true, opts)
}

// GetAnonymous performs a GET that is allowed with an anonymous context.
// Only version discovery routes use it.
func (c *Client) GetAnonymous(ctx context.Context, uc auth.Context, route string, opts ...Option) (*Content, error) {
	return c.call(ctx, uc, http.MethodGet, route, nil, false, opts)
}

// PostAnonymous performs a POST that is allowed with an anonymous context.
func (c *Client) PostAnonymous(ctx context.Context, uc auth.Context, route string, body *Body, opts ...Option) (*Content, error) {
	return c.call(ctx, uc, http.MethodPost, route, body, false, opts)
}

func (c *Client) call(ctx context.Context, uc auth.Context, method, route string, body *Body, needAuth bool, opts []Option) (*Content, error) {
	if needAuth && uc.IsAnonymous() {
		return nil, fmt.Errorf("%s %s: %w", method, routePath(route), ErrInvalidContext)
	}
	o := Collect(opts)

	req, err := c.build(ctx, uc, method, route, body, o)
	if err != nil {
		return nil, err
	}

	resp, err := c.send(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if o.Debug != nil {
		o.Debug.AddResponse(resp.StatusCode, resp.Header, data)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPStatusError{
			Method:     method,
			Route:      req.URL.Path,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       data,
		}
	}

	return Negotiate(resp.Header.Get("Content-Type"), data)
}

// build composes scheme://host+route, merges query values (route values first,
// then options), sets headers and finally signs the request.
func (c *Client) build(ctx context.Context, uc auth.Context, method, route string, body *Body, o Options) (*http.Request, error) {
	u, err := url.Parse(uc.Scheme() + "://" + uc.Host() + route)
	if err != nil {
		return nil, fmt.Errorf("%w: route %q: %w", ErrMalformedInput, route, err)
	}
	q := u.Query()
	for k, v := range o.Query {
		q.Del(k)
		for _, s := range v {
			if s != "" {
				q.Add(k, s)
			}
		}
	}
	u.RawQuery = q.Encode()

	var rd io.Reader = http.NoBody
	if body != nil {
		rd = bytes.NewReader(body.Data)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil && body.ContentType != "" {
		req.Header.Set("Content-Type", body.ContentType)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	for k, v := range o.Header {
		req.Header[http.CanonicalHeaderKey(k)] = append([]string(nil), v...)
	}

	if err := uc.Sign(req); err != nil {
		return nil, err
	}
	if o.Debug != nil {
		o.Debug.AddRequest(req)
	}
	return req, nil
}

// Stream forwards a prepared request and returns the response with its body
// still open. Status codes are not classified. Anonymous contexts may only
// reach public routes.
func (c *Client) Stream(ctx context.Context, uc auth.Context, r model.Request) (*model.Response, error) {
	if uc.IsAnonymous() && !PublicRoute(r.Route) {
		return nil, fmt.Errorf("%s %s: %w", r.Method, r.Route, ErrInvalidContext)
	}

	u := url.URL{Scheme: uc.Scheme(), Host: uc.Host(), Path: r.Route, RawQuery: r.Query.Encode()}
	req, err := http.NewRequestWithContext(ctx, r.Method, u.String(), r.Body)
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}
	if r.Header != nil {
		req.Header = r.Header.Clone()
	}
	if r.Body != nil && r.ContentLength > 0 {
		req.ContentLength = r.ContentLength
	}
	if req.Header.Get("User-Agent") == "" && c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if err := uc.Sign(req); err != nil {
		return nil, err
	}

	resp, err := c.send(req) //nolint:bodyclose // body ownership transfers to caller via Response
	if err != nil {
		return nil, err
	}
	return &model.Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       resp.Body,
	}, nil
}

// send executes req, logging and recording upstream metrics. Transport errors
// are returned unchanged so callers can match them with errors.Is/As.
func (c *Client) send(req *http.Request) (*http.Response, error) {
	c.logger.Debug("valence request",
		"method", req.Method,
		"path", req.URL.Path,
	)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start).Seconds()

	method := metrics.NormalizeMethod(req.Method)
	family := metrics.Family(req.URL.Path)

	if c.metrics != nil {
		c.metrics.UpstreamDuration.WithLabelValues(method, family).Observe(duration)
	}
	if err != nil {
		c.logger.Debug("valence request failed", "method", req.Method, "path", req.URL.Path, "error", err)
		return nil, err
	}
	if c.metrics != nil {
		c.metrics.UpstreamResponses.WithLabelValues(method, family, strconv.Itoa(resp.StatusCode)).Inc()
	}
	return resp, nil
}

// PublicRoute reports whether route is a version discovery route that may be
// called without credentials.
func PublicRoute(route string) bool {
	p := routePath(route)
	for seg := range strings.SplitSeq(p, "/") {
		if seg == "." || seg == ".." {
			return false
		}
	}
	rest, ok := strings.CutPrefix(p, "/d2l/api/")
	if !ok {
		return false
	}
	if strings.HasPrefix(rest, "versions/") {
		return true
	}
	_, after, found := strings.Cut(rest, "/")
	return found && strings.HasPrefix(after, "versions/")
}

func routePath(route string) string {
	p, _, _ := strings.Cut(route, "?")
	return p
}
