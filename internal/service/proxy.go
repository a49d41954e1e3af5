// Package service implements the signing proxy: local requests to /d2l/api
// routes are filtered, signed with the configured auth context and forwarded.
package service

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"valence-go/internal/auth"
	"valence-go/internal/client"
	"valence-go/internal/model"
)

// ErrRouteNotAllowed is returned for paths outside the forwarded API families.
var ErrRouteNotAllowed = errors.New("route is not forwarded by this proxy")

// allowedFamilies are the product components the proxy forwards.
var allowedFamilies = map[string]bool{
	"lp": true,
	"le": true,
	"lr": true,
	"eP": true,
}

// forwardableRequestHeaders are the only request headers forwarded upstream.
var forwardableRequestHeaders = []string{
	"Accept",
	"Accept-Encoding",
	"Accept-Language",
	"Content-Type",
	"Content-Length",
}

// forwardableResponseHeaders are the only response headers forwarded to the client.
var forwardableResponseHeaders = map[string]bool{
	"Content-Type":        true,
	"Content-Length":      true,
	"Content-Encoding":    true,
	"Content-Disposition": true,
	"Cache-Control":       true,
	"Date":                true,
	"X-Request-Id":        true,
}

// signatureParams are the ID/key signing query parameters. Callers cannot
// supply their own; the auth context adds them when it signs.
var signatureParams = []string{"x_a", "x_b", "x_c", "x_d", "x_t"}

// ProxyService handles the forwarding logic for proxy requests.
type ProxyService struct {
	client *client.Client
	uc     auth.Context
	logger *slog.Logger
}

// NewProxyService creates a ProxyService that signs with uc.
func NewProxyService(c *client.Client, uc auth.Context, logger *slog.Logger) *ProxyService {
	return &ProxyService{
		client: c,
		uc:     uc,
		logger: logger.With("component", "proxy_service"),
	}
}

// Target returns scheme://host of the LMS requests are forwarded to.
func (s *ProxyService) Target() string {
	return s.uc.Scheme() + "://" + s.uc.Host()
}

// Anonymous reports whether forwarded requests go out without credentials.
func (s *ProxyService) Anonymous() bool {
	return s.uc.IsAnonymous()
}

// Forward signs pr and sends it to the LMS. The caller is responsible for
// closing the response body.
//
// Only version discovery and the lp, le, lr and eP families are forwarded;
// anything else fails with ErrRouteNotAllowed. An anonymous context reaching
// a non-public route fails with client.ErrInvalidContext.
func (s *ProxyService) Forward(pr *model.ProxyRequest) (*model.Response, error) {
	if !Allowed(pr.Path) {
		return nil, fmt.Errorf("%s: %w", pr.Path, ErrRouteNotAllowed)
	}

	header := s.filterRequestHeaders(pr.Header)
	req := model.Request{
		Method: pr.Method,
		Route:  pr.Path,
		Query:  stripSignature(pr.Query),
		Header: header,
		Body:   pr.Body,
	}
	if n, err := strconv.ParseInt(header.Get("Content-Length"), 10, 64); err == nil {
		req.ContentLength = n
	}
	if pr.Body == http.NoBody {
		req.Body = nil
	}

	s.logger.Debug("forwarding request",
		"method", pr.Method,
		"path", pr.Path,
	)

	resp, err := s.client.Stream(pr.Ctx, s.uc, req)
	if err != nil {
		return nil, fmt.Errorf("forward to valence: %w", err)
	}

	resp.Header = s.filterResponseHeaders(resp.Header)
	return resp, nil
}

// Allowed reports whether path is a route the proxy forwards. Paths with
// "." or ".." segments are never forwarded.
func Allowed(path string) bool {
	if hasDotSegment(path) {
		return false
	}
	if client.PublicRoute(path) {
		return true
	}
	rest, ok := strings.CutPrefix(path, "/d2l/api/")
	if !ok {
		return false
	}
	family, _, _ := strings.Cut(rest, "/")
	return allowedFamilies[family]
}

func hasDotSegment(path string) bool {
	for seg := range strings.SplitSeq(path, "/") {
		if seg == "." || seg == ".." {
			return true
		}
	}
	return false
}

func stripSignature(q url.Values) url.Values {
	out := make(url.Values, len(q))
	for k, v := range q {
		out[k] = v
	}
	for _, k := range signatureParams {
		out.Del(k)
	}
	return out
}

func (s *ProxyService) filterRequestHeaders(src http.Header) http.Header {
	dst := make(http.Header)
	for _, key := range forwardableRequestHeaders {
		if vals := src.Values(key); len(vals) > 0 {
			dst[http.CanonicalHeaderKey(key)] = vals
		}
	}
	return dst
}

func (s *ProxyService) filterResponseHeaders(src http.Header) http.Header {
	dst := make(http.Header)
	for key, vals := range src {
		if forwardableResponseHeaders[http.CanonicalHeaderKey(key)] {
			dst[key] = vals
		}
	}
	return dst
}
