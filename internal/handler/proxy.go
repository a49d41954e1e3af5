package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"regexp"

	"github.com/labstack/echo/v4"

	"valence-go/internal/client"
	"valence-go/internal/model"
	"valence-go/internal/service"
)

// credentialPattern matches signature parameters and access tokens in URLs
// embedded in error messages.
var credentialPattern = regexp.MustCompile(`(?i)\b(x_[abcd]=|access_token=)[^&\s"]+`)

// ProxyHandler signs local /d2l/api requests and forwards them to the LMS.
type ProxyHandler struct {
	service *service.ProxyService
	logger  *slog.Logger
}

// NewProxyHandler creates a ProxyHandler.
func NewProxyHandler(svc *service.ProxyService, logger *slog.Logger) *ProxyHandler {
	return &ProxyHandler{
		service: svc,
		logger:  logger.With("component", "proxy_handler"),
	}
}

// Handle forwards the request through the signing service and streams the
// LMS response back unchanged.
func (h *ProxyHandler) Handle(c echo.Context) error {
	req := c.Request()

	pr := &model.ProxyRequest{
		Ctx:    req.Context(),
		Method: req.Method,
		Path:   req.URL.Path,
		Query:  req.URL.Query(),
		Header: req.Header,
		Body:   req.Body,
	}

	resp, err := h.service.Forward(pr)
	if err != nil {
		return h.mapError(c, err)
	}
	defer func() { _ = resp.Body.Close() }()

	for key, vals := range resp.Header {
		for _, v := range vals {
			c.Response().Header().Add(key, v)
		}
	}

	c.Response().WriteHeader(resp.StatusCode)

	// The status line is already sent, so a failed copy leaves the client
	// with a truncated body.
	if _, err := io.Copy(c.Response(), resp.Body); err != nil {
		h.logger.Error("streaming response body",
			"err", err,
			"path", req.URL.Path,
		)
	}

	return nil
}

func (h *ProxyHandler) mapError(c echo.Context, err error) error {
	h.logger.Error("proxy error",
		"err", sanitizeError(err),
		"path", c.Request().URL.Path,
	)

	if errors.Is(err, service.ErrRouteNotAllowed) {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "route is not forwarded: only /d2l/api/{lp,le,lr,eP}/ and version discovery",
		})
	}

	if errors.Is(err, client.ErrInvalidContext) {
		return c.JSON(http.StatusForbidden, map[string]string{
			"error": "proxy runs anonymously: only version discovery routes are available",
		})
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return c.JSON(http.StatusGatewayTimeout, map[string]string{
			"error": "valence request timed out",
		})
	}

	if errors.Is(err, context.Canceled) {
		return c.JSON(http.StatusBadGateway, map[string]string{
			"error": "client disconnected",
		})
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return c.JSON(http.StatusBadGateway, map[string]string{
			"error": "valence host unreachable",
		})
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return c.JSON(http.StatusBadGateway, map[string]string{
			"error": "valence connection failed",
		})
	}

	return c.JSON(http.StatusBadGateway, map[string]string{
		"error": "valence request failed",
	})
}

// sanitizeError redacts signatures and tokens from error messages that may
// contain signed URLs.
func sanitizeError(err error) string {
	return credentialPattern.ReplaceAllString(err.Error(), "${1}[REDACTED]")
}
