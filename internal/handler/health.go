package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"valence-go/internal/config"
	"valence-go/internal/service"
)

// Version is a string type for dependency injection of the build version.
type Version string

// HealthHandler serves health and status endpoints.
type HealthHandler struct {
	cfg     *config.Config
	proxy   *service.ProxyService
	version Version
}

type statusResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Valence   string `json:"valence"`
	AuthMode  string `json:"auth_mode"`
	Anonymous bool   `json:"anonymous"`
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(cfg *config.Config, proxy *service.ProxyService, v Version) *HealthHandler {
	return &HealthHandler{cfg: cfg, proxy: proxy, version: v}
}

// Healthz returns a simple OK response for liveness checks.
func (h *HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Status reports the build version and which LMS requests are signed for.
func (h *HealthHandler) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, statusResponse{
		Status:    "ok",
		Version:   string(h.version),
		Valence:   h.proxy.Target(),
		AuthMode:  h.cfg.Auth.Mode,
		Anonymous: h.proxy.Anonymous(),
	})
}
