package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"valence-go/internal/config"
)

func TestRegisterRoutes_Wiring(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer upstream.Close()

	svc := newTestProxyService(t, upstream.URL, false)
	cfg := &config.Config{Auth: config.AuthConfig{Mode: "bearer"}}

	proxy := NewProxyHandler(svc, discardLogger())
	health := NewHealthHandler(cfg, svc, "test")

	e := echo.New()
	RegisterRoutes(e, proxy, health)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"GET /healthz", http.MethodGet, "/healthz", http.StatusOK},
		{"GET /proxy/status", http.MethodGet, "/proxy/status", http.StatusOK},
		{"GET versions", http.MethodGet, "/d2l/api/versions/", http.StatusOK},
		{"GET lp whoami", http.MethodGet, "/d2l/api/lp/1.4/users/whoami", http.StatusOK},
		{"POST le grades", http.MethodPost, "/d2l/api/le/1.0/6606/grades/", http.StatusOK},
		{"DELETE lr object", http.MethodDelete, "/d2l/api/lr/1.0/objects/3/1/", http.StatusOK},
		{"unknown family", http.MethodGet, "/d2l/api/ext/1.0/x", http.StatusNotFound},
		{"GET /unknown returns 404", http.MethodGet, "/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, http.NoBody)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
