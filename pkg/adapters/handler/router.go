package handler

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wadjakorntonsri/wedding-invite/pkg/config"
	"github.com/wadjakorntonsri/wedding-invite/pkg/core/domain"
	"github.com/wadjakorntonsri/wedding-invite/pkg/ports"
	"go.uber.org/zap"
)

// NewRouter creates and configures the main application router
func NewRouter(cfg *config.Config, service ports.VisitorService, logger *zap.Logger) http.Handler {
	h := NewHTTPHandler(service, cfg.BaseURL, logger)
	mw := NewMiddleware(cfg, logger)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		res := map[string]string{
			"message": "ok",
		}
		_ = json.NewEncoder(w).Encode(&res)
	})
	if cfg.DeploymentMode == string(domain.ModeLocal) {
		mux.Handle("GET /metrics", promhttp.Handler())
	}

	// Public: the invitation page reports visits here
	mux.Handle("/api/track", mw.CORS("GET, POST, OPTIONS", Methods{
		http.MethodPost: h.Track,
	}))

	// Admin
	mux.Handle("/api/visitors", mw.CORS("GET, POST, DELETE, OPTIONS", Methods{
		http.MethodGet:    mw.AdminAuth(h.ListVisitors),
		http.MethodDelete: mw.AdminAuth(h.ClearVisitors),
	}))
	mux.Handle("/api/guest-links", mw.CORS("POST, OPTIONS", Methods{
		http.MethodPost: mw.AdminAuth(h.CreateGuestLink),
	}))

	return mw.Recover(mw.Metrics(mux))
}
