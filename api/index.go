package handler

import (
	"context"
	"net/http"

	"github.com/wadjakorntonsri/wedding-invite/pkg/adapters/handler"
	"github.com/wadjakorntonsri/wedding-invite/pkg/adapters/repository"
	"github.com/wadjakorntonsri/wedding-invite/pkg/config"
	"github.com/wadjakorntonsri/wedding-invite/pkg/core/domain"
	"github.com/wadjakorntonsri/wedding-invite/pkg/core/services"
	"github.com/wadjakorntonsri/wedding-invite/pkg/logger"
)

var mux http.Handler

func init() {
	cfg, err := config.Load("hosted")
	if err != nil {
		panic(err)
	}

	// Vercel collects stdout, so the log-only backend is readable from the dashboard
	lg := logger.New(logger.Options{AppName: "wedding-tracker", Level: cfg.LogLevel})

	// Unreachable KV/SQL degrades to logs inside Open; only config errors land here
	store, _, err := repository.Open(context.Background(), cfg, lg)
	if err != nil {
		panic(err)
	}

	service := services.NewVisitorService(store, domain.DeploymentMode(cfg.DeploymentMode), lg)
	mux = handler.NewRouter(cfg, service, lg)
}

// Handler is the entrypoint for Vercel
func Handler(w http.ResponseWriter, r *http.Request) {
	mux.ServeHTTP(w, r)
}
