package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wadjakorntonsri/wedding-invite/pkg/adapters/handler"
	"github.com/wadjakorntonsri/wedding-invite/pkg/adapters/repository"
	"github.com/wadjakorntonsri/wedding-invite/pkg/config"
	"github.com/wadjakorntonsri/wedding-invite/pkg/core/domain"
	"github.com/wadjakorntonsri/wedding-invite/pkg/core/services"
	"github.com/wadjakorntonsri/wedding-invite/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load("local")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	lg := logger.New(logger.Options{AppName: "wedding-tracker", Level: cfg.LogLevel, FilePath: cfg.LogFile})
	defer lg.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize Repository
	store, closeStore, err := repository.Open(ctx, cfg, lg)
	if err != nil {
		lg.Fatal("failed to open visitor store", zap.Error(err))
	}
	defer closeStore()

	// Initialize Service + Router
	service := services.NewVisitorService(store, domain.DeploymentMode(cfg.DeploymentMode), lg)
	mux := handler.NewRouter(cfg, service, lg)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	lg.Info("wedding visitor tracking server starting",
		zap.String("addr", "http://localhost:"+cfg.Port),
		zap.String("mode", cfg.DeploymentMode),
		zap.String("env", cfg.AppEnv),
		zap.String("backend", store.Backend()),
		zap.Strings("endpoints", []string{
			"POST /api/track",
			"GET /api/visitors",
			"DELETE /api/visitors",
			"POST /api/guest-links",
			"GET /metrics",
		}),
	)
	if cfg.AdminPassword == config.DefaultAdminPassword {
		lg.Warn("ADMIN_PASSWORD is not set, the built-in default is in use")
	}

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		lg.Fatal("server stopped", zap.Error(err))
	}
	lg.Info("server stopped")
}
