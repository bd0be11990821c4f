package repository

import (
	"context"
	"fmt"

	"github.com/wadjakorntonsri/wedding-invite/pkg/adapters/repository/file"
	"github.com/wadjakorntonsri/wedding-invite/pkg/adapters/repository/kv"
	"github.com/wadjakorntonsri/wedding-invite/pkg/adapters/repository/logstore"
	"github.com/wadjakorntonsri/wedding-invite/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/wedding-invite/pkg/config"
	"github.com/wadjakorntonsri/wedding-invite/pkg/core/domain"
	"github.com/wadjakorntonsri/wedding-invite/pkg/ports"
	"go.uber.org/zap"
)

// Open builds the visitor store selected by cfg.StoreBackend.
// Durable backends that cannot be reached at start degrade to the log-only store.
// The returned close function is never nil.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ports.VisitorStore, func() error, error) {
	logs := logstore.New(logger)
	noop := func() error { return nil }

	switch cfg.StoreBackend {
	case config.BackendKV:
		client, err := kv.Connect(ctx, cfg.KVURL)
		if err != nil {
			logger.Warn("kv store unavailable, using logs only", zap.Error(err))
			return logs, noop, nil
		}
		store := kv.New(client, cfg.KVKey, kv.DefaultCapacity)
		return NewFallback(store, logs, logger), store.Close, nil

	case config.BackendSQL:
		store, err := sqlite.NewSQLiteRepository(cfg.DatabaseURL, sqlite.DefaultCapacity)
		if err != nil {
			logger.Warn("sql store unavailable, using logs only", zap.Error(err))
			return logs, noop, nil
		}
		return NewFallback(store, logs, logger), store.Close, nil

	case config.BackendFile:
		store, err := file.New(cfg.VisitorsFile, file.DefaultCapacity)
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil

	case config.BackendLogs:
		return logs, noop, nil
	}

	return nil, noop, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

// Fallback serves appends and reads from primary and, when primary fails,
// from secondary instead of failing the request. Clear is not degraded:
// reporting a clear that did not happen would be wrong.
type Fallback struct {
	primary   ports.VisitorStore
	secondary ports.VisitorStore
	logger    *zap.Logger
}

func NewFallback(primary, secondary ports.VisitorStore, logger *zap.Logger) *Fallback {
	return &Fallback{primary: primary, secondary: secondary, logger: logger}
}

func (f *Fallback) Backend() string { return f.primary.Backend() }

func (f *Fallback) Append(ctx context.Context, visit domain.Visit) (string, error) {
	tag, err := f.primary.Append(ctx, visit)
	if err == nil {
		return tag, nil
	}
	f.logger.Warn("backing store unavailable, degrading",
		zap.String("backend", f.primary.Backend()),
		zap.String("fallback", f.secondary.Backend()),
		zap.Error(err),
	)
	return f.secondary.Append(ctx, visit)
}

func (f *Fallback) ReadAll(ctx context.Context) (domain.Snapshot, error) {
	snap, err := f.primary.ReadAll(ctx)
	if err == nil {
		return snap, nil
	}
	f.logger.Warn("backing store unavailable, degrading",
		zap.String("backend", f.primary.Backend()),
		zap.String("fallback", f.secondary.Backend()),
		zap.Error(err),
	)
	return f.secondary.ReadAll(ctx)
}

func (f *Fallback) Clear(ctx context.Context) error {
	return f.primary.Clear(ctx)
}

// Ensure interface compliance
var _ ports.VisitorStore = (*Fallback)(nil)
