package logstore

import (
	"context"
	"time"

	"github.com/wadjakorntonsri/wedding-invite/pkg/core/domain"
	"github.com/wadjakorntonsri/wedding-invite/pkg/ports"
	"go.uber.org/zap"
)

const Backend = "logs"

// Store writes each visit to the log stream only. Nothing can be read back.
type Store struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Store {
	return &Store{logger: logger}
}

func (s *Store) Backend() string { return Backend }

func (s *Store) Append(_ context.Context, v domain.Visit) (string, error) {
	s.logger.Info("wedding visitor",
		zap.String("id", v.ID),
		zap.String("guest", v.GuestName),
		zap.String("time", v.Timestamp.Format(time.RFC3339)),
		zap.String("city", v.Location.City),
		zap.String("region", v.Location.Region),
		zap.String("country", v.Location.Country),
		zap.String("device", string(v.DeviceType)),
		zap.String("ip", v.OriginAddress),
		zap.String("user_agent", v.UserAgent),
		zap.String("referrer", v.Referrer),
	)
	return Backend, nil
}

// ReadAll reports an empty, non-queryable snapshot. It does not mean no visits happened.
func (s *Store) ReadAll(_ context.Context) (domain.Snapshot, error) {
	return domain.Snapshot{Backend: Backend, Visits: []domain.Visit{}}, nil
}

func (s *Store) Clear(_ context.Context) error {
	s.logger.Info("clear requested on log-only store, nothing to remove")
	return nil
}

// Ensure interface compliance
var _ ports.VisitorStore = (*Store)(nil)
