package ports

import (
	"context"

	"github.com/wadjakorntonsri/wedding-invite/pkg/core/domain"
)

// VisitorStore is a bounded append log of visits.
// Read-modify-write implementations are not atomic across concurrent requests.
type VisitorStore interface {
	// Backend is the tag reported to API callers ("kv", "sql", "json-file", "logs")
	Backend() string
	// Append stores visit and returns the tag of the backend that accepted it
	Append(ctx context.Context, visit domain.Visit) (string, error)
	ReadAll(ctx context.Context) (domain.Snapshot, error)
	Clear(ctx context.Context) error
}

// VisitorService defines the tracking business logic
type VisitorService interface {
	Track(ctx context.Context, in domain.TrackInput, meta domain.RequestMeta) (*domain.TrackResult, error)
	List(ctx context.Context) (*domain.VisitorList, error)
	Clear(ctx context.Context) error
	Import(ctx context.Context, visits []domain.Visit) (int, error)
}
