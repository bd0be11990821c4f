package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/wadjakorntonsri/wedding-invite/pkg/core/domain"
	"github.com/wadjakorntonsri/wedding-invite/pkg/ports"
)

const (
	Backend         = "kv"
	DefaultCapacity = 1000
	DefaultKey      = "wedding_visitors"
)

// Store keeps the whole visitor list as one JSON value under a single key,
// oldest first. Every append is a read-modify-write of that value.
type Store struct {
	client   *redis.Client
	key      string
	capacity int
}

func New(client *redis.Client, key string, capacity int) *Store {
	if key == "" {
		key = DefaultKey
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{client: client, key: key, capacity: capacity}
}

// Connect parses a redis:// or rediss:// URL and verifies the server answers
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid kv url: %w", err)
	}

	client := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to kv: %w", err)
	}
	return client, nil
}

func (s *Store) Backend() string { return Backend }

func (s *Store) load(ctx context.Context) ([]domain.Visit, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []domain.Visit{}, nil
	}
	if err != nil {
		return nil, err
	}

	var visits []domain.Visit
	if err := json.Unmarshal(raw, &visits); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.key, err)
	}
	if visits == nil {
		visits = []domain.Visit{}
	}
	return visits, nil
}

func (s *Store) Append(ctx context.Context, visit domain.Visit) (string, error) {
	visits, err := s.load(ctx)
	if err != nil {
		return "", err
	}

	visits = append(visits, visit)
	if len(visits) > s.capacity {
		visits = visits[len(visits)-s.capacity:]
	}

	payload, err := json.Marshal(visits)
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, s.key, payload, 0).Err(); err != nil {
		return "", err
	}
	return Backend, nil
}

func (s *Store) ReadAll(ctx context.Context) (domain.Snapshot, error) {
	visits, err := s.load(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return domain.Snapshot{Backend: Backend, Visits: visits, Queryable: true}, nil
}

func (s *Store) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}

// Ensure interface compliance
var _ ports.VisitorStore = (*Store)(nil)
