package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wadjakorntonsri/wedding-invite/pkg/core/domain"
	"github.com/wadjakorntonsri/wedding-invite/pkg/ports"
)

const (
	Backend         = "json-file"
	DefaultCapacity = 500
)

// Store keeps visitors in a single JSON array on disk, newest first.
type Store struct {
	path     string
	capacity int
}

// New returns a store backed by path, creating the file with an empty list if absent
func New(path string, capacity int) (*Store, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	s := &Store{path: path, capacity: capacity}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if dir := filepath.Dir(path); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
		if err := s.write([]domain.Visit{}); err != nil {
			return nil, fmt.Errorf("init %s: %w", path, err)
		}
	} else if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Backend() string { return Backend }

func (s *Store) read() ([]domain.Visit, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []domain.Visit{}, nil
	}
	if err != nil {
		return nil, err
	}

	var visits []domain.Visit
	if err := json.Unmarshal(data, &visits); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	if visits == nil {
		visits = []domain.Visit{}
	}
	return visits, nil
}

func (s *Store) write(visits []domain.Visit) error {
	data, err := json.MarshalIndent(visits, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

func (s *Store) Append(_ context.Context, visit domain.Visit) (string, error) {
	visits, err := s.read()
	if err != nil {
		return "", err
	}

	visits = append([]domain.Visit{visit}, visits...)
	if len(visits) > s.capacity {
		visits = visits[:s.capacity]
	}

	if err := s.write(visits); err != nil {
		return "", fmt.Errorf("failed to save visitor: %w", err)
	}
	return Backend, nil
}

func (s *Store) ReadAll(_ context.Context) (domain.Snapshot, error) {
	visits, err := s.read()
	if err != nil {
		return domain.Snapshot{}, err
	}
	return domain.Snapshot{Backend: Backend, Visits: visits, NewestFirst: true, Queryable: true}, nil
}

func (s *Store) Clear(_ context.Context) error {
	return s.write([]domain.Visit{})
}

// Ensure interface compliance
var _ ports.VisitorStore = (*Store)(nil)
