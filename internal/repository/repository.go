package repository

import (
	"context"
	"errors"

	"tsnview/internal/domain"
)

// ErrNotFound is returned when a requested record is not stored
var ErrNotFound = errors.New("not found")

// Repository defines the interface for snapshot persistence
type Repository interface {
	// Save replaces the stored snapshot with snap
	Save(ctx context.Context, snap *domain.Snapshot) error

	// Read operations
	Load(ctx context.Context) (*domain.Snapshot, error)
	StreamPath(ctx context.Context, name string) ([]string, error)

	// Close releases resources
	Close() error
}
