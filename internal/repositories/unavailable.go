package repositories

import (
	"context"
	"fmt"

	"portfolio/internal/models"
)

// UnavailableDatabase stands in when no store is configured or the configured
// one could not be reached at startup. Every operation fails with
// ErrStorageUnavailable.
type UnavailableDatabase struct {
	reason string
}

// NewUnavailableDatabase records why no store is available.
func NewUnavailableDatabase(reason string) *UnavailableDatabase {
	return &UnavailableDatabase{reason: reason}
}

func (d *UnavailableDatabase) Driver() string { return "none" }

// Reason explains why the store is unavailable.
func (d *UnavailableDatabase) Reason() string { return d.reason }

func (d *UnavailableDatabase) Ping(context.Context) error {
	return fmt.Errorf("%w: %s", ErrStorageUnavailable, d.reason)
}

func (d *UnavailableDatabase) CollectionNames(context.Context) ([]string, error) {
	return nil, fmt.Errorf("%w: %s", ErrStorageUnavailable, d.reason)
}

func (d *UnavailableDatabase) Close(context.Context) error { return nil }

type unavailableRepository[T models.Entity] struct {
	reason string
}

func (r unavailableRepository[T]) Create(context.Context, *T) (string, error) {
	return "", fmt.Errorf("%w: %s", ErrStorageUnavailable, r.reason)
}

func (r unavailableRepository[T]) Find(context.Context, Filter, int) ([]models.Document[T], error) {
	return nil, fmt.Errorf("%w: %s", ErrStorageUnavailable, r.reason)
}
