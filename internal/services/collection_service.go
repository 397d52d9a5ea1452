package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"portfolio/internal/models"
	"portfolio/internal/repositories"
)

// ErrNotFound is returned when a lookup matches no document.
var ErrNotFound = errors.New("document not found")

// DefaultStorageTimeout bounds a single storage call when none is configured.
const DefaultStorageTimeout = 5 * time.Second

// CollectionService handles list/create/lookup for one entity type.
type CollectionService[T models.Entity] struct {
	repo    repositories.Repository[T]
	timeout time.Duration
	logger  *zap.Logger
}

// NewCollectionService creates a CollectionService. Every storage call runs
// under timeout.
func NewCollectionService[T models.Entity](repo repositories.Repository[T], timeout time.Duration, logger *zap.Logger) *CollectionService[T] {
	if timeout <= 0 {
		timeout = DefaultStorageTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CollectionService[T]{
		repo:    repo,
		timeout: timeout,
		logger:  logger.With(zap.String("collection", models.CollectionOf[T]())),
	}
}

// List retrieves up to limit documents matching filter.
func (s *CollectionService[T]) List(ctx context.Context, filter repositories.Filter, limit int) ([]models.Document[T], error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	docs, err := s.repo.Find(ctx, filter, limit)
	if err != nil {
		s.logger.Error("list documents failed", zap.Any("filter", filter), zap.Int("limit", limit), zap.Error(err))
		return nil, err
	}
	return docs, nil
}

// Create persists an already validated entity and returns its identifier.
// Identical submissions create separate documents.
func (s *CollectionService[T]) Create(ctx context.Context, entity *T) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	id, err := s.repo.Create(ctx, entity)
	if err != nil {
		s.logger.Error("create document failed", zap.Error(err))
		return "", err
	}
	s.logger.Info("document created", zap.String("id", id))
	return id, nil
}

// FindOne returns the first document matching filter in insertion order, or
// ErrNotFound.
func (s *CollectionService[T]) FindOne(ctx context.Context, filter repositories.Filter) (*models.Document[T], error) {
	docs, err := s.List(ctx, filter, 1)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrNotFound
	}
	return &docs[0], nil
}
