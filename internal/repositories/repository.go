package repositories

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"

	"portfolio/internal/config"
	"portfolio/internal/models"
)

// ErrStorageUnavailable reports that the document store could not be reached.
var ErrStorageUnavailable = errors.New("storage unavailable")

// Filter restricts a query to documents whose fields equal the given values.
// Keys are the entity's JSON field names.
type Filter map[string]any

// Repository defines data access for one entity type's collection.
type Repository[T models.Entity] interface {
	// Create persists entity and returns the identifier the store assigned.
	Create(ctx context.Context, entity *T) (string, error)
	// Find returns up to limit documents matching filter in insertion order.
	// A collection that does not exist yields an empty slice.
	Find(ctx context.Context, filter Filter, limit int) ([]models.Document[T], error)
}

// Database is the process-wide handle to the document store.
type Database interface {
	Driver() string
	Ping(ctx context.Context) error
	CollectionNames(ctx context.Context) ([]string, error)
	Close(ctx context.Context) error
}

// NewRepository returns the Repository for T backed by db.
func NewRepository[T models.Entity](db Database) (Repository[T], error) {
	switch d := db.(type) {
	case *MongoDatabase:
		return NewMongoRepository[T](d), nil
	case *GORMDatabase:
		return NewGORMRepository[T](d)
	case *MemoryDatabase:
		return NewMemoryRepository[T](d), nil
	case *UnavailableDatabase:
		return unavailableRepository[T]{reason: d.reason}, nil
	default:
		return nil, fmt.Errorf("unsupported database %T", db)
	}
}

// Open connects to the store named by cfg.URL, choosing the backend from the
// URL scheme. An empty URL yields an UnavailableDatabase.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (Database, error) {
	url := strings.TrimSpace(cfg.URL)
	switch {
	case url == "":
		return NewUnavailableDatabase("DATABASE_URL is not set"), nil
	case cfg.IsMongo():
		return OpenMongo(ctx, url, cfg.Name)
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return OpenGORM(postgres.Open(url), "postgres", logger)
	case strings.HasPrefix(url, "sqlite:"):
		return OpenGORM(sqlite.Open(sqlitePath(url)), "sqlite", logger)
	case strings.HasPrefix(url, "memory://"):
		return NewMemoryDatabase(), nil
	default:
		return nil, fmt.Errorf("unsupported DATABASE_URL scheme in %q", redact(url))
	}
}

// sqlitePath turns sqlite://path, sqlite:path or sqlite::memory: into a
// driver DSN. In-memory databases use a shared cache so every pooled
// connection sees the same data.
func sqlitePath(url string) string {
	path := strings.TrimPrefix(url, "sqlite:")
	path = strings.TrimPrefix(path, "//")
	if path == ":memory:" {
		return "file::memory:?cache=shared"
	}
	return path
}

// Available reports whether db is backed by a real store.
func Available(db Database) bool {
	if db == nil {
		return false
	}
	_, unavailable := db.(*UnavailableDatabase)
	return !unavailable
}

// isUnreachable reports errors that mean the store itself could not be
// reached, as opposed to a rejected operation.
func isUnreachable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func wrapUnreachable(op string, err error) error {
	if isUnreachable(err) {
		return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// redact drops credentials from a connection URL for error messages.
func redact(url string) string {
	scheme, rest, ok := strings.Cut(url, "://")
	if !ok {
		return "<invalid>"
	}
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		rest = "***@" + rest[at+1:]
	}
	return scheme + "://" + rest
}
