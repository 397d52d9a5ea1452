package repositories

import (
	"context"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"portfolio/internal/models"
)

type memoryRecord struct {
	id        string
	createdAt time.Time
	data      any
}

// MemoryDatabase is an in-process document store. Collections are created on
// first insert and keep insertion order.
type MemoryDatabase struct {
	collections map[string][]memoryRecord
	mu          sync.RWMutex
}

// NewMemoryDatabase creates an empty MemoryDatabase.
func NewMemoryDatabase() *MemoryDatabase {
	return &MemoryDatabase{
		collections: make(map[string][]memoryRecord),
	}
}

func (d *MemoryDatabase) Driver() string { return "memory" }

func (d *MemoryDatabase) Ping(context.Context) error { return nil }

// CollectionNames returns the names of collections holding at least one document.
func (d *MemoryDatabase) CollectionNames(context.Context) ([]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make([]string, 0, len(d.collections))
	for name := range d.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (d *MemoryDatabase) Close(context.Context) error { return nil }

// MemoryRepository is an in-memory implementation of Repository.
type MemoryRepository[T models.Entity] struct {
	db         *MemoryDatabase
	collection string
}

// NewMemoryRepository creates a MemoryRepository over db.
func NewMemoryRepository[T models.Entity](db *MemoryDatabase) *MemoryRepository[T] {
	return &MemoryRepository[T]{
		db:         db,
		collection: models.CollectionOf[T](),
	}
}

// Create stores a copy of entity under a new uuid.
func (r *MemoryRepository[T]) Create(ctx context.Context, entity *T) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", wrapUnreachable("create "+r.collection, err)
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	record := memoryRecord{
		id:        uuid.New().String(),
		createdAt: time.Now().UTC(),
		data:      *entity,
	}
	r.db.collections[r.collection] = append(r.db.collections[r.collection], record)
	return record.id, nil
}

// Find returns matching documents in insertion order.
func (r *MemoryRepository[T]) Find(ctx context.Context, filter Filter, limit int) ([]models.Document[T], error) {
	if err := ctx.Err(); err != nil {
		return nil, wrapUnreachable("find "+r.collection, err)
	}

	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	docs := make([]models.Document[T], 0)
	for _, record := range r.db.collections[r.collection] {
		if limit > 0 && len(docs) >= limit {
			break
		}
		data := record.data.(T)
		ok, err := matches(data, filter)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		docs = append(docs, models.Document[T]{
			ID:        record.id,
			CreatedAt: record.createdAt,
			UpdatedAt: record.createdAt,
			Data:      data,
		})
	}
	return docs, nil
}

// matches compares filter values against the entity's JSON encoding so that
// keys mean the same thing they do for the other backends.
func matches(entity any, filter Filter) (bool, error) {
	if len(filter) == 0 {
		return true, nil
	}
	fields, err := jsonFields(entity)
	if err != nil {
		return false, err
	}
	for key, want := range filter {
		normalized, err := jsonValue(want)
		if err != nil {
			return false, err
		}
		if !reflect.DeepEqual(fields[key], normalized) {
			return false, nil
		}
	}
	return true, nil
}

func jsonFields(v any) (map[string]any, error) {
	encoded, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if err := json.Unmarshal(encoded, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func jsonValue(v any) (any, error) {
	encoded, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(encoded, &out); err != nil {
		return nil, err
	}
	return out, nil
}
