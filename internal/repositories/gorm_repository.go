package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"portfolio/internal/models"
)

// GORMDatabase stores each collection as a SQL table through GORM.
type GORMDatabase struct {
	db     *gorm.DB
	driver string
}

// OpenGORM opens dialector and verifies the connection.
func OpenGORM(dialector gorm.Dialector, driver string, logger *zap.Logger) (*GORMDatabase, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap db: %w", err)
	}
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping %s database: %w", driver, err)
	}

	if logger != nil {
		logger.Info("database connection ready", zap.String("driver", driver))
	}
	return &GORMDatabase{db: db, driver: driver}, nil
}

// NewGORMDatabase wraps an already opened *gorm.DB.
func NewGORMDatabase(db *gorm.DB, driver string) *GORMDatabase {
	return &GORMDatabase{db: db, driver: driver}
}

func (d *GORMDatabase) Driver() string { return d.driver }

func (d *GORMDatabase) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return fmt.Errorf("unwrap db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return wrapUnreachable("ping", err)
	}
	return nil
}

func (d *GORMDatabase) CollectionNames(ctx context.Context) ([]string, error) {
	tables, err := d.db.WithContext(ctx).Migrator().GetTables()
	if err != nil {
		return nil, wrapUnreachable("list tables", err)
	}
	return tables, nil
}

func (d *GORMDatabase) Close(context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// gormRecord is the row layout for a collection: the entity's fields inlined
// next to the stamped identifier and timestamps.
type gormRecord[T models.Entity] struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	Data      T         `gorm:"embedded"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

func (gormRecord[T]) TableName() string { return models.CollectionOf[T]() }

// GORMRepository is a GORM implementation of Repository.
type GORMRepository[T models.Entity] struct {
	db *gorm.DB
}

// NewGORMRepository creates the collection's table if needed and returns a
// repository over it.
func NewGORMRepository[T models.Entity](d *GORMDatabase) (*GORMRepository[T], error) {
	if err := d.db.AutoMigrate(&gormRecord[T]{}); err != nil {
		return nil, fmt.Errorf("migrate %s: %w", models.CollectionOf[T](), wrapUnreachable("auto migrate", err))
	}
	return &GORMRepository[T]{db: d.db}, nil
}

// Create inserts entity under a new uuid.
func (r *GORMRepository[T]) Create(ctx context.Context, entity *T) (string, error) {
	now := time.Now().UTC()
	record := gormRecord[T]{
		ID:        uuid.New().String(),
		Data:      *entity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return "", wrapUnreachable("create "+models.CollectionOf[T](), err)
	}
	return record.ID, nil
}

// Find retrieves matching rows ordered by insertion time.
func (r *GORMRepository[T]) Find(ctx context.Context, filter Filter, limit int) ([]models.Document[T], error) {
	query := r.db.WithContext(ctx).Order("created_at ASC").Order("id ASC")
	if len(filter) > 0 {
		query = query.Where(map[string]any(filter))
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var records []gormRecord[T]
	if err := query.Find(&records).Error; err != nil {
		return nil, wrapUnreachable("find "+models.CollectionOf[T](), err)
	}

	docs := make([]models.Document[T], 0, len(records))
	for _, record := range records {
		docs = append(docs, models.Document[T]{
			ID:        record.ID,
			CreatedAt: record.CreatedAt,
			UpdatedAt: record.UpdatedAt,
			Data:      record.Data,
		})
	}
	return docs, nil
}
