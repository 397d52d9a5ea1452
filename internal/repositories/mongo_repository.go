package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"portfolio/internal/models"
)

// MongoDatabase stores each collection as a MongoDB collection.
type MongoDatabase struct {
	client   *mongo.Client
	database *mongo.Database
}

// OpenMongo connects to uri and selects database name.
func OpenMongo(ctx context.Context, uri, name string) (*MongoDatabase, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(5 * time.Second).
		SetConnectTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return &MongoDatabase{
		client:   client,
		database: client.Database(name),
	}, nil
}

func (d *MongoDatabase) Driver() string { return "mongodb" }

func (d *MongoDatabase) Ping(ctx context.Context) error {
	if err := d.client.Ping(ctx, readpref.Primary()); err != nil {
		return wrapMongo("ping", err)
	}
	return nil
}

func (d *MongoDatabase) CollectionNames(ctx context.Context) ([]string, error) {
	names, err := d.database.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, wrapMongo("list collections", err)
	}
	return names, nil
}

func (d *MongoDatabase) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

// mongoRecord is the stored shape of a document: entity fields inlined next
// to the server-assigned _id and the insert timestamps.
type mongoRecord[T models.Entity] struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
	Data      T                  `bson:",inline"`
}

// MongoRepository is a MongoDB implementation of Repository.
type MongoRepository[T models.Entity] struct {
	collection *mongo.Collection
}

// NewMongoRepository returns a repository over T's collection in d.
func NewMongoRepository[T models.Entity](d *MongoDatabase) *MongoRepository[T] {
	return &MongoRepository[T]{
		collection: d.database.Collection(models.CollectionOf[T]()),
	}
}

// Create inserts entity and returns the ObjectID as hex.
func (r *MongoRepository[T]) Create(ctx context.Context, entity *T) (string, error) {
	now := time.Now().UTC()
	record := mongoRecord[T]{
		CreatedAt: now,
		UpdatedAt: now,
		Data:      *entity,
	}

	result, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		return "", wrapMongo("insert into "+r.collection.Name(), err)
	}
	switch id := result.InsertedID.(type) {
	case primitive.ObjectID:
		return id.Hex(), nil
	default:
		return fmt.Sprint(id), nil
	}
}

// Find returns matching documents sorted by _id, which follows insertion order.
func (r *MongoRepository[T]) Find(ctx context.Context, filter Filter, limit int) ([]models.Document[T], error) {
	query := bson.M{}
	for key, value := range filter {
		query[key] = value
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, wrapMongo("find in "+r.collection.Name(), err)
	}
	defer cursor.Close(ctx)

	var records []mongoRecord[T]
	if err := cursor.All(ctx, &records); err != nil {
		return nil, wrapMongo("decode "+r.collection.Name(), err)
	}

	docs := make([]models.Document[T], 0, len(records))
	for _, record := range records {
		docs = append(docs, models.Document[T]{
			ID:        record.ID.Hex(),
			CreatedAt: record.CreatedAt,
			UpdatedAt: record.UpdatedAt,
			Data:      record.Data,
		})
	}
	return docs, nil
}

func wrapMongo(op string, err error) error {
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) || errors.Is(err, mongo.ErrClientDisconnected) {
		return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
	}
	return wrapUnreachable(op, err)
}
