package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRecords implements Records on top of a MongoDB collection.
type MongoRecords[T any] struct {
	collection *mongo.Collection
	identity   Identity[T]
}

func NewMongoRecords[T any](db *mongo.Database, collection string, identity Identity[T]) *MongoRecords[T] {
	return &MongoRecords[T]{
		collection: db.Collection(collection),
		identity:   identity,
	}
}

// ConnectMongoDB dials the record store and verifies the connection.
func ConnectMongoDB(ctx context.Context, uri, database string) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100).
		SetMinPoolSize(10)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client.Database(database), nil
}

func (m *MongoRecords[T]) List(ctx context.Context, fields Fields) ([]T, error) {
	opts := options.Find()
	if p := projection(fields); p != nil {
		opts.SetProjection(p)
	}

	cursor, err := m.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []T
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}

	return records, nil
}

func (m *MongoRecords[T]) Get(ctx context.Context, id string, fields Fields) (*T, error) {
	opts := options.FindOne()
	if p := projection(fields); p != nil {
		opts.SetProjection(p)
	}

	var rec T
	err := m.collection.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get record: %w", err)
	}

	return &rec, nil
}

func (m *MongoRecords[T]) Create(ctx context.Context, rec T) (*T, error) {
	if m.identity.Get(rec) == "" {
		rec = m.identity.Set(rec, uuid.New().String())
	}

	if _, err := m.collection.InsertOne(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to create record: %w", err)
	}

	return &rec, nil
}

func (m *MongoRecords[T]) Update(ctx context.Context, id string, updates map[string]any) (*T, error) {
	set := bson.M{}
	for k, v := range updates {
		set[k] = v
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var rec T
	err := m.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update record: %w", err)
	}

	return &rec, nil
}

func (m *MongoRecords[T]) Delete(ctx context.Context, id string) (bool, error) {
	result, err := m.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("failed to delete record: %w", err)
	}

	return result.DeletedCount > 0, nil
}

func projection(fields Fields) bson.M {
	if len(fields) == 0 {
		return nil
	}
	p := bson.M{}
	for _, f := range fields {
		p[f] = 1
	}
	return p
}
