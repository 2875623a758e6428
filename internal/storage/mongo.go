package storage

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoEntry struct {
	Key   string `bson:"_id"`
	Value string `bson:"value"`
}

// Mongo keeps every key as one document {_id: key, value: json}.
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongo binds the store to a collection of the connected client.
func NewMongo(client *mongo.Client, dbName, collection string) *Mongo {
	return &Mongo{client: client, coll: client.Database(dbName).Collection(collection)}
}

func (m *Mongo) Get(ctx context.Context, key string) ([]byte, error) {
	var e mongoEntry
	if err := m.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("mongo storage: get %s: %w", key, err)
	}
	return []byte(e.Value), nil
}

func (m *Mongo) Set(ctx context.Context, key string, value []byte) error {
	_, err := m.coll.ReplaceOne(ctx,
		bson.M{"_id": key},
		mongoEntry{Key: key, Value: string(value)},
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo storage: set %s: %w", key, err)
	}
	return nil
}

func (m *Mongo) Delete(ctx context.Context, key string) error {
	if _, err := m.coll.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("mongo storage: delete %s: %w", key, err)
	}
	return nil
}

func (m *Mongo) Close() error { return m.client.Disconnect(context.Background()) }
