package storage

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/example/tarana-storefront/internal/domain"
)

type kvDocument struct {
	Key   string `bson:"_id"`
	Value string `bson:"value"`
}

type MongoStorage struct {
	Collection *mongo.Collection
}

func NewMongoStorage(client *mongo.Client, database string) *MongoStorage {
	return &MongoStorage{Collection: client.Database(database).Collection("kv_store")}
}

func (m *MongoStorage) Get(ctx context.Context, key string) (string, bool, error) {
	var doc kvDocument
	err := m.Collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return doc.Value, true, nil
}

func (m *MongoStorage) Set(ctx context.Context, key, value string) error {
	_, err := m.Collection.ReplaceOne(ctx, bson.M{"_id": key}, kvDocument{Key: key, Value: value},
		options.Replace().SetUpsert(true))
	return err
}

func (m *MongoStorage) Delete(ctx context.Context, key string) error {
	_, err := m.Collection.DeleteOne(ctx, bson.M{"_id": key})
	return err
}

var _ domain.CartStorage = (*MongoStorage)(nil)
