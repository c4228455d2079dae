package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the uniqueness indexes the data model relies on:
// publisher names, usernames and emails. Idempotent; runs at startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := []struct {
		collection string
		model      mongo.IndexModel
	}{
		{"publishers", mongo.IndexModel{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{"users", mongo.IndexModel{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{"users", mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		// books are filtered by author membership and publisher equality
		{"books", mongo.IndexModel{
			Keys: bson.D{{Key: "authors", Value: 1}},
		}},
		{"books", mongo.IndexModel{
			Keys: bson.D{{Key: "publisher", Value: 1}},
		}},
	}

	for i, s := range specs {
		if _, err := db.Collection(s.collection).Indexes().CreateOne(ctx, s.model); err != nil {
			return fmt.Errorf("create index %d on %s: %w", i, s.collection, err)
		}
	}
	return nil
}
