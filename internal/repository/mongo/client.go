// internal/repository/mongo/client.go
package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NewClient connects and pings a MongoDB deployment
func NewClient(ctx context.Context, uri, username, password string) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(uri)

	if username != "" && password != "" {
		clientOptions.SetAuth(options.Credential{
			Username: username,
			Password: password,
		})
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	return client, nil
}

// EnsureIndexes creates the indexes both collections rely on
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(uavCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bsonD("created_at", -1),
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(userCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bsonD("email_lower", 1),
		Options: options.Index().SetUnique(true),
	})
	return err
}
