package repository

import (
	"context"
	"fmt"

	"github.com/Dias221467/SocialGraph/internal/models"
	"github.com/Dias221467/SocialGraph/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepository stores one document per account, keyed by username.
type MongoRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoRepository creates a repository on the "accounts" collection.
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{
		client:     db.Client(),
		collection: db.Collection("accounts"),
	}
}

func (r *MongoRepository) Load(ctx context.Context) ([]models.AccountRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.AccountRecord
	for cursor.Next(ctx) {
		var rec models.AccountRecord
		if err := cursor.Decode(&rec); err != nil {
			return nil, fmt.Errorf("failed to decode account: %w", err)
		}
		records = append(records, rec)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}

	logger.Log.WithField("users", len(records)).Info("Snapshot loaded from MongoDB")
	return records, nil
}

// Save upserts every account and removes documents for deleted accounts.
func (r *MongoRepository) Save(ctx context.Context, records []models.AccountRecord) error {
	usernames := make([]string, 0, len(records))
	writes := make([]mongo.WriteModel, 0, len(records)+1)
	for _, rec := range records {
		usernames = append(usernames, rec.Username)
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": rec.Username}).
			SetReplacement(rec).
			SetUpsert(true))
	}
	writes = append(writes, mongo.NewDeleteManyModel().
		SetFilter(bson.M{"_id": bson.M{"$nin": usernames}}))

	_, err := r.collection.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(true))
	if err != nil {
		logger.Log.WithError(err).Error("Failed to write snapshot to MongoDB")
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

func (r *MongoRepository) Close() error {
	return r.client.Disconnect(context.Background())
}
