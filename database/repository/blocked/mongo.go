package blockedRepo

import (
	"context"
	"fmt"
	"time"

	"servana/database"
	"servana/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBlockedTimeRepo implements BlockedTimeRepository on MongoDB.
type MongoBlockedTimeRepo struct {
	coll *mongo.Collection
}

func NewMongoBlockedTimeRepo() *MongoBlockedTimeRepo {
	return &MongoBlockedTimeRepo{coll: database.Collection("blocked_times")}
}

func (r *MongoBlockedTimeRepo) GetByProviderAndDate(ctx context.Context, providerID, date string) ([]models.BlockedTime, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}
	filter := bson.M{
		"provider_id": providerID,
		"$or": bson.A{
			bson.M{"date": date},
			bson.M{"recurring": true, "weekday": int(day.Weekday())},
		},
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query blocked times: %w", err)
	}
	defer cursor.Close(ctx)

	var blocks []models.BlockedTime
	if err := cursor.All(ctx, &blocks); err != nil {
		return nil, fmt.Errorf("failed to decode blocked times: %w", err)
	}
	return blocks, nil
}

func (r *MongoBlockedTimeRepo) ListByProvider(ctx context.Context, providerID string) ([]models.BlockedTime, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "start_time", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"provider_id": providerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query blocked times: %w", err)
	}
	defer cursor.Close(ctx)

	var blocks []models.BlockedTime
	if err := cursor.All(ctx, &blocks); err != nil {
		return nil, fmt.Errorf("failed to decode blocked times: %w", err)
	}
	return blocks, nil
}

func (r *MongoBlockedTimeRepo) Create(ctx context.Context, block *models.BlockedTime) error {
	if _, err := r.coll.InsertOne(ctx, block); err != nil {
		return fmt.Errorf("failed to create blocked time: %w", err)
	}
	return nil
}

func (r *MongoBlockedTimeRepo) Delete(ctx context.Context, id, providerID string) (*models.BlockedTime, error) {
	var block models.BlockedTime
	err := r.coll.FindOneAndDelete(ctx, bson.M{"id": id, "provider_id": providerID}).Decode(&block)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to delete blocked time: %w", err)
	}
	return &block, nil
}
