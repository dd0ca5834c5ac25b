package repository

import (
	"context"
	"time"

	"mathquest_backend/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoAchievementRepository struct {
	db *mongo.Database
}

func NewMongoAchievementRepository(db *mongo.Database) *MongoAchievementRepository {
	return &MongoAchievementRepository{db: db}
}

func (r *MongoAchievementRepository) coll() *mongo.Collection {
	return r.db.Collection("achievements")
}

// Unlock $setOnInsert 保证重复解锁不会刷新 unlocked_at
func (r *MongoAchievementRepository) Unlock(ctx context.Context, userID uint, achievementID string, at time.Time) error {
	_, err := r.coll().UpdateOne(ctx,
		bson.M{"user_id": userID, "achievement_id": achievementID},
		bson.M{"$setOnInsert": bson.M{"unlocked_at": at}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *MongoAchievementRepository) List(ctx context.Context, userID uint) ([]model.Achievement, error) {
	cursor, err := r.coll().Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []model.Achievement
	for cursor.Next(ctx) {
		var doc struct {
			UserID        uint      `bson:"user_id"`
			AchievementID string    `bson:"achievement_id"`
			UnlockedAt    time.Time `bson:"unlocked_at"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		records = append(records, model.Achievement{
			UserID:        doc.UserID,
			AchievementID: doc.AchievementID,
			UnlockedAt:    doc.UnlockedAt,
		})
	}
	return records, cursor.Err()
}

func (r *MongoAchievementRepository) DeleteAll(ctx context.Context, userID uint) error {
	_, err := r.coll().DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}
