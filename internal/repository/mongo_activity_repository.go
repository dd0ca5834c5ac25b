package repository

import (
	"context"
	"errors"
	"time"

	"mathquest_backend/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoActivityRepository struct {
	db *mongo.Database
}

func NewMongoActivityRepository(db *mongo.Database) *MongoActivityRepository {
	return &MongoActivityRepository{db: db}
}

func (r *MongoActivityRepository) coll() *mongo.Collection {
	return r.db.Collection("activity_meta")
}

func (r *MongoActivityRepository) Get(ctx context.Context, userID uint) (*model.ActivityMeta, error) {
	var doc struct {
		UserID           uint      `bson:"user_id"`
		LastActivityDate string    `bson:"last_activity_date"`
		Streak           int       `bson:"streak"`
		UpdatedAt        time.Time `bson:"updated_at"`
	}
	err := r.coll().FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &model.ActivityMeta{
		UserID:           doc.UserID,
		LastActivityDate: doc.LastActivityDate,
		Streak:           doc.Streak,
		UpdatedAt:        doc.UpdatedAt,
	}, nil
}

func (r *MongoActivityRepository) Upsert(ctx context.Context, userID uint, lastActivityDate string, streak int) error {
	_, err := r.coll().UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{
			"last_activity_date": lastActivityDate,
			"streak":             streak,
			"updated_at":         time.Now(),
		}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *MongoActivityRepository) Delete(ctx context.Context, userID uint) error {
	_, err := r.coll().DeleteOne(ctx, bson.M{"user_id": userID})
	return err
}
