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

type mongoProgress struct {
	UserID     uint      `bson:"user_id"`
	TopicID    int       `bson:"topic_id"`
	Content    int       `bson:"content"`
	Activities int       `bson:"activities"`
	CreatedAt  time.Time `bson:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at"`
}

func (d *mongoProgress) toModel() *model.TopicProgress {
	return &model.TopicProgress{
		UserID:     d.UserID,
		TopicID:    d.TopicID,
		Content:    d.Content,
		Activities: d.Activities,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

type MongoProgressRepository struct {
	db *mongo.Database
}

func NewMongoProgressRepository(db *mongo.Database) *MongoProgressRepository {
	return &MongoProgressRepository{db: db}
}

func (r *MongoProgressRepository) coll() *mongo.Collection {
	return r.db.Collection("topic_progress")
}

// Merge $max 由服务端执行，两端设备并发写同一专题时 content 不会回退
func (r *MongoProgressRepository) Merge(ctx context.Context, userID uint, topicID, content, activities int) error {
	now := time.Now()
	_, err := r.coll().UpdateOne(ctx,
		bson.M{"user_id": userID, "topic_id": topicID},
		bson.M{
			"$max":         bson.M{"content": content},
			"$set":         bson.M{"activities": activities, "updated_at": now},
			"$setOnInsert": bson.M{"created_at": now},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *MongoProgressRepository) Get(ctx context.Context, userID uint, topicID int) (*model.TopicProgress, error) {
	var doc mongoProgress
	err := r.coll().FindOne(ctx, bson.M{"user_id": userID, "topic_id": topicID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *MongoProgressRepository) List(ctx context.Context, userID uint) ([]model.TopicProgress, error) {
	cursor, err := r.coll().Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "topic_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []model.TopicProgress
	for cursor.Next(ctx) {
		var doc mongoProgress
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		records = append(records, *doc.toModel())
	}
	return records, cursor.Err()
}

func (r *MongoProgressRepository) DeleteAll(ctx context.Context, userID uint) error {
	_, err := r.coll().DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}
