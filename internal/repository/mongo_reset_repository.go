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

type mongoReset struct {
	ID          uint              `bson:"_id"`
	Identifier  string            `bson:"identifier"`
	UserID      *uint             `bson:"user_id,omitempty"`
	Status      model.ResetStatus `bson:"status"`
	RequestedAt time.Time         `bson:"requested_at"`
	CompletedAt *time.Time        `bson:"completed_at,omitempty"`
}

func (d *mongoReset) toModel() *model.PasswordResetRequest {
	req := &model.PasswordResetRequest{
		Identifier:  d.Identifier,
		UserID:      d.UserID,
		Status:      d.Status,
		RequestedAt: d.RequestedAt,
		CompletedAt: d.CompletedAt,
	}
	req.ID = d.ID
	return req
}

type MongoResetRepository struct {
	db *mongo.Database
}

func NewMongoResetRepository(db *mongo.Database) *MongoResetRepository {
	return &MongoResetRepository{db: db}
}

func (r *MongoResetRepository) coll() *mongo.Collection {
	return r.db.Collection("password_reset_requests")
}

func (r *MongoResetRepository) Create(ctx context.Context, req *model.PasswordResetRequest) error {
	id, err := nextSeq(ctx, r.db, "password_reset_requests")
	if err != nil {
		return err
	}
	req.ID = id

	_, err = r.coll().InsertOne(ctx, mongoReset{
		ID:          id,
		Identifier:  req.Identifier,
		UserID:      req.UserID,
		Status:      req.Status,
		RequestedAt: req.RequestedAt,
	})
	return err
}

func (r *MongoResetRepository) ListPending(ctx context.Context) ([]model.PasswordResetRequest, error) {
	cursor, err := r.coll().Find(ctx,
		bson.M{"status": model.ResetPending},
		options.Find().SetSort(bson.D{{Key: "requested_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var requests []model.PasswordResetRequest
	for cursor.Next(ctx) {
		var doc mongoReset
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		requests = append(requests, *doc.toModel())
	}
	return requests, cursor.Err()
}

func (r *MongoResetRepository) FindByID(ctx context.Context, id uint) (*model.PasswordResetRequest, error) {
	var doc mongoReset
	err := r.coll().FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *MongoResetRepository) Complete(ctx context.Context, id uint, at time.Time) error {
	res, err := r.coll().UpdateOne(ctx,
		bson.M{"_id": id, "status": model.ResetPending},
		bson.M{"$set": bson.M{
			"status":       model.ResetCompleted,
			"completed_at": at,
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
