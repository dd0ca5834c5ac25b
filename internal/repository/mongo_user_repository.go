package repository

import (
	"context"
	"errors"
	"time"

	"mathquest_backend/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// mongoUser users 集合的文档形态，数值 id 由 counters 派发
type mongoUser struct {
	ID              uint           `bson:"_id"`
	Name            string         `bson:"name"`
	Email           string         `bson:"email"`
	Password        string         `bson:"password"`
	Role            model.UserRole `bson:"role"`
	Language        string         `bson:"language"`
	Avatar          string         `bson:"avatar,omitempty"`
	StudentNo       string         `bson:"student_no,omitempty"`
	RecoveryPinHash string         `bson:"recovery_pin_hash,omitempty"`
	EmailVerified   bool           `bson:"email_verified"`
	Disabled        bool           `bson:"disabled"`
	LastLogin       time.Time      `bson:"last_login"`
	CreatedAt       time.Time      `bson:"created_at"`
	UpdatedAt       time.Time      `bson:"updated_at"`
}

func (d *mongoUser) toModel() *model.User {
	u := &model.User{
		Name:            d.Name,
		Email:           d.Email,
		Password:        d.Password,
		Role:            d.Role,
		Language:        d.Language,
		Avatar:          d.Avatar,
		StudentNo:       d.StudentNo,
		RecoveryPinHash: d.RecoveryPinHash,
		EmailVerified:   d.EmailVerified,
		Disabled:        d.Disabled,
		LastLogin:       d.LastLogin,
	}
	u.ID = d.ID
	u.CreatedAt = d.CreatedAt
	u.UpdatedAt = d.UpdatedAt
	return u
}

type MongoUserRepository struct {
	db *mongo.Database
}

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{db: db}
}

func (r *MongoUserRepository) coll() *mongo.Collection {
	return r.db.Collection("users")
}

func (r *MongoUserRepository) Create(ctx context.Context, user *model.User) error {
	id, err := nextSeq(ctx, r.db, "users")
	if err != nil {
		return err
	}

	now := time.Now()
	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now

	doc := mongoUser{
		ID:              id,
		Name:            user.Name,
		Email:           user.Email,
		Password:        user.Password,
		Role:            user.Role,
		Language:        user.Language,
		Avatar:          user.Avatar,
		StudentNo:       user.StudentNo,
		RecoveryPinHash: user.RecoveryPinHash,
		EmailVerified:   user.EmailVerified,
		Disabled:        user.Disabled,
		LastLogin:       user.LastLogin,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	_, err = r.coll().InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateKey
	}
	return err
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var doc mongoUser
	err := r.coll().FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepository) FindByIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"$or": bson.A{
		bson.M{"email": identifier},
		bson.M{"student_no": identifier},
	}})
}

func (r *MongoUserRepository) Update(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now()
	_, err := r.coll().UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": bson.M{
		"name":           user.Name,
		"language":       user.Language,
		"avatar":         user.Avatar,
		"student_no":     user.StudentNo,
		"email_verified": user.EmailVerified,
		"disabled":       user.Disabled,
		"last_login":     user.LastLogin,
		"updated_at":     user.UpdatedAt,
	}})
	return err
}

func (r *MongoUserRepository) UpdatePassword(ctx context.Context, userID uint, passwordHash string) error {
	res, err := r.coll().UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": bson.M{
		"password":   passwordHash,
		"updated_at": time.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoUserRepository) List(ctx context.Context) ([]model.User, error) {
	cursor, err := r.coll().Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []model.User
	for cursor.Next(ctx) {
		var doc mongoUser
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		users = append(users, *doc.toModel())
	}
	return users, cursor.Err()
}
