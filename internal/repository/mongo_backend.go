package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBackend 远程文档库实现，Web 部署目标使用
type MongoBackend struct {
	db *mongo.Database

	users        *MongoUserRepository
	progress     *MongoProgressRepository
	achievements *MongoAchievementRepository
	scores       *MongoScoreRepository
	activity     *MongoActivityRepository
	resets       *MongoResetRepository
}

func NewMongoBackend(db *mongo.Database) *MongoBackend {
	return &MongoBackend{
		db:           db,
		users:        NewMongoUserRepository(db),
		progress:     NewMongoProgressRepository(db),
		achievements: NewMongoAchievementRepository(db),
		scores:       NewMongoScoreRepository(db),
		activity:     NewMongoActivityRepository(db),
		resets:       NewMongoResetRepository(db),
	}
}

func (b *MongoBackend) Users() UserRepository               { return b.users }
func (b *MongoBackend) Progress() ProgressRepository        { return b.progress }
func (b *MongoBackend) Achievements() AchievementRepository { return b.achievements }
func (b *MongoBackend) Scores() ScoreRepository             { return b.scores }
func (b *MongoBackend) Activity() ActivityRepository        { return b.activity }
func (b *MongoBackend) Resets() ResetRepository             { return b.resets }

func (b *MongoBackend) SupportsPinReset() bool { return false }

func (b *MongoBackend) Ping(ctx context.Context) error {
	return b.db.Client().Ping(ctx, nil)
}

// EnsureIndexes 启动时建唯一索引，等价于嵌入式实现的表约束
func (b *MongoBackend) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	indexes := map[string]mongo.IndexModel{
		"users": {
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: unique,
		},
		"topic_progress": {
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "topic_id", Value: 1}},
			Options: unique,
		},
		"achievements": {
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "achievement_id", Value: 1}},
			Options: unique,
		},
		"activity_meta": {
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: unique,
		},
		"scores": {
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "completed_at", Value: -1}},
		},
	}

	for coll, idx := range indexes {
		if _, err := b.db.Collection(coll).Indexes().CreateOne(ctx, idx); err != nil {
			return err
		}
	}
	return nil
}

// nextSeq 计数器集合派发自增数值 id，保持与嵌入式实现一致的 id 形态
func nextSeq(ctx context.Context, db *mongo.Database, name string) (uint, error) {
	res := db.Collection("counters").FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	)
	var doc struct {
		Seq int64 `bson:"seq"`
	}
	if err := res.Decode(&doc); err != nil {
		return 0, err
	}
	return uint(doc.Seq), nil
}
