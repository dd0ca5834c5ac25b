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

// mongoScore 成绩文档内嵌逐题明细数组，没有单独的 answers 集合
type mongoScore struct {
	ID          uint              `bson:"_id"`
	UserID      uint              `bson:"user_id"`
	TopicID     int               `bson:"topic_id"`
	QuizID      *uint             `bson:"quiz_id,omitempty"`
	Difficulty  string            `bson:"difficulty,omitempty"`
	Score       int               `bson:"score"`
	Total       int               `bson:"total"`
	Passed      bool              `bson:"passed"`
	CompletedAt time.Time         `bson:"completed_at"`
	Answers     []mongoScoreAnswer `bson:"answers,omitempty"`
	CreatedAt   time.Time         `bson:"created_at"`
}

type mongoScoreAnswer struct {
	QuestionIndex  int    `bson:"question_index"`
	QuestionText   string `bson:"question_text,omitempty"`
	SelectedAnswer string `bson:"selected_answer"`
	CorrectAnswer  string `bson:"correct_answer"`
	IsCorrect      bool   `bson:"is_correct"`
}

func (d *mongoScore) toModel() *model.Score {
	s := &model.Score{
		UserID:      d.UserID,
		TopicID:     d.TopicID,
		QuizID:      d.QuizID,
		Difficulty:  d.Difficulty,
		Score:       d.Score,
		Total:       d.Total,
		Passed:      d.Passed,
		CompletedAt: d.CompletedAt,
	}
	s.ID = d.ID
	s.CreatedAt = d.CreatedAt
	for _, a := range d.Answers {
		s.Answers = append(s.Answers, model.ScoreAnswer{
			ScoreID:        d.ID,
			QuestionIndex:  a.QuestionIndex,
			QuestionText:   a.QuestionText,
			SelectedAnswer: a.SelectedAnswer,
			CorrectAnswer:  a.CorrectAnswer,
			IsCorrect:      a.IsCorrect,
		})
	}
	return s
}

type MongoScoreRepository struct {
	db *mongo.Database
}

func NewMongoScoreRepository(db *mongo.Database) *MongoScoreRepository {
	return &MongoScoreRepository{db: db}
}

func (r *MongoScoreRepository) coll() *mongo.Collection {
	return r.db.Collection("scores")
}

func (r *MongoScoreRepository) Create(ctx context.Context, score *model.Score) error {
	id, err := nextSeq(ctx, r.db, "scores")
	if err != nil {
		return err
	}

	now := time.Now()
	score.ID = id
	score.CreatedAt = now

	doc := mongoScore{
		ID:          id,
		UserID:      score.UserID,
		TopicID:     score.TopicID,
		QuizID:      score.QuizID,
		Difficulty:  score.Difficulty,
		Score:       score.Score,
		Total:       score.Total,
		Passed:      score.Passed,
		CompletedAt: score.CompletedAt,
		CreatedAt:   now,
	}
	for _, a := range score.Answers {
		doc.Answers = append(doc.Answers, mongoScoreAnswer{
			QuestionIndex:  a.QuestionIndex,
			QuestionText:   a.QuestionText,
			SelectedAnswer: a.SelectedAnswer,
			CorrectAnswer:  a.CorrectAnswer,
			IsCorrect:      a.IsCorrect,
		})
	}

	_, err = r.coll().InsertOne(ctx, doc)
	return err
}

func (r *MongoScoreRepository) ListByUser(ctx context.Context, userID uint, topicID *int, limit int) ([]model.Score, error) {
	filter := bson.M{"user_id": userID}
	if topicID != nil {
		filter["topic_id"] = *topicID
	}

	cursor, err := r.coll().Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "completed_at", Value: -1}}).
		SetLimit(int64(limit)).
		// 列表读取不携带逐题明细，明细走 FindByID
		SetProjection(bson.M{"answers": 0}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var scores []model.Score
	for cursor.Next(ctx) {
		var doc mongoScore
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		scores = append(scores, *doc.toModel())
	}
	return scores, cursor.Err()
}

func (r *MongoScoreRepository) FindByID(ctx context.Context, userID, scoreID uint) (*model.Score, error) {
	var doc mongoScore
	err := r.coll().FindOne(ctx, bson.M{"_id": scoreID, "user_id": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *MongoScoreRepository) DeleteAll(ctx context.Context, userID uint) error {
	_, err := r.coll().DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}
