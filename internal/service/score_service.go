package service

import (
	"context"
	"errors"
	"math"
	"time"

	"mathquest_backend/internal/model"
	"mathquest_backend/internal/repository"
	"mathquest_backend/internal/util"
)

type ScoreService struct {
	Backend repository.Backend
}

func NewScoreService(backend repository.Backend) *ScoreService {
	return &ScoreService{Backend: backend}
}

type ScoreAnswerInput struct {
	QuestionIndex  int    `json:"questionIndex"`
	QuestionText   string `json:"questionText"`
	SelectedAnswer string `json:"selectedAnswer"`
	CorrectAnswer  string `json:"correctAnswer"`
	IsCorrect      bool   `json:"isCorrect"`
}

type ScoreInput struct {
	TopicID    int                `json:"topicId"`
	QuizID     *uint              `json:"quizId"`
	Difficulty string             `json:"difficulty"`
	Score      int                `json:"score"`
	Total      int                `json:"total"`
	Passed     bool               `json:"passed"`
	Answers    []ScoreAnswerInput `json:"answers"`
}

// SaveScore 追加一条成绩流水。passed 原样入库，不做一致性复核
func (s *ScoreService) SaveScore(ctx context.Context, userID uint, in ScoreInput) (*model.Score, error) {
	score := &model.Score{
		UserID:      userID,
		TopicID:     in.TopicID,
		QuizID:      in.QuizID,
		Difficulty:  in.Difficulty,
		Score:       in.Score,
		Total:       in.Total,
		Passed:      in.Passed,
		CompletedAt: time.Now(),
	}
	for _, a := range in.Answers {
		score.Answers = append(score.Answers, model.ScoreAnswer{
			QuestionIndex:  a.QuestionIndex,
			QuestionText:   a.QuestionText,
			SelectedAnswer: a.SelectedAnswer,
			CorrectAnswer:  a.CorrectAnswer,
			IsCorrect:      a.IsCorrect,
		})
	}

	if err := s.Backend.Scores().Create(ctx, score); err != nil {
		return nil, err
	}
	return score, nil
}

// GetScores 按完成时间倒序，最多 ScorePageSize 条
func (s *ScoreService) GetScores(ctx context.Context, userID uint, topicID *int) ([]model.Score, error) {
	scores, err := s.Backend.Scores().ListByUser(ctx, userID, topicID, util.ScorePageSize)
	if err != nil {
		return nil, err
	}
	if scores == nil {
		scores = []model.Score{}
	}
	return scores, nil
}

func (s *ScoreService) GetScoreDetail(ctx context.Context, userID, scoreID uint) (*model.Score, error) {
	score, err := s.Backend.Scores().FindByID(ctx, userID, scoreID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, util.ErrScoreNotFound
	}
	return score, err
}

// Summarize 管理端统计：最近 AdminScoreCap 条内的场次数、平均分、最高分和最近一次时间
func (s *ScoreService) Summarize(ctx context.Context, userID uint) (model.ScoreSummary, error) {
	scores, err := s.Backend.Scores().ListByUser(ctx, userID, nil, util.AdminScoreCap)
	if err != nil {
		return model.ScoreSummary{}, err
	}
	return SummarizeScores(scores), nil
}

// SummarizeScores 平均分是「逐场四舍五入百分比」的均值再取整
func SummarizeScores(scores []model.Score) model.ScoreSummary {
	summary := model.ScoreSummary{QuizzesTaken: len(scores)}
	if len(scores) == 0 {
		return summary
	}

	sum := 0
	for i := range scores {
		pct := model.AttemptPercent(scores[i].Score, scores[i].Total)
		sum += pct
		if pct > summary.BestScore {
			summary.BestScore = pct
		}
		if summary.LastQuizAt == nil || scores[i].CompletedAt.After(*summary.LastQuizAt) {
			t := scores[i].CompletedAt
			summary.LastQuizAt = &t
		}
	}
	summary.AvgScore = int(math.Round(float64(sum) / float64(len(scores))))
	return summary
}
