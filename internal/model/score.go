package model

import "time"

// Score 测验成绩流水，只追加不修改
// Passed 由调用方计算并原样存储，这里不做 score/total 一致性校验
type Score struct {
	BaseModel
	UserID      uint          `gorm:"index;not null" json:"-"`
	TopicID     int           `gorm:"index;not null" json:"topicId"`
	QuizID      *uint         `json:"quizId,omitempty"`
	Difficulty  string        `gorm:"size:20" json:"difficulty,omitempty"`
	Score       int           `gorm:"not null" json:"score"`
	Total       int           `gorm:"not null" json:"total"`
	Passed      bool          `gorm:"default:false" json:"passed"`
	CompletedAt time.Time     `gorm:"index;not null" json:"completedAt"`
	Answers     []ScoreAnswer `gorm:"constraint:OnDelete:CASCADE" json:"answers,omitempty"`
}

func (Score) TableName() string {
	return "scores"
}

// ScoreAnswer 可选的逐题答案明细，仅在调用方提供时保存
type ScoreAnswer struct {
	ID             uint   `gorm:"primaryKey;autoIncrement" json:"-"`
	ScoreID        uint   `gorm:"index;not null" json:"-"`
	QuestionIndex  int    `gorm:"not null" json:"questionIndex"`
	QuestionText   string `gorm:"size:500" json:"questionText,omitempty"`
	SelectedAnswer string `gorm:"size:255" json:"selectedAnswer"`
	CorrectAnswer  string `gorm:"size:255" json:"correctAnswer"`
	IsCorrect      bool   `json:"isCorrect"`
}

func (ScoreAnswer) TableName() string {
	return "score_answers"
}
