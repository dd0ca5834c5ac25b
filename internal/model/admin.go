package model

import "time"

// ScoreSummary 单个用户成绩流水的折叠结果
type ScoreSummary struct {
	QuizzesTaken int        `json:"quizzesTaken"`
	AvgScore     int        `json:"avgScore"`
	BestScore    int        `json:"bestScore"`
	LastQuizAt   *time.Time `json:"lastQuizAt,omitempty"`
}

// AdminUserSummary 教师端班级报表中的一行，每次聚合请求重新计算，不持久化
type AdminUserSummary struct {
	UserID           uint         `json:"userId"`
	Name             string       `json:"name"`
	Email            string       `json:"email"`
	Avatar           string       `json:"avatar,omitempty"`
	CreatedAt        time.Time    `json:"createdAt"`
	CombinedProgress int          `json:"combinedProgress"`
	Progress         map[int]int  `json:"progress"`
	Scores           ScoreSummary `json:"scores"`
	LastActivityDate string       `json:"lastActivityDate,omitempty"`
	Streak           int          `json:"streak"`
}

// AdminOverview 班级整体统计
type AdminOverview struct {
	TotalStudents       int `json:"totalStudents"`
	AvgCombinedProgress int `json:"avgCombinedProgress"`
	TotalQuizzesTaken   int `json:"totalQuizzesTaken"`
}

// AdminReport 聚合管道的最终产出
type AdminReport struct {
	Users    []AdminUserSummary `json:"users"`
	Overview AdminOverview      `json:"overview"`
}
