package util

const (
	// ScorePageSize 学生端成绩查询的单页上限
	ScorePageSize = 50
	// AdminScoreCap 管理端统计用的成绩读取上限
	AdminScoreCap = 100
)
