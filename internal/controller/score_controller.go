package controller

import (
	"errors"
	"strconv"

	"mathquest_backend/internal/service"
	"mathquest_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ScoreController struct {
	ScoreService *service.ScoreService
}

func NewScoreController(scoreService *service.ScoreService) *ScoreController {
	return &ScoreController{ScoreService: scoreService}
}

// SaveScore godoc
// @Summary 保存测验成绩
// @Description 追加一条成绩流水，附带逐题作答明细
// @Tags 成绩
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.ScoreInput true "成绩数据"
// @Success 201 {object} util.Response{data=object} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "未授权"
// @Router /api/scores [post]
func (c *ScoreController) SaveScore(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.ScoreInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	score, err := c.ScoreService.SaveScore(ctx.Request.Context(), claims.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"id": score.ID, "completedAt": score.CompletedAt})
}

// GetScores godoc
// @Summary 查询成绩流水
// @Description 按完成时间倒序返回最近一页成绩，可按专题过滤
// @Tags 成绩
// @Produce  json
// @Security ApiKeyAuth
// @Param   topicId query int false "专题ID"
// @Success 200 {object} util.Response{data=[]model.Score} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "未授权"
// @Router /api/scores [get]
func (c *ScoreController) GetScores(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var topicID *int
	if raw := ctx.Query("topicId"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			util.BadRequest(ctx, "invalid topicId")
			return
		}
		topicID = &id
	}

	scores, err := c.ScoreService.GetScores(ctx.Request.Context(), claims.UserID, topicID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, scores)
}

// GetScoreDetail godoc
// @Summary 查询单次测验明细
// @Description 返回一次测验的逐题作答记录
// @Tags 成绩
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "成绩ID"
// @Success 200 {object} util.Response{data=model.Score} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "未授权"
// @Failure 404 {object} util.Response "记录不存在"
// @Router /api/scores/{id} [get]
func (c *ScoreController) GetScoreDetail(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid score id")
		return
	}

	score, err := c.ScoreService.GetScoreDetail(ctx.Request.Context(), claims.UserID, uint(id))
	if err != nil {
		if errors.Is(err, util.ErrScoreNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, score)
}
