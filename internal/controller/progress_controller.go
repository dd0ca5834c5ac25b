package controller

import (
	"strconv"

	"mathquest_backend/internal/service"
	"mathquest_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
	ActivityService *service.ActivityService
}

func NewProgressController(progressService *service.ProgressService, activityService *service.ActivityService) *ProgressController {
	return &ProgressController{
		ProgressService: progressService,
		ActivityService: activityService,
	}
}

// swagger:model SaveProgressRequest
type SaveProgressRequest struct {
	TopicID    int `json:"topicId" binding:"required"`
	Content    int `json:"content"`
	Activities int `json:"activities"`
}

// SaveProgress godoc
// @Summary 保存专题进度
// @Description 合并内容与练习两轴进度，内容轴单调不回退
// @Tags 进度
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body SaveProgressRequest true "专题进度"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "未授权"
// @Router /api/progress [post]
func (c *ProgressController) SaveProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SaveProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.ProgressService.SaveProgress(ctx.Request.Context(), claims.UserID, req.TopicID, req.Content, req.Activities); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	combined, err := c.ProgressService.GetProgress(ctx.Request.Context(), claims.UserID, req.TopicID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"topicId": req.TopicID, "progress": combined})
}

// GetProgress godoc
// @Summary 查询综合进度
// @Description 带 topicId 返回单专题综合进度，否则返回全部专题映射
// @Tags 进度
// @Produce  json
// @Security ApiKeyAuth
// @Param   topicId query int false "专题ID"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "未授权"
// @Router /api/progress [get]
func (c *ProgressController) GetProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if raw := ctx.Query("topicId"); raw != "" {
		topicID, err := strconv.Atoi(raw)
		if err != nil {
			util.BadRequest(ctx, "invalid topicId")
			return
		}
		combined, err := c.ProgressService.GetProgress(ctx.Request.Context(), claims.UserID, topicID)
		if err != nil {
			util.LogInternalError(ctx, err)
			return
		}
		util.Success(ctx, gin.H{"topicId": topicID, "progress": combined})
		return
	}

	progress, err := c.ProgressService.GetProgressMap(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"progress": progress})
}

// GetProgressDetail godoc
// @Summary 查询双轴进度明细
// @Description 返回未加权的内容轴与练习轴数值
// @Tags 进度
// @Produce  json
// @Security ApiKeyAuth
// @Param   topicId query int false "专题ID"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "未授权"
// @Router /api/progress/detail [get]
func (c *ProgressController) GetProgressDetail(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if raw := ctx.Query("topicId"); raw != "" {
		topicID, err := strconv.Atoi(raw)
		if err != nil {
			util.BadRequest(ctx, "invalid topicId")
			return
		}
		detail, err := c.ProgressService.GetProgressDetail(ctx.Request.Context(), claims.UserID, topicID)
		if err != nil {
			util.LogInternalError(ctx, err)
			return
		}
		util.Success(ctx, gin.H{"topicId": topicID, "detail": detail})
		return
	}

	details, err := c.ProgressService.GetProgressDetailMap(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"details": details})
}

// ClearAllProgress godoc
// @Summary 清空学习数据
// @Description 删除当前用户的进度、成绩、成就和连续学习天数
// @Tags 进度
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response "成功"
// @Failure 401 {object} util.Response "未授权"
// @Router /api/progress [delete]
func (c *ProgressController) ClearAllProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.ProgressService.ClearAllProgress(ctx.Request.Context(), claims.UserID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"cleared": true})
}
