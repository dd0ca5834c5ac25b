package controller

import (
	"errors"
	"strconv"

	"mathquest_backend/internal/service"
	"mathquest_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	AdminService *service.AdminService
	ResetService *service.ResetService
}

func NewAdminController(adminService *service.AdminService, resetService *service.ResetService) *AdminController {
	return &AdminController{AdminService: adminService, ResetService: resetService}
}

// GetUserSummaries godoc
// @Summary 班级学习报表
// @Description 汇总全部学生的进度、成绩与活跃数据
// @Tags 管理端
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.AdminReport} "成功"
// @Failure 401 {object} util.Response "未授权"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/admin/users/summaries [get]
func (c *AdminController) GetUserSummaries(ctx *gin.Context) {
	report, err := c.AdminService.FetchAllUsersWithSummaries(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, report)
}

// GetOverview godoc
// @Summary 管理端首页概览
// @Tags 管理端
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.AdminOverview} "成功"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/admin/overview [get]
func (c *AdminController) GetOverview(ctx *gin.Context) {
	overview, err := c.AdminService.GetOverview(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, overview)
}

// GetUserScores godoc
// @Summary 查看学生成绩流水
// @Tags 管理端
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "用户ID"
// @Success 200 {object} util.Response{data=[]model.Score} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/admin/users/{id}/scores [get]
func (c *AdminController) GetUserScores(ctx *gin.Context) {
	userID, ok := pathUserID(ctx)
	if !ok {
		return
	}

	scores, err := c.AdminService.FetchUserScores(ctx.Request.Context(), userID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, scores)
}

// GetUserAchievements godoc
// @Summary 查看学生成就
// @Tags 管理端
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "用户ID"
// @Success 200 {object} util.Response{data=[]model.Achievement} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/admin/users/{id}/achievements [get]
func (c *AdminController) GetUserAchievements(ctx *gin.Context) {
	userID, ok := pathUserID(ctx)
	if !ok {
		return
	}

	records, err := c.AdminService.FetchUserAchievements(ctx.Request.Context(), userID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, records)
}

// GetQuizAttemptDetails godoc
// @Summary 查看学生单次测验明细
// @Tags 管理端
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "用户ID"
// @Param   scoreId path int true "成绩ID"
// @Success 200 {object} util.Response{data=model.Score} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 404 {object} util.Response "记录不存在"
// @Router /api/admin/users/{id}/scores/{scoreId} [get]
func (c *AdminController) GetQuizAttemptDetails(ctx *gin.Context) {
	userID, ok := pathUserID(ctx)
	if !ok {
		return
	}

	scoreID, err := strconv.ParseUint(ctx.Param("scoreId"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid score id")
		return
	}

	score, err := c.AdminService.FetchQuizAttemptDetails(ctx.Request.Context(), userID, uint(scoreID))
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

// ListPendingResets godoc
// @Summary 待处理的找回密码请求
// @Tags 管理端
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.PasswordResetRequest} "成功"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/admin/password-resets [get]
func (c *AdminController) ListPendingResets(ctx *gin.Context) {
	requests, err := c.ResetService.ListPending(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, requests)
}

// CompleteReset godoc
// @Summary 标记找回请求已处理
// @Description 把请求移出待处理队列，实际改密走设置密码接口
// @Tags 管理端
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "请求ID"
// @Success 200 {object} util.Response "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 409 {object} util.Response "请求不在待处理状态"
// @Router /api/admin/password-resets/{id}/complete [post]
func (c *AdminController) CompleteReset(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid request id")
		return
	}

	if err := c.ResetService.Complete(ctx.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, util.ErrRequestNotPending) {
			util.Error(ctx, 409, "请求不在待处理状态")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"completed": true})
}

// swagger:model AdminSetPasswordRequest
type AdminSetPasswordRequest struct {
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// SetUserPassword godoc
// @Summary 管理员设置用户密码
// @Tags 管理端
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "用户ID"
// @Param   body body AdminSetPasswordRequest true "新密码"
// @Success 200 {object} util.Response "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 404 {object} util.Response "用户不存在"
// @Router /api/admin/users/{id}/password [post]
func (c *AdminController) SetUserPassword(ctx *gin.Context) {
	userID, ok := pathUserID(ctx)
	if !ok {
		return
	}

	var req AdminSetPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.ResetService.AdminSetPassword(ctx.Request.Context(), userID, req.NewPassword); err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"updated": true})
}

func pathUserID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid user id")
		return 0, false
	}
	return uint(id), true
}
