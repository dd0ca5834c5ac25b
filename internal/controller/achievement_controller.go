package controller

import (
	"mathquest_backend/internal/service"
	"mathquest_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AchievementController struct {
	AchievementService *service.AchievementService
}

func NewAchievementController(achievementService *service.AchievementService) *AchievementController {
	return &AchievementController{AchievementService: achievementService}
}

// Unlock godoc
// @Summary 解锁成就
// @Description 记录一次成就解锁，重复解锁幂等
// @Tags 成就
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "成就标识"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "未授权"
// @Router /api/achievements/{id}/unlock [post]
func (c *AchievementController) Unlock(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	achievementID := ctx.Param("id")
	if achievementID == "" {
		util.BadRequest(ctx, "achievement id is required")
		return
	}

	if err := c.AchievementService.Unlock(ctx.Request.Context(), claims.UserID, achievementID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"achievementId": achievementID})
}

// List godoc
// @Summary 查询已解锁成就
// @Tags 成就
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Achievement} "成功"
// @Failure 401 {object} util.Response "未授权"
// @Router /api/achievements [get]
func (c *AchievementController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	records, err := c.AchievementService.List(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, records)
}
