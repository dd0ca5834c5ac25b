package controller

import (
	"mathquest_backend/internal/repository"
	"mathquest_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type HealthController struct {
	Backend repository.Backend
}

func NewHealthController(backend repository.Backend) *HealthController {
	return &HealthController{Backend: backend}
}

// Check godoc
// @Summary 健康检查
// @Description 探测存储后端连通性
// @Tags 系统
// @Produce  json
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 503 {object} util.Response "存储不可用"
// @Router /api/health [get]
func (c *HealthController) Check(ctx *gin.Context) {
	if err := c.Backend.Ping(ctx.Request.Context()); err != nil {
		util.Error(ctx, 503, "storage unavailable")
		return
	}
	util.Success(ctx, gin.H{"status": "ok"})
}
