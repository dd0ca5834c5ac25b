package controller

import (
	"errors"

	"mathquest_backend/internal/service"
	"mathquest_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ResetController struct {
	ResetService *service.ResetService
}

func NewResetController(resetService *service.ResetService) *ResetController {
	return &ResetController{ResetService: resetService}
}

// swagger:model ResetRequestBody
type ResetRequestBody struct {
	// Identifier 邮箱或学号
	Identifier string `json:"identifier" binding:"required"`
}

// Request godoc
// @Summary 发起找回密码请求
// @Description 登记一条待处理的找回请求，等待管理员处理；不暴露账号是否存在
// @Tags 找回密码
// @Accept  json
// @Produce  json
// @Param   body body ResetRequestBody true "账号标识"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/password-reset/request [post]
func (c *ResetController) Request(ctx *gin.Context) {
	var req ResetRequestBody
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.ResetService.Request(ctx.Request.Context(), req.Identifier); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"requested": true})
}

// swagger:model PinResetBody
type PinResetBody struct {
	Identifier  string `json:"identifier" binding:"required"`
	Pin         string `json:"pin" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// ResetWithPin godoc
// @Summary 凭PIN自助重置密码
// @Description 校验注册时设置的找回PIN并重置密码，仅嵌入式部署可用
// @Tags 找回密码
// @Accept  json
// @Produce  json
// @Param   body body PinResetBody true "PIN重置参数"
// @Success 200 {object} util.Response "成功"
// @Failure 400 {object} util.Response "PIN错误"
// @Failure 404 {object} util.Response "当前部署不支持"
// @Router /api/password-reset/pin [post]
func (c *ResetController) ResetWithPin(ctx *gin.Context) {
	var req PinResetBody
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	err := c.ResetService.ResetWithPin(ctx.Request.Context(), req.Identifier, req.Pin, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrPinResetNotLocal):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrInvalidPin), errors.Is(err, util.ErrResetNotFound):
			// 账号不存在和 PIN 错误给同一个答复，避免探测账号
			util.Error(ctx, 400, "账号或PIN不正确")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"reset": true})
}
