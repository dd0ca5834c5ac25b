package controller

import (
	"errors"

	"mathquest_backend/internal/service"
	"mathquest_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// RegisterRequest defines model for registration
// swagger:model RegisterRequest
type RegisterRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	StudentNo   string `json:"studentNo"`
	RecoveryPin string `json:"recoveryPin"`
}

// Register godoc
// @Summary 注册新用户
// @Description 使用提供的信息注册新用户并直接签发会话令牌
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body RegisterRequest true "用户注册信息"
// @Success 201 {object} util.Response{data=object} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 409 {object} util.Response "邮箱已被注册"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, token, err := c.AuthService.Register(ctx.Request.Context(), service.RegisterInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		StudentNo:   req.StudentNo,
		RecoveryPin: req.RecoveryPin,
	})
	if err != nil {
		if errors.Is(err, util.ErrDuplicateAccount) {
			util.Error(ctx, 409, "该邮箱已被注册")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, gin.H{"id": user.ID, "token": token})
}

// swagger:model LoginRequest
type LoginRequest struct {
	// Identifier 邮箱或学号
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// Login godoc
// @Summary 用户登录
// @Description 按邮箱或学号验证身份并返回JWT令牌
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body LoginRequest true "用户登录凭据"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "未授权"
// @Failure 403 {object} util.Response "邮箱未验证或账号被停用"
// @Router /api/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, token, err := c.AuthService.Login(ctx.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrEmailNotVerified):
			util.Error(ctx, 403, "请先完成邮箱验证")
		case errors.Is(err, util.ErrPermissionDenied):
			util.Error(ctx, 403, "账号已被停用")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	util.Success(ctx, gin.H{
		"token": token,
		"user": gin.H{
			"id":       user.ID,
			"name":     user.Name,
			"email":    user.Email,
			"role":     user.Role,
			"avatar":   user.Avatar,
			"language": user.Language,
		},
	})
}

// GetProfile godoc
// @Summary 获取当前用户资料
// @Description 获取当前已认证用户的个人资料
// @Tags 认证
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object} "Success"
// @Failure 401 {object} util.Response "Unauthorized"
// @Router /api/profile [get]
func (c *AuthController) GetProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	user, err := c.AuthService.GetUserData(ctx.Request.Context(), claims)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	util.Success(ctx, gin.H{
		"id":        user.ID,
		"name":      user.Name,
		"email":     user.Email,
		"role":      user.Role,
		"avatar":    user.Avatar,
		"language":  user.Language,
		"studentNo": user.StudentNo,
		"createdAt": user.CreatedAt,
		"lastLogin": user.LastLogin,
	})
}

// SignOut godoc
// @Summary 退出登录
// @Description 吊销当前会话令牌
// @Tags 认证
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response "成功"
// @Router /api/signout [post]
func (c *AuthController) SignOut(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.AuthService.SignOut(ctx.Request.Context(), claims); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"signedOut": true})
}
