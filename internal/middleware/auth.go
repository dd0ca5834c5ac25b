package middleware

import (
	"strings"

	"mathquest_backend/internal/config"
	"mathquest_backend/internal/model"
	"mathquest_backend/internal/service"
	"mathquest_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware 解析 Bearer 令牌并核对服务端会话登记，
// 已退出登录的令牌即使没过期也会被拒绝
func AuthMiddleware(cfg *config.Config, sessions *service.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		active, err := sessions.IsActive(c.Request.Context(), claims.ID)
		if err != nil || !active {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("user", claims)
		c.Next()
	}
}

// AdminMiddleware 管理端双重校验：令牌角色之外还要过服务端白名单，
// 不信任客户端侧的角色声明
func AdminMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		if claims == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		if claims.Role != model.Admin || !cfg.Admin.Contains(claims.Email) {
			util.Forbidden(c)
			c.Abort()
			return
		}

		c.Next()
	}
}
