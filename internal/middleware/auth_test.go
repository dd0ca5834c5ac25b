package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mathquest_backend/internal/config"
	"mathquest_backend/internal/model"
	"mathquest_backend/internal/service"
	"mathquest_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRouter(cfg *config.Config, admin bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := []gin.HandlerFunc{AuthMiddleware(cfg, service.NewSessionService(nil))}
	if admin {
		handlers = append(handlers, AdminMiddleware(cfg))
	}
	group := r.Group("/", handlers...)
	group.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func issueToken(t *testing.T, cfg *config.Config, role model.UserRole, email string) string {
	t.Helper()
	token, err := util.GenerateJWT(&model.User{
		BaseModel: model.BaseModel{ID: 7},
		Email:     email,
		Role:      role,
	}, cfg.JWT.Secret, time.Hour)
	require.NoError(t, err)
	return token
}

func testCfg() *config.Config {
	return &config.Config{
		JWT:   config.JWTConfig{Secret: "test-secret-test-secret-test-secret", ExpireTime: time.Hour},
		Admin: config.AdminConfig{Emails: []string{"teacher@mathquest.local"}},
	}
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	r := testRouter(testCfg(), false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareRejectsGarbageToken(t *testing.T) {
	r := testRouter(testCfg(), false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	cfg := testCfg()
	r := testRouter(cfg, false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, cfg, model.Student, "kid@example.com"))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminMiddlewareEnforcesWhitelist(t *testing.T) {
	cfg := testCfg()
	r := testRouter(cfg, true)

	// admin 角色但邮箱不在服务端白名单：拒绝
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, cfg, model.Admin, "impostor@example.com"))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 白名单邮箱但角色不是 admin：拒绝
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, cfg, model.Student, "teacher@mathquest.local"))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 两者都满足：放行
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, cfg, model.Admin, "teacher@mathquest.local"))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminWhitelistHotReload(t *testing.T) {
	cfg := testCfg()
	r := testRouter(cfg, true)

	token := issueToken(t, cfg, model.Admin, "newadmin@example.com")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 配置重载替换白名单后，同一令牌无需重启即放行
	cfg.Admin.Replace([]string{"newadmin@example.com"})

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
