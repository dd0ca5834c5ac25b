package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newTestRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(mw)
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func TestCORSOriginReplaceTakesEffect(t *testing.T) {
	origins := NewOriginSet([]string{"https://old.mathquest.io"})
	router := newTestRouter(CORS(origins))

	do := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Origin", origin)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	// 重载前新域名不在白名单
	w := do("https://new.mathquest.io")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	origins.Replace([]string{"https://new.mathquest.io"})

	// 重载后生效，旧域名同时失效
	w = do("https://new.mathquest.io")
	assert.Equal(t, "https://new.mathquest.io", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	w = do("https://old.mathquest.io")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimitPolicyUpdateTakesEffect(t *testing.T) {
	policy := NewRateLimitPolicy(1, time.Hour)
	router := newTestRouter(RateLimiter(policy))

	do := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = ip + ":51000"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1"))

	policy.Update(5, time.Hour)

	// 新配额对之后的来访者生效
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, do("10.0.0.2"))
	}
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.2"))
}
