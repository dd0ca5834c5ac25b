package security

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// OriginSet CORS 白名单的并发安全持有者，配置热更新时整体替换
type OriginSet struct {
	mu  sync.RWMutex
	set map[string]bool
}

func NewOriginSet(origins []string) *OriginSet {
	s := &OriginSet{}
	s.Replace(origins)
	return s
}

func (s *OriginSet) Replace(origins []string) {
	set := make(map[string]bool, len(origins))
	for _, o := range origins {
		set[o] = true
	}
	s.mu.Lock()
	s.set = set
	s.mu.Unlock()
}

func (s *OriginSet) Allowed(origin string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.set[origin]
}

// CORS 中间件 仅允许白名单中的Origin，支持Credentials
func CORS(origins *OriginSet) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		if origin != "" && origins.Allowed(origin) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// Secure 中间件
func Secure() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 防止MIME嗅探
		c.Header("X-Content-Type-Options", "nosniff")
		// 防止点击劫持
		c.Header("X-Frame-Options", "DENY")
		// XSS保护
		c.Header("X-XSS-Protection", "1; mode=block")
		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		}

		c.Next()
	}
}

// visitor 包装限流器和最后活跃时间，用于定期清理
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimitPolicy 按IP限流的参数与状态持有者。
// Update 热更新限流参数，已有IP的限流器同步调整
type RateLimitPolicy struct {
	mu     sync.Mutex
	rate   rate.Limit
	burst  int
	window time.Duration
	store  map[string]*visitor
}

func NewRateLimitPolicy(maxRequests int, window time.Duration) *RateLimitPolicy {
	p := &RateLimitPolicy{store: make(map[string]*visitor)}
	p.Update(maxRequests, window)
	return p
}

func (p *RateLimitPolicy) Update(maxRequests int, window time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rate = rate.Every(window / time.Duration(maxRequests))
	p.burst = maxRequests
	p.window = window
	for _, v := range p.store {
		v.limiter.SetLimit(p.rate)
		v.limiter.SetBurst(p.burst)
	}
}

// allow 取或建该 key 的限流器并消费一个令牌
func (p *RateLimitPolicy) allow(key string) bool {
	p.mu.Lock()
	v, exists := p.store[key]
	if !exists {
		v = &visitor{
			limiter: rate.NewLimiter(p.rate, p.burst),
		}
		p.store[key] = v
	}
	v.lastSeen = time.Now()
	p.mu.Unlock()

	return v.limiter.Allow()
}

// sweep 清理一轮过期条目
func (p *RateLimitPolicy) sweep() {
	p.mu.Lock()
	defer p.mu.Unlock()
	expiry := p.window * 3
	if expiry < time.Minute {
		expiry = time.Minute
	}
	for ip, v := range p.store {
		if time.Since(v.lastSeen) > expiry {
			delete(p.store, ip)
		}
	}
}

// RateLimiter 限流中间件 按IP限流，自动清理过期条目
func RateLimiter(policy *RateLimitPolicy) gin.HandlerFunc {
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			policy.sweep()
		}
	}()

	return func(c *gin.Context) {
		if !policy.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}

		c.Next()
	}
}
