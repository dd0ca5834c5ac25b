package service

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionService 会话登记与吊销。redis 不可用（嵌入式单机部署）时放行所有已签名 token，
// signOut 仅在服务端有会话登记时才能真正生效
type SessionService struct {
	rdb *redis.Client
}

func NewSessionService(rdb *redis.Client) *SessionService {
	return &SessionService{rdb: rdb}
}

func sessionKey(jti string) string {
	return "session:" + jti
}

func (s *SessionService) Track(ctx context.Context, jti string, userID uint, ttl time.Duration) error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.Set(ctx, sessionKey(jti), userID, ttl).Err()
}

// Revoke 幂等：重复注销同一会话不会报错
func (s *SessionService) Revoke(ctx context.Context, jti string) error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.Del(ctx, sessionKey(jti)).Err()
}

func (s *SessionService) IsActive(ctx context.Context, jti string) (bool, error) {
	if s.rdb == nil {
		return true, nil
	}
	_, err := s.rdb.Get(ctx, sessionKey(jti)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
