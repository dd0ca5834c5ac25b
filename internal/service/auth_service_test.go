package service

import (
	"context"
	"testing"

	"mathquest_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterIssuesSession(t *testing.T) {
	backend := newTestBackend(t)
	svc := newTestAuthService(backend)

	user, token, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "password1234",
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEmpty(t, token)

	claims, err := util.ParseJWT(token, testConfig().JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	backend := newTestBackend(t)
	svc := newTestAuthService(backend)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "dup@example.com", Password: "password1234"})
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, RegisterInput{Name: "B", Email: "dup@example.com", Password: "password5678"})
	assert.ErrorIs(t, err, util.ErrDuplicateAccount)
}

func TestLoginWrongCredentialsReturnsNilNil(t *testing.T) {
	backend := newTestBackend(t)
	svc := newTestAuthService(backend)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "login@example.com", Password: "password1234"})
	require.NoError(t, err)

	// 密码错：不是系统错误，返回空结果让前端提示重试
	user, token, err := svc.Login(ctx, "login@example.com", "wrong-password")
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.Empty(t, token)

	// 账号不存在同样不报错，避免区分出哪些邮箱已注册
	user, token, err = svc.Login(ctx, "nobody@example.com", "whatever12")
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.Empty(t, token)
}

func TestLoginByStudentNo(t *testing.T) {
	backend := newTestBackend(t)
	svc := newTestAuthService(backend)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, RegisterInput{
		Name: "A", Email: "stu@example.com", Password: "password1234", StudentNo: "S-2026-001",
	})
	require.NoError(t, err)

	user, token, err := svc.Login(ctx, "S-2026-001", "password1234")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.NotEmpty(t, token)
	assert.Equal(t, "stu@example.com", user.Email)
}

func TestLoginDisabledAccount(t *testing.T) {
	backend := newTestBackend(t)
	svc := newTestAuthService(backend)
	ctx := context.Background()

	user, _, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "off@example.com", Password: "password1234"})
	require.NoError(t, err)

	user.Disabled = true
	require.NoError(t, backend.Users().Update(ctx, user))

	_, _, err = svc.Login(ctx, "off@example.com", "password1234")
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestLoginEmailVerificationGateOnRemoteBackend(t *testing.T) {
	backend := &pinlessBackend{Backend: newTestBackend(t)}
	cfg := testConfig()
	svc := NewAuthService(backend, NewSessionService(nil), cfg)
	ctx := context.Background()

	// 真实域名账号：注册成功但邮箱未验证，登录被挡
	_, _, err := svc.Register(ctx, RegisterInput{Name: "Kid", Email: "kid@gmail.com", Password: "password1234"})
	require.NoError(t, err)
	_, _, err = svc.Login(ctx, "kid@gmail.com", "password1234")
	assert.ErrorIs(t, err, util.ErrEmailNotVerified)

	// 占位域名账号没有邮箱可验证，豁免门禁
	_, _, err = svc.Register(ctx, RegisterInput{Name: "Local", Email: "local@mathquest.local", Password: "password1234"})
	require.NoError(t, err)
	user, token, err := svc.Login(ctx, "local@mathquest.local", "password1234")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.NotEmpty(t, token)

	// 管理员白名单豁免：入白名单前被挡，白名单热更新后放行
	_, _, err = svc.Register(ctx, RegisterInput{Name: "Teacher", Email: "teacher@example.com", Password: "password1234"})
	require.NoError(t, err)
	_, _, err = svc.Login(ctx, "teacher@example.com", "password1234")
	assert.ErrorIs(t, err, util.ErrEmailNotVerified)

	cfg.Admin.Replace([]string{"teacher@example.com"})
	user, token, err = svc.Login(ctx, "teacher@example.com", "password1234")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.NotEmpty(t, token)
}

func TestLoginAfterEmailVerified(t *testing.T) {
	backend := &pinlessBackend{Backend: newTestBackend(t)}
	svc := NewAuthService(backend, NewSessionService(nil), testConfig())
	ctx := context.Background()

	user, _, err := svc.Register(ctx, RegisterInput{Name: "Kid", Email: "verified@gmail.com", Password: "password1234"})
	require.NoError(t, err)

	// 带外验证完成后由后端置位
	user.EmailVerified = true
	require.NoError(t, backend.Users().Update(ctx, user))

	logged, token, err := svc.Login(ctx, "verified@gmail.com", "password1234")
	require.NoError(t, err)
	require.NotNil(t, logged)
	assert.NotEmpty(t, token)
}

func TestUpdateProfilePartialFields(t *testing.T) {
	backend := newTestBackend(t)
	svc := newTestAuthService(backend)
	ctx := context.Background()

	user, _, err := svc.Register(ctx, RegisterInput{Name: "Old Name", Email: "prof@example.com", Password: "password1234"})
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, user.ID, "", "zh")
	require.NoError(t, err)
	assert.Equal(t, "Old Name", updated.Name)
	assert.Equal(t, "zh", updated.Language)

	updated, err = svc.UpdateProfile(ctx, user.ID, "New Name", "")
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "zh", updated.Language)
}

func TestUpdateProfileUnknownUser(t *testing.T) {
	backend := newTestBackend(t)
	svc := newTestAuthService(backend)

	_, err := svc.UpdateProfile(context.Background(), 4242, "Name", "en")
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}
