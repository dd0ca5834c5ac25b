package service

import (
	"context"
	"testing"

	"mathquest_backend/internal/model"
	"mathquest_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestRecordsPendingEntry(t *testing.T) {
	backend := newTestBackend(t)
	svc := NewResetService(backend)
	user := createTestUser(t, backend, "forgot@example.com")
	ctx := context.Background()

	require.NoError(t, svc.Request(ctx, "forgot@example.com"))

	pending, err := svc.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, model.ResetPending, pending[0].Status)
	require.NotNil(t, pending[0].UserID)
	assert.Equal(t, user.ID, *pending[0].UserID)
}

func TestRequestUnknownIdentifierStillRecorded(t *testing.T) {
	backend := newTestBackend(t)
	svc := NewResetService(backend)
	ctx := context.Background()

	// 查无此人也要落记录，入口不暴露账号存在性
	require.NoError(t, svc.Request(ctx, "ghost@example.com"))

	pending, err := svc.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "ghost@example.com", pending[0].Identifier)
	assert.Nil(t, pending[0].UserID)
}

func TestCompleteMovesOutOfPendingQueue(t *testing.T) {
	backend := newTestBackend(t)
	svc := NewResetService(backend)
	createTestUser(t, backend, "done@example.com")
	ctx := context.Background()

	require.NoError(t, svc.Request(ctx, "done@example.com"))
	pending, err := svc.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	id := pending[0].ID
	require.NoError(t, svc.Complete(ctx, id))

	pending, err = svc.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	// 已处理的请求不能再次标记
	assert.ErrorIs(t, svc.Complete(ctx, id), util.ErrRequestNotPending)
}

func TestResetWithPinHappyPath(t *testing.T) {
	backend := newTestBackend(t)
	authSvc := newTestAuthService(backend)
	resetSvc := NewResetService(backend)
	ctx := context.Background()

	_, _, err := authSvc.Register(ctx, RegisterInput{
		Name: "A", Email: "pin@example.com", Password: "password1234", RecoveryPin: "4711",
	})
	require.NoError(t, err)

	require.NoError(t, resetSvc.ResetWithPin(ctx, "pin@example.com", "4711", "newpassword99"))

	user, token, err := authSvc.Login(ctx, "pin@example.com", "newpassword99")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.NotEmpty(t, token)
}

func TestResetWithWrongPin(t *testing.T) {
	backend := newTestBackend(t)
	authSvc := newTestAuthService(backend)
	resetSvc := NewResetService(backend)
	ctx := context.Background()

	_, _, err := authSvc.Register(ctx, RegisterInput{
		Name: "A", Email: "pin2@example.com", Password: "password1234", RecoveryPin: "4711",
	})
	require.NoError(t, err)

	err = resetSvc.ResetWithPin(ctx, "pin2@example.com", "0000", "newpassword99")
	assert.ErrorIs(t, err, util.ErrInvalidPin)

	// 未设置过 PIN 的账号同样拒绝
	_, _, err = authSvc.Register(ctx, RegisterInput{
		Name: "B", Email: "nopin@example.com", Password: "password1234",
	})
	require.NoError(t, err)
	err = resetSvc.ResetWithPin(ctx, "nopin@example.com", "4711", "newpassword99")
	assert.ErrorIs(t, err, util.ErrInvalidPin)
}

func TestAdminSetPassword(t *testing.T) {
	backend := newTestBackend(t)
	authSvc := newTestAuthService(backend)
	resetSvc := NewResetService(backend)
	user := createTestUser(t, backend, "locked-out@example.com")
	ctx := context.Background()

	require.NoError(t, resetSvc.AdminSetPassword(ctx, user.ID, "issued-by-admin1"))

	loggedIn, token, err := authSvc.Login(ctx, "locked-out@example.com", "issued-by-admin1")
	require.NoError(t, err)
	require.NotNil(t, loggedIn)
	assert.NotEmpty(t, token)

	assert.ErrorIs(t, resetSvc.AdminSetPassword(ctx, 9999, "whatever12"), util.ErrUserNotFound)
}
