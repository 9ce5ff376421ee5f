package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blendery/internal/core/apperror"
	appctx "blendery/internal/core/context"
	"blendery/internal/domain/auth"
	"blendery/internal/testutil"
)

const secret = "test-secret-at-least-32-bytes-long!!"

func newService(st *testutil.Stores) *auth.Service {
	cfg := auth.DefaultServiceConfig()
	cfg.MaxLoginAttempts = 3
	return auth.NewService(st.Users, st.Tx, auth.NewJWTService(auth.DefaultJWTConfig(secret)), st.Audit, cfg)
}

func TestLogin_IssuesVerifiableToken(t *testing.T) {
	st := testutil.NewStores()
	svc := newService(st)
	ctx := testutil.AdminCtx()

	u, err := svc.CreateUser(ctx, auth.CreateUserRequest{
		Email:    " Owner@Blendery.Test ",
		Password: "correct horse",
		Name:     "Owner",
		IsAdmin:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, "owner@blendery.test", u.Email)
	assert.NotEqual(t, "correct horse", u.PasswordHash)

	token, logged, err := svc.Login(ctx, auth.Credentials{Email: "OWNER@blendery.test", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.True(t, token.ExpiresAt.After(time.Now()))
	assert.NotNil(t, logged.LastLoginAt)

	claims, err := svc.ValidateToken(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), claims.UserID)
	assert.True(t, claims.IsAdmin)
	assert.Contains(t, claims.Roles, appctx.RoleAdmin)
}

func TestCreateUser_Rejects(t *testing.T) {
	st := testutil.NewStores()
	svc := newService(st)
	ctx := testutil.AdminCtx()

	_, err := svc.CreateUser(ctx, auth.CreateUserRequest{Email: "a@b.test", Password: "short"})
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	_, err = svc.CreateUser(ctx, auth.CreateUserRequest{Email: "not-an-email", Password: "long enough"})
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	_, err = svc.CreateUser(ctx, auth.CreateUserRequest{Email: "a@b.test", Password: "long enough"})
	require.NoError(t, err)
	_, err = svc.CreateUser(ctx, auth.CreateUserRequest{Email: "A@B.test", Password: "long enough"})
	assert.True(t, apperror.HasCode(err, apperror.CodeDuplicate))
}

func TestLogin_WrongPasswordLocksAccount(t *testing.T) {
	st := testutil.NewStores()
	svc := newService(st)
	ctx := testutil.AdminCtx()

	u, err := svc.CreateUser(ctx, auth.CreateUserRequest{Email: "op@blendery.test", Password: "right password"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, _, err = svc.Login(ctx, auth.Credentials{Email: "op@blendery.test", Password: "wrong password"})
		assert.True(t, apperror.HasCode(err, apperror.CodeUnauthorized))
	}

	stored, err := st.Users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.FailedLoginAttempts)
	assert.True(t, stored.IsLocked())

	_, _, err = svc.Login(ctx, auth.Credentials{Email: "op@blendery.test", Password: "right password"})
	assert.True(t, apperror.HasCode(err, apperror.CodeForbidden))
}

func TestLogin_UnknownUser(t *testing.T) {
	svc := newService(testutil.NewStores())

	_, _, err := svc.Login(testutil.Ctx(), auth.Credentials{Email: "nobody@blendery.test", Password: "whatever1"})
	assert.True(t, apperror.HasCode(err, apperror.CodeUnauthorized))
}

func TestValidateToken_RejectsForeignSignature(t *testing.T) {
	st := testutil.NewStores()
	svc := newService(st)
	ctx := testutil.AdminCtx()

	u, err := svc.CreateUser(ctx, auth.CreateUserRequest{Email: "op@blendery.test", Password: "right password"})
	require.NoError(t, err)

	other := auth.NewJWTService(auth.DefaultJWTConfig("another-secret-of-sufficient-length"))
	forged, _, err := other.GenerateAccessToken(u)
	require.NoError(t, err)

	_, err = svc.ValidateToken(forged)
	assert.True(t, apperror.HasCode(err, apperror.CodeUnauthorized))

	_, err = svc.ValidateToken("garbage")
	assert.True(t, apperror.HasCode(err, apperror.CodeUnauthorized))
}

func TestGetUserByID_NotFound(t *testing.T) {
	st := testutil.NewStores()
	svc := newService(st)

	u := auth.NewUser("x@blendery.test", "hash", "X")
	_, err := svc.GetUserByID(testutil.Ctx(), u.ID)
	assert.True(t, apperror.IsNotFound(err))
}
