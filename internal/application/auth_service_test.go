package application

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyforest/study-forest-api/internal/infrastructure/memory"
	"github.com/studyforest/study-forest-api/pkg/helpers"
)

func newAuth(t *testing.T) *AuthService {
	t.Helper()
	jwt, err := helpers.NewJWTManager("test-secret", time.Hour)
	require.NoError(t, err)
	return NewAuthService(memory.NewStore().Stores().Users, jwt, helpers.NewDiscardLogger())
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuth(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Email: "  Mina@Forest.DEV ", Nickname: " mina ", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, "mina@forest.dev", u.Email)
	assert.Equal(t, "mina", u.Nickname)
	assert.NotEqual(t, "correct horse", u.PasswordHash)

	sess, err := svc.Login(ctx, LoginInput{Email: "MINA@forest.dev", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, sess.User.ID)
	assert.True(t, sess.ExpiresAt.After(time.Now()))

	claims, err := svc.JWT.Verify(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)

	me, err := svc.Me(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, me.Email)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newAuth(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterInput{Email: "dup@forest.dev", Nickname: "dup", Password: "12345678"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Email: "DUP@forest.dev", Nickname: "dup2", Password: "12345678"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterValidation(t *testing.T) {
	svc := newAuth(t)

	_, err := svc.Register(context.Background(), RegisterInput{Email: "nope", Nickname: "x", Password: "short"})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Details, "email")
	assert.Contains(t, verr.Details, "nickname")
	assert.Contains(t, verr.Details, "password")
}

func TestRegisterRejectsPasswordOverBcryptLimit(t *testing.T) {
	svc := newAuth(t)
	ctx := context.Background()

	// 28 runes, 84 bytes.
	long := strings.Repeat("숲", 28)
	_, err := svc.Register(ctx, RegisterInput{Email: "long@forest.dev", Nickname: "long", Password: long})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{"password": "must be at most 72 bytes"}, verr.Details)

	// 24 runes, 72 bytes.
	_, err = svc.Register(ctx, RegisterInput{Email: "edge@forest.dev", Nickname: "edge", Password: strings.Repeat("숲", 24)})
	require.NoError(t, err)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuth(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterInput{Email: "a@forest.dev", Nickname: "aa", Password: "12345678"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginInput{Email: "a@forest.dev", Password: "87654321"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginInput{Email: "ghost@forest.dev", Password: "12345678"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginInput{})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestMeUnknownUser(t *testing.T) {
	_, err := newAuth(t).Me(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
