package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/studytrack/internal/apperror"
	"github.com/sakif/studytrack/internal/auth"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	store := newTestStore(t)
	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	require.NoError(t, err)
	return NewAuthService(store, auth.NewPasswordServiceForTest(4), tokens, testLogger())
}

func TestRegister_ThenLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, token, err := svc.Register(ctx, "Sam@Uni.EDU", "hunter2hunter2", "Sam")
	require.NoError(t, err)
	assert.Equal(t, "sam@uni.edu", user.Email, "email is stored lower-cased")
	assert.NotEmpty(t, token)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "hunter2hunter2", user.PasswordHash, "hash must never be the plaintext")

	got, loginToken, err := svc.Login(ctx, "sam@uni.edu", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.NotEmpty(t, loginToken)
}

func TestRegister_Validation(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "not-an-email", "hunter2hunter2", "X")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, _, err = svc.Register(ctx, "short@uni.edu", "short", "X")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "sam@uni.edu", "hunter2hunter2", "Sam")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "SAM@uni.edu", "differentpass99", "Sam 2")
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestLogin_UniformFailure(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "sam@uni.edu", "hunter2hunter2", "Sam")
	require.NoError(t, err)

	// Unknown email and wrong password are indistinguishable.
	_, _, unknownErr := svc.Login(ctx, "nobody@uni.edu", "whatever123")
	_, _, wrongErr := svc.Login(ctx, "sam@uni.edu", "wrong-password")

	assert.ErrorIs(t, unknownErr, apperror.ErrUnauthorized)
	assert.ErrorIs(t, wrongErr, apperror.ErrUnauthorized)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestLoginGitHub_Upserts(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	gh := &auth.GitHubUser{ID: 42, Login: "sam", Email: "sam@uni.edu", AvatarURL: "https://a/1.png"}

	first, token, err := svc.LoginGitHub(ctx, gh)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	// Second login with an updated avatar hits the same account.
	gh.AvatarURL = "https://a/2.png"
	second, _, err := svc.LoginGitHub(ctx, gh)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "https://a/2.png", second.AvatarURL)
}

func TestLoginGitHub_HiddenEmail(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	gh := &auth.GitHubUser{ID: 7, Login: "Ghost"}

	user, _, err := svc.LoginGitHub(ctx, gh)
	require.NoError(t, err)
	assert.Equal(t, "7+ghost@users.noreply.github.com", user.Email)
}
