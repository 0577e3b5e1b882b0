package service

import (
	"context"
	"testing"

	"talknest/internal/cache"
	"talknest/internal/models"
	"talknest/internal/repository"
	"talknest/internal/session"
	"talknest/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-with-enough-length-123456"

func newAuthService(t *testing.T, bridge *recordingBridge) (*AuthService, *session.Authenticator, repository.UserRepository) {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	users := repository.NewUserRepository(db)
	auth := session.NewAuthenticator(session.NewManager(testSecret), users, cache.RevocationList{})
	svc := NewAuthService(users, auth, bridge, "https://avatar.test/default.png").WithBcryptCost(bcrypt.MinCost)
	return svc, auth, users
}

func TestAuthServiceSignupCreatesUserAndSession(t *testing.T) {
	bridge := &recordingBridge{}
	svc, auth, users := newAuthService(t, bridge)
	ctx := context.Background()

	user, sess, err := svc.Signup(ctx, SignupInput{Email: "  Ana@Example.com ", Password: "secret1", FullName: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, "https://avatar.test/default.png", user.ProfilePic)
	assert.Empty(t, user.Password)
	assert.False(t, user.IsOnboarded)

	stored, err := users.GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret1")))

	resolved, _, err := auth.Authenticate(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)

	calls := bridge.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "Ana", calls[0].Name)
}

func TestAuthServiceSignupValidation(t *testing.T) {
	svc, _, _ := newAuthService(t, &recordingBridge{})
	ctx := context.Background()

	tests := []struct {
		name   string
		in     SignupInput
		reason string
	}{
		{"missing email", SignupInput{Password: "secret1", FullName: "Ana"}, models.ReasonMissingField},
		{"missing name", SignupInput{Email: "a@b.co", Password: "secret1"}, models.ReasonMissingField},
		{"short password", SignupInput{Email: "a@b.co", Password: "12345", FullName: "Ana"}, models.ReasonInvalidField},
		{"bad email", SignupInput{Email: "not-an-email", Password: "secret1", FullName: "Ana"}, models.ReasonInvalidField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Signup(ctx, tt.in)
			requireAppError(t, err, models.CodeValidation, tt.reason)
		})
	}
}

func TestAuthServiceSignupDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthService(t, &recordingBridge{})
	ctx := context.Background()

	_, _, err := svc.Signup(ctx, SignupInput{Email: "ana@example.com", Password: "secret1", FullName: "Ana"})
	require.NoError(t, err)

	_, _, err = svc.Signup(ctx, SignupInput{Email: "ANA@example.com", Password: "secret2", FullName: "Other"})
	requireAppError(t, err, models.CodeConflict, models.ReasonEmailTaken)
}

func TestAuthServiceSignupSurvivesChatFailure(t *testing.T) {
	bridge := &recordingBridge{fail: true}
	svc, _, users := newAuthService(t, bridge)

	user, sess, err := svc.Signup(context.Background(), SignupInput{Email: "ana@example.com", Password: "secret1", FullName: "Ana"})
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.Len(t, bridge.calls(), 1)

	stored, err := users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", stored.FullName)
}

func TestAuthServiceLogin(t *testing.T) {
	svc, _, _ := newAuthService(t, &recordingBridge{})
	ctx := context.Background()

	_, _, err := svc.Signup(ctx, SignupInput{Email: "ana@example.com", Password: "secret1", FullName: "Ana"})
	require.NoError(t, err)

	user, sess, err := svc.Login(ctx, LoginInput{Email: "Ana@Example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Empty(t, user.Password)
	assert.NotEmpty(t, sess.Token)

	_, _, err = svc.Login(ctx, LoginInput{Email: "ana@example.com", Password: "wrong-password"})
	requireAppError(t, err, models.CodeUnauthenticated, models.ReasonInvalidCredentials)

	_, _, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "secret1"})
	requireAppError(t, err, models.CodeUnauthenticated, models.ReasonInvalidCredentials)

	_, _, err = svc.Login(ctx, LoginInput{Email: "ana@example.com"})
	requireAppError(t, err, models.CodeValidation, models.ReasonMissingField)
}

func TestAuthServiceLogoutRevokesToken(t *testing.T) {
	testutil.NewMiniredis(t)
	svc, auth, _ := newAuthService(t, &recordingBridge{})
	ctx := context.Background()

	_, sess, err := svc.Signup(ctx, SignupInput{Email: "ana@example.com", Password: "secret1", FullName: "Ana"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, sess.Token))

	_, _, err = auth.Authenticate(ctx, sess.Token)
	requireAppError(t, err, models.CodeUnauthenticated, models.ReasonTokenRevoked)

	// garbage or absent tokens are ignored
	require.NoError(t, svc.Logout(ctx, ""))
	require.NoError(t, svc.Logout(ctx, "not-a-jwt"))
}
