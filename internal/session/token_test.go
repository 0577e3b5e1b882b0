package session_test

import (
	"strconv"
	"testing"
	"time"

	"talknest/internal/models"
	"talknest/internal/session"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func TestManager_IssueAndVerify(t *testing.T) {
	clock := newClock()
	m := session.NewManager(testSecret, session.WithClock(clock.Now))

	token, expiresAt, err := m.Issue(42)
	require.NoError(t, err)
	assert.Equal(t, clock.now.Add(7*24*time.Hour), expiresAt)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
	assert.Equal(t, session.Issuer, claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestManager_TokenExpiresAfterSevenDays(t *testing.T) {
	clock := newClock()
	m := session.NewManager(testSecret, session.WithClock(clock.Now))

	token, _, err := m.Issue(1)
	require.NoError(t, err)

	clock.Advance(7*24*time.Hour - time.Minute)
	_, err = m.Verify(token)
	require.NoError(t, err, "still valid just before the lifetime ends")

	clock.Advance(2 * time.Minute)
	_, err = m.Verify(token)
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeUnauthenticated))
	assert.True(t, models.IsReason(err, models.ReasonTokenExpired))
}

func TestManager_VerifyFailures(t *testing.T) {
	m := session.NewManager(testSecret)

	sign := func(method jwt.SigningMethod, key interface{}, claims jwt.Claims) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}
	valid := func() jwt.RegisteredClaims {
		now := time.Now()
		return jwt.RegisteredClaims{
			Subject:   "7",
			Issuer:    session.Issuer,
			Audience:  jwt.ClaimStrings{session.Audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		}
	}

	wrongIssuer := valid()
	wrongIssuer.Issuer = "someone-else"
	wrongAudience := valid()
	wrongAudience.Audience = jwt.ClaimStrings{"other"}
	badSubject := valid()
	badSubject.Subject = "not-a-number"
	noExpiry := valid()
	noExpiry.ExpiresAt = nil

	tests := []struct {
		name   string
		token  string
		reason string
	}{
		{"missing", "", models.ReasonTokenMissing},
		{"malformed", "malformed.token.here", models.ReasonTokenInvalid},
		{"wrong secret", sign(jwt.SigningMethodHS256, []byte("another-secret"), valid()), models.ReasonTokenInvalid},
		{"wrong algorithm", sign(jwt.SigningMethodHS512, []byte(testSecret), valid()), models.ReasonTokenInvalid},
		{"none algorithm", sign(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, valid()), models.ReasonTokenInvalid},
		{"wrong issuer", sign(jwt.SigningMethodHS256, []byte(testSecret), wrongIssuer), models.ReasonTokenInvalid},
		{"wrong audience", sign(jwt.SigningMethodHS256, []byte(testSecret), wrongAudience), models.ReasonTokenInvalid},
		{"bad subject", sign(jwt.SigningMethodHS256, []byte(testSecret), badSubject), models.ReasonTokenInvalid},
		{"no expiry", sign(jwt.SigningMethodHS256, []byte(testSecret), noExpiry), models.ReasonTokenInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Verify(tt.token)
			require.Error(t, err)
			assert.True(t, models.IsCode(err, models.CodeUnauthenticated))
			assert.True(t, models.IsReason(err, tt.reason), "got %v", err)
		})
	}
}

func TestManager_IssueWithoutSecret(t *testing.T) {
	_, _, err := session.NewManager("").Issue(1)
	assert.Error(t, err)
}

func TestClaims_UserID(t *testing.T) {
	c := &session.Claims{}
	c.Subject = strconv.Itoa(0)
	_, err := c.UserID()
	assert.Error(t, err)

	c.Subject = "15"
	id, err := c.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(15), id)
}

func TestManager_SameInstantTokensHaveDistinctIDs(t *testing.T) {
	clock := newClock()
	m := session.NewManager(testSecret, session.WithClock(clock.Now))

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		token, _, err := m.Issue(1)
		require.NoError(t, err)
		claims, err := m.Verify(token)
		require.NoError(t, err)
		require.False(t, seen[claims.ID], "duplicate jti %s", claims.ID)
		seen[claims.ID] = true
		assert.Len(t, claims.ID, 36)
	}
}

func TestClaims_UserIDAbove32Bits(t *testing.T) {
	m := session.NewManager(testSecret)
	big := uint64(1) << 33

	token, _, err := m.Issue(uint(big))
	require.NoError(t, err)
	claims, err := m.Verify(token)
	require.NoError(t, err)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(big), id)
}
