package helpers

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, now time.Time) *JWTManager {
	t.Helper()
	m, err := NewJWTManager("test-secret", time.Hour)
	require.NoError(t, err)
	m.now = func() time.Time { return now }
	return m
}

func TestNewJWTManagerRequiresSecret(t *testing.T) {
	m, err := NewJWTManager("", time.Hour)
	assert.Nil(t, m)
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestNewJWTManagerDefaultsTTL(t *testing.T) {
	m, err := NewJWTManager("s", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultSessionTTL, m.TTL)
	assert.Equal(t, 7*24*time.Hour, m.TTL)
}

func TestSignVerifyRoundTrip(t *testing.T) {
	now := time.Now()
	m := newTestManager(t, now)

	token, exp, err := m.Sign("user-1")
	require.NoError(t, err)
	assert.WithinDuration(t, now.Add(time.Hour), exp, time.Second)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	issued := time.Now()
	m := newTestManager(t, issued)
	token, _, err := m.Sign("user-1")
	require.NoError(t, err)

	m.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = m.Verify(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	m := newTestManager(t, time.Now())
	token, _, err := m.Sign("user-1")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = m.Verify(tampered)
	assert.Error(t, err)
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	other, err := NewJWTManager("other-secret", time.Hour)
	require.NoError(t, err)
	token, _, err := other.Sign("user-1")
	require.NoError(t, err)

	m := newTestManager(t, time.Now())
	_, err = m.Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsMalformedAndUnsigned(t *testing.T) {
	m := newTestManager(t, time.Now())

	_, err := m.Verify("not-a-token")
	assert.Error(t, err)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	s, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.Verify(s)
	assert.Error(t, err)
}

func TestVerifyRejectsTokenWithoutExpiry(t *testing.T) {
	m := newTestManager(t, time.Now())
	t0 := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{UserID: "user-1"})
	s, err := t0.SignedString(m.Secret)
	require.NoError(t, err)

	_, err = m.Verify(s)
	assert.Error(t, err)
}
