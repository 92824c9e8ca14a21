package authservice

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizer_RoundTrip(t *testing.T) {
	tk := NewTokenizer("secret", time.Hour)

	token, expiry, err := tk.Generate(42)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiry, time.Minute)

	userID, err := tk.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), userID)
}

func TestTokenizer_Rejects(t *testing.T) {
	tk := NewTokenizer("secret", time.Hour)
	valid, _, err := tk.Generate(42)
	require.NoError(t, err)

	past := &tokenizer{secret: []byte("secret"), ttl: time.Hour, now: func() time.Time { return time.Now().Add(-2 * time.Hour) }}
	expired, _, err := past.Generate(42)
	require.NoError(t, err)

	forged, _, err := NewTokenizer("other-secret", time.Hour).Generate(42)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "42",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "42"}).SignedString([]byte("secret"))
	require.NoError(t, err)

	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	tests := map[string]string{
		"expired":      expired,
		"wrong secret": forged,
		"alg none":     none,
		"no expiry":    noExpiry,
		"tampered":     tampered,
		"malformed":    "not-a-token",
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := tk.Verify(token)
			assert.Error(t, err)
		})
	}

	_, err = tk.Verify(expired)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	_, err = tk.Verify(forged)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestTokenizer_RejectsNonNumericSubject(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "admin",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewTokenizer("secret", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrSubjectInvalid)
}
