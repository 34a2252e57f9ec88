package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func TestGenerateAndParseToken(t *testing.T) {
	tok, err := GenerateToken("alice@example.com", secret, time.Hour)
	require.NoError(t, err)

	email, err := GetEmailFromToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", email)
}

func TestGetEmailFromToken_Errors(t *testing.T) {
	expired, err := GenerateToken("bob@example.com", secret, -time.Minute)
	require.NoError(t, err)

	otherKey, err := GenerateToken("bob@example.com", []byte("other"), time.Hour)
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Email: "eve@example.com"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noEmail, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{}).SignedString(secret)
	require.NoError(t, err)

	tests := map[string]string{
		"expired":       expired,
		"wrong key":     otherKey,
		"alg none":      unsigned,
		"missing email": noEmail,
		"garbage":       "not.a.token",
		"empty":         "",
	}
	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := GetEmailFromToken(tok, secret)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidToken), "got %v", err)
		})
	}
}

func TestPasswordHash(t *testing.T) {
	h, err := HashPassword("s3cret!")
	require.NoError(t, err)
	assert.True(t, CheckPassword(h, "s3cret!"))
	assert.False(t, CheckPassword(h, "wrong"))
	assert.False(t, CheckPassword([]byte("not-a-hash"), "s3cret!"))
}
