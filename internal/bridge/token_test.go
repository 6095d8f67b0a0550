package bridge

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func TestToken_RoundTrip(t *testing.T) {
	tok, err := IssueToken(testKey, time.Minute)
	require.NoError(t, err)
	require.NoError(t, VerifyToken(tok, testKey))
}

func TestToken_Rejections(t *testing.T) {
	expired, err := IssueToken(testKey, -time.Minute)
	require.NoError(t, err)

	otherSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "someone-else",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}).SignedString(testKey)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: TokenSubject,
	}).SignedString(testKey)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   TokenSubject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	valid, err := IssueToken(testKey, time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		key   []byte
	}{
		{"expired", expired, testKey},
		{"wrong subject", otherSubject, testKey},
		{"no expiry", noExpiry, testKey},
		{"alg none", unsigned, testKey},
		{"wrong key", valid, []byte("ffffffffffffffffffffffffffffffff")},
		{"garbage", "abc.def.ghi", testKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, VerifyToken(tt.token, tt.key), ErrInvalidToken)
		})
	}
}
