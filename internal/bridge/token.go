package bridge

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenSubject names the only party bridge tokens are issued to.
const TokenSubject = "autofill"

var ErrInvalidToken = errors.New("invalid bridge token")

// IssueToken signs an HS256 token for the autofill client valid for ttl.
func IssueToken(key []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   TokenSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})

	s, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("sign bridge token: %w", err)
	}
	return s, nil
}

// VerifyToken checks signature, expiry and subject.
func VerifyToken(tokenString string, key []byte) error {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithSubject(TokenSubject),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}
