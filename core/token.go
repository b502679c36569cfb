package core

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every token verification failure: bad signature,
// malformed payload, missing subject, expiry. Callers must not distinguish
// between them, so a single opaque error is all Verify ever returns.
var ErrInvalidToken = errors.New("invalid token")

// TokenIssuer creates and verifies HS256-signed bearer tokens. The signing
// secret is injected at construction and never read from ambient state.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret []byte, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: secret, ttl: ttl}
}

// Issue signs a token whose subject identifies the user and whose expiry is
// now + the configured ttl.
func (i *TokenIssuer) Issue(subject string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(i.ttl)),
	})
	return token.SignedString(i.secret)
}

// Verify decodes the token, checks signature and expiry, and returns the
// subject. The signing method is pinned to HS256 so a token re-signed with a
// different algorithm cannot pass.
func (i *TokenIssuer) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
