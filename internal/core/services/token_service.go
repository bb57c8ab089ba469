package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService issues signed HS256 tokens carrying the user id as subject.
type TokenService struct {
	secret []byte
	issuer string
	expiry time.Duration
}

func NewTokenService(secret string, issuer string, expiry time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), issuer: issuer, expiry: expiry}
}

// GenerateToken creates a signed JWT for the given user.
func (s *TokenService) GenerateToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
