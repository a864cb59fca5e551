// Package auth verifies the bearer tokens that identify callers.
//
// Accounts and login live in a separate auth service that signs HS256 tokens
// with a shared secret. This package only needs the verifying half, plus
// Generate for tooling and tests.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("authorization token required")
)

// clockSkew tolerates small clock drift between this server and the auth
// service that minted the token.
const clockSkew = 30 * time.Second

// JWTManager checks tokens minted by the auth service against the shared
// secret. The TTL is only used by Generate.
type JWTManager struct {
	secretKey []byte
	ttl       time.Duration
	parser    *jwt.Parser
}

// Claims is what a verified token says about its caller. UserID falls back
// to the registered subject for tokens that only carry "sub".
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

func NewJWTManager(secretKey string, ttl time.Duration) *JWTManager {
	return &JWTManager{
		secretKey: []byte(secretKey),
		ttl:       ttl,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithLeeway(clockSkew),
		),
	}
}

// Generate mints a token the way the auth service does. The server never
// calls it; it exists for the CLI and tests.
func (m *JWTManager) Generate(userID, email string) (string, error) {
	if userID == "" {
		return "", errors.New("user id is required")
	}
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate verifies an externally minted token and returns its caller.
// Every failure wraps ErrInvalidToken.
func (m *JWTManager) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := m.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return m.secretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing user id", ErrInvalidToken)
	}
	return claims, nil
}
