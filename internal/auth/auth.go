package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("auth: invalid or expired token")
	ErrInvalidRole  = errors.New("auth: unsupported role")
)

// Role is the closed set of roles a user can hold. External strings are
// translated through ParseRole at the boundary.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleShop   Role = "shop"
	RoleMember Role = "member"
)

// ParseRole normalizes and validates a role string received from outside.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleShop:
		return RoleShop, nil
	case RoleMember:
		return RoleMember, nil
	}
	return "", ErrInvalidRole
}

type ctxKey int

// ClaimsKey is the request-context key under which the authentication
// middleware stores the validated token claims.
const ClaimsKey ctxKey = 1

// Claims carried inside the access token. Subject is the user's email.
type Claims struct {
	jwt.RegisteredClaims
}

// Keys signs and verifies access tokens.
type Keys struct {
	secret []byte
	expiry time.Duration
}

func NewKeys(secret string, expiryMinutes int) (*Keys, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is empty")
	}
	if expiryMinutes <= 0 {
		return nil, fmt.Errorf("token expiry must be positive, got %d", expiryMinutes)
	}
	return &Keys{
		secret: []byte(secret),
		expiry: time.Duration(expiryMinutes) * time.Minute,
	}, nil
}

// GenerateToken issues a signed HS256 token bound to the given subject.
func (k *Keys) GenerateToken(subject string) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(k.expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(k.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies the signature and expiry and extracts the claims.
func (k *Keys) ValidateToken(tokenStr string) (Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return k.secret, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}
