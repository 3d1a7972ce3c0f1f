package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleManager UserRole = "MANAGER"
	RoleWaiter  UserRole = "WAITER"
)

func ParseRole(value string) (UserRole, bool) {
	switch UserRole(strings.ToUpper(strings.TrimSpace(value))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleManager:
		return RoleManager, true
	case RoleWaiter:
		return RoleWaiter, true
	default:
		return "", false
	}
}

type Claims struct {
	UserID string   `json:"userId"`
	Role   UserRole `json:"role"`
	Email  string   `json:"email"`
	Name   string   `json:"name,omitempty"`
	jwt.RegisteredClaims
}

func IssueAccessToken(userID string, role UserRole, email string, name string, secret string, expiry time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret not configured")
	}

	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Role:   role,
		Email:  email,
		Name:   name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseBearerToken(authHeader string) string {
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func VerifyAccessToken(tokenString string, secret string) (*Claims, error) {
	if tokenString == "" {
		return nil, errors.New("token required")
	}

	claims := &Claims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))
	_, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Before(time.Now()) {
		return nil, errors.New("token expired")
	}
	return claims, nil
}
