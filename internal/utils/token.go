package utils

import (
	"activityhub-backend/config"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenTTL     = 72 * time.Hour
	bearerPrefix = "Bearer "
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	errMissingSecret = errors.New("JWT_SECRET is not configured")
	errMissingAuth   = errors.New("authorization header is required")
	errMissingBearer = errors.New("bearer token not found")
)

func signingKey() ([]byte, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.JWTSecret == "" {
		return nil, errMissingSecret
	}
	return []byte(cfg.JWTSecret), nil
}

// GenerateToken signs a bearer token for a marketplace identity. Every token gets
// its own jti so that revoking one session leaves the others valid.
func GenerateToken(userID string, role string) (string, error) {
	key, err := signingKey()
	if err != nil {
		return "", err
	}

	issuedAt := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"jti":     uuid.New().String(),
		"iat":     issuedAt.Unix(),
		"exp":     issuedAt.Add(tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

func ValidateToken(tokenString string) (jwt.MapClaims, error) {
	key, err := signingKey()
	if err != nil {
		return nil, err
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return key, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// TokenExpiry returns how long the token remains valid, zero if already expired.
func TokenExpiry(claims jwt.MapClaims) time.Duration {
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0
	}
	if d := time.Until(exp.Time); d > 0 {
		return d
	}
	return 0
}

func ExtractToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", errMissingAuth
	}
	token, ok := strings.CutPrefix(authHeader, bearerPrefix)
	if !ok || strings.TrimSpace(token) == "" {
		return "", errMissingBearer
	}
	return token, nil
}
