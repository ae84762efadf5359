package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/adelaidehub/studyhub-server/internal/model"
)

// Claims represents JWT claims binding a user identity to a role.
type Claims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID  `json:"user_id"`
	Role   model.Role `json:"role"`
}

// JWT implements TokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey string
	lifetime  time.Duration
}

// DefaultLifetime applies when the configured lifetime is zero.
const DefaultLifetime = 30 * 24 * time.Hour

// NewJWT creates a new JWT token manager with the provided secret key and
// token lifetime.
func NewJWT(secretKey string, lifetime time.Duration) model.TokenManager {
	if lifetime == 0 {
		lifetime = DefaultLifetime
	}
	return &JWT{secretKey: secretKey, lifetime: lifetime}
}

// Generate creates a signed session token for the user and role.
func (j *JWT) Generate(userID uuid.UUID, role model.Role) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.lifetime)),
		},
		UserID: userID,
		Role:   role,
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Parse validates the signature and expiry and extracts the user ID and role.
func (j *JWT) Parse(tokenString string) (uuid.UUID, model.Role, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, "", model.ErrTokenExpired
		}
		return uuid.Nil, "", model.ErrTokenInvalid
	}
	if !token.Valid {
		return uuid.Nil, "", model.ErrTokenInvalid
	}
	if !claims.Role.Valid() {
		return uuid.Nil, "", model.ErrTokenInvalid
	}
	return claims.UserID, claims.Role, nil
}
