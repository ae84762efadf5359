package model

import "github.com/google/uuid"

// TokenManager issues and verifies signed session tokens.
type TokenManager interface {
	Generate(userID uuid.UUID, role Role) (string, error)
	Parse(token string) (userID uuid.UUID, role Role, err error)
}
