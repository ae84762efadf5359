package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Role is a coarse-grained permission class assigned to a user.
type Role string

const (
	// RoleStudent is the default role for registered users.
	RoleStudent Role = "student"
	// RoleTutor marks users allowed to publish curated materials.
	RoleTutor Role = "tutor"
	// RoleAdmin marks users with moderation rights.
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTutor, RoleAdmin:
		return true
	}
	return false
}

// UserStore defines persistence operations for users.
type UserStore interface {
	// Create stores a new user. Email and student ID uniqueness violations
	// surface as ErrEmailTaken and ErrStudentIDTaken.
	Create(ctx context.Context, user User) (User, error)
	// GetByEmail is the only read path meant for credential verification;
	// like every store read it returns the password hash, callers that hand
	// users out strip it.
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	UpdateDetails(ctx context.Context, user User) (User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateProfileImage(ctx context.Context, id uuid.UUID, imageKey string) error
}

// User represents a registered student, tutor or admin.
type User struct {
	ID           uuid.UUID
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	StudentID    string
	Role         Role
	Degree       string
	Year         int
	Bio          string
	ProfileImage string
	Courses      []uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Sanitized returns a copy safe to hand out of the service layer.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}
