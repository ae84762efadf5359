package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/adelaidehub/studyhub-server/internal/logger"
	"github.com/adelaidehub/studyhub-server/internal/model"
)

var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

const (
	minPasswordLength = 6
	// bcrypt rejects inputs above 72 bytes.
	maxPasswordLength = 72
	maxBioLength      = 500
)

// Auth implements registration, login and profile operations.
type Auth struct {
	userStore model.UserStore
	storage   model.Storage
	tokens    model.TokenManager
	logger    *logger.Logger
}

// NewAuth creates a new Auth service.
func NewAuth(userStore model.UserStore, storage model.Storage, tokens model.TokenManager, logger *logger.Logger) *Auth {
	return &Auth{
		userStore: userStore,
		storage:   storage,
		tokens:    tokens,
		logger:    logger,
	}
}

// RegisterParams contains parameters to register a user.
type RegisterParams struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	StudentID string
	Degree    string
	Year      int
	Bio       string
	Role      model.Role
}

// Register validates the candidate, stores the user with a hashed password
// and issues a session token.
func (a *Auth) Register(ctx context.Context, params RegisterParams) (model.User, string, error) {
	a.logger.Debug("Auth service: starting user registration",
		"email", params.Email)

	if err := validateRegistration(params); err != nil {
		return model.User{}, "", err
	}

	role := params.Role
	if role == "" {
		role = model.RoleStudent
	}
	if !role.Valid() {
		return model.User{}, "", model.NewValidationError("role", "must be student, tutor or admin")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := model.User{
		ID:           uuid.New(),
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		Email:        params.Email,
		PasswordHash: string(hash),
		StudentID:    params.StudentID,
		Role:         role,
		Degree:       params.Degree,
		Year:         params.Year,
		Bio:          params.Bio,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	saved, err := a.userStore.Create(ctx, user)
	if err != nil {
		a.logger.Error("Auth service: failed to create user",
			"email", params.Email,
			"error", err.Error())
		return model.User{}, "", err
	}

	signed, err := a.tokens.Generate(saved.ID, saved.Role)
	if err != nil {
		return model.User{}, "", fmt.Errorf("failed to issue token: %w", err)
	}

	a.logger.Info("Auth service: user registered",
		"email", saved.Email,
		"user_id", saved.ID)

	return saved.Sanitized(), signed, nil
}

// Login verifies credentials and issues a session token. A missing user and a
// wrong password are indistinguishable to the caller.
func (a *Auth) Login(ctx context.Context, email, password string) (model.User, string, error) {
	a.logger.Debug("Auth service: starting user login",
		"email", email)

	if email == "" || password == "" {
		return model.User{}, "", model.NewValidationError("credentials", "email and password are required")
	}

	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, "", model.ErrInvalidCredentials
	}
	if err != nil {
		return model.User{}, "", fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.User{}, "", model.ErrInvalidCredentials
	}

	signed, err := a.tokens.Generate(user.ID, user.Role)
	if err != nil {
		return model.User{}, "", fmt.Errorf("failed to issue token: %w", err)
	}

	a.logger.Info("Auth service: user logged in",
		"email", user.Email,
		"user_id", user.ID)

	return user.Sanitized(), signed, nil
}

// GetMe returns the public profile of the given user.
func (a *Auth) GetMe(ctx context.Context, userID uuid.UUID) (model.User, error) {
	user, err := a.userStore.GetByID(ctx, userID)
	if err != nil {
		return model.User{}, err
	}
	return user.Sanitized(), nil
}

// UpdateDetailsParams carries optional profile fields; nil means unchanged.
type UpdateDetailsParams struct {
	FirstName *string
	LastName  *string
	Degree    *string
	Year      *int
	Bio       *string
}

// UpdateDetails applies the provided profile changes.
func (a *Auth) UpdateDetails(ctx context.Context, userID uuid.UUID, params UpdateDetailsParams) (model.User, error) {
	user, err := a.userStore.GetByID(ctx, userID)
	if err != nil {
		return model.User{}, err
	}

	if params.FirstName != nil {
		if *params.FirstName == "" {
			return model.User{}, model.NewValidationError("firstName", "must not be empty")
		}
		user.FirstName = *params.FirstName
	}
	if params.LastName != nil {
		if *params.LastName == "" {
			return model.User{}, model.NewValidationError("lastName", "must not be empty")
		}
		user.LastName = *params.LastName
	}
	if params.Degree != nil {
		user.Degree = *params.Degree
	}
	if params.Year != nil {
		if *params.Year < 1 {
			return model.User{}, model.NewValidationError("year", "must be at least 1")
		}
		user.Year = *params.Year
	}
	if params.Bio != nil {
		if len(*params.Bio) > maxBioLength {
			return model.User{}, model.NewValidationError("bio", "cannot be more than 500 characters")
		}
		user.Bio = *params.Bio
	}

	updated, err := a.userStore.UpdateDetails(ctx, user)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to update details: %w", err)
	}

	return updated.Sanitized(), nil
}

// UpdatePassword re-hashes the secret only after the current one verifies.
func (a *Auth) UpdatePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	if len(next) < minPasswordLength {
		return model.NewValidationError("newPassword", "must be at least 6 characters")
	}
	if len(next) > maxPasswordLength {
		return model.NewValidationError("newPassword", "cannot be more than 72 characters")
	}

	user, err := a.userStore.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return model.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := a.userStore.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	a.logger.Info("Auth service: password updated", "user_id", userID)

	return nil
}

// UploadProfileImage stores the image and records its object key on the user.
func (a *Auth) UploadProfileImage(ctx context.Context, userID uuid.UUID, filename string, reader io.Reader, size int64, contentType string) (model.User, error) {
	user, err := a.userStore.GetByID(ctx, userID)
	if err != nil {
		return model.User{}, err
	}

	key := fmt.Sprintf("profile-images/%s%s", uuid.New(), path.Ext(filename))
	if err := a.storage.Upload(ctx, key, reader, size, contentType); err != nil {
		return model.User{}, fmt.Errorf("failed to upload profile image: %w", err)
	}

	if err := a.userStore.UpdateProfileImage(ctx, userID, key); err != nil {
		return model.User{}, fmt.Errorf("failed to save profile image key: %w", err)
	}

	if user.ProfileImage != "" {
		if err := a.storage.Delete(ctx, user.ProfileImage); err != nil {
			a.logger.Error("Auth service: failed to delete previous profile image",
				"user_id", userID,
				"key", user.ProfileImage,
				"error", err.Error())
		}
	}

	user.ProfileImage = key
	return user.Sanitized(), nil
}

func validateRegistration(params RegisterParams) error {
	if params.FirstName == "" {
		return model.NewValidationError("firstName", "is required")
	}
	if params.LastName == "" {
		return model.NewValidationError("lastName", "is required")
	}
	if !emailPattern.MatchString(params.Email) {
		return model.NewValidationError("email", "must be a valid email address")
	}
	if len(params.Password) < minPasswordLength {
		return model.NewValidationError("password", "must be at least 6 characters")
	}
	if len(params.Password) > maxPasswordLength {
		return model.NewValidationError("password", "cannot be more than 72 characters")
	}
	if params.StudentID == "" {
		return model.NewValidationError("studentId", "is required")
	}
	if params.Degree == "" {
		return model.NewValidationError("degree", "is required")
	}
	if params.Year < 1 {
		return model.NewValidationError("year", "must be at least 1")
	}
	if len(params.Bio) > maxBioLength {
		return model.NewValidationError("bio", "cannot be more than 500 characters")
	}
	return nil
}
