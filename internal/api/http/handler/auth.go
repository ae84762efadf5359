package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/adelaidehub/studyhub-server/internal/api/http/middleware"
	"github.com/adelaidehub/studyhub-server/internal/logger"
	"github.com/adelaidehub/studyhub-server/internal/model"
	"github.com/adelaidehub/studyhub-server/internal/service"
)

// AuthService defines registration, login and profile operations.
type AuthService interface {
	Register(ctx context.Context, params service.RegisterParams) (model.User, string, error)
	Login(ctx context.Context, email, password string) (model.User, string, error)
	GetMe(ctx context.Context, userID uuid.UUID) (model.User, error)
	UpdateDetails(ctx context.Context, userID uuid.UUID, params service.UpdateDetailsParams) (model.User, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, current, next string) error
	UploadProfileImage(ctx context.Context, userID uuid.UUID, filename string, reader io.Reader, size int64, contentType string) (model.User, error)
}

// CookieConfig describes the session cookie set on login and register.
type CookieConfig struct {
	Name   string
	MaxAge int
	Secure bool
}

// Auth handles HTTP endpoints for authentication and profiles.
type Auth struct {
	authService AuthService
	cookie      CookieConfig
	logger      *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, cookie CookieConfig, logger *logger.Logger) *Auth {
	return &Auth{
		authService: authService,
		cookie:      cookie,
		logger:      logger,
	}
}

type registerRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	StudentID string `json:"studentId" binding:"required"`
	Degree    string `json:"degree" binding:"required"`
	Year      int    `json:"year" binding:"required"`
	Bio       string `json:"bio"`
	Role      string `json:"role"`
}

// Register creates a new account and issues a session token.
func (h *Auth) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	h.logger.Debug("Auth handler: processing registration request",
		"email", req.Email)

	user, token, err := h.authService.Register(c.Request.Context(), service.RegisterParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		StudentID: req.StudentID,
		Degree:    req.Degree,
		Year:      req.Year,
		Bio:       req.Bio,
		Role:      model.Role(req.Role),
	})
	if err != nil {
		h.logger.Error("Auth handler: registration failed",
			"email", req.Email,
			"error", err.Error())
		handleError(c, err)
		return
	}

	h.setSessionCookie(c, token)
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"token":   token,
		"data":    toUserResponse(user),
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and issues a session token.
func (h *Auth) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	h.logger.Debug("Auth handler: processing login request",
		"email", req.Email)

	user, token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handleError(c, err)
		return
	}

	h.setSessionCookie(c, token)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"data":    toUserResponse(user),
	})
}

// Logout clears the session cookie.
func (h *Auth) Logout(c *gin.Context) {
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{},
	})
}

// Me returns the authenticated user's profile.
func (h *Auth) Me(c *gin.Context) {
	user, _ := middleware.UserFromContext(c)

	fresh, err := h.authService.GetMe(c.Request.Context(), user.ID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    toUserResponse(fresh),
	})
}

type updateDetailsRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Degree    *string `json:"degree"`
	Year      *int    `json:"year"`
	Bio       *string `json:"bio"`
}

// UpdateDetails applies partial profile changes.
func (h *Auth) UpdateDetails(c *gin.Context) {
	user, _ := middleware.UserFromContext(c)

	var req updateDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.authService.UpdateDetails(c.Request.Context(), user.ID, service.UpdateDetailsParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Degree:    req.Degree,
		Year:      req.Year,
		Bio:       req.Bio,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    toUserResponse(updated),
	})
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// UpdatePassword changes the account password after verifying the current one.
func (h *Auth) UpdatePassword(c *gin.Context) {
	user, _ := middleware.UserFromContext(c)

	var req updatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.authService.UpdatePassword(c.Request.Context(), user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{},
	})
}

// UploadPhoto stores a new profile image from a multipart form.
func (h *Auth) UploadPhoto(c *gin.Context) {
	user, _ := middleware.UserFromContext(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "failed to read file")
		return
	}
	defer file.Close()

	updated, err := h.authService.UploadProfileImage(c.Request.Context(), user.ID,
		fileHeader.Filename, file, fileHeader.Size, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    toUserResponse(updated),
	})
}

func (h *Auth) setSessionCookie(c *gin.Context, token string) {
	c.SetCookie(h.cookie.Name, token, h.cookie.MaxAge, "/", "", h.cookie.Secure, true)
}
