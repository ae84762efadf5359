package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adelaidehub/studyhub-server/internal/model"
)

// handleError maps domain failures to HTTP status codes. Anything unmapped is
// reported as a 500 without leaking the underlying error.
func handleError(c *gin.Context, err error) {
	var validationErr *model.ValidationError
	if errors.As(err, &validationErr) {
		respondError(c, http.StatusBadRequest, validationErr.Error())
		return
	}

	switch {
	case errors.Is(err, model.ErrNotFound):
		respondError(c, http.StatusNotFound, "not found")
	case errors.Is(err, model.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, model.ErrTokenInvalid), errors.Is(err, model.ErrTokenExpired):
		respondError(c, http.StatusUnauthorized, "invalid authorization token")
	case errors.Is(err, model.ErrForbidden):
		respondError(c, http.StatusForbidden, "operation not permitted")
	case errors.Is(err, model.ErrEmailTaken):
		respondError(c, http.StatusConflict, "email already registered")
	case errors.Is(err, model.ErrStudentIDTaken):
		respondError(c, http.StatusConflict, "student id already registered")
	case errors.Is(err, model.ErrAlreadyRated):
		respondError(c, http.StatusConflict, "resource already rated")
	case errors.Is(err, model.ErrAlreadyMember):
		respondError(c, http.StatusConflict, "already a member of this group")
	case errors.Is(err, model.ErrCapacityExceeded):
		respondError(c, http.StatusConflict, "group is at capacity")
	case errors.Is(err, model.ErrLastLeader):
		respondError(c, http.StatusConflict, "cannot remove the only leader")
	case errors.Is(err, model.ErrNotMember):
		respondError(c, http.StatusConflict, "not a member of this group")
	default:
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, "internal server error")
	}
}

func respondError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error":   msg,
	})
}
