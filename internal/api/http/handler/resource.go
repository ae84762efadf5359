package handler

import (
	"context"
	"io"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/adelaidehub/studyhub-server/internal/api/http/middleware"
	"github.com/adelaidehub/studyhub-server/internal/logger"
	"github.com/adelaidehub/studyhub-server/internal/model"
	"github.com/adelaidehub/studyhub-server/internal/service"
)

// ResourceService defines operations over uploaded study material.
type ResourceService interface {
	Create(ctx context.Context, params service.CreateResourceParams) (model.Resource, error)
	Get(ctx context.Context, id uuid.UUID) (model.Resource, error)
	List(ctx context.Context) ([]model.Resource, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Resource, error)
	Rate(ctx context.Context, resourceID, raterID uuid.UUID, rating int, review string) (model.Resource, error)
	Download(ctx context.Context, id uuid.UUID) (model.Resource, io.ReadCloser, error)
	Delete(ctx context.Context, id, callerID uuid.UUID, callerRole model.Role) error
}

// Resource handles HTTP endpoints for study resources.
type Resource struct {
	resourceService ResourceService
	logger          *logger.Logger
}

// NewResource creates a new Resource handler.
func NewResource(resourceService ResourceService, logger *logger.Logger) *Resource {
	return &Resource{
		resourceService: resourceService,
		logger:          logger,
	}
}

// List returns all resources.
func (h *Resource) List(c *gin.Context) {
	resources, err := h.resourceService.List(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(resources),
		"data":    toResourceResponses(resources),
	})
}

// ListMine returns resources uploaded by the caller.
func (h *Resource) ListMine(c *gin.Context) {
	user, _ := middleware.UserFromContext(c)

	resources, err := h.resourceService.ListByOwner(c.Request.Context(), user.ID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(resources),
		"data":    toResourceResponses(resources),
	})
}

// Get returns a single resource with its ratings.
func (h *Resource) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid resource id")
		return
	}

	resource, err := h.resourceService.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    toResourceResponse(resource),
	})
}

// Create uploads a new resource from a multipart form.
func (h *Resource) Create(c *gin.Context) {
	user, _ := middleware.UserFromContext(c)

	courseID, err := uuid.Parse(c.PostForm("course"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid course id")
		return
	}

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

	h.logger.Debug("Resource handler: processing upload",
		"owner_id", user.ID,
		"filename", fileHeader.Filename)

	resource, err := h.resourceService.Create(c.Request.Context(), service.CreateResourceParams{
		OwnerID:     user.ID,
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Type:        model.ResourceType(c.PostForm("type")),
		CourseID:    courseID,
		FileName:    fileHeader.Filename,
		File:        file,
		Size:        fileHeader.Size,
		ContentType: fileHeader.Header.Get("Content-Type"),
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    toResourceResponse(resource),
	})
}

type rateRequest struct {
	Rating int    `json:"rating" binding:"required"`
	Review string `json:"review"`
}

// Rate records the caller's rating and returns the recomputed average.
func (h *Resource) Rate(c *gin.Context) {
	user, _ := middleware.UserFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid resource id")
		return
	}

	var req rateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	resource, err := h.resourceService.Rate(c.Request.Context(), id, user.ID, req.Rating, req.Review)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    toResourceResponse(resource),
	})
}

// Download streams the stored file and bumps the download counter.
func (h *Resource) Download(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid resource id")
		return
	}

	resource, reader, err := h.resourceService.Download(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	defer reader.Close()

	filename := resource.Title + path.Ext(resource.FileKey)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/octet-stream")
	c.Status(http.StatusOK)

	if _, err := io.Copy(c.Writer, reader); err != nil {
		h.logger.Error("Resource handler: failed to stream file",
			"resource_id", id,
			"error", err.Error())
	}
}

// Delete removes a resource. Only the owner or an admin may delete.
func (h *Resource) Delete(c *gin.Context) {
	user, _ := middleware.UserFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid resource id")
		return
	}

	if err := h.resourceService.Delete(c.Request.Context(), id, user.ID, user.Role); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{},
	})
}
