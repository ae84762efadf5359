package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/adelaidehub/studyhub-server/internal/logger"
	"github.com/adelaidehub/studyhub-server/internal/model"
)

const (
	maxTitleLength       = 100
	maxDescriptionLength = 500
	maxReviewLength      = 200
)

// Resource implements operations over uploaded study material.
type Resource struct {
	resourceStore model.ResourceStore
	storage       model.Storage
	logger        *logger.Logger
}

// NewResource creates a new Resource service.
func NewResource(resourceStore model.ResourceStore, storage model.Storage, logger *logger.Logger) *Resource {
	return &Resource{
		resourceStore: resourceStore,
		storage:       storage,
		logger:        logger,
	}
}

// CreateResourceParams contains parameters to upload a resource.
type CreateResourceParams struct {
	OwnerID     uuid.UUID
	Title       string
	Description string
	Type        model.ResourceType
	CourseID    uuid.UUID
	FileName    string
	File        io.Reader
	Size        int64
	ContentType string
}

// Create uploads the file to object storage and stores the resource record.
func (s *Resource) Create(ctx context.Context, params CreateResourceParams) (model.Resource, error) {
	if params.Title == "" {
		return model.Resource{}, model.NewValidationError("title", "is required")
	}
	if len(params.Title) > maxTitleLength {
		return model.Resource{}, model.NewValidationError("title", "cannot be more than 100 characters")
	}
	if params.Description == "" {
		return model.Resource{}, model.NewValidationError("description", "is required")
	}
	if len(params.Description) > maxDescriptionLength {
		return model.Resource{}, model.NewValidationError("description", "cannot be more than 500 characters")
	}
	if !params.Type.Valid() {
		return model.Resource{}, model.NewValidationError("type", "unknown resource type")
	}
	if params.CourseID == uuid.Nil {
		return model.Resource{}, model.NewValidationError("course", "is required")
	}
	if params.File == nil {
		return model.Resource{}, model.NewValidationError("file", "is required")
	}

	key := fmt.Sprintf("resources/%s%s", uuid.New(), path.Ext(params.FileName))
	if err := s.storage.Upload(ctx, key, params.File, params.Size, params.ContentType); err != nil {
		return model.Resource{}, fmt.Errorf("failed to upload file: %w", err)
	}

	resource := model.Resource{
		ID:          uuid.New(),
		Title:       params.Title,
		Description: params.Description,
		Type:        params.Type,
		FileKey:     key,
		CourseID:    params.CourseID,
		OwnerID:     params.OwnerID,
		CreatedAt:   time.Now(),
	}

	saved, err := s.resourceStore.Create(ctx, resource)
	if err != nil {
		return model.Resource{}, fmt.Errorf("failed to create resource: %w", err)
	}

	s.logger.Info("Resource service: resource created",
		"resource_id", saved.ID,
		"owner_id", saved.OwnerID)

	return saved, nil
}

// Get returns a single resource with its ratings.
func (s *Resource) Get(ctx context.Context, id uuid.UUID) (model.Resource, error) {
	return s.resourceStore.GetByID(ctx, id)
}

// List returns all resources.
func (s *Resource) List(ctx context.Context) ([]model.Resource, error) {
	return s.resourceStore.List(ctx)
}

// ListByOwner returns resources uploaded by the given user.
func (s *Resource) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Resource, error) {
	return s.resourceStore.ListByOwner(ctx, ownerID)
}

// Rate appends a rating and returns the resource with its recomputed average.
// A user may rate a resource once.
func (s *Resource) Rate(ctx context.Context, resourceID, raterID uuid.UUID, rating int, review string) (model.Resource, error) {
	if rating < 1 || rating > 5 {
		return model.Resource{}, model.NewValidationError("rating", "must be between 1 and 5")
	}
	if len(review) > maxReviewLength {
		return model.Resource{}, model.NewValidationError("review", "cannot be more than 200 characters")
	}

	updated, err := s.resourceStore.AddRating(ctx, resourceID, model.Rating{
		RaterID:   raterID,
		Rating:    rating,
		Review:    review,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return model.Resource{}, err
	}

	s.logger.Info("Resource service: rating added",
		"resource_id", resourceID,
		"rater_id", raterID,
		"rating", rating)

	return updated, nil
}

// Download opens the stored file and bumps the download counter.
func (s *Resource) Download(ctx context.Context, id uuid.UUID) (model.Resource, io.ReadCloser, error) {
	resource, err := s.resourceStore.GetByID(ctx, id)
	if err != nil {
		return model.Resource{}, nil, err
	}

	reader, err := s.storage.Download(ctx, resource.FileKey)
	if err != nil {
		return model.Resource{}, nil, fmt.Errorf("failed to open stored file: %w", err)
	}

	if err := s.resourceStore.IncrementDownloads(ctx, id); err != nil {
		s.logger.Error("Resource service: failed to increment downloads",
			"resource_id", id,
			"error", err.Error())
	}

	return resource, reader, nil
}

// Delete removes a resource and its stored file. Only the owner or an admin
// may delete.
func (s *Resource) Delete(ctx context.Context, id, callerID uuid.UUID, callerRole model.Role) error {
	resource, err := s.resourceStore.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if resource.OwnerID != callerID && callerRole != model.RoleAdmin {
		return model.ErrForbidden
	}

	if err := s.resourceStore.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete resource: %w", err)
	}

	if err := s.storage.Delete(ctx, resource.FileKey); err != nil {
		s.logger.Error("Resource service: failed to delete stored file",
			"resource_id", id,
			"key", resource.FileKey,
			"error", err.Error())
	}

	s.logger.Info("Resource service: resource deleted",
		"resource_id", id,
		"caller_id", callerID)

	return nil
}
