package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ResourceType enumerates kinds of uploaded study material.
type ResourceType string

const (
	ResourceTypeNotes   ResourceType = "notes"
	ResourceTypeSlides  ResourceType = "slides"
	ResourceTypeBook    ResourceType = "book"
	ResourceTypeArticle ResourceType = "article"
	ResourceTypeVideo   ResourceType = "video"
	ResourceTypeQuiz    ResourceType = "quiz"
	ResourceTypeOther   ResourceType = "other"
)

// Valid reports whether the type is one of the known resource types.
func (t ResourceType) Valid() bool {
	switch t {
	case ResourceTypeNotes, ResourceTypeSlides, ResourceTypeBook,
		ResourceTypeArticle, ResourceTypeVideo, ResourceTypeQuiz, ResourceTypeOther:
		return true
	}
	return false
}

// ResourceStore defines persistence operations for resources.
type ResourceStore interface {
	Create(ctx context.Context, resource Resource) (Resource, error)
	GetByID(ctx context.Context, id uuid.UUID) (Resource, error)
	List(ctx context.Context) ([]Resource, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Resource, error)
	// AddRating appends a rating and recomputes the average in the same
	// transaction. A second rating from the same user fails with
	// ErrAlreadyRated.
	AddRating(ctx context.Context, resourceID uuid.UUID, rating Rating) (Resource, error)
	IncrementDownloads(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Resource represents uploaded study material with its ratings.
type Resource struct {
	ID             uuid.UUID
	Title          string
	Description    string
	Type           ResourceType
	FileKey        string
	CourseID       uuid.UUID
	OwnerID        uuid.UUID
	Ratings        []Rating
	AvgRating      *float64
	TotalDownloads int64
	CreatedAt      time.Time
}

// Rating is a single 1-5 score left by a user, with an optional short review.
type Rating struct {
	RaterID   uuid.UUID
	Rating    int
	Review    string
	CreatedAt time.Time
}
