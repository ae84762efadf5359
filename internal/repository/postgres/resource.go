package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/adelaidehub/studyhub-server/internal/model"
)

var _ model.ResourceStore = (*ResourceRepository)(nil)

type ResourceRepository struct {
	db *Connection
}

func NewResourceRepository(db *Connection) *ResourceRepository {
	return &ResourceRepository{
		db: db,
	}
}

const resourceColumns = `id, title, description, type, file_key, course_id, owner_id, avg_rating, total_downloads, created_at`

func scanResource(row pgx.Row) (model.Resource, error) {
	var resource model.Resource
	err := row.Scan(
		&resource.ID, &resource.Title, &resource.Description, &resource.Type,
		&resource.FileKey, &resource.CourseID, &resource.OwnerID,
		&resource.AvgRating, &resource.TotalDownloads, &resource.CreatedAt,
	)
	return resource, err
}

func (r *ResourceRepository) Create(ctx context.Context, resource model.Resource) (model.Resource, error) {
	query := `INSERT INTO resources (` + resourceColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING ` + resourceColumns

	saved, err := scanResource(r.db.QueryRow(ctx, query,
		resource.ID, resource.Title, resource.Description, resource.Type,
		resource.FileKey, resource.CourseID, resource.OwnerID,
		resource.AvgRating, resource.TotalDownloads, resource.CreatedAt,
	))
	if err != nil {
		return model.Resource{}, fmt.Errorf("failed to create resource: %w", err)
	}

	return saved, nil
}

func (r *ResourceRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources WHERE id = $1`

	resource, err := scanResource(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Resource{}, model.ErrNotFound
		}
		return model.Resource{}, fmt.Errorf("failed to get resource by id: %w", err)
	}

	ratings, err := r.loadRatings(ctx, []uuid.UUID{id})
	if err != nil {
		return model.Resource{}, err
	}
	resource.Ratings = ratings[id]

	return resource, nil
}

func (r *ResourceRepository) List(ctx context.Context) ([]model.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources ORDER BY created_at DESC`
	return r.list(ctx, query)
}

func (r *ResourceRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources WHERE owner_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, ownerID)
}

func (r *ResourceRepository) list(ctx context.Context, query string, args ...any) ([]model.Resource, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	defer rows.Close()

	resources := []model.Resource{}
	ids := []uuid.UUID{}
	for rows.Next() {
		resource, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resource: %w", err)
		}
		resources = append(resources, resource)
		ids = append(ids, resource.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read resources: %w", err)
	}

	ratings, err := r.loadRatings(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range resources {
		resources[i].Ratings = ratings[resources[i].ID]
	}

	return resources, nil
}

func (r *ResourceRepository) loadRatings(ctx context.Context, resourceIDs []uuid.UUID) (map[uuid.UUID][]model.Rating, error) {
	if len(resourceIDs) == 0 {
		return map[uuid.UUID][]model.Rating{}, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT resource_id, rater_id, rating, review, created_at
		 FROM resource_ratings WHERE resource_id = ANY($1) ORDER BY created_at`,
		resourceIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load ratings: %w", err)
	}
	defer rows.Close()

	ratings := map[uuid.UUID][]model.Rating{}
	for rows.Next() {
		var resourceID uuid.UUID
		var rating model.Rating
		if err := rows.Scan(&resourceID, &rating.RaterID, &rating.Rating, &rating.Review, &rating.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings[resourceID] = append(ratings[resourceID], rating)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ratings: %w", err)
	}

	return ratings, nil
}

// AddRating inserts the rating and recomputes the stored average in a single
// transaction. The resource row is locked first, so concurrent submissions
// serialize and each recompute sees every previously committed rating.
func (r *ResourceRepository) AddRating(ctx context.Context, resourceID uuid.UUID, rating model.Rating) (model.Resource, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return model.Resource{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	err = tx.QueryRow(ctx,
		`SELECT TRUE FROM resources WHERE id = $1 FOR UPDATE`,
		resourceID).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Resource{}, model.ErrNotFound
		}
		return model.Resource{}, fmt.Errorf("failed to lock resource: %w", err)
	}

	ct, err := tx.Exec(ctx,
		`INSERT INTO resource_ratings (resource_id, rater_id, rating, review, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (resource_id, rater_id) DO NOTHING`,
		resourceID, rating.RaterID, rating.Rating, rating.Review, rating.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return model.Resource{}, model.ErrNotFound
		}
		return model.Resource{}, fmt.Errorf("failed to insert rating: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return model.Resource{}, model.ErrAlreadyRated
	}

	_, err = tx.Exec(ctx,
		`UPDATE resources
		 SET avg_rating = (SELECT AVG(rating)::float8 FROM resource_ratings WHERE resource_id = $1)
		 WHERE id = $1`,
		resourceID)
	if err != nil {
		return model.Resource{}, fmt.Errorf("failed to recompute average rating: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return model.Resource{}, fmt.Errorf("failed to commit rating: %w", err)
	}

	return r.GetByID(ctx, resourceID)
}

func (r *ResourceRepository) IncrementDownloads(ctx context.Context, id uuid.UUID) error {
	ct, err := r.db.Exec(ctx,
		`UPDATE resources SET total_downloads = total_downloads + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to increment downloads: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *ResourceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM resources WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete resource: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
