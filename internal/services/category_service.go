package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-taskboard/internal/models"
)

// NormalizeCategoryName produces the uniqueness key for a
// category name. Names are stored in this form.
func NormalizeCategoryName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

type categoryServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewCategoryService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) CategoryService {
	return &categoryServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *categoryServiceImpl) CreateCategory(ctx context.Context, params CreateCategoryParams) (*models.Category, error) {
	name := NormalizeCategoryName(params.Name)

	existing, err := s.FindCategoryByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.logger.Error().
			Str("name", name).
			Msg("category already exists")
		return nil, ErrCategoryAlreadyExists
	}

	categoryUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate category uuid")
		return nil, err
	}

	now := time.Now()
	category := &models.Category{
		ID:        categoryUUID.String(),
		Name:      name,
		Color:     params.Color,
		CreatedAt: now,
		UpdatedAt: now,
	}

	const insertCategoryQuery = `
INSERT INTO categories (id, name, color, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5)
`
	_, err = s.pgPool.Exec(
		ctx,
		insertCategoryQuery,
		category.ID,
		category.Name,
		category.Color,
		category.CreatedAt,
		category.UpdatedAt,
	)
	if err != nil {
		// The pre-check above races with concurrent creates, the
		// unique index has the final say.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			s.logger.Error().
				Str("name", name).
				Msg("category already exists")
			return nil, ErrCategoryAlreadyExists
		}

		s.logger.Error().
			Err(err).
			Str("name", name).
			Msg("failed to insert category")
		return nil, err
	}

	s.logger.Info().
		Str("category_id", category.ID).
		Str("name", category.Name).
		Msg("created category")
	return category, nil
}

// Every category read joins the live task count; the count
// is derived, never stored.
func scanCountedCategory(row rowScanner) (*models.Category, error) {
	category := new(models.Category)
	err := row.Scan(
		&category.ID,
		&category.Name,
		&category.Color,
		&category.CreatedAt,
		&category.UpdatedAt,
		&category.TaskCount,
	)
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryServiceImpl) FindCategories(ctx context.Context) ([]*models.Category, error) {
	const selectCategoriesQuery = `
SELECT c.id,
       c.name,
       c.color,
       c.created_at,
       c.updated_at,
       count(t.id)
FROM categories c
LEFT JOIN tasks t ON t.category_id = c.id
GROUP BY c.id
ORDER BY c.name ASC
`
	rows, err := s.pgPool.Query(ctx, selectCategoriesQuery)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select categories")
		return nil, err
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		category, err := scanCountedCategory(rows)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan category")
			return nil, err
		}
		categories = append(categories, category)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}

	s.logger.Debug().
		Int("count", len(categories)).
		Msg("selected categories")
	return categories, nil
}

func (s *categoryServiceImpl) FindCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	const selectCategoryByNameQuery = `
SELECT id, name, color, created_at, updated_at
FROM categories
WHERE name = $1
`
	category := new(models.Category)
	err := s.pgPool.QueryRow(
		ctx,
		selectCategoryByNameQuery,
		NormalizeCategoryName(name),
	).Scan(
		&category.ID,
		&category.Name,
		&category.Color,
		&category.CreatedAt,
		&category.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Absence is an answer here, not a failure, this
			// lookup backs the uniqueness checks.
			return nil, nil
		}

		s.logger.Error().
			Err(err).
			Str("name", name).
			Msg("failed to select category by name")
		return nil, err
	}

	return category, nil
}

func (s *categoryServiceImpl) FindCategoryByID(ctx context.Context, id string) (*models.Category, error) {
	err := validateID(id)
	if err != nil {
		s.logger.Error().
			Str("category_id", id).
			Msg("invalid category id")
		return nil, err
	}

	const selectCategoryQuery = `
SELECT c.id,
       c.name,
       c.color,
       c.created_at,
       c.updated_at,
       count(t.id)
FROM categories c
LEFT JOIN tasks t ON t.category_id = c.id
WHERE c.id = $1
GROUP BY c.id
`
	category, err := scanCountedCategory(s.pgPool.QueryRow(ctx, selectCategoryQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error().
				Str("category_id", id).
				Msg("category not found")
			return nil, ErrCategoryNotFound
		}

		s.logger.Error().
			Err(err).
			Str("category_id", id).
			Msg("failed to select category")
		return nil, err
	}

	return category, nil
}

func (s *categoryServiceImpl) UpdateCategory(ctx context.Context, id string, params UpdateCategoryParams) (*models.Category, error) {
	category, err := s.FindCategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		name := NormalizeCategoryName(*params.Name)

		existing, err := s.FindCategoryByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			s.logger.Error().
				Str("name", name).
				Msg("category already exists")
			return nil, ErrCategoryAlreadyExists
		}
		category.Name = name
	}
	if params.Color != nil {
		category.Color = params.Color
	}
	category.UpdatedAt = time.Now()

	const updateCategoryQuery = `
UPDATE categories
SET name = $1,
    color = $2,
    updated_at = $3
WHERE id = $4
`
	tag, err := s.pgPool.Exec(
		ctx,
		updateCategoryQuery,
		category.Name,
		category.Color,
		category.UpdatedAt,
		category.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			s.logger.Error().
				Str("name", category.Name).
				Msg("category already exists")
			return nil, ErrCategoryAlreadyExists
		}

		s.logger.Error().
			Err(err).
			Str("category_id", category.ID).
			Msg("failed to update category")
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Error().
			Str("category_id", category.ID).
			Msg("category not found")
		return nil, ErrCategoryNotFound
	}

	s.logger.Info().
		Str("category_id", category.ID).
		Msg("updated category")
	return category, nil
}

func (s *categoryServiceImpl) DeleteCategory(ctx context.Context, id string) error {
	category, err := s.FindCategoryByID(ctx, id)
	if err != nil {
		return err
	}

	if category.TaskCount > 0 {
		s.logger.Error().
			Str("category_id", category.ID).
			Int64("task_count", category.TaskCount).
			Msg("category still referenced by tasks")
		return &CategoryInUseError{TaskCount: category.TaskCount}
	}

	const deleteCategoryQuery = `
DELETE FROM categories
WHERE id = $1
`
	tag, err := s.pgPool.Exec(ctx, deleteCategoryQuery, id)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("category_id", id).
			Msg("failed to delete category")
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Error().
			Str("category_id", id).
			Msg("category not found")
		return ErrCategoryNotFound
	}

	s.logger.Info().
		Str("category_id", id).
		Msg("deleted category")
	return nil
}
