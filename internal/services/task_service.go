package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-taskboard/internal/models"
)

type taskServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewTaskService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) TaskService {
	return &taskServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

// joinedTaskColumns is the column list every task select uses, so
// scanJoinedTask can decode rows from any of them.
const joinedTaskColumns = `t.id,
       t.title,
       t.description,
       t.priority,
       t.is_done,
       t.due_date,
       t.category_id,
       t.created_at,
       t.updated_at,
       c.id,
       c.name,
       c.color`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJoinedTask(row rowScanner) (*models.Task, error) {
	task := new(models.Task)
	var catID, catName, catColor *string
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Priority,
		&task.IsDone,
		&task.DueDate,
		&task.CategoryID,
		&task.CreatedAt,
		&task.UpdatedAt,
		&catID,
		&catName,
		&catColor,
	)
	if err != nil {
		return nil, err
	}

	if catID != nil {
		task.Category = &models.CategorySummary{
			ID:    *catID,
			Name:  *catName,
			Color: catColor,
		}
	}
	return task, nil
}

func validateID(id string) error {
	if id == "" {
		return ErrInvalidID
	}
	if err := uuid.Validate(id); err != nil {
		return ErrInvalidID
	}
	return nil
}

func parseDueDate(raw string) (*time.Time, error) {
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return &t, nil
		}
	}
	return nil, ErrInvalidDueDate
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error) {
	var dueDate *time.Time
	if params.DueDate != nil {
		parsed, err := parseDueDate(*params.DueDate)
		if err != nil {
			s.logger.Error().
				Str("due_date", *params.DueDate).
				Msg("failed to parse due date")
			return nil, err
		}
		dueDate = parsed
	}

	taskUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate task uuid")
		return nil, err
	}

	now := time.Now()
	const insertTaskQuery = `
INSERT INTO tasks (id,
                   title,
                   description,
                   priority,
                   is_done,
                   due_date,
                   category_id,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`
	_, err = s.pgPool.Exec(
		ctx,
		insertTaskQuery,
		taskUUID.String(),
		params.Title,
		params.Description,
		params.Priority,
		params.IsDone,
		dueDate,
		params.CategoryID,
		now,
		now,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			s.logger.Error().
				Str("category_id", derefOr(params.CategoryID, "")).
				Msg("referenced category not found")
			return nil, ErrCategoryNotFound
		}

		s.logger.Error().
			Err(err).
			Msg("failed to insert task")
		return nil, err
	}
	s.logger.Debug().
		Str("task_id", taskUUID.String()).
		Msg("inserted task")

	task, err := s.selectJoinedTask(ctx, taskUUID.String())
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Msg("created task")
	return task, nil
}

func (s *taskServiceImpl) FindTasks(ctx context.Context, query TaskQuery) (*TaskPage, error) {
	query = query.normalized()

	where, args := buildTaskPredicate(query)
	key, asc := resolveSort(query.SortField, query.SortBy)

	selectTasksQuery := fmt.Sprintf(`
SELECT %s
FROM tasks t
LEFT JOIN categories c ON c.id = t.category_id
%s
ORDER BY %s
LIMIT $%d OFFSET $%d
`, joinedTaskColumns, where, key.orderBy(asc), len(args)+1, len(args)+2)

	fetchArgs := append(append([]any{}, args...),
		query.Limit, (query.Page-1)*query.Limit)

	rows, err := s.pgPool.Query(ctx, selectTasksQuery, fetchArgs...)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select tasks")
		return nil, err
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0, query.Limit)
	for rows.Next() {
		task, err := scanJoinedTask(rows)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan task")
			return nil, err
		}
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}

	// The count reuses the predicate of the fetch above verbatim,
	// so the page is always a subset of the reported total.
	countTasksQuery := fmt.Sprintf(`
SELECT count(*)
FROM tasks t
LEFT JOIN categories c ON c.id = t.category_id
%s
`, where)

	var total int
	err = s.pgPool.QueryRow(ctx, countTasksQuery, args...).Scan(&total)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to count tasks")
		return nil, err
	}

	s.logger.Debug().
		Int("count", len(tasks)).
		Int("total", total).
		Msg("selected tasks")

	return &TaskPage{
		Tasks: tasks,
		Pagination: Pagination{
			Page:  query.Page,
			Limit: query.Limit,
			Total: total,
			Pages: computePages(total, query.Limit),
		},
	}, nil
}

func (s *taskServiceImpl) FindTaskByID(ctx context.Context, id string) (*models.Task, error) {
	err := validateID(id)
	if err != nil {
		s.logger.Error().
			Str("task_id", id).
			Msg("invalid task id")
		return nil, err
	}

	return s.selectJoinedTask(ctx, id)
}

func (s *taskServiceImpl) selectJoinedTask(ctx context.Context, id string) (*models.Task, error) {
	selectTaskQuery := fmt.Sprintf(`
SELECT %s
FROM tasks t
LEFT JOIN categories c ON c.id = t.category_id
WHERE t.id = $1
`, joinedTaskColumns)

	task, err := scanJoinedTask(s.pgPool.QueryRow(ctx, selectTaskQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error().
				Str("task_id", id).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to select task")
		return nil, err
	}

	return task, nil
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, id string, params UpdateTaskParams) (*models.Task, error) {
	err := validateID(id)
	if err != nil {
		s.logger.Error().
			Str("task_id", id).
			Msg("invalid task id")
		return nil, err
	}

	// Fetch first so an unknown id is reported before any write
	// and absent fields keep their stored values.
	task, err := s.selectJoinedTask(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Title != nil {
		task.Title = *params.Title
	}
	if params.Description != nil {
		task.Description = params.Description
	}
	if params.Priority != nil {
		task.Priority = params.Priority
	}
	if params.IsDone != nil {
		task.IsDone = *params.IsDone
	}
	if params.DueDate != nil {
		dueDate, err := parseDueDate(*params.DueDate)
		if err != nil {
			s.logger.Error().
				Str("due_date", *params.DueDate).
				Msg("failed to parse due date")
			return nil, err
		}
		task.DueDate = dueDate
	}
	if params.CategoryID != nil {
		task.CategoryID = params.CategoryID
	}
	task.UpdatedAt = time.Now()

	const updateTaskQuery = `
UPDATE tasks
SET title = $1,
    description = $2,
    priority = $3,
    is_done = $4,
    due_date = $5,
    category_id = $6,
    updated_at = $7
WHERE id = $8
`
	tag, err := s.pgPool.Exec(
		ctx,
		updateTaskQuery,
		task.Title,
		task.Description,
		task.Priority,
		task.IsDone,
		task.DueDate,
		task.CategoryID,
		task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			s.logger.Error().
				Str("category_id", derefOr(params.CategoryID, "")).
				Msg("referenced category not found")
			return nil, ErrCategoryNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to update task")
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		// Deleted between the fetch and the write.
		s.logger.Error().
			Str("task_id", task.ID).
			Msg("task not found")
		return nil, ErrTaskNotFound
	}

	task, err = s.selectJoinedTask(ctx, task.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Msg("updated task")
	return task, nil
}

func (s *taskServiceImpl) ToggleTaskDone(ctx context.Context, id string) (*models.Task, error) {
	err := validateID(id)
	if err != nil {
		s.logger.Error().
			Str("task_id", id).
			Msg("invalid task id")
		return nil, err
	}

	task, err := s.selectJoinedTask(ctx, id)
	if err != nil {
		return nil, err
	}

	task.IsDone = !task.IsDone
	task.UpdatedAt = time.Now()

	const toggleTaskQuery = `
UPDATE tasks
SET is_done = $1,
    updated_at = $2
WHERE id = $3
`
	tag, err := s.pgPool.Exec(
		ctx,
		toggleTaskQuery,
		task.IsDone,
		task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to toggle task")
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Error().
			Str("task_id", task.ID).
			Msg("task not found")
		return nil, ErrTaskNotFound
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Bool("is_done", task.IsDone).
		Msg("toggled task")
	return task, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, id string) error {
	err := validateID(id)
	if err != nil {
		s.logger.Error().
			Str("task_id", id).
			Msg("invalid task id")
		return err
	}

	const deleteTaskQuery = `
DELETE FROM tasks
WHERE id = $1
`
	tag, err := s.pgPool.Exec(ctx, deleteTaskQuery, id)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to delete task")
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Error().
			Str("task_id", id).
			Msg("task not found")
		return ErrTaskNotFound
	}

	s.logger.Info().
		Str("task_id", id).
		Msg("deleted task")
	return nil
}

func derefOr[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}
