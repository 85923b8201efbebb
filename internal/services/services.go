package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/adanyl0v/go-taskboard/internal/models"
)

var (
	ErrInvalidID             = errors.New("invalid id format")
	ErrTaskNotFound          = errors.New("task not found")
	ErrInvalidDueDate        = errors.New("invalid due date")
	ErrCategoryNotFound      = errors.New("category not found")
	ErrCategoryAlreadyExists = errors.New("category with this name already exists")
)

// CategoryInUseError blocks category deletion while tasks
// still reference it. The message must cite the exact count.
type CategoryInUseError struct {
	TaskCount int64
}

func (e *CategoryInUseError) Error() string {
	return fmt.Sprintf(
		"cannot delete category with %d tasks, reassign or delete tasks first",
		e.TaskCount)
}

type TaskService interface {
	// CreateTask assigns a fresh id and returns the stored task
	// joined with its category summary, if one is referenced.
	CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error)

	// FindTasks resolves the query's filters, sort and page window
	// against the store. The returned pagination total is counted
	// with the same predicate as the page fetch.
	FindTasks(ctx context.Context, query TaskQuery) (*TaskPage, error)

	// FindTaskByID returns ErrInvalidID for a malformed id and
	// ErrTaskNotFound when no task matches.
	FindTaskByID(ctx context.Context, id string) (*models.Task, error)

	// UpdateTask applies the provided fields only; absent fields
	// keep their stored values.
	UpdateTask(ctx context.Context, id string, params UpdateTaskParams) (*models.Task, error)

	// ToggleTaskDone flips the task's done flag.
	ToggleTaskDone(ctx context.Context, id string) (*models.Task, error)

	DeleteTask(ctx context.Context, id string) error
}

type CategoryService interface {
	// CreateCategory stores the category under its normalized
	// (lowercased, trimmed) name and returns
	// ErrCategoryAlreadyExists on a duplicate.
	CreateCategory(ctx context.Context, params CreateCategoryParams) (*models.Category, error)

	// FindCategories returns all categories ordered by name
	// ascending, each with its task count.
	FindCategories(ctx context.Context) ([]*models.Category, error)

	// FindCategoryByName looks up by normalized name. A missing
	// category is reported as (nil, nil), not an error, since
	// this backs uniqueness checks.
	FindCategoryByName(ctx context.Context, name string) (*models.Category, error)

	FindCategoryByID(ctx context.Context, id string) (*models.Category, error)

	UpdateCategory(ctx context.Context, id string, params UpdateCategoryParams) (*models.Category, error)

	// DeleteCategory returns a *CategoryInUseError while any
	// task still references the category.
	DeleteCategory(ctx context.Context, id string) error
}

type StatsService interface {
	GetTasksStats(ctx context.Context) (*models.TasksStats, error)
}

type CreateTaskParams struct {
	Title       string
	Description *string
	Priority    *int
	IsDone      bool
	// DueDate is the raw date string of the request,
	// parsed by the service; nil means no due date.
	DueDate    *string
	CategoryID *string
}

type UpdateTaskParams struct {
	Title       *string
	Description *string
	Priority    *int
	IsDone      *bool
	// A nil DueDate leaves the stored value untouched;
	// explicit clearing is not supported.
	DueDate    *string
	CategoryID *string
}

type CreateCategoryParams struct {
	Name  string
	Color *string
}

type UpdateCategoryParams struct {
	Name  *string
	Color *string
}
