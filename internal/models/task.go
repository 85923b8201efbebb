package models

import "time"

type Task struct {
	ID          string
	Title       string
	Description *string
	Priority    *int
	IsDone      bool
	DueDate     *time.Time
	CategoryID  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Category is the joined summary of the referenced
	// category, nil when the task has none.
	Category *CategorySummary
}
