package models

import "time"

type Category struct {
	ID        string
	Name      string
	Color     *string
	CreatedAt time.Time
	UpdatedAt time.Time

	// TaskCount is the number of tasks referencing this
	// category, computed on read and never stored.
	TaskCount int64
}

// CategorySummary is the slice of a category joined
// into task responses.
type CategorySummary struct {
	ID    string
	Name  string
	Color *string
}
