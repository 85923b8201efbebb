package services

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-taskboard/internal/models"
)

type statsServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewStatsService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) StatsService {
	return &statsServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

// statsTask is the slice of a task the aggregation needs.
type statsTask struct {
	IsDone        bool
	DueDate       *time.Time
	CategoryName  *string
	CategoryColor *string
}

func (s *statsServiceImpl) GetTasksStats(ctx context.Context) (*models.TasksStats, error) {
	const selectStatsTasksQuery = `
SELECT t.is_done,
       t.due_date,
       c.name,
       c.color
FROM tasks t
LEFT JOIN categories c ON c.id = t.category_id
ORDER BY t.created_at
`
	rows, err := s.pgPool.Query(ctx, selectStatsTasksQuery)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select tasks for stats")
		return nil, err
	}
	defer rows.Close()

	var tasks []statsTask
	for rows.Next() {
		var task statsTask
		err = rows.Scan(
			&task.IsDone,
			&task.DueDate,
			&task.CategoryName,
			&task.CategoryColor,
		)
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

	stats := computeTasksStats(tasks, time.Now())
	s.logger.Info().
		Int("total", stats.TotalTasks).
		Int("done", stats.DoneTasks).
		Msg("computed task stats")
	return stats, nil
}

const topCategoriesLimit = 3

// computeTasksStats aggregates a full task scan. A task counts as
// overdue when its due date lies before the start of now's local
// calendar day and it is not done. Categories tied on count keep
// their first-encountered order.
func computeTasksStats(tasks []statsTask, now time.Time) *models.TasksStats {
	totalTasks := len(tasks)

	doneTasks := 0
	for _, t := range tasks {
		if t.IsDone {
			doneTasks++
		}
	}

	completionRate := 0
	if totalTasks > 0 {
		completionRate = int(math.Round(float64(doneTasks) / float64(totalTasks) * 100))
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	overdueTasks := 0
	for _, t := range tasks {
		if t.DueDate != nil && t.DueDate.Before(today) && !t.IsDone {
			overdueTasks++
		}
	}

	counts := make(map[string]int)
	var topCategories []models.CategoryStat
	for _, t := range tasks {
		if t.CategoryName == nil {
			continue
		}
		name := *t.CategoryName
		if _, seen := counts[name]; !seen {
			topCategories = append(topCategories, models.CategoryStat{
				Name:  name,
				Color: t.CategoryColor,
			})
		}
		counts[name]++
	}
	for i := range topCategories {
		topCategories[i].Count = counts[topCategories[i].Name]
	}
	sort.SliceStable(topCategories, func(i, j int) bool {
		return topCategories[i].Count > topCategories[j].Count
	})
	if len(topCategories) > topCategoriesLimit {
		topCategories = topCategories[:topCategoriesLimit]
	}

	return &models.TasksStats{
		TotalTasks:     totalTasks,
		DoneTasks:      doneTasks,
		PendingTasks:   totalTasks - doneTasks,
		CompletionRate: completionRate,
		OverdueTasks:   overdueTasks,
		TopCategories:  topCategories,
	}
}
