package services

import (
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func TestComputeTasksStats(t *testing.T) {
	now := time.Date(2026, time.March, 10, 15, 30, 0, 0, time.Local)
	yesterday := now.AddDate(0, 0, -1)

	tasks := []statsTask{
		{IsDone: false, DueDate: timePtr(yesterday)},
		{IsDone: true, DueDate: timePtr(yesterday)},
		{IsDone: false, DueDate: nil},
	}

	stats := computeTasksStats(tasks, now)

	if stats.TotalTasks != 3 {
		t.Errorf("total: got %d, want 3", stats.TotalTasks)
	}
	if stats.DoneTasks != 1 {
		t.Errorf("done: got %d, want 1", stats.DoneTasks)
	}
	if stats.PendingTasks != 2 {
		t.Errorf("pending: got %d, want 2", stats.PendingTasks)
	}
	if stats.CompletionRate != 33 {
		t.Errorf("completion rate: got %d, want 33", stats.CompletionRate)
	}
	if stats.OverdueTasks != 1 {
		t.Errorf("overdue: got %d, want 1", stats.OverdueTasks)
	}
	if len(stats.TopCategories) != 0 {
		t.Errorf("top categories: got %d entries, want 0", len(stats.TopCategories))
	}
}

func TestComputeTasksStatsEmpty(t *testing.T) {
	stats := computeTasksStats(nil, time.Now())

	if stats.TotalTasks != 0 || stats.DoneTasks != 0 || stats.PendingTasks != 0 {
		t.Errorf("counts: got %d/%d/%d, want 0/0/0",
			stats.TotalTasks, stats.DoneTasks, stats.PendingTasks)
	}
	if stats.CompletionRate != 0 {
		t.Errorf("completion rate: got %d, want 0", stats.CompletionRate)
	}
	if stats.OverdueTasks != 0 {
		t.Errorf("overdue: got %d, want 0", stats.OverdueTasks)
	}
}

func TestComputeTasksStatsCompletionRateRounds(t *testing.T) {
	tests := []struct {
		done  int
		total int
		want  int
	}{
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
		{1, 8, 13}, // 12.5 rounds half away from zero
		{3, 3, 100},
	}

	for _, tt := range tests {
		tasks := make([]statsTask, tt.total)
		for i := 0; i < tt.done; i++ {
			tasks[i].IsDone = true
		}
		stats := computeTasksStats(tasks, time.Now())
		if stats.CompletionRate != tt.want {
			t.Errorf("%d/%d: got %d, want %d",
				tt.done, tt.total, stats.CompletionRate, tt.want)
		}
	}
}

func TestComputeTasksStatsDueTodayNotOverdue(t *testing.T) {
	now := time.Date(2026, time.March, 10, 23, 0, 0, 0, time.Local)
	earlierToday := time.Date(2026, time.March, 10, 1, 0, 0, 0, time.Local)

	tasks := []statsTask{
		{IsDone: false, DueDate: timePtr(earlierToday)},
	}

	stats := computeTasksStats(tasks, now)
	if stats.OverdueTasks != 0 {
		t.Errorf("overdue: got %d, want 0, due today is not overdue", stats.OverdueTasks)
	}
}

func TestComputeTasksStatsTopCategories(t *testing.T) {
	red := strPtr("#ff0000")

	tasks := []statsTask{
		{CategoryName: strPtr("work"), CategoryColor: red},
		{CategoryName: strPtr("home")},
		{CategoryName: strPtr("work"), CategoryColor: red},
		{CategoryName: strPtr("gym")},
		{CategoryName: strPtr("errands")},
		{CategoryName: strPtr("work"), CategoryColor: red},
		{CategoryName: strPtr("home")},
		{CategoryName: nil},
	}

	stats := computeTasksStats(tasks, time.Now())

	if len(stats.TopCategories) != 3 {
		t.Fatalf("top categories: got %d entries, want 3", len(stats.TopCategories))
	}
	if stats.TopCategories[0].Name != "work" || stats.TopCategories[0].Count != 3 {
		t.Errorf("first: got %s/%d, want work/3",
			stats.TopCategories[0].Name, stats.TopCategories[0].Count)
	}
	if stats.TopCategories[0].Color == nil || *stats.TopCategories[0].Color != *red {
		t.Errorf("first color: got %v, want %s", stats.TopCategories[0].Color, *red)
	}
	if stats.TopCategories[1].Name != "home" || stats.TopCategories[1].Count != 2 {
		t.Errorf("second: got %s/%d, want home/2",
			stats.TopCategories[1].Name, stats.TopCategories[1].Count)
	}
	// gym and errands tie at 1; gym was encountered first.
	if stats.TopCategories[2].Name != "gym" || stats.TopCategories[2].Count != 1 {
		t.Errorf("third: got %s/%d, want gym/1",
			stats.TopCategories[2].Name, stats.TopCategories[2].Count)
	}
}
