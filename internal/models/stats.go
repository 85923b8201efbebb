package models

type CategoryStat struct {
	Name  string
	Count int
	Color *string
}

type TasksStats struct {
	TotalTasks     int
	DoneTasks      int
	PendingTasks   int
	CompletionRate int
	OverdueTasks   int
	TopCategories  []CategoryStat
}
