package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-taskboard/internal/models"
)

type categoryStatResponse struct {
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Color *string `json:"color"`
}

type getStatsResponse struct {
	TotalTasks     int                    `json:"totalTasks"`
	DoneTasks      int                    `json:"doneTasks"`
	PendingTasks   int                    `json:"pendingTasks"`
	CompletionRate int                    `json:"completionRate"`
	OverdueTasks   int                    `json:"overdueTasks"`
	TopCategories  []categoryStatResponse `json:"topCategories"`
}

func newGetStatsResponse(stats *models.TasksStats) getStatsResponse {
	resp := getStatsResponse{
		TotalTasks:     stats.TotalTasks,
		DoneTasks:      stats.DoneTasks,
		PendingTasks:   stats.PendingTasks,
		CompletionRate: stats.CompletionRate,
		OverdueTasks:   stats.OverdueTasks,
		TopCategories:  make([]categoryStatResponse, len(stats.TopCategories)),
	}
	for i, stat := range stats.TopCategories {
		resp.TopCategories[i] = categoryStatResponse{
			Name:  stat.Name,
			Count: stat.Count,
			Color: stat.Color,
		}
	}
	return resp
}

func (h *handlerImpl) HandleGetStats(c *gin.Context) {
	stats, err := h.stats.GetTasksStats(c)
	if err != nil {
		abort(c, mapServiceError(err))
		return
	}

	c.JSON(http.StatusOK, newGetStatsResponse(stats))
}
