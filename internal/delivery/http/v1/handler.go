package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-taskboard/internal/services"
)

type Handler interface {
	HandleRequestIDMiddleware(c *gin.Context)

	HandleCreateTask(c *gin.Context)
	HandleGetTasks(c *gin.Context)
	HandleGetTask(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleToggleTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)

	HandleCreateCategory(c *gin.Context)
	HandleGetCategories(c *gin.Context)
	HandleGetCategory(c *gin.Context)
	HandleUpdateCategory(c *gin.Context)
	HandleDeleteCategory(c *gin.Context)

	HandleGetStats(c *gin.Context)
}

type handlerImpl struct {
	logger     zerolog.Logger
	tasks      services.TaskService
	categories services.CategoryService
	stats      services.StatsService
}

func New(
	logger zerolog.Logger,
	taskService services.TaskService,
	categoryService services.CategoryService,
	statsService services.StatsService,
) Handler {
	return &handlerImpl{
		logger:     logger,
		tasks:      taskService,
		categories: categoryService,
		stats:      statsService,
	}
}
