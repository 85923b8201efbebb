package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-taskboard/internal/models"
	"github.com/adanyl0v/go-taskboard/internal/services"
)

type categorySummaryResponse struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Color *string `json:"color"`
}

type getTaskResponse struct {
	ID          string                   `json:"id"`
	Title       string                   `json:"title"`
	Description *string                  `json:"description"`
	Priority    *int                     `json:"priority"`
	IsDone      bool                     `json:"isDone"`
	DueDate     *time.Time               `json:"dueDate"`
	CategoryID  *string                  `json:"categoryId"`
	CreatedAt   time.Time                `json:"createdAt"`
	UpdatedAt   time.Time                `json:"updatedAt"`
	Category    *categorySummaryResponse `json:"category,omitempty"`
}

func newGetTaskResponse(task *models.Task) getTaskResponse {
	resp := getTaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Priority:    task.Priority,
		IsDone:      task.IsDone,
		DueDate:     task.DueDate,
		CategoryID:  task.CategoryID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
	if task.Category != nil {
		resp.Category = &categorySummaryResponse{
			ID:    task.Category.ID,
			Name:  task.Category.Name,
			Color: task.Category.Color,
		}
	}
	return resp
}

type createTaskRequest struct {
	Title       string  `json:"title" binding:"required,max=255"`
	Description *string `json:"description,omitempty"`
	Priority    *int    `json:"priority,omitempty" binding:"omitempty,min=1,max=10"`
	IsDone      *bool   `json:"isDone,omitempty"`
	DueDate     *string `json:"dueDate,omitempty"`
	CategoryID  *string `json:"categoryId,omitempty" binding:"omitempty,uuid"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	params := services.CreateTaskParams{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		CategoryID:  req.CategoryID,
	}
	if req.IsDone != nil {
		params.IsDone = *req.IsDone
	}

	task, err := h.tasks.CreateTask(c, params)
	if err != nil {
		abort(c, mapServiceError(err))
		return
	}

	c.JSON(http.StatusCreated, newGetTaskResponse(task))
}

type taskQueryRequest struct {
	Search    string `form:"search"`
	Status    string `form:"status" binding:"omitempty,oneof=all done undone"`
	Category  string `form:"category"`
	SortField string `form:"sortField"`
	SortBy    string `form:"sortBy" binding:"omitempty,oneof=asc desc"`
	Page      int    `form:"page,default=1" binding:"min=1"`
	Limit     int    `form:"limit,default=20" binding:"min=1"`
}

type paginationResponse struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

type getTasksResponse struct {
	Tasks      []getTaskResponse  `json:"tasks"`
	Pagination paginationResponse `json:"pagination"`
}

func (h *handlerImpl) HandleGetTasks(c *gin.Context) {
	var req taskQueryRequest
	err := c.ShouldBindQuery(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind query")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	page, err := h.tasks.FindTasks(c, services.TaskQuery{
		Search:    req.Search,
		Status:    req.Status,
		Category:  req.Category,
		SortField: req.SortField,
		SortBy:    req.SortBy,
		Page:      req.Page,
		Limit:     req.Limit,
	})
	if err != nil {
		abort(c, mapServiceError(err))
		return
	}

	resp := getTasksResponse{
		Tasks: make([]getTaskResponse, len(page.Tasks)),
		Pagination: paginationResponse{
			Page:  page.Pagination.Page,
			Limit: page.Pagination.Limit,
			Total: page.Pagination.Total,
			Pages: page.Pagination.Pages,
		},
	}
	for i, task := range page.Tasks {
		resp.Tasks[i] = newGetTaskResponse(task)
	}

	c.JSON(http.StatusOK, resp)
}

func (h *handlerImpl) HandleGetTask(c *gin.Context) {
	task, err := h.tasks.FindTaskByID(c, c.Param("id"))
	if err != nil {
		abort(c, mapServiceError(err))
		return
	}

	c.JSON(http.StatusOK, newGetTaskResponse(task))
}

type updateTaskRequest struct {
	Title       *string `json:"title,omitempty" binding:"omitempty,max=255"`
	Description *string `json:"description,omitempty"`
	Priority    *int    `json:"priority,omitempty" binding:"omitempty,min=1,max=10"`
	IsDone      *bool   `json:"isDone,omitempty"`
	DueDate     *string `json:"dueDate,omitempty"`
	CategoryID  *string `json:"categoryId,omitempty" binding:"omitempty,uuid"`
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	var req updateTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	task, err := h.tasks.UpdateTask(c, c.Param("id"), services.UpdateTaskParams{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		IsDone:      req.IsDone,
		DueDate:     req.DueDate,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		abort(c, mapServiceError(err))
		return
	}

	c.JSON(http.StatusOK, newGetTaskResponse(task))
}

func (h *handlerImpl) HandleToggleTask(c *gin.Context) {
	task, err := h.tasks.ToggleTaskDone(c, c.Param("id"))
	if err != nil {
		abort(c, mapServiceError(err))
		return
	}

	c.JSON(http.StatusOK, newGetTaskResponse(task))
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	err := h.tasks.DeleteTask(c, c.Param("id"))
	if err != nil {
		abort(c, mapServiceError(err))
		return
	}

	c.Status(http.StatusNoContent)
}
