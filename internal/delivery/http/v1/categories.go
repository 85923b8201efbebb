package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-taskboard/internal/models"
	"github.com/adanyl0v/go-taskboard/internal/services"
)

type getCategoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     *string   `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	TaskCount int64     `json:"taskCount"`
}

func newGetCategoryResponse(category *models.Category) getCategoryResponse {
	return getCategoryResponse{
		ID:        category.ID,
		Name:      category.Name,
		Color:     category.Color,
		CreatedAt: category.CreatedAt,
		UpdatedAt: category.UpdatedAt,
		TaskCount: category.TaskCount,
	}
}

type createCategoryRequest struct {
	Name  string  `json:"name" binding:"required,max=100"`
	Color *string `json:"color,omitempty" binding:"omitempty,max=50"`
}

func (h *handlerImpl) HandleCreateCategory(c *gin.Context) {
	var req createCategoryRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	category, err := h.categories.CreateCategory(c, services.CreateCategoryParams{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		abort(c, mapServiceError(err))
		return
	}

	c.JSON(http.StatusCreated, newGetCategoryResponse(category))
}

func (h *handlerImpl) HandleGetCategories(c *gin.Context) {
	categories, err := h.categories.FindCategories(c)
	if err != nil {
		abort(c, mapServiceError(err))
		return
	}

	resp := make([]getCategoryResponse, len(categories))
	for i, category := range categories {
		resp[i] = newGetCategoryResponse(category)
	}

	c.JSON(http.StatusOK, resp)
}

func (h *handlerImpl) HandleGetCategory(c *gin.Context) {
	category, err := h.categories.FindCategoryByID(c, c.Param("id"))
	if err != nil {
		abort(c, mapServiceError(err))
		return
	}

	c.JSON(http.StatusOK, newGetCategoryResponse(category))
}

type updateCategoryRequest struct {
	Name  *string `json:"name,omitempty" binding:"omitempty,max=100"`
	Color *string `json:"color,omitempty" binding:"omitempty,max=50"`
}

func (h *handlerImpl) HandleUpdateCategory(c *gin.Context) {
	var req updateCategoryRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	category, err := h.categories.UpdateCategory(c, c.Param("id"), services.UpdateCategoryParams{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		abort(c, mapServiceError(err))
		return
	}

	c.JSON(http.StatusOK, newGetCategoryResponse(category))
}

func (h *handlerImpl) HandleDeleteCategory(c *gin.Context) {
	err := h.categories.DeleteCategory(c, c.Param("id"))
	if err != nil {
		abort(c, mapServiceError(err))
		return
	}

	c.Status(http.StatusNoContent)
}
