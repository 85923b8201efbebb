package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-taskboard/internal/services"
)

var errInvalidRequestBody = errors.New("invalid request body")

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func abort(c *gin.Context, err apiError) {
	c.AbortWithStatusJSON(err.Code, gin.H{"error": err.Message})
}

func newStatusTextError(status int) apiError {
	return newAPIError(status, http.StatusText(status))
}

func newBadRequestError(message string) apiError {
	return newAPIError(http.StatusBadRequest, message)
}

func newNotFoundError(message string) apiError {
	return newAPIError(http.StatusNotFound, message)
}

func newConflictError(message string) apiError {
	return newAPIError(http.StatusConflict, message)
}

// mapServiceError translates the services' error kinds to HTTP
// statuses. Anything unrecognized is a 500 with no detail leaked.
func mapServiceError(err error) apiError {
	var categoryInUse *services.CategoryInUseError

	switch {
	case errors.Is(err, services.ErrInvalidID),
		errors.Is(err, services.ErrInvalidDueDate):
		return newBadRequestError(err.Error())
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrCategoryNotFound):
		return newNotFoundError(err.Error())
	case errors.Is(err, services.ErrCategoryAlreadyExists):
		return newConflictError(err.Error())
	case errors.As(err, &categoryInUse):
		return newConflictError(categoryInUse.Error())
	default:
		return newStatusTextError(http.StatusInternalServerError)
	}
}
