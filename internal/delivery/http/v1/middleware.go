package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-Id"
	requestIDCtxKey = "request_id"
)

// HandleRequestIDMiddleware tags every request with an id, reusing
// a well-formed incoming one so ids survive proxy hops.
func (h *handlerImpl) HandleRequestIDMiddleware(c *gin.Context) {
	requestID := c.GetHeader(requestIDHeader)
	if requestID == "" || uuid.Validate(requestID) != nil {
		requestID = uuid.NewString()
	}

	c.Set(requestIDCtxKey, requestID)
	c.Header(requestIDHeader, requestID)

	logger := h.logger.With().
		Str("request_id", requestID).
		Logger()
	logger.Debug().
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Msg("handling request")

	c.Next()
}
