package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// APIError is returned by handlers to short-circuit with a status code.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string { return e.Message }

type HandlerFunc func(ctx *gin.Context) (any, *APIError)

// ResolveEndpoint adapts a HandlerFunc to gin. The result is written as
// JSON with 200 unless the handler already wrote a response.
func ResolveEndpoint(h HandlerFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		result, apiErr := h(ctx)
		if apiErr != nil {
			if apiErr.Code >= http.StatusInternalServerError {
				log.Error().Str("path", ctx.FullPath()).Int("status", apiErr.Code).Msg(apiErr.Message)
			}
			ctx.AbortWithStatusJSON(apiErr.Code, gin.H{"error": apiErr.Message})
			return
		}
		if ctx.Writer.Written() {
			return
		}

		ctx.JSON(http.StatusOK, result)
	}
}

func NotFound(msg string) *APIError {
	return &APIError{Code: http.StatusNotFound, Message: msg}
}

func BadRequest(msg string) *APIError {
	return &APIError{Code: http.StatusBadRequest, Message: msg}
}

func Internal(msg string) *APIError {
	return &APIError{Code: http.StatusInternalServerError, Message: msg}
}
