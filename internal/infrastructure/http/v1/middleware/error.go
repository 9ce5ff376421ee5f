package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"blendery/internal/core/apperror"
	"blendery/pkg/logger"
)

// ErrorResponse is the failure envelope of every endpoint.
type ErrorResponse struct {
	Success    bool           `json:"success"`
	StatusCode int            `json:"statusCode"`
	Message    string         `json:"message"`
	Code       string         `json:"code"`
	Details    map[string]any `json:"details,omitempty"`
}

// ErrorHandler middleware transforms errors into consistent JSON responses.
// Hides internal errors from clients while logging full details.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		// If response already written by handler, do not override it.
		if c.Writer.Written() {
			return
		}

		writeError(c, err)
	}
}

// writeError renders err as the failure envelope and aborts the chain.
func writeError(c *gin.Context, err error) {
	body := renderError(c, err)

	// Store the exact failure for replay (best-effort).
	if key, store := idempotencyFrom(c); store != nil {
		if ferr := store.FailKey(c.Request.Context(), key, body.StatusCode, "application/json", body); ferr != nil {
			logger.Warn(c.Request.Context(), "failed to store idempotent failure", "key", key, "error", ferr)
		}
	}

	c.AbortWithStatusJSON(body.StatusCode, body)
}

func renderError(c *gin.Context, err error) ErrorResponse {
	ctx := c.Request.Context()

	appErr, ok := apperror.AsAppError(err)
	if !ok {
		logger.Error(ctx, "unhandled error", "error", err)
		return ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Message:    "Internal server error",
			Code:       apperror.CodeInternal,
			Details:    map[string]any{"request_id": c.GetString(KeyRequestID)},
		}
	}

	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logger.Error(ctx, "request error", "code", appErr.Code, "cause", appErr.Err)
		details := map[string]any{"request_id": c.GetString(KeyRequestID)}
		return ErrorResponse{
			StatusCode: appErr.HTTPStatus,
			Message:    appErr.Message,
			Code:       appErr.Code,
			Details:    details,
		}
	}

	if appErr.Err != nil {
		logger.Warn(ctx, "request error", "code", appErr.Code, "cause", appErr.Err)
	}
	return ErrorResponse{
		StatusCode: appErr.HTTPStatus,
		Message:    appErr.Message,
		Code:       appErr.Code,
		Details:    appErr.Details,
	}
}
