// Package middleware provides HTTP middleware components.
package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"blendery/internal/core/apperror"
	"blendery/pkg/logger"
)

// Recovery turns a handler panic into a 500 failure envelope.
// The stack goes to the log and the request span, never to the client.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			// net/http uses this sentinel to drop the connection silently.
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}

			ctx := c.Request.Context()
			cause := fmt.Errorf("panic: %v", rec)

			span := trace.SpanFromContext(ctx)
			span.RecordError(cause)
			span.SetStatus(codes.Error, "panic")

			logger.Error(ctx, "panic recovered",
				"error", rec,
				"method", c.Request.Method,
				"route", c.FullPath(),
				"stack", string(debug.Stack()),
			)

			if c.Writer.Written() {
				c.Abort()
				return
			}
			// The panic skipped ErrorHandler's rendering, so write the envelope here.
			appErr := apperror.NewInternal(cause)
			_ = c.Error(appErr)
			writeError(c, appErr)
		}()
		c.Next()
	}
}
