package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"seaview-backend/internal/delivery/http/response"
	"seaview-backend/pkg/apperror"
	"seaview-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Check if there are errors appended to the context
		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Err != nil {
				level := slog.LevelWarn
				if appErr.Code >= http.StatusInternalServerError {
					level = slog.LevelError
				}
				logger.Log.Log(c.Request.Context(), level, "request failed",
					"status", appErr.Code, "message", appErr.Message, "error", appErr.Err,
					"request_id", c.GetString(RequestIDKey))
			}
			response.Error(c, appErr.Code, appErr.Message)
			return
		}

		// Never expose internal error details to clients
		logger.Log.ErrorContext(c.Request.Context(), "Internal Server Error",
			"error", err, "request_id", c.GetString(RequestIDKey))
		response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.")
	}
}
