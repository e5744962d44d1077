package middleware

import (
	"fmt"
	"net/http"

	"github.com/ReviveTech/revive-backend/errors"
	"github.com/ReviveTech/revive-backend/logger"
	"github.com/ReviveTech/revive-backend/types"
	"github.com/gin-gonic/gin"
)

// ErrorHandler converts errors attached to the gin context into the unified
// JSON error envelope. Application errors keep their taxonomy; anything else
// is logged in full and surfaced as a generic server error, never verbatim.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		if appError, ok := err.(*errors.AppError); ok {
			status := appError.GetHTTPStatus()
			logger.LogHTTPError(c, err, status, fmt.Sprintf("%s error", appError.Type))

			c.JSON(status, types.StandardResponse{
				Success: false,
				Error: &types.ErrorInfo{
					Code:    string(appError.Type),
					Message: appError.Message,
					Fields:  appError.Fields,
					TraceID: c.GetString(RequestIDKey),
				},
			})
			return
		}

		logger.LogHTTPError(c, err, http.StatusInternalServerError, "Unhandled error")
		c.JSON(http.StatusInternalServerError, types.StandardResponse{
			Success: false,
			Error: &types.ErrorInfo{
				Code:    types.ErrCodeInternalError,
				Message: "Something went wrong. Please try again later.",
				TraceID: c.GetString(RequestIDKey),
			},
		})
	}
}
