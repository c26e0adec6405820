package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse defines the structure of error responses.
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler converts errors attached to the gin context into a JSON
// envelope, so handlers can c.Error(err) and return.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		GetLogger().Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Message: "internal error",
				Details: err.Error(),
			})
		}
	}
}
