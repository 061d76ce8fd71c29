package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/marketdash/marketdash/internal/domain/dto"
	"github.com/marketdash/marketdash/internal/logger"
)

// ErrorHandler is a Gin middleware that converts errors attached to
// the context (via c.Error) into a standardized JSON response, if the
// handler did not already write one.
//
// Usage:
//
//	router := gin.New()
//	router.Use(middleware.ErrorHandler)
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}

	err := c.Errors.Last().Err
	logger.L().Error().Err(err).
		Str("path", c.Request.URL.Path).
		Msg("unhandled request error")

	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("Internal server error", err))
}

// AbortWithError stops the request chain and writes a standardized
// error response with the given status code.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(message, err))
}
