package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-ellarises/internal/app/models"
)

const (
	CSRFFailureMessage   = "CSRF token validation failed."
	InternalErrorMessage = "Internal Server Error."
)

// ErrorHandler is the last line of defence for errors recorded with c.Error. CSRF failures become a plain 403,
// everything else is logged and becomes a plain 500. Error detail never reaches the client.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil {
			return
		}

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.GetString(RequestIDKey)),
		}

		if errors.Is(last.Err, models.ErrCSRF) {
			logger.Warn("CSRF token rejected", fields...)
			writePlain(c, http.StatusForbidden, CSRFFailureMessage)
			return
		}

		logger.Error("Request failed", append(fields, zap.Error(last.Err))...)
		writePlain(c, http.StatusInternalServerError, InternalErrorMessage)
	}
}

// Recover answers a recovered panic the same way as an unexpected error.
func Recover(c *gin.Context, _ any) {
	writePlain(c, http.StatusInternalServerError, InternalErrorMessage)
}

func writePlain(c *gin.Context, status int, msg string) {
	if c.Writer.Written() {
		return
	}
	c.String(status, msg)
	c.Abort()
}
