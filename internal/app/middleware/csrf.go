package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FACorreiaa/go-ellarises/internal/app/models"
)

const (
	CSRFFormField = "_csrf"
	CSRFHeader    = "X-CSRF-Token"
)

// CSRF rejects every unsafe request whose token does not match the session token. The rejection is recorded as
// models.ErrCSRF and answered by ErrorHandler; no route handler runs.
func CSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
			c.Next()
			return
		}

		expected := State(c).CSRFToken
		presented := c.GetHeader(CSRFHeader)
		if presented == "" {
			presented = c.PostForm(CSRFFormField)
		}

		if expected == "" || presented == "" ||
			subtle.ConstantTimeCompare([]byte(expected), []byte(presented)) != 1 {
			_ = c.Error(models.ErrCSRF)
			c.Abort()
			return
		}
		c.Next()
	}
}
