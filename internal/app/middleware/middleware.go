package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/FACorreiaa/go-ellarises/internal/app/session"
)

const (
	RequestIDHeader = "X-Request-Id"
	RequestIDKey    = "request_id"
)

const (
	msgLoginRequired = "Please log in first"
	msgManagersOnly  = "Managers only"
)

// contentSecurityPolicy allows the Tableau dashboards and Google Fonts used by the pages.
var contentSecurityPolicy = strings.Join([]string{
	"default-src 'self'",
	"script-src 'self' 'unsafe-inline' https://public.tableau.com",
	"style-src 'self' 'unsafe-inline' https://fonts.googleapis.com",
	"font-src 'self' https://fonts.gstatic.com data:",
	"img-src 'self' data: https://public.tableau.com",
	"frame-src 'self' https://public.tableau.com",
	"object-src 'none'",
	"base-uri 'self'",
	"form-action 'self'",
	"frame-ancestors 'self'",
}, "; ")

// SecurityMiddleware adds security headers
func SecurityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "SAMEORIGIN")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Cross-Origin-Opener-Policy", "same-origin")
		h.Set("Cross-Origin-Resource-Policy", "same-origin")
		h.Set("X-DNS-Prefetch-Control", "off")
		h.Set("Content-Security-Policy", contentSecurityPolicy)

		c.Next()
	}
}

// RequestID propagates or assigns the X-Request-Id header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Next()
	}
}

// BodyLimit caps request bodies at limit bytes.
func BodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}

// RequireAuth lets the request through only when the session holds a user.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if State(c).User == nil {
			flashAndRedirect(c, msgLoginRequired, "/login")
			return
		}
		c.Next()
	}
}

// RequireManager checks authentication first so anonymous visitors always get the login message, then the role.
func RequireManager() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := State(c).User
		if user == nil {
			flashAndRedirect(c, msgLoginRequired, "/login")
			return
		}
		if !user.IsManager() {
			flashAndRedirect(c, msgManagersOnly, "/home")
			return
		}
		c.Next()
	}
}

func flashAndRedirect(c *gin.Context, msg, redirectURL string) {
	if err := session.AddError(session.From(c), msg); err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	handleAuthRedirect(c, redirectURL)
}

// handleAuthRedirect handles redirects for both regular and HTMX requests
func handleAuthRedirect(c *gin.Context, redirectURL string) {
	if c.GetHeader("HX-Request") == "true" {
		c.Header("HX-Redirect", redirectURL)
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	c.Redirect(http.StatusFound, redirectURL)
	c.Abort()
}
