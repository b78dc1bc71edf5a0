// Package domaintest builds small gin engines for handler tests: error handling, a memory-backed session and an
// optional logged-in user, without CSRF.
package domaintest

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-ellarises/internal/app/domain"
	"github.com/FACorreiaa/go-ellarises/internal/app/middleware"
	"github.com/FACorreiaa/go-ellarises/internal/app/models"
	"github.com/FACorreiaa/go-ellarises/internal/app/session"
)

const sessionKey = "0123456789abcdef0123456789abcdef"

// NewRouter returns an engine whose requests all run as user, or anonymously when user is nil.
func NewRouter(user *models.UserRef) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	store := session.NewStore(session.NewMemoryBackend(time.Hour), []byte(sessionKey))
	r.Use(middleware.ErrorHandler(zap.NewNop()))
	r.Use(sessions.Sessions("ella.sid", store))
	if user != nil {
		r.Use(func(c *gin.Context) {
			if err := session.Login(session.From(c), *user); err != nil {
				_ = c.Error(err)
				c.Abort()
				return
			}
			c.Next()
		})
	}
	r.Use(middleware.SessionState())
	return r
}

func NewBaseHandler() *domain.BaseHandler {
	return domain.NewBaseHandler(zap.NewNop())
}

func Get(r http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func PostForm(r http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}
