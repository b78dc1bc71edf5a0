package domain

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-ellarises/internal/app/middleware"
	"github.com/FACorreiaa/go-ellarises/internal/app/models"
	"github.com/FACorreiaa/go-ellarises/internal/app/session"
	"github.com/FACorreiaa/go-ellarises/internal/app/views"
)

type BaseHandler struct {
	Logger *zap.Logger
}

func NewBaseHandler(logger *zap.Logger) *BaseHandler {
	registerValidators()
	return &BaseHandler{Logger: logger}
}

// Meta is the per-request data every page template receives.
func (h *BaseHandler) Meta(c *gin.Context) views.Meta {
	st := middleware.State(c)
	return views.Meta{CSRFToken: st.CSRFToken, User: st.User}
}

func (h *BaseHandler) newLayoutData(c *gin.Context, title, activeNav string, content templ.Component) models.LayoutTempl {
	st := middleware.State(c)
	return models.LayoutTempl{
		Title:     title,
		Content:   content,
		Nav:       models.NavFor(st.User),
		ActiveNav: activeNav,
		User:      st.User,
		CSRFToken: st.CSRFToken,
		Success:   st.Success,
		Errors:    st.Errors,
	}
}

func (h *BaseHandler) render(c *gin.Context, status int, component templ.Component) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if err := component.Render(c.Request.Context(), c.Writer); err != nil {
		h.Logger.Error("Failed to render page", zap.String("path", c.Request.URL.Path), zap.Error(err))
		_ = c.Error(err)
	}
}

func (h *BaseHandler) RenderPage(c *gin.Context, title, activeNav string, content templ.Component) {
	h.RenderPageStatus(c, http.StatusOK, title, activeNav, content)
}

// RenderPageStatus renders content inside the layout. HTMX requests get the content with its flash banners only.
func (h *BaseHandler) RenderPageStatus(c *gin.Context, status int, title, activeNav string, content templ.Component) {
	data := h.newLayoutData(c, title, activeNav, content)
	if c.GetHeader("HX-Request") == "true" {
		h.render(c, status, views.Fragment(data))
		return
	}
	h.render(c, status, views.Layout(data))
}

// Success queues a success flash and redirects with 303 See Other.
func (h *BaseHandler) Success(c *gin.Context, msg, location string) {
	h.flash(c, session.FlashSuccess, msg, location)
}

// Error queues an error flash and redirects with 303 See Other.
func (h *BaseHandler) Error(c *gin.Context, msg, location string) {
	h.flash(c, session.FlashError, msg, location)
}

func (h *BaseHandler) flash(c *gin.Context, category, msg, location string) {
	s := session.From(c)
	var err error
	if category == session.FlashSuccess {
		err = session.AddSuccess(s, msg)
	} else {
		err = session.AddError(s, msg)
	}
	if err != nil {
		h.Unexpected(c, fmt.Errorf("save flash: %w", err))
		return
	}
	c.Redirect(http.StatusSeeOther, location)
}

// Fail is the single translation point for handler errors. Expected outcomes (not found, conflict, validation,
// forbidden) become an error flash and a redirect; anything else goes to the global error middleware as a 500.
func (h *BaseHandler) Fail(c *gin.Context, err error, msg, location string) {
	if models.IsExpected(err) {
		h.Logger.Warn("Request rejected",
			zap.String("path", c.Request.URL.Path),
			zap.String("reason", msg),
			zap.Error(err))
		h.Error(c, msg, location)
		return
	}
	h.Unexpected(c, err)
}

// Unexpected records err for the error middleware and stops the chain.
func (h *BaseHandler) Unexpected(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// Bind validates the request form against the binding tags of obj.
func (h *BaseHandler) Bind(c *gin.Context, obj any) error {
	if err := c.ShouldBind(obj); err != nil {
		return fmt.Errorf("%w: %v", models.ErrValidation, err)
	}
	return nil
}

// ParamID parses a positive integer path parameter. Anything else is reported as not found.
func ParamID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s %q: %w", name, c.Param(name), models.ErrNotFound)
	}
	return id, nil
}
