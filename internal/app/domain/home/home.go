package home

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-ellarises/internal/app/domain"
	"github.com/FACorreiaa/go-ellarises/internal/app/domain/statistics"
	"github.com/FACorreiaa/go-ellarises/internal/app/models"
	"github.com/FACorreiaa/go-ellarises/internal/app/views"
)

const (
	TeapotMessage = "I'm a teapot"
	title         = "Ella Rises"
)

type HomeHandlers struct {
	*domain.BaseHandler
	stats statistics.Service
}

func NewHomeHandlers(base *domain.BaseHandler, stats statistics.Service) *HomeHandlers {
	return &HomeHandlers{BaseHandler: base, stats: stats}
}

// ShowLandingPage renders the public page. Statistics failures degrade to zeros instead of failing the page.
func (h *HomeHandlers) ShowLandingPage(c *gin.Context) {
	stats, err := h.stats.GetLandingPageStatistics(c.Request.Context())
	if err != nil {
		h.Logger.Warn("Rendering landing page without statistics", zap.Error(err))
		stats = models.LandingStats{}
	}
	h.RenderPage(c, title, "Home", views.Landing(h.Meta(c), stats))
}

// NotFound renders the landing page with a 404 status and zeroed statistics.
func (h *HomeHandlers) NotFound(c *gin.Context) {
	h.RenderPageStatus(c, http.StatusNotFound, "Page Not Found", "", views.Landing(h.Meta(c), models.LandingStats{}))
}

func (h *HomeHandlers) Teapot(c *gin.Context) {
	c.String(http.StatusTeapot, TeapotMessage)
}

func (h *HomeHandlers) Healthz(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func (h *HomeHandlers) ShowHomePage(c *gin.Context) {
	h.RenderPage(c, "Home", "Home", views.Home(h.Meta(c)))
}

func (h *HomeHandlers) ShowDashboard(c *gin.Context) {
	h.RenderPage(c, "Dashboard", "Dashboard", views.Dashboard(h.Meta(c)))
}
