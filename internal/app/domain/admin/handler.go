package admin

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/FACorreiaa/go-ellarises/internal/app/domain"
	"github.com/FACorreiaa/go-ellarises/internal/app/middleware"
	"github.com/FACorreiaa/go-ellarises/internal/app/models"
	"github.com/FACorreiaa/go-ellarises/internal/app/views"
)

const (
	managerPage = "/admin/make-manager"

	msgEmailRequired   = "Please enter an email address"
	msgNoUserToPromote = "No user exists with that email. Ask them to sign up first, then try again."
	msgAlreadyManager  = "That user is already a manager."
	msgNoUser          = "No user exists with that email."
	msgNotManager      = "That user is not a manager."
	msgSelfDemotion    = "You cannot remove your own manager access."
	msgNoParticipant   = "That account has no participant record, so its role was not changed."
)

type roleRequest struct {
	Email string `form:"email" binding:"max=254"`
}

type AdminHandlers struct {
	*domain.BaseHandler
	service Service
}

func NewAdminHandlers(base *domain.BaseHandler, service Service) *AdminHandlers {
	return &AdminHandlers{BaseHandler: base, service: service}
}

func (h *AdminHandlers) ShowMakeManager(c *gin.Context) {
	h.RenderPage(c, "Manager Access", "Managers", views.MakeManager(h.Meta(c)))
}

func (h *AdminHandlers) Promote(c *gin.Context) {
	var req roleRequest
	if err := h.Bind(c, &req); err != nil {
		h.Fail(c, err, msgEmailRequired, managerPage)
		return
	}

	email, err := h.service.Promote(c.Request.Context(), req.Email)
	switch {
	case err == nil:
		h.Success(c, fmt.Sprintf("Promoted %s to manager.", email), managerPage)
	case errors.Is(err, ErrAlreadyManager):
		h.Success(c, msgAlreadyManager, managerPage)
	case errors.Is(err, ErrEmailRequired):
		h.Fail(c, err, msgEmailRequired, managerPage)
	case errors.Is(err, models.ErrNotFound):
		h.Fail(c, err, msgNoUserToPromote, managerPage)
	case errors.Is(err, ErrNoParticipant):
		h.Fail(c, err, msgNoParticipant, managerPage)
	default:
		h.Unexpected(c, err)
	}
}

func (h *AdminHandlers) Demote(c *gin.Context) {
	var req roleRequest
	if err := h.Bind(c, &req); err != nil {
		h.Fail(c, err, msgEmailRequired, managerPage)
		return
	}

	actor := middleware.CurrentUser(c)
	if actor == nil {
		h.Unexpected(c, models.ErrUnauthenticated)
		return
	}

	email, err := h.service.Demote(c.Request.Context(), *actor, req.Email)
	switch {
	case err == nil:
		h.Success(c, fmt.Sprintf("Removed manager access from %s.", email), managerPage)
	case errors.Is(err, ErrEmailRequired):
		h.Fail(c, err, msgEmailRequired, managerPage)
	case errors.Is(err, models.ErrNotFound):
		h.Fail(c, err, msgNoUser, managerPage)
	case errors.Is(err, ErrNotManager):
		h.Fail(c, err, msgNotManager, managerPage)
	case errors.Is(err, ErrSelfDemotion):
		h.Fail(c, err, msgSelfDemotion, managerPage)
	case errors.Is(err, ErrNoParticipant):
		h.Fail(c, err, msgNoParticipant, managerPage)
	default:
		h.Unexpected(c, err)
	}
}
