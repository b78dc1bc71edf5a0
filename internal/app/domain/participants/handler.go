package participants

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/FACorreiaa/go-ellarises/internal/app/domain"
	"github.com/FACorreiaa/go-ellarises/internal/app/models"
	"github.com/FACorreiaa/go-ellarises/internal/app/views"
)

const (
	listPage = "/participants"

	msgCreated   = "Participant created"
	msgUpdated   = "Participant updated"
	msgDeleted   = "Participant deleted"
	msgNotFound  = "Participant not found"
	msgDuplicate = "A participant with that email already exists."
	msgInvalid   = "Please provide an email, first name and last name."
	msgLocked    = "This participant has a login account, so the email cannot be changed here."
)

type participantRequest struct {
	Email            string    `form:"email" binding:"required,email_addr,max=254"`
	FirstName        string    `form:"first_name" binding:"required,max=100"`
	LastName         string    `form:"last_name" binding:"required,max=100"`
	DOB              time.Time `form:"dob" time_format:"2006-01-02" time_utc:"1"`
	Phone            string    `form:"phone" binding:"max=30"`
	SchoolOrEmployer string    `form:"school_or_employer" binding:"max=200"`
	FieldOfInterest  string    `form:"field_of_interest" binding:"max=200"`
	Zip              string    `form:"zip" binding:"max=10"`
}

func (r participantRequest) toModel(id int64) models.Participant {
	p := models.Participant{
		ID:               id,
		Email:            models.NormalizeEmail(r.Email),
		FirstName:        r.FirstName,
		LastName:         r.LastName,
		Phone:            r.Phone,
		SchoolOrEmployer: r.SchoolOrEmployer,
		FieldOfInterest:  r.FieldOfInterest,
		Zip:              r.Zip,
	}
	if !r.DOB.IsZero() {
		dob := r.DOB
		p.DOB = &dob
	}
	return p
}

type ParticipantHandlers struct {
	*domain.BaseHandler
	repo Repository
}

func NewParticipantHandlers(base *domain.BaseHandler, repo Repository) *ParticipantHandlers {
	return &ParticipantHandlers{BaseHandler: base, repo: repo}
}

func (h *ParticipantHandlers) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.Unexpected(c, err)
		return
	}
	h.RenderPage(c, "Participants", "Participants", views.ParticipantList(h.Meta(c), list))
}

func (h *ParticipantHandlers) New(c *gin.Context) {
	h.RenderPage(c, "New Participant", "Participants", views.ParticipantForm(h.Meta(c), models.Participant{}))
}

func (h *ParticipantHandlers) Create(c *gin.Context) {
	var req participantRequest
	if err := h.Bind(c, &req); err != nil {
		h.Fail(c, err, msgInvalid, listPage+"/new")
		return
	}

	if _, err := h.repo.Create(c.Request.Context(), req.toModel(0)); err != nil {
		h.Fail(c, err, msgDuplicate, listPage+"/new")
		return
	}
	h.Success(c, msgCreated, listPage)
}

func (h *ParticipantHandlers) Edit(c *gin.Context) {
	id, err := domain.ParamID(c, "id")
	if err != nil {
		h.Fail(c, err, msgNotFound, listPage)
		return
	}

	p, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		h.Fail(c, err, msgNotFound, listPage)
		return
	}
	h.RenderPage(c, "Edit Participant", "Participants", views.ParticipantForm(h.Meta(c), *p))
}

func (h *ParticipantHandlers) Update(c *gin.Context) {
	id, err := domain.ParamID(c, "id")
	if err != nil {
		h.Fail(c, err, msgNotFound, listPage)
		return
	}

	editPage := fmt.Sprintf("%s/%d/edit", listPage, id)
	var req participantRequest
	if err := h.Bind(c, &req); err != nil {
		h.Fail(c, err, msgInvalid, editPage)
		return
	}

	err = h.repo.Update(c.Request.Context(), req.toModel(id))
	switch {
	case err == nil:
		h.Success(c, msgUpdated, listPage)
	case errors.Is(err, models.ErrConflict):
		h.Fail(c, err, msgDuplicate, editPage)
	case errors.Is(err, ErrAccountEmail):
		h.Fail(c, err, msgLocked, editPage)
	default:
		h.Fail(c, err, msgNotFound, listPage)
	}
}

func (h *ParticipantHandlers) Delete(c *gin.Context) {
	id, err := domain.ParamID(c, "id")
	if err != nil {
		h.Fail(c, err, msgNotFound, listPage)
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		h.Fail(c, err, msgNotFound, listPage)
		return
	}
	h.Success(c, msgDeleted, listPage)
}
