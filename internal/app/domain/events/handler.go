package events

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/FACorreiaa/go-ellarises/internal/app/domain"
	"github.com/FACorreiaa/go-ellarises/internal/app/models"
	"github.com/FACorreiaa/go-ellarises/internal/app/views"
)

const (
	listPage = "/events"

	msgCreated  = "Event created"
	msgUpdated  = "Event updated"
	msgDeleted  = "Event deleted"
	msgNotFound = "Event not found"
	msgInvalid  = "Please provide an event name and date."
)

type eventRequest struct {
	Name        string    `form:"name" binding:"required,max=200"`
	EventDate   time.Time `form:"event_date" time_format:"2006-01-02" time_utc:"1"`
	EventType   string    `form:"event_type" binding:"max=100"`
	Description string    `form:"description" binding:"max=2000"`
	Location    string    `form:"location" binding:"max=200"`
}

func (r eventRequest) toModel(id int64) models.Event {
	return models.Event{
		ID:          id,
		Name:        strings.TrimSpace(r.Name),
		EventDate:   r.EventDate,
		EventType:   r.EventType,
		Description: r.Description,
		Location:    r.Location,
	}
}

type EventHandlers struct {
	*domain.BaseHandler
	repo Repository
}

func NewEventHandlers(base *domain.BaseHandler, repo Repository) *EventHandlers {
	return &EventHandlers{BaseHandler: base, repo: repo}
}

func (h *EventHandlers) bind(c *gin.Context) (eventRequest, error) {
	var req eventRequest
	if err := h.Bind(c, &req); err != nil {
		return req, err
	}
	if req.EventDate.IsZero() || strings.TrimSpace(req.Name) == "" {
		return req, fmt.Errorf("event name and date: %w", models.ErrValidation)
	}
	return req, nil
}

func (h *EventHandlers) List(c *gin.Context) {
	events, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.Unexpected(c, err)
		return
	}
	h.RenderPage(c, "Events", "Events", views.EventList(h.Meta(c), events))
}

func (h *EventHandlers) New(c *gin.Context) {
	h.RenderPage(c, "New Event", "Events", views.EventForm(h.Meta(c), models.Event{}))
}

func (h *EventHandlers) Create(c *gin.Context) {
	req, err := h.bind(c)
	if err != nil {
		h.Fail(c, err, msgInvalid, listPage+"/new")
		return
	}

	if _, err := h.repo.Create(c.Request.Context(), req.toModel(0)); err != nil {
		h.Unexpected(c, err)
		return
	}
	h.Success(c, msgCreated, listPage)
}

func (h *EventHandlers) Edit(c *gin.Context) {
	id, err := domain.ParamID(c, "id")
	if err != nil {
		h.Fail(c, err, msgNotFound, listPage)
		return
	}

	e, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		h.Fail(c, err, msgNotFound, listPage)
		return
	}
	h.RenderPage(c, "Edit Event", "Events", views.EventForm(h.Meta(c), *e))
}

func (h *EventHandlers) Update(c *gin.Context) {
	id, err := domain.ParamID(c, "id")
	if err != nil {
		h.Fail(c, err, msgNotFound, listPage)
		return
	}

	req, err := h.bind(c)
	if err != nil {
		h.Fail(c, err, msgInvalid, fmt.Sprintf("%s/%d/edit", listPage, id))
		return
	}

	if err := h.repo.Update(c.Request.Context(), req.toModel(id)); err != nil {
		h.Fail(c, err, msgNotFound, listPage)
		return
	}
	h.Success(c, msgUpdated, listPage)
}

func (h *EventHandlers) Delete(c *gin.Context) {
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
