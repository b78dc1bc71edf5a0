package surveys

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/go-ellarises/internal/app/domain"
	"github.com/FACorreiaa/go-ellarises/internal/app/models"
	"github.com/FACorreiaa/go-ellarises/internal/app/views"
)

const (
	listPage   = "/surveys"
	thanksPage = "/home"

	msgThankYou = "Thank you for your feedback!"
	msgUpdated  = "Survey updated"
	msgDeleted  = "Survey deleted"
	msgNotFound = "Survey not found"
	msgInvalid  = "Please choose a participant and an event, and rate each question from 1 to 5."
)

// OptionSource lists select box entries, satisfied by the participants and events repositories.
type OptionSource interface {
	Options(ctx context.Context) ([]models.Option, error)
}

type surveyRequest struct {
	ParticipantID      int64  `form:"participant_id" binding:"required,gt=0"`
	EventID            int64  `form:"event_id" binding:"required,gt=0"`
	SatisfactionRating int    `form:"satisfaction_rating" binding:"required,min=1,max=5"`
	UsefulnessRating   int    `form:"usefulness_rating" binding:"required,min=1,max=5"`
	RecommendRating    int    `form:"recommend_rating" binding:"required,min=1,max=5"`
	Comments           string `form:"comments" binding:"max=1000"`
}

func (r surveyRequest) toModel(id int64) models.Survey {
	return models.Survey{
		ID:                 id,
		ParticipantID:      r.ParticipantID,
		EventID:            r.EventID,
		SatisfactionRating: r.SatisfactionRating,
		UsefulnessRating:   r.UsefulnessRating,
		RecommendRating:    r.RecommendRating,
		Comments:           r.Comments,
	}
}

type SurveyHandlers struct {
	*domain.BaseHandler
	repo         Repository
	participants OptionSource
	events       OptionSource
}

func NewSurveyHandlers(base *domain.BaseHandler, repo Repository, participants, events OptionSource) *SurveyHandlers {
	return &SurveyHandlers{BaseHandler: base, repo: repo, participants: participants, events: events}
}

func (h *SurveyHandlers) options(ctx context.Context) (participants, events []models.Option, err error) {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		participants, err = h.participants.Options(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		events, err = h.events.Options(ctx)
		return err
	})
	err = g.Wait()
	return participants, events, err
}

func (h *SurveyHandlers) renderForm(c *gin.Context, title string, s models.Survey) {
	participants, events, err := h.options(c.Request.Context())
	if err != nil {
		h.Unexpected(c, err)
		return
	}
	h.RenderPage(c, title, "Surveys", views.SurveyForm(h.Meta(c), s, participants, events))
}

func (h *SurveyHandlers) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.Unexpected(c, err)
		return
	}
	h.RenderPage(c, "Survey Results", "Surveys", views.SurveyList(h.Meta(c), list))
}

// New renders the survey form. participant_id and event_id in the query string preselect the dropdowns.
func (h *SurveyHandlers) New(c *gin.Context) {
	s := models.Survey{
		ParticipantID: queryID(c, "participant_id"),
		EventID:       queryID(c, "event_id"),
	}
	h.renderForm(c, "Post-Event Survey", s)
}

func (h *SurveyHandlers) Create(c *gin.Context) {
	var req surveyRequest
	if err := h.Bind(c, &req); err != nil {
		h.Fail(c, err, msgInvalid, listPage+"/new")
		return
	}

	if _, err := h.repo.Create(c.Request.Context(), req.toModel(0)); err != nil {
		h.Fail(c, err, msgInvalid, listPage+"/new")
		return
	}
	h.Success(c, msgThankYou, thanksPage)
}

func (h *SurveyHandlers) Edit(c *gin.Context) {
	id, err := domain.ParamID(c, "id")
	if err != nil {
		h.Fail(c, err, msgNotFound, listPage)
		return
	}

	s, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		h.Fail(c, err, msgNotFound, listPage)
		return
	}
	h.renderForm(c, "Edit Survey", *s)
}

func (h *SurveyHandlers) Update(c *gin.Context) {
	id, err := domain.ParamID(c, "id")
	if err != nil {
		h.Fail(c, err, msgNotFound, listPage)
		return
	}

	var req surveyRequest
	if err := h.Bind(c, &req); err != nil {
		h.Fail(c, err, msgInvalid, fmt.Sprintf("%s/%d/edit", listPage, id))
		return
	}

	if err := h.repo.Update(c.Request.Context(), req.toModel(id)); err != nil {
		if errors.Is(err, models.ErrValidation) {
			h.Fail(c, err, msgInvalid, fmt.Sprintf("%s/%d/edit", listPage, id))
			return
		}
		h.Fail(c, err, msgNotFound, listPage)
		return
	}
	h.Success(c, msgUpdated, listPage)
}

func (h *SurveyHandlers) Delete(c *gin.Context) {
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

func queryID(c *gin.Context, name string) int64 {
	id, err := strconv.ParseInt(c.Query(name), 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}
