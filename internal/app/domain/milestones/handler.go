package milestones

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/FACorreiaa/go-ellarises/internal/app/domain"
	"github.com/FACorreiaa/go-ellarises/internal/app/models"
	"github.com/FACorreiaa/go-ellarises/internal/app/views"
)

const (
	summaryPage = "/milestones"

	msgAdded               = "Milestone added"
	msgInvalid             = "Please provide a milestone title and date."
	msgParticipantNotFound = "Participant not found"
)

// ParticipantFinder is the slice of the participants repository the detail page needs.
type ParticipantFinder interface {
	Get(ctx context.Context, id int64) (*models.Participant, error)
}

type milestoneRequest struct {
	Title         string    `form:"title" binding:"required,max=200"`
	MilestoneDate time.Time `form:"milestone_date" time_format:"2006-01-02" time_utc:"1"`
}

type MilestoneHandlers struct {
	*domain.BaseHandler
	repo         Repository
	participants ParticipantFinder
	classifier   *Classifier
}

func NewMilestoneHandlers(base *domain.BaseHandler, repo Repository, participants ParticipantFinder) *MilestoneHandlers {
	return &MilestoneHandlers{BaseHandler: base, repo: repo, participants: participants, classifier: NewClassifier()}
}

func (h *MilestoneHandlers) Summary(c *gin.Context) {
	rows, err := h.repo.Summary(c.Request.Context())
	if err != nil {
		h.Unexpected(c, err)
		return
	}
	h.RenderPage(c, "Participant Milestones", "Milestones", views.MilestoneSummary(h.Meta(c), rows))
}

func (h *MilestoneHandlers) participant(c *gin.Context) (*models.Participant, bool) {
	id, err := domain.ParamID(c, "id")
	if err == nil {
		var p *models.Participant
		if p, err = h.participants.Get(c.Request.Context(), id); err == nil {
			return p, true
		}
	}
	h.Fail(c, err, msgParticipantNotFound, summaryPage)
	return nil, false
}

func (h *MilestoneHandlers) Detail(c *gin.Context) {
	p, ok := h.participant(c)
	if !ok {
		return
	}

	list, err := h.repo.ListForEmail(c.Request.Context(), p.Email)
	if err != nil {
		h.Unexpected(c, err)
		return
	}
	for i := range list {
		list[i].Categories = h.classifier.Classify(list[i].Title)
	}
	title := "Milestones for " + p.FullName()
	h.RenderPage(c, title, "Milestones", views.MilestoneDetail(h.Meta(c), *p, list))
}

func (h *MilestoneHandlers) Add(c *gin.Context) {
	p, ok := h.participant(c)
	if !ok {
		return
	}
	detailPage := fmt.Sprintf("/participants/%d/milestones", p.ID)

	var req milestoneRequest
	err := h.Bind(c, &req)
	if err == nil && (req.MilestoneDate.IsZero() || strings.TrimSpace(req.Title) == "") {
		err = fmt.Errorf("milestone title and date: %w", models.ErrValidation)
	}
	if err != nil {
		h.Fail(c, err, msgInvalid, detailPage)
		return
	}

	m := models.Milestone{ParticipantEmail: p.Email, Title: strings.TrimSpace(req.Title), MilestoneDate: req.MilestoneDate}
	if _, err := h.repo.Add(c.Request.Context(), m); err != nil {
		h.Unexpected(c, err)
		return
	}
	h.Success(c, msgAdded, detailPage)
}
