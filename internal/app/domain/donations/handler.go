package donations

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/FACorreiaa/go-ellarises/internal/app/domain"
	"github.com/FACorreiaa/go-ellarises/internal/app/middleware"
	"github.com/FACorreiaa/go-ellarises/internal/app/models"
	"github.com/FACorreiaa/go-ellarises/internal/app/views"
)

const (
	listPage = "/donations"
	myPage   = "/my-donations"

	msgCreated   = "Donation recorded."
	msgUpdated   = "Donation updated."
	msgDeleted   = "Donation deleted"
	msgNotFound  = "Donation not found"
	msgThankYou  = "Thank you for your donation!"
	msgInvalid   = "Please provide a participant email, a date and an amount greater than zero."
	msgMyInvalid = "Please provide a date and an amount greater than zero."
)

type donationRequest struct {
	ParticipantEmail string    `form:"participant_email" binding:"required,email_addr,max=254"`
	DonationDate     time.Time `form:"donation_date" time_format:"2006-01-02" time_utc:"1"`
	Amount           float64   `form:"donation_amount" binding:"required,gt=0"`
}

type myDonationRequest struct {
	DonationDate time.Time `form:"donation_date" time_format:"2006-01-02" time_utc:"1"`
	Amount       float64   `form:"donation_amount" binding:"required,gt=0"`
}

type DonationHandlers struct {
	*domain.BaseHandler
	repo Repository
}

func NewDonationHandlers(base *domain.BaseHandler, repo Repository) *DonationHandlers {
	return &DonationHandlers{BaseHandler: base, repo: repo}
}

func (h *DonationHandlers) bind(c *gin.Context, id int64) (models.Donation, error) {
	var req donationRequest
	if err := h.Bind(c, &req); err != nil {
		return models.Donation{}, err
	}
	if req.DonationDate.IsZero() {
		return models.Donation{}, fmt.Errorf("donation date: %w", models.ErrValidation)
	}
	return models.Donation{
		ID:               id,
		ParticipantEmail: models.NormalizeEmail(req.ParticipantEmail),
		DonationDate:     req.DonationDate,
		Amount:           req.Amount,
	}, nil
}

func (h *DonationHandlers) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.Unexpected(c, err)
		return
	}
	h.RenderPage(c, "Donations", "Donations", views.DonationList(h.Meta(c), list))
}

func (h *DonationHandlers) New(c *gin.Context) {
	d := models.Donation{DonationDate: time.Now().UTC()}
	h.RenderPage(c, "Record Donation", "Donations", views.DonationForm(h.Meta(c), d))
}

func (h *DonationHandlers) Create(c *gin.Context) {
	d, err := h.bind(c, 0)
	if err != nil {
		h.Fail(c, err, msgInvalid, listPage+"/new")
		return
	}

	if _, err := h.repo.Create(c.Request.Context(), d); err != nil {
		h.Unexpected(c, err)
		return
	}
	h.Success(c, msgCreated, listPage)
}

func (h *DonationHandlers) Edit(c *gin.Context) {
	id, err := domain.ParamID(c, "id")
	if err != nil {
		h.Fail(c, err, msgNotFound, listPage)
		return
	}

	d, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		h.Fail(c, err, msgNotFound, listPage)
		return
	}
	h.RenderPage(c, "Edit Donation", "Donations", views.DonationForm(h.Meta(c), *d))
}

func (h *DonationHandlers) Update(c *gin.Context) {
	id, err := domain.ParamID(c, "id")
	if err != nil {
		h.Fail(c, err, msgNotFound, listPage)
		return
	}

	d, err := h.bind(c, id)
	if err != nil {
		h.Fail(c, err, msgInvalid, fmt.Sprintf("%s/%d/edit", listPage, id))
		return
	}

	if err := h.repo.Update(c.Request.Context(), d); err != nil {
		h.Fail(c, err, msgNotFound, listPage)
		return
	}
	h.Success(c, msgUpdated, listPage)
}

func (h *DonationHandlers) Delete(c *gin.Context) {
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

// MyDonations lists the donations recorded under the logged-in user's email.
func (h *DonationHandlers) MyDonations(c *gin.Context) {
	user := middleware.CurrentUser(c)
	list, err := h.repo.ListByEmail(c.Request.Context(), user.Email)
	if err != nil {
		h.Unexpected(c, err)
		return
	}
	h.RenderPage(c, "My Donations", "My Donations", views.MyDonations(h.Meta(c), list))
}

func (h *DonationHandlers) NewMyDonation(c *gin.Context) {
	h.RenderPage(c, "Make a Donation", "My Donations", views.MyDonationForm(h.Meta(c)))
}

func (h *DonationHandlers) CreateMyDonation(c *gin.Context) {
	var req myDonationRequest
	err := h.Bind(c, &req)
	if err == nil && req.DonationDate.IsZero() {
		err = fmt.Errorf("donation date: %w", models.ErrValidation)
	}
	if err != nil {
		h.Fail(c, err, msgMyInvalid, myPage+"/new")
		return
	}

	user := middleware.CurrentUser(c)
	d := models.Donation{ParticipantEmail: user.Email, DonationDate: req.DonationDate, Amount: req.Amount}
	if _, err := h.repo.Create(c.Request.Context(), d); err != nil {
		h.Unexpected(c, err)
		return
	}
	h.Success(c, msgThankYou, myPage)
}
