package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-ellarises/internal/app/domain"
	"github.com/FACorreiaa/go-ellarises/internal/app/models"
	"github.com/FACorreiaa/go-ellarises/internal/app/session"
	"github.com/FACorreiaa/go-ellarises/internal/app/views"
)

const (
	msgEmailTaken        = "An account with that email already exists."
	msgAccountCreated    = "Account created successfully!"
	msgInvalidSignup     = "Please provide a valid email and a password of at least 8 characters."
	msgInvalidCredential = "Invalid email or password"
	msgWelcomeBack       = "Welcome back!"
)

type LoginRequest struct {
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type RegisterRequest struct {
	Email            string    `form:"email" binding:"required,email_addr,max=254"`
	Password         string    `form:"password" binding:"required,min=8,max=72"`
	FirstName        string    `form:"first_name" binding:"max=100"`
	LastName         string    `form:"last_name" binding:"max=100"`
	DOB              time.Time `form:"dob" time_format:"2006-01-02" time_utc:"1"`
	Phone            string    `form:"phone" binding:"max=30"`
	SchoolOrEmployer string    `form:"school_or_employer" binding:"max=200"`
	FieldOfInterest  string    `form:"field_of_interest" binding:"max=200"`
	Zip              string    `form:"zip" binding:"max=10"`
}

type AuthHandlers struct {
	*domain.BaseHandler
	authService AuthService
}

func NewAuthHandlers(base *domain.BaseHandler, authService AuthService) *AuthHandlers {
	return &AuthHandlers{
		BaseHandler: base,
		authService: authService,
	}
}

func (h *AuthHandlers) ShowSignup(c *gin.Context) {
	h.RenderPage(c, "Create Account", "Sign Up", views.Signup(h.Meta(c)))
}

func (h *AuthHandlers) ShowLogin(c *gin.Context) {
	h.RenderPage(c, "Login", "Login", views.Login(h.Meta(c)))
}

// SignupHandler creates the account and logs the new user in.
func (h *AuthHandlers) SignupHandler(c *gin.Context) {
	var req RegisterRequest
	if err := h.Bind(c, &req); err != nil {
		h.Fail(c, err, msgInvalidSignup, "/signup")
		return
	}

	in := RegisterInput{
		Email:            req.Email,
		Password:         req.Password,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Phone:            req.Phone,
		SchoolOrEmployer: req.SchoolOrEmployer,
		FieldOfInterest:  req.FieldOfInterest,
		Zip:              req.Zip,
	}
	if !req.DOB.IsZero() {
		dob := req.DOB
		in.DOB = &dob
	}

	user, err := h.authService.Register(c.Request.Context(), in)
	if err != nil {
		h.Fail(c, err, msgEmailTaken, "/signup")
		return
	}

	if err := session.Login(session.From(c), *user); err != nil {
		h.Unexpected(c, err)
		return
	}
	h.Success(c, msgAccountCreated, "/home")
}

// LoginHandler answers unknown emails and wrong passwords with the same message.
func (h *AuthHandlers) LoginHandler(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.Error(c, msgInvalidCredential, "/login")
		return
	}

	user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrUnauthenticated) {
			h.Error(c, msgInvalidCredential, "/login")
			return
		}
		h.Unexpected(c, err)
		return
	}

	if err := session.Login(session.From(c), *user); err != nil {
		h.Unexpected(c, err)
		return
	}
	h.Success(c, msgWelcomeBack, "/home")
}

// LogoutHandler destroys the whole session, flashes included, and returns to the landing page.
func (h *AuthHandlers) LogoutHandler(c *gin.Context) {
	if err := session.Destroy(session.From(c)); err != nil {
		h.Logger.Warn("Failed to destroy session", zap.Error(err))
	}
	c.Redirect(http.StatusSeeOther, "/")
}
