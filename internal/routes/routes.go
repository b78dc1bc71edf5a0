package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-ellarises/internal/app/domain"
	"github.com/FACorreiaa/go-ellarises/internal/app/domain/admin"
	"github.com/FACorreiaa/go-ellarises/internal/app/domain/auth"
	"github.com/FACorreiaa/go-ellarises/internal/app/domain/donations"
	"github.com/FACorreiaa/go-ellarises/internal/app/domain/events"
	"github.com/FACorreiaa/go-ellarises/internal/app/domain/home"
	"github.com/FACorreiaa/go-ellarises/internal/app/domain/milestones"
	"github.com/FACorreiaa/go-ellarises/internal/app/domain/participants"
	"github.com/FACorreiaa/go-ellarises/internal/app/domain/statistics"
	"github.com/FACorreiaa/go-ellarises/internal/app/domain/surveys"
	"github.com/FACorreiaa/go-ellarises/internal/app/middleware"
	"github.com/FACorreiaa/go-ellarises/internal/app/observability/metrics"
	database "github.com/FACorreiaa/go-ellarises/internal/db"
	"github.com/FACorreiaa/go-ellarises/internal/pkg/config"
)

// Repositories is every data access dependency of the route handlers. Tests replace them with fakes.
type Repositories struct {
	Auth         auth.AuthRepo
	Statistics   statistics.Repository
	Participants participants.Repository
	Events       events.Repository
	Donations    donations.Repository
	Admin        admin.Repository
	Milestones   milestones.Repository
	Surveys      surveys.Repository
}

func NewPostgresRepositories(db database.DB, log *zap.Logger) Repositories {
	return Repositories{
		Auth:         auth.NewPostgresAuthRepo(db, log),
		Statistics:   statistics.NewPostgresRepository(db),
		Participants: participants.NewPostgresRepository(db),
		Events:       events.NewPostgresRepository(db),
		Donations:    donations.NewPostgresRepository(db),
		Admin:        admin.NewPostgresRepository(db),
		Milestones:   milestones.NewPostgresRepository(db),
		Surveys:      surveys.NewPostgresRepository(db),
	}
}

type AppHandlers struct {
	Home         *home.HomeHandlers
	Auth         *auth.AuthHandlers
	Participants *participants.ParticipantHandlers
	Events       *events.EventHandlers
	Donations    *donations.DonationHandlers
	Admin        *admin.AdminHandlers
	Milestones   *milestones.MilestoneHandlers
	Surveys      *surveys.SurveyHandlers
}

func NewHandlers(repos Repositories, cfg *config.Config, m *metrics.AppMetrics, log *zap.Logger) *AppHandlers {
	base := domain.NewBaseHandler(log)

	statsService := statistics.NewService(repos.Statistics, cfg.StatsCacheTTL, log)
	authService := auth.NewAuthService(repos.Auth, cfg.BcryptCost, m, log)
	adminService := admin.NewService(repos.Admin, m, log)

	return &AppHandlers{
		Home:         home.NewHomeHandlers(base, statsService),
		Auth:         auth.NewAuthHandlers(base, authService),
		Participants: participants.NewParticipantHandlers(base, repos.Participants),
		Events:       events.NewEventHandlers(base, repos.Events),
		Donations:    donations.NewDonationHandlers(base, repos.Donations),
		Admin:        admin.NewAdminHandlers(base, adminService),
		Milestones:   milestones.NewMilestoneHandlers(base, repos.Milestones, repos.Participants),
		Surveys:      surveys.NewSurveyHandlers(base, repos.Surveys, repos.Participants, repos.Events),
	}
}

// Setup registers the route groups in order. Unmatched paths render the landing page with a 404.
func Setup(r *gin.Engine, h *AppHandlers) {
	requireAuth := middleware.RequireAuth()
	requireManager := middleware.RequireManager()

	// Public
	r.GET("/", h.Home.ShowLandingPage)
	r.GET("/teapot", h.Home.Teapot)
	r.GET("/healthz", h.Home.Healthz)

	// Auth
	r.GET("/signup", h.Auth.ShowSignup)
	r.POST("/signup", h.Auth.SignupHandler)
	r.GET("/login", h.Auth.ShowLogin)
	r.POST("/login", h.Auth.LoginHandler)
	r.POST("/logout", h.Auth.LogoutHandler)

	// Home
	r.GET("/home", requireAuth, h.Home.ShowHomePage)
	r.GET("/dashboard", requireAuth, h.Home.ShowDashboard)

	participantsGroup := r.Group("/participants")
	{
		participantsGroup.GET("", requireAuth, h.Participants.List)
		participantsGroup.GET("/new", requireManager, h.Participants.New)
		participantsGroup.POST("", requireManager, h.Participants.Create)
		participantsGroup.GET("/:id/edit", requireManager, h.Participants.Edit)
		participantsGroup.POST("/:id", requireManager, h.Participants.Update)
		participantsGroup.POST("/:id/delete", requireManager, h.Participants.Delete)
	}

	eventsGroup := r.Group("/events")
	{
		eventsGroup.GET("", requireAuth, h.Events.List)
		eventsGroup.GET("/new", requireManager, h.Events.New)
		eventsGroup.POST("", requireManager, h.Events.Create)
		eventsGroup.GET("/:id/edit", requireManager, h.Events.Edit)
		eventsGroup.POST("/:id", requireManager, h.Events.Update)
		eventsGroup.POST("/:id/delete", requireManager, h.Events.Delete)
	}

	donationsGroup := r.Group("/donations", requireManager)
	{
		donationsGroup.GET("", h.Donations.List)
		donationsGroup.GET("/new", h.Donations.New)
		donationsGroup.POST("", h.Donations.Create)
		donationsGroup.GET("/:id/edit", h.Donations.Edit)
		donationsGroup.POST("/:id", h.Donations.Update)
		donationsGroup.POST("/:id/delete", h.Donations.Delete)
	}
	myDonations := r.Group("/my-donations", requireAuth)
	{
		myDonations.GET("", h.Donations.MyDonations)
		myDonations.GET("/new", h.Donations.NewMyDonation)
		myDonations.POST("", h.Donations.CreateMyDonation)
	}

	adminGroup := r.Group("/admin", requireManager)
	{
		adminGroup.GET("/make-manager", h.Admin.ShowMakeManager)
		adminGroup.POST("/make-manager", h.Admin.Promote)
		adminGroup.POST("/remove-manager", h.Admin.Demote)
	}

	r.GET("/milestones", requireManager, h.Milestones.Summary)
	participantsGroup.GET("/:id/milestones", requireManager, h.Milestones.Detail)
	participantsGroup.POST("/:id/milestones", requireManager, h.Milestones.Add)

	surveysGroup := r.Group("/surveys")
	{
		surveysGroup.GET("", requireManager, h.Surveys.List)
		surveysGroup.GET("/new", requireAuth, h.Surveys.New)
		surveysGroup.POST("", requireAuth, h.Surveys.Create)
		surveysGroup.GET("/:id/edit", requireManager, h.Surveys.Edit)
		surveysGroup.POST("/:id", requireManager, h.Surveys.Update)
		surveysGroup.POST("/:id/delete", requireManager, h.Surveys.Delete)
	}

	r.NoRoute(h.Home.NotFound)
}
