package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/go-ellarises/internal/app/models"
	"github.com/FACorreiaa/go-ellarises/internal/app/observability/metrics"
)

var _ AuthService = (*AuthServiceImpl)(nil)

type AuthService interface {
	// Register creates a regular user and the matching participant, returning the snapshot to log in with.
	Register(ctx context.Context, in RegisterInput) (*models.UserRef, error)
	// Login verifies the credentials. Unknown email and wrong password both return ErrUnauthenticated.
	Login(ctx context.Context, email, password string) (*models.UserRef, error)
}

type RegisterInput struct {
	Email            string
	Password         string
	FirstName        string
	LastName         string
	DOB              *time.Time
	Phone            string
	SchoolOrEmployer string
	FieldOfInterest  string
	Zip              string
}

type AuthServiceImpl struct {
	logger  *zap.Logger
	repo    AuthRepo
	cost    int
	metrics *metrics.AppMetrics

	dummyOnce sync.Once
	dummyHash []byte
}

func NewAuthService(repo AuthRepo, bcryptCost int, m *metrics.AppMetrics, logger *zap.Logger) *AuthServiceImpl {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthServiceImpl{logger: logger, repo: repo, cost: bcryptCost, metrics: m}
}

func (s *AuthServiceImpl) Register(ctx context.Context, in RegisterInput) (*models.UserRef, error) {
	email := models.NormalizeEmail(in.Email)
	l := s.logger.With(zap.String("method", "Register"), zap.String("email", email))
	l.Debug("Attempting registration")

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		s.record("signup", "error")
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.UserAuth{Email: email, PasswordHash: string(hash), Role: models.RoleUser}
	participant := models.Participant{
		Email:            email,
		FirstName:        in.FirstName,
		LastName:         in.LastName,
		DOB:              in.DOB,
		Role:             models.RoleUser,
		Phone:            in.Phone,
		SchoolOrEmployer: in.SchoolOrEmployer,
		FieldOfInterest:  in.FieldOfInterest,
		Zip:              in.Zip,
	}

	id, err := s.repo.CreateUserWithParticipant(ctx, user, participant)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			l.Warn("Email already registered")
			s.record("signup", "conflict")
		} else {
			s.record("signup", "error")
		}
		return nil, err
	}

	user.ID = id
	ref := user.Ref()
	s.record("signup", "success")
	l.Info("Registration successful", zap.Int64("user_id", id))
	return &ref, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*models.UserRef, error) {
	email = models.NormalizeEmail(email)
	l := s.logger.With(zap.String("method", "Login"), zap.String("email", email))

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			s.record("login", "error")
			return nil, err
		}
		// Same bcrypt work as a real comparison so response time does not reveal whether the email exists.
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
		l.Warn("Login failed")
		s.record("login", "failure")
		return nil, fmt.Errorf("invalid credentials: %w", models.ErrUnauthenticated)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		l.Warn("Login failed", zap.Int64("user_id", user.ID))
		s.record("login", "failure")
		return nil, fmt.Errorf("invalid credentials: %w", models.ErrUnauthenticated)
	}

	ref := user.Ref()
	if !ref.Valid() {
		l.Error("Stored user has an unknown role", zap.Int64("user_id", user.ID), zap.String("role", string(user.Role)))
		s.record("login", "failure")
		return nil, fmt.Errorf("user %d has role %q: %w", user.ID, user.Role, models.ErrUnauthenticated)
	}

	s.record("login", "success")
	l.Info("Login successful", zap.Int64("user_id", user.ID))
	return &ref, nil
}

func (s *AuthServiceImpl) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("ella-rises-placeholder"), s.cost)
	})
	return s.dummyHash
}

func (s *AuthServiceImpl) record(action, outcome string) {
	if s.metrics != nil {
		s.metrics.AuthAttemptsTotal.WithLabelValues(action, outcome).Inc()
	}
}
