package admin

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/FACorreiaa/go-ellarises/internal/app/models"
	"github.com/FACorreiaa/go-ellarises/internal/app/observability/metrics"
)

var _ Service = (*ServiceImpl)(nil)

var (
	ErrEmailRequired  = fmt.Errorf("email address required: %w", models.ErrValidation)
	ErrNotManager     = fmt.Errorf("user is not a manager: %w", models.ErrValidation)
	ErrSelfDemotion   = fmt.Errorf("cannot remove own manager access: %w", models.ErrForbidden)
	ErrAlreadyManager = errors.New("user is already a manager")
	ErrNoParticipant  = fmt.Errorf("user has no participant row: %w", models.ErrConflict)
)

type Service interface {
	// Promote makes the user a manager and returns the normalized email.
	Promote(ctx context.Context, email string) (string, error)
	// Demote makes a manager a regular user. Managers cannot demote themselves.
	Demote(ctx context.Context, actor models.UserRef, email string) (string, error)
}

type ServiceImpl struct {
	repo    Repository
	metrics *metrics.AppMetrics
	logger  *zap.Logger
}

func NewService(repo Repository, m *metrics.AppMetrics, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{repo: repo, metrics: m, logger: logger}
}

func (s *ServiceImpl) Promote(ctx context.Context, email string) (string, error) {
	email = models.NormalizeEmail(email)
	if email == "" {
		return "", ErrEmailRequired
	}
	l := s.logger.With(zap.String("method", "Promote"), zap.String("email", email))

	role, err := s.repo.UserRole(ctx, email)
	if err != nil {
		return email, err
	}
	if role == models.RoleManager {
		return email, ErrAlreadyManager
	}

	if err := s.repo.SetRole(ctx, email, models.RoleManager); err != nil {
		l.Error("Failed to promote user", zap.Error(err))
		s.record("promote", "error")
		return email, err
	}

	s.record("promote", "success")
	l.Info("User promoted to manager")
	return email, nil
}

func (s *ServiceImpl) Demote(ctx context.Context, actor models.UserRef, email string) (string, error) {
	email = models.NormalizeEmail(email)
	if email == "" {
		return "", ErrEmailRequired
	}
	l := s.logger.With(zap.String("method", "Demote"), zap.String("email", email))

	role, err := s.repo.UserRole(ctx, email)
	if err != nil {
		return email, err
	}
	if role != models.RoleManager {
		return email, ErrNotManager
	}
	if models.NormalizeEmail(actor.Email) == email {
		return email, ErrSelfDemotion
	}

	if err := s.repo.SetRole(ctx, email, models.RoleUser); err != nil {
		l.Error("Failed to remove manager access", zap.Error(err))
		s.record("demote", "error")
		return email, err
	}

	s.record("demote", "success")
	l.Info("Manager access removed")
	return email, nil
}

func (s *ServiceImpl) record(action, outcome string) {
	if s.metrics != nil {
		s.metrics.RoleChangesTotal.WithLabelValues(action, outcome).Inc()
	}
}
