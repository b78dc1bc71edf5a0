package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/go-ellarises/internal/app/models"
	"github.com/FACorreiaa/go-ellarises/internal/app/observability/metrics"
)

// MockAuthRepo is a mock implementation of the AuthRepo interface
type MockAuthRepo struct {
	mock.Mock
}

func (m *MockAuthRepo) GetUserByEmail(ctx context.Context, email string) (*models.UserAuth, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserAuth), args.Error(1)
}

func (m *MockAuthRepo) CreateUserWithParticipant(ctx context.Context, user *models.UserAuth, p models.Participant) (int64, error) {
	args := m.Called(ctx, user, p)
	return args.Get(0).(int64), args.Error(1)
}

func newTestService(repo AuthRepo) (*AuthServiceImpl, *metrics.AppMetrics) {
	m := metrics.New(prometheus.NewRegistry())
	return NewAuthService(repo, bcrypt.MinCost, m, zap.NewNop()), m
}

func TestLogin(t *testing.T) {
	mockRepo := new(MockAuthRepo)
	service, m := newTestService(mockRepo)
	ctx := context.Background()

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.UserAuth{ID: 7, Email: "test@example.com", PasswordHash: string(hashed), Role: models.RoleManager}

	t.Run("Success", func(t *testing.T) {
		mockRepo.On("GetUserByEmail", ctx, "test@example.com").Return(user, nil).Once()

		ref, err := service.Login(ctx, "  Test@Example.com ", "password123")

		require.NoError(t, err)
		assert.Equal(t, models.UserRef{ID: 7, Email: "test@example.com", Role: models.RoleManager}, *ref)
		mockRepo.AssertExpectations(t)
	})

	t.Run("UserNotFound", func(t *testing.T) {
		mockRepo.On("GetUserByEmail", ctx, "nobody@example.com").Return(nil, models.ErrNotFound).Once()

		ref, err := service.Login(ctx, "nobody@example.com", "password123")

		assert.Nil(t, ref)
		assert.ErrorIs(t, err, models.ErrUnauthenticated)
		mockRepo.AssertExpectations(t)
	})

	t.Run("InvalidPassword", func(t *testing.T) {
		mockRepo.On("GetUserByEmail", ctx, "test@example.com").Return(user, nil).Once()

		ref, err := service.Login(ctx, "test@example.com", "wrongpassword")

		assert.Nil(t, ref)
		assert.ErrorIs(t, err, models.ErrUnauthenticated)
		mockRepo.AssertExpectations(t)
	})

	t.Run("UnknownRole", func(t *testing.T) {
		broken := *user
		broken.Role = "admin"
		mockRepo.On("GetUserByEmail", ctx, "test@example.com").Return(&broken, nil).Once()

		_, err := service.Login(ctx, "test@example.com", "password123")

		assert.ErrorIs(t, err, models.ErrUnauthenticated)
	})

	t.Run("DatabaseError", func(t *testing.T) {
		dbErr := errors.New("connection refused")
		mockRepo.On("GetUserByEmail", ctx, "test@example.com").Return(nil, dbErr).Once()

		_, err := service.Login(ctx, "test@example.com", "password123")

		assert.ErrorIs(t, err, dbErr)
		assert.NotErrorIs(t, err, models.ErrUnauthenticated)
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthAttemptsTotal.WithLabelValues("login", "success")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.AuthAttemptsTotal.WithLabelValues("login", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthAttemptsTotal.WithLabelValues("login", "error")))
}

func TestRegister(t *testing.T) {
	mockRepo := new(MockAuthRepo)
	service, _ := newTestService(mockRepo)
	ctx := context.Background()
	dob := time.Date(2008, 5, 1, 0, 0, 0, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		mockRepo.On("CreateUserWithParticipant", ctx,
			mock.MatchedBy(func(u *models.UserAuth) bool {
				return u.Email == "new@example.com" && u.Role == models.RoleUser &&
					bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("password123")) == nil
			}),
			mock.MatchedBy(func(p models.Participant) bool {
				return p.Email == "new@example.com" && p.FirstName == "Ana" && p.Role == models.RoleUser &&
					p.DOB != nil && p.DOB.Equal(dob)
			}),
		).Return(int64(42), nil).Once()

		ref, err := service.Register(ctx, RegisterInput{
			Email: " New@Example.com", Password: "password123", FirstName: "Ana", DOB: &dob,
		})

		require.NoError(t, err)
		assert.Equal(t, models.UserRef{ID: 42, Email: "new@example.com", Role: models.RoleUser}, *ref)
		mockRepo.AssertExpectations(t)
	})

	t.Run("EmailExists", func(t *testing.T) {
		mockRepo.On("CreateUserWithParticipant", ctx, mock.Anything, mock.Anything).
			Return(int64(0), models.ErrConflict).Once()

		ref, err := service.Register(ctx, RegisterInput{Email: "existing@example.com", Password: "password123"})

		assert.Nil(t, ref)
		assert.ErrorIs(t, err, models.ErrConflict)
		mockRepo.AssertExpectations(t)
	})
}
