package statistics

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/go-ellarises/internal/app/models"
)

var _ Service = (*ServiceImpl)(nil)

const landingKey = "landing"

type Service interface {
	GetLandingPageStatistics(ctx context.Context) (models.LandingStats, error)
}

type ServiceImpl struct {
	repo   Repository
	cache  *cache.Cache
	logger *zap.Logger
}

// NewService caches the landing figures for ttl. A non-positive ttl disables caching.
func NewService(repo Repository, ttl time.Duration, logger *zap.Logger) *ServiceImpl {
	s := &ServiceImpl{
		repo:   repo,
		logger: logger,
	}
	if ttl > 0 {
		s.cache = cache.New(ttl, 2*ttl)
	}
	return s
}

// GetLandingPageStatistics runs the participant, event and donation queries concurrently.
func (s *ServiceImpl) GetLandingPageStatistics(ctx context.Context) (models.LandingStats, error) {
	l := s.logger.With(zap.String("method", "GetLandingPageStatistics"))

	if s.cache != nil {
		if v, ok := s.cache.Get(landingKey); ok {
			return v.(models.LandingStats), nil
		}
	}

	var stats models.LandingStats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.repo.CountParticipants(gctx)
		stats.Participants = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.CountEvents(gctx)
		stats.Events = n
		return err
	})
	g.Go(func() error {
		n, total, err := s.repo.DonationTotals(gctx)
		stats.Donations, stats.DonationTotal = n, total
		return err
	})
	if err := g.Wait(); err != nil {
		l.Error("Failed to get landing page statistics", zap.Error(err))
		return models.LandingStats{}, err
	}

	if s.cache != nil {
		s.cache.SetDefault(landingKey, stats)
	}
	l.Debug("Landing page statistics refreshed")
	return stats, nil
}
