package analytics

import (
	"context"
	"fmt"

	"tourly/internal/shared/constants"
	"tourly/pkg/cache"
	"tourly/pkg/logger"
)

// Service defines the analytics service interface
type Service interface {
	GetOverview() (*OverviewAnalytics, error)
	GetTourOccupancy() ([]TourOccupancy, error)
	GetDailyBookingStats(days int) ([]DailyBookingStats, error)
	SetCacheService(cacheService cache.Service)
}

type service struct {
	repo         Repository
	cacheService cache.Service
}

// NewService creates a new analytics service instance
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// SetCacheService injects the cache service dependency
func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) GetOverview() (*OverviewAnalytics, error) {
	ctx := context.Background()
	cacheKey := constants.CACHE_KEY_ANALYTICS_OVERVIEW

	if s.cacheService != nil {
		var cached OverviewAnalytics
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	overview, err := s.repo.GetOverview()
	if err != nil {
		return nil, fmt.Errorf("failed to get overview analytics: %w", err)
	}

	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, cacheKey, overview, constants.TTL_ANALYTICS_OVERVIEW); err != nil {
			logger.GetDefault().WarnWithContext(ctx, "failed to cache overview analytics", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return overview, nil
}

func (s *service) GetTourOccupancy() ([]TourOccupancy, error) {
	ctx := context.Background()
	cacheKey := constants.CACHE_KEY_ANALYTICS_OCCUPANCY

	if s.cacheService != nil {
		var cached []TourOccupancy
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	occupancy, err := s.repo.GetTourOccupancy()
	if err != nil {
		return nil, fmt.Errorf("failed to get tour occupancy: %w", err)
	}

	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, cacheKey, occupancy, constants.TTL_ANALYTICS_OVERVIEW); err != nil {
			logger.GetDefault().WarnWithContext(ctx, "failed to cache tour occupancy", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return occupancy, nil
}

func (s *service) GetDailyBookingStats(days int) ([]DailyBookingStats, error) {
	// Daily stats vary by the requested window, so only the default
	// window is cached.
	if days <= 0 {
		days = 30
	}

	ctx := context.Background()
	cacheable := days == 30
	cacheKey := constants.CACHE_KEY_ANALYTICS_DAILY

	if cacheable && s.cacheService != nil {
		var cached []DailyBookingStats
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	stats, err := s.repo.GetDailyBookingStats(days)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily booking stats: %w", err)
	}

	if cacheable && s.cacheService != nil {
		if err := s.cacheService.Set(ctx, cacheKey, stats, constants.TTL_ANALYTICS_OVERVIEW); err != nil {
			logger.GetDefault().WarnWithContext(ctx, "failed to cache daily booking stats", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return stats, nil
}
