package tours

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tourly/internal/seats"
	"tourly/internal/shared/constants"
	"tourly/pkg/cache"
	"tourly/pkg/logger"
)

type Service interface {
	CreateTour(ctx context.Context, req CreateTourRequest, createdBy uuid.UUID) (*TourResponse, error)
	GetTourByID(ctx context.Context, id string) (*TourResponse, error)
	UpdateTour(ctx context.Context, id string, req UpdateTourRequest, updatedBy uuid.UUID) (*TourResponse, error)
	DeleteTour(ctx context.Context, id string) error
	ListTours(ctx context.Context, query TourListQuery) (*PaginatedTours, error)
	GetActiveTours(ctx context.Context) ([]TourResponse, error)

	// GetTourInfo satisfies the seat service's tour lookup.
	GetTourInfo(ctx context.Context, tourID string) (*seats.TourInfo, error)

	SetCacheService(cacheService cache.Service)
}

type service struct {
	repo         Repository
	cacheService cache.Service
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) CreateTour(ctx context.Context, req CreateTourRequest, createdBy uuid.UUID) (*TourResponse, error) {
	if !req.EndDate.After(req.StartDate) {
		return nil, fmt.Errorf("end date must be after start date")
	}

	busCount := req.BusCount
	if busCount == 0 {
		busCount = 1
	}
	if !req.HasBusSeatSelection {
		busCount = 1
	}

	tour := &Tour{
		Name:                req.Name,
		Description:         req.Description,
		FromCity:            req.FromCity,
		ToCity:              req.ToCity,
		StartDate:           req.StartDate,
		EndDate:             req.EndDate,
		Price:               req.Price,
		Status:              StatusDraft,
		ImageURL:            req.ImageURL,
		HasBusSeatSelection: req.HasBusSeatSelection,
		BusCount:            busCount,
		CreatedBy:           createdBy,
	}

	if err := s.repo.Create(tour); err != nil {
		return nil, fmt.Errorf("failed to create tour: %w", err)
	}

	s.invalidateListCaches(ctx)

	resp := tour.ToResponse()
	return &resp, nil
}

func (s *service) GetTourByID(ctx context.Context, id string) (*TourResponse, error) {
	tourID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid tour ID: %w", err)
	}

	cacheKey := constants.BuildTourDetailKey(id)
	if s.cacheService != nil {
		var cached TourResponse
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	tour, err := s.repo.GetByID(tourID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("tour not found")
		}
		return nil, fmt.Errorf("failed to get tour: %w", err)
	}

	resp := tour.ToResponse()

	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, cacheKey, resp, constants.TTL_TOUR_DETAIL); err != nil {
			logger.GetDefault().Debug("failed to cache tour detail", "key", cacheKey, "error", err)
		}
	}

	return &resp, nil
}

func (s *service) UpdateTour(ctx context.Context, id string, req UpdateTourRequest, updatedBy uuid.UUID) (*TourResponse, error) {
	tourID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid tour ID: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.FromCity != nil {
		updates["from_city"] = *req.FromCity
	}
	if req.ToCity != nil {
		updates["to_city"] = *req.ToCity
	}
	if req.StartDate != nil {
		updates["start_date"] = *req.StartDate
	}
	if req.EndDate != nil {
		updates["end_date"] = *req.EndDate
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.HasBusSeatSelection != nil {
		updates["has_bus_seat_selection"] = *req.HasBusSeatSelection
	}
	if req.BusCount != nil {
		if *req.BusCount < 1 || *req.BusCount > seats.MaxBuses {
			return nil, fmt.Errorf("bus count must be between 1 and %d", seats.MaxBuses)
		}
		updates["bus_count"] = *req.BusCount
	}

	if len(updates) == 0 {
		return s.GetTourByID(ctx, id)
	}
	updates["updated_by"] = updatedBy

	tour, err := s.repo.Update(tourID, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("tour not found")
		}
		return nil, fmt.Errorf("failed to update tour: %w", err)
	}

	s.invalidateTourCaches(ctx, id)

	resp := tour.ToResponse()
	return &resp, nil
}

func (s *service) DeleteTour(ctx context.Context, id string) error {
	tourID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid tour ID: %w", err)
	}

	if _, err := s.repo.GetByID(tourID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("tour not found")
		}
		return fmt.Errorf("failed to get tour: %w", err)
	}

	if err := s.repo.Delete(tourID); err != nil {
		return fmt.Errorf("failed to delete tour: %w", err)
	}

	s.invalidateTourCaches(ctx, id)
	return nil
}

func (s *service) ListTours(ctx context.Context, query TourListQuery) (*PaginatedTours, error) {
	if query.Page == 0 {
		query.Page = 1
	}
	if query.Limit == 0 {
		query.Limit = 10
	}

	// Unfiltered pages are cached; search results always hit the database.
	cacheKey := ""
	if query.Search == "" && query.FromCity == "" && query.ToCity == "" && query.DateFrom == "" && query.DateTo == "" {
		cacheKey = constants.BuildTourListKey(query.Page, query.Limit, query.Status)
		if s.cacheService != nil {
			var cached PaginatedTours
			if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	tours, totalCount, err := s.repo.GetAll(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tours: %w", err)
	}

	responses := make([]TourResponse, len(tours))
	for i, tour := range tours {
		responses[i] = tour.ToResponse()
	}

	result := &PaginatedTours{
		Tours:      responses,
		TotalCount: totalCount,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: int(math.Ceil(float64(totalCount) / float64(query.Limit))),
	}

	if cacheKey != "" && s.cacheService != nil {
		if err := s.cacheService.Set(ctx, cacheKey, result, constants.TTL_TOUR_LIST); err != nil {
			logger.GetDefault().Debug("failed to cache tour list", "key", cacheKey, "error", err)
		}
	}

	return result, nil
}

func (s *service) GetActiveTours(ctx context.Context) ([]TourResponse, error) {
	if s.cacheService != nil {
		var cached []TourResponse
		if err := s.cacheService.Get(ctx, constants.CACHE_KEY_TOURS_ACTIVE, &cached); err == nil {
			return cached, nil
		}
	}

	tours, err := s.repo.GetByStatus(StatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to get active tours: %w", err)
	}

	responses := make([]TourResponse, len(tours))
	for i, tour := range tours {
		responses[i] = tour.ToResponse()
	}

	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, constants.CACHE_KEY_TOURS_ACTIVE, responses, constants.TTL_TOUR_LIST); err != nil {
			logger.GetDefault().Debug("failed to cache active tours", "error", err)
		}
	}

	return responses, nil
}

// GetTourInfo supplies the slice of tour data the seat and booking
// services validate against.
func (s *service) GetTourInfo(ctx context.Context, tourID string) (*seats.TourInfo, error) {
	tour, err := s.GetTourByID(ctx, tourID)
	if err != nil {
		return nil, err
	}

	return &seats.TourInfo{
		ID:               tour.ID,
		Name:             tour.Name,
		Status:           string(tour.Status),
		Price:            tour.Price,
		BusCount:         tour.BusCount,
		HasSeatSelection: tour.HasBusSeatSelection,
	}, nil
}

func (s *service) invalidateTourCaches(ctx context.Context, tourID string) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.Delete(ctx, constants.BuildTourDetailKey(tourID)); err != nil {
		logger.GetDefault().Debug("failed to invalidate tour detail cache", "tour_id", tourID, "error", err)
	}
	s.invalidateListCaches(ctx)
}

func (s *service) invalidateListCaches(ctx context.Context) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.DeletePattern(ctx, constants.CACHE_KEY_TOURS_LIST+"*"); err != nil {
		logger.GetDefault().Debug("failed to invalidate tour list caches", "error", err)
	}
	if err := s.cacheService.Delete(ctx, constants.CACHE_KEY_TOURS_ACTIVE); err != nil {
		logger.GetDefault().Debug("failed to invalidate active tours cache", "error", err)
	}
}
