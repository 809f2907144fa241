package payments

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"tourly/internal/shared/constants"
	"tourly/pkg/cache"
	"tourly/pkg/logger"
)

type Service interface {
	GetSettings(ctx context.Context) (*PaymentSettings, error)
	UpdateSettings(ctx context.Context, req UpdatePaymentSettingsRequest, updatedBy uuid.UUID) (*PaymentSettings, error)

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

func (s *service) GetSettings(ctx context.Context) (*PaymentSettings, error) {
	if s.cacheService != nil {
		var cached PaymentSettings
		if err := s.cacheService.Get(ctx, constants.CACHE_KEY_PAYMENT_SETTINGS, &cached); err == nil {
			return &cached, nil
		}
	}

	settings, err := s.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment settings: %w", err)
	}

	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, constants.CACHE_KEY_PAYMENT_SETTINGS, settings, constants.TTL_PAYMENT_SETTINGS); err != nil {
			logger.GetDefault().Debug("failed to cache payment settings", "error", err)
		}
	}

	return settings, nil
}

func (s *service) UpdateSettings(ctx context.Context, req UpdatePaymentSettingsRequest, updatedBy uuid.UUID) (*PaymentSettings, error) {
	updates := make(map[string]interface{})
	if req.ManualPayment != nil {
		updates["manual_payment"] = *req.ManualPayment
	}
	if req.BkashPayment != nil {
		updates["bkash_payment"] = *req.BkashPayment
	}
	if req.BkashNumber != nil {
		updates["bkash_number"] = *req.BkashNumber
	}
	if req.Instructions != nil {
		updates["instructions"] = *req.Instructions
	}

	if len(updates) == 0 {
		return s.repo.Get(ctx)
	}
	updates["updated_by"] = updatedBy

	settings, err := s.repo.Update(ctx, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to update payment settings: %w", err)
	}

	if !settings.HasEnabledMethod() {
		logger.GetDefault().Warn("all payment methods disabled; booking form will reject submissions")
	}

	if s.cacheService != nil {
		if err := s.cacheService.Delete(ctx, constants.CACHE_KEY_PAYMENT_SETTINGS); err != nil {
			logger.GetDefault().Debug("failed to invalidate payment settings cache", "error", err)
		}
	}

	return settings, nil
}
