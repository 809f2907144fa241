package payments

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	// Get returns the settings row, creating the default one on first use.
	Get(ctx context.Context) (*PaymentSettings, error)
	Update(ctx context.Context, updates map[string]interface{}) (*PaymentSettings, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context) (*PaymentSettings, error) {
	var settings PaymentSettings
	err := r.db.WithContext(ctx).Where("id = ?", settingsRowID).First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			settings = PaymentSettings{ID: settingsRowID, ManualPayment: true}
			if err := r.db.WithContext(ctx).Create(&settings).Error; err != nil {
				return nil, err
			}
			return &settings, nil
		}
		return nil, err
	}
	return &settings, nil
}

func (r *repository) Update(ctx context.Context, updates map[string]interface{}) (*PaymentSettings, error) {
	if _, err := r.Get(ctx); err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Model(&PaymentSettings{}).
		Where("id = ?", settingsRowID).
		Updates(updates).Error; err != nil {
		return nil, err
	}

	var settings PaymentSettings
	if err := r.db.WithContext(ctx).Where("id = ?", settingsRowID).First(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}
