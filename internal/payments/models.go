package payments

import (
	"time"

	"github.com/google/uuid"
)

// PaymentSettings is the single row of admin-controlled payment options
// the booking form renders against.
type PaymentSettings struct {
	ID            int        `gorm:"primaryKey" json:"-"`
	ManualPayment bool       `gorm:"default:true" json:"manualPayment"`
	BkashPayment  bool       `gorm:"default:false" json:"bkashPayment"`
	BkashNumber   string     `gorm:"size:40" json:"bkashNumber,omitempty"`
	Instructions  string     `gorm:"type:text" json:"instructions,omitempty"`
	UpdatedBy     *uuid.UUID `gorm:"type:uuid" json:"-"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName sets the table name for PaymentSettings
func (PaymentSettings) TableName() string {
	return "payment_settings"
}

// settingsRowID pins the singleton row.
const settingsRowID = 1

// HasEnabledMethod reports whether at least one payment method is open.
func (p *PaymentSettings) HasEnabledMethod() bool {
	return p.ManualPayment || p.BkashPayment
}

// UpdatePaymentSettingsRequest toggles the available payment methods.
type UpdatePaymentSettingsRequest struct {
	ManualPayment *bool   `json:"manualPayment"`
	BkashPayment  *bool   `json:"bkashPayment"`
	BkashNumber   *string `json:"bkashNumber" binding:"omitempty,max=40"`
	Instructions  *string `json:"instructions" binding:"omitempty,max=2000"`
}
