package sales

import (
	"errors"
	"math"
	"strings"
	"time"
)

// DiscountCode represents the discount_codes table. Exactly one of Percent and Amount is set.
type DiscountCode struct {
	ID         uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Code       string     `gorm:"column:code;type:varchar(32);uniqueIndex;not null" json:"code"`
	Percent    float64    `gorm:"column:percent;type:decimal(5,2);not null;default:0" json:"percent"`
	Amount     float64    `gorm:"column:amount;type:decimal(12,2);not null;default:0" json:"amount"`
	MinOrder   float64    `gorm:"column:min_order;type:decimal(12,2);not null;default:0" json:"min_order"`
	ValidFrom  *time.Time `gorm:"column:valid_from" json:"valid_from"`
	ValidUntil *time.Time `gorm:"column:valid_until" json:"valid_until"`
	UsageLimit int        `gorm:"column:usage_limit;not null;default:0" json:"usage_limit"`
	UsedCount  int        `gorm:"column:used_count;not null;default:0" json:"used_count"`
	IsActive   bool       `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (DiscountCode) TableName() string {
	return "discount_codes"
}

func (d *DiscountCode) Validate() error {
	d.Code = strings.ToUpper(strings.TrimSpace(d.Code))
	switch {
	case d.Code == "":
		return errors.New("code is required")
	case d.Percent < 0 || d.Percent > 100:
		return errors.New("percent must be between 0 and 100")
	case d.Amount < 0:
		return errors.New("amount must not be negative")
	case (d.Percent > 0) == (d.Amount > 0):
		return errors.New("exactly one of percent or amount must be set")
	case d.ValidFrom != nil && d.ValidUntil != nil && !d.ValidUntil.After(*d.ValidFrom):
		return errors.New("valid_until must be after valid_from")
	case d.UsageLimit < 0:
		return errors.New("usage_limit must not be negative")
	}
	return nil
}

// AppliesTo returns the discount granted on subtotal at time now, 0 when the code does not apply.
func (d *DiscountCode) AppliesTo(subtotal float64, now time.Time) float64 {
	if !d.IsActive || subtotal < d.MinOrder {
		return 0
	}
	if d.ValidFrom != nil && now.Before(*d.ValidFrom) {
		return 0
	}
	if d.ValidUntil != nil && !now.Before(*d.ValidUntil) {
		return 0
	}
	if d.UsageLimit > 0 && d.UsedCount >= d.UsageLimit {
		return 0
	}
	discount := d.Amount
	if d.Percent > 0 {
		discount = math.Round(subtotal*d.Percent) / 100
	}
	return math.Min(discount, subtotal)
}
