package sales

import (
	"errors"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// ShippingPolicy represents the shipping_policies table.
type ShippingPolicy struct {
	ID            uint                        `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name          string                      `gorm:"column:name;type:varchar(128);not null" json:"name"`
	Regions       datatypes.JSONSlice[string] `gorm:"column:regions" json:"regions"`
	Rate          float64                     `gorm:"column:rate;type:decimal(12,2);not null;default:0" json:"rate"`
	FreeAbove     float64                     `gorm:"column:free_above;type:decimal(12,2);not null;default:0" json:"free_above"`
	EstimatedDays int                         `gorm:"column:estimated_days;not null;default:0" json:"estimated_days"`
	IsActive      bool                        `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt     time.Time                   `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time                   `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ShippingPolicy) TableName() string {
	return "shipping_policies"
}

func (s *ShippingPolicy) Validate() error {
	s.Name = strings.TrimSpace(s.Name)
	switch {
	case s.Name == "":
		return errors.New("name is required")
	case s.Rate < 0 || s.FreeAbove < 0:
		return errors.New("rate and free_above must not be negative")
	case s.EstimatedDays < 0:
		return errors.New("estimated_days must not be negative")
	}
	return nil
}

// FeeFor returns the shipping fee for an order subtotal. FreeAbove 0 disables free shipping.
func (s *ShippingPolicy) FeeFor(subtotal float64) float64 {
	if s.FreeAbove > 0 && subtotal >= s.FreeAbove {
		return 0
	}
	return s.Rate
}

// CoversRegion reports whether the policy ships to region. An empty region list covers everywhere.
func (s *ShippingPolicy) CoversRegion(region string) bool {
	if len(s.Regions) == 0 {
		return true
	}
	for _, r := range s.Regions {
		if strings.EqualFold(r, region) {
			return true
		}
	}
	return false
}
