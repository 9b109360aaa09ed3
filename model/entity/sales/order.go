package sales

import (
	"time"

	"gorm.io/datatypes"
)

// Order statuses.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusShipped   = "shipped"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

var orderTransitions = map[string][]string{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to string) bool {
	for _, s := range orderTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsValidStatus reports whether s is a known order status.
func IsValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Order represents the orders table.
type Order struct {
	ID              uint              `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OrderNumber     string            `gorm:"column:order_number;type:varchar(32);uniqueIndex;not null" json:"order_number"`
	CustomerID      uint              `gorm:"column:customer_id;index;not null" json:"customer_id"`
	Customer        *Customer         `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Status          string            `gorm:"column:status;type:varchar(16);index;not null;default:pending" json:"status"`
	Subtotal        float64           `gorm:"column:subtotal;type:decimal(12,2);not null;default:0" json:"subtotal"`
	Discount        float64           `gorm:"column:discount;type:decimal(12,2);not null;default:0" json:"discount"`
	ShippingFee     float64           `gorm:"column:shipping_fee;type:decimal(12,2);not null;default:0" json:"shipping_fee"`
	Total           float64           `gorm:"column:total;type:decimal(12,2);not null;default:0" json:"total"`
	DiscountCode    string            `gorm:"column:discount_code;type:varchar(32)" json:"discount_code,omitempty"`
	ShippingAddress datatypes.JSONMap `gorm:"column:shipping_address" json:"shipping_address,omitempty"`
	Items           []OrderItem       `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem represents the order_items table.
type OrderItem struct {
	ID        uint    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OrderID   uint    `gorm:"column:order_id;index;not null" json:"order_id"`
	ProductID uint    `gorm:"column:product_id;index;not null" json:"product_id"`
	Quantity  int     `gorm:"column:quantity;not null" json:"quantity"`
	UnitPrice float64 `gorm:"column:unit_price;type:decimal(12,2);not null" json:"unit_price"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
