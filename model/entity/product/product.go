package product

import (
	"errors"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Product represents the products table.
type Product struct {
	ID          uint              `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SKU         string            `gorm:"column:sku;type:varchar(64);uniqueIndex;not null" json:"sku"`
	Name        string            `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Description string            `gorm:"column:description;type:text" json:"description"`
	FabricID    *uint             `gorm:"column:fabric_id;index" json:"fabric_id"`
	Fabric      *Fabric           `gorm:"foreignKey:FabricID" json:"fabric,omitempty"`
	PrintTypeID *uint             `gorm:"column:print_type_id;index" json:"print_type_id"`
	PrintType   *PrintType        `gorm:"foreignKey:PrintTypeID" json:"print_type,omitempty"`
	Price       float64           `gorm:"column:price;type:decimal(12,2);not null;default:0" json:"price"`
	SalePrice   *float64          `gorm:"column:sale_price;type:decimal(12,2)" json:"sale_price"`
	Stock       int               `gorm:"column:stock;not null;default:0" json:"stock"`
	Images      ImageList         `gorm:"column:images" json:"images"`
	Attributes  datatypes.JSONMap `gorm:"column:attributes" json:"attributes,omitempty"`
	IsActive    bool              `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

// Validate checks the fields an admin must fill in.
func (p *Product) Validate() error {
	p.SKU = strings.TrimSpace(p.SKU)
	p.Name = strings.TrimSpace(p.Name)
	switch {
	case p.SKU == "":
		return errors.New("sku is required")
	case p.Name == "":
		return errors.New("name is required")
	case p.Price < 0:
		return errors.New("price must not be negative")
	case p.SalePrice != nil && (*p.SalePrice < 0 || *p.SalePrice > p.Price):
		return errors.New("sale price must be between 0 and price")
	case p.Stock < 0:
		return errors.New("stock must not be negative")
	}
	seen := make(map[string]struct{}, len(p.Images))
	for _, img := range p.Images {
		if strings.TrimSpace(img) == "" {
			return errors.New("image url must not be empty")
		}
		if _, dup := seen[img]; dup {
			return errors.New("duplicate image url: " + img)
		}
		seen[img] = struct{}{}
	}
	return nil
}

// Fabric is a lookup of fabric kinds (silk, cotton, georgette...).
type Fabric struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"column:name;type:varchar(128);uniqueIndex;not null" json:"name"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Fabric) TableName() string {
	return "fabrics"
}

func (f *Fabric) Validate() error {
	f.Name = strings.TrimSpace(f.Name)
	if f.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

// PrintType is a lookup of print techniques (block, digital, bandhani...).
type PrintType struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"column:name;type:varchar(128);uniqueIndex;not null" json:"name"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (PrintType) TableName() string {
	return "print_types"
}

func (p *PrintType) Validate() error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return errors.New("name is required")
	}
	return nil
}
