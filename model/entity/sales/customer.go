package sales

import (
	"errors"
	"strings"
	"time"
)

// Customer represents the customers table.
type Customer struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Email     string    `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone     string    `gorm:"column:phone;type:varchar(32)" json:"phone"`
	Address   string    `gorm:"column:address;type:text" json:"address"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Customer) TableName() string {
	return "customers"
}

func (c *Customer) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	if c.Name == "" {
		return errors.New("name is required")
	}
	if at := strings.IndexByte(c.Email, '@'); at <= 0 || at == len(c.Email)-1 {
		return errors.New("a valid email is required")
	}
	return nil
}
