// Package migrations holds the Postgres schema and applies it with golang-migrate.
// Other drivers (sqlite, mysql) are created from the entities with GORM's AutoMigrate.
package migrations

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"

	productEntity "sareeadmin.GO/model/entity/product"
	salesEntity "sareeadmin.GO/model/entity/sales"
)

//go:embed *.sql
var FS embed.FS

// Models lists every table the admin owns, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&productEntity.Fabric{},
		&productEntity.PrintType{},
		&productEntity.Product{},
		&salesEntity.Customer{},
		&salesEntity.Order{},
		&salesEntity.OrderItem{},
		&salesEntity.DiscountCode{},
		&salesEntity.ShippingPolicy{},
	}
}

// AutoMigrate creates or alters tables from the entity definitions.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

func newMigrate(db *gorm.DB) (*migrate.Migrate, error) {
	if name := db.Dialector.Name(); name != "postgres" {
		return nil, fmt.Errorf("versioned migrations need postgres, have %s", name)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	src, err := iofs.New(FS, ".")
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}
	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("postgres migrate driver: %w", err)
	}
	return migrate.NewWithInstance("iofs", src, "postgres", driver)
}

// Up applies all pending migrations. It returns the resulting version.
func Up(db *gorm.DB) (uint, error) {
	m, err := newMigrate(db)
	if err != nil {
		return 0, err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, err
	}
	return version(m)
}

// Down rolls back steps migrations.
func Down(db *gorm.DB, steps int) (uint, error) {
	m, err := newMigrate(db)
	if err != nil {
		return 0, err
	}
	if steps <= 0 {
		steps = 1
	}
	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, err
	}
	return version(m)
}

func version(m *migrate.Migrate) (uint, error) {
	v, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if dirty {
		return v, fmt.Errorf("schema version %d is dirty", v)
	}
	return v, nil
}
