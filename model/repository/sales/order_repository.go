package sales

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	productEntity "sareeadmin.GO/model/entity/product"
	salesEntity "sareeadmin.GO/model/entity/sales"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrOutOfStock        = errors.New("insufficient stock")
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// FindAll returns orders newest first. An empty status matches all.
func (r *OrderRepository) FindAll(ctx context.Context, status string, limit, offset int) ([]salesEntity.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&salesEntity.Order{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if limit <= 0 {
		limit = 50
	}
	var orders []salesEntity.Order
	err := q.Preload("Customer").Order("id DESC").Limit(limit).Offset(offset).Find(&orders).Error
	return orders, total, err
}

func (r *OrderRepository) FindByID(ctx context.Context, id uint) (*salesEntity.Order, error) {
	var o salesEntity.Order
	err := r.db.WithContext(ctx).Preload("Customer").Preload("Items").First(&o, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create inserts the order with its items.
func (r *OrderRepository) Create(ctx context.Context, o *salesEntity.Order) error {
	return r.db.WithContext(ctx).Omit("Customer").Create(o).Error
}

// WithTx returns a repository bound to tx.
func (r *OrderRepository) WithTx(tx *gorm.DB) *OrderRepository {
	return &OrderRepository{db: tx}
}

func (r *OrderRepository) DB() *gorm.DB {
	return r.db
}

// FindCustomer returns gorm.ErrRecordNotFound for an unknown id.
func (r *OrderRepository) FindCustomer(ctx context.Context, id uint) (*salesEntity.Customer, error) {
	var c salesEntity.Customer
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// FindProducts returns the products with the given ids, keyed by id.
func (r *OrderRepository) FindProducts(ctx context.Context, ids []uint) (map[uint]productEntity.Product, error) {
	var rows []productEntity.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[uint]productEntity.Product, len(rows))
	for _, p := range rows {
		out[p.ID] = p
	}
	return out, nil
}

// FindDiscountCode loads a code by its normalized value, locking the row where the dialect allows.
func (r *OrderRepository) FindDiscountCode(ctx context.Context, code string) (*salesEntity.DiscountCode, error) {
	var d salesEntity.DiscountCode
	db := r.db.WithContext(ctx)
	if err := db.Clauses(lockingClause(db)...).Where("code = ?", code).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *OrderRepository) FindShippingPolicy(ctx context.Context, id uint) (*salesEntity.ShippingPolicy, error) {
	var p salesEntity.ShippingPolicy
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ReserveStock takes qty units off a product, failing with ErrOutOfStock if fewer remain.
func (r *OrderRepository) ReserveStock(ctx context.Context, productID uint, qty int) error {
	res := r.db.WithContext(ctx).Model(&productEntity.Product{}).
		Where("id = ? AND stock >= ?", productID, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: product %d", ErrOutOfStock, productID)
	}
	return nil
}

// UseDiscountCode counts one redemption.
func (r *OrderRepository) UseDiscountCode(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&salesEntity.DiscountCode{}).Where("id = ?", id).
		UpdateColumn("used_count", gorm.Expr("used_count + 1")).Error
}

// UpdateStatus moves an order to status if the transition is allowed. The row is locked for the check.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id uint, status string) (*salesEntity.Order, error) {
	var out salesEntity.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(lockingClause(tx)...).First(&out, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !salesEntity.CanTransition(out.Status, status) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, out.Status, status)
		}
		if err := tx.Model(&out).Update("status", status).Error; err != nil {
			return err
		}
		out.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
