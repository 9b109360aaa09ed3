package product

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"gorm.io/gorm"

	productEntity "sareeadmin.GO/model/entity/product"
)

// ErrNotFound is returned when no product matches.
var ErrNotFound = errors.New("product not found")

type ProductRepository struct {
	db *gorm.DB
}

var instances sync.Map

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// GetProductRepository returns one shared repository per *gorm.DB.
func GetProductRepository(db *gorm.DB) *ProductRepository {
	if v, ok := instances.Load(db); ok {
		return v.(*ProductRepository)
	}
	v, _ := instances.LoadOrStore(db, NewProductRepository(db))
	return v.(*ProductRepository)
}

// ListFilter narrows FindAll. Zero values mean "no filter".
type ListFilter struct {
	Query    string
	FabricID uint
	Limit    int
	Offset   int
}

// FindAll returns one page of products with fabric and print type loaded, plus the total count.
func (r *ProductRepository) FindAll(ctx context.Context, f ListFilter) ([]productEntity.Product, int64, error) {
	q := r.db.WithContext(ctx).Model(&productEntity.Product{})
	if s := strings.TrimSpace(f.Query); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ?", like, like)
	}
	if f.FabricID > 0 {
		q = q.Where("fabric_id = ?", f.FabricID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if f.Limit <= 0 {
		f.Limit = 50
	}
	var products []productEntity.Product
	err := q.Preload("Fabric").Preload("PrintType").
		Order("id DESC").Limit(f.Limit).Offset(f.Offset).
		Find(&products).Error
	return products, total, err
}

func (r *ProductRepository) FindByID(ctx context.Context, id uint) (*productEntity.Product, error) {
	var p productEntity.Product
	err := r.db.WithContext(ctx).Preload("Fabric").Preload("PrintType").First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindSKUs maps existing SKUs to product IDs, querying in chunks of batchSize.
func (r *ProductRepository) FindSKUs(ctx context.Context, skus []string, batchSize int) (map[string]uint, error) {
	type skuRow struct {
		ID  uint   `gorm:"column:id"`
		SKU string `gorm:"column:sku"`
	}
	if batchSize <= 0 {
		batchSize = 500
	}
	m := make(map[string]uint, len(skus))
	for i := 0; i < len(skus); i += batchSize {
		end := min(i+batchSize, len(skus))
		var chunk []skuRow
		err := r.db.WithContext(ctx).Model(&productEntity.Product{}).
			Select("id, sku").Where("sku IN ?", skus[i:end]).Find(&chunk).Error
		if err != nil {
			return nil, fmt.Errorf("lookup skus: %w", err)
		}
		for _, row := range chunk {
			m[row.SKU] = row.ID
		}
	}
	return m, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *productEntity.Product) error {
	return r.db.WithContext(ctx).Omit("Fabric", "PrintType").Create(p).Error
}

// CreateMany inserts all products in one transaction; nothing is written if any insert fails.
func (r *ProductRepository) CreateMany(ctx context.Context, products []productEntity.Product, batchSize int) error {
	if len(products) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit("Fabric", "PrintType").CreateInBatches(&products, batchSize).Error
	})
}

// Update writes every column of p, zero values included.
func (r *ProductRepository) Update(ctx context.Context, p *productEntity.Product) error {
	return r.UpdateColumns(ctx, p, "*")
}

// UpdateColumns writes only the named columns of p, zero values included.
func (r *ProductRepository) UpdateColumns(ctx context.Context, p *productEntity.Product, columns ...string) error {
	if len(columns) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&productEntity.Product{ID: p.ID}).
		Select(columns).Omit("id", "created_at", "Fabric", "PrintType").
		Updates(p)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateImages replaces the ordered image list of one product.
func (r *ProductRepository) UpdateImages(ctx context.Context, id uint, images []string) error {
	res := r.db.WithContext(ctx).Model(&productEntity.Product{ID: id}).
		Update("images", productEntity.ImageList(images))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&productEntity.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ImageLists returns the images column of every product in one projection query.
// No LIMIT is applied.
func (r *ProductRepository) ImageLists(ctx context.Context) ([][]string, error) {
	var lists []productEntity.ImageList
	if err := r.db.WithContext(ctx).Model(&productEntity.Product{}).Pluck("images", &lists).Error; err != nil {
		return nil, err
	}
	out := make([][]string, len(lists))
	for i, l := range lists {
		out[i] = l
	}
	return out, nil
}

// WithTx returns a repository bound to tx.
func (r *ProductRepository) WithTx(tx *gorm.DB) *ProductRepository {
	return &ProductRepository{db: tx}
}

// DB exposes the underlying handle for callers that open their own transaction.
func (r *ProductRepository) DB() *gorm.DB {
	return r.db
}
