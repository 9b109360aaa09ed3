package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"

	"sareeadmin.GO/core/log"
	productEntity "sareeadmin.GO/model/entity/product"
	productRepo "sareeadmin.GO/model/repository/product"
)

// ErrImageAssignedTwice is returned when one image URL is given to two products of a batch.
var ErrImageAssignedTwice = errors.New("image assigned to more than one product")

// ValidationError reports bad input. Row is the 0-based batch row, or -1 for single writes.
type ValidationError struct {
	Row int
	Err error
}

func (e *ValidationError) Error() string {
	if e.Row < 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Invalidator is told whenever product image lists may have changed.
type Invalidator interface {
	InvalidateCache(ctx context.Context)
}

// ProductInput is the writable part of a product.
type ProductInput struct {
	SKU         string                 `json:"sku"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	FabricID    *uint                  `json:"fabric_id"`
	PrintTypeID *uint                  `json:"print_type_id"`
	Price       float64                `json:"price"`
	SalePrice   *float64               `json:"sale_price"`
	Stock       int                    `json:"stock"`
	Images      []string               `json:"images"`
	Attributes  map[string]interface{} `json:"attributes"`
	IsActive    *bool                  `json:"is_active"`
}

func (in ProductInput) ToEntity() productEntity.Product {
	p := productEntity.Product{
		SKU:         in.SKU,
		Name:        in.Name,
		Description: strings.TrimSpace(in.Description),
		FabricID:    in.FabricID,
		PrintTypeID: in.PrintTypeID,
		Price:       in.Price,
		SalePrice:   in.SalePrice,
		Stock:       in.Stock,
		Images:      productEntity.ImageList(append([]string(nil), in.Images...)),
		IsActive:    true,
	}
	if in.Attributes != nil {
		p.Attributes = datatypes.JSONMap(in.Attributes)
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	return p
}

type Service struct {
	repo        *productRepo.ProductRepository
	invalidator Invalidator
}

func NewService(repo *productRepo.ProductRepository, invalidator Invalidator) *Service {
	return &Service{repo: repo, invalidator: invalidator}
}

func (s *Service) invalidate(ctx context.Context) {
	if s.invalidator != nil {
		s.invalidator.InvalidateCache(ctx)
	}
}

func (s *Service) List(ctx context.Context, f productRepo.ListFilter) ([]productEntity.Product, int64, error) {
	return s.repo.FindAll(ctx, f)
}

func (s *Service) Get(ctx context.Context, id uint) (*productEntity.Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, in ProductInput) (*productEntity.Product, error) {
	p := in.ToEntity()
	if err := p.Validate(); err != nil {
		return nil, &ValidationError{Row: -1, Err: err}
	}
	if err := s.repo.Create(ctx, &p); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return &p, nil
}

// Update replaces every writable field of the product.
func (s *Service) Update(ctx context.Context, id uint, in ProductInput) (*productEntity.Product, error) {
	p := in.ToEntity()
	p.ID = id
	if err := p.Validate(); err != nil {
		return nil, &ValidationError{Row: -1, Err: err}
	}
	if err := s.repo.Update(ctx, &p); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return s.repo.FindByID(ctx, id)
}

// UpdateImages persists an ordered image list; index 0 becomes the main image.
func (s *Service) UpdateImages(ctx context.Context, id uint, images []string) (*productEntity.Product, error) {
	seen := make(map[string]struct{}, len(images))
	for _, u := range images {
		if strings.TrimSpace(u) == "" {
			return nil, &ValidationError{Row: -1, Err: errors.New("image url must not be empty")}
		}
		if _, dup := seen[u]; dup {
			return nil, &ValidationError{Row: -1, Err: fmt.Errorf("duplicate image url: %s", u)}
		}
		seen[u] = struct{}{}
	}
	if err := s.repo.UpdateImages(ctx, id, images); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return s.repo.FindByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// BulkCreate validates every row, refuses a batch in which one image URL goes to two rows,
// and inserts all rows in one transaction.
func (s *Service) BulkCreate(ctx context.Context, inputs []ProductInput) ([]productEntity.Product, error) {
	if len(inputs) == 0 {
		return nil, &ValidationError{Row: -1, Err: errors.New("no products given")}
	}
	products := make([]productEntity.Product, 0, len(inputs))
	imageRow := make(map[string]int)
	skuRow := make(map[string]int, len(inputs))
	for i, in := range inputs {
		p := in.ToEntity()
		if err := p.Validate(); err != nil {
			return nil, &ValidationError{Row: i, Err: err}
		}
		if prev, ok := skuRow[p.SKU]; ok {
			return nil, &ValidationError{Row: i, Err: fmt.Errorf("sku %s repeats row %d", p.SKU, prev)}
		}
		skuRow[p.SKU] = i
		for _, u := range p.Images {
			if prev, ok := imageRow[u]; ok {
				return nil, &ValidationError{Row: i, Err: fmt.Errorf("%w: %s is also on row %d", ErrImageAssignedTwice, u, prev)}
			}
			imageRow[u] = i
		}
		products = append(products, p)
	}
	if err := s.repo.CreateMany(ctx, products, 100); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	log.Info().Int("count", len(products)).Msg("products: bulk created")
	return products, nil
}
