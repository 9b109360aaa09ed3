package sales

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"sareeadmin.GO/core/log"
	salesEntity "sareeadmin.GO/model/entity/sales"
	salesRepo "sareeadmin.GO/model/repository/sales"
)

var (
	ErrEmptyOrder            = errors.New("order has no items")
	ErrInvalidLine           = errors.New("order line needs a product and a positive quantity")
	ErrUnknownReference      = errors.New("unknown reference")
	ErrDiscountNotApplicable = errors.New("discount code does not apply")
	ErrShippingUnavailable   = errors.New("shipping policy does not cover region")
)

// OrderLine is one product and quantity of an order request.
type OrderLine struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// OrderInput is a manual order entered from the back office.
type OrderInput struct {
	CustomerID       uint                   `json:"customer_id"`
	Items            []OrderLine            `json:"items"`
	DiscountCode     string                 `json:"discount_code"`
	ShippingPolicyID uint                   `json:"shipping_policy_id"`
	Region           string                 `json:"region"`
	ShippingAddress  map[string]interface{} `json:"shipping_address"`
}

type Service struct {
	repo *salesRepo.OrderRepository
	now  func() time.Time
}

func NewService(repo *salesRepo.OrderRepository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Quote prices an order without writing anything.
func (s *Service) Quote(ctx context.Context, in OrderInput) (*salesEntity.Order, error) {
	o, _, err := s.price(ctx, s.repo, in)
	return o, err
}

// Place prices the order, reserves stock, redeems the discount code and stores the order,
// all in one transaction.
func (s *Service) Place(ctx context.Context, in OrderInput) (*salesEntity.Order, error) {
	var out *salesEntity.Order
	err := s.repo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		o, code, err := s.price(ctx, repo, in)
		if err != nil {
			return err
		}
		for _, it := range o.Items {
			if err := repo.ReserveStock(ctx, it.ProductID, it.Quantity); err != nil {
				return err
			}
		}
		if code != nil {
			if err := repo.UseDiscountCode(ctx, code.ID); err != nil {
				return fmt.Errorf("redeem %s: %w", code.Code, err)
			}
		}
		o.OrderNumber = newOrderNumber()
		o.Status = salesEntity.StatusPending
		if err := repo.Create(ctx, o); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("order", out.OrderNumber).Float64("total", out.Total).Msg("sales: order placed")
	return out, nil
}

func (s *Service) price(ctx context.Context, repo *salesRepo.OrderRepository, in OrderInput) (*salesEntity.Order, *salesEntity.DiscountCode, error) {
	lines, err := mergeLines(in.Items)
	if err != nil {
		return nil, nil, err
	}
	if _, err := repo.FindCustomer(ctx, in.CustomerID); err != nil {
		return nil, nil, lookupErr(err, "customer %d", in.CustomerID)
	}

	ids := make([]uint, len(lines))
	for i, l := range lines {
		ids[i] = l.ProductID
	}
	products, err := repo.FindProducts(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	o := &salesEntity.Order{CustomerID: in.CustomerID}
	for _, l := range lines {
		p, ok := products[l.ProductID]
		if !ok || !p.IsActive {
			return nil, nil, fmt.Errorf("%w: product %d", ErrUnknownReference, l.ProductID)
		}
		unit := p.Price
		if p.SalePrice != nil {
			unit = *p.SalePrice
		}
		o.Items = append(o.Items, salesEntity.OrderItem{ProductID: p.ID, Quantity: l.Quantity, UnitPrice: unit})
		o.Subtotal += unit * float64(l.Quantity)
	}
	o.Subtotal = round2(o.Subtotal)

	var code *salesEntity.DiscountCode
	if c := strings.ToUpper(strings.TrimSpace(in.DiscountCode)); c != "" {
		code, err = repo.FindDiscountCode(ctx, c)
		if err != nil {
			return nil, nil, lookupErr(err, "discount code %s", c)
		}
		o.Discount = code.AppliesTo(o.Subtotal, s.now())
		if o.Discount == 0 {
			return nil, nil, fmt.Errorf("%w: %s", ErrDiscountNotApplicable, c)
		}
		o.DiscountCode = code.Code
	}

	if in.ShippingPolicyID != 0 {
		policy, err := repo.FindShippingPolicy(ctx, in.ShippingPolicyID)
		if err != nil {
			return nil, nil, lookupErr(err, "shipping policy %d", in.ShippingPolicyID)
		}
		if !policy.IsActive || !policy.CoversRegion(in.Region) {
			return nil, nil, fmt.Errorf("%w: %s to %q", ErrShippingUnavailable, policy.Name, in.Region)
		}
		o.ShippingFee = policy.FeeFor(o.Subtotal)
	}
	if len(in.ShippingAddress) > 0 {
		o.ShippingAddress = datatypes.JSONMap(in.ShippingAddress)
	}
	o.Total = round2(o.Subtotal - o.Discount + o.ShippingFee)
	return o, code, nil
}

// mergeLines sums quantities per product, sorted by product id.
func mergeLines(items []OrderLine) ([]OrderLine, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}
	qty := make(map[uint]int, len(items))
	for _, it := range items {
		if it.ProductID == 0 || it.Quantity <= 0 {
			return nil, fmt.Errorf("%w: product %d quantity %d", ErrInvalidLine, it.ProductID, it.Quantity)
		}
		qty[it.ProductID] += it.Quantity
	}
	out := make([]OrderLine, 0, len(qty))
	for id, q := range qty {
		out = append(out, OrderLine{ProductID: id, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

func lookupErr(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: "+format, append([]interface{}{ErrUnknownReference}, args...)...)
	}
	return err
}

func newOrderNumber() string {
	return "SR-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
