package product

import (
	"fmt"
	"strconv"

	productEntity "sareeadmin.GO/model/entity/product"
)

var priceColumns = map[string]string{
	"price":      "price",
	"sale_price": "sale_price",
}

// applyPricing parses price and sale_price. An empty sale_price clears it.
func applyPricing(p *productEntity.Product, row []string, colIndex map[string]int) error {
	if v := cell(row, colIndex, "price"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid price %q", v)
		}
		p.Price = f
	}
	if v := cell(row, colIndex, "sale_price"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid sale_price %q", v)
		}
		p.SalePrice = &f
	}
	return nil
}
