package product

import (
	"fmt"
	"strconv"
	"strings"

	productEntity "sareeadmin.GO/model/entity/product"
)

var stockColumns = map[string]string{
	"stock":     "stock",
	"is_active": "is_active",
}

func applyStock(p *productEntity.Product, row []string, colIndex map[string]int) error {
	if v := cell(row, colIndex, "stock"); v != "" {
		// Spreadsheets export whole numbers as "12.0".
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f != float64(int(f)) {
			return fmt.Errorf("invalid stock %q", v)
		}
		p.Stock = int(f)
	}
	if v := cell(row, colIndex, "is_active"); v != "" {
		switch strings.ToLower(v) {
		case "1", "true", "yes", "y":
			p.IsActive = true
		case "0", "false", "no", "n":
			p.IsActive = false
		default:
			return fmt.Errorf("invalid is_active %q", v)
		}
	}
	return nil
}
