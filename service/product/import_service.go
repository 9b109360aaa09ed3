package product

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"gorm.io/gorm"

	productEntity "sareeadmin.GO/model/entity/product"
)

// ImportOptions configures a product import run.
type ImportOptions struct {
	BatchSize int
	// DryRun parses and validates without writing anything.
	DryRun bool
}

// ImportResult holds counters and timing from an import run.
type ImportResult struct {
	TotalRows         int
	Created           int
	Updated           int
	Skipped           int
	Images            int
	FabricsCreated    int
	PrintTypesCreated int
	Warnings          []string
	ProcessTime       time.Duration
	DBTime            time.Duration
	TotalTime         time.Duration
}

var requiredColumns = []string{"sku", "name"}

var staticColumns = map[string]string{
	"sku":         "sku",
	"name":        "name",
	"description": "description",
}

// knownColumns returns all column names handled by any collector.
func knownColumns() map[string]bool {
	known := make(map[string]bool)
	for _, set := range []map[string]string{staticColumns, priceColumns, stockColumns, lookupColumns} {
		for k := range set {
			known[k] = true
		}
	}
	for _, col := range galleryColumns {
		known[col] = true
	}
	return known
}

// updateColumns maps the CSV header to the product columns an update may touch.
func updateColumns(colIndex map[string]int) []string {
	var cols []string
	seen := map[string]bool{}
	add := func(c string) {
		if !seen[c] {
			seen[c] = true
			cols = append(cols, c)
		}
	}
	for _, set := range []map[string]string{staticColumns, priceColumns, stockColumns, lookupColumns} {
		for csvCol, dbCol := range set {
			if _, ok := colIndex[csvCol]; ok && dbCol != "sku" {
				add(dbCol)
			}
		}
	}
	for _, col := range galleryColumns {
		if _, ok := colIndex[col]; ok {
			add("images")
		}
	}
	if hasAttributeColumns(colIndex) {
		add("attributes")
	}
	add("updated_at")
	return cols
}

func cell(row []string, colIndex map[string]int, col string) string {
	ci, ok := colIndex[col]
	if !ok || ci >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[ci])
}

// ImportProducts reads CSV data from r and upserts products by SKU.
// Rows that fail to parse or validate are skipped with a warning.
func (s *Service) ImportProducts(ctx context.Context, r io.Reader, opts ImportOptions) (*ImportResult, error) {
	startTotal := time.Now()
	if opts.BatchSize <= 0 {
		opts.BatchSize = 500
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	headers, err := reader.Read()
	if err != nil {
		return nil, &ValidationError{Row: -1, Err: fmt.Errorf("read CSV header: %w", err)}
	}
	colIndex := make(map[string]int, len(headers))
	for i, h := range headers {
		h = strings.ToLower(strings.TrimSpace(h))
		headers[i] = h
		colIndex[h] = i
	}
	for _, req := range requiredColumns {
		if _, ok := colIndex[req]; !ok {
			return nil, &ValidationError{Row: -1, Err: fmt.Errorf("CSV must contain a %q column", req)}
		}
	}

	result := &ImportResult{}
	known := knownColumns()
	for _, h := range headers {
		if !known[h] && !isAttributeColumn(h) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("column %q: unknown, skipping", h))
		}
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, &ValidationError{Row: -1, Err: fmt.Errorf("read CSV rows: %w", err)}
	}
	result.TotalRows = len(rows)

	skus := make([]string, 0, len(rows))
	for _, row := range rows {
		if sku := cell(row, colIndex, "sku"); sku != "" {
			skus = append(skus, sku)
		}
	}
	skuToID, err := s.repo.FindSKUs(ctx, skus, opts.BatchSize)
	if err != nil {
		return nil, err
	}

	lookups, err := resolveLookups(ctx, s.repo.DB(), rows, colIndex)
	if err != nil {
		return nil, err
	}

	startProcess := time.Now()
	var creates, updates []productEntity.Product
	var createRows, updateRows [][]string
	seenSKU := make(map[string]int, len(rows))
	for ri, row := range rows {
		line := ri + 2
		sku := cell(row, colIndex, "sku")
		if sku == "" {
			result.Skipped++
			result.Warnings = append(result.Warnings, fmt.Sprintf("line %d: empty sku", line))
			continue
		}
		if prev, dup := seenSKU[sku]; dup {
			result.Skipped++
			result.Warnings = append(result.Warnings, fmt.Sprintf("line %d: sku=%s already on line %d", line, sku, prev))
			continue
		}
		seenSKU[sku] = line

		p := productEntity.Product{
			SKU:         sku,
			Name:        cell(row, colIndex, "name"),
			Description: cell(row, colIndex, "description"),
			IsActive:    true,
		}
		if err := applyPricing(&p, row, colIndex); err != nil {
			result.Skipped++
			result.Warnings = append(result.Warnings, fmt.Sprintf("line %d: sku=%s: %v", line, sku, err))
			continue
		}
		if err := applyStock(&p, row, colIndex); err != nil {
			result.Skipped++
			result.Warnings = append(result.Warnings, fmt.Sprintf("line %d: sku=%s: %v", line, sku, err))
			continue
		}
		p.Images = collectImages(row, colIndex)
		p.Attributes = collectAttributes(row, headers)
		if err := p.Validate(); err != nil {
			result.Skipped++
			result.Warnings = append(result.Warnings, fmt.Sprintf("line %d: sku=%s: %v", line, sku, err))
			continue
		}
		result.Images += len(p.Images)
		if id, ok := skuToID[sku]; ok {
			p.ID = id
			updates = append(updates, p)
			updateRows = append(updateRows, row)
		} else {
			creates = append(creates, p)
			createRows = append(createRows, row)
		}
	}
	result.ProcessTime = time.Since(startProcess)

	if opts.DryRun {
		result.FabricsCreated = len(lookups.missingFabrics)
		result.PrintTypesCreated = len(lookups.missingPrintTypes)
	} else if len(creates)+len(updates) > 0 {
		startDB := time.Now()
		cols := updateColumns(colIndex)
		err := s.repo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			repo := s.repo.WithTx(tx)
			if err := lookups.create(ctx, tx); err != nil {
				return err
			}
			for i := range creates {
				lookups.apply(&creates[i], createRows[i], colIndex)
			}
			for i := range updates {
				lookups.apply(&updates[i], updateRows[i], colIndex)
			}
			if len(creates) > 0 {
				if err := tx.Omit("Fabric", "PrintType").CreateInBatches(&creates, opts.BatchSize).Error; err != nil {
					return fmt.Errorf("insert products: %w", err)
				}
			}
			for i := range updates {
				if err := repo.UpdateColumns(ctx, &updates[i], cols...); err != nil {
					return fmt.Errorf("update sku=%s: %w", updates[i].SKU, err)
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		result.DBTime = time.Since(startDB)
		result.FabricsCreated = len(lookups.missingFabrics)
		result.PrintTypesCreated = len(lookups.missingPrintTypes)
		s.invalidate(ctx)
	}

	result.Created = len(creates)
	result.Updated = len(updates)
	result.TotalTime = time.Since(startTotal)
	return result, nil
}
