package product

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	productEntity "sareeadmin.GO/model/entity/product"
)

var lookupColumns = map[string]string{
	"fabric":     "fabric_id",
	"print_type": "print_type_id",
}

// lookups maps lower-cased fabric and print type names to IDs. Names not yet
// in the database wait in missing* until create runs inside the import transaction.
type lookups struct {
	fabrics           map[string]uint
	printTypes        map[string]uint
	missingFabrics    map[string]string
	missingPrintTypes map[string]string
}

func (l *lookups) apply(p *productEntity.Product, row []string, colIndex map[string]int) {
	if id, ok := l.fabrics[strings.ToLower(cell(row, colIndex, "fabric"))]; ok && id > 0 {
		p.FabricID = &id
	}
	if id, ok := l.printTypes[strings.ToLower(cell(row, colIndex, "print_type"))]; ok && id > 0 {
		p.PrintTypeID = &id
	}
}

// create inserts the missing lookup rows on tx, one at a time, and records their IDs.
func (l *lookups) create(ctx context.Context, tx *gorm.DB) error {
	if err := createNames(ctx, tx, l.missingFabrics, l.fabrics,
		func(name string) *productEntity.Fabric { return &productEntity.Fabric{Name: name} },
		func(f *productEntity.Fabric) uint { return f.ID }); err != nil {
		return fmt.Errorf("create fabrics: %w", err)
	}
	if err := createNames(ctx, tx, l.missingPrintTypes, l.printTypes,
		func(name string) *productEntity.PrintType { return &productEntity.PrintType{Name: name} },
		func(pt *productEntity.PrintType) uint { return pt.ID }); err != nil {
		return fmt.Errorf("create print types: %w", err)
	}
	return nil
}

// distinctNames returns each non-empty value of col once, keyed by lower case, keeping the first spelling.
func distinctNames(rows [][]string, colIndex map[string]int, col string) map[string]string {
	out := make(map[string]string)
	if _, ok := colIndex[col]; !ok {
		return out
	}
	for _, row := range rows {
		v := cell(row, colIndex, col)
		if v == "" {
			continue
		}
		if _, ok := out[strings.ToLower(v)]; !ok {
			out[strings.ToLower(v)] = v
		}
	}
	return out
}

// resolveLookups loads the fabrics and print types named in the CSV, in parallel. It never writes.
func resolveLookups(ctx context.Context, db *gorm.DB, rows [][]string, colIndex map[string]int) (*lookups, error) {
	l := &lookups{}
	fabricNames := distinctNames(rows, colIndex, "fabric")
	printNames := distinctNames(rows, colIndex, "print_type")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		l.fabrics, l.missingFabrics, err = findNames[productEntity.Fabric](gctx, db, fabricNames)
		if err != nil {
			return fmt.Errorf("resolve fabrics: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		l.printTypes, l.missingPrintTypes, err = findNames[productEntity.PrintType](gctx, db, printNames)
		if err != nil {
			return fmt.Errorf("resolve print types: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return l, nil
}

type namedRow struct {
	ID   uint   `gorm:"column:id"`
	Name string `gorm:"column:name"`
}

// findNames loads the rows of T's table whose lower-cased name is wanted and returns the rest as missing.
func findNames[T any](ctx context.Context, db *gorm.DB, wanted map[string]string) (map[string]uint, map[string]string, error) {
	ids := make(map[string]uint, len(wanted))
	missing := make(map[string]string)
	if len(wanted) == 0 {
		return ids, missing, nil
	}
	keys := make([]string, 0, len(wanted))
	for k := range wanted {
		keys = append(keys, k)
	}
	var existing []namedRow
	if err := db.WithContext(ctx).Model(new(T)).Select("id, name").Where("LOWER(name) IN ?", keys).Find(&existing).Error; err != nil {
		return nil, nil, err
	}
	for _, r := range existing {
		ids[strings.ToLower(r.Name)] = r.ID
	}
	for key, name := range wanted {
		if _, ok := ids[key]; !ok {
			missing[key] = name
		}
	}
	return ids, missing, nil
}

func createNames[T any](ctx context.Context, tx *gorm.DB, missing map[string]string, ids map[string]uint, newRow func(string) *T, idOf func(*T) uint) error {
	for key, name := range missing {
		row := newRow(name)
		if err := tx.WithContext(ctx).Create(row).Error; err != nil {
			return err
		}
		ids[key] = idOf(row)
	}
	return nil
}
