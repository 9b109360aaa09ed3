package product

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gorm.io/gorm"

	productEntity "sareeadmin.GO/model/entity/product"
	productRepo "sareeadmin.GO/model/repository/product"
)

const importCSV = `sku,name,description,fabric,print_type,price,sale_price,stock,images,attr_border
SAR-1,Kanjivaram,Temple border,Silk,Zari,12000,11000,3,https://cdn/a.jpg|https://cdn/b.jpg|https://cdn/a.jpg,gold
SAR-2,Chanderi,,silk,Block,4500,,10.0,,
SAR-3,Bad price,,Cotton,,abc,,1,,
,No sku,,,,,,,,
SAR-1,Duplicate,,,,1,,1,,
`

func TestImportProducts(t *testing.T) {
	svc, inv, db := newTestService(t)
	ctx := context.Background()

	res, err := svc.ImportProducts(ctx, strings.NewReader(importCSV), ImportOptions{BatchSize: 2})
	if err != nil {
		t.Fatalf("ImportProducts: %v", err)
	}
	if res.TotalRows != 5 || res.Created != 2 || res.Skipped != 3 || res.Updated != 0 {
		t.Errorf("result = %+v", res)
	}
	if res.FabricsCreated != 2 || res.PrintTypesCreated != 2 {
		t.Errorf("lookups created fabrics=%d print types=%d, want 2/2", res.FabricsCreated, res.PrintTypesCreated)
	}
	if len(res.Warnings) != 3 {
		t.Errorf("warnings = %v", res.Warnings)
	}
	if inv.n != 1 {
		t.Errorf("invalidations = %d, want 1", inv.n)
	}

	var fabrics int64
	db.Model(&productEntity.Fabric{}).Count(&fabrics)
	if fabrics != 2 {
		t.Errorf("fabrics = %d, want 2 (Silk and Cotton)", fabrics)
	}

	repo := productRepo.NewProductRepository(db)
	ids, _ := repo.FindSKUs(ctx, []string{"SAR-1", "SAR-2"}, 10)
	p, err := repo.FindByID(ctx, ids["SAR-1"])
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if len(p.Images) != 2 || p.Images.Main() != "https://cdn/a.jpg" {
		t.Errorf("images = %v", p.Images)
	}
	if p.SalePrice == nil || *p.SalePrice != 11000 || p.Stock != 3 {
		t.Errorf("pricing/stock = %v/%d", p.SalePrice, p.Stock)
	}
	if p.Attributes["border"] != "gold" {
		t.Errorf("attributes = %v", p.Attributes)
	}
	if p.Fabric == nil || p.Fabric.Name != "Silk" {
		t.Errorf("fabric = %+v", p.Fabric)
	}
	p2, _ := repo.FindByID(ctx, ids["SAR-2"])
	if p2.FabricID == nil || *p2.FabricID != *p.FabricID || p2.Stock != 10 {
		t.Errorf("SAR-2 = %+v", p2)
	}
}

func TestImportProducts_UpdatesOnlyPresentColumns(t *testing.T) {
	svc, _, db := newTestService(t)
	ctx := context.Background()
	orig, err := svc.Create(ctx, ProductInput{SKU: "U-1", Name: "Old", Description: "keep me", Price: 100, Images: []string{"x"}})
	if err != nil {
		t.Fatal(err)
	}

	csv := "sku,name,stock\nU-1,New,7\n"
	res, err := svc.ImportProducts(ctx, strings.NewReader(csv), ImportOptions{})
	if err != nil {
		t.Fatalf("ImportProducts: %v", err)
	}
	if res.Updated != 1 || res.Created != 0 {
		t.Errorf("result = %+v", res)
	}
	got, _ := productRepo.NewProductRepository(db).FindByID(ctx, orig.ID)
	if got.Name != "New" || got.Stock != 7 || got.Description != "keep me" || got.Price != 100 || len(got.Images) != 1 {
		t.Errorf("after update = %+v", got)
	}
}

func TestImportProducts_DryRunWritesNothing(t *testing.T) {
	svc, inv, db := newTestService(t)
	res, err := svc.ImportProducts(context.Background(), strings.NewReader(importCSV), ImportOptions{DryRun: true})
	if err != nil {
		t.Fatalf("ImportProducts: %v", err)
	}
	if res.Created != 2 || inv.n != 0 {
		t.Errorf("created = %d invalidations = %d", res.Created, inv.n)
	}
	var n int64
	db.Model(&productEntity.Product{}).Count(&n)
	if n != 0 {
		t.Errorf("products = %d, want 0", n)
	}
}

func TestImportProducts_FailedInsertRollsBackLookups(t *testing.T) {
	svc, inv, db := newTestService(t)
	errInsert := errors.New("insert rejected")
	if err := db.Callback().Create().Before("gorm:create").Register("test:fail_products", func(tx *gorm.DB) {
		if tx.Statement.Table == "products" {
			tx.AddError(errInsert)
		}
	}); err != nil {
		t.Fatal(err)
	}

	csv := "sku,name,fabric,print_type,price\nP-1,Saree,Organza,Kalamkari,100\n"
	if _, err := svc.ImportProducts(context.Background(), strings.NewReader(csv), ImportOptions{}); !errors.Is(err, errInsert) {
		t.Fatalf("ImportProducts err = %v, want %v", err, errInsert)
	}
	if inv.n != 0 {
		t.Errorf("invalidations = %d, want 0", inv.n)
	}

	var fabrics, printTypes int64
	db.Model(&productEntity.Fabric{}).Count(&fabrics)
	db.Model(&productEntity.PrintType{}).Count(&printTypes)
	if fabrics != 0 || printTypes != 0 {
		t.Errorf("fabrics = %d print types = %d, want 0/0 after rollback", fabrics, printTypes)
	}
}

func TestImportProducts_DryRunCountsLookups(t *testing.T) {
	svc, _, db := newTestService(t)
	res, err := svc.ImportProducts(context.Background(), strings.NewReader(importCSV), ImportOptions{DryRun: true})
	if err != nil {
		t.Fatalf("ImportProducts: %v", err)
	}
	if res.FabricsCreated != 2 || res.PrintTypesCreated != 2 {
		t.Errorf("would create fabrics=%d print types=%d, want 2/2", res.FabricsCreated, res.PrintTypesCreated)
	}
	var fabrics int64
	db.Model(&productEntity.Fabric{}).Count(&fabrics)
	if fabrics != 0 {
		t.Errorf("fabrics = %d, want 0", fabrics)
	}
}

func TestImportProducts_RequiresColumns(t *testing.T) {
	svc, _, _ := newTestService(t)
	if _, err := svc.ImportProducts(context.Background(), strings.NewReader("sku,price\nA,1\n"), ImportOptions{}); err == nil {
		t.Error("expected error for missing name column")
	}
}

func TestCollectImages(t *testing.T) {
	colIndex := map[string]int{"image": 0, "images": 1}
	got := collectImages([]string{"main.jpg", "a.jpg| main.jpg |b.jpg||"}, colIndex)
	if strings.Join(got, ",") != "main.jpg,a.jpg,b.jpg" {
		t.Errorf("collectImages = %v", got)
	}
}
