package app

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sareeadmin.GO/config"
	"sareeadmin.GO/core/storage/memory"
	productEntity "sareeadmin.GO/model/entity/product"
	productService "sareeadmin.GO/service/product"
)

func TestNew_WiresProductWritesToMediaCache(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&productEntity.Fabric{}, &productEntity.PrintType{}, &productEntity.Product{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	bucket := memory.NewBucket("product-images", "https://cdn.test")
	bucket.Put("a.jpg", nil, time.Time{})
	bucket.Put("b.jpg", nil, time.Time{})
	cfg := &config.Config{Media: config.MediaConfig{ReferenceTTL: time.Hour, PageSize: 10}}
	a := New(cfg, db, bucket, nil)
	ctx := context.Background()

	imgs, err := a.Media.GetUnorganizedImages(ctx, nil, false)
	if err != nil || len(imgs) != 2 {
		t.Fatalf("before: %v %v", imgs, err)
	}

	// The TTL is an hour; only the invalidation from the product write can make this visible.
	if _, err := a.Products.Create(ctx, productService.ProductInput{SKU: "A", Name: "a", Images: []string{bucket.PublicURL("a.jpg")}}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	imgs, err = a.Media.GetUnorganizedImages(ctx, nil, false)
	if err != nil || len(imgs) != 1 || imgs[0].Name != "b.jpg" {
		t.Errorf("after: %v %v", imgs, err)
	}
}

func TestNew_ListsConfiguredFolder(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&productEntity.Fabric{}, &productEntity.PrintType{}, &productEntity.Product{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	bucket := memory.NewBucket("product-images", "https://cdn.test")
	bucket.Put("sarees/a.jpg", nil, time.Time{})
	bucket.Put("banners/x.jpg", nil, time.Time{})
	cfg := &config.Config{Media: config.MediaConfig{ReferenceTTL: time.Hour, PageSize: 10, ListPrefix: "sarees"}}
	a := New(cfg, db, bucket, nil)

	imgs, err := a.Media.GetUnorganizedImages(context.Background(), nil, false)
	if err != nil {
		t.Fatalf("GetUnorganizedImages: %v", err)
	}
	if len(imgs) != 1 || imgs[0].Name != "sarees/a.jpg" || imgs[0].URL != bucket.PublicURL("sarees/a.jpg") {
		t.Errorf("images = %+v, want only sarees/a.jpg", imgs)
	}
}
