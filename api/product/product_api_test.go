package product

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sareeadmin.GO/config"
	"sareeadmin.GO/core/app"
	"sareeadmin.GO/core/storage/memory"
	productEntity "sareeadmin.GO/model/entity/product"
)

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&productEntity.Fabric{}, &productEntity.PrintType{}, &productEntity.Product{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	cfg := &config.Config{Media: config.MediaConfig{ReferenceTTL: time.Minute, PageSize: 10}}
	a := app.New(cfg, db, memory.NewBucket("product-images", "https://cdn.test"), nil)
	e := echo.New()
	RegisterProductRoutes(e.Group("/api"), a)
	return e
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestProducts_CreateListUpdateDelete(t *testing.T) {
	e := newTestServer(t)
	rec := do(e, http.MethodPost, "/api/products", `{"sku":"SAR-1","name":"Banarasi Silk","price":4999,"images":["https://cdn.test/x.jpg"]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d body=%s", rec.Code, rec.Body.String())
	}
	do(e, http.MethodPost, "/api/products", `{"sku":"SAR-2","name":"Chanderi Cotton","price":1499}`)

	rec = do(e, http.MethodGet, "/api/products?q=silk", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "SAR-1") || strings.Contains(rec.Body.String(), "SAR-2") {
		t.Fatalf("list = %d body=%s", rec.Code, rec.Body.String())
	}

	rec = do(e, http.MethodPut, "/api/products/1/images", `{"images":["https://cdn.test/y.jpg","https://cdn.test/x.jpg"]}`)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"images":["https://cdn.test/y.jpg","https://cdn.test/x.jpg"]`) {
		t.Fatalf("update images = %d body=%s", rec.Code, rec.Body.String())
	}
	if rec = do(e, http.MethodPut, "/api/products/1/images", `{"images":["https://cdn.test/y.jpg","https://cdn.test/y.jpg"]}`); rec.Code != http.StatusBadRequest {
		t.Errorf("duplicate images = %d, want 400", rec.Code)
	}

	if rec = do(e, http.MethodDelete, "/api/products/2", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete = %d", rec.Code)
	}
	if rec = do(e, http.MethodGet, "/api/products/2", ""); rec.Code != http.StatusNotFound {
		t.Errorf("get deleted = %d, want 404", rec.Code)
	}
	if rec = do(e, http.MethodGet, "/api/products?fabric_id=x", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad fabric_id = %d, want 400", rec.Code)
	}
}

func TestProducts_BulkRejectsSharedImage(t *testing.T) {
	e := newTestServer(t)
	body := `{"products":[
		{"sku":"A","name":"a","images":["https://cdn.test/1.jpg"]},
		{"sku":"B","name":"b","images":["https://cdn.test/1.jpg"]}]}`
	if rec := do(e, http.MethodPost, "/api/products/bulk", body); rec.Code != http.StatusBadRequest {
		t.Fatalf("bulk = %d body=%s, want 400", rec.Code, rec.Body.String())
	}
	rec := do(e, http.MethodGet, "/api/products", "")
	if !strings.Contains(rec.Body.String(), `"total":0`) {
		t.Errorf("rows written on rejected batch: %s", rec.Body.String())
	}

	body = `{"products":[{"sku":"A","name":"a"},{"sku":"B","name":"b"}]}`
	if rec = do(e, http.MethodPost, "/api/products/bulk", body); rec.Code != http.StatusCreated || !strings.Contains(rec.Body.String(), `"count":2`) {
		t.Errorf("bulk = %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestProducts_ImportCSV(t *testing.T) {
	e := newTestServer(t)
	csv := "sku,name,fabric,price,images\n" +
		"SAR-10,Paithani,Silk,8999,https://cdn.test/p1.jpg|https://cdn.test/p2.jpg\n" +
		"SAR-11,Ikat,Cotton,abc,\n"

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, _ := w.CreateFormFile("file", "products.csv")
	fw.Write([]byte(csv))
	w.Close()
	req := httptest.NewRequest(http.MethodPost, "/api/products/import", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("import = %d body=%s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	for _, want := range []string{`"created":1`, `"skipped":1`, `"images":2`, `"fabrics_created":2`} {
		if !strings.Contains(body, want) {
			t.Errorf("body = %s, missing %s", body, want)
		}
	}

	if rec = do(e, http.MethodPost, "/api/products/import", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("import without file = %d, want 400", rec.Code)
	}
}
