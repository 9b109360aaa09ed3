package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"sareeadmin.GO/core/app"
	"sareeadmin.GO/core/registry"
)

func TestRegistry_Register_Apply(t *testing.T) {
	RegisterGET("/test/registry/check", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})
	RegisterModule("test-ping", func(g *echo.Group, _ *app.App) {
		g.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })
	})
	defer registry.GlobalRegistry.UnlockForTesting(registry.KeyRegistryAPI)
	defer registry.GlobalRegistry.UnlockForTesting(registry.KeyRegistryRoutes)

	e := echo.New()
	ApplyRoutes(e, nil)
	ApplyModules(e.Group("/api"), nil)

	for _, path := range []string{"/test/registry/check", "/api/ping", "/health"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, rec.Code)
		}
	}
}

func TestRegistry_DuplicateModulePanics(t *testing.T) {
	noop := func(*echo.Group, *app.App) {}
	RegisterModule("test-dup", noop)
	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate module")
		}
	}()
	RegisterModule("test-dup", noop)
}
