package api

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"sareeadmin.GO/core/app"
)

func init() {
	RegisterRoute(RegisterHealthRoutes)
}

// RegisterHealthRoutes exposes GET /health; it reports DB reachability and the reference set age.
func RegisterHealthRoutes(e *echo.Echo, a *app.App) {
	e.GET("/health", func(c echo.Context) error {
		status := http.StatusOK
		body := echo.Map{"status": "ok"}
		if a != nil && a.DB != nil {
			ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
			defer cancel()
			if sqlDB, err := a.DB.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
				body["db"] = "unreachable"
			} else {
				body["db"] = "ok"
			}
		}
		if a != nil && a.Media != nil {
			if at, ok := a.Media.Cache().CachedAt(); ok {
				body["reference_set_age_ms"] = time.Since(at).Milliseconds()
			}
		}
		return c.JSON(status, body)
	})
}
