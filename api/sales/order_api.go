package sales

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"sareeadmin.GO/api"
	"sareeadmin.GO/core/app"
	salesEntity "sareeadmin.GO/model/entity/sales"
	salesRepo "sareeadmin.GO/model/repository/sales"
	salesService "sareeadmin.GO/service/sales"
)

func init() {
	api.RegisterModule("orders", RegisterOrderRoutes)
}

func RegisterOrderRoutes(apiGroup *echo.Group, a *app.App) {
	repo := salesRepo.NewOrderRepository(a.DB)
	svc := salesService.NewService(repo)
	g := apiGroup.Group("/orders")

	g.POST("", func(c echo.Context) error {
		var in salesService.OrderInput
		if err := api.Bind(c, &in); err != nil {
			return api.Error(c, err)
		}
		o, err := svc.Place(c.Request().Context(), in)
		if err != nil {
			return api.Error(c, err)
		}
		return c.JSON(http.StatusCreated, o)
	})

	// quote prices an order without placing it.
	g.POST("/quote", func(c echo.Context) error {
		var in salesService.OrderInput
		if err := api.Bind(c, &in); err != nil {
			return api.Error(c, err)
		}
		o, err := svc.Quote(c.Request().Context(), in)
		if err != nil {
			return api.Error(c, err)
		}
		return c.JSON(http.StatusOK, o)
	})

	g.GET("", func(c echo.Context) error {
		status := c.QueryParam("status")
		if status != "" && !salesEntity.IsValidStatus(status) {
			return api.Error(c, api.BadRequest{Msg: "unknown status " + status})
		}
		limit, offset := api.Page(c, 50)
		orders, total, err := repo.FindAll(c.Request().Context(), status, limit, offset)
		if err != nil {
			return api.Error(c, err)
		}
		if orders == nil {
			orders = []salesEntity.Order{}
		}
		return c.JSON(http.StatusOK, echo.Map{"items": orders, "total": total, "limit": limit, "offset": offset})
	})

	g.GET("/:id", func(c echo.Context) error {
		id, err := api.ParseID(c, "id")
		if err != nil {
			return api.Error(c, err)
		}
		o, err := repo.FindByID(c.Request().Context(), id)
		if err != nil {
			return api.Error(c, err)
		}
		return c.JSON(http.StatusOK, o)
	})

	g.PATCH("/:id/status", func(c echo.Context) error {
		id, err := api.ParseID(c, "id")
		if err != nil {
			return api.Error(c, err)
		}
		var body struct {
			Status string `json:"status"`
		}
		if err := api.Bind(c, &body); err != nil {
			return api.Error(c, err)
		}
		if !salesEntity.IsValidStatus(body.Status) {
			return api.Error(c, api.BadRequest{Msg: "unknown status " + body.Status})
		}
		o, err := repo.UpdateStatus(c.Request().Context(), id, body.Status)
		if err != nil {
			return api.Error(c, err)
		}
		return c.JSON(http.StatusOK, o)
	})
}
