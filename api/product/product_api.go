package product

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"sareeadmin.GO/api"
	"sareeadmin.GO/core/app"
	productRepo "sareeadmin.GO/model/repository/product"
	productService "sareeadmin.GO/service/product"
)

func init() {
	api.RegisterModule("products", RegisterProductRoutes)
}

func RegisterProductRoutes(apiGroup *echo.Group, a *app.App) {
	h := &handler{svc: a.Products}
	g := apiGroup.Group("/products")
	g.GET("", h.list)
	g.POST("", h.create)
	g.POST("/bulk", h.bulkCreate)
	g.POST("/import", h.importCSV)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
	g.PUT("/:id/images", h.updateImages)
}

type handler struct {
	svc *productService.Service
}

func (h *handler) list(c echo.Context) error {
	limit, offset := api.Page(c, 50)
	f := productRepo.ListFilter{Query: c.QueryParam("q"), Limit: limit, Offset: offset}
	if v := c.QueryParam("fabric_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return api.Error(c, api.BadRequest{Msg: "invalid fabric_id"})
		}
		f.FabricID = uint(id)
	}
	items, total, err := h.svc.List(c.Request().Context(), f)
	if err != nil {
		return api.Error(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "total": total, "limit": limit, "offset": offset})
}

func (h *handler) get(c echo.Context) error {
	id, err := api.ParseID(c, "id")
	if err != nil {
		return api.Error(c, err)
	}
	p, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return api.Error(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *handler) create(c echo.Context) error {
	var in productService.ProductInput
	if err := api.Bind(c, &in); err != nil {
		return api.Error(c, err)
	}
	p, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return api.Error(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *handler) update(c echo.Context) error {
	id, err := api.ParseID(c, "id")
	if err != nil {
		return api.Error(c, err)
	}
	var in productService.ProductInput
	if err := api.Bind(c, &in); err != nil {
		return api.Error(c, err)
	}
	p, err := h.svc.Update(c.Request().Context(), id, in)
	if err != nil {
		return api.Error(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *handler) delete(c echo.Context) error {
	id, err := api.ParseID(c, "id")
	if err != nil {
		return api.Error(c, err)
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return api.Error(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// updateImages persists the ordered list produced by the picker; images[0] is the main image.
func (h *handler) updateImages(c echo.Context) error {
	id, err := api.ParseID(c, "id")
	if err != nil {
		return api.Error(c, err)
	}
	var body struct {
		Images []string `json:"images"`
	}
	if err := api.Bind(c, &body); err != nil {
		return api.Error(c, err)
	}
	p, err := h.svc.UpdateImages(c.Request().Context(), id, body.Images)
	if err != nil {
		return api.Error(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *handler) bulkCreate(c echo.Context) error {
	var body struct {
		Products []productService.ProductInput `json:"products"`
	}
	if err := api.Bind(c, &body); err != nil {
		return api.Error(c, err)
	}
	created, err := h.svc.BulkCreate(c.Request().Context(), body.Products)
	if err != nil {
		return api.Error(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"items": created, "count": len(created)})
}

// importCSV accepts a multipart "file" field; dry_run=true validates without writing.
func (h *handler) importCSV(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return api.Error(c, api.BadRequest{Msg: "multipart field \"file\" is required"})
	}
	f, err := fh.Open()
	if err != nil {
		return api.Error(c, err)
	}
	defer f.Close()

	dryRun, _ := strconv.ParseBool(c.QueryParam("dry_run"))
	batch, _ := strconv.Atoi(c.QueryParam("batch_size"))
	res, err := h.svc.ImportProducts(c.Request().Context(), f, productService.ImportOptions{BatchSize: batch, DryRun: dryRun})
	if err != nil {
		return api.Error(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"total_rows":          res.TotalRows,
		"created":             res.Created,
		"updated":             res.Updated,
		"skipped":             res.Skipped,
		"images":              res.Images,
		"fabrics_created":     res.FabricsCreated,
		"print_types_created": res.PrintTypesCreated,
		"warnings":            res.Warnings,
		"dry_run":             dryRun,
		"total_time_ms":       res.TotalTime.Milliseconds(),
	})
}
