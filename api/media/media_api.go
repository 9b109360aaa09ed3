package media

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"sareeadmin.GO/api"
	"sareeadmin.GO/core/app"
	"sareeadmin.GO/service/media"
	productService "sareeadmin.GO/service/product"
)

func init() {
	api.RegisterModule("media", RegisterMediaRoutes)
}

func RegisterMediaRoutes(apiGroup *echo.Group, a *app.App) {
	h := &handler{svc: a.Media, sessions: a.Sessions, products: a.Products}
	g := apiGroup.Group("/media")
	g.GET("/unorganized", h.unorganized)
	g.POST("/cache/invalidate", h.invalidate)
	g.POST("/upload", h.upload)
	g.DELETE("/objects", h.deleteObjects)
	g.POST("/prune", h.prune)

	s := g.Group("/sessions")
	s.POST("", h.openSession)
	s.GET("/:id", h.getSession)
	s.DELETE("/:id", h.closeSession)
	s.POST("/:id/reveal", h.reveal)
	s.POST("/:id/refresh", h.refresh)
	s.POST("/:id/toggle", h.toggle)
	s.POST("/:id/reorder", h.reorder)
	s.POST("/:id/upload", h.sessionUpload)
	s.POST("/:id/commit", h.commit)
}

type handler struct {
	svc      *media.Service
	sessions *media.SessionManager
	products *productService.Service
}

// unorganized lists every stored image no product references. exclude may repeat.
func (h *handler) unorganized(c echo.Context) error {
	force, _ := strconv.ParseBool(c.QueryParam("refresh"))
	images, err := h.svc.GetUnorganizedImages(c.Request().Context(), c.QueryParams()["exclude"], force)
	if err != nil {
		return api.Error(c, err)
	}
	if images == nil {
		images = []media.UnorganizedImage{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": images, "count": len(images)})
}

func (h *handler) invalidate(c echo.Context) error {
	h.svc.InvalidateCache(c.Request().Context())
	return c.NoContent(http.StatusNoContent)
}

func (h *handler) formUpload(c echo.Context) (media.UploadInput, func(), error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return media.UploadInput{}, nil, api.BadRequest{Msg: "multipart field \"file\" is required"}
	}
	f, err := fh.Open()
	if err != nil {
		return media.UploadInput{}, nil, err
	}
	in := media.UploadInput{Filename: fh.Filename, ContentType: fh.Header.Get("Content-Type"), Body: f}
	return in, func() { f.Close() }, nil
}

func (h *handler) upload(c echo.Context) error {
	in, done, err := h.formUpload(c)
	if err != nil {
		return api.Error(c, err)
	}
	defer done()
	img, err := h.svc.Upload(c.Request().Context(), in)
	if err != nil {
		return api.Error(c, err)
	}
	return c.JSON(http.StatusCreated, img)
}

func (h *handler) deleteObjects(c echo.Context) error {
	var body struct {
		Names []string `json:"names"`
	}
	if err := api.Bind(c, &body); err != nil {
		return api.Error(c, err)
	}
	if len(body.Names) == 0 {
		return api.Error(c, api.BadRequest{Msg: "names is required"})
	}
	if err := h.svc.Delete(c.Request().Context(), body.Names); err != nil {
		return api.Error(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": len(body.Names)})
}

func (h *handler) prune(c echo.Context) error {
	var body struct {
		OlderThan string `json:"older_than"`
		DryRun    *bool  `json:"dry_run"`
	}
	if err := api.Bind(c, &body); err != nil {
		return api.Error(c, err)
	}
	age, err := time.ParseDuration(body.OlderThan)
	if err != nil || age <= 0 {
		return api.Error(c, api.BadRequest{Msg: "older_than must be a positive duration such as 720h"})
	}
	// Omitted dry_run means dry run.
	dryRun := body.DryRun == nil || *body.DryRun
	report, err := h.svc.Prune(c.Request().Context(), age, dryRun)
	if err != nil {
		return api.Error(c, err)
	}
	return c.JSON(http.StatusOK, report)
}

func (h *handler) openSession(c echo.Context) error {
	var req media.OpenRequest
	if err := api.Bind(c, &req); err != nil {
		return api.Error(c, err)
	}
	v, err := h.sessions.Open(c.Request().Context(), req)
	if err != nil {
		return api.Error(c, err)
	}
	return c.JSON(http.StatusCreated, v)
}

func (h *handler) getSession(c echo.Context) error {
	return h.respond(c)(h.sessions.Get(c.Param("id")))
}

func (h *handler) closeSession(c echo.Context) error {
	if err := h.sessions.Close(c.Param("id")); err != nil {
		return api.Error(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *handler) reveal(c echo.Context) error {
	return h.respond(c)(h.sessions.Reveal(c.Param("id")))
}

func (h *handler) refresh(c echo.Context) error {
	force, _ := strconv.ParseBool(c.QueryParam("force"))
	return h.respond(c)(h.sessions.Refresh(c.Request().Context(), c.Param("id"), force))
}

func (h *handler) toggle(c echo.Context) error {
	var body struct {
		URL string `json:"url"`
	}
	if err := api.Bind(c, &body); err != nil {
		return api.Error(c, err)
	}
	if body.URL == "" {
		return api.Error(c, api.BadRequest{Msg: "url is required"})
	}
	return h.respond(c)(h.sessions.Toggle(c.Param("id"), body.URL))
}

func (h *handler) reorder(c echo.Context) error {
	var body struct {
		From int `json:"from"`
		To   int `json:"to"`
	}
	if err := api.Bind(c, &body); err != nil {
		return api.Error(c, err)
	}
	return h.respond(c)(h.sessions.Reorder(c.Param("id"), body.From, body.To))
}

func (h *handler) sessionUpload(c echo.Context) error {
	in, done, err := h.formUpload(c)
	if err != nil {
		return api.Error(c, err)
	}
	defer done()
	return h.respond(c)(h.sessions.UploadInto(c.Request().Context(), c.Param("id"), in))
}

// commit ends the session. With product_id the selection is written to that product while
// the session is held, and the session stays open if the write fails.
func (h *handler) commit(c echo.Context) error {
	var body struct {
		ProductID uint `json:"product_id"`
	}
	if c.Request().ContentLength != 0 {
		if err := api.Bind(c, &body); err != nil {
			return api.Error(c, err)
		}
	}
	var write func([]string) error
	if body.ProductID != 0 {
		ctx := c.Request().Context()
		write = func(images []string) error {
			_, err := h.products.UpdateImages(ctx, body.ProductID, images)
			return err
		}
	}
	images, err := h.sessions.CommitWith(c.Param("id"), write)
	if err != nil {
		return api.Error(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"images": images, "product_id": body.ProductID})
}

func (h *handler) respond(c echo.Context) func(media.SessionView, error) error {
	return func(v media.SessionView, err error) error {
		if err != nil {
			return api.Error(c, err)
		}
		return c.JSON(http.StatusOK, v)
	}
}
