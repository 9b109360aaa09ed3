package catalog

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"sareeadmin.GO/api"
	"sareeadmin.GO/core/app"
	"sareeadmin.GO/core/cache"
	"sareeadmin.GO/core/log"
	productEntity "sareeadmin.GO/model/entity/product"
	salesEntity "sareeadmin.GO/model/entity/sales"
	catalogRepo "sareeadmin.GO/model/repository/catalog"
)

// listTTL bounds how long a cached list page is served; writes drop it immediately.
const listTTL = 5 * time.Minute

func init() {
	api.RegisterModule("catalog", RegisterCatalogRoutes)
}

func RegisterCatalogRoutes(apiGroup *echo.Group, a *app.App) {
	register[productEntity.Fabric](apiGroup, "/fabrics", a)
	register[productEntity.PrintType](apiGroup, "/print-types", a)
	register[salesEntity.DiscountCode](apiGroup, "/discount-codes", a)
	register[salesEntity.ShippingPolicy](apiGroup, "/shipping-policies", a)
	register[salesEntity.Customer](apiGroup, "/customers", a)
}

// entity is a pointer to a row type that can check itself.
type entity[T any] interface {
	*T
	Validate() error
}

type resource[T any, PT entity[T]] struct {
	path  string
	repo  *catalogRepo.Repository[T]
	cache *cache.Cache

	// mu orders list write-backs against invalidations; gen counts invalidations.
	mu  sync.Mutex
	gen uint64
	// afterQuery runs between the list query and the cache write-back. Tests only.
	afterQuery func()
}

func register[T any, PT entity[T]](apiGroup *echo.Group, path string, a *app.App) *resource[T, PT] {
	r := &resource[T, PT]{path: path, repo: catalogRepo.NewRepository[T](a.DB), cache: a.Cache}
	g := apiGroup.Group(path)
	g.GET("", r.list)
	g.POST("", r.create)
	g.GET("/:id", r.get)
	g.PUT("/:id", r.update)
	g.DELETE("/:id", r.delete)
	return r
}

func (r *resource[T, PT]) tag() string { return "catalog:" + r.path }

func (r *resource[T, PT]) generation() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gen
}

// invalidate drops every cached page of the resource after a write.
func (r *resource[T, PT]) invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gen++
	r.cache.DeleteByTag(r.tag())
}

// store caches a page read at generation gen, unless a write invalidated the resource since.
func (r *resource[T, PT]) store(keys []interface{}, p interface{}, gen uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gen != gen {
		return false
	}
	r.cache.SetN(keys, p, listTTL, []string{r.tag()})
	return true
}

type page[T any] struct {
	Items  []T   `json:"items"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

func (r *resource[T, PT]) list(c echo.Context) error {
	limit, offset := api.Page(c, 100)
	keys := []interface{}{r.tag(), limit, offset}
	if v, ok := r.cache.GetN(keys...); ok {
		c.Response().Header().Set("X-Cache", "HIT")
		return c.JSON(http.StatusOK, v)
	}
	gen := r.generation()
	rows, total, err := r.repo.List(c.Request().Context(), limit, offset)
	if err != nil {
		return api.Error(c, err)
	}
	if rows == nil {
		rows = []T{}
	}
	p := page[T]{Items: rows, Total: total, Limit: limit, Offset: offset}
	if r.afterQuery != nil {
		r.afterQuery()
	}
	if !r.store(keys, p, gen) {
		log.Debug().Str("resource", r.path).Msg("catalog: list changed during query, not cached")
	}
	c.Response().Header().Set("X-Cache", "MISS")
	return c.JSON(http.StatusOK, p)
}

func (r *resource[T, PT]) get(c echo.Context) error {
	id, err := api.ParseID(c, "id")
	if err != nil {
		return api.Error(c, err)
	}
	row, err := r.repo.Find(c.Request().Context(), id)
	if err != nil {
		return api.Error(c, err)
	}
	return c.JSON(http.StatusOK, row)
}

func (r *resource[T, PT]) bindValid(c echo.Context) (*T, error) {
	row := new(T)
	if err := api.Bind(c, row); err != nil {
		return nil, err
	}
	if err := PT(row).Validate(); err != nil {
		return nil, api.BadRequest{Msg: err.Error()}
	}
	return row, nil
}

func (r *resource[T, PT]) create(c echo.Context) error {
	row, err := r.bindValid(c)
	if err != nil {
		return api.Error(c, err)
	}
	if err := r.repo.Create(c.Request().Context(), row); err != nil {
		return api.Error(c, err)
	}
	r.invalidate()
	return c.JSON(http.StatusCreated, row)
}

func (r *resource[T, PT]) update(c echo.Context) error {
	id, err := api.ParseID(c, "id")
	if err != nil {
		return api.Error(c, err)
	}
	row, err := r.bindValid(c)
	if err != nil {
		return api.Error(c, err)
	}
	ctx := c.Request().Context()
	if err := r.repo.Update(ctx, id, row); err != nil {
		return api.Error(c, err)
	}
	r.invalidate()
	fresh, err := r.repo.Find(ctx, id)
	if err != nil {
		return api.Error(c, err)
	}
	return c.JSON(http.StatusOK, fresh)
}

func (r *resource[T, PT]) delete(c echo.Context) error {
	id, err := api.ParseID(c, "id")
	if err != nil {
		return api.Error(c, err)
	}
	if err := r.repo.Delete(c.Request().Context(), id); err != nil {
		return api.Error(c, err)
	}
	r.invalidate()
	return c.NoContent(http.StatusNoContent)
}
