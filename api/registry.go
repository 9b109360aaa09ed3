package api

import (
	"sort"
	"sync"

	"github.com/labstack/echo/v4"

	"sareeadmin.GO/core/app"
	"sareeadmin.GO/core/log"
	"sareeadmin.GO/core/registry"
)

var mu sync.Mutex

// ModuleFunc registers routes on the authenticated /api group.
type ModuleFunc func(g *echo.Group, a *app.App)

// RouteFunc registers public routes on the root Echo instance.
type RouteFunc func(e *echo.Echo, a *app.App)

func modules() map[string]ModuleFunc {
	if v, ok := registry.GlobalRegistry.GetGlobal(registry.KeyRegistryAPI); ok && v != nil {
		return v.(map[string]ModuleFunc)
	}
	return make(map[string]ModuleFunc)
}

func routes() []RouteFunc {
	if v, ok := registry.GlobalRegistry.GetGlobal(registry.KeyRegistryRoutes); ok && v != nil {
		return v.([]RouteFunc)
	}
	return nil
}

// RegisterModule registers a named /api module. Call from init() in API packages.
// Panics on a duplicate name or after ApplyModules.
func RegisterModule(name string, fn ModuleFunc) {
	mu.Lock()
	defer mu.Unlock()
	if registry.GlobalRegistry.IsLocked(registry.KeyRegistryAPI) {
		panic("api/registry: API modules locked (register only during init)")
	}
	m := modules()
	if _, dup := m[name]; dup {
		panic("api/registry: duplicate module " + name)
	}
	m[name] = fn
	registry.GlobalRegistry.SetGlobal(registry.KeyRegistryAPI, m)
}

// ApplyModules mounts every registered module in name order and locks the registry.
func ApplyModules(g *echo.Group, a *app.App) {
	m := modules()
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		m[name](g, a)
		log.Debug().Str("module", name).Msg("api: module mounted")
	}
	registry.GlobalRegistry.Lock(registry.KeyRegistryAPI)
}

// RegisterRoute registers a root-level route module. Call from init().
func RegisterRoute(fn RouteFunc) {
	mu.Lock()
	defer mu.Unlock()
	if registry.GlobalRegistry.IsLocked(registry.KeyRegistryRoutes) {
		panic("api/registry: routes locked (register only during init)")
	}
	registry.GlobalRegistry.SetGlobal(registry.KeyRegistryRoutes, append(routes(), fn))
}

// RegisterGET is shorthand for registering a simple GET route on root.
func RegisterGET(path string, handler echo.HandlerFunc) {
	RegisterRoute(func(e *echo.Echo, _ *app.App) {
		e.GET(path, handler)
	})
}

// ApplyRoutes calls all registered root-level routes. Locks the registry.
func ApplyRoutes(e *echo.Echo, a *app.App) {
	for _, fn := range routes() {
		fn(e, a)
	}
	registry.GlobalRegistry.Lock(registry.KeyRegistryRoutes)
}
