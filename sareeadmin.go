//go:build !cli

package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"sareeadmin.GO/api"
	_ "sareeadmin.GO/api/catalog"
	_ "sareeadmin.GO/api/media"
	_ "sareeadmin.GO/api/product"
	_ "sareeadmin.GO/api/sales"
	"sareeadmin.GO/config"
	"sareeadmin.GO/core/app"
	"sareeadmin.GO/core/auth"
	"sareeadmin.GO/core/log"
)

var bannerFonts = []string{"banner", "big", "block", "slant", "standard", "small", "shadow", "doom", "larry3d", "puffy"}

func main() {
	config.LoadEnv()
	a, err := app.Bootstrap()
	if err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go a.ListenInvalidations(ctx)
	go a.Cache.Janitor(ctx, a.Config.CachePurgeInterval)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.Gzip())
	e.Use(middleware.Decompress())
	e.Use(middleware.BodyLimit(strconv.FormatInt(a.Config.Media.UploadMaxBytes+(1<<20), 10)))

	e.Use(api.RequestDuration())

	api.ApplyRoutes(e, a)

	apiGroup := e.Group("/api")
	var verifier auth.UserVerifier
	if a.Supabase != nil {
		verifier = a.Supabase
	}
	apiGroup.Use(auth.Middleware(verifier, a.Cache))
	api.ApplyModules(apiGroup, a)

	fig := figure.NewFigure("Saree Admin", bannerFonts[rand.Intn(len(bannerFonts))], true)
	fig.Print()
	fmt.Println()

	go func() {
		log.Info().Str("port", a.Config.Port).Msg("Server running")
		if err := e.Start(":" + a.Config.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdown); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
