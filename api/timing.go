package api

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"sareeadmin.GO/core/log"
)

// HeaderRequestDuration carries the handler time in milliseconds.
const HeaderRequestDuration = "X-Request-Duration-ms"

// RequestDuration sets HeaderRequestDuration just before the response headers are written,
// so it reaches the client even when the handler streams a body.
func RequestDuration() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			res := c.Response()
			res.Before(func() {
				res.Header().Set(HeaderRequestDuration, strconv.FormatInt(time.Since(start).Milliseconds(), 10))
			})
			err := next(c)
			log.Debug().Str("path", c.Path()).Int64("ms", time.Since(start).Milliseconds()).Msg("request")
			return err
		}
	}
}
