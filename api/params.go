package api

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const maxPageSize = 500

// ParseID reads a positive numeric path parameter.
func ParseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, BadRequest{Msg: "invalid " + name}
	}
	return uint(id), nil
}

// Page reads limit/offset query parameters. limit is clamped to maxPageSize.
func Page(c echo.Context, defLimit int) (limit, offset int) {
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	offset, _ = strconv.Atoi(c.QueryParam("offset"))
	if limit <= 0 {
		limit = defLimit
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// Bind decodes the body into v, reporting failures as BadRequest.
func Bind(c echo.Context, v interface{}) error {
	if err := c.Bind(v); err != nil {
		return BadRequest{Msg: "invalid request body: " + err.Error()}
	}
	return nil
}
