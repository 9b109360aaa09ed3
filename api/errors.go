package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"sareeadmin.GO/core/log"
	catalogRepo "sareeadmin.GO/model/repository/catalog"
	productRepo "sareeadmin.GO/model/repository/product"
	salesRepo "sareeadmin.GO/model/repository/sales"
	"sareeadmin.GO/service/media"
	productService "sareeadmin.GO/service/product"
	salesService "sareeadmin.GO/service/sales"
)

// BadRequest marks an input error raised in a handler.
type BadRequest struct{ Msg string }

func (e BadRequest) Error() string { return e.Msg }

// StatusOf maps domain errors to HTTP status codes.
func StatusOf(err error) int {
	var (
		ve  *productService.ValidationError
		br  BadRequest
		dfe *media.DataFetchError
		le  *media.StorageListError
		ue  *media.StorageUploadError
		de  *media.StorageDeleteError
		he  *echo.HTTPError
	)
	switch {
	case errors.As(err, &he):
		return he.Code
	case errors.As(err, &ve), errors.As(err, &br),
		errors.Is(err, media.ErrIndexOutOfRange), errors.Is(err, media.ErrEmptyUpload),
		errors.Is(err, media.ErrInvalidImage), errors.Is(err, salesService.ErrEmptyOrder),
		errors.Is(err, salesService.ErrInvalidLine), errors.Is(err, salesService.ErrUnknownReference),
		errors.Is(err, salesService.ErrDiscountNotApplicable), errors.Is(err, salesService.ErrShippingUnavailable):
		return http.StatusBadRequest
	case errors.Is(err, productRepo.ErrNotFound), errors.Is(err, catalogRepo.ErrNotFound),
		errors.Is(err, salesRepo.ErrNotFound), errors.Is(err, media.ErrSessionNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, media.ErrObjectReferenced), errors.Is(err, media.ErrSessionClosed),
		errors.Is(err, media.ErrStaleResult), errors.Is(err, salesRepo.ErrInvalidTransition), errors.Is(err, salesRepo.ErrOutOfStock),
		errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated):
		return http.StatusConflict
	case errors.Is(err, media.ErrUploadTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &dfe), errors.As(err, &le), errors.As(err, &ue), errors.As(err, &de):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// Error writes {"error": ...} with the mapped status.
func Error(c echo.Context, err error) error {
	status := StatusOf(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	}
	msg := err.Error()
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if s, ok := he.Message.(string); ok {
			msg = s
		}
	}
	return c.JSON(status, echo.Map{"error": msg})
}
