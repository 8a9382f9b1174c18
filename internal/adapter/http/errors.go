package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	evdDomain "scrapgate/internal/domain/evidence"
	txDomain "scrapgate/internal/domain/transaction"
	vehDomain "scrapgate/internal/domain/vehicle"
)

// writeDomainError maps domain sentinels to HTTP statuses in one place.
// Guard and validation failures are client errors, not server faults.
func writeDomainError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, txDomain.ErrNotFound),
		errors.Is(err, evdDomain.ErrNotFound),
		errors.Is(err, vehDomain.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})

	case errors.Is(err, txDomain.ErrDuplicateNumber):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})

	case errors.Is(err, evdDomain.ErrForbidden),
		errors.Is(err, evdDomain.ErrDeletionNotAllowed):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})

	case errors.Is(err, txDomain.ErrLocked),
		errors.Is(err, txDomain.ErrInvalidTransition),
		errors.Is(err, txDomain.ErrValidation):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
