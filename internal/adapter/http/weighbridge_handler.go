package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"scrapgate/internal/adapter/middleware"
	"scrapgate/internal/usecase/weighbridge"
)

type WeighbridgeHandler struct{ uc *weighbridge.Usecase }

func NewWeighbridgeHandler(uc *weighbridge.Usecase) *WeighbridgeHandler {
	return &WeighbridgeHandler{uc: uc}
}

// Weights travel as strings so no float precision is lost on the wire.
type weighingReq struct {
	Weight    string `json:"weight"     validate:"required,dec3"`
	Timestamp string `json:"timestamp"  validate:"required"`
	TicketURL string `json:"ticket_url"`
	Notes     string `json:"notes"`
}

func (h *WeighbridgeHandler) reading(c echo.Context) (weighbridge.ReadingInput, bool, error) {
	var req weighingReq
	if err := c.Bind(&req); err != nil {
		return weighbridge.ReadingInput{}, false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return weighbridge.ReadingInput{}, false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	weight, err := decimal.NewFromString(req.Weight)
	if err != nil {
		return weighbridge.ReadingInput{}, false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "weight must be a decimal string"})
	}
	ts, err := time.Parse(time.RFC3339, req.Timestamp)
	if err != nil {
		return weighbridge.ReadingInput{}, false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "timestamp must be RFC 3339"})
	}
	return weighbridge.ReadingInput{
		TenantID:      middleware.TenantID(c),
		TransactionID: c.Param("transaction_id"),
		OperatorID:    middleware.UserID(c),
		Weight:        weight,
		Timestamp:     ts.UTC(),
		TicketURL:     req.TicketURL,
		Notes:         req.Notes,
	}, true, nil
}

func (h *WeighbridgeHandler) CaptureGross(c echo.Context) error {
	in, ok, err := h.reading(c)
	if !ok {
		return err
	}
	dto, err := h.uc.CaptureGrossWeight(c.Request().Context(), in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *WeighbridgeHandler) CaptureTare(c echo.Context) error {
	in, ok, err := h.reading(c)
	if !ok {
		return err
	}
	dto, err := h.uc.CaptureTareWeight(c.Request().Context(), in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
