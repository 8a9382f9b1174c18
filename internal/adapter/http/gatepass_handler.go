package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"scrapgate/internal/adapter/middleware"
	"scrapgate/internal/usecase/gatepass"
)

type GatePassHandler struct{ uc *gatepass.Usecase }

func NewGatePassHandler(uc *gatepass.Usecase) *GatePassHandler {
	return &GatePassHandler{uc: uc}
}

type generateGatePassReq struct {
	ValidityHours int `json:"validity_hours" validate:"omitempty,gte=1,lte=168"`
}

func (h *GatePassHandler) Generate(c echo.Context) error {
	var req generateGatePassReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Generate(c.Request().Context(), gatepass.GenerateInput{
		TenantID:      middleware.TenantID(c),
		TransactionID: c.Param("transaction_id"),
		GeneratedBy:   middleware.UserID(c),
		ValidityHours: req.ValidityHours,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

type validateGatePassReq struct {
	QRPayload string `json:"qr_payload" validate:"required"`
}

// Validate never errors on a bad pass: the outcome is the response body.
func (h *GatePassHandler) Validate(c echo.Context) error {
	var req validateGatePassReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	result, err := h.uc.Validate(c.Request().Context(), gatepass.ValidateInput{
		TenantID:    middleware.TenantID(c),
		QRPayload:   req.QRPayload,
		RequestedBy: middleware.UserID(c),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *GatePassHandler) Exit(c echo.Context) error {
	result, err := h.uc.ProcessVehicleExit(c.Request().Context(), gatepass.ExitInput{
		TenantID:      middleware.TenantID(c),
		TransactionID: c.Param("transaction_id"),
		UserID:        middleware.UserID(c),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	if !result.Valid {
		return c.JSON(http.StatusConflict, result)
	}
	return c.JSON(http.StatusOK, result)
}

type overrideReq struct {
	Justification string `json:"justification" validate:"required,max=512"`
}

func (h *GatePassHandler) OverrideExpired(c echo.Context) error {
	var req overrideReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	result, err := h.uc.OverrideExpiredGatePass(c.Request().Context(), gatepass.OverrideInput{
		TenantID:      middleware.TenantID(c),
		TransactionID: c.Param("transaction_id"),
		SupervisorID:  middleware.UserID(c),
		Justification: req.Justification,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	if !result.Valid {
		return c.JSON(http.StatusConflict, result)
	}
	return c.JSON(http.StatusOK, result)
}
