package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"scrapgate/internal/adapter/middleware"
	"scrapgate/internal/usecase/vehicle"
)

type VehicleHandler struct{ uc *vehicle.Usecase }

func NewVehicleHandler(uc *vehicle.Usecase) *VehicleHandler {
	return &VehicleHandler{uc: uc}
}

type registerVehicleReq struct {
	VehicleNumber string `json:"vehicle_number" validate:"required,max=32"`
	DriverName    string `json:"driver_name"    validate:"required,max=128"`
	DriverPhone   string `json:"driver_phone"   validate:"omitempty,max=32"`
}

func (h *VehicleHandler) Register(c echo.Context) error {
	var req registerVehicleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	v, err := h.uc.Register(c.Request().Context(), vehicle.RegisterInput{
		TenantID:      middleware.TenantID(c),
		VehicleNumber: req.VehicleNumber,
		DriverName:    req.DriverName,
		DriverPhone:   req.DriverPhone,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, v)
}

func (h *VehicleHandler) Get(c echo.Context) error {
	v, err := h.uc.Get(c.Request().Context(), middleware.TenantID(c), c.Param("vehicle_id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *VehicleHandler) Visits(c echo.Context) error {
	visits, err := h.uc.VisitHistory(c.Request().Context(), middleware.TenantID(c), c.Param("vehicle_id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"visits": visits})
}
