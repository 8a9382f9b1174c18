package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"scrapgate/internal/adapter/middleware"
	"scrapgate/internal/domain/transaction"
	"scrapgate/internal/usecase/lifecycle"
)

type TransactionHandler struct{ uc *lifecycle.Usecase }

func NewTransactionHandler(uc *lifecycle.Usecase) *TransactionHandler {
	return &TransactionHandler{uc: uc}
}

type createTransactionReq struct {
	FactoryID         string         `json:"factory_id"         validate:"required,hex32"`
	FactoryName       string         `json:"factory_name"`
	VendorID          string         `json:"vendor_id"          validate:"required,hex32"`
	VendorName        string         `json:"vendor_name"`
	VehicleID         string         `json:"vehicle_id"         validate:"required,hex32"`
	TransactionNumber string         `json:"transaction_number" validate:"required,max=64"`
	GateEntryFields   map[string]any `json:"gate_entry_fields"`
	Notes             string         `json:"notes"`
}

func (h *TransactionHandler) Create(c echo.Context) error {
	var req createTransactionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Create(c.Request().Context(), lifecycle.CreateInput{
		TenantID:          middleware.TenantID(c),
		FactoryID:         req.FactoryID,
		FactoryName:       req.FactoryName,
		VendorID:          req.VendorID,
		VendorName:        req.VendorName,
		VehicleID:         req.VehicleID,
		TransactionNumber: req.TransactionNumber,
		CreatedBy:         middleware.UserID(c),
		GateEntryFields:   req.GateEntryFields,
		Notes:             req.Notes,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *TransactionHandler) Get(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), middleware.TenantID(c), c.Param("transaction_id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type completeLevelReq struct {
	FieldValues map[string]any `json:"field_values"`
	Notes       string         `json:"notes"`
}

func (h *TransactionHandler) CompleteLevel(c echo.Context) error {
	level, err := strconv.Atoi(c.Param("level"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid level path param"})
	}
	var req completeLevelReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	dto, err := h.uc.CompleteLevel(c.Request().Context(), lifecycle.CompleteLevelInput{
		TenantID:      middleware.TenantID(c),
		TransactionID: c.Param("transaction_id"),
		Level:         level,
		CompletedBy:   middleware.UserID(c),
		FieldValues:   req.FieldValues,
		Notes:         req.Notes,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type inspectionReq struct {
	Grade           string         `json:"grade"            validate:"required,grade"`
	RejectionReason string         `json:"rejection_reason"`
	FieldValues     map[string]any `json:"field_values"`
	Notes           string         `json:"notes"`
}

func (h *TransactionHandler) RecordInspection(c echo.Context) error {
	var req inspectionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.RecordInspection(c.Request().Context(), lifecycle.InspectionInput{
		TenantID:        middleware.TenantID(c),
		TransactionID:   c.Param("transaction_id"),
		InspectorID:     middleware.UserID(c),
		Grade:           transaction.Grade(strings.ToUpper(req.Grade)),
		RejectionReason: req.RejectionReason,
		FieldValues:     req.FieldValues,
		Notes:           req.Notes,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type grnReq struct {
	FieldValues map[string]any `json:"field_values"`
	Notes       string         `json:"notes"`
}

func (h *TransactionHandler) GenerateGRN(c echo.Context) error {
	var req grnReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	dto, err := h.uc.GenerateGRN(c.Request().Context(), lifecycle.GRNInput{
		TenantID:      middleware.TenantID(c),
		TransactionID: c.Param("transaction_id"),
		GeneratedBy:   middleware.UserID(c),
		FieldValues:   req.FieldValues,
		Notes:         req.Notes,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type approveLevelReq struct {
	Level    int    `json:"level"    validate:"required,gte=5,lte=6"`
	Decision string `json:"decision" validate:"required,oneof=APPROVED REJECTED"`
	Reason   string `json:"reason"`
}

func (h *TransactionHandler) ApproveLevel(c echo.Context) error {
	var req approveLevelReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.ApproveLevel(c.Request().Context(), lifecycle.ApproveLevelInput{
		TenantID:      middleware.TenantID(c),
		TransactionID: c.Param("transaction_id"),
		Level:         req.Level,
		ApproverID:    middleware.UserID(c),
		Decision:      transaction.ValidationStatus(req.Decision),
		Reason:        req.Reason,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type reasonReq struct {
	Reason string `json:"reason" validate:"required,max=512"`
}

func (h *TransactionHandler) Cancel(c echo.Context) error {
	var req reasonReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	err := h.uc.Cancel(c.Request().Context(), lifecycle.CancelInput{
		TenantID:      middleware.TenantID(c),
		TransactionID: c.Param("transaction_id"),
		CancelledBy:   middleware.UserID(c),
		Reason:        req.Reason,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "CANCELLED"})
}

func (h *TransactionHandler) ForceLock(c echo.Context) error {
	var req reasonReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	err := h.uc.ForceLock(c.Request().Context(), lifecycle.ForceLockInput{
		TenantID:      middleware.TenantID(c),
		TransactionID: c.Param("transaction_id"),
		LockedBy:      middleware.UserID(c),
		Reason:        req.Reason,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"is_locked": true})
}

func (h *TransactionHandler) AuditTrail(c echo.Context) error {
	entries, err := h.uc.AuditTrail(c.Request().Context(), middleware.TenantID(c), c.Param("transaction_id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"entries": entries})
}
