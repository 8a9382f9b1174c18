package http

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"scrapgate/internal/adapter/middleware"
	evdDomain "scrapgate/internal/domain/evidence"
	"scrapgate/internal/usecase/evidence"
)

type EvidenceHandler struct{ uc *evidence.Usecase }

func NewEvidenceHandler(uc *evidence.Usecase) *EvidenceHandler {
	return &EvidenceHandler{uc: uc}
}

type captureEvidenceReq struct {
	OperationalLevel int            `json:"operational_level" validate:"required,gte=1,lte=7"`
	EvidenceType     string         `json:"evidence_type"     validate:"required"`
	FileBase64       string         `json:"file_base64"`
	FileName         string         `json:"file_name"`
	Metadata         map[string]any `json:"metadata"`
}

func (h *EvidenceHandler) Capture(c echo.Context) error {
	var req captureEvidenceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	evType := evdDomain.Type(strings.ToUpper(req.EvidenceType))
	if !evType.Valid() {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown evidence type"})
	}
	var file []byte
	if req.FileBase64 != "" {
		decoded, err := base64.StdEncoding.DecodeString(req.FileBase64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "file_base64 is not valid base64"})
		}
		file = decoded
	}
	dto, err := h.uc.Create(c.Request().Context(), evidence.CreateInput{
		TenantID:         middleware.TenantID(c),
		TransactionID:    c.Param("transaction_id"),
		CapturedBy:       middleware.UserID(c),
		OperationalLevel: req.OperationalLevel,
		EvidenceType:     evType,
		File:             file,
		FileName:         req.FileName,
		Metadata:         req.Metadata,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *EvidenceHandler) List(c echo.Context) error {
	rows, err := h.uc.ListByTransaction(c.Request().Context(), middleware.TenantID(c), c.Param("transaction_id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"evidence": rows})
}

func (h *EvidenceHandler) Verify(c echo.Context) error {
	ok, err := h.uc.VerifyIntegrity(c.Request().Context(), middleware.TenantID(c), c.Param("evidence_id"), middleware.UserID(c))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"verified": ok})
}

func (h *EvidenceHandler) Chronology(c echo.Context) error {
	ok, err := h.uc.ValidateChronology(c.Request().Context(), middleware.TenantID(c), c.Param("transaction_id"), middleware.UserID(c))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"chronology_valid": ok})
}

type backdatingReq struct {
	OperationalLevel  int    `json:"operational_level"  validate:"required,gte=1,lte=7"`
	ProposedTimestamp string `json:"proposed_timestamp" validate:"required"`
}

func (h *EvidenceHandler) CheckBackdating(c echo.Context) error {
	var req backdatingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	ts, err := parseRFC3339(req.ProposedTimestamp)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "proposed_timestamp must be RFC 3339"})
	}
	ok, err := h.uc.PreventBackdating(c.Request().Context(), evidence.BackdatingInput{
		TenantID:          middleware.TenantID(c),
		TransactionID:     c.Param("transaction_id"),
		OperationalLevel:  req.OperationalLevel,
		ProposedTimestamp: ts,
		RequestedBy:       middleware.UserID(c),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"allowed": ok})
}

// Delete always refuses; the refusal itself is audited by the usecase.
func (h *EvidenceHandler) Delete(c echo.Context) error {
	err := h.uc.Delete(c.Request().Context(), middleware.TenantID(c), c.Param("evidence_id"), middleware.UserID(c))
	return writeDomainError(c, err)
}
