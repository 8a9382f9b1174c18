package http

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"scrapgate/internal/adapter/middleware"
)

// Handlers bundles everything RegisterRoutes needs.
type Handlers struct {
	Base        *Handler
	Transaction *TransactionHandler
	Weighbridge *WeighbridgeHandler
	Evidence    *EvidenceHandler
	GatePass    *GatePassHandler
	Vehicle     *VehicleHandler

	// Idempotency wraps mutating routes; nil disables it (tests).
	Idempotency echo.MiddlewareFunc
}

func RegisterRoutes(e *echo.Echo, h Handlers) {
	e.HideBanner = true
	e.Validator = NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	e.GET("/health", h.Base.Health)

	api := e.Group("/api/v1", middleware.TenantContext())

	mws := []echo.MiddlewareFunc{}
	if h.Idempotency != nil {
		mws = append(mws, h.Idempotency)
	}

	tx := api.Group("/transactions", mws...)
	tx.POST("", h.Transaction.Create)
	tx.GET("/:transaction_id", h.Transaction.Get)
	tx.POST("/:transaction_id/levels/:level", h.Transaction.CompleteLevel)
	tx.POST("/:transaction_id/weights/gross", h.Weighbridge.CaptureGross)
	tx.POST("/:transaction_id/weights/tare", h.Weighbridge.CaptureTare)
	tx.POST("/:transaction_id/inspection", h.Transaction.RecordInspection)
	tx.POST("/:transaction_id/grn", h.Transaction.GenerateGRN)
	tx.POST("/:transaction_id/approve-level", h.Transaction.ApproveLevel)
	tx.POST("/:transaction_id/cancel", h.Transaction.Cancel)
	tx.POST("/:transaction_id/force-lock", h.Transaction.ForceLock)
	tx.GET("/:transaction_id/audit", h.Transaction.AuditTrail)

	tx.POST("/:transaction_id/evidence", h.Evidence.Capture)
	tx.GET("/:transaction_id/evidence", h.Evidence.List)
	tx.GET("/:transaction_id/evidence/chronology", h.Evidence.Chronology)
	tx.POST("/:transaction_id/evidence/backdating-check", h.Evidence.CheckBackdating)

	tx.POST("/:transaction_id/gate-pass", h.GatePass.Generate)
	tx.POST("/:transaction_id/exit", h.GatePass.Exit)
	tx.POST("/:transaction_id/exit/override", h.GatePass.OverrideExpired)

	ev := api.Group("/evidence", mws...)
	ev.GET("/:evidence_id/verify", h.Evidence.Verify)
	ev.DELETE("/:evidence_id", h.Evidence.Delete)

	gp := api.Group("/gate-pass", mws...)
	gp.POST("/validate", h.GatePass.Validate)

	veh := api.Group("/vehicles", mws...)
	veh.POST("", h.Vehicle.Register)
	veh.GET("/:vehicle_id", h.Vehicle.Get)
	veh.GET("/:vehicle_id/visits", h.Vehicle.Visits)
}
