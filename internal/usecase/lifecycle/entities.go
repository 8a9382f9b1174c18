package lifecycle

import (
	"time"

	"github.com/shopspring/decimal"

	"scrapgate/internal/domain/transaction"
)

type CreateInput struct {
	TenantID          string
	FactoryID         string
	FactoryName       string
	VendorID          string
	VendorName        string
	VehicleID         string
	TransactionNumber string
	CreatedBy         string
	GateEntryFields   map[string]any // free-form level-1 field values
	Notes             string
}

type CompleteLevelInput struct {
	TenantID      string
	TransactionID string
	Level         int
	CompletedBy   string
	FieldValues   map[string]any
	Notes         string
}

type InspectionInput struct {
	TenantID        string
	TransactionID   string
	InspectorID     string
	Grade           transaction.Grade
	RejectionReason string
	FieldValues     map[string]any
	Notes           string
}

type GRNInput struct {
	TenantID      string
	TransactionID string
	GeneratedBy   string
	FieldValues   map[string]any
	Notes         string
}

type ApproveLevelInput struct {
	TenantID      string
	TransactionID string
	Level         int
	ApproverID    string
	Decision      transaction.ValidationStatus // APPROVED or REJECTED
	Reason        string
}

type CancelInput struct {
	TenantID      string
	TransactionID string
	CancelledBy   string
	Reason        string
}

type ForceLockInput struct {
	TenantID      string
	TransactionID string
	LockedBy      string
	Reason        string
}

type LevelDTO struct {
	Level            int       `json:"level"`
	FieldValues      string    `json:"field_values"`
	CompletedBy      string    `json:"completed_by"`
	CompletedAt      time.Time `json:"completed_at"`
	EvidenceIDs      []string  `json:"evidence_ids"`
	ValidationStatus string    `json:"validation_status"`
	Notes            string    `json:"notes,omitempty"`
}

type TransactionDTO struct {
	TransactionID     string              `json:"transaction_id"`
	TenantID          string              `json:"tenant_id"`
	FactoryID         string              `json:"factory_id"`
	VendorID          string              `json:"vendor_id"`
	VehicleID         string              `json:"vehicle_id"`
	TransactionNumber string              `json:"transaction_number"`
	CurrentLevel      int                 `json:"current_level"`
	Status            string              `json:"status"`
	IsLocked          bool                `json:"is_locked"`
	GRNNumber         string              `json:"grn_number,omitempty"`
	GrossWeight       decimal.NullDecimal `json:"gross_weight"`
	TareWeight        decimal.NullDecimal `json:"tare_weight"`
	NetWeight         decimal.NullDecimal `json:"net_weight"`
	GatePassExpiresAt *time.Time          `json:"gate_pass_expires_at,omitempty"`
	CompletedAt       *time.Time          `json:"completed_at,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
	Levels            []LevelDTO          `json:"levels,omitempty"`
}
