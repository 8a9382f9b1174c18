package transaction

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
)

// Terminal reports whether the status closes the transaction for good.
func (s Status) Terminal() bool { return s != StatusActive }

// Operational levels, in pipeline order. CurrentLevel on a transaction is
// the highest level completed so far.
const (
	LevelGateEntry            = 1
	LevelDocumentVerification = 2
	LevelGrossWeight          = 3
	LevelMaterialInspection   = 4
	LevelTareWeight           = 5
	LevelGRNGeneration        = 6
	LevelGatePassExit         = 7
)

type ValidationStatus string

const (
	ValidationPending  ValidationStatus = "PENDING"
	ValidationApproved ValidationStatus = "APPROVED"
	ValidationRejected ValidationStatus = "REJECTED"
)

type Grade string

const (
	GradeA        Grade = "A"
	GradeB        Grade = "B"
	GradeC        Grade = "C"
	GradeRejected Grade = "REJECTED"
)

func (g Grade) Valid() bool {
	switch g {
	case GradeA, GradeB, GradeC, GradeRejected:
		return true
	}
	return false
}

type Transaction struct {
	ID                uint64 `gorm:"primaryKey;column:id" json:"-"`
	TransactionID     string `gorm:"size:32;uniqueIndex:ux_transactions_txn_id_active" json:"transaction_id"`
	TenantID          string `gorm:"size:32;index:idx_transactions_tenant;uniqueIndex:ux_transactions_tenant_number,priority:1" json:"tenant_id"`
	FactoryID         string `gorm:"size:32" json:"factory_id"`
	VendorID          string `gorm:"size:32" json:"vendor_id"`
	VendorName        string `gorm:"size:128" json:"vendor_name"`
	FactoryName       string `gorm:"size:128" json:"factory_name"`
	VehicleID         string `gorm:"size:32;index" json:"vehicle_id"`
	TransactionNumber string `gorm:"size:64;uniqueIndex:ux_transactions_tenant_number,priority:2" json:"transaction_number"`

	CurrentLevel int    `gorm:"not null;default:1" json:"current_level"`
	Status       Status `gorm:"type:enum('ACTIVE','COMPLETED','REJECTED','CANCELLED');default:'ACTIVE'" json:"status"`
	IsLocked     bool   `gorm:"not null;default:false" json:"is_locked"`
	LockReason   string `gorm:"type:text" json:"-"`

	// Weighbridge capture. Weights in kilograms, decimal(12,3).
	GrossWeight          decimal.NullDecimal `gorm:"type:decimal(12,3)" json:"gross_weight"`
	TareWeight           decimal.NullDecimal `gorm:"type:decimal(12,3)" json:"tare_weight"`
	NetWeight            decimal.NullDecimal `gorm:"type:decimal(12,3)" json:"net_weight"`
	DiscrepancyPct       decimal.NullDecimal `gorm:"type:decimal(8,4)" json:"discrepancy_percentage"`
	RequiresApproval     bool                `gorm:"not null;default:false" json:"requires_supervisor_approval"`
	GrossWeightAt        *time.Time          `json:"gross_weight_timestamp"`
	TareWeightAt         *time.Time          `json:"tare_weight_timestamp"`
	GrossWeightOperator  string              `gorm:"size:32" json:"gross_weight_operator"`
	TareWeightOperator   string              `gorm:"size:32" json:"tare_weight_operator"`
	WeighbridgeTicketURL string              `gorm:"type:text" json:"weighbridge_ticket_url"`

	GRNNumber string `gorm:"size:64" json:"grn_number"`

	// Gate pass. GatePassQRCode holds the exact serialized payload string;
	// validation compares presented payloads against it byte for byte.
	GatePassQRCode    string     `gorm:"type:text" json:"-"`
	GatePassExpiresAt *time.Time `json:"gate_pass_expires_at"`

	CompletedAt    *time.Time     `json:"completed_at"`
	StateUpdatedAt time.Time      `gorm:"autoCreateTime" json:"state_updated_at"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Transaction) TableName() string { return "transactions" }

// EnsureMutable rejects writes to locked or terminal transactions.
func (t *Transaction) EnsureMutable() error {
	if t.IsLocked || t.Status.Terminal() {
		return ErrLocked
	}
	return nil
}

// EnsureCompletedLevel rejects an operation whose predecessor level is not
// the current one. required is the level the caller must have completed.
func (t *Transaction) EnsureCompletedLevel(required int) error {
	if t.CurrentLevel != required {
		return &InvalidTransitionError{RequiredLevel: required, CurrentLevel: t.CurrentLevel}
	}
	return nil
}

// LevelRecord is one completed level of a transaction. Rows are append-only;
// only ValidationStatus and Notes change afterwards (supervisor decisions).
type LevelRecord struct {
	ID               uint64           `gorm:"primaryKey;column:id" json:"-"`
	TransactionRef   uint64           `gorm:"column:transaction_ref;not null;uniqueIndex:ux_levels_txn_level,priority:1" json:"-"`
	Level            int              `gorm:"not null;uniqueIndex:ux_levels_txn_level,priority:2" json:"level"`
	FieldValues      string           `gorm:"type:json" json:"field_values"`
	CompletedBy      string           `gorm:"size:32" json:"completed_by"`
	CompletedAt      time.Time        `json:"completed_at"`
	EvidenceIDs      string           `gorm:"type:json" json:"evidence_ids"`
	ValidationStatus ValidationStatus `gorm:"type:enum('PENDING','APPROVED','REJECTED');default:'PENDING'" json:"validation_status"`
	Notes            string           `gorm:"type:text" json:"notes"`
	CreatedAt        time.Time        `gorm:"autoCreateTime" json:"-"`
	UpdatedAt        time.Time        `gorm:"autoUpdateTime" json:"-"`
}

func (LevelRecord) TableName() string { return "transaction_levels" }

// EncodeIDs serializes evidence ids for the EvidenceIDs JSON column.
func EncodeIDs(ids []string) string {
	if len(ids) == 0 {
		return "[]"
	}
	b, _ := json.Marshal(ids)
	return string(b)
}

// DecodeIDs is the inverse of EncodeIDs; malformed input yields nil.
func DecodeIDs(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}
