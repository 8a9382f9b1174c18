package audit

import "time"

// Domain event actions recorded in the audit trail.
const (
	ActionTransactionCreated     = "TRANSACTION_CREATED"
	ActionLevelCompleted         = "LEVEL_COMPLETED"
	ActionGrossWeightCaptured    = "GROSS_WEIGHT_CAPTURED"
	ActionTareWeightCaptured     = "TARE_WEIGHT_CAPTURED"
	ActionInspectionCompleted    = "INSPECTION_COMPLETED"
	ActionInspectionRejected     = "INSPECTION_REJECTED"
	ActionGRNGenerated           = "GRN_GENERATED"
	ActionLevelApproved          = "LEVEL_APPROVED"
	ActionLevelRejected          = "LEVEL_REJECTED"
	ActionTransactionCancelled   = "TRANSACTION_CANCELLED"
	ActionTransactionForceLocked = "TRANSACTION_FORCE_LOCKED"

	ActionEvidenceCaptured        = "EVIDENCE_CAPTURED"
	ActionEvidenceVerified        = "EVIDENCE_VERIFIED"
	ActionEvidenceDeletionBlocked = "EVIDENCE_DELETION_BLOCKED"
	ActionChronologyViolation     = "EVIDENCE_CHRONOLOGY_VIOLATION"
	ActionBackdatingBlocked       = "EVIDENCE_BACKDATING_BLOCKED"

	ActionGatePassGenerated       = "GATE_PASS_GENERATED"
	ActionGatePassTamperDetected  = "GATE_PASS_TAMPER_DETECTED"
	ActionVehicleExitCompleted    = "VEHICLE_EXIT_COMPLETED"
	ActionVehicleExitOverride     = "VEHICLE_EXIT_SUPERVISOR_OVERRIDE"
	ActionOverrideExpiredGatePass = "SUPERVISOR_OVERRIDE_EXPIRED_GATE_PASS"
)

type Severity string

const (
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

// Entry tracks who did what, and when. Rows are never updated or deleted.
type Entry struct {
	ID            uint64    `gorm:"primaryKey;column:id" json:"-"`
	EntryID       string    `gorm:"size:32;uniqueIndex:ux_audit_entry_id" json:"entry_id"`
	TenantID      string    `gorm:"size:32;index" json:"tenant_id"`
	UserID        string    `gorm:"size:32;index" json:"user_id"`
	TransactionID string    `gorm:"size:32;index:idx_audit_transaction" json:"transaction_id,omitempty"`
	Action        string    `gorm:"size:64;not null;index" json:"action"`
	EntityType    string    `gorm:"size:32" json:"entity_type"`
	EntityID      string    `gorm:"size:64" json:"entity_id"`
	OldValues     string    `gorm:"type:json" json:"old_values,omitempty"`
	NewValues     string    `gorm:"type:json" json:"new_values,omitempty"`
	Severity      Severity  `gorm:"type:enum('LOW','MEDIUM','HIGH');default:'LOW'" json:"severity"`
	IsSensitive   bool      `gorm:"not null;default:false" json:"is_sensitive"`
	CreatedAt     time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (Entry) TableName() string { return "audit_log" }
