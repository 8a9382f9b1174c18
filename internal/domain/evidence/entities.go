package evidence

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("evidence not found")

	// ErrForbidden: the capturing user and the owning transaction belong to
	// different tenants.
	ErrForbidden = errors.New("evidence capture forbidden for tenant")

	// ErrDeletionNotAllowed: evidence rows are immutable, deletion always
	// fails and the attempt itself is audited.
	ErrDeletionNotAllowed = errors.New("evidence deletion not allowed")
)

type Type string

const (
	TypePhoto             Type = "PHOTO"
	TypeDocument          Type = "DOCUMENT"
	TypeWeighbridgeTicket Type = "WEIGHBRIDGE_TICKET"
	TypeInspectionReport  Type = "INSPECTION_REPORT"
	TypeGatePass          Type = "GATE_PASS"
)

func (t Type) Valid() bool {
	switch t {
	case TypePhoto, TypeDocument, TypeWeighbridgeTicket, TypeInspectionReport, TypeGatePass:
		return true
	}
	return false
}

// Photographic reports whether the type satisfies the manual weighbridge
// entry requirement (a reading without a camera artifact is rejected).
func (t Type) Photographic() bool {
	return t == TypePhoto || t == TypeWeighbridgeTicket
}

// Evidence is an immutable captured artifact. No field changes after Create;
// the repository deliberately exposes no Update or Delete.
type Evidence struct {
	ID               uint64    `gorm:"primaryKey;column:id" json:"-"`
	EvidenceID       string    `gorm:"size:32;uniqueIndex:ux_evidence_evidence_id" json:"evidence_id"`
	TransactionID    string    `gorm:"size:32;index:idx_evidence_transaction" json:"transaction_id"`
	TenantID         string    `gorm:"size:32;index" json:"tenant_id"`
	CapturedBy       string    `gorm:"size:32" json:"captured_by"`
	OperationalLevel int       `gorm:"not null" json:"operational_level"`
	EvidenceType     Type      `gorm:"type:enum('PHOTO','DOCUMENT','WEIGHBRIDGE_TICKET','INSPECTION_REPORT','GATE_PASS')" json:"evidence_type"`
	FilePath         string    `gorm:"type:text" json:"file_path"`
	FileHash         string    `gorm:"size:64" json:"file_hash"` // SHA-256, 64 hex chars
	FileSize         int64     `json:"file_size"`
	Metadata         string    `gorm:"type:json" json:"metadata"`
	CapturedAt       time.Time `gorm:"not null" json:"captured_at"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"-"`
}

func (Evidence) TableName() string { return "evidence" }
