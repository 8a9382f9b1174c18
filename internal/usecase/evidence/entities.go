package evidence

import (
	"time"

	domain "scrapgate/internal/domain/evidence"
)

type CreateInput struct {
	TenantID         string // capturing user's tenant
	TransactionID    string
	CapturedBy       string
	OperationalLevel int
	EvidenceType     domain.Type
	File             []byte // optional payload; hashed and sized when present
	FileName         string
	Metadata         map[string]any // caller GPS/device fields, preserved
}

type EvidenceDTO struct {
	EvidenceID       string    `json:"evidence_id"`
	TransactionID    string    `json:"transaction_id"`
	OperationalLevel int       `json:"operational_level"`
	EvidenceType     string    `json:"evidence_type"`
	FilePath         string    `json:"file_path,omitempty"`
	FileHash         string    `json:"file_hash,omitempty"`
	FileSize         int64     `json:"file_size,omitempty"`
	Metadata         string    `json:"metadata"`
	CapturedAt       time.Time `json:"captured_at"`
	Verified         bool      `json:"verified"`
}

type BackdatingInput struct {
	TenantID          string
	TransactionID     string
	OperationalLevel  int
	ProposedTimestamp time.Time
	RequestedBy       string
}
