package gatepass

import "time"

// Payload is the QR content. The serialized form of this struct is stored
// verbatim as the transaction's gate pass; validation compares presented
// payloads against it byte for byte, so it is never re-serialized.
type Payload struct {
	TransactionID string `json:"transactionId"`
	VehicleNumber string `json:"vehicleNumber"`
	GeneratedAt   string `json:"generatedAt"` // RFC 3339
	ExpiresAt     string `json:"expiresAt"`   // RFC 3339
	Nonce         string `json:"nonce"`
}

func (p Payload) complete() bool {
	return p.TransactionID != "" && p.VehicleNumber != "" &&
		p.GeneratedAt != "" && p.ExpiresAt != "" && p.Nonce != ""
}

type GenerateInput struct {
	TenantID      string
	TransactionID string
	GeneratedBy   string
	ValidityHours int
}

type GatePassDTO struct {
	TransactionID string    `json:"transaction_id"`
	QRPayload     string    `json:"qr_payload"`
	QRImage       []byte    `json:"qr_image"` // PNG, base64 over the wire
	ExpiresAt     time.Time `json:"expires_at"`
	CurrentLevel  int       `json:"current_level"`
}

type ValidateInput struct {
	TenantID    string
	QRPayload   string
	RequestedBy string
}

type ValidationResult struct {
	Valid                      bool   `json:"valid"`
	Reason                     string `json:"reason,omitempty"`
	RequiresSupervisorOverride bool   `json:"requires_supervisor_override,omitempty"`
	TransactionID              string `json:"transaction_id,omitempty"`
}

type ExitInput struct {
	TenantID           string
	TransactionID      string
	UserID             string
	SupervisorOverride bool
}

type OverrideInput struct {
	TenantID      string
	TransactionID string
	SupervisorID  string
	Justification string
}
