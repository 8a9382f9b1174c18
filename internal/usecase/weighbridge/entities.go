package weighbridge

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReadingInput is one manual weighbridge entry. The hardware link is not
// implemented; manual entry with photographic evidence is the only path.
type ReadingInput struct {
	TenantID      string
	TransactionID string
	OperatorID    string
	Weight        decimal.Decimal
	Timestamp     time.Time
	TicketURL     string
	Notes         string
}

type WeighingDTO struct {
	TransactionID         string              `json:"transaction_id"`
	CurrentLevel          int                 `json:"current_level"`
	GrossWeight           decimal.NullDecimal `json:"gross_weight"`
	TareWeight            decimal.NullDecimal `json:"tare_weight"`
	NetWeight             decimal.NullDecimal `json:"net_weight"`
	DiscrepancyPercentage decimal.NullDecimal `json:"discrepancy_percentage"`
	RequiresApproval      bool                `json:"requires_supervisor_approval"`
	ValidationStatus      string              `json:"validation_status"`
}
