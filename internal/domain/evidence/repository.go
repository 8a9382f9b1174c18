package evidence

import "context"

// Repository is append-only: no Update or Delete exists anywhere in the
// contract, which is what makes the ledger immutable by construction.
type Repository interface {
	Create(ctx context.Context, e *Evidence) error
	GetByEvidenceID(ctx context.Context, evidenceID string) (*Evidence, error)
	// ListByTransaction returns rows in insertion order. CapturedAt is
	// server-set so this is the capture sequence; re-sorting by timestamp
	// would hide a backdated row from chronology checks.
	ListByTransaction(ctx context.Context, transactionID string) ([]Evidence, error)
	ListByTransactionLevel(ctx context.Context, transactionID string, level int) ([]Evidence, error)
}
