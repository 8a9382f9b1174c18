package audit

import "context"

// Repository is a pure sink plus a read side; update and delete do not exist.
type Repository interface {
	Create(ctx context.Context, e *Entry) error
	ListByTransaction(ctx context.Context, transactionID string) ([]Entry, error)
}
