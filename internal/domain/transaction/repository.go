package transaction

import "context"

type Repository interface {
	Create(ctx context.Context, t *Transaction) error
	// Reads are tenant-scoped: a mismatched tenant behaves like a missing row.
	GetByTransactionID(ctx context.Context, tenantID, transactionID string) (*Transaction, error)
	GetByTransactionIDForUpdate(ctx context.Context, tenantID, transactionID string) (*Transaction, error)
	GetByTenantNumber(ctx context.Context, tenantID, transactionNumber string) (*Transaction, error)
	// GetAnyByTransactionID skips the tenant filter; it exists only so the
	// evidence ledger can tell a cross-tenant capture (forbidden) apart
	// from a missing transaction.
	GetAnyByTransactionID(ctx context.Context, transactionID string) (*Transaction, error)
	Save(ctx context.Context, t *Transaction) error

	CreateLevel(ctx context.Context, rec *LevelRecord) error
	SaveLevel(ctx context.Context, rec *LevelRecord) error
	GetLevel(ctx context.Context, transactionRef uint64, level int) (*LevelRecord, error)
	ListLevels(ctx context.Context, transactionRef uint64) ([]LevelRecord, error)
}
