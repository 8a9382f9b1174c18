package uow

import (
	"context"

	"scrapgate/internal/domain/audit"
	"scrapgate/internal/domain/evidence"
	"scrapgate/internal/domain/transaction"
	"scrapgate/internal/domain/vehicle"
)

type Repos struct {
	Transactions transaction.Repository
	Evidence     evidence.Repository
	Audits       audit.Repository
	Vehicles     vehicle.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the transaction row up-front, then pass it in.
	// Level guards run while the row is held, so a concurrent second writer
	// blocks here and then fails its guard instead of racing.
	WithinTransactionTx(ctx context.Context, tenantID, transactionID string, fn func(r Repos, t *transaction.Transaction) error) error
}
