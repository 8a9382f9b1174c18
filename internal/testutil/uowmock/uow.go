package uowmock

import (
	"context"
	"errors"

	"scrapgate/internal/domain/transaction"
	"scrapgate/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn            func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinTransactionTxFn func(ctx context.Context, tenantID, transactionID string, fn func(r uow.Repos, t *transaction.Transaction) error) error
}

func New() *UoW { return &UoW{} }

// Passthrough builds a UoW that runs callbacks directly against the given
// repos, locking the supplied transaction row. Covers most usecase tests.
func Passthrough(r uow.Repos, rows ...*transaction.Transaction) *UoW {
	find := func(tenantID, transactionID string) *transaction.Transaction {
		for _, t := range rows {
			if t.TransactionID == transactionID && t.TenantID == tenantID {
				return t
			}
		}
		return nil
	}
	return &UoW{
		WithinTxFn: func(ctx context.Context, fn func(r uow.Repos) error) error {
			return fn(r)
		},
		WithinTransactionTxFn: func(ctx context.Context, tenantID, transactionID string, fn func(r uow.Repos, t *transaction.Transaction) error) error {
			t := find(tenantID, transactionID)
			if t == nil {
				return transaction.ErrNotFound
			}
			return fn(r, t)
		},
	}
}

func (m *UoW) Reset() { *m = UoW{} }

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinTransactionTx(ctx context.Context, tenantID, transactionID string, fn func(r uow.Repos, t *transaction.Transaction) error) error {
	if m.WithinTransactionTxFn != nil {
		return m.WithinTransactionTxFn(ctx, tenantID, transactionID, fn)
	}
	return errUnimplemented
}
