package mysql

import (
	"context"

	"gorm.io/gorm"

	txDomain "scrapgate/internal/domain/transaction"
	"scrapgate/internal/domain/uow"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func repos(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Transactions: &TransactionRepository{db: tx},
		Evidence:     &EvidenceRepository{db: tx},
		Audits:       &AuditRepository{db: tx},
		Vehicles:     &VehicleRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(repos(tx))
	})
}

func (u *GormUoW) WithinTransactionTx(ctx context.Context, tenantID, transactionID string, fn func(r uow.Repos, t *txDomain.Transaction) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := repos(tx)
		// lock the transaction row up-front to prevent races
		t, err := r.Transactions.GetByTransactionIDForUpdate(ctx, tenantID, transactionID)
		if err != nil {
			return txDomain.ErrNotFound
		}
		return fn(r, t)
	})
}
