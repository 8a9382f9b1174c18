package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	txDomain "scrapgate/internal/domain/transaction"
)

type TransactionRepository struct{ db *gorm.DB }

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, t *txDomain.Transaction) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TransactionRepository) Save(ctx context.Context, t *txDomain.Transaction) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *TransactionRepository) GetByTransactionID(ctx context.Context, tenantID, transactionID string) (*txDomain.Transaction, error) {
	var out txDomain.Transaction
	res := r.db.WithContext(ctx).
		Where("tenant_id = ? AND transaction_id = ?", tenantID, transactionID).
		First(&out)
	return &out, res.Error
}

func (r *TransactionRepository) GetByTransactionIDForUpdate(ctx context.Context, tenantID, transactionID string) (*txDomain.Transaction, error) {
	q := r.db.WithContext(ctx)
	// sqlite has no FOR UPDATE; its transactions lock the whole database
	if r.db.Dialector.Name() == "mysql" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var out txDomain.Transaction
	res := q.
		Where("tenant_id = ? AND transaction_id = ?", tenantID, transactionID).
		First(&out)
	return &out, res.Error
}

func (r *TransactionRepository) GetByTenantNumber(ctx context.Context, tenantID, transactionNumber string) (*txDomain.Transaction, error) {
	var out txDomain.Transaction
	res := r.db.WithContext(ctx).
		Where("tenant_id = ? AND transaction_number = ?", tenantID, transactionNumber).
		First(&out)
	return &out, res.Error
}

func (r *TransactionRepository) GetAnyByTransactionID(ctx context.Context, transactionID string) (*txDomain.Transaction, error) {
	var out txDomain.Transaction
	res := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		First(&out)
	return &out, res.Error
}

func (r *TransactionRepository) CreateLevel(ctx context.Context, rec *txDomain.LevelRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *TransactionRepository) SaveLevel(ctx context.Context, rec *txDomain.LevelRecord) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *TransactionRepository) GetLevel(ctx context.Context, transactionRef uint64, level int) (*txDomain.LevelRecord, error) {
	var out txDomain.LevelRecord
	res := r.db.WithContext(ctx).
		Where("transaction_ref = ? AND level = ?", transactionRef, level).
		First(&out)
	return &out, res.Error
}

func (r *TransactionRepository) ListLevels(ctx context.Context, transactionRef uint64) ([]txDomain.LevelRecord, error) {
	var out []txDomain.LevelRecord
	res := r.db.WithContext(ctx).
		Where("transaction_ref = ?", transactionRef).
		Order("level ASC").
		Find(&out)
	return out, res.Error
}
