package transactionmock

import (
	"context"

	domain "scrapgate/internal/domain/transaction"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Fill in the function fields a test needs; unfilled reads act like a miss.
type Repo struct {
	CreateFn                      func(ctx context.Context, t *domain.Transaction) error
	GetByTransactionIDFn          func(ctx context.Context, tenantID, transactionID string) (*domain.Transaction, error)
	GetByTransactionIDForUpdateFn func(ctx context.Context, tenantID, transactionID string) (*domain.Transaction, error)
	GetByTenantNumberFn           func(ctx context.Context, tenantID, transactionNumber string) (*domain.Transaction, error)
	GetAnyByTransactionIDFn       func(ctx context.Context, transactionID string) (*domain.Transaction, error)
	SaveFn                        func(ctx context.Context, t *domain.Transaction) error
	CreateLevelFn                 func(ctx context.Context, rec *domain.LevelRecord) error
	SaveLevelFn                   func(ctx context.Context, rec *domain.LevelRecord) error
	GetLevelFn                    func(ctx context.Context, transactionRef uint64, level int) (*domain.LevelRecord, error)
	ListLevelsFn                  func(ctx context.Context, transactionRef uint64) ([]domain.LevelRecord, error)
}

func (m *Repo) Create(ctx context.Context, t *domain.Transaction) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, t)
	}
	return nil
}

func (m *Repo) GetByTransactionID(ctx context.Context, tenantID, transactionID string) (*domain.Transaction, error) {
	if m.GetByTransactionIDFn != nil {
		return m.GetByTransactionIDFn(ctx, tenantID, transactionID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByTransactionIDForUpdate(ctx context.Context, tenantID, transactionID string) (*domain.Transaction, error) {
	if m.GetByTransactionIDForUpdateFn != nil {
		return m.GetByTransactionIDForUpdateFn(ctx, tenantID, transactionID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByTenantNumber(ctx context.Context, tenantID, transactionNumber string) (*domain.Transaction, error) {
	if m.GetByTenantNumberFn != nil {
		return m.GetByTenantNumberFn(ctx, tenantID, transactionNumber)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetAnyByTransactionID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	if m.GetAnyByTransactionIDFn != nil {
		return m.GetAnyByTransactionIDFn(ctx, transactionID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) Save(ctx context.Context, t *domain.Transaction) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, t)
	}
	return nil
}

func (m *Repo) CreateLevel(ctx context.Context, rec *domain.LevelRecord) error {
	if m.CreateLevelFn != nil {
		return m.CreateLevelFn(ctx, rec)
	}
	return nil
}

func (m *Repo) SaveLevel(ctx context.Context, rec *domain.LevelRecord) error {
	if m.SaveLevelFn != nil {
		return m.SaveLevelFn(ctx, rec)
	}
	return nil
}

func (m *Repo) GetLevel(ctx context.Context, transactionRef uint64, level int) (*domain.LevelRecord, error) {
	if m.GetLevelFn != nil {
		return m.GetLevelFn(ctx, transactionRef, level)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) ListLevels(ctx context.Context, transactionRef uint64) ([]domain.LevelRecord, error) {
	if m.ListLevelsFn != nil {
		return m.ListLevelsFn(ctx, transactionRef)
	}
	return nil, nil
}
