package evidencemock

import (
	"context"

	domain "scrapgate/internal/domain/evidence"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn                 func(ctx context.Context, e *domain.Evidence) error
	GetByEvidenceIDFn        func(ctx context.Context, evidenceID string) (*domain.Evidence, error)
	ListByTransactionFn      func(ctx context.Context, transactionID string) ([]domain.Evidence, error)
	ListByTransactionLevelFn func(ctx context.Context, transactionID string, level int) ([]domain.Evidence, error)
}

func (m *Repo) Create(ctx context.Context, e *domain.Evidence) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, e)
	}
	return nil
}

func (m *Repo) GetByEvidenceID(ctx context.Context, evidenceID string) (*domain.Evidence, error) {
	if m.GetByEvidenceIDFn != nil {
		return m.GetByEvidenceIDFn(ctx, evidenceID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) ListByTransaction(ctx context.Context, transactionID string) ([]domain.Evidence, error) {
	if m.ListByTransactionFn != nil {
		return m.ListByTransactionFn(ctx, transactionID)
	}
	return nil, nil
}

func (m *Repo) ListByTransactionLevel(ctx context.Context, transactionID string, level int) ([]domain.Evidence, error) {
	if m.ListByTransactionLevelFn != nil {
		return m.ListByTransactionLevelFn(ctx, transactionID, level)
	}
	return nil, nil
}
