package auditmock

import (
	"context"
	"sync"

	domain "scrapgate/internal/domain/audit"
)

var _ domain.Repository = (*Repo)(nil)

// Repo records every entry it receives; most tests only assert on Entries.
type Repo struct {
	mu       sync.Mutex
	Entries  []domain.Entry
	CreateFn func(ctx context.Context, e *domain.Entry) error
	ListFn   func(ctx context.Context, transactionID string) ([]domain.Entry, error)
}

func (m *Repo) Create(ctx context.Context, e *domain.Entry) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, e)
	}
	m.mu.Lock()
	m.Entries = append(m.Entries, *e)
	m.mu.Unlock()
	return nil
}

func (m *Repo) ListByTransaction(ctx context.Context, transactionID string) ([]domain.Entry, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, transactionID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Entry, 0, len(m.Entries))
	for _, e := range m.Entries {
		if e.TransactionID == transactionID {
			out = append(out, e)
		}
	}
	return out, nil
}

// ByAction returns recorded entries matching the action, in order.
func (m *Repo) ByAction(action string) []domain.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Entry
	for _, e := range m.Entries {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out
}
