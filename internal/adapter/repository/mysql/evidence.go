package mysql

import (
	"context"

	"gorm.io/gorm"

	evidenceDomain "scrapgate/internal/domain/evidence"
)

// EvidenceRepository is append-only on purpose: it implements no Update or
// Delete, matching the domain contract.
type EvidenceRepository struct{ db *gorm.DB }

func NewEvidenceRepository(db *gorm.DB) *EvidenceRepository { return &EvidenceRepository{db: db} }

func (r *EvidenceRepository) Create(ctx context.Context, e *evidenceDomain.Evidence) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *EvidenceRepository) GetByEvidenceID(ctx context.Context, evidenceID string) (*evidenceDomain.Evidence, error) {
	var out evidenceDomain.Evidence
	res := r.db.WithContext(ctx).
		Where("evidence_id = ?", evidenceID).
		First(&out)
	return &out, res.Error
}

// ListByTransaction returns rows in insertion order, not captured_at order.
// CapturedAt is server-set, so insertion order is the capture sequence and a
// row stamped earlier than its predecessor stays visible as out of order.
func (r *EvidenceRepository) ListByTransaction(ctx context.Context, transactionID string) ([]evidenceDomain.Evidence, error) {
	var out []evidenceDomain.Evidence
	res := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}

func (r *EvidenceRepository) ListByTransactionLevel(ctx context.Context, transactionID string, level int) ([]evidenceDomain.Evidence, error) {
	var out []evidenceDomain.Evidence
	res := r.db.WithContext(ctx).
		Where("transaction_id = ? AND operational_level = ?", transactionID, level).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}
