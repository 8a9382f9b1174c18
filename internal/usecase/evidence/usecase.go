package evidence

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"scrapgate/internal/domain/audit"
	domain "scrapgate/internal/domain/evidence"
	"scrapgate/internal/domain/transaction"
	"scrapgate/internal/domain/uow"
	"scrapgate/pkg/clock"
	"scrapgate/pkg/id"
	"scrapgate/pkg/logger"
)

// BackdatingWindow is how far in the past a proposed capture timestamp may
// lie before it is treated as backdating.
const BackdatingWindow = 5 * time.Minute

type Usecase struct {
	uow         uow.UnitOfWork
	clk         clock.Clock
	version     string
	environment string
	log         logger.Logger
}

func NewUsecase(tx uow.UnitOfWork, clk clock.Clock, version, environment string, log logger.Logger) *Usecase {
	return &Usecase{uow: tx, clk: clk, version: version, environment: environment, log: log}
}

// Create appends an evidence record after verifying the capturing user and
// the owning transaction share a tenant. The record never changes afterwards.
func (u *Usecase) Create(ctx context.Context, in CreateInput) (*EvidenceDTO, error) {
	if in.CapturedBy == "" {
		return nil, transaction.Invalid("captured_by is required")
	}
	if !in.EvidenceType.Valid() {
		return nil, transaction.Invalid("unknown evidence type %q", in.EvidenceType)
	}
	if in.OperationalLevel < transaction.LevelGateEntry || in.OperationalLevel > transaction.LevelGatePassExit {
		return nil, transaction.Invalid("operational level must be between 1 and 7")
	}

	var dto *EvidenceDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		t, err := r.Transactions.GetAnyByTransactionID(ctx, in.TransactionID)
		if err != nil {
			return transaction.ErrNotFound
		}
		if t.TenantID != in.TenantID {
			return domain.ErrForbidden
		}

		now := u.clk.Now()
		rec := &domain.Evidence{
			EvidenceID:       id.NewID32(),
			TransactionID:    t.TransactionID,
			TenantID:         t.TenantID,
			CapturedBy:       in.CapturedBy,
			OperationalLevel: in.OperationalLevel,
			EvidenceType:     in.EvidenceType,
			Metadata:         u.enhanceMetadata(in.Metadata, now),
			CapturedAt:       now,
		}
		if len(in.File) > 0 {
			sum := sha256.Sum256(in.File)
			rec.FileHash = hex.EncodeToString(sum[:])
			rec.FileSize = int64(len(in.File))
			rec.FilePath = storagePath(t.TenantID, t.TransactionID, now, in.FileName)
		}
		if err := r.Evidence.Create(ctx, rec); err != nil {
			return err
		}

		entry := &audit.Entry{
			EntryID:       id.NewID32(),
			TenantID:      t.TenantID,
			UserID:        in.CapturedBy,
			TransactionID: t.TransactionID,
			Action:        audit.ActionEvidenceCaptured,
			EntityType:    "evidence",
			EntityID:      rec.EvidenceID,
			NewValues: mustJSON(map[string]any{
				"evidence_type": rec.EvidenceType,
				"level":         rec.OperationalLevel,
				"has_gps":       hasGPS(in.Metadata),
				"file_hash":     rec.FileHash,
			}),
			Severity:  audit.SeverityLow,
			CreatedAt: now,
		}
		if err := r.Audits.Create(ctx, entry); err != nil {
			return err
		}

		dto = evidenceDTO(rec, rec.FilePath != "" && rec.FileHash != "")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// enhanceMetadata overlays the reserved server-side keys onto whatever the
// caller supplied. Caller GPS/device fields are merged, never overwritten;
// captureInfo and systemInfo always reflect the server.
func (u *Usecase) enhanceMetadata(caller map[string]any, now time.Time) string {
	merged := map[string]any{}
	for k, v := range caller {
		merged[k] = v
	}
	merged["captureInfo"] = map[string]any{
		"timestamp": now.Format(time.RFC3339Nano),
		"timezone":  now.Location().String(),
	}
	merged["systemInfo"] = map[string]any{
		"version":         u.version,
		"environment":     u.environment,
		"serverTimestamp": now.Format(time.RFC3339Nano),
	}
	return mustJSON(merged)
}

// VerifyIntegrity reports whether a record carries both a file path and a
// hash. Re-hashing against stored bytes is the extension point; presence of
// both fields is the verification contract today.
func (u *Usecase) VerifyIntegrity(ctx context.Context, tenantID, evidenceID, requestedBy string) (bool, error) {
	var verified bool
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		rec, err := r.Evidence.GetByEvidenceID(ctx, evidenceID)
		if err != nil {
			return domain.ErrNotFound
		}
		if rec.TenantID != tenantID {
			return domain.ErrNotFound
		}
		if rec.FilePath == "" || rec.FileHash == "" {
			verified = false
			return nil
		}
		verified = true
		entry := &audit.Entry{
			EntryID:       id.NewID32(),
			TenantID:      rec.TenantID,
			UserID:        requestedBy,
			TransactionID: rec.TransactionID,
			Action:        audit.ActionEvidenceVerified,
			EntityType:    "evidence",
			EntityID:      rec.EvidenceID,
			NewValues:     mustJSON(map[string]any{"file_hash": rec.FileHash}),
			Severity:      audit.SeverityLow,
			CreatedAt:     u.clk.Now(),
		}
		return r.Audits.Create(ctx, entry)
	})
	if err != nil {
		return false, err
	}
	return verified, nil
}

// ValidateChronology walks a transaction's evidence in capture order and
// reports false when a timestamp precedes its predecessor or an operational
// level decreases. Empty and single-element sets are vacuously valid.
func (u *Usecase) ValidateChronology(ctx context.Context, tenantID, transactionID, requestedBy string) (bool, error) {
	valid := true
	var violation string
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.Transactions.GetByTransactionID(ctx, tenantID, transactionID); err != nil {
			return transaction.ErrNotFound
		}
		rows, err := r.Evidence.ListByTransaction(ctx, transactionID)
		if err != nil {
			return err
		}
		for i := 1; i < len(rows); i++ {
			prev, cur := rows[i-1], rows[i]
			if cur.CapturedAt.Before(prev.CapturedAt) {
				valid = false
				violation = fmt.Sprintf("evidence %s captured before predecessor %s", cur.EvidenceID, prev.EvidenceID)
				break
			}
			if cur.OperationalLevel < prev.OperationalLevel {
				valid = false
				violation = fmt.Sprintf("evidence %s level %d after level %d", cur.EvidenceID, cur.OperationalLevel, prev.OperationalLevel)
				break
			}
		}
		if valid {
			return nil
		}
		entry := &audit.Entry{
			EntryID:       id.NewID32(),
			TenantID:      tenantID,
			UserID:        requestedBy,
			TransactionID: transactionID,
			Action:        audit.ActionChronologyViolation,
			EntityType:    "transaction",
			EntityID:      transactionID,
			NewValues:     mustJSON(map[string]any{"violation": violation}),
			Severity:      audit.SeverityHigh,
			IsSensitive:   true,
			CreatedAt:     u.clk.Now(),
		}
		return r.Audits.Create(ctx, entry)
	})
	if err != nil {
		return false, err
	}
	return valid, nil
}

// PreventBackdating accepts a proposed capture timestamp only when it lies
// within [now - 5m, now]. Future-dated and stale timestamps are refused and
// the refusal is audited as a possible tampering signal.
func (u *Usecase) PreventBackdating(ctx context.Context, in BackdatingInput) (bool, error) {
	now := u.clk.Now()
	proposed := in.ProposedTimestamp.UTC()

	var reason string
	switch {
	case proposed.After(now):
		reason = "future-dated"
	case now.Sub(proposed) > BackdatingWindow:
		reason = "backdated beyond window"
	default:
		return true, nil
	}

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		entry := &audit.Entry{
			EntryID:       id.NewID32(),
			TenantID:      in.TenantID,
			UserID:        in.RequestedBy,
			TransactionID: in.TransactionID,
			Action:        audit.ActionBackdatingBlocked,
			EntityType:    "transaction",
			EntityID:      in.TransactionID,
			NewValues: mustJSON(map[string]any{
				"reason":             reason,
				"proposed_timestamp": proposed.Format(time.RFC3339Nano),
				"server_time":        now.Format(time.RFC3339Nano),
				"level":              in.OperationalLevel,
			}),
			Severity:    audit.SeverityHigh,
			IsSensitive: true,
			CreatedAt:   now,
		}
		return r.Audits.Create(ctx, entry)
	})
	if err != nil {
		return false, err
	}
	return false, nil
}

// Delete always refuses: the ledger is immutable, not merely protected. The
// blocked attempt is committed to the audit trail before the error returns.
func (u *Usecase) Delete(ctx context.Context, tenantID, evidenceID, requestedBy string) error {
	var (
		transactionID string
		entityID      = evidenceID
	)
	lookupErr := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		rec, err := r.Evidence.GetByEvidenceID(ctx, evidenceID)
		if err == nil && rec.TenantID == tenantID {
			transactionID = rec.TransactionID
			entityID = rec.EvidenceID
		}
		entry := &audit.Entry{
			EntryID:       id.NewID32(),
			TenantID:      tenantID,
			UserID:        requestedBy,
			TransactionID: transactionID,
			Action:        audit.ActionEvidenceDeletionBlocked,
			EntityType:    "evidence",
			EntityID:      entityID,
			NewValues:     mustJSON(map[string]any{"requested_by": requestedBy}),
			Severity:      audit.SeverityHigh,
			IsSensitive:   true,
			CreatedAt:     u.clk.Now(),
		}
		return r.Audits.Create(ctx, entry)
	})
	if lookupErr != nil {
		return lookupErr
	}
	return domain.ErrDeletionNotAllowed
}

// ListByTransaction returns a transaction's evidence with per-row integrity
// flags, capture order preserved.
func (u *Usecase) ListByTransaction(ctx context.Context, tenantID, transactionID string) ([]EvidenceDTO, error) {
	var out []EvidenceDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.Transactions.GetByTransactionID(ctx, tenantID, transactionID); err != nil {
			return transaction.ErrNotFound
		}
		rows, err := r.Evidence.ListByTransaction(ctx, transactionID)
		if err != nil {
			return err
		}
		out = make([]EvidenceDTO, 0, len(rows))
		for i := range rows {
			rec := &rows[i]
			out = append(out, *evidenceDTO(rec, rec.FilePath != "" && rec.FileHash != ""))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func storagePath(tenantID, transactionID string, now time.Time, fileName string) string {
	if fileName == "" {
		fileName = "capture"
	}
	return fmt.Sprintf("evidence/%s/%s/%d_%s", tenantID, transactionID, now.UnixNano(), fileName)
}

func hasGPS(metadata map[string]any) bool {
	_, ok := metadata["gpsCoordinates"]
	return ok
}

func evidenceDTO(rec *domain.Evidence, verified bool) *EvidenceDTO {
	return &EvidenceDTO{
		EvidenceID:       rec.EvidenceID,
		TransactionID:    rec.TransactionID,
		OperationalLevel: rec.OperationalLevel,
		EvidenceType:     string(rec.EvidenceType),
		FilePath:         rec.FilePath,
		FileHash:         rec.FileHash,
		FileSize:         rec.FileSize,
		Metadata:         rec.Metadata,
		CapturedAt:       rec.CapturedAt,
		Verified:         verified,
	}
}

func mustJSON(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}
