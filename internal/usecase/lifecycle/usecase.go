package lifecycle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"scrapgate/internal/domain/audit"
	"scrapgate/internal/domain/notification"
	"scrapgate/internal/domain/transaction"
	"scrapgate/internal/domain/uow"
	"scrapgate/internal/domain/vehicle"
	"scrapgate/pkg/clock"
	"scrapgate/pkg/id"
	"scrapgate/pkg/logger"
)

// Usecase owns the level-ordering guards. Every mutating call locks the
// transaction row first (WithinTransactionTx), validates the guard, writes
// the level record and its audit entry in one transaction.
type Usecase struct {
	uow      uow.UnitOfWork
	clk      clock.Clock
	notifier notification.Notifier
	log      logger.Logger
}

func NewUsecase(tx uow.UnitOfWork, clk clock.Clock, notifier notification.Notifier, log logger.Logger) *Usecase {
	return &Usecase{uow: tx, clk: clk, notifier: notifier, log: log}
}

// Create opens a transaction at the gate: level 1 is recorded as part of
// creation, so the returned aggregate is at currentLevel 1, status ACTIVE.
func (u *Usecase) Create(ctx context.Context, in CreateInput) (*TransactionDTO, error) {
	if in.TenantID == "" || in.FactoryID == "" || in.VendorID == "" || in.VehicleID == "" {
		return nil, transaction.Invalid("tenant, factory, vendor and vehicle ids are required")
	}
	if in.TransactionNumber == "" {
		return nil, transaction.Invalid("transaction number is required")
	}
	if in.CreatedBy == "" {
		return nil, transaction.Invalid("created_by is required")
	}

	var dto *TransactionDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.Vehicles.GetByVehicleID(ctx, in.TenantID, in.VehicleID); err != nil {
			return vehicle.ErrNotFound
		}

		// Transaction numbers are unique per tenant; the DB index backs
		// this check up under concurrency.
		_, err := r.Transactions.GetByTenantNumber(ctx, in.TenantID, in.TransactionNumber)
		switch {
		case err == nil:
			return transaction.ErrDuplicateNumber
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		now := u.clk.Now()
		t := &transaction.Transaction{
			TransactionID:     id.NewID32(),
			TenantID:          in.TenantID,
			FactoryID:         in.FactoryID,
			FactoryName:       in.FactoryName,
			VendorID:          in.VendorID,
			VendorName:        in.VendorName,
			VehicleID:         in.VehicleID,
			TransactionNumber: in.TransactionNumber,
			CurrentLevel:      transaction.LevelGateEntry,
			Status:            transaction.StatusActive,
			StateUpdatedAt:    now,
		}
		if err := r.Transactions.Create(ctx, t); err != nil {
			return err
		}

		rec := &transaction.LevelRecord{
			TransactionRef:   t.ID,
			Level:            transaction.LevelGateEntry,
			FieldValues:      mustJSON(in.GateEntryFields),
			CompletedBy:      in.CreatedBy,
			CompletedAt:      now,
			EvidenceIDs:      transaction.EncodeIDs(nil),
			ValidationStatus: transaction.ValidationApproved,
			Notes:            in.Notes,
		}
		if err := r.Transactions.CreateLevel(ctx, rec); err != nil {
			return err
		}

		entry := u.entry(t, in.CreatedBy, audit.ActionTransactionCreated, audit.SeverityLow, false, map[string]any{
			"transaction_number": t.TransactionNumber,
			"vehicle_id":         t.VehicleID,
			"vendor_id":          t.VendorID,
		})
		if err := r.Audits.Create(ctx, entry); err != nil {
			return err
		}

		dto = transactionDTO(t, []transaction.LevelRecord{*rec})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// CompleteLevel handles the generic progression step (document
// verification). Levels with dedicated operations refuse this path.
func (u *Usecase) CompleteLevel(ctx context.Context, in CompleteLevelInput) (*TransactionDTO, error) {
	if in.Level != transaction.LevelDocumentVerification {
		return nil, transaction.Invalid("level %d has a dedicated operation", in.Level)
	}
	if in.CompletedBy == "" {
		return nil, transaction.Invalid("completed_by is required")
	}

	var dto *TransactionDTO
	err := u.uow.WithinTransactionTx(ctx, in.TenantID, in.TransactionID, func(r uow.Repos, t *transaction.Transaction) error {
		if err := t.EnsureMutable(); err != nil {
			return err
		}
		if err := t.EnsureCompletedLevel(in.Level - 1); err != nil {
			return err
		}

		now := u.clk.Now()
		evidenceIDs, err := levelEvidence(ctx, r, t.TransactionID, in.Level)
		if err != nil {
			return err
		}
		rec := &transaction.LevelRecord{
			TransactionRef:   t.ID,
			Level:            in.Level,
			FieldValues:      mustJSON(in.FieldValues),
			CompletedBy:      in.CompletedBy,
			CompletedAt:      now,
			EvidenceIDs:      transaction.EncodeIDs(evidenceIDs),
			ValidationStatus: transaction.ValidationApproved,
			Notes:            in.Notes,
		}
		if err := r.Transactions.CreateLevel(ctx, rec); err != nil {
			return err
		}

		t.CurrentLevel = in.Level
		t.StateUpdatedAt = now
		if err := r.Transactions.Save(ctx, t); err != nil {
			return err
		}

		entry := u.entry(t, in.CompletedBy, audit.ActionLevelCompleted, audit.SeverityLow, false, map[string]any{
			"level": in.Level,
		})
		if err := r.Audits.Create(ctx, entry); err != nil {
			return err
		}

		dto = transactionDTO(t, []transaction.LevelRecord{*rec})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// RecordInspection grades the material at level 4. REJECTED is terminal: the
// transaction status flips to REJECTED instead of advancing, and the vendor
// is notified either way, fire-and-forget.
func (u *Usecase) RecordInspection(ctx context.Context, in InspectionInput) (*TransactionDTO, error) {
	if !in.Grade.Valid() {
		return nil, transaction.Invalid("grade must be one of A, B, C, REJECTED")
	}
	if in.Grade == transaction.GradeRejected && in.RejectionReason == "" {
		return nil, transaction.Invalid("rejection reason is required for grade REJECTED")
	}
	if in.InspectorID == "" {
		return nil, transaction.Invalid("inspector id is required")
	}

	var dto *TransactionDTO
	var ev notification.InspectionEvent
	err := u.uow.WithinTransactionTx(ctx, in.TenantID, in.TransactionID, func(r uow.Repos, t *transaction.Transaction) error {
		if err := t.EnsureMutable(); err != nil {
			return err
		}
		if err := t.EnsureCompletedLevel(transaction.LevelGrossWeight); err != nil {
			return err
		}

		now := u.clk.Now()
		evidenceIDs, err := levelEvidence(ctx, r, t.TransactionID, transaction.LevelMaterialInspection)
		if err != nil {
			return err
		}

		fields := map[string]any{"grade": in.Grade}
		for k, v := range in.FieldValues {
			fields[k] = v
		}
		rec := &transaction.LevelRecord{
			TransactionRef: t.ID,
			Level:          transaction.LevelMaterialInspection,
			FieldValues:    mustJSON(fields),
			CompletedBy:    in.InspectorID,
			CompletedAt:    now,
			EvidenceIDs:    transaction.EncodeIDs(evidenceIDs),
			Notes:          in.Notes,
		}

		action := audit.ActionInspectionCompleted
		severity := audit.SeverityLow
		if in.Grade == transaction.GradeRejected {
			rec.ValidationStatus = transaction.ValidationRejected
			rec.Notes = in.RejectionReason
			t.Status = transaction.StatusRejected
			action = audit.ActionInspectionRejected
			severity = audit.SeverityHigh
		} else {
			rec.ValidationStatus = transaction.ValidationApproved
			t.CurrentLevel = transaction.LevelMaterialInspection
		}
		t.StateUpdatedAt = now

		if err := r.Transactions.CreateLevel(ctx, rec); err != nil {
			return err
		}
		if err := r.Transactions.Save(ctx, t); err != nil {
			return err
		}

		entry := u.entry(t, in.InspectorID, action, severity, false, map[string]any{
			"grade":            in.Grade,
			"rejection_reason": in.RejectionReason,
		})
		if err := r.Audits.Create(ctx, entry); err != nil {
			return err
		}

		v, err := r.Vehicles.GetByVehicleID(ctx, t.TenantID, t.VehicleID)
		vehicleNumber := t.VehicleID
		if err == nil {
			vehicleNumber = v.VehicleNumber
		}
		ev = notification.InspectionEvent{
			VendorName:       t.VendorName,
			VehicleNumber:    vehicleNumber,
			InspectionResult: string(in.Grade),
			FactoryName:      t.FactoryName,
			Timestamp:        now,
			RejectionReason:  in.RejectionReason,
		}

		dto = transactionDTO(t, []transaction.LevelRecord{*rec})
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Best-effort dispatch after commit; a failed notification never fails
	// the inspection.
	if u.notifier != nil {
		if nerr := u.notifier.NotifyInspection(ctx, ev); nerr != nil {
			u.log.Warn("inspection notification failed", map[string]interface{}{
				"transaction_id": in.TransactionID,
				"error":          nerr.Error(),
			})
		}
	}
	return dto, nil
}

// GenerateGRN writes the goods receipt note at level 6. The record stays
// PENDING until a supervisor approves it; the gate pass needs that approval.
func (u *Usecase) GenerateGRN(ctx context.Context, in GRNInput) (*TransactionDTO, error) {
	if in.GeneratedBy == "" {
		return nil, transaction.Invalid("generated_by is required")
	}

	var dto *TransactionDTO
	err := u.uow.WithinTransactionTx(ctx, in.TenantID, in.TransactionID, func(r uow.Repos, t *transaction.Transaction) error {
		if err := t.EnsureMutable(); err != nil {
			return err
		}
		if err := t.EnsureCompletedLevel(transaction.LevelTareWeight); err != nil {
			return err
		}
		tare, err := r.Transactions.GetLevel(ctx, t.ID, transaction.LevelTareWeight)
		if err != nil {
			return err
		}
		if tare.ValidationStatus != transaction.ValidationApproved {
			return transaction.Invalid("tare weighing is pending supervisor approval")
		}

		now := u.clk.Now()
		evidenceIDs, err := levelEvidence(ctx, r, t.TransactionID, transaction.LevelGRNGeneration)
		if err != nil {
			return err
		}

		t.GRNNumber = fmt.Sprintf("GRN-%s-%d", t.TransactionNumber, now.Unix())
		fields := map[string]any{"grn_number": t.GRNNumber}
		for k, v := range in.FieldValues {
			fields[k] = v
		}
		rec := &transaction.LevelRecord{
			TransactionRef:   t.ID,
			Level:            transaction.LevelGRNGeneration,
			FieldValues:      mustJSON(fields),
			CompletedBy:      in.GeneratedBy,
			CompletedAt:      now,
			EvidenceIDs:      transaction.EncodeIDs(evidenceIDs),
			ValidationStatus: transaction.ValidationPending,
			Notes:            in.Notes,
		}
		if err := r.Transactions.CreateLevel(ctx, rec); err != nil {
			return err
		}

		t.CurrentLevel = transaction.LevelGRNGeneration
		t.StateUpdatedAt = now
		if err := r.Transactions.Save(ctx, t); err != nil {
			return err
		}

		entry := u.entry(t, in.GeneratedBy, audit.ActionGRNGenerated, audit.SeverityMedium, false, map[string]any{
			"grn_number": t.GRNNumber,
		})
		if err := r.Audits.Create(ctx, entry); err != nil {
			return err
		}

		dto = transactionDTO(t, []transaction.LevelRecord{*rec})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// ApproveLevel is the supervisor decision on a PENDING level record (tare
// weighing flagged by the discrepancy heuristic, or the GRN). A rejection
// closes the transaction.
func (u *Usecase) ApproveLevel(ctx context.Context, in ApproveLevelInput) (*TransactionDTO, error) {
	if in.Level != transaction.LevelTareWeight && in.Level != transaction.LevelGRNGeneration {
		return nil, transaction.Invalid("level %d records are not supervisor-approvable", in.Level)
	}
	if in.Decision != transaction.ValidationApproved && in.Decision != transaction.ValidationRejected {
		return nil, transaction.Invalid("decision must be APPROVED or REJECTED")
	}
	if in.Decision == transaction.ValidationRejected && in.Reason == "" {
		return nil, transaction.Invalid("rejection reason is required")
	}
	if in.ApproverID == "" {
		return nil, transaction.Invalid("approver id is required")
	}

	var dto *TransactionDTO
	err := u.uow.WithinTransactionTx(ctx, in.TenantID, in.TransactionID, func(r uow.Repos, t *transaction.Transaction) error {
		if err := t.EnsureMutable(); err != nil {
			return err
		}
		rec, err := r.Transactions.GetLevel(ctx, t.ID, in.Level)
		if err != nil {
			return transaction.Invalid("level %d has not been completed", in.Level)
		}
		if rec.ValidationStatus != transaction.ValidationPending {
			return transaction.Invalid("level %d is not pending approval", in.Level)
		}

		now := u.clk.Now()
		rec.ValidationStatus = in.Decision
		if in.Reason != "" {
			rec.Notes = in.Reason
		}
		if err := r.Transactions.SaveLevel(ctx, rec); err != nil {
			return err
		}

		action := audit.ActionLevelApproved
		severity := audit.SeverityMedium
		if in.Decision == transaction.ValidationRejected {
			t.Status = transaction.StatusRejected
			action = audit.ActionLevelRejected
			severity = audit.SeverityHigh
		}
		t.StateUpdatedAt = now
		if err := r.Transactions.Save(ctx, t); err != nil {
			return err
		}

		entry := u.entry(t, in.ApproverID, action, severity, false, map[string]any{
			"level":    in.Level,
			"decision": in.Decision,
			"reason":   in.Reason,
		})
		if err := r.Audits.Create(ctx, entry); err != nil {
			return err
		}

		dto = transactionDTO(t, []transaction.LevelRecord{*rec})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Cancel closes an ACTIVE transaction without exit. Terminal thereafter.
func (u *Usecase) Cancel(ctx context.Context, in CancelInput) error {
	if in.Reason == "" {
		return transaction.Invalid("cancellation reason is required")
	}
	return u.uow.WithinTransactionTx(ctx, in.TenantID, in.TransactionID, func(r uow.Repos, t *transaction.Transaction) error {
		if err := t.EnsureMutable(); err != nil {
			return err
		}
		now := u.clk.Now()
		t.Status = transaction.StatusCancelled
		t.StateUpdatedAt = now
		if err := r.Transactions.Save(ctx, t); err != nil {
			return err
		}
		entry := u.entry(t, in.CancelledBy, audit.ActionTransactionCancelled, audit.SeverityHigh, false, map[string]any{
			"reason": in.Reason,
		})
		return r.Audits.Create(ctx, entry)
	})
}

// ForceLock sets isLocked exactly once, outside the normal exit path.
func (u *Usecase) ForceLock(ctx context.Context, in ForceLockInput) error {
	if in.Reason == "" {
		return transaction.Invalid("lock reason is required")
	}
	return u.uow.WithinTransactionTx(ctx, in.TenantID, in.TransactionID, func(r uow.Repos, t *transaction.Transaction) error {
		if t.IsLocked {
			return transaction.ErrLocked
		}
		now := u.clk.Now()
		t.IsLocked = true
		t.LockReason = in.Reason
		t.StateUpdatedAt = now
		if err := r.Transactions.Save(ctx, t); err != nil {
			return err
		}
		entry := u.entry(t, in.LockedBy, audit.ActionTransactionForceLocked, audit.SeverityHigh, true, map[string]any{
			"reason": in.Reason,
		})
		return r.Audits.Create(ctx, entry)
	})
}

// Get returns the aggregate with its level records, tenant-scoped.
func (u *Usecase) Get(ctx context.Context, tenantID, transactionID string) (*TransactionDTO, error) {
	var dto *TransactionDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		t, err := r.Transactions.GetByTransactionID(ctx, tenantID, transactionID)
		if err != nil {
			return transaction.ErrNotFound
		}
		levels, err := r.Transactions.ListLevels(ctx, t.ID)
		if err != nil {
			return err
		}
		dto = transactionDTO(t, levels)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// AuditTrail returns the append-only trail for a transaction, read-only.
func (u *Usecase) AuditTrail(ctx context.Context, tenantID, transactionID string) ([]audit.Entry, error) {
	var out []audit.Entry
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.Transactions.GetByTransactionID(ctx, tenantID, transactionID); err != nil {
			return transaction.ErrNotFound
		}
		rows, err := r.Audits.ListByTransaction(ctx, transactionID)
		if err != nil {
			return err
		}
		out = rows
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (u *Usecase) entry(t *transaction.Transaction, userID, action string, severity audit.Severity, sensitive bool, values map[string]any) *audit.Entry {
	return &audit.Entry{
		EntryID:       id.NewID32(),
		TenantID:      t.TenantID,
		UserID:        userID,
		TransactionID: t.TransactionID,
		Action:        action,
		EntityType:    "transaction",
		EntityID:      t.TransactionID,
		NewValues:     mustJSON(values),
		Severity:      severity,
		IsSensitive:   sensitive,
		CreatedAt:     u.clk.Now(),
	}
}

func levelEvidence(ctx context.Context, r uow.Repos, transactionID string, level int) ([]string, error) {
	rows, err := r.Evidence.ListByTransactionLevel(ctx, transactionID, level)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, e := range rows {
		ids = append(ids, e.EvidenceID)
	}
	return ids, nil
}

func transactionDTO(t *transaction.Transaction, levels []transaction.LevelRecord) *TransactionDTO {
	dto := &TransactionDTO{
		TransactionID:     t.TransactionID,
		TenantID:          t.TenantID,
		FactoryID:         t.FactoryID,
		VendorID:          t.VendorID,
		VehicleID:         t.VehicleID,
		TransactionNumber: t.TransactionNumber,
		CurrentLevel:      t.CurrentLevel,
		Status:            string(t.Status),
		IsLocked:          t.IsLocked,
		GRNNumber:         t.GRNNumber,
		GrossWeight:       t.GrossWeight,
		TareWeight:        t.TareWeight,
		NetWeight:         t.NetWeight,
		GatePassExpiresAt: t.GatePassExpiresAt,
		CompletedAt:       t.CompletedAt,
		CreatedAt:         t.CreatedAt,
	}
	for _, rec := range levels {
		dto.Levels = append(dto.Levels, LevelDTO{
			Level:            rec.Level,
			FieldValues:      rec.FieldValues,
			CompletedBy:      rec.CompletedBy,
			CompletedAt:      rec.CompletedAt,
			EvidenceIDs:      transaction.DecodeIDs(rec.EvidenceIDs),
			ValidationStatus: string(rec.ValidationStatus),
			Notes:            rec.Notes,
		})
	}
	return dto
}

func mustJSON(v any) string {
	if v == nil {
		return "{}"
	}
	b, _ := json.Marshal(v)
	return string(b)
}
