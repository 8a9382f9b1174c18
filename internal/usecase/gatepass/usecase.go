package gatepass

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"scrapgate/internal/domain/audit"
	"scrapgate/internal/domain/lock"
	"scrapgate/internal/domain/transaction"
	"scrapgate/internal/domain/uow"
	"scrapgate/internal/domain/vehicle"
	"scrapgate/pkg/clock"
	"scrapgate/pkg/id"
	"scrapgate/pkg/logger"
	"scrapgate/pkg/qr"
)

const (
	generateLockTTL = 30 * time.Second

	reasonBadFormat   = "Invalid QR code format"
	reasonBadCode     = "Invalid QR code"
	reasonVehicle     = "Vehicle number does not match transaction"
	reasonAlreadyUsed = "Gate pass already used - vehicle has exited"
	reasonExpired     = "Gate pass expired"
)

type Usecase struct {
	uow             uow.UnitOfWork
	clk             clock.Clock
	enc             qr.Encoder
	locker          lock.Locker
	defaultValidity int // hours, when the caller passes none
	log             logger.Logger
}

func NewUsecase(tx uow.UnitOfWork, clk clock.Clock, enc qr.Encoder, locker lock.Locker, defaultValidityHours int, log logger.Logger) *Usecase {
	if locker == nil {
		locker = lock.Nop{}
	}
	if defaultValidityHours <= 0 {
		defaultValidityHours = 24
	}
	return &Usecase{uow: tx, clk: clk, enc: enc, locker: locker, defaultValidity: defaultValidityHours, log: log}
}

// Generate issues a time-bound exit pass once the GRN is approved. The
// serialized payload string is stored verbatim and the transaction moves to
// level 7.
func (u *Usecase) Generate(ctx context.Context, in GenerateInput) (*GatePassDTO, error) {
	if in.GeneratedBy == "" {
		return nil, transaction.Invalid("generated_by is required")
	}
	validity := in.ValidityHours
	if validity <= 0 {
		validity = u.defaultValidity
	}

	// the existence check spans the QR encode, so the row lock alone does
	// not serialize concurrent generation attempts
	release, err := u.locker.Acquire(ctx, "gatepass:"+in.TransactionID, generateLockTTL)
	if err != nil {
		return nil, transaction.Invalid("gate pass generation already in progress")
	}
	defer release()

	var dto *GatePassDTO
	err = u.uow.WithinTransactionTx(ctx, in.TenantID, in.TransactionID, func(r uow.Repos, t *transaction.Transaction) error {
		if err := t.EnsureMutable(); err != nil {
			return err
		}
		if t.CurrentLevel < transaction.LevelGRNGeneration {
			return &transaction.InvalidTransitionError{
				RequiredLevel: transaction.LevelGRNGeneration,
				CurrentLevel:  t.CurrentLevel,
			}
		}
		grn, err := r.Transactions.GetLevel(ctx, t.ID, transaction.LevelGRNGeneration)
		if err != nil || grn.ValidationStatus != transaction.ValidationApproved {
			return transaction.Invalid("GRN is pending supervisor approval")
		}

		now := u.clk.Now()
		if t.GatePassQRCode != "" && t.GatePassExpiresAt != nil && now.Before(*t.GatePassExpiresAt) {
			return transaction.Invalid("Valid gate pass already exists")
		}

		v, err := r.Vehicles.GetByVehicleID(ctx, t.TenantID, t.VehicleID)
		if err != nil {
			return vehicle.ErrNotFound
		}

		expiresAt := now.Add(time.Duration(validity) * time.Hour)
		payload := Payload{
			TransactionID: t.TransactionID,
			VehicleNumber: v.VehicleNumber,
			GeneratedAt:   now.Format(time.RFC3339),
			ExpiresAt:     expiresAt.Format(time.RFC3339),
			Nonce:         uuid.NewString(),
		}
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		img, err := u.enc.Encode(string(raw))
		if err != nil {
			return err
		}

		t.GatePassQRCode = string(raw)
		t.GatePassExpiresAt = &expiresAt
		t.CurrentLevel = transaction.LevelGatePassExit
		t.StateUpdatedAt = now
		if err := r.Transactions.Save(ctx, t); err != nil {
			return err
		}

		entry := &audit.Entry{
			EntryID:       id.NewID32(),
			TenantID:      t.TenantID,
			UserID:        in.GeneratedBy,
			TransactionID: t.TransactionID,
			Action:        audit.ActionGatePassGenerated,
			EntityType:    "transaction",
			EntityID:      t.TransactionID,
			NewValues: mustJSON(map[string]any{
				"expires_at":     expiresAt.Format(time.RFC3339),
				"validity_hours": validity,
				"nonce":          payload.Nonce,
			}),
			Severity:  audit.SeverityMedium,
			CreatedAt: now,
		}
		if err := r.Audits.Create(ctx, entry); err != nil {
			return err
		}

		dto = &GatePassDTO{
			TransactionID: t.TransactionID,
			QRPayload:     string(raw),
			QRImage:       img,
			ExpiresAt:     expiresAt,
			CurrentLevel:  t.CurrentLevel,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Validate runs the check chain over a presented payload. All failures are
// results, not errors, so a gate scanner gets one uniform answer shape.
func (u *Usecase) Validate(ctx context.Context, in ValidateInput) (*ValidationResult, error) {
	var payload Payload
	if err := json.Unmarshal([]byte(in.QRPayload), &payload); err != nil || !payload.complete() {
		return &ValidationResult{Valid: false, Reason: reasonBadFormat}, nil
	}

	result := &ValidationResult{TransactionID: payload.TransactionID}
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		t, err := r.Transactions.GetByTransactionID(ctx, in.TenantID, payload.TransactionID)
		if err != nil {
			result.Reason = reasonBadCode
			return nil
		}

		v, err := r.Vehicles.GetByVehicleID(ctx, t.TenantID, t.VehicleID)
		if err != nil || v.VehicleNumber != payload.VehicleNumber {
			result.Reason = reasonVehicle
			return nil
		}

		if t.Status == transaction.StatusCompleted {
			result.Reason = reasonAlreadyUsed
			return nil
		}

		now := u.clk.Now()
		if t.GatePassExpiresAt != nil && now.After(*t.GatePassExpiresAt) {
			result.Reason = reasonExpired
			result.RequiresSupervisorOverride = true
			return nil
		}

		// The stored string must match byte for byte; a re-serialized or
		// edited payload is treated as tampering even inside the window.
		if t.GatePassQRCode != in.QRPayload {
			result.Reason = reasonBadCode
			entry := &audit.Entry{
				EntryID:       id.NewID32(),
				TenantID:      t.TenantID,
				UserID:        in.RequestedBy,
				TransactionID: t.TransactionID,
				Action:        audit.ActionGatePassTamperDetected,
				EntityType:    "transaction",
				EntityID:      t.TransactionID,
				NewValues:     mustJSON(map[string]any{"presented_nonce": payload.Nonce}),
				Severity:      audit.SeverityHigh,
				IsSensitive:   true,
				CreatedAt:     now,
			}
			return r.Audits.Create(ctx, entry)
		}

		result.Valid = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ProcessVehicleExit is the terminal transition: status COMPLETED, locked,
// visit history appended. Without an override the stored pass is re-run
// through Validate first.
func (u *Usecase) ProcessVehicleExit(ctx context.Context, in ExitInput) (*ValidationResult, error) {
	if in.UserID == "" {
		return nil, transaction.Invalid("user id is required")
	}

	if !in.SupervisorOverride {
		var stored string
		err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
			t, err := r.Transactions.GetByTransactionID(ctx, in.TenantID, in.TransactionID)
			if err != nil {
				return transaction.ErrNotFound
			}
			stored = t.GatePassQRCode
			return nil
		})
		if err != nil {
			return nil, err
		}
		if stored == "" {
			return nil, transaction.Invalid("no gate pass has been issued")
		}
		res, err := u.Validate(ctx, ValidateInput{TenantID: in.TenantID, QRPayload: stored, RequestedBy: in.UserID})
		if err != nil {
			return nil, err
		}
		if !res.Valid {
			if res.RequiresSupervisorOverride {
				return res, transaction.Invalid("gate pass expired - supervisor override required")
			}
			return res, transaction.Invalid("%s", res.Reason)
		}
	}

	err := u.uow.WithinTransactionTx(ctx, in.TenantID, in.TransactionID, func(r uow.Repos, t *transaction.Transaction) error {
		if err := t.EnsureMutable(); err != nil {
			return err
		}
		if t.CurrentLevel != transaction.LevelGatePassExit {
			return &transaction.InvalidTransitionError{
				RequiredLevel: transaction.LevelGatePassExit,
				CurrentLevel:  t.CurrentLevel,
			}
		}

		now := u.clk.Now()
		t.Status = transaction.StatusCompleted
		t.IsLocked = true
		t.CompletedAt = &now
		t.StateUpdatedAt = now

		rec := &transaction.LevelRecord{
			TransactionRef:   t.ID,
			Level:            transaction.LevelGatePassExit,
			FieldValues:      mustJSON(map[string]any{"supervisor_override": in.SupervisorOverride}),
			CompletedBy:      in.UserID,
			CompletedAt:      now,
			EvidenceIDs:      transaction.EncodeIDs(nil),
			ValidationStatus: transaction.ValidationApproved,
		}
		if err := r.Transactions.CreateLevel(ctx, rec); err != nil {
			return err
		}
		if err := r.Transactions.Save(ctx, t); err != nil {
			return err
		}

		v, err := r.Vehicles.GetByVehicleID(ctx, t.TenantID, t.VehicleID)
		if err != nil {
			return vehicle.ErrNotFound
		}
		visit := &vehicle.VisitRecord{
			VehicleRef:    v.ID,
			TransactionID: t.TransactionID,
			FactoryID:     t.FactoryID,
			VisitDate:     now,
			Status:        string(transaction.StatusCompleted),
		}
		if err := r.Vehicles.AppendVisit(ctx, visit); err != nil {
			return err
		}

		action := audit.ActionVehicleExitCompleted
		if in.SupervisorOverride {
			action = audit.ActionVehicleExitOverride
		}
		entry := &audit.Entry{
			EntryID:       id.NewID32(),
			TenantID:      t.TenantID,
			UserID:        in.UserID,
			TransactionID: t.TransactionID,
			Action:        action,
			EntityType:    "transaction",
			EntityID:      t.TransactionID,
			NewValues: mustJSON(map[string]any{
				"status":              transaction.StatusCompleted,
				"supervisor_override": in.SupervisorOverride,
			}),
			Severity:  audit.SeverityMedium,
			CreatedAt: now,
		}
		return r.Audits.Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	return &ValidationResult{Valid: true, TransactionID: in.TransactionID}, nil
}

// OverrideExpiredGatePass records a justified bypass of pass expiry as its
// own audit entry, then runs the exit with the override flag set. Two
// distinct audit entries result.
func (u *Usecase) OverrideExpiredGatePass(ctx context.Context, in OverrideInput) (*ValidationResult, error) {
	if in.Justification == "" {
		return nil, transaction.Invalid("override justification is required")
	}
	if in.SupervisorID == "" {
		return nil, transaction.Invalid("supervisor id is required")
	}

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		t, err := r.Transactions.GetByTransactionID(ctx, in.TenantID, in.TransactionID)
		if err != nil {
			return transaction.ErrNotFound
		}
		if t.GatePassQRCode == "" || t.GatePassExpiresAt == nil {
			return transaction.Invalid("no gate pass has been issued")
		}
		if u.clk.Now().Before(*t.GatePassExpiresAt) {
			return transaction.Invalid("gate pass has not expired; use the normal exit")
		}

		entry := &audit.Entry{
			EntryID:       id.NewID32(),
			TenantID:      t.TenantID,
			UserID:        in.SupervisorID,
			TransactionID: t.TransactionID,
			Action:        audit.ActionOverrideExpiredGatePass,
			EntityType:    "transaction",
			EntityID:      t.TransactionID,
			NewValues: mustJSON(map[string]any{
				"justification":   in.Justification,
				"original_expiry": t.GatePassExpiresAt.Format(time.RFC3339),
			}),
			Severity:    audit.SeverityHigh,
			IsSensitive: true,
			CreatedAt:   u.clk.Now(),
		}
		return r.Audits.Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	return u.ProcessVehicleExit(ctx, ExitInput{
		TenantID:           in.TenantID,
		TransactionID:      in.TransactionID,
		UserID:             in.SupervisorID,
		SupervisorOverride: true,
	})
}

func mustJSON(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}
