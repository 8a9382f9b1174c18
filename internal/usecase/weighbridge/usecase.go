package weighbridge

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"scrapgate/internal/domain/audit"
	"scrapgate/internal/domain/transaction"
	"scrapgate/internal/domain/uow"
	"scrapgate/pkg/clock"
	"scrapgate/pkg/id"
	"scrapgate/pkg/logger"
)

var (
	maxWeight = decimal.NewFromInt(100000)
	half      = decimal.NewFromFloat(0.5)
	hundred   = decimal.NewFromInt(100)
)

// DefaultDiscrepancyThreshold applies when a factory has no override.
var DefaultDiscrepancyThreshold = decimal.NewFromInt(5)

type Usecase struct {
	uow       uow.UnitOfWork
	clk       clock.Clock
	threshold decimal.Decimal
	log       logger.Logger
}

func NewUsecase(tx uow.UnitOfWork, clk clock.Clock, threshold decimal.Decimal, log logger.Logger) *Usecase {
	if threshold.IsZero() {
		threshold = DefaultDiscrepancyThreshold
	}
	return &Usecase{uow: tx, clk: clk, threshold: threshold, log: log}
}

// NetWeight is gross minus tare, exactly.
func NetWeight(gross, tare decimal.Decimal) decimal.Decimal { return gross.Sub(tare) }

// DiscrepancyPercentage = |tare/gross - 0.5| * 100. A business heuristic
// measuring deviation from an assumed 50/50 tare-to-gross split; kept
// exactly as the yard operates it today.
func DiscrepancyPercentage(gross, tare decimal.Decimal) decimal.Decimal {
	return tare.Div(gross).Sub(half).Abs().Mul(hundred)
}

// RequiresSupervisorApproval reports whether the discrepancy exceeds the
// configured threshold (strictly greater).
func RequiresSupervisorApproval(discrepancy, threshold decimal.Decimal) bool {
	return discrepancy.GreaterThan(threshold)
}

func validateReading(in ReadingInput) error {
	switch {
	case in.OperatorID == "":
		return transaction.Invalid("operator id is required")
	case in.Timestamp.IsZero():
		return transaction.Invalid("reading timestamp is required")
	case !in.Weight.IsPositive():
		return transaction.Invalid("weight must be greater than zero")
	case in.Weight.GreaterThan(maxWeight):
		return transaction.Invalid("weight exceeds weighbridge capacity (100000 kg)")
	}
	return nil
}

// photographicEvidence enforces the manual-entry rule: a reading without a
// camera artifact at its level is rejected outright.
func photographicEvidence(ctx context.Context, r uow.Repos, transactionID string, level int) ([]string, error) {
	rows, err := r.Evidence.ListByTransactionLevel(ctx, transactionID, level)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, e := range rows {
		if e.EvidenceType.Photographic() {
			ids = append(ids, e.EvidenceID)
		}
	}
	if len(ids) == 0 {
		return nil, transaction.Invalid("manual weighbridge entry requires photographic evidence")
	}
	return ids, nil
}

func (u *Usecase) CaptureGrossWeight(ctx context.Context, in ReadingInput) (*WeighingDTO, error) {
	if u.uow == nil {
		return nil, transaction.ErrInvalidTransition
	}
	if err := validateReading(in); err != nil {
		return nil, err
	}

	var dto *WeighingDTO
	err := u.uow.WithinTransactionTx(ctx, in.TenantID, in.TransactionID, func(r uow.Repos, t *transaction.Transaction) error {
		if err := t.EnsureMutable(); err != nil {
			return err
		}
		if err := t.EnsureCompletedLevel(transaction.LevelDocumentVerification); err != nil {
			return err
		}

		evidenceIDs, err := photographicEvidence(ctx, r, t.TransactionID, transaction.LevelGrossWeight)
		if err != nil {
			return err
		}

		now := u.clk.Now()
		ts := in.Timestamp.UTC()
		t.GrossWeight = decimal.NewNullDecimal(in.Weight)
		t.GrossWeightAt = &ts
		t.GrossWeightOperator = in.OperatorID
		if in.TicketURL != "" {
			t.WeighbridgeTicketURL = in.TicketURL
		}
		t.CurrentLevel = transaction.LevelGrossWeight
		t.StateUpdatedAt = now

		rec := &transaction.LevelRecord{
			TransactionRef: t.ID,
			Level:          transaction.LevelGrossWeight,
			FieldValues: mustJSON(map[string]any{
				"weight":      in.Weight.String(),
				"operator_id": in.OperatorID,
				"timestamp":   ts.Format(time.RFC3339),
				"ticket_url":  in.TicketURL,
			}),
			CompletedBy:      in.OperatorID,
			CompletedAt:      now,
			EvidenceIDs:      transaction.EncodeIDs(evidenceIDs),
			ValidationStatus: transaction.ValidationApproved,
			Notes:            in.Notes,
		}
		if err := r.Transactions.CreateLevel(ctx, rec); err != nil {
			return err
		}
		if err := r.Transactions.Save(ctx, t); err != nil {
			return err
		}

		entry := &audit.Entry{
			EntryID:       id.NewID32(),
			TenantID:      t.TenantID,
			UserID:        in.OperatorID,
			TransactionID: t.TransactionID,
			Action:        audit.ActionGrossWeightCaptured,
			EntityType:    "transaction",
			EntityID:      t.TransactionID,
			NewValues:     mustJSON(map[string]any{"gross_weight": in.Weight.String(), "level": transaction.LevelGrossWeight}),
			Severity:      audit.SeverityLow,
			CreatedAt:     now,
		}
		if err := r.Audits.Create(ctx, entry); err != nil {
			return err
		}

		dto = weighingDTO(t, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (u *Usecase) CaptureTareWeight(ctx context.Context, in ReadingInput) (*WeighingDTO, error) {
	if u.uow == nil {
		return nil, transaction.ErrInvalidTransition
	}
	if err := validateReading(in); err != nil {
		return nil, err
	}

	var dto *WeighingDTO
	err := u.uow.WithinTransactionTx(ctx, in.TenantID, in.TransactionID, func(r uow.Repos, t *transaction.Transaction) error {
		if err := t.EnsureMutable(); err != nil {
			return err
		}
		if !t.GrossWeight.Valid {
			return transaction.Invalid("gross weight must be captured before tare weight")
		}
		if err := t.EnsureCompletedLevel(transaction.LevelMaterialInspection); err != nil {
			return err
		}
		gross := t.GrossWeight.Decimal
		if in.Weight.GreaterThanOrEqual(gross) {
			return transaction.Invalid("tare weight must be less than gross weight")
		}

		evidenceIDs, err := photographicEvidence(ctx, r, t.TransactionID, transaction.LevelTareWeight)
		if err != nil {
			return err
		}

		net := NetWeight(gross, in.Weight)
		discrepancy := DiscrepancyPercentage(gross, in.Weight)
		requires := RequiresSupervisorApproval(discrepancy, u.threshold)

		status := transaction.ValidationApproved
		severity := audit.SeverityLow
		if requires {
			status = transaction.ValidationPending
			severity = audit.SeverityMedium
		}

		now := u.clk.Now()
		ts := in.Timestamp.UTC()
		t.TareWeight = decimal.NewNullDecimal(in.Weight)
		t.NetWeight = decimal.NewNullDecimal(net)
		t.DiscrepancyPct = decimal.NewNullDecimal(discrepancy.Round(4))
		t.RequiresApproval = requires
		t.TareWeightAt = &ts
		t.TareWeightOperator = in.OperatorID
		t.CurrentLevel = transaction.LevelTareWeight
		t.StateUpdatedAt = now

		rec := &transaction.LevelRecord{
			TransactionRef: t.ID,
			Level:          transaction.LevelTareWeight,
			FieldValues: mustJSON(map[string]any{
				"weight":                 in.Weight.String(),
				"net_weight":             net.String(),
				"discrepancy_percentage": discrepancy.Round(4).String(),
				"operator_id":            in.OperatorID,
				"timestamp":              ts.Format(time.RFC3339),
			}),
			CompletedBy:      in.OperatorID,
			CompletedAt:      now,
			EvidenceIDs:      transaction.EncodeIDs(evidenceIDs),
			ValidationStatus: status,
			Notes:            in.Notes,
		}
		if err := r.Transactions.CreateLevel(ctx, rec); err != nil {
			return err
		}
		if err := r.Transactions.Save(ctx, t); err != nil {
			return err
		}

		entry := &audit.Entry{
			EntryID:       id.NewID32(),
			TenantID:      t.TenantID,
			UserID:        in.OperatorID,
			TransactionID: t.TransactionID,
			Action:        audit.ActionTareWeightCaptured,
			EntityType:    "transaction",
			EntityID:      t.TransactionID,
			NewValues: mustJSON(map[string]any{
				"tare_weight":            in.Weight.String(),
				"net_weight":             net.String(),
				"discrepancy_percentage": discrepancy.Round(4).String(),
				"requires_approval":      requires,
			}),
			Severity:  severity,
			CreatedAt: now,
		}
		if err := r.Audits.Create(ctx, entry); err != nil {
			return err
		}

		dto = weighingDTO(t, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func weighingDTO(t *transaction.Transaction, rec *transaction.LevelRecord) *WeighingDTO {
	return &WeighingDTO{
		TransactionID:         t.TransactionID,
		CurrentLevel:          t.CurrentLevel,
		GrossWeight:           t.GrossWeight,
		TareWeight:            t.TareWeight,
		NetWeight:             t.NetWeight,
		DiscrepancyPercentage: t.DiscrepancyPct,
		RequiresApproval:      t.RequiresApproval,
		ValidationStatus:      string(rec.ValidationStatus),
	}
}

func mustJSON(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}
