package gatepass

import (
	"context"
	"errors"
	"testing"
	"time"

	"scrapgate/internal/domain/audit"
	"scrapgate/internal/domain/lock"
	"scrapgate/internal/domain/transaction"
	"scrapgate/internal/domain/uow"
	"scrapgate/internal/domain/vehicle"
	"scrapgate/internal/testutil/auditmock"
	"scrapgate/internal/testutil/clockmock"
	"scrapgate/internal/testutil/transactionmock"
	"scrapgate/internal/testutil/uowmock"
	"scrapgate/internal/testutil/vehiclemock"
	"scrapgate/pkg/logger"
)

const (
	tenantID = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	txnID    = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	userID   = "cccccccccccccccccccccccccccccccc"
	vehID    = "eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee"
)

var now = time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)

type fakeEncoder struct{ encoded string }

func (f *fakeEncoder) Encode(payload string) ([]byte, error) {
	f.encoded = payload
	return []byte("png"), nil
}

func knownVehicle() *vehiclemock.Repo {
	return &vehiclemock.Repo{
		GetByVehicleIDFn: func(context.Context, string, string) (*vehicle.Vehicle, error) {
			return &vehicle.Vehicle{ID: 5, VehicleID: vehID, TenantID: tenantID, VehicleNumber: "KA-01-AB-1234"}, nil
		},
	}
}

func readyTxn() *transaction.Transaction {
	return &transaction.Transaction{
		ID:                11,
		TransactionID:     txnID,
		TenantID:          tenantID,
		VehicleID:         vehID,
		TransactionNumber: "TXN-2026-001",
		CurrentLevel:      transaction.LevelGRNGeneration,
		Status:            transaction.StatusActive,
	}
}

func approvedGRN() *transactionmock.Repo {
	return &transactionmock.Repo{
		GetLevelFn: func(_ context.Context, ref uint64, level int) (*transaction.LevelRecord, error) {
			return &transaction.LevelRecord{TransactionRef: ref, Level: level, ValidationStatus: transaction.ValidationApproved}, nil
		},
	}
}

func newUsecase(repos uow.Repos, rows ...*transaction.Transaction) (*Usecase, *fakeEncoder) {
	enc := &fakeEncoder{}
	uc := NewUsecase(uowmock.Passthrough(repos, rows...), clockmock.At(now), enc, lock.Nop{}, 24, logger.Nop())
	return uc, enc
}

func TestGenerate(t *testing.T) {
	t.Run("issues pass and moves to level 7", func(t *testing.T) {
		txn := readyTxn()
		audits := &auditmock.Repo{}
		repos := uow.Repos{Transactions: approvedGRN(), Audits: audits, Vehicles: knownVehicle()}
		uc, enc := newUsecase(repos, txn)

		dto, err := uc.Generate(context.Background(), GenerateInput{
			TenantID: tenantID, TransactionID: txnID, GeneratedBy: userID,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dto.CurrentLevel != transaction.LevelGatePassExit {
			t.Fatalf("current level: want 7, got %d", dto.CurrentLevel)
		}
		if txn.GatePassQRCode != dto.QRPayload {
			t.Fatal("stored payload must equal the issued one")
		}
		if enc.encoded != dto.QRPayload {
			t.Fatal("QR image must encode the exact payload string")
		}
		want := now.Add(24 * time.Hour)
		if !dto.ExpiresAt.Equal(want) {
			t.Fatalf("expiry: want %v, got %v", want, dto.ExpiresAt)
		}
		if len(audits.ByAction(audit.ActionGatePassGenerated)) != 1 {
			t.Fatal("generation must be audited")
		}
	})

	t.Run("custom validity", func(t *testing.T) {
		txn := readyTxn()
		repos := uow.Repos{Transactions: approvedGRN(), Audits: &auditmock.Repo{}, Vehicles: knownVehicle()}
		uc, _ := newUsecase(repos, txn)

		dto, err := uc.Generate(context.Background(), GenerateInput{
			TenantID: tenantID, TransactionID: txnID, GeneratedBy: userID, ValidityHours: 2,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !dto.ExpiresAt.Equal(now.Add(2 * time.Hour)) {
			t.Fatalf("expiry: got %v", dto.ExpiresAt)
		}
	})

	t.Run("unexpired pass already exists", func(t *testing.T) {
		txn := readyTxn()
		future := now.Add(time.Hour)
		txn.GatePassQRCode = `{"x":"y"}`
		txn.GatePassExpiresAt = &future
		repos := uow.Repos{Transactions: approvedGRN(), Audits: &auditmock.Repo{}, Vehicles: knownVehicle()}
		uc, _ := newUsecase(repos, txn)

		_, err := uc.Generate(context.Background(), GenerateInput{TenantID: tenantID, TransactionID: txnID, GeneratedBy: userID})
		if !errors.Is(err, transaction.ErrValidation) {
			t.Fatalf("want validation error, got %v", err)
		}
	})

	t.Run("expired pass can be reissued", func(t *testing.T) {
		txn := readyTxn()
		txn.CurrentLevel = transaction.LevelGatePassExit
		past := now.Add(-time.Hour)
		txn.GatePassQRCode = `{"x":"y"}`
		txn.GatePassExpiresAt = &past
		repos := uow.Repos{Transactions: approvedGRN(), Audits: &auditmock.Repo{}, Vehicles: knownVehicle()}
		uc, _ := newUsecase(repos, txn)

		dto, err := uc.Generate(context.Background(), GenerateInput{TenantID: tenantID, TransactionID: txnID, GeneratedBy: userID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dto.QRPayload == `{"x":"y"}` {
			t.Fatal("reissue must produce a fresh payload")
		}
	})

	t.Run("pending GRN blocks generation", func(t *testing.T) {
		txn := readyTxn()
		repo := &transactionmock.Repo{
			GetLevelFn: func(_ context.Context, ref uint64, level int) (*transaction.LevelRecord, error) {
				return &transaction.LevelRecord{TransactionRef: ref, Level: level, ValidationStatus: transaction.ValidationPending}, nil
			},
		}
		repos := uow.Repos{Transactions: repo, Audits: &auditmock.Repo{}, Vehicles: knownVehicle()}
		uc, _ := newUsecase(repos, txn)

		_, err := uc.Generate(context.Background(), GenerateInput{TenantID: tenantID, TransactionID: txnID, GeneratedBy: userID})
		if !errors.Is(err, transaction.ErrValidation) {
			t.Fatalf("want validation error, got %v", err)
		}
	})

	t.Run("wrong level", func(t *testing.T) {
		txn := readyTxn()
		txn.CurrentLevel = transaction.LevelTareWeight
		repos := uow.Repos{Transactions: approvedGRN(), Audits: &auditmock.Repo{}, Vehicles: knownVehicle()}
		uc, _ := newUsecase(repos, txn)

		_, err := uc.Generate(context.Background(), GenerateInput{TenantID: tenantID, TransactionID: txnID, GeneratedBy: userID})
		if !errors.Is(err, transaction.ErrInvalidTransition) {
			t.Fatalf("want invalid transition, got %v", err)
		}
	})
}

// issue generates a real pass against txn and returns the payload string.
func issue(t *testing.T, txn *transaction.Transaction) string {
	t.Helper()
	repos := uow.Repos{Transactions: approvedGRN(), Audits: &auditmock.Repo{}, Vehicles: knownVehicle()}
	uc, _ := newUsecase(repos, txn)
	dto, err := uc.Generate(context.Background(), GenerateInput{TenantID: tenantID, TransactionID: txnID, GeneratedBy: userID})
	if err != nil {
		t.Fatalf("issue pass: %v", err)
	}
	return dto.QRPayload
}

func TestValidate(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		txn := readyTxn()
		payload := issue(t, txn)

		repos := uow.Repos{
			Transactions: &transactionmock.Repo{
				GetByTransactionIDFn: func(context.Context, string, string) (*transaction.Transaction, error) { return txn, nil },
			},
			Audits:   &auditmock.Repo{},
			Vehicles: knownVehicle(),
		}
		uc, _ := newUsecase(repos)

		res, err := uc.Validate(context.Background(), ValidateInput{TenantID: tenantID, QRPayload: payload, RequestedBy: userID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.Valid {
			t.Fatalf("freshly issued pass must validate: %+v", res)
		}
		if res.TransactionID != txnID {
			t.Fatalf("result transaction id: got %s", res.TransactionID)
		}
	})

	t.Run("garbage payload", func(t *testing.T) {
		uc, _ := newUsecase(uow.Repos{})
		res, err := uc.Validate(context.Background(), ValidateInput{TenantID: tenantID, QRPayload: "{not json", RequestedBy: userID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Valid || res.Reason != reasonBadFormat {
			t.Fatalf("want bad-format result, got %+v", res)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		uc, _ := newUsecase(uow.Repos{})
		res, err := uc.Validate(context.Background(), ValidateInput{TenantID: tenantID, QRPayload: `{"transactionId":"x"}`, RequestedBy: userID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Valid || res.Reason != reasonBadFormat {
			t.Fatalf("want bad-format result, got %+v", res)
		}
	})

	t.Run("any single character change invalidates", func(t *testing.T) {
		txn := readyTxn()
		payload := issue(t, txn)

		// flip one character inside the nonce
		idx := len(payload) - 3
		flipped := byte('0')
		if payload[idx] == flipped {
			flipped = '1'
		}
		tampered := payload[:idx] + string(flipped) + payload[idx+1:]

		audits := &auditmock.Repo{}
		repos := uow.Repos{
			Transactions: &transactionmock.Repo{
				GetByTransactionIDFn: func(context.Context, string, string) (*transaction.Transaction, error) { return txn, nil },
			},
			Audits:   audits,
			Vehicles: knownVehicle(),
		}
		uc, _ := newUsecase(repos)

		res, err := uc.Validate(context.Background(), ValidateInput{TenantID: tenantID, QRPayload: tampered, RequestedBy: userID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Valid {
			t.Fatal("tampered payload must not validate")
		}
		entries := audits.ByAction(audit.ActionGatePassTamperDetected)
		if len(entries) != 1 || !entries[0].IsSensitive || entries[0].Severity != audit.SeverityHigh {
			t.Fatalf("tampering must audit HIGH and sensitive: %+v", entries)
		}
	})

	t.Run("vehicle mismatch", func(t *testing.T) {
		txn := readyTxn()
		payload := issue(t, txn)

		repos := uow.Repos{
			Transactions: &transactionmock.Repo{
				GetByTransactionIDFn: func(context.Context, string, string) (*transaction.Transaction, error) { return txn, nil },
			},
			Audits: &auditmock.Repo{},
			Vehicles: &vehiclemock.Repo{
				GetByVehicleIDFn: func(context.Context, string, string) (*vehicle.Vehicle, error) {
					return &vehicle.Vehicle{ID: 5, VehicleNumber: "MH-02-XX-0000"}, nil
				},
			},
		}
		uc, _ := newUsecase(repos)

		res, err := uc.Validate(context.Background(), ValidateInput{TenantID: tenantID, QRPayload: payload, RequestedBy: userID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Valid || res.Reason != reasonVehicle {
			t.Fatalf("want vehicle mismatch, got %+v", res)
		}
	})

	t.Run("expired pass needs supervisor override", func(t *testing.T) {
		txn := readyTxn()
		payload := issue(t, txn)
		past := now.Add(-time.Minute)
		txn.GatePassExpiresAt = &past

		repos := uow.Repos{
			Transactions: &transactionmock.Repo{
				GetByTransactionIDFn: func(context.Context, string, string) (*transaction.Transaction, error) { return txn, nil },
			},
			Audits:   &auditmock.Repo{},
			Vehicles: knownVehicle(),
		}
		uc, _ := newUsecase(repos)

		res, err := uc.Validate(context.Background(), ValidateInput{TenantID: tenantID, QRPayload: payload, RequestedBy: userID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Valid || !res.RequiresSupervisorOverride || res.Reason != reasonExpired {
			t.Fatalf("want expired-with-override, got %+v", res)
		}
	})

	t.Run("unknown transaction", func(t *testing.T) {
		repos := uow.Repos{Transactions: &transactionmock.Repo{}, Audits: &auditmock.Repo{}, Vehicles: knownVehicle()}
		uc, _ := newUsecase(repos)

		res, err := uc.Validate(context.Background(), ValidateInput{
			TenantID:    tenantID,
			QRPayload:   `{"transactionId":"ffffffffffffffffffffffffffffffff","vehicleNumber":"KA-01-AB-1234","generatedAt":"2026-03-10T18:00:00Z","expiresAt":"2026-03-11T18:00:00Z","nonce":"n"}`,
			RequestedBy: userID,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Valid || res.Reason != reasonBadCode {
			t.Fatalf("want bad-code result, got %+v", res)
		}
	})
}

func TestProcessVehicleExit(t *testing.T) {
	t.Run("completes and locks the transaction", func(t *testing.T) {
		txn := readyTxn()
		issue(t, txn)

		audits := &auditmock.Repo{}
		vehicles := knownVehicle()
		repo := approvedGRN()
		repo.GetByTransactionIDFn = func(context.Context, string, string) (*transaction.Transaction, error) { return txn, nil }
		repos := uow.Repos{Transactions: repo, Audits: audits, Vehicles: vehicles}
		uc, _ := newUsecase(repos, txn)

		res, err := uc.ProcessVehicleExit(context.Background(), ExitInput{
			TenantID: tenantID, TransactionID: txnID, UserID: userID,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.Valid {
			t.Fatalf("exit must succeed: %+v", res)
		}
		if txn.Status != transaction.StatusCompleted || !txn.IsLocked || txn.CompletedAt == nil {
			t.Fatalf("transaction not closed: %+v", txn)
		}
		if len(vehicles.Visits) != 1 || vehicles.Visits[0].TransactionID != txnID {
			t.Fatalf("visit history not appended: %+v", vehicles.Visits)
		}
		if len(audits.ByAction(audit.ActionVehicleExitCompleted)) != 1 {
			t.Fatal("exit must be audited")
		}

		// second exit: the pass is already used
		_, err = uc.ProcessVehicleExit(context.Background(), ExitInput{TenantID: tenantID, TransactionID: txnID, UserID: userID})
		if !errors.Is(err, transaction.ErrValidation) {
			t.Fatalf("want validation error on reuse, got %v", err)
		}
	})

	t.Run("no pass issued", func(t *testing.T) {
		txn := readyTxn()
		repo := &transactionmock.Repo{
			GetByTransactionIDFn: func(context.Context, string, string) (*transaction.Transaction, error) { return txn, nil },
		}
		repos := uow.Repos{Transactions: repo, Audits: &auditmock.Repo{}, Vehicles: knownVehicle()}
		uc, _ := newUsecase(repos, txn)

		_, err := uc.ProcessVehicleExit(context.Background(), ExitInput{TenantID: tenantID, TransactionID: txnID, UserID: userID})
		if !errors.Is(err, transaction.ErrValidation) {
			t.Fatalf("want validation error, got %v", err)
		}
	})

	t.Run("expired pass surfaces the override requirement", func(t *testing.T) {
		txn := readyTxn()
		issue(t, txn)
		past := now.Add(-time.Minute)
		txn.GatePassExpiresAt = &past

		repo := approvedGRN()
		repo.GetByTransactionIDFn = func(context.Context, string, string) (*transaction.Transaction, error) { return txn, nil }
		repos := uow.Repos{Transactions: repo, Audits: &auditmock.Repo{}, Vehicles: knownVehicle()}
		uc, _ := newUsecase(repos, txn)

		res, err := uc.ProcessVehicleExit(context.Background(), ExitInput{TenantID: tenantID, TransactionID: txnID, UserID: userID})
		if !errors.Is(err, transaction.ErrValidation) {
			t.Fatalf("want validation error, got %v", err)
		}
		if res == nil || !res.RequiresSupervisorOverride {
			t.Fatalf("result must flag the override requirement: %+v", res)
		}
	})
}

func TestOverrideExpiredGatePass(t *testing.T) {
	t.Run("writes two audit entries and completes", func(t *testing.T) {
		txn := readyTxn()
		issue(t, txn)
		past := now.Add(-time.Minute)
		txn.GatePassExpiresAt = &past

		audits := &auditmock.Repo{}
		vehicles := knownVehicle()
		repo := approvedGRN()
		repo.GetByTransactionIDFn = func(context.Context, string, string) (*transaction.Transaction, error) { return txn, nil }
		repos := uow.Repos{Transactions: repo, Audits: audits, Vehicles: vehicles}
		uc, _ := newUsecase(repos, txn)

		res, err := uc.OverrideExpiredGatePass(context.Background(), OverrideInput{
			TenantID: tenantID, TransactionID: txnID, SupervisorID: userID,
			Justification: "paperwork delay at the gate office",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.Valid {
			t.Fatalf("override exit must succeed: %+v", res)
		}
		if txn.Status != transaction.StatusCompleted {
			t.Fatalf("status: want COMPLETED, got %s", txn.Status)
		}

		overrides := audits.ByAction(audit.ActionOverrideExpiredGatePass)
		if len(overrides) != 1 || !overrides[0].IsSensitive {
			t.Fatalf("override must audit sensitively: %+v", overrides)
		}
		if len(audits.ByAction(audit.ActionVehicleExitOverride)) != 1 {
			t.Fatal("the exit itself must audit with the override action")
		}
	})

	t.Run("justification required", func(t *testing.T) {
		uc, _ := newUsecase(uow.Repos{})
		_, err := uc.OverrideExpiredGatePass(context.Background(), OverrideInput{
			TenantID: tenantID, TransactionID: txnID, SupervisorID: userID,
		})
		if !errors.Is(err, transaction.ErrValidation) {
			t.Fatalf("want validation error, got %v", err)
		}
	})

	t.Run("unexpired pass refuses the override path", func(t *testing.T) {
		txn := readyTxn()
		issue(t, txn)

		repo := approvedGRN()
		repo.GetByTransactionIDFn = func(context.Context, string, string) (*transaction.Transaction, error) { return txn, nil }
		repos := uow.Repos{Transactions: repo, Audits: &auditmock.Repo{}, Vehicles: knownVehicle()}
		uc, _ := newUsecase(repos, txn)

		_, err := uc.OverrideExpiredGatePass(context.Background(), OverrideInput{
			TenantID: tenantID, TransactionID: txnID, SupervisorID: userID,
			Justification: "not needed",
		})
		if !errors.Is(err, transaction.ErrValidation) {
			t.Fatalf("want validation error, got %v", err)
		}
	})
}
