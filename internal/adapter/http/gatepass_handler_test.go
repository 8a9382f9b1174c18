package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"strings"
	"testing"
	"time"

	"scrapgate/internal/domain/lock"
	txDomain "scrapgate/internal/domain/transaction"
	"scrapgate/internal/domain/uow"
	vehDomain "scrapgate/internal/domain/vehicle"
	"scrapgate/internal/testutil/auditmock"
	"scrapgate/internal/testutil/clockmock"
	"scrapgate/internal/testutil/evidencemock"
	"scrapgate/internal/testutil/transactionmock"
	"scrapgate/internal/testutil/uowmock"
	"scrapgate/internal/testutil/vehiclemock"
	uc "scrapgate/internal/usecase/gatepass"
	"scrapgate/pkg/logger"
)

type stubEncoder struct{}

func (stubEncoder) Encode(string) ([]byte, error) { return []byte{0x89, 'P', 'N', 'G'}, nil }

func gatepassFixture(rows ...*txDomain.Transaction) (*uc.Usecase, *auditmock.Repo) {
	audits := &auditmock.Repo{}
	repos := uow.Repos{
		Transactions: &transactionmock.Repo{
			GetLevelFn: func(_ context.Context, ref uint64, level int) (*txDomain.LevelRecord, error) {
				return &txDomain.LevelRecord{
					TransactionRef:   ref,
					Level:            level,
					ValidationStatus: txDomain.ValidationApproved,
				}, nil
			},
		},
		Evidence: &evidencemock.Repo{},
		Audits:   audits,
		Vehicles: &vehiclemock.Repo{
			GetByVehicleIDFn: func(_ context.Context, tenantID, vehicleID string) (*vehDomain.Vehicle, error) {
				return &vehDomain.Vehicle{ID: 7, TenantID: tenantID, VehicleID: vehicleID, VehicleNumber: "KA-01-AB-1234"}, nil
			},
		},
	}
	clk := clockmock.At(time.Date(2026, 5, 20, 14, 0, 0, 0, time.UTC))
	usecase := uc.NewUsecase(uowmock.Passthrough(repos, rows...), clk, stubEncoder{}, lock.Nop{}, 24, logger.Nop())
	return usecase, audits
}

func TestGenerateGatePass_Success(t *testing.T) {
	e := newEchoWithValidator()
	row := &txDomain.Transaction{
		ID:            1,
		TransactionID: strings.Repeat("a", 32),
		TenantID:      tenantA,
		VehicleID:     strings.Repeat("b", 32),
		CurrentLevel:  txDomain.LevelGRNGeneration,
		Status:        txDomain.StatusActive,
	}
	usecase, _ := gatepassFixture(row)
	h := NewGatePassHandler(usecase)

	c, rec := newCtx(e, stdhttp.MethodPost, "/api/v1/transactions/x/gate-pass", mustJSON(map[string]any{}))
	c.SetParamNames("transaction_id")
	c.SetParamValues(row.TransactionID)

	if err := h.Generate(c); err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("status = %d, want 201, body=%s", rec.Code, rec.Body.String())
	}
	var got uc.GatePassDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if got.CurrentLevel != txDomain.LevelGatePassExit {
		t.Fatalf("level = %d, want 7", got.CurrentLevel)
	}
	if !strings.Contains(got.QRPayload, "KA-01-AB-1234") {
		t.Fatalf("payload missing vehicle number: %s", got.QRPayload)
	}
	// default validity: 24h from the fixture clock
	want := time.Date(2026, 5, 21, 14, 0, 0, 0, time.UTC)
	if !got.ExpiresAt.Equal(want) {
		t.Fatalf("expires_at = %v, want %v", got.ExpiresAt, want)
	}
}

func TestGenerateGatePass_ValidityOutOfRange(t *testing.T) {
	e := newEchoWithValidator()
	usecase, _ := gatepassFixture()
	h := NewGatePassHandler(usecase)

	c, rec := newCtx(e, stdhttp.MethodPost, "/api/v1/transactions/x/gate-pass",
		mustJSON(map[string]any{"validity_hours": 200}))
	c.SetParamNames("transaction_id")
	c.SetParamValues("x")

	if err := h.Generate(c); err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestGenerateGatePass_WrongLevel(t *testing.T) {
	e := newEchoWithValidator()
	row := &txDomain.Transaction{
		ID:            2,
		TransactionID: strings.Repeat("c", 32),
		TenantID:      tenantA,
		CurrentLevel:  txDomain.LevelTareWeight,
		Status:        txDomain.StatusActive,
	}
	usecase, _ := gatepassFixture(row)
	h := NewGatePassHandler(usecase)

	c, rec := newCtx(e, stdhttp.MethodPost, "/api/v1/transactions/x/gate-pass", mustJSON(map[string]any{}))
	c.SetParamNames("transaction_id")
	c.SetParamValues(row.TransactionID)

	if err := h.Generate(c); err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body=%s", rec.Code, rec.Body.String())
	}
}

func TestValidateGatePass_BadPayloadIsAResult(t *testing.T) {
	e := newEchoWithValidator()
	usecase, _ := gatepassFixture()
	h := NewGatePassHandler(usecase)

	c, rec := newCtx(e, stdhttp.MethodPost, "/api/v1/gate-pass/validate",
		mustJSON(map[string]any{"qr_payload": "{not json"}))

	if err := h.Validate(c); err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	// a bad pass is a 200 with valid=false, never an error status
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", rec.Code, rec.Body.String())
	}
	var got uc.ValidationResult
	_ = json.Unmarshal(rec.Body.Bytes(), &got)
	if got.Valid || got.Reason == "" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestProcessExit_NoPassIssued(t *testing.T) {
	e := newEchoWithValidator()
	row := &txDomain.Transaction{
		ID:            3,
		TransactionID: strings.Repeat("d", 32),
		TenantID:      tenantA,
		CurrentLevel:  txDomain.LevelGRNGeneration,
		Status:        txDomain.StatusActive,
	}
	usecase, _ := gatepassFixture(row)
	h := NewGatePassHandler(usecase)

	c, rec := newCtx(e, stdhttp.MethodPost, "/api/v1/transactions/x/exit", nil)
	c.SetParamNames("transaction_id")
	c.SetParamValues(row.TransactionID)

	if err := h.Exit(c); err != nil {
		t.Fatalf("Exit error: %v", err)
	}
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body=%s", rec.Code, rec.Body.String())
	}
}

func TestOverrideExpired_RequiresJustification(t *testing.T) {
	e := newEchoWithValidator()
	usecase, _ := gatepassFixture()
	h := NewGatePassHandler(usecase)

	c, rec := newCtx(e, stdhttp.MethodPost, "/api/v1/transactions/x/exit/override", mustJSON(map[string]any{}))
	c.SetParamNames("transaction_id")
	c.SetParamValues("x")

	if err := h.OverrideExpired(c); err != nil {
		t.Fatalf("OverrideExpired error: %v", err)
	}
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}
