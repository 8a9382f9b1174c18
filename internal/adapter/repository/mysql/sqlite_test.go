package mysql

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	vehicleDomain "scrapgate/internal/domain/vehicle"
)

// --- SQLite-friendly schemas only for tests (no ENUM, no DECIMAL) ---

type transactionSQLite struct {
	ID                uint64 `gorm:"primaryKey;column:id"`
	TransactionID     string `gorm:"size:32"`
	TenantID          string `gorm:"size:32"`
	FactoryID         string `gorm:"size:32"`
	VendorID          string `gorm:"size:32"`
	VendorName        string `gorm:"size:128"`
	FactoryName       string `gorm:"size:128"`
	VehicleID         string `gorm:"size:32"`
	TransactionNumber string `gorm:"size:64"`

	CurrentLevel int    `gorm:"default:1"`
	Status       string `gorm:"type:text"` // ← no enum
	IsLocked     bool
	LockReason   string `gorm:"type:text"`

	GrossWeight          string `gorm:"type:text"` // ← no decimal
	TareWeight           string `gorm:"type:text"`
	NetWeight            string `gorm:"type:text"`
	DiscrepancyPct       string `gorm:"type:text"`
	RequiresApproval     bool
	GrossWeightAt        *time.Time
	TareWeightAt         *time.Time
	GrossWeightOperator  string `gorm:"size:32"`
	TareWeightOperator   string `gorm:"size:32"`
	WeighbridgeTicketURL string `gorm:"type:text"`

	GRNNumber string `gorm:"size:64"`

	GatePassQRCode    string `gorm:"type:text"`
	GatePassExpiresAt *time.Time

	CompletedAt    *time.Time
	StateUpdatedAt time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt
}

func (transactionSQLite) TableName() string { return "transactions" }

type levelRecordSQLite struct {
	ID               uint64 `gorm:"primaryKey;column:id"`
	TransactionRef   uint64 `gorm:"column:transaction_ref"`
	Level            int
	FieldValues      string `gorm:"type:text"`
	CompletedBy      string `gorm:"size:32"`
	CompletedAt      time.Time
	EvidenceIDs      string `gorm:"type:text"`
	ValidationStatus string `gorm:"type:text"` // ← no enum
	Notes            string `gorm:"type:text"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (levelRecordSQLite) TableName() string { return "transaction_levels" }

type evidenceSQLite struct {
	ID               uint64 `gorm:"primaryKey;column:id"`
	EvidenceID       string `gorm:"size:32"`
	TransactionID    string `gorm:"size:32"`
	TenantID         string `gorm:"size:32"`
	CapturedBy       string `gorm:"size:32"`
	OperationalLevel int
	EvidenceType     string `gorm:"type:text"` // ← no enum
	FilePath         string `gorm:"type:text"`
	FileHash         string `gorm:"size:64"`
	FileSize         int64
	Metadata         string `gorm:"type:text"`
	CapturedAt       time.Time
	CreatedAt        time.Time
}

func (evidenceSQLite) TableName() string { return "evidence" }

type auditEntrySQLite struct {
	ID            uint64 `gorm:"primaryKey;column:id"`
	EntryID       string `gorm:"size:32"`
	TenantID      string `gorm:"size:32"`
	UserID        string `gorm:"size:32"`
	TransactionID string `gorm:"size:32"`
	Action        string `gorm:"size:64"`
	EntityType    string `gorm:"size:32"`
	EntityID      string `gorm:"size:64"`
	OldValues     string `gorm:"type:text"`
	NewValues     string `gorm:"type:text"`
	Severity      string `gorm:"type:text"` // ← no enum
	IsSensitive   bool
	CreatedAt     time.Time
}

func (auditEntrySQLite) TableName() string { return "audit_log" }

// openTestDB creates an in-memory sqlite DB and migrates ONLY the
// sqlite-safe schemas. Vehicle tables carry no MySQL-only column types, so
// the domain models migrate as-is.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&transactionSQLite{},
		&levelRecordSQLite{},
		&evidenceSQLite{},
		&auditEntrySQLite{},
		&vehicleDomain.Vehicle{},
		&vehicleDomain.VisitRecord{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}
