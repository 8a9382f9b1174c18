package vehicle

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("vehicle not found")

type Vehicle struct {
	ID            uint64         `gorm:"primaryKey;column:id" json:"-"`
	VehicleID     string         `gorm:"size:32;uniqueIndex:ux_vehicles_vehicle_id_active" json:"vehicle_id"`
	TenantID      string         `gorm:"size:32;index" json:"tenant_id"`
	VehicleNumber string         `gorm:"size:32;index" json:"vehicle_number"`
	DriverName    string         `gorm:"size:128" json:"driver_name"`
	DriverPhone   string         `gorm:"size:32" json:"driver_phone"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Vehicle) TableName() string { return "vehicles" }

// VisitRecord is one completed pass through the yard, appended at exit.
type VisitRecord struct {
	ID            uint64    `gorm:"primaryKey;column:id" json:"-"`
	VehicleRef    uint64    `gorm:"column:vehicle_ref;not null;index" json:"-"`
	TransactionID string    `gorm:"size:32" json:"transaction_id"`
	FactoryID     string    `gorm:"size:32" json:"factory_id"`
	VisitDate     time.Time `json:"visit_date"`
	Status        string    `gorm:"size:16" json:"status"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"-"`
}

func (VisitRecord) TableName() string { return "vehicle_visits" }
