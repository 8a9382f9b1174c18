package mysql

import (
	"context"

	"gorm.io/gorm"

	vehicleDomain "scrapgate/internal/domain/vehicle"
)

type VehicleRepository struct{ db *gorm.DB }

func NewVehicleRepository(db *gorm.DB) *VehicleRepository { return &VehicleRepository{db: db} }

func (r *VehicleRepository) Create(ctx context.Context, v *vehicleDomain.Vehicle) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *VehicleRepository) Save(ctx context.Context, v *vehicleDomain.Vehicle) error {
	return r.db.WithContext(ctx).Save(v).Error
}

func (r *VehicleRepository) GetByVehicleID(ctx context.Context, tenantID, vehicleID string) (*vehicleDomain.Vehicle, error) {
	var out vehicleDomain.Vehicle
	res := r.db.WithContext(ctx).
		Where("tenant_id = ? AND vehicle_id = ?", tenantID, vehicleID).
		First(&out)
	return &out, res.Error
}

func (r *VehicleRepository) AppendVisit(ctx context.Context, rec *vehicleDomain.VisitRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *VehicleRepository) ListVisits(ctx context.Context, vehicleRef uint64) ([]vehicleDomain.VisitRecord, error) {
	var out []vehicleDomain.VisitRecord
	res := r.db.WithContext(ctx).
		Where("vehicle_ref = ?", vehicleRef).
		Order("visit_date DESC, id DESC").
		Find(&out)
	return out, res.Error
}
