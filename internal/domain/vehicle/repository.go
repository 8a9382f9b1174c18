package vehicle

import "context"

type Repository interface {
	Create(ctx context.Context, v *Vehicle) error
	GetByVehicleID(ctx context.Context, tenantID, vehicleID string) (*Vehicle, error)
	Save(ctx context.Context, v *Vehicle) error
	AppendVisit(ctx context.Context, rec *VisitRecord) error
	ListVisits(ctx context.Context, vehicleRef uint64) ([]VisitRecord, error)
}
