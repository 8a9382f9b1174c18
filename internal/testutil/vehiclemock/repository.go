package vehiclemock

import (
	"context"

	domain "scrapgate/internal/domain/vehicle"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn         func(ctx context.Context, v *domain.Vehicle) error
	GetByVehicleIDFn func(ctx context.Context, tenantID, vehicleID string) (*domain.Vehicle, error)
	SaveFn           func(ctx context.Context, v *domain.Vehicle) error
	AppendVisitFn    func(ctx context.Context, rec *domain.VisitRecord) error
	ListVisitsFn     func(ctx context.Context, vehicleRef uint64) ([]domain.VisitRecord, error)

	Visits []domain.VisitRecord
}

func (m *Repo) Create(ctx context.Context, v *domain.Vehicle) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, v)
	}
	return nil
}

func (m *Repo) GetByVehicleID(ctx context.Context, tenantID, vehicleID string) (*domain.Vehicle, error) {
	if m.GetByVehicleIDFn != nil {
		return m.GetByVehicleIDFn(ctx, tenantID, vehicleID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) Save(ctx context.Context, v *domain.Vehicle) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, v)
	}
	return nil
}

func (m *Repo) AppendVisit(ctx context.Context, rec *domain.VisitRecord) error {
	if m.AppendVisitFn != nil {
		return m.AppendVisitFn(ctx, rec)
	}
	m.Visits = append(m.Visits, *rec)
	return nil
}

func (m *Repo) ListVisits(ctx context.Context, vehicleRef uint64) ([]domain.VisitRecord, error) {
	if m.ListVisitsFn != nil {
		return m.ListVisitsFn(ctx, vehicleRef)
	}
	return m.Visits, nil
}
